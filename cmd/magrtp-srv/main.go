// Copyright 2026 The magrtp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command magrtp-srv runs a web server reducing uploaded magnetic profiles to the pole.
package main

import (
	"crypto/tls"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/acme/autocert"
)

var (
	addrFlag = flag.String("addr", ":8080", "server address:port")
	servFlag = flag.String("serv", "http", "server protocol")
	hostFlag = flag.String("host", "", "server domain name for TLS ")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(
			os.Stderr,
			`Usage: magrtp-srv [options]

ex:

 $> magrtp-srv -addr :8080 -serv https -host example.com
 3:13PM INF https server listening addr=:8080 host=example.com

options:
`,
		)
		flag.PrintDefaults()
	}

	flag.Parse()

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Str("cmd", "magrtp-srv").Logger()

	dir, err := os.MkdirTemp("", "magrtp-srv-")
	if err != nil {
		log.Panic().Err(err).Msg("could not create temporary directory")
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)

	run(dir, c)
}

func run(dir string, c chan os.Signal) {
	defer func() {
		log.Info().Msg("shutdown sequence...")
		log.Info().Str("dir", dir).Msg("removing directory...")
		os.RemoveAll(dir)
	}()

	log.Info().Str("addr", *addrFlag).Str("host", *hostFlag).Msgf("%s server listening", *servFlag)

	reg := prometheus.NewRegistry()
	srv := newServer(dir, http.DefaultServeMux, reg)
	defer srv.Shutdown()

	go func() {
		switch *servFlag {
		case "http":
			log.Fatal().Err(http.ListenAndServe(*addrFlag, nil)).Msg("server stopped")
		case "https":
			m := autocert.Manager{
				Prompt:     autocert.AcceptTOS,
				HostPolicy: autocert.HostWhitelist(*hostFlag),
				Cache:      autocert.DirCache("certs"), //folder for storing certificates
			}
			server := &http.Server{
				Addr: *addrFlag,
				TLSConfig: &tls.Config{
					GetCertificate: m.GetCertificate,
				},
			}
			log.Fatal().Err(server.ListenAndServeTLS("", "")).Msg("server stopped")
		default:
			log.Fatal().Str("serv", *servFlag).Msg("unknown server protocol")
		}
	}()
	<-c
}
