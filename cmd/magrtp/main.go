// Copyright 2026 The magrtp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command magrtp reduces magnetic anomaly profiles stored as CSV files to the pole.
//
// Usage:
//
//	$> magrtp [options] profile.csv [profile2.csv ...]
//
// For each input file, magrtp writes <name>_rtp.csv (the input table plus a
// RTP_Processed column) in the output directory, and optionally a PNG plot
// and an interactive HTML chart.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lsst-lpc/magrtp"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"
)

func main() {
	def := magrtp.DefaultParams()

	var (
		dxFlag   = flag.String("dx", strconv.FormatFloat(def.Spacing, 'g', -1, 64), `sample spacing in meters, or "auto" to use the median distance step`)
		incFlag  = flag.Float64("inc", def.Inclination, "Earth field inclination (degrees)")
		decFlag  = flag.Float64("dec", def.Declination, "Earth field declination (degrees)")
		azFlag   = flag.Float64("az", def.Azimuth, "profile azimuth, clockwise from North (degrees)")
		xcolFlag = flag.String("x", "", "name of the distance column (default: guessed from the header)")
		ycolFlag = flag.String("y", "", "name of the anomaly column (default: guessed from the header)")
		cfgFlag  = flag.String("config", "", "YAML file with spacing/inclination/declination/azimuth")
		odirFlag = flag.String("o", ".", "output directory")
		pngFlag  = flag.Bool("png", false, "also write a PNG plot of each profile")
		htmlFlag = flag.Bool("html", false, "also write an interactive HTML chart of each profile")
		quiet    = flag.Bool("q", false, "do not display the progress bar")
		verbose  = flag.Bool("v", false, "enable debug messages")
	)

	flag.Usage = func() {
		fmt.Fprintf(
			os.Stderr,
			`Usage: magrtp [options] file1.csv [file2.csv ...]

ex:

 $> magrtp -dx 10 -inc 42.3 -dec 0.9719 -az 90 -png profile.csv

options:
`,
		)
		flag.PrintDefaults()
	}

	flag.Parse()

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Str("cmd", "magrtp").Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	params := def
	if *cfgFlag != "" {
		var err error
		params, err = magrtp.ReadParamsFile(*cfgFlag)
		if err != nil {
			log.Fatal().Err(err).Str("config", *cfgFlag).Msg("could not read parameters")
		}
	}

	job := job{
		cols: magrtp.Columns{Distance: *xcolFlag, Anomaly: *ycolFlag},
		odir: *odirFlag,
		png:  *pngFlag,
		html: *htmlFlag,
	}

	var err error
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "dx":
			job.autoDx, params.Spacing, err = parseSpacing(*dxFlag)
		case "inc":
			params.Inclination = *incFlag
		case "dec":
			params.Declination = *decFlag
		case "az":
			params.Azimuth = *azFlag
		}
	})
	if err != nil {
		log.Fatal().Err(err).Msg("invalid -dx value")
	}
	job.params = params

	err = os.MkdirAll(job.odir, 0755)
	if err != nil {
		log.Fatal().Err(err).Str("dir", job.odir).Msg("could not create output directory")
	}

	log.Debug().
		Bool("auto-dx", job.autoDx).
		Float64("spacing", params.Spacing).
		Float64("inclination", params.Inclination).
		Float64("declination", params.Declination).
		Float64("azimuth", params.Azimuth).
		Msg("parameters")

	bar := progressbar.NewOptions(
		flag.NArg(),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetDescription("reducing to pole..."),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetVisibility(!*quiet),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]=[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)

	err = checkOutputs(job.odir, flag.Args())
	if err != nil {
		log.Fatal().Err(err).Msg("invalid input files")
	}

	var grp errgroup.Group
	for _, fname := range flag.Args() {
		fname := fname
		grp.Go(func() error {
			err := job.process(fname)
			if err != nil {
				return errors.Wrapf(err, "could not process %q", fname)
			}
			return bar.Add(1)
		})
	}
	err = grp.Wait()
	_ = bar.Finish()
	if err != nil {
		log.Fatal().Err(err).Msg("processing failed")
	}
}

// parseSpacing parses the -dx flag value.
func parseSpacing(s string) (auto bool, dx float64, err error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "auto") {
		return true, 0, nil
	}
	dx, err = strconv.ParseFloat(s, 64)
	if err != nil {
		return false, 0, errors.Wrapf(err, "could not parse spacing %q", s)
	}
	if dx <= 0 {
		return false, 0, errors.Errorf("spacing must be positive (got %v)", dx)
	}
	return false, dx, nil
}

// outputName returns the output path, without extension, of an input file.
func outputName(odir, fname string) string {
	bname := strings.TrimSuffix(filepath.Base(fname), filepath.Ext(fname))
	return filepath.Join(odir, bname+"_rtp")
}

// checkOutputs makes sure no two input files write to the same outputs.
func checkOutputs(odir string, fnames []string) error {
	seen := make(map[string]string, len(fnames))
	for _, fname := range fnames {
		oname := outputName(odir, fname)
		if prev, dup := seen[oname]; dup {
			return errors.Errorf("files %q and %q would both be written to %q", prev, fname, oname+".csv")
		}
		seen[oname] = fname
	}
	return nil
}

type job struct {
	params magrtp.Params
	autoDx bool
	cols   magrtp.Columns
	odir   string
	png    bool
	html   bool
}

func (job job) process(fname string) error {
	prof, err := magrtp.ReadProfileFile(fname, job.cols)
	if err != nil {
		return errors.Wrap(err, "could not load profile")
	}

	params := job.params
	if job.autoDx {
		params.Spacing, err = magrtp.EstimateSpacing(prof.Distance)
		if err != nil {
			return errors.Wrap(err, "could not estimate spacing")
		}
	}

	log.Info().
		Str("file", fname).
		Str("distance", prof.Header[prof.XCol]).
		Str("anomaly", prof.Header[prof.YCol]).
		Int("points", prof.Len()).
		Float64("spacing", params.Spacing).
		Msg("running")

	rtp, err := prof.RTP(params)
	if err != nil {
		return err
	}

	m, err := magrtp.PadLen(prof.Len())
	if err != nil {
		return err
	}
	log.Debug().Str("file", fname).Int("pad", m).Msg("reduced")

	var (
		spec  magrtp.Spectrum
		oname = outputName(job.odir, fname)
		title = fmt.Sprintf("%s -- RTP (I=%v°, D=%v°, az=%v°)", filepath.Base(fname), params.Inclination, params.Declination, params.Azimuth)
	)

	err = magrtp.SaveFile(oname+".csv", prof, rtp)
	if err != nil {
		return err
	}

	if job.png {
		spec, err = prof.Spectrum(params)
		if err != nil {
			return err
		}
		err = writeTo(oname+".png", func(f *os.File) error {
			return magrtp.WritePNG(f, title, prof, rtp, spec)
		})
		if err != nil {
			return err
		}
	}

	if job.html {
		err = writeTo(oname+".html", func(f *os.File) error {
			return magrtp.Chart(f, title, prof, rtp)
		})
		if err != nil {
			return err
		}
	}

	log.Info().Str("file", fname).Str("output", oname+".csv").Msg("done")
	return nil
}

func writeTo(oname string, fct func(f *os.File) error) error {
	o, err := os.Create(oname)
	if err != nil {
		return errors.Wrapf(err, "could not create output file %q", oname)
	}
	defer o.Close()

	err = fct(o)
	if err != nil {
		return err
	}

	err = o.Close()
	if err != nil {
		return errors.Wrapf(err, "could not close output file %q", oname)
	}
	return nil
}
