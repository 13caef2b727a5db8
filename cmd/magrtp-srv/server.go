// Copyright 2026 The magrtp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	uuid "github.com/hashicorp/go-uuid"
	"github.com/lsst-lpc/magrtp"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

const cookieName = "MAGRTP_SRV"

type server struct {
	dir     string
	quit    chan int
	metrics *metrics

	mu      sync.RWMutex
	cookies map[string]*http.Cookie
	ids     map[string]map[string]struct{}
}

func newServer(dir string, mux *http.ServeMux, reg *prometheus.Registry) *server {
	app := &server{
		dir:     dir,
		quit:    make(chan int),
		metrics: newMetrics(reg),
		cookies: make(map[string]*http.Cookie),
		ids:     make(map[string]map[string]struct{}),
	}
	go app.run()

	mux.Handle("/", app.wrap(app.rootHandle))
	mux.Handle("/run", app.wrap(app.runHandle))
	mux.Handle("/dl", app.wrap(app.dlHandle))
	mux.Handle("/rm", app.wrap(app.rmHandle))
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return app
}

func (srv *server) run() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	srv.gc()
	for {
		select {
		case <-ticker.C:
			srv.gc()
		case <-srv.quit:
			return
		}
	}
}

func (srv *server) Shutdown() {
	close(srv.quit)
}

// gc removes the sessions whose cookie expired, together with their results.
func (srv *server) gc() {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	now := time.Now()
	for name, cookie := range srv.cookies {
		if !now.After(cookie.Expires) {
			continue
		}
		for id := range srv.ids[cookie.Value] {
			os.RemoveAll(filepath.Join(srv.dir, "id", id))
		}
		delete(srv.ids, cookie.Value)
		delete(srv.cookies, name)
	}
}

func (srv *server) setCookie(w http.ResponseWriter, r *http.Request) error {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	cookie, err := r.Cookie(cookieName)
	if err != nil && err != http.ErrNoCookie {
		return err
	}

	if cookie != nil {
		return nil
	}

	v, err := uuid.GenerateUUID()
	if err != nil {
		return errors.Wrapf(err, "could not generate UUID")
	}

	cookie = &http.Cookie{
		Name:    cookieName,
		Value:   v,
		Expires: time.Now().Add(24 * time.Hour),
	}
	srv.cookies[cookie.Value] = cookie
	srv.ids[cookie.Value] = make(map[string]struct{})
	http.SetCookie(w, cookie)
	return nil
}

// httpError carries the status code a handler wants to reply with.
type httpError struct {
	code int
	err  error
}

func (e *httpError) Error() string { return e.err.Error() }
func (e *httpError) Unwrap() error { return e.err }

func badRequest(err error) error {
	return &httpError{code: http.StatusBadRequest, err: err}
}

func statusOf(err error) int {
	var (
		herr *httpError
		ierr *magrtp.InvalidInputError
		nerr *magrtp.NumericalError
	)
	switch {
	case errors.As(err, &herr):
		return herr.code
	case errors.As(err, &ierr):
		return http.StatusBadRequest
	case errors.As(err, &nerr):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (srv *server) wrap(fn func(w http.ResponseWriter, r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := srv.setCookie(w, r)
		if err != nil {
			log.Error().Err(err).Msg("could not retrieve cookie")
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		if err := fn(w, r); err != nil {
			log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
			http.Error(w, err.Error(), statusOf(err))
		}
	}
}

func (srv *server) rootHandle(w http.ResponseWriter, r *http.Request) error {
	switch r.Method {
	case http.MethodGet:
		// ok
	default:
		return &httpError{
			code: http.StatusMethodNotAllowed,
			err:  errors.Errorf("invalid request %q for /", r.Method),
		}
	}

	t, err := template.New("upload").Parse(page)
	if err != nil {
		return err
	}

	return t.Execute(w, magrtp.DefaultParams())
}

func (srv *server) runHandle(w http.ResponseWriter, r *http.Request) error {
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return badRequest(errors.Wrap(err, "could not retrieve cookie"))
	}

	err = r.ParseMultipartForm(500 << 20)
	if err != nil {
		return badRequest(errors.Wrapf(err, "could not parse multipart form"))
	}

	id, err := formID(r.PostFormValue("id"))
	if err != nil {
		return err
	}

	params, err := formParams(r)
	if err != nil {
		return err
	}

	f, handler, err := r.FormFile("input-file")
	if err != nil {
		return badRequest(errors.Wrapf(err, "could not access input file"))
	}
	defer f.Close()
	fname := handler.Filename
	if strings.HasPrefix(fname, `C:\fakepath\`) {
		fname = string(fname[len(`C:\fakepath\`):])
	}
	fname = filepath.Base(fname)

	cols := magrtp.Columns{
		Distance: r.PostFormValue("xcol"),
		Anomaly:  r.PostFormValue("ycol"),
	}
	prof, err := magrtp.Load(f, cols)
	if err != nil {
		srv.metrics.observe("invalid", 0, 0)
		return badRequest(errors.Wrapf(err, "could not load input file"))
	}

	log.Info().
		Str("file", fname).
		Str("id", id).
		Int("points", prof.Len()).
		Float64("spacing", params.Spacing).
		Float64("inclination", params.Inclination).
		Float64("declination", params.Declination).
		Float64("azimuth", params.Azimuth).
		Msg("running")

	start := time.Now()
	rtp, err := prof.RTP(params)
	if err != nil {
		status := "invalid"
		if statusOf(err) == http.StatusUnprocessableEntity {
			status = "numerical"
		}
		srv.metrics.observe(status, 0, 0)
		return errors.Wrapf(err, "could not reduce %q to the pole", fname)
	}
	srv.metrics.observe("ok", time.Since(start).Seconds(), prof.Len())

	spec, err := prof.Spectrum(params)
	if err != nil {
		return errors.Wrapf(err, "could not compute spectrum of %q", fname)
	}

	title := fmt.Sprintf("%s -- RTP (I=%v°, D=%v°, az=%v°)", fname, params.Inclination, params.Declination, params.Azimuth)
	img := new(bytes.Buffer)
	err = magrtp.WritePNG(img, title, prof, rtp, spec)
	if err != nil {
		return errors.Wrapf(err, "could not create in-memory plot")
	}

	dir := filepath.Join(srv.dir, "id", id)
	err = srv.save(dir, fname, img.Bytes(), prof, rtp)
	if err != nil {
		os.RemoveAll(dir)
		return errors.Wrapf(err, "could not save report for %q", fname)
	}

	srv.mu.Lock()
	if srv.ids[cookie.Value] == nil {
		srv.ids[cookie.Value] = make(map[string]struct{})
	}
	srv.ids[cookie.Value][id] = struct{}{}
	srv.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	err = json.NewEncoder(w).Encode(struct {
		Image  string `json:"data"`
		Points int    `json:"points"`
	}{
		Image:  base64.StdEncoding.EncodeToString(img.Bytes()),
		Points: prof.Len(),
	})
	if err != nil {
		return errors.Wrapf(err, "could not encode to json")
	}

	return nil
}

func (srv *server) dlHandle(w http.ResponseWriter, r *http.Request) error {
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return badRequest(errors.Wrap(err, "could not retrieve cookie"))
	}

	err = r.ParseForm()
	if err != nil {
		return badRequest(errors.Wrapf(err, "could not parse form"))
	}

	id, err := formID(r.Form.Get("id"))
	if err != nil {
		return err
	}

	srv.mu.RLock()
	defer srv.mu.RUnlock()
	if _, ok := srv.ids[cookie.Value][id]; !ok {
		return &httpError{code: http.StatusNotFound, err: errors.Errorf("unknown ID %q", id)}
	}

	dir := filepath.Join(srv.dir, "id", id)

	matches, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return errors.Wrapf(err, "could not find data file report for %q", id)
	}

	if len(matches) != 1 {
		return errors.Errorf("invalid number of data file report(s) for id %q: got=%d, want=1", id, len(matches))
	}

	fname := matches[0]
	f, err := os.Open(fname)
	if err != nil {
		return errors.Wrapf(err, "could not open data file report for id %q", id)
	}
	defer f.Close()

	w.Header().Set("Content-Description", "File Transfer")
	w.Header().Set("Content-Disposition", "attachment; filename="+filepath.Base(fname))
	w.Header().Set("Content-Type", "text/csv")

	_, err = io.Copy(w, f)
	if err != nil {
		return errors.Wrapf(err, "could not copy data file report for id %q", id)
	}

	return nil
}

func (srv *server) rmHandle(w http.ResponseWriter, r *http.Request) error {
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return badRequest(errors.Wrap(err, "could not retrieve cookie"))
	}

	err = r.ParseMultipartForm(500 << 20)
	if err != nil {
		return badRequest(errors.Wrapf(err, "could not parse multipart form"))
	}

	id, err := formID(r.PostFormValue("id"))
	if err != nil {
		return err
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()
	if _, ok := srv.ids[cookie.Value][id]; !ok {
		return &httpError{code: http.StatusNotFound, err: errors.Errorf("unknown ID %q", id)}
	}
	delete(srv.ids[cookie.Value], id)

	dir := filepath.Join(srv.dir, "id", id)
	err = os.RemoveAll(dir)
	if err != nil {
		return errors.Wrapf(err, "could not remove output results directory %q", id)
	}

	return nil
}

func (srv *server) save(dir, fname string, img []byte, prof magrtp.Profile, rtp []float64) error {
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return errors.Wrapf(err, "could not create output directory %s for results", filepath.Base(dir))
	}

	bname := strings.TrimSuffix(fname, filepath.Ext(fname))
	err = os.WriteFile(filepath.Join(dir, bname+".png"), img, 0644)
	if err != nil {
		return errors.Wrapf(err, "could not save plot %q", bname+".png")
	}

	return magrtp.SaveFile(filepath.Join(dir, bname+"_rtp.csv"), prof, rtp)
}

// formID validates a result identifier sent by the client.
// Identifiers are used as directory names.
func formID(id string) (string, error) {
	if id == "" {
		return "", badRequest(errors.Errorf("invalid form ID"))
	}
	if _, err := uuid.ParseUUID(id); err != nil {
		return "", badRequest(errors.Wrapf(err, "invalid form ID %q", id))
	}
	return id, nil
}

// formParams reads the survey parameters of a run request.
// Missing values keep their default.
func formParams(r *http.Request) (magrtp.Params, error) {
	params := magrtp.DefaultParams()
	for _, field := range []struct {
		name string
		ptr  *float64
	}{
		{"spacing", &params.Spacing},
		{"inclination", &params.Inclination},
		{"declination", &params.Declination},
		{"azimuth", &params.Azimuth},
	} {
		v := strings.TrimSpace(r.PostFormValue(field.name))
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return params, badRequest(errors.Wrapf(err, "could not parse %s", field.name))
		}
		*field.ptr = f
	}
	return params, nil
}

const page = `<html>
<head>
    <title>Reduction to pole (1-D)</title>

	<meta name="viewport" content="width=device-width, initial-scale=1">
	<link rel="stylesheet" href="https://www.w3schools.com/w3css/3/w3.css">
	<script src="https://ajax.googleapis.com/ajax/libs/jquery/3.1.1/jquery.min.js"></script>

	<style>
	.loader {
		border: 16px solid #f3f3f3;
		border-radius: 50%;
		border-top: 16px solid #3498db;
		width: 120px;
		height: 120px;
		animation: spin 2s linear infinite;
	}

	@keyframes spin {
		0% { transform: rotate(0deg); }
		100% { transform: rotate(360deg); }
	}
	</style>

<script type="text/javascript">
	"use strict"

	function run() {
		var id = uuidv4();

		var file = $("#input-file")[0].files[0];
		var uri = $("#input-file").val();

		var data = new FormData();
		data.append("input-file", file, uri);
		data.append("id", id);
		["spacing", "inclination", "declination", "azimuth", "xcol", "ycol"].forEach(function(name) {
			data.append(name, $("#"+name).val());
		});

		plotPlaceholder(id);

		$.ajax({
			url: "/run",
			method: "POST",
			data: data,
			processData: false,
			contentType: false,
			success: function(data, status) {
				plotCallback(data, status, id);
			},
			error: function(e) {
				$("#"+id).remove();
				alert("RTP processing failed: "+e.responseText);
			}
		});
	};

	function uuidv4() {
		return 'xxxxxxxx-xxxx-4xxx-yxxx-xxxxxxxxxxxx'.replace(/[xy]/g, function(c) {
			var r = Math.random() * 16 | 0, v = c == 'x' ? r : (r & 0x3 | 0x8);
			return v.toString(16);
		});
	}

	function plotPlaceholder(id) {
		var node = $("<div></div>");
		node.attr("id", id);
		node.addClass("w3-panel w3-white w3-card-2 w3-display-container w3-content w3-center");
		node.css("width","100%");
		node.html("<div class=\"loader\" style=\"margin: auto\"></div>");
		$("#app-display").prepend(node);
	};

	function plotCallback(data, status, id) {
		var node = $("#"+id);
		node.html(
			"<img src=\"data:image/png;base64, "+ data.data + "\" />"
			+"<span onclick=\"rmResults('"+id+"')\" class=\"w3-button w3-display-topright w3-hover-red w3-tiny\">X</span>"
			+"<p>"+data.points+" points</p>"
			+"<form>\n"
			+" <input type=\"button\" value=\"Export Results\" onclick=\"window.location.href='/dl?id="+id+"'\"/>\n"
			+"</form>\n"
		);
	};

	function rmResults(id) {
		var data = new FormData();
		data.append("id", id);

		$.ajax({
			url: "/rm",
			method: "POST",
			data: data,
			processData: false,
			contentType: false,
			error: function(e) {
				alert("removing ["+id+"] failed: "+e.responseText);
			}
		});

		$("#"+id).remove();
	}
</script>
</head>
<body>

<div id="app-sidebar" class="w3-sidebar w3-bar-block w3-card-4 w3-light-grey" style="width:25%">
	<div class="w3-bar-item w3-card-2 w3-black">
		<h2>Reduction to pole (1-D)</h2>
	</div>
	<div class="w3-bar-item">
		<form id="app-form" enctype="multipart/form-data">
			CSV file: <input id="input-file" type="file" name="input-file"/><br>
			Distance column: <input id="xcol" type="text" placeholder="auto"><br>
			Anomaly column: <input id="ycol" type="text" placeholder="auto"><br>
			Spacing (m): <input id="spacing" type="number" min="0.01" max="1000" step="0.01" value="{{.Spacing}}"><br>
			Field inclination: <input id="inclination" type="number" min="-90" max="90" step="0.001" value="{{.Inclination}}"><br>
			Field declination: <input id="declination" type="number" min="0" max="360" step="0.0001" value="{{.Declination}}"><br>
			Azimuth (strike angle): <input id="azimuth" type="number" min="0" max="360" step="0.1" value="{{.Azimuth}}"><br>
			<input type="button" onclick="run()" value="Compute">
		</form>
	</div>
</div>

<div style="margin-left:25%; height:100%" class="w3-grey" id="app-container">
	<div class="w3-container w3-content w3-center w3-grey" style="width:100%" id="app-display">
	</div>
</div>

</body>
</html>
`
