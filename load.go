// Copyright 2026 The magrtp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package magrtp

import (
	"bufio"
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go-hep.org/x/hep/csvutil"
)

// Profile is a survey line loaded from a CSV table.
type Profile struct {
	Distance []float64 // distance along the profile (m)
	Anomaly  []float64 // magnetic anomaly (nT)

	Header  []string   // column names of the source table
	Records [][]string // raw rows of the source table
	XCol    int        // index of the distance column in Header
	YCol    int        // index of the anomaly column in Header
}

// Len returns the number of samples of the profile.
func (p Profile) Len() int { return len(p.Anomaly) }

// RTP reduces the profile to the pole.
func (p Profile) RTP(params Params) ([]float64, error) {
	return Compute(p.Distance, p.Anomaly, params)
}

// Spectrum returns the amplitude spectra of the profile.
func (p Profile) Spectrum(params Params) (Spectrum, error) {
	return ComputeSpectrum(p.Anomaly, params)
}

// Columns selects the distance and anomaly columns of a table by name.
// An empty name asks Load to guess the column from the header.
type Columns struct {
	Distance string
	Anomaly  string
}

// Load reads a headed CSV table from the provided io.Reader.
// Empty cells are loaded as NaN.
func Load(r io.Reader, cols Columns) (Profile, error) {
	var prof Profile

	tbl := &csvutil.Table{
		Reader: csv.NewReader(bufio.NewReader(r)),
	}
	defer tbl.Close()
	tbl.Reader.TrimLeadingSpace = true

	hdr, err := tbl.Reader.Read()
	if err != nil {
		return prof, errors.Wrap(err, "magrtp: could not read CSV header")
	}
	for i, name := range hdr {
		hdr[i] = strings.TrimSpace(name)
	}
	prof.Header = hdr

	prof.XCol, prof.YCol, err = cols.resolve(hdr)
	if err != nil {
		return prof, err
	}

	rows, err := tbl.ReadRows(0, -1)
	if err != nil {
		return prof, errors.Wrap(err, "magrtp: could not read rows")
	}
	defer rows.Close()

	var (
		rec  = make([]string, len(hdr))
		args = make([]interface{}, len(hdr))
	)
	for i := range rec {
		args[i] = &rec[i]
	}

	id := 0
	for rows.Next() {
		err = rows.Scan(args...)
		if err != nil {
			return prof, errors.Wrapf(err, "magrtp: could not scan row %d", id)
		}
		x, err := parseCell(rec[prof.XCol])
		if err != nil {
			return prof, errors.Wrapf(err, "magrtp: could not parse %s in row %d", hdr[prof.XCol], id)
		}
		y, err := parseCell(rec[prof.YCol])
		if err != nil {
			return prof, errors.Wrapf(err, "magrtp: could not parse %s in row %d", hdr[prof.YCol], id)
		}
		prof.Distance = append(prof.Distance, x)
		prof.Anomaly = append(prof.Anomaly, y)
		prof.Records = append(prof.Records, append([]string(nil), rec...))
		id++
	}

	if err := rows.Err(); err != nil {
		if err != io.EOF {
			return prof, errors.Wrap(err, "magrtp: error while processing rows")
		}
	}

	return prof, nil
}

// ReadProfileFile loads the named CSV file.
func ReadProfileFile(fname string, cols Columns) (Profile, error) {
	f, err := os.Open(fname)
	if err != nil {
		return Profile{}, errors.Wrapf(err, "magrtp: could not open data file %q", fname)
	}
	defer f.Close()

	return Load(f, cols)
}

func parseCell(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}

// resolve returns the indices of the distance and anomaly columns.
// Guessing follows the header from left to right and keeps the last match:
// names containing "distance" or "x" are distance candidates, otherwise
// names containing "anomaly" or "y" are anomaly candidates.
func (cols Columns) resolve(hdr []string) (ix, iy int, err error) {
	for i, name := range hdr {
		lc := strings.ToLower(name)
		switch {
		case strings.Contains(lc, "distance") || strings.Contains(lc, "x"):
			ix = i
		case strings.Contains(lc, "anomaly") || strings.Contains(lc, "y"):
			iy = i
		}
	}

	if cols.Distance != "" {
		ix = column(hdr, cols.Distance)
		if ix < 0 {
			return 0, 0, errors.Errorf("magrtp: no distance column %q in header %q", cols.Distance, hdr)
		}
	}
	if cols.Anomaly != "" {
		iy = column(hdr, cols.Anomaly)
		if iy < 0 {
			return 0, 0, errors.Errorf("magrtp: no anomaly column %q in header %q", cols.Anomaly, hdr)
		}
	}

	if ix == iy {
		return 0, 0, errors.Errorf("magrtp: distance and anomaly columns must be different (both %q)", hdr[ix])
	}
	return ix, iy, nil
}

func column(hdr []string, name string) int {
	for i, v := range hdr {
		if strings.EqualFold(v, strings.TrimSpace(name)) {
			return i
		}
	}
	return -1
}
