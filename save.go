// Copyright 2026 The magrtp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package magrtp

import (
	"encoding/csv"
	"io"

	"github.com/pkg/errors"
	"go-hep.org/x/hep/csvutil"
)

// ResultColumn is the name of the column Save appends to the source table.
const ResultColumn = "RTP_Processed"

// Save writes the source table of prof to w, with the reduced values
// appended as the ResultColumn column.
func Save(w io.Writer, prof Profile, rtp []float64) error {
	tbl := &csvutil.Table{
		Writer: csv.NewWriter(w),
	}
	return save(tbl, prof, rtp)
}

// SaveFile writes the source table of prof and its reduced values
// to the named file.
func SaveFile(fname string, prof Profile, rtp []float64) error {
	tbl, err := csvutil.Create(fname)
	if err != nil {
		return errors.Wrapf(err, "magrtp: could not create output data file %q", fname)
	}
	return save(tbl, prof, rtp)
}

func save(tbl *csvutil.Table, prof Profile, rtp []float64) error {
	defer tbl.Close()

	if len(rtp) != len(prof.Records) {
		return errors.Errorf("magrtp: row count mismatch (rows=%d, rtp=%d)", len(prof.Records), len(rtp))
	}

	hdr := make([]string, 0, len(prof.Header)+1)
	hdr = append(hdr, prof.Header...)
	hdr = append(hdr, ResultColumn)
	err := tbl.Writer.Write(hdr)
	if err != nil {
		return errors.Wrap(err, "magrtp: could not write header")
	}

	for i, rec := range prof.Records {
		args := make([]interface{}, 0, len(rec)+1)
		for _, v := range rec {
			args = append(args, v)
		}
		args = append(args, rtp[i])
		err = tbl.WriteRow(args...)
		if err != nil {
			return errors.Wrapf(err, "magrtp: could not write row %d", i)
		}
	}

	err = tbl.Close()
	if err != nil {
		return errors.Wrap(err, "magrtp: could not close output data file")
	}
	return nil
}
