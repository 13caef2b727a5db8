// Copyright 2026 The magrtp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package magrtp

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// LoadParams decodes a YAML parameter document from r.
// Fields missing from the document keep their DefaultParams value,
// unknown fields are rejected.
//
// Example:
//
//	spacing: 10.0
//	inclination: 42.3
//	declination: 0.9719
//	azimuth: 90.0
func LoadParams(r io.Reader) (Params, error) {
	p := DefaultParams()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	err := dec.Decode(&p)
	switch {
	case err == io.EOF:
		// empty document.
	case err != nil:
		return p, errors.Wrap(err, "magrtp: could not decode parameters")
	}

	err = p.Validate()
	if err != nil {
		return p, err
	}
	return p, nil
}

// ReadParamsFile decodes the named YAML parameter file.
func ReadParamsFile(fname string) (Params, error) {
	f, err := os.Open(fname)
	if err != nil {
		return DefaultParams(), errors.Wrapf(err, "magrtp: could not open parameter file %q", fname)
	}
	defer f.Close()

	return LoadParams(f)
}
