// Copyright 2026 The magrtp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package magrtp reduces 1-D magnetic anomaly profiles to the pole.
//
// The reduction runs entirely in the wavenumber domain:
//
//	anomaly -> detrend -> Tukey taper -> zero-padded FFT
//	        -> RTP operator -> inverse FFT -> amplitude correction -> truncation
//
// All functions are pure and safe for concurrent use.
package magrtp

import (
	"math"
	"math/cmplx"
)

// MinPoints is the smallest profile Compute accepts.
const MinPoints = 4

// Params holds the survey geometry used to build the RTP operator.
type Params struct {
	Spacing     float64 `yaml:"spacing"`     // sample spacing (m)
	Inclination float64 `yaml:"inclination"` // field inclination (deg)
	Declination float64 `yaml:"declination"` // field declination (deg)
	Azimuth     float64 `yaml:"azimuth"`     // profile azimuth from North (deg)
}

// DefaultParams returns the parameters of the reference survey.
func DefaultParams() Params {
	return Params{
		Spacing:     10.0,
		Inclination: 42.3,
		Declination: 0.9719,
		Azimuth:     90.0,
	}
}

// Validate checks p is usable to build an operator.
func (p Params) Validate() error {
	switch {
	case !isFinite(p.Spacing):
		return invalidf("spacing is not finite (%v)", p.Spacing)
	case p.Spacing <= 0:
		return invalidf("spacing must be positive (got %v)", p.Spacing)
	case !isFinite(p.Inclination):
		return invalidf("inclination is not finite (%v)", p.Inclination)
	case p.Inclination < -90 || p.Inclination > 90:
		return invalidf("inclination must lie in [-90, 90] (got %v)", p.Inclination)
	case !isFinite(p.Declination):
		return invalidf("declination is not finite (%v)", p.Declination)
	case !isFinite(p.Azimuth):
		return invalidf("azimuth is not finite (%v)", p.Azimuth)
	}
	return nil
}

// Compute returns the reduced-to-pole equivalent of the anomaly profile.
//
// distance and anomaly must have the same length, at least MinPoints,
// and hold finite values; distance must be non-decreasing.
// The returned slice has the length of anomaly and belongs to the caller.
func Compute(distance, anomaly []float64, p Params) ([]float64, error) {
	err := validate(distance, anomaly, p)
	if err != nil {
		return nil, err
	}
	n := len(anomaly)

	seq := DetrendAndTaper(anomaly)
	if i := firstNonFinite(seq); i >= 0 {
		return nil, &NumericalError{Stage: "preprocess", Index: i}
	}

	m, err := PadLen(n)
	if err != nil {
		return nil, err
	}

	coeffs, err := Forward(seq, m)
	if err != nil {
		return nil, err
	}
	if i := firstNonFiniteC(coeffs); i >= 0 {
		return nil, &NumericalError{Stage: "forward transform", Index: i}
	}

	op, err := BuildOperator(m, p)
	if err != nil {
		return nil, err
	}
	if i := firstNonFiniteC(op); i >= 0 {
		return nil, &NumericalError{Stage: "operator", Index: i}
	}

	for i := range coeffs {
		coeffs[i] *= op[i]
	}
	if i := firstNonFiniteC(coeffs); i >= 0 {
		return nil, &NumericalError{Stage: "filtered spectrum", Index: i}
	}

	out, err := CorrectAndTruncate(Inverse(coeffs), n)
	if err != nil {
		return nil, err
	}
	if i := firstNonFinite(out); i >= 0 {
		return nil, &NumericalError{Stage: "inverse transform", Index: i}
	}
	return out, nil
}

func validate(distance, anomaly []float64, p Params) error {
	switch {
	case len(anomaly) == 0:
		return invalidf("empty anomaly sequence")
	case len(distance) != len(anomaly):
		return invalidf("length mismatch (distance=%d, anomaly=%d)", len(distance), len(anomaly))
	case len(anomaly) < MinPoints:
		return invalidf("too few points (got=%d, want>=%d)", len(anomaly), MinPoints)
	}
	if i := firstNonFinite(anomaly); i >= 0 {
		return invalidf("anomaly[%d] is not finite (%v)", i, anomaly[i])
	}
	if i := firstNonFinite(distance); i >= 0 {
		return invalidf("distance[%d] is not finite (%v)", i, distance[i])
	}
	for i := 1; i < len(distance); i++ {
		if distance[i] < distance[i-1] {
			return invalidf("distance decreases at index %d (%v < %v)", i, distance[i], distance[i-1])
		}
	}
	return p.Validate()
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func firstNonFinite(vs []float64) int {
	for i, v := range vs {
		if !isFinite(v) {
			return i
		}
	}
	return -1
}

func firstNonFiniteC(vs []complex128) int {
	for i, v := range vs {
		if cmplx.IsNaN(v) || cmplx.IsInf(v) {
			return i
		}
	}
	return -1
}
