// Copyright 2026 The magrtp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package magrtp

import (
	"math"
	"math/cmplx"
)

// Spectrum holds the one-sided amplitude spectra of a profile before
// and after reduction to the pole. The DC bin is left out.
type Spectrum struct {
	K        []float64 // angular wavenumbers (rad/m)
	Observed []float64 // amplitude of the preprocessed anomaly
	Reduced  []float64 // amplitude after the RTP operator
}

// ComputeSpectrum returns the amplitude spectra of anomaly, preprocessed
// and padded exactly as Compute does.
func ComputeSpectrum(anomaly []float64, p Params) (Spectrum, error) {
	var spec Spectrum
	if len(anomaly) < MinPoints {
		return spec, invalidf("too few points (got=%d, want>=%d)", len(anomaly), MinPoints)
	}
	if i := firstNonFinite(anomaly); i >= 0 {
		return spec, invalidf("anomaly[%d] is not finite (%v)", i, anomaly[i])
	}

	m, err := PadLen(len(anomaly))
	if err != nil {
		return spec, err
	}
	coeffs, err := Forward(DetrendAndTaper(anomaly), m)
	if err != nil {
		return spec, err
	}
	op, err := BuildOperator(m, p)
	if err != nil {
		return spec, err
	}

	var (
		ks = Wavenumbers(m, p.Spacing)
		n  = m / 2
	)
	spec.K = make([]float64, n)
	spec.Observed = make([]float64, n)
	spec.Reduced = make([]float64, n)
	for i := range spec.K {
		j := i + 1
		spec.K[i] = math.Abs(ks[j])
		spec.Observed[i] = cmplx.Abs(coeffs[j])
		spec.Reduced[i] = cmplx.Abs(coeffs[j] * op[j])
	}
	return spec, nil
}

// Len returns the number of wavenumber bins.
func (spec Spectrum) Len() int { return len(spec.K) }
