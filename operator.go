// Copyright 2026 The magrtp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package magrtp

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// DCCoefficient is the operator value at zero wavenumber.
//
// At k=0 the operator reduces to Fz/(Fx cosθ + Fy sinθ), which is undefined
// when the field is orthogonal to the profile and grows without bound close
// to it, so the DC bin of the detrended profile is passed through unchanged.
const DCCoefficient complex128 = 1

// MinVerticalField is the smallest |Fz| BuildOperator accepts.
// Below it every non-DC coefficient vanishes and the reduced profile
// carries no anomaly shape.
const MinVerticalField = 1e-12

// Wavenumbers returns the m angular wavenumbers (rad/m) of a transform of
// length m with the given sample spacing, in native FFT order.
func Wavenumbers(m int, spacing float64) []float64 {
	if m < 1 {
		return nil
	}
	var (
		fft = fourier.NewCmplxFFT(m)
		ks  = make([]float64, m)
	)
	for i := range ks {
		ks[i] = 2 * math.Pi * fft.Freq(i) / spacing
	}
	return ks
}

// FieldCosines returns the direction cosines of the inducing field.
func FieldCosines(p Params) (fx, fy, fz float64) {
	inc := p.Inclination * math.Pi / 180
	dec := p.Declination * math.Pi / 180
	fx = math.Cos(inc) * math.Cos(dec)
	fy = math.Cos(inc) * math.Sin(dec)
	fz = math.Sin(inc)
	return fx, fy, fz
}

// BuildOperator returns the m coefficients of the RTP filter
//
//	RTP(k) = Fz / (Fx cosθ + Fy sinθ + i Fz sign(k))
//
// where θ is the profile azimuth. The k=0 bin is set to DCCoefficient.
// A horizontal inducing field (|Fz| < MinVerticalField) is degenerate and
// yields a *NumericalError.
func BuildOperator(m int, p Params) ([]complex128, error) {
	if m < 1 {
		return nil, invalidf("operator length must be positive (got %d)", m)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	var (
		fx, fy, fz = FieldCosines(p)
		theta      = p.Azimuth * math.Pi / 180
		horiz      = fx*math.Cos(theta) + fy*math.Sin(theta)
		ks         = Wavenumbers(m, p.Spacing)
		op         = make([]complex128, m)
	)
	if math.Abs(fz) < MinVerticalField {
		idx := 0
		if m > 1 {
			idx = 1
		}
		return nil, &NumericalError{Stage: "operator", Index: idx}
	}
	for i, k := range ks {
		switch {
		case k > 0:
			op[i] = complex(fz, 0) / complex(horiz, fz)
		case k < 0:
			op[i] = complex(fz, 0) / complex(horiz, -fz)
		default:
			op[i] = DCCoefficient
		}
	}
	return op, nil
}
