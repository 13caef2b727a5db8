// Copyright 2026 The magrtp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package magrtp

import (
	"github.com/mjibson/go-dsp/dsputils"
	"gonum.org/v1/gonum/dsp/fourier"
)

// PadLen returns the transform length used for a profile of n samples:
// the smallest power of two greater than or equal to n.
func PadLen(n int) (int, error) {
	if n < 1 {
		return 0, invalidf("cannot pad a sequence of %d samples", n)
	}
	return dsputils.NextPowerOf2(n), nil
}

// Forward zero-pads seq to m samples and returns its m complex
// Fourier coefficients in native FFT order.
func Forward(seq []float64, m int) ([]complex128, error) {
	switch {
	case len(seq) < 1:
		return nil, invalidf("empty sequence")
	case m < len(seq):
		return nil, invalidf("pad length %d shorter than sequence (%d)", m, len(seq))
	}

	fft := fourier.NewCmplxFFT(m)
	return fft.Coefficients(nil, dsputils.ToComplex(dsputils.ZeroPadF(seq, m))), nil
}

// Inverse returns the real part of the inverse transform of coeffs,
// normalized so that Inverse(Forward(x, m)) reproduces the padded x.
func Inverse(coeffs []complex128) []float64 {
	if len(coeffs) == 0 {
		return []float64{}
	}

	fft := fourier.NewCmplxFFT(len(coeffs))
	seq := fft.Sequence(nil, coeffs)

	var (
		norm = 1 / float64(len(seq))
		out  = make([]float64, len(seq))
	)
	for i, c := range seq {
		out[i] = real(c) * norm
	}
	return out
}
