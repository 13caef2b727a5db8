// Copyright 2026 The magrtp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package magrtp

import (
	"gonum.org/v1/gonum/dsp/window"
	"gonum.org/v1/gonum/stat"
)

// TaperAlpha is the fraction of the profile rolled off by the Tukey taper.
const TaperAlpha = 0.1

// Detrend returns seq minus its least-squares linear trend against the
// sample index. seq is not modified.
func Detrend(seq []float64) []float64 {
	out := make([]float64, len(seq))
	if len(seq) < 2 {
		// a single sample is its own mean.
		return out
	}

	xs := make([]float64, len(seq))
	for i := range xs {
		xs[i] = float64(i)
	}
	alpha, beta := stat.LinearRegression(xs, seq, nil, false)
	for i, v := range seq {
		out[i] = v - (alpha + beta*xs[i])
	}
	return out
}

// Taper returns a copy of seq multiplied by a Tukey window of shape TaperAlpha.
// Both end samples of the window are zero.
// Sequences shorter than 2 samples are returned unchanged (rectangular window).
func Taper(seq []float64) []float64 {
	out := make([]float64, len(seq))
	copy(out, seq)
	if len(out) < 2 {
		return out
	}
	return window.Tukey{Alpha: TaperAlpha}.Transform(out)
}

// DetrendAndTaper prepares an anomaly sequence for the forward transform.
func DetrendAndTaper(seq []float64) []float64 {
	return Taper(Detrend(seq))
}
