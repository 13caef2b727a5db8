// Copyright 2026 The magrtp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package magrtp

// AmplitudeCorrection is the fixed scale applied to the inverse transform.
// It mirrors the reduced anomaly about the distance axis to match the
// sign convention of the reference processing.
const AmplitudeCorrection = -1.0

// CorrectAmplitude applies AmplitudeCorrection to a single value.
func CorrectAmplitude(v float64) float64 {
	return AmplitudeCorrection * v
}

// CorrectAndTruncate returns the first n samples of seq with the
// amplitude correction applied. seq is not modified.
func CorrectAndTruncate(seq []float64, n int) ([]float64, error) {
	switch {
	case n < 1:
		return nil, invalidf("truncation length must be positive (got %d)", n)
	case n > len(seq):
		return nil, invalidf("truncation length %d exceeds sequence (%d)", n, len(seq))
	}

	out := make([]float64, n)
	for i, v := range seq[:n] {
		out[i] = CorrectAmplitude(v)
	}
	return out, nil
}
