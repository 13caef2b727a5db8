// Copyright 2026 The magrtp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package magrtp

import (
	"math/cmplx"
	"testing"

	"github.com/mjibson/go-dsp/fft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPadLen(t *testing.T) {

	type test struct {
		input  int
		output int
	}

	tests := map[string]test{
		"1":    {input: 1, output: 1},
		"2":    {input: 2, output: 2},
		"3":    {input: 3, output: 4},
		"4":    {input: 4, output: 4},
		"5":    {input: 5, output: 8},
		"41":   {input: 41, output: 64},
		"64":   {input: 64, output: 64},
		"65":   {input: 65, output: 128},
		"1000": {input: 1000, output: 1024},
		"1024": {input: 1024, output: 1024},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			m, err := PadLen(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.output, m)
		})
	}

}

func TestPadLenInvalid(t *testing.T) {
	for _, n := range []int{0, -1, -64} {
		_, err := PadLen(n)
		var ierr *InvalidInputError
		assert.ErrorAs(t, err, &ierr, "n=%d", n)
	}
}

func TestForwardMatchesReference(t *testing.T) {
	seq := []float64{0, 1.5, -2, 4, 3.25, -1, 0.5, 7, -3}
	m, err := PadLen(len(seq))
	require.NoError(t, err)

	got, err := Forward(seq, m)
	require.NoError(t, err)
	require.Len(t, got, m)

	padded := make([]float64, m)
	copy(padded, seq)
	want := fft.FFTReal(padded)
	for i := range want {
		assert.InDelta(t, 0, cmplx.Abs(got[i]-want[i]), 1e-9, "bin %d", i)
	}
}

func TestForwardInvalid(t *testing.T) {
	var ierr *InvalidInputError

	_, err := Forward(nil, 8)
	assert.ErrorAs(t, err, &ierr)

	_, err = Forward([]float64{1, 2, 3}, 2)
	assert.ErrorAs(t, err, &ierr)
}

func TestRoundTrip(t *testing.T) {
	seq := []float64{3, 1, 4, 1, 5, 9, 2, 6, 5, 3, 5}
	m, err := PadLen(len(seq))
	require.NoError(t, err)

	coeffs, err := Forward(seq, m)
	require.NoError(t, err)

	ones := make([]complex128, m)
	for i := range ones {
		ones[i] = 1
	}
	for i := range coeffs {
		coeffs[i] *= ones[i]
	}

	out := Inverse(coeffs)
	require.Len(t, out, m)
	for i, v := range out {
		want := 0.0
		if i < len(seq) {
			want = seq[i]
		}
		assert.InDelta(t, want, v, 1e-12, "sample %d", i)
	}
}

func TestInverseEmpty(t *testing.T) {
	assert.Equal(t, []float64{}, Inverse(nil))
}
