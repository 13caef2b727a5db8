// Copyright 2026 The magrtp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package magrtp

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWavenumbers(t *testing.T) {
	const (
		m  = 8
		dx = 10.0
	)
	ks := Wavenumbers(m, dx)
	require.Len(t, ks, m)

	dk := 2 * math.Pi / (m * dx)
	want := []float64{0, dk, 2 * dk, 3 * dk, -4 * dk, -3 * dk, -2 * dk, -dk}
	for i := range want {
		assert.InDelta(t, want[i], ks[i], 1e-12, "k[%d]", i)
	}

	assert.Nil(t, Wavenumbers(0, dx))
}

func TestFieldCosines(t *testing.T) {
	for _, tc := range []struct {
		name       string
		inc, dec   float64
		fx, fy, fz float64
	}{
		{"pole", 90, 0, 0, 0, 1},
		{"equator-north", 0, 0, 1, 0, 0},
		{"equator-east", 0, 90, 0, 1, 0},
		{"south", -90, 12, 0, 0, -1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			fx, fy, fz := FieldCosines(Params{Inclination: tc.inc, Declination: tc.dec})
			assert.InDelta(t, tc.fx, fx, 1e-12)
			assert.InDelta(t, tc.fy, fy, 1e-12)
			assert.InDelta(t, tc.fz, fz, 1e-12)
			assert.InDelta(t, 1, fx*fx+fy*fy+fz*fz, 1e-12)
		})
	}
}

func TestBuildOperator(t *testing.T) {
	for _, p := range []Params{
		DefaultParams(),
		{Spacing: 5, Inclination: 90, Declination: 0, Azimuth: 0},
		{Spacing: 1, Inclination: -30, Declination: 15, Azimuth: 45},
		{Spacing: 2.5, Inclination: 5, Declination: 0, Azimuth: 0},
	} {
		for _, m := range []int{1, 2, 4, 16, 64} {
			op, err := BuildOperator(m, p)
			require.NoError(t, err)
			require.Len(t, op, m)

			assert.Equal(t, DCCoefficient, op[0])
			assert.Equal(t, -1, firstNonFiniteC(op), "params=%+v, m=%d", p, m)

			// Hermitian symmetry keeps the filtered profile real.
			for i := 1; i < m; i++ {
				if 2*i == m {
					continue
				}
				d := op[m-i] - cmplx.Conj(op[i])
				assert.InDelta(t, 0, cmplx.Abs(d), 1e-12, "params=%+v, m=%d, i=%d", p, m, i)
			}
		}
	}
}

func TestBuildOperatorVerticalField(t *testing.T) {
	// with a vertical field and a north-south profile, the operator
	// reduces to a pure quarter phase rotation.
	p := Params{Spacing: 10, Inclination: 90, Declination: 0, Azimuth: 0}
	op, err := BuildOperator(16, p)
	require.NoError(t, err)

	ks := Wavenumbers(16, p.Spacing)
	for i, k := range ks {
		var want complex128
		switch {
		case k > 0:
			want = -1i
		case k < 0:
			want = 1i
		default:
			want = DCCoefficient
		}
		assert.InDelta(t, 0, cmplx.Abs(op[i]-want), 1e-12, "bin %d", i)
	}
}

func TestBuildOperatorUnitGain(t *testing.T) {
	// |Fz| / |h + i Fz| <= 1: the operator never amplifies a non-DC bin.
	op, err := BuildOperator(64, DefaultParams())
	require.NoError(t, err)
	for i, v := range op[1:] {
		assert.LessOrEqual(t, cmplx.Abs(v), 1+1e-12, "bin %d", i+1)
	}
}

func TestBuildOperatorHorizontalField(t *testing.T) {
	for _, inc := range []float64{0, 1e-14, -1e-14} {
		p := Params{Spacing: 10, Inclination: inc, Declination: 3, Azimuth: 90}
		for _, m := range []int{1, 8, 64} {
			op, err := BuildOperator(m, p)
			assert.Nil(t, op)

			var nerr *NumericalError
			require.ErrorAs(t, err, &nerr, "inc=%v, m=%d", inc, m)
			assert.Equal(t, "operator", nerr.Stage)
		}
	}

	// just above the threshold the operator is still built.
	op, err := BuildOperator(8, Params{Spacing: 10, Inclination: 1e-6, Azimuth: 0})
	require.NoError(t, err)
	assert.Equal(t, -1, firstNonFiniteC(op))
}

func TestBuildOperatorInvalid(t *testing.T) {
	var ierr *InvalidInputError

	_, err := BuildOperator(0, DefaultParams())
	assert.ErrorAs(t, err, &ierr)

	p := DefaultParams()
	p.Spacing = 0
	_, err = BuildOperator(8, p)
	assert.ErrorAs(t, err, &ierr)
}
