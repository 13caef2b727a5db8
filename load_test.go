// Copyright 2026 The magrtp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package magrtp

import (
	"bytes"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	prof := loadTestProfile(t)

	assert.Equal(t, []string{"distance", "anomaly"}, prof.Header)
	assert.Equal(t, 0, prof.XCol)
	assert.Equal(t, 1, prof.YCol)
	require.Equal(t, 41, prof.Len())
	require.Len(t, prof.Distance, 41)
	require.Len(t, prof.Records, 41)

	assert.Equal(t, 0.0, prof.Distance[0])
	assert.Equal(t, 400.0, prof.Distance[40])
	assert.Equal(t, 5.0, prof.Anomaly[0])
	assert.Equal(t, 5.5, prof.Anomaly[1])
	assert.Equal(t, []string{"10", "5.5"}, prof.Records[1])
}

func TestLoadColumns(t *testing.T) {

	type test struct {
		input  string
		cols   Columns
		xcol   int
		ycol   int
		x0, y0 float64
	}

	tests := map[string]test{
		"x-y": {
			input: "x,y\n1,2\n2,3\n",
			xcol:  0, ycol: 1, x0: 1, y0: 2,
		},
		"reversed": {
			input: "Anomaly_nT,Distance_m\n7,0\n8,5\n",
			xcol:  1, ycol: 0, x0: 0, y0: 7,
		},
		"extra-columns": {
			input: "line, Distance_m, Anomaly_nT, comment\n3, 0, 12.5, a\n3, 10, 13, b\n",
			xcol:  1, ycol: 2, x0: 0, y0: 12.5,
		},
		"explicit": {
			input: "mag,pos\n100,0\n101,1\n",
			cols:  Columns{Distance: "pos", Anomaly: "MAG"},
			xcol:  1, ycol: 0, x0: 0, y0: 100,
		},
		"explicit-overrides-guess": {
			input: "distance,anomaly,residual\n0,1,2\n10,3,4\n",
			cols:  Columns{Anomaly: "residual"},
			xcol:  0, ycol: 2, x0: 0, y0: 2,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			prof, err := Load(strings.NewReader(tt.input), tt.cols)
			require.NoError(t, err)
			assert.Equal(t, tt.xcol, prof.XCol)
			assert.Equal(t, tt.ycol, prof.YCol)
			require.Equal(t, 2, prof.Len())
			assert.Equal(t, tt.x0, prof.Distance[0])
			assert.Equal(t, tt.y0, prof.Anomaly[0])
		})
	}

}

func TestLoadEmptyCell(t *testing.T) {
	prof, err := Load(strings.NewReader("distance,anomaly\n0,1\n10,\n20,3\n30,4\n"), Columns{})
	require.NoError(t, err)
	require.Equal(t, 4, prof.Len())
	assert.True(t, math.IsNaN(prof.Anomaly[1]))

	// the gap is rejected downstream, not at load time.
	_, err = prof.RTP(DefaultParams())
	var ierr *InvalidInputError
	assert.ErrorAs(t, err, &ierr)
}

func TestLoadInvalid(t *testing.T) {
	for name, tc := range map[string]struct {
		input string
		cols  Columns
	}{
		"empty":          {input: ""},
		"same-column":    {input: "mag,pos\n1,2\n"},
		"missing-column": {input: "distance,anomaly\n1,2\n", cols: Columns{Anomaly: "tmi"}},
		"bad-float":      {input: "distance,anomaly\n0,1\n10,abc\n"},
		"ragged":         {input: "distance,anomaly\n0,1\n10,2,3\n"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tc.input), tc.cols)
			assert.Error(t, err)
		})
	}
}

func TestSave(t *testing.T) {
	prof := loadTestProfile(t)
	rtp, err := prof.RTP(DefaultParams())
	require.NoError(t, err)

	buf := new(bytes.Buffer)
	err = Save(buf, prof, rtp)
	require.NoError(t, err)

	hdr, _, _ := strings.Cut(buf.String(), "\n")
	assert.Equal(t, "distance,anomaly,"+ResultColumn, hdr)

	got, err := Load(buf, Columns{Distance: "distance", Anomaly: ResultColumn})
	require.NoError(t, err)
	require.Equal(t, prof.Len(), got.Len())
	assert.Equal(t, prof.Distance, got.Distance)
	for i := range rtp {
		assert.InDelta(t, rtp[i], got.Anomaly[i], 1e-9, "row %d", i)
	}
}

func TestSaveFile(t *testing.T) {
	prof := loadTestProfile(t)
	rtp := make([]float64, prof.Len())

	fname := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, SaveFile(fname, prof, rtp))

	got, err := ReadProfileFile(fname, Columns{Anomaly: ResultColumn})
	require.NoError(t, err)
	assert.Equal(t, []string{"distance", "anomaly", ResultColumn}, got.Header)
	assert.Equal(t, rtp, got.Anomaly)
}

func TestSaveMismatch(t *testing.T) {
	prof := loadTestProfile(t)
	err := Save(new(bytes.Buffer), prof, make([]float64, 3))
	assert.Error(t, err)
}
