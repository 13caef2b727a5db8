// Copyright 2026 The magrtp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package magrtp

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// EstimateSpacing returns the median distance between consecutive samples.
func EstimateSpacing(distance []float64) (float64, error) {
	if len(distance) < 2 {
		return 0, invalidf("need at least 2 distances to estimate spacing (got %d)", len(distance))
	}
	if i := firstNonFinite(distance); i >= 0 {
		return 0, invalidf("distance[%d] is not finite (%v)", i, distance[i])
	}

	steps := make([]float64, len(distance)-1)
	floats.SubTo(steps, distance[1:], distance[:len(distance)-1])
	sort.Float64s(steps)

	dx := stat.Quantile(0.5, stat.Empirical, steps, nil)
	if dx <= 0 {
		return 0, invalidf("non-positive median spacing (%v)", dx)
	}
	return dx, nil
}
