// Copyright 2026 The magrtp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package magrtp

import (
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/pkg/errors"
)

// Chart renders an interactive HTML line chart of the observed profile
// and its reduced-to-pole equivalent into w.
func Chart(w io.Writer, title string, prof Profile, rtp []float64) error {
	if len(rtp) != prof.Len() || len(prof.Distance) != prof.Len() {
		return errors.Errorf("magrtp: chart length mismatch (distance=%d, anomaly=%d, rtp=%d)",
			len(prof.Distance), prof.Len(), len(rtp))
	}
	if title == "" {
		title = "1D Reduction to Pole (RTP)"
	}

	var (
		xs  = make([]string, prof.Len())
		obs = make([]opts.LineData, prof.Len())
		red = make([]opts.LineData, prof.Len())
	)
	for i := range xs {
		xs[i] = strconv.FormatFloat(prof.Distance[i], 'g', -1, 64)
		obs[i] = opts.LineData{Value: prof.Anomaly[i]}
		red[i] = opts.LineData{Value: rtp[i]}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Distance (m)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Anomaly (nT)"}),
	)
	line.SetXAxis(xs).
		AddSeries("Observed", obs).
		AddSeries("RTP", red, charts.WithLineStyleOpts(opts.LineStyle{Type: "dashed"}))

	err := line.Render(w)
	if err != nil {
		return errors.Wrap(err, "magrtp: could not render chart")
	}
	return nil
}
