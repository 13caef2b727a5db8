// Copyright 2026 The magrtp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package magrtp

import (
	"image/color"
	"io"

	"github.com/pkg/errors"
	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Default size of the PNG plots.
const (
	PlotWidth  = 20 * vg.Centimeter
	PlotHeight = 18 * vg.Centimeter
)

var (
	observedColor = color.RGBA{B: 255, A: 255}
	reducedColor  = color.RGBA{R: 255, A: 255}
)

// Plot draws the observed profile and its reduced-to-pole equivalent
// on the provided canvas, with their amplitude spectra underneath.
// An empty spectrum gives the whole canvas to the profiles.
func Plot(dc draw.Canvas, title string, prof Profile, rtp []float64, spec Spectrum) error {
	if len(rtp) != prof.Len() || len(prof.Distance) != prof.Len() {
		return errors.Errorf("magrtp: plot length mismatch (distance=%d, anomaly=%d, rtp=%d)",
			len(prof.Distance), prof.Len(), len(rtp))
	}

	if spec.Len() == 0 {
		return topPlot(dc, title, prof, rtp)
	}

	var (
		pt     = dc.Size()
		height = pt.Y
		width  = pt.X
	)

	top := draw.Canvas{
		Canvas: dc,
		Rectangle: vg.Rectangle{
			Min: vg.Point{X: 0, Y: 0.4 * height},
			Max: vg.Point{X: width, Y: height},
		},
	}
	err := topPlot(top, title, prof, rtp)
	if err != nil {
		return err
	}

	bottom := draw.Canvas{
		Canvas: dc,
		Rectangle: vg.Rectangle{
			Min: vg.Point{X: 0, Y: 0},
			Max: vg.Point{X: width, Y: 0.4 * height},
		},
	}
	return bottomPlot(bottom, spec)
}

func topPlot(dc draw.Canvas, title string, prof Profile, rtp []float64) error {
	p := hplot.New()
	p.Title.Text = title
	if p.Title.Text == "" {
		p.Title.Text = "1D Reduction to Pole (RTP)"
	}
	p.X.Label.Text = "Distance (m)"
	p.Y.Label.Text = "Anomaly (nT)"

	obs, err := plotter.NewLine(hplot.ZipXY(prof.Distance, prof.Anomaly))
	if err != nil {
		return errors.Wrap(err, "magrtp: could not create observed line")
	}
	obs.LineStyle.Color = observedColor
	obs.LineStyle.Width = vg.Points(1.5)

	red, err := plotter.NewLine(hplot.ZipXY(prof.Distance, rtp))
	if err != nil {
		return errors.Wrap(err, "magrtp: could not create RTP line")
	}
	red.LineStyle.Color = reducedColor
	red.LineStyle.Width = vg.Points(1.5)
	red.LineStyle.Dashes = []vg.Length{vg.Points(6), vg.Points(3)}

	p.Add(obs, red, hplot.NewGrid())
	p.Legend.Add("Observed", obs)
	p.Legend.Add("RTP", red)
	p.Legend.Top = true
	p.Draw(dc)

	return nil
}

func bottomPlot(dc draw.Canvas, spec Spectrum) error {
	if len(spec.Observed) != spec.Len() || len(spec.Reduced) != spec.Len() {
		return errors.Errorf("magrtp: spectrum length mismatch (k=%d, observed=%d, reduced=%d)",
			spec.Len(), len(spec.Observed), len(spec.Reduced))
	}

	p := hplot.New()
	p.X.Label.Text = "Wavenumber (rad/m)"
	p.Y.Label.Text = "Amplitude"

	obs, err := plotter.NewLine(hplot.ZipXY(spec.K, spec.Observed))
	if err != nil {
		return errors.Wrap(err, "magrtp: could not create observed spectrum")
	}
	obs.LineStyle.Color = observedColor

	red, err := plotter.NewLine(hplot.ZipXY(spec.K, spec.Reduced))
	if err != nil {
		return errors.Wrap(err, "magrtp: could not create RTP spectrum")
	}
	red.LineStyle.Color = reducedColor
	red.LineStyle.Dashes = []vg.Length{vg.Points(6), vg.Points(3)}

	p.Add(obs, red, hplot.NewGrid())
	p.Draw(dc)

	return nil
}

// WritePNG renders Plot as a PNG image of PlotWidth x PlotHeight into w.
func WritePNG(w io.Writer, title string, prof Profile, rtp []float64, spec Spectrum) error {
	c := vgimg.PngCanvas{Canvas: vgimg.New(PlotWidth, PlotHeight)}
	err := Plot(draw.New(c), title, prof, rtp, spec)
	if err != nil {
		return errors.Wrap(err, "magrtp: could not plot profile")
	}

	_, err = c.WriteTo(w)
	if err != nil {
		return errors.Wrap(err, "magrtp: could not write PNG plot")
	}
	return nil
}
