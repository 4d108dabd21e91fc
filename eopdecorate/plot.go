package main

import (
	"os"

	"go-hep.org/x/hep/hbook"
	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/decibelcooper/eoverp"
	"github.com/decibelcooper/eoverp/decorate"
)

// plotCutflow draws the event and track cutflows side by side.
func plotCutflow(output string, c *decorate.Cutflow) error {
	hists := c.Hists()

	img := vgimg.New(12*vg.Inch, 4*vg.Inch)
	dc := draw.New(img)
	w := dc.Max.X - dc.Min.X
	left := draw.Crop(dc, 0, -2*w/3, 0, 0)
	right := draw.Crop(dc, w/3, 0, 0, 0)

	cutflowPlot(hists[0], "Events", decorate.EventStepLabels()).Draw(left)
	cutflowPlot(hists[1], "Tracks", decorate.TrackStepLabels()).Draw(right)

	f, err := os.Create(output)
	if err != nil {
		return err
	}
	png := vgimg.PngCanvas{Canvas: img}
	if _, err = png.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func cutflowPlot(h *hbook.H1D, ylabel string, labels []string) *hplot.Plot {
	p := hplot.New()
	p.Title.Text, _ = h.Annotation()["name"].(string)
	p.Y.Label.Text = ylabel
	p.X.Tick.Marker = eoverp.LabelTicks(labels)
	p.Y.Tick.Marker = eoverp.PreciseTicks{NSuggestedTicks: 5}
	p.Y.Min = 0

	hh := hplot.NewH1D(h)
	hh.Infos.Style = hplot.HInfoNone
	p.Add(hh)
	return p
}
