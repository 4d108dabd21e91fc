package main

import (
	"math"

	"go-hep.org/x/hep/hbook"
)

// minEntries is the smallest bin population with a meaningful spread.
const minEntries = 3

// RespGrid accumulates the E/p response in (eta, p) bins. It implements
// plotter.GridXYZ, reporting the spread or the mean of each bin.
type RespGrid struct {
	hCount, hV, hV2 *hbook.H2D
	nBinsX, nBinsY  int

	// Mean switches Z from the RMS spread to the mean response.
	Mean bool
}

func NewRespGrid(nBinsX int, xLow, xHigh float64, nBinsY int, yLow, yHigh float64) *RespGrid {
	return &RespGrid{
		hCount: hbook.NewH2D(nBinsX, xLow, xHigh, nBinsY, yLow, yHigh),
		hV:     hbook.NewH2D(nBinsX, xLow, xHigh, nBinsY, yLow, yHigh),
		hV2:    hbook.NewH2D(nBinsX, xLow, xHigh, nBinsY, yLow, yHigh),
		nBinsX: nBinsX,
		nBinsY: nBinsY,
	}
}

func (g *RespGrid) Fill(x, y, z float64) {
	g.hCount.Fill(x, y, 1)
	g.hV.Fill(x, y, z)
	g.hV2.Fill(x, y, z*z)
}

func (g *RespGrid) Dims() (int, int) {
	return g.nBinsX, g.nBinsY
}

// Z is NaN for bins with fewer than minEntries entries.
func (g *RespGrid) Z(i, j int) float64 {
	n := g.hCount.GridXYZ().Z(i, j)
	if n < minEntries {
		return math.NaN()
	}
	mean := g.hV.GridXYZ().Z(i, j) / n
	if g.Mean {
		return mean
	}
	mean2 := g.hV2.GridXYZ().Z(i, j) / n
	return math.Sqrt(math.Max(0, mean2-mean*mean))
}

func (g *RespGrid) X(i int) float64 {
	return g.hCount.GridXYZ().X(i)
}

func (g *RespGrid) Y(j int) float64 {
	return g.hCount.GridXYZ().Y(j)
}
