package main

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRespGrid(t *testing.T) {
	g := NewRespGrid(2, -1, 1, 2, 0, 10)
	nx, ny := g.Dims()
	assert.Equal(t, 2, nx)
	assert.Equal(t, 2, ny)
	assert.Equal(t, -0.5, g.X(0))
	assert.Equal(t, 7.5, g.Y(1))

	for _, v := range []float64{0.8, 1.0, 1.2} {
		g.Fill(-0.5, 2.5, v)
	}
	g.Fill(0.5, 2.5, 1)

	assert.InDelta(t, math.Sqrt(0.08/3), g.Z(0, 0), 1e-9)
	assert.True(t, math.IsNaN(g.Z(1, 0)), "too few entries")
	assert.True(t, math.IsNaN(g.Z(0, 1)), "empty")

	g.Mean = true
	assert.InDelta(t, 1.0, g.Z(0, 0), 1e-9)
}
