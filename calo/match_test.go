package calo

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeltaR(t *testing.T) {
	pts := []Position{{0, 0}, {0.1, 0.2}, {-2.4, 3.1}, {1.3, -3.1}}
	for _, a := range pts {
		assert.Zero(t, DeltaR(a.Eta, a.Phi, a.Eta, a.Phi))
	}

	assert.InDelta(t, math.Sqrt(0.0002), DeltaR(0.11, 0.21, 0.1, 0.2), 1e-12)
	assert.InDelta(t, DeltaR(0.11, 0.21, 0.1, 0.2), DeltaR(0.1, 0.2, 0.11, 0.21), 1e-12)
}

func TestDeltaRWrapIsOneSided(t *testing.T) {
	// phi1 - phi2 = 6.0 is folded to 2pi - 6.0.
	fwd := DeltaR(0, 3.0, 0, -3.0)
	assert.InDelta(t, 2*math.Pi-6, fwd, 1e-12)

	// phi1 - phi2 = -6.0 is not folded.
	back := DeltaR(0, -3.0, 0, 3.0)
	assert.InDelta(t, 6.0, back, 1e-12)
}

func TestMostEnergeticLayer(t *testing.T) {
	var c Cluster
	c.Samples[EMB2] = 4
	c.Samples[TileBar0] = 4 // tie: first wins
	c.Samples[FCAL0] = 100  // out of acceptance
	l, e := MostEnergeticLayer(&c)
	assert.Equal(t, EMB2, l)
	assert.Equal(t, 4.0, e)

	var neg Cluster
	for i := range neg.Samples {
		neg.Samples[i] = InvalidEnergy
	}
	l, _ = MostEnergeticLayer(&neg)
	assert.Equal(t, Unknown, l)
}

func TestPositions(t *testing.T) {
	p := NewPositions([]Intersection{
		{Layer: EMB1, Valid: true, Eta: 0.1, Phi: 0.1},
		{Layer: EMB1, Valid: true, Eta: 0.2, Phi: 0.2},              // not an entry: ignored
		{Layer: EMB2, Valid: true, Entry: false, Eta: 0.3, Phi: 0.3}, // first seen
		{Layer: EMB2, Valid: true, Entry: true, Eta: 0.4, Phi: 0.4},  // entry replaces
		{Layer: EMB2, Valid: true, Entry: true, Eta: 0.5, Phi: 0.5},  // last entry wins
		{Layer: EMB3, Valid: false, Entry: true, Eta: 9, Phi: 9},
	})

	got := make(map[SamplingLayer]Position)
	for _, l := range TrackedLayers() {
		if pos, ok := p.At(l); ok {
			got[l] = pos
		}
	}
	want := map[SamplingLayer]Position{
		EMB1: {0.1, 0.1},
		EMB2: {0.5, 0.5},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("positions (-want +got):\n%s", diff)
	}
	assert.Equal(t, 2, p.count())
	_, ok := p.At(Unknown)
	assert.False(t, ok)
}

func TestMatchClusters(t *testing.T) {
	pos := NewPositions([]Intersection{{Layer: EMB2, Valid: true, Entry: true, Eta: 0.1, Phi: 0.2}})

	mk := func(l SamplingLayer, eta, phi float64) Cluster {
		var c Cluster
		c.Samples[l] = 1
		c.RawE, c.CalE = 1, 1
		c.RawEta, c.RawPhi = eta, phi
		return c
	}
	clusters := []Cluster{
		mk(EMB2, 0.11, 0.21),
		mk(EMB3, 0.11, 0.21),         // no position in EMB3
		mk(EMB2, InvalidCoord, 0.21), // invalid direction
		mk(EMB2, 0.5, 0.2),
	}
	ms := MatchClusters(clusters, &pos)
	require.Len(t, ms, 2)
	assert.Equal(t, 0, ms[0].Index)
	assert.Equal(t, EMB2, ms[0].Layer)
	assert.InDelta(t, 0.0141421, ms[0].DR, 1e-6)
	assert.Equal(t, 3, ms[1].Index)
	assert.InDelta(t, 0.4, ms[1].DR, 1e-12)
}

func TestMatchCells(t *testing.T) {
	pos := NewPositions([]Intersection{
		{Layer: EMB2, Valid: true, Entry: true, Eta: 0.1, Phi: 0.2},
		{Layer: TileBar0, Valid: true, Entry: true, Eta: 0.12, Phi: 0.22},
	})
	cells := []Cell{
		{ID: 1, Layer: EMB2, Eta: 0.1, Phi: 0.2, E: 1},
		{ID: 2, Layer: TileBar0, Eta: 0.1, Phi: 0.2, E: 1},
		{ID: 3, Layer: EMB1, Eta: 0.1, Phi: 0.2, E: 1}, // no position
		{ID: 4, Layer: FCAL0, Eta: 0.1, Phi: 0.2, E: 1},
		{ID: 5, Layer: EMB2, Eta: InvalidCoord, Phi: 0.2, E: 1},
	}
	ms := MatchCells(cells, &pos)
	require.Len(t, ms, 2)
	assert.Equal(t, 0, ms[0].Index)
	assert.Zero(t, ms[0].DR)
	assert.Equal(t, 1, ms[1].Index)
	assert.InDelta(t, math.Sqrt(0.0008), ms[1].DR, 1e-12)
}
