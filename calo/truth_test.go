package calo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// truthFixture is a cluster with two cells and hits from the signal
// particle (barcode 1), a photon (2), a pion (3), an unknown particle (9)
// and a hit on a cell outside the cluster.
func truthFixture() (*Cluster, *HitContainer, *TruthTable) {
	c := &Cluster{Cells: []Cell{
		{ID: 10, Layer: EMB2},
		{ID: 11, Layer: TileBar1},
	}}
	hits := NewHitContainer([]CalibrationHit{
		{CellID: 10, Particle: 1, EM: 1, NonEM: 0.1},
		{CellID: 11, Particle: 1, NonEM: 2, Invisible: 0.5},
		{CellID: 10, Particle: 2, EM: 3},
		{CellID: 11, Particle: 3, NonEM: 4, Escaped: 0.25},
		{CellID: 10, Particle: 9, EM: 0.75},
		{CellID: 99, Particle: 2, EM: 100},
		{CellID: 99, Particle: 1, EM: 100},
	})
	truth := NewTruthTable([]TruthParticle{
		{Barcode: 1, PDGID: 211},
		{Barcode: 2, PDGID: 22},
		{Barcode: 3, PDGID: -211},
		{Barcode: 2, PDGID: 11}, // duplicate barcode: ignored
	})
	return c, hits, truth
}

func TestAddParticle(t *testing.T) {
	c, hits, _ := truthFixture()

	var h HitSums
	h.AddParticle(hits, c, 1)
	assert.Equal(t, 1.0, h.EM.At(EMB2))
	assert.Equal(t, 0.1, h.NonEM.At(EMB2))
	assert.Equal(t, 2.0, h.NonEM.At(TileBar1))
	assert.Equal(t, 0.5, h.Invisible.At(TileBar1))
	assert.Equal(t, 1.0, h.EM.Total())

	var none HitSums
	none.AddParticle(hits, c, 0)
	none.AddParticle(nil, c, 1)
	assert.Equal(t, HitSums{}, none)
}

func background(hc *HitContainer, c *Cluster, truth *TruthTable, f PDGFilter) (HitSums, int) {
	var h HitSums
	n := h.AddBackground(hc, c, 1, truth, f)
	return h, n
}

func TestAddBackgroundPartition(t *testing.T) {
	c, hits, truth := truthFixture()

	photons, n1 := background(hits, c, truth, PDGFilter{Include: []int{22}})
	hadrons, n2 := background(hits, c, truth, PDGFilter{Exclude: []int{22}})
	all, n3 := background(hits, c, truth, PDGFilter{})
	assert.Equal(t, 1, n1)
	assert.Equal(t, 1, n2)
	assert.Equal(t, 1, n3)

	assert.Equal(t, 3.0, photons.EM.At(EMB2))
	assert.Zero(t, photons.NonEM.Total())

	// The unresolved particle resolves to PDG 0 and is hadronic background.
	assert.Equal(t, 0.75, hadrons.EM.At(EMB2))
	assert.Equal(t, 4.0, hadrons.NonEM.At(TileBar1))
	assert.Equal(t, 0.25, hadrons.Escaped.At(TileBar1))

	sum := photons
	sum.Merge(&hadrons)
	assert.Equal(t, all, sum)
}

func TestAddBackgroundAbsent(t *testing.T) {
	c, hits, truth := truthFixture()

	h, n := background(hits, c, nil, PDGFilter{Include: []int{22}})
	assert.Equal(t, HitSums{}, h)
	assert.Zero(t, n)

	h, n = background(nil, c, truth, PDGFilter{Exclude: []int{22}})
	assert.Equal(t, HitSums{}, h)
	assert.Zero(t, n)
}

func TestPDGFilterIncludeWins(t *testing.T) {
	f := PDGFilter{Include: []int{22}, Exclude: []int{22}}
	assert.True(t, f.Keep(22))
	assert.False(t, f.Keep(211))
	assert.True(t, PDGFilter{}.Keep(2112))
}

func TestTruthTable(t *testing.T) {
	_, _, truth := truthFixture()
	id, ok := truth.PDGID(2)
	assert.True(t, ok)
	assert.Equal(t, 22, id)

	_, ok = truth.PDGID(42)
	assert.False(t, ok)

	var none *TruthTable
	_, ok = none.PDGID(1)
	assert.False(t, ok)
	assert.Zero(t, (*HitContainer)(nil).Len())
}
