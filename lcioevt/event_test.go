package lcioevt

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go-hep.org/x/hep/lcio"

	"github.com/decibelcooper/eoverp/calo"
)

func TestCellID(t *testing.T) {
	assert.Equal(t, uint64(1), cellID(1, 0))
	assert.Equal(t, uint64(1)<<32, cellID(0, 1))
	assert.Equal(t, uint64(0xffffffff), cellID(-1, 0))
}

func TestTrackFrom(t *testing.T) {
	trk := lcio.Track{States: []lcio.TrackState{{Phi: 0.5, Omega: -1e-3, TanL: 1}}}
	got := trackFrom(3, &trk, 2)
	assert.Equal(t, 3, got.ID)
	assert.Equal(t, -1.0, got.Charge)
	assert.InDelta(t, kappa*2/1e-3, got.Pt, 1e-6)
	assert.InDelta(t, math.Asinh(1), got.Eta, 1e-6)
	assert.InDelta(t, got.Pt*math.Sqrt2, got.P, 1e-6)
	assert.InDelta(t, 0.5, got.Phi, 1e-7)

	straight := trackFrom(0, &lcio.Track{States: []lcio.TrackState{{}}}, 2)
	assert.Zero(t, straight.Pt)
	assert.Zero(t, straight.Charge)
}

func TestMatchTruth(t *testing.T) {
	mcs := &lcio.McParticleContainer{Particles: []lcio.McParticle{
		{PDG: 22, GenStatus: 1, P: [3]float64{1, 0, 0}}, // neutral
		{PDG: 211, GenStatus: 1, Charge: 1, P: [3]float64{1, 0, 0}},
		{PDG: -211, GenStatus: 1, Charge: -1, P: [3]float64{0, 1, 0}},
		{PDG: 211, GenStatus: 2, Charge: 1, P: [3]float64{0, 0, 1}}, // not stable
	}}
	cands := truthCandidates(mcs)
	require.Len(t, cands, 2)

	along := lcio.Track{States: []lcio.TrackState{{Phi: 0.001, Omega: 1e-3}}}
	bc, rest := matchTruth(&along, cands)
	assert.Equal(t, 2, bc)
	require.Len(t, rest, 1)
	assert.Equal(t, 3, rest[0].barcode)

	// The matched particle is not offered again.
	bc, _ = matchTruth(&along, rest)
	assert.Zero(t, bc)

	off := lcio.Track{States: []lcio.TrackState{{Phi: math.Pi / 2, TanL: 0.2}}}
	bc, _ = matchTruth(&off, cands)
	assert.Zero(t, bc, "angle above 0.01 rad")
}

func TestClusterFrom(t *testing.T) {
	hits := []lcio.CalorimeterHit{
		{CellID0: 10, Energy: 4, Pos: [3]float32{1600, 0, 160}, Type: int32(calo.EMB2)},
		{CellID0: 11, Energy: 2, Pos: [3]float32{2400, 0, 240}, Type: int32(calo.TileBar0)},
	}
	sub := make([]float32, calo.NumLayers+2)
	sub[calo.EMB2] = 4
	sub[calo.TileBar0] = 2
	sub[len(sub)-1] = 100 // beyond the known samplings
	c := lcio.Cluster{
		Energy:     5,
		Pos:        [3]float32{1700, 0, 170},
		Theta:      float32(math.Pi / 2),
		Phi:        0,
		Shape:      []float32{150, 1, 2},
		SubDetEnes: sub,
		Hits:       []*lcio.CalorimeterHit{&hits[0], &hits[1]},
	}

	got := clusterFrom(7, &c)
	assert.Equal(t, 7, got.ID)
	assert.Equal(t, 6.0, got.RawE)
	assert.Equal(t, 5.0, got.CalE)
	assert.InDelta(t, 0.1, got.RawEta, 1e-3)
	assert.InDelta(t, 0, got.CalEta, 1e-6)
	assert.Equal(t, 4.0, got.ESample(calo.EMB2))

	l, _ := calo.MostEnergeticLayer(&got)
	assert.Equal(t, calo.EMB2, l)

	v, ok := got.Moment(calo.SecondR)
	assert.True(t, ok)
	assert.Equal(t, 2.0, v)
	_, ok = got.Moment(calo.EMProbability)
	assert.False(t, ok)

	require.Len(t, got.Cells, 2)
	assert.Equal(t, calo.TileBar0, got.Cells[1].Layer)
	assert.Equal(t, uint64(11), got.Cells[1].ID)
	assert.Greater(t, got.Cells[0].Geom.Volume, 0.0)
}

func TestComponent(t *testing.T) {
	for _, tc := range []struct {
		pdg  int
		want func(*calo.CalibrationHit) float64
	}{
		{11, func(h *calo.CalibrationHit) float64 { return h.EM }},
		{-11, func(h *calo.CalibrationHit) float64 { return h.EM }},
		{22, func(h *calo.CalibrationHit) float64 { return h.EM }},
		{-14, func(h *calo.CalibrationHit) float64 { return h.Escaped }},
		{2112, func(h *calo.CalibrationHit) float64 { return h.Invisible }},
		{1000020040, func(h *calo.CalibrationHit) float64 { return h.Invisible }},
		{211, func(h *calo.CalibrationHit) float64 { return h.NonEM }},
		{0, func(h *calo.CalibrationHit) float64 { return h.NonEM }},
	} {
		var h calo.CalibrationHit
		*component(&h, tc.pdg) = 1
		assert.Equal(t, 1.0, tc.want(&h), "pdg %d", tc.pdg)
		assert.Equal(t, 1.0, h.EM+h.NonEM+h.Invisible+h.Escaped, "pdg %d", tc.pdg)
	}
}

func TestDirection(t *testing.T) {
	eta, phi := direction([3]float32{0, 1, 0})
	assert.Zero(t, eta)
	assert.InDelta(t, math.Pi/2, phi, 1e-12)

	eta, phi = direction([3]float32{0, 0, 5})
	assert.Equal(t, calo.InvalidCoord, eta)
	assert.Equal(t, calo.InvalidCoord, phi)
}
