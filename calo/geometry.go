package calo

import "math"

// Surface is the nominal envelope of one sampling: a cylinder shell between
// radii Inner and Outer for barrel samplings, or a disc between |z| = Inner
// and |z| = Outer for endcap samplings. Lengths are in mm. The sampling only
// accepts crossings whose |eta| lies in [EtaMin, EtaMax).
type Surface struct {
	Barrel       bool
	Inner, Outer float64
	EtaMin       float64
	EtaMax       float64
}

// CellGeometry is the angular and radial extent of a single cell.
type CellGeometry struct {
	DEta   float64
	DPhi   float64
	DR     float64 // depth along the shower axis, mm
	Volume float64 // mm^3
}

type layerGeometry struct {
	surface    Surface
	deta, dphi float64
}

// Approximate ATLAS calorimeter envelopes and granularities.
var geometry = [NumLayers]layerGeometry{
	PreSamplerB: {Surface{true, 1410, 1440, 0, 1.52}, 0.025, 2 * math.Pi / 64},
	EMB1:        {Surface{true, 1500, 1590, 0, 1.475}, 0.003125, 2 * math.Pi / 64},
	EMB2:        {Surface{true, 1590, 1840, 0, 1.475}, 0.025, 2 * math.Pi / 256},
	EMB3:        {Surface{true, 1840, 1970, 0, 1.35}, 0.05, 2 * math.Pi / 256},
	PreSamplerE: {Surface{false, 3680, 3720, 1.5, 1.8}, 0.025, 2 * math.Pi / 64},
	EME1:        {Surface{false, 3750, 3850, 1.375, 3.2}, 0.003125, 2 * math.Pi / 64},
	EME2:        {Surface{false, 3850, 4250, 1.375, 3.2}, 0.025, 2 * math.Pi / 256},
	EME3:        {Surface{false, 4250, 4350, 1.5, 2.5}, 0.05, 2 * math.Pi / 256},
	HEC0:        {Surface{false, 4350, 4630, 1.5, 3.2}, 0.1, 2 * math.Pi / 64},
	HEC1:        {Surface{false, 4630, 5130, 1.5, 3.2}, 0.1, 2 * math.Pi / 64},
	HEC2:        {Surface{false, 5130, 5590, 1.6, 3.2}, 0.1, 2 * math.Pi / 64},
	HEC3:        {Surface{false, 5590, 6050, 1.7, 3.2}, 0.1, 2 * math.Pi / 64},
	TileBar0:    {Surface{true, 2300, 2600, 0, 1.0}, 0.1, 2 * math.Pi / 64},
	TileBar1:    {Surface{true, 2600, 3440, 0, 0.9}, 0.1, 2 * math.Pi / 64},
	TileBar2:    {Surface{true, 3440, 3820, 0, 0.75}, 0.2, 2 * math.Pi / 64},
	TileGap1:    {Surface{true, 3440, 3820, 0.75, 0.95}, 0.1, 2 * math.Pi / 64},
	TileGap2:    {Surface{true, 2990, 3440, 0.9, 1.0}, 0.1, 2 * math.Pi / 64},
	TileGap3:    {Surface{true, 1900, 2300, 1.0, 1.6}, 0.1, 2 * math.Pi / 64},
	TileExt0:    {Surface{true, 2300, 2600, 1.1, 1.6}, 0.1, 2 * math.Pi / 64},
	TileExt1:    {Surface{true, 2600, 3140, 1.0, 1.5}, 0.1, 2 * math.Pi / 64},
	TileExt2:    {Surface{true, 3140, 3820, 0.95, 1.35}, 0.2, 2 * math.Pi / 64},
}

// NominalSurface returns the envelope of a tracked sampling.
func NominalSurface(l SamplingLayer) (Surface, bool) {
	if !l.Tracked() {
		return Surface{}, false
	}
	return geometry[l].surface, true
}

// NominalCellGeometry returns the extent of a cell of sampling l centred at
// pseudorapidity eta. Samplings outside tracking acceptance have zero
// volume.
func NominalCellGeometry(l SamplingLayer, eta float64) CellGeometry {
	if !l.Tracked() {
		return CellGeometry{}
	}
	g := geometry[l]
	s := g.surface
	depth := s.Outer - s.Inner
	mid := 0.5 * (s.Inner + s.Outer)
	ch := math.Cosh(eta)

	var vol float64
	switch {
	case s.Barrel:
		// dz/deta = r cosh(eta)
		vol = mid * g.dphi * depth * mid * ch * g.deta
	default:
		sh := math.Abs(math.Sinh(eta))
		if sh == 0 {
			return CellGeometry{DEta: g.deta, DPhi: g.dphi, DR: depth}
		}
		// r = z / sinh(eta), |dr/deta| = z cosh(eta) / sinh^2(eta)
		r := mid / sh
		vol = r * g.dphi * (mid * ch / (sh * sh) * g.deta) * depth
	}
	return CellGeometry{DEta: g.deta, DPhi: g.dphi, DR: depth, Volume: vol}
}
