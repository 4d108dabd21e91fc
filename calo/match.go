package calo

import "math"

// Position is an (eta, phi) point on a sampling surface.
type Position struct {
	Eta, Phi float64
}

// Positions maps each sampling to at most one extrapolated track position.
// The zero value is empty.
type Positions struct {
	pos [NumLayers]Position
	set [NumLayers]bool
}

// NewPositions folds an extrapolator result into a Positions. The first
// crossing of a sampling is kept unless a later crossing enters the
// volume, in which case it replaces the stored one. Crossings with invalid
// identifiers land in the Unknown slot, which At never reports.
func NewPositions(xs []Intersection) Positions {
	var p Positions
	for _, x := range xs {
		l := x.Layer
		if !x.Valid {
			l = Unknown
		}
		i := l.Index()
		if !p.set[i] || x.Entry {
			p.pos[i] = Position{Eta: x.Eta, Phi: x.Phi}
			p.set[i] = true
		}
	}
	return p
}

// At returns the position of the track in sampling l.
func (p *Positions) At(l SamplingLayer) (Position, bool) {
	if !l.Valid() {
		return Position{}, false
	}
	i := l.Index()
	return p.pos[i], p.set[i]
}

// count returns the number of samplings with a position.
func (p *Positions) count() int {
	n := 0
	for l := PreSamplerB; l < Unknown; l++ {
		if p.set[l] {
			n++
		}
	}
	return n
}

// DeltaR is the angular distance between a candidate at (eta1, phi1) and a
// track at (eta2, phi2). Only differences above pi are wrapped; a
// difference below -pi is left as is, so DeltaR is not symmetric across
// the phi = +-pi seam.
func DeltaR(eta1, phi1, eta2, phi2 float64) float64 {
	deta := eta1 - eta2
	dphi := phi1 - phi2
	if dphi > math.Pi {
		dphi = 2*math.Pi - dphi
	}
	return math.Sqrt(deta*deta + dphi*dphi)
}

// MostEnergeticLayer returns the sampling in PreSamplerB..TileExt2 with the
// largest EM-scale energy and that energy. Ties go to the first sampling.
// Unknown is returned when no sampling exceeds InvalidEnergy.
func MostEnergeticLayer(c *Cluster) (SamplingLayer, float64) {
	best, emax := Unknown, InvalidEnergy
	for l := PreSamplerB; l <= LastTracked; l++ {
		if e := c.Samples[l]; e > emax {
			best, emax = l, e
		}
	}
	return best, emax
}

// ClusterMatch is a cluster compared to the track at its dominant sampling.
type ClusterMatch struct {
	Index int // into the event cluster slice
	Layer SamplingLayer
	DR    float64
}

// MatchClusters computes the distance of every usable cluster to the track.
// Clusters without a dominant sampling, with invalid raw coordinates or
// whose dominant sampling was not reached by the track are left out.
func MatchClusters(clusters []Cluster, pos *Positions) []ClusterMatch {
	var out []ClusterMatch
	for i := range clusters {
		c := &clusters[i]
		l, _ := MostEnergeticLayer(c)
		if l == Unknown {
			continue
		}
		if c.RawEta == InvalidCoord || c.RawPhi == InvalidCoord {
			continue
		}
		p, ok := pos.At(l)
		if !ok {
			continue
		}
		out = append(out, ClusterMatch{
			Index: i,
			Layer: l,
			DR:    DeltaR(c.RawEta, c.RawPhi, p.Eta, p.Phi),
		})
	}
	return out
}

// CellMatch is a cell compared to the track in the cell's own sampling.
type CellMatch struct {
	Index int
	DR    float64
}

// MatchCells computes the distance of every cell in tracking acceptance to
// the track position in the cell's sampling.
func MatchCells(cells []Cell, pos *Positions) []CellMatch {
	var out []CellMatch
	for i := range cells {
		c := &cells[i]
		if !c.Layer.Tracked() {
			continue
		}
		if c.Eta == InvalidCoord || c.Phi == InvalidCoord {
			continue
		}
		p, ok := pos.At(c.Layer)
		if !ok {
			continue
		}
		out = append(out, CellMatch{
			Index: i,
			DR:    DeltaR(c.Eta, c.Phi, p.Eta, p.Phi),
		})
	}
	return out
}
