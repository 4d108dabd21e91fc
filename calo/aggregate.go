package calo

import (
	"errors"

	"gonum.org/v1/gonum/floats"
)

// ErrInvalidEnergy reports a cluster whose raw or calibrated energy cannot
// be used to form a calibration weight.
var ErrInvalidEnergy = errors.New("calo: invalid cluster energy")

// LayerSums is an energy (or density) per sampling.
type LayerSums [NumLayers]float64

// At returns the sum for sampling l.
func (s *LayerSums) At(l SamplingLayer) float64 { return s[l.Index()] }

// Add adds e to sampling l.
func (s *LayerSums) Add(l SamplingLayer, e float64) { s[l.Index()] += e }

// Merge adds o into s.
func (s *LayerSums) Merge(o *LayerSums) { floats.Add(s[:], o[:]) }

func (s *LayerSums) sumIf(keep func(Region) bool) float64 {
	var buf [NumLayers]float64
	n := 0
	for l := PreSamplerB; l < Unknown; l++ {
		if keep(l.Region()) {
			buf[n] = s[l]
			n++
		}
	}
	return floats.Sum(buf[:n])
}

// EM returns the sum over EMB1-3 and EME1-3.
func (s *LayerSums) EM() float64 { return s.sumIf(Region.Electromagnetic) }

// HAD returns the sum over the hadronic endcap and all tile samplings.
func (s *LayerSums) HAD() float64 { return s.sumIf(Region.Hadronic) }

// Total returns the sum over every sampling.
func (s *LayerSums) Total() float64 { return floats.Sum(s[:]) }

// ClusterSums accumulates cluster energies per sampling at the EM and LCW
// scales, plus the raw and calibrated cluster totals.
type ClusterSums struct {
	EM       LayerSums
	LCW      LayerSums
	RawTotal float64
	CalTotal float64
}

// Add accumulates the per-sampling energies of c. The EM-scale sums always
// receive c, and RawTotal does unless the raw energy is the sentinel. The
// LCW sums and CalTotal skip c and ErrInvalidEnergy is returned when its
// energies carry the invalid sentinel or its raw energy is zero.
func (s *ClusterSums) Add(c *Cluster) error {
	for l := PreSamplerB; l < Unknown; l++ {
		s.EM[l] += c.Samples[l]
	}
	if c.RawE != InvalidEnergy {
		s.RawTotal += c.RawE
	}
	if c.RawE == InvalidEnergy || c.CalE == InvalidEnergy || c.RawE == 0 {
		return ErrInvalidEnergy
	}
	w := c.CalE / c.RawE
	for l := PreSamplerB; l < Unknown; l++ {
		s.LCW[l] += w * c.Samples[l]
	}
	s.CalTotal += c.CalE
	return nil
}

// AddCell accumulates the energy of c in its own sampling.
func (s *LayerSums) AddCell(c *Cell) { s.Add(c.Layer, c.E) }
