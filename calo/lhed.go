package calo

import "gonum.org/v1/gonum/stat/distuv"

// DefaultLHEDSigma is the width, in radians, of the lateral kernel.
const DefaultLHEDSigma = 0.035

// LHED estimates the energy density around a track by weighting each cell
// with the fraction of a Gaussian lateral profile it covers.
type LHED struct {
	kernel distuv.Normal
}

// NewLHED returns an estimator with a kernel of width sigma.
func NewLHED(sigma float64) LHED {
	return LHED{kernel: distuv.Normal{Mu: 0, Sigma: sigma}}
}

// Weight returns the kernel weight of a cell of geometry g at angular
// distance d from the track. The cell is treated as spanning d +- DEta/2.
func (k LHED) Weight(d float64, g CellGeometry) float64 {
	lo := d - g.DEta/2
	hi := d + g.DEta/2
	return (k.kernel.CDF(hi) - k.kernel.CDF(lo)) * g.DPhi
}

// AddCluster adds the density of every cell linked to c, measured from the
// track position trk, to dens. Cells with zero volume are skipped and
// counted in the returned value.
func (k LHED) AddCluster(dens *LayerSums, c *Cluster, trk Position) (skipped int) {
	for i := range c.Cells {
		cell := &c.Cells[i]
		if cell.Geom.Volume == 0 {
			skipped++
			continue
		}
		d := DeltaR(cell.Eta, cell.Phi, trk.Eta, trk.Phi)
		dens.Add(cell.Layer, cell.E*k.Weight(d, cell.Geom)/cell.Geom.Volume)
	}
	return skipped
}
