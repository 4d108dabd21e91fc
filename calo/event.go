package calo

// Sentinels used by the reconstruction for quantities that could not be
// computed.
const (
	InvalidEnergy = -999999999.0
	InvalidCoord  = -999.0
)

// Track is a reconstructed charged particle trajectory. Momenta are in GeV,
// lengths in mm. TruthBarcode is 0 when the track has no truth match.
type Track struct {
	ID           int
	Pt           float64
	Eta          float64
	Phi          float64
	P            float64
	Charge       float64
	D0, Z0       float64
	TruthBarcode int
}

// Intersection is one crossing of a sampling surface reported by an
// extrapolator.
type Intersection struct {
	Layer SamplingLayer
	Valid bool // identifier could be decoded to a sampling
	Entry bool // crossing enters the sampling volume
	Eta   float64
	Phi   float64
}

// Moment identifies a cluster shape moment.
type Moment int

const (
	CenterLambda Moment = iota
	SecondLambda
	SecondR
	DeltaAlpha
	EMProbability
	FirstEngDens
	NumMoments
)

var momentNames = [NumMoments]string{
	"lambdaCenter", "secondLambda", "secondR",
	"deltaAlpha", "emProbability", "firstEnergyDensity",
}

func (m Moment) String() string {
	if m < 0 || m >= NumMoments {
		return "unknown"
	}
	return momentNames[m]
}

// Cluster is a topological calorimeter cluster. RawE, RawEta and RawPhi are
// at the EM scale; CalE, CalEta and CalPhi after local hadronic
// calibration.
type Cluster struct {
	ID     int
	RawE   float64
	RawEta float64
	RawPhi float64
	CalE   float64
	CalEta float64
	CalPhi float64

	// Samples holds the EM-scale energy per sampling.
	Samples [NumLayers]float64

	// Moments present on the cluster. Missing moments are absent from the
	// map.
	Moments map[Moment]float64

	// Cells linked to the cluster.
	Cells []Cell
}

// ESample returns the EM-scale energy of the cluster in sampling l.
func (c *Cluster) ESample(l SamplingLayer) float64 {
	return c.Samples[l.Index()]
}

// Moment returns the value of moment m if present.
func (c *Cluster) Moment(m Moment) (float64, bool) {
	v, ok := c.Moments[m]
	return v, ok
}

// Cell is a single calorimeter readout cell.
type Cell struct {
	ID    uint64
	Layer SamplingLayer
	Eta   float64
	Phi   float64
	E     float64
	Geom  CellGeometry
}

// CalibrationHit is the simulated energy deposited by one particle in one
// cell, split by deposition mechanism.
type CalibrationHit struct {
	CellID    uint64
	Particle  int // truth barcode
	EM        float64
	NonEM     float64
	Invisible float64
	Escaped   float64
}

// TruthParticle associates a truth barcode with its PDG code.
type TruthParticle struct {
	Barcode int
	PDGID   int
}
