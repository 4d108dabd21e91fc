// Package calo holds the calorimeter description and the per-track
// matching and energy aggregation used to decorate tracks for E/p studies.
package calo

// SamplingLayer is a longitudinal calorimeter sampling, numbered as in the
// reconstruction's CaloSampling enumeration.
type SamplingLayer int

const (
	PreSamplerB SamplingLayer = iota // LAr barrel
	EMB1
	EMB2
	EMB3
	PreSamplerE // LAr EM endcap
	EME1
	EME2
	EME3
	HEC0 // hadronic endcap
	HEC1
	HEC2
	HEC3
	TileBar0 // tile barrel
	TileBar1
	TileBar2
	TileGap1 // ITC and scintillators
	TileGap2
	TileGap3
	TileExt0 // tile extended barrel
	TileExt1
	TileExt2
	FCAL0 // forward, outside tracking acceptance
	FCAL1
	FCAL2
	MiniFCAL0
	MiniFCAL1
	MiniFCAL2
	MiniFCAL3
	Unknown
)

// NumLayers is the size of any array indexed by SamplingLayer.Index,
// Unknown included.
const NumLayers = int(Unknown) + 1

// LastTracked is the outermost sampling reachable by tracks. Forward and
// mini-FCAL samplings are never matched.
const LastTracked = TileExt2

var layerNames = [NumLayers]string{
	"PreSamplerB", "EMB1", "EMB2", "EMB3",
	"PreSamplerE", "EME1", "EME2", "EME3",
	"HEC0", "HEC1", "HEC2", "HEC3",
	"TileBar0", "TileBar1", "TileBar2",
	"TileGap1", "TileGap2", "TileGap3",
	"TileExt0", "TileExt1", "TileExt2",
	"FCAL0", "FCAL1", "FCAL2",
	"MINIFCAL0", "MINIFCAL1", "MINIFCAL2", "MINIFCAL3",
	"Unknown",
}

var (
	layerByName   = make(map[string]SamplingLayer, NumLayers)
	trackedLayers []SamplingLayer
	validLayers   []SamplingLayer
)

func init() {
	for i, name := range layerNames {
		layerByName[name] = SamplingLayer(i)
	}
	for l := PreSamplerB; l < Unknown; l++ {
		validLayers = append(validLayers, l)
		if l.Tracked() {
			trackedLayers = append(trackedLayers, l)
		}
	}
}

// Index returns the dense array position of l. Out-of-range values map to
// the Unknown slot.
func (l SamplingLayer) Index() int {
	if l < PreSamplerB || l > Unknown {
		return int(Unknown)
	}
	return int(l)
}

func (l SamplingLayer) String() string {
	return layerNames[l.Index()]
}

// Valid reports whether l is a real sampling (not Unknown).
func (l SamplingLayer) Valid() bool {
	return l >= PreSamplerB && l < Unknown
}

// Tracked reports whether l lies within tracking acceptance.
func (l SamplingLayer) Tracked() bool {
	return l >= PreSamplerB && l <= LastTracked
}

// LayerAt is the inverse of Index.
func LayerAt(i int) SamplingLayer {
	if i < 0 || i >= NumLayers {
		return Unknown
	}
	return SamplingLayer(i)
}

// layerNamed looks a sampling up by its display name.
func layerNamed(name string) (SamplingLayer, bool) {
	l, ok := layerByName[name]
	return l, ok
}

// TrackedLayers returns PreSamplerB through TileExt2 in enumeration order.
func TrackedLayers() []SamplingLayer {
	out := make([]SamplingLayer, len(trackedLayers))
	copy(out, trackedLayers)
	return out
}

// ValidLayers returns every real sampling, PreSamplerB through MiniFCAL3,
// in enumeration order.
func ValidLayers() []SamplingLayer {
	out := make([]SamplingLayer, len(validLayers))
	copy(out, validLayers)
	return out
}

// Region groups samplings into the sub-detectors used for EM and hadronic
// energy totals.
type Region int

const (
	RegionNone Region = iota
	RegionPreSampler
	RegionEMB
	RegionEME
	RegionHEC
	RegionTileBar
	RegionTileGap
	RegionTileExt
	RegionForward
)

// Region returns the sub-detector l belongs to.
func (l SamplingLayer) Region() Region {
	switch l {
	case PreSamplerB, PreSamplerE:
		return RegionPreSampler
	case EMB1, EMB2, EMB3:
		return RegionEMB
	case EME1, EME2, EME3:
		return RegionEME
	case HEC0, HEC1, HEC2, HEC3:
		return RegionHEC
	case TileBar0, TileBar1, TileBar2:
		return RegionTileBar
	case TileGap1, TileGap2, TileGap3:
		return RegionTileGap
	case TileExt0, TileExt1, TileExt2:
		return RegionTileExt
	case FCAL0, FCAL1, FCAL2, MiniFCAL0, MiniFCAL1, MiniFCAL2, MiniFCAL3:
		return RegionForward
	}
	return RegionNone
}

// Electromagnetic reports whether r counts toward the EM calorimeter total.
// Presamplers are excluded.
func (r Region) Electromagnetic() bool {
	return r == RegionEMB || r == RegionEME
}

// Hadronic reports whether r counts toward the hadronic calorimeter total.
func (r Region) Hadronic() bool {
	switch r {
	case RegionHEC, RegionTileBar, RegionTileGap, RegionTileExt:
		return true
	}
	return false
}

// Layers returns the samplings of r in enumeration order.
func (r Region) Layers() []SamplingLayer {
	var out []SamplingLayer
	for l := PreSamplerB; l < Unknown; l++ {
		if l.Region() == r {
			out = append(out, l)
		}
	}
	return out
}
