package decorate

import (
	"fmt"

	"github.com/decibelcooper/eoverp/calo"
)

// Sentinel is written to every float decoration that was not computed.
const Sentinel = float32(calo.InvalidEnergy)

// Quantity is a per-sampling, per-threshold decoration.
type Quantity int

const (
	ClusterEnergy Quantity = iota
	ClusterEnergyLCW
	CellEnergy
	LHED
	calibBase
)

// Lineage tells whose calibration-hit energy a quantity holds.
type Lineage int

const (
	Signal Lineage = iota
	PhotonBackground
	HadronicBackground
	numLineages
)

// Component is a calibration-hit deposition mechanism.
type Component int

const (
	EM Component = iota
	NonEM
	Invisible
	Escaped
	numComponents
)

// Activity separates hits in active and inactive calorimeter material.
type Activity int

const (
	Active Activity = iota
	Inactive
	numActivities
)

// NumQuantities is the number of per-sampling, per-threshold quantities.
const NumQuantities = int(calibBase) + int(numLineages)*int(numComponents)*int(numActivities)

var (
	lineageNames   = [numLineages]string{"", "PhotonBackground", "HadronicBackground"}
	componentNames = [numComponents]string{"EM", "NonEM", "Invisible", "Escaped"}
	activityNames  = [numActivities]string{"Active", "Inactive"}
	quantityNames  [NumQuantities]string
)

func init() {
	quantityNames[ClusterEnergy] = "ClusterEnergy"
	quantityNames[ClusterEnergyLCW] = "ClusterEnergyLCW"
	quantityNames[CellEnergy] = "CellEnergy"
	quantityNames[LHED] = "LHED"
	for l := Signal; l < numLineages; l++ {
		for c := EM; c < numComponents; c++ {
			for a := Active; a < numActivities; a++ {
				quantityNames[CalibQuantity(l, c, a)] = "Cluster" + lineageNames[l] +
					componentNames[c] + activityNames[a] + "CalibHitEnergy"
			}
		}
	}
}

// CalibQuantity returns the calibration-hit quantity of a lineage,
// component and activity.
func CalibQuantity(l Lineage, c Component, a Activity) Quantity {
	return calibBase + Quantity((int(l)*int(numComponents)+int(c))*int(numActivities)+int(a))
}

func (q Quantity) String() string {
	if q < 0 || int(q) >= NumQuantities {
		return fmt.Sprintf("Quantity(%d)", int(q))
	}
	return quantityNames[q]
}

// Region of a reference-window total.
type Region int

const (
	RegionEM Region = iota
	RegionHAD
	RegionTotal
	numRegions
)

var regionNames = [numRegions]string{"EM", "HAD", "Total"}

func (r Region) String() string {
	if r < 0 || r >= numRegions {
		return fmt.Sprintf("Region(%d)", int(r))
	}
	return regionNames[r]
}

// window scales are the first three quantities.
const numWindowScales = 3

// WindowQuantity returns the reference-window scale named name:
// ClusterEnergy, ClusterEnergyLCW or CellEnergy.
func WindowQuantity(name string) (Quantity, bool) {
	for q := Quantity(0); q < numWindowScales; q++ {
		if quantityNames[q] == name {
			return q, true
		}
	}
	return 0, false
}

// WindowName is the name of the reference-window total of q over region r
// for the window named window.
func WindowName(prefix string, r Region, q Quantity, window string) string {
	return prefixed(prefix, fmt.Sprintf("%s_%s_0_%s", r, q, window))
}

// ExtrapolationName is the name of the extrapolation flag.
func ExtrapolationName(prefix string) string {
	return prefixed(prefix, "extrapolation")
}

var vectorFields = []string{"Energy", "Eta", "Phi", "dRToTrack"}

// Vector scales.
const (
	vecEM = iota
	vecLCW
	numVecScales
)

// Kind is the storage type of a decoration.
type Kind int

const (
	KindFloat Kind = iota
	KindInt
	KindFloatVec
	KindIntVec
)

// Slot locates a decoration inside a Record.
type Slot struct {
	Kind  Kind
	Index int
}

// Schema is the fixed set of decorations written for every track, laid out
// as dense slices. It is derived once from a Config and is read-only.
type Schema struct {
	prefix     string
	thresholds calo.ThresholdSet
	windows    []calo.Threshold
	tracked    []calo.SamplingLayer
	layers     []calo.SamplingLayer
	verbose    bool

	gridBase   int
	windowBase int

	floatNames    []string
	intNames      []string
	floatVecNames []string
	intVecNames   []string
	slots         map[string]Slot
}

func newSchema(prefix string, ts calo.ThresholdSet, windows []calo.Threshold, verbose bool) *Schema {
	s := &Schema{
		prefix:     prefix,
		thresholds: ts,
		windows:    append([]calo.Threshold(nil), windows...),
		tracked:    calo.TrackedLayers(),
		layers:     calo.ValidLayers(),
		verbose:    verbose,
		slots:      make(map[string]Slot),
	}
	nt := ts.Len()

	s.intNames = append(s.intNames, ExtrapolationName(prefix))

	for _, l := range s.tracked {
		s.floatNames = append(s.floatNames,
			s.name("trkEta_"+l.String()),
			s.name("trkPhi_"+l.String()),
		)
	}

	s.gridBase = len(s.floatNames)
	for q := Quantity(0); int(q) < NumQuantities; q++ {
		for t := 0; t < nt; t++ {
			for _, l := range s.layers {
				s.floatNames = append(s.floatNames,
					s.name(fmt.Sprintf("%s_%s_%s", q, l, ts.At(t).Name)))
			}
		}
	}

	s.windowBase = len(s.floatNames)
	for q := Quantity(0); q < numWindowScales; q++ {
		for _, w := range s.windows {
			for r := RegionEM; r < numRegions; r++ {
				s.floatNames = append(s.floatNames, WindowName(prefix, r, q, w.Name))
			}
		}
	}

	if verbose {
		for _, q := range []Quantity{ClusterEnergy, ClusterEnergyLCW} {
			for _, f := range vectorFields {
				s.floatVecNames = append(s.floatVecNames, s.name(q.String()+"_"+f))
			}
			for m := calo.Moment(0); m < calo.NumMoments; m++ {
				s.floatVecNames = append(s.floatVecNames, s.name(q.String()+"_"+m.String()))
			}
			s.intVecNames = append(s.intVecNames, s.name(q.String()+"_maxEnergyLayer"))
		}
	}

	for i, n := range s.floatNames {
		s.slots[n] = Slot{KindFloat, i}
	}
	for i, n := range s.intNames {
		s.slots[n] = Slot{KindInt, i}
	}
	for i, n := range s.floatVecNames {
		s.slots[n] = Slot{KindFloatVec, i}
	}
	for i, n := range s.intVecNames {
		s.slots[n] = Slot{KindIntVec, i}
	}
	return s
}

func (s *Schema) name(q string) string { return prefixed(s.prefix, q) }

func prefixed(prefix, q string) string {
	if prefix == "" {
		return q
	}
	return prefix + "_" + q
}

func (s *Schema) Prefix() string { return s.prefix }

func (s *Schema) Thresholds() calo.ThresholdSet { return s.thresholds }

// Layers returns the samplings of the per-layer grids, forward ones
// included.
func (s *Schema) Layers() []calo.SamplingLayer {
	return append([]calo.SamplingLayer(nil), s.layers...)
}

func (s *Schema) Windows() []calo.Threshold {
	return append([]calo.Threshold(nil), s.windows...)
}

func (s *Schema) Verbose() bool { return s.verbose }

// FloatNames returns the float decoration names in slot order. The other
// Names methods do the same for their kind.
func (s *Schema) FloatNames() []string { return append([]string(nil), s.floatNames...) }

func (s *Schema) IntNames() []string { return append([]string(nil), s.intNames...) }

func (s *Schema) FloatVectorNames() []string { return append([]string(nil), s.floatVecNames...) }

func (s *Schema) IntVectorNames() []string { return append([]string(nil), s.intVecNames...) }

// Lookup returns the slot of a decoration.
func (s *Schema) Lookup(name string) (Slot, bool) {
	sl, ok := s.slots[name]
	return sl, ok
}

// Len returns the total number of decorations.
func (s *Schema) Len() int { return len(s.slots) }

// VectorCountName names the length of the vector decorations.
func (s *Schema) VectorCountName() string { return s.name("ClusterEnergy_n") }

// ExtrapolationSlot is the int slot of the extrapolation flag.
func (s *Schema) ExtrapolationSlot() int { return 0 }

// PositionSlots returns the float slots of the track eta and phi at l.
func (s *Schema) PositionSlots(l calo.SamplingLayer) (eta, phi int) {
	i := 2 * l.Index()
	return i, i + 1
}

// GridSlot returns the float slot of quantity q for threshold index t and
// sampling l.
func (s *Schema) GridSlot(q Quantity, t int, l calo.SamplingLayer) int {
	nl := len(s.layers)
	return s.gridBase + (int(q)*s.thresholds.Len()+t)*nl + l.Index()
}

// WindowSlot returns the float slot of the region total r of scale q for
// reference window w.
func (s *Schema) WindowSlot(q Quantity, w int, r Region) int {
	return s.windowBase + (int(q)*len(s.windows)+w)*int(numRegions) + int(r)
}

// floatVectorSlot returns the vector slot of a field, counting the
// kinematic fields first and the moments after them.
func (s *Schema) floatVectorSlot(scale, field int) int {
	return scale*(len(vectorFields)+int(calo.NumMoments)) + field
}

// Record holds the decorations of one track.
type Record struct {
	Track     calo.Track
	Floats    []float32
	Ints      []int32
	FloatVecs [][]float32
	IntVecs   [][]int32
}

// NewRecord allocates a Record laid out for s and resets it.
func (s *Schema) NewRecord() *Record {
	r := &Record{
		Floats:    make([]float32, len(s.floatNames)),
		Ints:      make([]int32, len(s.intNames)),
		FloatVecs: make([][]float32, len(s.floatVecNames)),
		IntVecs:   make([][]int32, len(s.intVecNames)),
	}
	s.Reset(r)
	return r
}

// Reset marks every float decoration as not computed, clears the flags
// and empties the vectors. Vector capacity is kept.
func (s *Schema) Reset(r *Record) {
	r.Track = calo.Track{}
	for i := range r.Floats {
		r.Floats[i] = Sentinel
	}
	for i := range r.Ints {
		r.Ints[i] = 0
	}
	for i := range r.FloatVecs {
		r.FloatVecs[i] = r.FloatVecs[i][:0]
	}
	for i := range r.IntVecs {
		r.IntVecs[i] = r.IntVecs[i][:0]
	}
}

// Clone returns a deep copy of r.
func (r *Record) Clone() *Record {
	out := &Record{
		Track:     r.Track,
		Floats:    append([]float32(nil), r.Floats...),
		Ints:      append([]int32(nil), r.Ints...),
		FloatVecs: make([][]float32, len(r.FloatVecs)),
		IntVecs:   make([][]int32, len(r.IntVecs)),
	}
	for i, v := range r.FloatVecs {
		out.FloatVecs[i] = append([]float32{}, v...)
	}
	for i, v := range r.IntVecs {
		out.IntVecs[i] = append([]int32{}, v...)
	}
	return out
}

// Float returns the float decoration name of r.
func (s *Schema) Float(r *Record, name string) (float32, bool) {
	sl, ok := s.slots[name]
	if !ok || sl.Kind != KindFloat {
		return 0, false
	}
	return r.Floats[sl.Index], true
}

// Int returns the int decoration name of r.
func (s *Schema) Int(r *Record, name string) (int32, bool) {
	sl, ok := s.slots[name]
	if !ok || sl.Kind != KindInt {
		return 0, false
	}
	return r.Ints[sl.Index], true
}

// FloatVector returns the float vector decoration name of r.
func (s *Schema) FloatVector(r *Record, name string) ([]float32, bool) {
	sl, ok := s.slots[name]
	if !ok || sl.Kind != KindFloatVec {
		return nil, false
	}
	return r.FloatVecs[sl.Index], true
}

// IntVector returns the int vector decoration name of r.
func (s *Schema) IntVector(r *Record, name string) ([]int32, bool) {
	sl, ok := s.slots[name]
	if !ok || sl.Kind != KindIntVec {
		return nil, false
	}
	return r.IntVecs[sl.Index], true
}
