// Package lcioevt reads LCIO events and presents them as decorate.Store
// views.
package lcioevt

import (
	"fmt"
	"math"

	"go-hep.org/x/hep/lcio"

	"github.com/decibelcooper/eoverp/calo"
	"github.com/decibelcooper/eoverp/decorate"
)

// maxAngle is the largest opening angle, in radians, between a track and
// its truth particle.
const maxAngle = 0.01

// curvature in mm^-1 per GeV/c per Tesla
const kappa = 0.299792458e-3

// Options configures the conversion of LCIO collections.
type Options struct {
	// BField is the solenoid field in Tesla used to turn track curvature
	// into transverse momentum.
	BField float64
	// MCParticles names the truth collection used for track truth matching
	// and to resolve calibration-hit contributors.
	MCParticles string
}

// DefaultOptions returns the options for the ATLAS-like setup.
func DefaultOptions() Options {
	return Options{BField: 2, MCParticles: "MCParticle"}
}

// Event is a decorate.Store over one LCIO event.
type Event struct {
	evt  *lcio.Event
	opts Options

	barcodes map[*lcio.McParticle]int
}

// NewEvent wraps evt.
func NewEvent(evt *lcio.Event, opts Options) *Event {
	e := &Event{evt: evt, opts: opts}
	if mcs, err := collection[*lcio.McParticleContainer](e, opts.MCParticles); err == nil {
		e.barcodes = make(map[*lcio.McParticle]int, len(mcs.Particles))
		for i := range mcs.Particles {
			e.barcodes[&mcs.Particles[i]] = i + 1
		}
	}
	return e
}

func collection[T any](e *Event, key string) (T, error) {
	var zero T
	if key == "" || !e.evt.Has(key) {
		return zero, fmt.Errorf("%w: %q", decorate.ErrNotFound, key)
	}
	v, ok := e.evt.Get(key).(T)
	if !ok {
		return zero, fmt.Errorf("lcioevt: collection %q has type %T, want %T", key, e.evt.Get(key), zero)
	}
	return v, nil
}

// EventInfo returns the run and event numbers. The luminosity block is
// taken from the LumiBlock event parameter when present.
func (e *Event) EventInfo(key string) (decorate.EventInfo, error) {
	if key == "" {
		return decorate.EventInfo{}, decorate.ErrNotFound
	}
	info := decorate.EventInfo{
		RunNumber:   int64(e.evt.RunNumber),
		EventNumber: int64(e.evt.EventNumber),
	}
	if lb := e.evt.Params.Ints["LumiBlock"]; len(lb) > 0 {
		info.LumiBlock = int64(lb[0])
	}
	return info, nil
}

func (e *Event) Tracks(key string) ([]calo.Track, error) {
	tc, err := collection[*lcio.TrackContainer](e, key)
	if err != nil {
		return nil, err
	}
	var truths []truthCandidate
	if mcs, err := collection[*lcio.McParticleContainer](e, e.opts.MCParticles); err == nil {
		truths = truthCandidates(mcs)
	}

	out := make([]calo.Track, len(tc.Tracks))
	for i := range tc.Tracks {
		trk := &tc.Tracks[i]
		out[i] = trackFrom(i, trk, e.opts.BField)
		out[i].TruthBarcode, truths = matchTruth(trk, truths)
	}
	return out, nil
}

func trackFrom(id int, trk *lcio.Track, bfield float64) calo.Track {
	t := calo.Track{
		ID:  id,
		Phi: trk.Phi(),
		D0:  trk.D0(),
		Z0:  trk.Z0(),
		Eta: math.Asinh(trk.TanL()),
	}
	if omega := trk.Omega(); omega != 0 {
		t.Pt = kappa * bfield / math.Abs(omega)
		t.Charge = math.Copysign(1, omega)
		t.P = t.Pt * math.Sqrt(1+trk.TanL()*trk.TanL())
	}
	return t
}

type truthCandidate struct {
	barcode int
	dir     [3]float64
}

// truthCandidates returns the stable charged generator particles.
func truthCandidates(mcs *lcio.McParticleContainer) []truthCandidate {
	var out []truthCandidate
	for i := range mcs.Particles {
		mc := &mcs.Particles[i]
		if mc.GenStatus != 1 || mc.Charge == 0 {
			continue
		}
		out = append(out, truthCandidate{barcode: i + 1, dir: normalize(mc.P)})
	}
	return out
}

// matchTruth returns the barcode of the candidate closest in angle to trk,
// if closer than maxAngle, and the candidates left for the other tracks.
func matchTruth(trk *lcio.Track, cands []truthCandidate) (int, []truthCandidate) {
	lambda := math.Atan(trk.TanL())
	dir := [3]float64{
		math.Cos(trk.Phi()) * math.Cos(lambda),
		math.Sin(trk.Phi()) * math.Cos(lambda),
		math.Sin(lambda),
	}
	minAngle, minIndex := math.Inf(1), -1
	for i, c := range cands {
		angle := math.Acos(math.Min(1, dot(dir, c.dir)))
		if angle < minAngle {
			minAngle, minIndex = angle, i
		}
	}
	if minIndex < 0 || minAngle >= maxAngle {
		return 0, cands
	}
	barcode := cands[minIndex].barcode
	return barcode, append(cands[:minIndex:minIndex], cands[minIndex+1:]...)
}

func (e *Event) TruthParticles(key string) ([]calo.TruthParticle, error) {
	mcs, err := collection[*lcio.McParticleContainer](e, key)
	if err != nil {
		return nil, err
	}
	out := make([]calo.TruthParticle, len(mcs.Particles))
	for i, mc := range mcs.Particles {
		out[i] = calo.TruthParticle{Barcode: i + 1, PDGID: int(mc.PDG)}
	}
	return out, nil
}

func (e *Event) Cells(key string) ([]calo.Cell, error) {
	hc, err := collection[*lcio.CalorimeterHitContainer](e, key)
	if err != nil {
		return nil, err
	}
	out := make([]calo.Cell, len(hc.Hits))
	for i := range hc.Hits {
		out[i] = cellFrom(&hc.Hits[i])
	}
	return out, nil
}

func cellID(id0, id1 int32) uint64 {
	return uint64(uint32(id0)) | uint64(uint32(id1))<<32
}

func cellFrom(h *lcio.CalorimeterHit) calo.Cell {
	l := calo.LayerAt(int(h.Type))
	eta, phi := direction(h.Pos)
	return calo.Cell{
		ID:    cellID(h.CellID0, h.CellID1),
		Layer: l,
		Eta:   eta,
		Phi:   phi,
		E:     float64(h.Energy),
		Geom:  calo.NominalCellGeometry(l, eta),
	}
}

// Clusters converts LCIO clusters. SubDetEnes holds the EM-scale energy
// per sampling and Energy the calibrated energy; the cluster shape holds
// the moments in calo.Moment order.
func (e *Event) Clusters(key string) ([]calo.Cluster, error) {
	cc, err := collection[*lcio.ClusterContainer](e, key)
	if err != nil {
		return nil, err
	}
	out := make([]calo.Cluster, len(cc.Clusters))
	for i := range cc.Clusters {
		out[i] = clusterFrom(i, &cc.Clusters[i])
	}
	return out, nil
}

func clusterFrom(id int, c *lcio.Cluster) calo.Cluster {
	out := calo.Cluster{
		ID:     id,
		CalE:   float64(c.Energy),
		CalPhi: float64(c.Phi),
		CalEta: calo.InvalidCoord,
	}
	if c.Theta > 0 && c.Theta < math.Pi {
		out.CalEta = -math.Log(math.Tan(float64(c.Theta) / 2))
	}
	out.RawEta, out.RawPhi = direction(c.Pos)

	if len(c.SubDetEnes) == 0 {
		out.RawE = out.CalE
	}
	for i, e := range c.SubDetEnes {
		if i >= int(calo.Unknown) {
			break
		}
		out.Samples[i] = float64(e)
		out.RawE += float64(e)
	}

	out.Moments = make(map[calo.Moment]float64, calo.NumMoments)
	for m := calo.Moment(0); m < calo.NumMoments && int(m) < len(c.Shape); m++ {
		out.Moments[m] = float64(c.Shape[m])
	}

	out.Cells = make([]calo.Cell, 0, len(c.Hits))
	for _, h := range c.Hits {
		if h != nil {
			out.Cells = append(out.Cells, cellFrom(h))
		}
	}
	return out
}

// CalibrationHits flattens the contributions of simulated calorimeter
// hits. Each contribution is split into a deposition mechanism according
// to the species that deposited it.
func (e *Event) CalibrationHits(key string) ([]calo.CalibrationHit, error) {
	sc, err := collection[*lcio.SimCalorimeterHitContainer](e, key)
	if err != nil {
		return nil, err
	}
	var out []calo.CalibrationHit
	for i := range sc.Hits {
		h := &sc.Hits[i]
		id := cellID(h.CellID0, h.CellID1)
		if len(h.Contributions) == 0 {
			out = append(out, calo.CalibrationHit{CellID: id, NonEM: float64(h.Energy)})
			continue
		}
		for _, c := range h.Contributions {
			pdg := c.PDG
			if pdg == 0 && c.Mc != nil {
				pdg = c.Mc.PDG
			}
			hit := calo.CalibrationHit{CellID: id, Particle: e.barcodes[c.Mc]}
			*component(&hit, int(pdg)) += float64(c.Energy)
			out = append(out, hit)
		}
	}
	return out, nil
}

// component picks the energy field of a deposit by species: electrons and
// photons are electromagnetic, neutrinos escape, neutrons and nuclear
// fragments are invisible.
func component(h *calo.CalibrationHit, pdg int) *float64 {
	switch a := abs(pdg); {
	case a == 11 || a == 22:
		return &h.EM
	case a == 12 || a == 14 || a == 16:
		return &h.Escaped
	case a == 2112 || a >= 1000000000:
		return &h.Invisible
	}
	return &h.NonEM
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func direction(pos [3]float32) (eta, phi float64) {
	x, y, z := float64(pos[0]), float64(pos[1]), float64(pos[2])
	rho := math.Hypot(x, y)
	if rho == 0 {
		return calo.InvalidCoord, calo.InvalidCoord
	}
	return math.Asinh(z / rho), math.Atan2(y, x)
}

func normalize(v [3]float64) [3]float64 {
	n := math.Sqrt(dot(v, v))
	if n == 0 {
		return v
	}
	for i := range v {
		v[i] /= n
	}
	return v
}

func dot(a, b [3]float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}
