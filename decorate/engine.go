// Package decorate computes the calorimeter decorations of every track in
// an event and hands them to a Sink.
package decorate

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/decibelcooper/eoverp/calo"
)

// ErrNoExtrapolator is returned by New without an extrapolator.
var ErrNoExtrapolator = errors.New("decorate: no extrapolator")

// Extrapolator propagates a track through the calorimeter samplings. An
// error means the track could not be extrapolated at all.
type Extrapolator interface {
	Extrapolate(calo.Track) ([]calo.Intersection, error)
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithCutflow makes the engine record its cutflow in c instead of a
// private Cutflow. It has no effect unless the configuration enables the
// cutflow.
func WithCutflow(c *Cutflow) Option {
	return func(e *Engine) { e.shared = c }
}

var (
	photonFilter  = calo.PDGFilter{Include: []int{22}}
	hadronFilter  = calo.PDGFilter{Exclude: []int{22}}
	backgroundFor = [...]struct {
		lineage Lineage
		filter  calo.PDGFilter
	}{
		{PhotonBackground, photonFilter},
		{HadronicBackground, hadronFilter},
	}
)

// Engine decorates tracks. Its configuration and schema are fixed at
// construction; Process may be called concurrently on distinct events.
type Engine struct {
	cfg        Config
	thresholds calo.ThresholdSet
	windows    []calo.Threshold
	schema     *Schema
	ext        Extrapolator
	lhed       calo.LHED
	log        *zap.Logger
	cutflow    *Cutflow
	shared     *Cutflow
}

// New validates cfg and prepares the decoration schema.
func New(cfg Config, ext Extrapolator, opts ...Option) (*Engine, error) {
	if ext == nil {
		return nil, ErrNoExtrapolator
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.clone()
	ts, err := calo.NewThresholdSet(cfg.Thresholds)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:        cfg,
		thresholds: ts,
		windows:    cfg.ReferenceWindows,
		ext:        ext,
		lhed:       calo.NewLHED(cfg.LHEDSigma),
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.schema = newSchema(cfg.Prefix, ts, cfg.ReferenceWindows, cfg.VerboseWindow > 0)

	if cfg.DoCutflow {
		e.cutflow = e.shared
		if e.cutflow == nil {
			e.cutflow = NewCutflow()
		}
	}

	if cfg.Prefix == "" {
		e.log.Warn("empty decoration prefix")
	}
	if ch := cfg.CalibHits; ch.LArDeadMaterial != "" || ch.TileDeadMat != "" {
		e.log.Debug("dead-material calibration hits are not read",
			zap.String("lar", ch.LArDeadMaterial), zap.String("tile", ch.TileDeadMat))
	}
	if !ts.Ascending() {
		e.log.Warn("thresholds are not in ascending radius order, buckets will be inconsistent",
			zap.Strings("thresholds", e.schema.thresholdNames()))
	}
	e.log.Debug("decoration schema",
		zap.String("prefix", cfg.Prefix),
		zap.Int("decorations", e.schema.Len()),
		zap.Int("thresholds", ts.Len()),
	)
	return e, nil
}

func (s *Schema) thresholdNames() []string {
	out := make([]string, s.thresholds.Len())
	for i := range out {
		out[i] = s.thresholds.At(i).Name
	}
	return out
}

// Schema returns the decoration layout.
func (e *Engine) Schema() *Schema { return e.schema }

// Config returns a copy of the configuration.
func (e *Engine) Config() Config { return e.cfg.clone() }

// Cutflow returns the cutflow, or nil when it is disabled.
func (e *Engine) Cutflow() *Cutflow { return e.cutflow }

// event holds the collections of the event being processed.
type event struct {
	clusters []calo.Cluster
	cells    []calo.Cell
	truth    *calo.TruthTable
	active   []*calo.HitContainer
	inactive []*calo.HitContainer
}

// Process decorates every track of the event in store and writes one
// Record per track to sink. Only a missing track, cluster or cell
// collection, or a sink error, fails the event.
func (e *Engine) Process(store Store, sink Sink) error {
	tracks, err := store.Tracks(e.cfg.Tracks)
	if err != nil {
		return fmt.Errorf("decorate: tracks: %w", err)
	}
	ev := event{}
	if ev.clusters, err = store.Clusters(e.cfg.Clusters); err != nil {
		return fmt.Errorf("decorate: clusters: %w", err)
	}
	if ev.cells, err = store.Cells(e.cfg.Cells); err != nil {
		return fmt.Errorf("decorate: cells: %w", err)
	}
	e.loadTruth(store, &ev)

	var info *EventInfo
	if e.cutflow != nil {
		if ei, err := optional(e, store.EventInfo, e.cfg.EventInfo); err == nil {
			info = &ei
		}
	}

	var tl tally
	rec := e.schema.NewRecord()
	for i := range tracks {
		e.schema.Reset(rec)
		e.decorate(rec, &tracks[i], &ev, &tl)
		if err := sink.Write(rec); err != nil {
			return fmt.Errorf("decorate: writing track %d: %w", i, err)
		}
	}

	if e.cutflow != nil {
		if info == nil {
			e.log.Debug("no event info, cutflow row skipped", zap.String("key", e.cfg.EventInfo))
		}
		e.cutflow.merge(&tl, info)
	}
	return nil
}

func (e *Engine) loadTruth(store Store, ev *event) {
	if ps, err := optional(e, store.TruthParticles, e.cfg.TruthParticles); err == nil {
		ev.truth = calo.NewTruthTable(ps)
	}
	hits := func(key string) *calo.HitContainer {
		hs, err := optional(e, store.CalibrationHits, key)
		if err != nil {
			return nil
		}
		return calo.NewHitContainer(hs)
	}
	ch := e.cfg.CalibHits
	ev.active = []*calo.HitContainer{hits(ch.LArActive), hits(ch.TileActive)}
	ev.inactive = []*calo.HitContainer{hits(ch.LArInactive), hits(ch.TileInactive)}
}

// optional retrieves a collection that may legitimately be missing.
func optional[T any](e *Engine, get func(string) (T, error), key string) (T, error) {
	var zero T
	if key == "" {
		return zero, ErrNotFound
	}
	v, err := get(key)
	if err != nil {
		e.log.Debug("optional collection unavailable", zap.String("key", key), zap.Error(err))
		return zero, err
	}
	return v, nil
}

func (e *Engine) decorate(rec *Record, trk *calo.Track, ev *event, tl *tally) {
	rec.Track = *trk
	tl.pass(StepTotal)

	xs, err := e.ext.Extrapolate(*trk)
	if err != nil {
		e.log.Debug("extrapolation failed", zap.Int("track", trk.ID), zap.Error(err))
		return
	}
	tl.pass(StepExtrapolation)
	rec.Ints[e.schema.ExtrapolationSlot()] = 1

	pos := calo.NewPositions(xs)
	for _, l := range e.schema.tracked {
		if p, ok := pos.At(l); ok {
			ieta, iphi := e.schema.PositionSlots(l)
			rec.Floats[ieta] = float32(p.Eta)
			rec.Floats[iphi] = float32(p.Phi)
		}
	}

	clusters := calo.MatchClusters(ev.clusters, &pos)
	tl.pass(StepClusterMatching)
	cells := calo.MatchCells(ev.cells, &pos)
	tl.pass(StepCellMatching)

	e.fillClusterGrid(rec, trk, ev, &pos, clusters)
	tl.pass(StepLoopClusters)
	e.fillCellGrid(rec, ev, cells)
	tl.pass(StepLoopCells)

	e.fillWindows(rec, ev, clusters, cells)
	if e.schema.verbose {
		e.fillVectors(rec, ev, clusters)
	}
	tl.pass(StepAll)
	tl.passed = true
}

func (e *Engine) bucketClusters(ms []calo.ClusterMatch) [][]calo.ClusterMatch {
	out := make([][]calo.ClusterMatch, e.thresholds.Len())
	for _, m := range ms {
		if t, ok := e.thresholds.Bucket(m.DR); ok {
			out[t] = append(out[t], m)
		}
	}
	return out
}

func (e *Engine) put(rec *Record, q Quantity, t int, sums *calo.LayerSums) {
	for _, l := range e.schema.layers {
		rec.Floats[e.schema.GridSlot(q, t, l)] = float32(sums.At(l))
	}
}

func (e *Engine) fillClusterGrid(rec *Record, trk *calo.Track, ev *event, pos *calo.Positions, ms []calo.ClusterMatch) {
	var density calo.LayerSums
	for t, bucket := range e.bucketClusters(ms) {
		var (
			sums     calo.ClusterSums
			signal   [numActivities]calo.HitSums
			bkg      [numLineages][numActivities]calo.HitSums
			badCalib int
		)
		for _, m := range bucket {
			c := &ev.clusters[m.Index]
			if err := sums.Add(c); err != nil {
				badCalib++
			}
			e.attributeTruth(c, trk.TruthBarcode, ev, &signal, &bkg)

			if p, ok := pos.At(m.Layer); ok {
				if n := e.lhed.AddCluster(&density, c, p); n > 0 {
					e.log.Warn("cells with zero volume skipped in LHED",
						zap.Int("cluster", c.ID), zap.Int("cells", n))
				}
			}
		}
		if badCalib > 0 {
			e.log.Warn("clusters with invalid energy left out of LCW sums",
				zap.Int("track", trk.ID), zap.String("threshold", e.thresholds.At(t).Name),
				zap.Int("clusters", badCalib))
		}

		e.put(rec, ClusterEnergy, t, &sums.EM)
		e.put(rec, ClusterEnergyLCW, t, &sums.LCW)
		e.put(rec, LHED, t, &density)
		for a := Active; a < numActivities; a++ {
			e.putHits(rec, Signal, a, t, &signal[a])
			for _, b := range backgroundFor {
				e.putHits(rec, b.lineage, a, t, &bkg[b.lineage][a])
			}
		}
	}
}

func (e *Engine) attributeTruth(c *calo.Cluster, barcode int, ev *event, signal *[numActivities]calo.HitSums, bkg *[numLineages][numActivities]calo.HitSums) {
	for a, hcs := range [numActivities][]*calo.HitContainer{ev.active, ev.inactive} {
		for _, hc := range hcs {
			signal[a].AddParticle(hc, c, barcode)
			for _, b := range backgroundFor {
				if n := bkg[b.lineage][a].AddBackground(hc, c, barcode, ev.truth, b.filter); n > 0 {
					e.log.Warn("calibration hits without truth particle",
						zap.Int("cluster", c.ID), zap.Int("hits", n))
				}
			}
		}
	}
}

func (e *Engine) putHits(rec *Record, l Lineage, a Activity, t int, h *calo.HitSums) {
	e.put(rec, CalibQuantity(l, EM, a), t, &h.EM)
	e.put(rec, CalibQuantity(l, NonEM, a), t, &h.NonEM)
	e.put(rec, CalibQuantity(l, Invisible, a), t, &h.Invisible)
	e.put(rec, CalibQuantity(l, Escaped, a), t, &h.Escaped)
}

func (e *Engine) fillCellGrid(rec *Record, ev *event, ms []calo.CellMatch) {
	buckets := make([]calo.LayerSums, e.thresholds.Len())
	for _, m := range ms {
		if t, ok := e.thresholds.Bucket(m.DR); ok {
			buckets[t].AddCell(&ev.cells[m.Index])
		}
	}
	for t := range buckets {
		e.put(rec, CellEnergy, t, &buckets[t])
	}
}

func (e *Engine) fillWindows(rec *Record, ev *event, clusters []calo.ClusterMatch, cells []calo.CellMatch) {
	for w, win := range e.windows {
		var sums calo.ClusterSums
		for _, m := range clusters {
			if m.DR < win.Radius {
				// invalid energies were already reported by the grid
				_ = sums.Add(&ev.clusters[m.Index])
			}
		}
		var cs calo.LayerSums
		for _, m := range cells {
			if m.DR < win.Radius {
				cs.AddCell(&ev.cells[m.Index])
			}
		}

		e.putWindow(rec, ClusterEnergy, w, sums.EM.EM(), sums.EM.HAD(), sums.RawTotal)
		e.putWindow(rec, ClusterEnergyLCW, w, sums.LCW.EM(), sums.LCW.HAD(), sums.CalTotal)
		e.putWindow(rec, CellEnergy, w, cs.EM(), cs.HAD(), cs.Total())
	}
}

func (e *Engine) putWindow(rec *Record, q Quantity, w int, em, had, total float64) {
	rec.Floats[e.schema.WindowSlot(q, w, RegionEM)] = float32(em)
	rec.Floats[e.schema.WindowSlot(q, w, RegionHAD)] = float32(had)
	rec.Floats[e.schema.WindowSlot(q, w, RegionTotal)] = float32(total)
}

func (e *Engine) fillVectors(rec *Record, ev *event, ms []calo.ClusterMatch) {
	s := e.schema
	for _, m := range ms {
		if m.DR >= e.cfg.VerboseWindow {
			continue
		}
		c := &ev.clusters[m.Index]
		var moments [calo.NumMoments]float64
		for mom := range moments {
			v, ok := c.Moment(calo.Moment(mom))
			if !ok {
				e.log.Warn("cluster moment missing", zap.Int("cluster", c.ID), zap.Stringer("moment", calo.Moment(mom)))
			}
			moments[mom] = v
		}
		scales := [numVecScales]struct{ e, eta, phi float64 }{
			vecEM:  {c.RawE, c.RawEta, c.RawPhi},
			vecLCW: {c.CalE, c.CalEta, c.CalPhi},
		}
		for sc, kin := range scales {
			vals := [...]float64{kin.e, kin.eta, kin.phi, m.DR}
			for f, v := range vals {
				i := s.floatVectorSlot(sc, f)
				rec.FloatVecs[i] = append(rec.FloatVecs[i], float32(v))
			}
			for mom, v := range moments {
				i := s.floatVectorSlot(sc, len(vectorFields)+mom)
				rec.FloatVecs[i] = append(rec.FloatVecs[i], float32(v))
			}
			rec.IntVecs[sc] = append(rec.IntVecs[sc], int32(m.Layer))
		}
	}
}
