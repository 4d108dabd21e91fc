package decorate

import (
	"maps"
	"sync"

	"go-hep.org/x/hep/hbook"
)

// TrackStep is a checkpoint of the per-track cutflow.
type TrackStep int

const (
	StepTotal TrackStep = iota
	StepExtrapolation
	StepClusterMatching
	StepCellMatching
	StepLoopClusters
	StepLoopCells
	StepAll
	numTrackSteps
)

var trackStepLabels = [numTrackSteps]string{
	"Total tracks",
	"Pass extrapolation",
	"Pass trk-cluster matching",
	"Pass trk-cell matching",
	"Pass loop matched clusters",
	"Pass loop matched cells",
	"Pass all",
}

var eventStepLabels = []string{"Total events", "Pass all"}

// TrackStepLabels returns the bin labels of the track cutflow.
func TrackStepLabels() []string { return append([]string(nil), trackStepLabels[:]...) }

// EventStepLabels returns the bin labels of the event cutflow.
func EventStepLabels() []string { return append([]string(nil), eventStepLabels...) }

const maxTracksPerEvent = 300

// CutflowRow summarises one event.
type CutflowRow struct {
	RunNumber   int64
	EventNumber int64
	LumiBlock   int64
	NTrks       int32
	NTrksPass   int32
}

// Cutflow counts events and tracks through the processing checkpoints. It
// is safe for concurrent use by engines running on different events.
type Cutflow struct {
	mu sync.Mutex

	evt     *hbook.H1D
	trk     *hbook.H1D
	ntrks   *hbook.H1D
	ntrksOK *hbook.H1D
	rows    []CutflowRow

	// events per track multiplicity, overflow included
	nAll  map[int]float64
	nPass map[int]float64
}

func NewCutflow() *Cutflow {
	newHist := func(name string, n int, max float64) *hbook.H1D {
		h := hbook.NewH1D(n, 0, max)
		h.Annotation()["name"] = name
		return h
	}
	return &Cutflow{
		evt:     newHist("cutflow_evt", len(eventStepLabels), float64(len(eventStepLabels))),
		trk:     newHist("cutflow_trk", int(numTrackSteps), float64(numTrackSteps)),
		ntrks:   newHist("ntrks_per_event_all", maxTracksPerEvent, maxTracksPerEvent),
		ntrksOK: newHist("ntrks_per_event_pass_all", maxTracksPerEvent, maxTracksPerEvent),
		nAll:    make(map[int]float64),
		nPass:   make(map[int]float64),
	}
}

// tally is the cutflow of a single event, merged into a Cutflow once the
// event is done.
type tally struct {
	steps  [numTrackSteps]int
	passed bool
}

func (t *tally) pass(s TrackStep) { t.steps[s]++ }

func (c *Cutflow) merge(t *tally, info *EventInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.evt.Fill(0.5, 1)
	if t.passed {
		c.evt.Fill(1.5, 1)
	}
	for s, n := range t.steps {
		if n > 0 {
			c.trk.Fill(float64(s)+0.5, float64(n))
		}
	}
	c.ntrks.Fill(float64(t.steps[StepTotal]), 1)
	c.ntrksOK.Fill(float64(t.steps[StepAll]), 1)
	c.nAll[t.steps[StepTotal]]++
	c.nPass[t.steps[StepAll]]++

	if info != nil {
		c.rows = append(c.rows, CutflowRow{
			RunNumber:   info.RunNumber,
			EventNumber: info.EventNumber,
			LumiBlock:   info.LumiBlock,
			NTrks:       int32(t.steps[StepTotal]),
			NTrksPass:   int32(t.steps[StepAll]),
		})
	}
}

// Merge adds the counts of o into c. The two cutflows are never locked at
// the same time.
func (c *Cutflow) Merge(o *Cutflow) {
	if c == o {
		return
	}
	o.mu.Lock()
	evt, trk := binContents(o.evt), binContents(o.trk)
	nAll, nPass := maps.Clone(o.nAll), maps.Clone(o.nPass)
	rows := append([]CutflowRow(nil), o.rows...)
	o.mu.Unlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	fillBins(c.evt, evt)
	fillBins(c.trk, trk)
	for n, w := range nAll {
		c.ntrks.Fill(float64(n), w)
		c.nAll[n] += w
	}
	for n, w := range nPass {
		c.ntrksOK.Fill(float64(n), w)
		c.nPass[n] += w
	}
	c.rows = append(c.rows, rows...)
}

func binContents(h *hbook.H1D) []float64 {
	out := make([]float64, h.Len())
	for i := range out {
		_, out[i] = h.XY(i)
	}
	return out
}

// fillBins adds ys to the unit-width bins of h.
func fillBins(h *hbook.H1D, ys []float64) {
	for i, y := range ys {
		if y != 0 {
			h.Fill(float64(i)+0.5, y)
		}
	}
}

// EventsWithTracks returns the number of events with n tracks, and with n
// tracks passing every step. Multiplicities beyond the histogram range are
// counted too.
func (c *Cutflow) EventsWithTracks(n int) (all, pass float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nAll[n], c.nPass[n]
}

// TrackCounts returns the number of tracks reaching each TrackStep.
func (c *Cutflow) TrackCounts() []float64 { return c.counts(c.trk) }

// EventCounts returns the number of events in each event cutflow bin.
func (c *Cutflow) EventCounts() []float64 { return c.counts(c.evt) }

func (c *Cutflow) counts(h *hbook.H1D) []float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return binContents(h)
}

// Rows returns the per-event summaries in merge order.
func (c *Cutflow) Rows() []CutflowRow {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]CutflowRow(nil), c.rows...)
}

// Hists returns the cutflow histograms: event cutflow, track cutflow,
// tracks per event and passing tracks per event. They must not be used
// while events are still being merged.
func (c *Cutflow) Hists() []*hbook.H1D {
	return []*hbook.H1D{c.evt, c.trk, c.ntrks, c.ntrksOK}
}
