package calo

// HitSums holds calibration-hit energy per sampling and deposition
// mechanism.
type HitSums struct {
	EM        LayerSums
	NonEM     LayerSums
	Invisible LayerSums
	Escaped   LayerSums
}

func (h *HitSums) add(l SamplingLayer, hit *CalibrationHit) {
	i := l.Index()
	h.EM[i] += hit.EM
	h.NonEM[i] += hit.NonEM
	h.Invisible[i] += hit.Invisible
	h.Escaped[i] += hit.Escaped
}

// Merge adds o into h.
func (h *HitSums) Merge(o *HitSums) {
	h.EM.Merge(&o.EM)
	h.NonEM.Merge(&o.NonEM)
	h.Invisible.Merge(&o.Invisible)
	h.Escaped.Merge(&o.Escaped)
}

// HitContainer is a calibration-hit collection indexed by cell. A nil
// *HitContainer stands for a collection absent from the event.
type HitContainer struct {
	hits   []CalibrationHit
	byCell map[uint64][]int
}

// NewHitContainer indexes hits by cell identifier.
func NewHitContainer(hits []CalibrationHit) *HitContainer {
	hc := &HitContainer{
		hits:   hits,
		byCell: make(map[uint64][]int, len(hits)),
	}
	for i := range hits {
		id := hits[i].CellID
		hc.byCell[id] = append(hc.byCell[id], i)
	}
	return hc
}

func (hc *HitContainer) Len() int {
	if hc == nil {
		return 0
	}
	return len(hc.hits)
}

// TruthTable resolves truth barcodes to PDG codes. A nil *TruthTable stands
// for truth information absent from the event.
type TruthTable struct {
	pdg map[int]int
}

// NewTruthTable indexes ps by barcode. The first particle with a given
// barcode wins.
func NewTruthTable(ps []TruthParticle) *TruthTable {
	t := &TruthTable{pdg: make(map[int]int, len(ps))}
	for _, p := range ps {
		if _, dup := t.pdg[p.Barcode]; !dup {
			t.pdg[p.Barcode] = p.PDGID
		}
	}
	return t
}

// PDGID returns the PDG code of barcode, or 0 and false when unknown.
func (t *TruthTable) PDGID(barcode int) (int, bool) {
	if t == nil {
		return 0, false
	}
	id, ok := t.pdg[barcode]
	return id, ok
}

// PDGFilter selects background particles by PDG code. When Include is not
// empty only listed codes pass and Exclude is ignored; otherwise codes in
// Exclude are rejected.
type PDGFilter struct {
	Include []int
	Exclude []int
}

// Keep reports whether pdg passes the filter.
func (f PDGFilter) Keep(pdg int) bool {
	if len(f.Include) > 0 {
		return contains(f.Include, pdg)
	}
	if len(f.Exclude) > 0 {
		return !contains(f.Exclude, pdg)
	}
	return true
}

func contains(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

// AddParticle accumulates the hits deposited by barcode in the cells of c.
// Nothing is added for barcode 0 or an absent container.
func (h *HitSums) AddParticle(hc *HitContainer, c *Cluster, barcode int) {
	if hc == nil || barcode == 0 {
		return
	}
	for i := range c.Cells {
		cell := &c.Cells[i]
		for _, j := range hc.byCell[cell.ID] {
			hit := &hc.hits[j]
			if hit.Particle == barcode {
				h.add(cell.Layer, hit)
			}
		}
	}
}

// AddBackground accumulates the hits in the cells of c that were not
// deposited by barcode and whose particle passes f. Nothing is added when
// the container or the truth table is absent. It returns the number of
// hits whose particle could not be resolved; those are treated as PDG 0.
func (h *HitSums) AddBackground(hc *HitContainer, c *Cluster, barcode int, truth *TruthTable, f PDGFilter) (unresolved int) {
	if hc == nil || truth == nil {
		return 0
	}
	layers := make(map[uint64]SamplingLayer, len(c.Cells))
	for i := range c.Cells {
		if _, dup := layers[c.Cells[i].ID]; !dup {
			layers[c.Cells[i].ID] = c.Cells[i].Layer
		}
	}
	for i := range hc.hits {
		hit := &hc.hits[i]
		if hit.Particle == barcode {
			continue
		}
		l, linked := layers[hit.CellID]
		if !linked {
			continue
		}
		pdg, ok := truth.PDGID(hit.Particle)
		if !ok {
			unresolved++
		}
		if !f.Keep(pdg) {
			continue
		}
		h.add(l, hit)
	}
	return unresolved
}
