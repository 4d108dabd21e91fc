// Package treeio stores decorated tracks and the cutflow in ROOT files.
package treeio

import (
	"fmt"

	"go-hep.org/x/hep/groot"
	"go-hep.org/x/hep/groot/riofs"
	"go-hep.org/x/hep/groot/rtree"

	"github.com/decibelcooper/eoverp/decorate"
)

const (
	// TreeName is the tree holding one entry per track.
	TreeName = "tracks"

	// Track kinematic branches written alongside the decorations.
	BranchPt      = "trk_pt"
	BranchEta     = "trk_eta"
	BranchPhi     = "trk_phi"
	BranchP       = "trk_p"
	BranchCharge  = "trk_charge"
	BranchBarcode = "trk_truthBarcode"
)

// TreeSink is a decorate.Sink writing each track as an entry of a ROOT
// tree, with one branch per decoration.
type TreeSink struct {
	f *riofs.File
	w rtree.Writer

	kin     [5]float32
	barcode int32
	count   int32
	floats  []float32
	ints    []int32
	fvecs   [][]float32
	ivecs   [][]int32
}

// Create creates the ROOT file at path with a tree laid out after s.
func Create(path string, s *decorate.Schema) (*TreeSink, error) {
	f, err := groot.Create(path)
	if err != nil {
		return nil, fmt.Errorf("treeio: could not create %q: %w", path, err)
	}

	t := &TreeSink{
		f:      f,
		floats: make([]float32, len(s.FloatNames())),
		ints:   make([]int32, len(s.IntNames())),
		fvecs:  make([][]float32, len(s.FloatVectorNames())),
		ivecs:  make([][]int32, len(s.IntVectorNames())),
	}

	wvars := []rtree.WriteVar{
		{Name: BranchPt, Value: &t.kin[0]},
		{Name: BranchEta, Value: &t.kin[1]},
		{Name: BranchPhi, Value: &t.kin[2]},
		{Name: BranchP, Value: &t.kin[3]},
		{Name: BranchCharge, Value: &t.kin[4]},
		{Name: BranchBarcode, Value: &t.barcode},
	}
	for i, n := range s.IntNames() {
		wvars = append(wvars, rtree.WriteVar{Name: n, Value: &t.ints[i]})
	}
	for i, n := range s.FloatNames() {
		wvars = append(wvars, rtree.WriteVar{Name: n, Value: &t.floats[i]})
	}
	if s.Verbose() {
		count := s.VectorCountName()
		wvars = append(wvars, rtree.WriteVar{Name: count, Value: &t.count})
		for i, n := range s.FloatVectorNames() {
			wvars = append(wvars, rtree.WriteVar{Name: n, Value: &t.fvecs[i], Count: count})
		}
		for i, n := range s.IntVectorNames() {
			wvars = append(wvars, rtree.WriteVar{Name: n, Value: &t.ivecs[i], Count: count})
		}
	}

	t.w, err = rtree.NewWriter(f, TreeName, wvars)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("treeio: could not create tree: %w", err)
	}
	return t, nil
}

func (t *TreeSink) Write(r *decorate.Record) error {
	t.kin = [5]float32{
		float32(r.Track.Pt),
		float32(r.Track.Eta),
		float32(r.Track.Phi),
		float32(r.Track.P),
		float32(r.Track.Charge),
	}
	t.barcode = int32(r.Track.TruthBarcode)
	copy(t.floats, r.Floats)
	copy(t.ints, r.Ints)
	t.count = 0
	for i, v := range r.FloatVecs {
		t.fvecs[i] = append(t.fvecs[i][:0], v...)
		t.count = int32(len(v))
	}
	for i, v := range r.IntVecs {
		t.ivecs[i] = append(t.ivecs[i][:0], v...)
	}
	if _, err := t.w.Write(); err != nil {
		return fmt.Errorf("treeio: could not write track: %w", err)
	}
	return nil
}

// Close flushes the tree and closes the file.
func (t *TreeSink) Close() error {
	if err := t.w.Close(); err != nil {
		t.f.Close()
		return fmt.Errorf("treeio: could not close tree: %w", err)
	}
	if err := t.f.Close(); err != nil {
		return fmt.Errorf("treeio: could not close file: %w", err)
	}
	return nil
}
