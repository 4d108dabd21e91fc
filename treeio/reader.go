package treeio

import (
	"fmt"

	"go-hep.org/x/hep/groot"
	"go-hep.org/x/hep/groot/riofs"
	"go-hep.org/x/hep/groot/rtree"
)

// Reader reads back the track tree written by a TreeSink.
type Reader struct {
	f *riofs.File
	t rtree.Tree
}

// Row holds the values of the branches selected in Reader.Each, in
// selection order.
type Row struct {
	Floats []float32
	Ints   []int32
}

// Open opens the track tree of the ROOT file at path.
func Open(path string) (*Reader, error) {
	f, err := groot.Open(path)
	if err != nil {
		return nil, fmt.Errorf("treeio: could not open %q: %w", path, err)
	}
	obj, err := f.Get(TreeName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("treeio: could not find %s in %q: %w", TreeName, path, err)
	}
	t, ok := obj.(rtree.Tree)
	if !ok {
		f.Close()
		return nil, fmt.Errorf("treeio: %s in %q is a %T", TreeName, path, obj)
	}
	return &Reader{f: f, t: t}, nil
}

// Entries returns the number of tracks in the tree.
func (r *Reader) Entries() int64 { return r.t.Entries() }

// Each calls fn for every track with the values of the named float32 and
// int32 branches. The Row is reused between calls.
func (r *Reader) Each(floats, ints []string, fn func(Row) error) error {
	row := Row{
		Floats: make([]float32, len(floats)),
		Ints:   make([]int32, len(ints)),
	}
	rvars := make([]rtree.ReadVar, 0, len(floats)+len(ints))
	for i, n := range floats {
		rvars = append(rvars, rtree.ReadVar{Name: n, Value: &row.Floats[i]})
	}
	for i, n := range ints {
		rvars = append(rvars, rtree.ReadVar{Name: n, Value: &row.Ints[i]})
	}

	tr, err := rtree.NewReader(r.t, rvars)
	if err != nil {
		return fmt.Errorf("treeio: could not create tree reader: %w", err)
	}
	defer tr.Close()

	return tr.Read(func(rtree.RCtx) error { return fn(row) })
}

func (r *Reader) Close() error {
	return r.f.Close()
}
