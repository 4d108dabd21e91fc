package treeio

import (
	"fmt"

	"go-hep.org/x/hep/groot"
	"go-hep.org/x/hep/groot/rhist"
	"go-hep.org/x/hep/groot/riofs"
	"go-hep.org/x/hep/groot/rtree"
	"go-hep.org/x/hep/hbook"

	"github.com/decibelcooper/eoverp/decorate"
)

const (
	// CutflowTreeName is the tree holding one entry per event.
	CutflowTreeName = "cutflow_tree"

	// CutflowLabelsTreeName is the tree naming the bins of the cutflow
	// histograms, one entry per bin.
	CutflowLabelsTreeName = "cutflow_labels"
)

// WriteCutflow stores the cutflow histograms, their bin labels and the
// per-event cutflow tree in a new ROOT file at path.
func WriteCutflow(path string, c *decorate.Cutflow) error {
	f, err := groot.Create(path)
	if err != nil {
		return fmt.Errorf("treeio: could not create %q: %w", path, err)
	}
	if err := writeCutflow(f, c); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("treeio: could not close %q: %w", path, err)
	}
	return nil
}

func writeCutflow(f *riofs.File, c *decorate.Cutflow) error {
	hists := c.Hists()
	for _, h := range hists {
		if err := f.Put(histName(h), rhist.NewH1DFrom(h)); err != nil {
			return fmt.Errorf("treeio: could not store %s: %w", histName(h), err)
		}
	}
	if err := writeLabels(f, []binLabels{
		{histName(hists[0]), decorate.EventStepLabels()},
		{histName(hists[1]), decorate.TrackStepLabels()},
	}); err != nil {
		return err
	}

	var row struct {
		run, evt, lumi int64
		n, pass        int32
	}
	w, err := rtree.NewWriter(f, CutflowTreeName, []rtree.WriteVar{
		{Name: "runNumber", Value: &row.run},
		{Name: "eventNumber", Value: &row.evt},
		{Name: "lumiBlock", Value: &row.lumi},
		{Name: "nTrks", Value: &row.n},
		{Name: "nTrks_pass", Value: &row.pass},
	})
	if err != nil {
		return fmt.Errorf("treeio: could not create cutflow tree: %w", err)
	}
	for _, r := range c.Rows() {
		row.run, row.evt, row.lumi = r.RunNumber, r.EventNumber, r.LumiBlock
		row.n, row.pass = r.NTrks, r.NTrksPass
		if _, err := w.Write(); err != nil {
			w.Close()
			return fmt.Errorf("treeio: could not write cutflow row: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("treeio: could not close cutflow tree: %w", err)
	}
	return nil
}

func histName(h *hbook.H1D) string {
	name, _ := h.Annotation()["name"].(string)
	return name
}

type binLabels struct {
	hist   string
	labels []string
}

func writeLabels(f *riofs.File, hists []binLabels) error {
	var lab struct {
		hist, label string
		bin         int32
	}
	w, err := rtree.NewWriter(f, CutflowLabelsTreeName, []rtree.WriteVar{
		{Name: "hist", Value: &lab.hist},
		{Name: "bin", Value: &lab.bin},
		{Name: "label", Value: &lab.label},
	})
	if err != nil {
		return fmt.Errorf("treeio: could not create cutflow labels tree: %w", err)
	}
	for _, h := range hists {
		for i, l := range h.labels {
			lab.hist, lab.bin, lab.label = h.hist, int32(i), l
			if _, err := w.Write(); err != nil {
				w.Close()
				return fmt.Errorf("treeio: could not write cutflow label: %w", err)
			}
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("treeio: could not close cutflow labels tree: %w", err)
	}
	return nil
}
