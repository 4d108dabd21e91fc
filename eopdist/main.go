package main

import (
	"fmt"
	"math"
	"os"

	flag "github.com/spf13/pflag"
	"go-hep.org/x/hep/hbook"
	"go-hep.org/x/hep/hplot"
	"go.uber.org/zap"
	"gonum.org/v1/plot/vg"

	"github.com/decibelcooper/eoverp"
	"github.com/decibelcooper/eoverp/decorate"
	"github.com/decibelcooper/eoverp/treeio"
)

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: `+os.Args[0]+` [options] <decorated-root-files>...

options:
`,
	)
	flag.PrintDefaults()
}

var (
	prefix   = flag.String("prefix", decorate.DefaultConfig().Prefix, "decoration name prefix")
	scale    = flag.String("scale", "ClusterEnergy", "energy scale: ClusterEnergy, ClusterEnergyLCW or CellEnergy")
	window   = flag.String("window", "200", "reference window name")
	pMin     = flag.Float64("minp", 1, "minimum track momentum")
	etaLimit = flag.Float64("etalimit", 2.5, "maximum absolute value of track eta")
	nBins    = flag.Int("nbins", 100, "number of bins")
	eopMax   = flag.Float64("max", 2, "upper edge of the E/p axis")
	title    = flag.String("title", "", "plot title")
	output   = flag.String("output", "eop.png", "output file")
)

func main() {
	flag.Usage = printUsage
	flag.Parse()

	log, err := eoverp.NewLogger(false)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if flag.NArg() < 1 {
		printUsage()
		log.Fatal("invalid arguments")
	}
	q, ok := decorate.WindowQuantity(*scale)
	if !ok {
		log.Fatal("unknown energy scale", zap.String("scale", *scale))
	}
	energy := decorate.WindowName(*prefix, decorate.RegionTotal, q, *window)

	hist := hbook.NewH1D(*nBins, -*eopMax/2, *eopMax)
	for _, filename := range flag.Args() {
		if err := fill(hist, filename, energy); err != nil {
			log.Fatal("could not read decorated tracks", zap.String("file", filename), zap.Error(err))
		}
	}
	log.Info("filled", zap.String("branch", energy), zap.Int64("entries", hist.Entries()))

	p := hplot.New()
	p.Title.Text = *title
	p.X.Label.Text = fmt.Sprintf("E/p (%s, window %s)", *scale, *window)
	p.X.Tick.Marker = eoverp.PreciseTicks{NSuggestedTicks: 5}
	p.Y.Tick.Marker = eoverp.PreciseTicks{NSuggestedTicks: 5}

	hPlot := hplot.NewH1D(hist)
	hPlot.Infos.Style = hplot.HInfoSummary
	p.Add(hPlot)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, *output); err != nil {
		log.Fatal("could not save plot", zap.Error(err))
	}
}

func fill(hist *hbook.H1D, filename, energy string) error {
	r, err := treeio.Open(filename)
	if err != nil {
		return err
	}
	defer r.Close()

	return r.Each([]string{treeio.BranchP, treeio.BranchEta, energy}, nil, func(row treeio.Row) error {
		p, eta := row.Floats[0], row.Floats[1]
		if float64(p) < *pMin || math.Abs(float64(eta)) > *etaLimit {
			return nil
		}
		if eop, ok := eoverp.EOverP(row.Floats[2], p); ok {
			hist.Fill(eop, 1)
		}
		return nil
	})
}
