package main

import (
	"fmt"
	"math"
	"os"

	flag "github.com/spf13/pflag"
	"go-hep.org/x/hep/hbook"
	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/decibelcooper/eoverp"
	"github.com/decibelcooper/eoverp/decorate"
	"github.com/decibelcooper/eoverp/treeio"
)

var (
	prefix   = flag.String("prefix", decorate.DefaultConfig().Prefix, "decoration name prefix")
	pTMin    = flag.Float64("minpt", 0.5, "minimum transverse momentum")
	etaLimit = flag.Float64("etalimit", 4, "maximum absolute value of eta")
	nBins    = flag.Int("nbins", 80, "number of bins")
	title    = flag.String("title", "", "plot title")
	output   = flag.String("output", "extrapeff", "output file prefix")
)

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: `+os.Args[0]+` [options] <decorated-root-files>...

options:
`,
	)
	flag.PrintDefaults()
}

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

	p := plot.New()
	p.Title.Text = *title
	p.X.Label.Text = "eta"
	p.Y.Label.Text = "extrapolation efficiency"
	p.X.Tick.Marker = eoverp.PreciseTicks{NSuggestedTicks: 5}
	p.Y.Tick.Marker = eoverp.PreciseTicks{NSuggestedTicks: 5}

	flagName := decorate.ExtrapolationName(*prefix)
	for i, filename := range flag.Args() {
		passHist := hbook.NewH1D(*nBins, -*etaLimit, *etaLimit)
		totalHist := hbook.NewH1D(*nBins, -*etaLimit, *etaLimit)
		if err := fill(passHist, totalHist, filename, flagName); err != nil {
			log.Fatal("could not read decorated tracks", zap.String("file", filename), zap.Error(err))
		}

		xerr, yerr, err := efficiencyBars(passHist, totalHist)
		if err != nil {
			log.Fatal("could not build error bars", zap.Error(err))
		}
		pointColor := plotutil.Color(i)
		xerr.LineStyle.Color = pointColor
		yerr.LineStyle.Color = pointColor
		p.Add(xerr, yerr)
	}

	for _, ext := range []string{".pdf", ".png"} {
		if err := p.Save(6*vg.Inch, 4*vg.Inch, *output+ext); err != nil {
			log.Fatal("could not save plot", zap.Error(err))
		}
	}
}

func fill(passHist, totalHist *hbook.H1D, filename, flagName string) error {
	r, err := treeio.Open(filename)
	if err != nil {
		return err
	}
	defer r.Close()

	return r.Each([]string{treeio.BranchPt, treeio.BranchEta}, []string{flagName}, func(row treeio.Row) error {
		pt, eta := float64(row.Floats[0]), float64(row.Floats[1])
		if pt < *pTMin {
			return nil
		}
		totalHist.Fill(eta, 1)
		if row.Ints[0] != 0 {
			passHist.Fill(eta, 1)
		}
		return nil
	})
}

// efficiencyBars turns the per-bin ratio of pass to total into error bars,
// with the bin width as horizontal error.
func efficiencyBars(passHist, totalHist *hbook.H1D) (*plotter.XErrorBars, *plotter.YErrorBars, error) {
	n := totalHist.Len()
	points := make(plotter.XYs, n)
	xErrors := make(plotter.XErrors, n)
	yErrors := make(plotter.YErrors, n)
	binHalfWidth := 0.5 * (totalHist.XMax() - totalHist.XMin()) / float64(n)
	binSigma := binHalfWidth / math.Sqrt(3.)
	for i := range points {
		trueX, trueY := totalHist.XY(i)
		_, passY := passHist.XY(i)

		points[i].X = trueX + binHalfWidth
		xErrors[i].Low = binSigma
		xErrors[i].High = binSigma

		eff, sigma := eoverp.Efficiency(passY, trueY)
		points[i].Y = eff
		yErrors[i].Low = sigma
		yErrors[i].High = sigma
	}
	errPoints := plotutil.ErrorPoints{XYs: points, XErrors: xErrors, YErrors: yErrors}
	xerr, err := plotter.NewXErrorBars(errPoints)
	if err != nil {
		return nil, nil, err
	}
	yerr, err := plotter.NewYErrorBars(errPoints)
	if err != nil {
		return nil, nil, err
	}
	return xerr, yerr, nil
}
