package main

import (
	"fmt"
	"image/color"
	"os"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/decibelcooper/eoverp"
	"github.com/decibelcooper/eoverp/decorate"
	"github.com/decibelcooper/eoverp/treeio"
)

var (
	prefix   = flag.String("prefix", decorate.DefaultConfig().Prefix, "decoration name prefix")
	scale    = flag.String("scale", "ClusterEnergy", "energy scale: ClusterEnergy, ClusterEnergyLCW or CellEnergy")
	window   = flag.String("window", "200", "reference window name")
	pMin     = flag.Float64("minp", 1, "minimum track momentum")
	pMax     = flag.Float64("maxp", 30, "maximum track momentum")
	etaLimit = flag.Float64("etalimit", 2.5, "maximum absolute value of track eta")
	zLimit   = flag.Float64("zlimit", 1, "maximum of the color map")
	mean     = flag.Bool("mean", false, "map the mean E/p instead of its RMS")
	nBinsP   = flag.Int("nbinsp", 10, "number of bins in momentum")
	nBinsEta = flag.Int("nbinseta", 10, "number of bins in eta")
	title    = flag.String("title", "", "plot title")
	output   = flag.String("output", "eopresp.png", "output file")
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
	q, ok := decorate.WindowQuantity(*scale)
	if !ok {
		log.Fatal("unknown energy scale", zap.String("scale", *scale))
	}
	energy := decorate.WindowName(*prefix, decorate.RegionTotal, q, *window)

	grid := NewRespGrid(*nBinsEta, -*etaLimit, *etaLimit, *nBinsP, *pMin, *pMax)
	grid.Mean = *mean
	for _, filename := range flag.Args() {
		if err := fill(grid, filename, energy); err != nil {
			log.Fatal("could not read decorated tracks", zap.String("file", filename), zap.Error(err))
		}
	}

	p := plot.New()
	p.Title.Text = *title
	p.X.Label.Text = "eta"
	p.Y.Label.Text = "p"
	p.X.Tick.Marker = eoverp.PreciseTicks{NSuggestedTicks: 5}
	p.Y.Tick.Marker = eoverp.PreciseTicks{NSuggestedTicks: 5}

	img := vgimg.New(670, 400)
	dc := draw.New(img)
	dc0 := draw.Crop(dc, 0, -70, 0, 0)
	dc1 := draw.Crop(dc, 620, 0, 0, 0)

	colorMap := moreland.ExtendedBlackBody()
	colorMap.SetMin(0)
	colorMap.SetMax(*zLimit)
	pal := colorMap.Palette(1000)
	heatMap := plotter.NewHeatMap(grid, pal)
	heatMap.Min = 0
	heatMap.Max = *zLimit
	heatMap.NaN = color.Transparent
	p.Add(heatMap)

	p.Draw(dc0)

	p = plot.New()

	colorBar := &plotter.ColorBar{ColorMap: colorMap}
	colorBar.Vertical = true
	p.Add(colorBar)
	p.HideX()
	p.Y.Padding = 0

	p.Draw(dc1)

	w, err := os.Create(*output)
	if err != nil {
		log.Fatal("could not create output", zap.Error(err))
	}
	defer w.Close()
	png := vgimg.PngCanvas{Canvas: img}
	if _, err = png.WriteTo(w); err != nil {
		log.Fatal("could not write output", zap.Error(err))
	}
}

func fill(grid *RespGrid, filename, energy string) error {
	r, err := treeio.Open(filename)
	if err != nil {
		return err
	}
	defer r.Close()

	return r.Each([]string{treeio.BranchP, treeio.BranchEta, energy}, nil, func(row treeio.Row) error {
		p, eta := row.Floats[0], row.Floats[1]
		if eop, ok := eoverp.EOverP(row.Floats[2], p); ok {
			grid.Fill(float64(eta), float64(p), eop)
		}
		return nil
	})
}
