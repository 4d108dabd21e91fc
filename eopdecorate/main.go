package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/decibelcooper/eoverp"
	"github.com/decibelcooper/eoverp/decorate"
	"github.com/decibelcooper/eoverp/extrap"
	"github.com/decibelcooper/eoverp/lcioevt"
	"github.com/decibelcooper/eoverp/treeio"
)

type options struct {
	config      string
	prefix      string
	radii       eoverp.RadiusFlags
	cutflow     bool
	plotCutflow bool
	jobs        int
	outputDir   string
	profile     string
	verbose     bool
	bfield      float64
	mcParticles string
}

func main() {
	if err := newCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newCommand() *cobra.Command {
	o := options{
		jobs:        runtime.NumCPU(),
		outputDir:   ".",
		bfield:      lcioevt.DefaultOptions().BField,
		mcParticles: lcioevt.DefaultOptions().MCParticles,
	}
	log := zap.NewNop()

	cmd := &cobra.Command{
		Use:          "eopdecorate [options] <lcio-input-files>...",
		Short:        "Decorate tracks with the calorimeter energy around their extrapolation",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			var err error
			log, err = eoverp.NewLogger(o.verbose)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.decorateConfig(cmd)
			if err != nil {
				return err
			}
			return run(cmd.Context(), log, cfg, &o, args)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = log.Sync()
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&o.config, "config", "", "yaml configuration file")
	flags.StringVar(&o.prefix, "prefix", decorate.DefaultConfig().Prefix, "decoration name prefix")
	flags.Var(&o.radii, "threshold", "track-cluster dR threshold (repeatable)")
	flags.BoolVar(&o.cutflow, "cutflow", true, "record the event and track cutflow")
	flags.BoolVar(&o.plotCutflow, "plot-cutflow", false, "plot the cutflow histograms to cutflow.png")
	flags.IntVarP(&o.jobs, "jobs", "j", o.jobs, "number of files processed concurrently")
	flags.StringVarP(&o.outputDir, "output-dir", "o", o.outputDir, "output directory")
	flags.StringVar(&o.profile, "profile", "", "write a cpu or mem profile to the output directory")
	flags.BoolVarP(&o.verbose, "verbose", "v", false, "debug logging")
	flags.Float64Var(&o.bfield, "bfield", o.bfield, "solenoid field in Tesla")
	flags.StringVar(&o.mcParticles, "mc-particles", o.mcParticles, "LCIO truth particle collection")
	return cmd
}

// decorateConfig loads the configuration file, if any, and applies the
// flags given on the command line over it.
func (o *options) decorateConfig(cmd *cobra.Command) (decorate.Config, error) {
	cfg := decorate.DefaultConfig()
	if o.config != "" {
		var err error
		if cfg, err = decorate.LoadConfig(o.config); err != nil {
			return cfg, err
		}
	}
	if cmd.Flags().Changed("prefix") {
		cfg.Prefix = o.prefix
	}
	if o.radii.Changed() {
		cfg.Thresholds = o.radii.Thresholds()
	}
	if cmd.Flags().Changed("cutflow") {
		cfg.DoCutflow = o.cutflow
	}
	return cfg, nil
}

func run(ctx context.Context, log *zap.Logger, cfg decorate.Config, o *options, inputs []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := os.MkdirAll(o.outputDir, 0o755); err != nil {
		return err
	}

	switch o.profile {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(o.outputDir), profile.Quiet).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath(o.outputDir), profile.Quiet).Stop()
	default:
		return fmt.Errorf("unknown profile %q", o.profile)
	}

	ext := extrap.NewHelix()
	ext.BField = o.bfield
	cutflow := decorate.NewCutflow()
	eng, err := decorate.New(cfg, ext, decorate.WithLogger(log), decorate.WithCutflow(cutflow))
	if err != nil {
		return err
	}
	lopts := lcioevt.Options{BField: o.bfield, MCParticles: o.mcParticles}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(o.jobs, 1))
	for _, in := range inputs {
		in := in
		out := filepath.Join(o.outputDir, strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))+".root")
		g.Go(func() error {
			return decorateFile(ctx, log, eng, lopts, in, out)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if eng.Cutflow() == nil {
		return nil
	}
	path := filepath.Join(o.outputDir, "cutflow.root")
	if err := treeio.WriteCutflow(path, cutflow); err != nil {
		return err
	}
	counts := cutflow.EventCounts()
	log.Info("cutflow written",
		zap.String("output", path),
		zap.Float64("events", counts[0]),
		zap.Float64("passed", counts[1]),
	)
	if o.plotCutflow {
		return plotCutflow(filepath.Join(o.outputDir, "cutflow.png"), cutflow)
	}
	return nil
}

func decorateFile(ctx context.Context, log *zap.Logger, eng *decorate.Engine, opts lcioevt.Options, in, out string) error {
	r, err := lcioevt.Open(in, opts)
	if err != nil {
		return err
	}
	defer r.Close()

	sink, err := treeio.Create(out, eng.Schema())
	if err != nil {
		return err
	}

	n := 0
	for r.Next() {
		if err := ctx.Err(); err != nil {
			sink.Close()
			return err
		}
		if err := eng.Process(r.Event(), sink); err != nil {
			sink.Close()
			return fmt.Errorf("%s: event %d: %w", in, n, err)
		}
		n++
	}
	if err := r.Err(); err != nil {
		sink.Close()
		return err
	}
	if err := sink.Close(); err != nil {
		return err
	}

	log.Info("decorated", zap.String("input", in), zap.String("output", out), zap.Int("events", n))
	return nil
}
