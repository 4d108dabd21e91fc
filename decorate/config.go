package decorate

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/decibelcooper/eoverp/calo"
)

// CalibrationHits names the six calibration-hit containers.
type CalibrationHits struct {
	LArActive   string `yaml:"lar_active"`
	LArInactive string `yaml:"lar_inactive"`
	// Dead-material hits sit outside any cell and never contribute to a
	// decoration. The name is kept for completeness and only logged.
	LArDeadMaterial string `yaml:"lar_dead_material"`
	TileActive      string `yaml:"tile_active"`
	TileInactive    string `yaml:"tile_inactive"`
	// See LArDeadMaterial.
	TileDeadMat string `yaml:"tile_dead_material"`
}

// Config is the decoration setup. It is copied into the Engine by New and
// never changed afterwards.
type Config struct {
	Prefix         string          `yaml:"prefix"`
	EventInfo      string          `yaml:"event_info"`
	Tracks         string          `yaml:"tracks"`
	Clusters       string          `yaml:"clusters"`
	Cells          string          `yaml:"cells"`
	TruthParticles string          `yaml:"truth_particles"`
	CalibHits      CalibrationHits `yaml:"calibration_hits"`
	DoCutflow      bool            `yaml:"do_cutflow"`

	Thresholds       []calo.Threshold `yaml:"thresholds"`
	ReferenceWindows []calo.Threshold `yaml:"reference_windows"`

	// VerboseWindow is the cone of the per-cluster vector decorations.
	// Zero disables them.
	VerboseWindow float64 `yaml:"verbose_window"`
	LHEDSigma     float64 `yaml:"lhed_sigma"`
}

// DefaultConfig returns the standard ATLAS container names and cuts.
func DefaultConfig() Config {
	return Config{
		Prefix:         "CALO",
		EventInfo:      "EventInfo",
		Tracks:         "InDetTrackParticles",
		Clusters:       "CaloCalTopoClusters",
		Cells:          "AllCalo",
		TruthParticles: "TruthParticles",
		CalibHits: CalibrationHits{
			LArActive:       "LArCalibrationHitActive",
			LArInactive:     "LArCalibrationHitInactive",
			LArDeadMaterial: "LArCalibrationHitDeadMaterial",
			TileActive:      "TileCalibHitActiveCell",
			TileInactive:    "TileCalibHitInactiveCell",
			TileDeadMat:     "TileCalibHitDeadMaterial",
		},
		DoCutflow:  true,
		Thresholds: calo.DefaultThresholds(),
		ReferenceWindows: []calo.Threshold{
			{Name: "200", Radius: 0.2},
			{Name: "100", Radius: 0.1},
		},
		VerboseWindow: 0.2,
		LHEDSigma:     calo.DefaultLHEDSigma,
	}
}

// LoadConfig reads a yaml file over DefaultConfig. Keys absent from the
// file keep their default value.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("decorate: reading config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("decorate: parsing config %s: %w", path, err)
	}
	return cfg, nil
}

var errMissingName = errors.New("decorate: required container name is empty")

// Validate reports configuration errors.
func (c *Config) Validate() error {
	for _, req := range []struct{ key, val string }{
		{"tracks", c.Tracks},
		{"clusters", c.Clusters},
		{"cells", c.Cells},
	} {
		if req.val == "" {
			return fmt.Errorf("%w: %s", errMissingName, req.key)
		}
	}
	if _, err := calo.NewThresholdSet(c.Thresholds); err != nil {
		return fmt.Errorf("decorate: thresholds: %w", err)
	}
	if len(c.ReferenceWindows) > 0 {
		if _, err := calo.NewThresholdSet(c.ReferenceWindows); err != nil {
			return fmt.Errorf("decorate: reference windows: %w", err)
		}
	}
	if c.VerboseWindow < 0 {
		return fmt.Errorf("decorate: negative verbose window %v", c.VerboseWindow)
	}
	if c.LHEDSigma <= 0 {
		return fmt.Errorf("decorate: lhed sigma must be positive, got %v", c.LHEDSigma)
	}
	return nil
}

func (c Config) clone() Config {
	out := c
	out.Thresholds = append([]calo.Threshold(nil), c.Thresholds...)
	out.ReferenceWindows = append([]calo.Threshold(nil), c.ReferenceWindows...)
	return out
}
