package eoverp

import (
	"go.uber.org/zap"
)

// NewLogger builds the production logger used by the commands. Verbose
// lowers the level to Debug.
func NewLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}
