package eoverp

import (
	"fmt"
	"strconv"

	"github.com/decibelcooper/eoverp/calo"
)

// RadiusFlags collects repeated threshold radius flags. The first value
// set replaces the defaults.
type RadiusFlags struct {
	Array   []float64
	beenSet bool
}

func (f *RadiusFlags) Set(valueStr string) error {
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return err
	}
	if !(value > 0) {
		return fmt.Errorf("radius must be positive, got %v", value)
	}

	if !f.beenSet {
		f.beenSet = true
		f.Array = nil
	}

	f.Array = append(f.Array, value)
	return nil
}

func (f *RadiusFlags) String() string {
	return fmt.Sprint(f.Array)
}

func (f *RadiusFlags) Type() string { return "radius" }

// Changed reports whether any value was given on the command line.
func (f *RadiusFlags) Changed() bool { return f.beenSet }

// Thresholds names each radius after its value in milliradians.
func (f *RadiusFlags) Thresholds() []calo.Threshold {
	out := make([]calo.Threshold, len(f.Array))
	for i, r := range f.Array {
		out[i] = calo.Threshold{Name: calo.ThresholdName(r), Radius: r}
	}
	return out
}
