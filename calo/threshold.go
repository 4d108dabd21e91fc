package calo

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrEmptyThresholds = errors.New("calo: empty threshold set")
	ErrBadThreshold    = errors.New("calo: invalid threshold")
)

// Threshold is a named angular-distance cut.
type Threshold struct {
	Name   string  `yaml:"name"`
	Radius float64 `yaml:"radius"`
}

// ThresholdName derives the conventional name of a cut radius: the radius
// in milliradians, zero padded to three digits (0.025 -> "025").
func ThresholdName(radius float64) string {
	return fmt.Sprintf("%03d", int(math.Round(radius*1000)))
}

// DefaultThresholds returns the cuts 0.025 through 0.300 in steps of 0.025.
func DefaultThresholds() []Threshold {
	ts := make([]Threshold, 0, 12)
	for i := 1; i <= 12; i++ {
		r := 0.025 * float64(i)
		ts = append(ts, Threshold{Name: ThresholdName(r), Radius: r})
	}
	return ts
}

// ThresholdSet is an ordered, immutable list of thresholds. Buckets are
// assigned in configured order, so the set is only consistent when radii
// ascend (see Ascending).
type ThresholdSet struct {
	ts []Threshold
}

// NewThresholdSet validates and copies ts.
func NewThresholdSet(ts []Threshold) (ThresholdSet, error) {
	if len(ts) == 0 {
		return ThresholdSet{}, ErrEmptyThresholds
	}
	seen := make(map[string]bool, len(ts))
	out := make([]Threshold, len(ts))
	for i, t := range ts {
		switch {
		case t.Name == "":
			return ThresholdSet{}, fmt.Errorf("%w: threshold %d has no name", ErrBadThreshold, i)
		case seen[t.Name]:
			return ThresholdSet{}, fmt.Errorf("%w: duplicate name %q", ErrBadThreshold, t.Name)
		case math.IsNaN(t.Radius) || t.Radius <= 0:
			return ThresholdSet{}, fmt.Errorf("%w: %q has radius %v", ErrBadThreshold, t.Name, t.Radius)
		}
		seen[t.Name] = true
		out[i] = t
	}
	return ThresholdSet{ts: out}, nil
}

func (s ThresholdSet) Len() int { return len(s.ts) }

func (s ThresholdSet) At(i int) Threshold { return s.ts[i] }

// Thresholds returns a copy of the set in configured order.
func (s ThresholdSet) Thresholds() []Threshold {
	out := make([]Threshold, len(s.ts))
	copy(out, s.ts)
	return out
}

// Ascending reports whether radii strictly increase.
func (s ThresholdSet) Ascending() bool {
	for i := 1; i < len(s.ts); i++ {
		if s.ts[i].Radius <= s.ts[i-1].Radius {
			return false
		}
	}
	return true
}

// Bucket returns the index of the first threshold whose radius exceeds dr.
// Later thresholds are not consulted once a bucket is found.
func (s ThresholdSet) Bucket(dr float64) (int, bool) {
	for i, t := range s.ts {
		if dr < t.Radius {
			return i, true
		}
	}
	return -1, false
}
