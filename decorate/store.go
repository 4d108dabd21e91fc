package decorate

import (
	"errors"
	"fmt"

	"github.com/decibelcooper/eoverp/calo"
)

// ErrNotFound is returned by a Store for a collection absent from the
// event.
var ErrNotFound = errors.New("decorate: collection not found")

// EventInfo identifies an event.
type EventInfo struct {
	RunNumber   int64
	EventNumber int64
	LumiBlock   int64
}

// Store gives typed access to the collections of one event by key.
type Store interface {
	EventInfo(key string) (EventInfo, error)
	Tracks(key string) ([]calo.Track, error)
	Clusters(key string) ([]calo.Cluster, error)
	Cells(key string) ([]calo.Cell, error)
	TruthParticles(key string) ([]calo.TruthParticle, error)
	CalibrationHits(key string) ([]calo.CalibrationHit, error)
}

// MemStore is a Store backed by maps. Absent keys yield ErrNotFound.
type MemStore struct {
	Info      map[string]EventInfo
	TrackCols map[string][]calo.Track
	ClusCols  map[string][]calo.Cluster
	CellCols  map[string][]calo.Cell
	TruthCols map[string][]calo.TruthParticle
	HitCols   map[string][]calo.CalibrationHit
}

func lookup[T any](m map[string]T, key string) (T, error) {
	v, ok := m[key]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	return v, nil
}

func (s *MemStore) EventInfo(key string) (EventInfo, error) { return lookup(s.Info, key) }

func (s *MemStore) Tracks(key string) ([]calo.Track, error) { return lookup(s.TrackCols, key) }

func (s *MemStore) Clusters(key string) ([]calo.Cluster, error) { return lookup(s.ClusCols, key) }

func (s *MemStore) Cells(key string) ([]calo.Cell, error) { return lookup(s.CellCols, key) }

func (s *MemStore) TruthParticles(key string) ([]calo.TruthParticle, error) {
	return lookup(s.TruthCols, key)
}

func (s *MemStore) CalibrationHits(key string) ([]calo.CalibrationHit, error) {
	return lookup(s.HitCols, key)
}
