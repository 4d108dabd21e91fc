package decorate

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCutflowMergeKeepsOverflow(t *testing.T) {
	busy := tally{passed: true}
	busy.steps[StepTotal] = maxTracksPerEvent + 50
	busy.steps[StepAll] = 3
	quiet := tally{}
	quiet.steps[StepTotal] = 2

	src := NewCutflow()
	src.merge(&busy, &EventInfo{RunNumber: 1})
	src.merge(&quiet, nil)

	dst := NewCutflow()
	dst.Merge(src)

	all, pass := dst.EventsWithTracks(maxTracksPerEvent + 50)
	assert.Equal(t, 1.0, all)
	assert.Zero(t, pass)
	all, pass = dst.EventsWithTracks(3)
	assert.Zero(t, all)
	assert.Equal(t, 1.0, pass)
	all, _ = dst.EventsWithTracks(2)
	assert.Equal(t, 1.0, all)

	assert.Equal(t, src.EventCounts(), dst.EventCounts())
	assert.Equal(t, src.TrackCounts(), dst.TrackCounts())
	assert.Equal(t, src.ntrks.Entries(), dst.ntrks.Entries())
	assert.Equal(t, src.ntrks.SumW(), dst.ntrks.SumW())
	assert.Len(t, dst.Rows(), 1)
}

func TestCutflowMergeBothWays(t *testing.T) {
	a, b := NewCutflow(), NewCutflow()
	one := tally{}
	one.steps[StepTotal] = 1
	a.merge(&one, nil)
	b.merge(&one, nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() { defer wg.Done(); a.Merge(b) }()
		go func() { defer wg.Done(); b.Merge(a) }()
	}
	wg.Wait()

	ea, eb := a.EventCounts(), b.EventCounts()
	assert.Greater(t, ea[0], 1.0)
	assert.Greater(t, eb[0], 1.0)
}
