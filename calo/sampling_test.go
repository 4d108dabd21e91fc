package calo

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayerIndexRoundTrip(t *testing.T) {
	seen := make(map[int]SamplingLayer)
	for l := PreSamplerB; l <= Unknown; l++ {
		i := l.Index()
		require.GreaterOrEqual(t, i, 0)
		require.Less(t, i, NumLayers)
		if prev, dup := seen[i]; dup {
			t.Fatalf("%v and %v share index %d", prev, l, i)
		}
		seen[i] = l

		assert.Equal(t, l, LayerAt(i))
		name := LayerAt(i).String()
		assert.NotEmpty(t, name)
		back, ok := layerNamed(name)
		assert.True(t, ok, name)
		assert.Equal(t, l, back)
	}
	assert.Len(t, seen, NumLayers)
}

func TestLayerOutOfRange(t *testing.T) {
	assert.Equal(t, int(Unknown), SamplingLayer(-3).Index())
	assert.Equal(t, int(Unknown), SamplingLayer(500).Index())
	assert.Equal(t, "Unknown", SamplingLayer(500).String())
	assert.Equal(t, Unknown, LayerAt(NumLayers))
	assert.False(t, Unknown.Valid())
	assert.False(t, FCAL0.Tracked())
	assert.True(t, TileExt2.Tracked())
}

func TestTrackedLayers(t *testing.T) {
	ls := TrackedLayers()
	require.Len(t, ls, 21)
	assert.Equal(t, PreSamplerB, ls[0])
	assert.Equal(t, TileExt2, ls[len(ls)-1])

	ls[0] = Unknown
	assert.Equal(t, PreSamplerB, TrackedLayers()[0], "returned slice must be a copy")
}

func TestValidLayers(t *testing.T) {
	ls := ValidLayers()
	require.Len(t, ls, int(Unknown))
	assert.Equal(t, PreSamplerB, ls[0])
	assert.Equal(t, MiniFCAL3, ls[len(ls)-1])
	for _, l := range ls {
		assert.True(t, l.Valid(), l.String())
	}
}

func TestRegions(t *testing.T) {
	var em, had []SamplingLayer
	for l := PreSamplerB; l < Unknown; l++ {
		switch r := l.Region(); {
		case r.Electromagnetic():
			em = append(em, l)
		case r.Hadronic():
			had = append(had, l)
		}
	}
	wantEM := []SamplingLayer{EMB1, EMB2, EMB3, EME1, EME2, EME3}
	wantHAD := []SamplingLayer{
		HEC0, HEC1, HEC2, HEC3,
		TileBar0, TileBar1, TileBar2,
		TileGap1, TileGap2, TileGap3,
		TileExt0, TileExt1, TileExt2,
	}
	if diff := cmp.Diff(wantEM, em); diff != "" {
		t.Errorf("EM layers (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantHAD, had); diff != "" {
		t.Errorf("HAD layers (-want +got):\n%s", diff)
	}
	assert.Equal(t, []SamplingLayer{PreSamplerB, PreSamplerE}, RegionPreSampler.Layers())
}

func TestNominalCellGeometry(t *testing.T) {
	for _, l := range TrackedLayers() {
		s, ok := NominalSurface(l)
		require.True(t, ok, l)
		assert.Less(t, s.Inner, s.Outer, l)

		eta := 0.5 * (s.EtaMin + s.EtaMax)
		g := NominalCellGeometry(l, eta)
		assert.Greater(t, g.Volume, 0.0, l)
		assert.Greater(t, g.DEta, 0.0, l)
		assert.Greater(t, g.DPhi, 0.0, l)
	}
	assert.Zero(t, NominalCellGeometry(FCAL1, 4).Volume)
	_, ok := NominalSurface(Unknown)
	assert.False(t, ok)
}
