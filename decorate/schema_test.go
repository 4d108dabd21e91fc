package decorate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decibelcooper/eoverp/calo"
)

func TestSchemaLayout(t *testing.T) {
	ts, err := calo.NewThresholdSet(calo.DefaultThresholds())
	require.NoError(t, err)
	windows := []calo.Threshold{{Name: "200", Radius: 0.2}, {Name: "100", Radius: 0.1}}
	s := newSchema("CALO", ts, windows, true)

	nt := len(calo.TrackedLayers())
	nl := len(calo.ValidLayers())
	require.Equal(t, int(calo.Unknown), nl)
	wantFloats := 2*nt + NumQuantities*12*nl + 3*2*3
	assert.Len(t, s.FloatNames(), wantFloats)
	assert.Equal(t, []string{"CALO_extrapolation"}, s.IntNames())
	assert.Len(t, s.FloatVectorNames(), 2*(4+int(calo.NumMoments)))
	assert.Equal(t, []string{"CALO_ClusterEnergy_maxEnergyLayer", "CALO_ClusterEnergyLCW_maxEnergyLayer"}, s.IntVectorNames())
	assert.Equal(t, wantFloats+1+20+2, s.Len(), "names must be unique")

	for _, tc := range []struct {
		name string
		slot int
	}{
		{"CALO_trkEta_PreSamplerB", 0},
		{"CALO_trkPhi_TileExt2", 2*nt - 1},
		{"CALO_ClusterEnergy_FCAL0_025", s.GridSlot(ClusterEnergy, 0, calo.FCAL0)},
		{"CALO_CellEnergy_MINIFCAL3_300", s.GridSlot(CellEnergy, 11, calo.MiniFCAL3)},
		{"CALO_ClusterEnergy_PreSamplerB_025", s.GridSlot(ClusterEnergy, 0, calo.PreSamplerB)},
		{"CALO_LHED_TileGap3_150", s.GridSlot(LHED, 5, calo.TileGap3)},
		{"CALO_ClusterHadronicBackgroundEscapedInactiveCalibHitEnergy_TileExt2_300",
			s.GridSlot(CalibQuantity(HadronicBackground, Escaped, Inactive), 11, calo.TileExt2)},
		{"CALO_HAD_CellEnergy_0_100", s.WindowSlot(CellEnergy, 1, RegionHAD)},
		{"CALO_Total_CellEnergy_0_100", wantFloats - 1},
	} {
		sl, ok := s.Lookup(tc.name)
		require.True(t, ok, tc.name)
		assert.Equal(t, Slot{KindFloat, tc.slot}, sl, tc.name)
	}
	_, ok := s.Lookup("CALO_trkEta_FCAL0")
	assert.False(t, ok, "positions exist for tracked samplings only")
}

func TestSchemaStable(t *testing.T) {
	ts, err := calo.NewThresholdSet(calo.DefaultThresholds())
	require.NoError(t, err)
	a := newSchema("X", ts, nil, false)
	b := newSchema("X", ts, nil, false)
	if diff := cmp.Diff(a.FloatNames(), b.FloatNames()); diff != "" {
		t.Fatalf("schema changed between builds (-a +b):\n%s", diff)
	}
	assert.Empty(t, a.FloatVectorNames())
	assert.Empty(t, a.IntVectorNames())

	none := newSchema("", ts, nil, false)
	_, ok := none.Lookup("extrapolation")
	assert.True(t, ok)
}

func TestQuantityNames(t *testing.T) {
	assert.Equal(t, "ClusterEMActiveCalibHitEnergy", CalibQuantity(Signal, EM, Active).String())
	assert.Equal(t, "ClusterPhotonBackgroundNonEMInactiveCalibHitEnergy",
		CalibQuantity(PhotonBackground, NonEM, Inactive).String())
	seen := make(map[string]bool)
	for q := Quantity(0); int(q) < NumQuantities; q++ {
		n := q.String()
		assert.False(t, seen[n], n)
		seen[n] = true
	}
	assert.Len(t, seen, 28)
}

func TestRecordReset(t *testing.T) {
	ts, err := calo.NewThresholdSet(calo.DefaultThresholds())
	require.NoError(t, err)
	s := newSchema("CALO", ts, nil, true)
	r := s.NewRecord()
	r.Floats[3] = 1
	r.Ints[0] = 1
	r.FloatVecs[0] = append(r.FloatVecs[0], 1, 2)
	c := r.Clone()

	s.Reset(r)
	assert.Equal(t, Sentinel, r.Floats[3])
	assert.Zero(t, r.Ints[0])
	assert.Empty(t, r.FloatVecs[0])

	assert.Equal(t, float32(1), c.Floats[3])
	assert.Equal(t, []float32{1, 2}, c.FloatVecs[0])
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eoverp.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
prefix: EOP
do_cutflow: false
thresholds:
  - {name: "050", radius: 0.05}
  - {name: "100", radius: 0.1}
calibration_hits:
  tile_active: MyTileHits
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "EOP", cfg.Prefix)
	assert.False(t, cfg.DoCutflow)
	assert.Equal(t, []calo.Threshold{{Name: "050", Radius: 0.05}, {Name: "100", Radius: 0.1}}, cfg.Thresholds)
	assert.Equal(t, "MyTileHits", cfg.CalibHits.TileActive)

	def := DefaultConfig()
	assert.Equal(t, def.Tracks, cfg.Tracks)
	assert.Equal(t, def.CalibHits.LArActive, cfg.CalibHits.LArActive)
	assert.Equal(t, def.ReferenceWindows, cfg.ReferenceWindows)
	assert.NoError(t, cfg.Validate())

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfigIsCopied(t *testing.T) {
	cfg := testConfig()
	e, err := New(cfg, stubExtrapolator{})
	require.NoError(t, err)
	cfg.Thresholds[0].Radius = 9
	assert.Equal(t, 0.025, e.Config().Thresholds[0].Radius)
	assert.Equal(t, 0.025, e.Schema().Thresholds().At(0).Radius)
}

func TestWindowNames(t *testing.T) {
	assert.Equal(t, "CALO_Total_ClusterEnergyLCW_0_200", WindowName("CALO", RegionTotal, ClusterEnergyLCW, "200"))
	assert.Equal(t, "HAD_CellEnergy_0_100", WindowName("", RegionHAD, CellEnergy, "100"))
	assert.Equal(t, "CALO_extrapolation", ExtrapolationName("CALO"))

	q, ok := WindowQuantity("CellEnergy")
	assert.True(t, ok)
	assert.Equal(t, CellEnergy, q)
	_, ok = WindowQuantity("LHED")
	assert.False(t, ok)

	e, err := New(testConfig(), stubExtrapolator{})
	require.NoError(t, err)
	_, ok = e.Schema().Lookup(WindowName("CALO", RegionEM, ClusterEnergy, "100"))
	assert.True(t, ok)
}
