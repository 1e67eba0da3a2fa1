package sim

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGeometry_BeltRange: belts are addressed 1..3, anything else errors.
func TestGeometry_BeltRange(t *testing.T) {
	for belt := 1; belt <= 3; belt++ {
		g, err := Geometry(belt)
		require.NoError(t, err)
		var cells float64
		for _, c := range g.CellsCm {
			cells += c
		}
		assert.InDelta(t, g.ChauffeCm, cells, 1e-9, "belt %d cell sum", belt)
	}

	_, err := Geometry(0)
	assert.Error(t, err)
	_, err = Geometry(4)
	assert.Error(t, err)
}

// TestSecPerMeter: belt 1 conveys over 11.485 m, so a 1148.5 s conveying
// time is exactly 100 s/m.
func TestSecPerMeter(t *testing.T) {
	spm, err := SecPerMeter(1, 1148.5)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, spm, 1e-9)

	_, err = SecPerMeter(5, 100)
	assert.Error(t, err)
}

// TestBreakdown_RebuildsConveyingTime: the per-segment times sum back to
// the conveying time they were derived from.
func TestBreakdown_RebuildsConveyingTime(t *testing.T) {
	for belt := 1; belt <= 3; belt++ {
		b, err := Breakdown(belt, 600.0)
		require.NoError(t, err)

		assert.InDelta(t, 600.0, b.ConvoyRebuiltSec, 1e-9, "belt %d", belt)
		assert.InDelta(t, b.ChauffeSec, b.SecPerMeter*b.Geom.ChauffeCm/100.0, 1e-9)
		assert.Len(t, b.CellSecs, len(b.Geom.CellsCm))
	}

	// Belt 3 pinned: 600 s over 6.98 m, pre-zone is 0.80 m.
	b, err := Breakdown(3, 600.0)
	require.NoError(t, err)
	assert.InDelta(t, 600.0/6.98, b.SecPerMeter, 1e-9)
	assert.InDelta(t, 0.80*600.0/6.98, b.PreSec, 1e-9)
}

// TestDefaultSegmentWeights_NormalizedBlocks: each belt block sums to 1
// with the non-heated zones at zero.
func TestDefaultSegmentWeights_NormalizedBlocks(t *testing.T) {
	w := DefaultSegmentWeights()
	for name, block := range map[string]map[string]float64{"k1": w.K1, "k2": w.K2, "k3": w.K3} {
		var sum float64
		for _, v := range block {
			sum += v
		}
		assert.InDelta(t, 1.0, sum, 1e-9, name)
	}
	assert.Zero(t, w.K1["entry1"])
	assert.Zero(t, w.K2["transfer1"])
	assert.Zero(t, w.K3["transfer2"])
}

// TestLoadSegmentWeights_FileAndFallback: a weights file is read and
// renormalized; a missing or corrupt file falls back to defaults.
func TestLoadSegmentWeights_FileAndFallback(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "weights.yaml")
	doc := "k1:\n  entry1: 1\n  c1: 1\n  c2: 1\n  c3: 1\nk2: {}\nk3:\n  c7: 3\n  c8: 1\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	w := LoadSegmentWeights(path)
	assert.InDelta(t, 0.25, w.K1["entry1"], 1e-9)
	assert.InDelta(t, 0.25, w.K1["c1"], 1e-9)
	assert.Equal(t, DefaultSegmentWeights().K2, w.K2, "empty block keeps defaults")
	assert.InDelta(t, 0.75, w.K3["c7"], 1e-9)

	assert.Equal(t, DefaultSegmentWeights(), LoadSegmentWeights(filepath.Join(dir, "absent.yaml")))

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte(":\t not yaml ["), 0o644))
	assert.Equal(t, DefaultSegmentWeights(), LoadSegmentWeights(bad))
}

// TestSegmentTimes_SpreadsDurations: segment times scale each block by its
// belt duration and sum back to the total.
func TestSegmentTimes_SpreadsDurations(t *testing.T) {
	times := SegmentTimes(30, 60, 90, DefaultSegmentWeights())

	assert.InDelta(t, 10.0, times["c1"], 1e-9)
	assert.InDelta(t, 20.0, times["c4"], 1e-9)
	assert.InDelta(t, 30.0, times["c7"], 1e-9)

	var sum float64
	for _, v := range times {
		sum += v
	}
	assert.InDelta(t, 180.0, sum, 1e-9)
}

// TestSegmentSchedule_PhysicalOrder: spans come back in left-to-right
// belt order regardless of map iteration, with unknown keys sorted last.
func TestSegmentSchedule_PhysicalOrder(t *testing.T) {
	blocks := SegmentSchedule(30, 60, 90, DefaultSegmentWeights())

	require.Len(t, blocks[0], 4)
	assert.Equal(t, "entry1", blocks[0][0].Name)
	assert.Equal(t, "c1", blocks[0][1].Name)
	assert.InDelta(t, 10.0, blocks[0][1].Minutes, 1e-9)
	assert.Equal(t, "transfer2", blocks[2][0].Name)
	assert.InDelta(t, 30.0, blocks[2][3].Minutes, 1e-9)

	// Schedule feeds straight into the marker computation.
	markers := CumulativeMarkers(blocks[0], 30)
	require.Len(t, markers, 3)
	assert.InDelta(t, 0.0, markers[0], 1e-9) // entry zone carries no weight
	assert.InDelta(t, 1.0/3.0, markers[1], 1e-9)
	assert.InDelta(t, 2.0/3.0, markers[2], 1e-9)

	w := SegmentWeights{
		K1: map[string]float64{"c1": 0.5, "zz_extra": 0.25, "aa_extra": 0.25},
		K2: DefaultSegmentWeights().K2,
		K3: DefaultSegmentWeights().K3,
	}
	blocks = SegmentSchedule(40, 0, 0, w)
	require.Len(t, blocks[0], 3)
	assert.Equal(t, "c1", blocks[0][0].Name)
	assert.Equal(t, "aa_extra", blocks[0][1].Name)
	assert.Equal(t, "zz_extra", blocks[0][2].Name)
	assert.InDelta(t, 20.0, blocks[0][0].Minutes, 1e-9)
}

// TestCumulativeMarkers: interior boundaries only, clamped fractions.
func TestCumulativeMarkers(t *testing.T) {
	block := []SegmentSpan{{"a", 10}, {"b", 20}, {"c", 10}}

	m := CumulativeMarkers(block, 40)
	require.Len(t, m, 2)
	assert.InDelta(t, 0.25, m[0], 1e-9)
	assert.InDelta(t, 0.75, m[1], 1e-9)

	// Span shorter than the block: markers saturate at 1.
	m = CumulativeMarkers(block, 20)
	assert.Equal(t, 1.0, m[1])

	assert.Empty(t, CumulativeMarkers([]SegmentSpan{{"only", 5}}, 5))
}
