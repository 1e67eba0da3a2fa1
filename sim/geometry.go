package sim

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// BeltGeom is the physical segment layout of one belt: entry pre-zone, the
// heating cells, the transfer zone, and the conveying totals in cm.
type BeltGeom struct {
	PreCm      float64
	CellsCm    []float64
	TransferCm float64
	ConvoyCm   float64
	ChauffeCm  float64 // sum of the cells, kept as a control value
}

var beltGeoms = [3]BeltGeom{
	{PreCm: 115.0, CellsCm: []float64{240.0, 240.0, 244.0}, TransferCm: 310.0, ConvoyCm: 1148.5, ChauffeCm: 723.5},
	{PreCm: 100.0, CellsCm: []float64{240.0, 240.0, 244.0}, TransferCm: 345.0, ConvoyCm: 1168.5, ChauffeCm: 723.5},
	{PreCm: 80.0, CellsCm: []float64{240.0, 240.0}, TransferCm: 138.0, ConvoyCm: 698.0, ChauffeCm: 480.0},
}

// Geometry returns the layout of belt 1..3.
func Geometry(belt int) (BeltGeom, error) {
	if belt < 1 || belt > 3 {
		return BeltGeom{}, fmt.Errorf("belt index %d out of range 1..3", belt)
	}
	return beltGeoms[belt-1], nil
}

// SecPerMeter converts a belt's conveying time into seconds per meter.
func SecPerMeter(belt int, convTimeSec float64) (float64, error) {
	g, err := Geometry(belt)
	if err != nil {
		return 0, err
	}
	return convTimeSec / (g.ConvoyCm / 100.0), nil
}

// SegmentBreakdown is the fine-grained residence time of one belt: per
// segment, per heating cell, and the rebuilt total as a control against
// the conveying time it was derived from.
type SegmentBreakdown struct {
	SecPerMeter      float64
	PreSec           float64
	CellSecs         []float64
	TransferSec      float64
	ChauffeSec       float64
	ConvoySec        float64
	ConvoyRebuiltSec float64
	Geom             BeltGeom
}

// Breakdown splits a belt's conveying time across its physical segments,
// assuming uniform speed along the belt.
func Breakdown(belt int, convTimeSec float64) (SegmentBreakdown, error) {
	g, err := Geometry(belt)
	if err != nil {
		return SegmentBreakdown{}, err
	}
	sPerM := convTimeSec / (g.ConvoyCm / 100.0)
	segTime := func(cm float64) float64 { return sPerM * (cm / 100.0) }

	b := SegmentBreakdown{
		SecPerMeter: sPerM,
		PreSec:      segTime(g.PreCm),
		TransferSec: segTime(g.TransferCm),
		ConvoySec:   convTimeSec,
		Geom:        g,
	}
	for _, c := range g.CellsCm {
		t := segTime(c)
		b.CellSecs = append(b.CellSecs, t)
		b.ChauffeSec += t
	}
	b.ConvoyRebuiltSec = b.PreSec + b.ChauffeSec + b.TransferSec
	return b, nil
}

// SegmentWeights distribute each belt's duration across named segments.
// Weights are normalized per belt so each block sums to 1.
type SegmentWeights struct {
	K1 map[string]float64 `yaml:"k1"`
	K2 map[string]float64 `yaml:"k2"`
	K3 map[string]float64 `yaml:"k3"`
}

// DefaultSegmentWeights assigns each belt's time equally across its heating
// cells, with entry and transfer zones at zero.
func DefaultSegmentWeights() SegmentWeights {
	third := 1.0 / 3.0
	return SegmentWeights{
		K1: map[string]float64{"entry1": 0, "c1": third, "c2": third, "c3": third},
		K2: map[string]float64{"transfer1": 0, "c4": third, "c5": third, "c6": third},
		K3: map[string]float64{"transfer2": 0, "c7": third, "c8": third, "c9": third},
	}
}

// LoadSegmentWeights reads per-segment weights from a YAML file, falling
// back to the defaults when the file is absent or unreadable.
func LoadSegmentWeights(path string) SegmentWeights {
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultSegmentWeights()
	}
	var w SegmentWeights
	if err := yaml.Unmarshal(data, &w); err != nil {
		return DefaultSegmentWeights()
	}
	def := DefaultSegmentWeights()
	w.K1 = normBlock(w.K1, def.K1)
	w.K2 = normBlock(w.K2, def.K2)
	w.K3 = normBlock(w.K3, def.K3)
	return w
}

func normBlock(block, fallback map[string]float64) map[string]float64 {
	if len(block) == 0 {
		return fallback
	}
	var total float64
	for _, v := range block {
		total += v
	}
	if total == 0 {
		total = 1.0
	}
	out := make(map[string]float64, len(block))
	for k, v := range block {
		out[k] = v / total
	}
	return out
}

// SegmentTimes spreads the three belt durations (minutes) across the named
// segments according to the weights.
func SegmentTimes(t1, t2, t3 float64, w SegmentWeights) map[string]float64 {
	out := make(map[string]float64)
	for key, frac := range w.K1 {
		out[key] = frac * t1
	}
	for key, frac := range w.K2 {
		out[key] = frac * t2
	}
	for key, frac := range w.K3 {
		out[key] = frac * t3
	}
	return out
}

// SegmentSpan is one named slice of a belt's duration.
type SegmentSpan struct {
	Name    string
	Minutes float64
}

// segmentOrder is the physical left-to-right order of the named segments
// on each belt. Keys a weights file adds beyond these sort after them.
var segmentOrder = [3][]string{
	{"entry1", "c1", "c2", "c3"},
	{"transfer1", "c4", "c5", "c6"},
	{"transfer2", "c7", "c8", "c9"},
}

// SegmentSchedule spreads the three belt durations (minutes) across the
// weighted segments and returns them per belt in physical order, ready for
// CumulativeMarkers.
func SegmentSchedule(t1, t2, t3 float64, w SegmentWeights) [3][]SegmentSpan {
	return [3][]SegmentSpan{
		orderedBlock(w.K1, segmentOrder[0], t1),
		orderedBlock(w.K2, segmentOrder[1], t2),
		orderedBlock(w.K3, segmentOrder[2], t3),
	}
}

func orderedBlock(block map[string]float64, order []string, totalMin float64) []SegmentSpan {
	spans := make([]SegmentSpan, 0, len(block))
	seen := make(map[string]bool, len(block))
	for _, name := range order {
		if frac, ok := block[name]; ok {
			spans = append(spans, SegmentSpan{Name: name, Minutes: frac * totalMin})
			seen[name] = true
		}
	}
	var extra []string
	for name := range block {
		if !seen[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		spans = append(spans, SegmentSpan{Name: name, Minutes: block[name] * totalMin})
	}
	return spans
}

// CumulativeMarkers returns the cumulative progress fractions separating
// consecutive segments of a block, each clamped to [0,1]. The trailing
// boundary (always 1.0) is omitted.
func CumulativeMarkers(block []SegmentSpan, totalMin float64) []float64 {
	span := totalMin
	if span == 0 {
		span = 1e-6
	}
	var markers []float64
	var acc float64
	for i, seg := range block {
		acc += seg.Minutes
		if i < len(block)-1 {
			markers = append(markers, clamp01(acc/span))
		}
	}
	return markers
}
