package styles

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roadmap-visualizer/backend/internal/roadmap"
)

const presetYAML = `
name: night
roadColor: "#222222"
roadWidth: 12
laneColor: "#FFD800"
theme: road-signs
laneSeparator: double-line
labelPlacement: next-to-parent
markerLabels: name
background: "#111111"
`

func TestParsePreset(t *testing.T) {
	p, err := ParsePreset(strings.NewReader(presetYAML))
	require.NoError(t, err)

	assert.Equal(t, "night", p.Name)
	assert.Equal(t, "#222222", p.RoadColor)
	assert.Equal(t, 12.0, p.RoadWidth)
	assert.Equal(t, "road-signs", p.Theme)
	require.NoError(t, p.Validate())
}

func TestPresetValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Preset)
	}{
		{"bad theme", func(p *Preset) { p.Theme = "neon" }},
		{"bad lane separator", func(p *Preset) { p.LaneSeparator = "triple" }},
		{"bad placement", func(p *Preset) { p.LabelPlacement = "above" }},
		{"bad marker labels", func(p *Preset) { p.MarkerLabels = "value-only" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := ParsePreset(strings.NewReader(presetYAML))
			require.NoError(t, err)
			tc.mutate(p)
			assert.Error(t, p.Validate())
		})
	}

	// Empty enum fields are allowed: they mean "keep the default"
	p := &Preset{Name: "minimal"}
	assert.NoError(t, p.Validate())
}

func TestPresetApply(t *testing.T) {
	p, err := ParsePreset(strings.NewReader(presetYAML))
	require.NoError(t, err)

	chart := roadmap.NewLRRoadmap()
	p.Apply(&chart.Roadmap)

	assert.Equal(t, "#222222", chart.RoadPen().Color)
	assert.Equal(t, 12.0, chart.RoadPen().Width)
	assert.Equal(t, "#FFD800", chart.LanePen().Color)
	assert.Equal(t, roadmap.ThemeRoadSigns, chart.Theme())
	assert.Equal(t, roadmap.PlacementNextToParent, chart.LabelPlacement())
}

func TestPresetApplyPartial(t *testing.T) {
	chart := roadmap.NewLRRoadmap()
	originalWidth := chart.RoadPen().Width

	p := &Preset{Name: "partial", RoadColor: "#ABCDEF"}
	p.Apply(&chart.Roadmap)

	assert.Equal(t, "#ABCDEF", chart.RoadPen().Color)
	assert.Equal(t, originalWidth, chart.RoadPen().Width, "unset fields keep defaults")
}

func TestManagerLoadsPresets(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "night.yaml"), []byte(presetYAML), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))

	m, err := NewManager(dir)
	require.NoError(t, err)

	p, ok := m.Get("night")
	require.True(t, ok)
	assert.Equal(t, "#222222", p.RoadColor)

	assert.Len(t, m.List(), 1)
}

func TestManagerPut(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir)
	require.NoError(t, err)

	p := &Preset{Name: "daylight", RoadColor: "#444444", Theme: "location-markers"}
	require.NoError(t, m.Put(p))

	// Persisted to disk
	_, err = os.Stat(filepath.Join(dir, "daylight.yaml"))
	assert.NoError(t, err)

	// A fresh manager reloads it
	m2, err := NewManager(dir)
	require.NoError(t, err)
	got, ok := m2.Get("daylight")
	require.True(t, ok)
	assert.Equal(t, "#444444", got.RoadColor)
}

func TestManagerPutInvalid(t *testing.T) {
	m, err := NewManager(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, m.Put(&Preset{}), "nameless preset rejected")
	assert.Error(t, m.Put(&Preset{Name: "x", Theme: "bogus"}), "invalid enum rejected")
}

func TestManagerPutRejectsPathNames(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "styles")
	m, err := NewManager(dir)
	require.NoError(t, err)

	cases := []string{"../escaped", "..", "a/b", `a\b`, "/abs", ".hidden"}
	for _, name := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, m.Put(&Preset{Name: name}))
		})
	}

	// Nothing may be written outside the styles directory.
	_, err = os.Stat(filepath.Join(dir, "..", "escaped.yaml"))
	assert.True(t, os.IsNotExist(err), "preset escaped the styles directory")
}
