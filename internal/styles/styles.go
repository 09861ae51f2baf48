// Package styles manages YAML style presets applied to charts:
// pens, icon themes, lane separators, and label modes.
package styles

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/roadmap-visualizer/backend/internal/roadmap"
)

// Preset is one named style configuration, stored as YAML.
type Preset struct {
	Name           string  `yaml:"name" json:"name"`
	RoadColor      string  `yaml:"roadColor" json:"roadColor"`
	RoadWidth      float64 `yaml:"roadWidth" json:"roadWidth"`
	LaneColor      string  `yaml:"laneColor" json:"laneColor"`
	Theme          string  `yaml:"theme" json:"theme"`
	LaneSeparator  string  `yaml:"laneSeparator" json:"laneSeparator"`
	LabelPlacement string  `yaml:"labelPlacement" json:"labelPlacement"`
	MarkerLabels   string  `yaml:"markerLabels" json:"markerLabels"`
	Background     string  `yaml:"background" json:"background"`
}

// ParsePreset reads a preset from YAML.
func ParsePreset(r io.Reader) (*Preset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var p Preset
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Apply configures a chart with the preset's non-empty fields.
func (p *Preset) Apply(r *roadmap.Roadmap) {
	if p.RoadColor != "" {
		r.RoadPen().Color = p.RoadColor
	}
	if p.RoadWidth > 0 {
		r.RoadPen().Width = p.RoadWidth
	}
	if p.LaneColor != "" {
		r.LanePen().Color = p.LaneColor
	}
	if p.Theme != "" {
		r.SetTheme(roadmap.RoadStopTheme(p.Theme))
	}
	if p.LaneSeparator != "" {
		r.SetLaneSeparatorStyle(roadmap.LaneSeparatorStyle(p.LaneSeparator))
	}
	if p.LabelPlacement != "" {
		r.SetLabelPlacement(roadmap.LabelPlacement(p.LabelPlacement))
	}
	if p.MarkerLabels != "" {
		r.SetMarkerLabelDisplay(roadmap.MarkerLabelDisplay(p.MarkerLabels))
	}
}

// Validate rejects presets whose enum fields carry unknown values or
// whose name cannot be used as a file name under the styles directory.
func (p *Preset) Validate() error {
	if strings.ContainsAny(p.Name, `/\`) || strings.HasPrefix(p.Name, ".") {
		return fmt.Errorf("invalid preset name: %q", p.Name)
	}
	switch roadmap.RoadStopTheme(p.Theme) {
	case "", roadmap.ThemeLocationMarkers, roadmap.ThemeRoadSigns:
	default:
		return fmt.Errorf("unknown theme: %q", p.Theme)
	}
	switch roadmap.LaneSeparatorStyle(p.LaneSeparator) {
	case "", roadmap.LaneSingleLine, roadmap.LaneDoubleLine, roadmap.LaneNoDisplay:
	default:
		return fmt.Errorf("unknown lane separator: %q", p.LaneSeparator)
	}
	switch roadmap.LabelPlacement(p.LabelPlacement) {
	case "", roadmap.PlacementNextToParent, roadmap.PlacementFlush:
	default:
		return fmt.Errorf("unknown label placement: %q", p.LabelPlacement)
	}
	switch roadmap.MarkerLabelDisplay(p.MarkerLabels) {
	case "", roadmap.LabelName, roadmap.LabelNameAndValue, roadmap.LabelNameAndAbsoluteValue:
	default:
		return fmt.Errorf("unknown marker label mode: %q", p.MarkerLabels)
	}
	return nil
}

// Manager holds presets loaded from a directory of YAML files.
type Manager struct {
	mu      sync.RWMutex
	dir     string
	presets map[string]*Preset
}

// NewManager loads every *.yaml preset in dir. Missing directory is
// created; unreadable presets are skipped with a warning.
func NewManager(dir string) (*Manager, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating styles directory: %w", err)
	}
	m := &Manager{dir: dir, presets: make(map[string]*Preset)}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || (!strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml")) {
			continue
		}
		f, err := os.Open(filepath.Join(dir, name))
		if err != nil {
			fmt.Printf("[Styles] skipping %s: %v\n", name, err)
			continue
		}
		preset, err := ParsePreset(f)
		f.Close()
		if err != nil || preset.Name == "" {
			fmt.Printf("[Styles] skipping %s: invalid preset\n", name)
			continue
		}
		m.presets[preset.Name] = preset
	}
	return m, nil
}

// Get returns a preset by name.
func (m *Manager) Get(name string) (*Preset, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.presets[name]
	return p, ok
}

// List returns all presets sorted by name.
func (m *Manager) List() []*Preset {
	m.mu.RLock()
	defer m.mu.RUnlock()
	list := make([]*Preset, 0, len(m.presets))
	for _, p := range m.presets {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

// Put validates, stores, and persists a preset.
func (m *Manager) Put(p *Preset) error {
	if p.Name == "" {
		return fmt.Errorf("preset name is required")
	}
	if err := p.Validate(); err != nil {
		return err
	}

	data, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	path := filepath.Join(m.dir, p.Name+".yaml")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing preset: %w", err)
	}

	m.mu.Lock()
	m.presets[p.Name] = p
	m.mu.Unlock()
	return nil
}
