// Package preset loads planet descriptions from JSON files. A preset may
// name a parent; fields it leaves out are inherited.
package preset

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"planetmesh/internal/noise"
	"planetmesh/internal/pipeline"
)

var (
	ErrCycle   = errors.New("preset parent chain forms a cycle")
	ErrBadName = errors.New("preset names may not contain path elements")
)

// Preset is a fully resolved planet description.
type Preset struct {
	Name   string `json:"-"`
	Parent string `json:"parent,omitempty"`

	Topology     string  `json:"topology"`
	Subdivisions int     `json:"subdivisions"`
	GridSize     int     `json:"gridSize"`
	Size         [3]int  `json:"size"`
	Roundness    int     `json:"roundness"`
	Radius       float32 `json:"radius"`

	Noise string `json:"noise"`
	Seed  int64  `json:"seed"`

	Terrain *noise.RockyTerrain `json:"terrain,omitempty"`
	Seeded  *noise.SeededHeight `json:"seeded,omitempty"`
}

// Default is the root every preset chain starts from.
func Default() Preset {
	return Preset{
		Topology:     pipeline.KindOctahedron.String(),
		Subdivisions: 4,
		GridSize:     8,
		Size:         [3]int{4, 4, 4},
		Roundness:    1,
		Radius:       1,
		Noise:        noise.BackendSimplex,
	}
}

// clone copies p so that a child can be overlaid without touching it.
func (p *Preset) clone() *Preset {
	c := *p
	if p.Terrain != nil {
		t := *p.Terrain
		c.Terrain = &t
	}
	if p.Seeded != nil {
		s := *p.Seeded
		c.Seeded = &s
	}
	return &c
}

// Config turns the preset into a pipeline configuration.
func (p *Preset) Config() (pipeline.Config, error) {
	kind, err := pipeline.ParseKind(p.Topology)
	if err != nil {
		return pipeline.Config{}, fmt.Errorf("preset %s: %w", p.Name, err)
	}
	cfg := pipeline.Config{
		Name:         p.Name,
		Topology:     kind,
		Subdivisions: p.Subdivisions,
		GridSize:     p.GridSize,
		Size:         p.Size,
		Roundness:    p.Roundness,
		Radius:       p.Radius,
	}
	if p.Terrain != nil || p.Seeded != nil {
		src, err := noise.NewSource(p.Noise, p.Seed)
		if err != nil {
			return pipeline.Config{}, fmt.Errorf("preset %s: %w", p.Name, err)
		}
		cfg.Noise = src
		if p.Terrain != nil {
			t := *p.Terrain
			cfg.Terrain = &t
		}
		if p.Seeded != nil {
			s := *p.Seeded
			cfg.Seeded = &s
		}
	}
	return cfg, nil
}

// Loader reads presets from a directory and caches resolved results. It is
// safe for concurrent use.
type Loader struct {
	dir string

	mu    sync.Mutex
	cache map[string]*Preset
}

func NewLoader(dir string) *Loader {
	return &Loader{
		dir:   dir,
		cache: make(map[string]*Preset),
	}
}

// Load returns the named preset with its parent chain applied. Callers must
// treat the result as read-only; it is shared through the cache.
func (l *Loader) Load(name string) (*Preset, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load(name, make(map[string]bool))
}

func (l *Loader) load(name string, visiting map[string]bool) (*Preset, error) {
	name = strings.TrimSuffix(name, ".json")
	if name == "" || name == ".." || strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("%q: %w", name, ErrBadName)
	}
	if p, ok := l.cache[name]; ok {
		return p, nil
	}
	if visiting[name] {
		return nil, fmt.Errorf("%s: %w", name, ErrCycle)
	}
	visiting[name] = true

	path := filepath.Join(l.dir, name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read preset file: %w", err)
	}

	p, err := l.parse(name, data, visiting)
	if err != nil {
		return nil, err
	}
	l.cache[name] = p
	return p, nil
}

// Parse resolves a preset body that does not live in the directory, such
// as one received over the network. Its parent, if any, is loaded from the
// directory. The result is not cached.
func (l *Loader) Parse(name string, data []byte) (*Preset, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.parse(name, data, make(map[string]bool))
}

func (l *Loader) parse(name string, data []byte, visiting map[string]bool) (*Preset, error) {
	var head struct {
		Parent  string          `json:"parent"`
		Terrain json.RawMessage `json:"terrain"`
		Seeded  json.RawMessage `json:"seeded"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("could not unmarshal preset json: %w", err)
	}

	base := Default()
	p := &base
	if head.Parent != "" {
		parent, err := l.load(head.Parent, visiting)
		if err != nil {
			return nil, fmt.Errorf("could not load parent preset '%s': %w", head.Parent, err)
		}
		p = parent.clone()
	}

	// sections introduced here start from their defaults, not from zero
	if len(head.Terrain) > 0 && p.Terrain == nil {
		t := noise.DefaultRockyTerrain()
		p.Terrain = &t
	}
	if len(head.Seeded) > 0 && p.Seeded == nil {
		s := noise.DefaultSeededHeight()
		p.Seeded = &s
	}

	if err := json.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("could not unmarshal preset json: %w", err)
	}
	p.Name = name
	p.Parent = head.Parent
	return p, nil
}

// List returns the names of every preset in the directory, sorted.
func (l *Loader) List() ([]string, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("could not list presets: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(names)
	return names, nil
}
