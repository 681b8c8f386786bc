package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/gridwalk/tilegrid/game/engine"
	"github.com/gridwalk/tilegrid/game/service"
)

var (
	ErrMapNotFound = errors.New("map not found")
	ErrInvalidMap  = errors.New("invalid map")
)

// mapExtensions are the recognized map definition file extensions, in
// lookup order.
var mapExtensions = []string{".json", ".yaml", ".yml"}

// Manager handles map definition loading and caching
type Manager struct {
	mapsDir    string
	defaultMap *engine.MapDefinition
	maps       map[string]*engine.MapDefinition
	mu         sync.RWMutex
}

// NewManager creates a new map manager
func NewManager(mapsDir string) (*Manager, error) {
	if _, err := os.Stat(mapsDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("maps directory does not exist: %s", mapsDir)
	}

	m := &Manager{
		mapsDir: mapsDir,
		maps:    make(map[string]*engine.MapDefinition),
	}

	if err := m.loadDefaultMap(); err != nil {
		return nil, fmt.Errorf("failed to load default map: %w", err)
	}

	return m, nil
}

// LoadMap loads a map definition by name
func (m *Manager) LoadMap(name string) (*engine.MapDefinition, error) {
	m.mu.RLock()
	// Check cache first
	if def, exists := m.maps[name]; exists {
		m.mu.RUnlock()
		return def, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if def, exists := m.maps[name]; exists {
		return def, nil
	}

	path, ok := m.findMapFile(name)
	if !ok {
		return nil, ErrMapNotFound
	}

	def, err := engine.LoadMapDefinition(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMap, err)
	}

	// Maps must at least build; this also catches bad square keys and
	// runtime-only tiles early
	if _, err := def.Build(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMap, err)
	}

	m.maps[name] = def
	return def, nil
}

// ListMaps returns information about all available map definitions
func (m *Manager) ListMaps() ([]*service.MapInfo, error) {
	entries, err := os.ReadDir(m.mapsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read maps directory: %w", err)
	}

	var maps []*service.MapInfo

	for _, entry := range entries {
		if entry.IsDir() || !hasMapExtension(entry.Name()) {
			continue
		}

		name := trimMapExtension(entry.Name())

		def, err := m.LoadMap(name)
		if err != nil {
			// Skip invalid maps
			continue
		}

		maps = append(maps, &service.MapInfo{
			Filename:    entry.Name(),
			MapID:       name, // This is the identifier to use for session creation
			Name:        def.Name,
			SquareCount: len(def.Squares),
			ZoneCount:   len(def.Zones),
		})
	}

	return maps, nil
}

// GetDefault returns the default map definition
func (m *Manager) GetDefault() *engine.MapDefinition {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultMap
}

// SetDefault sets the default map by name
func (m *Manager) SetDefault(name string) error {
	def, err := m.LoadMap(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultMap = def
	return nil
}

// RefreshCache reloads all cached maps from disk
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.maps = make(map[string]*engine.MapDefinition)
	m.mu.Unlock()

	return m.loadDefaultMap()
}

// SaveMap saves a map definition to disk. YAML names keep their
// extension; everything else is written as JSON.
func (m *Manager) SaveMap(name string, def *engine.MapDefinition) error {
	// Validate before saving
	if _, err := def.Build(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMap, err)
	}

	filename := name
	var data []byte
	var err error
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(def)
	case ".json":
		data, err = json.MarshalIndent(def, "", "  ")
	default:
		filename = name + ".json"
		data, err = json.MarshalIndent(def, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal map: %w", err)
	}

	path := filepath.Join(m.mapsDir, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write map file: %w", err)
	}

	// Update cache
	m.mu.Lock()
	m.maps[trimMapExtension(filename)] = def
	m.mu.Unlock()

	return nil
}

// loadDefaultMap loads the default map definition
func (m *Manager) loadDefaultMap() error {
	// Try to load apartment as default
	def, err := m.LoadMap("apartment")
	if err != nil {
		// Try to load the first available map
		maps, listErr := m.ListMaps()
		if listErr != nil || len(maps) == 0 {
			m.defaultMap = m.createMinimalMap()
			return nil
		}

		def, err = m.LoadMap(maps[0].MapID)
		if err != nil {
			m.defaultMap = m.createMinimalMap()
			return nil
		}
	}

	m.defaultMap = def
	return nil
}

// findMapFile resolves a map name to an existing file, trying the name
// verbatim first and then with each known extension
func (m *Manager) findMapFile(name string) (string, bool) {
	if hasMapExtension(name) {
		path := filepath.Join(m.mapsDir, name)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
		return "", false
	}

	for _, ext := range mapExtensions {
		path := filepath.Join(m.mapsDir, name+ext)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

// createMinimalMap creates a minimal valid map definition: two rooms
// joined by a door, with a trail through the hallway
func (m *Manager) createMinimalMap() *engine.MapDefinition {
	bounds := engine.Bounds{Left: 0, Right: 9, Bottom: 0, Top: 4}
	squares := map[string][]engine.Tile{}

	zone := func(x, y int, z engine.ZoneKind) {
		key := engine.Sq(x, y).Key()
		squares[key] = append(squares[key], engine.ZoneTile(z))
	}

	for y := 0; y <= 4; y++ {
		for x := 0; x <= 3; x++ {
			zone(x, y, "bedroom")
		}
		for x := 6; x <= 9; x++ {
			zone(x, y, "kitchen")
		}
	}
	zone(4, 2, "door")
	zone(5, 2, "door")
	squares[engine.Sq(4, 2).Key()] = append(squares[engine.Sq(4, 2).Key()], engine.TrailTile)
	squares[engine.Sq(5, 2).Key()] = append(squares[engine.Sq(5, 2).Key()], engine.TrailTile)
	for _, y := range []int{0, 1, 3, 4} {
		squares[engine.Sq(4, y).Key()] = []engine.Tile{engine.WallTile}
		squares[engine.Sq(5, y).Key()] = []engine.Tile{engine.WallTile}
	}

	return &engine.MapDefinition{
		Name:    "default",
		Bounds:  &bounds,
		Squares: squares,
	}
}

func hasMapExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, known := range mapExtensions {
		if ext == known {
			return true
		}
	}
	return false
}

func trimMapExtension(filename string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}
