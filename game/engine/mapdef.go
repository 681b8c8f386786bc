package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidMapDefinition wraps every map definition parse or build
// failure.
var ErrInvalidMapDefinition = errors.New("invalid map definition")

// MapDefinition is the serialized form of a scene map. Squares are keyed
// by "x,y" so the same document round-trips through JSON and YAML.
//
// Zones holds the analyzer output. When absent the metadata is computed
// while building, which is fine for tests and small maps; shipped maps
// carry it precomputed.
type MapDefinition struct {
	Name    string                `json:"name" yaml:"name"`
	Bounds  *Bounds               `json:"bounds,omitempty" yaml:"bounds,omitempty"`
	Squares map[string][]Tile     `json:"squares" yaml:"squares"`
	Zones   map[ZoneKind]ZoneMeta `json:"zones,omitempty" yaml:"zones,omitempty"`
}

// Key renders the square as a map definition key.
func (s Square) Key() string {
	return fmt.Sprintf("%d,%d", s.X, s.Y)
}

// ParseSquareKey parses an "x,y" map definition key.
func ParseSquareKey(key string) (Square, error) {
	parts := strings.Split(key, ",")
	if len(parts) != 2 {
		return Square{}, fmt.Errorf("%w: square key %q is not \"x,y\"", ErrInvalidMapDefinition, key)
	}
	x, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Square{}, fmt.Errorf("%w: square key %q: %v", ErrInvalidMapDefinition, key, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Square{}, fmt.Errorf("%w: square key %q: %v", ErrInvalidMapDefinition, key, err)
	}
	return Sq(x, y), nil
}

// Build constructs the tile map the definition describes. Actor tiles
// are runtime state and may not appear in a definition.
func (d *MapDefinition) Build() (*TileMap, error) {
	bounds := DefaultBounds()
	if d.Bounds != nil {
		bounds = *d.Bounds
	}

	m := NewTileMap(bounds)
	for key, tiles := range d.Squares {
		sq, err := ParseSquareKey(key)
		if err != nil {
			return nil, err
		}
		if !m.Contains(sq) {
			return nil, fmt.Errorf("%w: square %s is out of bounds", ErrInvalidMapDefinition, sq)
		}
		for layer, tile := range tiles {
			switch tile.Kind {
			case TileEmpty, TileWall, TileTrail:
			case TileZone:
				if tile.Zone == "" {
					return nil, fmt.Errorf("%w: square %s layer %d: zone tile without a zone kind", ErrInvalidMapDefinition, sq, layer)
				}
			case TileActor:
				return nil, fmt.Errorf("%w: square %s layer %d: actor tiles are runtime state", ErrInvalidMapDefinition, sq, layer)
			default:
				return nil, fmt.Errorf("%w: square %s layer %d: unknown tile kind %q", ErrInvalidMapDefinition, sq, layer, tile.Kind)
			}
			m.SetTile(sq, layer, tile)
		}
	}

	if d.Zones != nil {
		m.SetZoneMetadata(d.Zones)
	} else {
		m.SetZoneMetadata(ComputeZoneGraph(m).ZoneMetadata())
	}
	return m, nil
}

// LoadMapDefinition reads a map definition from a JSON or YAML file,
// picking the decoder by file extension.
func LoadMapDefinition(path string) (*MapDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read map definition: %w", err)
	}

	var def MapDefinition
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &def)
	default:
		err = json.Unmarshal(data, &def)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidMapDefinition, path, err)
	}
	return &def, nil
}
