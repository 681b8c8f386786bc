package engine

// TileMap holds the layered tiles of one scene.
//
// Every square owns a short ordered list of tiles, one per layer, so a
// square can simultaneously be a walk surface and carry a semantic zone
// tag. Layer index has no meaning beyond identity; TileEmpty is a layer's
// erased state.
//
// The map boundary is a soft fence: reads outside it return nothing and
// writes outside it do nothing. That is intentional, not an error path.
type TileMap struct {
	bounds  Bounds
	zones   map[ZoneKind]ZoneMeta
	squares map[Square][]Tile
}

// NewTileMap creates an empty tile map with the given bounds.
func NewTileMap(bounds Bounds) *TileMap {
	return &TileMap{
		bounds:  bounds,
		zones:   map[ZoneKind]ZoneMeta{},
		squares: map[Square][]Tile{},
	}
}

// Bounds returns the map bounds.
func (m *TileMap) Bounds() Bounds {
	return m.bounds
}

// SetZoneMetadata installs the analyzer's per-zone metadata. It is called
// once at load time; the metadata is read-only afterwards.
func (m *TileMap) SetZoneMetadata(zones map[ZoneKind]ZoneMeta) {
	if zones == nil {
		zones = map[ZoneKind]ZoneMeta{}
	}
	m.zones = zones
}

// ZoneMetadata returns the per-zone metadata of the map.
func (m *TileMap) ZoneMetadata() map[ZoneKind]ZoneMeta {
	return m.zones
}

// Contains reports whether the square is inside the map bounds.
func (m *TileMap) Contains(s Square) bool {
	return m.bounds.Contains(s)
}

// Get returns the tiles of the square, nil when the square is outside the
// map bounds or holds no tiles. Callers must not mutate the slice.
func (m *TileMap) Get(s Square) []Tile {
	if !m.Contains(s) {
		return nil
	}
	return m.squares[s]
}

// IsOn reports whether any layer of the square holds the given tile.
func (m *TileMap) IsOn(s Square, tile Tile) bool {
	for _, t := range m.squares[s] {
		if t == tile {
			return true
		}
	}
	return false
}

// AnyOn reports whether the predicate matches any tile on the square.
// Returns false when the square is out of bounds or has no tiles.
func (m *TileMap) AnyOn(s Square, pred func(Tile) bool) bool {
	for _, t := range m.squares[s] {
		if pred(t) {
			return true
		}
	}
	return false
}

// AllOn reports whether the predicate matches all tiles on the square.
// Returns false when the square is out of bounds or has no tiles.
func (m *TileMap) AllOn(s Square, pred func(Tile) bool) bool {
	tiles := m.squares[s]
	if len(tiles) == 0 {
		return false
	}
	for _, t := range tiles {
		if !pred(t) {
			return false
		}
	}
	return true
}

// IsWalkable reports whether the actor `by` can step on the square: it is
// in bounds and every layer is walkable for that actor. A square with no
// tiles is walkable if it is in bounds.
func (m *TileMap) IsWalkable(s Square, by ActorHandle) bool {
	if tiles, ok := m.squares[s]; ok {
		for _, t := range tiles {
			if !t.IsWalkable(by) {
				return false
			}
		}
		return true
	}
	return m.Contains(s)
}

// WalkCost returns the cost of stepping on the square for the actor `by`:
// the minimum cost across layers, unless any layer is impassable, in which
// case ok is false. An in-bounds square with no tiles costs CostNormal.
func (m *TileMap) WalkCost(s Square, by ActorHandle) (WalkCost, bool) {
	if tiles, ok := m.squares[s]; ok {
		cost := CostNormal
		for _, t := range tiles {
			c, walkable := t.WalkCost(by)
			if !walkable {
				return 0, false
			}
			if c < cost {
				cost = c
			}
		}
		return cost, true
	}
	if m.Contains(s) {
		return CostNormal, true
	}
	return 0, false
}

// AddToFirstEmptyLayer writes the tile into the first TileEmpty layer of
// the square, appending a new layer when none is empty, and returns the
// layer index. Returns false when the square is out of bounds.
//
// Must not be called with TileEmpty.
func (m *TileMap) AddToFirstEmptyLayer(s Square, tile Tile) (int, bool) {
	if !m.Contains(s) {
		return 0, false
	}
	debugAssert(tile != EmptyTile, "AddToFirstEmptyLayer called with an empty tile")

	tiles := m.squares[s]
	for i, t := range tiles {
		if t == EmptyTile {
			tiles[i] = tile
			return i, true
		}
	}
	m.squares[s] = append(tiles, tile)
	return len(tiles), true
}

// SetTile writes the tile into the given layer of the square, growing the
// layer list with TileEmpty padding as needed, and returns the previous
// tile. Returns false when the square is out of bounds.
func (m *TileMap) SetTile(s Square, layer int, tile Tile) (Tile, bool) {
	if !m.Contains(s) {
		return Tile{}, false
	}

	tiles := m.grow(s, layer)
	prev := tiles[layer]
	tiles[layer] = tile
	return prev, true
}

// MapTile is a conditional compare-and-set over one tile: the function
// receives the current tile and either returns the replacement or false
// to leave the tile untouched. Used so writers don't clobber a tile whose
// identity changed underneath them, e.g. an evicted actor tile. Returns
// the previous tile and whether a write happened.
func (m *TileMap) MapTile(s Square, layer int, f func(Tile) (Tile, bool)) (Tile, bool) {
	if !m.Contains(s) {
		return Tile{}, false
	}

	tiles := m.grow(s, layer)
	prev := tiles[layer]
	next, ok := f(prev)
	if !ok {
		return Tile{}, false
	}
	tiles[layer] = next
	return prev, true
}

// MapTiles applies the transform to every layer of the square. Used for
// eviction sweeps. No-op when the square holds no tiles.
func (m *TileMap) MapTiles(s Square, f func(Tile) Tile) {
	tiles, ok := m.squares[s]
	if !ok {
		return
	}
	for i, t := range tiles {
		tiles[i] = f(t)
	}
}

// EachSquare calls f for every square that holds at least one tile.
// Iteration order is unspecified.
func (m *TileMap) EachSquare(f func(Square, []Tile)) {
	for s, tiles := range m.squares {
		f(s, tiles)
	}
}

// SquareCount returns how many squares hold at least one tile.
func (m *TileMap) SquareCount() int {
	return len(m.squares)
}

// zoneGroup returns the zone group of the square. No matter how many
// layers there are, all zones within a single square belong to the same
// group, so the first one with metadata decides.
func (m *TileMap) zoneGroup(s Square) (ZoneGroup, bool) {
	for _, t := range m.squares[s] {
		if t.Kind != TileZone {
			continue
		}
		if meta, ok := m.zones[t.Zone]; ok {
			return meta.Group, true
		}
	}
	return 0, false
}

// grow ensures the square has at least layer+1 layers and returns the
// layer slice. Caller must have bounds-checked the square.
func (m *TileMap) grow(s Square, layer int) []Tile {
	tiles := m.squares[s]
	for len(tiles) <= layer {
		tiles = append(tiles, EmptyTile)
	}
	m.squares[s] = tiles
	return tiles
}
