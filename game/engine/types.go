package engine

// TileKind discriminates the content of one layer of one square.
type TileKind string

const (
	// TileEmpty is the erased state of a layer.
	TileEmpty TileKind = "empty"
	// TileWall cannot be passed. Actual walls, furniture, immovable objects.
	TileWall TileKind = "wall"
	// TileTrail is preferred by pathfinding but optional to walk on.
	TileTrail TileKind = "trail"
	// TileActor marks the personal space of an actor. A single actor is
	// assigned to multiple tiles based on its footprint shape.
	TileActor TileKind = "actor"
	// TileZone is a map-specific semantic tag such as "door" or "bed".
	TileZone TileKind = "zone"
)

// ZoneKind names a map-specific zone ("door", "bed", "hallway", ...).
type ZoneKind string

// ActorHandle is a lightweight copyable reference to an actor in the
// registry. It is a back-reference, not ownership: the registry decides
// whether the handle is still live. The zero value is never a live handle.
type ActorHandle struct {
	Index uint32 `json:"index"`
	Gen   uint32 `json:"gen"`
}

// NoActor is the zero handle, used where an actor reference is absent.
var NoActor = ActorHandle{}

// IsZero reports whether the handle is the zero value.
func (h ActorHandle) IsZero() bool {
	return h == NoActor
}

// Tile is the semantic content of one layer of one square.
//
// Actor is set only on TileActor tiles and Zone only on TileZone tiles,
// which keeps the struct comparable with == the way the layered store and
// the zone graph need.
type Tile struct {
	Kind  TileKind    `json:"kind"`
	Actor ActorHandle `json:"actor,omitempty"`
	Zone  ZoneKind    `json:"zone,omitempty"`
}

// EmptyTile is the erased state of a layer.
var EmptyTile = Tile{Kind: TileEmpty}

// WallTile blocks walking regardless of other layers.
var WallTile = Tile{Kind: TileWall}

// TrailTile is walked over at preferred cost.
var TrailTile = Tile{Kind: TileTrail}

// ActorTile returns the occupancy tile of the given actor.
func ActorTile(h ActorHandle) Tile {
	return Tile{Kind: TileActor, Actor: h}
}

// ZoneTile returns the semantic tag tile for the given zone kind.
func ZoneTile(z ZoneKind) Tile {
	return Tile{Kind: TileZone, Zone: z}
}

// WalkCost orders how much pathfinding wants to avoid a tile. The higher
// the cost, the less likely an actor routes over it.
type WalkCost int

const (
	// CostPreferred marks tiles the search should favor, such as trails.
	CostPreferred WalkCost = 1
	// CostNormal is the default walking cost.
	CostNormal WalkCost = 3
)

// IsZone reports whether the tile is a semantic zone tag.
func (t Tile) IsZone() bool {
	return t.Kind == TileZone
}

// IsWalkable reports whether the tile can be stepped on by the actor `by`.
// An actor tile is walkable only for the actor it belongs to.
func (t Tile) IsWalkable(by ActorHandle) bool {
	switch t.Kind {
	case TileEmpty, TileTrail, TileZone:
		return true
	case TileWall:
		return false
	case TileActor:
		// don't walk over others
		return t.Actor == by
	}
	return false
}

// WalkCost returns the cost of stepping on the tile, or false when the
// tile is impassable for the actor `by`.
func (t Tile) WalkCost(by ActorHandle) (WalkCost, bool) {
	switch t.Kind {
	case TileWall:
		return 0, false
	case TileEmpty, TileZone:
		return CostNormal, true
	case TileTrail:
		return CostPreferred, true
	case TileActor:
		if t.Actor == by {
			return CostNormal, true
		}
		// don't walk over others
		return 0, false
	}
	return 0, false
}

// ZoneGroup is an opaque id of a connected component of the zone
// relationship graph. Two zones share a group iff a chain of related
// edges (overlap, neighbor, subset/superset) connects them.
type ZoneGroup int

// ZoneMeta is the per-zone metadata computed offline by the analyzer and
// shipped read-only alongside the map. The pathfinder consumes it at
// runtime and never recomputes it.
type ZoneMeta struct {
	// Group is the connected component the zone belongs to.
	Group ZoneGroup `json:"group" yaml:"group"`
	// Size is how many squares the zone comprises.
	Size int `json:"size" yaml:"size"`
	// Successors lists all directly related zones, sorted, used for
	// inter-zone routing.
	Successors []ZoneKind `json:"successors" yaml:"successors"`
}

// TileIndex identifies a tile by square and layer.
type TileIndex struct {
	Square Square `json:"square"`
	Layer  int    `json:"layer"`
}

// Bounds is the soft fence of the map in squares, inclusive.
type Bounds struct {
	Left   int `json:"left" yaml:"left"`
	Right  int `json:"right" yaml:"right"`
	Bottom int `json:"bottom" yaml:"bottom"`
	Top    int `json:"top" yaml:"top"`
}

// DefaultBounds gives sufficient buffer for maps of all practical sizes.
func DefaultBounds() Bounds {
	return Bounds{Left: -1000, Right: 1000, Bottom: -1000, Top: 1000}
}

// Contains reports whether the square lies inside the bounds.
func (b Bounds) Contains(s Square) bool {
	return s.X >= b.Left && s.X <= b.Right && s.Y >= b.Bottom && s.Y <= b.Top
}
