package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrTargetNotAdjacent rejects a target more than one king move away
	// from the actor's current square.
	ErrTargetNotAdjacent = errors.New("target is not adjacent")
	// ErrTargetBlocked rejects a target square the actor could never
	// enter: out of bounds, or holding a non-actor impassable tile.
	ErrTargetBlocked = errors.New("target square is blocked")
)

// Scene bundles the runtime pieces of one loaded map: the tile store,
// the actor registry, the occupancy resolver, the pathfinder, and the
// zone tracker.
//
// A scene is not safe for concurrent use. The session layer owns one
// scene per session and serializes access to it.
type Scene struct {
	name string

	tiles      *TileMap
	actors     *ActorRegistry
	occupancy  *OccupancyResolver
	pathfinder *Pathfinder
	tracker    *ZoneTracker
}

// NewScene creates a scene over a built tile map.
func NewScene(name string, m *TileMap, cfg PathfinderConfig) *Scene {
	actors := NewActorRegistry()
	return &Scene{
		name:       name,
		tiles:      m,
		actors:     actors,
		occupancy:  NewOccupancyResolver(m, actors),
		pathfinder: NewPathfinder(m, cfg),
		tracker:    NewZoneTracker(m),
	}
}

// NewSceneFromDefinition builds the map of a definition and wraps it in
// a scene.
func NewSceneFromDefinition(def *MapDefinition, cfg PathfinderConfig) (*Scene, error) {
	m, err := def.Build()
	if err != nil {
		return nil, err
	}
	return NewScene(def.Name, m, cfg), nil
}

// Name returns the scene name.
func (s *Scene) Name() string {
	return s.name
}

// Map returns the scene's tile map.
func (s *Scene) Map() *TileMap {
	return s.tiles
}

// Actors returns the scene's actor registry.
func (s *Scene) Actors() *ActorRegistry {
	return s.actors
}

// SpawnActor adds the actor to the scene, claims its footprint, and
// returns its handle along with the zone events of its initial position.
func (s *Scene) SpawnActor(a Actor) (ActorHandle, []ZoneEvent, error) {
	if !s.tiles.Contains(a.WalkingFrom) {
		return NoActor, nil, fmt.Errorf("actor %q spawns out of bounds at %s", a.Name, a.WalkingFrom)
	}
	if a.Controlled {
		controlledTaken := false
		s.actors.Each(func(_ ActorHandle, other *Actor) {
			if other.Controlled {
				controlledTaken = true
			}
		})
		if controlledTaken {
			return NoActor, nil, fmt.Errorf("scene %q already has a controlled actor", s.name)
		}
	}

	h := s.actors.Spawn(a)
	s.occupancy.ReplaceActorTiles(h)
	actor, _ := s.actors.Get(h)
	return h, s.tracker.Update(h, actor), nil
}

// DespawnActor releases the actor's tiles and removes it, returning the
// zone-left events for the zones it was still in.
func (s *Scene) DespawnActor(h ActorHandle) ([]ZoneEvent, bool) {
	actor, ok := s.actors.Get(h)
	if !ok {
		return nil, false
	}
	s.occupancy.ReleaseActorTiles(h)
	events := s.tracker.Forget(h, actor)
	s.actors.Despawn(h)
	return events, true
}

// FindPartialPath plans a partial path for the actor from its current
// square toward the target.
func (s *Scene) FindPartialPath(h ActorHandle, to Square) ([]Square, bool) {
	actor, ok := s.actors.Get(h)
	if !ok {
		return nil, false
	}
	return s.pathfinder.FindPartialPath(h, actor.CurrentSquare(), to)
}

// SetActorTarget commits the actor to step onto an adjacent square on
// the next tick, optionally with a planned follow-up step. Squares held
// by other actors are accepted: the step is taken regardless and the
// occupancy resolver sorts out the contention at arrival, which is what
// lets a crowd sharing a square disperse. Walls and out-of-bounds
// squares are rejected with ErrTargetBlocked.
func (s *Scene) SetActorTarget(h ActorHandle, to Square, planned *Square) error {
	actor, ok := s.actors.Get(h)
	if !ok {
		return fmt.Errorf("no such actor")
	}
	from := actor.CurrentSquare()
	if dist := squareChebyshev(from, to); dist != 1 {
		return fmt.Errorf("%w: %s from %s", ErrTargetNotAdjacent, to, from)
	}
	if !s.enterable(h, to) {
		return fmt.Errorf("%w: %s", ErrTargetBlocked, to)
	}
	actor.WalkingTo = &Target{Square: to, Planned: planned}
	return nil
}

// enterable reports whether the actor could ever arrive on the square:
// in bounds and free of impassable tiles other than actor tiles.
func (s *Scene) enterable(h ActorHandle, to Square) bool {
	if !s.tiles.Contains(to) {
		return false
	}
	for _, t := range s.tiles.Get(to) {
		if t.Kind != TileActor && !t.IsWalkable(h) {
			return false
		}
	}
	return true
}

// Tick advances the scene one step: every actor with a committed target
// arrives on it, then its occupancy footprint and zone membership are
// brought up to date. A planned follow-up step becomes the next
// committed target only while its square is still walkable.
//
// Autonomous actors are resolved first and the controlled actor last, so
// that when the controlled actor has to evict a neighbor the eviction is
// not immediately undone by the neighbor's own resolution.
func (s *Scene) Tick() []ZoneEvent {
	var autonomous, controlled []ActorHandle
	s.actors.Each(func(h ActorHandle, a *Actor) {
		if a.Controlled {
			controlled = append(controlled, h)
		} else {
			autonomous = append(autonomous, h)
		}
	})

	var events []ZoneEvent
	for _, h := range append(autonomous, controlled...) {
		actor, ok := s.actors.Get(h)
		if !ok {
			continue
		}

		if actor.WalkingTo != nil {
			next := actor.WalkingTo.Square
			if d, ok := directionBetween(actor.WalkingFrom, next); ok {
				actor.Direction = d
			}
			actor.WalkingFrom = next
			planned := actor.WalkingTo.Planned
			actor.WalkingTo = nil
			if planned != nil && s.tiles.IsWalkable(*planned, h) {
				actor.WalkingTo = &Target{Square: *planned}
			}
		}

		s.occupancy.ReplaceActorTiles(h)
		events = append(events, s.tracker.Update(h, actor)...)
	}
	return events
}

// directionBetween returns the direction of the single step from one
// square to an adjacent one.
func directionBetween(from, to Square) (Direction, bool) {
	for _, d := range allDirections {
		if from.Neighbor(d) == to {
			return d, true
		}
	}
	return 0, false
}

// squareChebyshev is the king-move distance between two squares.
func squareChebyshev(a, b Square) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	if dx > dy {
		return dx
	}
	return dy
}
