package engine

import (
	"log"
	"math/rand"
)

// Footprint is the set of squares an actor claims around its position,
// as offsets from the square it stands on.
type Footprint []Square

// DefaultFootprint is a rounded blob centered one square above the
// actor's position, where the character's body is drawn. It covers the
// standing square itself, the ring around the raised center, and a
// second partial ring.
func DefaultFootprint() Footprint {
	up := Sq(0, 1)

	outer := []Square{
		Sq(-1, 2), Sq(0, 2), Sq(1, 2),
		Sq(-2, 1), Sq(2, 1),
		Sq(-2, 0), Sq(2, 0),
		Sq(-2, -1), Sq(2, -1),
		Sq(-1, -2), Sq(0, -2), Sq(1, -2),
	}

	fp := Footprint{up}
	for _, n := range up.NeighborsAll() {
		fp = append(fp, n)
	}
	for _, s := range outer {
		fp = append(fp, s.Add(up))
	}
	return fp
}

// OccupancyResolver keeps actor tiles on the map in sync with actor
// positions. It must run once per actor per tick, after movement updated
// the actor's square, with the controlled actor resolved last so its
// evictions are not immediately overwritten.
type OccupancyResolver struct {
	m   *TileMap
	reg *ActorRegistry

	footprint Footprint
	// randIntn picks the re-target candidate for a boxed-in actor;
	// swapped out in tests
	randIntn func(n int) int
}

// NewOccupancyResolver creates a resolver with the default footprint.
func NewOccupancyResolver(m *TileMap, reg *ActorRegistry) *OccupancyResolver {
	return &OccupancyResolver{
		m:         m,
		reg:       reg,
		footprint: DefaultFootprint(),
		randIntn:  rand.Intn,
	}
}

// ReplaceActorTiles releases the tiles the actor held on its previous
// square and claims its footprint around the square it currently claims,
// the committed target while walking.
//
// If the actor ends up with no walkable neighbor at all, a controlled
// actor evicts other actors from its four orthogonal neighbors, while an
// autonomous actor re-targets to a random adjacent square occupied only
// by actors or walkable tiles and waits for the crowd to disperse.
func (o *OccupancyResolver) ReplaceActorTiles(h ActorHandle) {
	actor, ok := o.reg.Get(h)
	if !ok {
		return
	}

	own := ActorTile(h)
	for _, idx := range actor.occupies {
		// the tile may no longer be ours: another resolver pass can have
		// evicted us in the meantime
		o.m.MapTile(idx.Square, idx.Layer, func(current Tile) (Tile, bool) {
			if current == own {
				return EmptyTile, true
			}
			return Tile{}, false
		})
	}
	actor.occupies = actor.occupies[:0]

	standsAt := actor.CurrentSquare()

	if !o.CanActorMove(h, standsAt) {
		if actor.Controlled {
			for _, sq := range standsAt.NeighborsOrthogonal() {
				o.m.MapTiles(sq, func(t Tile) Tile {
					if t.Kind == TileActor && t.Actor != h {
						return EmptyTile
					}
					return t
				})
			}
		} else {
			var candidates []Square
			for _, sq := range standsAt.NeighborsAll() {
				if o.m.AllOn(sq, func(t Tile) bool {
					return t.Kind == TileActor || t.IsWalkable(h)
				}) {
					candidates = append(candidates, sq)
				}
			}
			if len(candidates) > 0 {
				target := candidates[o.randIntn(len(candidates))]
				actor.WalkingTo = &Target{Square: target}
			} else {
				log.Printf("ERROR: actor %q is stuck at %s with nowhere to go", actor.Name, standsAt)
			}
		}
	}

	for _, offset := range o.footprint {
		sq := offset.Add(standsAt)
		if layer, ok := o.m.AddToFirstEmptyLayer(sq, own); ok {
			actor.occupies = append(actor.occupies, TileIndex{Square: sq, Layer: layer})
		}
	}

	// the standing square is part of the footprint, so unless the actor
	// stands outside the map bounds its own tile must be present
	debugAssert(o.m.IsOn(standsAt, own), "actor square lost its own actor tile")
}

// ReleaseActorTiles clears every tile the actor still holds. Called
// before despawning.
func (o *OccupancyResolver) ReleaseActorTiles(h ActorHandle) {
	actor, ok := o.reg.Get(h)
	if !ok {
		return
	}
	own := ActorTile(h)
	for _, idx := range actor.occupies {
		o.m.MapTile(idx.Square, idx.Layer, func(current Tile) (Tile, bool) {
			if current == own {
				return EmptyTile, true
			}
			return Tile{}, false
		})
	}
	actor.occupies = actor.occupies[:0]
}

// CanActorMove reports whether the actor has at least one walkable
// square among the eight neighbors of `from`.
func (o *OccupancyResolver) CanActorMove(h ActorHandle, from Square) bool {
	for _, n := range from.NeighborsAll() {
		if o.m.IsWalkable(n, h) {
			return true
		}
	}
	return false
}
