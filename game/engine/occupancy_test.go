package engine

import "testing"

func newOccupancyFixture(bounds Bounds) (*TileMap, *ActorRegistry, *OccupancyResolver) {
	m := NewTileMap(bounds)
	reg := NewActorRegistry()
	return m, reg, NewOccupancyResolver(m, reg)
}

func TestReplaceActorTilesClaimsFootprint(t *testing.T) {
	m, reg, o := newOccupancyFixture(DefaultBounds())

	h := reg.Spawn(Actor{Name: "winnie", WalkingFrom: Sq(0, 0)})
	o.ReplaceActorTiles(h)

	if !m.IsOn(Sq(0, 0), ActorTile(h)) {
		t.Error("expected the standing square to carry the actor's tile")
	}

	actor, _ := reg.Get(h)
	if len(actor.occupies) != len(DefaultFootprint()) {
		t.Errorf("expected the whole footprint to be claimed, got %d of %d tiles",
			len(actor.occupies), len(DefaultFootprint()))
	}
	for _, idx := range actor.occupies {
		if !m.IsOn(idx.Square, ActorTile(h)) {
			t.Errorf("claimed square %s does not hold the actor's tile", idx.Square)
		}
	}
}

func TestReplaceActorTilesReleasesOldFootprint(t *testing.T) {
	m, reg, o := newOccupancyFixture(DefaultBounds())

	h := reg.Spawn(Actor{Name: "winnie", WalkingFrom: Sq(0, 0)})
	o.ReplaceActorTiles(h)

	actor, _ := reg.Get(h)
	actor.WalkingFrom = Sq(20, 20)
	o.ReplaceActorTiles(h)

	matches := 0
	m.EachSquare(func(s Square, tiles []Tile) {
		for _, tile := range tiles {
			if tile == ActorTile(h) {
				matches++
				if s.Manhattan(Sq(20, 20)) > 4 {
					t.Errorf("stale actor tile left behind at %s", s)
				}
			}
		}
	})
	if matches != len(DefaultFootprint()) {
		t.Errorf("expected exactly one footprint on the map, found %d tiles", matches)
	}
}

func TestReplaceActorTilesDoesNotClobberEvictedTiles(t *testing.T) {
	m, reg, o := newOccupancyFixture(DefaultBounds())

	h := reg.Spawn(Actor{Name: "winnie", WalkingFrom: Sq(0, 0)})
	o.ReplaceActorTiles(h)

	// another resolver pass evicted one of our tiles and a different
	// actor claimed the layer
	other := ActorHandle{Index: 99, Gen: 1}
	actor, _ := reg.Get(h)
	stolen := actor.occupies[0]
	m.SetTile(stolen.Square, stolen.Layer, ActorTile(other))

	actor.WalkingFrom = Sq(20, 20)
	o.ReplaceActorTiles(h)

	if !m.IsOn(stolen.Square, ActorTile(other)) {
		t.Error("expected the stolen tile to survive the release")
	}
}

func TestControlledActorEvictsOrthogonalNeighbors(t *testing.T) {
	m, reg, o := newOccupancyFixture(DefaultBounds())

	other := ActorHandle{Index: 99, Gen: 1}
	at := Sq(0, 0)
	for _, sq := range at.NeighborsAll() {
		m.SetTile(sq, 0, ActorTile(other))
	}

	h := reg.Spawn(Actor{Name: "winnie", Controlled: true, WalkingFrom: at})
	o.ReplaceActorTiles(h)

	for _, sq := range at.NeighborsOrthogonal() {
		if m.IsOn(sq, ActorTile(other)) {
			t.Errorf("expected the other actor to be evicted from %s", sq)
		}
	}
	evictedDiagonals := 0
	for _, sq := range at.NeighborsDiagonal() {
		if !m.IsOn(sq, ActorTile(other)) {
			evictedDiagonals++
		}
	}
	if evictedDiagonals != 0 {
		t.Errorf("expected diagonal neighbors to be left alone, %d were evicted", evictedDiagonals)
	}
}

func TestAutonomousActorRetargetsWhenBoxedIn(t *testing.T) {
	m, reg, o := newOccupancyFixture(DefaultBounds())

	at := Sq(0, 0)
	crowd := ActorHandle{Index: 99, Gen: 1}
	escape := at.Neighbor(Right)
	for _, sq := range at.NeighborsAll() {
		if sq == escape {
			m.SetTile(sq, 0, ActorTile(crowd))
		} else {
			m.SetTile(sq, 0, WallTile)
		}
	}

	h := reg.Spawn(Actor{Name: "npc", WalkingFrom: at})
	o.randIntn = func(n int) int { return 0 }
	o.ReplaceActorTiles(h)

	actor, _ := reg.Get(h)
	if actor.WalkingTo == nil {
		t.Fatal("expected the boxed-in actor to pick a new target")
	}
	if actor.WalkingTo.Square != escape {
		t.Errorf("expected the actor to head for the crowded square %s, got %s", escape, actor.WalkingTo.Square)
	}
}

func TestStuckActorKeepsNoTarget(t *testing.T) {
	m, reg, o := newOccupancyFixture(DefaultBounds())

	at := Sq(0, 0)
	for _, sq := range at.NeighborsAll() {
		m.SetTile(sq, 0, WallTile)
	}

	h := reg.Spawn(Actor{Name: "npc", WalkingFrom: at})
	o.ReplaceActorTiles(h)

	actor, _ := reg.Get(h)
	if actor.WalkingTo != nil {
		t.Errorf("expected no target when every direction is a wall, got %v", actor.WalkingTo)
	}
}

func TestReleaseActorTilesClearsEverything(t *testing.T) {
	m, reg, o := newOccupancyFixture(DefaultBounds())

	h := reg.Spawn(Actor{Name: "winnie", WalkingFrom: Sq(0, 0)})
	o.ReplaceActorTiles(h)
	o.ReleaseActorTiles(h)

	m.EachSquare(func(s Square, tiles []Tile) {
		for _, tile := range tiles {
			if tile == ActorTile(h) {
				t.Errorf("actor tile left behind at %s", s)
			}
		}
	})
}

func TestCanActorMove(t *testing.T) {
	m, reg, o := newOccupancyFixture(DefaultBounds())
	h := reg.Spawn(Actor{Name: "winnie", WalkingFrom: Sq(0, 0)})

	if !o.CanActorMove(h, Sq(0, 0)) {
		t.Error("expected an open square to allow movement")
	}

	for _, sq := range Sq(0, 0).NeighborsAll() {
		m.SetTile(sq, 0, WallTile)
	}
	if o.CanActorMove(h, Sq(0, 0)) {
		t.Error("expected a walled-in square to block movement")
	}
}
