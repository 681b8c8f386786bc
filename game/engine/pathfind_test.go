package engine

import "testing"

func TestFindPartialPathToOwnSquare(t *testing.T) {
	p := NewPathfinder(buildDevMap(), PathfinderConfig{})

	path, ok := p.FindPartialPath(NoActor, Sq(-5, 26), Sq(-5, 26))
	if !ok {
		t.Fatal("expected a zero-length trip to succeed")
	}
	if len(path) != 0 {
		t.Errorf("expected an empty path, got %v", path)
	}
}

func TestFindPartialPathAroundWall(t *testing.T) {
	m := NewTileMap(Bounds{Left: 0, Right: 2, Bottom: 0, Top: 2})
	m.SetTile(Sq(1, 1), 0, WallTile)
	p := NewPathfinder(m, PathfinderConfig{})

	path, ok := p.FindPartialPath(NoActor, Sq(0, 0), Sq(2, 2))
	if !ok {
		t.Fatal("expected a path around the wall")
	}
	if len(path) != 4 {
		t.Errorf("expected a route of 4 squares, got %v", path)
	}
	if path[0] != Sq(0, 0) || path[len(path)-1] != Sq(2, 2) {
		t.Errorf("expected the path to run from start to target, got %v", path)
	}
	for _, sq := range path {
		if sq == Sq(1, 1) {
			t.Errorf("path %v crosses the wall", path)
		}
	}
}

func TestFindPartialPathPrefersTrails(t *testing.T) {
	m := NewTileMap(Bounds{Left: 0, Right: 4, Bottom: 0, Top: 1})
	for x := 0; x <= 4; x++ {
		m.SetTile(Sq(x, 1), 0, TrailTile)
	}
	p := NewPathfinder(m, PathfinderConfig{})

	path, ok := p.FindPartialPath(NoActor, Sq(0, 0), Sq(4, 0))
	if !ok {
		t.Fatal("expected a path along the corridor")
	}
	for _, sq := range path[1 : len(path)-1] {
		if sq.Y != 1 {
			t.Errorf("expected the path to detour over the trail row, got %v", path)
		}
	}
}

func TestFindPartialPathIsBounded(t *testing.T) {
	m := NewTileMap(DefaultBounds())
	p := NewPathfinder(m, PathfinderConfig{})

	from, to := Sq(0, 0), Sq(500, 500)
	path, ok := p.FindPartialPath(NoActor, from, to)
	if !ok {
		t.Fatal("expected a partial path toward a distant target")
	}
	last := path[len(path)-1]
	if last == to {
		t.Fatal("expected the search budget to cut the path short")
	}
	if last.Manhattan(to) >= from.Manhattan(to) {
		t.Errorf("expected the partial path to make progress, ends at %s", last)
	}
}

// searchForPartialPath re-plans from the end of each partial path, the
// way a walking actor would, and reports whether the target was reached
// within the step budget.
func searchForPartialPath(t *testing.T, p *Pathfinder, maxPartialSteps int, from, to Square) bool {
	t.Helper()

	partialFrom := from
	for step := 0; step < maxPartialSteps; step++ {
		path, ok := p.FindPartialPath(NoActor, partialFrom, to)
		if !ok {
			t.Fatalf("no path from %s (partial %s) to %s", from, partialFrom, to)
		}
		if len(path) == 0 {
			if partialFrom != to {
				t.Fatalf("empty path from %s to %s before reaching the target", partialFrom, to)
			}
			return true
		}
		partialFrom = path[len(path)-1]
	}
	return partialFrom == to
}

func TestFindPartialPathBetweenInterestingSquarePairs(t *testing.T) {
	p := NewPathfinder(buildDevMap(), PathfinderConfig{})

	tests := []struct {
		name     string
		from, to Square
	}{
		{"across the whole store", Sq(-7, 15), Sq(-9, 24)},
		{"values at the edge of the map", Sq(-5, 15), Sq(-10, 16)},
		{"from nowhere into the fridges", Sq(-8, 21), Sq(-10, 16)},
		{"from door to door and elevator", Sq(-2, 19), Sq(-2, 20)},
		{"from aisle1 into aisle4", Sq(-10, 25), Sq(-9, 25)},
		{"from aisle4 to the bed", Sq(-9, 25), Sq(-8, 25)},
		{"from aisle4 to the elevator", Sq(-9, 25), Sq(-2, 20)},
		{"from aisle2 into the door", Sq(-2, 26), Sq(-2, 22)},
		{"from exit to the hallway", Sq(-10, 19), Sq(-8, 17)},
		{"from aisle1 to aisle2", Sq(-10, 25), Sq(-5, 26)},
	}

	const maxPartialSteps = 7
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !searchForPartialPath(t, p, maxPartialSteps, tt.from, tt.to) {
				t.Errorf("path from %s to %s took more than %d partial steps", tt.from, tt.to, maxPartialSteps)
			}
		})
	}
}

func TestFindPartialPathFromEachSquareToEveryOther(t *testing.T) {
	if testing.Short() {
		t.Skip("quadratic sweep over the whole map")
	}

	m := buildDevMap()
	p := NewPathfinder(m, PathfinderConfig{})
	b := devMapBounds()

	const maxPartialSteps = 7
	for toX := b.Left; toX <= b.Right; toX++ {
		for toY := b.Bottom; toY <= b.Top; toY++ {
			to := Sq(toX, toY)
			for fromX := b.Left; fromX <= b.Right; fromX++ {
				for fromY := b.Bottom; fromY <= b.Top; fromY++ {
					from := Sq(fromX, fromY)
					if !searchForPartialPath(t, p, maxPartialSteps, from, to) {
						t.Fatalf("path from %s to %s took more than %d partial steps", from, to, maxPartialSteps)
					}
				}
			}
		}
	}
}

func TestFindPartialPathRespectsOtherActors(t *testing.T) {
	m := NewTileMap(Bounds{Left: 0, Right: 2, Bottom: 0, Top: 0})
	me := ActorHandle{Index: 1, Gen: 1}
	other := ActorHandle{Index: 2, Gen: 1}
	m.SetTile(Sq(1, 0), 0, ActorTile(other))
	p := NewPathfinder(m, PathfinderConfig{})

	if _, ok := p.FindPartialPath(me, Sq(0, 0), Sq(2, 0)); ok {
		t.Error("expected another actor to block the only corridor")
	}

	m.SetTile(Sq(1, 0), 0, ActorTile(me))
	if _, ok := p.FindPartialPath(me, Sq(0, 0), Sq(2, 0)); !ok {
		t.Error("expected an actor to walk over its own tiles")
	}
}
