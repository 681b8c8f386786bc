package engine

import "log"

// PathfinderConfig tunes the hierarchical pathfinder. The zero value is
// usable; unset fields fall back to defaults.
type PathfinderConfig struct {
	// AltRoutes is how many alternative zone sequences are tried before
	// giving up on zone-graph routing. At runtime a route can be blocked
	// by an obstacle the offline analysis could not foresee, so a single
	// cheapest sequence is not enough.
	AltRoutes int `json:"alt_routes" yaml:"alt_routes"`
	// MaxExploredSquares bounds the blind search used when the target
	// carries no zone information.
	MaxExploredSquares int `json:"max_explored_squares" yaml:"max_explored_squares"`
}

const (
	defaultAltRoutes          = 3
	defaultMaxExploredSquares = 100
)

func (c PathfinderConfig) withDefaults() PathfinderConfig {
	if c.AltRoutes <= 0 {
		c.AltRoutes = defaultAltRoutes
	}
	if c.MaxExploredSquares <= 0 {
		c.MaxExploredSquares = defaultMaxExploredSquares
	}
	return c
}

// Pathfinder finds partial paths over a tile map. Partial means the
// returned path makes progress toward the target but need not reach it;
// the caller re-plans from wherever it ends up, so obstacles that appear
// mid-walk resolve themselves over a few plans.
type Pathfinder struct {
	m   *TileMap
	cfg PathfinderConfig
}

// NewPathfinder creates a pathfinder over the given map.
func NewPathfinder(m *TileMap, cfg PathfinderConfig) *Pathfinder {
	return &Pathfinder{m: m, cfg: cfg.withDefaults()}
}

// FindPartialPath returns a path from `from` toward `to` for the actor
// `by`. The path starts at `from` and either reaches `to` or ends at a
// square from which the next plan will be cheaper (a better zone, the
// target's zone group, or simply closer). Returns false when no progress
// can be made. A zero-length trip yields an empty path.
//
// Three situations, cheapest applicable wins:
//
//	a) both squares share a zone group: route over the zone graph and
//	   walk toward the next strictly better zone of the cheapest viable
//	   sequence
//	b) the target has a zone group but the start does not share it: walk
//	   until any square of the target's group is reached, which reduces
//	   the next plan to a)
//	c) the target has no zone information: bounded blind search
func (p *Pathfinder) FindPartialPath(by ActorHandle, from, to Square) ([]Square, bool) {
	if from == to {
		return []Square{}, true
	}

	toGroup, toHasGroup := p.m.zoneGroup(to)
	if !toHasGroup {
		// c)
		log.Printf("expensive partial path search %s -> %s", from, to)
		return p.partialAstar(by, from, to)
	}

	fromGroup, fromHasGroup := p.m.zoneGroup(from)
	if !fromHasGroup || fromGroup != toGroup {
		// b)
		return p.astarIntoZoneGroup(by, from, to, toGroup)
	}

	// a)

	smallestToZone, ok := p.smallestZoneOn(to)
	if !ok {
		return nil, false
	}
	fromZones := squareZones(p.m.Get(from))
	if len(fromZones) == 0 {
		return nil, false
	}
	anyFromZone := fromZones[0]

	for _, sequence := range p.zoneSequences(anyFromZone, smallestToZone) {
		var strictlyBetter []ZoneKind
		for _, zone := range sequence {
			onFrom := false
			for _, fz := range fromZones {
				if fz == zone {
					onFrom = true
					break
				}
			}
			if !onFrom {
				strictlyBetter = append(strictlyBetter, zone)
			}
		}

		if len(strictlyBetter) == 0 {
			// the zone graph has nothing more to offer; finish the trip
			// inside the target's smallest zone
			return p.astarStayInZone(by, from, to, smallestToZone)
		}
		if path, ok := p.astarIntoStrictlyBetterZone(by, from, to, sequence, strictlyBetter); ok {
			return path, true
		}
	}

	return nil, false
}

// smallestZoneOn picks the zone with the fewest squares among the zones
// of the square. The smaller the zone, the tighter the constraint it puts
// on the final search.
func (p *Pathfinder) smallestZoneOn(s Square) (ZoneKind, bool) {
	var (
		smallest ZoneKind
		size     int
		found    bool
	)
	for _, zone := range squareZones(p.m.Get(s)) {
		meta, ok := p.m.zones[zone]
		if !ok {
			continue
		}
		if !found || meta.Size < size {
			smallest, size, found = zone, meta.Size, true
		}
	}
	return smallest, found
}

// zoneSequences enumerates up to AltRoutes cheapest zone sequences
// between two zones of the same group. Edge weight is the successor
// zone's size, so routes through small zones are preferred.
func (p *Pathfinder) zoneSequences(from, to ZoneKind) [][]ZoneKind {
	return yenKShortest(from, to, p.cfg.AltRoutes, func(zone ZoneKind) []weightedZone {
		meta, ok := p.m.zones[zone]
		if !ok {
			return nil
		}
		edges := make([]weightedZone, 0, len(meta.Successors))
		for _, s := range meta.Successors {
			sMeta, ok := p.m.zones[s]
			if !ok {
				continue
			}
			edges = append(edges, weightedZone{zone: s, cost: sMeta.Size})
		}
		return edges
	})
}

// walkSuccessors appends to buf the walkable neighbors of s with their
// step cost. Diagonal steps cost one more than the square's walk cost so
// zigzagging is never cheaper than a straight line.
func (p *Pathfinder) walkSuccessors(by ActorHandle) func(Square, []weightedSquare) []weightedSquare {
	return func(s Square, buf []weightedSquare) []weightedSquare {
		for _, n := range s.NeighborsOrthogonal() {
			if cost, ok := p.m.WalkCost(n, by); ok {
				buf = append(buf, weightedSquare{square: n, cost: int(cost)})
			}
		}
		for _, n := range s.NeighborsDiagonal() {
			if cost, ok := p.m.WalkCost(n, by); ok {
				buf = append(buf, weightedSquare{square: n, cost: int(cost) + 1})
			}
		}
		return buf
	}
}

// filterSuccessors keeps only the successors whose square passes keep.
func filterSuccessors(
	successors func(Square, []weightedSquare) []weightedSquare,
	keep func(Square) bool,
) func(Square, []weightedSquare) []weightedSquare {
	return func(s Square, buf []weightedSquare) []weightedSquare {
		buf = successors(s, buf)
		kept := buf[:0]
		for _, ws := range buf {
			if keep(ws.square) {
				kept = append(kept, ws)
			}
		}
		return kept
	}
}

// partialAstar is the fallback blind search. It explores up to
// MaxExploredSquares squares looking for the target; past the budget it
// settles for the next square at least as close to the target as the
// best distance seen so far.
func (p *Pathfinder) partialAstar(by ActorHandle, from, to Square) ([]Square, bool) {
	explored := 0
	shortestDistance := int(^uint(0) >> 1)

	return astarSearch(from, gridSearch{
		successors: p.walkSuccessors(by),
		heuristic:  func(s Square) int { return s.Manhattan(to) },
		success: func(s Square) bool {
			if explored < p.cfg.MaxExploredSquares {
				explored++
				if d := s.Manhattan(to); d < shortestDistance {
					shortestDistance = d
				}
				return s == to
			}
			return s.Manhattan(to) <= shortestDistance
		},
	})
}

func (p *Pathfinder) astarStayInZone(by ActorHandle, from, to Square, zone ZoneKind) ([]Square, bool) {
	zoneTile := ZoneTile(zone)
	return astarSearch(from, gridSearch{
		successors: filterSuccessors(p.walkSuccessors(by), func(s Square) bool {
			return p.m.IsOn(s, zoneTile)
		}),
		heuristic: func(s Square) int { return s.Manhattan(to) },
		success:   func(s Square) bool { return s == to },
	})
}

func (p *Pathfinder) astarIntoStrictlyBetterZone(
	by ActorHandle,
	from, to Square,
	allowedZones, strictlyBetterZones []ZoneKind,
) ([]Square, bool) {
	onAny := func(s Square, zones []ZoneKind) bool {
		return p.m.AnyOn(s, func(t Tile) bool {
			if t.Kind != TileZone {
				return false
			}
			for _, z := range zones {
				if t.Zone == z {
					return true
				}
			}
			return false
		})
	}

	return astarSearch(from, gridSearch{
		successors: filterSuccessors(p.walkSuccessors(by), func(s Square) bool {
			return onAny(s, allowedZones)
		}),
		heuristic: func(s Square) int { return s.Manhattan(to) },
		success:   func(s Square) bool { return onAny(s, strictlyBetterZones) },
	})
}

func (p *Pathfinder) astarIntoZoneGroup(by ActorHandle, from, to Square, group ZoneGroup) ([]Square, bool) {
	return astarSearch(from, gridSearch{
		successors: p.walkSuccessors(by),
		heuristic:  func(s Square) int { return s.Manhattan(to) },
		success: func(s Square) bool {
			g, ok := p.m.zoneGroup(s)
			return ok && g == group
		},
	})
}
