package engine

import "sort"

// zonePair is an unordered zone pair stored in canonical (sorted) order
// so the relation sets deduplicate.
type zonePair [2]ZoneKind

func makeZonePair(a, b ZoneKind) zonePair {
	if b < a {
		a, b = b, a
	}
	return zonePair{a, b}
}

// ZoneGraph describes the relationships between the zone kinds of a tile
// map. It is computed offline as a fixed sequence of phases, each feeding
// the next:
//
//  1. supersets: for every zone kind, the kinds present on every square
//     that holds it (proper containment).
//  2. subsets: the inverse of supersets.
//  3. overlaps: co-resident pairs that are not containment pairs.
//  4. neighbors: walkable-adjacent pairs that neither contain each other
//     nor overlap.
//  5. sizes and grouping, emitted by ZoneMetadata.
//
// The graph itself is transient; only the metadata it produces is kept.
type ZoneGraph struct {
	// SupersetsOf maps a zone to the zones whose instances fully contain
	// it: if a square holds the key, it holds every value too.
	SupersetsOf map[ZoneKind]map[ZoneKind]bool
	// SubsetsOf maps a zone to the zones it fully contains.
	SubsetsOf map[ZoneKind]map[ZoneKind]bool
	// Overlaps holds pairs that co-occur on a square without either
	// containing the other.
	Overlaps map[zonePair]bool
	// Neighbors holds pairs living on walkable-adjacent squares that are
	// not containment pairs and do not overlap.
	Neighbors map[zonePair]bool
	// ZoneSizes counts how many squares each zone comprises.
	ZoneSizes map[ZoneKind]int
}

// ComputeZoneGraph runs the analysis phases over a tile map snapshot.
// The phases depend on each other's output and must not be reordered.
func ComputeZoneGraph(m *TileMap) *ZoneGraph {
	supersets := findSupersets(m)
	subsets := findSubsets(supersets)
	overlaps := findOverlaps(m, supersets, subsets)
	neighbors := findNeighbors(m, supersets, subsets, overlaps)

	return &ZoneGraph{
		SupersetsOf: supersets,
		SubsetsOf:   subsets,
		Overlaps:    overlaps,
		Neighbors:   neighbors,
		ZoneSizes:   countZoneSizes(m),
	}
}

// squareZones lists the distinct zone kinds present on a layer list.
func squareZones(tiles []Tile) []ZoneKind {
	var zones []ZoneKind
	for _, t := range tiles {
		if t.Kind != TileZone {
			continue
		}
		dup := false
		for _, z := range zones {
			if z == t.Zone {
				dup = true
				break
			}
		}
		if !dup {
			zones = append(zones, t.Zone)
		}
	}
	return zones
}

// findSupersets intersects, for every zone kind, the sets of other kinds
// co-resident with it across all squares that hold it. What survives the
// intersection contains the kind everywhere it appears.
func findSupersets(m *TileMap) map[ZoneKind]map[ZoneKind]bool {
	supersets := map[ZoneKind]map[ZoneKind]bool{}

	m.EachSquare(func(_ Square, tiles []Tile) {
		zones := squareZones(tiles)
		for _, zone := range zones {
			current, seen := supersets[zone]
			if !seen {
				// first sighting: every co-resident kind is a candidate
				current = map[ZoneKind]bool{}
				for _, other := range zones {
					if other != zone {
						current[other] = true
					}
				}
				supersets[zone] = current
				continue
			}
			for candidate := range current {
				still := false
				for _, other := range zones {
					if other == candidate {
						still = true
						break
					}
				}
				if !still {
					delete(current, candidate)
				}
			}
		}
	})

	for zone, set := range supersets {
		if len(set) == 0 {
			delete(supersets, zone)
		}
	}
	return supersets
}

// findSubsets inverts the supersets map.
func findSubsets(supersets map[ZoneKind]map[ZoneKind]bool) map[ZoneKind]map[ZoneKind]bool {
	subsets := map[ZoneKind]map[ZoneKind]bool{}
	for subset, owners := range supersets {
		for superset := range owners {
			if subsets[superset] == nil {
				subsets[superset] = map[ZoneKind]bool{}
			}
			subsets[superset][subset] = true
		}
	}
	return subsets
}

// findOverlaps records every co-resident pair that is not already a
// containment pair.
func findOverlaps(
	m *TileMap,
	supersets, subsets map[ZoneKind]map[ZoneKind]bool,
) map[zonePair]bool {
	overlaps := map[zonePair]bool{}

	m.EachSquare(func(_ Square, tiles []Tile) {
		zones := squareZones(tiles)
		for _, zone := range zones {
			for _, other := range zones {
				if zone == other ||
					supersets[zone][other] || subsets[zone][other] {
					continue
				}
				overlaps[makeZonePair(zone, other)] = true
			}
		}
	})

	return overlaps
}

// findNeighbors records pairs of zones living on walkable-adjacent
// squares, excluding containment pairs and pairs that already overlap.
func findNeighbors(
	m *TileMap,
	supersets, subsets map[ZoneKind]map[ZoneKind]bool,
	overlaps map[zonePair]bool,
) map[zonePair]bool {
	neighbors := map[zonePair]bool{}

	m.EachSquare(func(s Square, tiles []Tile) {
		zones := squareZones(tiles)
		if len(zones) == 0 {
			return
		}

		for _, neighborSq := range s.NeighborsAll() {
			neighborTiles := m.Get(neighborSq)
			if len(neighborTiles) == 0 {
				continue
			}
			if !m.IsWalkable(neighborSq, NoActor) {
				continue
			}

			for _, zone := range zones {
				for _, other := range squareZones(neighborTiles) {
					if zone == other ||
						supersets[zone][other] || subsets[zone][other] {
						continue
					}
					pair := makeZonePair(zone, other)
					if !overlaps[pair] {
						neighbors[pair] = true
					}
				}
			}
		}
	})

	return neighbors
}

func countZoneSizes(m *TileMap) map[ZoneKind]int {
	sizes := map[ZoneKind]int{}
	m.EachSquare(func(_ Square, tiles []Tile) {
		for _, zone := range squareZones(tiles) {
			sizes[zone]++
		}
	})
	return sizes
}

// relatedZones lists all zones directly related to the given zone via any
// relation edge, deduplicated.
func (g *ZoneGraph) relatedZones(zone ZoneKind) []ZoneKind {
	related := map[ZoneKind]bool{}
	for pair := range g.Overlaps {
		if other, ok := pairOther(pair, zone); ok {
			related[other] = true
		}
	}
	for pair := range g.Neighbors {
		if other, ok := pairOther(pair, zone); ok {
			related[other] = true
		}
	}
	for other := range g.SupersetsOf[zone] {
		related[other] = true
	}
	for other := range g.SubsetsOf[zone] {
		related[other] = true
	}

	out := make([]ZoneKind, 0, len(related))
	for z := range related {
		out = append(out, z)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func pairOther(pair zonePair, zone ZoneKind) (ZoneKind, bool) {
	switch zone {
	case pair[0]:
		return pair[1], true
	case pair[1]:
		return pair[0], true
	}
	return "", false
}

// ZoneMetadata is the final analysis phase: it counts instances, unions
// zones connected by any relation edge into groups, and emits, for every
// zone present on the map, its group, size, and sorted successor list.
//
// Group ids are assigned deterministically by the sorted order of each
// group's first member, so re-running the analyzer over the same map
// yields identical metadata.
func (g *ZoneGraph) ZoneMetadata() map[ZoneKind]ZoneMeta {
	zones := make([]ZoneKind, 0, len(g.ZoneSizes))
	for zone, size := range g.ZoneSizes {
		if size > 0 {
			zones = append(zones, zone)
		}
	}
	sort.Slice(zones, func(i, j int) bool { return zones[i] < zones[j] })

	// union-find over relation edges
	parent := map[ZoneKind]ZoneKind{}
	var find func(ZoneKind) ZoneKind
	find = func(z ZoneKind) ZoneKind {
		if parent[z] == z {
			return z
		}
		root := find(parent[z])
		parent[z] = root
		return root
	}
	union := func(a, b ZoneKind) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[rb] = ra
		}
	}

	for _, zone := range zones {
		parent[zone] = zone
	}
	for _, zone := range zones {
		for _, related := range g.relatedZones(zone) {
			if _, present := parent[related]; present {
				union(zone, related)
			}
		}
	}

	groups := map[ZoneKind]ZoneGroup{}
	next := ZoneGroup(0)
	for _, zone := range zones {
		root := find(zone)
		if _, assigned := groups[root]; !assigned {
			groups[root] = next
			next++
		}
	}

	metas := make(map[ZoneKind]ZoneMeta, len(zones))
	for _, zone := range zones {
		successors := g.relatedZones(zone)
		kept := successors[:0]
		for _, s := range successors {
			// successors outside the map carry no metadata and cannot
			// be routed through
			if g.ZoneSizes[s] > 0 {
				kept = append(kept, s)
			}
		}
		metas[zone] = ZoneMeta{
			Group:      groups[find(zone)],
			Size:       g.ZoneSizes[zone],
			Successors: kept,
		}
	}
	return metas
}
