package engine

import (
	"reflect"
	"testing"
)

func TestZoneGraphRelations(t *testing.T) {
	m := buildDevMap()
	g := ComputeZoneGraph(m)

	supersetCases := []struct {
		zone      ZoneKind
		supersets []ZoneKind
	}{
		{zAisle4, []ZoneKind{zAisle1}},
		{zBed, []ZoneKind{zAisle1, zAisle4}},
		{zElevator, []ZoneKind{zDoor}},
		{zHallway, []ZoneKind{zFridges}},
	}
	for _, tt := range supersetCases {
		if len(g.SupersetsOf[tt.zone]) != len(tt.supersets) {
			t.Errorf("supersets of %s = %v, expected %v", tt.zone, g.SupersetsOf[tt.zone], tt.supersets)
			continue
		}
		for _, super := range tt.supersets {
			if !g.SupersetsOf[tt.zone][super] {
				t.Errorf("expected %s to be a superset of %s", super, tt.zone)
			}
		}
	}
	if len(g.SupersetsOf) != len(supersetCases) {
		t.Errorf("unexpected supersets: %v", g.SupersetsOf)
	}

	expectedOverlaps := []zonePair{
		makeZonePair(zAisle2, zAisle3),
		makeZonePair(zAisle3, zDoor),
		makeZonePair(zTea, zFridges),
		makeZonePair(zTea, zHallway),
	}
	if len(g.Overlaps) != len(expectedOverlaps) {
		t.Errorf("overlaps = %v, expected %v", g.Overlaps, expectedOverlaps)
	}
	for _, pair := range expectedOverlaps {
		if !g.Overlaps[pair] {
			t.Errorf("expected %v to overlap", pair)
		}
	}

	expectedNeighbors := []zonePair{
		makeZonePair(zAisle1, zAisle2),
		makeZonePair(zExit, zTea),
	}
	if len(g.Neighbors) != len(expectedNeighbors) {
		t.Errorf("neighbors = %v, expected %v", g.Neighbors, expectedNeighbors)
	}
	for _, pair := range expectedNeighbors {
		if !g.Neighbors[pair] {
			t.Errorf("expected %v to be neighbors", pair)
		}
	}
}

func TestZoneMetadata(t *testing.T) {
	metas := buildDevMap().ZoneMetadata()

	tests := []struct {
		zone       ZoneKind
		group      ZoneGroup
		size       int
		successors []ZoneKind
	}{
		{zAisle1, 0, 25, []ZoneKind{zAisle2, zAisle4, zBed}},
		{zAisle2, 0, 8, []ZoneKind{zAisle1, zAisle3}},
		{zAisle3, 0, 12, []ZoneKind{zAisle2, zDoor}},
		{zAisle4, 0, 9, []ZoneKind{zAisle1, zBed}},
		{zBed, 0, 1, []ZoneKind{zAisle1, zAisle4}},
		{zDoor, 0, 12, []ZoneKind{zAisle3, zElevator}},
		{zElevator, 0, 1, []ZoneKind{zDoor}},
		{zExit, 1, 4, []ZoneKind{zTea}},
		{zFridges, 1, 8, []ZoneKind{zHallway, zTea}},
		{zHallway, 1, 4, []ZoneKind{zFridges, zTea}},
		{zTea, 1, 10, []ZoneKind{zExit, zFridges, zHallway}},
	}

	if len(metas) != len(tests) {
		t.Fatalf("expected metadata for %d zones, got %d", len(tests), len(metas))
	}
	for _, tt := range tests {
		t.Run(string(tt.zone), func(t *testing.T) {
			meta, ok := metas[tt.zone]
			if !ok {
				t.Fatalf("no metadata for %s", tt.zone)
			}
			if meta.Group != tt.group {
				t.Errorf("group = %d, expected %d", meta.Group, tt.group)
			}
			if meta.Size != tt.size {
				t.Errorf("size = %d, expected %d", meta.Size, tt.size)
			}
			if !reflect.DeepEqual(meta.Successors, tt.successors) {
				t.Errorf("successors = %v, expected %v", meta.Successors, tt.successors)
			}
		})
	}
}

// Every pair of zones sharing a square must be in exactly one relation:
// containment, overlap, or (never, since they share a square) neighbors.
func TestCoResidentZonesHaveExactlyOneRelation(t *testing.T) {
	m := buildDevMap()
	g := ComputeZoneGraph(m)

	m.EachSquare(func(s Square, tiles []Tile) {
		zones := squareZones(tiles)
		for i, a := range zones {
			for _, b := range zones[i+1:] {
				relations := 0
				if g.SupersetsOf[a][b] || g.SupersetsOf[b][a] {
					relations++
				}
				pair := makeZonePair(a, b)
				if g.Overlaps[pair] {
					relations++
				}
				if g.Neighbors[pair] {
					relations++
				}
				if relations != 1 {
					t.Errorf("zones %s and %s share square %s but are in %d relations", a, b, s, relations)
				}
			}
		}
	})
}

// Zones connected through a chain of relations must share a group, and
// zones in different chains must not.
func TestZoneGroupsFollowRelationChains(t *testing.T) {
	metas := buildDevMap().ZoneMetadata()

	for zone, meta := range metas {
		for _, successor := range meta.Successors {
			if metas[successor].Group != meta.Group {
				t.Errorf("related zones %s and %s are in groups %d and %d",
					zone, successor, meta.Group, metas[successor].Group)
			}
		}
	}

	if metas[zAisle1].Group == metas[zExit].Group {
		t.Error("expected the store room and the exit room to be in separate groups")
	}
}

func TestZoneGraphOnEmptyMap(t *testing.T) {
	m := NewTileMap(DefaultBounds())
	metas := ComputeZoneGraph(m).ZoneMetadata()
	if len(metas) != 0 {
		t.Errorf("expected no metadata for an empty map, got %v", metas)
	}
}
