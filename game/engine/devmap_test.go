package engine

// Zone kinds of the development test map. The zones relate as:
//
//	bed <- aisle4 <- aisle1 = aisle2 <-> aisle3 <-> door -> elevator
//
//	exit = tea <-> fridges -> hallway   and hallway <-> tea
//
// where x = y means neighbors, x <-> y overlap, x <- y means x is a
// subset of y.
const (
	zAisle1   ZoneKind = "aisle1"
	zAisle2   ZoneKind = "aisle2"
	zAisle3   ZoneKind = "aisle3"
	zAisle4   ZoneKind = "aisle4"
	zBed      ZoneKind = "bed"
	zDoor     ZoneKind = "door"
	zElevator ZoneKind = "elevator"
	zExit     ZoneKind = "exit"
	zTea      ZoneKind = "tea"
	zFridges  ZoneKind = "fridges"
	zHallway  ZoneKind = "hallway"
)

func devMapBounds() Bounds {
	return Bounds{Left: -11, Right: 0, Bottom: 15, Top: 28}
}

// buildDevMap lays out a two-room store map with the zone relationships
// documented above and computes its zone metadata.
func buildDevMap() *TileMap {
	m := NewTileMap(devMapBounds())

	put := func(x, y int, zones ...ZoneKind) {
		for layer, z := range zones {
			m.SetTile(Sq(x, y), layer, ZoneTile(z))
		}
	}
	column := func(x, yFrom, yTo int, zones ...ZoneKind) {
		for y := yFrom; y <= yTo; y++ {
			put(x, y, zones...)
		}
	}

	column(-10, 16, 17, zFridges)
	column(-10, 19, 20, zExit)
	column(-10, 23, 27, zAisle1)

	column(-9, 16, 17, zFridges, zHallway)
	column(-9, 19, 20, zExit)
	put(-9, 23, zAisle1)
	column(-9, 24, 26, zAisle1, zAisle4)
	put(-9, 27, zAisle1)

	column(-8, 16, 17, zTea, zFridges, zHallway)
	column(-8, 18, 20, zTea)
	put(-8, 23, zAisle1)
	put(-8, 24, zAisle1, zAisle4)
	put(-8, 25, zAisle1, zAisle4, zBed)
	put(-8, 26, zAisle1, zAisle4)
	put(-8, 27, zAisle1)

	column(-7, 16, 17, zTea, zFridges)
	column(-7, 18, 20, zTea)
	put(-7, 23, zAisle1)
	column(-7, 24, 26, zAisle1, zAisle4)
	put(-7, 27, zAisle1)

	column(-6, 23, 27, zAisle1)

	column(-5, 26, 27, zAisle2)
	column(-4, 26, 27, zAisle2)

	column(-3, 19, 22, zDoor)
	column(-3, 26, 27, zAisle2)

	put(-2, 19, zDoor)
	put(-2, 20, zDoor, zElevator)
	put(-2, 21, zDoor)
	put(-2, 22, zDoor, zAisle3)
	column(-2, 23, 25, zAisle3)
	column(-2, 26, 27, zAisle2, zAisle3)

	column(-1, 19, 21, zDoor)
	put(-1, 22, zDoor, zAisle3)
	column(-1, 23, 27, zAisle3)

	m.SetZoneMetadata(ComputeZoneGraph(m).ZoneMetadata())
	return m
}
