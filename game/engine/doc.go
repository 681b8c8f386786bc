// Package engine implements the tile grid that scenes run on.
//
// The package covers:
//   - Layered tile storage where one square can carry several tiles
//     (walls, trails, zone tags, actor occupancy) at once
//   - Offline zone relationship analysis producing per-zone metadata
//     (group, size, successors)
//   - Hierarchical partial pathfinding that routes over the zone graph
//     before touching individual squares
//   - Actor occupancy with footprints, eviction for the controlled
//     actor, and re-targeting for boxed-in autonomous actors
//
// Core Types:
//
// TileMap is the layered store. MapDefinition is its serialized form,
// loaded from JSON or YAML. ComputeZoneGraph and ZoneMetadata produce
// the zone metadata a Pathfinder consumes. Scene ties a map together
// with an ActorRegistry, OccupancyResolver, Pathfinder and ZoneTracker
// and advances them with Tick.
//
// Usage:
//
//	def, err := engine.LoadMapDefinition("maps/apartment.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	scene, err := engine.NewSceneFromDefinition(def, engine.PathfinderConfig{})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	who, _, err := scene.SpawnActor(engine.Actor{Name: "winnie", Controlled: true, WalkingFrom: engine.Sq(0, 0)})
//	path, ok := scene.FindPartialPath(who, engine.Sq(20, 14))
//
// Paths are partial on purpose. A plan makes progress toward the target
// and the caller re-plans from where it ends, so the per-plan cost stays
// bounded even on large maps.
package engine
