// Command validate provides a small CLI that validates map definition
// files (JSON or YAML) in a maps directory. It checks:
//   - File structure: parseable definition that builds into a tile map
//   - Bounds sanity and square keys
//   - Presence of at least one walkable square
//   - Zone relation consistency: every co-resident zone pair is classified
//     by exactly one relation (containment or overlap)
//   - Stored zone metadata, when present, matches a fresh analysis
//   - Walkable connectivity, reported as the number of isolated regions
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"github.com/gridwalk/tilegrid/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

// validateMap loads and validates a single map definition file. It
// performs structural checks, zone relation validation and metadata
// freshness checks.
func validateMap(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	def, err := engine.LoadMapDefinition(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to load: %v", err))
		return result
	}

	if def.Name == "" {
		result.Valid = false
		result.Errors = append(result.Errors, "Map has no name")
	}

	if def.Bounds != nil {
		b := def.Bounds
		if b.Left > b.Right || b.Bottom > b.Top {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf(
				"Degenerate bounds: x %d..%d, y %d..%d", b.Left, b.Right, b.Bottom, b.Top))
			return result
		}
	}

	tm, err := def.Build()
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to build: %v", err))
		return result
	}

	walls, trails, walkable := 0, 0, 0
	tm.EachSquare(func(sq engine.Square, tiles []engine.Tile) {
		for _, t := range tiles {
			switch t.Kind {
			case engine.TileWall:
				walls++
			case engine.TileTrail:
				trails++
			}
		}
		if tm.IsWalkable(sq, engine.NoActor) {
			walkable++
		}
	})

	// Squares without tiles are open floor and always walkable, so only a
	// map whose bounds are fully tiled can end up with nowhere to stand.
	hasOpenFloor := def.Bounds == nil || boundsArea(*def.Bounds) > tm.SquareCount()
	if !hasOpenFloor && walkable == 0 {
		result.Valid = false
		result.Errors = append(result.Errors, "No walkable squares")
	}

	graph := engine.ComputeZoneGraph(tm)
	fresh := graph.ZoneMetadata()

	if errs := checkRelationConsistency(tm, graph); len(errs) > 0 {
		result.Valid = false
		result.Errors = append(result.Errors, errs...)
	}

	if def.Zones != nil {
		if errs := checkStoredMetadata(def.Zones, fresh); len(errs) > 0 {
			result.Valid = false
			result.Errors = append(result.Errors, errs...)
		}
	}

	// Add informational data
	if result.Valid {
		groups := map[engine.ZoneGroup]bool{}
		for _, meta := range fresh {
			groups[meta.Group] = true
		}

		result.Errors = append(result.Errors, fmt.Sprintf("✓ Name: %s", def.Name))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Squares: %d (%d walls, %d trail tiles)", tm.SquareCount(), walls, trails))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Zones: %d in %d group(s)", len(fresh), len(groups)))
		if def.Zones != nil {
			result.Errors = append(result.Errors, "✓ Stored zone metadata is fresh")
		} else {
			result.Errors = append(result.Errors, "✓ Zone metadata computed on load (none stored)")
		}
		if regions := walkableRegions(tm); regions > 1 {
			result.Errors = append(result.Errors, fmt.Sprintf("✓ Walkable area splits into %d isolated regions", regions))
		}
	}

	return result
}

func boundsArea(b engine.Bounds) int {
	return (b.Right - b.Left + 1) * (b.Top - b.Bottom + 1)
}

// checkRelationConsistency verifies that every pair of zones sharing a
// square is classified by exactly one relation: containment one way, the
// other way, or overlap. A pair claimed by none or by several means the
// analysis phases disagree about the map.
func checkRelationConsistency(tm *engine.TileMap, graph *engine.ZoneGraph) []string {
	overlapping := map[string]bool{}
	for pair := range graph.Overlaps {
		overlapping[pairKey(pair[0], pair[1])] = true
	}
	neighboring := map[string]bool{}
	for pair := range graph.Neighbors {
		neighboring[pairKey(pair[0], pair[1])] = true
	}

	coResident := map[string][2]engine.ZoneKind{}
	tm.EachSquare(func(sq engine.Square, tiles []engine.Tile) {
		var zones []engine.ZoneKind
		for _, t := range tiles {
			if t.Kind == engine.TileZone {
				zones = append(zones, t.Zone)
			}
		}
		for i := 0; i < len(zones); i++ {
			for j := i + 1; j < len(zones); j++ {
				if zones[i] == zones[j] {
					continue
				}
				coResident[pairKey(zones[i], zones[j])] = [2]engine.ZoneKind{zones[i], zones[j]}
			}
		}
	})

	var errs []string
	keys := make([]string, 0, len(coResident))
	for key := range coResident {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		pair := coResident[key]
		a, b := pair[0], pair[1]

		relations := 0
		var kinds []string
		if graph.SupersetsOf[a][b] {
			relations++
			kinds = append(kinds, fmt.Sprintf("%s inside %s", a, b))
		}
		if graph.SupersetsOf[b][a] {
			relations++
			kinds = append(kinds, fmt.Sprintf("%s inside %s", b, a))
		}
		if overlapping[key] {
			relations++
			kinds = append(kinds, "overlap")
		}
		if neighboring[key] {
			relations++
			kinds = append(kinds, "neighbor")
		}

		switch {
		case relations == 0:
			errs = append(errs, fmt.Sprintf("Zones %q and %q share a square but no relation classifies them", a, b))
		case relations > 1:
			errs = append(errs, fmt.Sprintf("Zones %q and %q are classified by %d relations (%s), expected exactly one",
				a, b, relations, strings.Join(kinds, ", ")))
		}
	}

	return errs
}

func pairKey(a, b engine.ZoneKind) string {
	if b < a {
		a, b = b, a
	}
	return string(a) + "\x00" + string(b)
}

// checkStoredMetadata compares the metadata shipped in the file against a
// fresh analysis of the same tiles. Maps are edited by hand; stale
// metadata silently breaks inter-zone routing.
func checkStoredMetadata(stored, fresh map[engine.ZoneKind]engine.ZoneMeta) []string {
	var errs []string

	for zone := range stored {
		if _, ok := fresh[zone]; !ok {
			errs = append(errs, fmt.Sprintf("Stored metadata lists zone %q which has no tiles", zone))
		}
	}

	zones := make([]engine.ZoneKind, 0, len(fresh))
	for zone := range fresh {
		zones = append(zones, zone)
	}
	sort.Slice(zones, func(i, j int) bool { return zones[i] < zones[j] })

	for _, zone := range zones {
		want := fresh[zone]
		got, ok := stored[zone]
		if !ok {
			errs = append(errs, fmt.Sprintf("Zone %q is on the map but missing from stored metadata", zone))
			continue
		}
		if got.Size != want.Size {
			errs = append(errs, fmt.Sprintf("Zone %q: stored size %d, actual %d", zone, got.Size, want.Size))
		}
		if got.Group != want.Group {
			errs = append(errs, fmt.Sprintf("Zone %q: stored group %d, actual %d", zone, got.Group, want.Group))
		}
		if !reflect.DeepEqual(got.Successors, want.Successors) && !(len(got.Successors) == 0 && len(want.Successors) == 0) {
			errs = append(errs, fmt.Sprintf("Zone %q: stored successors %v, actual %v", zone, got.Successors, want.Successors))
		}
	}

	return errs
}

// walkableRegions counts the connected components of the walkable squares
// that hold tiles, using 8-directional adjacency like the pathfinder.
func walkableRegions(tm *engine.TileMap) int {
	walkables := map[engine.Square]bool{}
	tm.EachSquare(func(sq engine.Square, tiles []engine.Tile) {
		if tm.IsWalkable(sq, engine.NoActor) {
			walkables[sq] = true
		}
	})

	visited := map[engine.Square]bool{}
	regions := 0
	for start := range walkables {
		if visited[start] {
			continue
		}
		regions++
		queue := []engine.Square{start}
		visited[start] = true
		for len(queue) > 0 {
			sq := queue[0]
			queue = queue[1:]
			for _, n := range sq.NeighborsAll() {
				if walkables[n] && !visited[n] {
					visited[n] = true
					queue = append(queue, n)
				}
			}
		}
	}
	return regions
}

// main scans a maps directory for definition files and validates each
// one, printing a concise report and exiting with non-zero status if any
// are invalid.
func main() {
	mapsDir := "maps"
	if len(os.Args) > 1 {
		mapsDir = os.Args[1]
	}

	var files []string
	for _, pattern := range []string{"*.json", "*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(mapsDir, pattern))
		if err != nil {
			fmt.Printf("Error finding map files: %v\n", err)
			os.Exit(1)
		}
		files = append(files, matches...)
	}
	sort.Strings(files)

	if len(files) == 0 {
		fmt.Printf("No map files found in %s\n", mapsDir)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateMap(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All maps are valid!")
	} else {
		fmt.Println("❌ Some maps have errors")
		os.Exit(1)
	}
}
