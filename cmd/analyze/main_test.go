package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gridwalk/tilegrid/game/engine"
)

func writeTestMap(t *testing.T, name string, def *engine.MapDefinition) string {
	t.Helper()

	dir, err := os.MkdirTemp("", "analyze")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	data, err := json.MarshalIndent(def, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal definition: %v", err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write map: %v", err)
	}
	return path
}

func corridorDefinition() *engine.MapDefinition {
	return &engine.MapDefinition{
		Name:   "Corridor",
		Bounds: &engine.Bounds{Left: 0, Right: 4, Bottom: 0, Top: 0},
		Squares: map[string][]engine.Tile{
			"0,0": {engine.ZoneTile("west")},
			"1,0": {engine.ZoneTile("west")},
			"2,0": {engine.ZoneTile("door")},
			"3,0": {engine.ZoneTile("east")},
			"4,0": {engine.ZoneTile("east")},
		},
	}
}

func TestAnalyzeMap(t *testing.T) {
	path := writeTestMap(t, "corridor.json", corridorDefinition())

	report, err := analyzeMap(path)
	if err != nil {
		t.Fatalf("analyzeMap failed: %v", err)
	}

	for _, want := range []string{
		"Name: Corridor",
		"Zones: 3 in 1 group(s)",
		"door: size=1 group=0 successors=[east, west]",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("Expected %q in report, got:\n%s", want, report)
		}
	}
}

func TestAnalyzeMap_DisconnectedGroups(t *testing.T) {
	def := corridorDefinition()
	def.Squares["2,0"] = []engine.Tile{engine.WallTile}

	report, err := analyzeMap(writeTestMap(t, "sealed.json", def))
	if err != nil {
		t.Fatalf("analyzeMap failed: %v", err)
	}

	if !strings.Contains(report, "2 group(s)") {
		t.Errorf("Expected two groups in report, got:\n%s", report)
	}

	if !strings.Contains(report, "mutually unreachable") {
		t.Errorf("Expected unreachability note, got:\n%s", report)
	}
}

func TestAnalyzeMap_InvalidFile(t *testing.T) {
	if _, err := analyzeMap("/nonexistent/map.json"); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestWriteMetadata(t *testing.T) {
	path := writeTestMap(t, "corridor.json", corridorDefinition())

	changed, err := writeMetadata(path)
	if err != nil {
		t.Fatalf("writeMetadata failed: %v", err)
	}
	if !changed {
		t.Fatal("Expected first write to report a change")
	}

	// The file now carries metadata the engine accepts as-is
	def, err := engine.LoadMapDefinition(path)
	if err != nil {
		t.Fatalf("Failed to reload map: %v", err)
	}
	if len(def.Zones) != 3 {
		t.Errorf("Expected 3 zones in stored metadata, got %d", len(def.Zones))
	}
	if def.Zones["door"].Size != 1 {
		t.Errorf("Expected door size 1, got %d", def.Zones["door"].Size)
	}
	if len(def.Zones["door"].Successors) != 2 {
		t.Errorf("Expected 2 door successors, got %v", def.Zones["door"].Successors)
	}

	// A second run finds nothing to do
	changed, err = writeMetadata(path)
	if err != nil {
		t.Fatalf("writeMetadata failed on fresh file: %v", err)
	}
	if changed {
		t.Error("Expected second write to be a no-op")
	}
}

func TestWriteMetadata_ReplacesStale(t *testing.T) {
	def := corridorDefinition()
	def.Zones = map[engine.ZoneKind]engine.ZoneMeta{
		"west": {Group: 4, Size: 99},
	}
	path := writeTestMap(t, "stale.json", def)

	changed, err := writeMetadata(path)
	if err != nil {
		t.Fatalf("writeMetadata failed: %v", err)
	}
	if !changed {
		t.Fatal("Expected stale metadata to be replaced")
	}

	reloaded, err := engine.LoadMapDefinition(path)
	if err != nil {
		t.Fatalf("Failed to reload map: %v", err)
	}
	if reloaded.Zones["west"].Size != 2 {
		t.Errorf("Expected west size 2 after rewrite, got %d", reloaded.Zones["west"].Size)
	}
}

func TestMetadataEqual(t *testing.T) {
	a := map[engine.ZoneKind]engine.ZoneMeta{
		"west": {Group: 0, Size: 2, Successors: []engine.ZoneKind{"door"}},
	}
	b := map[engine.ZoneKind]engine.ZoneMeta{
		"west": {Group: 0, Size: 2, Successors: []engine.ZoneKind{"door"}},
	}

	if !metadataEqual(a, b) {
		t.Error("Expected identical metadata to compare equal")
	}

	b["west"] = engine.ZoneMeta{Group: 0, Size: 3, Successors: []engine.ZoneKind{"door"}}
	if metadataEqual(a, b) {
		t.Error("Expected size change to compare unequal")
	}

	if metadataEqual(a, map[engine.ZoneKind]engine.ZoneMeta{}) {
		t.Error("Expected different lengths to compare unequal")
	}
}
