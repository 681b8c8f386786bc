package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/gridwalk/tilegrid/game/engine"
)

// createTestMapsDir creates a temporary maps directory for testing
func createTestMapsDir(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "tilegrid-maps")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	return dir
}

// twoRoomDefinition builds a small valid map: two rooms joined by a door
func twoRoomDefinition(name string) *engine.MapDefinition {
	bounds := engine.Bounds{Left: 0, Right: 4, Bottom: 0, Top: 1}
	squares := map[string][]engine.Tile{}
	add := func(x, y int, tile engine.Tile) {
		key := engine.Sq(x, y).Key()
		squares[key] = append(squares[key], tile)
	}

	for y := 0; y <= 1; y++ {
		for x := 0; x <= 1; x++ {
			add(x, y, engine.ZoneTile("left"))
		}
		for x := 3; x <= 4; x++ {
			add(x, y, engine.ZoneTile("right"))
		}
	}
	add(2, 0, engine.WallTile)
	add(2, 1, engine.ZoneTile("door"))
	add(2, 1, engine.TrailTile)

	return &engine.MapDefinition{Name: name, Bounds: &bounds, Squares: squares}
}

// writeMapFile marshals a definition into the maps directory, picking the
// encoding by file extension the same way the manager does
func writeMapFile(t *testing.T, dir, filename string, def *engine.MapDefinition) {
	t.Helper()

	var data []byte
	var err error
	switch filepath.Ext(filename) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(def)
	default:
		data, err = json.MarshalIndent(def, "", "  ")
	}
	if err != nil {
		t.Fatalf("failed to marshal map: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, filename), data, 0644); err != nil {
		t.Fatalf("failed to write map file: %v", err)
	}
}

func TestNewManagerMissingDirectory(t *testing.T) {
	_, err := NewManager(filepath.Join(os.TempDir(), "does-not-exist-4a7f"))
	if err == nil {
		t.Fatal("expected error for missing maps directory")
	}
}

func TestLoadMapNotFound(t *testing.T) {
	dir := createTestMapsDir(t)
	mgr, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	_, err = mgr.LoadMap("nope")
	if !errors.Is(err, ErrMapNotFound) {
		t.Errorf("expected ErrMapNotFound, got %v", err)
	}
}

func TestLoadMapJSON(t *testing.T) {
	dir := createTestMapsDir(t)
	writeMapFile(t, dir, "rooms.json", twoRoomDefinition("Two Rooms"))

	mgr, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	def, err := mgr.LoadMap("rooms")
	if err != nil {
		t.Fatalf("LoadMap failed: %v", err)
	}
	if def.Name != "Two Rooms" {
		t.Errorf("expected name 'Two Rooms', got %q", def.Name)
	}
	if len(def.Squares) != 9 {
		t.Errorf("expected 9 squares, got %d", len(def.Squares))
	}
}

func TestLoadMapYAML(t *testing.T) {
	dir := createTestMapsDir(t)
	writeMapFile(t, dir, "rooms.yaml", twoRoomDefinition("Two Rooms"))

	mgr, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	def, err := mgr.LoadMap("rooms")
	if err != nil {
		t.Fatalf("LoadMap failed: %v", err)
	}
	if def.Name != "Two Rooms" {
		t.Errorf("expected name 'Two Rooms', got %q", def.Name)
	}

	m, err := def.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if !m.IsOn(engine.Sq(2, 1), engine.TrailTile) {
		t.Error("expected trail tile to survive the YAML round trip")
	}
}

func TestLoadMapByFilename(t *testing.T) {
	dir := createTestMapsDir(t)
	writeMapFile(t, dir, "rooms.json", twoRoomDefinition("Two Rooms"))

	mgr, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	if _, err := mgr.LoadMap("rooms.json"); err != nil {
		t.Errorf("LoadMap by filename failed: %v", err)
	}
}

func TestLoadMapCaches(t *testing.T) {
	dir := createTestMapsDir(t)
	writeMapFile(t, dir, "rooms.json", twoRoomDefinition("Two Rooms"))

	mgr, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	if _, err := mgr.LoadMap("rooms"); err != nil {
		t.Fatalf("LoadMap failed: %v", err)
	}

	// Corrupt the file on disk; the cached definition must keep serving
	if err := os.WriteFile(filepath.Join(dir, "rooms.json"), []byte("not json"), 0644); err != nil {
		t.Fatalf("failed to overwrite map file: %v", err)
	}

	def, err := mgr.LoadMap("rooms")
	if err != nil {
		t.Fatalf("LoadMap after overwrite failed: %v", err)
	}
	if def.Name != "Two Rooms" {
		t.Errorf("expected cached definition, got %q", def.Name)
	}
}

func TestLoadMapRejectsInvalid(t *testing.T) {
	dir := createTestMapsDir(t)

	bad := twoRoomDefinition("Bad Map")
	bad.Squares[engine.Sq(0, 0).Key()] = []engine.Tile{
		engine.ActorTile(engine.ActorHandle{Index: 0, Gen: 1}),
	}
	writeMapFile(t, dir, "bad.json", bad)

	mgr, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	_, err = mgr.LoadMap("bad")
	if !errors.Is(err, ErrInvalidMap) {
		t.Errorf("expected ErrInvalidMap, got %v", err)
	}
}

func TestListMapsSkipsInvalid(t *testing.T) {
	dir := createTestMapsDir(t)
	writeMapFile(t, dir, "rooms.json", twoRoomDefinition("Two Rooms"))
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("not json"), 0644); err != nil {
		t.Fatalf("failed to write broken map: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not a map"), 0644); err != nil {
		t.Fatalf("failed to write stray file: %v", err)
	}

	mgr, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	maps, err := mgr.ListMaps()
	if err != nil {
		t.Fatalf("ListMaps failed: %v", err)
	}
	if len(maps) != 1 {
		t.Fatalf("expected 1 map, got %d", len(maps))
	}
	if maps[0].MapID != "rooms" {
		t.Errorf("expected map ID 'rooms', got %q", maps[0].MapID)
	}
	if maps[0].Name != "Two Rooms" {
		t.Errorf("expected display name 'Two Rooms', got %q", maps[0].Name)
	}
	if maps[0].ZoneCount != 3 {
		t.Errorf("expected 3 zones, got %d", maps[0].ZoneCount)
	}
}

func TestSaveMapRoundTrip(t *testing.T) {
	dir := createTestMapsDir(t)
	mgr, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	if err := mgr.SaveMap("saved", twoRoomDefinition("Saved Map")); err != nil {
		t.Fatalf("SaveMap failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "saved.json")); err != nil {
		t.Errorf("expected saved.json on disk: %v", err)
	}

	def, err := mgr.LoadMap("saved")
	if err != nil {
		t.Fatalf("LoadMap after save failed: %v", err)
	}
	if def.Name != "Saved Map" {
		t.Errorf("expected name 'Saved Map', got %q", def.Name)
	}
}

func TestSaveMapKeepsYAMLExtension(t *testing.T) {
	dir := createTestMapsDir(t)
	mgr, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	if err := mgr.SaveMap("saved.yaml", twoRoomDefinition("Saved Map")); err != nil {
		t.Fatalf("SaveMap failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "saved.yaml")); err != nil {
		t.Errorf("expected saved.yaml on disk: %v", err)
	}
}

func TestSaveMapRejectsInvalid(t *testing.T) {
	dir := createTestMapsDir(t)
	mgr, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	bad := twoRoomDefinition("Bad Map")
	bad.Squares["oops"] = []engine.Tile{engine.WallTile}

	err = mgr.SaveMap("bad", bad)
	if !errors.Is(err, ErrInvalidMap) {
		t.Errorf("expected ErrInvalidMap, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "bad.json")); statErr == nil {
		t.Error("invalid map must not be written to disk")
	}
}

func TestDefaultMapPrefersApartment(t *testing.T) {
	dir := createTestMapsDir(t)
	writeMapFile(t, dir, "apartment.json", twoRoomDefinition("Apartment"))
	writeMapFile(t, dir, "other.json", twoRoomDefinition("Other"))

	mgr, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	if got := mgr.GetDefault().Name; got != "Apartment" {
		t.Errorf("expected default 'Apartment', got %q", got)
	}
}

func TestDefaultMapFallsBackToFirstAvailable(t *testing.T) {
	dir := createTestMapsDir(t)
	writeMapFile(t, dir, "other.json", twoRoomDefinition("Other"))

	mgr, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	if got := mgr.GetDefault().Name; got != "Other" {
		t.Errorf("expected default 'Other', got %q", got)
	}
}

func TestDefaultMapBuiltinFallback(t *testing.T) {
	dir := createTestMapsDir(t)
	mgr, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	def := mgr.GetDefault()
	if def == nil {
		t.Fatal("expected a built-in default map")
	}
	if def.Name != "default" {
		t.Errorf("expected built-in map name 'default', got %q", def.Name)
	}
	if _, err := def.Build(); err != nil {
		t.Errorf("built-in default map must build: %v", err)
	}
}

func TestSetDefault(t *testing.T) {
	dir := createTestMapsDir(t)
	writeMapFile(t, dir, "apartment.json", twoRoomDefinition("Apartment"))
	writeMapFile(t, dir, "other.json", twoRoomDefinition("Other"))

	mgr, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	if err := mgr.SetDefault("other"); err != nil {
		t.Fatalf("SetDefault failed: %v", err)
	}
	if got := mgr.GetDefault().Name; got != "Other" {
		t.Errorf("expected default 'Other', got %q", got)
	}

	if err := mgr.SetDefault("nope"); !errors.Is(err, ErrMapNotFound) {
		t.Errorf("expected ErrMapNotFound, got %v", err)
	}
}

func TestRefreshCache(t *testing.T) {
	dir := createTestMapsDir(t)
	writeMapFile(t, dir, "rooms.json", twoRoomDefinition("Two Rooms"))

	mgr, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	if _, err := mgr.LoadMap("rooms"); err != nil {
		t.Fatalf("LoadMap failed: %v", err)
	}

	writeMapFile(t, dir, "rooms.json", twoRoomDefinition("Two Rooms v2"))
	if err := mgr.RefreshCache(); err != nil {
		t.Fatalf("RefreshCache failed: %v", err)
	}

	def, err := mgr.LoadMap("rooms")
	if err != nil {
		t.Fatalf("LoadMap after refresh failed: %v", err)
	}
	if def.Name != "Two Rooms v2" {
		t.Errorf("expected refreshed definition, got %q", def.Name)
	}
}
