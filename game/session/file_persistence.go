package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gridwalk/tilegrid/game/engine"
	"github.com/gridwalk/tilegrid/game/service"
)

// FilePersistence implements SessionPersistence using file system storage
type FilePersistence struct {
	sessionsDir string
	maps        service.MapManager
	pathfinding engine.PathfinderConfig
}

// NewFilePersistence creates a new file-based session persistence layer
func NewFilePersistence(sessionsDir string, maps service.MapManager) (*FilePersistence, error) {
	if err := os.MkdirAll(sessionsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create sessions directory: %w", err)
	}

	return &FilePersistence{
		sessionsDir: sessionsDir,
		maps:        maps,
	}, nil
}

// Save persists a session to a JSON file. The scene's tile map is not
// serialized; the map name and the actors are enough to rebuild it.
func (fp *FilePersistence) Save(session *service.Session) error {
	if session == nil {
		return fmt.Errorf("session cannot be nil")
	}

	mapID, err := fp.getMapIDFromName(session.Definition.Name)
	if err != nil {
		return fmt.Errorf("failed to get map ID: %w", err)
	}

	data := PersistedSessionData{
		ID:             session.ID,
		MapName:        mapID, // Store map ID, not display name
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
	}
	session.Scene.Actors().Each(func(_ engine.ActorHandle, a *engine.Actor) {
		// a committed move is persisted as already taken
		data.Actors = append(data.Actors, PersistedActor{
			Name:       a.Name,
			Controlled: a.Controlled,
			Square:     a.CurrentSquare(),
			Direction:  a.Direction,
		})
	})

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session data: %w", err)
	}

	filePath := fp.getFilePath(session.ID)
	if err := os.WriteFile(filePath, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	return nil
}

// Load retrieves a session from a JSON file, rebuilding the scene from
// its map definition and respawning the persisted actors.
func (fp *FilePersistence) Load(id string) (*service.Session, error) {
	filePath := fp.getFilePath(id)

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, ErrSessionNotFound
	}

	jsonData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var data PersistedSessionData
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session data: %w", err)
	}

	def, err := fp.maps.LoadMap(data.MapName)
	if err != nil {
		return nil, fmt.Errorf("failed to load map '%s': %w", data.MapName, err)
	}

	scene, err := engine.NewSceneFromDefinition(def, fp.pathfinding)
	if err != nil {
		return nil, fmt.Errorf("failed to build scene: %w", err)
	}

	for _, pa := range data.Actors {
		h, _, err := scene.SpawnActor(engine.Actor{
			Name:        pa.Name,
			Controlled:  pa.Controlled,
			WalkingFrom: pa.Square,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to respawn actor '%s': %w", pa.Name, err)
		}
		if actor, ok := scene.Actors().Get(h); ok {
			actor.Direction = pa.Direction
		}
	}

	session := &service.Session{
		ID:             data.ID,
		Scene:          scene,
		Definition:     def,
		CreatedAt:      data.CreatedAt,
		LastAccessedAt: data.LastAccessedAt,
	}

	return session, nil
}

// Delete removes a session file
func (fp *FilePersistence) Delete(id string) error {
	if !fp.Exists(id) {
		return ErrSessionNotFound
	}

	if err := os.Remove(fp.getFilePath(id)); err != nil {
		return fmt.Errorf("failed to remove session file: %w", err)
	}

	return nil
}

// ListAll returns all persisted session IDs
func (fp *FilePersistence) ListAll() ([]string, error) {
	entries, err := os.ReadDir(fp.sessionsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read sessions directory: %w", err)
	}

	var sessionIDs []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if strings.HasSuffix(name, ".json") {
			sessionIDs = append(sessionIDs, strings.TrimSuffix(name, ".json"))
		}
	}

	return sessionIDs, nil
}

// Exists checks if a session file exists
func (fp *FilePersistence) Exists(id string) bool {
	_, err := os.Stat(fp.getFilePath(id))
	return err == nil
}

// getFilePath returns the full file path for a session ID
func (fp *FilePersistence) getFilePath(id string) string {
	return filepath.Join(fp.sessionsDir, fmt.Sprintf("%s.json", id))
}

// getMapIDFromName returns the map ID (filename without extension) from
// display name
func (fp *FilePersistence) getMapIDFromName(displayName string) (string, error) {
	maps, err := fp.maps.ListMaps()
	if err != nil {
		return "", fmt.Errorf("failed to list maps: %w", err)
	}

	for _, m := range maps {
		if m.Name == displayName {
			return m.MapID, nil
		}
	}

	// If not found, assume the displayName is already the map ID
	return displayName, nil
}
