package service

import (
	"context"
	"time"

	"github.com/gridwalk/tilegrid/game/engine"
)

// GridService defines all scene-related operations
type GridService interface {
	// Session Management
	CreateSession(ctx context.Context, mapName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Actors
	SpawnActor(ctx context.Context, sessionID string, req SpawnRequest) (*SpawnResult, error)
	DespawnActor(ctx context.Context, sessionID, actorName string) ([]*ZoneEvent, error)
	ListActors(ctx context.Context, sessionID string) ([]*ActorInfo, error)

	// Pathfinding and movement
	FindPath(ctx context.Context, sessionID, actorName string, to engine.Square) (*PathResult, error)
	Walk(ctx context.Context, sessionID, actorName string, to engine.Square, maxSteps int) (*WalkResult, error)
	Tick(ctx context.Context, sessionID string, ticks int) (*TickResult, error)

	// Maps
	ListMaps(ctx context.Context) ([]*MapInfo, error)
	LoadMap(ctx context.Context, mapName string) (*engine.MapDefinition, error)
	SaveMap(ctx context.Context, mapName string, def *engine.MapDefinition) error
	GetZoneMetadata(ctx context.Context, sessionID string) (map[engine.ZoneKind]engine.ZoneMeta, error)
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, def *engine.MapDefinition) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id string, def *engine.MapDefinition) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
}

// MapManager handles map definition loading
type MapManager interface {
	LoadMap(name string) (*engine.MapDefinition, error)
	ListMaps() ([]*MapInfo, error)
	GetDefault() *engine.MapDefinition
	SaveMap(name string, def *engine.MapDefinition) error
}

// Session represents an active scene session
type Session struct {
	ID             string
	Scene          *engine.Scene
	Definition     *engine.MapDefinition
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
