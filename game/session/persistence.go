package session

import (
	"time"

	"github.com/gridwalk/tilegrid/game/engine"
	"github.com/gridwalk/tilegrid/game/service"
)

// SessionPersistence defines the interface for session storage backends
type SessionPersistence interface {
	// Save persists a session
	Save(session *service.Session) error
	// Load retrieves a session by ID
	Load(id string) (*service.Session, error)
	// Delete removes a persisted session
	Delete(id string) error
	// ListAll returns all persisted session IDs
	ListAll() ([]string, error)
	// Exists checks if a session is persisted
	Exists(id string) bool
}

// PersistedSessionData is the serializable form of a session. The tile
// map itself is not stored; it is rebuilt from the named map definition
// and the actors are respawned into it.
type PersistedSessionData struct {
	ID             string           `json:"id"`
	MapName        string           `json:"map_name"`
	CreatedAt      time.Time        `json:"created_at"`
	LastAccessedAt time.Time        `json:"last_accessed_at"`
	Actors         []PersistedActor `json:"actors"`
}

// PersistedActor is the serializable form of an actor's durable state
type PersistedActor struct {
	Name       string           `json:"name"`
	Controlled bool             `json:"controlled"`
	Square     engine.Square    `json:"square"`
	Direction  engine.Direction `json:"direction"`
}
