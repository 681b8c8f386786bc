package service

import (
	"time"

	"github.com/gridwalk/tilegrid/game/engine"
)

// SessionInfo provides information about a scene session
type SessionInfo struct {
	ID             string       `json:"id"`
	MapName        string       `json:"map_name"`
	CreatedAt      time.Time    `json:"created_at"`
	LastAccessedAt time.Time    `json:"last_accessed_at"`
	SquareCount    int          `json:"square_count"`
	ZoneCount      int          `json:"zone_count"`
	Actors         []*ActorInfo `json:"actors"`
}

// ActorInfo is the wire representation of an actor
type ActorInfo struct {
	Name       string         `json:"name"`
	Controlled bool           `json:"controlled"`
	Square     engine.Square  `json:"square"`
	Direction  string         `json:"direction"`
	WalkingTo  *engine.Square `json:"walking_to,omitempty"`
}

// SpawnRequest describes an actor to add to a scene
type SpawnRequest struct {
	Name       string        `json:"name"`
	Controlled bool          `json:"controlled"`
	Square     engine.Square `json:"square"`
}

// SpawnResult contains the spawned actor and the zone events its
// placement produced
type SpawnResult struct {
	Actor  *ActorInfo   `json:"actor"`
	Events []*ZoneEvent `json:"events,omitempty"`
}

// PathResult contains a planned partial path
type PathResult struct {
	Path []engine.Square `json:"path"`
	// Complete is true when the path reaches the target; false means the
	// caller should re-plan from the end of the path
	Complete bool          `json:"complete"`
	Target   engine.Square `json:"target"`
}

// WalkResult contains the outcome of walking an actor toward a target
// across several ticks
type WalkResult struct {
	Actor          *ActorInfo   `json:"actor"`
	StepsTaken     int          `json:"steps_taken"`
	Arrived        bool         `json:"arrived"`
	Truncated      bool         `json:"truncated,omitempty"`
	Limit          int          `json:"limit,omitempty"`
	Events         []*ZoneEvent `json:"events,omitempty"`
	Trace          []StepInfo   `json:"trace,omitempty"`
	StoppedReason  string       `json:"stopped_reason,omitempty"`
	StopReasonCode string       `json:"stop_reason_code,omitempty"` // arrived|no_path|blocked|step_limit
}

// StepInfo is a compact record of one executed step
type StepInfo struct {
	Idx  int           `json:"idx"`
	From engine.Square `json:"from"`
	To   engine.Square `json:"to"`
	Dir  string        `json:"dir"`
}

// TickResult contains the outcome of advancing a scene
type TickResult struct {
	Ticks  int          `json:"ticks"`
	Events []*ZoneEvent `json:"events,omitempty"`
	Actors []*ActorInfo `json:"actors"`
}

// ZoneEvent reports an actor crossing a zone boundary
type ZoneEvent struct {
	Type       string         `json:"type"` // "zone_entered" or "zone_left"
	Zone       string         `json:"zone"`
	Actor      string         `json:"actor"`
	Controlled bool           `json:"controlled"`
	At         *engine.Square `json:"at,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
}

// MapInfo provides information about an available map definition
type MapInfo struct {
	Filename    string `json:"filename"`
	MapID       string `json:"map_id"` // The identifier to use for session creation
	Name        string `json:"name"`   // Display name
	SquareCount int    `json:"square_count"`
	ZoneCount   int    `json:"zone_count"`
}
