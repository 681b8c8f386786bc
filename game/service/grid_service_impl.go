package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gridwalk/tilegrid/game/engine"
)

// defaultWalkLimit caps how many squares a single Walk call may cover.
const defaultWalkLimit = 64

// maxTicksPerCall caps how far a single Tick call may advance a scene.
const maxTicksPerCall = 100

// gridServiceImpl implements the GridService interface
type gridServiceImpl struct {
	sessions SessionManager
	maps     MapManager
	mu       sync.RWMutex
}

// NewGridService creates a new grid service instance
func NewGridService(sessions SessionManager, maps MapManager) GridService {
	return &gridServiceImpl{
		sessions: sessions,
		maps:     maps,
	}
}

// getMapID returns the map_id for a given display name, used for
// consistent API responses
func (s *gridServiceImpl) getMapID(mapName string) string {
	availableMaps, err := s.maps.ListMaps()
	if err == nil {
		for _, m := range availableMaps {
			if m.Name == mapName {
				return m.MapID
			}
		}
	}
	if mapName == "" {
		return "default"
	}
	return mapName
}

// CreateSession creates a new scene session
func (s *gridServiceImpl) CreateSession(ctx context.Context, mapName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var def *engine.MapDefinition
	var err error
	if mapName != "" {
		def, err = s.maps.LoadMap(mapName)
		if err != nil {
			if strings.Contains(err.Error(), "map not found") {
				availableMaps, listErr := s.maps.ListMaps()
				if listErr == nil && len(availableMaps) > 0 {
					var mapIDs []string
					for _, m := range availableMaps {
						mapIDs = append(mapIDs, m.MapID)
					}
					return nil, fmt.Errorf("map '%s' not found. Available maps: %v", mapName, mapIDs)
				}
				return nil, fmt.Errorf("map '%s' not found. Use /api/maps to list available maps", mapName)
			}
			return nil, fmt.Errorf("failed to load map %s: %w", mapName, err)
		}
	} else {
		def = s.maps.GetDefault()
	}

	// Let the session manager generate a proper ID
	session, err := s.sessions.Create("", def)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	mapID := mapName
	if mapID == "" {
		mapID = s.getMapID(def.Name)
	}

	return s.sessionInfo(session, mapID), nil
}

// GetSession retrieves session information
func (s *gridServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	return s.sessionInfo(session, s.getMapID(session.Definition.Name)), nil
}

// ListSessions returns all active sessions
func (s *gridServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess, s.getMapID(sess.Definition.Name)))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gridServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// SpawnActor adds an actor to a session's scene
func (s *gridServiceImpl) SpawnActor(ctx context.Context, sessionID string, req SpawnRequest) (*SpawnResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	if req.Name == "" {
		return nil, fmt.Errorf("actor name is required")
	}
	if _, _, ok := findActor(sess.Scene, req.Name); ok {
		return nil, fmt.Errorf("actor '%s' already exists in session %s", req.Name, sessionID)
	}

	h, events, err := sess.Scene.SpawnActor(engine.Actor{
		Name:        req.Name,
		Controlled:  req.Controlled,
		WalkingFrom: req.Square,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to spawn actor: %w", err)
	}

	actor, _ := sess.Scene.Actors().Get(h)
	return &SpawnResult{
		Actor:  actorInfo(actor),
		Events: zoneEvents(events),
	}, nil
}

// DespawnActor removes an actor from a session's scene
func (s *gridServiceImpl) DespawnActor(ctx context.Context, sessionID, actorName string) ([]*ZoneEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	h, _, ok := findActor(sess.Scene, actorName)
	if !ok {
		return nil, fmt.Errorf("actor '%s' not found in session %s", actorName, sessionID)
	}

	events, _ := sess.Scene.DespawnActor(h)
	return zoneEvents(events), nil
}

// ListActors returns the actors of a session's scene
func (s *gridServiceImpl) ListActors(ctx context.Context, sessionID string) ([]*ActorInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	return actorInfos(sess.Scene), nil
}

// FindPath plans a partial path for an actor without moving it
func (s *gridServiceImpl) FindPath(ctx context.Context, sessionID, actorName string, to engine.Square) (*PathResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	h, actor, ok := findActor(sess.Scene, actorName)
	if !ok {
		return nil, fmt.Errorf("actor '%s' not found in session %s", actorName, sessionID)
	}

	path, found := sess.Scene.FindPartialPath(h, to)
	if !found {
		return nil, fmt.Errorf("no path from %s toward %s", actor.CurrentSquare(), to)
	}

	complete := actor.CurrentSquare() == to
	if len(path) > 0 {
		complete = path[len(path)-1] == to
	}
	return &PathResult{Path: path, Complete: complete, Target: to}, nil
}

// Walk plans partial paths for the actor and advances the scene tick by
// tick until the actor arrives, gets stuck, or runs out of budget.
func (s *gridServiceImpl) Walk(ctx context.Context, sessionID, actorName string, to engine.Square, maxSteps int) (*WalkResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	h, actor, ok := findActor(sess.Scene, actorName)
	if !ok {
		return nil, fmt.Errorf("actor '%s' not found in session %s", actorName, sessionID)
	}

	limit := maxSteps
	if limit <= 0 || limit > defaultWalkLimit {
		limit = defaultWalkLimit
	}

	result := &WalkResult{Limit: limit}
	steps := 0

plans:
	for {
		if actor.CurrentSquare() == to {
			result.Arrived = true
			result.StopReasonCode = "arrived"
			break
		}
		if steps >= limit {
			result.Truncated = true
			result.StopReasonCode = "step_limit"
			result.StoppedReason = fmt.Sprintf("stopped after %d steps", steps)
			break
		}

		path, found := sess.Scene.FindPartialPath(h, to)
		if !found {
			result.StopReasonCode = "no_path"
			result.StoppedReason = fmt.Sprintf("no path from %s toward %s", actor.CurrentSquare(), to)
			break
		}
		if len(path) == 0 {
			result.Arrived = true
			result.StopReasonCode = "arrived"
			break
		}
		if len(path) == 1 {
			// the best reachable square is where the actor already stands
			result.StopReasonCode = "no_path"
			result.StoppedReason = fmt.Sprintf("no progress from %s toward %s", actor.CurrentSquare(), to)
			break
		}

		for i := 1; i < len(path); i++ {
			next := path[i]
			if steps >= limit {
				continue plans
			}

			// the previous tick may already have promoted the planned
			// follow-up step to the committed target
			if actor.WalkingTo == nil || actor.WalkingTo.Square != next {
				var planned *engine.Square
				if i+1 < len(path) && steps+1 < limit {
					planned = &path[i+1]
				}
				if err := sess.Scene.SetActorTarget(h, next, planned); err != nil {
					if errors.Is(err, engine.ErrTargetBlocked) {
						result.StopReasonCode = "blocked"
						result.StoppedReason = fmt.Sprintf("blocked stepping from %s to %s", actor.CurrentSquare(), next)
						break plans
					}
					// the actor drifted off the plan, e.g. it was re-targeted
					// while boxed in; plan again from where it stands
					continue plans
				}
			}

			from := actor.WalkingFrom
			events := sess.Scene.Tick()
			result.Events = append(result.Events, zoneEvents(events)...)

			steps++
			result.Trace = append(result.Trace, StepInfo{
				Idx:  steps,
				From: from,
				To:   next,
				Dir:  actor.Direction.String(),
			})
		}
	}

	result.StepsTaken = steps
	result.Actor = actorInfo(actor)
	return result, nil
}

// Tick advances a session's scene
func (s *gridServiceImpl) Tick(ctx context.Context, sessionID string, ticks int) (*TickResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	if ticks <= 0 {
		ticks = 1
	}
	if ticks > maxTicksPerCall {
		ticks = maxTicksPerCall
	}

	result := &TickResult{Ticks: ticks}
	for i := 0; i < ticks; i++ {
		result.Events = append(result.Events, zoneEvents(sess.Scene.Tick())...)
	}
	result.Actors = actorInfos(sess.Scene)
	return result, nil
}

// ListMaps returns all available map definitions
func (s *gridServiceImpl) ListMaps(ctx context.Context) ([]*MapInfo, error) {
	return s.maps.ListMaps()
}

// LoadMap loads a map definition by name
func (s *gridServiceImpl) LoadMap(ctx context.Context, mapName string) (*engine.MapDefinition, error) {
	return s.maps.LoadMap(mapName)
}

// SaveMap saves a map definition
func (s *gridServiceImpl) SaveMap(ctx context.Context, mapName string, def *engine.MapDefinition) error {
	return s.maps.SaveMap(mapName, def)
}

// GetZoneMetadata returns the zone metadata of a session's map
func (s *gridServiceImpl) GetZoneMetadata(ctx context.Context, sessionID string) (map[engine.ZoneKind]engine.ZoneMeta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	return sess.Scene.Map().ZoneMetadata(), nil
}

func (s *gridServiceImpl) sessionInfo(sess *Session, mapID string) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		MapName:        mapID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		SquareCount:    sess.Scene.Map().SquareCount(),
		ZoneCount:      len(sess.Scene.Map().ZoneMetadata()),
		Actors:         actorInfos(sess.Scene),
	}
}

// findActor looks an actor up by name
func findActor(scene *engine.Scene, name string) (engine.ActorHandle, *engine.Actor, bool) {
	var (
		handle engine.ActorHandle
		actor  *engine.Actor
		found  bool
	)
	scene.Actors().Each(func(h engine.ActorHandle, a *engine.Actor) {
		if !found && a.Name == name {
			handle, actor, found = h, a, true
		}
	})
	return handle, actor, found
}

func actorInfo(a *engine.Actor) *ActorInfo {
	info := &ActorInfo{
		Name:       a.Name,
		Controlled: a.Controlled,
		Square:     a.WalkingFrom,
		Direction:  a.Direction.String(),
	}
	if a.WalkingTo != nil {
		sq := a.WalkingTo.Square
		info.WalkingTo = &sq
	}
	return info
}

func actorInfos(scene *engine.Scene) []*ActorInfo {
	infos := []*ActorInfo{}
	scene.Actors().Each(func(_ engine.ActorHandle, a *engine.Actor) {
		infos = append(infos, actorInfo(a))
	})
	return infos
}

func zoneEvents(events []engine.ZoneEvent) []*ZoneEvent {
	if len(events) == 0 {
		return nil
	}
	out := make([]*ZoneEvent, 0, len(events))
	now := time.Now()
	for _, e := range events {
		out = append(out, &ZoneEvent{
			Type:       string(e.Kind),
			Zone:       string(e.Zone),
			Actor:      e.Name,
			Controlled: e.Controlled,
			At:         e.At,
			Timestamp:  now,
		})
	}
	return out
}
