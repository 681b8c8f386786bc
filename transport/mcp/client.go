package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/gridwalk/tilegrid/game/engine"
	"github.com/gridwalk/tilegrid/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Tile Grid Server",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Tile Grid Server - MCP Interface

This is a thin client that proxies all requests to the REST API server.

Each session holds an independent scene built from a map definition:
a layered tile grid with walls, trails, named zones and actors.
Controlled actors walk toward targets you set; autonomous actors wander
on their own every tick.

AVAILABLE TOOLS:
- create_session: Create a new scene session
- get_session: Get session details
- list_sessions: List all active sessions
- scene_state: Render the scene grid with actors and zones
- spawn_actor: Place a new actor on a square
- despawn_actor: Remove an actor
- list_actors: List actors in a session
- find_path: Plan a partial path without moving the actor
- walk: Walk an actor toward a target square
- tick: Advance the scene
- zone_info: Zone metadata (sizes, groups, successors)
- describe_square: Inspect one square (walkable? cost? zones?)
- list_maps: List available map definitions
- grid_instructions: Get comprehensive usage instructions

NOTE: The 'intent' parameter on the walk tool serves as rubber duck
debugging - explain your reasoning!`),
	)

	// Register all tools
	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new scene session with optional map selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"map_id": map[string]interface{}{
					"type":        "string",
					"description": "Identifier of the map to load (optional, defaults to the server's default map)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active scene sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID to retrieve",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Scene operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "scene_state",
		Description: "Render the session's scene as a character grid with a legend for walls, trails, zones and actors",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleSceneState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "spawn_actor",
		Description: "Place a new actor on a square. Controlled actors only move when walked; autonomous actors wander every tick.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Unique actor name within the session",
				},
				"x": map[string]interface{}{
					"type":        "integer",
					"description": "X coordinate of the spawn square",
				},
				"y": map[string]interface{}{
					"type":        "integer",
					"description": "Y coordinate of the spawn square",
				},
				"controlled": map[string]interface{}{
					"type":        "boolean",
					"description": "Spawn as a controlled actor (default false)",
				},
			},
			Required: []string{"session_id", "name", "x", "y"},
		},
	}, c.handleSpawnActor)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "despawn_actor",
		Description: "Remove an actor from the scene",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Name of the actor to remove",
				},
			},
			Required: []string{"session_id", "name"},
		},
	}, c.handleDespawnActor)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_actors",
		Description: "List all actors in a session with their squares and facing directions",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleListActors)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "find_path",
		Description: "Plan a partial path for an actor toward a target square without moving it. Paths may be incomplete; walk re-plans as it goes.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"actor": map[string]interface{}{
					"type":        "string",
					"description": "Actor name",
				},
				"x": map[string]interface{}{
					"type":        "integer",
					"description": "X coordinate of the target square",
				},
				"y": map[string]interface{}{
					"type":        "integer",
					"description": "Y coordinate of the target square",
				},
			},
			Required: []string{"session_id", "actor", "x", "y"},
		},
	}, c.handleFindPath)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "walk",
		Description: "Walk an actor toward a target square, re-planning around obstacles, until it arrives or the step limit is reached",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"actor": map[string]interface{}{
					"type":        "string",
					"description": "Actor name",
				},
				"x": map[string]interface{}{
					"type":        "integer",
					"description": "X coordinate of the target square",
				},
				"y": map[string]interface{}{
					"type":        "integer",
					"description": "Y coordinate of the target square",
				},
				"max_steps": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum steps before stopping (optional)",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this walk (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"session_id", "actor", "x", "y"},
		},
	}, c.handleWalk)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "tick",
		Description: "Advance the scene. Autonomous actors wander; controlled actors take one step toward their targets per tick.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"ticks": map[string]interface{}{
					"type":        "integer",
					"description": "Number of ticks to advance (default 1, capped by the server)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleTick)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "zone_info",
		Description: "Get zone metadata for the session's map: sizes, connectivity groups and successor zones",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleZoneInfo)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_square",
		Description: "Get detailed information about one square: its tiles, zones, walkability and walk cost. Useful for checking whether a square is blocked before planning a route.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"x": map[string]interface{}{
					"type":        "integer",
					"description": "X coordinate of the square to describe",
				},
				"y": map[string]interface{}{
					"type":        "integer",
					"description": "Y coordinate of the square to describe",
				},
			},
			Required: []string{"session_id", "x", "y"},
		},
	}, c.handleDescribeSquare)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_maps",
		Description: "List available map definitions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListMaps)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "grid_instructions",
		Description: "Get comprehensive instructions for working with scenes, actors, zones and pathfinding",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGridInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// fetchScene loads the session's map definition, builds the tile map and
// lists the session's actors. Several tools need all three.
func (c *Client) fetchScene(sessionID string) (*service.SessionInfo, *engine.TileMap, []*service.ActorInfo, error) {
	var session service.SessionInfo
	if err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s", sessionID), nil, &session); err != nil {
		return nil, nil, nil, err
	}

	var def engine.MapDefinition
	if err := c.apiCall("GET", fmt.Sprintf("/api/maps/%s", session.MapName), nil, &def); err != nil {
		return nil, nil, nil, err
	}

	tm, err := def.Build()
	if err != nil {
		return nil, nil, nil, err
	}

	var actorsResp struct {
		Actors []*service.ActorInfo `json:"actors"`
	}
	if err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/actors", sessionID), nil, &actorsResp); err != nil {
		return nil, nil, nil, err
	}

	return &session, tm, actorsResp.Actors, nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	mapID, _ := args["map_id"].(string)

	body := map[string]string{}
	if mapID != "" {
		body["map_id"] = mapID
	}

	var session service.SessionInfo
	err := c.apiCall("POST", "/api/sessions", body, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nMap: %s\nSquares: %d, Zones: %d\n",
		session.ID, session.MapName, session.SquareCount, session.ZoneCount)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                    `json:"count"`
		Sessions []*service.SessionInfo `json:"sessions"`
	}

	err := c.apiCall("GET", "/api/sessions", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		result += fmt.Sprintf("- %s (Map: %s, Actors: %d, Created: %s)\n",
			s.ID, s.MapName, len(s.Actors), s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var session service.SessionInfo
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s", sessionID), nil, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatSessionInfo(&session)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleSceneState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	session, tm, actors, err := c.fetchScene(sessionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Session: %s | Map: %s | Actors: %d\n\n",
		session.ID, session.MapName, len(actors)))
	b.WriteString(renderScene(tm, actors))
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleSpawnActor(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	name, _ := args["name"].(string)
	x, _ := args["x"].(float64)
	y, _ := args["y"].(float64)
	controlled, _ := args["controlled"].(bool)

	body := map[string]interface{}{
		"name":       name,
		"controlled": controlled,
		"square":     map[string]int{"x": int(x), "y": int(y)},
	}

	var result service.SpawnResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/actors", sessionID), body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := fmt.Sprintf("Spawned %s at %s (controlled=%t, facing %s)\n",
		result.Actor.Name, result.Actor.Square, result.Actor.Controlled, result.Actor.Direction)
	response += formatZoneEvents(result.Events)
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleDespawnActor(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	name, _ := args["name"].(string)

	var response struct {
		Message string               `json:"message"`
		Events  []*service.ZoneEvent `json:"events"`
	}

	err := c.apiCall("DELETE", fmt.Sprintf("/api/sessions/%s/actors/%s", sessionID, name), nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := response.Message + "\n" + formatZoneEvents(response.Events)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListActors(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var response struct {
		Actors []*service.ActorInfo `json:"actors"`
	}

	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/actors", sessionID), nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Actors (%d):\n\n", len(response.Actors))
	for _, a := range response.Actors {
		result += formatActorLine(a)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleFindPath(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	actor, _ := args["actor"].(string)
	x, _ := args["x"].(float64)
	y, _ := args["y"].(float64)

	body := map[string]interface{}{
		"to": map[string]int{"x": int(x), "y": int(y)},
	}

	var result service.PathResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/actors/%s/path", sessionID, actor), body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := formatPathResult(&result)
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleWalk(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	actor, _ := args["actor"].(string)
	x, _ := args["x"].(float64)
	y, _ := args["y"].(float64)
	intent, _ := args["intent"].(string)

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_ = intent

	body := map[string]interface{}{
		"to": map[string]int{"x": int(x), "y": int(y)},
	}
	if maxSteps, ok := args["max_steps"].(float64); ok {
		body["max_steps"] = int(maxSteps)
	}

	var result service.WalkResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/actors/%s/walk", sessionID, actor), body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := formatWalkResult(&result)
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleTick(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	body := map[string]interface{}{}
	if ticks, ok := args["ticks"].(float64); ok {
		body["ticks"] = int(ticks)
	}

	var result service.TickResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/tick", sessionID), body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := fmt.Sprintf("Advanced %d tick(s)\n\n", result.Ticks)
	response += formatZoneEvents(result.Events)
	response += fmt.Sprintf("\nActors (%d):\n", len(result.Actors))
	for _, a := range result.Actors {
		response += formatActorLine(a)
	}
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleZoneInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var response struct {
		Zones map[engine.ZoneKind]engine.ZoneMeta `json:"zones"`
	}

	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/zones", sessionID), nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatZoneMetadata(response.Zones)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleDescribeSquare(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	x := int(args["x"].(float64))
	y := int(args["y"].(float64))

	_, tm, actors, err := c.fetchScene(sessionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	sq := engine.Sq(x, y)
	if !tm.Contains(sq) {
		bounds := tm.Bounds()
		return mcp.NewToolResultError(fmt.Sprintf(
			"Square %s is outside the map bounds (x: %d..%d, y: %d..%d)",
			sq, bounds.Left, bounds.Right, bounds.Bottom, bounds.Top)), nil
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Square %s:\n", sq))

	tiles := tm.Get(sq)
	if len(tiles) == 0 {
		b.WriteString("- no tiles (open floor)\n")
	}
	for layer, tile := range tiles {
		switch tile.Kind {
		case engine.TileEmpty:
			b.WriteString(fmt.Sprintf("- layer %d: empty\n", layer))
		case engine.TileWall:
			b.WriteString(fmt.Sprintf("- layer %d: wall (IMPASSABLE)\n", layer))
		case engine.TileTrail:
			b.WriteString(fmt.Sprintf("- layer %d: trail (preferred by pathfinding)\n", layer))
		case engine.TileZone:
			b.WriteString(fmt.Sprintf("- layer %d: zone %q\n", layer, tile.Zone))
		case engine.TileActor:
			b.WriteString(fmt.Sprintf("- layer %d: actor tile\n", layer))
		}
	}

	// The built map carries no actors; check the live roster separately.
	var occupant *service.ActorInfo
	for _, a := range actors {
		if a.Square == sq {
			occupant = a
			break
		}
	}
	if occupant != nil {
		b.WriteString(fmt.Sprintf("Occupied by: %s (controlled=%t)\n", occupant.Name, occupant.Controlled))
		b.WriteString("Walkable: no (another actor would have to wait or route around)\n")
	} else if cost, ok := tm.WalkCost(sq, engine.NoActor); ok {
		b.WriteString(fmt.Sprintf("Walkable: yes (cost %d)\n", cost))
	} else {
		b.WriteString("Walkable: no\n")
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleListMaps(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var maps []*service.MapInfo
	err := c.apiCall("GET", "/api/maps", nil, &maps)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Available Maps:\n\n"
	for _, m := range maps {
		result += fmt.Sprintf("• %s (%s)\n  Squares: %d, Zones: %d\n\n",
			m.MapID, m.Name, m.SquareCount, m.ZoneCount)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGridInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `Tile Grid Server - Complete Instructions

OVERVIEW:
Each session holds an independent scene built from a map definition.
A scene is a layered tile grid: every square stacks tiles such as
walls, trails, named zones and actor markers. Actors occupy exactly
one square each and move one orthogonal or diagonal step per tick.

SQUARES AND COORDINATES:
- Squares are addressed as (x, y); coordinates may be negative
- The map has inclusive bounds; squares outside them do not exist
- Diagonal steps are allowed but cost slightly more than straight ones

TILE TYPES:
- wall: impassable, blocks all movement
- trail: walkable and PREFERRED by pathfinding (cost 1 vs 3)
- zone: a semantic tag such as "kitchen" or "door"; walkable
- actor: the personal space of an actor; other actors cannot enter
- empty squares inside the bounds are ordinary walkable floor

ACTORS:
- Controlled actors move only when you walk them toward a target
- Autonomous actors wander on their own every tick
- Actor names are unique within a session
- Two actors never share a square; a busy square blocks the step

ZONES AND HIERARCHICAL PATHFINDING:
- Zones are named regions; metadata records their size, connectivity
  group and successor zones (see zone_info)
- Two zones share a group iff some chain of overlapping or adjacent
  zones connects them; different groups are mutually unreachable
- The pathfinder routes zone-to-zone first, then square-to-square,
  so long routes stay cheap even on large maps
- find_path returns PARTIAL paths: if the target is far or currently
  blocked the path ends early and the walker re-plans from there

WALKING:
- walk repeatedly plans and executes steps until the actor arrives,
  no progress is possible, or the step limit is reached
- stop_reason_code is one of: arrived, no_path, blocked, step_limit
- Walking emits zone_entered / zone_left events as boundaries are
  crossed; leaving is always reported before entering

EFFECTIVE USAGE:
1. list_maps, then create_session with the map you want
2. scene_state to see the grid; describe_square to verify a square
   before trusting your reading of the render
3. spawn_actor with controlled=true for actors you steer
4. walk with a generous max_steps; inspect the trace and stop reason
5. tick to let autonomous actors move between your commands
6. zone_info when a walk reports no_path: targets in a different
   connectivity group are unreachable by construction

COMMON PITFALLS:
- Spawning onto a wall or an occupied square fails; pick open floor
- A "no_path" result does not always mean unreachable: another actor
  may be standing in the only doorway; tick and retry
- Maps address by id (filename stem), not display name`

	return mcp.NewToolResultText(instructions), nil
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Session: %s\nMap: %s\nCreated: %s\nSquares: %d, Zones: %d\n",
		session.ID, session.MapName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		session.SquareCount, session.ZoneCount))
	b.WriteString(fmt.Sprintf("\nActors (%d):\n", len(session.Actors)))
	for _, a := range session.Actors {
		b.WriteString(formatActorLine(a))
	}
	return b.String()
}

func formatActorLine(a *service.ActorInfo) string {
	kind := "autonomous"
	if a.Controlled {
		kind = "controlled"
	}
	line := fmt.Sprintf("- %s at %s facing %s (%s)", a.Name, a.Square, a.Direction, kind)
	if a.WalkingTo != nil {
		line += fmt.Sprintf(", walking to %s", *a.WalkingTo)
	}
	return line + "\n"
}

func formatZoneEvents(events []*service.ZoneEvent) string {
	if len(events) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Zone events:\n")
	for _, e := range events {
		at := ""
		if e.At != nil {
			at = fmt.Sprintf(" at %s", *e.At)
		}
		b.WriteString(fmt.Sprintf("- %s: %s %q%s\n", e.Actor, e.Type, e.Zone, at))
	}
	return b.String()
}

func formatPathResult(result *service.PathResult) string {
	var b strings.Builder
	if result.Complete {
		b.WriteString(fmt.Sprintf("Complete path to %s (%d squares):\n", result.Target, len(result.Path)))
	} else {
		b.WriteString(fmt.Sprintf("Partial path toward %s (%d squares, re-plan from the end):\n",
			result.Target, len(result.Path)))
	}
	for i, sq := range result.Path {
		b.WriteString(fmt.Sprintf("%d. %s\n", i+1, sq))
	}
	return b.String()
}

func formatWalkResult(result *service.WalkResult) string {
	var b strings.Builder
	if result.Arrived {
		b.WriteString("✓ Arrived\n")
	} else {
		b.WriteString("✗ Did not arrive\n")
	}

	b.WriteString(fmt.Sprintf("Steps: %d", result.StepsTaken))
	if result.Limit > 0 {
		b.WriteString(fmt.Sprintf("/%d", result.Limit))
	}
	b.WriteString(fmt.Sprintf(" | Stop: %s", result.StopReasonCode))
	if result.StoppedReason != "" {
		b.WriteString(fmt.Sprintf(" (%s)", result.StoppedReason))
	}
	b.WriteString("\n")

	if result.Actor != nil {
		b.WriteString(fmt.Sprintf("Now at %s facing %s\n", result.Actor.Square, result.Actor.Direction))
	}

	if len(result.Trace) > 0 {
		b.WriteString("\nSteps taken:\n")
		for _, s := range result.Trace {
			b.WriteString(fmt.Sprintf("%d. %s %s→%s\n", s.Idx+1, s.Dir, s.From, s.To))
		}
	}

	if ev := formatZoneEvents(result.Events); ev != "" {
		b.WriteString("\n")
		b.WriteString(ev)
	}
	return b.String()
}

func formatZoneMetadata(zones map[engine.ZoneKind]engine.ZoneMeta) string {
	names := make([]string, 0, len(zones))
	for z := range zones {
		names = append(names, string(z))
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Zones (%d):\n\n", len(zones)))
	for _, name := range names {
		meta := zones[engine.ZoneKind(name)]
		succ := make([]string, len(meta.Successors))
		for i, s := range meta.Successors {
			succ[i] = string(s)
		}
		b.WriteString(fmt.Sprintf("• %s\n  Group: %d, Size: %d squares\n  Successors: %s\n\n",
			name, meta.Group, meta.Size, strings.Join(succ, ", ")))
	}
	return b.String()
}

// renderScene draws the tile map as one character per square with a
// legend. Zone squares get a lowercase letter per zone name; actors
// overlay everything with an uppercase letter from their name.
func renderScene(tm *engine.TileMap, actors []*service.ActorInfo) string {
	bounds := renderWindow(tm, actors)

	zoneNames := make([]string, 0)
	for z := range tm.ZoneMetadata() {
		zoneNames = append(zoneNames, string(z))
	}
	sort.Strings(zoneNames)
	zoneChar := make(map[engine.ZoneKind]byte, len(zoneNames))
	for i, name := range zoneNames {
		if i < 26 {
			zoneChar[engine.ZoneKind(name)] = byte('a' + i)
		} else {
			zoneChar[engine.ZoneKind(name)] = '?'
		}
	}

	actorAt := make(map[engine.Square]*service.ActorInfo, len(actors))
	for _, a := range actors {
		actorAt[a.Square] = a
	}

	var b strings.Builder
	for y := bounds.Top; y >= bounds.Bottom; y-- {
		for x := bounds.Left; x <= bounds.Right; x++ {
			sq := engine.Sq(x, y)
			if a, ok := actorAt[sq]; ok {
				b.WriteByte(actorChar(a.Name))
				continue
			}
			b.WriteByte(squareChar(tm, sq, zoneChar))
		}
		b.WriteString("\n")
	}

	b.WriteString("\nLegend: # wall, = trail, . floor")
	for _, name := range zoneNames {
		b.WriteString(fmt.Sprintf(", %c %s", zoneChar[engine.ZoneKind(name)], name))
	}
	b.WriteString("\n")
	if len(actors) > 0 {
		b.WriteString("Actors:")
		for _, a := range actors {
			b.WriteString(fmt.Sprintf(" %c=%s", actorChar(a.Name), a.Name))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// renderWindow shrinks the drawn area to the squares that actually hold
// tiles or actors. Maps without explicit bounds span thousands of empty
// squares that would drown the render.
func renderWindow(tm *engine.TileMap, actors []*service.ActorInfo) engine.Bounds {
	first := true
	var w engine.Bounds
	extend := func(sq engine.Square) {
		if first {
			w = engine.Bounds{Left: sq.X, Right: sq.X, Bottom: sq.Y, Top: sq.Y}
			first = false
			return
		}
		if sq.X < w.Left {
			w.Left = sq.X
		}
		if sq.X > w.Right {
			w.Right = sq.X
		}
		if sq.Y < w.Bottom {
			w.Bottom = sq.Y
		}
		if sq.Y > w.Top {
			w.Top = sq.Y
		}
	}
	tm.EachSquare(func(sq engine.Square, _ []engine.Tile) {
		extend(sq)
	})
	for _, a := range actors {
		extend(a.Square)
	}
	if first {
		return engine.Bounds{}
	}
	return w
}

// squareChar picks the display character for a square without an actor
// on it. Walls dominate, then zones, then trails.
func squareChar(tm *engine.TileMap, sq engine.Square, zoneChar map[engine.ZoneKind]byte) byte {
	var zone engine.ZoneKind
	hasZone := false
	hasTrail := false
	hasWall := false
	for _, t := range tm.Get(sq) {
		switch t.Kind {
		case engine.TileWall:
			hasWall = true
		case engine.TileTrail:
			hasTrail = true
		case engine.TileZone:
			if !hasZone {
				zone = t.Zone
				hasZone = true
			}
		}
	}
	switch {
	case hasWall:
		return '#'
	case hasZone:
		return zoneChar[zone]
	case hasTrail:
		return '='
	default:
		return '.'
	}
}

func actorChar(name string) byte {
	if name == "" {
		return '@'
	}
	ch := name[0]
	if ch >= 'a' && ch <= 'z' {
		return ch - 'a' + 'A'
	}
	if ch >= 'A' && ch <= 'Z' {
		return ch
	}
	return '@'
}
