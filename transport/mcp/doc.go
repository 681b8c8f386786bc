// Package mcp provides a Model Context Protocol interface to the tile
// grid server.
//
// The mcp package implements:
//   - MCP server for AI agent integration
//   - Tool definitions for scene and actor operations
//   - Text rendering of scenes, paths and zone metadata
//
// The client is a thin proxy: every tool call is translated into a REST
// API request against a running server, so MCP agents and HTTP clients
// always observe the same state.
//
// MCP Tools:
//
// The package exposes the following tools for AI agents:
//   - create_session: Create a new scene session from a map
//   - get_session: Get specific session details
//   - list_sessions: List all active sessions
//   - scene_state: Render the scene grid with actors and zones
//   - spawn_actor: Place an actor on a square
//   - despawn_actor: Remove an actor
//   - list_actors: List actors with squares and directions
//   - find_path: Plan a partial path without moving
//   - walk: Walk an actor toward a target square
//   - tick: Advance the scene
//   - zone_info: Zone sizes, groups and successors
//   - describe_square: Inspect one square's tiles and walkability
//   - list_maps: List available map definitions
//   - grid_instructions: Comprehensive usage instructions
//
// Transport Modes:
//
// The underlying MCP server supports stdio for local clients and can be
// mounted over HTTP for remote integration.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
//
// AI Integration:
//
// The MCP interface enables AI agents to:
//   - Steer controlled actors through multi-room maps
//   - Reason about zone connectivity before committing to routes
//   - Observe zone boundary events as actors move
//   - Manage multiple concurrent sessions
package mcp
