// Package api provides HTTP REST API handlers for the tile grid server.
//
// The api package implements:
//   - RESTful endpoints for scene operations
//   - Session management endpoints
//   - Actor spawning, despawning and listing
//   - Pathfinding and walking endpoints
//   - Map listing, loading and saving
//   - WebSocket upgrade handling
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create new session
//   - GET /api/sessions - List all sessions
//   - GET /api/sessions/{id} - Get specific session
//   - DELETE /api/sessions/{id} - Delete session
//   - GET /api/sessions/{id}/zones - Zone metadata of the session's map
//
// Actors:
//   - GET /api/sessions/{id}/actors - List actors
//   - POST /api/sessions/{id}/actors - Spawn actor
//   - DELETE /api/sessions/{id}/actors/{name} - Despawn actor
//
// Pathfinding and Movement:
//   - POST /api/sessions/{id}/actors/{name}/path - Plan a partial path
//   - POST /api/sessions/{id}/actors/{name}/walk - Walk toward a square
//   - POST /api/sessions/{id}/tick - Advance the scene
//
// Maps:
//   - GET /api/maps - List available maps
//   - GET /api/maps/{name} - Get a map definition
//   - POST /api/maps - Save a map definition
//
// Request/Response Format:
//
// All endpoints accept and return JSON. Target squares are sent as
// {"x": 3, "y": -4} objects:
//
//	POST /api/sessions/ab12/actors/porter/walk
//	{
//	  "to": {"x": 8, "y": 2},
//	  "max_steps": 32
//	}
//
// After every mutating operation the server broadcasts a scene update to
// WebSocket clients connected to the same session.
//
// Error Handling:
//
// Errors are returned as JSON with appropriate HTTP status codes:
//
//	{
//	  "error": "error message"
//	}
package api
