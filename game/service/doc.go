// Package service provides the business logic layer for the tile grid
// server.
//
// The service package implements:
//   - Multi-session scene management
//   - Actor spawning, despawning and listing
//   - Partial pathfinding and multi-tick walking
//   - Map definition discovery and loading
//
// Core Interfaces:
//
// GridService is the main service interface providing high-level scene
// operations. SessionManager handles session creation, retrieval, and
// lifecycle. MapManager manages map definition loading and validation.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP)
// and the engine, providing session isolation, map management, and
// business logic orchestration. Each session maintains its own scene
// with independent actors and tile state.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	mapMgr, _ := config.NewManager("maps")
//	gridService := service.NewGridService(sessionMgr, mapMgr)
//
//	// Create a new session
//	sessionInfo, err := gridService.CreateSession(ctx, "apartment")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Spawn an actor and walk it somewhere
//	spawn, err := gridService.SpawnActor(ctx, sessionInfo.ID, service.SpawnRequest{
//		Name:   "winnie",
//		Square: engine.Sq(0, 0),
//	})
//	result, err := gridService.Walk(ctx, sessionInfo.ID, "winnie", engine.Sq(8, 2), 0)
//
// Session Management:
//
// Sessions are identified by unique 4-character IDs and maintain
// independent scenes. Multiple sessions can run concurrently with
// different maps. Sessions track creation time and last access time.
package service
