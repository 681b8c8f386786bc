// Package session manages scene session lifecycle and persistence.
//
// The session package provides:
//   - Session creation with unique 4-character IDs
//   - Case-insensitive session lookup
//   - Optional file-based persistence of sessions
//   - Expired session cleanup
//
// Core Types:
//
// Manager handles the in-memory session registry and delegates durable
// storage to a SessionPersistence implementation. FilePersistence stores
// each session as a JSON file under a sessions directory.
//
// Persistence:
//
// Only durable state is written to disk: the session metadata, the map
// ID, and each actor's name, control flag, square and facing direction.
// The tile map is rebuilt from the map definition on load and the actors
// are respawned into it, which also restores their claimed tiles.
//
// Usage:
//
//	persistence, _ := session.NewFilePersistence("sessions", mapMgr)
//	mgr := session.NewManagerWithPersistence(persistence)
//	mgr.LoadPersistedSessions()
//
//	sess, err := mgr.Create("", mapMgr.GetDefault())
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println("created session", sess.ID)
package session
