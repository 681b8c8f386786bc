// Package config manages map definition discovery, loading and caching.
//
// The config package provides:
//   - Map definition loading from JSON and YAML files
//   - In-memory caching of parsed definitions
//   - Default map selection with a built-in fallback
//   - Map validation before caching or saving
//
// Map files live in a single maps directory and are addressed by their
// filename without extension (the map ID). A map named "apartment" is
// preferred as the default; failing that the first valid map in the
// directory is used, and failing that a minimal built-in two-room map.
//
// Usage:
//
//	mgr, err := config.NewManager("maps")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	def, err := mgr.LoadMap("apartment")
//	if errors.Is(err, config.ErrMapNotFound) {
//		// handle missing map
//	}
package config
