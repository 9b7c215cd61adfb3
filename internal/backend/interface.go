package backend

import "billtracker/internal/store"

// CleanupFunc releases backend resources on shutdown.
type CleanupFunc func() error

// Result contains the wired stores and an optional cleanup function.
type Result struct {
	Stores  store.Stores
	Cleanup CleanupFunc
}

// Type selects the persistence backend.
type Type string

const (
	JSONBackend   Type = "json"
	SQLiteBackend Type = "sqlite"
	MemoryBackend Type = "memory"
)

func (t Type) String() string { return string(t) }

// IsValid reports whether t names a known backend.
func (t Type) IsValid() bool {
	switch t {
	case JSONBackend, SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// Config holds what each backend needs to open.
type Config struct {
	Type Type

	// JSON document store
	DataDir string

	// SQLite
	SQLiteDBPath string
}
