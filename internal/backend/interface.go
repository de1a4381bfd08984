package backend

import (
	"context"

	"budgetbuddy/internal/events"
	"budgetbuddy/internal/storage"
)

// CleanupFunc releases whatever the backend opened
type CleanupFunc func() error

// BackendResult contains the blob store, the event bus wired to any
// configured forwarders, and a cleanup function
type BackendResult struct {
	Store   storage.Store
	Bus     *events.Bus
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// SQLite specific
	SQLiteDBPath string

	// Optional event forwarding
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
