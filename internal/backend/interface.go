// Package backend selects and assembles a data backend at startup. The
// memory backend serves local runs with no infrastructure; the sqlite
// backend persists rows and feeds the sync pipeline.
package backend

import (
	"context"

	"envelopes/internal/usecase"
)

// Backend bundles every gateway a caller needs from one data backend.
type Backend interface {
	usecase.EnvelopeGateway
	usecase.GoalGateway
}

// CleanupFunc releases the backend's resources.
type CleanupFunc func() error

// BackendResult carries the backend instance and its optional cleanup.
type BackendResult struct {
	Backend Backend
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds everything backend creation needs.
type Config struct {
	Type BackendType

	// SQLite specific.
	SQLiteDBPath string
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// BackendType names a supported backend.
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

func (bt BackendType) String() string { return string(bt) }

// IsValid returns true if the backend type is supported.
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
