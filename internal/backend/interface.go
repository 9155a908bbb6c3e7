package backend

import (
	"context"
	"time"

	"paire/internal/feed"
)

// Backend is the unified data surface the HTTP layer runs on. Every
// concrete backend exposes the full set of feed ports.
type Backend interface {
	feed.TransactionLister
	feed.TransactionWriter
	feed.TransactionDeleter
	feed.BudgetReader
	feed.CategoryReader
}

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the backend instance and optional cleanup function
type BackendResult struct {
	Backend Backend
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
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Remote API specific
	APIBaseURL  string
	APIToken    string
	APITimeout  time.Duration
	APIPageSize int

	// Memory backend specific
	Categories []string
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	RemoteBackend BackendType = "remote"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, RemoteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
