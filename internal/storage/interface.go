package storage

import (
	"context"

	"github.com/kurihiro0119/ops-task-report/internal/domain"
)

// Storage is the abstract interface for the run archive. The archive is
// history only: collection never reads from it.
type Storage interface {
	// Run operations
	SaveRun(ctx context.Context, run *domain.Run) error
	GetRun(ctx context.Context, id string) (*domain.Run, error)
	ListRuns(ctx context.Context, limit int) ([]*domain.Run, error)

	// Record operations
	SaveRecords(ctx context.Context, runID string, records []*domain.ArchivedRecord) error
	GetRecords(ctx context.Context, runID string) ([]*domain.ArchivedRecord, error)

	// Migration
	Migrate(ctx context.Context) error

	// Connection management
	Close() error
}

// DefaultListLimit is used when ListRuns is called with a non-positive limit
const DefaultListLimit = 20
