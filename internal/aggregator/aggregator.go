package aggregator

import (
	"context"

	"github.com/kurihiro0119/ops-task-report/internal/domain"
	"github.com/kurihiro0119/ops-task-report/internal/network"
	"github.com/kurihiro0119/ops-task-report/internal/storage"
)

// Aggregator defines read access to archived runs
type Aggregator interface {
	// ListRuns retrieves the most recent runs, newest first
	ListRuns(ctx context.Context, limit int) ([]*domain.Run, error)

	// GetRun retrieves a single run
	GetRun(ctx context.Context, runID string) (*domain.Run, error)

	// GetRecords retrieves a run's records in collection order
	GetRecords(ctx context.Context, runID string) ([]domain.EnrichedRecord, error)

	// GetRunSummary aggregates a run's records per network
	GetRunSummary(ctx context.Context, runID string) ([]domain.NetworkSummary, error)
}

// aggregator implements the Aggregator interface
type aggregator struct {
	storage  storage.Storage
	registry *network.Registry
}

// NewAggregator creates a new aggregator
func NewAggregator(storage storage.Storage, registry *network.Registry) Aggregator {
	if registry == nil {
		registry = network.Default()
	}
	return &aggregator{
		storage:  storage,
		registry: registry,
	}
}

// ListRuns retrieves the most recent runs
func (a *aggregator) ListRuns(ctx context.Context, limit int) ([]*domain.Run, error) {
	return a.storage.ListRuns(ctx, limit)
}

// GetRun retrieves a single run
func (a *aggregator) GetRun(ctx context.Context, runID string) (*domain.Run, error) {
	return a.storage.GetRun(ctx, runID)
}

// GetRecords retrieves a run's records
func (a *aggregator) GetRecords(ctx context.Context, runID string) ([]domain.EnrichedRecord, error) {
	if _, err := a.storage.GetRun(ctx, runID); err != nil {
		return nil, err
	}

	archived, err := a.storage.GetRecords(ctx, runID)
	if err != nil {
		return nil, err
	}

	records := make([]domain.EnrichedRecord, 0, len(archived))
	for _, r := range archived {
		records = append(records, r.EnrichedRecord)
	}
	return records, nil
}

// GetRunSummary aggregates a run's records per network
func (a *aggregator) GetRunSummary(ctx context.Context, runID string) ([]domain.NetworkSummary, error) {
	records, err := a.GetRecords(ctx, runID)
	if err != nil {
		return nil, err
	}
	return Summarize(records, a.registry), nil
}

// Summarize counts records per network. Every registry network gets a row,
// in registry order; records for networks outside the registry are appended
// in first-seen order.
func Summarize(records []domain.EnrichedRecord, registry *network.Registry) []domain.NetworkSummary {
	if registry == nil {
		registry = network.Default()
	}

	index := make(map[string]int)
	var out []domain.NetworkSummary
	for _, cfg := range registry.Configs() {
		index[cfg.ID] = len(out)
		out = append(out, domain.NetworkSummary{Network: cfg.ID, ChainID: cfg.ChainID})
	}

	for _, r := range records {
		i, ok := index[r.Network]
		if !ok {
			i = len(out)
			index[r.Network] = i
			out = append(out, domain.NetworkSummary{Network: r.Network})
		}
		out[i].Tasks++
		if r.TaskName == domain.FallbackTaskName {
			out[i].Unnamed++
		}
	}
	return out
}
