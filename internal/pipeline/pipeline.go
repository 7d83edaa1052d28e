// Package pipeline runs one collection pass: query every network for new
// tasks, name them, and export the rows.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kurihiro0119/ops-task-report/internal/aggregator"
	"github.com/kurihiro0119/ops-task-report/internal/collector"
	"github.com/kurihiro0119/ops-task-report/internal/domain"
	"github.com/kurihiro0119/ops-task-report/internal/logger"
	"github.com/kurihiro0119/ops-task-report/internal/network"
	"github.com/kurihiro0119/ops-task-report/internal/resolver"
	"github.com/kurihiro0119/ops-task-report/internal/storage"
	"github.com/kurihiro0119/ops-task-report/internal/timefmt"
)

// LookbackWindow is how far back a run collects newly created tasks
const LookbackWindow = 24 * time.Hour

// Exporter persists a run's records and returns where they were written
type Exporter interface {
	Export(records []domain.EnrichedRecord) (string, error)
}

// Result is the outcome of a completed run
type Result struct {
	Run        domain.Run
	Records    []domain.EnrichedRecord
	Summary    []domain.NetworkSummary
	OutputPath string
}

// Pipeline wires the collection steps together
type Pipeline struct {
	registry *network.Registry
	tasks    collector.TaskFetcher
	names    resolver.NameResolver
	exporter Exporter
	archive  storage.Storage
	now      func() time.Time
	log      *logger.Logger
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithRegistry replaces the default network registry
func WithRegistry(r *network.Registry) Option {
	return func(p *Pipeline) { p.registry = r }
}

// WithArchive records each run in s. Archive failures never fail a run.
func WithArchive(s storage.Storage) Option {
	return func(p *Pipeline) { p.archive = s }
}

// WithClock overrides the clock used for the lookback window
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// WithLogger sets the logger
func WithLogger(l *logger.Logger) Option {
	return func(p *Pipeline) { p.log = l }
}

// New creates a pipeline
func New(tasks collector.TaskFetcher, names resolver.NameResolver, exporter Exporter, opts ...Option) *Pipeline {
	p := &Pipeline{
		registry: network.Default(),
		tasks:    tasks,
		names:    names,
		exporter: exporter,
		now:      time.Now,
		log:      logger.Named("pipeline"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run collects tasks created within the lookback window on every network
// and exports them once at the end.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	started := p.now()
	run := domain.Run{
		ID:           uuid.NewString(),
		StartedAt:    started,
		CreatedAfter: started.Add(-LookbackWindow).Unix(),
		Status:       domain.RunStatusInProgress,
	}
	p.saveRun(ctx, &run)

	collected, err := p.Collect(ctx, run.CreatedAfter)
	if err != nil {
		p.failRun(ctx, &run)
		return nil, err
	}

	records := make([]domain.EnrichedRecord, len(collected))
	for i, c := range collected {
		records[i] = c.EnrichedRecord
	}

	path, err := p.exporter.Export(records)
	if err != nil {
		p.failRun(ctx, &run)
		return nil, fmt.Errorf("failed to export records: %w", err)
	}

	run.FinishedAt = p.now()
	run.RecordCount = len(records)
	run.OutputPath = path
	run.Status = domain.RunStatusCompleted
	p.saveRun(ctx, &run)
	p.saveRecords(ctx, run.ID, collected)

	p.log.Log().Str("run_id", run.ID).Str("path", path).Int("records", len(records)).Msg("DONE")

	return &Result{
		Run:        run,
		Records:    records,
		Summary:    aggregator.Summarize(records, p.registry),
		OutputPath: path,
	}, nil
}

// Collect queries every network in registry order and returns one record
// per task, preserving the order tasks were returned in. Query and name
// lookup failures are absorbed; only configuration errors are returned.
func (p *Pipeline) Collect(ctx context.Context, createdAfter int64) ([]domain.ArchivedRecord, error) {
	var out []domain.ArchivedRecord

	for _, id := range p.registry.Networks() {
		endpoint := p.registry.EndpointFor(id)
		exclusion := p.registry.ExclusionAddressFor(id)
		chainID := p.registry.ChainIDFor(id)

		tasks := p.tasks.FetchNewTasks(ctx, endpoint, exclusion, createdAfter)
		// progress lines carry no level so LOG_LEVEL cannot hide them
		p.log.Log().Str("network", id).Int("tasks", len(tasks)).Msgf("New Tasks on %s: %d", id, len(tasks))

		for _, task := range tasks {
			name, err := p.names.ResolveTaskName(ctx, task.ID, chainID)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve task names: %w", err)
			}

			out = append(out, domain.ArchivedRecord{
				Position: len(out),
				TaskID:   task.ID,
				ChainID:  chainID,
				EnrichedRecord: domain.EnrichedRecord{
					Network:       id,
					CreatedAtCEST: timefmt.Epoch(task.CreatedAt),
					TaskName:      name,
					OpsURL:        p.registry.DetailURLFor(id, task.ID),
				},
			})
		}
	}

	return out, nil
}

func (p *Pipeline) failRun(ctx context.Context, run *domain.Run) {
	run.FinishedAt = p.now()
	run.Status = domain.RunStatusFailed
	p.saveRun(ctx, run)
}

func (p *Pipeline) saveRun(ctx context.Context, run *domain.Run) {
	if p.archive == nil {
		return
	}
	if err := p.archive.SaveRun(ctx, run); err != nil {
		p.log.Warn().Err(err).Str("run_id", run.ID).Msg("failed to archive run")
	}
}

func (p *Pipeline) saveRecords(ctx context.Context, runID string, collected []domain.ArchivedRecord) {
	if p.archive == nil {
		return
	}
	records := make([]*domain.ArchivedRecord, len(collected))
	for i := range collected {
		collected[i].RunID = runID
		records[i] = &collected[i]
	}
	if err := p.archive.SaveRecords(ctx, runID, records); err != nil {
		p.log.Warn().Err(err).Str("run_id", runID).Msg("failed to archive records")
	}
}
