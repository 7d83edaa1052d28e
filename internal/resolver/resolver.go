// Package resolver maps task ids to human-readable names held in the
// task-names document store.
package resolver

import (
	"context"
	"errors"

	"github.com/kurihiro0119/ops-task-report/internal/config"
	"github.com/kurihiro0119/ops-task-report/internal/domain"
	"github.com/kurihiro0119/ops-task-report/internal/logger"
)

// NameStore fetches the task-id to name mapping document of one chain
type NameStore interface {
	GetNames(ctx context.Context, chainID string) (map[string]string, error)
}

// NameResolver resolves a task's display name
type NameResolver interface {
	// ResolveTaskName returns the display name of taskID on chainID, or
	// domain.FallbackTaskName when it cannot be resolved.
	ResolveTaskName(ctx context.Context, taskID, chainID string) (string, error)
}

// resolver implements NameResolver over a NameStore. Every call fetches the
// chain's document again.
type resolver struct {
	store NameStore
	log   *logger.Logger
}

// New creates a name resolver
func New(store NameStore, log *logger.Logger) NameResolver {
	if log == nil {
		log = logger.Named("resolver")
	}
	return &resolver{store: store, log: log}
}

// ResolveTaskName implements NameResolver. Only configuration errors are
// returned; every other failure resolves to the fallback name.
func (r *resolver) ResolveTaskName(ctx context.Context, taskID, chainID string) (string, error) {
	names, err := r.store.GetNames(ctx, chainID)
	if err != nil {
		var cfgErr *config.ConfigError
		if errors.As(err, &cfgErr) {
			return "", err
		}
		r.log.Warn().Err(err).Str("task_id", taskID).Str("chain_id", chainID).Msg("failed to get task name")
		return domain.FallbackTaskName, nil
	}

	name, ok := names[taskID]
	if !ok {
		r.log.Debug().Str("task_id", taskID).Str("chain_id", chainID).Msg("task has no name entry")
		return domain.FallbackTaskName, nil
	}
	return name, nil
}
