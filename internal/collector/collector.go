package collector

import (
	"context"

	"github.com/kurihiro0119/ops-task-report/internal/domain"
)

// MaxTasksPerQuery caps a single subgraph query. There is no pagination:
// qualifying tasks beyond the cap are not returned.
const MaxTasksPerQuery = 1000

// TaskFetcher retrieves newly created tasks from a network's subgraph
type TaskFetcher interface {
	// FetchNewTasks returns tasks created strictly after createdAfter (unix
	// seconds) by any executor other than exclusionAddress, oldest first.
	// Failures are logged and reported as an empty result.
	FetchNewTasks(ctx context.Context, endpoint, exclusionAddress string, createdAfter int64) []domain.RawTask
}
