package client

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kurihiro0119/ops-task-report/internal/aggregator"
	"github.com/kurihiro0119/ops-task-report/internal/api"
	"github.com/kurihiro0119/ops-task-report/internal/domain"
	"github.com/kurihiro0119/ops-task-report/internal/storage/sqlite"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := sqlite.NewSQLiteStorage(filepath.Join(t.TempDir(), "ops.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	require.NoError(t, store.SaveRun(ctx, &domain.Run{ID: "run-1", StartedAt: time.Now(), RecordCount: 1, Status: domain.RunStatusCompleted}))
	require.NoError(t, store.SaveRecords(ctx, "run-1", []*domain.ArchivedRecord{
		{Position: 0, TaskID: "0xabc", ChainID: "250", EnrichedRecord: domain.EnrichedRecord{Network: "fantom", TaskName: "Compound"}},
	}))

	srv := httptest.NewServer(api.SetupRoutes(api.NewHandler(aggregator.NewAggregator(store, nil), nil)))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient(t *testing.T) {
	c := NewClient(newTestServer(t).URL)
	ctx := context.Background()

	require.NoError(t, c.HealthCheck(ctx))

	networks, err := c.ListNetworks(ctx)
	require.NoError(t, err)
	assert.Len(t, networks, 6)

	runs, err := c.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, domain.RunStatusCompleted, runs[0].Status)

	run, err := c.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, 1, run.RecordCount)

	records, err := c.GetRecords(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, []domain.EnrichedRecord{{Network: "fantom", TaskName: "Compound"}}, records)

	summary, err := c.GetRunSummary(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, 1, summary[2].Tasks)
}

func TestClient_NotFound(t *testing.T) {
	c := NewClient(newTestServer(t).URL)

	_, err := c.GetRecords(context.Background(), "nope")
	assert.ErrorContains(t, err, "404")
}
