package aggregator

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kurihiro0119/ops-task-report/internal/domain"
	apperrors "github.com/kurihiro0119/ops-task-report/internal/errors"
	"github.com/kurihiro0119/ops-task-report/internal/network"
	"github.com/kurihiro0119/ops-task-report/internal/storage/sqlite"
)

func TestSummarize(t *testing.T) {
	records := []domain.EnrichedRecord{
		{Network: "polygon", TaskName: "a"},
		{Network: "polygon", TaskName: domain.FallbackTaskName},
		{Network: "arbitrum", TaskName: "b"},
		{Network: "testnet", TaskName: "c"},
	}

	got := Summarize(records, nil)
	require.Len(t, got, 7)
	assert.Equal(t, domain.NetworkSummary{Network: "mainnet", ChainID: "1"}, got[0])
	assert.Equal(t, domain.NetworkSummary{Network: "polygon", ChainID: "137", Tasks: 2, Unnamed: 1}, got[1])
	assert.Equal(t, domain.NetworkSummary{Network: "arbitrum", ChainID: "42161", Tasks: 1}, got[5])
	assert.Equal(t, domain.NetworkSummary{Network: "testnet", Tasks: 1}, got[6])
}

func TestSummarize_CustomRegistry(t *testing.T) {
	reg := network.NewRegistry(domain.NetworkConfig{ID: "x", ChainID: "9"})
	got := Summarize(nil, reg)
	assert.Equal(t, []domain.NetworkSummary{{Network: "x", ChainID: "9"}}, got)
}

func TestAggregator_ArchivedRun(t *testing.T) {
	store, err := sqlite.NewSQLiteStorage(filepath.Join(t.TempDir(), "ops.db"))
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.SaveRun(ctx, &domain.Run{ID: "r1", StartedAt: time.Now(), Status: domain.RunStatusCompleted, RecordCount: 1}))
	require.NoError(t, store.SaveRecords(ctx, "r1", []*domain.ArchivedRecord{
		{Position: 0, TaskID: "0xabc", ChainID: "56", EnrichedRecord: domain.EnrichedRecord{Network: "bsc", TaskName: "Harvest"}},
	}))

	agg := NewAggregator(store, nil)

	records, err := agg.GetRecords(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, []domain.EnrichedRecord{{Network: "bsc", TaskName: "Harvest"}}, records)

	summary, err := agg.GetRunSummary(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, 1, summary[3].Tasks)

	_, err = agg.GetRecords(ctx, "missing")
	assert.True(t, apperrors.IsNotFound(err))

	runs, err := agg.ListRuns(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
