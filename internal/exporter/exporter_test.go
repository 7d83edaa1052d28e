package exporter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/kurihiro0119/ops-task-report/internal/domain"
	"github.com/kurihiro0119/ops-task-report/internal/logger"
)

var fixedNow = time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)

func newTestExporter(dir string) *Exporter {
	return New(dir, WithClock(func() time.Time { return fixedNow }), WithLogger(logger.Nop()))
}

func sampleRecords() []domain.EnrichedRecord {
	return []domain.EnrichedRecord{
		{Network: "mainnet", CreatedAtCEST: "14/11/2023, 23:13:20", TaskName: "DailyRebase", OpsURL: "https://app.gelato.network/task/0xabc?chainId=1"},
		{Network: "bsc", CreatedAtCEST: "14/11/2023, 23:20:00", TaskName: domain.FallbackTaskName, OpsURL: "https://app.gelato.network/task/0xdef?chainId=56"},
	}
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "Ops-17_10_2026.xlsx", FileName(fixedNow))
}

func TestExport_Rows(t *testing.T) {
	dir := t.TempDir()
	path, err := newTestExporter(dir).Export(sampleRecords())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Ops-17_10_2026.xlsx"), path)

	rows, err := ReadRows(path)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"network", "createdAtCEST", "taskName", "opsUrl"},
		{"mainnet", "14/11/2023, 23:13:20", "DailyRebase", "https://app.gelato.network/task/0xabc?chainId=1"},
		{"bsc", "14/11/2023, 23:20:00", domain.FallbackTaskName, "https://app.gelato.network/task/0xdef?chainId=56"},
	}, rows)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{SheetName}, f.GetSheetList())
}

func TestExport_EmptyIsValidSheet(t *testing.T) {
	path, err := newTestExporter(t.TempDir()).Export(nil)
	require.NoError(t, err)

	rows, err := ReadRows(path)
	require.NoError(t, err)
	assert.Equal(t, [][]string{domain.Columns()}, rows)
}

func TestExport_SameDayOverwritesWithIdenticalRows(t *testing.T) {
	dir := t.TempDir()
	e := newTestExporter(dir)

	first, err := e.Export(sampleRecords())
	require.NoError(t, err)
	rowsFirst, err := ReadRows(first)
	require.NoError(t, err)

	second, err := e.Export(sampleRecords())
	require.NoError(t, err)
	rowsSecond, err := ReadRows(second)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, rowsFirst, rowsSecond)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestExport_CreatesOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports", "daily")
	path, err := newTestExporter(dir).Export(sampleRecords())
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestExport_WriteFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	_, err := newTestExporter(blocker).Export(sampleRecords())
	assert.Error(t, err)
}
