package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kurihiro0119/ops-task-report/internal/domain"
	apperrors "github.com/kurihiro0119/ops-task-report/internal/errors"
	"github.com/kurihiro0119/ops-task-report/internal/logger"
)

func newTestCollector() *SubgraphCollector {
	return NewSubgraphCollector(WithLogger(logger.Nop()))
}

func writeTasks(t *testing.T, w http.ResponseWriter, tasks []domain.RawTask) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(map[string]any{
		"data": map[string]any{"tasks": tasks},
	}))
}

func TestQueryTasks_RequestShape(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req graphQLRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotQuery = req.Query

		writeTasks(t, w, []domain.RawTask{
			{ID: "0x01", CreatedAt: "1700000001"},
			{ID: "0x02", CreatedAt: "1700000002"},
		})
	}))
	defer srv.Close()

	tasks, err := newTestCollector().QueryTasks(context.Background(), srv.URL, "0xdead", 1700000000)
	require.NoError(t, err)

	assert.Equal(t, []domain.RawTask{
		{ID: "0x01", CreatedAt: "1700000001"},
		{ID: "0x02", CreatedAt: "1700000002"},
	}, tasks)

	assert.Contains(t, gotQuery, "first: 1000")
	assert.Contains(t, gotQuery, "orderBy: createdAt")
	assert.Contains(t, gotQuery, "orderDirection: asc")
	assert.Contains(t, gotQuery, `createdAt_gt: "1700000000"`)
	assert.Contains(t, gotQuery, `execAddress_not: "0xdead"`)
}

func TestFetchNewTasks_AcceptsFullPage(t *testing.T) {
	page := make([]domain.RawTask, MaxTasksPerQuery)
	for i := range page {
		page[i] = domain.RawTask{ID: fmt.Sprintf("0x%04x", i), CreatedAt: fmt.Sprint(1700000000 + i)}
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeTasks(t, w, page)
	}))
	defer srv.Close()

	tasks := newTestCollector().FetchNewTasks(context.Background(), srv.URL, "0xdead", 0)
	require.Len(t, tasks, MaxTasksPerQuery)
	assert.Equal(t, page, tasks)
}

func TestFetchNewTasks_FailuresYieldEmpty(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
		},
		{
			name: "invalid json",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("{not json"))
			},
		},
		{
			name: "graphql errors",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"errors":[{"message":"indexing failed"}]}`))
			},
		},
		{
			name: "partial data with graphql errors",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"data":{"tasks":[{"id":"0x1","createdAt":"1700000000"}]},"errors":[{"message":"store error"}]}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c := newTestCollector()
			tasks := c.FetchNewTasks(context.Background(), srv.URL, "0xdead", 0)
			assert.NotNil(t, tasks)
			assert.Empty(t, tasks)

			_, err := c.QueryTasks(context.Background(), srv.URL, "0xdead", 0)
			assert.Equal(t, apperrors.ErrCodeBadResponse, apperrors.CodeOf(err))
		})
	}
}

func TestFetchNewTasks_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := newTestCollector()
	assert.Empty(t, c.FetchNewTasks(context.Background(), url, "0xdead", 0))

	_, err := c.QueryTasks(context.Background(), url, "0xdead", 0)
	assert.Equal(t, apperrors.ErrCodeUnavailable, apperrors.CodeOf(err))
}

func TestFetchNewTasks_EmptyEndpoint(t *testing.T) {
	c := newTestCollector()
	assert.Empty(t, c.FetchNewTasks(context.Background(), "", "", 0))

	_, err := c.QueryTasks(context.Background(), "", "", 0)
	assert.True(t, apperrors.IsBadRequest(err))
}

func TestFetchNewTasks_NoTasksField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":{}}`))
	}))
	defer srv.Close()

	tasks, err := newTestCollector().QueryTasks(context.Background(), srv.URL, "0xdead", 0)
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
}

func TestBuildTasksQuery(t *testing.T) {
	q := BuildTasksQuery("0xabc", 42)
	assert.True(t, strings.HasPrefix(q, "{"))
	assert.Contains(t, q, `createdAt_gt: "42"`)
	assert.Contains(t, q, `execAddress_not: "0xabc"`)
	assert.Contains(t, q, "id\n    createdAt")
}
