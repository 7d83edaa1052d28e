package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/kurihiro0119/ops-task-report/internal/domain"
	apperrors "github.com/kurihiro0119/ops-task-report/internal/errors"
	"github.com/kurihiro0119/ops-task-report/internal/logger"
)

const tasksQuery = `{
  tasks(
    first: %d,
    orderBy: createdAt,
    orderDirection: asc,
    where: {
      createdAt_gt: "%d",
      execAddress_not: "%s"
    }
  ) {
    id
    createdAt
  }
}`

type graphQLRequest struct {
	Query string `json:"query"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type tasksResponse struct {
	Data struct {
		Tasks []domain.RawTask `json:"tasks"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

// SubgraphCollector implements TaskFetcher against a GraphQL subgraph
type SubgraphCollector struct {
	httpClient *http.Client
	throttle   Throttle
	log        *logger.Logger
}

// Option configures a subgraph collector
type Option func(*SubgraphCollector)

// WithHTTPClient overrides the HTTP client (default has no timeout)
func WithHTTPClient(c *http.Client) Option {
	return func(s *SubgraphCollector) { s.httpClient = c }
}

// WithThrottle sets the request throttle
func WithThrottle(t Throttle) Option {
	return func(s *SubgraphCollector) { s.throttle = t }
}

// WithLogger sets the logger used for query failures
func WithLogger(l *logger.Logger) Option {
	return func(s *SubgraphCollector) { s.log = l }
}

// NewSubgraphCollector creates a new subgraph task collector
func NewSubgraphCollector(opts ...Option) *SubgraphCollector {
	s := &SubgraphCollector{
		httpClient: &http.Client{},
		throttle:   NewThrottle(0),
		log:        logger.Named("collector"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchNewTasks implements TaskFetcher
func (s *SubgraphCollector) FetchNewTasks(ctx context.Context, endpoint, exclusionAddress string, createdAfter int64) []domain.RawTask {
	tasks, err := s.QueryTasks(ctx, endpoint, exclusionAddress, createdAfter)
	if err != nil {
		s.log.Error().Err(err).Str("endpoint", endpoint).Msg("task query failed")
		return []domain.RawTask{}
	}
	if len(tasks) == MaxTasksPerQuery {
		s.log.Warn().Str("endpoint", endpoint).Int("limit", MaxTasksPerQuery).
			Msg("query returned a full page, later tasks are not collected")
	}
	return tasks
}

// QueryTasks runs the task query and returns any failure to the caller
func (s *SubgraphCollector) QueryTasks(ctx context.Context, endpoint, exclusionAddress string, createdAfter int64) ([]domain.RawTask, error) {
	if endpoint == "" {
		return nil, apperrors.NewBadRequestError("empty subgraph endpoint")
	}
	if err := s.throttle.Wait(ctx); err != nil {
		return nil, err
	}

	body, err := json.Marshal(graphQLRequest{Query: BuildTasksQuery(exclusionAddress, createdAfter)})
	if err != nil {
		return nil, apperrors.NewInternalError("failed to encode query", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("invalid subgraph endpoint %q: %v", endpoint, err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewUnavailableError("subgraph", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, apperrors.NewBadResponseError(
			fmt.Sprintf("subgraph returned %s: %s", resp.Status, strings.TrimSpace(string(snippet))), nil)
	}

	var out tasksResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, apperrors.NewBadResponseError("failed to decode subgraph response", err)
	}
	if len(out.Errors) > 0 {
		msgs := make([]string, 0, len(out.Errors))
		for _, e := range out.Errors {
			msgs = append(msgs, e.Message)
		}
		return nil, apperrors.NewBadResponseError("subgraph query error: "+strings.Join(msgs, "; "), nil)
	}
	if out.Data.Tasks == nil {
		return []domain.RawTask{}, nil
	}
	return out.Data.Tasks, nil
}

// BuildTasksQuery renders the GraphQL query for tasks created after createdAfter
func BuildTasksQuery(exclusionAddress string, createdAfter int64) string {
	return fmt.Sprintf(tasksQuery, MaxTasksPerQuery, createdAfter, exclusionAddress)
}
