package domain

import "time"

// RunStatus is the lifecycle state of a collection run
type RunStatus string

const (
	RunStatusInProgress RunStatus = "in_progress"
	RunStatusCompleted  RunStatus = "completed"
	RunStatusFailed     RunStatus = "failed"
)

// Run represents a single collection pass over all networks
type Run struct {
	ID           string    `json:"id"`
	StartedAt    time.Time `json:"startedAt"`
	FinishedAt   time.Time `json:"finishedAt"`
	CreatedAfter int64     `json:"createdAfter"` // unix seconds
	RecordCount  int       `json:"recordCount"`
	OutputPath   string    `json:"outputPath"`
	Status       RunStatus `json:"status"`
}
