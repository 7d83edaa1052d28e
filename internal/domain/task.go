package domain

// FallbackTaskName is used when a task's display name cannot be resolved
const FallbackTaskName = "Failed to get task name"

// RawTask is a task record as returned by a network's subgraph
type RawTask struct {
	ID        string `json:"id"`
	CreatedAt string `json:"createdAt"` // unix seconds, numeric string
}

// EnrichedRecord is one output row. Field order is the export column order.
type EnrichedRecord struct {
	Network       string `json:"network"`
	CreatedAtCEST string `json:"createdAtCEST"`
	TaskName      string `json:"taskName"`
	OpsURL        string `json:"opsUrl"`
}

// Columns returns the header row for exported records
func Columns() []string {
	return []string{"network", "createdAtCEST", "taskName", "opsUrl"}
}

// Values returns the record fields in column order
func (r EnrichedRecord) Values() []string {
	return []string{r.Network, r.CreatedAtCEST, r.TaskName, r.OpsURL}
}

// ArchivedRecord is an EnrichedRecord persisted alongside its run
type ArchivedRecord struct {
	RunID    string
	Position int
	TaskID   string
	ChainID  string
	EnrichedRecord
}
