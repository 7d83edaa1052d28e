package domain

// NetworkConfig describes one supported network
type NetworkConfig struct {
	ID                string `json:"id"`
	QueryEndpoint     string `json:"queryEndpoint"`
	ExclusionAddress  string `json:"exclusionAddress"`
	ChainID           string `json:"chainId"`
	DetailURLTemplate string `json:"detailUrlTemplate"` // contains {taskId}
}

// NetworkSummary holds per-network counts for a run
type NetworkSummary struct {
	Network string `json:"network"`
	ChainID string `json:"chainId"`
	Tasks   int    `json:"tasks"`
	Unnamed int    `json:"unnamed"`
}
