// Package network holds the static table of supported networks.
package network

import (
	"strings"

	"github.com/kurihiro0119/ops-task-report/internal/domain"
)

const (
	subgraphBase      = "https://api.thegraph.com/subgraphs/name/gelatodigital/"
	detailURLTemplate = "https://app.gelato.network/task/{taskId}?chainId="
)

var defaultNetworks = []domain.NetworkConfig{
	{
		ID:                "mainnet",
		QueryEndpoint:     subgraphBase + "poke-me",
		ExclusionAddress:  "0xb74de3f91e04d0920ff26ac28956272e8d67404d",
		ChainID:           "1",
		DetailURLTemplate: detailURLTemplate + "1",
	},
	{
		ID:                "polygon",
		QueryEndpoint:     subgraphBase + "poke-me-polygon",
		ExclusionAddress:  "0xb74de3f91e04d0920ff26ac28956272e8d67404d",
		ChainID:           "137",
		DetailURLTemplate: detailURLTemplate + "137",
	},
	{
		ID:                "fantom",
		QueryEndpoint:     subgraphBase + "poke-me-fantom",
		ExclusionAddress:  "0x255f82563b5973264e89526345ecea766db3bab2",
		ChainID:           "250",
		DetailURLTemplate: detailURLTemplate + "250",
	},
	{
		ID:                "bsc",
		QueryEndpoint:     subgraphBase + "poke-me-bsc",
		ExclusionAddress:  "0x915e840ce933dd1deda87b08c0f4cce46916fd01",
		ChainID:           "56",
		DetailURLTemplate: detailURLTemplate + "56",
	},
	{
		ID:                "avalanche",
		QueryEndpoint:     subgraphBase + "poke-me-avalanche",
		ExclusionAddress:  "0x915e840ce933dd1deda87b08c0f4cce46916fd01",
		ChainID:           "43114",
		DetailURLTemplate: detailURLTemplate + "43114",
	},
	{
		ID:                "arbitrum",
		QueryEndpoint:     subgraphBase + "poke-me-arbitrum",
		ExclusionAddress:  "0x0f44eaac6b802be1a4b01df9352aa9370c957f5a",
		ChainID:           "42161",
		DetailURLTemplate: detailURLTemplate + "42161",
	},
}

// Registry maps network identifiers to their configuration.
// Lookups for an unknown identifier return empty values.
type Registry struct {
	order   []string
	configs map[string]domain.NetworkConfig
}

// NewRegistry builds a registry that iterates networks in the given order.
// A later config with a duplicate ID replaces the earlier one in place.
func NewRegistry(configs ...domain.NetworkConfig) *Registry {
	r := &Registry{configs: make(map[string]domain.NetworkConfig, len(configs))}
	for _, c := range configs {
		if _, ok := r.configs[c.ID]; !ok {
			r.order = append(r.order, c.ID)
		}
		r.configs[c.ID] = c
	}
	return r
}

var defaultRegistry = NewRegistry(defaultNetworks...)

// Default returns the registry of supported networks
func Default() *Registry {
	return defaultRegistry
}

// Networks returns the network identifiers in iteration order
func (r *Registry) Networks() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Configs returns all network configs in iteration order
func (r *Registry) Configs() []domain.NetworkConfig {
	out := make([]domain.NetworkConfig, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.configs[id])
	}
	return out
}

// Lookup returns the config for a network and whether it is known
func (r *Registry) Lookup(network string) (domain.NetworkConfig, bool) {
	c, ok := r.configs[network]
	return c, ok
}

// EndpointFor returns the subgraph query endpoint for a network
func (r *Registry) EndpointFor(network string) string {
	return r.configs[network].QueryEndpoint
}

// ExclusionAddressFor returns the executor address whose tasks are filtered out
func (r *Registry) ExclusionAddressFor(network string) string {
	return r.configs[network].ExclusionAddress
}

// ChainIDFor returns the numeric chain id of a network as a string
func (r *Registry) ChainIDFor(network string) string {
	return r.configs[network].ChainID
}

// DetailURLFor returns the task detail page link for a network
func (r *Registry) DetailURLFor(network, taskID string) string {
	tmpl := r.configs[network].DetailURLTemplate
	if tmpl == "" {
		return ""
	}
	return strings.ReplaceAll(tmpl, "{taskId}", taskID)
}

// EndpointFor looks up network in the default registry
func EndpointFor(network string) string { return defaultRegistry.EndpointFor(network) }

// ExclusionAddressFor looks up network in the default registry
func ExclusionAddressFor(network string) string {
	return defaultRegistry.ExclusionAddressFor(network)
}

// ChainIDFor looks up network in the default registry
func ChainIDFor(network string) string { return defaultRegistry.ChainIDFor(network) }

// DetailURLFor looks up network in the default registry
func DetailURLFor(network, taskID string) string {
	return defaultRegistry.DetailURLFor(network, taskID)
}
