package types

// Network represents supported settlement networks
type Network string

const (
	NetworkEthereum    Network = "ethereum"
	NetworkBase        Network = "base"
	NetworkBaseSepolia Network = "base-sepolia" // testnet
	NetworkArbitrum    Network = "arbitrum"
	NetworkOptimism    Network = "optimism"
	NetworkPolygon     Network = "polygon"
)

// chainIDs is the forward half of the chain directory. The reverse half
// is derived from it once at startup so both lookups stay O(1).
var chainIDs = map[Network]uint64{
	NetworkEthereum:    1,
	NetworkBase:        8453,
	NetworkBaseSepolia: 84532,
	NetworkArbitrum:    42161,
	NetworkOptimism:    10,
	NetworkPolygon:     137,
}

var networksByChainID map[uint64]Network

func init() {
	networksByChainID = make(map[uint64]Network, len(chainIDs))
	for network, id := range chainIDs {
		networksByChainID[id] = network
	}
}

func (n Network) String() string {
	return string(n)
}

// Valid reports whether n is one of the supported networks.
func (n Network) Valid() bool {
	_, ok := chainIDs[n]
	return ok
}

// ChainID returns the numeric chain id for the network.
func (n Network) ChainID() (uint64, bool) {
	id, ok := chainIDs[n]
	return id, ok
}

// NetworkFromChainID resolves a chain id back to its network.
// The second return value is false for unknown chain ids.
func NetworkFromChainID(chainID uint64) (Network, bool) {
	n, ok := networksByChainID[chainID]
	return n, ok
}

// SupportedNetworks returns all networks in the chain directory.
func SupportedNetworks() []Network {
	networks := make([]Network, 0, len(chainIDs))
	for n := range chainIDs {
		networks = append(networks, n)
	}
	return networks
}
