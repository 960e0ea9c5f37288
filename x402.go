// Package x402 implements the x402 pay-per-request authorization
// protocol over HTTP: a resource server declares payment requirements in
// a 402 response, the client signs a payment satisfying them and retries,
// and the server verifies the signed payment before granting access.
//
// The SDK is split by concern: types holds the payment model and chain
// directory, protocol the header codec, verification the server-side
// checks, signer the signing backends, client the paying HTTP client and
// middleware the Gin integration.
package x402

import "github.com/girderdev/x402-sdk/types"

// Version information
const (
	Version         = "0.1.0"
	ProtocolVersion = 1
)

// GetVersion returns version information
func GetVersion() map[string]interface{} {
	networks := types.SupportedNetworks()
	names := make([]string, 0, len(networks))
	for _, n := range networks {
		names = append(names, n.String())
	}
	return map[string]interface{}{
		"library_version":    Version,
		"protocol_version":   ProtocolVersion,
		"supported_networks": names,
	}
}
