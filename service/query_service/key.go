package query_service

import "strings"

// Operation names shared by the services
const (
	OpBlobSearch      = "blob-search"
	OpBlobNetworkInfo = "blob-network-info"
	OpNetworkStatus   = "network-status"
	OpGasPrice        = "gas-price"
	OpProtocolConfig  = "protocol-config"
	OpWalBalance      = "wal-balance"
	OpTipHistory      = "tip-history"
)

const keyPrefix = "extend:query"

// Key identifies a cached result by (operation, parameters, network)
type Key struct {
	Operation string
	Params    []string
	Network   string
}

// NewKey key of op on the active network
func NewKey(operation string, params ...string) Key {
	return Key{Operation: operation, Params: params}
}

// String canonical form extend:query:<network>:<operation>:<params...>
func (k Key) String() string {
	var b strings.Builder
	b.WriteString(keyPrefix)
	b.WriteByte(':')
	b.WriteString(k.Network)
	b.WriteByte(':')
	b.WriteString(k.Operation)
	for _, p := range k.Params {
		b.WriteByte(':')
		b.WriteString(p)
	}
	return b.String()
}

// matches reports whether k belongs to operation and starts with params
func (k Key) matches(operation string, params []string) bool {
	if k.Operation != operation || len(params) > len(k.Params) {
		return false
	}
	for i, p := range params {
		if k.Params[i] != p {
			return false
		}
	}
	return true
}

// pattern redis glob covering at least the keys selected by matches
func pattern(network, operation string, params []string) string {
	if network == "" {
		network = "*"
	}
	if operation == "" {
		return keyPrefix + ":" + network + ":*"
	}
	return Key{Operation: operation, Params: params, Network: network}.String() + "*"
}
