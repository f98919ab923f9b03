package config

// Params holds the per-network parameters the library needs: where the
// relay lives and how addresses and derivation paths are formed.
type Params struct {
	// Network is the network name: mainnet or testnet.
	Network string

	// RelayURL is the base URL of the relay REST API.
	RelayURL string

	// AddressPrefix is the human-readable address prefix.
	AddressPrefix string

	// CoinType is the SLIP-44 coin type used in derivation paths.
	CoinType uint32
}

// Presets contains default parameters for known networks.
var Presets = map[string]Params{
	"mainnet": {
		Network:       "mainnet",
		RelayURL:      "https://api.karlsencoin.com",
		AddressPrefix: "karlsen",
		CoinType:      121337,
	},
	"testnet": {
		Network:       "testnet",
		RelayURL:      "https://api.testnet.karlsencoin.com",
		AddressPrefix: "karlsentest",
		CoinType:      121337,
	},
}

// Environment variable names recognized by Resolve.
const (
	EnvRelayURL = "KARLSENVAULT_RELAY_URL"
)

// Resolve merges parameters from three sources with decreasing priority:
//
//  1. explicit overrides (CLI flags, embedding application)
//  2. environment variables
//  3. network presets
//
// overrides may be nil; env is typically a snapshot of os.Environ values.
func Resolve(overrides *Params, env map[string]string, network string) (*Params, error) {
	preset, ok := Presets[network]
	if !ok {
		return nil, ErrInvalidNetwork
	}
	result := preset

	if env != nil {
		if v, ok := env[EnvRelayURL]; ok && v != "" {
			result.RelayURL = v
		}
	}

	if overrides != nil {
		if overrides.RelayURL != "" {
			result.RelayURL = overrides.RelayURL
		}
		if overrides.AddressPrefix != "" {
			result.AddressPrefix = overrides.AddressPrefix
		}
		if overrides.CoinType != 0 {
			result.CoinType = overrides.CoinType
		}
	}

	if err := Validate(result); err != nil {
		return nil, err
	}
	return &result, nil
}
