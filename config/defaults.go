package config

import "time"

// Public full node endpoints.
var defaultRPCURLs = map[NetworkType]string{
	Mainnet:  "https://fullnode.mainnet.sui.io:443",
	Testnet:  "https://fullnode.testnet.sui.io:443",
	Devnet:   "https://fullnode.devnet.sui.io:443",
	Localnet: "http://127.0.0.1:9000",
}

// DefaultRPCURL returns the public full node URL for a network.
func DefaultRPCURL(network NetworkType) string {
	return defaultRPCURLs[network]
}

// DefaultMainnet returns the default client configuration for mainnet.
func DefaultMainnet() *Config {
	return &Config{
		Network: Mainnet,
		DataDir: DefaultDataDir(),
		RPC: RPCConfig{
			URL:       DefaultRPCURL(Mainnet),
			Timeout:   30 * time.Second,
			RateLimit: 10,
			Burst:     20,
		},
		Contract: ContractConfig{
			Module:     "coin_lock",
			LockType:   "CoinLock",
			LockFn:     "lock_coin",
			WithdrawFn: "withdraw_coin",
		},
		Gas: GasConfig{
			Budget: 50_000_000,
		},
		Wallet: WalletConfig{
			Name: "default",
		},
		Log: LogConfig{
			Level: "info",
			JSON:  false,
		},
	}
}

// Default returns the default client configuration for the given network.
func Default(network NetworkType) *Config {
	cfg := DefaultMainnet()
	if _, ok := defaultRPCURLs[network]; ok {
		cfg.Network = network
		cfg.RPC.URL = DefaultRPCURL(network)
	}
	if network == Localnet {
		cfg.RPC.RateLimit = 0
	}
	return cfg
}
