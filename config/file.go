package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// LoadFile loads client configuration from a .conf file.
// Format: key = value (one per line, # for comments)
func LoadFile(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, err
	}
	defer file.Close()

	values := make(map[string]string)
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("line %d: invalid format (expected key = value)", lineNum)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Remove quotes if present
		if len(value) >= 2 {
			if (value[0] == '"' && value[len(value)-1] == '"') ||
				(value[0] == '\'' && value[len(value)-1] == '\'') {
				value = value[1 : len(value)-1]
			}
		}

		values[key] = value
	}

	return values, scanner.Err()
}

// ApplyFileConfig applies file configuration to a Config struct.
func ApplyFileConfig(cfg *Config, values map[string]string) error {
	// The network decides the default RPC URL, so apply it first.
	if n, ok := values["network"]; ok {
		if err := setConfigValue(cfg, "network", n); err != nil {
			return fmt.Errorf("config key %q: %w", "network", err)
		}
	}
	for key, value := range values {
		if key == "network" {
			continue
		}
		if err := setConfigValue(cfg, key, value); err != nil {
			return fmt.Errorf("config key %q: %w", key, err)
		}
	}
	return nil
}

// setConfigValue sets a config value by key.
func setConfigValue(cfg *Config, key, value string) error {
	switch key {
	// Core
	case "network":
		network := NetworkType(strings.ToLower(value))
		if cfg.RPC.URL == DefaultRPCURL(cfg.Network) {
			cfg.RPC.URL = DefaultRPCURL(network)
		}
		cfg.Network = network
	case "datadir":
		cfg.DataDir = value

	// RPC
	case "rpc.url", "rpc":
		cfg.RPC.URL = value
	case "rpc.timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		cfg.RPC.Timeout = d
	case "rpc.ratelimit":
		r, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		cfg.RPC.RateLimit = r
	case "rpc.burst":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		cfg.RPC.Burst = n

	// Contract
	case "contract.package", "package":
		cfg.Contract.Package = value
	case "contract.module":
		cfg.Contract.Module = value
	case "contract.locktype":
		cfg.Contract.LockType = value
	case "contract.lockfn":
		cfg.Contract.LockFn = value
	case "contract.withdrawfn":
		cfg.Contract.WithdrawFn = value

	// Gas
	case "gas.budget":
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return err
		}
		cfg.Gas.Budget = n
	case "gas.price":
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return err
		}
		cfg.Gas.Price = n

	// Wallet
	case "wallet.name", "wallet":
		cfg.Wallet.Name = value

	// Logging
	case "log.level":
		cfg.Log.Level = value
	case "log.file":
		cfg.Log.File = value
	case "log.json":
		cfg.Log.JSON = parseBool(value)

	default:
		// Unknown keys are ignored
	}
	return nil
}

// parseBool parses a boolean value.
func parseBool(s string) bool {
	s = strings.ToLower(s)
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

// WriteDefaultConfig writes a default client configuration file.
func WriteDefaultConfig(path string, network NetworkType) error {
	content := `# CoinLock Client Configuration

# Network: mainnet, testnet, devnet or localnet
network = ` + string(network) + `

# Data directory (default: ~/.coinlock)
# datadir = ~/.coinlock

# ============================================================================
# Full node RPC
# ============================================================================

# rpc.url = ` + DefaultRPCURL(network) + `
rpc.timeout = 30s
# Requests per second (0 = unlimited) and burst size
rpc.ratelimit = 10
rpc.burst = 20

# ============================================================================
# Coin lock contract
# ============================================================================

# Package ID of the deployed contract (required for lock/withdraw/locks)
# contract.package = 0x...
contract.module = coin_lock
contract.locktype = CoinLock
contract.lockfn = lock_coin
contract.withdrawfn = withdraw_coin

# ============================================================================
# Gas
# ============================================================================

# Gas budget in MIST
gas.budget = 50000000
# Gas price in MIST (0 = reference gas price from the node)
# gas.price = 0

# ============================================================================
# Wallet
# ============================================================================

wallet.name = default

# ============================================================================
# Logging
# ============================================================================

log.level = info
# log.file =
log.json = false
`
	return os.WriteFile(path, []byte(content), 0644)
}
