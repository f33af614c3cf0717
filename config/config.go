// Package config handles application configuration.
//
// Settings are layered: built-in defaults per network, then the
// coinlock.conf file in the data directory, then command-line flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// NetworkType identifies the Sui network the client talks to.
type NetworkType string

const (
	Mainnet  NetworkType = "mainnet"
	Testnet  NetworkType = "testnet"
	Devnet   NetworkType = "devnet"
	Localnet NetworkType = "localnet"
)

// Networks lists every supported network in display order.
var Networks = []NetworkType{Mainnet, Testnet, Devnet, Localnet}

// Coin constants for the native SUI coin.
const (
	// Decimals is the number of fractional digits of one SUI.
	Decimals = 9
	// MistPerSui is the number of base units (MIST) in one SUI.
	MistPerSui uint64 = 1_000_000_000
	// CoinType is the Move type of the native coin.
	CoinType = "0x2::sui::SUI"
)

// Config holds client runtime configuration.
type Config struct {
	// Core
	Network NetworkType `conf:"network"`
	DataDir string      `conf:"datadir"`

	// Full node JSON-RPC endpoint
	RPC RPCConfig

	// Deployed coin lock contract
	Contract ContractConfig

	// Transaction gas
	Gas GasConfig

	// Wallet
	Wallet WalletConfig

	// Logging
	Log LogConfig
}

// RPCConfig holds full node client settings.
type RPCConfig struct {
	URL       string        `conf:"rpc.url"`
	Timeout   time.Duration `conf:"rpc.timeout"`
	RateLimit float64       `conf:"rpc.ratelimit"` // Requests per second, 0 = unlimited.
	Burst     int           `conf:"rpc.burst"`
}

// ContractConfig locates the coin lock Move package.
type ContractConfig struct {
	Package    string `conf:"contract.package"`
	Module     string `conf:"contract.module"`
	LockType   string `conf:"contract.locktype"` // Struct name or fully qualified type.
	LockFn     string `conf:"contract.lockfn"`
	WithdrawFn string `conf:"contract.withdrawfn"`
}

// StructType returns the fully qualified lock object type, e.g.
// "0xabc::coin_lock::CoinLock".
func (c ContractConfig) StructType() string {
	if c.Package == "" || strings.Contains(c.LockType, "::") {
		return c.LockType
	}
	return fmt.Sprintf("%s::%s::%s", c.Package, c.Module, c.LockType)
}

// GasConfig holds gas settings for submitted transactions.
type GasConfig struct {
	Budget uint64 `conf:"gas.budget"` // MIST
	Price  uint64 `conf:"gas.price"`  // 0 = ask the node for the reference price.
}

// WalletConfig holds wallet settings.
type WalletConfig struct {
	Name string `conf:"wallet.name"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `conf:"log.level"`
	File  string `conf:"log.file"`
	JSON  bool   `conf:"log.json"`
}

// =============================================================================
// Directory helpers
// =============================================================================

// DefaultDataDir returns the platform-specific default data directory.
//
//	Linux:   ~/.coinlock
//	macOS:   ~/Library/Application Support/CoinLock
//	Windows: %APPDATA%\CoinLock
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".coinlock"
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "CoinLock")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, "CoinLock")
		}
		return filepath.Join(home, "AppData", "Roaming", "CoinLock")
	default:
		return filepath.Join(home, ".coinlock")
	}
}

// NetworkDataDir returns the network-specific data directory.
func (c *Config) NetworkDataDir() string {
	return filepath.Join(c.DataDir, string(c.Network))
}

// KeystoreDir returns the keystore directory.
func (c *Config) KeystoreDir() string {
	return filepath.Join(c.NetworkDataDir(), "keystore")
}

// HistoryDir returns the transaction history database directory.
func (c *Config) HistoryDir() string {
	return filepath.Join(c.NetworkDataDir(), "history")
}

// LogsDir returns the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.DataDir, "logs")
}

// ConfigFile returns the config file path.
func (c *Config) ConfigFile() string {
	return filepath.Join(c.DataDir, "coinlock.conf")
}
