package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/Klingon-tech/coinlock/internal/log"
	"github.com/Klingon-tech/coinlock/pkg/types"
)

// Validate checks runtime config for obvious operator mistakes.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if _, ok := defaultRPCURLs[cfg.Network]; !ok {
		return fmt.Errorf("network must be one of mainnet, testnet, devnet, localnet")
	}
	if cfg.DataDir == "" {
		return fmt.Errorf("datadir is empty")
	}

	u, err := url.Parse(cfg.RPC.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("rpc.url must be an http(s) URL, got %q", cfg.RPC.URL)
	}
	if cfg.RPC.Timeout <= 0 {
		return fmt.Errorf("rpc.timeout must be positive")
	}
	if cfg.RPC.RateLimit < 0 {
		return fmt.Errorf("rpc.ratelimit must not be negative")
	}
	if cfg.RPC.RateLimit > 0 && cfg.RPC.Burst < 1 {
		return fmt.Errorf("rpc.burst must be at least 1 when rpc.ratelimit is set")
	}

	if cfg.Contract.Package != "" {
		addr, err := types.ParseAddress(cfg.Contract.Package)
		if err != nil {
			return fmt.Errorf("contract.package: %w", err)
		}
		cfg.Contract.Package = addr.String()
	}
	for field, ident := range map[string]string{
		"contract.module":     cfg.Contract.Module,
		"contract.lockfn":     cfg.Contract.LockFn,
		"contract.withdrawfn": cfg.Contract.WithdrawFn,
	} {
		if !isMoveIdent(ident) {
			return fmt.Errorf("%s must be a Move identifier, got %q", field, ident)
		}
	}
	if strings.TrimSpace(cfg.Contract.LockType) == "" {
		return fmt.Errorf("contract.locktype is empty")
	}

	if cfg.Gas.Budget == 0 {
		return fmt.Errorf("gas.budget must be positive")
	}
	if err := log.ValidLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if cfg.Wallet.Name == "" || strings.ContainsAny(cfg.Wallet.Name, `/\`) {
		return fmt.Errorf("wallet.name must be a plain file name")
	}
	return nil
}

// RequireContract reports an error when no contract package is configured.
// Read-only commands that don't touch the contract skip this check.
func RequireContract(cfg *Config) error {
	if cfg.Contract.Package == "" {
		return fmt.Errorf("contract.package is not set (add it to %s or pass --package)", cfg.ConfigFile())
	}
	return nil
}

func isMoveIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
