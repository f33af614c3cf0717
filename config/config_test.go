package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault_Networks(t *testing.T) {
	for _, n := range Networks {
		cfg := Default(n)
		if cfg.Network != n {
			t.Errorf("Default(%s).Network = %s", n, cfg.Network)
		}
		if cfg.RPC.URL != DefaultRPCURL(n) {
			t.Errorf("Default(%s).RPC.URL = %s", n, cfg.RPC.URL)
		}
		if err := Validate(cfg); err != nil {
			t.Errorf("Default(%s) does not validate: %v", n, err)
		}
	}
	if Default(Localnet).RPC.RateLimit != 0 {
		t.Error("localnet should not be rate limited")
	}
}

func TestLoadFile_Parse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coinlock.conf")
	content := `# comment
network = testnet

rpc.timeout = 5s
contract.package = "0x2"
gas.budget = 1234
log.json = yes
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	values, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if values["contract.package"] != "0x2" {
		t.Errorf("quotes not stripped: %q", values["contract.package"])
	}

	cfg := DefaultMainnet()
	if err := ApplyFileConfig(cfg, values); err != nil {
		t.Fatalf("ApplyFileConfig: %v", err)
	}
	if cfg.Network != Testnet {
		t.Errorf("network = %s", cfg.Network)
	}
	if cfg.RPC.URL != DefaultRPCURL(Testnet) {
		t.Errorf("rpc.url should follow network, got %s", cfg.RPC.URL)
	}
	if cfg.RPC.Timeout != 5*time.Second {
		t.Errorf("rpc.timeout = %s", cfg.RPC.Timeout)
	}
	if cfg.Gas.Budget != 1234 {
		t.Errorf("gas.budget = %d", cfg.Gas.Budget)
	}
	if !cfg.Log.JSON {
		t.Error("log.json should be true")
	}
}

func TestLoadFile_Missing(t *testing.T) {
	values, err := LoadFile(filepath.Join(t.TempDir(), "nope.conf"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if len(values) != 0 {
		t.Errorf("expected no values, got %v", values)
	}
}

func TestLoadFile_BadLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.conf")
	if err := os.WriteFile(path, []byte("network testnet\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("expected error for line without '='")
	}
}

func TestApplyFileConfig_BadValue(t *testing.T) {
	cfg := DefaultMainnet()
	err := ApplyFileConfig(cfg, map[string]string{"gas.budget": "lots"})
	if err == nil || !strings.Contains(err.Error(), "gas.budget") {
		t.Errorf("expected gas.budget error, got %v", err)
	}
}

func TestApplyFileConfig_CustomURLSurvivesNetwork(t *testing.T) {
	cfg := DefaultMainnet()
	cfg.RPC.URL = "http://node.internal:9000"
	if err := ApplyFileConfig(cfg, map[string]string{"network": "devnet"}); err != nil {
		t.Fatal(err)
	}
	if cfg.RPC.URL != "http://node.internal:9000" {
		t.Errorf("custom rpc.url overwritten: %s", cfg.RPC.URL)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad network", func(c *Config) { c.Network = "moon" }},
		{"bad url", func(c *Config) { c.RPC.URL = "ftp://x" }},
		{"zero timeout", func(c *Config) { c.RPC.Timeout = 0 }},
		{"negative rate", func(c *Config) { c.RPC.RateLimit = -1 }},
		{"zero burst", func(c *Config) { c.RPC.RateLimit = 5; c.RPC.Burst = 0 }},
		{"bad package", func(c *Config) { c.Contract.Package = "0xzz" }},
		{"bad module", func(c *Config) { c.Contract.Module = "coin-lock" }},
		{"empty lockfn", func(c *Config) { c.Contract.LockFn = "" }},
		{"zero budget", func(c *Config) { c.Gas.Budget = 0 }},
		{"wallet path", func(c *Config) { c.Wallet.Name = "../x" }},
		{"log level", func(c *Config) { c.Log.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultMainnet()
			tt.mutate(cfg)
			if err := Validate(cfg); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidate_NormalizesPackage(t *testing.T) {
	cfg := DefaultMainnet()
	cfg.Contract.Package = "0x2"
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(cfg.Contract.Package) != 66 {
		t.Errorf("package not normalized: %s", cfg.Contract.Package)
	}
	if err := RequireContract(cfg); err != nil {
		t.Errorf("RequireContract: %v", err)
	}
	if err := RequireContract(DefaultMainnet()); err == nil {
		t.Error("RequireContract should fail without a package")
	}
}

func TestContractConfig_StructType(t *testing.T) {
	c := ContractConfig{Package: "0xabc", Module: "coin_lock", LockType: "CoinLock"}
	if got := c.StructType(); got != "0xabc::coin_lock::CoinLock" {
		t.Errorf("StructType() = %s", got)
	}
	c.LockType = "0xdef::other::Lock"
	if got := c.StructType(); got != "0xdef::other::Lock" {
		t.Errorf("qualified StructType() = %s", got)
	}
}

func TestParseFlags_StopsAtCommand(t *testing.T) {
	f, err := ParseFlags([]string{"--network", "testnet", "--log-json", "lock", "--amount", "1"})
	if err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	if f.Network != "testnet" || !f.SetLogJSON {
		t.Errorf("flags not parsed: %+v", f)
	}
	if strings.Join(f.Args, " ") != "lock --amount 1" {
		t.Errorf("Args = %v", f.Args)
	}
}

func TestParseFlags_Unknown(t *testing.T) {
	if _, err := ParseFlags([]string{"--bogus"}); err == nil {
		t.Error("expected error for unknown flag")
	}
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	conf := "network = devnet\nwallet.name = fromfile\ngas.budget = 777\n"
	if err := os.WriteFile(filepath.Join(dir, "coinlock.conf"), []byte(conf), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, flags, err := Load([]string{"--datadir", dir, "--wallet", "fromflag", "balance"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Network != Devnet {
		t.Errorf("network = %s, want devnet from file", cfg.Network)
	}
	if cfg.Wallet.Name != "fromflag" {
		t.Errorf("wallet.name = %s, flag should win", cfg.Wallet.Name)
	}
	if cfg.Gas.Budget != 777 {
		t.Errorf("gas.budget = %d", cfg.Gas.Budget)
	}
	if len(flags.Args) != 1 || flags.Args[0] != "balance" {
		t.Errorf("Args = %v", flags.Args)
	}
	for _, d := range []string{cfg.KeystoreDir(), cfg.HistoryDir(), cfg.LogsDir()} {
		if _, err := os.Stat(d); err != nil {
			t.Errorf("dir %s not created: %v", d, err)
		}
	}
}

func TestEnsureDataDirs_WritesDefaultConfig(t *testing.T) {
	cfg := Default(Testnet)
	cfg.DataDir = t.TempDir()
	if err := EnsureDataDirs(cfg); err != nil {
		t.Fatalf("EnsureDataDirs: %v", err)
	}
	values, err := LoadFile(cfg.ConfigFile())
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if values["network"] != "testnet" {
		t.Errorf("default config network = %q", values["network"])
	}

	// The written defaults must round-trip through the loader.
	fresh := Default(Testnet)
	fresh.DataDir = cfg.DataDir
	if err := ApplyFileConfig(fresh, values); err != nil {
		t.Fatalf("ApplyFileConfig: %v", err)
	}
	if err := Validate(fresh); err != nil {
		t.Errorf("default config does not validate: %v", err)
	}
}
