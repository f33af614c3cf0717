package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Klingon-tech/coinlock/config"
	"github.com/Klingon-tech/coinlock/internal/log"
	"github.com/Klingon-tech/coinlock/internal/suiclient"
)

// qtSettings is the persistent configuration written to qt-settings.json.
type qtSettings struct {
	RPCEndpoint  string `json:"rpc_endpoint,omitempty"`
	DataDir      string `json:"data_dir"`
	Network      string `json:"network"`
	Package      string `json:"package,omitempty"`
	ActiveWallet string `json:"active_wallet"`
}

// App manages application lifecycle and settings.
type App struct {
	ctx context.Context

	mu           sync.RWMutex
	rpcEndpoint  string // empty = network default or config file
	dataDir      string
	networkName  string
	packageID    string // empty = config file
	activeWallet string

	wallet *WalletService
	locks  *LockService
}

// NewApp creates the application with default settings.
func NewApp() *App {
	app := &App{
		dataDir:      config.DefaultDataDir(),
		networkName:  string(config.Mainnet),
		activeWallet: "default",
	}
	app.wallet = &WalletService{app: app}
	app.locks = newLockService(app)
	app.loadSettings()
	return app
}

func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
	cfg, err := a.config()
	if err != nil {
		return
	}
	if err := log.InitFileOnly(cfg.Log.Level, filepath.Join(cfg.LogsDir(), "qt.log")); err != nil {
		return
	}
	log.UI.Info().Str("network", string(cfg.Network)).Str("rpc", cfg.RPC.URL).Msg("desktop started")
}

func (a *App) shutdown(_ context.Context) {
	a.locks.Disconnect()
}

// config resolves defaults, the config file for the selected network and
// the desktop settings, in that order.
func (a *App) config() (*config.Config, error) {
	a.mu.RLock()
	dataDir, network := a.dataDir, config.NetworkType(a.networkName)
	rpcEndpoint, pkg := a.rpcEndpoint, a.packageID
	a.mu.RUnlock()

	cfg, err := config.LoadFromFile(dataDir, network)
	if err != nil {
		return nil, err
	}
	if rpcEndpoint != "" {
		cfg.RPC.URL = rpcEndpoint
	}
	if pkg != "" {
		cfg.Contract.Package = pkg
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return cfg, nil
}

func (a *App) client(cfg *config.Config) *suiclient.Client {
	return suiclient.New(cfg.RPC.URL, cfg.RPC.Timeout,
		suiclient.WithRateLimit(cfg.RPC.RateLimit, cfg.RPC.Burst))
}

// settingsPath returns the path to qt-settings.json.
func (a *App) settingsPath() string {
	return filepath.Join(a.dataDir, "qt-settings.json")
}

// ── Settings persistence ─────────────────────────────────────────────

func (a *App) loadSettings() {
	data, err := os.ReadFile(a.settingsPath())
	if err != nil {
		return // first launch
	}
	var s qtSettings
	if err := json.Unmarshal(data, &s); err != nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.rpcEndpoint = s.RPCEndpoint
	a.packageID = s.Package
	if s.DataDir != "" {
		a.dataDir = s.DataDir
	}
	if s.Network != "" {
		a.networkName = s.Network
	}
	if s.ActiveWallet != "" {
		a.activeWallet = s.ActiveWallet
	}
}

func (a *App) saveSettings() error {
	a.mu.RLock()
	s := qtSettings{
		RPCEndpoint:  a.rpcEndpoint,
		DataDir:      a.dataDir,
		Network:      a.networkName,
		Package:      a.packageID,
		ActiveWallet: a.activeWallet,
	}
	path := a.settingsPath()
	a.mu.RUnlock()

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// ── Getters / Setters (each setter persists) ─────────────────────────

// Settings is the settings view shown by the frontend.
type Settings struct {
	RPCEndpoint  string `json:"rpc_endpoint"`
	DataDir      string `json:"data_dir"`
	Network      string `json:"network"`
	Package      string `json:"package"`
	ActiveWallet string `json:"active_wallet"`
}

// GetSettings returns the effective settings.
func (a *App) GetSettings() (*Settings, error) {
	cfg, err := a.config()
	if err != nil {
		return nil, err
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	return &Settings{
		RPCEndpoint:  cfg.RPC.URL,
		DataDir:      a.dataDir,
		Network:      a.networkName,
		Package:      cfg.Contract.Package,
		ActiveWallet: a.activeWallet,
	}, nil
}

// SetNetwork switches networks and disconnects the wallet.
func (a *App) SetNetwork(network string) error {
	if _, err := config.LoadFromFile(a.GetDataDir(), config.NetworkType(network)); err != nil {
		return err
	}
	a.mu.Lock()
	a.networkName = network
	a.rpcEndpoint = ""
	a.mu.Unlock()
	a.locks.Disconnect()
	return a.saveSettings()
}

// SetRPCEndpoint overrides the full node URL; empty restores the default.
func (a *App) SetRPCEndpoint(endpoint string) error {
	return a.update(func() { a.rpcEndpoint = endpoint })
}

// SetPackage sets the coin lock package ID; empty uses the config file.
func (a *App) SetPackage(pkg string) error {
	return a.update(func() { a.packageID = pkg })
}

// GetDataDir returns the current data directory.
func (a *App) GetDataDir() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.dataDir
}

// SetDataDir updates the data directory and disconnects the wallet.
func (a *App) SetDataDir(dir string) error {
	if err := a.update(func() { a.dataDir = dir }); err != nil {
		return err
	}
	a.locks.Disconnect()
	return nil
}

// GetActiveWallet returns the currently selected wallet name.
func (a *App) GetActiveWallet() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.activeWallet
}

// SetActiveWallet updates the active wallet.
func (a *App) SetActiveWallet(name string) error {
	return a.update(func() { a.activeWallet = name })
}

// update applies set, validates the result and persists it. Invalid
// settings are rolled back.
func (a *App) update(set func()) error {
	a.mu.Lock()
	rpcEndpoint, dataDir, pkg, active := a.rpcEndpoint, a.dataDir, a.packageID, a.activeWallet
	set()
	a.mu.Unlock()

	if _, err := a.config(); err != nil {
		a.mu.Lock()
		a.rpcEndpoint, a.dataDir, a.packageID, a.activeWallet = rpcEndpoint, dataDir, pkg, active
		a.mu.Unlock()
		return err
	}
	return a.saveSettings()
}

// TestConnection checks that the full node answers.
func (a *App) TestConnection() (bool, error) {
	cfg, err := a.config()
	if err != nil {
		return false, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), cfg.RPC.Timeout)
	defer cancel()
	if _, err := a.client(cfg).GetReferenceGasPrice(ctx); err != nil {
		return false, err
	}
	return true, nil
}
