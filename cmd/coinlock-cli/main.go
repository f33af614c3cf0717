// coinlock-cli locks SUI in the coin lock contract, lists the account's
// locks and withdraws the matured ones.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/Klingon-tech/coinlock/config"
	"github.com/Klingon-tech/coinlock/internal/coinlock"
	"github.com/Klingon-tech/coinlock/internal/format"
	"github.com/Klingon-tech/coinlock/internal/history"
	"github.com/Klingon-tech/coinlock/internal/log"
	"github.com/Klingon-tech/coinlock/internal/storage"
	"github.com/Klingon-tech/coinlock/internal/suiclient"
	"github.com/Klingon-tech/coinlock/internal/tui"
	"github.com/Klingon-tech/coinlock/internal/wallet"
	"github.com/Klingon-tech/coinlock/pkg/tx"
	"github.com/Klingon-tech/coinlock/pkg/types"
	"golang.org/x/term"
)

func main() {
	cfg, flags, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		usage()
		os.Exit(1)
	}
	if flags.Version {
		fmt.Printf("coinlock-cli %s\n", config.Version)
		return
	}
	if flags.Help {
		usage()
		return
	}
	if len(flags.Args) == 0 {
		usage()
		os.Exit(1)
	}

	cmd := flags.Args[0]
	cmdArgs := flags.Args[1:]

	// The TUI owns the terminal and logs to file only.
	if cmd != "tui" {
		if err := log.Init(cfg.Log.Level, cfg.Log.JSON, cfg.Log.File); err != nil {
			fatal("init logging: %v", err)
		}
	}

	switch cmd {
	case "balance":
		cmdBalance(cfg)
	case "locks":
		cmdLocks(cfg)
	case "lock":
		cmdLock(cfg, cmdArgs)
	case "withdraw":
		cmdWithdraw(cfg, cmdArgs)
	case "history":
		cmdHistory(cfg, cmdArgs)
	case "wallet":
		cmdWallet(cfg, cmdArgs)
	case "tui":
		cmdTUI(cfg)
	case "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: coinlock-cli [global flags] <command> [flags]

Global flags:
  --network <net>     mainnet (default), testnet, devnet or localnet
  --datadir <path>    Data directory (default: %s)
  --config <path>     Config file (default: <datadir>/coinlock.conf)
  --rpc <url>         Full node JSON-RPC URL
  --package <id>      Coin lock contract package ID
  --wallet <name>     Wallet to use (default: default)
  --log-level <lvl>   debug, info, warn or error

Commands:
  balance                         Show the wallet's SUI balance
  locks                           List the wallet's locks
  lock --amount <sui> [--duration <d>] [--note <text>] [--dry-run]
                                  Lock SUI; durations: %s
                                  or a Go duration such as 90m
  withdraw <lock-id> [--dry-run]  Withdraw a matured lock
  history [--limit <n>] [digest]  Show submitted transactions, newest first
  history --clear                 Delete the local history
  tui                             Interactive terminal UI

  wallet create --name <n> [--scheme ed25519|secp256k1] [--words 12|24]
                                  Create a new wallet
  wallet import --name <n> --mnemonic "..." [--scheme <s>]
                                  Import a wallet from a mnemonic
  wallet import-key --name <n> [--key suiprivkey1...]
                                  Import a single private key
  wallet list                     List wallets
  wallet address                  Show the wallet's address
`, config.DefaultDataDir(), durationKeys())
}

func durationKeys() string {
	keys := make([]string, len(coinlock.Durations))
	for i, d := range coinlock.Durations {
		keys[i] = d.Key
	}
	return strings.Join(keys, ", ")
}

// ── Setup helpers ───────────────────────────────────────────────────────

func dial(cfg *config.Config) *suiclient.Client {
	return suiclient.New(cfg.RPC.URL, cfg.RPC.Timeout,
		suiclient.WithRateLimit(cfg.RPC.RateLimit, cfg.RPC.Burst))
}

func openKeystore(cfg *config.Config) *wallet.Keystore {
	ks, err := wallet.NewKeystore(cfg.KeystoreDir())
	if err != nil {
		fatal("open keystore: %v", err)
	}
	return ks
}

// watchOnly exposes a wallet's stored address without unlocking it.
type watchOnly struct {
	addr types.Address
}

func (w watchOnly) Address() (types.Address, error) { return w.addr, nil }

func (w watchOnly) SignAndExecute(context.Context, *tx.TransactionData) (*suiclient.TransactionResponse, error) {
	return nil, errors.New("wallet is locked")
}

func watchWallet(cfg *config.Config) watchOnly {
	info, err := openKeystore(cfg).Info(cfg.Wallet.Name)
	if err != nil {
		fatal("%v (create one with 'coinlock-cli wallet create --name %s')", err, cfg.Wallet.Name)
	}
	if len(info.Accounts) == 0 {
		fatal("wallet %q has no accounts", cfg.Wallet.Name)
	}
	addr, err := types.ParseAddress(info.Accounts[0].Address)
	if err != nil {
		fatal("wallet %q: %v", cfg.Wallet.Name, err)
	}
	return watchOnly{addr: addr}
}

// unlockWallet prompts for the wallet password and connects its key.
func unlockWallet(cfg *config.Config, client *suiclient.Client) *wallet.Connector {
	ks := openKeystore(cfg)
	if !ks.Exists(cfg.Wallet.Name) {
		fatal("wallet %q not found (create one with 'coinlock-cli wallet create --name %s')",
			cfg.Wallet.Name, cfg.Wallet.Name)
	}
	password, err := readPassword(fmt.Sprintf("Password for %s: ", cfg.Wallet.Name))
	if err != nil {
		fatal("read password: %v", err)
	}
	kp, err := ks.Unlock(cfg.Wallet.Name, password)
	if err != nil {
		if errors.Is(err, wallet.ErrWrongPassword) {
			fatal("wrong password")
		}
		fatal("unlock wallet: %v", err)
	}
	return wallet.NewConnector(kp, client)
}

// readService builds a service over the wallet's stored address. The
// contract package is optional: balance works without it.
func readService(cfg *config.Config, needContract bool) *coinlock.Service {
	contract := coinlock.Contract{}
	if needContract {
		contract = requireContract(cfg)
	}
	return coinlock.NewService(dial(cfg), watchWallet(cfg), contract)
}

func requireContract(cfg *config.Config) coinlock.Contract {
	contract, err := coinlock.ContractFromConfig(cfg)
	if err != nil {
		fatal("%v", err)
	}
	return contract
}

// signingService unlocks the wallet and journals submissions. The returned
// func closes the journal.
func signingService(cfg *config.Config) (*coinlock.Service, func()) {
	contract := requireContract(cfg)
	client := dial(cfg)
	conn := unlockWallet(cfg, client)

	journal, err := history.Open(cfg.HistoryDir())
	if err != nil {
		fatal("%v", err)
	}
	svc := coinlock.NewService(client, conn, contract, coinlock.WithJournal(journal))
	return svc, func() { journal.Close() }
}

func commandContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}

// ── balance ─────────────────────────────────────────────────────────────

func cmdBalance(cfg *config.Config) {
	svc := readService(cfg, false)
	ctx, cancel := commandContext(cfg.RPC.Timeout)
	defer cancel()

	acct, err := svc.Account(ctx)
	if err != nil {
		fatal("%v", err)
	}
	fmt.Printf("Address: %s\n", acct.Address)
	fmt.Printf("Balance: %s SUI\n", format.FormatBalance(acct.Balance))
}

// ── locks ───────────────────────────────────────────────────────────────

func cmdLocks(cfg *config.Config) {
	svc := readService(cfg, true)
	ctx, cancel := commandContext(cfg.RPC.Timeout)
	defer cancel()

	rows, err := svc.Positions(ctx)
	if err != nil {
		fatal("%v", err)
	}
	if len(rows) == 0 {
		fmt.Println("No locks.")
		return
	}

	fmt.Printf("%-66s  %16s  %-17s  %-12s  %-17s  %-9s  %s\n",
		"LOCK", "AMOUNT", "START", "DURATION", "END", "STATUS", "NOTE")
	for _, p := range rows {
		status := "locked"
		if p.CanWithdraw() {
			status = "matured"
		}
		fmt.Printf("%-66s  %16s  %-17s  %-12s  %-17s  %-9s  %s\n",
			p.ID, p.AmountLabel(), p.Range.Start, p.Range.Duration, p.Range.End, status, p.NoteLabel())
	}
}

// ── lock ────────────────────────────────────────────────────────────────

func cmdLock(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("lock", flag.ExitOnError)
	amount := fs.String("amount", "", "Amount of SUI to lock")
	duration := fs.String("duration", coinlock.DefaultDurationKey, "Lock duration ("+durationKeys()+", or a Go duration)")
	note := fs.String("note", "", "Optional note stored with the lock")
	dryRun := fs.Bool("dry-run", false, "Simulate without submitting")
	fs.Parse(args)

	if *amount == "" {
		fatal("Usage: coinlock-cli lock --amount <sui> [--duration <d>] [--note <text>] [--dry-run]")
	}

	svc, closeJournal := signingService(cfg)
	defer closeJournal()
	ctx, cancel := commandContext(2 * cfg.RPC.Timeout)
	defer cancel()

	acct, err := svc.Account(ctx)
	if err != nil {
		fatal("%v", err)
	}

	// Same checks, in the same order, as the interactive dialog.
	dialog := coinlock.NewDialog(svc, nil, nil)
	dialog.Open()
	dialog.SetAmount(*amount)
	dialog.SetDuration(*duration)
	dialog.SetNote(*note)
	req, err := dialog.Validate(acct)
	if err != nil {
		fatal("%v", err)
	}
	req.DryRun = *dryRun

	opt, _ := coinlock.ParseDuration(*duration)
	res, err := svc.Lock(ctx, req)
	if err != nil {
		printFailure(res, err)
	}
	if res.DryRun {
		fmt.Printf("Dry run OK: lock %s SUI for %s (gas %s SUI)\n",
			format.FormatBalance(req.Amount), opt.Label, format.FormatBalance(res.GasUsed))
		return
	}
	fmt.Printf("Locked %s SUI for %s\n", format.FormatBalance(req.Amount), opt.Label)
	fmt.Printf("Digest: %s\n", res.Digest)
}

// ── withdraw ────────────────────────────────────────────────────────────

func cmdWithdraw(cfg *config.Config, args []string) {
	var id string
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		id, args = args[0], args[1:]
	}
	fs := flag.NewFlagSet("withdraw", flag.ExitOnError)
	dryRun := fs.Bool("dry-run", false, "Simulate without submitting")
	fs.Parse(args)
	if id == "" && fs.NArg() > 0 {
		id = fs.Arg(0)
	}
	if id == "" {
		fatal("Usage: coinlock-cli withdraw <lock-id> [--dry-run]")
	}
	lockID, err := types.ParseAddress(id)
	if err != nil {
		fatal("invalid lock id: %v", err)
	}

	svc, closeJournal := signingService(cfg)
	defer closeJournal()
	ctx, cancel := commandContext(2 * cfg.RPC.Timeout)
	defer cancel()

	res, err := svc.Withdraw(ctx, lockID, *dryRun)
	if err != nil {
		printFailure(res, err)
	}
	if res.DryRun {
		fmt.Printf("Dry run OK: withdraw %s (gas %s SUI)\n", lockID, format.FormatBalance(res.GasUsed))
		return
	}
	fmt.Printf("Withdrawn %s\n", lockID)
	fmt.Printf("Digest: %s\n", res.Digest)
}

func printFailure(res *coinlock.Result, err error) {
	var execErr *wallet.ExecutionError
	if errors.As(err, &execErr) && res != nil && res.Digest != "" {
		fmt.Fprintf(os.Stderr, "Digest: %s\n", res.Digest)
	}
	fatal("%v", err)
}

// ── history ─────────────────────────────────────────────────────────────

func cmdHistory(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	limit := fs.Int("limit", 20, "Maximum entries to show (0 = all)")
	clearAll := fs.Bool("clear", false, "Delete the local history")
	fs.Parse(args)

	journal, err := history.Open(cfg.HistoryDir())
	if err != nil {
		if errors.Is(err, storage.ErrLocked) {
			fatal("history is in use by another coinlock process")
		}
		fatal("%v", err)
	}
	defer journal.Close()

	switch {
	case *clearAll:
		if err := journal.Clear(); err != nil {
			fatal("clear history: %v", err)
		}
		fmt.Println("History cleared.")
		return
	case fs.NArg() > 0:
		e, err := journal.Get(fs.Arg(0))
		if err != nil {
			fatal("%v", err)
		}
		printEntry(*e)
		return
	}

	entries, err := journal.List(*limit)
	if err != nil {
		fatal("%v", err)
	}
	if len(entries) == 0 {
		fmt.Println("No transactions.")
		return
	}
	for _, e := range entries {
		printEntry(e)
	}
}

func printEntry(e history.Entry) {
	detail := ""
	switch e.Kind {
	case history.KindLock:
		detail = fmt.Sprintf("%s SUI for %s", format.FormatBalance(e.Amount), format.DurationLabel(e.DurationMs))
		if e.Note != "" {
			detail += fmt.Sprintf(" %q", e.Note)
		}
	case history.KindWithdraw:
		detail = e.LockID
	}
	fmt.Printf("%s  %-8s  %-7s  %s  %s\n",
		e.Time.In(time.Local).Format(format.DateTimeLayout), e.Kind, e.Status, e.Digest, detail)
	if e.Error != "" {
		fmt.Printf("    error: %s\n", e.Error)
	}
}

// ── tui ─────────────────────────────────────────────────────────────────

func cmdTUI(cfg *config.Config) {
	logFile := cfg.Log.File
	if logFile == "" {
		logFile = filepath.Join(cfg.LogsDir(), "tui.log")
	}
	if err := log.InitFileOnly(cfg.Log.Level, logFile); err != nil {
		fatal("init logging: %v", err)
	}

	svc, closeJournal := signingService(cfg)
	defer closeJournal()

	title := fmt.Sprintf("CoinLock · %s", cfg.Network)
	if err := tui.Run(svc, tui.WithTitle(title), tui.WithTimeout(2*cfg.RPC.Timeout)); err != nil {
		fatal("%v", err)
	}
}

// ── Password helper ─────────────────────────────────────────────────────

func readPassword(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr) // newline after hidden input
	if err != nil {
		return nil, err
	}
	return password, nil
}

func readNewPassword() []byte {
	password, err := readPassword("Enter password: ")
	if err != nil {
		fatal("read password: %v", err)
	}
	if len(password) == 0 {
		fatal("password must not be empty")
	}
	confirm, err := readPassword("Confirm password: ")
	if err != nil {
		fatal("read password: %v", err)
	}
	if string(password) != string(confirm) {
		fatal("passwords do not match")
	}
	return password
}

// ── Error helper ────────────────────────────────────────────────────────

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
