package main

import (
	"flag"
	"fmt"

	"github.com/Klingon-tech/coinlock/config"
	"github.com/Klingon-tech/coinlock/internal/wallet"
	"github.com/Klingon-tech/coinlock/pkg/crypto"
)

const walletUsage = "Usage: coinlock-cli wallet <create|import|import-key|list|address> [flags]"

func cmdWallet(cfg *config.Config, args []string) {
	if len(args) < 1 {
		fatal(walletUsage)
	}

	switch args[0] {
	case "create":
		cmdWalletCreate(cfg, args[1:])
	case "import":
		cmdWalletImport(cfg, args[1:])
	case "import-key":
		cmdWalletImportKey(cfg, args[1:])
	case "list":
		cmdWalletList(cfg)
	case "address":
		cmdWalletAddress(cfg)
	default:
		fatal("Unknown wallet command: %s\n%s", args[0], walletUsage)
	}
}

func cmdWalletCreate(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("wallet create", flag.ExitOnError)
	name := fs.String("name", cfg.Wallet.Name, "Wallet name")
	schemeName := fs.String("scheme", "ed25519", "Key scheme (ed25519, secp256k1)")
	words := fs.Int("words", 24, "Mnemonic length (12 or 24)")
	fs.Parse(args)

	scheme, err := crypto.ParseScheme(*schemeName)
	if err != nil {
		fatal("%v", err)
	}
	ks := openKeystore(cfg)
	if ks.Exists(*name) {
		fatal("wallet %q already exists", *name)
	}

	mnemonic, err := wallet.GenerateMnemonic(*words)
	if err != nil {
		fatal("generate mnemonic: %v", err)
	}

	fmt.Println("Mnemonic (write this down!):")
	fmt.Printf("  %s\n\n", mnemonic)

	password := readNewPassword()
	createFromMnemonic(ks, *name, mnemonic, scheme, password)
	fmt.Printf("\nWallet created: %s\n", *name)
}

func cmdWalletImport(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("wallet import", flag.ExitOnError)
	name := fs.String("name", cfg.Wallet.Name, "Wallet name")
	mnemonic := fs.String("mnemonic", "", "BIP-39 mnemonic (12 or 24 words)")
	schemeName := fs.String("scheme", "ed25519", "Key scheme (ed25519, secp256k1)")
	fs.Parse(args)

	if *mnemonic == "" {
		fatal("Usage: coinlock-cli wallet import --name <name> --mnemonic \"word1 word2 ...\"")
	}
	if !wallet.ValidateMnemonic(*mnemonic) {
		fatal("invalid mnemonic")
	}
	scheme, err := crypto.ParseScheme(*schemeName)
	if err != nil {
		fatal("%v", err)
	}

	password := readNewPassword()
	createFromMnemonic(openKeystore(cfg), *name, *mnemonic, scheme, password)
	fmt.Printf("Wallet imported: %s\n", *name)
}

func createFromMnemonic(ks *wallet.Keystore, name, mnemonic string, scheme crypto.Scheme, password []byte) {
	seed, err := wallet.SeedFromMnemonic(mnemonic, "")
	if err != nil {
		fatal("derive seed: %v", err)
	}
	acct, err := ks.Create(name, seed, scheme, password, wallet.DefaultParams())
	for i := range seed {
		seed[i] = 0
	}
	if err != nil {
		fatal("create wallet: %v", err)
	}
	fmt.Printf("Address: %s\n", acct.Address)
}

func cmdWalletImportKey(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("wallet import-key", flag.ExitOnError)
	name := fs.String("name", cfg.Wallet.Name, "Wallet name")
	key := fs.String("key", "", "Private key (suiprivkey1...); prompted when omitted")
	fs.Parse(args)

	encoded := *key
	if encoded == "" {
		b, err := readPassword("Private key: ")
		if err != nil {
			fatal("read key: %v", err)
		}
		encoded = string(b)
	}
	kp, err := crypto.DecodePrivateKey(encoded)
	if err != nil {
		fatal("%v", err)
	}

	password := readNewPassword()
	acct, err := openKeystore(cfg).Import(*name, kp, password, wallet.DefaultParams())
	if err != nil {
		fatal("import key: %v", err)
	}
	fmt.Printf("Wallet imported: %s\n", *name)
	fmt.Printf("Address: %s\n", acct.Address)
}

func cmdWalletList(cfg *config.Config) {
	ks := openKeystore(cfg)
	names, err := ks.List()
	if err != nil {
		fatal("list wallets: %v", err)
	}
	if len(names) == 0 {
		fmt.Println("No wallets found.")
		return
	}

	for _, name := range names {
		info, err := ks.Info(name)
		if err != nil {
			fmt.Printf("%-16s  (unreadable: %v)\n", name, err)
			continue
		}
		addr := ""
		if len(info.Accounts) > 0 {
			addr = info.Accounts[0].Address
		}
		marker := " "
		if name == cfg.Wallet.Name {
			marker = "*"
		}
		fmt.Printf("%s %-16s  %-9s  %-7s  %s\n", marker, name, info.Scheme, info.Kind, addr)
	}
}

func cmdWalletAddress(cfg *config.Config) {
	w := watchWallet(cfg)
	fmt.Println(w.addr)
}
