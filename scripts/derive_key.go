// derive_key.go prints the scheme, public key and Sui address of a private
// key file. The file holds a suiprivkey1... string or, with -scheme, 32
// hex-encoded bytes.
// Usage: go run scripts/derive_key.go [-scheme ed25519|secp256k1] <keyfile>
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/Klingon-tech/coinlock/pkg/crypto"
)

func main() {
	schemeName := flag.String("scheme", "", "scheme of a hex key (ed25519, secp256k1)")
	flag.Parse()
	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: derive_key [-scheme ed25519|secp256k1] <keyfile>")
		os.Exit(1)
	}
	data, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		fail(err)
	}
	text := strings.TrimSpace(string(data))

	var key crypto.Keypair
	if strings.HasPrefix(text, crypto.PrivateKeyHRP) {
		key, err = crypto.DecodePrivateKey(text)
	} else {
		var scheme crypto.Scheme
		scheme, err = crypto.ParseScheme(*schemeName)
		if err != nil {
			fail(err)
		}
		var raw []byte
		raw, err = hex.DecodeString(strings.TrimPrefix(text, "0x"))
		if err != nil {
			fail(err)
		}
		key, err = crypto.NewKeypair(scheme, raw)
	}
	if err != nil {
		fail(err)
	}

	encoded, err := crypto.EncodePrivateKey(key)
	if err != nil {
		fail(err)
	}
	fmt.Printf("scheme=%s\n", key.Scheme())
	fmt.Printf("pubkey=%s\n", hex.EncodeToString(key.PublicKey()))
	fmt.Printf("address=%s\n", key.Address())
	fmt.Printf("suiprivkey=%s\n", encoded)
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
