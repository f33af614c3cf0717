package wallet

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"
)

func TestGenerateMnemonic_WordCounts(t *testing.T) {
	for _, words := range []int{12, 24} {
		mnemonic, err := GenerateMnemonic(words)
		if err != nil {
			t.Fatalf("GenerateMnemonic(%d) error: %v", words, err)
		}
		if got := len(strings.Fields(mnemonic)); got != words {
			t.Errorf("word count = %d, want %d", got, words)
		}
		if !ValidateMnemonic(mnemonic) {
			t.Errorf("generated %d-word mnemonic should validate", words)
		}
	}
	if _, err := GenerateMnemonic(15); err == nil {
		t.Error("GenerateMnemonic(15) should fail")
	}
}

func TestGenerateMnemonic_Unique(t *testing.T) {
	m1, _ := GenerateMnemonic(12)
	m2, _ := GenerateMnemonic(12)
	if m1 == m2 {
		t.Error("two generated mnemonics should not be identical")
	}
}

func TestValidateMnemonic(t *testing.T) {
	tests := []struct {
		name     string
		mnemonic string
		valid    bool
	}{
		{"valid 12-word", "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about", true},
		{"valid 24-word", suiTestMnemonic, true},
		{"pasted", "  Abandon abandon ABANDON abandon abandon abandon\nabandon abandon abandon abandon abandon about ", true},
		{"empty string", "", false},
		{"random words", "not a valid mnemonic phrase at all", false},
		{"wrong checksum", "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateMnemonic(tt.mnemonic); got != tt.valid {
				t.Errorf("ValidateMnemonic() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestSeedFromMnemonic_KnownVector(t *testing.T) {
	// BIP-39 test vector: "abandon" x11 + "about", passphrase "TREZOR".
	mnemonic := "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

	seed, err := SeedFromMnemonic(mnemonic, "TREZOR")
	if err != nil {
		t.Fatalf("SeedFromMnemonic() error: %v", err)
	}

	want, _ := hex.DecodeString("c55257c360c07c72029aebc1b53c05ed0362ada38ead3e3e9efa3708e53495531f09a6987599d18264c1e1c92f2cf141630c7a3c4ab7c81b2f001698e7463b04")
	if !bytes.Equal(seed, want) {
		t.Errorf("seed = %x, want %x", seed, want)
	}
}

func TestSeedFromMnemonic_Normalizes(t *testing.T) {
	clean := "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	messy := "  Abandon abandon ABANDON abandon abandon abandon\nabandon abandon abandon abandon abandon   about "

	s1, err := SeedFromMnemonic(clean, "")
	if err != nil {
		t.Fatal(err)
	}
	s2, err := SeedFromMnemonic(messy, "")
	if err != nil {
		t.Fatalf("messy mnemonic should normalize: %v", err)
	}
	if !bytes.Equal(s1, s2) {
		t.Error("normalized mnemonic should give the same seed")
	}
}

func TestSeedFromMnemonic_PassphraseChanges(t *testing.T) {
	seed1, _ := SeedFromMnemonic(suiTestMnemonic, "")
	seed2, _ := SeedFromMnemonic(suiTestMnemonic, "my passphrase")
	if len(seed1) != SeedSize || bytes.Equal(seed1, seed2) {
		t.Error("different passphrases should produce different seeds")
	}
}

func TestSeedFromMnemonic_Invalid(t *testing.T) {
	for _, m := range []string{"", "not valid words here"} {
		if _, err := SeedFromMnemonic(m, ""); err == nil {
			t.Errorf("SeedFromMnemonic(%q) should fail", m)
		}
	}
}
