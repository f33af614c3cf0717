package types

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestAddress_IsZero(t *testing.T) {
	var zero Address
	if !zero.IsZero() {
		t.Error("zero-value Address should be zero")
	}
	if (Address{0x01}).IsZero() {
		t.Error("non-zero Address should not be zero")
	}
}

func TestAddress_String(t *testing.T) {
	var a Address
	a[31] = 0x06
	s := a.String()
	if len(s) != 66 {
		t.Errorf("String() length = %d, want 66", len(s))
	}
	if !strings.HasPrefix(s, "0x000000") || !strings.HasSuffix(s, "06") {
		t.Errorf("String() = %s", s)
	}
}

func TestParseAddress_Short(t *testing.T) {
	a, err := ParseAddress("0x6")
	if err != nil {
		t.Fatalf("ParseAddress: %v", err)
	}
	if a != ClockObjectID {
		t.Errorf("0x6 = %s, want clock id", a)
	}
	if a[31] != 0x06 {
		t.Errorf("last byte = %x, want 06", a[31])
	}
}

func TestParseAddress(t *testing.T) {
	full := "0x" + strings.Repeat("ab", 32)
	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{"full", full, false},
		{"no prefix", strings.Repeat("ab", 32), false},
		{"upper prefix", "0X2", false},
		{"empty", "", true},
		{"prefix only", "0x", true},
		{"too long", "0x" + strings.Repeat("ab", 33), true},
		{"not hex", "0xzz", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAddress(tt.in)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseAddress(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
		})
	}
}

func TestAddress_JSON(t *testing.T) {
	a := MustParseAddress("0x2")
	data, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var back Address
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back != a {
		t.Errorf("roundtrip = %s, want %s", back, a)
	}
}

func TestAddress_Short(t *testing.T) {
	a := MustParseAddress("0x" + strings.Repeat("0", 60) + "beef")
	if got := a.Short(); got != "0x0000…beef" {
		t.Errorf("Short() = %q", got)
	}
}

func TestDigest_ParseString(t *testing.T) {
	var d Digest
	for i := range d {
		d[i] = byte(i + 1)
	}
	parsed, err := ParseDigest(d.String())
	if err != nil {
		t.Fatalf("ParseDigest: %v", err)
	}
	if parsed != d {
		t.Error("digest roundtrip mismatch")
	}

	if _, err := ParseDigest("3yZe7d"); err == nil {
		t.Error("short digest should fail")
	}
	if _, err := ParseDigest("0OIl"); err == nil {
		t.Error("non-base58 digest should fail")
	}
}

func TestObjectRef_String(t *testing.T) {
	r := ObjectRef{ObjectID: MustParseAddress("0x6"), Version: 7}
	if !strings.HasSuffix(r.String(), "06@7") {
		t.Errorf("String() = %s", r.String())
	}
}
