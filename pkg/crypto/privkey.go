package crypto

import (
	"fmt"
	"strings"
)

// PrivateKeyHRP is the bech32 prefix of exported private keys.
const PrivateKeyHRP = "suiprivkey"

// EncodePrivateKey exports a keypair as "suiprivkey1…" (bech32 of flag || key).
func EncodePrivateKey(k Keypair) (string, error) {
	data := make([]byte, 0, 1+PrivateKeySize)
	data = append(data, byte(k.Scheme()))
	data = append(data, k.PrivateKey()...)
	return bech32Encode(PrivateKeyHRP, data)
}

// DecodePrivateKey imports a "suiprivkey1…" string.
func DecodePrivateKey(s string) (Keypair, error) {
	hrp, data, err := bech32Decode(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("decode private key: %w", err)
	}
	if hrp != PrivateKeyHRP {
		return nil, fmt.Errorf("private key prefix %q, want %q", hrp, PrivateKeyHRP)
	}
	if len(data) != 1+PrivateKeySize {
		return nil, fmt.Errorf("private key payload is %d bytes, want %d", len(data), 1+PrivateKeySize)
	}
	return NewKeypair(Scheme(data[0]), data[1:])
}

// ── bech32 (BIP-173) ─────────────────────────────────────────────────────

const bech32Charset = "qpzry9x8gf2tvdw0s3jn54khce6mua7l"

var bech32CharsetRev [128]int8

func init() {
	for i := range bech32CharsetRev {
		bech32CharsetRev[i] = -1
	}
	for i, c := range bech32Charset {
		bech32CharsetRev[c] = int8(i)
	}
}

func bech32Encode(hrp string, data []byte) (string, error) {
	if hrp == "" {
		return "", fmt.Errorf("bech32: empty HRP")
	}
	conv, err := convertBits(data, 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("bech32: %w", err)
	}
	values := append(hrpExpand(hrp), conv...)
	mod := polymod(append(values, 0, 0, 0, 0, 0, 0)) ^ 1

	var sb strings.Builder
	sb.Grow(len(hrp) + 1 + len(conv) + 6)
	sb.WriteString(hrp)
	sb.WriteByte('1')
	for _, b := range conv {
		sb.WriteByte(bech32Charset[b])
	}
	for i := 0; i < 6; i++ {
		sb.WriteByte(bech32Charset[(mod>>uint(5*(5-i)))&31])
	}
	return sb.String(), nil
}

func bech32Decode(s string) (string, []byte, error) {
	if strings.ToLower(s) != s && strings.ToUpper(s) != s {
		return "", nil, fmt.Errorf("bech32: mixed case")
	}
	s = strings.ToLower(s)

	sep := strings.LastIndex(s, "1")
	if sep < 1 || sep+7 > len(s) {
		return "", nil, fmt.Errorf("bech32: missing separator or too short")
	}
	hrp, rest := s[:sep], s[sep+1:]

	data5 := make([]byte, len(rest))
	for i, c := range rest {
		if c > 127 || bech32CharsetRev[c] < 0 {
			return "", nil, fmt.Errorf("bech32: invalid character %q", c)
		}
		data5[i] = byte(bech32CharsetRev[c])
	}
	if polymod(append(hrpExpand(hrp), data5...)) != 1 {
		return "", nil, fmt.Errorf("bech32: invalid checksum")
	}

	data8, err := convertBits(data5[:len(data5)-6], 5, 8, false)
	if err != nil {
		return "", nil, fmt.Errorf("bech32: %w", err)
	}
	return hrp, data8, nil
}

func polymod(values []byte) uint32 {
	gen := [5]uint32{0x3b6a57b2, 0x26508e6d, 0x1ea119fa, 0x3d4233dd, 0x2a1462b3}
	chk := uint32(1)
	for _, v := range values {
		top := chk >> 25
		chk = (chk&0x1ffffff)<<5 ^ uint32(v)
		for i := 0; i < 5; i++ {
			if (top>>uint(i))&1 == 1 {
				chk ^= gen[i]
			}
		}
	}
	return chk
}

func hrpExpand(hrp string) []byte {
	out := make([]byte, 0, len(hrp)*2+1)
	for _, c := range hrp {
		out = append(out, byte(c>>5))
	}
	out = append(out, 0)
	for _, c := range hrp {
		out = append(out, byte(c&31))
	}
	return out
}

// convertBits regroups bits, e.g. 8-bit bytes into 5-bit bech32 symbols.
func convertBits(data []byte, fromBits, toBits uint, pad bool) ([]byte, error) {
	var acc uint32
	var bits uint
	maxv := uint32(1)<<toBits - 1
	var out []byte

	for _, b := range data {
		if uint32(b)>>fromBits != 0 {
			return nil, fmt.Errorf("invalid data byte: %d", b)
		}
		acc = acc<<fromBits | uint32(b)
		bits += fromBits
		for bits >= toBits {
			bits -= toBits
			out = append(out, byte((acc>>bits)&maxv))
		}
	}

	switch {
	case pad && bits > 0:
		out = append(out, byte((acc<<(toBits-bits))&maxv))
	case !pad && (bits >= fromBits || (acc<<(toBits-bits))&maxv != 0):
		return nil, fmt.Errorf("non-zero padding")
	}
	return out, nil
}
