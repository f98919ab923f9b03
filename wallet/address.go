package wallet

import (
	"fmt"
	"strings"
)

// AddressVersion is the payload version byte of a decoded address.
type AddressVersion byte

const (
	// VersionPubKey is a 32-byte schnorr public key payload.
	VersionPubKey AddressVersion = 0
	// VersionPubKeyECDSA is a 33-byte compressed ECDSA public key payload.
	VersionPubKeyECDSA AddressVersion = 1
	// VersionScriptHash is a 32-byte blake2b-256 script hash payload.
	VersionScriptHash AddressVersion = 8
)

// Script opcodes used by the three standard locking script forms.
const (
	opData32        = 0x20
	opData33        = 0x21
	opEqual         = 0x87
	opBlake2b       = 0xaa
	opCheckSigECDSA = 0xab
	opCheckSig      = 0xac
)

// Address is a decoded network address: a human-readable prefix plus a
// version-tagged payload. It carries exactly what the transaction builder
// needs to produce a locking script, nothing more.
type Address struct {
	Prefix  string
	Version AddressVersion
	Payload []byte
}

// charset is the base32 alphabet shared by the bech32/cashaddr family.
const charset = "qpzry9x8gf2tvdw0s3jn54khce6mua7l"

// charsetRev maps an alphabet character back to its 5-bit value, -1 for
// characters outside the alphabet.
var charsetRev [128]int8

func init() {
	for i := range charsetRev {
		charsetRev[i] = -1
	}
	for i, c := range charset {
		charsetRev[c] = int8(i)
	}
}

// payloadLen gives the required payload size per version.
func payloadLen(v AddressVersion) (int, bool) {
	switch v {
	case VersionPubKey, VersionScriptHash:
		return 32, true
	case VersionPubKeyECDSA:
		return 33, true
	}
	return 0, false
}

// DecodeAddress parses a "prefix:payload" address string, verifying the
// 40-bit polymod checksum and the version/payload-length pairing.
func DecodeAddress(addr string) (*Address, error) {
	idx := strings.IndexByte(addr, ':')
	if idx <= 0 || idx == len(addr)-1 {
		return nil, fmt.Errorf("%w: missing prefix separator", ErrInvalidAddress)
	}
	prefix, encoded := addr[:idx], addr[idx+1:]
	if prefix != strings.ToLower(prefix) {
		return nil, fmt.Errorf("%w: prefix must be lowercase", ErrInvalidAddress)
	}

	data := make([]byte, 0, len(encoded))
	for i := 0; i < len(encoded); i++ {
		c := encoded[i]
		if c >= 128 || charsetRev[c] < 0 {
			return nil, fmt.Errorf("%w: character %q at position %d", ErrInvalidAddress, c, i)
		}
		data = append(data, byte(charsetRev[c]))
	}
	if len(data) < checksumLen {
		return nil, fmt.Errorf("%w: too short", ErrInvalidAddress)
	}

	if polymod(checksumInput(prefix, data)) != 0 {
		return nil, ErrChecksumMismatch
	}

	packed, err := convertBits(data[:len(data)-checksumLen], 5, 8, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	if len(packed) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidAddress)
	}

	version := AddressVersion(packed[0])
	payload := packed[1:]
	want, ok := payloadLen(version)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownAddressVersion, version)
	}
	if len(payload) != want {
		return nil, fmt.Errorf("%w: version %d wants %d payload bytes, got %d",
			ErrInvalidAddress, version, want, len(payload))
	}

	return &Address{Prefix: prefix, Version: version, Payload: payload}, nil
}

// EncodeAddress renders an address struct back to its string form.
func EncodeAddress(a *Address) (string, error) {
	want, ok := payloadLen(a.Version)
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrUnknownAddressVersion, a.Version)
	}
	if len(a.Payload) != want {
		return "", fmt.Errorf("%w: version %d wants %d payload bytes, got %d",
			ErrInvalidAddress, a.Version, want, len(a.Payload))
	}

	packed := append([]byte{byte(a.Version)}, a.Payload...)
	data, err := convertBits(packed, 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}

	chk := polymod(checksumInput(a.Prefix, append(data, make([]byte, checksumLen)...)))
	var sb strings.Builder
	sb.WriteString(a.Prefix)
	sb.WriteByte(':')
	for _, d := range data {
		sb.WriteByte(charset[d])
	}
	for i := 0; i < checksumLen; i++ {
		sb.WriteByte(charset[(chk>>uint(5*(checksumLen-1-i)))&0x1f])
	}
	return sb.String(), nil
}

// String implements fmt.Stringer. Encoding an Address produced by
// DecodeAddress cannot fail, so errors degrade to an empty string.
func (a *Address) String() string {
	s, err := EncodeAddress(a)
	if err != nil {
		return ""
	}
	return s
}

// ScriptVersion returns the script version paired with the locking script.
// All standard forms use version 0.
func (a *Address) ScriptVersion() uint16 { return 0 }

// Script builds the locking script paying to this address.
func (a *Address) Script() []byte {
	switch a.Version {
	case VersionPubKey:
		s := make([]byte, 0, 34)
		s = append(s, opData32)
		s = append(s, a.Payload...)
		return append(s, opCheckSig)
	case VersionPubKeyECDSA:
		s := make([]byte, 0, 35)
		s = append(s, opData33)
		s = append(s, a.Payload...)
		return append(s, opCheckSigECDSA)
	case VersionScriptHash:
		s := make([]byte, 0, 35)
		s = append(s, opBlake2b, opData32)
		s = append(s, a.Payload...)
		return append(s, opEqual)
	}
	// Unreachable for addresses built by DecodeAddress.
	return nil
}

// checksumLen is the number of 5-bit groups in the 40-bit checksum.
const checksumLen = 8

// checksumInput assembles the polymod input: the prefix's low 5 bits per
// character, a zero separator, then the payload groups.
func checksumInput(prefix string, data []byte) []byte {
	out := make([]byte, 0, len(prefix)+1+len(data))
	for i := 0; i < len(prefix); i++ {
		out = append(out, prefix[i]&0x1f)
	}
	out = append(out, 0)
	return append(out, data...)
}

// polymod is the 40-bit BCH checksum over 5-bit groups used by the
// cashaddr address family.
func polymod(values []byte) uint64 {
	c := uint64(1)
	for _, d := range values {
		c0 := c >> 35
		c = ((c & 0x07ffffffff) << 5) ^ uint64(d)
		if c0&0x01 != 0 {
			c ^= 0x98f2bc8e61
		}
		if c0&0x02 != 0 {
			c ^= 0x79b76d99e2
		}
		if c0&0x04 != 0 {
			c ^= 0xf33e5fb3c4
		}
		if c0&0x08 != 0 {
			c ^= 0xae2eabe2a8
		}
		if c0&0x10 != 0 {
			c ^= 0x1e4f43e470
		}
	}
	return c ^ 1
}

// convertBits regroups a byte slice between bit widths. Padding is allowed
// when widening the output (encode) and rejected when narrowing (decode),
// where leftover non-zero bits indicate corruption.
func convertBits(data []byte, fromBits, toBits uint, pad bool) ([]byte, error) {
	var acc, bits uint
	maxv := uint(1)<<toBits - 1
	out := make([]byte, 0, len(data)*int(fromBits)/int(toBits)+1)

	for i, b := range data {
		if uint(b)>>fromBits != 0 {
			return nil, fmt.Errorf("value %d at position %d exceeds %d bits", b, i, fromBits)
		}
		acc = acc<<fromBits | uint(b)
		bits += fromBits
		for bits >= toBits {
			bits -= toBits
			out = append(out, byte(acc>>bits&maxv))
		}
	}

	if pad {
		if bits > 0 {
			out = append(out, byte(acc<<(toBits-bits)&maxv))
		}
	} else if bits >= fromBits || acc<<(toBits-bits)&maxv != 0 {
		return nil, fmt.Errorf("invalid padding")
	}
	return out, nil
}
