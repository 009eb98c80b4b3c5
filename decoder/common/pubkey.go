package common

import (
	"fmt"

	"github.com/mr-tron/base58/base58"
)

// PubkeyLen is the byte length of a Solana public key.
const PubkeyLen = 32

// Pubkey is a 32-byte Solana public key.
type Pubkey [PubkeyLen]byte

// ParsePubkey decodes a base58-encoded public key.
func ParsePubkey(s string) (Pubkey, error) {
	var pk Pubkey
	raw, err := base58.Decode(s)
	if err != nil {
		return pk, fmt.Errorf("decode pubkey %q: %w", s, err)
	}
	if len(raw) != PubkeyLen {
		return pk, fmt.Errorf("pubkey %q has %d bytes, want %d", s, len(raw), PubkeyLen)
	}
	copy(pk[:], raw)
	return pk, nil
}

// MustPubkey decodes a base58 public key and panics on failure. Intended for
// package-level program ID constants.
func MustPubkey(s string) Pubkey {
	pk, err := ParsePubkey(s)
	if err != nil {
		panic(err)
	}
	return pk
}

// PubkeyFromBytes copies a 32-byte slice into a Pubkey. Short or long input
// returns the zero key.
func PubkeyFromBytes(b []byte) Pubkey {
	var pk Pubkey
	if len(b) == PubkeyLen {
		copy(pk[:], b)
	}
	return pk
}

// String returns the base58 encoding of the key.
func (p Pubkey) String() string {
	return base58.Encode(p[:])
}

// IsZero reports whether the key is all zeros (the system default key).
func (p Pubkey) IsZero() bool {
	return p == Pubkey{}
}

// MarshalJSON encodes the key as a base58 string.
func (p Pubkey) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.String() + `"`), nil
}

// UnmarshalJSON decodes a base58 string into the key.
func (p *Pubkey) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("pubkey: expected JSON string, got %s", data)
	}
	pk, err := ParsePubkey(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*p = pk
	return nil
}
