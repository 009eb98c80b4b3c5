package common

import "encoding/binary"

// Bounds-checked little-endian field readers. Every decoder parses fixed
// layouts through these so that truncated payloads surface as a failed read
// instead of a panic.

// U8 reads a byte at off.
func U8(data []byte, off int) (uint8, bool) {
	if off < 0 || off+1 > len(data) {
		return 0, false
	}
	return data[off], true
}

// U16 reads a little-endian uint16 at off.
func U16(data []byte, off int) (uint16, bool) {
	if off < 0 || off+2 > len(data) {
		return 0, false
	}
	return binary.LittleEndian.Uint16(data[off:]), true
}

// U32 reads a little-endian uint32 at off.
func U32(data []byte, off int) (uint32, bool) {
	if off < 0 || off+4 > len(data) {
		return 0, false
	}
	return binary.LittleEndian.Uint32(data[off:]), true
}

// U64 reads a little-endian uint64 at off.
func U64(data []byte, off int) (uint64, bool) {
	if off < 0 || off+8 > len(data) {
		return 0, false
	}
	return binary.LittleEndian.Uint64(data[off:]), true
}

// I32 reads a little-endian int32 at off.
func I32(data []byte, off int) (int32, bool) {
	v, ok := U32(data, off)
	return int32(v), ok
}

// I64 reads a little-endian int64 at off.
func I64(data []byte, off int) (int64, bool) {
	v, ok := U64(data, off)
	return int64(v), ok
}

// U128 is a 128-bit unsigned integer stored as two u64 limbs, the layout
// on-chain programs use for Q64.64 fixed-point prices and liquidity.
type U128 struct {
	Lo uint64
	Hi uint64
}

// ReadU128 reads a little-endian u128 at off.
func ReadU128(data []byte, off int) (U128, bool) {
	if off < 0 || off+16 > len(data) {
		return U128{}, false
	}
	return U128{
		Lo: binary.LittleEndian.Uint64(data[off:]),
		Hi: binary.LittleEndian.Uint64(data[off+8:]),
	}, true
}

// Bool reads a single-byte boolean at off.
func Bool(data []byte, off int) (bool, bool) {
	v, ok := U8(data, off)
	return v != 0, ok
}

// OptionBool reads a borsh Option<bool>: a presence byte followed by the
// value byte when present. Returns the consumed length.
func OptionBool(data []byte, off int) (val bool, present bool, n int, ok bool) {
	tag, okTag := U8(data, off)
	if !okTag {
		return false, false, 0, false
	}
	if tag == 0 {
		return false, false, 1, true
	}
	v, okVal := U8(data, off+1)
	if !okVal {
		return false, false, 0, false
	}
	return v != 0, true, 2, true
}

// ReadPubkey reads a 32-byte public key at off.
func ReadPubkey(data []byte, off int) (Pubkey, bool) {
	if off < 0 || off+PubkeyLen > len(data) {
		return Pubkey{}, false
	}
	return PubkeyFromBytes(data[off : off+PubkeyLen]), true
}

// ReadString reads a borsh string: u32 length prefix followed by UTF-8
// bytes. Returns the string and the total consumed length.
func ReadString(data []byte, off int) (string, int, bool) {
	n, ok := U32(data, off)
	if !ok {
		return "", 0, false
	}
	end := off + 4 + int(n)
	if end > len(data) || end < off {
		return "", 0, false
	}
	return string(data[off+4 : end]), 4 + int(n), true
}
