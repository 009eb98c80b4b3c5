package common

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestReadersBoundsChecked(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5, 6, 7, 8}

	if v, ok := U64(data, 0); !ok || v != 0x0807060504030201 {
		t.Fatalf("U64 = %x, ok=%v", v, ok)
	}
	if _, ok := U64(data, 1); ok {
		t.Fatal("U64 past end should fail")
	}
	if _, ok := U64(data, -1); ok {
		t.Fatal("U64 negative offset should fail")
	}
	if v, ok := U16(data, 2); !ok || v != 0x0403 {
		t.Fatalf("U16 = %x, ok=%v", v, ok)
	}
	if v, ok := U8(data, 7); !ok || v != 8 {
		t.Fatalf("U8 = %d, ok=%v", v, ok)
	}
	if _, ok := U8(data, 8); ok {
		t.Fatal("U8 past end should fail")
	}
}

func TestSignedReaders(t *testing.T) {
	buf := make([]byte, 12)
	binary.LittleEndian.PutUint64(buf, uint64(18446744073709551615)) // -1
	binary.LittleEndian.PutUint32(buf[8:], uint32(4294967290))       // -6

	if v, ok := I64(buf, 0); !ok || v != -1 {
		t.Fatalf("I64 = %d, ok=%v", v, ok)
	}
	if v, ok := I32(buf, 8); !ok || v != -6 {
		t.Fatalf("I32 = %d, ok=%v", v, ok)
	}
}

func TestReadU128(t *testing.T) {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint64(buf, 42)
	binary.LittleEndian.PutUint64(buf[8:], 7)

	v, ok := ReadU128(buf, 0)
	if !ok || v.Lo != 42 || v.Hi != 7 {
		t.Fatalf("ReadU128 = %+v, ok=%v", v, ok)
	}
	if _, ok := ReadU128(buf, 1); ok {
		t.Fatal("ReadU128 past end should fail")
	}
}

func TestReadString(t *testing.T) {
	var buf []byte
	buf = binary.LittleEndian.AppendUint32(buf, 5)
	buf = append(buf, "hello"...)
	buf = binary.LittleEndian.AppendUint32(buf, 3)
	buf = append(buf, "abc"...)

	s, n, ok := ReadString(buf, 0)
	if !ok || s != "hello" || n != 9 {
		t.Fatalf("ReadString = %q, n=%d, ok=%v", s, n, ok)
	}
	s, n, ok = ReadString(buf, 9)
	if !ok || s != "abc" || n != 7 {
		t.Fatalf("second ReadString = %q, n=%d, ok=%v", s, n, ok)
	}
	// Declared length overruns the buffer.
	bad := binary.LittleEndian.AppendUint32(nil, 100)
	if _, _, ok := ReadString(bad, 0); ok {
		t.Fatal("overlong string should fail")
	}
}

func TestOptionBool(t *testing.T) {
	val, present, n, ok := OptionBool([]byte{0}, 0)
	if !ok || present || val || n != 1 {
		t.Fatalf("absent option: val=%v present=%v n=%d ok=%v", val, present, n, ok)
	}
	val, present, n, ok = OptionBool([]byte{1, 1}, 0)
	if !ok || !present || !val || n != 2 {
		t.Fatalf("present option: val=%v present=%v n=%d ok=%v", val, present, n, ok)
	}
	if _, _, _, ok := OptionBool([]byte{1}, 0); ok {
		t.Fatal("truncated option should fail")
	}
}

func TestParseTokenExtensions(t *testing.T) {
	var buf []byte
	buf = binary.LittleEndian.AppendUint16(buf, ExtTransferFeeConfig)
	buf = binary.LittleEndian.AppendUint16(buf, 4)
	buf = append(buf, 0xde, 0xad, 0xbe, 0xef)
	buf = binary.LittleEndian.AppendUint16(buf, 0) // terminator

	exts, err := ParseTokenExtensions(buf)
	if err != nil {
		t.Fatalf("ParseTokenExtensions: %v", err)
	}
	if len(exts) != 1 || exts[0].Type != ExtTransferFeeConfig {
		t.Fatalf("unexpected extensions %+v", exts)
	}
	if !bytes.Equal(exts[0].Data, []byte{0xde, 0xad, 0xbe, 0xef}) {
		t.Fatalf("unexpected payload %x", exts[0].Data)
	}

	// Length overruns the remaining bytes.
	var bad []byte
	bad = binary.LittleEndian.AppendUint16(bad, ExtTransferFeeConfig)
	bad = binary.LittleEndian.AppendUint16(bad, 64)
	if _, err := ParseTokenExtensions(bad); err == nil {
		t.Fatal("expected truncation error")
	}
}
