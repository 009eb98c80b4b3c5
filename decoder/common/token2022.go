package common

// Token-2022 appends structured extension records to the base account
// layout as a TLV sequence: extension type (u16 LE), length (u16 LE),
// payload. Account decoders hand the trailing bytes here and surface the
// records on the decoded event.

// TokenExtension is one decoded Token-2022 extension record.
type TokenExtension struct {
	Type uint16
	Data []byte
}

// Extension type identifiers for the records the decoders inspect.
const (
	ExtTransferFeeConfig   uint16 = 1
	ExtMintCloseAuthority  uint16 = 3
	ExtDefaultAccountState uint16 = 6
	ExtPermanentDelegate   uint16 = 12
	ExtTransferHook        uint16 = 14
	ExtMetadataPointer     uint16 = 18
	ExtTokenMetadata       uint16 = 19
)

// ParseTokenExtensions decodes a TLV extension tail. A zero-type record
// terminates the sequence (padding); a record whose declared length runs
// past the buffer makes the tail malformed.
func ParseTokenExtensions(tail []byte) ([]TokenExtension, error) {
	var exts []TokenExtension
	off := 0
	for off+4 <= len(tail) {
		extType, _ := U16(tail, off)
		extLen, _ := U16(tail, off+2)
		if extType == 0 {
			break
		}
		end := off + 4 + int(extLen)
		if end > len(tail) {
			return nil, Truncated("token-2022 extension", len(tail), end)
		}
		exts = append(exts, TokenExtension{
			Type: extType,
			Data: tail[off+4 : end],
		})
		off = end
	}
	return exts, nil
}
