package common

import (
	"errors"
	"fmt"
)

// Decoders report failure as values rather than aborting the stream. A nil
// event with a nil error means the payload was recognized but carries no
// event (skip). ErrUnknownDiscriminator means the discriminator is not one
// this decoder version knows. A *MalformedError means the discriminator
// matched but the remaining bytes failed length or bounds validation.

// ErrUnknownDiscriminator is returned when the leading discriminator bytes
// do not match any decodable unit of the protocol. Expected under protocol
// evolution; counted separately from malformed payloads.
var ErrUnknownDiscriminator = errors.New("unknown discriminator")

// MalformedError describes a payload whose discriminator was recognized but
// whose fields failed validation.
type MalformedError struct {
	Unit string // instruction or account kind being decoded
	Err  error
}

func (e *MalformedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed %s: %v", e.Unit, e.Err)
	}
	return fmt.Sprintf("malformed %s", e.Unit)
}

func (e *MalformedError) Unwrap() error { return e.Err }

// Malformedf builds a *MalformedError for the named unit.
func Malformedf(unit, format string, args ...any) *MalformedError {
	return &MalformedError{Unit: unit, Err: fmt.Errorf(format, args...)}
}

// Truncated is shorthand for the most common malformed case.
func Truncated(unit string, got, want int) *MalformedError {
	return &MalformedError{Unit: unit, Err: fmt.Errorf("data too short: got %d bytes, need %d", got, want)}
}

// IsMalformed reports whether err carries a *MalformedError.
func IsMalformed(err error) bool {
	var me *MalformedError
	return errors.As(err, &me)
}

// AnchorEventPrefix is the 8-byte marker emitted ahead of Anchor CPI event
// logs ("Program data" self-CPI instructions). The event-specific
// discriminator follows it.
var AnchorEventPrefix = []byte{228, 69, 165, 46, 81, 203, 154, 29}
