package sourcemap

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a mappings decode failure.
type ErrorKind uint8

const (
	// OutOfInput means the buffer ended inside a VLQ value.
	OutOfInput ErrorKind = iota + 1
	// InvalidDigit means a byte outside the Base64 alphabet was found where a
	// VLQ digit was expected.
	InvalidDigit
	// MalformedSegment means a segment carried a field count other than 1, 4
	// or 5.
	MalformedSegment
	// Overflow means a VLQ value, or the running total it is added to,
	// exceeded ±math.MaxInt32.
	Overflow
)

func (k ErrorKind) String() string {
	switch k {
	case OutOfInput:
		return "out of input"
	case InvalidDigit:
		return "invalid digit"
	case MalformedSegment:
		return "malformed segment"
	case Overflow:
		return "overflow"
	default:
		return "unknown"
	}
}

// Sentinel errors matched by errors.Is against a *DecodeError.
var (
	ErrOutOfInput       = errors.New("sourcemap: unexpected end of mappings")
	ErrInvalidDigit     = errors.New("sourcemap: invalid base64 VLQ digit")
	ErrMalformedSegment = errors.New("sourcemap: malformed segment")
	ErrOverflow         = errors.New("sourcemap: VLQ value out of range")
)

// DecodeError reports where and why decoding stopped.
// Every mapping before Offset has already been delivered to the sink.
type DecodeError struct {
	Kind   ErrorKind
	Offset int  // byte offset in the mappings buffer
	Byte   byte // offending byte, for InvalidDigit
	Fields int  // fields seen in the segment, for MalformedSegment (6 means "more than 5")
}

func (e *DecodeError) Error() string {
	switch e.Kind {
	case InvalidDigit:
		return fmt.Sprintf("%v %q at offset %d", e.Unwrap(), e.Byte, e.Offset)
	case MalformedSegment:
		if e.Fields > 5 {
			return fmt.Sprintf("%v at offset %d: more than 5 fields", e.Unwrap(), e.Offset)
		}
		return fmt.Sprintf("%v at offset %d: %d fields, want 1, 4 or 5", e.Unwrap(), e.Offset, e.Fields)
	default:
		return fmt.Sprintf("%v at offset %d", e.Unwrap(), e.Offset)
	}
}

// Unwrap returns the sentinel error for the kind.
func (e *DecodeError) Unwrap() error {
	switch e.Kind {
	case OutOfInput:
		return ErrOutOfInput
	case InvalidDigit:
		return ErrInvalidDigit
	case MalformedSegment:
		return ErrMalformedSegment
	case Overflow:
		return ErrOverflow
	default:
		return nil
	}
}
