// Package sourcemap decodes and encodes the "mappings" field of Source Map v3
// documents.
//
// The format is described at:
// https://sourcemaps.info/spec.html
package sourcemap

import (
	"math"
	"strings"
)

// Base64 alphabet used for VLQ encoding in source maps
const base64Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// base64Values maps every byte to its 6-bit digit, or -1 when the byte is not
// part of the alphabet. Covering all 256 values means no bounds check is
// needed for bytes >= 0x80.
var base64Values [256]int8

func init() {
	for i := range base64Values {
		base64Values[i] = -1
	}
	for i := 0; i < len(base64Alphabet); i++ {
		base64Values[base64Alphabet[i]] = int8(i)
	}
}

// VLQ constants
const (
	vlqBaseShift       = 5
	vlqBase            = 1 << vlqBaseShift // 32
	vlqBaseMask        = vlqBase - 1       // 31 (0x1F)
	vlqContinuationBit = vlqBase           // 32 (0x20)
	vlqSignBit         = 1

	// maxMagnitude is the largest absolute value a single VLQ may carry.
	maxMagnitude = math.MaxInt32
)

// Reader is a cursor over an encoded mappings buffer.
// It borrows the buffer and never modifies it.
type Reader struct {
	pos   int
	bytes []byte
}

// NewReader creates a Reader positioned at the start of b.
func NewReader(b []byte) *Reader {
	return &Reader{bytes: b}
}

// Pos returns the current byte offset.
func (r *Reader) Pos() int {
	return r.pos
}

// Len returns the total length of the buffer.
func (r *Reader) Len() int {
	return len(r.bytes)
}

// EOF reports whether every byte has been consumed.
func (r *Reader) EOF() bool {
	return r.pos >= len(r.bytes)
}

// Peek returns the byte at the cursor without consuming it.
// ok is false at end of buffer.
func (r *Reader) Peek() (b byte, ok bool) {
	if r.pos >= len(r.bytes) {
		return 0, false
	}
	return r.bytes[r.pos], true
}

// atBoundary reports whether the cursor sits on a segment separator, a line
// separator, or the end of the buffer.
func (r *Reader) atBoundary() bool {
	if r.pos >= len(r.bytes) {
		return true
	}
	c := r.bytes[r.pos]
	return c == ',' || c == ';'
}

// ReadVLQ decodes one signed Base64 VLQ value at the cursor and advances past
// every digit it consumed.
//
// The low bit of the first digit is the sign, so that digit only carries four
// bits of magnitude; every following digit carries five. "B" (negative zero)
// decodes to 0.
//
// On failure the cursor is left on the offending byte (or at the end of the
// buffer) and a *DecodeError of kind InvalidDigit, OutOfInput or Overflow is
// returned.
func (r *Reader) ReadVLQ() (int, error) {
	var magnitude uint64
	var negative bool
	var shift uint

	for first := true; ; first = false {
		if r.pos >= len(r.bytes) {
			return 0, &DecodeError{Kind: OutOfInput, Offset: r.pos}
		}

		c := r.bytes[r.pos]
		digit := base64Values[c]
		if digit < 0 {
			return 0, &DecodeError{Kind: InvalidDigit, Offset: r.pos, Byte: c}
		}

		continuation := digit&vlqContinuationBit != 0
		group := uint64(digit & vlqBaseMask)

		if first {
			negative = group&vlqSignBit != 0
			magnitude = group >> 1
			shift = vlqBaseShift - 1
		} else {
			if group != 0 && shift > 31 {
				return 0, &DecodeError{Kind: Overflow, Offset: r.pos}
			}
			magnitude |= group << shift
			if magnitude > maxMagnitude {
				return 0, &DecodeError{Kind: Overflow, Offset: r.pos}
			}
			shift += vlqBaseShift
		}
		r.pos++

		if !continuation {
			break
		}
	}

	if negative {
		return -int(magnitude), nil
	}
	return int(magnitude), nil
}

// AppendVLQ appends the Base64 VLQ encoding of value to dst.
// Values outside ±math.MaxInt32 are encoded faithfully but cannot be read back
// by ReadVLQ.
func AppendVLQ(dst []byte, value int) []byte {
	// Hot path: 0 and 1 dominate real mappings.
	if value == 0 {
		return append(dst, 'A')
	}
	if value == 1 {
		return append(dst, 'C')
	}

	// Convert to VLQ signed representation:
	// - Positive numbers: value << 1
	// - Negative numbers: ((-value) << 1) | 1
	var vlq uint64
	if value < 0 {
		vlq = uint64(-value)<<1 | vlqSignBit
	} else {
		vlq = uint64(value) << 1
	}

	for {
		digit := vlq & vlqBaseMask
		vlq >>= vlqBaseShift

		if vlq > 0 {
			digit |= vlqContinuationBit
		}
		dst = append(dst, base64Alphabet[digit])

		if vlq == 0 {
			return dst
		}
	}
}

// EncodeVLQ encodes a signed integer as a VLQ base64 string.
func EncodeVLQ(value int) string {
	return string(AppendVLQ(nil, value))
}

// EncodeVLQSequence encodes multiple values back to back, as they appear
// inside a single segment.
func EncodeVLQSequence(values []int) string {
	var buf strings.Builder
	var scratch [8]byte
	for _, v := range values {
		buf.Write(AppendVLQ(scratch[:0], v))
	}
	return buf.String()
}

// DecodeVLQ decodes the VLQ at the start of input and returns the value and
// the number of bytes consumed. It returns (0, 0) if input is empty, truncated
// or invalid.
func DecodeVLQ(input string) (int, int) {
	r := NewReader([]byte(input))
	v, err := r.ReadVLQ()
	if err != nil {
		return 0, 0
	}
	return v, r.Pos()
}

// DecodeVLQSequence decodes exactly n values from the start of input.
func DecodeVLQSequence(input string, n int) ([]int, error) {
	r := NewReader([]byte(input))
	values := make([]int, 0, n)
	for i := 0; i < n; i++ {
		v, err := r.ReadVLQ()
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}
