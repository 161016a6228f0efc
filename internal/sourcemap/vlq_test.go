package sourcemap

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// VLQ Encoding Tests
// ============================================================================

func TestEncodeVLQ(t *testing.T) {
	tests := []struct {
		value int
		want  string
	}{
		{0, "A"},
		{1, "C"},
		{-1, "D"},
		{2, "E"},
		{-2, "F"},
		{15, "e"},
		{-15, "f"},
		{16, "gB"},
		{-16, "hB"},
		{31, "+B"},
		{-31, "/B"},
		{32, "gC"},
		{-32, "hC"},
		{100, "oG"},
		{-100, "pG"},
		{1000, "w+B"},
		{-1000, "x+B"},
		{math.MaxInt32, "+/////D"},
		{-math.MaxInt32, "//////D"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("value_%d", tt.value), func(t *testing.T) {
			assert.Equal(t, tt.want, EncodeVLQ(tt.value))
			assert.Equal(t, []byte("x"+tt.want), AppendVLQ([]byte("x"), tt.value), "append keeps the prefix")
		})
	}
}

func TestVLQSequence(t *testing.T) {
	tests := []struct {
		name     string
		values   []int
		expected string
	}{
		{"all_zeros", []int{0, 0, 0, 0}, "AAAA"},
		{"single_value", []int{5}, "K"},
		{"mixed", []int{0, 1, 2, 3}, "ACEG"},
		{"with_negatives", []int{0, -1, 0, 1}, "ADAC"},
		{"multi_digit", []int{16, -16}, "gBhB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EncodeVLQSequence(tt.values))
		})
	}
}

// ============================================================================
// Reader Tests
// ============================================================================

func TestReaderDecodeBasic(t *testing.T) {
	tests := []struct {
		input    string
		expected int
		consumed int
	}{
		{"A", 0, 1},
		{"C", 1, 1},
		{"D", -1, 1},
		{"e", 15, 1},
		{"f", -15, 1},
		{"gB", 16, 2},
		{"hB", -16, 2},
		{"w+B", 1000, 3},
		{"x+B", -1000, 3},
		{"B", 0, 1},        // negative zero
		{"gggggggA", 0, 8}, // zero padding
		{"CA", 1, 1},       // trailing bytes are left alone
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("input_%s", tt.input), func(t *testing.T) {
			r := NewReader([]byte(tt.input))
			v, err := r.ReadVLQ()
			require.NoError(t, err)
			assert.Equal(t, tt.expected, v)
			assert.Equal(t, tt.consumed, r.Pos())
		})
	}
}

func TestReaderRoundtrip(t *testing.T) {
	values := []int{
		0, 1, -1, 2, -2, 15, -15, 16, -16, 31, -31, 32, -32,
		100, -100, 1000, -1000, 10000, -10000,
		65536, -65536, 1000000, -1000000,
		1 << 30, -(1 << 30),
		math.MaxInt32, -math.MaxInt32,
	}

	for _, v := range values {
		t.Run(fmt.Sprintf("value_%d", v), func(t *testing.T) {
			encoded := EncodeVLQ(v)
			r := NewReader([]byte(encoded))
			decoded, err := r.ReadVLQ()
			require.NoError(t, err)
			assert.Equal(t, v, decoded, "roundtrip of %q", encoded)
			assert.Equal(t, len(encoded), r.Pos(), "consumed bytes")
			assert.True(t, r.EOF())
		})
	}
}

func TestReaderSequential(t *testing.T) {
	r := NewReader([]byte("AgBDhB"))
	want := []int{0, 16, -1, -16}
	wantPos := []int{1, 3, 4, 6}

	for i, w := range want {
		v, err := r.ReadVLQ()
		require.NoError(t, err)
		assert.Equal(t, w, v)
		assert.Equal(t, wantPos[i], r.Pos())
	}

	_, err := r.ReadVLQ()
	assert.ErrorIs(t, err, ErrOutOfInput)
	assert.Equal(t, 6, r.Pos(), "cursor must not move past the end")
}

func TestReaderErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  []byte
		kind   ErrorKind
		offset int
	}{
		{"empty", []byte{}, OutOfInput, 0},
		{"dangling_continuation", []byte("g"), OutOfInput, 1},
		{"long_dangling_continuation", []byte("gggg"), OutOfInput, 4},
		{"control_char", []byte{0x01}, InvalidDigit, 0},
		{"high_byte", []byte{0xC3, 0xA9}, InvalidDigit, 0},
		{"equals_padding", []byte("="), InvalidDigit, 0},
		{"separator_inside_value", []byte("g,"), InvalidDigit, 1},
		{"just_past_max", []byte("ggggggE"), Overflow, 6},
		{"far_past_max", []byte("ggggggggC"), Overflow, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(tt.input)
			_, err := r.ReadVLQ()
			require.Error(t, err)

			var de *DecodeError
			require.True(t, errors.As(err, &de), "want *DecodeError, got %T", err)
			assert.Equal(t, tt.kind, de.Kind)
			assert.Equal(t, tt.offset, de.Offset)
			assert.LessOrEqual(t, r.Pos(), r.Len())
		})
	}
}

func TestReaderPeek(t *testing.T) {
	r := NewReader([]byte("A;"))
	b, ok := r.Peek()
	assert.True(t, ok)
	assert.Equal(t, byte('A'), b)

	_, err := r.ReadVLQ()
	require.NoError(t, err)
	b, ok = r.Peek()
	assert.True(t, ok)
	assert.Equal(t, byte(';'), b)
	assert.True(t, r.atBoundary())

	r.pos++
	_, ok = r.Peek()
	assert.False(t, ok)
	assert.True(t, r.EOF())
}

// ============================================================================
// String Helper Tests
// ============================================================================

func TestDecodeVLQ(t *testing.T) {
	v, n := DecodeVLQ("hB")
	assert.Equal(t, -16, v)
	assert.Equal(t, 2, n)

	_, n = DecodeVLQ("")
	assert.Equal(t, 0, n)

	// Truncated input returns 0 consumed
	_, n = DecodeVLQ("g")
	assert.Equal(t, 0, n)
}

func TestDecodeVLQSequence(t *testing.T) {
	values, err := DecodeVLQSequence("AAAA", 4)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 0, 0}, values)

	_, err = DecodeVLQSequence("AA", 4)
	assert.ErrorIs(t, err, ErrOutOfInput)
}

func TestVLQBase64Alphabet(t *testing.T) {
	values := []int{0, 1, -1, 15, -15, 16, -16, 100, -100, 1000, -1000, 10000, -10000}
	for _, v := range values {
		encoded := EncodeVLQ(v)
		for i := 0; i < len(encoded); i++ {
			if base64Values[encoded[i]] < 0 {
				t.Errorf("EncodeVLQ(%d) = %q contains invalid character %q at position %d",
					v, encoded, string(encoded[i]), i)
			}
		}
	}
}

func TestVLQFastPathBoundary(t *testing.T) {
	// 15 is the last single-digit magnitude, 16 needs two digits
	for v := -15; v <= 15; v++ {
		if len(EncodeVLQ(v)) != 1 {
			t.Errorf("EncodeVLQ(%d) should be a single digit", v)
		}
	}
	if len(EncodeVLQ(16)) != 2 || len(EncodeVLQ(-16)) != 2 {
		t.Error("EncodeVLQ(±16) should be two digits")
	}
}

// Benchmark tests
func BenchmarkVLQEncode(b *testing.B) {
	buf := make([]byte, 0, 16)
	for i := 0; i < b.N; i++ {
		buf = AppendVLQ(buf[:0], 1000)
	}
}

func BenchmarkVLQDecode(b *testing.B) {
	encoded := []byte(EncodeVLQ(1000))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r := NewReader(encoded)
		_, _ = r.ReadVLQ()
	}
}
