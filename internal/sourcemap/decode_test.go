package sourcemap

import (
	"errors"
	"math/rand"
	"sync"
	"testing"

	"github.com/HugoDaniel/vlqmap/internal/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Decoding Tests
// ============================================================================

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		mappings string
		calls    []string
	}{
		{"empty", "", nil},
		{"column_only", "A,I,E", []string{"m1 0", "m1 4", "m1 6"}},
		{"two_lines", "AAAA;AACA", []string{"m4 0 0 0 0", "nl", "m4 0 0 1 0"}},
		{
			"totals_carry_across_lines",
			"AAAA,CAEC;EACA",
			[]string{"m4 0 0 0 0", "m4 1 0 2 1", "nl", "m4 2 0 3 1"},
		},
		{"five_fields", "AAAAA,CAAAC", []string{"m5 0 0 0 0 0", "m5 1 0 0 0 1"}},
		{"mixed_shapes", "A,CAAA,CAAAC", []string{"m1 0", "m4 1 0 0 0", "m5 2 0 0 0 1"}},
		{"column_resets_per_line", "E;E", []string{"m1 2", "nl", "m1 2"}},
		{"empty_lines", ";;A", []string{"nl", "nl", "m1 0"}},
		{"trailing_newline", "A;", []string{"m1 0", "nl"}},
		{"empty_segments", ",A,,C", []string{"m1 0", "m1 1"}},
		{"negative_deltas", "KAgBK,DADD", []string{"m4 5 0 16 5", "m4 4 0 15 4"}},
		{"name_carries_across_lines", "AAAAE;AAAAD", []string{"m5 0 0 0 0 2", "nl", "m5 0 0 0 0 1"}},
		{"source_switch", "AAAA,ACAA,ADAA", []string{"m4 0 0 0 0", "m4 0 1 0 0", "m4 0 0 0 0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec test.Recorder
			err := DecodeString(tt.mappings, &rec)
			require.NoError(t, err)
			assert.Equal(t, tt.calls, rec.Calls)
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name     string
		mappings string
		kind     ErrorKind
		offset   int
		fields   int
		calls    []string // delivered before the failure
	}{
		{"dangling_continuation", "AAAA,g", OutOfInput, 6, 0, []string{"m4 0 0 0 0"}},
		{"partial_segment", "AAAg", OutOfInput, 4, 0, nil},
		{"control_char", "AAAA;AA\x01A", InvalidDigit, 7, 0, []string{"m4 0 0 0 0", "nl"}},
		{"space", "A, A", InvalidDigit, 2, 0, []string{"m1 0"}},
		{"two_fields", "AA", MalformedSegment, 2, 2, nil},
		{"three_fields", "AAA;", MalformedSegment, 3, 3, nil},
		{"three_fields_mid_line", "A,AAA,A", MalformedSegment, 5, 3, []string{"m1 0"}},
		{"six_fields", "AAAAAA", MalformedSegment, 5, 6, nil},
		{"six_fields_multi_digit", "AAAAAgB", MalformedSegment, 5, 6, nil},
		{"overflow", "A;ggggggE", Overflow, 8, 0, []string{"m1 0", "nl"}},
		{"column_total_overflow", "+/////D,C", Overflow, 8, 0, []string{"m1 2147483647"}},
		{"column_total_repeated", "+/////D,+/////D,+/////D", Overflow, 8, 0, []string{"m1 2147483647"}},
		{"negative_total_overflow", "//////D,D", Overflow, 8, 0, []string{"m1 -2147483647"}},
		{"source_line_total_overflow", "AA+/////DA,AACA", Overflow, 11, 0, []string{"m4 0 0 2147483647 0"}},
		{"name_total_overflow", "AAAA+/////D;AAAAC", Overflow, 12, 0, []string{"m5 0 0 0 0 2147483647", "nl"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec test.Recorder
			err := DecodeString(tt.mappings, &rec)
			require.Error(t, err)

			var de *DecodeError
			require.True(t, errors.As(err, &de), "want *DecodeError, got %T", err)
			assert.Equal(t, tt.kind, de.Kind, "kind")
			assert.Equal(t, tt.offset, de.Offset, "offset")
			if tt.kind == MalformedSegment {
				assert.Equal(t, tt.fields, de.Fields, "fields")
				assert.ErrorIs(t, err, ErrMalformedSegment)
			}
			assert.Equal(t, tt.calls, rec.Calls)
		})
	}
}

func TestDecodeErrorMessages(t *testing.T) {
	tests := []struct {
		err  *DecodeError
		want string
	}{
		{&DecodeError{Kind: OutOfInput, Offset: 3}, "sourcemap: unexpected end of mappings at offset 3"},
		{&DecodeError{Kind: InvalidDigit, Offset: 1, Byte: '!'}, `sourcemap: invalid base64 VLQ digit '!' at offset 1`},
		{&DecodeError{Kind: MalformedSegment, Offset: 2, Fields: 2}, "sourcemap: malformed segment at offset 2: 2 fields, want 1, 4 or 5"},
		{&DecodeError{Kind: MalformedSegment, Offset: 5, Fields: 6}, "sourcemap: malformed segment at offset 5: more than 5 fields"},
		{&DecodeError{Kind: Overflow, Offset: 9}, "sourcemap: VLQ value out of range at offset 9"},
	}

	for _, tt := range tests {
		t.Run(tt.err.Kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestDecodeFieldCountRule(t *testing.T) {
	// Only 1, 4 and 5 fields are accepted, whatever the terminator.
	for n := 1; n <= 7; n++ {
		for _, term := range []string{"", ",", ";"} {
			mappings := EncodeVLQSequence(make([]int, n)) + term
			err := DecodeString(mappings, SinkFuncs{})
			switch n {
			case 1, 4, 5:
				assert.NoError(t, err, "%d fields, terminator %q", n, term)
			default:
				assert.ErrorIs(t, err, ErrMalformedSegment, "%d fields, terminator %q", n, term)
			}
		}
	}
}

func TestSinkFuncs(t *testing.T) {
	var lines, ones, fours, fives int
	sink := SinkFuncs{
		Newline:  func() { lines++ },
		Mapping1: func(int) { ones++ },
		Mapping4: func(int, int, int, int) { fours++ },
	}

	err := DecodeString("A,AAAA,AAAAA;A", sink)
	require.NoError(t, err)
	assert.Equal(t, 1, lines)
	assert.Equal(t, 2, ones)
	assert.Equal(t, 1, fours)
	assert.Equal(t, 0, fives, "nil Mapping5 must be skipped")
}

// ============================================================================
// Round-trip and Concurrency Tests
// ============================================================================

func randomMappings(rng *rand.Rand, n int) []Mapping {
	mappings := make([]Mapping, 0, n)
	line, col := 0, 0
	for i := 0; i < n; i++ {
		if rng.Intn(4) == 0 {
			line += 1 + rng.Intn(3)
			col = 0
		}
		col += rng.Intn(40)
		m := Mapping{GenLine: line, GenCol: col, NameIndex: -1, Fields: 1}
		switch rng.Intn(3) {
		case 1:
			m.Fields = 4
		case 2:
			m.Fields = 5
			m.NameIndex = rng.Intn(50)
		}
		if m.Fields >= 4 {
			m.SrcIndex = rng.Intn(5)
			m.SrcLine = rng.Intn(5000)
			m.SrcCol = rng.Intn(200)
		}
		mappings = append(mappings, m)
	}
	return mappings
}

func TestDecodeRoundtrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 20; i++ {
		want := randomMappings(rng, 200)
		encoded := EncodeMappings(want)

		got, err := DecodeMappings(encoded)
		require.NoError(t, err)
		require.Equal(t, len(want), len(got))

		for j := range want {
			w, g := want[j], got[j]
			assert.Equal(t, w.GenLine, g.GenLine, "mapping %d", j)
			assert.Equal(t, w.GenCol, g.GenCol, "mapping %d", j)
			assert.Equal(t, w.Fields, g.Fields, "mapping %d", j)
			if w.HasSource() {
				assert.Equal(t, w.SrcIndex, g.SrcIndex, "mapping %d", j)
				assert.Equal(t, w.SrcLine, g.SrcLine, "mapping %d", j)
				assert.Equal(t, w.SrcCol, g.SrcCol, "mapping %d", j)
			}
			if w.HasName() {
				assert.Equal(t, w.NameIndex, g.NameIndex, "mapping %d", j)
			}
		}
	}
}

func TestDecodeSharedBuffer(t *testing.T) {
	buf := []byte(EncodeMappings(randomMappings(rand.New(rand.NewSource(7)), 500)))

	var want test.Recorder
	require.NoError(t, Decode(buf, &want))

	var wg sync.WaitGroup
	results := make([]*test.Recorder, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec := &test.Recorder{}
			if err := Decode(buf, rec); err == nil {
				results[i] = rec
			}
		}(i)
	}
	wg.Wait()

	for i, rec := range results {
		require.NotNil(t, rec, "decode %d failed", i)
		assert.Equal(t, want.Calls, rec.Calls, "decode %d", i)
	}
}

func BenchmarkDecode(b *testing.B) {
	buf := []byte(EncodeMappings(randomMappings(rand.New(rand.NewSource(1)), 10000)))
	sink := SinkFuncs{}
	b.SetBytes(int64(len(buf)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := Decode(buf, sink); err != nil {
			b.Fatal(err)
		}
	}
}
