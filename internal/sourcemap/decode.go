package sourcemap

// Sink receives decoded mappings in buffer order.
//
// All arguments are absolute values, already resolved from the deltas in the
// mappings string. Which OnMapping method is called depends on how many
// fields the segment carried.
type Sink interface {
	// OnNewline marks the start of the next generated line.
	OnNewline()
	OnMapping1(column int)
	OnMapping4(column, source, sourceLine, sourceColumn int)
	OnMapping5(column, source, sourceLine, sourceColumn, name int)
}

// SinkFuncs adapts plain functions to a Sink. Nil fields are skipped.
type SinkFuncs struct {
	Newline  func()
	Mapping1 func(column int)
	Mapping4 func(column, source, sourceLine, sourceColumn int)
	Mapping5 func(column, source, sourceLine, sourceColumn, name int)
}

func (f SinkFuncs) OnNewline() {
	if f.Newline != nil {
		f.Newline()
	}
}

func (f SinkFuncs) OnMapping1(column int) {
	if f.Mapping1 != nil {
		f.Mapping1(column)
	}
}

func (f SinkFuncs) OnMapping4(column, source, sourceLine, sourceColumn int) {
	if f.Mapping4 != nil {
		f.Mapping4(column, source, sourceLine, sourceColumn)
	}
}

func (f SinkFuncs) OnMapping5(column, source, sourceLine, sourceColumn, name int) {
	if f.Mapping5 != nil {
		f.Mapping5(column, source, sourceLine, sourceColumn, name)
	}
}

// state holds the running totals of one decode pass. Only the generated
// column is reset per line; the other fields carry across lines.
type state struct {
	generatedColumn int
	sourceIndex     int
	originalLine    int
	originalColumn  int
	nameIndex       int
}

// Decode walks an encoded mappings buffer and reports every segment to sink.
//
// ';' starts a new generated line, ',' starts a new segment on the current
// line. A segment must carry 1, 4 or 5 fields; empty segments are skipped.
// Decoding stops at the first error, which is always a *DecodeError. Segments
// before the failing one have already been delivered; the failing one is not.
func Decode(buf []byte, sink Sink) error {
	r := NewReader(buf)
	var st state

	for r.pos < len(r.bytes) {
		switch r.bytes[r.pos] {
		case ';':
			sink.OnNewline()
			st.generatedColumn = 0
			r.pos++
		case ',':
			r.pos++
		default:
			if err := st.segment(r, sink); err != nil {
				return err
			}
		}
	}

	return nil
}

// DecodeString is Decode for a string.
func DecodeString(mappings string, sink Sink) error {
	return Decode([]byte(mappings), sink)
}

// segment decodes the fields of one segment, starting at the cursor, and
// emits it. The totals are only updated once the field count is known to be
// valid and every new total stays within ±math.MaxInt32.
func (st *state) segment(r *Reader, sink Sink) error {
	start := r.pos
	var deltas [5]int
	n := 0

	for n < len(deltas) && !r.atBoundary() {
		v, err := r.ReadVLQ()
		if err != nil {
			return err
		}
		deltas[n] = v
		n++
	}

	if !r.atBoundary() {
		return &DecodeError{Kind: MalformedSegment, Offset: r.pos, Fields: n + 1}
	}
	if n != 1 && n != 4 && n != 5 {
		return &DecodeError{Kind: MalformedSegment, Offset: r.pos, Fields: n}
	}

	next := *st
	ok := add(&next.generatedColumn, deltas[0])
	if n >= 4 {
		ok = ok &&
			add(&next.sourceIndex, deltas[1]) &&
			add(&next.originalLine, deltas[2]) &&
			add(&next.originalColumn, deltas[3])
	}
	if n == 5 {
		ok = ok && add(&next.nameIndex, deltas[4])
	}
	if !ok {
		return &DecodeError{Kind: Overflow, Offset: start}
	}
	*st = next

	switch n {
	case 1:
		sink.OnMapping1(st.generatedColumn)
	case 4:
		sink.OnMapping4(st.generatedColumn, st.sourceIndex, st.originalLine, st.originalColumn)
	case 5:
		sink.OnMapping5(st.generatedColumn, st.sourceIndex, st.originalLine, st.originalColumn, st.nameIndex)
	}

	return nil
}

// add adds delta to *total unless the sum leaves ±math.MaxInt32.
func add(total *int, delta int) bool {
	sum := int64(*total) + int64(delta)
	if sum > maxMagnitude || sum < -maxMagnitude {
		return false
	}
	*total = int(sum)
	return true
}
