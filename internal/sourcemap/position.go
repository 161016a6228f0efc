package sourcemap

import "sort"

// Location identifies a byte in a mappings buffer by generated line and
// segment. All fields are 0-indexed.
type Location struct {
	Line    int // generated line (number of ';' before the byte)
	Segment int // segment within the line (number of ',' since the line start)
	Column  int // byte offset from the start of the line
}

// SegmentIndex provides efficient byte offset to line/segment conversion for a
// mappings buffer. It pre-computes line and segment start offsets for
// O(log n) lookups.
type SegmentIndex struct {
	length        int
	lineStarts    []int // byte offset of each generated line start
	segmentStarts []int // byte offset of each segment start, across all lines
	lineSegments  []int // index into segmentStarts of each line's first segment
}

// NewSegmentIndex scans buf for separators.
func NewSegmentIndex(buf []byte) *SegmentIndex {
	idx := &SegmentIndex{
		length:        len(buf),
		lineStarts:    []int{0},
		segmentStarts: []int{0},
		lineSegments:  []int{0},
	}

	for i, c := range buf {
		switch c {
		case ';':
			idx.lineStarts = append(idx.lineStarts, i+1)
			idx.lineSegments = append(idx.lineSegments, len(idx.segmentStarts))
			idx.segmentStarts = append(idx.segmentStarts, i+1)
		case ',':
			idx.segmentStarts = append(idx.segmentStarts, i+1)
		}
	}

	return idx
}

// LineCount returns the number of generated lines, which is always one more
// than the number of ';' separators.
func (idx *SegmentIndex) LineCount() int {
	return len(idx.lineStarts)
}

// LineStart returns the byte offset where the given generated line begins,
// clamped to the valid range.
func (idx *SegmentIndex) LineStart(line int) int {
	if line < 0 {
		return 0
	}
	if line >= len(idx.lineStarts) {
		return idx.length
	}
	return idx.lineStarts[line]
}

// LineEnd returns the offset of the ';' that terminates the line, or the
// buffer length for the last line.
func (idx *SegmentIndex) LineEnd(line int) int {
	if line+1 < len(idx.lineStarts) && line >= 0 {
		return idx.lineStarts[line+1] - 1
	}
	return idx.length
}

// Locate converts a byte offset to a Location. Offsets are clamped to
// [0, len(buf)]; a separator belongs to the segment it terminates.
func (idx *SegmentIndex) Locate(offset int) Location {
	if offset < 0 {
		offset = 0
	}
	if offset > idx.length {
		offset = idx.length
	}

	line := sort.Search(len(idx.lineStarts), func(i int) bool {
		return idx.lineStarts[i] > offset
	}) - 1
	if line < 0 {
		line = 0
	}

	seg := sort.Search(len(idx.segmentStarts), func(i int) bool {
		return idx.segmentStarts[i] > offset
	}) - 1
	if seg < 0 {
		seg = 0
	}

	return Location{
		Line:    line,
		Segment: seg - idx.lineSegments[line],
		Column:  offset - idx.lineStarts[line],
	}
}
