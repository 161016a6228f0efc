package sourcemap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSegmentIndexLocate(t *testing.T) {
	//           0123456789012
	mappings := "AAAA,CAEC;;EA"
	idx := NewSegmentIndex([]byte(mappings))

	assert.Equal(t, 3, idx.LineCount())

	tests := []struct {
		offset int
		want   Location
	}{
		{0, Location{Line: 0, Segment: 0, Column: 0}},
		{3, Location{Line: 0, Segment: 0, Column: 3}},
		{4, Location{Line: 0, Segment: 0, Column: 4}}, // ',' belongs to the segment it ends
		{5, Location{Line: 0, Segment: 1, Column: 5}},
		{9, Location{Line: 0, Segment: 1, Column: 9}},
		{10, Location{Line: 1, Segment: 0, Column: 0}},
		{11, Location{Line: 2, Segment: 0, Column: 0}},
		{12, Location{Line: 2, Segment: 0, Column: 1}},
		{13, Location{Line: 2, Segment: 0, Column: 2}}, // end of buffer
		{99, Location{Line: 2, Segment: 0, Column: 2}}, // clamped
		{-5, Location{Line: 0, Segment: 0, Column: 0}}, // clamped
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, idx.Locate(tt.offset), "offset %d", tt.offset)
	}
}

func TestSegmentIndexLineBounds(t *testing.T) {
	idx := NewSegmentIndex([]byte("AAAA;CA,A;"))

	assert.Equal(t, 0, idx.LineStart(0))
	assert.Equal(t, 4, idx.LineEnd(0))
	assert.Equal(t, 5, idx.LineStart(1))
	assert.Equal(t, 9, idx.LineEnd(1))
	assert.Equal(t, 10, idx.LineStart(2))
	assert.Equal(t, 10, idx.LineEnd(2))

	assert.Equal(t, 0, idx.LineStart(-1))
	assert.Equal(t, 10, idx.LineStart(7))
}

func TestSegmentIndexEmpty(t *testing.T) {
	idx := NewSegmentIndex(nil)
	assert.Equal(t, 1, idx.LineCount())
	assert.Equal(t, Location{}, idx.Locate(0))
}

func TestSegmentIndexMatchesDecodeError(t *testing.T) {
	mappings := "AAAA;AAAA,CAAA;AA"
	err := DecodeString(mappings, SinkFuncs{})

	var de *DecodeError
	if assert.ErrorAs(t, err, &de) {
		loc := NewSegmentIndex([]byte(mappings)).Locate(de.Offset)
		assert.Equal(t, Location{Line: 2, Segment: 0, Column: 2}, loc)
	}
}
