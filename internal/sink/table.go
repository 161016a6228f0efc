// Package sink provides ready-made receivers for decoded mappings: an
// in-memory table, counters, and text/JSON/CSV printers.
package sink

import (
	"fmt"

	"github.com/HugoDaniel/vlqmap/internal/sourcemap"
)

// Table stores every mapping grouped by generated line. It always holds at
// least one (possibly empty) line, so len(Lines()) equals the number of
// generated lines in the decoded buffer.
type Table struct {
	lines [][]sourcemap.Mapping
	count int
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{lines: [][]sourcemap.Mapping{nil}}
}

// Reset empties the table for reuse, keeping allocated line storage.
func (t *Table) Reset() {
	for i := range t.lines {
		t.lines[i] = t.lines[i][:0]
	}
	t.lines = t.lines[:1]
	t.count = 0
}

// Lines returns the mappings of every generated line.
func (t *Table) Lines() [][]sourcemap.Mapping {
	return t.lines
}

// Line returns the mappings of one generated line, or nil if out of range.
func (t *Table) Line(line int) []sourcemap.Mapping {
	if line < 0 || line >= len(t.lines) {
		return nil
	}
	return t.lines[line]
}

// Len returns the total number of mappings.
func (t *Table) Len() int {
	return t.count
}

// Flatten returns all mappings in generated order.
func (t *Table) Flatten() []sourcemap.Mapping {
	out := make([]sourcemap.Mapping, 0, t.count)
	for _, line := range t.lines {
		out = append(out, line...)
	}
	return out
}

// Lookup returns the mapping covering the generated position: the last
// mapping on the line whose column is <= col.
func (t *Table) Lookup(line, col int) (sourcemap.Mapping, bool) {
	segs := t.Line(line)
	found := -1
	for i := range segs {
		if segs[i].GenCol > col {
			break
		}
		found = i
	}
	if found < 0 {
		return sourcemap.Mapping{}, false
	}
	return segs[found], true
}

func (t *Table) OnNewline() {
	t.lines = append(t.lines, nil)
}

func (t *Table) add(m sourcemap.Mapping) {
	last := len(t.lines) - 1
	m.GenLine = last
	t.lines[last] = append(t.lines[last], m)
	t.count++
}

func (t *Table) OnMapping1(col int) {
	t.add(sourcemap.Mapping{GenCol: col, NameIndex: -1, Fields: 1})
}

func (t *Table) OnMapping4(col, src, srcLine, srcCol int) {
	t.add(sourcemap.Mapping{GenCol: col, SrcIndex: src, SrcLine: srcLine, SrcCol: srcCol, NameIndex: -1, Fields: 4})
}

func (t *Table) OnMapping5(col, src, srcLine, srcCol, name int) {
	t.add(sourcemap.Mapping{GenCol: col, SrcIndex: src, SrcLine: srcLine, SrcCol: srcCol, NameIndex: name, Fields: 5})
}

// Validate checks the number of generated lines against an expected value.
// An expectation of zero or less is not checked.
func (t *Table) Validate(expectLines int) error {
	if expectLines > 0 && len(t.lines) != expectLines {
		return fmt.Errorf("mappings incorrect: got %d lines, want %d", len(t.lines), expectLines)
	}
	return nil
}
