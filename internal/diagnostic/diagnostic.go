// Package diagnostic turns mappings decode failures into human-readable
// reports with source context.
package diagnostic

import (
	"errors"
	"fmt"
	"strings"

	"github.com/HugoDaniel/vlqmap/internal/sourcemap"
	"github.com/fatih/color"
)

// Severity represents the severity level of a diagnostic.
type Severity uint8

const (
	// Error means the mappings could not be fully decoded.
	Error Severity = iota
	// Warning is a non-blocking issue, such as an unexpected line count.
	Warning
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "unknown"
	}
}

// Code identifies a class of diagnostic.
type Code string

const (
	CodeOutOfInput       Code = "E0001"
	CodeInvalidDigit     Code = "E0002"
	CodeMalformedSegment Code = "E0003"
	CodeOverflow         Code = "E0004"
	CodeLineCount        Code = "W0001"
)

// Diagnostic is a single report about a mappings buffer.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Offset   int                // byte offset in the mappings buffer
	Location sourcemap.Location // Offset as generated line / segment
}

// Error returns a one-line summary.
func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%d:%d: %s: %s", d.Location.Line+1, d.Location.Segment+1, d.Severity, d.Message)
}

// FromError builds a diagnostic from a decode error. ok is false when err is
// not a *sourcemap.DecodeError.
func FromError(err error, mappings []byte) (d Diagnostic, ok bool) {
	var de *sourcemap.DecodeError
	if !errors.As(err, &de) {
		return Diagnostic{}, false
	}

	d = Diagnostic{
		Severity: Error,
		Offset:   de.Offset,
		Location: sourcemap.NewSegmentIndex(mappings).Locate(de.Offset),
	}

	switch de.Kind {
	case sourcemap.OutOfInput:
		d.Code = CodeOutOfInput
		d.Message = "mappings end inside a VLQ value"
	case sourcemap.InvalidDigit:
		d.Code = CodeInvalidDigit
		d.Message = fmt.Sprintf("invalid VLQ digit %q", de.Byte)
	case sourcemap.MalformedSegment:
		d.Code = CodeMalformedSegment
		if de.Fields > 5 {
			d.Message = "segment has more than 5 fields"
		} else {
			d.Message = fmt.Sprintf("segment has %d fields, want 1, 4 or 5", de.Fields)
		}
	case sourcemap.Overflow:
		d.Code = CodeOverflow
		d.Message = "value does not fit in 32 bits"
	default:
		d.Message = de.Error()
	}

	return d, true
}

// Formatter renders diagnostics.
type Formatter struct {
	// Color enables ANSI colors.
	Color bool
	// Context is the number of bytes shown on each side of the offset.
	// Zero means 32.
	Context int
}

// Format renders d with an excerpt of the generated line it points into and
// a caret under the offending byte.
func (f Formatter) Format(d Diagnostic, mappings []byte) string {
	sev := f.paint(color.New(color.Bold, color.FgHiRed))
	if d.Severity == Warning {
		sev = f.paint(color.New(color.Bold, color.FgYellow))
	}
	loc := f.paint(color.New(color.FgHiBlue))
	caret := f.paint(color.New(color.Bold, color.FgHiGreen))

	var sb strings.Builder

	if d.Code != "" {
		sb.WriteString(sev.Sprintf("%s[%s]", d.Severity, d.Code))
	} else {
		sb.WriteString(sev.Sprint(d.Severity))
	}
	fmt.Fprintf(&sb, ": %s\n", d.Message)
	sb.WriteString(loc.Sprintf("  --> generated line %d, segment %d (offset %d)",
		d.Location.Line+1, d.Location.Segment+1, d.Offset))
	sb.WriteByte('\n')

	if len(mappings) == 0 {
		return sb.String()
	}

	excerpt, col := f.excerpt(d.Offset, mappings)
	fmt.Fprintf(&sb, "   | %s\n", excerpt)
	fmt.Fprintf(&sb, "   | %s%s\n", strings.Repeat(" ", col), caret.Sprint("^"))

	return sb.String()
}

func (f Formatter) paint(c *color.Color) *color.Color {
	if f.Color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

// excerpt returns the printable window around offset on its generated line
// and the caret column within that window.
func (f Formatter) excerpt(offset int, mappings []byte) (string, int) {
	ctx := f.Context
	if ctx <= 0 {
		ctx = 32
	}

	idx := sourcemap.NewSegmentIndex(mappings)
	line := idx.Locate(offset).Line
	lineStart, lineEnd := idx.LineStart(line), idx.LineEnd(line)

	if offset < 0 {
		offset = 0
	}
	if offset > len(mappings) {
		offset = len(mappings)
	}

	start := offset - ctx
	prefix := "..."
	if start <= lineStart {
		start = lineStart
		prefix = ""
	}
	end := offset + ctx + 1
	suffix := "..."
	if end >= lineEnd {
		end = lineEnd
		suffix = ""
	}
	// Show the terminating ';' too so a failure on it has something to point at.
	if end < len(mappings) && end == lineEnd {
		end++
	}

	var sb strings.Builder
	sb.WriteString(prefix)
	for _, c := range mappings[start:end] {
		if c < 0x20 || c >= 0x7f {
			c = '?'
		}
		sb.WriteByte(c)
	}
	sb.WriteString(suffix)

	return sb.String(), len(prefix) + offset - start
}

// List collects diagnostics for several inputs.
type List struct {
	items []Diagnostic
}

// Add appends a diagnostic.
func (l *List) Add(d Diagnostic) {
	l.items = append(l.items, d)
}

// HasErrors returns true if any diagnostic is an error.
func (l *List) HasErrors() bool {
	for _, d := range l.items {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// Diagnostics returns all collected diagnostics.
func (l *List) Diagnostics() []Diagnostic {
	return l.items
}

// Count returns the total number of diagnostics.
func (l *List) Count() int {
	return len(l.items)
}
