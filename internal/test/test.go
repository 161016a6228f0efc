// Package test provides testing utilities for the mappings decoder.
package test

import (
	"fmt"
	"strings"
	"testing"
)

// Recorder is a sink that records every call as a short string:
//
//	nl                 OnNewline
//	m1 col             OnMapping1
//	m4 col src line c  OnMapping4
//	m5 col src line c n OnMapping5
type Recorder struct {
	Calls []string
}

func (r *Recorder) OnNewline() {
	r.Calls = append(r.Calls, "nl")
}

func (r *Recorder) OnMapping1(column int) {
	r.Calls = append(r.Calls, fmt.Sprintf("m1 %d", column))
}

func (r *Recorder) OnMapping4(column, source, sourceLine, sourceColumn int) {
	r.Calls = append(r.Calls, fmt.Sprintf("m4 %d %d %d %d", column, source, sourceLine, sourceColumn))
}

func (r *Recorder) OnMapping5(column, source, sourceLine, sourceColumn, name int) {
	r.Calls = append(r.Calls, fmt.Sprintf("m5 %d %d %d %d %d", column, source, sourceLine, sourceColumn, name))
}

// String joins the recorded calls with newlines.
func (r *Recorder) String() string {
	return strings.Join(r.Calls, "\n")
}

// Reset drops all recorded calls.
func (r *Recorder) Reset() {
	r.Calls = r.Calls[:0]
}

// AssertEqual checks if two values are equal and reports a test error if not.
func AssertEqual[T comparable](t *testing.T, actual, expected T) {
	t.Helper()
	if actual != expected {
		t.Errorf("\nexpected: %v\nactual:   %v", expected, actual)
	}
}

// AssertEqualWithDiff checks if two strings are equal and shows a diff if not.
func AssertEqualWithDiff(t *testing.T, actual, expected string) {
	t.Helper()
	if actual != expected {
		t.Errorf("\n%s", Diff(expected, actual))
	}
}

// Diff produces a line-by-line diff between two strings.
func Diff(expected, actual string) string {
	expectedLines := strings.Split(expected, "\n")
	actualLines := strings.Split(actual, "\n")

	var result strings.Builder
	result.WriteString("--- expected\n+++ actual\n")

	maxLines := len(expectedLines)
	if len(actualLines) > maxLines {
		maxLines = len(actualLines)
	}

	for i := 0; i < maxLines; i++ {
		var expLine, actLine string
		if i < len(expectedLines) {
			expLine = expectedLines[i]
		}
		if i < len(actualLines) {
			actLine = actualLines[i]
		}

		if expLine != actLine {
			if i < len(expectedLines) {
				fmt.Fprintf(&result, "-%s\n", expLine)
			}
			if i < len(actualLines) {
				fmt.Fprintf(&result, "+%s\n", actLine)
			}
		} else {
			fmt.Fprintf(&result, " %s\n", expLine)
		}
	}

	return result.String()
}
