//go:build cgo

package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/HugoDaniel/vlqmap/internal/sourcemap"
)

func TestResult(t *testing.T) {
	tests := []struct {
		name     string
		mappings string
		code     int
		offset   int
	}{
		{"ok", "AAAA;AACA", 0, 0},
		{"out_of_input", "AAAA,g", 1, 6},
		{"invalid_digit", "A!", 2, 1},
		{"malformed_segment", "AA", 3, 2},
		{"overflow", "+/////D,C", 4, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, offset := result(sourcemap.DecodeString(tt.mappings, sourcemap.SinkFuncs{}))
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.offset, offset)
		})
	}
}

func TestResultInternal(t *testing.T) {
	code, offset := result(errors.New("boom"))
	assert.Equal(t, errInternal, code)
	assert.Equal(t, 0, offset)

	wrapped := fmt.Errorf("decode: %w", &sourcemap.DecodeError{Kind: sourcemap.InvalidDigit, Offset: 3})
	code, offset = result(wrapped)
	assert.Equal(t, 2, code)
	assert.Equal(t, 3, offset)
}
