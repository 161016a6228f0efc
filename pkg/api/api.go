// Package api provides the public API for decoding source map mappings.
//
// This package is intended for programmatic use of the decoder.
// For CLI usage, see cmd/vlqmap.
package api

import (
	"crypto/sha256"
	"fmt"
	"os"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/HugoDaniel/vlqmap/internal/sink"
	"github.com/HugoDaniel/vlqmap/internal/sourcemap"
)

// Sink receives decoded mappings. See sourcemap.Sink for the callback
// contract.
type Sink = sourcemap.Sink

// SinkFuncs adapts plain functions to a Sink. Nil fields are skipped.
type SinkFuncs = sourcemap.SinkFuncs

// Mapping is one decoded segment with its generated line.
type Mapping = sourcemap.Mapping

// Table holds decoded mappings grouped by generated line.
type Table = sink.Table

// SourceMap is a parsed Source Map v3 document.
type SourceMap = sourcemap.SourceMap

// DecodeError describes where and why decoding stopped.
type DecodeError = sourcemap.DecodeError

// Decode streams the mappings into s. Callbacks already delivered before an
// error stay delivered.
func Decode(mappings string, s Sink) error {
	return sourcemap.DecodeString(mappings, s)
}

// DecodeTable decodes the mappings into a table. On error the table holds
// everything decoded before the failing segment.
func DecodeTable(mappings string) (*Table, error) {
	t := sink.NewTable()
	err := sourcemap.DecodeString(mappings, t)
	return t, err
}

// Counts summarizes a mappings buffer.
type Counts struct {
	Lines    int `json:"lines"`
	Segments int `json:"segments"`
	Mapping1 int `json:"mapping1"`
	Mapping4 int `json:"mapping4"`
	Mapping5 int `json:"mapping5"`
}

// Count decodes the mappings without storing them.
func Count(mappings string) (Counts, error) {
	c := sink.NewCounter()
	err := sourcemap.DecodeString(mappings, c)
	return Counts{
		Lines:    c.Lines,
		Segments: c.Segments(),
		Mapping1: c.Mapping1,
		Mapping4: c.Mapping4,
		Mapping5: c.Mapping5,
	}, err
}

// FileResult is a parsed source map together with its decoded mappings.
type FileResult struct {
	Map   *SourceMap
	Table *Table
}

// DecodeFile reads a Source Map v3 file and decodes its mappings.
func DecodeFile(path string) (*FileResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sm, err := sourcemap.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	t, err := DecodeTable(sm.Mappings)
	if err != nil {
		return &FileResult{Map: sm, Table: t}, fmt.Errorf("%s: %w", path, err)
	}
	return &FileResult{Map: sm, Table: t}, nil
}

// Decoder decodes mappings into tables and keeps the most recently used
// tables in memory, keyed by the SHA-256 of the mappings. It is safe for
// concurrent use. Returned tables are shared and must not be modified.
type Decoder struct {
	cache  *lru.Cache[[sha256.Size]byte, *Table]
	hits   atomic.Int64
	misses atomic.Int64
}

// NewDecoder creates a Decoder caching up to size tables.
func NewDecoder(size int) (*Decoder, error) {
	cache, err := lru.New[[sha256.Size]byte, *Table](size)
	if err != nil {
		return nil, fmt.Errorf("creating table cache: %w", err)
	}
	return &Decoder{cache: cache}, nil
}

// Table returns the decoded table for mappings. Only successful decodes are
// cached.
func (d *Decoder) Table(mappings []byte) (*Table, error) {
	key := sha256.Sum256(mappings)
	if t, ok := d.cache.Get(key); ok {
		d.hits.Add(1)
		return t, nil
	}
	d.misses.Add(1)

	t := sink.NewTable()
	if err := sourcemap.Decode(mappings, t); err != nil {
		return t, err
	}
	d.cache.Add(key, t)
	return t, nil
}

// Len returns the number of cached tables.
func (d *Decoder) Len() int {
	return d.cache.Len()
}

// Stats returns cache hits and misses since creation.
func (d *Decoder) Stats() (hits, misses int64) {
	return d.hits.Load(), d.misses.Load()
}

// Purge drops every cached table.
func (d *Decoder) Purge() {
	d.cache.Purge()
}
