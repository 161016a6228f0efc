// Package store persists decoded mappings in SQLite.
package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/HugoDaniel/vlqmap/internal/sourcemap"
	_ "modernc.org/sqlite"
)

// Store is a SQLite database of decoded mapping tables, one per map id.
type Store struct {
	db *sql.DB
}

// MapInfo summarizes a stored map.
type MapInfo struct {
	ID       string
	Lines    int
	Segments int
}

// Open opens (or creates) the database at path.
// Use ":memory:" for an in-memory database (useful for testing).
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared between calls.
	db.SetMaxOpenConns(1)

	if err := CreateSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Begin starts replacing the mappings stored under mapID. The returned Writer
// is a sink; feed it to sourcemap.Decode and then call Commit. Only one
// Writer may be open at a time.
func (s *Store) Begin(mapID string) (*Writer, error) {
	if mapID == "" {
		return nil, errors.New("map id is required")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}

	if _, err := tx.Exec("DELETE FROM mappings WHERE map_id = ?", mapID); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("clearing mappings: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO mappings (map_id, seq, gen_line, gen_col, fields, source, src_line, src_col, name)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("preparing insert: %w", err)
	}

	return &Writer{id: mapID, tx: tx, stmt: stmt}, nil
}

// Mappings returns the mappings stored under mapID in generated order.
func (s *Store) Mappings(mapID string) ([]sourcemap.Mapping, error) {
	rows, err := s.db.Query(`
		SELECT gen_line, gen_col, fields, source, src_line, src_col, name
		FROM mappings WHERE map_id = ? ORDER BY seq
	`, mapID)
	if err != nil {
		return nil, fmt.Errorf("querying mappings: %w", err)
	}
	defer rows.Close()

	var out []sourcemap.Mapping
	for rows.Next() {
		var m sourcemap.Mapping
		var src, line, col, name sql.NullInt64
		if err := rows.Scan(&m.GenLine, &m.GenCol, &m.Fields, &src, &line, &col, &name); err != nil {
			return nil, fmt.Errorf("scanning mapping: %w", err)
		}
		m.SrcIndex = int(src.Int64)
		m.SrcLine = int(line.Int64)
		m.SrcCol = int(col.Int64)
		m.NameIndex = -1
		if name.Valid {
			m.NameIndex = int(name.Int64)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Maps lists every stored map.
func (s *Store) Maps() ([]MapInfo, error) {
	rows, err := s.db.Query("SELECT id, lines, segments FROM maps ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("querying maps: %w", err)
	}
	defer rows.Close()

	var out []MapInfo
	for rows.Next() {
		var mi MapInfo
		if err := rows.Scan(&mi.ID, &mi.Lines, &mi.Segments); err != nil {
			return nil, fmt.Errorf("scanning map: %w", err)
		}
		out = append(out, mi)
	}
	return out, rows.Err()
}

// Writer inserts mappings inside one transaction. It implements
// sourcemap.Sink; the first insert error is kept and returned by Commit.
type Writer struct {
	id   string
	tx   *sql.Tx
	stmt *sql.Stmt
	line int
	seq  int
	err  error
	done bool
}

// Err returns the first insert error.
func (w *Writer) Err() error {
	return w.err
}

func (w *Writer) OnNewline() {
	w.line++
}

func (w *Writer) OnMapping1(col int) {
	w.insert(col, 1, nil, nil, nil, nil)
}

func (w *Writer) OnMapping4(col, src, srcLine, srcCol int) {
	w.insert(col, 4, src, srcLine, srcCol, nil)
}

func (w *Writer) OnMapping5(col, src, srcLine, srcCol, name int) {
	w.insert(col, 5, src, srcLine, srcCol, name)
}

func (w *Writer) insert(col, fields int, src, srcLine, srcCol, name any) {
	if w.err != nil || w.done {
		return
	}
	_, err := w.stmt.Exec(w.id, w.seq, w.line, col, fields, src, srcLine, srcCol, name)
	if err != nil {
		w.err = fmt.Errorf("inserting mapping %d: %w", w.seq, err)
		return
	}
	w.seq++
}

// Commit records the map summary and commits. If an insert failed the
// transaction is rolled back and that error is returned.
func (w *Writer) Commit() error {
	if w.done {
		return errors.New("writer already finished")
	}
	w.done = true
	defer w.stmt.Close()

	if w.err != nil {
		w.tx.Rollback()
		return w.err
	}

	_, err := w.tx.Exec(`
		INSERT INTO maps (id, lines, segments) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET lines = excluded.lines, segments = excluded.segments
	`, w.id, w.line+1, w.seq)
	if err != nil {
		w.tx.Rollback()
		return fmt.Errorf("recording map: %w", err)
	}

	if err := w.tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}

// Rollback discards everything written so far.
func (w *Writer) Rollback() error {
	if w.done {
		return nil
	}
	w.done = true
	w.stmt.Close()
	return w.tx.Rollback()
}
