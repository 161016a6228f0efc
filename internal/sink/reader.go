package sink

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/HugoDaniel/vlqmap/internal/sourcemap"
)

// ReadJSON reads mappings in the JSON-lines form written by a FormatJSON
// Printer. A record without a source is a 1-field mapping; a record with a
// source but no name is a 4-field mapping.
func ReadJSON(r io.Reader) ([]sourcemap.Mapping, error) {
	dec := json.NewDecoder(r)
	var out []sourcemap.Mapping
	for n := 1; ; n++ {
		var rec jsonMapping
		if err := dec.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return out, fmt.Errorf("record %d: %w", n, err)
		}
		m, err := rec.mapping()
		if err != nil {
			return out, fmt.Errorf("record %d: %w", n, err)
		}
		out = append(out, m)
	}
}

func (r jsonMapping) mapping() (sourcemap.Mapping, error) {
	if r.GenLine < 0 || r.GenCol < 0 {
		return sourcemap.Mapping{}, fmt.Errorf("negative generated position %d:%d", r.GenLine, r.GenCol)
	}
	m := sourcemap.Mapping{GenLine: r.GenLine, GenCol: r.GenCol, NameIndex: -1, Fields: 1}
	if r.Source == nil {
		if r.Name != nil {
			return m, errors.New("name without source")
		}
		return m, nil
	}
	if r.SrcLine == nil || r.SrcCol == nil {
		return m, errors.New("source without srcLine and srcCol")
	}
	m.SrcIndex, m.SrcLine, m.SrcCol = *r.Source, *r.SrcLine, *r.SrcCol
	m.Fields = 4
	if r.Name != nil {
		m.NameIndex = *r.Name
		m.Fields = 5
	}
	return m, nil
}
