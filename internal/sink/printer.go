package sink

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/HugoDaniel/vlqmap/internal/sourcemap"
	"github.com/fatih/color"
)

// Format selects the Printer output.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, FormatJSON, FormatCSV:
		return Format(s), nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown format %q (want text, json or csv)", s)
	}
}

var csvHeader = []string{"gen_line", "gen_col", "fields", "source", "src_line", "src_col", "name"}

// jsonMapping is the JSON-lines representation of one mapping.
type jsonMapping struct {
	GenLine    int    `json:"genLine"`
	GenCol     int    `json:"genCol"`
	Source     *int   `json:"source,omitempty"`
	SourceName string `json:"sourceName,omitempty"`
	SrcLine    *int   `json:"srcLine,omitempty"`
	SrcCol     *int   `json:"srcCol,omitempty"`
	Name       *int   `json:"name,omitempty"`
	NameText   string `json:"nameText,omitempty"`
}

// Printer writes one record per mapping. Sources and Names, when set, are
// used to show the file and identifier next to their indices; out-of-range
// indices are printed as bare numbers.
//
// The first write error is kept and later calls become no-ops; check Err
// after decoding, or call Flush.
type Printer struct {
	Sources []string
	Names   []string

	format Format
	w      *bufio.Writer
	csv    *csv.Writer
	enc    *json.Encoder
	line   int
	err    error

	pos  *color.Color
	src  *color.Color
	name *color.Color
}

// NewPrinter creates a printer writing to w. Colors follow color.NoColor.
func NewPrinter(w io.Writer, format Format) *Printer {
	p := &Printer{
		format: format,
		w:      bufio.NewWriter(w),
		pos:    color.New(color.FgHiGreen),
		src:    color.New(color.FgHiBlue),
		name:   color.New(color.FgYellow),
	}
	switch format {
	case FormatCSV:
		p.csv = csv.NewWriter(p.w)
		p.err = p.csv.Write(csvHeader)
	case FormatJSON:
		p.enc = json.NewEncoder(p.w)
	}
	return p
}

// Err returns the first write error.
func (p *Printer) Err() error {
	return p.err
}

// Flush writes buffered output and returns the first error seen.
func (p *Printer) Flush() error {
	if p.csv != nil {
		p.csv.Flush()
		if p.err == nil {
			p.err = p.csv.Error()
		}
	}
	if err := p.w.Flush(); err != nil && p.err == nil {
		p.err = err
	}
	return p.err
}

func (p *Printer) OnNewline() {
	p.line++
}

func (p *Printer) OnMapping1(col int) {
	p.write(sourcemap.Mapping{GenLine: p.line, GenCol: col, NameIndex: -1, Fields: 1})
}

func (p *Printer) OnMapping4(col, src, srcLine, srcCol int) {
	p.write(sourcemap.Mapping{GenLine: p.line, GenCol: col, SrcIndex: src, SrcLine: srcLine, SrcCol: srcCol, NameIndex: -1, Fields: 4})
}

func (p *Printer) OnMapping5(col, src, srcLine, srcCol, name int) {
	p.write(sourcemap.Mapping{GenLine: p.line, GenCol: col, SrcIndex: src, SrcLine: srcLine, SrcCol: srcCol, NameIndex: name, Fields: 5})
}

// Print writes a single mapping at its own generated line.
func (p *Printer) Print(m sourcemap.Mapping) {
	p.write(m)
}

func (p *Printer) write(m sourcemap.Mapping) {
	if p.err != nil {
		return
	}
	switch p.format {
	case FormatCSV:
		p.err = p.csv.Write(p.csvRecord(m))
	case FormatJSON:
		p.err = p.enc.Encode(p.jsonRecord(m))
	default:
		_, p.err = io.WriteString(p.w, p.textRecord(m))
	}
}

func (p *Printer) textRecord(m sourcemap.Mapping) string {
	s := p.pos.Sprintf("%d:%d", m.GenLine, m.GenCol)
	if m.HasSource() {
		s += " -> " + p.src.Sprint(lookup(p.Sources, m.SrcIndex)) + fmt.Sprintf(" %d:%d", m.SrcLine, m.SrcCol)
	}
	if m.HasName() {
		s += " " + p.name.Sprint(lookup(p.Names, m.NameIndex))
	}
	return s + "\n"
}

func (p *Printer) jsonRecord(m sourcemap.Mapping) jsonMapping {
	r := jsonMapping{GenLine: m.GenLine, GenCol: m.GenCol}
	if m.HasSource() {
		src, line, col := m.SrcIndex, m.SrcLine, m.SrcCol
		r.Source, r.SrcLine, r.SrcCol = &src, &line, &col
		if src >= 0 && src < len(p.Sources) {
			r.SourceName = p.Sources[src]
		}
	}
	if m.HasName() {
		name := m.NameIndex
		r.Name = &name
		if name >= 0 && name < len(p.Names) {
			r.NameText = p.Names[name]
		}
	}
	return r
}

func (p *Printer) csvRecord(m sourcemap.Mapping) []string {
	rec := []string{strconv.Itoa(m.GenLine), strconv.Itoa(m.GenCol), strconv.Itoa(m.Fields), "", "", "", ""}
	if m.HasSource() {
		rec[3] = strconv.Itoa(m.SrcIndex)
		rec[4] = strconv.Itoa(m.SrcLine)
		rec[5] = strconv.Itoa(m.SrcCol)
	}
	if m.HasName() {
		rec[6] = strconv.Itoa(m.NameIndex)
	}
	return rec
}

// lookup renders "#i" or "#i(name)" when the index is within list.
func lookup(list []string, i int) string {
	if i >= 0 && i < len(list) {
		return fmt.Sprintf("#%d(%s)", i, list[i])
	}
	return "#" + strconv.Itoa(i)
}
