package sourcemap

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// SourceMap represents a Source Map v3.
// See https://sourcemaps.info/spec.html
type SourceMap struct {
	Version        int      `json:"version"`
	File           string   `json:"file,omitempty"`
	SourceRoot     string   `json:"sourceRoot,omitempty"`
	Sources        []string `json:"sources"`
	SourcesContent []string `json:"sourcesContent,omitempty"`
	Names          []string `json:"names"`
	Mappings       string   `json:"mappings"`
}

// ErrUnsupportedVersion is returned by Parse for documents that are not v3.
var ErrUnsupportedVersion = errors.New("sourcemap: unsupported version")

// Parse reads a Source Map v3 JSON document. The mappings string is not
// decoded; pass it to Decode.
func Parse(data []byte) (*SourceMap, error) {
	var sm SourceMap
	if err := json.Unmarshal(data, &sm); err != nil {
		return nil, fmt.Errorf("parsing source map: %w", err)
	}
	if sm.Version != 3 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, sm.Version)
	}
	return &sm, nil
}

// ToJSON returns the source map as a JSON string.
func (sm *SourceMap) ToJSON() string {
	data, _ := json.Marshal(sm)
	return string(data)
}

// ToDataURI returns the source map as a data URI for inline embedding.
func (sm *SourceMap) ToDataURI() string {
	encoded := base64.StdEncoding.EncodeToString([]byte(sm.ToJSON()))
	return "data:application/json;base64," + encoded
}

// Mapping is one decoded segment together with its generated line.
type Mapping struct {
	GenLine   int // Generated line (0-indexed)
	GenCol    int // Generated column (0-indexed)
	SrcIndex  int // Source file index
	SrcLine   int // Source line (0-indexed)
	SrcCol    int // Source column (0-indexed)
	NameIndex int // Name index (-1 if no name)
	Fields    int // 1, 4 or 5
}

// HasSource reports whether the segment carried a source position.
func (m Mapping) HasSource() bool {
	return m.Fields >= 4
}

// HasName reports whether the segment carried a name index.
func (m Mapping) HasName() bool {
	return m.Fields == 5
}

// Emit replays the mapping into a sink using the call matching its shape.
func (m Mapping) Emit(s Sink) {
	switch m.Fields {
	case 5:
		s.OnMapping5(m.GenCol, m.SrcIndex, m.SrcLine, m.SrcCol, m.NameIndex)
	case 4:
		s.OnMapping4(m.GenCol, m.SrcIndex, m.SrcLine, m.SrcCol)
	default:
		s.OnMapping1(m.GenCol)
	}
}

// mappingList collects mappings into a flat slice.
type mappingList struct {
	line     int
	mappings []Mapping
}

func (l *mappingList) OnNewline() { l.line++ }

func (l *mappingList) OnMapping1(col int) {
	l.mappings = append(l.mappings, Mapping{GenLine: l.line, GenCol: col, NameIndex: -1, Fields: 1})
}

func (l *mappingList) OnMapping4(col, src, srcLine, srcCol int) {
	l.mappings = append(l.mappings, Mapping{
		GenLine: l.line, GenCol: col,
		SrcIndex: src, SrcLine: srcLine, SrcCol: srcCol,
		NameIndex: -1, Fields: 4,
	})
}

func (l *mappingList) OnMapping5(col, src, srcLine, srcCol, name int) {
	l.mappings = append(l.mappings, Mapping{
		GenLine: l.line, GenCol: col,
		SrcIndex: src, SrcLine: srcLine, SrcCol: srcCol,
		NameIndex: name, Fields: 5,
	})
}

// DecodeMappings decodes a VLQ-encoded mappings string into a flat list.
// On error the mappings decoded before the failure are returned with it.
func DecodeMappings(mappings string) ([]Mapping, error) {
	if mappings == "" {
		return nil, nil
	}
	var l mappingList
	err := DecodeString(mappings, &l)
	return l.mappings, err
}

// Generator builds a source map incrementally.
type Generator struct {
	file       string
	sourceRoot string
	sources    []string
	sourceIdx  map[string]int
	contents   map[int]string
	names      []string
	nameIdx    map[string]int
	mappings   []Mapping
}

// NewGenerator creates an empty generator.
func NewGenerator() *Generator {
	return &Generator{
		sourceIdx: make(map[string]int),
		contents:  make(map[int]string),
		nameIdx:   make(map[string]int),
	}
}

// SetFile sets the generated file name.
func (g *Generator) SetFile(file string) {
	g.file = file
}

// SetSourceRoot sets the sourceRoot field.
func (g *Generator) SetSourceRoot(root string) {
	g.sourceRoot = root
}

// AddSource registers a source file and returns its index. Registering the
// same name twice returns the existing index.
func (g *Generator) AddSource(name string) int {
	if idx, ok := g.sourceIdx[name]; ok {
		return idx
	}
	idx := len(g.sources)
	g.sourceIdx[name] = idx
	g.sources = append(g.sources, name)
	return idx
}

// SetSourceContent embeds the content of a registered source.
func (g *Generator) SetSourceContent(source int, content string) {
	g.contents[source] = content
}

// AddName registers a name and returns its index.
func (g *Generator) AddName(name string) int {
	if idx, ok := g.nameIdx[name]; ok {
		return idx
	}
	idx := len(g.names)
	g.nameIdx[name] = idx
	g.names = append(g.names, name)
	return idx
}

// AddMapping records a mapping. Fields selects the segment shape and
// defaults to 4.
func (g *Generator) AddMapping(m Mapping) {
	if m.Fields == 0 {
		m.Fields = 4
	}
	g.mappings = append(g.mappings, m)
}

// Generate produces the final SourceMap.
func (g *Generator) Generate() *SourceMap {
	sm := &SourceMap{
		Version:    3,
		File:       g.file,
		SourceRoot: g.sourceRoot,
		Sources:    append([]string{}, g.sources...),
		Names:      append([]string{}, g.names...),
		Mappings:   EncodeMappings(g.mappings),
	}

	if len(g.contents) > 0 {
		sm.SourcesContent = make([]string, len(g.sources))
		for i, c := range g.contents {
			if i >= 0 && i < len(sm.SourcesContent) {
				sm.SourcesContent[i] = c
			}
		}
	}

	return sm
}

// EncodeMappings delta-encodes mappings into a mappings string. Mappings are
// ordered by generated position first; the input slice is not modified.
func EncodeMappings(mappings []Mapping) string {
	if len(mappings) == 0 {
		return ""
	}

	sorted := append([]Mapping(nil), mappings...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].GenLine != sorted[j].GenLine {
			return sorted[i].GenLine < sorted[j].GenLine
		}
		return sorted[i].GenCol < sorted[j].GenCol
	})

	buf := make([]byte, 0, len(sorted)*5)

	// State for delta encoding
	prevGenCol := 0
	prevSrcIndex := 0
	prevSrcLine := 0
	prevSrcCol := 0
	prevNameIndex := 0

	currentLine := 0
	firstOnLine := true

	for i := range sorted {
		m := &sorted[i]

		// Emit semicolons for skipped lines
		for currentLine < m.GenLine {
			buf = append(buf, ';')
			currentLine++
			prevGenCol = 0
			firstOnLine = true
		}

		if !firstOnLine {
			buf = append(buf, ',')
		}
		firstOnLine = false

		buf = AppendVLQ(buf, m.GenCol-prevGenCol)
		prevGenCol = m.GenCol

		if m.Fields < 4 {
			continue
		}

		buf = AppendVLQ(buf, m.SrcIndex-prevSrcIndex)
		prevSrcIndex = m.SrcIndex
		buf = AppendVLQ(buf, m.SrcLine-prevSrcLine)
		prevSrcLine = m.SrcLine
		buf = AppendVLQ(buf, m.SrcCol-prevSrcCol)
		prevSrcCol = m.SrcCol

		if m.Fields == 5 {
			buf = AppendVLQ(buf, m.NameIndex-prevNameIndex)
			prevNameIndex = m.NameIndex
		}
	}

	return string(buf)
}
