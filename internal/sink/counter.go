package sink

import "fmt"

// Counter only counts. Lines starts at 1 because a buffer without any ';'
// still describes one generated line.
type Counter struct {
	Lines    int
	Mapping1 int
	Mapping4 int
	Mapping5 int
}

// NewCounter returns a Counter ready for a decode.
func NewCounter() *Counter {
	return &Counter{Lines: 1}
}

// Reset prepares the counter for another decode.
func (c *Counter) Reset() {
	*c = Counter{Lines: 1}
}

// Segments returns the number of mappings of any shape.
func (c *Counter) Segments() int {
	return c.Mapping1 + c.Mapping4 + c.Mapping5
}

// Validate checks the line count against an expected value. An expectation
// of zero or less is not checked.
func (c *Counter) Validate(expectLines int) error {
	if expectLines > 0 && c.Lines != expectLines {
		return fmt.Errorf("mappings incorrect: got %d lines, want %d", c.Lines, expectLines)
	}
	return nil
}

func (c *Counter) OnNewline()                         { c.Lines++ }
func (c *Counter) OnMapping1(int)                     { c.Mapping1++ }
func (c *Counter) OnMapping4(int, int, int, int)      { c.Mapping4++ }
func (c *Counter) OnMapping5(int, int, int, int, int) { c.Mapping5++ }
