package sink

import "github.com/HugoDaniel/vlqmap/internal/sourcemap"

type tee []sourcemap.Sink

// Tee returns a sink that forwards every call to each of sinks, in order.
func Tee(sinks ...sourcemap.Sink) sourcemap.Sink {
	return tee(sinks)
}

func (t tee) OnNewline() {
	for _, s := range t {
		s.OnNewline()
	}
}

func (t tee) OnMapping1(col int) {
	for _, s := range t {
		s.OnMapping1(col)
	}
}

func (t tee) OnMapping4(col, src, srcLine, srcCol int) {
	for _, s := range t {
		s.OnMapping4(col, src, srcLine, srcCol)
	}
}

func (t tee) OnMapping5(col, src, srcLine, srcCol, name int) {
	for _, s := range t {
		s.OnMapping5(col, src, srcLine, srcCol, name)
	}
}
