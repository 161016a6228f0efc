package main

/*
#include "vlqmap.h"

static inline void vlqmap_call_newline(const vlqmap_sink *s) {
	if (s->emit_newline) s->emit_newline(s->user);
}

static inline void vlqmap_call_mapping1(const vlqmap_sink *s, int32_t col) {
	if (s->emit_mapping1) s->emit_mapping1(s->user, col);
}

static inline void vlqmap_call_mapping4(const vlqmap_sink *s, int32_t col, int32_t src, int32_t src_line, int32_t src_col) {
	if (s->emit_mapping4) s->emit_mapping4(s->user, col, src, src_line, src_col);
}

static inline void vlqmap_call_mapping5(const vlqmap_sink *s, int32_t col, int32_t src, int32_t src_line, int32_t src_col, int32_t name) {
	if (s->emit_mapping5) s->emit_mapping5(s->user, col, src, src_line, src_col, name);
}
*/
import "C"

// cSink forwards decoded mappings to the callbacks of a vlqmap_sink.
// Values fit in int32: the decoder rejects any value or running total
// outside ±math.MaxInt32.
type cSink struct {
	s *C.vlqmap_sink
}

func (c cSink) OnNewline() {
	C.vlqmap_call_newline(c.s)
}

func (c cSink) OnMapping1(col int) {
	C.vlqmap_call_mapping1(c.s, C.int32_t(col))
}

func (c cSink) OnMapping4(col, src, srcLine, srcCol int) {
	C.vlqmap_call_mapping4(c.s, C.int32_t(col), C.int32_t(src), C.int32_t(srcLine), C.int32_t(srcCol))
}

func (c cSink) OnMapping5(col, src, srcLine, srcCol, name int) {
	C.vlqmap_call_mapping5(c.s, C.int32_t(col), C.int32_t(src), C.int32_t(srcLine), C.int32_t(srcCol), C.int32_t(name))
}
