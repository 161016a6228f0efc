// Package main provides a C-callable static library for decoding source map
// mappings.
//
// This is built with -buildmode=c-archive to produce libvlqmap.a that can be
// linked into Zig/C/Rust programs together with vlqmap.h.
//
// Build:
//
//	CGO_ENABLED=1 go build -buildmode=c-archive -o build/libvlqmap.a ./cmd/vlqmap-lib
//
// Exported functions:
//
//	vlqmap_decode(bytes, length, sink, out_offset) -> error_code
//	vlqmap_count(bytes, length, out_lines, out_segments, out_offset) -> error_code
//	vlqmap_version() -> *char
package main

/*
#include "vlqmap.h"
*/
import "C"
import (
	"errors"
	"unsafe"

	"github.com/HugoDaniel/vlqmap/internal/sourcemap"
	"github.com/HugoDaniel/vlqmap/pkg/api"
)

// Version should match the release version
const version = "0.1.0"

// versionStr is allocated once and never freed.
var versionStr = C.CString(version)

// errInternal mirrors VLQMAP_ERR_INTERNAL.
const errInternal = 6

// result maps a decode error to a VLQMAP_ERR_* value and the offset of the
// failure. Decode error codes share their values with sourcemap.ErrorKind.
// Anything that is not a *DecodeError is reported as an internal error.
func result(err error) (code, offset int) {
	if err == nil {
		return 0, 0
	}
	var de *sourcemap.DecodeError
	if !errors.As(err, &de) {
		return errInternal, 0
	}
	return int(de.Kind), de.Offset
}

// errorCode converts err for C callers. The offset of a decode failure is
// stored in out_offset when non-NULL.
func errorCode(err error, outOffset *C.size_t) C.int {
	code, offset := result(err)
	if code != C.VLQMAP_OK && code != errInternal && outOffset != nil {
		*outOffset = C.size_t(offset)
	}
	return C.int(code)
}

func goBytes(bytes *C.char, length C.size_t) []byte {
	if length == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(bytes)), int(length))
}

// vlqmap_decode decodes a mappings buffer, calling the sink for every
// newline and mapping in order.
//
// Parameters:
//   - bytes: pointer to the mappings (not copied, need not be NUL-terminated)
//   - length: length of bytes
//   - sink: callbacks; must not be NULL
//   - out_offset: receives the byte offset of a failure (may be NULL)
//
// Returns:
//   - VLQMAP_OK on success
//   - the VLQMAP_ERR_* code of the failure otherwise; callbacks made before
//     the failure stay made
//
//export vlqmap_decode
func vlqmap_decode(bytes *C.char, length C.size_t, sink *C.vlqmap_sink, out_offset *C.size_t) C.int {
	if sink == nil || (bytes == nil && length > 0) {
		return C.VLQMAP_ERR_NULL_INPUT
	}
	return errorCode(sourcemap.Decode(goBytes(bytes, length), cSink{sink}), out_offset)
}

// vlqmap_count counts generated lines and mappings without a sink.
//
//export vlqmap_count
func vlqmap_count(bytes *C.char, length C.size_t, out_lines *C.size_t, out_segments *C.size_t, out_offset *C.size_t) C.int {
	if out_lines == nil || out_segments == nil || (bytes == nil && length > 0) {
		return C.VLQMAP_ERR_NULL_INPUT
	}
	counts, err := api.Count(string(goBytes(bytes, length)))
	*out_lines = C.size_t(counts.Lines)
	*out_segments = C.size_t(counts.Segments)
	return errorCode(err, out_offset)
}

// vlqmap_version returns the library version string.
// The returned pointer is static and must NOT be freed.
//
//export vlqmap_version
func vlqmap_version() *C.char {
	return versionStr
}

// Required for c-archive build mode
func main() {}
