//go:build js && wasm

// Command vlqmap-wasm is the WebAssembly build of the mappings decoder.
// It exposes decoding functions to JavaScript via syscall/js.
package main

import (
	"syscall/js"

	"github.com/HugoDaniel/vlqmap/internal/diagnostic"
	"github.com/HugoDaniel/vlqmap/internal/sourcemap"
	"github.com/HugoDaniel/vlqmap/pkg/api"
)

var version = "0.1.0"

func main() {
	// Export functions to JavaScript
	js.Global().Set("__vlqmap", js.ValueOf(map[string]interface{}{
		"decode":  js.FuncOf(decodeJS),
		"count":   js.FuncOf(countJS),
		"version": version,
	}))

	// Keep the Go runtime alive
	select {}
}

// jsSink forwards decoded mappings to the emit functions of an imports
// object. Both { emitNewline, ... } and { env: { emitNewline, ... } } are
// accepted. Missing functions are skipped.
type jsSink struct {
	newline  js.Value
	mapping1 js.Value
	mapping4 js.Value
	mapping5 js.Value
}

func newJSSink(imports js.Value) jsSink {
	env := imports
	if e := imports.Get("env"); e.Type() == js.TypeObject {
		env = e
	}
	return jsSink{
		newline:  function(env, "emitNewline"),
		mapping1: function(env, "emitMapping1"),
		mapping4: function(env, "emitMapping4"),
		mapping5: function(env, "emitMapping5"),
	}
}

func function(obj js.Value, name string) js.Value {
	v := obj.Get(name)
	if v.Type() != js.TypeFunction {
		return js.Undefined()
	}
	return v
}

func (s jsSink) OnNewline() {
	if !s.newline.IsUndefined() {
		s.newline.Invoke()
	}
}

func (s jsSink) OnMapping1(col int) {
	if !s.mapping1.IsUndefined() {
		s.mapping1.Invoke(col)
	}
}

func (s jsSink) OnMapping4(col, src, srcLine, srcCol int) {
	if !s.mapping4.IsUndefined() {
		s.mapping4.Invoke(col, src, srcLine, srcCol)
	}
}

func (s jsSink) OnMapping5(col, src, srcLine, srcCol, name int) {
	if !s.mapping5.IsUndefined() {
		s.mapping5.Invoke(col, src, srcLine, srcCol, name)
	}
}

// decodeJS is the JavaScript-callable decode function.
// Signature: __vlqmap.decode(mappings: string, imports?: object) => null | object
func decodeJS(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || args[0].Type() != js.TypeString {
		return makeError("decode requires a mappings string")
	}

	var sink sourcemap.Sink = sourcemap.SinkFuncs{}
	if len(args) > 1 && args[1].Type() == js.TypeObject {
		sink = newJSSink(args[1])
	}

	mappings := args[0].String()
	if err := sourcemap.DecodeString(mappings, sink); err != nil {
		return decodeError(err, mappings)
	}
	return nil
}

// countJS returns line and per-shape mapping counts.
// Signature: __vlqmap.count(mappings: string) => object
func countJS(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || args[0].Type() != js.TypeString {
		return makeError("count requires a mappings string")
	}

	mappings := args[0].String()
	c, err := api.Count(mappings)
	result := map[string]interface{}{
		"lines":    c.Lines,
		"segments": c.Segments,
		"mapping1": c.Mapping1,
		"mapping4": c.Mapping4,
		"mapping5": c.Mapping5,
		"error":    nil,
	}
	if err != nil {
		result["error"] = decodeError(err, mappings)
	}
	return result
}

// decodeError converts a decode failure into a plain JS object.
func decodeError(err error, mappings string) interface{} {
	d, ok := diagnostic.FromError(err, []byte(mappings))
	if !ok {
		return makeError(err.Error())
	}
	return map[string]interface{}{
		"kind":    kindName(err),
		"code":    string(d.Code),
		"offset":  d.Offset,
		"line":    d.Location.Line,
		"segment": d.Location.Segment,
		"message": d.Message,
	}
}

func kindName(err error) string {
	if de, ok := err.(*sourcemap.DecodeError); ok {
		return de.Kind.String()
	}
	return "error"
}

// makeError creates an error object for invalid calls.
func makeError(msg string) interface{} {
	return map[string]interface{}{
		"kind":    "error",
		"code":    "",
		"offset":  -1,
		"line":    0,
		"segment": 0,
		"message": msg,
	}
}
