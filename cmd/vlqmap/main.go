// Command vlqmap decodes source map mappings.
//
// Usage:
//
//	vlqmap decode app.js.map
//	vlqmap count --mappings 'AAAA;AACA'
//	vlqmap check dist/*.map
//	vlqmap lookup --file app.js.map 0:120
//	vlqmap bench --iterations 20 --sink count --expect-lines 379201 scala.js.map
//	vlqmap store --db maps.db app.js.map
//	vlqmap decode -f json app.js.map | vlqmap encode
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
