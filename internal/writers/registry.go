// internal/writers/registry.go
package writers

import (
	"fmt"
	"io"
)

// CombinationWriters maps an output format to its handler. Handlers register
// in init() blocks.
var CombinationWriters = map[string]func(w io.Writer, data interface{}) error{}

// RegisterCombination is idempotent last-wins.
func RegisterCombination(format string, fn func(io.Writer, interface{}) error) {
	CombinationWriters[format] = fn
}

// WriteCombinations dispatches payload to the handler for format.
func WriteCombinations(format string, w io.Writer, payload interface{}) error {
	fn, ok := CombinationWriters[format]
	if !ok {
		return fmt.Errorf("unknown combination format %q (no writer registered)", format)
	}
	return fn(w, payload)
}

// Supported reports whether format has a registered writer.
func Supported(format string) bool {
	_, ok := CombinationWriters[format]
	return ok
}
