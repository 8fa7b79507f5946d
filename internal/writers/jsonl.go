// internal/writers/jsonl.go
package writers

import (
	"encoding/json"
	"io"

	"pairfind/internal/engine"
	"pairfind/internal/jsonlutil"
	"pairfind/internal/output"
)

// StartCombinationJSONLWriter streams each engine.Pair as one JSON line (v1).
func StartCombinationJSONLWriter(out io.Writer, bufSize int) (chan<- engine.Pair, <-chan error) {
	return jsonlutil.Start[engine.Pair](out, bufSize,
		func(enc *json.Encoder, p engine.Pair) error {
			return enc.Encode(output.ToAPICombination(p))
		},
		IsBrokenPipe,
	)
}
