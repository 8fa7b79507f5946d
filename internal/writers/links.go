package writers

import (
	"encoding/json"
	"fmt"
	"io"

	"pairfind/internal/engine"
	"pairfind/internal/jsonlutil"
	"pairfind/internal/output"
)

// StartLinkJSONLWriter streams each inner pair as one v1 link line.
func StartLinkJSONLWriter(out io.Writer, bufSize int) (chan<- engine.Pair, <-chan error) {
	return jsonlutil.Start[engine.Pair](out, bufSize,
		func(enc *json.Encoder, p engine.Pair) error {
			return enc.Encode(output.ToAPILink(p))
		},
		IsBrokenPipe,
	)
}

// LinkExt is the file extension of the links table in format.
func LinkExt(format string) string {
	switch format {
	case output.FormatJSON, output.FormatJSONL:
		return "." + format
	}
	return ".tsv"
}

// WriteLinks writes the outer→inner link table in format.
func WriteLinks(out io.Writer, format string, links []engine.Pair) error {
	switch format {
	case output.FormatTSV:
		return output.WriteLinks(out, links)
	case output.FormatJSON:
		return output.WriteLinksJSON(out, links)
	case output.FormatJSONL:
		pipe, done := StartLinkJSONLWriter(out, len(links))
		for _, p := range links {
			pipe <- p
		}
		close(pipe)
		return <-done
	}
	return fmt.Errorf("unknown link format %q", format)
}
