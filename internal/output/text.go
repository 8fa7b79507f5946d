// internal/output/text.go
package output

import (
	"bufio"
	"io"

	"pairfind/internal/engine"
)

// WriteText writes the header and one TSV row per pair. An empty list still
// yields the header.
func WriteText(w io.Writer, list []engine.Pair, withOuter bool) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(Header(withOuter) + "\n"); err != nil {
		return err
	}
	for _, p := range list {
		if _, err := bw.WriteString(FormatRowTSV(p, withOuter) + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// StreamText is WriteText over a channel.
func StreamText(w io.Writer, in <-chan engine.Pair, withOuter bool) error {
	bw := bufio.NewWriter(w)
	var werr error
	if _, err := bw.WriteString(Header(withOuter) + "\n"); err != nil {
		werr = err
	}
	for p := range in {
		if werr != nil {
			continue // drain so the producer never blocks
		}
		if _, err := bw.WriteString(FormatRowTSV(p, withOuter) + "\n"); err != nil {
			werr = err
		}
	}
	if werr != nil {
		return werr
	}
	return bw.Flush()
}

// WriteLinks writes the outer→inner link table.
func WriteLinks(w io.Writer, links []engine.Pair) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(LinksHeader + "\n"); err != nil {
		return err
	}
	for _, p := range links {
		if _, err := bw.WriteString(FormatLinkTSV(p) + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}
