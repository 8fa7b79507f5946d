package writers

import (
	"bytes"
	"strings"
	"testing"
)

func TestUnknownCombinationFormatError(t *testing.T) {
	var b bytes.Buffer
	in, done := StartCombinationWriter(&b, "nope-format", false, 1)
	close(in) // no payload; writer should error out immediately on dispatch
	err := <-done
	if err == nil {
		t.Fatalf("expected error for unknown format")
	}
	if !strings.Contains(err.Error(), "unknown combination format") {
		t.Fatalf("unexpected error message: %v", err)
	}
}

func TestSupportedFormats(t *testing.T) {
	for _, f := range []string{"tsv", "json", "jsonl"} {
		if !Supported(f) {
			t.Fatalf("format %q has no writer", f)
		}
	}
	if Supported("fasta") {
		t.Fatalf("fasta should not be registered")
	}
}
