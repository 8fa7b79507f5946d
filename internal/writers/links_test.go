package writers

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"pairfind/internal/engine"
	"pairfind/internal/output"
	"pairfind/pkg/api"
)

func TestWriteLinks_FollowsFormat(t *testing.T) {
	links := []engine.Pair{
		pair("F2_R2", "F2", "R2", engine.RoundInner, "F1_R1"),
		pair("F3_R3", "F3", "R3", engine.RoundInner, "F1_R1"),
	}

	var tsv bytes.Buffer
	if err := WriteLinks(&tsv, output.FormatTSV, links); err != nil {
		t.Fatalf("tsv: %v", err)
	}
	if !strings.HasPrefix(tsv.String(), output.LinksHeader+"\n") {
		t.Fatalf("tsv links header missing:\n%s", tsv.String())
	}

	var jl bytes.Buffer
	if err := WriteLinks(&jl, output.FormatJSONL, links); err != nil {
		t.Fatalf("jsonl: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(jl.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("want 2 jsonl lines, got %d", len(lines))
	}
	var l api.LinkV1
	if err := json.Unmarshal([]byte(lines[1]), &l); err != nil {
		t.Fatalf("bad line: %v", err)
	}
	if l != (api.LinkV1{Outer: "F1_R1", Inner: "F3_R3", Round: "inner"}) {
		t.Fatalf("unexpected link %+v", l)
	}

	var arr bytes.Buffer
	if err := WriteLinks(&arr, output.FormatJSON, nil); err != nil {
		t.Fatalf("json: %v", err)
	}
	if strings.TrimSpace(arr.String()) != "[]" {
		t.Fatalf("empty json links = %q, want []", arr.String())
	}

	if err := WriteLinks(&arr, "xml", links); err == nil {
		t.Fatalf("want error for unknown format")
	}
}

func TestLinkExt(t *testing.T) {
	for format, want := range map[string]string{"tsv": ".tsv", "json": ".json", "jsonl": ".jsonl"} {
		if got := LinkExt(format); got != want {
			t.Fatalf("LinkExt(%q) = %q, want %q", format, got, want)
		}
	}
}
