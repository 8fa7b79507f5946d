// internal/output/json_test.go
package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"pairfind/internal/catalog"
	"pairfind/internal/engine"
	"pairfind/pkg/api"
)

func TestWriteJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	list := []engine.Pair{{
		Name: "F1_R1", Forward: catalog.Record{ID: "F1"}, Reverse: catalog.Record{ID: "R1"},
		AmpliconLength: 300, TmMaxDiff: 1.5, Round: engine.RoundSingle,
	}}
	if err := WriteJSON(buf, list); err != nil {
		t.Fatalf("json write: %v", err)
	}
	var got []api.CombinationV1
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil || len(got) != 1 || got[0].Name != "F1_R1" {
		t.Fatalf("json round-trip failed: %v %v", err, got)
	}
	if got[0].ForwardPrimer != "F1" || got[0].Round != "single" || got[0].Outer != "" {
		t.Fatalf("unexpected v1 record: %+v", got[0])
	}
}
