// internal/cli/options_test.go
package cli

import (
	"errors"
	"flag"
	"io"
	"testing"

	"pairfind/internal/config"
)

func newFS() *flag.FlagSet {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func mustParse(t *testing.T, args ...string) Options {
	t.Helper()
	opts, err := ParseArgs(newFS(), args)
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	return opts
}

var required = []string{"--mapping", "m.tsv", "--metadata", "d.tsv", "--out", "o.tsv"}

func withRequired(extra ...string) []string {
	return append(append([]string{}, required...), extra...)
}

func TestRequiredOK(t *testing.T) {
	o := mustParse(t, required...)
	if o.Mapping != "m.tsv" || o.Metadata != "d.tsv" || o.Out != "o.tsv" || o.Format != "tsv" {
		t.Errorf("bad parse %+v", o)
	}
	if o.Nested || o.IsSet("outer-min") {
		t.Errorf("nothing else should be set: %+v", o)
	}
}

func TestErrorMissingRequired(t *testing.T) {
	for i := 0; i < len(required); i += 2 {
		args := append(append([]string{}, required[:i]...), required[i+2:]...)
		if _, err := ParseArgs(newFS(), args); err == nil {
			t.Fatalf("expected error without %s", required[i])
		}
	}
}

func TestSemiNestedImpliesNested(t *testing.T) {
	o := mustParse(t, withRequired("--semi-nested", "--reuse", "reverse")...)
	if !o.Nested || !o.SemiNested || o.Reuse != "reverse" {
		t.Errorf("bad semi-nested parse %+v", o)
	}
}

func TestAliasesCountAsSet(t *testing.T) {
	o := mustParse(t, "--mapping", "m", "--metadata", "d", "-o", "x.tsv", "-t", "4", "--config", "c.yaml")
	if !o.IsSet("threads") || !o.IsSet("out") || !o.IsSet("regions") || o.Config != "c.yaml" {
		t.Errorf("aliases not canonicalised: %+v", o)
	}
}

func TestErrorBadValues(t *testing.T) {
	cases := [][]string{
		withRequired("--format", "fasta"),
		withRequired("--tm-policy", "strict"),
		withRequired("--semi-nested", "--reuse", "sideways"),
		withRequired("--threads", "-1"),
		withRequired("stray"),
	}
	for _, args := range cases {
		if _, err := ParseArgs(newFS(), args); err == nil {
			t.Errorf("expected error for %v", args)
		}
	}
}

func TestHelpExamplesVersion(t *testing.T) {
	if _, err := ParseArgs(newFS(), []string{"-h"}); !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("want ErrHelp, got %v", err)
	}
	if _, err := ParseArgs(newFS(), []string{"--examples"}); !errors.Is(err, ErrExamples) {
		t.Fatalf("want ErrExamples, got %v", err)
	}
	if o, err := ParseArgs(newFS(), []string{"--version"}); err != nil || !o.Version {
		t.Fatalf("version: %v %+v", err, o)
	}
}

func TestDumpConfigNeedsNoFiles(t *testing.T) {
	if _, err := ParseArgs(newFS(), []string{"--dump-config"}); err != nil {
		t.Fatalf("dump-config: %v", err)
	}
}

func TestApplyOverridesOnlySetFlags(t *testing.T) {
	cfg, err := config.Default()
	if err != nil {
		t.Fatal(err)
	}
	o := mustParse(t, withRequired("--outer-max", "1200", "--semi-nested", "--margin", "30", "--tm-policy", "containment")...)
	if err := o.Apply(cfg); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if cfg.Outer.MaxLength != 1200 || cfg.Outer.MinLength != 100 {
		t.Errorf("outer lengths: %+v", cfg.Outer)
	}
	if !cfg.Nested.Enabled || cfg.Nested.Mode != "semi" || cfg.Nested.Margin != 30 || cfg.Nested.Reuse != "both" {
		t.Errorf("nested: %+v", cfg.Nested)
	}
	if cfg.Outer.TmPolicy != "containment" || cfg.Inner.TmPolicy != "containment" {
		t.Errorf("tm policy not applied to both rounds")
	}
}

func TestApplyRejectsInvalidResult(t *testing.T) {
	cfg, err := config.Default()
	if err != nil {
		t.Fatal(err)
	}
	o := mustParse(t, withRequired("--outer-min", "2000", "--outer-max", "1000")...)
	if err := o.Apply(cfg); !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("want ErrInvalid, got %v", err)
	}
}
