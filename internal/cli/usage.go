// internal/cli/usage.go
package cli

import (
	"flag"
	"fmt"
	"io"

	"pairfind/internal/version"
)

// UsageCommon installs the grouped Usage() handler on fs.
func UsageCommon(fs *flag.FlagSet, name string) {
	fs.Usage = func() {
		out := fs.Output()
		def := func(flagName string) string {
			if f := fs.Lookup(flagName); f != nil {
				return f.DefValue
			}
			return ""
		}

		fmt.Fprintf(out, "%s – primer pair and nested-PCR combination search\n\n", name)
		fmt.Fprintf(out, "Version: %s\n\n", version.Version)
		fmt.Fprintf(out, "Usage:\n  %s --mapping FILE --metadata FILE [--regions CONFIG] --out FILE [flags]\n", name)

		fmt.Fprintln(out, "\nInput:")
		fmt.Fprintln(out, "      --mapping file          Primer mapping TSV (Primer, Reference, Genotype, Start, End) [*]")
		fmt.Fprintln(out, "      --metadata file         Primer metadata TSV (Primer, Sequence, Tm_min, Tm_max) [*]")
		fmt.Fprintln(out, "      --regions file          YAML run configuration; alias --config")

		fmt.Fprintln(out, "\nOuter / single round (override the configuration):")
		fmt.Fprintln(out, "      --outer-min int         Minimum amplicon length, inclusive")
		fmt.Fprintln(out, "      --outer-max int         Maximum amplicon length, inclusive (0=unbounded)")
		fmt.Fprintln(out, "      --min-distance int      Reverse start must exceed forward start by more than N")
		fmt.Fprintln(out, "      --tm-policy string      bounded | containment")

		fmt.Fprintln(out, "\nInner round:")
		fmt.Fprintln(out, "      --nested                Design a fully nested inner round")
		fmt.Fprintln(out, "      --semi-nested           Inner round keeps one outer primer")
		fmt.Fprintln(out, "      --reuse string          Semi-nested primer to keep: forward | reverse | both")
		fmt.Fprintln(out, "      --inner-min int         Minimum inner amplicon length, inclusive")
		fmt.Fprintln(out, "      --inner-max int         Maximum inner amplicon length, inclusive (0=unbounded)")
		fmt.Fprintln(out, "      --margin int            Inner primers lie N bp inside the outer amplicon")

		fmt.Fprintln(out, "\nPerformance:")
		fmt.Fprintln(out, "  -t, --threads int           Worker goroutines (0=all CPUs)")

		fmt.Fprintln(out, "\nOutput:")
		fmt.Fprintln(out, "  -o, --out file              Main table; _outer/_inner/_links/_regions tables go next to it [*]")
		fmt.Fprintf(out, "      --format string         tsv | json | jsonl [%s]\n", def("format"))
		fmt.Fprintln(out, "      --primers-out file      In-silico PCR primer file (id fwd rev min max)")
		fmt.Fprintln(out, "      --sqlite file           Append combinations and links to a SQLite database")
		fmt.Fprintln(out, "      --metrics file          Prometheus textfile with rejection counters")

		fmt.Fprintln(out, "\nMiscellaneous:")
		fmt.Fprintln(out, "      --log-level string      trace | debug | info | warn | error")
		fmt.Fprintln(out, "      --log-format string     console | json")
		fmt.Fprintln(out, "  -q, --quiet                 Only log errors")
		fmt.Fprintln(out, "      --dump-config           Print the effective configuration and exit")
		fmt.Fprintln(out, "      --examples              Print usage examples and exit")
		fmt.Fprintln(out, "  -v, --version               Print version and exit")
		fmt.Fprintln(out, "  -h, --help                  Show this help and exit")
		fmt.Fprintln(out, "\nFlags marked [*] are required. Exit codes: 0 ok, 1 bad input, 2 internal error, 130 interrupted.")
	}
}

// PrintExamples prints a small quickstart.
func PrintExamples(out io.Writer, name string) {
	if out == nil {
		return
	}
	_, _ = fmt.Fprintf(out, "%s quickstart\n\n", name)
	_, _ = fmt.Fprintf(out, "  # single round, amplicons of 100-1000 bp\n")
	_, _ = fmt.Fprintf(out, "  %s --mapping map.tsv --metadata meta.tsv --outer-min 100 --outer-max 1000 --out pairs.tsv\n\n", name)
	_, _ = fmt.Fprintf(out, "  # fully nested, inner amplicons of 100-500 bp at least 50 bp inside the outer one\n")
	_, _ = fmt.Fprintf(out, "  %s --mapping map.tsv --metadata meta.tsv --regions regions.yaml --nested --inner-min 100 --inner-max 500 --margin 50 --out nested.tsv\n\n", name)
	_, _ = fmt.Fprintf(out, "  # semi-nested keeping the outer forward primer, JSONL plus an in-silico PCR primer file\n")
	_, _ = fmt.Fprintf(out, "  %s --mapping map.tsv --metadata meta.tsv --semi-nested --reuse forward --format jsonl --primers-out primers.txt --out semi.jsonl\n", name)
	_, _ = fmt.Fprintln(out, "\nTip: run with --help for all flags.")
}
