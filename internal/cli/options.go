// internal/cli/options.go
package cli

import (
	"errors"
	"flag"
	"fmt"

	"pairfind/internal/config"
	"pairfind/internal/engine"
	"pairfind/internal/nested"
	"pairfind/internal/output"
)

// Options holds all CLI flags. Threshold flags only override the loaded
// configuration when given explicitly.
type Options struct {
	// Input
	Mapping  string
	Metadata string
	Config   string // --regions / --config YAML

	// Outer round
	OuterMin    int
	OuterMax    int
	MinDistance int
	TmPolicy    string

	// Inner round
	Nested     bool
	SemiNested bool
	Reuse      string
	InnerMin   int
	InnerMax   int
	Margin     int

	// Performance
	Threads int

	// Output
	Out        string
	Format     string
	PrimersOut string
	SQLite     string
	Metrics    string

	// Logging
	LogLevel  string
	LogFormat string
	Quiet     bool

	DumpConfig bool
	Examples   bool
	Version    bool

	set map[string]bool
}

// IsSet reports whether flag name was given on the command line.
func (o Options) IsSet(name string) bool { return o.set[name] }

// NewFlagSet returns a configured FlagSet with the grouped usage text.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	UsageCommon(fs, name)
	return fs
}

// ErrExamples is returned by ParseArgs after --examples; callers exit 0.
var ErrExamples = errors.New("examples requested")

// ParseArgs registers and parses all flags, returns an Options struct.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var opt Options
	var help bool

	fs.StringVar(&opt.Mapping, "mapping", "", "primer mapping TSV (Primer, Reference, Genotype, Start, End) [*]")
	fs.StringVar(&opt.Metadata, "metadata", "", "primer metadata TSV (Primer, Sequence, Tm_min, Tm_max) [*]")
	fs.StringVar(&opt.Config, "regions", "", "YAML run configuration (regions, thresholds, logging)")
	fs.StringVar(&opt.Config, "config", "", "alias of --regions")

	fs.IntVar(&opt.OuterMin, "outer-min", 0, "minimum outer/single amplicon length (inclusive)")
	fs.IntVar(&opt.OuterMax, "outer-max", 0, "maximum outer/single amplicon length (inclusive, 0=unbounded)")
	fs.IntVar(&opt.MinDistance, "min-distance", 0, "reverse start must exceed forward start by more than N")
	fs.StringVar(&opt.TmPolicy, "tm-policy", "", "Tm compatibility: bounded | containment")

	fs.BoolVar(&opt.Nested, "nested", false, "design a second, inner PCR round")
	fs.BoolVar(&opt.SemiNested, "semi-nested", false, "inner round reuses one outer primer (implies --nested)")
	fs.StringVar(&opt.Reuse, "reuse", "", "semi-nested primer to keep: forward | reverse | both")
	fs.IntVar(&opt.InnerMin, "inner-min", 0, "minimum inner amplicon length (inclusive)")
	fs.IntVar(&opt.InnerMax, "inner-max", 0, "maximum inner amplicon length (inclusive, 0=unbounded)")
	fs.IntVar(&opt.Margin, "margin", 0, "inner primers must lie N bp inside the outer amplicon")

	fs.IntVar(&opt.Threads, "threads", 0, "worker goroutines (0 = all CPUs)")
	fs.IntVar(&opt.Threads, "t", 0, "alias of --threads")

	fs.StringVar(&opt.Out, "out", "", "main output file; side tables are written next to it [*]")
	fs.StringVar(&opt.Out, "o", "", "alias of --out")
	fs.StringVar(&opt.Format, "format", output.FormatTSV, "main output format: tsv | json | jsonl")
	fs.StringVar(&opt.PrimersOut, "primers-out", "", "also write an in-silico PCR primer file")
	fs.StringVar(&opt.SQLite, "sqlite", "", "also append results to this SQLite database")
	fs.StringVar(&opt.Metrics, "metrics", "", "write Prometheus counters to this textfile")

	fs.StringVar(&opt.LogLevel, "log-level", "", "trace | debug | info | warn | error")
	fs.StringVar(&opt.LogFormat, "log-format", "", "console | json")
	fs.BoolVar(&opt.Quiet, "quiet", false, "only log errors")
	fs.BoolVar(&opt.Quiet, "q", false, "alias of --quiet")

	fs.BoolVar(&opt.DumpConfig, "dump-config", false, "print the effective configuration as YAML and exit")
	fs.BoolVar(&opt.Examples, "examples", false, "print usage examples and exit")
	fs.BoolVar(&opt.Version, "v", false, "print version and exit (shorthand)")
	fs.BoolVar(&opt.Version, "version", false, "print version and exit")
	fs.BoolVar(&help, "h", false, "show this help message (shorthand)")

	if err := fs.Parse(argv); err != nil {
		return opt, err
	}
	if help {
		return opt, flag.ErrHelp
	}
	if opt.Examples {
		return opt, ErrExamples
	}
	if opt.Version {
		return opt, nil
	}
	if fs.NArg() > 0 {
		return opt, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}
	opt.set = map[string]bool{}
	fs.Visit(func(f *flag.Flag) { opt.set[canonical(f.Name)] = true })
	if opt.SemiNested {
		opt.Nested = true
	}
	return opt, Validate(opt)
}

func canonical(name string) string {
	switch name {
	case "config":
		return "regions"
	case "t":
		return "threads"
	case "o":
		return "out"
	case "q":
		return "quiet"
	}
	return name
}

// Validate applies the CLI invariants that do not depend on configuration.
func Validate(o Options) error {
	if o.DumpConfig {
		return nil
	}
	switch {
	case o.Mapping == "":
		return errors.New("--mapping is required")
	case o.Metadata == "":
		return errors.New("--metadata is required")
	case o.Out == "":
		return errors.New("--out is required")
	}
	switch o.Format {
	case output.FormatTSV, output.FormatJSON, output.FormatJSONL:
	default:
		return fmt.Errorf("invalid --format %q", o.Format)
	}
	if o.Threads < 0 {
		return errors.New("--threads must be ≥ 0")
	}
	if o.IsSet("tm-policy") {
		if _, err := engine.ParseTmPolicy(o.TmPolicy); err != nil {
			return err
		}
	}
	if o.IsSet("reuse") {
		if _, err := nested.ParseReuse(o.Reuse); err != nil {
			return err
		}
	}
	return nil
}

// Apply overlays explicitly given flags onto cfg and revalidates it.
func (o Options) Apply(cfg *config.Config) error {
	ints := []struct {
		flag string
		dst  *int
		val  int
	}{
		{"outer-min", &cfg.Outer.MinLength, o.OuterMin},
		{"outer-max", &cfg.Outer.MaxLength, o.OuterMax},
		{"min-distance", &cfg.Outer.MinPrimerDistance, o.MinDistance},
		{"inner-min", &cfg.Inner.MinLength, o.InnerMin},
		{"inner-max", &cfg.Inner.MaxLength, o.InnerMax},
		{"margin", &cfg.Nested.Margin, o.Margin},
		{"threads", &cfg.Search.Threads, o.Threads},
	}
	for _, f := range ints {
		if o.IsSet(f.flag) {
			*f.dst = f.val
		}
	}
	if o.IsSet("min-distance") {
		cfg.Inner.MinPrimerDistance = o.MinDistance
	}
	if o.IsSet("tm-policy") {
		p, _ := engine.ParseTmPolicy(o.TmPolicy)
		cfg.Outer.TmPolicy, cfg.Inner.TmPolicy = string(p), string(p)
	}
	if o.Nested {
		cfg.Nested.Enabled = true
		cfg.Nested.Mode = string(nested.ModeFull)
	}
	if o.SemiNested {
		cfg.Nested.Mode = string(nested.ModeSemi)
	}
	if o.IsSet("reuse") {
		r, _ := nested.ParseReuse(o.Reuse)
		cfg.Nested.Reuse = string(r)
	}
	if o.IsSet("log-level") {
		cfg.Logging.Level = o.LogLevel
	}
	if o.IsSet("log-format") {
		cfg.Logging.Format = o.LogFormat
	}
	return cfg.Validate()
}
