// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"pairfind/internal/catalog"
	"pairfind/internal/cli"
	"pairfind/internal/config"
	"pairfind/internal/engine"
	"pairfind/internal/observability"
	"pairfind/internal/output"
	"pairfind/internal/pipeline"
	"pairfind/internal/primer"
	"pairfind/internal/version"
	"pairfind/internal/writers"
)

// Exit codes.
const (
	ExitOK          = 0
	ExitInput       = 1 // bad flags, configuration or input tables; empty catalog
	ExitInternal    = 2 // write failures and anything unexpected
	ExitInterrupted = 130
)

// inputError marks failures caused by what the user supplied.
type inputError struct{ err error }

func (e *inputError) Error() string { return e.err.Error() }
func (e *inputError) Unwrap() error { return e.err }

func asInput(err error) error {
	if err == nil {
		return nil
	}
	return &inputError{err: err}
}

// exitCode maps an error to the process exit code.
func exitCode(err error) int {
	var (
		in      *inputError
		missing *catalog.MissingFieldError
	)
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ExitInterrupted
	case errors.As(err, &in), errors.As(err, &missing),
		errors.Is(err, catalog.ErrEmptyCatalog), errors.Is(err, config.ErrInvalid):
		return ExitInput
	default:
		return ExitInternal
	}
}

const name = "pairfind"

// RunContext parses argv, runs one search and writes every artifact.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	fs := cli.NewFlagSet(name)
	fs.SetOutput(io.Discard)

	printUsage := func(code int) int {
		fs.SetOutput(outw)
		fs.Usage()
		if err := outw.Flush(); err != nil && !writers.IsBrokenPipe(err) {
			_, _ = fmt.Fprintln(stderr, err)
			return ExitInternal
		}
		return code
	}

	if len(argv) == 0 {
		return printUsage(ExitOK)
	}
	opts, err := cli.ParseArgs(fs, argv)
	switch {
	case errors.Is(err, flag.ErrHelp):
		return printUsage(ExitOK)
	case errors.Is(err, cli.ErrExamples):
		cli.PrintExamples(outw, name)
		return ExitOK
	case err != nil:
		_, _ = fmt.Fprintf(stderr, "%s: %v\n", name, err)
		_, _ = fmt.Fprintf(stderr, "Run '%s --help' for usage.\n", name)
		return ExitInput
	}
	if opts.Version {
		_, _ = fmt.Fprintf(outw, "%s version %s\n", name, version.Version)
		return ExitOK
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "%s: %v\n", name, err)
		return exitCode(err)
	}
	if opts.DumpConfig {
		b, err := config.Dump(cfg)
		if err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return ExitInternal
		}
		_, _ = outw.Write(b)
		return ExitOK
	}

	runID := uuid.NewString()
	log := observability.WithRun(observability.NewLogger(observability.LoggingConfig{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Quiet:  opts.Quiet,
	}, stderr), runID)

	err = run(parent, opts, cfg, runID, log)
	code := exitCode(err)
	switch code {
	case ExitOK:
	case ExitInterrupted:
		log.Warn().Msg("interrupted")
	default:
		log.Error().Err(err).Int("exit_code", code).Msg("run failed")
	}
	return code
}

// Run is RunContext without cancellation.
func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func loadConfig(opts cli.Options) (*config.Config, error) {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return nil, asInput(err)
	}
	if err := opts.Apply(cfg); err != nil {
		return nil, asInput(err)
	}
	return cfg, nil
}

func run(ctx context.Context, opts cli.Options, cfg *config.Config, runID string, log zerolog.Logger) error {
	started := time.Now()
	log.Info().
		Str("version", version.Version).
		Str("mapping", opts.Mapping).
		Str("metadata", opts.Metadata).
		Bool("nested", cfg.Nested.Enabled).
		Msg("run started")

	cat, err := catalog.Load(opts.Mapping, opts.Metadata, log)
	if err != nil {
		return asInput(err)
	}
	st := cat.Stats()
	log.Info().
		Int("records", st.Records).
		Int("dropped", st.DroppedTotal()).
		Int("conflicts", st.Conflicts).
		Msg("catalog loaded")

	res, err := pipeline.Run(ctx, pipeline.Config{
		Quality: cfg.QualityFilter(),
		Regions: cfg.Regions,
		Outer:   cfg.Engine(cfg.Outer),
		Nested:  cfg.NestedComposer(),
	}, cat, log)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	metrics := observability.NewMetrics()
	metrics.RecordRun(res)
	if res.Empty() {
		log.Warn().Msg("no primer combination satisfied the constraints; writing empty tables")
	}

	if err := export(ctx, opts, cfg, runID, res, metrics, log); err != nil {
		return err
	}
	metrics.RunSeconds.Set(time.Since(started).Seconds())
	if opts.Metrics != "" {
		if err := metrics.WriteTextfile(opts.Metrics); err != nil {
			return err
		}
	}
	log.Info().
		Int("outer", len(res.Outer)).
		Int("inner", len(res.Inner)).
		Int("regional", len(res.Regional())).
		Dur("elapsed", time.Since(started)).
		Msg("run finished")
	return nil
}

// table is one combination file of a run.
type table struct {
	name      string
	path      string
	format    string
	withOuter bool
	pairs     []engine.Pair
}

// artifactPath derives a side-table name from the main output path:
// results.tsv → results_outer.tsv, results_inner.tsv, results_regions.tsv.
func artifactPath(out, suffix string) string { return sidePath(out, suffix, ".tsv") }

func sidePath(out, suffix, ext string) string {
	return strings.TrimSuffix(out, filepath.Ext(out)) + "_" + suffix + ext
}

func export(ctx context.Context, opts cli.Options, cfg *config.Config, runID string, res pipeline.Result, m *observability.Metrics, log zerolog.Logger) error {
	all := res.All()
	tables := []table{
		{"main", opts.Out, opts.Format, res.RunNested, all},
		{"regions", artifactPath(opts.Out, "regions"), output.FormatTSV, res.RunNested, res.Regional()},
	}
	if res.RunNested {
		tables = append(tables,
			table{"outer", artifactPath(opts.Out, "outer"), output.FormatTSV, false, res.Outer},
			table{"inner", artifactPath(opts.Out, "inner"), output.FormatTSV, true, res.Inner},
		)
	}
	for _, t := range tables {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := writeFile(t.path, func(w io.Writer) error {
			return writers.WriteAll(w, t.format, t.withOuter, t.pairs)
		}); err != nil {
			return err
		}
		m.RecordExport(t.name, len(t.pairs))
		log.Info().Str("table", t.name).Str("path", t.path).Int("rows", len(t.pairs)).Msg("table written")
	}

	if res.RunNested {
		path := sidePath(opts.Out, "links", writers.LinkExt(opts.Format))
		if err := writeFile(path, func(w io.Writer) error { return writers.WriteLinks(w, opts.Format, res.Links) }); err != nil {
			return err
		}
		m.RecordExport("links", len(res.Links))
		log.Info().Str("table", "links").Str("path", path).Int("rows", len(res.Links)).Msg("table written")
	}

	if opts.PrimersOut != "" {
		list := make([]primer.Pair, 0, len(all))
		for _, p := range all {
			list = append(list, primer.FromCombination(p, cfg.Export.PrimerSlack))
		}
		if err := writeFile(opts.PrimersOut, func(w io.Writer) error { return primer.WriteTSV(w, list) }); err != nil {
			return err
		}
		m.RecordExport("primers", len(list))
		log.Info().Str("path", opts.PrimersOut).Int("pairs", len(list)).Msg("primer file written")
	}

	if opts.SQLite != "" {
		combos := make([]engine.Pair, 0, len(res.Outer)+len(res.Inner))
		combos = append(combos, res.Outer...)
		combos = append(combos, res.Inner...)
		if err := writers.WriteSQLite(ctx, opts.SQLite, writers.SQLiteTables{
			RunID: runID, Combinations: combos, Links: res.Links,
		}); err != nil {
			return err
		}
		m.RecordExport("sqlite", len(combos))
		log.Info().Str("path", opts.SQLite).Int("rows", len(combos)).Msg("sqlite database updated")
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) (retErr error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && retErr == nil {
			retErr = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	if err := write(f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
