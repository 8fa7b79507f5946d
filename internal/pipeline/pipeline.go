package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"pairfind/internal/catalog"
	"pairfind/internal/engine"
	"pairfind/internal/nested"
	"pairfind/internal/quality"
	"pairfind/internal/region"
)

// Finder is the outer-round capability Run needs.
type Finder interface {
	Find(ctx context.Context, forwards, reverses []catalog.Record, round engine.Round) (engine.Result, error)
}

// Composer is the inner-round capability Run needs.
type Composer interface {
	Compose(ctx context.Context, outers []engine.Pair, forwards, reverses []catalog.Record) (nested.Result, error)
}

var (
	_ Finder   = (*engine.Engine)(nil)
	_ Composer = (*nested.Composer)(nil)
)

// Config controls one run.
type Config struct {
	Quality quality.Filter
	Regions []region.Region
	Outer   engine.Config
	Nested  *nested.Config // nil runs a single round
}

// Stats gathers the counters of every stage.
type Stats struct {
	Catalog    catalog.Stats
	Quality    map[quality.Rule]int
	Forwards   int
	Reverses   int
	Outer      engine.Stats
	Inner      nested.Stats
	Duplicates map[string]int // per table
}

// Result holds the deduplicated tables of one run.
type Result struct {
	RunNested bool
	Outer     []engine.Pair // single-round pairs when RunNested is false
	Inner     []engine.Pair
	Links     []engine.Pair
	Stats     Stats
}

// All is the main table: outer (or single) pairs followed by inner pairs,
// one row per combination name.
func (r Result) All() []engine.Pair {
	all := make([]engine.Pair, 0, len(r.Outer)+len(r.Inner))
	all = append(all, r.Outer...)
	all = append(all, r.Inner...)
	out, _ := Dedup(all, ByName)
	return out
}

// Regional is the region-scoped subset of All.
func (r Result) Regional() []engine.Pair {
	var out []engine.Pair
	for _, p := range r.All() {
		if p.InRegion() {
			out = append(out, p)
		}
	}
	return out
}

// Empty is true when no combination was retained.
func (r Result) Empty() bool { return len(r.Outer) == 0 && len(r.Inner) == 0 }

// Run searches cat with cfg.
func Run(ctx context.Context, cfg Config, cat *catalog.Catalog, log zerolog.Logger) (Result, error) {
	if err := cfg.Outer.Validate(); err != nil {
		return Result{}, fmt.Errorf("outer round: %w", err)
	}
	var comp Composer
	if cfg.Nested != nil {
		if err := cfg.Nested.Validate(); err != nil {
			return Result{}, fmt.Errorf("inner round: %w", err)
		}
		comp = nested.New(*cfg.Nested, cfg.Regions, log)
	}
	return run(ctx, cfg, cat, engine.New(cfg.Outer, cfg.Regions, log), comp, log)
}

func run(ctx context.Context, cfg Config, cat *catalog.Catalog, finder Finder, comp Composer, log zerolog.Logger) (Result, error) {
	res := Result{RunNested: comp != nil}
	res.Stats.Catalog = cat.Stats()
	res.Stats.Duplicates = map[string]int{}

	kept, rejected := cfg.Quality.Apply(cat.Records())
	res.Stats.Quality = rejected
	for rule, n := range rejected {
		log.Info().Str("rule", string(rule)).Int("primers", n).Msg("primers rejected by quality filter")
	}
	if len(kept) == 0 {
		return res, fmt.Errorf("no primer passed the quality filter: %w", catalog.ErrEmptyCatalog)
	}
	forwards, reverses := catalog.New(kept).Split()
	res.Stats.Forwards, res.Stats.Reverses = len(forwards), len(reverses)
	log.Info().
		Int("forwards", len(forwards)).
		Int("reverses", len(reverses)).
		Int("rejected", len(cat.Records())-len(kept)).
		Msg("primers after quality filter")

	round := engine.RoundSingle
	if comp != nil {
		round = engine.RoundOuter
	}
	found, err := finder.Find(ctx, forwards, reverses, round)
	if err != nil {
		return res, err
	}
	res.Stats.Outer = found.Stats

	var dropped int
	res.Outer, dropped = Dedup(found.Pairs, ByName)
	res.Stats.Duplicates[string(round)] = dropped
	logDuplicates(log, string(round), dropped)

	if comp == nil {
		return res, nil
	}
	composed, err := comp.Compose(ctx, res.Outer, forwards, reverses)
	if err != nil {
		return res, err
	}
	res.Stats.Inner = composed.Stats

	res.Links, dropped = Dedup(composed.Pairs, ByLink)
	res.Stats.Duplicates["links"] = dropped
	logDuplicates(log, "links", dropped)

	res.Inner, dropped = Dedup(composed.Pairs, ByName)
	res.Stats.Duplicates[string(engine.RoundInner)] = dropped
	logDuplicates(log, string(engine.RoundInner), dropped)
	return res, nil
}

func logDuplicates(log zerolog.Logger, table string, n int) {
	if n == 0 {
		return
	}
	log.Info().Str("table", table).Int("dropped", n).Msg("duplicate combinations removed")
}
