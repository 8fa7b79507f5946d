// Package nested composes the second PCR round inside each outer amplicon,
// either with two new primers (fully nested) or by reusing one outer primer
// (semi-nested).
package nested

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"pairfind/internal/catalog"
	"pairfind/internal/engine"
	"pairfind/internal/region"
)

type Mode string

const (
	ModeFull Mode = "full"
	ModeSemi Mode = "semi"
)

// Reuse selects which outer primer a semi-nested inner pair keeps.
type Reuse string

const (
	ReuseForward Reuse = "forward"
	ReuseReverse Reuse = "reverse"
	ReuseBoth    Reuse = "both"
)

// Config controls inner-round composition. Engine carries the inner
// thresholds (length window, distance, Tm/GC limits, policy, threads).
type Config struct {
	Mode   Mode
	Reuse  Reuse
	Margin int
	Engine engine.Config
}

func (c Config) Validate() error {
	switch c.Mode {
	case ModeFull:
	case ModeSemi:
		switch c.Reuse {
		case ReuseForward, ReuseReverse, ReuseBoth:
		default:
			return fmt.Errorf("unknown semi-nested reuse %q (want forward, reverse or both)", c.Reuse)
		}
	default:
		return fmt.Errorf("unknown nested mode %q (want full or semi)", c.Mode)
	}
	if c.Margin < 0 {
		return fmt.Errorf("inner margin must be >= 0")
	}
	return c.Engine.Validate()
}

// ParseReuse accepts forward, reverse or both; empty means both.
func ParseReuse(s string) (Reuse, error) {
	switch r := Reuse(strings.ToLower(strings.TrimSpace(s))); r {
	case ReuseForward, ReuseReverse, ReuseBoth:
		return r, nil
	case "":
		return ReuseBoth, nil
	}
	return "", fmt.Errorf("unknown semi-nested reuse %q (want forward, reverse or both)", s)
}

// Window is the open interval (Lo, Hi) an inner primer must fall in.
type Window struct{ Lo, Hi int }

// WindowOf shrinks the outer amplicon span by margin on each side.
func WindowOf(outer engine.Pair, margin int) Window {
	return Window{Lo: outer.Forward.Start + margin, Hi: outer.Reverse.End - margin}
}

// Empty is true when no coordinate lies strictly between Lo and Hi.
func (w Window) Empty() bool { return w.Hi-w.Lo <= 1 }

// Holds reports whether a primer spanning [start, end) lies strictly inside w.
func (w Window) Holds(r catalog.Record) bool { return r.Start > w.Lo && r.End < w.Hi }

// Stats summarises a composition pass.
type Stats struct {
	Outers        int
	SkippedWindow int // outers whose window was empty or inverted
	WithoutInner  int // outers that produced no inner pair
	Pairs         engine.Stats
}

type Result struct {
	Pairs []engine.Pair
	Stats Stats
}

type Composer struct {
	cfg Config
	eng *engine.Engine
	log zerolog.Logger
}

func New(cfg Config, regions []region.Region, log zerolog.Logger) *Composer {
	return &Composer{cfg: cfg, eng: engine.New(cfg.Engine, regions, log), log: log}
}

type byRef map[string][]catalog.Record

func index(records []catalog.Record) byRef {
	m := byRef{}
	for _, r := range records {
		m[r.Reference] = append(m[r.Reference], r)
	}
	return m
}

func (m byRef) within(ref string, w Window) []catalog.Record {
	var out []catalog.Record
	for _, r := range m[ref] {
		if w.Holds(r) {
			out = append(out, r)
		}
	}
	return out
}

type outcome struct {
	pairs   []engine.Pair
	stats   engine.Stats
	skipped bool
}

// Compose searches inner pairs for every outer pair. Outers are handled
// concurrently; output follows outer order.
func (c *Composer) Compose(ctx context.Context, outers []engine.Pair, forwards, reverses []catalog.Record) (Result, error) {
	fIdx, rIdx := index(forwards), index(reverses)
	results := make([]outcome, len(outers))

	thr := c.cfg.Engine.Threads
	if thr <= 0 {
		thr = runtime.NumCPU()
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(thr)
	for i, o := range outers {
		g.Go(func() error {
			out, err := c.composeOne(gctx, o, fIdx, rIdx)
			if err != nil {
				return err
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	res := Result{Stats: Stats{Outers: len(outers), Pairs: engine.Stats{Rejected: map[engine.Rule]int{}}}}
	for _, out := range results {
		switch {
		case out.skipped:
			res.Stats.SkippedWindow++
		case len(out.pairs) == 0:
			res.Stats.WithoutInner++
		}
		res.Stats.Pairs.Merge(out.stats)
		res.Pairs = append(res.Pairs, out.pairs...)
	}
	if res.Stats.SkippedWindow > 0 {
		c.log.Warn().
			Int("outers", res.Stats.SkippedWindow).
			Int("margin", c.cfg.Margin).
			Msg("outer amplicons too short for the inner margin; inner search skipped")
	}
	c.log.Info().
		Str("mode", string(c.cfg.Mode)).
		Int("outers", res.Stats.Outers).
		Int("inner_pairs", len(res.Pairs)).
		Int("outers_without_inner", res.Stats.WithoutInner).
		Msg("inner round composed")
	return res, nil
}

func (c *Composer) composeOne(ctx context.Context, o engine.Pair, fIdx, rIdx byRef) (outcome, error) {
	w := WindowOf(o, c.cfg.Margin)
	if w.Empty() {
		c.log.Debug().
			Str("outer", o.Name).
			Int("lo", w.Lo).
			Int("hi", w.Hi).
			Msg("empty inner window")
		return outcome{skipped: true}, nil
	}

	fs := fIdx.within(o.Reference, w)
	rs := rIdx.within(o.Reference, w)

	var (
		pairs []engine.Pair
		st    engine.Stats
		err   error
	)
	switch c.cfg.Mode {
	case ModeFull:
		pairs, st, err = c.eng.Search(ctx, fs, rs, engine.RoundInner)
		if err != nil {
			return outcome{}, err
		}
	case ModeSemi:
		st = engine.Stats{Rejected: map[engine.Rule]int{}}
		if c.cfg.Reuse == ReuseForward || c.cfg.Reuse == ReuseBoth {
			pairs = c.semi(pairs, &st, []catalog.Record{o.Forward}, rs)
		}
		if c.cfg.Reuse == ReuseReverse || c.cfg.Reuse == ReuseBoth {
			pairs = c.semi(pairs, &st, fs, []catalog.Record{o.Reverse})
		}
		if err := ctx.Err(); err != nil {
			return outcome{}, err
		}
	}
	for i := range pairs {
		pairs[i].Outer = o.Name
	}
	return outcome{pairs: pairs, stats: st}, nil
}

func (c *Composer) semi(dst []engine.Pair, st *engine.Stats, forwards, reverses []catalog.Record) []engine.Pair {
	for _, f := range forwards {
		for _, r := range reverses {
			st.Evaluated++
			p, rule := c.eng.Evaluate(f, r, engine.RoundInner)
			if rule != engine.RuleNone {
				st.Rejected[rule]++
				continue
			}
			st.Accepted++
			dst = append(dst, p)
		}
	}
	return dst
}
