package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"pairfind/internal/catalog"
	"pairfind/internal/oligo"
	"pairfind/internal/region"
)

// TmPolicy selects how primer Tm ranges must relate.
type TmPolicy string

const (
	// TmBounded only bounds the Tm_min and Tm_max differences.
	TmBounded TmPolicy = "bounded"
	// TmContainment also requires the forward Tm range to sit inside the reverse one.
	TmContainment TmPolicy = "containment"
)

// ParseTmPolicy accepts "bounded" or "containment".
func ParseTmPolicy(s string) (TmPolicy, error) {
	switch p := TmPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case TmBounded, TmContainment:
		return p, nil
	case "":
		return TmBounded, nil
	}
	return "", fmt.Errorf("unknown Tm policy %q (want bounded or containment)", s)
}

// Config holds the thresholds of one search round. Length bounds are
// inclusive; MaxLength <= 0 leaves the amplicon length unbounded above.
// Tm and GC differences are rounded to 2 decimals before they are compared
// with the Max*Diff limits, so a difference of 3.004 passes a limit of 3 and
// the reported diff equals the value the rule was checked against.
type Config struct {
	MinLength         int
	MaxLength         int
	MinPrimerDistance int
	MaxTmMinDiff      float64
	MaxTmMaxDiff      float64
	MaxGCDiff         float64
	TmPolicy          TmPolicy
	Threads           int // 0 = all CPUs
}

func (c Config) Validate() error {
	switch {
	case c.MinLength < 0:
		return errors.New("minimum amplicon length must be >= 0")
	case c.MaxLength > 0 && c.MinLength > c.MaxLength:
		return fmt.Errorf("minimum amplicon length %d exceeds maximum %d", c.MinLength, c.MaxLength)
	case c.MinPrimerDistance < 0:
		return errors.New("minimum primer distance must be >= 0")
	case c.MaxTmMinDiff < 0 || c.MaxTmMaxDiff < 0 || c.MaxGCDiff < 0:
		return errors.New("Tm/GC difference limits must be >= 0")
	case c.Threads < 0:
		return errors.New("threads must be >= 0")
	}
	if _, err := ParseTmPolicy(string(c.TmPolicy)); err != nil {
		return err
	}
	return nil
}

// Stats counts evaluated candidates and attributes every rejection to one rule.
type Stats struct {
	Evaluated int
	Accepted  int
	Rejected  map[Rule]int
}

// Merge folds o into s.
func (s *Stats) Merge(o Stats) {
	s.Evaluated += o.Evaluated
	s.Accepted += o.Accepted
	if s.Rejected == nil {
		s.Rejected = map[Rule]int{}
	}
	for k, v := range o.Rejected {
		s.Rejected[k] += v
	}
}

// Result is the output of one search pass.
type Result struct {
	Pairs []Pair
	Stats Stats
}

// Evaluate checks a single forward/reverse candidate against cfg. It returns
// the pair and RuleNone on success, or the first violated rule.
func Evaluate(cfg Config, regions []region.Region, fwd, rev catalog.Record, round Round) (Pair, Rule) {
	if fwd.Orientation != catalog.Forward || rev.Orientation != catalog.Reverse {
		return Pair{}, RuleOrientation
	}
	if fwd.Reference != rev.Reference {
		return Pair{}, RuleReference
	}
	if !catalog.GenotypeCompatible(fwd.Genotype, rev.Genotype) {
		return Pair{}, RuleGenotype
	}
	if rev.Start <= fwd.Start+cfg.MinPrimerDistance {
		return Pair{}, RuleDistance
	}
	length := rev.Start - fwd.Start
	if length < cfg.MinLength || (cfg.MaxLength > 0 && length > cfg.MaxLength) {
		return Pair{}, RuleLength
	}
	tmMin := oligo.Round2(math.Abs(fwd.TmMin - rev.TmMin))
	if tmMin > cfg.MaxTmMinDiff {
		return Pair{}, RuleTmMinDiff
	}
	tmMax := oligo.Round2(math.Abs(fwd.TmMax - rev.TmMax))
	if tmMax > cfg.MaxTmMaxDiff {
		return Pair{}, RuleTmMaxDiff
	}
	gc := oligo.Round2(math.Abs(fwd.GC - rev.GC))
	if gc > cfg.MaxGCDiff {
		return Pair{}, RuleGCDiff
	}
	if cfg.TmPolicy == TmContainment && (fwd.TmMin < rev.TmMin || fwd.TmMax > rev.TmMax) {
		return Pair{}, RuleTmContainment
	}

	geno := fwd.Genotype
	if geno == catalog.GenotypeAll {
		geno = rev.Genotype
	}
	name, _ := region.Classify(fwd.Start, rev.End, regions)
	return Pair{
		Name:           strings.ReplaceAll(fwd.ID+"_"+rev.ID, " ", "_"),
		Forward:        fwd,
		Reverse:        rev,
		Reference:      fwd.Reference,
		Genotype:       geno,
		Region:         name,
		AmpliconLength: length,
		TmMaxDiff:      tmMax,
		TmMinDiff:      tmMin,
		GCDiff:         gc,
		Round:          round,
	}, RuleNone
}

// Engine runs pair searches for one configuration.
type Engine struct {
	cfg     Config
	regions []region.Region
	log     zerolog.Logger
}

func New(cfg Config, regions []region.Region, log zerolog.Logger) *Engine {
	if cfg.TmPolicy == "" {
		cfg.TmPolicy = TmBounded
	}
	return &Engine{cfg: cfg, regions: regions, log: log}
}

// Evaluate is the package-level Evaluate bound to e's configuration.
func (e *Engine) Evaluate(fwd, rev catalog.Record, round Round) (Pair, Rule) {
	return Evaluate(e.cfg, e.regions, fwd, rev, round)
}

type group struct {
	ref      string
	forwards []catalog.Record
	reverses []catalog.Record
}

// groupByReference buckets records by reference in order of first appearance
// among the forwards. References with no forward primer are skipped.
func groupByReference(forwards, reverses []catalog.Record) []*group {
	idx := map[string]*group{}
	var groups []*group
	for _, f := range forwards {
		g, ok := idx[f.Reference]
		if !ok {
			g = &group{ref: f.Reference}
			idx[f.Reference] = g
			groups = append(groups, g)
		}
		g.forwards = append(g.forwards, f)
	}
	for _, r := range reverses {
		if g, ok := idx[r.Reference]; ok {
			g.reverses = append(g.reverses, r)
		}
	}
	return groups
}

// Find evaluates every forward × reverse candidate within each reference
// group. Groups run concurrently; the merged output is in group order and
// therefore independent of Threads.
func (e *Engine) Find(ctx context.Context, forwards, reverses []catalog.Record, round Round) (Result, error) {
	groups := groupByReference(forwards, reverses)
	pairs := make([][]Pair, len(groups))
	stats := make([]Stats, len(groups))

	thr := e.cfg.Threads
	if thr <= 0 {
		thr = runtime.NumCPU()
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(thr)
	for i, grp := range groups {
		g.Go(func() error {
			out, st, err := e.Search(gctx, grp.forwards, grp.reverses, round)
			if err != nil {
				return err
			}
			pairs[i], stats[i] = out, st
			e.log.Debug().
				Str("round", string(round)).
				Str("reference", grp.ref).
				Int("forwards", len(grp.forwards)).
				Int("reverses", len(grp.reverses)).
				Int("accepted", st.Accepted).
				Msg("reference group searched")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	res := Result{Stats: Stats{Rejected: map[Rule]int{}}}
	for i := range groups {
		res.Pairs = append(res.Pairs, pairs[i]...)
		res.Stats.Merge(stats[i])
	}
	e.log.Info().
		Str("round", string(round)).
		Int("groups", len(groups)).
		Int("evaluated", res.Stats.Evaluated).
		Int("accepted", res.Stats.Accepted).
		Msg("pair search finished")
	return res, nil
}

// Search evaluates forwards × reverses sequentially, in input order.
func (e *Engine) Search(ctx context.Context, forwards, reverses []catalog.Record, round Round) ([]Pair, Stats, error) {
	st := Stats{Rejected: map[Rule]int{}}
	var out []Pair
	for _, f := range forwards {
		if err := ctx.Err(); err != nil {
			return nil, st, err
		}
		for _, r := range reverses {
			st.Evaluated++
			p, rule := e.Evaluate(f, r, round)
			if rule != RuleNone {
				st.Rejected[rule]++
				continue
			}
			st.Accepted++
			out = append(out, p)
		}
	}
	return out, st, nil
}
