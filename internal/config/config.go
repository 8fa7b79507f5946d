// Package config loads the run configuration: regions, quality and round
// thresholds, nested-design settings and logging.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"pairfind/internal/engine"
	"pairfind/internal/nested"
	"pairfind/internal/quality"
	"pairfind/internal/region"
)

// EnvPrefix prefixes environment overrides, e.g. PAIRFIND_OUTER_MAX_LENGTH.
const EnvPrefix = "PAIRFIND"

// ErrInvalid wraps every configuration validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config holds everything a run needs besides input and output paths.
type Config struct {
	// Regions are classified in order; the first containing region wins.
	Regions []region.Region `mapstructure:"regions" yaml:"regions" validate:"dive"`
	Quality QualityConfig   `mapstructure:"quality" yaml:"quality"`
	// Outer thresholds drive the single round, or the first round of a nested run.
	Outer RoundConfig `mapstructure:"outer" yaml:"outer"`
	// Inner thresholds drive the second round of a nested run.
	Inner   RoundConfig   `mapstructure:"inner" yaml:"inner"`
	Nested  NestedConfig  `mapstructure:"nested" yaml:"nested"`
	Search  SearchConfig  `mapstructure:"search" yaml:"search"`
	Export  ExportConfig  `mapstructure:"export" yaml:"export"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// QualityConfig bounds single-primer properties (inclusive).
type QualityConfig struct {
	MinLength      int     `mapstructure:"min_length" yaml:"min_length" validate:"gte=1"`
	MaxLength      int     `mapstructure:"max_length" yaml:"max_length" validate:"gtefield=MinLength"`
	MinGC          float64 `mapstructure:"min_gc" yaml:"min_gc" validate:"gte=0,lte=100"`
	MaxGC          float64 `mapstructure:"max_gc" yaml:"max_gc" validate:"gtefield=MinGC,lte=100"`
	MaxHomopolymer int     `mapstructure:"max_homopolymer" yaml:"max_homopolymer" validate:"gte=1"`
}

// RoundConfig holds the pair thresholds of one PCR round. A max_length of 0
// leaves the amplicon length unbounded above.
type RoundConfig struct {
	MinLength         int     `mapstructure:"min_length" yaml:"min_length" validate:"gte=0"`
	MaxLength         int     `mapstructure:"max_length" yaml:"max_length" validate:"gte=0"`
	MinPrimerDistance int     `mapstructure:"min_primer_distance" yaml:"min_primer_distance" validate:"gte=0"`
	MaxTmMinDiff      float64 `mapstructure:"max_tm_min_diff" yaml:"max_tm_min_diff" validate:"gte=0"`
	MaxTmMaxDiff      float64 `mapstructure:"max_tm_max_diff" yaml:"max_tm_max_diff" validate:"gte=0"`
	MaxGCDiff         float64 `mapstructure:"max_gc_diff" yaml:"max_gc_diff" validate:"gte=0"`
	TmPolicy          string  `mapstructure:"tm_policy" yaml:"tm_policy" validate:"oneof=bounded containment"`
}

// NestedConfig switches on the inner round.
type NestedConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Mode    string `mapstructure:"mode" yaml:"mode" validate:"oneof=full semi"`
	Reuse   string `mapstructure:"reuse" yaml:"reuse" validate:"oneof=forward reverse both"`
	Margin  int    `mapstructure:"margin" yaml:"margin" validate:"gte=0"`
}

type SearchConfig struct {
	Threads int `mapstructure:"threads" yaml:"threads" validate:"gte=0"` // 0 = all CPUs
}

type ExportConfig struct {
	// PrimerSlack widens the product window written to primer files.
	PrimerSlack int `mapstructure:"primer_slack" yaml:"primer_slack" validate:"gte=0"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level" validate:"oneof=trace debug info warn error"`
	Format string `mapstructure:"format" yaml:"format" validate:"oneof=console json"`
}

// DefaultRegions are the NS1, NS3 and NS5 coordinates of the reference genome.
var DefaultRegions = []region.Region{
	{Name: "NS1", Start: 1000, End: 2000},
	{Name: "NS3", Start: 3000, End: 4000},
	{Name: "NS5", Start: 5000, End: 7000},
}

func setDefaults(v *viper.Viper) {
	regions := make([]map[string]any, 0, len(DefaultRegions))
	for _, r := range DefaultRegions {
		regions = append(regions, map[string]any{"name": r.Name, "start": r.Start, "end": r.End})
	}
	v.SetDefault("regions", regions)

	v.SetDefault("quality.min_length", quality.Default.MinLength)
	v.SetDefault("quality.max_length", quality.Default.MaxLength)
	v.SetDefault("quality.min_gc", quality.Default.MinGC)
	v.SetDefault("quality.max_gc", quality.Default.MaxGC)
	v.SetDefault("quality.max_homopolymer", quality.Default.MaxHomopolymer)

	for round, lengths := range map[string][2]int{"outer": {100, 1000}, "inner": {100, 500}} {
		v.SetDefault(round+".min_length", lengths[0])
		v.SetDefault(round+".max_length", lengths[1])
		v.SetDefault(round+".min_primer_distance", 50)
		v.SetDefault(round+".max_tm_min_diff", 3.0)
		v.SetDefault(round+".max_tm_max_diff", 3.0)
		v.SetDefault(round+".max_gc_diff", 10.0)
		v.SetDefault(round+".tm_policy", string(engine.TmBounded))
	}

	v.SetDefault("nested.enabled", false)
	v.SetDefault("nested.mode", string(nested.ModeFull))
	v.SetDefault("nested.reuse", string(nested.ReuseBoth))
	v.SetDefault("nested.margin", 50)

	v.SetDefault("search.threads", 0)
	v.SetDefault("export.primer_slack", 0)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Default returns the configuration used when no file is given.
func Default() (*Config, error) { return Load("") }

// Load reads defaults, then the YAML file at path (if non-empty), then
// PAIRFIND_* environment overrides, and validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field bounds and cross-field rules.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := region.Validate(c.Regions); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	for _, r := range []struct {
		name string
		cfg  RoundConfig
	}{{"outer", c.Outer}, {"inner", c.Inner}} {
		if r.cfg.MaxLength > 0 && r.cfg.MinLength > r.cfg.MaxLength {
			return fmt.Errorf("%w: %s min_length %d exceeds max_length %d", ErrInvalid, r.name, r.cfg.MinLength, r.cfg.MaxLength)
		}
	}
	return nil
}

// QualityFilter converts the quality section.
func (c *Config) QualityFilter() quality.Filter {
	q := c.Quality
	return quality.Filter{
		MinLength: q.MinLength, MaxLength: q.MaxLength,
		MinGC: q.MinGC, MaxGC: q.MaxGC,
		MaxHomopolymer: q.MaxHomopolymer,
	}
}

// Engine converts a round section; threads come from the search section.
func (c *Config) Engine(r RoundConfig) engine.Config {
	return engine.Config{
		MinLength:         r.MinLength,
		MaxLength:         r.MaxLength,
		MinPrimerDistance: r.MinPrimerDistance,
		MaxTmMinDiff:      r.MaxTmMinDiff,
		MaxTmMaxDiff:      r.MaxTmMaxDiff,
		MaxGCDiff:         r.MaxGCDiff,
		TmPolicy:          engine.TmPolicy(r.TmPolicy),
		Threads:           c.Search.Threads,
	}
}

// NestedComposer converts the nested section, or returns nil when the
// inner round is off.
func (c *Config) NestedComposer() *nested.Config {
	if !c.Nested.Enabled {
		return nil
	}
	return &nested.Config{
		Mode:   nested.Mode(c.Nested.Mode),
		Reuse:  nested.Reuse(c.Nested.Reuse),
		Margin: c.Nested.Margin,
		Engine: c.Engine(c.Inner),
	}
}

// Dump renders c as YAML.
func Dump(c *Config) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}
