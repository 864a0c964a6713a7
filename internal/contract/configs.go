package contract

import (
	"fmt"
	"strings"

	"github.com/glynnsanity/tactical-tutor/schema"
)

// Default values for configuration.
const (
	DefaultMinFrequency   = 5
	DefaultMinImpactCP    = 30.0
	DefaultMinCorrelation = 0.15
	DefaultMaxPatterns    = 20
	DefaultMaxInsights    = 10
	DefaultEvidenceLimit  = 3
	DefaultGamesLimit     = 200
	DefaultWorkers        = 4
	DefaultPrecision      = 1

	// Tuning constants for priority/impact scaling. Exposed as configuration
	// because only monotonicity and clamping are load-bearing; the exact
	// constants are product tuning.
	DefaultPriorityFreqNorm   = 10.0
	DefaultPriorityImpactNorm = 100.0
	DefaultRatingImpactScale  = 0.1
	DefaultBlunderThresholdCP = 200.0

	MaxResultLimit = 100
	MaxGamesLimit  = 5000
)

// Config holds the validated runtime configuration for an analysis run.
// Fields are filled by ProcessAndValidate from raw flag/env/file inputs.
type Config struct {
	Player string // Account name to analyze

	// Discovery thresholds.
	MinFrequency   int     // Minimum occurrence count for a pattern
	MinImpactCP    float64 // Minimum effect size in centipawns
	MinCorrelation float64 // Minimum |r| for correlation patterns
	MaxPatterns    int     // Cap on retained patterns, applied after ranking
	MaxInsights    int     // Cap on generated insights
	EvidenceLimit  int     // Cap on example positions per insight

	// Tuning constants (monotonicity preserved regardless of value).
	PriorityFreqNorm   float64
	PriorityImpactNorm float64
	RatingImpactScale  float64
	BlunderThresholdCP float64

	GamesLimit int // Most recent N games loaded from the store
	Workers    int // Concurrent workers for feature extraction

	// Output settings.
	Output     schema.OutputMode
	OutputFile string
	Precision  int
	Width      int
	Detail     bool
	UseColor   bool

	// Persistence settings.
	StoreBackend schema.DatabaseBackend
	StoreConnStr string
	RunBackend   schema.DatabaseBackend
	RunConnStr   string
}

// Clone returns a deep copy of the configuration, safe to mutate per request.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ValidateAnalysis checks the discovery and generation thresholds. This is
// the configuration boundary of the analysis facade: violations here are the
// only hard failures the core surfaces, so they are checked before any
// computation begins.
func (c *Config) ValidateAnalysis() error {
	if c.MinFrequency < 1 {
		return fmt.Errorf("minimum frequency must be at least 1 (received %d)", c.MinFrequency)
	}
	if c.MinImpactCP < 0 {
		return fmt.Errorf("minimum impact must be non-negative (received %.1f)", c.MinImpactCP)
	}
	if c.MinCorrelation < 0 || c.MinCorrelation > 1 {
		return fmt.Errorf("minimum correlation must be in [0,1] (received %.2f)", c.MinCorrelation)
	}
	if c.MaxPatterns < 1 || c.MaxPatterns > MaxResultLimit {
		return fmt.Errorf("max patterns must be between 1 and %d (received %d)", MaxResultLimit, c.MaxPatterns)
	}
	if c.MaxInsights < 1 || c.MaxInsights > MaxResultLimit {
		return fmt.Errorf("max insights must be between 1 and %d (received %d)", MaxResultLimit, c.MaxInsights)
	}
	if c.EvidenceLimit < 1 {
		return fmt.Errorf("evidence limit must be at least 1 (received %d)", c.EvidenceLimit)
	}
	if c.PriorityFreqNorm <= 0 || c.PriorityImpactNorm <= 0 {
		return fmt.Errorf("priority normalization constants must be positive")
	}
	if c.RatingImpactScale <= 0 {
		return fmt.Errorf("rating impact scale must be positive (received %.3f)", c.RatingImpactScale)
	}
	if c.BlunderThresholdCP <= 0 {
		return fmt.Errorf("blunder threshold must be positive (received %.1f)", c.BlunderThresholdCP)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1 (received %d)", c.Workers)
	}
	return nil
}

// ConfigRawInput holds the raw inputs from flags, env vars and config files
// that require parsing or validation. Viper unmarshals into this struct.
type ConfigRawInput struct {
	Player         string  `mapstructure:"player"`
	MinFrequency   int     `mapstructure:"min-frequency"`
	MinImpact      float64 `mapstructure:"min-impact"`
	MinCorrelation float64 `mapstructure:"min-correlation"`
	MaxPatterns    int     `mapstructure:"max-patterns"`
	MaxInsights    int     `mapstructure:"max-insights"`
	EvidenceLimit  int     `mapstructure:"evidence"`
	GamesLimit     int     `mapstructure:"games"`
	Workers        int     `mapstructure:"workers"`
	Output         string  `mapstructure:"output"`
	OutputFile     string  `mapstructure:"output-file"`
	Precision      int     `mapstructure:"precision"`
	Width          int     `mapstructure:"width"`
	Detail         bool    `mapstructure:"detail"`
	Color          string  `mapstructure:"color"`
	StoreBackend   string  `mapstructure:"store-backend"`
	StoreConnStr   string  `mapstructure:"store-db-connect"`
	RunBackend     string  `mapstructure:"run-backend"`
	RunConnStr     string  `mapstructure:"run-db-connect"`
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	cfg.Player = strings.TrimSpace(input.Player)

	// --- 1. Threshold assignment ---
	cfg.MinFrequency = input.MinFrequency
	cfg.MinImpactCP = input.MinImpact
	cfg.MinCorrelation = input.MinCorrelation
	cfg.MaxPatterns = input.MaxPatterns
	cfg.MaxInsights = input.MaxInsights
	cfg.EvidenceLimit = input.EvidenceLimit

	// Tuning constants are not flag-exposed today; keep defaults unless a
	// future config file overrides them.
	if cfg.PriorityFreqNorm == 0 {
		cfg.PriorityFreqNorm = DefaultPriorityFreqNorm
	}
	if cfg.PriorityImpactNorm == 0 {
		cfg.PriorityImpactNorm = DefaultPriorityImpactNorm
	}
	if cfg.RatingImpactScale == 0 {
		cfg.RatingImpactScale = DefaultRatingImpactScale
	}
	if cfg.BlunderThresholdCP == 0 {
		cfg.BlunderThresholdCP = DefaultBlunderThresholdCP
	}

	// --- 2. Games limit and workers ---
	if input.GamesLimit <= 0 || input.GamesLimit > MaxGamesLimit {
		return fmt.Errorf("games limit must be between 1 and %d (received %d)", MaxGamesLimit, input.GamesLimit)
	}
	cfg.GamesLimit = input.GamesLimit

	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	// --- 3. Output validation ---
	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	switch cfg.Output {
	case schema.TextOut, schema.CSVOut, schema.JSONOut:
	default:
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json", input.Output)
	}
	cfg.OutputFile = input.OutputFile

	if input.Precision < 0 || input.Precision > 3 {
		return fmt.Errorf("precision must be between 0 and 3 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision
	cfg.Width = input.Width
	cfg.Detail = input.Detail

	switch strings.ToLower(input.Color) {
	case "", "yes", "true", "1":
		cfg.UseColor = true
	case "no", "false", "0":
		cfg.UseColor = false
	default:
		return fmt.Errorf("invalid color setting '%s'. must be yes/no/true/false/1/0", input.Color)
	}

	// --- 4. Backend validation ---
	var err error
	cfg.StoreBackend, err = parseBackend(input.StoreBackend, schema.SQLiteBackend)
	if err != nil {
		return fmt.Errorf("store backend: %w", err)
	}
	cfg.StoreConnStr = input.StoreConnStr

	cfg.RunBackend, err = parseBackend(input.RunBackend, schema.NoneBackend)
	if err != nil {
		return fmt.Errorf("run backend: %w", err)
	}
	cfg.RunConnStr = input.RunConnStr

	// --- 5. Analysis thresholds ---
	return cfg.ValidateAnalysis()
}

// parseBackend maps a raw backend string to a DatabaseBackend, falling back
// to the provided default when empty.
func parseBackend(raw string, fallback schema.DatabaseBackend) (schema.DatabaseBackend, error) {
	if strings.TrimSpace(raw) == "" {
		return fallback, nil
	}
	backend := schema.DatabaseBackend(strings.ToLower(raw))
	switch backend {
	case schema.SQLiteBackend, schema.MySQLBackend, schema.PostgreSQLBackend, schema.NoneBackend:
		return backend, nil
	default:
		return "", fmt.Errorf("unsupported backend '%s'. must be sqlite, mysql, postgresql, or none", raw)
	}
}

// NewDefaultConfig returns a Config carrying all documented defaults. Used
// by the MCP server and tests, where no flag parsing happens.
func NewDefaultConfig() *Config {
	return &Config{
		MinFrequency:       DefaultMinFrequency,
		MinImpactCP:        DefaultMinImpactCP,
		MinCorrelation:     DefaultMinCorrelation,
		MaxPatterns:        DefaultMaxPatterns,
		MaxInsights:        DefaultMaxInsights,
		EvidenceLimit:      DefaultEvidenceLimit,
		PriorityFreqNorm:   DefaultPriorityFreqNorm,
		PriorityImpactNorm: DefaultPriorityImpactNorm,
		RatingImpactScale:  DefaultRatingImpactScale,
		BlunderThresholdCP: DefaultBlunderThresholdCP,
		GamesLimit:         DefaultGamesLimit,
		Workers:            DefaultWorkers,
		Output:             schema.TextOut,
		Precision:          DefaultPrecision,
		UseColor:           true,
		StoreBackend:       schema.SQLiteBackend,
		RunBackend:         schema.NoneBackend,
	}
}
