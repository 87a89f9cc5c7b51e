package common

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string         `toml:"environment"` // "development" or "production"
	Storage     StorageConfig  `toml:"storage"`
	Logging     LoggingConfig  `toml:"logging"`
	Industry    IndustryConfig `toml:"industry"`
	Policy      PolicyConfig   `toml:"policy"`
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // Time format for logs
}

// IndustryConfig contains configuration for industry reference data
type IndustryConfig struct {
	TablePath string `toml:"table_path"` // Optional TOML file overriding the built-in multiples table
}

// PolicyConfig holds the QA policy constants. The historical defaults were
// calibrated against a single incident (a 4.4x multiple slipping through and
// inflating a valuation to $4.1M against a $2.0M benchmark), so every bound
// is configurable rather than hard-coded law.
type PolicyConfig struct {
	MinimumScore        float64 `toml:"minimum_score"`          // Overall QA score below this needs review (default 70)
	StrictMode          bool    `toml:"strict_mode"`            // Warnings demote PASSED_WITH_WARNINGS to NEEDS_REVIEW
	RelativeTolerance   float64 `toml:"relative_tolerance"`     // Numeric agreement tolerance (default 0.001 = 0.1%)
	VarianceWarningPct  float64 `toml:"variance_warning_pct"`   // Prior-valuation variance warning band (default 25)
	VarianceCriticalPct float64 `toml:"variance_critical_pct"`  // Prior-valuation variance critical band (default 50)
	MaxNetMarginPct     float64 `toml:"max_net_margin_pct"`     // Net margin above this draws a warning (default 80)
	MaxRevenueGrowthPct float64 `toml:"max_revenue_growth_pct"` // YoY growth above this draws a warning (default 200)
	MaxImpliedMultiple  float64 `toml:"max_implied_multiple"`   // Implied SDE multiple sanity bound (default 15)
	CeilingFactor       float64 `toml:"ceiling_factor"`         // Hard ceiling = industry high x factor (default 1.2)
	MinJustificationLen int     `toml:"min_justification_len"`  // Chars required to justify an above-median multiple (default 20)
	MinCitations        int     `toml:"min_citations"`          // Citation count for full citation-coverage score (default 5)
	MinNarrativeWords   int     `toml:"min_narrative_words"`    // Word count for full narrative-quality score (default 500)
}

// NewDefaultConfig returns the configuration defaults applied before any
// config file or environment override.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data/valcheck",
			},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Output:     []string{"stdout"},
			TimeFormat: "15:04:05",
		},
		Policy: DefaultPolicy(),
	}
}

// DefaultPolicy returns the QA policy defaults.
func DefaultPolicy() PolicyConfig {
	return PolicyConfig{
		MinimumScore:        70,
		StrictMode:          false,
		RelativeTolerance:   0.001,
		VarianceWarningPct:  25,
		VarianceCriticalPct: 50,
		MaxNetMarginPct:     80,
		MaxRevenueGrowthPct: 200,
		MaxImpliedMultiple:  15,
		CeilingFactor:       1.2,
		MinJustificationLen: 20,
		MinCitations:        5,
		MinNarrativeWords:   500,
	}
}

// LoadFromFiles loads configuration from defaults, then each config file in
// order (later files override earlier ones), then environment variables.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies VALCHECK_* environment variables on top of the
// loaded configuration.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("VALCHECK_ENVIRONMENT"); v != "" {
		config.Environment = v
	}
	if v := os.Getenv("VALCHECK_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
	if v := os.Getenv("VALCHECK_STORAGE_PATH"); v != "" {
		config.Storage.Badger.Path = v
	}
	if v := os.Getenv("VALCHECK_INDUSTRY_TABLE"); v != "" {
		config.Industry.TablePath = v
	}
	if v := os.Getenv("VALCHECK_MIN_SCORE"); v != "" {
		if score, err := strconv.ParseFloat(v, 64); err == nil {
			config.Policy.MinimumScore = score
		}
	}
	if v := os.Getenv("VALCHECK_STRICT_MODE"); v != "" {
		if strict, err := strconv.ParseBool(v); err == nil {
			config.Policy.StrictMode = strict
		}
	}
}

// IsProduction returns true when running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
