// Package application orchestrates the estimation pipeline: input
// normalization, match statistics, parameter fitting, bootstrap uncertainty,
// ranking, and diagnostics assembly.
package application

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	koanfyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// ConfigEnvVar names the environment variable holding an optional YAML
// config file path.
const ConfigEnvVar = "PODIUM_CONFIG"

// envPrefix is the prefix for configuration environment variables,
// e.g. PODIUM_ITERATIONS, PODIUM_BOOTSTRAP.
const envPrefix = "PODIUM_"

// Config holds the recognized estimation options. All fields are validated
// before a pipeline is constructed; invalid numeric options abort the run
// before any computation.
type Config struct {
	// Iterations is the MM round budget for each fit.
	Iterations int `koanf:"iterations" validate:"min=0"`

	// Bootstrap is the resample count for uncertainty estimation.
	// Zero disables bootstrapping.
	Bootstrap int `koanf:"bootstrap" validate:"min=0"`

	// PiLambda is the L2 regularization strength for position-bias
	// shrinkage.
	PiLambda float64 `koanf:"pi_lambda" validate:"min=0"`

	// MinMatches is the ranking eligibility threshold.
	MinMatches int `koanf:"min_matches" validate:"min=1"`

	// Seed initializes the bootstrap RNG.
	Seed int64 `koanf:"seed"`

	// Concurrency caps simultaneous bootstrap refits; zero selects
	// GOMAXPROCS.
	Concurrency int `koanf:"concurrency" validate:"min=0"`
}

// DefaultConfig returns the standard defaults: 100 iterations, 200
// bootstrap resamples, lambda 0.1, min 3 matches, seed 42.
func DefaultConfig() Config {
	return Config{
		Iterations: 100,
		Bootstrap:  200,
		PiLambda:   0.1,
		MinMatches: 3,
		Seed:       42,
	}
}

// Package-level validator instance for configuration validation.
var validate = validator.New()

// Validate checks the configuration against its constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}

// LoadConfig builds a Config by layering sources, lowest precedence first:
//
//  1. defaults (DefaultConfig)
//  2. YAML file, if PODIUM_CONFIG names one
//  3. environment variables with the PODIUM_ prefix
//
// Flag values are applied by the CLI on top of the result. The loaded
// configuration is validated before being returned.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	k := koanf.New(".")

	if path := os.Getenv(ConfigEnvVar); path != "" {
		if err := k.Load(file.Provider(path), koanfyaml.Parser()); err != nil {
			return cfg, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	// PODIUM_MIN_MATCHES -> min_matches; underscores are preserved to
	// match the koanf tags on the struct.
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return cfg, fmt.Errorf("load env config: %w", err)
	}

	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return cfg, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
