package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 100, cfg.Iterations)
	assert.Equal(t, 200, cfg.Bootstrap)
	assert.Equal(t, 0.1, cfg.PiLambda)
	assert.Equal(t, 3, cfg.MinMatches)
	assert.Equal(t, int64(42), cfg.Seed)

	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults are valid", mutate: func(*Config) {}, wantErr: false},
		{name: "zero iterations allowed", mutate: func(c *Config) { c.Iterations = 0 }, wantErr: false},
		{name: "negative iterations rejected", mutate: func(c *Config) { c.Iterations = -1 }, wantErr: true},
		{name: "negative bootstrap rejected", mutate: func(c *Config) { c.Bootstrap = -5 }, wantErr: true},
		{name: "zero bootstrap allowed", mutate: func(c *Config) { c.Bootstrap = 0 }, wantErr: false},
		{name: "min matches below one rejected", mutate: func(c *Config) { c.MinMatches = 0 }, wantErr: true},
		{name: "negative lambda rejected", mutate: func(c *Config) { c.PiLambda = -0.1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("PODIUM_ITERATIONS", "50")
	t.Setenv("PODIUM_MIN_MATCHES", "5")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.Iterations)
	assert.Equal(t, 5, cfg.MinMatches)
	// Untouched fields keep their defaults.
	assert.Equal(t, 200, cfg.Bootstrap)
}

func TestLoadConfig_InvalidEnvValueFailsValidation(t *testing.T) {
	t.Setenv("PODIUM_MIN_MATCHES", "0")

	_, err := LoadConfig()
	assert.Error(t, err)
}
