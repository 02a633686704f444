package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "test-token")

	cfg, err := Load(WithDisableFlagsParsing(true))

	require.NoError(t, err)
	assert.Equal(t, "users.txt", cfg.InputPath)
	assert.Equal(t, "https://api.github.com/graphql", cfg.Endpoint)
	assert.Equal(t, 50, cfg.BatchSize)
	assert.Equal(t, 60*time.Second, cfg.InterBatchDelay)
	assert.Equal(t, 3, cfg.RetryAttempts)
	assert.Equal(t, 16, cfg.NameWidth)
	assert.Equal(t, "test-token", cfg.Token)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "test-token")
	t.Setenv("CONTRIBGRID_INPUT", "gs://my-bucket/team.txt")
	t.Setenv("CONTRIBGRID_BATCH_SIZE", "10")
	t.Setenv("CONTRIBGRID_BATCH_DELAY", "5s")
	t.Setenv("CONTRIBGRID_RETRIES", "5")
	t.Setenv("CONTRIBGRID_NAME_WIDTH", "24")

	cfg, err := Load(WithDisableFlagsParsing(true))

	require.NoError(t, err)
	assert.Equal(t, "gs://my-bucket/team.txt", cfg.InputPath)
	assert.Equal(t, 10, cfg.BatchSize)
	assert.Equal(t, 5*time.Second, cfg.InterBatchDelay)
	assert.Equal(t, 5, cfg.RetryAttempts)
	assert.Equal(t, 24, cfg.NameWidth)
}

func TestLoadMissingToken(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")

	_, err := Load(WithDisableFlagsParsing(true))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "validate configuration")
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "zero batch size", key: "CONTRIBGRID_BATCH_SIZE", value: "0"},
		{name: "zero retries", key: "CONTRIBGRID_RETRIES", value: "0"},
		{name: "bad endpoint", key: "CONTRIBGRID_ENDPOINT", value: "not a url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GITHUB_TOKEN", "test-token")
			t.Setenv(tt.key, tt.value)

			_, err := Load(WithDisableFlagsParsing(true))
			require.Error(t, err)
		})
	}
}

func TestNonSensitiveStringOmitsToken(t *testing.T) {
	cfg := Config{Token: "super-secret", InputPath: "users.txt"}
	assert.NotContains(t, cfg.NonSensitiveString(), "super-secret")
}
