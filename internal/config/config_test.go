package config

import (
	"testing"
	"time"

	"tutoreval/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"DATABASE_URL", "PORT", "GIN_MODE", "DATA_DIR", "DIMENSIONS", "BATCH_SIZE", "TASK_FIELD", "SEED", "OUTPUT_INDENT", "LOAD_CONCURRENCY"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.Database.Enabled())
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.GinMode)
	assert.Equal(t, "./data", cfg.Data.Dir)
	assert.Equal(t, []string{"MI", "ML", "PG", "AC"}, cfg.Data.Dimensions)
	assert.Equal(t, int64(4), cfg.Data.LoadConcurrency)
	assert.Equal(t, 8, cfg.Sampler.BatchSize)
	assert.Equal(t, "task", cfg.Sampler.TaskField)
	assert.Equal(t, int64(42), cfg.Sampler.Seed)
	assert.Equal(t, 2, cfg.Output.Indent)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/tutoreval")
	t.Setenv("DIMENSIONS", " MI, ,PG ")
	t.Setenv("BATCH_SIZE", "12")
	t.Setenv("SEED", "7")
	t.Setenv("READ_TIMEOUT", "5s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Database.Enabled())
	assert.Equal(t, []string{"MI", "PG"}, cfg.Data.Dimensions)
	assert.Equal(t, 12, cfg.Sampler.BatchSize)
	assert.Equal(t, int64(7), cfg.Sampler.Seed)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
}

func TestLoad_InvalidBatchSize(t *testing.T) {
	t.Setenv("BATCH_SIZE", "-4")

	_, err := Load()
	require.Error(t, err)
	assert.True(t, errors.IsConfigError(err))
}

func TestLoad_BlankDimensions(t *testing.T) {
	t.Setenv("BATCH_SIZE", "")
	t.Setenv("DIMENSIONS", " , ")

	_, err := Load()
	assert.True(t, errors.IsConfigError(err))
}
