package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"), false)
	require.NoError(t, err)

	assert.Equal(t, "file", cfg.Source.Kind)
	assert.Equal(t, "animals.snap", cfg.Source.Path)
	assert.EqualValues(t, 4, cfg.Source.Segments)
	assert.Equal(t, 2*time.Minute, cfg.Cache.BuildTimeout)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"), true)
	require.Error(t, err)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "animalcache.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
source:
  kind: dynamodb
  table: animals
  segments: 8
cache:
  seed: 7
  build_timeout: 45s
  projection: [animal_id, breed, name, color]
log:
  level: debug
  format: json
`), 0o600))

	t.Setenv("ANIMALCACHE_SOURCE__TABLE", "animals-staging")
	t.Setenv("ANIMALCACHE_CACHE__RESULT_CACHE", "0")

	cfg, err := LoadConfig(path, true)
	require.NoError(t, err)

	assert.Equal(t, "dynamodb", cfg.Source.Kind)
	assert.Equal(t, "animals-staging", cfg.Source.Table)
	assert.EqualValues(t, 8, cfg.Source.Segments)
	assert.EqualValues(t, 7, cfg.Cache.Seed)
	assert.Equal(t, 45*time.Second, cfg.Cache.BuildTimeout)
	assert.Equal(t, 0, cfg.Cache.ResultCache)
	assert.Equal(t, []string{"animal_id", "breed", "name", "color"}, cfg.Cache.Projection)
	assert.Len(t, cfg.Cache.Options(), 4)

	log, err := cfg.Log.Logger(0)
	require.NoError(t, err)
	assert.True(t, log.Enabled(t.Context(), slog.LevelDebug))
}

func TestLogConfig_Logger(t *testing.T) {
	log, err := LogConfig{Level: "warn", Format: "text"}.Logger(2)
	require.NoError(t, err)
	assert.True(t, log.Enabled(t.Context(), slog.LevelDebug))

	_, err = LogConfig{Level: "loud"}.Logger(0)
	require.Error(t, err)

	_, err = LogConfig{Level: "info", Format: "xml"}.Logger(0)
	require.Error(t, err)
}

func TestParseDestination(t *testing.T) {
	tests := []struct {
		dest                 string
		kind, bucket, prefix string
	}{
		{dest: "./data", kind: "local", bucket: "./data"},
		{dest: "s3://snaps/prod/animals", kind: "s3", bucket: "snaps", prefix: "prod/animals"},
		{dest: "minio://snaps", kind: "minio", bucket: "snaps"},
	}

	for _, tt := range tests {
		t.Run(tt.dest, func(t *testing.T) {
			kind, bucket, prefix := parseDestination(tt.dest)
			assert.Equal(t, tt.kind, kind)
			assert.Equal(t, tt.bucket, bucket)
			assert.Equal(t, tt.prefix, prefix)
		})
	}
}
