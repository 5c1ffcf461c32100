package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"

	"github.com/hupe1980/animalcache"
)

const envPrefix = "ANIMALCACHE_"

// Config is the CLI configuration. Values come from the defaults below, the
// YAML file, and ANIMALCACHE_ environment variables, in that order. Nested keys
// are separated by a double underscore: ANIMALCACHE_SOURCE__TABLE.
type Config struct {
	Source SourceConfig `koanf:"source"`
	Cache  CacheConfig  `koanf:"cache"`
	Log    LogConfig    `koanf:"log"`
	MinIO  MinIOConfig  `koanf:"minio"`
}

type SourceConfig struct {
	// Kind is one of dynamodb, file, s3 or minio.
	Kind string `koanf:"kind"`

	// dynamodb
	Table    string `koanf:"table"`
	Segments int32  `koanf:"segments"`
	PageSize int32  `koanf:"page_size"`

	// file
	Path string `koanf:"path"`

	// s3 and minio
	Bucket string `koanf:"bucket"`
	Prefix string `koanf:"prefix"`
	Name   string `koanf:"name"`
}

type CacheConfig struct {
	Seed         uint64        `koanf:"seed"`
	BuildTimeout time.Duration `koanf:"build_timeout"`
	ResultCache  int           `koanf:"result_cache"`
	Projection   []string      `koanf:"projection"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type MinIOConfig struct {
	Endpoint  string `koanf:"endpoint"`
	AccessKey string `koanf:"access_key"`
	SecretKey string `koanf:"secret_key"`
	UseSSL    bool   `koanf:"use_ssl"`
}

var defaults = map[string]any{
	"source.kind":         "file",
	"source.path":         "animals.snap",
	"source.segments":     4,
	"source.name":         "snapshots/animals.snap",
	"cache.build_timeout": "2m",
	"cache.result_cache":  animalcache.DefaultResultCacheSize,
	"log.level":           "warn",
	"log.format":          "text",
}

// LoadConfig reads the configuration. A missing file at the default path is
// not an error.
func LoadConfig(path string, explicit bool) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, err
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil || explicit {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("load config %s: %w", path, err)
			}
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".")
	}), nil); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// Logger builds the cache logger. Verbosity flags raise the configured level.
func (c LogConfig) Logger(verbose int) (*animalcache.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return nil, fmt.Errorf("log level %q: %w", c.Level, err)
	}
	level -= slog.Level(4 * verbose)

	switch c.Format {
	case "json":
		return animalcache.NewJSONLogger(level), nil
	case "text", "":
		return animalcache.NewTextLogger(level), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", c.Format)
	}
}

// Options translates the cache section into cache options.
func (c CacheConfig) Options() []animalcache.Option {
	opts := []animalcache.Option{
		animalcache.WithBuildTimeout(c.BuildTimeout),
		animalcache.WithResultCache(c.ResultCache),
	}
	if c.Seed != 0 {
		opts = append(opts, animalcache.WithSeed(c.Seed))
	}
	if len(c.Projection) > 0 {
		opts = append(opts, animalcache.WithProjection(c.Projection))
	}
	return opts
}
