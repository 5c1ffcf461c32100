package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/hupe1980/animalcache"
	"github.com/hupe1980/animalcache/codec"
	"github.com/hupe1980/animalcache/source"
)

var (
	Version   = "dev"
	GitCommit = "none"
	Timestamp = "unknown"
)

// session is the state shared by the commands of one invocation.
type session struct {
	cfg   *Config
	log   *animalcache.Logger
	src   source.Source
	cache *animalcache.Cache
}

func newSession(cmd *cobra.Command) (*session, error) {
	explicit := cmd.Flags().Changed("config")
	cfg, err := LoadConfig(flagConfigFile, explicit)
	if err != nil {
		return nil, err
	}

	log, err := cfg.Log.Logger(flagLogLevel)
	if err != nil {
		return nil, err
	}

	src, err := openSource(cmd.Context(), cfg)
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, log: log, src: src}, nil
}

// build creates the cache and runs the first build.
func (s *session) build(ctx context.Context) (animalcache.BuildStats, error) {
	opts := append(s.cfg.Cache.Options(), animalcache.WithLogger(s.log))
	c, err := animalcache.New(s.src, opts...)
	if err != nil {
		return animalcache.BuildStats{}, err
	}
	s.cache = c
	return c.Initialize(ctx)
}

func (s *session) Close() error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Close()
}

func printJSON(w io.Writer, v any) error {
	b, err := codec.Default.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func VersionCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "version",
		Short: "Print version info",
		Long:  `Print version info`,
		Example: `  animalcache version
  animalcache version --help`,
	}

	command.RunE = func(cmd *cobra.Command, args []string) error {
		fmt.Fprintf(cmd.OutOrStdout(), "animalcache version: %s commit: %s built at: %s\n", Version, GitCommit, Timestamp)
		return nil
	}

	return command
}
