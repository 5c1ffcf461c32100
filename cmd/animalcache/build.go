package main

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/hupe1980/animalcache"
)

func BuildCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "build",
		Short: "Build the cache and report index statistics",
		Long:  `Fetch a snapshot from the configured source, build every index and print build and shape statistics.`,
		Example: `  animalcache build
  animalcache build --config prod.yaml --json`,
		Args: cobra.NoArgs,
	}

	command.RunE = func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		stats, err := s.build(cmd.Context())
		if err != nil {
			return err
		}

		full := s.cache.Stats()
		if flagJSON {
			return printJSON(cmd.OutOrStdout(), full)
		}
		printBuildStats(cmd.OutOrStdout(), stats, full)
		return nil
	}

	return command
}

func printBuildStats(w io.Writer, b animalcache.BuildStats, s animalcache.Stats) {
	fmt.Fprintf(w, "generation:      %d\n", b.Generation)
	fmt.Fprintf(w, "records:         %s (fetched %s, skipped %s, duplicates %s)\n",
		humanize.Comma(int64(b.Indexed)), humanize.Comma(int64(b.Fetched)),
		humanize.Comma(int64(b.Skipped)), humanize.Comma(int64(b.Duplicates)))
	fmt.Fprintf(w, "categories:      %s (%.1f per category)\n",
		humanize.Comma(int64(s.Categories.DistinctKeys)), s.Categories.AveragePerKey)
	fmt.Fprintf(w, "names:           %s (%.1f per name)\n",
		humanize.Comma(int64(s.Names.DistinctKeys)), s.Names.AveragePerKey)
	fmt.Fprintf(w, "tree depth:      %d max, %.2f average, %d optimal, balanced=%v\n",
		s.Tree.MaxDepth, s.Tree.AverageDepth, s.Tree.OptimalDepth, s.Tree.Balanced)
	fmt.Fprintf(w, "fetch:           %s\n", b.FetchDuration.Round(time.Microsecond))
	fmt.Fprintf(w, "index:           %s\n", b.BuildDuration.Round(time.Microsecond))
	fmt.Fprintf(w, "total:           %s\n", b.Duration.Round(time.Microsecond))
	fmt.Fprintf(w, "built:           %s\n", humanize.Time(b.BuiltAt))
}
