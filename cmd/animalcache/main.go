package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagConfigFile = "animalcache.yaml"
	flagLogLevel   = 0
	flagJSON       bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "animalcache",
		Short: "Build and query shelter-animal caches",
		Long: `A CLI for building the animal cache from a record source, querying it,
and exporting snapshots to local disk, S3 or MinIO.
`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&flagConfigFile, "config", "c", flagConfigFile, "Config file")
	rootCmd.PersistentFlags().CountVarP(&flagLogLevel, "verbose", "v", "Verbose level")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Print JSON instead of text")

	rootCmd.AddCommand(BuildCommand())
	rootCmd.AddCommand(QueryCommand())
	rootCmd.AddCommand(CountsCommand())
	rootCmd.AddCommand(ExportCommand())
	rootCmd.AddCommand(VersionCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
