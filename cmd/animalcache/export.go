package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/hupe1980/animalcache/codec"
	"github.com/hupe1980/animalcache/snapshot"
	"github.com/hupe1980/animalcache/source"
)

func ExportCommand() *cobra.Command {
	var (
		flagDest        string
		flagName        string
		flagCompression string
		flagCodec       string
	)

	command := &cobra.Command{
		Use:   "export",
		Short: "Write the source's records as a snapshot blob",
		Long: `Fetch every record from the configured source and publish it as a snapshot
that the file, s3 and minio sources can serve.`,
		Example: `  animalcache export --dest ./data
  animalcache export --dest s3://shelter-snapshots/prod --compression lz4
  animalcache export --dest minio://animals --codec json`,
		Args: cobra.NoArgs,
	}

	command.Flags().StringVar(&flagDest, "dest", ".", "Destination: a directory, s3://bucket/prefix or minio://bucket/prefix")
	command.Flags().StringVar(&flagName, "name", "", "Blob name (defaults to source.name)")
	command.Flags().StringVar(&flagCompression, "compression", "zstd", "none, lz4 or zstd")
	command.Flags().StringVar(&flagCodec, "codec", codec.Default.Name(), "Body codec")

	command.RunE = func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		comp, err := snapshot.ParseCompression(flagCompression)
		if err != nil {
			return err
		}
		c, ok := codec.ByName(flagCodec)
		if !ok {
			return fmt.Errorf("unknown codec %q", flagCodec)
		}

		name := flagName
		if name == "" {
			name = s.cfg.Source.Name
		}

		kind, bucket, prefix := parseDestination(flagDest)
		store, err := openStore(ctx, s.cfg, kind, bucket, prefix)
		if err != nil {
			return err
		}

		start := time.Now()
		n, err := source.Publish(ctx, s.src, store, name, snapshot.WithCompression(comp), snapshot.WithCodec(c))
		if err != nil {
			return err
		}

		blob, err := store.Open(ctx, name)
		if err != nil {
			return err
		}
		size := blob.Size()
		_ = blob.Close()

		s.log.InfoContext(ctx, "snapshot exported", "name", name, "records", n, "bytes", size)
		fmt.Fprintf(cmd.OutOrStdout(), "exported %s records to %s (%s, %s) in %s\n",
			humanize.Comma(int64(n)), describe(kind, bucket, prefix, name), humanize.IBytes(uint64(size)),
			comp, time.Since(start).Round(time.Millisecond))
		return nil
	}

	return command
}

func describe(kind, bucket, prefix, name string) string {
	if kind == "local" {
		return bucket + "/" + name
	}
	if prefix != "" {
		return fmt.Sprintf("%s://%s/%s/%s", kind, bucket, prefix, name)
	}
	return fmt.Sprintf("%s://%s/%s", kind, bucket, name)
}
