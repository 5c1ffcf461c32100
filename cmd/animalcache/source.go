package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/hupe1980/animalcache/blobstore"
	miniostore "github.com/hupe1980/animalcache/blobstore/minio"
	s3store "github.com/hupe1980/animalcache/blobstore/s3"
	"github.com/hupe1980/animalcache/source"
	ddbsource "github.com/hupe1980/animalcache/source/dynamodb"
)

// openSource builds the record source named by the configuration.
func openSource(ctx context.Context, cfg *Config) (source.Source, error) {
	sc := cfg.Source
	switch strings.ToLower(sc.Kind) {
	case "dynamodb":
		if sc.Table == "" {
			return nil, fmt.Errorf("source.table is required for dynamodb")
		}
		awsCfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		opts := []ddbsource.Option{ddbsource.WithSegments(sc.Segments)}
		if sc.PageSize > 0 {
			opts = append(opts, ddbsource.WithPageSize(sc.PageSize))
		}
		return ddbsource.New(dynamodb.NewFromConfig(awsCfg), sc.Table, opts...), nil
	case "file":
		return source.NewFileSource(sc.Path), nil
	case "s3", "minio":
		store, err := openStore(ctx, cfg, sc.Kind, sc.Bucket, sc.Prefix)
		if err != nil {
			return nil, err
		}
		return source.NewBlobSource(store, sc.Name), nil
	default:
		return nil, fmt.Errorf("unknown source kind %q", sc.Kind)
	}
}

// openStore opens a blob store. kind is s3, minio or local; for local, bucket
// is the root directory.
func openStore(ctx context.Context, cfg *Config, kind, bucket, prefix string) (blobstore.BlobStore, error) {
	switch kind {
	case "local":
		return blobstore.NewLocalStore(bucket), nil
	case "s3":
		if bucket == "" {
			return nil, fmt.Errorf("bucket is required for s3")
		}
		return s3store.NewDefaultStore(ctx, bucket, prefix)
	case "minio":
		if bucket == "" {
			return nil, fmt.Errorf("bucket is required for minio")
		}
		client, err := minio.New(cfg.MinIO.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
			Secure: cfg.MinIO.UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("minio client: %w", err)
		}
		return miniostore.NewStore(client, bucket, prefix), nil
	default:
		return nil, fmt.Errorf("unknown store kind %q", kind)
	}
}

// parseDestination splits s3://bucket/prefix and minio://bucket/prefix. Any
// other value is a local directory.
func parseDestination(dest string) (kind, bucket, prefix string) {
	for _, scheme := range []string{"s3", "minio"} {
		if rest, ok := strings.CutPrefix(dest, scheme+"://"); ok {
			bucket, prefix, _ = strings.Cut(rest, "/")
			return scheme, bucket, prefix
		}
	}
	return "local", dest, ""
}
