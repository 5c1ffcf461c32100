// Package s3 provides an Amazon S3 implementation of blobstore.BlobStore.
//
// # Usage
//
//	store, err := s3.NewDefaultStore(ctx, "shelter-snapshots", "animals/")
//	if err != nil { ... }
//
//	src := source.NewBlobSource(store, "latest.snap")
//	c, err := animalcache.New(src)
//
// Reads use ranged GetObject calls; writes go through the managed uploader, so
// large snapshots are sent as multipart uploads.
package s3
