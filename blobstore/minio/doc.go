// Package minio provides a BlobStore backed by the MinIO client, for MinIO and
// other S3-compatible servers (Ceph, Garage, SeaweedFS).
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := minioblob.NewStore(client, "shelter", "snapshots/")
//	src := source.NewBlobSource(store, "latest.snap")
package minio
