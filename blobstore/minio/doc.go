// Package minio reads graph datasets from MinIO and other S3-compatible
// object stores through the native MinIO client.
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//	store := minioblob.NewStore(client, "datasets", "graphs/")
//
// It works without any AWS dependency, which suits air-gapped clusters.
package minio
