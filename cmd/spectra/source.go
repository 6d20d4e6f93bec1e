package main

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/hupe1980/spectra/blobstore"
	minioblob "github.com/hupe1980/spectra/blobstore/minio"
	s3blob "github.com/hupe1980/spectra/blobstore/s3"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// resolve maps an input location to a store and the blob name inside it.
//
//	path/to/file          local file
//	s3://bucket/key       Amazon S3, credentials from the default AWS chain
//	minio://host/bucket/key  MinIO, credentials from MINIO_ACCESS_KEY/MINIO_SECRET_KEY
func (g *globalFlags) resolve(ctx context.Context, input string) (blobstore.BlobStore, string, error) {
	scheme, _, ok := strings.Cut(input, "://")
	if !ok {
		dir, name := filepath.Split(input)
		if dir == "" {
			dir = "."
		}
		return blobstore.NewLocalStore(dir), name, nil
	}

	u, err := url.Parse(input)
	if err != nil {
		return nil, "", fmt.Errorf("invalid input %q: %w", input, err)
	}

	switch scheme {
	case "s3":
		key := strings.TrimPrefix(u.Path, "/")
		if u.Host == "" || key == "" {
			return nil, "", fmt.Errorf("invalid s3 input %q: want s3://bucket/key", input)
		}
		var opts []func(*config.LoadOptions) error
		if g.awsRegion != "" {
			opts = append(opts, config.WithRegion(g.awsRegion))
		}
		cfg, err := config.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			return nil, "", fmt.Errorf("load aws config: %w", err)
		}
		store := s3blob.NewStore(awss3.NewFromConfig(cfg), u.Host, "",
			s3blob.WithDownloadConfig(s3blob.DownloadConfig{PartSize: g.downloadPartMB << 20}))
		return store, key, nil

	case "minio":
		bucket, key, ok := strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
		if !ok || bucket == "" || key == "" {
			return nil, "", fmt.Errorf("invalid minio input %q: want minio://host/bucket/key", input)
		}
		endpoint := u.Host
		if g.minioEndpoint != "" {
			endpoint = g.minioEndpoint
		}
		client, err := minio.New(endpoint, &minio.Options{
			Creds:  credentials.NewEnvMinio(),
			Secure: g.minioSecure,
		})
		if err != nil {
			return nil, "", fmt.Errorf("minio client: %w", err)
		}
		return minioblob.NewStore(client, bucket, ""), key, nil
	}

	return nil, "", fmt.Errorf("unsupported input scheme %q", scheme)
}
