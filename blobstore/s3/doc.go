// Package s3 reads graph datasets from Amazon S3.
//
// Store implements blobstore.BlobStore over any Client, which the
// *s3.Client from aws-sdk-go-v2 satisfies. Small ranges are served by a
// single ranged GET; whole objects larger than one part are fetched with
// the SDK's concurrent downloader.
//
//	cfg, err := config.LoadDefaultConfig(ctx)
//	store := s3.NewStore(awss3.NewFromConfig(cfg), "datasets", "graphs/")
//	ds, err := dataset.Open(ctx, store, "karate.mtx.gz", dataset.FormatAuto)
package s3
