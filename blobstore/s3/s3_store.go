package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/hupe1980/spectra/blobstore"
)

// Client is the subset of the S3 API the store uses.
type Client interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// DownloadConfig tunes whole-object downloads.
type DownloadConfig struct {
	// PartSize is the size of each ranged GET. Objects no larger than one
	// part are read with a single request. Default: 8MB.
	PartSize int64

	// Concurrency is the number of parts fetched in parallel. Default: 5.
	Concurrency int
}

// DefaultDownloadConfig returns the download settings used by NewStore.
func DefaultDownloadConfig() DownloadConfig {
	return DownloadConfig{
		PartSize:    8 * 1024 * 1024,
		Concurrency: 5,
	}
}

// Option configures a Store.
type Option func(*Store)

// WithDownloadConfig overrides the download settings.
func WithDownloadConfig(cfg DownloadConfig) Option {
	return func(s *Store) {
		if cfg.PartSize > 0 {
			s.download.PartSize = cfg.PartSize
		}
		if cfg.Concurrency > 0 {
			s.download.Concurrency = cfg.Concurrency
		}
	}
}

// Store implements blobstore.BlobStore for S3.
type Store struct {
	client   Client
	bucket   string
	prefix   string
	download DownloadConfig
}

// NewStore creates an S3 store. rootPrefix is prepended to every name.
func NewStore(client Client, bucket, rootPrefix string, opts ...Option) *Store {
	s := &Store{
		client:   client,
		bucket:   bucket,
		prefix:   rootPrefix,
		download: DefaultDownloadConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) key(name string) string {
	return path.Join(s.prefix, name)
}

// Open resolves the object size with a HEAD request.
func (s *Store) Open(ctx context.Context, name string) (blobstore.Blob, error) {
	key := s.key(name)

	head, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("s3://%s/%s: %w", s.bucket, key, blobstore.ErrNotFound)
		}
		return nil, err
	}

	return &blob{
		store: s,
		key:   key,
		size:  aws.ToInt64(head.ContentLength),
	}, nil
}

// List returns the sorted names under prefix, relative to the root prefix.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.key(prefix)),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, obj := range page.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), s.prefix)
			name = strings.TrimPrefix(name, "/")
			if name != "" {
				keys = append(keys, name)
			}
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func isNotFound(err error) bool {
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	var nsk *types.NoSuchKey
	return errors.As(err, &nsk)
}

type blob struct {
	store *Store
	key   string
	size  int64
}

func (b *blob) Close() error {
	return nil
}

func (b *blob) Size() int64 {
	return b.size
}

// ReadRange issues one ranged GET, or a concurrent download when the
// whole object spans more than one part.
func (b *blob) ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if off < 0 {
		off = 0
	}
	if off >= b.size {
		return io.NopCloser(bytes.NewReader(nil)), nil
	}

	end := off + length - 1
	if length < 0 || end >= b.size {
		end = b.size - 1
	}

	if off == 0 && end == b.size-1 && b.size > b.store.download.PartSize {
		return b.downloadAll(ctx)
	}

	resp, err := b.store.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.store.bucket),
		Key:    aws.String(b.key),
		Range:  aws.String(fmt.Sprintf("bytes=%d-%d", off, end)),
	})
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

func (b *blob) downloadAll(ctx context.Context) (io.ReadCloser, error) {
	cfg := b.store.download
	d := manager.NewDownloader(b.store.client, func(d *manager.Downloader) {
		d.PartSize = cfg.PartSize
		d.Concurrency = cfg.Concurrency
	})

	buf := manager.NewWriteAtBuffer(make([]byte, 0, b.size))
	n, err := d.Download(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(b.store.bucket),
		Key:    aws.String(b.key),
	})
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(buf.Bytes()[:n])), nil
}
