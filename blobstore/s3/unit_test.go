package s3

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/hupe1980/spectra/blobstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockS3Client struct {
	mock.Mock
}

func (m *MockS3Client) HeadObject(ctx context.Context, params *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*s3.HeadObjectOutput)
	return out, args.Error(1)
}

func (m *MockS3Client) GetObject(ctx context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*s3.GetObjectOutput)
	return out, args.Error(1)
}

func (m *MockS3Client) ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*s3.ListObjectsV2Output)
	return out, args.Error(1)
}

func rangeIs(r string) any {
	return mock.MatchedBy(func(input *s3.GetObjectInput) bool {
		return aws.ToString(input.Range) == r
	})
}

func body(s string) io.ReadCloser {
	return io.NopCloser(strings.NewReader(s))
}

func readAll(t *testing.T, b blobstore.Blob, off, length int64) string {
	t.Helper()
	r, err := b.ReadRange(context.Background(), off, length)
	require.NoError(t, err)
	defer r.Close()
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(data)
}

func TestStore_Open(t *testing.T) {
	mockClient := new(MockS3Client)
	store := NewStore(mockClient, "test-bucket", "prefix")

	t.Run("NotFound", func(t *testing.T) {
		mockClient.On("HeadObject", mock.Anything, mock.MatchedBy(func(input *s3.HeadObjectInput) bool {
			return *input.Bucket == "test-bucket" && *input.Key == "prefix/foo"
		})).Return(nil, &types.NotFound{}).Once()

		_, err := store.Open(context.Background(), "foo")
		assert.ErrorIs(t, err, blobstore.ErrNotFound)
	})

	t.Run("NoSuchKey", func(t *testing.T) {
		mockClient.On("HeadObject", mock.Anything, mock.Anything).Return(nil, &types.NoSuchKey{}).Once()

		_, err := store.Open(context.Background(), "gone")
		assert.ErrorIs(t, err, blobstore.ErrNotFound)
	})

	t.Run("OtherError", func(t *testing.T) {
		boom := errors.New("access denied")
		mockClient.On("HeadObject", mock.Anything, mock.Anything).Return(nil, boom).Once()

		_, err := store.Open(context.Background(), "secret")
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, blobstore.ErrNotFound)
	})

	t.Run("Success", func(t *testing.T) {
		mockClient.On("HeadObject", mock.Anything, mock.MatchedBy(func(input *s3.HeadObjectInput) bool {
			return *input.Key == "prefix/bar"
		})).Return(&s3.HeadObjectOutput{ContentLength: aws.Int64(100)}, nil).Once()

		blob, err := store.Open(context.Background(), "bar")
		require.NoError(t, err)
		assert.Equal(t, int64(100), blob.Size())
	})
}

func TestStore_List_Pagination(t *testing.T) {
	mockClient := new(MockS3Client)
	store := NewStore(mockClient, "test-bucket", "prefix/")

	mockClient.On("ListObjectsV2", mock.Anything, mock.MatchedBy(func(input *s3.ListObjectsV2Input) bool {
		return input.ContinuationToken == nil && *input.Prefix == "prefix"
	})).Return(&s3.ListObjectsV2Output{
		IsTruncated:           aws.Bool(true),
		NextContinuationToken: aws.String("token"),
		Contents:              []types.Object{{Key: aws.String("prefix/web.mtx")}},
	}, nil).Once()

	mockClient.On("ListObjectsV2", mock.Anything, mock.MatchedBy(func(input *s3.ListObjectsV2Input) bool {
		return aws.ToString(input.ContinuationToken) == "token"
	})).Return(&s3.ListObjectsV2Output{
		IsTruncated: aws.Bool(false),
		Contents:    []types.Object{{Key: aws.String("prefix/dir/karate.csv")}},
	}, nil).Once()

	keys, err := store.List(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"dir/karate.csv", "web.mtx"}, keys)
	mockClient.AssertExpectations(t)
}

func TestBlob_ReadRange(t *testing.T) {
	mockClient := new(MockS3Client)
	store := NewStore(mockClient, "b", "")
	b := &blob{store: store, key: "k", size: 10}

	mockClient.On("GetObject", mock.Anything, rangeIs("bytes=2-6")).
		Return(&s3.GetObjectOutput{Body: body("llo W")}, nil).Once()
	mockClient.On("GetObject", mock.Anything, rangeIs("bytes=8-9")).
		Return(&s3.GetObjectOutput{Body: body("ld")}, nil).Once()

	assert.Equal(t, "llo W", readAll(t, b, 2, 5))
	assert.Equal(t, "ld", readAll(t, b, 8, 100))
	assert.Empty(t, readAll(t, b, 10, 5))
	mockClient.AssertExpectations(t)
}

func TestBlob_DownloadAll(t *testing.T) {
	mockClient := new(MockS3Client)
	store := NewStore(mockClient, "b", "", WithDownloadConfig(DownloadConfig{PartSize: 5, Concurrency: 1}))
	b := &blob{store: store, key: "k", size: 10}

	mockClient.On("GetObject", mock.Anything, rangeIs("bytes=0-4")).
		Return(&s3.GetObjectOutput{
			Body:          body("0 1\n1"),
			ContentLength: aws.Int64(5),
			ContentRange:  aws.String("bytes 0-4/10"),
		}, nil).Once()
	mockClient.On("GetObject", mock.Anything, rangeIs("bytes=5-9")).
		Return(&s3.GetObjectOutput{
			Body:          body(" 2\n2\n"),
			ContentLength: aws.Int64(5),
			ContentRange:  aws.String("bytes 5-9/10"),
		}, nil).Once()

	assert.Equal(t, "0 1\n1 2\n2\n", readAll(t, b, 0, -1))
	mockClient.AssertExpectations(t)
}

func TestBlob_ReadRange_Cancelled(t *testing.T) {
	b := &blob{store: NewStore(new(MockS3Client), "b", ""), key: "k", size: 10}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := b.ReadRange(ctx, 0, 5)
	assert.ErrorIs(t, err, context.Canceled)
}
