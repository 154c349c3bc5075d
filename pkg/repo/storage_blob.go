package repo

import (
	"context"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"

	// bucket drivers selectable by url scheme
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/memblob"
)

const jsonContentType = "application/json"

// BlobStorage stores site documents in a gocloud.dev bucket.
type BlobStorage struct {
	bucket *blob.Bucket
	prefix string
}

// NewBlobStorage opens bucketURL, e.g. "gs://bucket-name", "file:///var/lib/sitegen" or "mem://".
// prefix is an optional path prefix for all keys.
func NewBlobStorage(ctx context.Context, bucketURL, prefix string) (*BlobStorage, error) {
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open bucket %q", bucketURL)
	}
	return NewBlobStorageFromBucket(bucket, prefix), nil
}

// NewBlobStorageFromBucket wraps an already opened bucket.
func NewBlobStorageFromBucket(bucket *blob.Bucket, prefix string) *BlobStorage {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &BlobStorage{
		bucket: bucket,
		prefix: prefix,
	}
}

func (b *BlobStorage) Write(ctx context.Context, key string, data []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	return b.bucket.WriteAll(ctx, b.fullKey(key), data, &blob.WriterOptions{
		ContentType: jsonContentType,
	})
}

func (b *BlobStorage) Read(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	data, err := b.bucket.ReadAll(ctx, b.fullKey(key))
	if gcerrors.Code(err) == gcerrors.NotFound {
		return nil, os.ErrNotExist
	} else if err != nil {
		return nil, err
	}
	return data, nil
}

func (b *BlobStorage) List(ctx context.Context, prefix string) ([]string, error) {
	iter := b.bucket.List(&blob.ListOptions{
		Prefix:    b.fullKey(prefix),
		Delimiter: "/",
	})

	var keys []string
	for {
		obj, err := iter.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, err
		}
		if obj.IsDir || !strings.HasPrefix(obj.Key, b.prefix) {
			continue
		}
		keys = append(keys, strings.TrimPrefix(obj.Key, b.prefix))
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	return keys, nil
}

func (b *BlobStorage) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	err := b.bucket.Delete(ctx, b.fullKey(key))
	if gcerrors.Code(err) == gcerrors.NotFound {
		return nil
	}
	return err
}

func (b *BlobStorage) Close() error {
	return b.bucket.Close()
}

func (b *BlobStorage) fullKey(key string) string {
	return b.prefix + key
}
