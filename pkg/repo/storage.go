package repo

import (
	"context"
	"strings"

	"github.com/pkg/errors"
)

// ErrInvalidKey storage keys are flat names
var ErrInvalidKey = errors.New("invalid storage key")

// Storage defines the contract for site persistence backends.
// Implementations must be safe for concurrent use.
type Storage interface {
	// Write stores data with the given key.
	Write(ctx context.Context, key string, data []byte) error

	// Read retrieves data for the given key.
	// Returns os.ErrNotExist if the key does not exist.
	Read(ctx context.Context, key string) ([]byte, error)

	// List returns keys matching the given prefix, sorted descending (newest revision first).
	List(ctx context.Context, prefix string) ([]string, error)

	// Delete removes the data for the given key.
	// Returns nil if the key does not exist.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the storage backend.
	Close() error
}

// OpenStorage opens the backend selected by storageType.
// "fs" stores files in dir, "blob" opens bucketURL (gs://, file://, mem://) under prefix.
func OpenStorage(ctx context.Context, storageType, dir, bucketURL, prefix string) (Storage, error) {
	switch storageType {
	case "", "fs":
		return NewFilesystemStorage(dir)
	case "blob":
		if bucketURL == "" {
			return nil, errors.New("blob storage requires a bucket url")
		}
		return NewBlobStorage(ctx, bucketURL, prefix)
	default:
		return nil, errors.Errorf("unknown storage type %q", storageType)
	}
}

func validateKey(key string) error {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return errors.Wrapf(ErrInvalidKey, "%q", key)
	}
	return nil
}
