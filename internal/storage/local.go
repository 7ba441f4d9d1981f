package storage

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"time"
)

// LocalBucket is the bucket marker recorded on media rows stored on disk.
const LocalBucket = "local"

// LocalStore writes blobs under a public, web-servable uploads root. The
// bucket argument is ignored; everything lives under one directory tree.
type LocalStore struct {
	root    string
	baseURL string
}

func NewLocalStore(root string) *LocalStore {
	return &LocalStore{root: root, baseURL: "/uploads"}
}

func (s *LocalStore) Put(ctx context.Context, bucket, key string, body io.Reader, contentType string) (string, error) {
	target := filepath.Join(s.root, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", err
	}

	f, err := os.Create(target)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(target)
		return "", err
	}

	if err := f.Close(); err != nil {
		os.Remove(target)
		return "", err
	}

	return key, nil
}

func (s *LocalStore) Delete(ctx context.Context, bucket, key string) error {
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(key)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// SignedURL returns the public path of the object. Files under the
// uploads root are served directly, so no signing is involved.
func (s *LocalStore) SignedURL(ctx context.Context, bucket, key string, expires time.Duration) (string, error) {
	return path.Join(s.baseURL, key), nil
}
