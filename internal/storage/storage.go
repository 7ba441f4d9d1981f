package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BlobStore is the object storage surface needed by media ingestion:
// append-only puts, an explicit delete for moderation cleanup, and
// temporary read URLs.
type BlobStore interface {
	Put(ctx context.Context, bucket, key string, body io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, bucket, key string) error
	SignedURL(ctx context.Context, bucket, key string, expires time.Duration) (string, error)
}

// GenerateKey builds a collision-resistant object key from the uploading
// user, the owning event, the current timestamp and a random token,
// keeping the original file extension.
func GenerateKey(userID, eventID uint, filename string) string {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")[:13]
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))

	key := fmt.Sprintf("%d/%d/%d-%s", userID, eventID, time.Now().UnixMilli(), token)
	if ext != "" {
		key += "." + ext
	}

	return key
}
