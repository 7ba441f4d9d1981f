package handlers

import (
	"github.com/friendoria/friendoria/internal/config"
	"github.com/friendoria/friendoria/internal/storage"
)

var (
	cookieDomain   string
	blobStore      storage.BlobStore
	mediaBucket    string
	allowedOrigins []string
)

// Configure injects the startup configuration and the blob backend into
// the handler package. Called once before the router starts serving.
func Configure(cfg *config.Config, store storage.BlobStore) {
	cookieDomain = cfg.Server.CookieDomain
	allowedOrigins = cfg.Server.AllowedOrigins
	blobStore = store

	if cfg.Storage.Driver == config.StorageDriverLocal {
		mediaBucket = storage.LocalBucket
	} else {
		mediaBucket = cfg.Storage.MediaBucket
	}
}
