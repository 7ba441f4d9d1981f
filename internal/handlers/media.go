package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/friendoria/friendoria/db"
	"github.com/friendoria/friendoria/internal/models"
	"github.com/friendoria/friendoria/internal/storage"
	"github.com/friendoria/friendoria/internal/utils"
	"gorm.io/gorm"
)

const (
	maxUploadFiles = 10
	maxUploadBytes = 10 << 20 // 10 MiB per file

	// Dimension extraction is deferred; rows carry fixed placeholders.
	placeholderDimension = 1024
)

var allowedMimeTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/jpg":  true,
	"image/webp": true,
}

// UploadMedia ingests a batch of image files for an event. The whole
// batch is validated before any byte is written; the first invalid file
// rejects the request with no persisted side effects.
func UploadMedia(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	eventID, err := utils.GetEventID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var participant models.Participant

	if err := db.DB.Where("event_id = ? AND user_id = ?", eventID, userID).First(&participant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusForbidden, gin.H{"error": "You must be a participant to add photos"})
		} else {
			log.Printf("Failed to check participant for event %d: %v", eventID, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	form, err := ctx.MultipartForm()

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart form"})
		return
	}

	files := form.File["files"]

	if len(files) == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "No files provided"})
		return
	}

	if len(files) > maxUploadFiles {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Maximum %d files per upload", maxUploadFiles)})
		return
	}

	// Validate the whole batch before writing anything.
	for _, fh := range files {
		contentType := fh.Header.Get("Content-Type")

		if !allowedMimeTypes[contentType] {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Unsupported file type: %s", fh.Filename)})
			return
		}

		if fh.Size > maxUploadBytes {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("File too large: %s (max 10MB)", fh.Filename)})
			return
		}
	}

	reqCtx := ctx.Request.Context()

	var (
		writtenKeys []string
		rows        []models.Media
	)

	cleanup := func() {
		for _, key := range writtenKeys {
			if err := blobStore.Delete(context.Background(), mediaBucket, key); err != nil {
				log.Printf("Failed to clean up blob %s: %v", key, err)
			}
		}
	}

	for _, fh := range files {
		key := storage.GenerateKey(userID, eventID, fh.Filename)
		contentType := fh.Header.Get("Content-Type")

		if err := writeBlob(reqCtx, fh, key, contentType); err != nil {
			log.Printf("Failed to store file %s: %v", fh.Filename, err)
			cleanup()
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed"})
			return
		}

		writtenKeys = append(writtenKeys, key)

		rows = append(rows, models.Media{
			EventID:    eventID,
			UploadedBy: userID,
			Type:       models.MediaTypeImage,
			StorageKey: key,
			Bucket:     mediaBucket,
			Filename:   fh.Filename,
			MimeType:   contentType,
			Size:       fh.Size,
			Status:     models.MediaStatusPending,
			Width:      placeholderDimension,
			Height:     placeholderDimension,
		})
	}

	// One transaction for the whole batch: either every row lands or none
	// do, and written blobs are removed on failure.
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		for i := range rows {
			if err := tx.Create(&rows[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		log.Printf("Failed to record media for event %d: %v", eventID, err)
		cleanup()
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed"})
		return
	}

	summaries := make([]MediaSummary, 0, len(rows))

	for _, m := range rows {
		summaries = append(summaries, MediaSummary{
			ID:       m.ID,
			Filename: m.Filename,
			Status:   m.Status,
		})
	}

	BroadcastRefresh(eventID)

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("%d photo(s) uploaded successfully", len(summaries)),
		"media":   summaries,
	})
}

func writeBlob(ctx context.Context, fh *multipart.FileHeader, key, contentType string) error {
	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = blobStore.Put(ctx, mediaBucket, key, f, contentType)
	return err
}

// ValidateMedia lets the event creator move an uploaded photo out of
// moderation.
func ValidateMedia(ctx *gin.Context) {
	media, ok := requireCreatorMedia(ctx)
	if !ok {
		return
	}

	if err := db.DB.Model(media).Update("status", models.MediaStatusValidated).Error; err != nil {
		log.Printf("Failed to validate media %d: %v", media.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	BroadcastRefresh(media.EventID)

	ctx.JSON(http.StatusOK, gin.H{
		"media": MediaSummary{ID: media.ID, Filename: media.Filename, Status: models.MediaStatusValidated},
	})
}

// DeleteMedia removes a rejected photo: blob first, then the row.
func DeleteMedia(ctx *gin.Context) {
	media, ok := requireCreatorMedia(ctx)
	if !ok {
		return
	}

	if err := blobStore.Delete(ctx.Request.Context(), media.Bucket, media.StorageKey); err != nil {
		log.Printf("Failed to delete blob %s/%s: %v", media.Bucket, media.StorageKey, err)
	}

	if err := db.DB.Delete(media).Error; err != nil {
		log.Printf("Failed to delete media %d: %v", media.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	BroadcastRefresh(media.EventID)

	ctx.Status(http.StatusNoContent)
}

// requireCreatorMedia loads the addressed media row and checks that the
// caller created the owning event. Writes the error response itself.
func requireCreatorMedia(ctx *gin.Context) (*models.Media, bool) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return nil, false
	}

	eventID, err := utils.GetEventID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	mediaID, err := utils.GetMediaID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	var event models.Event

	if err := db.DB.First(&event, eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		} else {
			log.Printf("Failed to fetch event %d: %v", eventID, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return nil, false
	}

	if event.CreatorID != userID {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Only the event creator can moderate media"})
		return nil, false
	}

	var media models.Media

	if err := db.DB.Where("id = ? AND event_id = ?", mediaID, eventID).First(&media).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Media not found"})
		} else {
			log.Printf("Failed to fetch media %d: %v", mediaID, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return nil, false
	}

	return &media, true
}
