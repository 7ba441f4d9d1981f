package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/friendoria/friendoria/db"
	"github.com/friendoria/friendoria/internal/models"
	"github.com/friendoria/friendoria/internal/utils"
	"gorm.io/gorm"
)

type CreateEventRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	StartDate   string   `json:"startDate" binding:"required"`
	EndDate     string   `json:"endDate"`
	IsPunctual  *bool    `json:"isPunctual"`
	Location    string   `json:"location"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

type ParticipantSummary struct {
	ID       uint         `json:"id"`
	Role     string       `json:"role"`
	Status   string       `json:"status"`
	JoinedAt time.Time    `json:"joined_at"`
	User     UserResponse `json:"user"`
}

type EventSummary struct {
	ID                uint                 `json:"id"`
	Title             string               `json:"title"`
	Description       string               `json:"description,omitempty"`
	StartDate         time.Time            `json:"startDate"`
	EndDate           *time.Time           `json:"endDate,omitempty"`
	IsPunctual        bool                 `json:"isPunctual"`
	Location          string               `json:"location,omitempty"`
	CreatorID         uint                 `json:"creatorId"`
	Creator           UserResponse         `json:"creator"`
	Participants      []ParticipantSummary `json:"participants"`
	MediaCount        int64                `json:"media_count"`
	ContributionCount int64                `json:"contribution_count"`
}

type MediaSummary struct {
	ID       uint   `json:"id"`
	Filename string `json:"filename"`
	Status   string `json:"status"`
}

type MediaDetail struct {
	ID         uint      `json:"id"`
	Type       string    `json:"type"`
	StorageKey string    `json:"storage_key"`
	Bucket     string    `json:"bucket"`
	Filename   string    `json:"filename"`
	MimeType   string    `json:"mime_type"`
	Size       int64     `json:"size"`
	Status     string    `json:"status"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	URL        string    `json:"url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type ContributionSummary struct {
	ID          uint         `json:"id"`
	Type        string       `json:"type"`
	Content     string       `json:"content"`
	Status      string       `json:"status"`
	ValidatedAt *time.Time   `json:"validated_at,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	User        UserResponse `json:"user"`
}

type EventDetailResponse struct {
	EventSummary
	Media         []MediaDetail         `json:"media"`
	Contributions []ContributionSummary `json:"contributions"`
}

// parseEventDate accepts both bare dates and full RFC 3339 timestamps.
func parseEventDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

func CreateEvent(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CreateEventRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Title and start date are required"})
		return
	}

	startDate, err := parseEventDate(req.StartDate)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start date"})
		return
	}

	var endDate *time.Time

	if req.EndDate != "" {
		parsed, err := parseEventDate(req.EndDate)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end date"})
			return
		}
		endDate = &parsed
	}

	isPunctual := true
	if req.IsPunctual != nil {
		isPunctual = *req.IsPunctual
	}

	event := models.Event{
		Title:       req.Title,
		Description: req.Description,
		StartDate:   startDate,
		EndDate:     endDate,
		IsPunctual:  isPunctual,
		Location:    req.Location,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		CreatorID:   userID,
	}

	// The event and its creator participant must never be observable
	// separately.
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&event).Error; err != nil {
			return err
		}

		participant := models.Participant{
			EventID:  event.ID,
			UserID:   userID,
			Role:     models.ParticipantRoleCreator,
			Status:   models.ParticipantStatusAccepted,
			JoinedAt: time.Now(),
		}

		return tx.Create(&participant).Error
	})

	if err != nil {
		log.Printf("Failed to create event: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create event"})
		return
	}

	var created models.Event

	if err := db.DB.Preload("Creator").Preload("Participants.User").First(&created, event.ID).Error; err != nil {
		log.Printf("Failed to reload event %d: %v", event.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "Event created successfully",
		"event":   buildEventSummary(created),
	})
}

func ListEvents(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	participations := db.DB.Model(&models.Participant{}).
		Select("event_id").
		Where("user_id = ?", userID)

	var events []models.Event

	if err := db.DB.
		Where("creator_id = ? OR id IN (?)", userID, participations).
		Order("start_date DESC").
		Preload("Creator").
		Preload("Participants.User").
		Find(&events).Error; err != nil {
		log.Printf("Failed to list events for user %d: %v", userID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve events"})
		return
	}

	summaries := make([]EventSummary, 0, len(events))

	for _, event := range events {
		summaries = append(summaries, buildEventSummary(event))
	}

	ctx.JSON(http.StatusOK, gin.H{"events": summaries})
}

func GetEvent(ctx *gin.Context) {
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

	var event models.Event

	if err := db.DB.
		Preload("Creator").
		Preload("Participants.User").
		Preload("Media", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("media.created_at DESC")
		}).
		Preload("Contributions", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("contributions.created_at DESC")
		}).
		Preload("Contributions.User").
		First(&event, eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		} else {
			log.Printf("Failed to fetch event %d: %v", eventID, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	// Non-participants are sent back to the timeline, not shown an error
	// page.
	if !isParticipant(event.Participants, userID) {
		ctx.Redirect(http.StatusFound, "/timeline")
		ctx.Abort()
		return
	}

	detail := EventDetailResponse{
		EventSummary:  buildEventSummary(event),
		Media:         make([]MediaDetail, 0, len(event.Media)),
		Contributions: make([]ContributionSummary, 0, len(event.Contributions)),
	}

	for _, m := range event.Media {
		detail.Media = append(detail.Media, buildMediaDetail(ctx, m))
	}

	for _, c := range event.Contributions {
		detail.Contributions = append(detail.Contributions, ContributionSummary{
			ID:          c.ID,
			Type:        c.Type,
			Content:     c.Content,
			Status:      c.Status,
			ValidatedAt: c.ValidatedAt,
			CreatedAt:   c.CreatedAt,
			User: UserResponse{
				ID:    c.User.ID,
				Name:  c.User.Name,
				Email: c.User.Email,
				Image: c.User.Image,
			},
		})
	}

	ctx.JSON(http.StatusOK, gin.H{"event": detail})
}

func isParticipant(participants []models.Participant, userID uint) bool {
	for _, p := range participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

func buildEventSummary(event models.Event) EventSummary {
	summary := EventSummary{
		ID:          event.ID,
		Title:       event.Title,
		Description: event.Description,
		StartDate:   event.StartDate,
		EndDate:     event.EndDate,
		IsPunctual:  event.IsPunctual,
		Location:    event.Location,
		CreatorID:   event.CreatorID,
		Creator: UserResponse{
			ID:    event.Creator.ID,
			Name:  event.Creator.Name,
			Email: event.Creator.Email,
			Image: event.Creator.Image,
		},
		Participants: make([]ParticipantSummary, 0, len(event.Participants)),
	}

	for _, p := range event.Participants {
		summary.Participants = append(summary.Participants, ParticipantSummary{
			ID:       p.ID,
			Role:     p.Role,
			Status:   p.Status,
			JoinedAt: p.JoinedAt,
			User: UserResponse{
				ID:    p.User.ID,
				Name:  p.User.Name,
				Email: p.User.Email,
				Image: p.User.Image,
			},
		})
	}

	if err := db.DB.Model(&models.Media{}).Where("event_id = ?", event.ID).Count(&summary.MediaCount).Error; err != nil {
		log.Printf("Failed to count media for event %d: %v", event.ID, err)
	}

	if err := db.DB.Model(&models.Contribution{}).Where("event_id = ?", event.ID).Count(&summary.ContributionCount).Error; err != nil {
		log.Printf("Failed to count contributions for event %d: %v", event.ID, err)
	}

	return summary
}

func buildMediaDetail(ctx *gin.Context, m models.Media) MediaDetail {
	detail := MediaDetail{
		ID:         m.ID,
		Type:       m.Type,
		StorageKey: m.StorageKey,
		Bucket:     m.Bucket,
		Filename:   m.Filename,
		MimeType:   m.MimeType,
		Size:       m.Size,
		Status:     m.Status,
		Width:      m.Width,
		Height:     m.Height,
		CreatedAt:  m.CreatedAt,
	}

	if blobStore != nil {
		url, err := blobStore.SignedURL(ctx.Request.Context(), m.Bucket, m.StorageKey, time.Hour)
		if err != nil {
			log.Printf("Failed to sign URL for media %d: %v", m.ID, err)
		} else {
			detail.URL = url
		}
	}

	return detail
}
