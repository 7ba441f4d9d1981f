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

type CreateContributionRequest struct {
	Type    string `json:"type" binding:"required,oneof=ANECDOTE COMMENT"`
	Content string `json:"content" binding:"required"`
}

// CreateContribution posts an anecdote or comment to an event the caller
// participates in. New contributions await creator moderation.
func CreateContribution(ctx *gin.Context) {
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

	var req CreateContributionRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "A type (ANECDOTE or COMMENT) and content are required"})
		return
	}

	var participant models.Participant

	if err := db.DB.Where("event_id = ? AND user_id = ?", eventID, userID).First(&participant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusForbidden, gin.H{"error": "You must be a participant to contribute"})
		} else {
			log.Printf("Failed to check participant for event %d: %v", eventID, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	contribution := models.Contribution{
		EventID: eventID,
		UserID:  userID,
		Type:    req.Type,
		Content: req.Content,
		Status:  models.ContributionStatusPending,
	}

	if err := db.DB.Create(&contribution).Error; err != nil {
		log.Printf("Failed to create contribution: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	BroadcastRefresh(eventID)

	ctx.JSON(http.StatusCreated, gin.H{
		"contribution": gin.H{
			"id":      contribution.ID,
			"type":    contribution.Type,
			"content": contribution.Content,
			"status":  contribution.Status,
		},
	})
}

// ValidateContribution lets the event creator approve a pending post.
func ValidateContribution(ctx *gin.Context) {
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

	contributionID, err := utils.GetContributionID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var event models.Event

	if err := db.DB.First(&event, eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		} else {
			log.Printf("Failed to fetch event %d: %v", eventID, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	if event.CreatorID != userID {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Only the event creator can moderate contributions"})
		return
	}

	var contribution models.Contribution

	if err := db.DB.Where("id = ? AND event_id = ?", contributionID, eventID).First(&contribution).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Contribution not found"})
		} else {
			log.Printf("Failed to fetch contribution %d: %v", contributionID, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	now := time.Now()

	updates := map[string]interface{}{
		"status":       models.ContributionStatusValidated,
		"validated_at": &now,
	}

	if err := db.DB.Model(&contribution).Updates(updates).Error; err != nil {
		log.Printf("Failed to validate contribution %d: %v", contribution.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	BroadcastRefresh(eventID)

	ctx.JSON(http.StatusOK, gin.H{
		"contribution": gin.H{
			"id":           contribution.ID,
			"status":       models.ContributionStatusValidated,
			"validated_at": now,
		},
	})
}
