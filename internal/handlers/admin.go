package handlers

import (
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/friendoria/friendoria/db"
	"github.com/friendoria/friendoria/internal/models"
	"gorm.io/gorm"
)

const adminPageSize = 10

type AdminStatsResponse struct {
	UserCount         int64 `json:"user_count"`
	EventCount        int64 `json:"event_count"`
	MediaCount        int64 `json:"media_count"`
	ContributionCount int64 `json:"contribution_count"`
}

type AdminUserSummary struct {
	ID             uint      `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Image          string    `json:"image,omitempty"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	EventsCreated  int64     `json:"events_created"`
	Participations int64     `json:"participations"`
}

type AdminEventSummary struct {
	ID               uint       `json:"id"`
	Title            string     `json:"title"`
	Location         string     `json:"location,omitempty"`
	StartDate        time.Time  `json:"start_date"`
	EndDate          *time.Time `json:"end_date,omitempty"`
	CreatorName      string     `json:"creator_name"`
	CreatorEmail     string     `json:"creator_email"`
	ParticipantCount int64      `json:"participant_count"`
	MediaCount       int64      `json:"media_count"`
}

func GetAdminStats(ctx *gin.Context) {
	var stats AdminStatsResponse

	counts := []struct {
		model interface{}
		dest  *int64
	}{
		{&models.User{}, &stats.UserCount},
		{&models.Event{}, &stats.EventCount},
		{&models.Media{}, &stats.MediaCount},
		{&models.Contribution{}, &stats.ContributionCount},
	}

	for _, c := range counts {
		if err := db.DB.Model(c.model).Count(c.dest).Error; err != nil {
			log.Printf("Failed to count rows for admin stats: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
	}

	ctx.JSON(http.StatusOK, stats)
}

func adminPage(ctx *gin.Context) (query string, page int) {
	query = strings.TrimSpace(ctx.Query("q"))

	page = 1
	if pageStr := ctx.Query("page"); pageStr != "" {
		if parsed, err := strconv.Atoi(pageStr); err == nil && parsed > 0 {
			page = parsed
		}
	}

	return query, page
}

// substringMatch builds a case-insensitive substring condition over the
// given columns. LOWER/LIKE keeps the behavior identical across postgres
// and the sqlite test driver.
func substringMatch(tx *gorm.DB, query string, columns ...string) *gorm.DB {
	if query == "" {
		return tx
	}

	pattern := "%" + strings.ToLower(query) + "%"

	conditions := make([]string, 0, len(columns))
	args := make([]interface{}, 0, len(columns))

	for _, col := range columns {
		conditions = append(conditions, "LOWER("+col+") LIKE ?")
		args = append(args, pattern)
	}

	return tx.Where(strings.Join(conditions, " OR "), args...)
}

func ListUsersAdmin(ctx *gin.Context) {
	query, page := adminPage(ctx)

	base := substringMatch(db.DB.Model(&models.User{}), query, "name", "email")

	var total int64

	if err := base.Count(&total).Error; err != nil {
		log.Printf("Failed to count users: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var users []models.User

	if err := base.
		Order("created_at DESC").
		Offset((page - 1) * adminPageSize).
		Limit(adminPageSize).
		Find(&users).Error; err != nil {
		log.Printf("Failed to list users: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	summaries := make([]AdminUserSummary, 0, len(users))

	for _, user := range users {
		summary := AdminUserSummary{
			ID:        user.ID,
			Name:      user.Name,
			Email:     user.Email,
			Image:     user.Image,
			Status:    user.Status,
			CreatedAt: user.CreatedAt,
		}

		if err := db.DB.Model(&models.Event{}).Where("creator_id = ?", user.ID).Count(&summary.EventsCreated).Error; err != nil {
			log.Printf("Failed to count events for user %d: %v", user.ID, err)
		}

		if err := db.DB.Model(&models.Participant{}).Where("user_id = ?", user.ID).Count(&summary.Participations).Error; err != nil {
			log.Printf("Failed to count participations for user %d: %v", user.ID, err)
		}

		summaries = append(summaries, summary)
	}

	ctx.JSON(http.StatusOK, gin.H{
		"users": summaries,
		"total": total,
		"pages": int(math.Ceil(float64(total) / float64(adminPageSize))),
	})
}

func ListEventsAdmin(ctx *gin.Context) {
	query, page := adminPage(ctx)

	base := substringMatch(db.DB.Model(&models.Event{}), query, "title", "location")

	var total int64

	if err := base.Count(&total).Error; err != nil {
		log.Printf("Failed to count events: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var events []models.Event

	if err := base.
		Order("start_date DESC").
		Offset((page - 1) * adminPageSize).
		Limit(adminPageSize).
		Preload("Creator").
		Find(&events).Error; err != nil {
		log.Printf("Failed to list events: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	summaries := make([]AdminEventSummary, 0, len(events))

	for _, event := range events {
		summary := AdminEventSummary{
			ID:           event.ID,
			Title:        event.Title,
			Location:     event.Location,
			StartDate:    event.StartDate,
			EndDate:      event.EndDate,
			CreatorName:  event.Creator.Name,
			CreatorEmail: event.Creator.Email,
		}

		if err := db.DB.Model(&models.Participant{}).Where("event_id = ?", event.ID).Count(&summary.ParticipantCount).Error; err != nil {
			log.Printf("Failed to count participants for event %d: %v", event.ID, err)
		}

		if err := db.DB.Model(&models.Media{}).Where("event_id = ?", event.ID).Count(&summary.MediaCount).Error; err != nil {
			log.Printf("Failed to count media for event %d: %v", event.ID, err)
		}

		summaries = append(summaries, summary)
	}

	ctx.JSON(http.StatusOK, gin.H{
		"events": summaries,
		"total":  total,
		"pages":  int(math.Ceil(float64(total) / float64(adminPageSize))),
	})
}

// ResetEvents wipes every event and its dependent rows. Destructive and
// irreversible; the double confirmation lives in the admin UI, the
// allow-list check in the router.
func ResetEvents(ctx *gin.Context) {
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{
			&models.Participant{},
			&models.Media{},
			&models.Contribution{},
			&models.Event{},
		} {
			if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		log.Printf("Failed to reset events: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	log.Printf("Admin reset: all events and dependent rows deleted")

	ctx.JSON(http.StatusOK, gin.H{"success": true})
}
