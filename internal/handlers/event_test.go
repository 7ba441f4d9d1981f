package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/friendoria/friendoria/db"
	"github.com/friendoria/friendoria/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateEventCreatesCreatorParticipant(t *testing.T) {
	env := setupServer(t)
	user := createUser(t, "Nina", "nina@example.com", "password123")

	w := doJSON(env, http.MethodPost, "/api/events", tokenFor(t, user), map[string]interface{}{
		"title":     "Team Lunch",
		"startDate": "2025-06-01",
	})

	require.Equal(t, http.StatusCreated, w.Code)

	body := decodeBody(t, w)
	event := body["event"].(map[string]interface{})
	assert.Equal(t, float64(user.ID), event["creatorId"])

	participants := event["participants"].([]interface{})
	require.Len(t, participants, 1)

	first := participants[0].(map[string]interface{})
	assert.Equal(t, models.ParticipantRoleCreator, first["role"])
	assert.Equal(t, models.ParticipantStatusAccepted, first["status"])

	// Exactly one CREATOR row in the store, never zero, never more.
	var count int64
	require.NoError(t, db.DB.Model(&models.Participant{}).
		Where("role = ?", models.ParticipantRoleCreator).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreateEventDefaultsToPunctual(t *testing.T) {
	env := setupServer(t)
	user := createUser(t, "Nina", "nina@example.com", "password123")

	w := doJSON(env, http.MethodPost, "/api/events", tokenFor(t, user), map[string]interface{}{
		"title":     "Weekend Trip",
		"startDate": "2025-07-04",
	})

	require.Equal(t, http.StatusCreated, w.Code)

	var event models.Event
	require.NoError(t, db.DB.Where("title = ?", "Weekend Trip").First(&event).Error)
	assert.True(t, event.IsPunctual)
}

func TestCreateEventRejectsMissingTitle(t *testing.T) {
	env := setupServer(t)
	user := createUser(t, "Nina", "nina@example.com", "password123")

	w := doJSON(env, http.MethodPost, "/api/events", tokenFor(t, user), map[string]interface{}{
		"startDate": "2025-06-01",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, int64(0), countRows(t, &models.Event{}))
}

func TestCreateEventRequiresSession(t *testing.T) {
	env := setupServer(t)

	w := doJSON(env, http.MethodPost, "/api/events", "", map[string]interface{}{
		"title":     "Team Lunch",
		"startDate": "2025-06-01",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListEventsIncludesCreatedAndJoined(t *testing.T) {
	env := setupServer(t)
	nina := createUser(t, "Nina", "nina@example.com", "password123")
	marc := createUser(t, "Marc", "marc@example.com", "password123")

	created := createEvent(t, nina, "Team Lunch", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	joined := createEvent(t, marc, "Marc's Party", time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC))
	addParticipant(t, joined, nina)
	createEvent(t, marc, "Marc Only", time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC))

	w := doJSON(env, http.MethodGet, "/api/events", tokenFor(t, nina), nil)

	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	events := body["events"].([]interface{})
	require.Len(t, events, 2)

	// Ordered by start date descending.
	first := events[0].(map[string]interface{})
	second := events[1].(map[string]interface{})
	assert.Equal(t, float64(joined.ID), first["id"])
	assert.Equal(t, float64(created.ID), second["id"])
}

func TestGetEventRedirectsNonParticipant(t *testing.T) {
	env := setupServer(t)
	nina := createUser(t, "Nina", "nina@example.com", "password123")
	marc := createUser(t, "Marc", "marc@example.com", "password123")

	event := createEvent(t, nina, "Team Lunch", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

	w := doJSON(env, http.MethodGet, "/api/events/"+itoa(event.ID), tokenFor(t, marc), nil)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/timeline", w.Header().Get("Location"))
	assert.NotContains(t, w.Body.String(), "Team Lunch")
}

func TestGetEventReturnsDetailForParticipant(t *testing.T) {
	env := setupServer(t)
	nina := createUser(t, "Nina", "nina@example.com", "password123")

	event := createEvent(t, nina, "Team Lunch", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

	require.NoError(t, db.DB.Create(&models.Contribution{
		EventID: event.ID,
		UserID:  nina.ID,
		Type:    models.ContributionTypeAnecdote,
		Content: "Best lunch ever",
		Status:  models.ContributionStatusPending,
	}).Error)

	w := doJSON(env, http.MethodGet, "/api/events/"+itoa(event.ID), tokenFor(t, nina), nil)

	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	detail := body["event"].(map[string]interface{})
	assert.Equal(t, "Team Lunch", detail["title"])

	contributions := detail["contributions"].([]interface{})
	require.Len(t, contributions, 1)
	assert.Equal(t, "Best lunch ever", contributions[0].(map[string]interface{})["content"])
}

func TestGetEventUnknownIDReturnsNotFound(t *testing.T) {
	env := setupServer(t)
	nina := createUser(t, "Nina", "nina@example.com", "password123")

	w := doJSON(env, http.MethodGet, "/api/events/9999", tokenFor(t, nina), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
