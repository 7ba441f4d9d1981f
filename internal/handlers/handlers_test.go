package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/friendoria/friendoria/db"
	"github.com/friendoria/friendoria/internal/auth"
	"github.com/friendoria/friendoria/internal/config"
	"github.com/friendoria/friendoria/internal/models"
	"github.com/friendoria/friendoria/internal/router"
	"github.com/friendoria/friendoria/internal/storage"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testAdminEmail = "admin@example.com"

type testEnv struct {
	router     *gin.Engine
	uploadsDir string
}

func setupServer(t *testing.T) *testEnv {
	t.Helper()

	gin.SetMode(gin.TestMode)
	require.NoError(t, auth.Init("test-secret"))

	gdb, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)

	db.DB = gdb
	require.NoError(t, db.MigrateDatabase())

	uploadsDir := t.TempDir()

	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:           "0",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Auth: config.AuthConfig{
			JWTSecret:   "test-secret",
			AdminEmails: []string{testAdminEmail},
		},
		Storage: config.StorageConfig{
			Driver:     config.StorageDriverLocal,
			UploadsDir: uploadsDir,
		},
	}

	store := storage.NewLocalStore(uploadsDir)

	return &testEnv{
		router:     router.NewRouter(cfg, store),
		uploadsDir: uploadsDir,
	}
}

func createUser(t *testing.T, name, email, password string) models.User {
	t.Helper()

	user := models.User{
		Name:   name,
		Email:  email,
		Status: models.UserStatusActive,
	}

	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		require.NoError(t, err)
		user.PasswordHash = string(hash)
	}

	require.NoError(t, db.DB.Create(&user).Error)
	return user
}

func tokenFor(t *testing.T, user models.User) string {
	t.Helper()

	token, err := auth.GenerateJWT(user.ID, user.Email)
	require.NoError(t, err)
	return token
}

func createEvent(t *testing.T, creator models.User, title string, start time.Time) models.Event {
	t.Helper()

	event := models.Event{
		Title:      title,
		StartDate:  start,
		IsPunctual: true,
		CreatorID:  creator.ID,
	}

	require.NoError(t, db.DB.Create(&event).Error)

	participant := models.Participant{
		EventID:  event.ID,
		UserID:   creator.ID,
		Role:     models.ParticipantRoleCreator,
		Status:   models.ParticipantStatusAccepted,
		JoinedAt: time.Now(),
	}

	require.NoError(t, db.DB.Create(&participant).Error)
	return event
}

func addParticipant(t *testing.T, event models.Event, user models.User) {
	t.Helper()

	require.NoError(t, db.DB.Create(&models.Participant{
		EventID:  event.ID,
		UserID:   user.ID,
		Role:     models.ParticipantRoleGuest,
		Status:   models.ParticipantStatusAccepted,
		JoinedAt: time.Now(),
	}).Error)
}

func doJSON(env *testEnv, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader

	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func countRows(t *testing.T, model interface{}) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.DB.Model(model).Count(&count).Error)
	return count
}
