package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/friendoria/friendoria/db"
	"github.com/friendoria/friendoria/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterRejectsShortPassword(t *testing.T) {
	env := setupServer(t)

	w := doJSON(env, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     "Nina",
		"email":    "nina@example.com",
		"password": "short",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, int64(0), countRows(t, &models.User{}))
}

func TestRegisterRejectsMissingFields(t *testing.T) {
	env := setupServer(t)

	w := doJSON(env, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    "nina@example.com",
		"password": "longenough",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, int64(0), countRows(t, &models.User{}))
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	env := setupServer(t)
	existing := createUser(t, "Nina", "nina@example.com", "password123")

	w := doJSON(env, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     "Other Nina",
		"email":    "nina@example.com",
		"password": "different456",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, int64(1), countRows(t, &models.User{}))

	var unchanged models.User
	require.NoError(t, db.DB.First(&unchanged, existing.ID).Error)
	assert.Equal(t, "Nina", unchanged.Name)
	assert.Equal(t, existing.PasswordHash, unchanged.PasswordHash)
}

func TestRegisterCreatesPendingUser(t *testing.T) {
	env := setupServer(t)

	w := doJSON(env, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     "Nina",
		"email":    "Nina@Example.com",
		"password": "password123",
		"phone":    "+33612345678",
	})

	require.Equal(t, http.StatusCreated, w.Code)

	var user models.User
	require.NoError(t, db.DB.Where("email = ?", "nina@example.com").First(&user).Error)
	assert.Equal(t, models.UserStatusPending, user.Status)
	assert.Equal(t, "+33612345678", user.Phone)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "password123", user.PasswordHash)
}

func TestLoginSucceedsWithValidCredentials(t *testing.T) {
	env := setupServer(t)
	createUser(t, "Nina", "nina@example.com", "password123")

	w := doJSON(env, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "nina@example.com",
		"password": "password123",
	})

	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.NotEmpty(t, body["token"])
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	env := setupServer(t)
	createUser(t, "Nina", "nina@example.com", "password123")

	w := doJSON(env, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "nina@example.com",
		"password": "wrongpassword",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginRejectsFederatedOnlyAccount(t *testing.T) {
	env := setupServer(t)
	// No password hash: account created through a federated provider.
	createUser(t, "Nina", "nina@example.com", "")

	w := doJSON(env, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "nina@example.com",
		"password": "password123",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "Invalid email or password", body["error"])
}

func TestLoginRejectsUnknownEmail(t *testing.T) {
	env := setupServer(t)

	w := doJSON(env, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "nobody@example.com",
		"password": "password123",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMeRequiresSession(t *testing.T) {
	env := setupServer(t)

	w := doJSON(env, http.MethodGet, "/api/auth/me", "", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMeFallsBackToCookieOnMalformedHeader(t *testing.T) {
	env := setupServer(t)
	user := createUser(t, "Nina", "nina@example.com", "password123")

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "not-a-bearer-header")
	req.AddCookie(&http.Cookie{Name: "token", Value: tokenFor(t, user)})

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	payload := body["user"].(map[string]interface{})
	assert.Equal(t, "nina@example.com", payload["email"])
}

func TestMeReturnsCurrentUser(t *testing.T) {
	env := setupServer(t)
	user := createUser(t, "Nina", "nina@example.com", "password123")

	w := doJSON(env, http.MethodGet, "/api/auth/me", tokenFor(t, user), nil)

	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	payload := body["user"].(map[string]interface{})
	assert.Equal(t, "nina@example.com", payload["email"])
}

func TestUpdateUserChangesProfileFields(t *testing.T) {
	env := setupServer(t)
	user := createUser(t, "Nina", "nina@example.com", "password123")

	w := doJSON(env, http.MethodPatch, "/api/auth/me", tokenFor(t, user), map[string]string{
		"name":  "Nina L.",
		"phone": "+33699999999",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var updated models.User
	require.NoError(t, db.DB.First(&updated, user.ID).Error)
	assert.Equal(t, "Nina L.", updated.Name)
	assert.Equal(t, "+33699999999", updated.Phone)
}
