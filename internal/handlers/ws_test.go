package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialEventFeed(t *testing.T, srv *httptest.Server, eventID uint, token string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws/" + itoa(eventID)

	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)
	header.Set("Origin", "http://localhost:3000")

	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	return conn
}

func TestWebSocketSendsWelcomeToParticipant(t *testing.T) {
	env := setupServer(t)
	nina := createUser(t, "Nina", "nina@example.com", "password123")
	event := createEvent(t, nina, "Team Lunch", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

	srv := httptest.NewServer(env.router)
	defer srv.Close()

	conn := dialEventFeed(t, srv, event.ID, tokenFor(t, nina))
	defer conn.Close()

	var welcome map[string]string
	require.NoError(t, conn.ReadJSON(&welcome))
	assert.Equal(t, "connected", welcome["type"])
	assert.Equal(t, itoa(event.ID), welcome["event_id"])
}

func TestWebSocketGoroutinesExitOnDisconnect(t *testing.T) {
	env := setupServer(t)
	nina := createUser(t, "Nina", "nina@example.com", "password123")
	event := createEvent(t, nina, "Team Lunch", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

	srv := httptest.NewServer(env.router)
	defer srv.Close()

	before := runtime.NumGoroutine()

	for i := 0; i < 3; i++ {
		conn := dialEventFeed(t, srv, event.ID, tokenFor(t, nina))

		var welcome map[string]string
		require.NoError(t, conn.ReadJSON(&welcome))
		require.NoError(t, conn.Close())
	}

	// Every per-connection goroutine, the ping loop included, must wind
	// down once the client disconnects.
	require.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= before+2
	}, 5*time.Second, 50*time.Millisecond)
}
