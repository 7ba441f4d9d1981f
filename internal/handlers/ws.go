package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/friendoria/friendoria/db"
	"github.com/friendoria/friendoria/internal/models"
	"github.com/friendoria/friendoria/internal/utils"
	"gorm.io/gorm"
)

var (
	eventClients   = make(map[uint]map[*websocket.Conn]bool)
	eventClientsMu sync.RWMutex
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// BroadcastRefresh tells every client watching an event that its data
// changed (new media, new contribution, moderation).
func BroadcastRefresh(eventID uint) {
	eventClientsMu.RLock()
	clients, exists := eventClients[eventID]
	if !exists || len(clients) == 0 {
		eventClientsMu.RUnlock()
		return
	}

	// Copy the connections so the lock is not held while writing.
	clientsCopy := make([]*websocket.Conn, 0, len(clients))
	for conn := range clients {
		clientsCopy = append(clientsCopy, conn)
	}
	eventClientsMu.RUnlock()

	for _, conn := range clientsCopy {
		if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			log.Printf("Failed to set write deadline for broadcast: %v", err)
			continue
		}

		err := conn.WriteJSON(map[string]string{
			"type":     "refresh",
			"message":  "Event data updated",
			"event_id": strconv.FormatUint(uint64(eventID), 10),
		})

		if err != nil {
			log.Printf("Failed to broadcast refresh to client: %v", err)
			eventClientsMu.Lock()
			if clients, exists := eventClients[eventID]; exists {
				delete(clients, conn)
				if len(clients) == 0 {
					delete(eventClients, eventID)
				}
			}
			eventClientsMu.Unlock()
			conn.Close()
		}
	}
}

// WebSocket subscribes a participant to an event's activity feed.
func WebSocket(c *gin.Context) {
	userID, err := utils.GetCurrentUserID(c)

	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	eventID, err := utils.GetEventID(c)

	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var participant models.Participant

	if err := db.DB.Where("event_id = ? AND user_id = ?", eventID, userID).First(&participant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusForbidden, gin.H{"error": "You must be a participant to follow this event"})
		} else {
			log.Printf("Failed to check participant for event %d: %v", eventID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Printf("Failed to set initial read deadline: %v", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("Failed to set read deadline in pong handler: %v", err)
		}
		return nil
	})

	eventClientsMu.Lock()
	if eventClients[eventID] == nil {
		eventClients[eventID] = make(map[*websocket.Conn]bool)
	}
	eventClients[eventID][conn] = true
	eventClientsMu.Unlock()

	// Closed on teardown so the ping goroutine exits with the connection.
	done := make(chan struct{})

	defer func() {
		close(done)

		eventClientsMu.Lock()

		if clients, exists := eventClients[eventID]; exists {
			delete(clients, conn)

			if len(clients) == 0 {
				delete(eventClients, eventID)
			}
		}

		eventClientsMu.Unlock()
		conn.Close()

		log.Printf("WebSocket connection closed for event %d", eventID)
	}()

	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		log.Printf("Failed to set write deadline for welcome message: %v", err)
		return
	}

	err = conn.WriteJSON(map[string]string{
		"type":     "connected",
		"message":  "WebSocket connection established",
		"event_id": strconv.FormatUint(uint64(eventID), 10),
	})

	if err != nil {
		log.Printf("Failed to send welcome message: %v", err)
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
					log.Printf("Failed to set write deadline for event %d: %v", eventID, err)
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					log.Printf("Ping failed for event %d: %v", eventID, err)
					return
				}
			case <-done:
				return
			}
		}
	}()

	for {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("Failed to set read deadline for event %d: %v", eventID, err)
			break
		}

		messageType, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error for event %d: %v", eventID, err)
			}
			break
		}

		switch messageType {
		case websocket.TextMessage:
			log.Printf("Received message from client in event %d: %s", eventID, string(message))
		case websocket.PongMessage:
			log.Printf("Received pong from event %d", eventID)
		}
	}
}
