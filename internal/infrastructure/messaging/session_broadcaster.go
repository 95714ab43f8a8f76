// Package messaging provides live broadcasting of session activity to
// connected dashboard clients over websockets.
package messaging

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/satyamraj1643/pine/internal/infrastructure/observability/logging"
	"github.com/satyamraj1643/pine/pkg/config"
	"github.com/gorilla/websocket"
)

// Client represents a single connected dashboard client.
type Client struct {
	Conn *websocket.Conn
	Send chan []byte
}

// SessionStatsPayload is the data structure sent to dashboard clients on each tick.
type SessionStatsPayload struct {
	ActiveSessions int       `json:"activeSessions"`
	LoginsToday    int       `json:"loginsToday"`
	VerifiedToday  int       `json:"verifiedToday"`
	SignupsToday   int       `json:"signupsToday"`
	GeneratedAt    time.Time `json:"generatedAt"`
}

// SessionBroadcaster manages connected clients and broadcasts session stats.
type SessionBroadcaster struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	logger     *logging.ChanneledLogger

	mu       sync.Mutex
	active   int
	logins   int
	verified int
	signups  int
}

// NewSessionBroadcaster creates a new broadcaster instance.
func NewSessionBroadcaster(logger *logging.ChanneledLogger) *SessionBroadcaster {
	return &SessionBroadcaster{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
	}
}

// Register adds a dashboard client to the broadcast set.
func (b *SessionBroadcaster) Register(client *Client) { b.register <- client }

// Unregister removes a dashboard client from the broadcast set.
func (b *SessionBroadcaster) Unregister(client *Client) { b.unregister <- client }

// RecordLogin notes a successful login.
func (b *SessionBroadcaster) RecordLogin() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.active++
	b.logins++
}

// RecordLogout notes a logout.
func (b *SessionBroadcaster) RecordLogout() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.active > 0 {
		b.active--
	}
}

// RecordSignup notes a new account.
func (b *SessionBroadcaster) RecordSignup() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.signups++
}

// RecordVerification notes a completed email verification.
func (b *SessionBroadcaster) RecordVerification() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.verified++
}

// Run starts the broadcaster's main loop. This should be run as a goroutine.
func (b *SessionBroadcaster) Run() {
	ticker := time.NewTicker(config.BroadcastInterval)
	defer ticker.Stop()

	for {
		select {
		case client := <-b.register:
			b.clients[client] = true
			b.logger.WS().Info("Dashboard client registered", "clients", len(b.clients))

		case client := <-b.unregister:
			if _, ok := b.clients[client]; ok {
				delete(b.clients, client)
				close(client.Send)
				b.logger.WS().Info("Dashboard client unregistered", "clients", len(b.clients))
			}

		case <-ticker.C:
			if len(b.clients) == 0 {
				continue
			}
			payload := b.snapshot()
			data, err := json.Marshal(payload)
			if err != nil {
				b.logger.WS().Error("Failed to marshal session stats", "error", err)
				continue
			}
			for client := range b.clients {
				select {
				case client.Send <- data:
				default:
					// Slow client, drop it rather than block the loop
					delete(b.clients, client)
					close(client.Send)
				}
			}
		}
	}
}

func (b *SessionBroadcaster) snapshot() SessionStatsPayload {
	b.mu.Lock()
	defer b.mu.Unlock()
	return SessionStatsPayload{
		ActiveSessions: b.active,
		LoginsToday:    b.logins,
		VerifiedToday:  b.verified,
		SignupsToday:   b.signups,
		GeneratedAt:    time.Now().UTC(),
	}
}

// WritePump pumps messages from the broadcaster to the websocket connection.
// Runs as a goroutine per client; exits when the Send channel closes.
func (c *Client) WritePump() {
	defer c.Conn.Close()
	for message := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}
