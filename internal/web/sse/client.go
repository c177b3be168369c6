package sse

import (
	"net/http"
	"strconv"
	"time"

	"github.com/mcoot/bowlscore/internal/model"
)

const (
	// Time between keepalive pings
	pingPeriod = 30 * time.Second

	// Reconnect delay advertised to browsers, in milliseconds
	retryMillis = 3000

	// Buffer size for outgoing messages
	sendBufferSize = 256
)

// Client represents a connected SSE client. Spectators are anonymous, so
// clients are identified by the request that opened them.
type Client struct {
	hub         *Hub
	id          string
	connectedAt time.Time
	send        chan []byte
}

// NewClient creates a new SSE client
func NewClient(hub *Hub, id string) *Client {
	return &Client{
		hub:         hub,
		id:          id,
		connectedAt: time.Now(),
		send:        make(chan []byte, sendBufferSize),
	}
}

// Messages returns the client's outgoing stream. It is closed when the
// client is unregistered or the hub shuts down.
func (c *Client) Messages() <-chan []byte {
	return c.send
}

// ServeSSE handles the SSE connection for a client watching a match
func ServeSSE(w http.ResponseWriter, r *http.Request, hub *Hub, clientID string) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	client := NewClient(hub, clientID)
	hub.Register(client)
	defer hub.Unregister(client)

	_, _ = w.Write([]byte("retry: " + strconv.Itoa(retryMillis) + "\n"))
	_, _ = w.Write(formatSSEMessage("connected", `{"match_id":"`+string(hub.MatchID())+`"}`))
	flusher.Flush()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-client.send:
			if !ok {
				// Hub closed the channel
				return
			}
			if _, err := w.Write(message); err != nil {
				return
			}
			flusher.Flush()

		case <-ticker.C:
			if _, err := w.Write([]byte(": keepalive\n\n")); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

// MatchID returns the match a hub serves
func (h *Hub) MatchID() model.MatchID {
	return h.matchID
}
