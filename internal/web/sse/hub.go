package sse

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mcoot/bowlscore/internal/model"
)

// Hub manages SSE clients watching a single match
type Hub struct {
	matchID   model.MatchID
	clients   map[*Client]bool
	mu        sync.RWMutex
	logger    *slog.Logger

	// Channels for managing clients
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
}

// NewHub creates a new Hub for a match
func NewHub(matchID model.MatchID, logger *slog.Logger) *Hub {
	return &Hub{
		matchID:    matchID,
		clients:    make(map[*Client]bool),
		logger:     logger.With(slog.String("match_id", string(matchID))),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	h.logger.Info("sse hub started")
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			clientCount := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("sse client registered",
				slog.String("client_id", client.id),
				slog.Int("total_clients", clientCount))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				clientCount := len(h.clients)
				h.mu.Unlock()
				duration := time.Since(client.connectedAt)
				h.logger.Info("sse client unregistered",
					slog.String("client_id", client.id),
					slog.Duration("connection_duration", duration),
					slog.Int("total_clients", clientCount))
			} else {
				h.mu.Unlock()
			}

		case message := <-h.broadcast:
			h.mu.RLock()
			sentCount := 0
			droppedCount := 0
			for client := range h.clients {
				select {
				case client.send <- message:
					sentCount++
				default:
					droppedCount++
					h.logger.Warn("sse message dropped - client buffer full",
						slog.String("client_id", client.id))
				}
			}
			h.mu.RUnlock()
			if droppedCount > 0 {
				h.logger.Warn("sse broadcast partial failure",
					slog.Int("sent", sentCount),
					slog.Int("dropped", droppedCount))
			}

		case <-h.done:
			h.mu.Lock()
			h.drain()
			clientCount := len(h.clients)
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			h.logger.Info("sse hub stopped", slog.Int("disconnected_clients", clientCount))
			return
		}
	}
}

// drain delivers broadcasts still queued when the hub closes. Caller holds mu.
func (h *Hub) drain() {
	for {
		select {
		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
				}
			}
		default:
			return
		}
	}
}

// Register adds a client to the hub. A client registering with a closed
// hub has its channel closed immediately.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.send)
	}
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast sends a message to all clients
func (h *Hub) Broadcast(message []byte) {
	select {
	case h.broadcast <- message:
	default:
		h.logger.Warn("sse broadcast dropped - hub buffer full")
	}
}

// BroadcastEvent sends an SSE event with a name and data
func (h *Hub) BroadcastEvent(eventName, data string) {
	msg := formatSSEMessage(eventName, data)
	h.Broadcast(msg)
}

// Close shuts down the hub
func (h *Hub) Close() {
	close(h.done)
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// formatSSEMessage formats an SSE message with event name and data
// Multi-line data is properly formatted with "data: " prefix on each line
func formatSSEMessage(eventName, data string) []byte {
	var b strings.Builder
	b.WriteString("event: " + eventName + "\n")
	// SSE requires each line of data to be prefixed with "data: "
	for _, line := range splitLines(data) {
		b.WriteString("data: " + line + "\n")
	}
	b.WriteString("\n")
	return []byte(b.String())
}

// splitLines splits a string into lines, handling various line endings
func splitLines(s string) []string {
	var lines []string
	var current string
	for _, r := range s {
		if r == '\n' {
			lines = append(lines, current)
			current = ""
		} else if r != '\r' {
			current += string(r)
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	if len(lines) == 0 {
		lines = append(lines, "")
	}
	return lines
}

// HubManager manages hubs for all live matches
type HubManager struct {
	hubs   map[model.MatchID]*Hub
	mu     sync.RWMutex
	logger *slog.Logger
}

// NewHubManager creates a new HubManager
func NewHubManager(logger *slog.Logger) *HubManager {
	return &HubManager{
		hubs:   make(map[model.MatchID]*Hub),
		logger: logger.With(slog.String("component", "sse")),
	}
}

// GetOrCreateHub returns the hub for a match, creating one if it doesn't exist
func (m *HubManager) GetOrCreateHub(matchID model.MatchID) *Hub {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hub, ok := m.hubs[matchID]; ok {
		return hub
	}

	hub := NewHub(matchID, m.logger)
	m.hubs[matchID] = hub
	go hub.Run()
	return hub
}

// GetHub returns the hub for a match, or nil if it doesn't exist
func (m *HubManager) GetHub(matchID model.MatchID) *Hub {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hubs[matchID]
}

// RemoveHub removes and closes a hub
func (m *HubManager) RemoveHub(matchID model.MatchID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hub, ok := m.hubs[matchID]; ok {
		hub.Close()
		delete(m.hubs, matchID)
		m.logger.Info("sse hub removed", slog.String("match_id", string(matchID)))
	}
}

// CloseAll closes every hub, ending all live streams, and reports how many
// were open
func (m *HubManager) CloseAll() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	closed := len(m.hubs)
	for id, hub := range m.hubs {
		hub.Close()
		delete(m.hubs, id)
	}
	return closed
}

// CleanupEmptyHubs removes hubs with no clients
func (m *HubManager) CleanupEmptyHubs() {
	m.mu.Lock()
	defer m.mu.Unlock()

	removedCount := 0
	for id, hub := range m.hubs {
		if hub.ClientCount() == 0 {
			hub.Close()
			delete(m.hubs, id)
			removedCount++
		}
	}
	if removedCount > 0 {
		m.logger.Info("sse empty hubs cleaned up", slog.Int("removed", removedCount))
	}
}
