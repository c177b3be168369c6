package sse

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/mcoot/bowlscore/internal/api/response"
	"github.com/mcoot/bowlscore/internal/model"
)

// SSE event names used by the match page
const (
	EventBoardUpdate   = "board-update"
	EventSessionClosed = "session-closed"
)

// Broadcaster pushes match events to SSE clients. It implements
// model.Publisher so controllers can publish without knowing about HTTP.
type Broadcaster struct {
	hubManager *HubManager
	renderer   *Renderer
	logger     *slog.Logger
}

var _ model.Publisher = (*Broadcaster)(nil)

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, renderer *Renderer, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		renderer:   renderer,
		logger:     logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// Publish sends an event to everyone watching its match. Each event goes
// out as JSON under its own type name; events carrying a scoreboard also
// send rendered HTML under "board-update". Closing a session ends the
// match's streams.
func (b *Broadcaster) Publish(ctx context.Context, event model.Event) {
	hub := b.hubManager.GetHub(event.MatchID)
	if hub == nil {
		return
	}

	data, err := json.Marshal(response.EventFromModel(event))
	if err != nil {
		b.logger.Error("sse failed to encode event",
			slog.String("match_id", string(event.MatchID)),
			slog.String("type", string(event.Type)),
			slog.Any("error", err))
		return
	}
	hub.BroadcastEvent(string(event.Type), string(data))

	if event.Scoreboard != nil {
		b.broadcastBoard(ctx, hub, event.Scoreboard)
	}

	if event.Type == model.EventSessionClosed {
		hub.BroadcastEvent(EventSessionClosed, string(data))
		b.hubManager.RemoveHub(event.MatchID)
	}
}

func (b *Broadcaster) broadcastBoard(ctx context.Context, hub *Hub, board *model.Scoreboard) {
	html, err := b.renderer.RenderBoardUpdate(ctx, board)
	if err != nil {
		b.logger.Error("sse failed to render board",
			slog.String("match_id", string(board.MatchID)),
			slog.Any("error", err))
		return
	}
	hub.BroadcastEvent(EventBoardUpdate, html)
}
