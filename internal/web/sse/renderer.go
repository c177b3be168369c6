package sse

import (
	"bytes"
	"context"
	"strings"

	"github.com/a-h/templ"

	"github.com/mcoot/bowlscore/internal/model"
	"github.com/mcoot/bowlscore/internal/web/templates/components"
)

// Renderer converts match events to HTML fragments for SSE
type Renderer struct {
	maxPlayers int
}

// NewRenderer creates a new Renderer. maxPlayers controls whether the
// roster still offers the add-player form.
func NewRenderer(maxPlayers int) *Renderer {
	return &Renderer{maxPlayers: maxPlayers}
}

// WrapForOOBSwap wraps HTML in a div with hx-swap-oob for out-of-band swaps
func WrapForOOBSwap(id, html string) string {
	return `<div id="` + id + `" hx-swap-oob="true">` + html + `</div>`
}

// RenderBoardUpdate renders the scoreboard, throw prompt and roster as
// out-of-band swaps so one event refreshes the whole match page
func (r *Renderer) RenderBoardUpdate(ctx context.Context, board *model.Scoreboard) (string, error) {
	parts := []struct {
		id        string
		component templ.Component
	}{
		{components.ScoreboardID, components.Scoreboard(board)},
		{components.ThrowPromptID, components.ThrowPrompt(board)},
		{components.RosterID, components.Roster(matchFromBoard(board), r.maxPlayers)},
	}

	var out strings.Builder
	for _, p := range parts {
		html, err := render(ctx, p.component)
		if err != nil {
			return "", err
		}
		out.WriteString(WrapForOOBSwap(p.id, html))
	}
	return out.String(), nil
}

// matchFromBoard rebuilds the roster view of a match from its table
func matchFromBoard(board *model.Scoreboard) *model.Match {
	players := make([]model.Player, len(board.Rows))
	for i, row := range board.Rows {
		players[i] = row.Player
	}
	return &model.Match{
		ID:      board.MatchID,
		State:   board.State,
		Version: board.Version,
		Players: players,
	}
}

func render(ctx context.Context, c templ.Component) (string, error) {
	var buf bytes.Buffer
	if err := c.Render(ctx, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
