package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/bowlscore/internal/api/apierr"
	"github.com/mcoot/bowlscore/internal/middleware"
	"github.com/mcoot/bowlscore/internal/model"
	"github.com/mcoot/bowlscore/internal/services/match"
	"github.com/mcoot/bowlscore/internal/services/stats"
	webmiddleware "github.com/mcoot/bowlscore/internal/web/middleware"
	"github.com/mcoot/bowlscore/internal/web/sse"
	"github.com/mcoot/bowlscore/internal/web/templates/layout"
	"github.com/mcoot/bowlscore/internal/web/templates/pages"
)

// MatchHandler handles the live scoring page and its forms
type MatchHandler struct {
	matchController *match.Controller
	statsService    *stats.Service
	hubManager      *sse.HubManager
	maxPlayers      int
	logger          *slog.Logger
}

// NewMatchHandler creates a new MatchHandler
func NewMatchHandler(matchController *match.Controller, statsService *stats.Service, hubManager *sse.HubManager, maxPlayers int, logger *slog.Logger) *MatchHandler {
	return &MatchHandler{
		matchController: matchController,
		statsService:    statsService,
		hubManager:      hubManager,
		maxPlayers:      maxPlayers,
		logger:          logger,
	}
}

// View renders the match page
func (h *MatchHandler) View(w http.ResponseWriter, r *http.Request) {
	m, board, cards, err := h.matchController.Snapshot(r.Context(), matchID(r))
	if err != nil {
		renderError(w, r, h.logger, err)
		return
	}

	render(w, r, h.logger, http.StatusOK, pages.Match(pages.MatchData{
		PageData: layout.PageData{
			Title: "Lane " + strconv.Itoa(m.LaneNumber),
			Flash: webmiddleware.GetFlash(r.Context()),
		},
		Match:      m,
		Scoreboard: board,
		Standings:  h.statsService.Standings(board, cards),
		MaxPlayers: h.maxPlayers,
	}))
}

// AddPlayer handles the add player form
func (h *MatchHandler) AddPlayer(w http.ResponseWriter, r *http.Request) {
	id := matchID(r)
	if err := r.ParseForm(); err != nil {
		failTo(w, r, matchPath(id), err)
		return
	}

	player, err := h.matchController.AddPlayer(r.Context(), id, r.FormValue("name"))
	if err != nil {
		failTo(w, r, matchPath(id), err)
		return
	}

	webmiddleware.SetFlash(w, "success", player.Name+" joined")
	redirect(w, r, matchPath(id))
}

// RemovePlayer handles the remove player form
func (h *MatchHandler) RemovePlayer(w http.ResponseWriter, r *http.Request) {
	id := matchID(r)
	playerID := model.PlayerID(mux.Vars(r)["player_id"])

	if err := h.matchController.RemovePlayer(r.Context(), id, playerID); err != nil {
		failTo(w, r, matchPath(id), err)
		return
	}

	redirect(w, r, matchPath(id))
}

// Throw handles the pin buttons on the throw prompt
func (h *MatchHandler) Throw(w http.ResponseWriter, r *http.Request) {
	id := matchID(r)
	if err := r.ParseForm(); err != nil {
		failTo(w, r, matchPath(id), err)
		return
	}

	pins, err := strconv.Atoi(r.FormValue("pins"))
	if err != nil {
		failTo(w, r, matchPath(id), model.ErrInvalidPinCount)
		return
	}
	version, err := strconv.ParseInt(r.FormValue("version"), 10, 64)
	if err != nil {
		failTo(w, r, matchPath(id), model.ErrVersionRequired)
		return
	}

	result, err := h.matchController.RecordThrow(r.Context(), id, model.ThrowInput{
		PlayerID: model.PlayerID(r.FormValue("player_id")),
		Pins:     pins,
		Version:  version,
	})
	if err != nil {
		failTo(w, r, matchPath(id), err)
		return
	}

	if result.MatchComplete {
		webmiddleware.SetFlash(w, "success", "Game over")
	}
	redirect(w, r, matchPath(id))
}

// Events streams live board updates for the match page
func (h *MatchHandler) Events(w http.ResponseWriter, r *http.Request) {
	id := matchID(r)
	if _, err := h.matchController.GetMatch(r.Context(), id); err != nil {
		http.Error(w, apierr.Message(err), apierr.Status(err))
		return
	}

	hub := h.hubManager.GetOrCreateHub(id)
	sse.ServeSSE(w, r, hub, middleware.GetRequestID(r.Context()))
}

func matchID(r *http.Request) model.MatchID {
	return model.MatchID(mux.Vars(r)["id"])
}

func matchPath(id model.MatchID) string {
	return "/matches/" + string(id)
}
