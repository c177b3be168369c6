package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/bowlscore/internal/api/apierr"
	"github.com/mcoot/bowlscore/internal/api/request"
	"github.com/mcoot/bowlscore/internal/api/response"
	"github.com/mcoot/bowlscore/internal/middleware"
	"github.com/mcoot/bowlscore/internal/model"
	"github.com/mcoot/bowlscore/internal/services/match"
	"github.com/mcoot/bowlscore/internal/services/stats"
	"github.com/mcoot/bowlscore/internal/web/sse"
)

// MatchHandler handles match, roster and throw endpoints
type MatchHandler struct {
	matchController *match.Controller
	statsService    *stats.Service
	hubManager      *sse.HubManager
}

// NewMatchHandler creates a new match handler. hubManager may be nil, in
// which case the events endpoint is unavailable.
func NewMatchHandler(matchController *match.Controller, statsService *stats.Service, hubManager *sse.HubManager) *MatchHandler {
	return &MatchHandler{
		matchController: matchController,
		statsService:    statsService,
		hubManager:      hubManager,
	}
}

// Get handles GET /api/v1/matches/{id}
func (h *MatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	m, err := h.matchController.GetMatch(r.Context(), matchID(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MatchFromModel(m))
}

// AddPlayer handles POST /api/v1/matches/{id}/players
func (h *MatchHandler) AddPlayer(w http.ResponseWriter, r *http.Request) {
	var req request.AddPlayerRequest
	if !decodeBody(w, r, &req, false) {
		return
	}

	player, err := h.matchController.AddPlayer(r.Context(), matchID(r), req.Name)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.PlayerFromModel(*player))
}

// RemovePlayer handles DELETE /api/v1/matches/{id}/players/{player_id}
func (h *MatchHandler) RemovePlayer(w http.ResponseWriter, r *http.Request) {
	playerID := model.PlayerID(mux.Vars(r)["player_id"])

	if err := h.matchController.RemovePlayer(r.Context(), matchID(r), playerID); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Next handles GET /api/v1/matches/{id}/next
func (h *MatchHandler) Next(w http.ResponseWriter, r *http.Request) {
	slot, err := h.matchController.NextThrow(r.Context(), matchID(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SlotFromModel(slot))
}

// Throw handles POST /api/v1/matches/{id}/throws
func (h *MatchHandler) Throw(w http.ResponseWriter, r *http.Request) {
	var req request.ThrowRequest
	if !decodeBody(w, r, &req, false) {
		return
	}

	input, err := req.ToInput()
	if err != nil {
		WriteError(w, err)
		return
	}

	result, err := h.matchController.RecordThrow(r.Context(), matchID(r), input)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.ThrowResultFromModel(result))
}

// Scoreboard handles GET /api/v1/matches/{id}/scoreboard
func (h *MatchHandler) Scoreboard(w http.ResponseWriter, r *http.Request) {
	board, err := h.matchController.Scoreboard(r.Context(), matchID(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ScoreboardFromModel(board))
}

// Standings handles GET /api/v1/matches/{id}/standings
func (h *MatchHandler) Standings(w http.ResponseWriter, r *http.Request) {
	_, board, cards, err := h.matchController.Snapshot(r.Context(), matchID(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.StandingsFromModel(h.statsService.Standings(board, cards)))
}

// Events handles GET /api/v1/matches/{id}/events as a JSON event stream
func (h *MatchHandler) Events(w http.ResponseWriter, r *http.Request) {
	if h.hubManager == nil {
		WriteError(w, apierr.NewInternalError())
		return
	}

	id := matchID(r)
	if _, err := h.matchController.GetMatch(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	hub := h.hubManager.GetOrCreateHub(id)
	sse.ServeSSE(w, r, hub, middleware.GetRequestID(r.Context()))
}

func matchID(r *http.Request) model.MatchID {
	return model.MatchID(mux.Vars(r)["id"])
}
