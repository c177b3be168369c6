package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/bowlscore/internal/model"
	"github.com/mcoot/bowlscore/internal/services/lane"
	"github.com/mcoot/bowlscore/internal/services/stats"
	"github.com/mcoot/bowlscore/internal/web/middleware"
	"github.com/mcoot/bowlscore/internal/web/templates/layout"
	"github.com/mcoot/bowlscore/internal/web/templates/pages"
)

// LaneHandler handles lane pages and session forms
type LaneHandler struct {
	laneController *lane.Controller
	statsService   *stats.Service
	logger         *slog.Logger
}

// NewLaneHandler creates a new LaneHandler
func NewLaneHandler(laneController *lane.Controller, statsService *stats.Service, logger *slog.Logger) *LaneHandler {
	return &LaneHandler{
		laneController: laneController,
		statsService:   statsService,
		logger:         logger,
	}
}

// View renders a lane's history and leaderboard
func (h *LaneHandler) View(w http.ResponseWriter, r *http.Request) {
	number, err := laneNumber(r)
	if err != nil {
		renderError(w, r, h.logger, err)
		return
	}

	l, err := h.laneController.GetLane(r.Context(), number)
	if err != nil {
		renderError(w, r, h.logger, err)
		return
	}

	render(w, r, h.logger, http.StatusOK, pages.Lane(pages.LaneData{
		PageData: layout.PageData{
			Title: "Lane " + strconv.Itoa(number),
			Flash: middleware.GetFlash(r.Context()),
		},
		Lane:    l,
		Leaders: h.statsService.LaneLeaders(l),
	}))
}

// Open handles the open session form and sends the desk to the new match
func (h *LaneHandler) Open(w http.ResponseWriter, r *http.Request) {
	number, err := laneNumber(r)
	if err != nil {
		failTo(w, r, "/", err)
		return
	}
	if err := r.ParseForm(); err != nil {
		failTo(w, r, "/", err)
		return
	}

	m, err := h.laneController.OpenSession(r.Context(), number, r.FormValue("reservation_id"))
	if err != nil {
		failTo(w, r, "/", err)
		return
	}

	middleware.SetFlash(w, "success", "Session opened on lane "+strconv.Itoa(number))
	redirect(w, r, "/matches/"+string(m.ID))
}

// Close handles the close session form
func (h *LaneHandler) Close(w http.ResponseWriter, r *http.Request) {
	number, err := laneNumber(r)
	if err != nil {
		failTo(w, r, "/", err)
		return
	}

	if _, err := h.laneController.CloseSession(r.Context(), number); err != nil {
		failTo(w, r, "/", err)
		return
	}

	middleware.SetFlash(w, "info", "Session closed on lane "+strconv.Itoa(number))
	redirect(w, r, "/lanes/"+strconv.Itoa(number))
}

func laneNumber(r *http.Request) (int, error) {
	n, err := strconv.Atoi(mux.Vars(r)["lane"])
	if err != nil {
		return 0, model.ErrLaneNotFound
	}
	return n, nil
}
