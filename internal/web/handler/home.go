package handler

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/bowlscore/internal/services/lane"
	"github.com/mcoot/bowlscore/internal/web/middleware"
	"github.com/mcoot/bowlscore/internal/web/templates/layout"
	"github.com/mcoot/bowlscore/internal/web/templates/pages"
)

// HomeHandler handles the lane overview
type HomeHandler struct {
	laneController *lane.Controller
	logger         *slog.Logger
}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler(laneController *lane.Controller, logger *slog.Logger) *HomeHandler {
	return &HomeHandler{
		laneController: laneController,
		logger:         logger,
	}
}

// Home renders every lane with its session controls
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	lanes, err := h.laneController.ListLanes(r.Context())
	if err != nil {
		renderError(w, r, h.logger, err)
		return
	}

	render(w, r, h.logger, http.StatusOK, pages.Home(pages.HomeData{
		PageData: layout.PageData{
			Title: "Lanes",
			Flash: middleware.GetFlash(r.Context()),
		},
		Lanes: lanes,
	}))
}
