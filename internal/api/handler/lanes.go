package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/bowlscore/internal/api/request"
	"github.com/mcoot/bowlscore/internal/api/response"
	"github.com/mcoot/bowlscore/internal/model"
	"github.com/mcoot/bowlscore/internal/services/lane"
	"github.com/mcoot/bowlscore/internal/services/stats"
)

// LaneHandler handles lane and session endpoints
type LaneHandler struct {
	laneController *lane.Controller
	statsService   *stats.Service
}

// NewLaneHandler creates a new lane handler
func NewLaneHandler(laneController *lane.Controller, statsService *stats.Service) *LaneHandler {
	return &LaneHandler{
		laneController: laneController,
		statsService:   statsService,
	}
}

// List handles GET /api/v1/lanes
func (h *LaneHandler) List(w http.ResponseWriter, r *http.Request) {
	lanes, err := h.laneController.ListLanes(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	resp := make([]response.Lane, len(lanes))
	for i, l := range lanes {
		resp[i] = response.LaneFromModel(l)
	}
	response.JSON(w, http.StatusOK, resp)
}

// Get handles GET /api/v1/lanes/{lane}
func (h *LaneHandler) Get(w http.ResponseWriter, r *http.Request) {
	number, err := laneNumber(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	l, err := h.laneController.GetLane(r.Context(), number)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LaneDetail{
		Lane:    response.LaneFromModel(l),
		Leaders: response.LaneLeadersFromModel(h.statsService.LaneLeaders(l)),
	})
}

// OpenSession handles POST /api/v1/lanes/{lane}/session
func (h *LaneHandler) OpenSession(w http.ResponseWriter, r *http.Request) {
	number, err := laneNumber(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var req request.OpenSessionRequest
	if !decodeBody(w, r, &req, true) {
		return
	}

	match, err := h.laneController.OpenSession(r.Context(), number, req.ReservationID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.SessionOpened{
		Lane:  number,
		Match: response.MatchFromModel(match),
	})
}

// CloseSession handles DELETE /api/v1/lanes/{lane}/session
func (h *LaneHandler) CloseSession(w http.ResponseWriter, r *http.Request) {
	number, err := laneNumber(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	summary, err := h.laneController.CloseSession(r.Context(), number)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MatchSummaryFromModel(summary))
}

func laneNumber(r *http.Request) (int, error) {
	n, err := strconv.Atoi(mux.Vars(r)["lane"])
	if err != nil {
		return 0, model.ErrLaneNotFound
	}
	return n, nil
}
