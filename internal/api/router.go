package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/bowlscore/internal/api/handler"
	"github.com/mcoot/bowlscore/internal/api/middleware"
	"github.com/mcoot/bowlscore/internal/api/response"
	"github.com/mcoot/bowlscore/internal/services/lane"
	"github.com/mcoot/bowlscore/internal/services/match"
	"github.com/mcoot/bowlscore/internal/services/stats"
	"github.com/mcoot/bowlscore/internal/web/sse"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger          *slog.Logger
	LaneController  *lane.Controller
	MatchController *match.Controller
	StatsService    *stats.Service
	HubManager      *sse.HubManager
	StorageType     string
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	laneHandler := handler.NewLaneHandler(cfg.LaneController, cfg.StatsService)
	matchHandler := handler.NewMatchHandler(cfg.MatchController, cfg.StatsService, cfg.HubManager)

	api := r.PathPrefix("/api/v1").Subrouter()
	// Logging runs outermost so a recovered panic is logged with its request ID
	api.Use(middleware.Logging(cfg.Logger))
	api.Use(middleware.Recovery(cfg.Logger))

	// Lanes and sessions
	api.HandleFunc("/lanes", laneHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/lanes/{lane}", laneHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/lanes/{lane}/session", laneHandler.OpenSession).Methods(http.MethodPost)
	api.HandleFunc("/lanes/{lane}/session", laneHandler.CloseSession).Methods(http.MethodDelete)

	// Matches
	matches := api.PathPrefix("/matches/{id}").Subrouter()
	matches.HandleFunc("", matchHandler.Get).Methods(http.MethodGet)
	matches.HandleFunc("/players", matchHandler.AddPlayer).Methods(http.MethodPost)
	matches.HandleFunc("/players/{player_id}", matchHandler.RemovePlayer).Methods(http.MethodDelete)
	matches.HandleFunc("/next", matchHandler.Next).Methods(http.MethodGet)
	matches.HandleFunc("/throws", matchHandler.Throw).Methods(http.MethodPost)
	matches.HandleFunc("/scoreboard", matchHandler.Scoreboard).Methods(http.MethodGet)
	matches.HandleFunc("/standings", matchHandler.Standings).Methods(http.MethodGet)
	matches.HandleFunc("/events", matchHandler.Events).Methods(http.MethodGet)

	api.HandleFunc("/health", healthHandler(cfg.StorageType)).Methods(http.MethodGet)

	return r
}

func healthHandler(storageType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, http.StatusOK, response.Health{Status: "ok", Storage: storageType})
	}
}
