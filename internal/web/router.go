package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/bowlscore/internal/services/lane"
	"github.com/mcoot/bowlscore/internal/services/match"
	"github.com/mcoot/bowlscore/internal/services/stats"
	"github.com/mcoot/bowlscore/internal/web/handler"
	"github.com/mcoot/bowlscore/internal/web/middleware"
	"github.com/mcoot/bowlscore/internal/web/sse"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger          *slog.Logger
	LaneController  *lane.Controller
	MatchController *match.Controller
	StatsService    *stats.Service
	HubManager      *sse.HubManager
	MaxPlayers      int
	StaticDir       string // Path to static files directory
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Apply global middleware to all routes
	// Logging runs outermost so a recovered panic is logged with its request ID
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))

	// Create SSE hub manager if not provided
	hubManager := cfg.HubManager
	if hubManager == nil {
		hubManager = sse.NewHubManager(cfg.Logger)
	}

	homeHandler := handler.NewHomeHandler(cfg.LaneController, cfg.Logger)
	laneHandler := handler.NewLaneHandler(cfg.LaneController, cfg.StatsService, cfg.Logger)
	matchHandler := handler.NewMatchHandler(cfg.MatchController, cfg.StatsService, hubManager, cfg.MaxPlayers, cfg.Logger)

	// Static files
	if cfg.StaticDir != "" {
		staticHandler := http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir)))
		r.PathPrefix("/static/").Handler(staticHandler)
	}

	// The event stream sits outside the flash middleware so it never
	// consumes a flash meant for the next page load
	r.HandleFunc("/matches/{id}/events", matchHandler.Events).Methods(http.MethodGet)

	pages := r.NewRoute().Subrouter()
	pages.Use(middleware.Flash())

	pages.HandleFunc("/", homeHandler.Home).Methods(http.MethodGet)

	// Lanes
	pages.HandleFunc("/lanes/{lane}", laneHandler.View).Methods(http.MethodGet)
	pages.HandleFunc("/lanes/{lane}/open", laneHandler.Open).Methods(http.MethodPost)
	pages.HandleFunc("/lanes/{lane}/close", laneHandler.Close).Methods(http.MethodPost)

	// Matches
	pages.HandleFunc("/matches/{id}", matchHandler.View).Methods(http.MethodGet)
	pages.HandleFunc("/matches/{id}/players", matchHandler.AddPlayer).Methods(http.MethodPost)
	pages.HandleFunc("/matches/{id}/players/{player_id}/remove", matchHandler.RemovePlayer).Methods(http.MethodPost)
	pages.HandleFunc("/matches/{id}/throws", matchHandler.Throw).Methods(http.MethodPost)

	return r
}
