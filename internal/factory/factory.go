package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/mcoot/bowlscore/internal/dependencies/clock"
	"github.com/mcoot/bowlscore/internal/dependencies/random"
	"github.com/mcoot/bowlscore/internal/services/lane"
	"github.com/mcoot/bowlscore/internal/services/match"
	"github.com/mcoot/bowlscore/internal/services/scorecard"
	"github.com/mcoot/bowlscore/internal/services/scoring"
	"github.com/mcoot/bowlscore/internal/services/stats"
	"github.com/mcoot/bowlscore/internal/storage"
	"github.com/mcoot/bowlscore/internal/storage/memory"
	redisstorage "github.com/mcoot/bowlscore/internal/storage/redis"
	"github.com/mcoot/bowlscore/internal/web/sse"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	ScoringService   *scoring.Service
	ScorecardService *scorecard.Service
	StatsService     *stats.Service
	MatchController  *match.Controller
	LaneController   *lane.Controller

	// Live updates
	HubManager  *sse.HubManager
	Broadcaster *sse.Broadcaster

	// Settings the web layer renders with
	StorageType string
	MaxPlayers  int
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// Lanes is the number of lanes in the venue (optional)
	Lanes int
	// MaxPlayers caps the roster of each match (optional)
	MaxPlayers int
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	app := newWithDependencies(store, clock.New(), random.New(), cfg, logger)
	app.StorageType = storageType
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, cfg Config, logger *slog.Logger) *App {
	maxPlayers := cfg.MaxPlayers
	if maxPlayers <= 0 {
		maxPlayers = match.DefaultMaxPlayers
	}

	hubManager := sse.NewHubManager(logger)
	broadcaster := sse.NewBroadcaster(hubManager, sse.NewRenderer(maxPlayers), logger)

	scoringService := scoring.New()
	scorecardService := scorecard.New(store)
	statsService := stats.New(scoringService)
	matchController := match.NewController(store, scorecardService, scoringService, clk, rnd, logger, broadcaster, maxPlayers)
	laneController := lane.NewController(store, matchController, clk, logger, broadcaster, cfg.Lanes)

	return &App{
		Storage:          store,
		Clock:            clk,
		Random:           rnd,
		ScoringService:   scoringService,
		ScorecardService: scorecardService,
		StatsService:     statsService,
		MatchController:  matchController,
		LaneController:   laneController,
		HubManager:       hubManager,
		Broadcaster:      broadcaster,
		StorageType:      StorageTypeMemory,
		MaxPlayers:       maxPlayers,
	}
}
