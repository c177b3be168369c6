package lane

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mcoot/bowlscore/internal/dependencies/clock"
	"github.com/mcoot/bowlscore/internal/model"
	"github.com/mcoot/bowlscore/internal/services/match"
	"github.com/mcoot/bowlscore/internal/storage"
)

const (
	// DefaultLaneCount is the number of lanes when none is configured
	DefaultLaneCount = 12

	// MaxHistory is how many archived matches a lane keeps
	MaxHistory = 50
)

// Controller manages lane sessions. A lane hosts at most one match.
type Controller struct {
	storage         storage.Storage
	matchController *match.Controller
	clock           clock.Clock
	logger          *slog.Logger
	publisher       model.Publisher
	laneCount       int

	// Guards the read-modify-write of lane records
	mu sync.Mutex
}

// NewController creates a new LaneController. publisher may be nil.
func NewController(
	storage storage.Storage,
	matchController *match.Controller,
	clock clock.Clock,
	logger *slog.Logger,
	publisher model.Publisher,
	laneCount int,
) *Controller {
	if laneCount <= 0 {
		laneCount = DefaultLaneCount
	}
	return &Controller{
		storage:         storage,
		matchController: matchController,
		clock:           clock,
		logger:          logger.With(slog.String("component", "lane-controller")),
		publisher:       publisher,
		laneCount:       laneCount,
	}
}

// LaneCount returns the number of lanes in the venue
func (c *Controller) LaneCount() int {
	return c.laneCount
}

// GetLane retrieves a lane. Lanes that were never used come back empty.
func (c *Controller) GetLane(ctx context.Context, number int) (*model.Lane, error) {
	if number < 1 || number > c.laneCount {
		return nil, model.ErrLaneNotFound
	}

	lane, err := c.storage.GetLane(ctx, number)
	if errors.Is(err, model.ErrLaneNotFound) {
		return &model.Lane{Number: number, History: []model.MatchSummary{}}, nil
	}
	if err != nil {
		return nil, err
	}
	return lane, nil
}

// ListLanes returns every lane in number order
func (c *Controller) ListLanes(ctx context.Context) ([]*model.Lane, error) {
	lanes := make([]*model.Lane, 0, c.laneCount)
	for n := 1; n <= c.laneCount; n++ {
		lane, err := c.GetLane(ctx, n)
		if err != nil {
			return nil, err
		}
		lanes = append(lanes, lane)
	}
	return lanes, nil
}

// OpenSession starts a new match on a free lane
func (c *Controller) OpenSession(ctx context.Context, number int, reservationID string) (*model.Match, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	lane, err := c.GetLane(ctx, number)
	if err != nil {
		return nil, err
	}
	if lane.IsBusy() {
		return nil, model.ErrLaneBusy
	}

	m, err := c.matchController.CreateMatch(ctx, number, reservationID)
	if err != nil {
		return nil, err
	}

	lane.CurrentMatch = &m.ID
	lane.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveLane(ctx, lane); err != nil {
		// Drop the orphaned match so the lane stays consistent
		_ = c.storage.DeleteMatch(ctx, m.ID)
		c.logger.Error("failed to save lane",
			slog.Int("lane", number),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("save lane %d: %w", number, err)
	}

	c.logger.Info("session opened",
		slog.Int("lane", number),
		slog.String("match_id", string(m.ID)),
	)

	return m, nil
}

// CloseSession archives the lane's match into its history and frees the lane
func (c *Controller) CloseSession(ctx context.Context, number int) (*model.MatchSummary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	lane, err := c.GetLane(ctx, number)
	if err != nil {
		return nil, err
	}
	if !lane.IsBusy() {
		return nil, model.ErrNoSession
	}
	matchID := *lane.CurrentMatch

	summary, err := c.matchController.ArchiveMatch(ctx, matchID)
	if errors.Is(err, model.ErrMatchNotFound) {
		// Expired from the store; keep a bare record
		summary = &model.MatchSummary{MatchID: matchID, ClosedAt: c.clock.Now()}
	} else if err != nil {
		return nil, err
	}

	lane.History = append(lane.History, *summary)
	if len(lane.History) > MaxHistory {
		lane.History = lane.History[len(lane.History)-MaxHistory:]
	}
	lane.CurrentMatch = nil
	lane.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveLane(ctx, lane); err != nil {
		c.logger.Error("failed to save lane",
			slog.Int("lane", number),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("save lane %d: %w", number, err)
	}

	c.logger.Info("session closed",
		slog.Int("lane", number),
		slog.String("match_id", string(matchID)),
		slog.Bool("complete", summary.Complete),
	)

	if c.publisher != nil {
		c.publisher.Publish(ctx, model.Event{
			Type:       model.EventSessionClosed,
			Timestamp:  c.clock.Now(),
			MatchID:    matchID,
			LaneNumber: number,
			Payload:    model.SessionClosedPayload{Summary: *summary},
		})
	}

	return summary, nil
}

// Interface for dependency injection
type ControllerInterface interface {
	LaneCount() int
	GetLane(ctx context.Context, number int) (*model.Lane, error)
	ListLanes(ctx context.Context) ([]*model.Lane, error)
	OpenSession(ctx context.Context, number int, reservationID string) (*model.Match, error)
	CloseSession(ctx context.Context, number int) (*model.MatchSummary, error)
}

var _ ControllerInterface = (*Controller)(nil)
