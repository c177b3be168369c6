package match

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/mcoot/bowlscore/internal/dependencies/clock"
	"github.com/mcoot/bowlscore/internal/dependencies/random"
	"github.com/mcoot/bowlscore/internal/model"
	"github.com/mcoot/bowlscore/internal/services/scorecard"
	"github.com/mcoot/bowlscore/internal/services/scoring"
	"github.com/mcoot/bowlscore/internal/storage"
)

const (
	// MaxPlayerNameLength bounds player names in runes
	MaxPlayerNameLength = 32

	// DefaultMaxPlayers is the roster limit of a standard lane
	DefaultMaxPlayers = 6
)

// Controller runs the scoring engine for matches. Writes to a single match
// are serialized in-process and checked against the stored version, so two
// racing writers never both apply.
type Controller struct {
	storage          storage.Storage
	scorecardService *scorecard.Service
	scoringService   *scoring.Service
	clock            clock.Clock
	random           random.Random
	logger           *slog.Logger
	publisher        model.Publisher
	maxPlayers       int
	locks            *matchLocks
}

// NewController creates a new MatchController. publisher may be nil.
func NewController(
	storage storage.Storage,
	scorecardService *scorecard.Service,
	scoringService *scoring.Service,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
	publisher model.Publisher,
	maxPlayers int,
) *Controller {
	if maxPlayers <= 0 {
		maxPlayers = DefaultMaxPlayers
	}
	return &Controller{
		storage:          storage,
		scorecardService: scorecardService,
		scoringService:   scoringService,
		clock:            clock,
		random:           random,
		logger:           logger.With(slog.String("component", "match-controller")),
		publisher:        publisher,
		maxPlayers:       maxPlayers,
		locks:            newMatchLocks(),
	}
}

// CreateMatch creates an empty match on a lane
func (c *Controller) CreateMatch(ctx context.Context, laneNumber int, reservationID string) (*model.Match, error) {
	now := c.clock.Now()
	match := &model.Match{
		ID:            model.MatchID(random.ID(c.random)),
		LaneNumber:    laneNumber,
		ReservationID: reservationID,
		State:         model.MatchStateNotStarted,
		Players:       []model.Player{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := c.storage.CreateMatch(ctx, match); err != nil {
		c.logger.Error("failed to save match",
			slog.String("match_id", string(match.ID)),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("create match: %w", err)
	}

	c.logger.Info("match created",
		slog.String("match_id", string(match.ID)),
		slog.Int("lane", laneNumber),
		slog.String("reservation_id", reservationID),
	)

	return match, nil
}

// GetMatch retrieves a match by ID
func (c *Controller) GetMatch(ctx context.Context, matchID model.MatchID) (*model.Match, error) {
	return c.storage.GetMatch(ctx, matchID)
}

// AddPlayer registers a new player and their empty scorecard. The roster
// freezes once the first throw is recorded.
func (c *Controller) AddPlayer(ctx context.Context, matchID model.MatchID, name string) (*model.Player, error) {
	name, err := ValidatePlayerName(name)
	if err != nil {
		return nil, err
	}

	unlock := c.locks.lock(matchID)
	defer unlock()

	match, err := c.storage.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}

	if match.HasStarted() {
		return nil, model.ErrMatchAlreadyStarted
	}
	if len(match.Players) >= c.maxPlayers {
		return nil, model.ErrMatchFull
	}
	for _, p := range match.Players {
		if strings.EqualFold(p.Name, name) {
			return nil, model.ErrDuplicatePlayerName
		}
	}

	now := c.clock.Now()
	player := model.Player{
		ID:       model.PlayerID(random.ID(c.random)),
		Name:     name,
		Order:    len(match.Players),
		JoinedAt: now,
	}
	card := c.scorecardService.CreateScorecard(matchID, player.ID)

	expected := match.Version
	match.Players = append(match.Players, player)
	match.Version++
	match.UpdatedAt = now

	if err := c.commit(ctx, match, expected, []*model.Scorecard{card}, nil); err != nil {
		return nil, err
	}

	c.logger.Info("player added",
		slog.String("match_id", string(matchID)),
		slog.String("player_id", string(player.ID)),
		slog.String("name", player.Name),
		slog.Int("order", player.Order),
	)

	c.publish(ctx, match, model.EventPlayerAdded, player.ID, model.PlayerAddedPayload{Player: player})

	return &player, nil
}

// RemovePlayer drops a player before play begins and renumbers the rest
func (c *Controller) RemovePlayer(ctx context.Context, matchID model.MatchID, playerID model.PlayerID) error {
	unlock := c.locks.lock(matchID)
	defer unlock()

	match, err := c.storage.GetMatch(ctx, matchID)
	if err != nil {
		return err
	}

	if match.HasStarted() {
		return model.ErrMatchAlreadyStarted
	}

	removed := match.GetPlayer(playerID)
	if removed == nil {
		return model.ErrPlayerNotFound
	}
	name := removed.Name

	remaining := make([]model.Player, 0, len(match.Players)-1)
	for _, p := range match.Players {
		if p.ID == playerID {
			continue
		}
		p.Order = len(remaining)
		remaining = append(remaining, p)
	}

	expected := match.Version
	match.Players = remaining
	match.Version++
	match.UpdatedAt = c.clock.Now()

	if err := c.commit(ctx, match, expected, nil, []model.PlayerID{playerID}); err != nil {
		return err
	}

	c.logger.Info("player removed",
		slog.String("match_id", string(matchID)),
		slog.String("player_id", string(playerID)),
	)

	c.publish(ctx, match, model.EventPlayerRemoved, playerID, model.PlayerRemovedPayload{PlayerID: playerID, Name: name})

	return nil
}

// NextThrow returns the slot the match is waiting for
func (c *Controller) NextThrow(ctx context.Context, matchID model.MatchID) (*model.Slot, error) {
	match, cards, err := c.load(ctx, matchID)
	if err != nil {
		return nil, err
	}

	if len(match.Players) == 0 {
		return nil, model.ErrNoPlayers
	}

	slot, ok := scoring.NextSlot(match.Players, cards)
	if !ok {
		return nil, model.ErrMatchComplete
	}
	return &slot, nil
}

// RecordThrow writes a pin count into the next slot. The input must carry the
// match version it was read at, so a resubmitted throw cannot land in the
// following slot. Every rejection leaves stored state untouched.
func (c *Controller) RecordThrow(ctx context.Context, matchID model.MatchID, input model.ThrowInput) (*model.ThrowResult, error) {
	if input.Pins < 0 {
		return nil, model.ErrInvalidPinCount
	}

	unlock := c.locks.lock(matchID)
	defer unlock()

	match, cards, err := c.load(ctx, matchID)
	if err != nil {
		return nil, err
	}

	if len(match.Players) == 0 {
		return nil, model.ErrNoPlayers
	}
	if input.Version <= 0 {
		return nil, model.ErrVersionRequired
	}
	if input.Version != match.Version {
		return nil, model.ErrConcurrencyConflict
	}

	slot, ok := scoring.NextSlot(match.Players, cards)
	if !ok {
		return nil, model.ErrMatchComplete
	}
	if slot.PlayerID != input.PlayerID {
		return nil, model.ErrOutOfTurn
	}

	card, ok := cards[slot.PlayerID]
	if !ok {
		card = c.scorecardService.CreateScorecard(matchID, slot.PlayerID)
	}
	updated, err := c.scorecardService.ApplyThrow(card, slot, input.Pins)
	if err != nil {
		return nil, err
	}
	cards[slot.PlayerID] = updated

	now := c.clock.Now()
	started := !match.HasStarted()
	if started {
		match.State = model.MatchStateInProgress
		match.StartedAt = &now
	}

	next, hasNext := scoring.NextSlot(match.Players, cards)
	if !hasNext {
		match.State = model.MatchStateComplete
		match.CompletedAt = &now
	}

	expected := match.Version
	match.Version++
	match.UpdatedAt = now

	if err := c.commit(ctx, match, expected, []*model.Scorecard{updated}, nil); err != nil {
		return nil, err
	}

	board := c.scoringService.BuildScoreboard(match, cards)
	row := board.Row(slot.PlayerID)

	result := &model.ThrowResult{
		Match:         match,
		Slot:          slot,
		Frame:         row.Frames[slot.Frame-1],
		Row:           *row,
		MatchComplete: !hasNext,
		Winners:       board.Winners,
	}
	if hasNext {
		result.Next = &next
	}

	c.logger.Info("throw recorded",
		slog.String("match_id", string(matchID)),
		slog.String("player_id", string(slot.PlayerID)),
		slog.Int("frame", slot.Frame),
		slog.Int("throw", slot.Throw),
		slog.Int("pins", input.Pins),
		slog.Int64("version", match.Version),
	)

	if started {
		c.publishBoard(ctx, match, board, model.EventMatchStarted, slot.PlayerID, nil)
	}
	c.publishBoard(ctx, match, board, model.EventThrowRecorded, slot.PlayerID, model.ThrowRecordedPayload{
		Slot:    slot,
		Pins:    input.Pins,
		Display: result.Frame.Display,
		Next:    result.Next,
	})
	if !hasNext {
		c.logger.Info("match completed",
			slog.String("match_id", string(matchID)),
			slog.Any("winners", board.Winners),
		)
		c.publishBoard(ctx, match, board, model.EventMatchComplete, "", model.MatchCompletePayload{
			FinalScores: c.scoringService.FinalScores(board),
			Winners:     board.Winners,
		})
	}

	return result, nil
}

// Scoreboard builds the formatted frame table for a match
func (c *Controller) Scoreboard(ctx context.Context, matchID model.MatchID) (*model.Scoreboard, error) {
	match, cards, err := c.load(ctx, matchID)
	if err != nil {
		return nil, err
	}
	return c.scoringService.BuildScoreboard(match, cards), nil
}

// Snapshot loads a match with its scorecards and the table built from them
// in a single read
func (c *Controller) Snapshot(ctx context.Context, matchID model.MatchID) (*model.Match, *model.Scoreboard, map[model.PlayerID]*model.Scorecard, error) {
	match, cards, err := c.load(ctx, matchID)
	if err != nil {
		return nil, nil, nil, err
	}
	return match, c.scoringService.BuildScoreboard(match, cards), cards, nil
}

// ArchiveMatch summarizes a match and removes it and its scorecards from
// the store
func (c *Controller) ArchiveMatch(ctx context.Context, matchID model.MatchID) (*model.MatchSummary, error) {
	unlock := c.locks.lock(matchID)
	defer unlock()

	match, cards, err := c.load(ctx, matchID)
	if err != nil {
		return nil, err
	}

	board := c.scoringService.BuildScoreboard(match, cards)
	summary := &model.MatchSummary{
		MatchID:       match.ID,
		ReservationID: match.ReservationID,
		Players:       match.Players,
		FinalScores:   c.scoringService.FinalScores(board),
		Winners:       board.Winners,
		Complete:      match.IsComplete(),
		CompletedAt:   match.CompletedAt,
		ClosedAt:      c.clock.Now(),
	}

	if err := c.storage.DeleteScorecardsForMatch(ctx, matchID); err != nil {
		return nil, fmt.Errorf("delete scorecards for match %s: %w", matchID, err)
	}
	if err := c.storage.DeleteMatch(ctx, matchID); err != nil {
		return nil, fmt.Errorf("delete match %s: %w", matchID, err)
	}

	c.logger.Info("match archived",
		slog.String("match_id", string(matchID)),
		slog.Int("lane", match.LaneNumber),
		slog.Bool("complete", summary.Complete),
	)

	return summary, nil
}

// ValidatePlayerName trims a name and checks its length
func ValidatePlayerName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > MaxPlayerNameLength {
		return "", model.ErrInvalidPlayerName
	}
	return name, nil
}

func (c *Controller) load(ctx context.Context, matchID model.MatchID) (*model.Match, map[model.PlayerID]*model.Scorecard, error) {
	match, err := c.storage.GetMatch(ctx, matchID)
	if err != nil {
		return nil, nil, err
	}
	cards, err := c.scorecardService.GetScorecardsForMatch(ctx, matchID)
	if err != nil {
		return nil, nil, fmt.Errorf("load scorecards for match %s: %w", matchID, err)
	}
	return match, cards, nil
}

func (c *Controller) commit(ctx context.Context, match *model.Match, expected int64, cards []*model.Scorecard, removed []model.PlayerID) error {
	err := c.storage.CommitMatch(ctx, match, cards, removed, expected)
	if err == nil {
		return nil
	}
	if errors.Is(err, model.ErrConcurrencyConflict) {
		c.logger.Warn("match commit conflict",
			slog.String("match_id", string(match.ID)),
			slog.Int64("expected_version", expected),
		)
		return err
	}
	c.logger.Error("failed to commit match",
		slog.String("match_id", string(match.ID)),
		slog.String("error", err.Error()),
	)
	return fmt.Errorf("commit match %s: %w", match.ID, err)
}

func (c *Controller) publish(ctx context.Context, match *model.Match, eventType model.EventType, playerID model.PlayerID, payload any) {
	if c.publisher == nil {
		return
	}
	cards, err := c.scorecardService.GetScorecardsForMatch(ctx, match.ID)
	if err != nil {
		cards = map[model.PlayerID]*model.Scorecard{}
	}
	c.publishBoard(ctx, match, c.scoringService.BuildScoreboard(match, cards), eventType, playerID, payload)
}

func (c *Controller) publishBoard(ctx context.Context, match *model.Match, board *model.Scoreboard, eventType model.EventType, playerID model.PlayerID, payload any) {
	if c.publisher == nil {
		return
	}
	c.publisher.Publish(ctx, model.Event{
		Type:       eventType,
		Timestamp:  c.clock.Now(),
		MatchID:    match.ID,
		LaneNumber: match.LaneNumber,
		PlayerID:   playerID,
		Payload:    payload,
		Scoreboard: board,
	})
}

// Interface for dependency injection
type ControllerInterface interface {
	CreateMatch(ctx context.Context, laneNumber int, reservationID string) (*model.Match, error)
	GetMatch(ctx context.Context, matchID model.MatchID) (*model.Match, error)
	AddPlayer(ctx context.Context, matchID model.MatchID, name string) (*model.Player, error)
	RemovePlayer(ctx context.Context, matchID model.MatchID, playerID model.PlayerID) error
	NextThrow(ctx context.Context, matchID model.MatchID) (*model.Slot, error)
	RecordThrow(ctx context.Context, matchID model.MatchID, input model.ThrowInput) (*model.ThrowResult, error)
	Scoreboard(ctx context.Context, matchID model.MatchID) (*model.Scoreboard, error)
	Snapshot(ctx context.Context, matchID model.MatchID) (*model.Match, *model.Scoreboard, map[model.PlayerID]*model.Scorecard, error)
	ArchiveMatch(ctx context.Context, matchID model.MatchID) (*model.MatchSummary, error)
}

var _ ControllerInterface = (*Controller)(nil)
