package scorecard

import (
	"context"

	"github.com/mcoot/bowlscore/internal/model"
	"github.com/mcoot/bowlscore/internal/services/scoring"
	"github.com/mcoot/bowlscore/internal/storage"
)

// Service reads scorecards and applies throws to them. Writes go through
// storage.CommitMatch so a card never changes without its match.
type Service struct {
	storage storage.Storage
}

// New creates a new ScorecardService
func New(storage storage.Storage) *Service {
	return &Service{
		storage: storage,
	}
}

// CreateScorecard returns an empty ten-frame card for a player
func (s *Service) CreateScorecard(matchID model.MatchID, playerID model.PlayerID) *model.Scorecard {
	return model.NewScorecard(matchID, playerID)
}

// GetScorecard retrieves a player's card
func (s *Service) GetScorecard(ctx context.Context, matchID model.MatchID, playerID model.PlayerID) (*model.Scorecard, error) {
	return s.storage.GetScorecard(ctx, matchID, playerID)
}

// GetScorecardsForMatch retrieves every card for a match keyed by player
func (s *Service) GetScorecardsForMatch(ctx context.Context, matchID model.MatchID) (map[model.PlayerID]*model.Scorecard, error) {
	cards, err := s.storage.GetScorecardsForMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}

	byPlayer := make(map[model.PlayerID]*model.Scorecard, len(cards))
	for _, card := range cards {
		byPlayer[card.PlayerID] = card
	}
	return byPlayer, nil
}

// ApplyThrow returns a copy of card with pins written into the slot and
// scores refreshed. The input card is never modified.
func (s *Service) ApplyThrow(card *model.Scorecard, slot model.Slot, pins int) (*model.Scorecard, error) {
	if err := ValidatePins(slot, pins); err != nil {
		return nil, err
	}

	frame := card.Frame(slot.Frame)
	if frame == nil {
		return nil, model.ErrOutOfTurn
	}
	if throw, _, pending := scoring.PendingThrow(*frame); !pending || throw != slot.Throw {
		return nil, model.ErrOutOfTurn
	}

	updated := card.Clone()
	updated.Frame(slot.Frame).SetThrow(slot.Throw, pins)
	scoring.ApplyScores(updated)
	return updated, nil
}

// ValidatePins checks a pin count against the slot's maximum
func ValidatePins(slot model.Slot, pins int) error {
	if pins < 0 || pins > slot.MaxPins {
		return model.ErrInvalidPinCount
	}
	return nil
}

// Interface for dependency injection
type ServiceInterface interface {
	CreateScorecard(matchID model.MatchID, playerID model.PlayerID) *model.Scorecard
	GetScorecard(ctx context.Context, matchID model.MatchID, playerID model.PlayerID) (*model.Scorecard, error)
	GetScorecardsForMatch(ctx context.Context, matchID model.MatchID) (map[model.PlayerID]*model.Scorecard, error)
	ApplyThrow(card *model.Scorecard, slot model.Slot, pins int) (*model.Scorecard, error)
}

var _ ServiceInterface = (*Service)(nil)
