package storage

import (
	"context"

	"github.com/mcoot/bowlscore/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// Match operations
	CreateMatch(ctx context.Context, match *model.Match) error
	GetMatch(ctx context.Context, id model.MatchID) (*model.Match, error)
	ListMatches(ctx context.Context) ([]*model.Match, error)
	DeleteMatch(ctx context.Context, id model.MatchID) error

	// CommitMatch writes the match and the given scorecards, and drops the
	// scorecards of the removed players, in one step, but only if the stored
	// match is still at expectedVersion. On a mismatch it returns
	// model.ErrConcurrencyConflict and writes nothing.
	CommitMatch(ctx context.Context, match *model.Match, cards []*model.Scorecard, removed []model.PlayerID, expectedVersion int64) error

	// Scorecard operations
	GetScorecard(ctx context.Context, matchID model.MatchID, playerID model.PlayerID) (*model.Scorecard, error)
	GetScorecardsForMatch(ctx context.Context, matchID model.MatchID) ([]*model.Scorecard, error)
	DeleteScorecardsForMatch(ctx context.Context, matchID model.MatchID) error

	// Lane operations
	SaveLane(ctx context.Context, lane *model.Lane) error
	GetLane(ctx context.Context, number int) (*model.Lane, error)
}
