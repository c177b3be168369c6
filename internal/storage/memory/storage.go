package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/mcoot/bowlscore/internal/model"
	"github.com/mcoot/bowlscore/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Values are copied on the way in and out so callers never share state
// with the store.
type Storage struct {
	mu sync.RWMutex

	matches    map[model.MatchID]*model.Match
	scorecards map[scorecardKey]*model.Scorecard
	lanes      map[int]*model.Lane
}

type scorecardKey struct {
	matchID  model.MatchID
	playerID model.PlayerID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		matches:    make(map[model.MatchID]*model.Match),
		scorecards: make(map[scorecardKey]*model.Scorecard),
		lanes:      make(map[int]*model.Lane),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Match operations

func (s *Storage) CreateMatch(ctx context.Context, match *model.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matches[match.ID] = match.Clone()
	return nil
}

func (s *Storage) GetMatch(ctx context.Context, id model.MatchID) (*model.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	match, ok := s.matches[id]
	if !ok {
		return nil, model.ErrMatchNotFound
	}
	return match.Clone(), nil
}

func (s *Storage) ListMatches(ctx context.Context) ([]*model.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matches := make([]*model.Match, 0, len(s.matches))
	for _, m := range s.matches {
		matches = append(matches, m.Clone())
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.Before(matches[j].CreatedAt)
	})
	return matches, nil
}

func (s *Storage) DeleteMatch(ctx context.Context, id model.MatchID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.matches, id)
	return nil
}

func (s *Storage) CommitMatch(ctx context.Context, match *model.Match, cards []*model.Scorecard, removed []model.PlayerID, expectedVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.matches[match.ID]
	if !ok {
		return model.ErrMatchNotFound
	}
	if current.Version != expectedVersion {
		return model.ErrConcurrencyConflict
	}

	s.matches[match.ID] = match.Clone()
	for _, card := range cards {
		key := scorecardKey{matchID: card.MatchID, playerID: card.PlayerID}
		s.scorecards[key] = card.Clone()
	}
	for _, playerID := range removed {
		delete(s.scorecards, scorecardKey{matchID: match.ID, playerID: playerID})
	}
	return nil
}

// Scorecard operations

func (s *Storage) GetScorecard(ctx context.Context, matchID model.MatchID, playerID model.PlayerID) (*model.Scorecard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	key := scorecardKey{matchID: matchID, playerID: playerID}
	card, ok := s.scorecards[key]
	if !ok {
		return nil, model.ErrScorecardNotFound
	}
	return card.Clone(), nil
}

func (s *Storage) GetScorecardsForMatch(ctx context.Context, matchID model.MatchID) ([]*model.Scorecard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var cards []*model.Scorecard
	for key, card := range s.scorecards {
		if key.matchID == matchID {
			cards = append(cards, card.Clone())
		}
	}
	return cards, nil
}

func (s *Storage) DeleteScorecardsForMatch(ctx context.Context, matchID model.MatchID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.scorecards {
		if key.matchID == matchID {
			delete(s.scorecards, key)
		}
	}
	return nil
}

// Lane operations

func (s *Storage) SaveLane(ctx context.Context, lane *model.Lane) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lanes[lane.Number] = cloneLane(lane)
	return nil
}

func (s *Storage) GetLane(ctx context.Context, number int) (*model.Lane, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lane, ok := s.lanes[number]
	if !ok {
		return nil, model.ErrLaneNotFound
	}
	return cloneLane(lane), nil
}

func cloneLane(l *model.Lane) *model.Lane {
	c := *l
	if l.CurrentMatch != nil {
		id := *l.CurrentMatch
		c.CurrentMatch = &id
	}
	c.History = make([]model.MatchSummary, len(l.History))
	copy(c.History, l.History)
	return &c
}
