package redis

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/bowlscore/internal/model"
	"github.com/mcoot/bowlscore/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Match operations

func (s *Storage) CreateMatch(ctx context.Context, match *model.Match) error {
	data, err := json.Marshal(match)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, matchKey(match.ID), data, s.cfg.MatchTTL)
	pipe.SAdd(ctx, matchesIndexKey(), string(match.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetMatch(ctx context.Context, id model.MatchID) (*model.Match, error) {
	data, err := s.client.Get(ctx, matchKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrMatchNotFound
		}
		return nil, err
	}

	var match model.Match
	if err := json.Unmarshal(data, &match); err != nil {
		return nil, err
	}
	return &match, nil
}

func (s *Storage) ListMatches(ctx context.Context) ([]*model.Match, error) {
	ids, err := s.client.SMembers(ctx, matchesIndexKey()).Result()
	if err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return []*model.Match{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = matchKey(model.MatchID(id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	matches := make([]*model.Match, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue // Match may have expired
		}
		var match model.Match
		if err := json.Unmarshal([]byte(val.(string)), &match); err != nil {
			continue // Skip invalid data
		}
		matches = append(matches, &match)
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.Before(matches[j].CreatedAt)
	})
	return matches, nil
}

func (s *Storage) DeleteMatch(ctx context.Context, id model.MatchID) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, matchKey(id))
	pipe.SRem(ctx, matchesIndexKey(), string(id))
	_, err := pipe.Exec(ctx)
	return err
}

// CommitMatch watches the match key so a write from another process between
// the version check and EXEC aborts the transaction
func (s *Storage) CommitMatch(ctx context.Context, match *model.Match, cards []*model.Scorecard, removed []model.PlayerID, expectedVersion int64) error {
	matchData, err := json.Marshal(match)
	if err != nil {
		return err
	}

	cardData := make([][]byte, len(cards))
	for i, card := range cards {
		if cardData[i], err = json.Marshal(card); err != nil {
			return err
		}
	}

	mKey := matchKey(match.ID)
	indexKey := scorecardsForMatchIndexKey(match.ID)

	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, mKey).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return model.ErrMatchNotFound
			}
			return err
		}

		var current model.Match
		if err := json.Unmarshal(data, &current); err != nil {
			return err
		}
		if current.Version != expectedVersion {
			return model.ErrConcurrencyConflict
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, mKey, matchData, s.cfg.MatchTTL)
			for i, card := range cards {
				cKey := scorecardKey(card.MatchID, card.PlayerID)
				pipe.Set(ctx, cKey, cardData[i], s.cfg.ScorecardTTL)
				pipe.SAdd(ctx, indexKey, cKey)
			}
			for _, playerID := range removed {
				cKey := scorecardKey(match.ID, playerID)
				pipe.Del(ctx, cKey)
				pipe.SRem(ctx, indexKey, cKey)
			}
			if len(cards) > 0 && s.cfg.ScorecardTTL > 0 {
				pipe.Expire(ctx, indexKey, s.cfg.ScorecardTTL) // Keep index TTL in sync
			}
			return nil
		})
		return err
	}, mKey)

	if errors.Is(err, redis.TxFailedErr) {
		return model.ErrConcurrencyConflict
	}
	return err
}

// Scorecard operations

func (s *Storage) GetScorecard(ctx context.Context, matchID model.MatchID, playerID model.PlayerID) (*model.Scorecard, error) {
	data, err := s.client.Get(ctx, scorecardKey(matchID, playerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrScorecardNotFound
		}
		return nil, err
	}

	var card model.Scorecard
	if err := json.Unmarshal(data, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

func (s *Storage) GetScorecardsForMatch(ctx context.Context, matchID model.MatchID) ([]*model.Scorecard, error) {
	indexKey := scorecardsForMatchIndexKey(matchID)

	// Get all scorecard keys from the index
	cardKeys, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, err
	}

	if len(cardKeys) == 0 {
		return []*model.Scorecard{}, nil
	}

	values, err := s.client.MGet(ctx, cardKeys...).Result()
	if err != nil {
		return nil, err
	}

	cards := make([]*model.Scorecard, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue // Scorecard may have expired or been removed
		}
		var card model.Scorecard
		if err := json.Unmarshal([]byte(val.(string)), &card); err != nil {
			continue // Skip invalid data
		}
		cards = append(cards, &card)
	}

	return cards, nil
}

func (s *Storage) DeleteScorecardsForMatch(ctx context.Context, matchID model.MatchID) error {
	indexKey := scorecardsForMatchIndexKey(matchID)

	cardKeys, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return err
	}

	if len(cardKeys) == 0 {
		return nil
	}

	// Delete all scorecards and the index in one pipeline
	pipe := s.client.Pipeline()
	for _, key := range cardKeys {
		pipe.Del(ctx, key)
	}
	pipe.Del(ctx, indexKey)
	_, err = pipe.Exec(ctx)
	return err
}

// Lane operations

func (s *Storage) SaveLane(ctx context.Context, lane *model.Lane) error {
	data, err := json.Marshal(lane)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, laneKey(lane.Number), data, s.cfg.LaneTTL).Err()
}

func (s *Storage) GetLane(ctx context.Context, number int) (*model.Lane, error) {
	data, err := s.client.Get(ctx, laneKey(number)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrLaneNotFound
		}
		return nil, err
	}

	var lane model.Lane
	if err := json.Unmarshal(data, &lane); err != nil {
		return nil, err
	}
	return &lane, nil
}
