package redis

import (
	"fmt"

	"github.com/mcoot/bowlscore/internal/model"
)

// Key prefix for all bowling data
const keyPrefix = "bowl"

// matchKey returns the Redis key for a Match
func matchKey(id model.MatchID) string {
	return fmt.Sprintf("%s:match:%s", keyPrefix, id)
}

// matchesIndexKey returns the Redis key for the SET of all match IDs
func matchesIndexKey() string {
	return fmt.Sprintf("%s:idx:matches", keyPrefix)
}

// scorecardKey returns the Redis key for a Scorecard
func scorecardKey(matchID model.MatchID, playerID model.PlayerID) string {
	return fmt.Sprintf("%s:scorecard:%s:%s", keyPrefix, matchID, playerID)
}

// scorecardsForMatchIndexKey returns the Redis key for the SET of scorecards for a match
func scorecardsForMatchIndexKey(matchID model.MatchID) string {
	return fmt.Sprintf("%s:idx:scorecards_for_match:%s", keyPrefix, matchID)
}

// laneKey returns the Redis key for a Lane
func laneKey(number int) string {
	return fmt.Sprintf("%s:lane:%d", keyPrefix, number)
}
