package model

import "time"

// MatchID uniquely identifies a match
type MatchID string

// MatchState represents the lifecycle phase of a match
type MatchState string

const (
	MatchStateNotStarted MatchState = "not_started" // Roster open, no throws yet
	MatchStateInProgress MatchState = "in_progress" // At least one throw recorded
	MatchStateComplete   MatchState = "complete"    // Every player finished frame 10
)

// Match is a single bowling game on a lane
type Match struct {
	ID            MatchID
	LaneNumber    int
	ReservationID string
	State         MatchState

	// Players in join order. Frozen once the first throw is recorded.
	Players []Player

	// Version increments on every committed mutation and backs the
	// optimistic check in the frame store.
	Version int64

	CreatedAt   time.Time
	UpdatedAt   time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
}

// HasStarted returns true once any throw has been recorded
func (m *Match) HasStarted() bool {
	return m.State != MatchStateNotStarted
}

// IsComplete returns true if every frame of every player is finished
func (m *Match) IsComplete() bool {
	return m.State == MatchStateComplete
}

// GetPlayer returns the player with the given ID, or nil if not found
func (m *Match) GetPlayer(id PlayerID) *Player {
	for i := range m.Players {
		if m.Players[i].ID == id {
			return &m.Players[i]
		}
	}
	return nil
}

// PlayerIDs returns player IDs in join order
func (m *Match) PlayerIDs() []PlayerID {
	ids := make([]PlayerID, len(m.Players))
	for i, p := range m.Players {
		ids[i] = p.ID
	}
	return ids
}

// Clone returns a deep copy of the match
func (m *Match) Clone() *Match {
	c := *m
	c.Players = make([]Player, len(m.Players))
	copy(c.Players, m.Players)
	if m.StartedAt != nil {
		t := *m.StartedAt
		c.StartedAt = &t
	}
	if m.CompletedAt != nil {
		t := *m.CompletedAt
		c.CompletedAt = &t
	}
	return &c
}

// MatchSummary is the archived record of a match once its lane session closes
type MatchSummary struct {
	MatchID       MatchID
	ReservationID string
	Players       []Player
	FinalScores   map[PlayerID]int
	Winners       []PlayerID // All tied leaders; empty if the match never completed
	Complete      bool
	CompletedAt   *time.Time
	ClosedAt      time.Time
}
