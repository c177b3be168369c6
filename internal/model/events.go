package model

import (
	"context"
	"time"
)

// EventType identifies the type of event
type EventType string

const (
	// Roster events
	EventPlayerAdded   EventType = "player_added"
	EventPlayerRemoved EventType = "player_removed"

	// Play events
	EventMatchStarted  EventType = "match_started"
	EventThrowRecorded EventType = "throw_recorded"
	EventMatchComplete EventType = "match_complete"

	// Lane events
	EventSessionClosed EventType = "session_closed"
)

// Event is the base structure for all events
type Event struct {
	Type       EventType
	Timestamp  time.Time
	MatchID    MatchID
	LaneNumber int
	PlayerID   PlayerID // The player who triggered or is affected
	Payload    any      // Type-specific data

	// Scoreboard is the table after the change, for events that alter it
	Scoreboard *Scoreboard
}

// PlayerAddedPayload contains data for player added events
type PlayerAddedPayload struct {
	Player Player
}

// PlayerRemovedPayload contains data for player removed events
type PlayerRemovedPayload struct {
	PlayerID PlayerID
	Name     string
}

// ThrowRecordedPayload contains data for throw recorded events
type ThrowRecordedPayload struct {
	Slot    Slot
	Pins    int
	Display string
	Next    *Slot
}

// MatchCompletePayload contains data for match complete events
type MatchCompletePayload struct {
	FinalScores map[PlayerID]int
	Winners     []PlayerID
}

// SessionClosedPayload contains data for session closed events
type SessionClosedPayload struct {
	Summary MatchSummary
}

// Publisher receives events once the change they describe is committed
type Publisher interface {
	Publish(ctx context.Context, event Event)
}
