package model

import "time"

// PlayerID uniquely identifies a player within the system
type PlayerID string

// Player is a bowler registered to exactly one match
type Player struct {
	ID       PlayerID
	Name     string
	Order    int // 0-indexed join order, used for turn ordering
	JoinedAt time.Time
}
