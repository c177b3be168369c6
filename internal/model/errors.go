package model

import "errors"

// Common errors used across the application
var (
	// Scoring engine errors
	ErrOutOfTurn           = errors.New("not this player's turn")
	ErrInvalidPinCount     = errors.New("invalid pin count")
	ErrMatchAlreadyStarted = errors.New("match has already started")
	ErrMatchComplete       = errors.New("match is already complete")
	ErrConcurrencyConflict = errors.New("match was modified concurrently")
	ErrVersionRequired     = errors.New("throw must name the match version it was based on")

	// Match errors
	ErrMatchNotFound       = errors.New("match not found")
	ErrMatchFull           = errors.New("match is full")
	ErrNoPlayers           = errors.New("match has no players")
	ErrDuplicatePlayerName = errors.New("player name already taken in this match")
	ErrInvalidPlayerName   = errors.New("invalid player name")

	// Player errors
	ErrPlayerNotFound = errors.New("player not found")

	// Frame store errors
	ErrScorecardNotFound = errors.New("scorecard not found")

	// Lane errors
	ErrLaneNotFound = errors.New("lane not found")
	ErrLaneBusy     = errors.New("lane already has an open session")
	ErrNoSession    = errors.New("lane has no open session")
)
