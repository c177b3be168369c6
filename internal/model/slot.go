package model

// Slot identifies the single next throw of a match
type Slot struct {
	PlayerID   PlayerID
	PlayerName string
	Frame      int // 1-10
	Throw      int // 1-3
	MaxPins    int // Largest legal pin count for this throw
}

// ThrowInput is a pin count submitted for the next slot
type ThrowInput struct {
	PlayerID PlayerID
	Pins     int

	// Version is the match version the submitter last observed. It is
	// required; a throw against any other version is rejected.
	Version int64
}
