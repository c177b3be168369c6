package model

import "time"

// Lane is a bowling lane that hosts at most one match at a time
type Lane struct {
	Number       int
	CurrentMatch *MatchID      // Nil when no session is open
	History      []MatchSummary // Archived matches, oldest first
	UpdatedAt    time.Time
}

// IsBusy returns true while a session is open on the lane
func (l *Lane) IsBusy() bool {
	return l.CurrentMatch != nil
}
