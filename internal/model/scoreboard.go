package model

// FrameView is the display form of one frame
type FrameView struct {
	Number     int
	Display    string // Bowling notation, e.g. "X", "7 /", "9 -"
	Score      *int   // Nil while pending
	Cumulative *int   // Nil while pending
	Final      bool
}

// ScoreRow is one player's line on the scoreboard
type ScoreRow struct {
	Player Player
	Frames [FrameCount]FrameView
	Total  int  // Running total through the last final frame
	Final  bool // True once every frame is final
}

// Scoreboard is the full per-player frame table for a match
type Scoreboard struct {
	MatchID  MatchID
	State    MatchState
	Version  int64
	Rows     []ScoreRow
	Next     *Slot      // Nil once the match is complete
	Winners  []PlayerID // Set once complete; more than one on a tie
	Complete bool
}

// Row returns the row for the given player, or nil if not found
func (s *Scoreboard) Row(playerID PlayerID) *ScoreRow {
	for i := range s.Rows {
		if s.Rows[i].Player.ID == playerID {
			return &s.Rows[i]
		}
	}
	return nil
}

// ThrowResult is returned after a throw is recorded
type ThrowResult struct {
	Match         *Match
	Slot          Slot      // The slot that was filled
	Frame         FrameView // The updated frame, formatted
	Row           ScoreRow  // The player's refreshed frame table
	Next          *Slot     // Nil once the match is complete
	MatchComplete bool
	Winners       []PlayerID
}
