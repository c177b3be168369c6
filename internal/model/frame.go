package model

// FrameCount is the number of frames in a game
const FrameCount = 10

// MaxPins is the number of pins in a full rack
const MaxPins = 10

// Frame holds the raw throws of one frame and its derived scores.
// A nil throw has not been bowled; 0 is a gutter ball.
type Frame struct {
	Number int // 1-10
	Throw1 *int
	Throw2 *int
	Throw3 *int // Only bowled in frame 10

	// Derived by the score calculator. Nil while pending.
	Score      *int
	Cumulative *int
}

// Pins returns a pointer to a pin count, for building frames
func Pins(n int) *int {
	return &n
}

// IsLast returns true for the tenth frame
func (f *Frame) IsLast() bool {
	return f.Number == FrameCount
}

// IsStrike returns true if the first throw knocked down every pin
func (f *Frame) IsStrike() bool {
	return f.Throw1 != nil && *f.Throw1 == MaxPins
}

// IsSpare returns true if the first two throws cleared the rack without a strike
func (f *Frame) IsSpare() bool {
	return f.Throw1 != nil && f.Throw2 != nil &&
		*f.Throw1 != MaxPins && *f.Throw1+*f.Throw2 == MaxPins
}

// Throw returns the pin count for a 1-indexed throw, or nil if unset
func (f *Frame) Throw(n int) *int {
	switch n {
	case 1:
		return f.Throw1
	case 2:
		return f.Throw2
	case 3:
		return f.Throw3
	default:
		return nil
	}
}

// SetThrow records a pin count into a 1-indexed throw field
func (f *Frame) SetThrow(n, pins int) {
	switch n {
	case 1:
		f.Throw1 = Pins(pins)
	case 2:
		f.Throw2 = Pins(pins)
	case 3:
		f.Throw3 = Pins(pins)
	}
}

// Throws returns the recorded pin counts in order
func (f *Frame) Throws() []int {
	var throws []int
	for _, t := range []*int{f.Throw1, f.Throw2, f.Throw3} {
		if t != nil {
			throws = append(throws, *t)
		}
	}
	return throws
}

// IsEmpty returns true if no throw has been recorded
func (f *Frame) IsEmpty() bool {
	return f.Throw1 == nil && f.Throw2 == nil && f.Throw3 == nil
}

// Scorecard is one player's ten frames in a match
type Scorecard struct {
	MatchID  MatchID
	PlayerID PlayerID
	Frames   [FrameCount]Frame
}

// NewScorecard creates a scorecard with ten empty frames
func NewScorecard(matchID MatchID, playerID PlayerID) *Scorecard {
	card := &Scorecard{
		MatchID:  matchID,
		PlayerID: playerID,
	}
	for i := range card.Frames {
		card.Frames[i].Number = i + 1
	}
	return card
}

// Frame returns the frame with the given 1-indexed number, or nil if out of range
func (c *Scorecard) Frame(number int) *Frame {
	if number < 1 || number > FrameCount {
		return nil
	}
	return &c.Frames[number-1]
}

// Clone returns a deep copy of the scorecard
func (c *Scorecard) Clone() *Scorecard {
	clone := &Scorecard{MatchID: c.MatchID, PlayerID: c.PlayerID}
	for i, f := range c.Frames {
		clone.Frames[i] = Frame{
			Number:     f.Number,
			Throw1:     cloneInt(f.Throw1),
			Throw2:     cloneInt(f.Throw2),
			Throw3:     cloneInt(f.Throw3),
			Score:      cloneInt(f.Score),
			Cumulative: cloneInt(f.Cumulative),
		}
	}
	return clone
}

// HasThrows returns true if any frame has a recorded throw
func (c *Scorecard) HasThrows() bool {
	for i := range c.Frames {
		if !c.Frames[i].IsEmpty() {
			return true
		}
	}
	return false
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
