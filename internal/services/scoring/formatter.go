package scoring

import (
	"strconv"
	"strings"

	"github.com/mcoot/bowlscore/internal/model"
)

// Notation tokens
const (
	TokenStrike = "X"
	TokenSpare  = "/"
	TokenEmpty  = "-"
)

// FormatFrame renders a frame's throws in conventional bowling notation.
// Input is assumed to have been validated when the throws were recorded.
func FormatFrame(f model.Frame) string {
	if f.IsLast() {
		return formatLastFrame(f)
	}

	switch {
	case f.Throw1 == nil:
		return TokenEmpty
	case *f.Throw1 == model.MaxPins:
		return TokenStrike
	case f.Throw2 == nil:
		return strconv.Itoa(*f.Throw1) + " " + TokenEmpty
	case *f.Throw1+*f.Throw2 == model.MaxPins:
		return strconv.Itoa(*f.Throw1) + " " + TokenSpare
	default:
		return strconv.Itoa(*f.Throw1) + " " + strconv.Itoa(*f.Throw2)
	}
}

// formatLastFrame renders one token per throw of frame 10. The rack is reset
// after a strike or a spare, so a spare can only complete a rack that was
// opened by the immediately preceding throw.
func formatLastFrame(f model.Frame) string {
	tokens := make([]string, 0, 3)
	standing := model.MaxPins
	freshRack := true

	for _, t := range []*int{f.Throw1, f.Throw2, f.Throw3} {
		if t == nil {
			tokens = append(tokens, TokenEmpty)
			continue
		}

		switch {
		case !freshRack && *t == standing:
			tokens = append(tokens, TokenSpare)
			standing, freshRack = model.MaxPins, true
		case freshRack && *t == model.MaxPins:
			tokens = append(tokens, TokenStrike)
		case freshRack:
			tokens = append(tokens, strconv.Itoa(*t))
			standing, freshRack = model.MaxPins-*t, false
		default:
			tokens = append(tokens, strconv.Itoa(*t))
			standing, freshRack = model.MaxPins, true
		}
	}

	return strings.Join(tokens, " ")
}
