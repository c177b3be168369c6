package scoring

import (
	"github.com/mcoot/bowlscore/internal/model"
)

// cardFromRolls builds a single player's scorecard by feeding rolls into
// whichever throw each frame is waiting for
func cardFromRolls(rolls ...int) *model.Scorecard {
	card := model.NewScorecard("match-1", "player-1")
	frame := 1
	for _, pins := range rolls {
		for frame <= model.FrameCount && IsFrameComplete(*card.Frame(frame)) {
			frame++
		}
		if frame > model.FrameCount {
			panic("too many rolls for one game")
		}
		throw, _, _ := PendingThrow(*card.Frame(frame))
		card.Frame(frame).SetThrow(throw, pins)
	}
	return card
}

// repeat returns n copies of pins
func repeat(pins, n int) []int {
	rolls := make([]int, n)
	for i := range rolls {
		rolls[i] = pins
	}
	return rolls
}

func concat(parts ...[]int) []int {
	var out []int
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func frame(number int, throws ...int) model.Frame {
	f := model.Frame{Number: number}
	for i, t := range throws {
		f.SetThrow(i+1, t)
	}
	return f
}
