package scoring

import "github.com/mcoot/bowlscore/internal/model"

// FrameScore is the computed value of one frame
type FrameScore struct {
	Score      int
	Cumulative int

	// ScoreFinal is false while the frame's own throws or its bonus throws
	// are missing. CumulativeFinal additionally requires every earlier frame
	// to be final.
	ScoreFinal      bool
	CumulativeFinal bool
}

// ScoreFrames computes each frame's score and the running total. Strike and
// spare bonuses are looked up from the raw throws on every call, so earlier
// frames never hold stale values.
func ScoreFrames(frames [model.FrameCount]model.Frame) [model.FrameCount]FrameScore {
	var scores [model.FrameCount]FrameScore

	running := 0
	chainFinal := true
	for i := range frames {
		score, final := scoreFrame(frames, i)
		running += score
		chainFinal = chainFinal && final

		scores[i] = FrameScore{
			Score:           score,
			Cumulative:      running,
			ScoreFinal:      final,
			CumulativeFinal: chainFinal,
		}
	}

	return scores
}

// scoreFrame returns the value of frames[i] and whether it is final
func scoreFrame(frames [model.FrameCount]model.Frame, i int) (int, bool) {
	f := frames[i]

	if f.Throw1 == nil {
		return 0, false
	}

	if f.IsLast() {
		total := 0
		for _, t := range f.Throws() {
			total += t
		}
		return total, IsFrameComplete(f)
	}

	if f.IsStrike() {
		bonus := rollsAfter(frames, i, 2)
		return model.MaxPins + sum(bonus), len(bonus) == 2
	}

	if f.Throw2 == nil {
		return *f.Throw1, false
	}

	if f.IsSpare() {
		bonus := rollsAfter(frames, i, 1)
		return model.MaxPins + sum(bonus), len(bonus) == 1
	}

	return *f.Throw1 + *f.Throw2, true
}

// rollsAfter returns up to n throws bowled after frames[i], in the order
// they were thrown. Collection stops at the first throw not yet bowled.
func rollsAfter(frames [model.FrameCount]model.Frame, i, n int) []int {
	rolls := make([]int, 0, n)

	for j := i + 1; j < model.FrameCount && len(rolls) < n; j++ {
		f := frames[j]

		if f.IsLast() {
			for _, t := range []*int{f.Throw1, f.Throw2, f.Throw3} {
				if t == nil || len(rolls) == n {
					break
				}
				rolls = append(rolls, *t)
			}
			break
		}

		if f.Throw1 == nil {
			break
		}
		rolls = append(rolls, *f.Throw1)
		if f.IsStrike() {
			continue
		}
		if f.Throw2 == nil {
			break
		}
		rolls = append(rolls, *f.Throw2)
	}

	if len(rolls) > n {
		rolls = rolls[:n]
	}
	return rolls
}

func sum(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}

// ApplyScores writes the derived frame and cumulative scores onto a
// scorecard. Pending values are left nil.
func ApplyScores(card *model.Scorecard) {
	scores := ScoreFrames(card.Frames)
	for i := range card.Frames {
		f := &card.Frames[i]
		f.Score, f.Cumulative = nil, nil
		if scores[i].ScoreFinal {
			f.Score = model.Pins(scores[i].Score)
		}
		if scores[i].CumulativeFinal {
			f.Cumulative = model.Pins(scores[i].Cumulative)
		}
	}
}
