package scoring

import (
	"sort"

	"github.com/mcoot/bowlscore/internal/model"
)

// PendingThrow reports the next throw a frame is waiting for and the largest
// legal pin count for it. pending is false once the frame is complete.
func PendingThrow(f model.Frame) (throw, maxPins int, pending bool) {
	if f.Throw1 == nil {
		return 1, model.MaxPins, true
	}
	t1 := *f.Throw1

	if !f.IsLast() {
		if t1 < model.MaxPins && f.Throw2 == nil {
			return 2, model.MaxPins - t1, true
		}
		return 0, 0, false
	}

	// Frame 10 grants a third throw after a strike or a spare
	if f.Throw2 == nil {
		if t1 == model.MaxPins {
			return 2, model.MaxPins, true
		}
		return 2, model.MaxPins - t1, true
	}
	t2 := *f.Throw2

	if (t1 == model.MaxPins || t1+t2 >= model.MaxPins) && f.Throw3 == nil {
		switch {
		case t1 == model.MaxPins && t2 == model.MaxPins:
			return 3, model.MaxPins, true
		case t1 == model.MaxPins:
			return 3, model.MaxPins - t2, true
		default:
			return 3, model.MaxPins, true
		}
	}

	return 0, 0, false
}

// IsFrameComplete returns true if a frame needs no further throws
func IsFrameComplete(f model.Frame) bool {
	_, _, pending := PendingThrow(f)
	return !pending
}

// NextSlot finds the single next throw of the match. Frames are scanned in
// order and, within a frame, players in join order, so every player finishes
// frame k before anyone starts frame k+1. ok is false when no throw remains.
func NextSlot(players []model.Player, cards map[model.PlayerID]*model.Scorecard) (slot model.Slot, ok bool) {
	ordered := make([]model.Player, len(players))
	copy(ordered, players)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Order < ordered[j].Order
	})

	for frame := 1; frame <= model.FrameCount; frame++ {
		for _, p := range ordered {
			card, found := cards[p.ID]
			if !found || card == nil {
				return model.Slot{
					PlayerID:   p.ID,
					PlayerName: p.Name,
					Frame:      frame,
					Throw:      1,
					MaxPins:    model.MaxPins,
				}, true
			}

			throw, maxPins, pending := PendingThrow(*card.Frame(frame))
			if pending {
				return model.Slot{
					PlayerID:   p.ID,
					PlayerName: p.Name,
					Frame:      frame,
					Throw:      throw,
					MaxPins:    maxPins,
				}, true
			}
		}
	}

	return model.Slot{}, false
}
