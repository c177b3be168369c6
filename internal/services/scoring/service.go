package scoring

import (
	"sort"

	"github.com/mcoot/bowlscore/internal/model"
)

// Service assembles display tables from raw scorecards
type Service struct{}

// New creates a new ScoringService
func New() *Service {
	return &Service{}
}

// BuildRow formats and scores one player's scorecard
func (s *Service) BuildRow(player model.Player, card *model.Scorecard) model.ScoreRow {
	if card == nil {
		card = model.NewScorecard("", player.ID)
	}

	scores := ScoreFrames(card.Frames)
	row := model.ScoreRow{
		Player: player,
		Final:  true,
	}

	for i, f := range card.Frames {
		view := model.FrameView{
			Number:  f.Number,
			Display: FormatFrame(f),
			Final:   scores[i].CumulativeFinal,
		}
		if scores[i].ScoreFinal {
			view.Score = model.Pins(scores[i].Score)
		}
		if scores[i].CumulativeFinal {
			view.Cumulative = model.Pins(scores[i].Cumulative)
			row.Total = scores[i].Cumulative
		} else {
			row.Final = false
		}
		row.Frames[i] = view
	}

	return row
}

// BuildScoreboard builds the full table for a match, including the next
// slot and, once complete, the winners
func (s *Service) BuildScoreboard(match *model.Match, cards map[model.PlayerID]*model.Scorecard) *model.Scoreboard {
	board := &model.Scoreboard{
		MatchID: match.ID,
		State:   match.State,
		Version: match.Version,
		Rows:    make([]model.ScoreRow, 0, len(match.Players)),
	}

	for _, p := range match.Players {
		board.Rows = append(board.Rows, s.BuildRow(p, cards[p.ID]))
	}

	if slot, ok := NextSlot(match.Players, cards); ok {
		board.Next = &slot
	} else if len(match.Players) > 0 {
		board.Complete = true
		board.Winners = s.DetermineWinners(board.Rows)
	}

	return board
}

// DetermineWinners returns every player sharing the highest final total.
// Ties are reported as-is; no tie-break is applied.
func (s *Service) DetermineWinners(rows []model.ScoreRow) []model.PlayerID {
	if len(rows) == 0 {
		return nil
	}

	top := -1
	for _, r := range rows {
		if r.Total > top {
			top = r.Total
		}
	}

	var winners []model.PlayerID
	for _, r := range rows {
		if r.Total == top {
			winners = append(winners, r.Player.ID)
		}
	}
	return winners
}

// FinalScores returns each player's total keyed by player ID
func (s *Service) FinalScores(board *model.Scoreboard) map[model.PlayerID]int {
	scores := make(map[model.PlayerID]int, len(board.Rows))
	for _, r := range board.Rows {
		scores[r.Player.ID] = r.Total
	}
	return scores
}

// RankRows returns the rows sorted by total descending, keeping join order
// between equal totals
func (s *Service) RankRows(rows []model.ScoreRow) []model.ScoreRow {
	ranked := make([]model.ScoreRow, len(rows))
	copy(ranked, rows)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Total > ranked[j].Total
	})
	return ranked
}

// Interface for dependency injection
type ServiceInterface interface {
	BuildRow(player model.Player, card *model.Scorecard) model.ScoreRow
	BuildScoreboard(match *model.Match, cards map[model.PlayerID]*model.Scorecard) *model.Scoreboard
	DetermineWinners(rows []model.ScoreRow) []model.PlayerID
	FinalScores(board *model.Scoreboard) map[model.PlayerID]int
	RankRows(rows []model.ScoreRow) []model.ScoreRow
}

var _ ServiceInterface = (*Service)(nil)
