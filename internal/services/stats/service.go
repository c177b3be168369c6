package stats

import (
	"sort"
	"strings"

	"github.com/mcoot/bowlscore/internal/model"
	"github.com/mcoot/bowlscore/internal/services/scoring"
)

// PlayerStats counts marks and pins on one scorecard
type PlayerStats struct {
	PlayerID     model.PlayerID
	Name         string
	Strikes      int
	Spares       int
	OpenFrames   int
	GutterBalls  int
	Pins         int
	FramesBowled int
}

// Standing is a player's place in a match. Tied totals share a position.
type Standing struct {
	Position int
	Player   model.Player
	Total    int
	Final    bool
	Stats    PlayerStats
}

// LaneRecord aggregates one bowler's archived games on a lane, keyed by name
type LaneRecord struct {
	Name    string
	Games   int
	Wins    int
	Best    int
	Average float64
	total   int
}

// Service derives statistics from scorecards and lane history
type Service struct {
	scoringService *scoring.Service
}

// New creates a new StatsService
func New(scoringService *scoring.Service) *Service {
	return &Service{
		scoringService: scoringService,
	}
}

// ForScorecard counts strikes, spares, open frames, gutter balls and pins
func (s *Service) ForScorecard(player model.Player, card *model.Scorecard) PlayerStats {
	st := PlayerStats{PlayerID: player.ID, Name: player.Name}
	if card == nil {
		return st
	}

	for _, f := range card.Frames {
		throws := f.Throws()
		for _, t := range throws {
			st.Pins += t
			if t == 0 {
				st.GutterBalls++
			}
		}

		complete := scoring.IsFrameComplete(f)
		if complete {
			st.FramesBowled++
		}

		marked := false
		for _, token := range strings.Fields(scoring.FormatFrame(f)) {
			switch token {
			case scoring.TokenStrike:
				st.Strikes++
				marked = true
			case scoring.TokenSpare:
				st.Spares++
				marked = true
			}
		}
		if complete && !marked {
			st.OpenFrames++
		}
	}

	return st
}

// Standings ranks the players of a scoreboard by total
func (s *Service) Standings(board *model.Scoreboard, cards map[model.PlayerID]*model.Scorecard) []Standing {
	ranked := s.scoringService.RankRows(board.Rows)
	standings := make([]Standing, len(ranked))

	for i, row := range ranked {
		position := i + 1
		if i > 0 && row.Total == ranked[i-1].Total {
			position = standings[i-1].Position
		}
		standings[i] = Standing{
			Position: position,
			Player:   row.Player,
			Total:    row.Total,
			Final:    row.Final,
			Stats:    s.ForScorecard(row.Player, cards[row.Player.ID]),
		}
	}

	return standings
}

// LaneLeaders aggregates a lane's archived matches per bowler name, best
// average first
func (s *Service) LaneLeaders(lane *model.Lane) []LaneRecord {
	byName := make(map[string]*LaneRecord)
	var order []string

	for _, summary := range lane.History {
		if !summary.Complete {
			continue
		}
		winners := make(map[model.PlayerID]bool, len(summary.Winners))
		for _, id := range summary.Winners {
			winners[id] = true
		}

		for _, p := range summary.Players {
			key := strings.ToLower(p.Name)
			rec, ok := byName[key]
			if !ok {
				rec = &LaneRecord{Name: p.Name}
				byName[key] = rec
				order = append(order, key)
			}
			score := summary.FinalScores[p.ID]
			rec.Games++
			rec.total += score
			if score > rec.Best {
				rec.Best = score
			}
			if winners[p.ID] {
				rec.Wins++
			}
		}
	}

	records := make([]LaneRecord, 0, len(order))
	for _, key := range order {
		rec := byName[key]
		rec.Average = float64(rec.total) / float64(rec.Games)
		records = append(records, *rec)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Average > records[j].Average
	})
	return records
}

// Interface for dependency injection
type ServiceInterface interface {
	ForScorecard(player model.Player, card *model.Scorecard) PlayerStats
	Standings(board *model.Scoreboard, cards map[model.PlayerID]*model.Scorecard) []Standing
	LaneLeaders(lane *model.Lane) []LaneRecord
}

var _ ServiceInterface = (*Service)(nil)
