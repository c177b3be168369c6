package pages

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mcoot/bowlscore/internal/model"
)

func laneURL(number int) string {
	return "/lanes/" + strconv.Itoa(number)
}

func matchURL(id model.MatchID) string {
	return "/matches/" + string(id)
}

func newestFirst(history []model.MatchSummary) []model.MatchSummary {
	out := make([]model.MatchSummary, len(history))
	for i, s := range history {
		out[len(history)-1-i] = s
	}
	return out
}

func formatScores(summary model.MatchSummary) string {
	players := make([]model.Player, len(summary.Players))
	copy(players, summary.Players)
	sort.SliceStable(players, func(i, j int) bool {
		return summary.FinalScores[players[i].ID] > summary.FinalScores[players[j].ID]
	})

	parts := make([]string, len(players))
	for i, p := range players {
		parts[i] = fmt.Sprintf("%s %d", p.Name, summary.FinalScores[p.ID])
	}
	if len(parts) == 0 {
		return "no players"
	}
	return strings.Join(parts, ", ")
}
