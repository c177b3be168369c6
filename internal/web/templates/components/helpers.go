package components

import "github.com/mcoot/bowlscore/internal/model"

func matchURL(id model.MatchID) string {
	return "/matches/" + string(id)
}

func isNext(board *model.Scoreboard, id model.PlayerID) bool {
	return board.Next != nil && board.Next.PlayerID == id
}

func winnerNames(board *model.Scoreboard) []string {
	names := make([]string, 0, len(board.Winners))
	for _, id := range board.Winners {
		if row := board.Row(id); row != nil {
			names = append(names, row.Player.Name)
		}
	}
	return names
}

func winnersLabel(board *model.Scoreboard) string {
	if len(winnerNames(board)) > 1 {
		return "Tied winners"
	}
	return "Winner"
}
