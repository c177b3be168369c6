package response

import (
	"time"

	"github.com/mcoot/bowlscore/internal/model"
	"github.com/mcoot/bowlscore/internal/services/stats"
)

// Player represents a bowler in API responses
type Player struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Order    int       `json:"order"`
	JoinedAt time.Time `json:"joined_at"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p model.Player) Player {
	return Player{
		ID:       string(p.ID),
		Name:     p.Name,
		Order:    p.Order,
		JoinedAt: p.JoinedAt,
	}
}

// Slot identifies the next throw to be recorded
type Slot struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Frame      int    `json:"frame"`
	Throw      int    `json:"throw"`
	MaxPins    int    `json:"max_pins"`
}

// SlotFromModel converts a model.Slot, returning nil for nil
func SlotFromModel(s *model.Slot) *Slot {
	if s == nil {
		return nil
	}
	return &Slot{
		PlayerID:   string(s.PlayerID),
		PlayerName: s.PlayerName,
		Frame:      s.Frame,
		Throw:      s.Throw,
		MaxPins:    s.MaxPins,
	}
}

// Frame is one formatted frame. Scores are null while pending.
type Frame struct {
	Number     int    `json:"number"`
	Display    string `json:"display"`
	Score      *int   `json:"score"`
	Cumulative *int   `json:"cumulative"`
	Final      bool   `json:"final"`
}

// FrameFromModel converts a model.FrameView
func FrameFromModel(f model.FrameView) Frame {
	return Frame{
		Number:     f.Number,
		Display:    f.Display,
		Score:      f.Score,
		Cumulative: f.Cumulative,
		Final:      f.Final,
	}
}

// ScoreRow is a player's frame table
type ScoreRow struct {
	Player Player  `json:"player"`
	Frames []Frame `json:"frames"`
	Total  int     `json:"total"`
	Final  bool    `json:"final"`
}

// ScoreRowFromModel converts a model.ScoreRow
func ScoreRowFromModel(r model.ScoreRow) ScoreRow {
	frames := make([]Frame, len(r.Frames))
	for i, f := range r.Frames {
		frames[i] = FrameFromModel(f)
	}
	return ScoreRow{
		Player: PlayerFromModel(r.Player),
		Frames: frames,
		Total:  r.Total,
		Final:  r.Final,
	}
}

// Scoreboard is the full frame table for a match
type Scoreboard struct {
	MatchID  string     `json:"match_id"`
	State    string     `json:"state"`
	Version  int64      `json:"version"`
	Rows     []ScoreRow `json:"rows"`
	Next     *Slot      `json:"next"`
	Winners  []string   `json:"winners"`
	Complete bool       `json:"complete"`
}

// ScoreboardFromModel converts a model.Scoreboard
func ScoreboardFromModel(b *model.Scoreboard) Scoreboard {
	rows := make([]ScoreRow, len(b.Rows))
	for i, r := range b.Rows {
		rows[i] = ScoreRowFromModel(r)
	}
	return Scoreboard{
		MatchID:  string(b.MatchID),
		State:    string(b.State),
		Version:  b.Version,
		Rows:     rows,
		Next:     SlotFromModel(b.Next),
		Winners:  playerIDs(b.Winners),
		Complete: b.Complete,
	}
}

// Match represents a match in API responses
type Match struct {
	ID            string     `json:"id"`
	Lane          int        `json:"lane"`
	ReservationID string     `json:"reservation_id"`
	State         string     `json:"state"`
	Version       int64      `json:"version"`
	Players       []Player   `json:"players"`
	CreatedAt     time.Time  `json:"created_at"`
	StartedAt     *time.Time `json:"started_at,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

// MatchFromModel converts a model.Match
func MatchFromModel(m *model.Match) Match {
	players := make([]Player, len(m.Players))
	for i, p := range m.Players {
		players[i] = PlayerFromModel(p)
	}
	return Match{
		ID:            string(m.ID),
		Lane:          m.LaneNumber,
		ReservationID: m.ReservationID,
		State:         string(m.State),
		Version:       m.Version,
		Players:       players,
		CreatedAt:     m.CreatedAt,
		StartedAt:     m.StartedAt,
		CompletedAt:   m.CompletedAt,
	}
}

// ThrowResult is the response for a recorded throw
type ThrowResult struct {
	Slot          Slot     `json:"slot"`
	Frame         Frame    `json:"frame"`
	Row           ScoreRow `json:"row"`
	Next          *Slot    `json:"next"`
	Version       int64    `json:"version"`
	MatchComplete bool     `json:"match_complete"`
	Winners       []string `json:"winners,omitempty"`
}

// ThrowResultFromModel converts a model.ThrowResult
func ThrowResultFromModel(r *model.ThrowResult) ThrowResult {
	return ThrowResult{
		Slot:          *SlotFromModel(&r.Slot),
		Frame:         FrameFromModel(r.Frame),
		Row:           ScoreRowFromModel(r.Row),
		Next:          SlotFromModel(r.Next),
		Version:       r.Match.Version,
		MatchComplete: r.MatchComplete,
		Winners:       playerIDs(r.Winners),
	}
}

// MatchSummary is an archived match
type MatchSummary struct {
	MatchID       string         `json:"match_id"`
	ReservationID string         `json:"reservation_id"`
	Players       []Player       `json:"players"`
	FinalScores   map[string]int `json:"final_scores"`
	Winners       []string       `json:"winners"`
	Complete      bool           `json:"complete"`
	CompletedAt   *time.Time     `json:"completed_at,omitempty"`
	ClosedAt      time.Time      `json:"closed_at"`
}

// MatchSummaryFromModel converts a model.MatchSummary
func MatchSummaryFromModel(s *model.MatchSummary) MatchSummary {
	players := make([]Player, len(s.Players))
	for i, p := range s.Players {
		players[i] = PlayerFromModel(p)
	}
	scores := make(map[string]int, len(s.FinalScores))
	for id, score := range s.FinalScores {
		scores[string(id)] = score
	}
	return MatchSummary{
		MatchID:       string(s.MatchID),
		ReservationID: s.ReservationID,
		Players:       players,
		FinalScores:   scores,
		Winners:       playerIDs(s.Winners),
		Complete:      s.Complete,
		CompletedAt:   s.CompletedAt,
		ClosedAt:      s.ClosedAt,
	}
}

// Lane represents a lane and its session history
type Lane struct {
	Number       int            `json:"number"`
	Busy         bool           `json:"busy"`
	CurrentMatch *string        `json:"current_match"`
	History      []MatchSummary `json:"history"`
}

// LaneFromModel converts a model.Lane
func LaneFromModel(l *model.Lane) Lane {
	var current *string
	if l.CurrentMatch != nil {
		id := string(*l.CurrentMatch)
		current = &id
	}
	history := make([]MatchSummary, len(l.History))
	for i := range l.History {
		history[i] = MatchSummaryFromModel(&l.History[i])
	}
	return Lane{
		Number:       l.Number,
		Busy:         l.IsBusy(),
		CurrentMatch: current,
		History:      history,
	}
}

// LaneDetail is a lane with its leaderboard
type LaneDetail struct {
	Lane
	Leaders []LaneLeader `json:"leaders"`
}

// SessionOpened is the response for opening a lane session
type SessionOpened struct {
	Lane  int   `json:"lane"`
	Match Match `json:"match"`
}

// PlayerStats counts a player's marks
type PlayerStats struct {
	Strikes      int `json:"strikes"`
	Spares       int `json:"spares"`
	OpenFrames   int `json:"open_frames"`
	GutterBalls  int `json:"gutter_balls"`
	Pins         int `json:"pins"`
	FramesBowled int `json:"frames_bowled"`
}

// Standing is a player's place in a match
type Standing struct {
	Position int         `json:"position"`
	Player   Player      `json:"player"`
	Total    int         `json:"total"`
	Final    bool        `json:"final"`
	Stats    PlayerStats `json:"stats"`
}

// StandingsFromModel converts ranked standings
func StandingsFromModel(standings []stats.Standing) []Standing {
	out := make([]Standing, len(standings))
	for i, st := range standings {
		out[i] = Standing{
			Position: st.Position,
			Player:   PlayerFromModel(st.Player),
			Total:    st.Total,
			Final:    st.Final,
			Stats: PlayerStats{
				Strikes:      st.Stats.Strikes,
				Spares:       st.Stats.Spares,
				OpenFrames:   st.Stats.OpenFrames,
				GutterBalls:  st.Stats.GutterBalls,
				Pins:         st.Stats.Pins,
				FramesBowled: st.Stats.FramesBowled,
			},
		}
	}
	return out
}

// LaneLeader is a bowler's record across a lane's archived games
type LaneLeader struct {
	Name    string  `json:"name"`
	Games   int     `json:"games"`
	Wins    int     `json:"wins"`
	Best    int     `json:"best"`
	Average float64 `json:"average"`
}

// LaneLeadersFromModel converts lane records
func LaneLeadersFromModel(records []stats.LaneRecord) []LaneLeader {
	out := make([]LaneLeader, len(records))
	for i, r := range records {
		out[i] = LaneLeader{
			Name:    r.Name,
			Games:   r.Games,
			Wins:    r.Wins,
			Best:    r.Best,
			Average: r.Average,
		}
	}
	return out
}

// Event represents a match event for SSE streams
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	MatchID   string    `json:"match_id"`
	Lane      int       `json:"lane"`
	PlayerID  string    `json:"player_id,omitempty"`
	Payload   any       `json:"payload,omitempty"`
}

// EventFromModel converts a model.Event, translating known payloads
func EventFromModel(e model.Event) Event {
	return Event{
		Type:      string(e.Type),
		Timestamp: e.Timestamp,
		MatchID:   string(e.MatchID),
		Lane:      e.LaneNumber,
		PlayerID:  string(e.PlayerID),
		Payload:   payloadFromModel(e.Payload),
	}
}

func payloadFromModel(payload any) any {
	switch p := payload.(type) {
	case model.PlayerAddedPayload:
		return map[string]any{"player": PlayerFromModel(p.Player)}
	case model.PlayerRemovedPayload:
		return map[string]any{"player_id": string(p.PlayerID), "name": p.Name}
	case model.ThrowRecordedPayload:
		return map[string]any{
			"slot":    SlotFromModel(&p.Slot),
			"pins":    p.Pins,
			"display": p.Display,
			"next":    SlotFromModel(p.Next),
		}
	case model.MatchCompletePayload:
		scores := make(map[string]int, len(p.FinalScores))
		for id, score := range p.FinalScores {
			scores[string(id)] = score
		}
		return map[string]any{"final_scores": scores, "winners": playerIDs(p.Winners)}
	case model.SessionClosedPayload:
		return map[string]any{"summary": MatchSummaryFromModel(&p.Summary)}
	default:
		return payload
	}
}

// Health is the health check response
type Health struct {
	Status  string `json:"status"`
	Storage string `json:"storage,omitempty"`
}

func playerIDs(ids []model.PlayerID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}
