package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/mcoot/bowlscore/internal/api/response"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	if w == nil {
		w = os.Stdout
	}
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == FormatJSON {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == FormatJSON {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		_, _ = fmt.Fprintln(os.Stderr, string(data))
	} else {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == FormatJSON {
		data, _ := json.Marshal(map[string]string{"message": msg})
		o.println(string(data))
	} else {
		o.println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case []response.Lane:
		o.printLanes(v)
	case response.LaneDetail:
		o.printLaneDetail(v)
	case response.SessionOpened:
		o.printf("Session opened on lane %d\n", v.Lane)
		o.printMatch(v.Match)
	case response.MatchSummary:
		o.printSummary(v)
	case response.Match:
		o.printMatch(v)
	case response.Player:
		o.printf("Player: %s (%s), position %d\n", v.Name, v.ID, v.Order+1)
	case *response.Slot:
		o.printSlot(v)
	case response.ThrowResult:
		o.printThrowResult(v)
	case response.Scoreboard:
		o.printScoreboard(v)
	case []response.Standing:
		o.printStandings(v)
	case response.Health:
		o.printHealth(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(o.w, format, args...)
}

func (o *Output) println(s string) {
	_, _ = fmt.Fprintln(o.w, s)
}

func (o *Output) table() *tabwriter.Writer {
	return tabwriter.NewWriter(o.w, 0, 0, 2, ' ', 0)
}

func (o *Output) printLanes(lanes []response.Lane) {
	tw := o.table()
	_, _ = fmt.Fprintln(tw, "LANE\tSTATUS\tMATCH\tGAMES")
	for _, l := range lanes {
		status, current := "free", "-"
		if l.Busy {
			status = "busy"
		}
		if l.CurrentMatch != nil {
			current = *l.CurrentMatch
		}
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%d\n", l.Number, status, current, len(l.History))
	}
	_ = tw.Flush()
}

func (o *Output) printLaneDetail(d response.LaneDetail) {
	o.printLanes([]response.Lane{d.Lane})
	if len(d.History) > 0 {
		o.println("\nHistory:")
		for _, s := range d.History {
			o.printf("  %s  winners: %s\n", s.MatchID, strings.Join(s.Winners, ", "))
		}
	}
	if len(d.Leaders) > 0 {
		o.println("\nLeaders:")
		tw := o.table()
		_, _ = fmt.Fprintln(tw, "  NAME\tGAMES\tWINS\tBEST\tAVG")
		for _, l := range d.Leaders {
			_, _ = fmt.Fprintf(tw, "  %s\t%d\t%d\t%d\t%.1f\n", l.Name, l.Games, l.Wins, l.Best, l.Average)
		}
		_ = tw.Flush()
	}
}

func (o *Output) printMatch(m response.Match) {
	o.printf("Match: %s\n", m.ID)
	o.printf("Lane: %d\n", m.Lane)
	if m.ReservationID != "" {
		o.printf("Reservation: %s\n", m.ReservationID)
	}
	o.printf("State: %s\n", m.State)
	o.printf("Version: %d\n", m.Version)
	o.printf("Players (%d):\n", len(m.Players))
	for _, p := range m.Players {
		o.printf("  %d. %s (%s)\n", p.Order+1, p.Name, p.ID)
	}
}

func (o *Output) printSummary(s response.MatchSummary) {
	o.printf("Match: %s\n", s.MatchID)
	if s.Complete {
		o.println("Complete: yes")
	} else {
		o.println("Complete: no")
	}
	for _, p := range s.Players {
		o.printf("  %s: %d\n", p.Name, s.FinalScores[p.ID])
	}
	if len(s.Winners) > 0 {
		o.printf("Winners: %s\n", strings.Join(s.Winners, ", "))
	}
}

func (o *Output) printSlot(s *response.Slot) {
	if s == nil {
		o.println("Match complete, no throws remain")
		return
	}
	o.printf("Up: %s (%s), frame %d throw %d, %d pins standing\n",
		s.PlayerName, s.PlayerID, s.Frame, s.Throw, s.MaxPins)
}

func (o *Output) printThrowResult(r response.ThrowResult) {
	o.printf("%s: frame %d [%s]  total %d\n", r.Slot.PlayerName, r.Frame.Number, r.Frame.Display, r.Row.Total)
	o.printf("Version: %d\n", r.Version)
	if r.MatchComplete {
		o.println("Match complete!")
		if len(r.Winners) > 0 {
			o.printf("Winners: %s\n", strings.Join(r.Winners, ", "))
		}
		return
	}
	o.printSlot(r.Next)
}

func (o *Output) printScoreboard(b response.Scoreboard) {
	o.printf("Match: %s (%s, version %d)\n", b.MatchID, b.State, b.Version)

	tw := o.table()
	header := []string{"PLAYER"}
	for i := 1; i <= 10; i++ {
		header = append(header, fmt.Sprintf("%d", i))
	}
	header = append(header, "TOTAL")
	_, _ = fmt.Fprintln(tw, strings.Join(header, "\t"))

	for _, row := range b.Rows {
		marks := []string{row.Player.Name}
		scores := []string{""}
		for _, f := range row.Frames {
			marks = append(marks, f.Display)
			if f.Cumulative != nil {
				scores = append(scores, fmt.Sprintf("%d", *f.Cumulative))
			} else {
				scores = append(scores, "")
			}
		}
		for len(marks) < 11 {
			marks = append(marks, "")
			scores = append(scores, "")
		}
		marks = append(marks, fmt.Sprintf("%d", row.Total))
		_, _ = fmt.Fprintln(tw, strings.Join(marks, "\t"))
		_, _ = fmt.Fprintln(tw, strings.Join(scores, "\t"))
	}
	_ = tw.Flush()

	if b.Complete {
		o.printf("\nWinners: %s\n", strings.Join(b.Winners, ", "))
		return
	}
	o.println("")
	o.printSlot(b.Next)
}

func (o *Output) printStandings(standings []response.Standing) {
	tw := o.table()
	_, _ = fmt.Fprintln(tw, "POS\tPLAYER\tTOTAL\tSTRIKES\tSPARES\tOPEN")
	for _, s := range standings {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%d\n",
			s.Position, s.Player.Name, s.Total, s.Stats.Strikes, s.Stats.Spares, s.Stats.OpenFrames)
	}
	_ = tw.Flush()
}

func (o *Output) printHealth(h response.Health) {
	o.printf("Status: %s\n", h.Status)
	if h.Storage != "" {
		o.printf("Storage: %s\n", h.Storage)
	}
}
