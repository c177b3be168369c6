package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcoot/bowlscore/internal/api/response"
)

// HTML fragments pushed for the browser scoreboard
const boardUpdateEvent = "board-update"

func newEventsCmd() *cobra.Command {
	var jsonOutput bool
	var withHTML bool

	cmd := &cobra.Command{
		Use:   "events <match-id>",
		Short: "Stream live events from a match",
		Long: `Connect to the match event stream and print events as they happen.

Events include:
  - connected: Stream opened
  - player_added / player_removed: Roster changed
  - match_started: First throw recorded
  - throw_recorded: A throw was scored
  - match_completed: Every player finished frame 10
  - session_closed: The lane session was closed

The stream ends when the session closes. Press Ctrl+C to disconnect.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return streamEvents(ctx, cmd.OutOrStdout(), args[0], jsonOutput, withHTML)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output events as JSON lines")
	cmd.Flags().BoolVar(&withHTML, "html", false, "Include HTML board-update events")

	return cmd
}

// SSEEvent represents a parsed SSE event
type SSEEvent struct {
	Time  time.Time `json:"time"`
	Event string    `json:"event"`
	Data  string    `json:"data"`
}

func streamEvents(ctx context.Context, w io.Writer, matchID string, jsonOutput, withHTML bool) error {
	url := strings.TrimSuffix(cfg.ServerURL, "/") + matchPath(matchID, "events")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	// No timeout for the stream
	httpClient := &http.Client{}

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		var errResp ErrorResponse
		if json.NewDecoder(resp.Body).Decode(&errResp) == nil && errResp.Error.Code != "" {
			errResp.Error.Status = resp.StatusCode
			return &errResp.Error
		}
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	if !jsonOutput {
		_, _ = fmt.Fprintf(w, "Connected to match %s\n", matchID)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	var currentEvent string
	var dataLines []string

	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, "event: "):
			currentEvent = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			dataLines = append(dataLines, strings.TrimPrefix(line, "data: "))
		case line == "":
			if currentEvent != "" && (withHTML || currentEvent != boardUpdateEvent) {
				printEvent(w, currentEvent, strings.Join(dataLines, "\n"), jsonOutput)
			}
			currentEvent = ""
			dataLines = nil
		}
	}

	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("stream error: %w", err)
	}

	if !jsonOutput {
		_, _ = fmt.Fprintln(w, "Disconnected")
	}
	return nil
}

func printEvent(w io.Writer, event, data string, jsonOutput bool) {
	now := time.Now()

	if jsonOutput {
		evt := SSEEvent{
			Time:  now,
			Event: event,
			Data:  data,
		}
		jsonData, _ := json.Marshal(evt)
		_, _ = fmt.Fprintln(w, string(jsonData))
		return
	}

	timestamp := now.Format("2006-01-02 15:04:05")
	_, _ = fmt.Fprintf(w, "[%s] %s: %s\n", timestamp, event, describeEvent(data))
}

// describeEvent summarises a JSON match event, falling back to the raw data
func describeEvent(data string) string {
	var evt response.Event
	if err := json.Unmarshal([]byte(data), &evt); err != nil || evt.Type == "" {
		display := strings.ReplaceAll(data, "\n", " ")
		if len(display) > 100 {
			display = display[:100] + "..."
		}
		return display
	}

	parts := []string{"lane " + fmt.Sprint(evt.Lane)}
	if evt.PlayerID != "" {
		parts = append(parts, "player "+evt.PlayerID)
	}
	if evt.Payload != nil {
		payload, _ := json.Marshal(evt.Payload)
		parts = append(parts, string(payload))
	}
	return strings.Join(parts, " ")
}
