package api_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/bowlscore/internal/api"
	"github.com/mcoot/bowlscore/internal/api/apierr"
	"github.com/mcoot/bowlscore/internal/api/response"
	"github.com/mcoot/bowlscore/internal/factory"
)

// testServer wraps the API router around a test app
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	app := factory.NewTestApp(factory.Config{Logger: logger, Lanes: 4, MaxPlayers: 3})

	router := api.NewRouter(api.RouterConfig{
		Logger:          logger,
		LaneController:  app.LaneController,
		MatchController: app.MatchController,
		StatsService:    app.StatsService,
		HubManager:      app.HubManager,
		StorageType:     factory.StorageTypeMemory,
	})

	return &testServer{handler: router, app: app}
}

func (ts *testServer) request(method, path string, body any) *httptest.ResponseRecorder {
	var reqBody io.Reader = http.NoBody
	switch b := body.(type) {
	case nil:
	case string:
		reqBody = strings.NewReader(b)
	default:
		data, _ := json.Marshal(b)
		reqBody = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

// openMatch opens lane 1 and adds the named players, returning the match ID
func (ts *testServer) openMatch(t *testing.T, names ...string) string {
	t.Helper()

	rr := ts.request(http.MethodPost, "/api/v1/lanes/1/session", map[string]string{"reservation_id": "RES-9"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var opened response.SessionOpened
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &opened))

	for _, name := range names {
		ts.app.MockRandom.QueueString(strings.ToLower(name))
		rr := ts.request(http.MethodPost, "/api/v1/matches/"+opened.Match.ID+"/players", map[string]string{"name": name})
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	}
	return opened.Match.ID
}

// throw submits a throw against the match version the scorer currently sees
func (ts *testServer) throw(t *testing.T, matchID, playerID string, pins int) *httptest.ResponseRecorder {
	t.Helper()
	return ts.request(http.MethodPost, "/api/v1/matches/"+matchID+"/throws",
		map[string]any{"player_id": playerID, "pins": pins, "version": ts.version(t, matchID)})
}

func (ts *testServer) version(t *testing.T, matchID string) int64 {
	t.Helper()
	rr := ts.request(http.MethodGet, "/api/v1/matches/"+matchID, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var m response.Match
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &m))
	return m.Version
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var resp apierr.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.Error.Code
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))

	var resp response.Health
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "memory", resp.Storage)
}

func TestListLanes(t *testing.T) {
	ts := newTestServer(t)
	ts.openMatch(t)

	rr := ts.request(http.MethodGet, "/api/v1/lanes", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var lanes []response.Lane
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &lanes))
	require.Len(t, lanes, 4)
	assert.True(t, lanes[0].Busy)
	assert.False(t, lanes[1].Busy)
}

func TestLaneErrors(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/lanes/99", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeLaneNotFound, errorCode(t, rr))

	rr = ts.request(http.MethodDelete, "/api/v1/lanes/2/session", nil)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeNoSession, errorCode(t, rr))

	ts.openMatch(t)
	rr = ts.request(http.MethodPost, "/api/v1/lanes/1/session", nil)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeLaneBusy, errorCode(t, rr))
}

func TestAddAndRemovePlayer(t *testing.T) {
	ts := newTestServer(t)
	matchID := ts.openMatch(t, "Alice", "Bob")

	rr := ts.request(http.MethodPost, "/api/v1/matches/"+matchID+"/players", map[string]string{"name": "alice"})
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeDuplicatePlayerName, errorCode(t, rr))

	rr = ts.request(http.MethodPost, "/api/v1/matches/"+matchID+"/players", map[string]string{"name": "  "})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidPlayerName, errorCode(t, rr))

	rr = ts.request(http.MethodDelete, "/api/v1/matches/"+matchID+"/players/alice", nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/matches/"+matchID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var m response.Match
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &m))
	require.Len(t, m.Players, 1)
	assert.Equal(t, "Bob", m.Players[0].Name)
	assert.Equal(t, 0, m.Players[0].Order)
	assert.Equal(t, "RES-9", m.ReservationID)
}

func TestMatchFull(t *testing.T) {
	ts := newTestServer(t)
	matchID := ts.openMatch(t, "A", "B", "C")

	rr := ts.request(http.MethodPost, "/api/v1/matches/"+matchID+"/players", map[string]string{"name": "D"})
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeMatchFull, errorCode(t, rr))
}

func TestRecordThrow(t *testing.T) {
	ts := newTestServer(t)
	matchID := ts.openMatch(t, "Alice", "Bob")

	rr := ts.throw(t, matchID, "alice", 10)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var result response.ThrowResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	assert.Equal(t, "X", result.Frame.Display)
	assert.Nil(t, result.Frame.Score)
	require.NotNil(t, result.Next)
	assert.Equal(t, "bob", result.Next.PlayerID)
	assert.Equal(t, 1, result.Next.Frame)

	rr = ts.request(http.MethodGet, "/api/v1/matches/"+matchID+"/next", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var next response.Slot
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &next))
	assert.Equal(t, "bob", next.PlayerID)
	assert.Equal(t, 10, next.MaxPins)
}

func TestRecordThrowErrors(t *testing.T) {
	ts := newTestServer(t)
	matchID := ts.openMatch(t, "Alice", "Bob")

	tests := []struct {
		name   string
		body   any
		status int
		code   string
	}{
		{"out of turn", map[string]any{"player_id": "bob", "pins": 3, "version": 2}, http.StatusConflict, apierr.CodeOutOfTurn},
		{"unknown player", map[string]any{"player_id": "zed", "pins": 3, "version": 2}, http.StatusConflict, apierr.CodeOutOfTurn},
		{"too many pins", map[string]any{"player_id": "alice", "pins": 11, "version": 2}, http.StatusBadRequest, apierr.CodeInvalidPinCount},
		{"negative pins", map[string]any{"player_id": "alice", "pins": -1, "version": 2}, http.StatusBadRequest, apierr.CodeInvalidPinCount},
		{"fractional pins", `{"player_id":"alice","pins":4.5,"version":2}`, http.StatusBadRequest, apierr.CodeInvalidPinCount},
		{"malformed body", `{"player_id":`, http.StatusBadRequest, apierr.CodeInvalidRequest},
		{"stale version", map[string]any{"player_id": "alice", "pins": 3, "version": 1}, http.StatusConflict, apierr.CodeConcurrencyConflict},
		{"missing version", map[string]any{"player_id": "alice", "pins": 3}, http.StatusBadRequest, apierr.CodeVersionRequired},
		{"zero version", map[string]any{"player_id": "alice", "pins": 3, "version": 0}, http.StatusBadRequest, apierr.CodeVersionRequired},
		{"fractional version", `{"player_id":"alice","pins":3,"version":1.5}`, http.StatusBadRequest, apierr.CodeVersionRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := ts.request(http.MethodPost, "/api/v1/matches/"+matchID+"/throws", tt.body)
			assert.Equal(t, tt.status, rr.Code, rr.Body.String())
			assert.Equal(t, tt.code, errorCode(t, rr))
		})
	}

	// None of the rejected throws changed the match
	rr := ts.request(http.MethodGet, "/api/v1/matches/"+matchID+"/scoreboard", nil)
	var board response.Scoreboard
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &board))
	assert.Equal(t, "not_started", board.State)
	assert.Equal(t, "alice", board.Next.PlayerID)
}

func TestMatchAlreadyStartedAndComplete(t *testing.T) {
	ts := newTestServer(t)
	matchID := ts.openMatch(t, "Alice")

	for i := 0; i < 12; i++ {
		rr := ts.throw(t, matchID, "alice", 10)
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	}

	rr := ts.request(http.MethodPost, "/api/v1/matches/"+matchID+"/players", map[string]string{"name": "Late"})
	assert.Equal(t, apierr.CodeMatchAlreadyStarted, errorCode(t, rr))

	rr = ts.throw(t, matchID, "alice", 10)
	assert.Equal(t, apierr.CodeMatchComplete, errorCode(t, rr))

	rr = ts.request(http.MethodGet, "/api/v1/matches/"+matchID+"/scoreboard", nil)
	var board response.Scoreboard
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &board))
	assert.True(t, board.Complete)
	assert.Equal(t, []string{"alice"}, board.Winners)
	assert.Equal(t, 300, board.Rows[0].Total)
	assert.Equal(t, "X X X", board.Rows[0].Frames[9].Display)
}

func TestConcurrentThrowsOneWins(t *testing.T) {
	ts := newTestServer(t)
	matchID := ts.openMatch(t, "Alice")

	const writers = 6
	codes := make([]int, writers)
	var wg sync.WaitGroup
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rr := ts.request(http.MethodPost, "/api/v1/matches/"+matchID+"/throws",
				map[string]any{"player_id": "alice", "pins": 4, "version": 1})
			codes[i] = rr.Code
		}()
	}
	wg.Wait()

	created := 0
	for _, c := range codes {
		if c == http.StatusCreated {
			created++
		} else {
			assert.Equal(t, http.StatusConflict, c)
		}
	}
	assert.Equal(t, 1, created)
}

func TestOversizedThrowBodyIsRejected(t *testing.T) {
	ts := newTestServer(t)
	matchID := ts.openMatch(t, "Alice")

	rr := ts.request(http.MethodPost, "/api/v1/matches/"+matchID+"/throws",
		map[string]any{"player_id": strings.Repeat("a", 8<<10), "pins": 3, "version": 1})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidRequest, errorCode(t, rr))
	assert.Contains(t, rr.Body.String(), "too large")
}

func TestVersionlessDoubleSubmitIsRejected(t *testing.T) {
	ts := newTestServer(t)
	matchID := ts.openMatch(t, "Alice", "Bob")

	responses := make([]*httptest.ResponseRecorder, 2)
	var wg sync.WaitGroup
	for i := range responses {
		wg.Add(1)
		go func() {
			defer wg.Done()
			responses[i] = ts.request(http.MethodPost, "/api/v1/matches/"+matchID+"/throws",
				map[string]any{"player_id": "alice", "pins": 3})
		}()
	}
	wg.Wait()

	for _, rr := range responses {
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, apierr.CodeVersionRequired, errorCode(t, rr))
	}
	assert.Equal(t, int64(2), ts.version(t, matchID))
}

func TestStandings(t *testing.T) {
	ts := newTestServer(t)
	matchID := ts.openMatch(t, "Alice", "Bob")

	require.Equal(t, http.StatusCreated, ts.throw(t, matchID, "alice", 3).Code)
	require.Equal(t, http.StatusCreated, ts.throw(t, matchID, "alice", 4).Code)
	require.Equal(t, http.StatusCreated, ts.throw(t, matchID, "bob", 10).Code)

	rr := ts.request(http.MethodGet, "/api/v1/matches/"+matchID+"/standings", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var standings []response.Standing
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &standings))
	require.Len(t, standings, 2)
	assert.Equal(t, "alice", standings[0].Player.ID)
	assert.Equal(t, 7, standings[0].Total)
	assert.Equal(t, 1, standings[1].Stats.Strikes)
}

func TestCloseSessionArchives(t *testing.T) {
	ts := newTestServer(t)
	matchID := ts.openMatch(t, "Alice")

	rr := ts.request(http.MethodDelete, "/api/v1/lanes/1/session", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var summary response.MatchSummary
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &summary))
	assert.Equal(t, matchID, summary.MatchID)
	assert.False(t, summary.Complete)

	rr = ts.request(http.MethodGet, "/api/v1/matches/"+matchID, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeMatchNotFound, errorCode(t, rr))

	rr = ts.request(http.MethodGet, "/api/v1/lanes/1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"history":[{"match_id":"`+matchID)
}

func TestEventsStream(t *testing.T) {
	ts := newTestServer(t)
	matchID := ts.openMatch(t, "Alice")

	server := httptest.NewServer(ts.handler)
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/v1/matches/" + matchID + "/events")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := make(chan string, 64)
	go func() {
		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	waitFor := func(want string) {
		t.Helper()
		deadline := time.After(2 * time.Second)
		for {
			select {
			case line, ok := <-lines:
				require.True(t, ok, "stream ended before %q", want)
				if line == want {
					return
				}
			case <-deadline:
				t.Fatalf("did not see %q", want)
			}
		}
	}

	waitFor("retry: 3000")
	waitFor("event: connected")

	require.Equal(t, http.StatusCreated, ts.throw(t, matchID, "alice", 8).Code)
	waitFor("event: throw_recorded")
	waitFor("event: board-update")
}

func TestEventsUnknownMatch(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/matches/nope/events", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
