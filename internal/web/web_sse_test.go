package web_test

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/bowlscore/internal/model"
)

// TestSSE_EndpointHeaders verifies the SSE endpoint returns correct headers
func TestSSE_EndpointHeaders(t *testing.T) {
	ts := newWebTestServer(t)
	matchID := ts.openSession(1, "")

	// Use a context with timeout since SSE is a long-running connection
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/matches/"+matchID+"/events", nil).WithContext(ctx)

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	assert.Equal(t, "text/event-stream", rr.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", rr.Header().Get("Cache-Control"))
	assert.Equal(t, "keep-alive", rr.Header().Get("Connection"))
	assert.Equal(t, "no", rr.Header().Get("X-Accel-Buffering"))
	assert.Contains(t, rr.Body.String(), "retry: 3000\n")
	assert.Contains(t, rr.Body.String(), "event: connected\n")

	// The hub outlives the connection until the session closes
	assert.NotNil(t, ts.app.HubManager.GetHub(model.MatchID(matchID)))
}

// TestSSE_UnknownMatch verifies no stream opens for a missing match
func TestSSE_UnknownMatch(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.get("/matches/NOPE/events")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Nil(t, ts.app.HubManager.GetHub("NOPE"))
}

// TestSSE_DoesNotConsumeFlash verifies the stream leaves flash cookies alone
func TestSSE_DoesNotConsumeFlash(t *testing.T) {
	ts := newWebTestServer(t)
	matchID := ts.openSession(1, "")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/matches/"+matchID+"/events", nil).WithContext(ctx)
	ts.cookies.addTo(req)
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	assert.Empty(t, rr.Result().Cookies())

	doc := parseHTML(ts.get("/matches/" + matchID).Body)
	assertContainsElement(t, doc, ".flash-success")
}

// TestSSE_BoardUpdateOnThrow verifies a throw pushes fresh HTML to watchers
func TestSSE_BoardUpdateOnThrow(t *testing.T) {
	ts := newWebTestServer(t)
	matchID := ts.openSession(1, "")
	ts.addPlayer(matchID, "Alice")

	server := httptest.NewServer(ts.handler)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/matches/"+matchID+"/events", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	reader := bufio.NewReader(resp.Body)
	readUntil := func(prefix string) string {
		t.Helper()
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err, "stream ended before %q", prefix)
			if strings.HasPrefix(line, prefix) {
				return line
			}
		}
	}

	readUntil("event: connected")

	rr := ts.throw(matchID, "alice", 9)
	require.Equal(t, http.StatusSeeOther, rr.Code)

	readUntil("event: throw_recorded")
	readUntil("event: board-update")
	data := readUntil("data: ")
	assert.Contains(t, data, `id="scoreboard" hx-swap-oob="true"`)
	assert.Contains(t, data, `id="throw-prompt" hx-swap-oob="true"`)
	assert.Contains(t, data, `id="roster" hx-swap-oob="true"`)
}

// TestSSE_SessionCloseEndsStream verifies closing the lane ends the stream
func TestSSE_SessionCloseEndsStream(t *testing.T) {
	ts := newWebTestServer(t)
	matchID := ts.openSession(2, "")

	server := httptest.NewServer(ts.handler)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/matches/"+matchID+"/events", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		if scanner.Text() == "event: connected" {
			break
		}
	}

	require.Equal(t, http.StatusSeeOther, ts.post("/lanes/2/close", nil).Code)

	var events []string
	for scanner.Scan() {
		if name, ok := strings.CutPrefix(scanner.Text(), "event: "); ok {
			events = append(events, name)
		}
	}
	require.NoError(t, scanner.Err())
	assert.Equal(t, []string{"session_closed", "session-closed"}, events)
}
