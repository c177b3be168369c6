package factory

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/mcoot/bowlscore/internal/dependencies/mocks"
	"github.com/mcoot/bowlscore/internal/model"
	"github.com/mcoot/bowlscore/internal/storage/memory"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp(cfg Config) *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	app := newWithDependencies(store, mockClock, mockRandom, cfg, logger)

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}

// Bowl records a run of throws for one player against the current match
// version, stopping at the first error
func (t *TestApp) Bowl(ctx context.Context, matchID model.MatchID, playerID model.PlayerID, pins ...int) (*model.ThrowResult, error) {
	match, err := t.MatchController.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	version := match.Version

	var result *model.ThrowResult
	for _, p := range pins {
		result, err = t.MatchController.RecordThrow(ctx, matchID, model.ThrowInput{PlayerID: playerID, Pins: p, Version: version})
		if err != nil {
			return result, err
		}
		version = result.Match.Version
	}
	return result, nil
}
