package match

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/bowlscore/internal/dependencies/mocks"
	"github.com/mcoot/bowlscore/internal/model"
	"github.com/mcoot/bowlscore/internal/services/scorecard"
	"github.com/mcoot/bowlscore/internal/services/scoring"
	"github.com/mcoot/bowlscore/internal/storage/memory"
	"github.com/mcoot/bowlscore/internal/testutil"
)

// recordingPublisher captures published events
type recordingPublisher struct {
	mu     sync.Mutex
	events []model.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, event model.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) types() []model.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]model.EventType, len(p.events))
	for i, e := range p.events {
		types[i] = e.Type
	}
	return types
}

// racingStorage lets another writer commit first on the next CommitMatch
type racingStorage struct {
	*memory.Storage
	race bool
}

func (r *racingStorage) CommitMatch(ctx context.Context, match *model.Match, cards []*model.Scorecard, removed []model.PlayerID, expectedVersion int64) error {
	if r.race {
		r.race = false
		current, err := r.Storage.GetMatch(ctx, match.ID)
		if err != nil {
			return err
		}
		current.Version++
		if err := r.Storage.CommitMatch(ctx, current, nil, nil, expectedVersion); err != nil {
			return err
		}
	}
	return r.Storage.CommitMatch(ctx, match, cards, removed, expectedVersion)
}

type ControllerSuite struct {
	suite.Suite
	storage    *racingStorage
	clock      *mocks.MockClock
	random     *mocks.MockRandom
	publisher  *recordingPublisher
	controller *Controller
	ctx        context.Context
	matchID    model.MatchID
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.storage = &racingStorage{Storage: memory.New()}
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.publisher = &recordingPublisher{}
	s.controller = NewController(
		s.storage,
		scorecard.New(s.storage),
		scoring.New(),
		s.clock,
		s.random,
		testutil.NopLogger(),
		s.publisher,
		4,
	)
	s.ctx = context.Background()

	s.random.QueueString("MATCH0000001")
	match, err := s.controller.CreateMatch(s.ctx, 5, "RES-1")
	s.Require().NoError(err)
	s.matchID = match.ID
}

// addPlayers adds players named after their IDs
func (s *ControllerSuite) addPlayers(ids ...model.PlayerID) {
	for _, id := range ids {
		s.random.QueueString(string(id))
		_, err := s.controller.AddPlayer(s.ctx, s.matchID, string(id))
		s.Require().NoError(err)
	}
}

// version reads the match version a scorer would submit with their next throw
func (s *ControllerSuite) version() int64 {
	match, err := s.controller.GetMatch(s.ctx, s.matchID)
	s.Require().NoError(err)
	return match.Version
}

func (s *ControllerSuite) input(playerID model.PlayerID, pins int) model.ThrowInput {
	return model.ThrowInput{PlayerID: playerID, Pins: pins, Version: s.version()}
}

func (s *ControllerSuite) throw(playerID model.PlayerID, pins int) *model.ThrowResult {
	result, err := s.controller.RecordThrow(s.ctx, s.matchID, s.input(playerID, pins))
	s.Require().NoError(err)
	return result
}

func (s *ControllerSuite) throwAll(playerID model.PlayerID, pins ...int) *model.ThrowResult {
	var result *model.ThrowResult
	for _, p := range pins {
		result = s.throw(playerID, p)
	}
	return result
}

func repeat(pins, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = pins
	}
	return out
}

// CreateMatch tests

func (s *ControllerSuite) TestCreateMatchSucceeds() {
	match, err := s.controller.GetMatch(s.ctx, s.matchID)
	s.Require().NoError(err)

	s.Equal(model.MatchID("MATCH0000001"), match.ID)
	s.Equal(5, match.LaneNumber)
	s.Equal("RES-1", match.ReservationID)
	s.Equal(model.MatchStateNotStarted, match.State)
	s.Empty(match.Players)
	s.Equal(int64(0), match.Version)
}

// AddPlayer tests

func (s *ControllerSuite) TestAddPlayerSucceeds() {
	s.random.QueueString("PLAYER000001")
	player, err := s.controller.AddPlayer(s.ctx, s.matchID, "  Alice  ")
	s.Require().NoError(err)

	s.Equal(model.PlayerID("PLAYER000001"), player.ID)
	s.Equal("Alice", player.Name)
	s.Equal(0, player.Order)

	match, err := s.controller.GetMatch(s.ctx, s.matchID)
	s.Require().NoError(err)
	s.Len(match.Players, 1)
	s.Equal(int64(1), match.Version)

	card, err := s.storage.GetScorecard(s.ctx, s.matchID, player.ID)
	s.Require().NoError(err)
	s.False(card.HasThrows())

	s.Equal([]model.EventType{model.EventPlayerAdded}, s.publisher.types())
}

func (s *ControllerSuite) TestAddPlayerAssignsJoinOrder() {
	s.addPlayers("alice", "bob", "carol")

	match, err := s.controller.GetMatch(s.ctx, s.matchID)
	s.Require().NoError(err)
	for i, p := range match.Players {
		s.Equal(i, p.Order)
	}
}

func (s *ControllerSuite) TestAddPlayerRejectsInvalidNames() {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"too long", "abcdefghijklmnopqrstuvwxyz0123456"},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.controller.AddPlayer(s.ctx, s.matchID, tt.input)
			s.ErrorIs(err, model.ErrInvalidPlayerName)
		})
	}
}

func (s *ControllerSuite) TestAddPlayerRejectsDuplicateName() {
	s.addPlayers("alice")

	_, err := s.controller.AddPlayer(s.ctx, s.matchID, "ALICE")
	s.ErrorIs(err, model.ErrDuplicatePlayerName)
}

func (s *ControllerSuite) TestAddPlayerRejectsFullMatch() {
	s.addPlayers("p1", "p2", "p3", "p4")

	_, err := s.controller.AddPlayer(s.ctx, s.matchID, "p5")
	s.ErrorIs(err, model.ErrMatchFull)
}

func (s *ControllerSuite) TestAddPlayerAfterFirstThrowFails() {
	s.addPlayers("alice")
	s.throw("alice", 3)

	_, err := s.controller.AddPlayer(s.ctx, s.matchID, "bob")
	s.ErrorIs(err, model.ErrMatchAlreadyStarted)

	match, err := s.controller.GetMatch(s.ctx, s.matchID)
	s.Require().NoError(err)
	s.Len(match.Players, 1)
}

func (s *ControllerSuite) TestAddPlayerMatchNotFound() {
	_, err := s.controller.AddPlayer(s.ctx, "missing", "alice")
	s.ErrorIs(err, model.ErrMatchNotFound)
}

// RemovePlayer tests

func (s *ControllerSuite) TestRemovePlayerRenumbersOrder() {
	s.addPlayers("alice", "bob", "carol")

	s.Require().NoError(s.controller.RemovePlayer(s.ctx, s.matchID, "alice"))

	match, err := s.controller.GetMatch(s.ctx, s.matchID)
	s.Require().NoError(err)
	s.Require().Len(match.Players, 2)
	s.Equal(model.PlayerID("bob"), match.Players[0].ID)
	s.Equal(0, match.Players[0].Order)
	s.Equal(1, match.Players[1].Order)

	_, err = s.storage.GetScorecard(s.ctx, s.matchID, "alice")
	s.ErrorIs(err, model.ErrScorecardNotFound)

	board, err := s.controller.Scoreboard(s.ctx, s.matchID)
	s.Require().NoError(err)
	s.Len(board.Rows, 2)
	s.Nil(board.Row("alice"))
}

func (s *ControllerSuite) TestRemovePlayerConflictKeepsRosterAndScorecard() {
	s.addPlayers("alice", "bob")
	s.storage.race = true

	err := s.controller.RemovePlayer(s.ctx, s.matchID, "alice")
	s.ErrorIs(err, model.ErrConcurrencyConflict)

	match, err := s.controller.GetMatch(s.ctx, s.matchID)
	s.Require().NoError(err)
	s.Len(match.Players, 2)
	_, err = s.storage.GetScorecard(s.ctx, s.matchID, "alice")
	s.NoError(err)
}

func (s *ControllerSuite) TestRemovePlayerAfterStartFails() {
	s.addPlayers("alice", "bob")
	s.throw("alice", 3)

	err := s.controller.RemovePlayer(s.ctx, s.matchID, "bob")
	s.ErrorIs(err, model.ErrMatchAlreadyStarted)
}

func (s *ControllerSuite) TestRemovePlayerNotFound() {
	err := s.controller.RemovePlayer(s.ctx, s.matchID, "nobody")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// NextThrow tests

func (s *ControllerSuite) TestNextThrowWithNoPlayers() {
	_, err := s.controller.NextThrow(s.ctx, s.matchID)
	s.ErrorIs(err, model.ErrNoPlayers)
}

func (s *ControllerSuite) TestNextThrowStartsWithFirstPlayer() {
	s.addPlayers("alice", "bob")

	slot, err := s.controller.NextThrow(s.ctx, s.matchID)
	s.Require().NoError(err)
	s.Equal(model.PlayerID("alice"), slot.PlayerID)
	s.Equal("alice", slot.PlayerName)
	s.Equal(1, slot.Frame)
	s.Equal(1, slot.Throw)
	s.Equal(10, slot.MaxPins)
}

func (s *ControllerSuite) TestStrikeSkipsSecondThrow() {
	s.addPlayers("alice")
	s.throw("alice", 10)

	slot, err := s.controller.NextThrow(s.ctx, s.matchID)
	s.Require().NoError(err)
	s.Equal(2, slot.Frame)
	s.Equal(1, slot.Throw)
}

func (s *ControllerSuite) TestSecondThrowMaxIsRemainingPins() {
	s.addPlayers("alice")
	result := s.throw("alice", 6)

	s.Require().NotNil(result.Next)
	s.Equal(2, result.Next.Throw)
	s.Equal(4, result.Next.MaxPins)
}

// RecordThrow tests

func (s *ControllerSuite) TestFirstThrowStartsMatch() {
	s.addPlayers("alice")
	result := s.throw("alice", 7)

	s.Equal(model.MatchStateInProgress, result.Match.State)
	s.Require().NotNil(result.Match.StartedAt)
	s.Equal(s.clock.Now(), *result.Match.StartedAt)
	s.Equal("7 -", result.Frame.Display)
	s.False(result.MatchComplete)

	s.Equal([]model.EventType{
		model.EventPlayerAdded,
		model.EventMatchStarted,
		model.EventThrowRecorded,
	}, s.publisher.types())
}

func (s *ControllerSuite) TestRecordThrowOutOfTurn() {
	s.addPlayers("alice", "bob")

	_, err := s.controller.RecordThrow(s.ctx, s.matchID, s.input("bob", 3))
	s.ErrorIs(err, model.ErrOutOfTurn)

	_, err = s.controller.RecordThrow(s.ctx, s.matchID, s.input("nobody", 3))
	s.ErrorIs(err, model.ErrOutOfTurn)
}

func (s *ControllerSuite) TestRecordThrowRejectsInvalidPinsWithoutMutation() {
	s.addPlayers("alice")
	s.throw("alice", 6)

	for _, pins := range []int{-1, 5, 11} {
		_, err := s.controller.RecordThrow(s.ctx, s.matchID, s.input("alice", pins))
		s.ErrorIs(err, model.ErrInvalidPinCount)
	}

	card, err := s.storage.GetScorecard(s.ctx, s.matchID, "alice")
	s.Require().NoError(err)
	s.Nil(card.Frames[0].Throw2)

	match, err := s.controller.GetMatch(s.ctx, s.matchID)
	s.Require().NoError(err)
	s.Equal(int64(2), match.Version)
}

func (s *ControllerSuite) TestRecordThrowWithNoPlayers() {
	_, err := s.controller.RecordThrow(s.ctx, s.matchID, model.ThrowInput{PlayerID: "alice", Pins: 3, Version: 1})
	s.ErrorIs(err, model.ErrNoPlayers)
}

func (s *ControllerSuite) TestRoundRobinByFrame() {
	s.addPlayers("alice", "bob")

	s.throwAll("alice", 3, 4)
	_, err := s.controller.RecordThrow(s.ctx, s.matchID, s.input("alice", 3))
	s.ErrorIs(err, model.ErrOutOfTurn)

	result := s.throw("bob", 10)
	s.Require().NotNil(result.Next)
	s.Equal(model.PlayerID("alice"), result.Next.PlayerID)
	s.Equal(2, result.Next.Frame)
}

func (s *ControllerSuite) TestPerfectGame() {
	s.addPlayers("alice")
	result := s.throwAll("alice", repeat(10, 12)...)

	s.True(result.MatchComplete)
	s.Nil(result.Next)
	s.Equal(300, result.Row.Total)
	s.True(result.Row.Final)
	s.Equal("X X X", result.Frame.Display)
	s.Equal([]model.PlayerID{"alice"}, result.Winners)
	s.Equal(model.MatchStateComplete, result.Match.State)
	s.Require().NotNil(result.Match.CompletedAt)

	_, err := s.controller.RecordThrow(s.ctx, s.matchID, s.input("alice", 0))
	s.ErrorIs(err, model.ErrMatchComplete)

	types := s.publisher.types()
	s.Equal(model.EventMatchComplete, types[len(types)-1])
}

func (s *ControllerSuite) TestOpenTenthAllowsNoThirdThrow() {
	s.addPlayers("alice")
	s.throwAll("alice", repeat(0, 18)...)
	result := s.throwAll("alice", 4, 5)

	s.True(result.MatchComplete)
	s.Equal(9, result.Row.Total)
}

func (s *ControllerSuite) TestTenthFrameStrikeAllowsFullSecondThrow() {
	s.addPlayers("alice")
	s.throwAll("alice", repeat(0, 18)...)
	result := s.throw("alice", 10)

	s.Require().NotNil(result.Next)
	s.Equal(10, result.Next.Frame)
	s.Equal(2, result.Next.Throw)
	s.Equal(10, result.Next.MaxPins)
}

func (s *ControllerSuite) TestTiedLeadersAreAllWinners() {
	s.addPlayers("alice", "bob")
	for i := 0; i < 10; i++ {
		s.throwAll("alice", 4, 4)
		s.throwAll("bob", 4, 4)
	}

	board, err := s.controller.Scoreboard(s.ctx, s.matchID)
	s.Require().NoError(err)
	s.True(board.Complete)
	s.ElementsMatch([]model.PlayerID{"alice", "bob"}, board.Winners)
}

// Concurrency tests

func (s *ControllerSuite) TestStaleVersionIsRejected() {
	s.addPlayers("alice")
	board, err := s.controller.Scoreboard(s.ctx, s.matchID)
	s.Require().NoError(err)
	observed := board.Version

	_, err = s.controller.RecordThrow(s.ctx, s.matchID, model.ThrowInput{PlayerID: "alice", Pins: 4, Version: observed})
	s.Require().NoError(err)

	// Double submit of the same form
	_, err = s.controller.RecordThrow(s.ctx, s.matchID, model.ThrowInput{PlayerID: "alice", Pins: 4, Version: observed})
	s.ErrorIs(err, model.ErrConcurrencyConflict)

	card, err := s.storage.GetScorecard(s.ctx, s.matchID, "alice")
	s.Require().NoError(err)
	s.Nil(card.Frames[0].Throw2)
}

func (s *ControllerSuite) TestStoreConflictWritesNothing() {
	s.addPlayers("alice")
	s.storage.race = true

	_, err := s.controller.RecordThrow(s.ctx, s.matchID, s.input("alice", 4))
	s.ErrorIs(err, model.ErrConcurrencyConflict)

	card, err := s.storage.GetScorecard(s.ctx, s.matchID, "alice")
	s.Require().NoError(err)
	s.Nil(card.Frames[0].Throw1)
}

func (s *ControllerSuite) TestConcurrentThrowsForSameSlot() {
	s.addPlayers("alice", "bob")
	board, err := s.controller.Scoreboard(s.ctx, s.matchID)
	s.Require().NoError(err)

	const writers = 8
	errs := make([]error, writers)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.controller.RecordThrow(s.ctx, s.matchID, model.ThrowInput{
				PlayerID: "alice",
				Pins:     i,
				Version:  board.Version,
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		s.ErrorIs(err, model.ErrConcurrencyConflict)
	}
	s.Equal(1, succeeded)

	card, err := s.storage.GetScorecard(s.ctx, s.matchID, "alice")
	s.Require().NoError(err)
	s.Require().NotNil(card.Frames[0].Throw1)
	s.Nil(card.Frames[0].Throw2)
	s.Equal(0, s.controller.locks.size())
}

func (s *ControllerSuite) TestVersionlessDoubleSubmitIsRejected() {
	s.addPlayers("alice", "bob")

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.controller.RecordThrow(s.ctx, s.matchID, model.ThrowInput{PlayerID: "alice", Pins: 3})
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		s.ErrorIs(err, model.ErrVersionRequired)
	}

	card, err := s.storage.GetScorecard(s.ctx, s.matchID, "alice")
	s.Require().NoError(err)
	s.Nil(card.Frames[0].Throw1)
	s.Equal(int64(2), s.version())
}

func (s *ControllerSuite) TestDoubleSubmitWithSameVersionAppliesOnce() {
	s.addPlayers("alice", "bob")
	observed := s.version()

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.controller.RecordThrow(s.ctx, s.matchID, model.ThrowInput{PlayerID: "alice", Pins: 3, Version: observed})
		}(i)
	}
	wg.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			s.ErrorIs(err, model.ErrConcurrencyConflict)
			failed++
		}
	}
	s.Equal(1, failed)

	card, err := s.storage.GetScorecard(s.ctx, s.matchID, "alice")
	s.Require().NoError(err)
	s.Require().NotNil(card.Frames[0].Throw1)
	s.Equal(3, *card.Frames[0].Throw1)
	s.Nil(card.Frames[0].Throw2)
	s.Equal(observed+1, s.version())
}

// Scoreboard tests

func (s *ControllerSuite) TestScoreboardShowsPendingBonus() {
	s.addPlayers("alice")
	s.throwAll("alice", 10, 3)

	board, err := s.controller.Scoreboard(s.ctx, s.matchID)
	s.Require().NoError(err)

	row := board.Row("alice")
	s.Require().NotNil(row)
	s.Equal("X", row.Frames[0].Display)
	s.Nil(row.Frames[0].Score)
	s.Equal("3 -", row.Frames[1].Display)
	s.Require().NotNil(board.Next)
	s.Equal(2, board.Next.Throw)
}

func (s *ControllerSuite) TestScoreboardMatchNotFound() {
	_, err := s.controller.Scoreboard(s.ctx, "missing")
	s.ErrorIs(err, model.ErrMatchNotFound)
}

func (s *ControllerSuite) TestSnapshotReturnsMatchBoardAndCards() {
	s.addPlayers("alice", "bob")
	s.throw("alice", 7)

	match, board, cards, err := s.controller.Snapshot(s.ctx, s.matchID)
	s.Require().NoError(err)

	s.Equal(match.Version, board.Version)
	s.Len(board.Rows, 2)
	s.Len(cards, 2)
	s.Require().NotNil(cards["alice"])
	s.Equal("7 -", board.Row("alice").Frames[0].Display)
}

// ArchiveMatch tests

func (s *ControllerSuite) TestArchiveMatchSummarizesAndDeletes() {
	s.addPlayers("alice")
	s.throwAll("alice", repeat(5, 21)...)

	summary, err := s.controller.ArchiveMatch(s.ctx, s.matchID)
	s.Require().NoError(err)

	s.Equal(s.matchID, summary.MatchID)
	s.Equal("RES-1", summary.ReservationID)
	s.True(summary.Complete)
	s.Equal(150, summary.FinalScores["alice"])
	s.Equal([]model.PlayerID{"alice"}, summary.Winners)

	_, err = s.controller.GetMatch(s.ctx, s.matchID)
	s.ErrorIs(err, model.ErrMatchNotFound)
	cards, err := s.storage.GetScorecardsForMatch(s.ctx, s.matchID)
	s.Require().NoError(err)
	s.Empty(cards)
}

func (s *ControllerSuite) TestArchiveIncompleteMatchHasNoWinners() {
	s.addPlayers("alice")
	s.throwAll("alice", 7, 2)

	summary, err := s.controller.ArchiveMatch(s.ctx, s.matchID)
	s.Require().NoError(err)
	s.False(summary.Complete)
	s.Empty(summary.Winners)
	s.Equal(9, summary.FinalScores["alice"])
}
