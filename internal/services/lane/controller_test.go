package lane

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/bowlscore/internal/dependencies/mocks"
	"github.com/mcoot/bowlscore/internal/model"
	"github.com/mcoot/bowlscore/internal/services/match"
	"github.com/mcoot/bowlscore/internal/services/scorecard"
	"github.com/mcoot/bowlscore/internal/services/scoring"
	"github.com/mcoot/bowlscore/internal/storage/memory"
	"github.com/mcoot/bowlscore/internal/testutil"
)

type eventSink struct {
	events []model.Event
}

func (e *eventSink) Publish(ctx context.Context, event model.Event) {
	e.events = append(e.events, event)
}

type ControllerSuite struct {
	suite.Suite
	storage         *memory.Storage
	clock           *mocks.MockClock
	random          *mocks.MockRandom
	sink            *eventSink
	matchController *match.Controller
	controller      *Controller
	ctx             context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.sink = &eventSink{}
	s.matchController = match.NewController(
		s.storage,
		scorecard.New(s.storage),
		scoring.New(),
		s.clock,
		s.random,
		testutil.NopLogger(),
		nil,
		6,
	)
	s.controller = NewController(s.storage, s.matchController, s.clock, testutil.NopLogger(), s.sink, 3)
	s.ctx = context.Background()
}

// GetLane tests

func (s *ControllerSuite) TestGetLaneUnusedIsEmpty() {
	lane, err := s.controller.GetLane(s.ctx, 2)
	s.Require().NoError(err)

	s.Equal(2, lane.Number)
	s.False(lane.IsBusy())
	s.Empty(lane.History)
}

func (s *ControllerSuite) TestGetLaneOutOfRange() {
	for _, n := range []int{0, -1, 4} {
		_, err := s.controller.GetLane(s.ctx, n)
		s.ErrorIs(err, model.ErrLaneNotFound)
	}
}

func (s *ControllerSuite) TestListLanes() {
	lanes, err := s.controller.ListLanes(s.ctx)
	s.Require().NoError(err)

	s.Require().Len(lanes, 3)
	for i, lane := range lanes {
		s.Equal(i+1, lane.Number)
	}
}

// OpenSession tests

func (s *ControllerSuite) TestOpenSessionCreatesMatch() {
	s.random.QueueString("MATCH0000001")

	m, err := s.controller.OpenSession(s.ctx, 1, "RES-9")
	s.Require().NoError(err)

	s.Equal(model.MatchID("MATCH0000001"), m.ID)
	s.Equal(1, m.LaneNumber)
	s.Equal("RES-9", m.ReservationID)

	lane, err := s.controller.GetLane(s.ctx, 1)
	s.Require().NoError(err)
	s.Require().True(lane.IsBusy())
	s.Equal(m.ID, *lane.CurrentMatch)
}

func (s *ControllerSuite) TestOpenSessionOnBusyLaneFails() {
	s.random.QueueString("MATCH0000001")
	_, err := s.controller.OpenSession(s.ctx, 1, "")
	s.Require().NoError(err)

	_, err = s.controller.OpenSession(s.ctx, 1, "")
	s.ErrorIs(err, model.ErrLaneBusy)
}

func (s *ControllerSuite) TestOpenSessionUnknownLane() {
	_, err := s.controller.OpenSession(s.ctx, 9, "")
	s.ErrorIs(err, model.ErrLaneNotFound)
}

// CloseSession tests

func (s *ControllerSuite) TestCloseSessionArchivesMatch() {
	s.random.QueueString("MATCH0000001", "alice")
	m, err := s.controller.OpenSession(s.ctx, 1, "RES-1")
	s.Require().NoError(err)
	_, err = s.matchController.AddPlayer(s.ctx, m.ID, "Alice")
	s.Require().NoError(err)
	version := int64(1)
	for i := 0; i < 20; i++ {
		result, err := s.matchController.RecordThrow(s.ctx, m.ID, model.ThrowInput{PlayerID: "alice", Pins: 4, Version: version})
		s.Require().NoError(err)
		version = result.Match.Version
	}

	summary, err := s.controller.CloseSession(s.ctx, 1)
	s.Require().NoError(err)
	s.True(summary.Complete)
	s.Equal(80, summary.FinalScores["alice"])

	lane, err := s.controller.GetLane(s.ctx, 1)
	s.Require().NoError(err)
	s.False(lane.IsBusy())
	s.Require().Len(lane.History, 1)
	s.Equal(m.ID, lane.History[0].MatchID)

	_, err = s.matchController.GetMatch(s.ctx, m.ID)
	s.ErrorIs(err, model.ErrMatchNotFound)

	s.Require().Len(s.sink.events, 1)
	s.Equal(model.EventSessionClosed, s.sink.events[0].Type)
	s.Equal(1, s.sink.events[0].LaneNumber)
}

func (s *ControllerSuite) TestCloseSessionWithoutSessionFails() {
	_, err := s.controller.CloseSession(s.ctx, 2)
	s.ErrorIs(err, model.ErrNoSession)
}

func (s *ControllerSuite) TestCloseSessionWithExpiredMatch() {
	s.random.QueueString("MATCH0000001")
	m, err := s.controller.OpenSession(s.ctx, 1, "")
	s.Require().NoError(err)
	s.Require().NoError(s.storage.DeleteMatch(s.ctx, m.ID))

	summary, err := s.controller.CloseSession(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal(m.ID, summary.MatchID)
	s.False(summary.Complete)
}

func (s *ControllerSuite) TestLaneCanBeReopenedAfterClose() {
	s.random.QueueString("MATCH0000001", "MATCH0000002")
	_, err := s.controller.OpenSession(s.ctx, 1, "")
	s.Require().NoError(err)
	_, err = s.controller.CloseSession(s.ctx, 1)
	s.Require().NoError(err)

	m, err := s.controller.OpenSession(s.ctx, 1, "")
	s.Require().NoError(err)
	s.Equal(model.MatchID("MATCH0000002"), m.ID)
}

func (s *ControllerSuite) TestHistoryIsCapped() {
	for i := 0; i < MaxHistory+2; i++ {
		s.random.QueueString(fmt.Sprintf("MATCH%07d", i))
		_, err := s.controller.OpenSession(s.ctx, 1, "")
		s.Require().NoError(err)
		_, err = s.controller.CloseSession(s.ctx, 1)
		s.Require().NoError(err)
	}

	lane, err := s.controller.GetLane(s.ctx, 1)
	s.Require().NoError(err)
	s.Len(lane.History, MaxHistory)
}
