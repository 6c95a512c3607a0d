package service

import (
	"context"
	"errors"
	"testing"

	"puttbot/events"
	"puttbot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type serviceMocks struct {
	factory *MockUnitOfWorkFactory
	uow     *MockUnitOfWork
	players *MockPlayerRepository
	bets    *MockBetRepository
	pending *MockPendingGameRepository
	courses *MockCourseRepository
}

func newServiceMocks(ctx context.Context) *serviceMocks {
	m := &serviceMocks{
		factory: new(MockUnitOfWorkFactory),
		uow:     new(MockUnitOfWork),
		players: new(MockPlayerRepository),
		bets:    new(MockBetRepository),
		pending: new(MockPendingGameRepository),
		courses: new(MockCourseRepository),
	}
	m.uow.SetRepositories(m.players, m.bets, m.pending, m.courses)
	m.factory.On("Create").Return(m.uow)
	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Rollback").Return(nil)
	return m
}

func (m *serviceMocks) assertExpectations(t *testing.T) {
	m.factory.AssertExpectations(t)
	m.uow.AssertExpectations(t)
	m.players.AssertExpectations(t)
	m.bets.AssertExpectations(t)
	m.pending.AssertExpectations(t)
	m.courses.AssertExpectations(t)
}

func TestBettingService_PlaceBet(t *testing.T) {
	ctx := context.Background()
	mocks := newServiceMocks(ctx)
	service := NewBettingService(mocks.factory)

	mocks.uow.On("Commit").Return(nil)
	mocks.players.On("GetOrCreate", ctx, "C").Return(models.NewPlayer("C"), nil)
	mocks.players.On("Debit", ctx, "C", int64(100)).Return(true, nil)
	mocks.bets.On("Create", ctx, mock.MatchedBy(func(b *models.Bet) bool {
		return b.PlayerID == "C" && b.Amount == 100 && b.Payout == 200 && b.Choice == "1" && b.Won == nil
	})).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Bet).ID = 7
	})

	bet := &models.Bet{PlayerID: "C", GameID: "game-1", Choice: "1", Amount: 100, Odds: 0.5}
	err := service.PlaceBet(ctx, bet)

	require.NoError(t, err)
	assert.Equal(t, int64(7), bet.ID)
	assert.Equal(t, int64(200), bet.Payout)

	published := mocks.uow.PublishedEvents()
	require.Len(t, published, 2)
	assert.Equal(t, events.BalanceChangeEvent{PlayerID: "C", ChangeAmount: -100, Reason: events.BalanceReasonBetPlaced, GameID: "game-1"}, published[0])
	assert.Equal(t, int64(7), published[1].(events.BetPlacedEvent).BetID)

	mocks.assertExpectations(t)
}

func TestBettingService_PlaceBet_InsufficientFunds(t *testing.T) {
	ctx := context.Background()
	mocks := newServiceMocks(ctx)
	service := NewBettingService(mocks.factory)

	poor := models.NewPlayer("C")
	poor.Credits = 50
	mocks.players.On("GetOrCreate", ctx, "C").Return(poor, nil)
	mocks.players.On("Debit", ctx, "C", int64(100)).Return(false, nil)

	err := service.PlaceBet(ctx, &models.Bet{PlayerID: "C", GameID: "game-1", Choice: "1", Amount: 100, Odds: 0.5})

	assert.ErrorIs(t, err, ErrInsufficientFunds)
	mocks.bets.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	mocks.uow.AssertNotCalled(t, "Commit")
	assert.Empty(t, mocks.uow.PublishedEvents())
	mocks.factory.AssertNumberOfCalls(t, "Create", 1)
	mocks.assertExpectations(t)
}

func TestBettingService_PlaceBet_RetriesTransientErrorOnce(t *testing.T) {
	ctx := context.Background()
	mocks := newServiceMocks(ctx)
	service := NewBettingService(mocks.factory)

	mocks.uow.On("Commit").Return(nil)
	mocks.players.On("GetOrCreate", ctx, "C").Return(models.NewPlayer("C"), nil)
	mocks.players.On("Debit", ctx, "C", int64(100)).Return(false, errors.New("connection reset")).Once()
	mocks.players.On("Debit", ctx, "C", int64(100)).Return(true, nil).Once()
	mocks.bets.On("Create", ctx, mock.Anything).Return(nil)

	err := service.PlaceBet(ctx, &models.Bet{PlayerID: "C", GameID: "game-1", Choice: "1", Amount: 100, Odds: 0.5})

	require.NoError(t, err)
	mocks.factory.AssertNumberOfCalls(t, "Create", 2)
	mocks.assertExpectations(t)
}

func TestBettingService_PlaceBet_CommitFailureIsNotReplayed(t *testing.T) {
	ctx := context.Background()
	mocks := newServiceMocks(ctx)
	service := NewBettingService(mocks.factory)

	mocks.uow.On("Commit").Return(errors.New("connection reset")).Once()
	mocks.players.On("GetOrCreate", ctx, "C").Return(models.NewPlayer("C"), nil)
	mocks.players.On("Debit", ctx, "C", int64(100)).Return(true, nil).Once()
	mocks.bets.On("Create", ctx, mock.Anything).Return(nil).Once()

	err := service.PlaceBet(ctx, &models.Bet{PlayerID: "C", GameID: "game-1", Choice: "1", Amount: 100, Odds: 0.5})

	assert.ErrorIs(t, err, ErrCommitUncertain)
	assert.NotErrorIs(t, err, ErrTransientStore)
	mocks.factory.AssertNumberOfCalls(t, "Create", 1)
	mocks.players.AssertNumberOfCalls(t, "Debit", 1)
	mocks.assertExpectations(t)
}

func TestBettingService_PlaceBet_GivesUpAfterSecondFailure(t *testing.T) {
	ctx := context.Background()
	mocks := newServiceMocks(ctx)
	service := NewBettingService(mocks.factory)

	mocks.players.On("GetOrCreate", ctx, "C").Return(nil, errors.New("connection refused"))

	err := service.PlaceBet(ctx, &models.Bet{PlayerID: "C", GameID: "game-1", Choice: "1", Amount: 100, Odds: 0.5})

	assert.ErrorIs(t, err, ErrTransientStore)
	mocks.factory.AssertNumberOfCalls(t, "Create", 2)
}

func TestBettingService_PlaceBet_Validation(t *testing.T) {
	service := NewBettingService(new(MockUnitOfWorkFactory))
	ctx := context.Background()

	tests := []struct {
		name string
		bet  *models.Bet
	}{
		{"zero amount", &models.Bet{PlayerID: "C", GameID: "g", Choice: "1", Amount: 0, Odds: 0.5}},
		{"negative amount", &models.Bet{PlayerID: "C", GameID: "g", Choice: "1", Amount: -5, Odds: 0.5}},
		{"odds of one", &models.Bet{PlayerID: "C", GameID: "g", Choice: "1", Amount: 10, Odds: 1}},
		{"zero odds", &models.Bet{PlayerID: "C", GameID: "g", Choice: "1", Amount: 10, Odds: 0}},
		{"missing choice", &models.Bet{PlayerID: "C", GameID: "g", Amount: 10, Odds: 0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, service.PlaceBet(ctx, tt.bet), ErrInvalidInput)
		})
	}
}
