package service

import (
	"context"

	"puttbot/events"
	"puttbot/models"

	"github.com/stretchr/testify/mock"
)

// MockPlayerRepository is a mock implementation of PlayerRepository
type MockPlayerRepository struct {
	mock.Mock
}

func (m *MockPlayerRepository) Get(ctx context.Context, id string) (*models.Player, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Player), args.Error(1)
}

func (m *MockPlayerRepository) GetOrCreate(ctx context.Context, id string) (*models.Player, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Player), args.Error(1)
}

func (m *MockPlayerRepository) GetForUpdate(ctx context.Context, id string) (*models.Player, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Player), args.Error(1)
}

func (m *MockPlayerRepository) SaveStats(ctx context.Context, player *models.Player) error {
	args := m.Called(ctx, player)
	return args.Error(0)
}

func (m *MockPlayerRepository) Save(ctx context.Context, player *models.Player) error {
	args := m.Called(ctx, player)
	return args.Error(0)
}

func (m *MockPlayerRepository) Debit(ctx context.Context, id string, amount int64) (bool, error) {
	args := m.Called(ctx, id, amount)
	return args.Bool(0), args.Error(1)
}

func (m *MockPlayerRepository) Credit(ctx context.Context, id string, amount int64) error {
	args := m.Called(ctx, id, amount)
	return args.Error(0)
}

func (m *MockPlayerRepository) Leaderboard(ctx context.Context, limit, offset int) ([]*models.Player, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Player), args.Error(1)
}

func (m *MockPlayerRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockPlayerRepository) Position(ctx context.Context, id string) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

// MockBetRepository is a mock implementation of BetRepository
type MockBetRepository struct {
	mock.Mock
}

func (m *MockBetRepository) Create(ctx context.Context, bet *models.Bet) error {
	args := m.Called(ctx, bet)
	return args.Error(0)
}

func (m *MockBetRepository) Resolve(ctx context.Context, id int64, won bool) (bool, error) {
	args := m.Called(ctx, id, won)
	return args.Bool(0), args.Error(1)
}

func (m *MockBetRepository) GetByGame(ctx context.Context, gameID string) ([]*models.Bet, error) {
	args := m.Called(ctx, gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Bet), args.Error(1)
}

// MockPendingGameRepository is a mock implementation of PendingGameRepository
type MockPendingGameRepository struct {
	mock.Mock
}

func (m *MockPendingGameRepository) Upsert(ctx context.Context, game *models.PendingGame) error {
	args := m.Called(ctx, game)
	return args.Error(0)
}

func (m *MockPendingGameRepository) Delete(ctx context.Context, gameType models.Variant) error {
	args := m.Called(ctx, gameType)
	return args.Error(0)
}

func (m *MockPendingGameRepository) GetAll(ctx context.Context) ([]*models.PendingGame, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PendingGame), args.Error(1)
}

func (m *MockPendingGameRepository) DeleteAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockCourseRepository is a mock implementation of CourseRepository
type MockCourseRepository struct {
	mock.Mock
}

func (m *MockCourseRepository) GetAll(ctx context.Context) ([]*models.Course, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Course), args.Error(1)
}

func (m *MockCourseRepository) GetRandom(ctx context.Context) (*models.Course, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Course), args.Error(1)
}

// MockEventPublisher records published events
type MockEventPublisher struct {
	mock.Mock
	Events []events.Event
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Events = append(m.Events, event)
}

// MockUnitOfWork is a mock implementation of UnitOfWork.
// Repositories are injected with SetRepositories rather than expected calls.
type MockUnitOfWork struct {
	mock.Mock
	playerRepo      PlayerRepository
	betRepo         BetRepository
	pendingGameRepo PendingGameRepository
	courseRepo      CourseRepository
	eventBus        *MockEventPublisher
}

// SetRepositories wires the repositories returned by this unit of work
func (m *MockUnitOfWork) SetRepositories(playerRepo PlayerRepository, betRepo BetRepository, pendingGameRepo PendingGameRepository, courseRepo CourseRepository) {
	m.playerRepo = playerRepo
	m.betRepo = betRepo
	m.pendingGameRepo = pendingGameRepo
	m.courseRepo = courseRepo
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) PlayerRepository() PlayerRepository           { return m.playerRepo }
func (m *MockUnitOfWork) BetRepository() BetRepository                 { return m.betRepo }
func (m *MockUnitOfWork) PendingGameRepository() PendingGameRepository { return m.pendingGameRepo }
func (m *MockUnitOfWork) CourseRepository() CourseRepository           { return m.courseRepo }

func (m *MockUnitOfWork) EventBus() EventPublisher {
	if m.eventBus == nil {
		m.eventBus = &MockEventPublisher{}
	}
	return m.eventBus
}

// PublishedEvents returns everything published through this unit of work
func (m *MockUnitOfWork) PublishedEvents() []events.Event {
	if m.eventBus == nil {
		return nil
	}
	return m.eventBus.Events
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
