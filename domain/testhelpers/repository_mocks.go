package testhelpers

import (
	"context"
	"time"

	"prizepool/domain/entities"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockPoolConfigRepository is a mock implementation of PoolConfigRepository
type MockPoolConfigRepository struct {
	mock.Mock
}

func (m *MockPoolConfigRepository) Get(ctx context.Context) (*entities.PoolConfig, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PoolConfig), args.Error(1)
}

func (m *MockPoolConfigRepository) Save(ctx context.Context, cfg *entities.PoolConfig) error {
	args := m.Called(ctx, cfg)
	return args.Error(0)
}

// MockPoolStateRepository is a mock implementation of PoolStateRepository
type MockPoolStateRepository struct {
	mock.Mock
}

func (m *MockPoolStateRepository) Get(ctx context.Context) (*entities.PoolState, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PoolState), args.Error(1)
}

func (m *MockPoolStateRepository) GetForUpdate(ctx context.Context) (*entities.PoolState, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PoolState), args.Error(1)
}

func (m *MockPoolStateRepository) Save(ctx context.Context, state *entities.PoolState) error {
	args := m.Called(ctx, state)
	return args.Error(0)
}

// MockDepositorRepository is a mock implementation of DepositorRepository
type MockDepositorRepository struct {
	mock.Mock
}

func (m *MockDepositorRepository) Get(ctx context.Context, address string) (*entities.Depositor, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Depositor), args.Error(1)
}

func (m *MockDepositorRepository) GetOrCreate(ctx context.Context, address string) (*entities.Depositor, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Depositor), args.Error(1)
}

func (m *MockDepositorRepository) Save(ctx context.Context, d *entities.Depositor) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDepositorRepository) List(ctx context.Context, startAfter string, limit int) ([]*entities.Depositor, error) {
	args := m.Called(ctx, startAfter, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Depositor), args.Error(1)
}

func (m *MockDepositorRepository) SumShares(ctx context.Context) (decimal.Decimal, error) {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockTicketRepository is a mock implementation of TicketRepository
type MockTicketRepository struct {
	mock.Mock
}

func (m *MockTicketRepository) Register(ctx context.Context, address string, sequences []string) error {
	args := m.Called(ctx, address, sequences)
	return args.Error(0)
}

func (m *MockTicketRepository) Unregister(ctx context.Context, sequence, address string) error {
	args := m.Called(ctx, sequence, address)
	return args.Error(0)
}

func (m *MockTicketRepository) SequencesByAddress(ctx context.Context, address string) ([]string, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockTicketRepository) HoldersBySequence(ctx context.Context, sequence string) ([]string, error) {
	args := m.Called(ctx, sequence)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockTicketRepository) AllSequenceHolders(ctx context.Context) ([]*entities.SequenceHolders, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.SequenceHolders), args.Error(1)
}

func (m *MockTicketRepository) CountByAddress(ctx context.Context, address string) (int64, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTicketRepository) CountAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockUnbondingClaimRepository is a mock implementation of UnbondingClaimRepository
type MockUnbondingClaimRepository struct {
	mock.Mock
}

func (m *MockUnbondingClaimRepository) Add(ctx context.Context, address string, amount decimal.Decimal, releaseAt time.Time) error {
	args := m.Called(ctx, address, amount, releaseAt)
	return args.Error(0)
}

func (m *MockUnbondingClaimRepository) ListByAddress(ctx context.Context, address string) ([]entities.UnbondingClaim, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.UnbondingClaim), args.Error(1)
}

func (m *MockUnbondingClaimRepository) ListMatured(ctx context.Context, address string, now time.Time) ([]entities.UnbondingClaim, error) {
	args := m.Called(ctx, address, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.UnbondingClaim), args.Error(1)
}

func (m *MockUnbondingClaimRepository) Remove(ctx context.Context, ids []int64) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

func (m *MockUnbondingClaimRepository) UpdateAmount(ctx context.Context, id int64, amount decimal.Decimal) error {
	args := m.Called(ctx, id, amount)
	return args.Error(0)
}

// MockLotteryRoundRepository is a mock implementation of LotteryRoundRepository
type MockLotteryRoundRepository struct {
	mock.Mock
}

func (m *MockLotteryRoundRepository) Create(ctx context.Context, round *entities.LotteryRound) error {
	args := m.Called(ctx, round)
	return args.Error(0)
}

func (m *MockLotteryRoundRepository) Get(ctx context.Context, id int64) (*entities.LotteryRound, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.LotteryRound), args.Error(1)
}
