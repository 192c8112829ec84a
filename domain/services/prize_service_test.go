package services

import (
	"context"
	"testing"
	"time"

	"prizepool/domain/entities"
	"prizepool/domain/events"
	"prizepool/domain/testhelpers"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type prizeServiceMocks struct {
	configRepo    *testhelpers.MockPoolConfigRepository
	stateRepo     *testhelpers.MockPoolStateRepository
	depositorRepo *testhelpers.MockDepositorRepository
	ticketRepo    *testhelpers.MockTicketRepository
	roundRepo     *testhelpers.MockLotteryRoundRepository
	vault         *testhelpers.MockYieldVault
	bank          *testhelpers.MockStableBank
	publisher     *testhelpers.MockEventPublisher
}

func setupPrizeServiceMocks() prizeServiceMocks {
	return prizeServiceMocks{
		configRepo:    new(testhelpers.MockPoolConfigRepository),
		stateRepo:     new(testhelpers.MockPoolStateRepository),
		depositorRepo: new(testhelpers.MockDepositorRepository),
		ticketRepo:    new(testhelpers.MockTicketRepository),
		roundRepo:     new(testhelpers.MockLotteryRoundRepository),
		vault:         new(testhelpers.MockYieldVault),
		bank:          new(testhelpers.MockStableBank),
		publisher:     new(testhelpers.MockEventPublisher),
	}
}

func (m prizeServiceMocks) service() *prizeService {
	return NewPrizeService(
		m.configRepo, m.stateRepo, m.depositorRepo, m.ticketRepo, m.roundRepo,
		m.vault, testhelpers.PassthroughTaxPolicy{}, m.bank, m.publisher,
	).(*prizeService)
}

func TestPrizeService_ExecuteDraw(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Now().UTC()
	m := setupPrizeServiceMocks()

	state := createTestState(now, func(s *entities.PoolState) {
		s.NextDrawTime = now.Add(-time.Minute)
		s.SharesSupply = decimal.NewFromInt(1000)
		s.DepositShares = decimal.NewFromInt(200)
		s.LotteryDeposits = decimal.NewFromInt(800)
	})

	m.configRepo.On("Get", ctx).Return(createTestConfig(), nil)
	m.stateRepo.On("GetForUpdate", ctx).Return(state, nil)
	// 800 lottery shares at 1.1 are worth 880; 80 of yield realized
	m.vault.On("ExchangeRate", ctx).Return(dec("1.1"), nil)
	m.bank.On("LiquidBalance", ctx).Return(decimal.NewFromInt(5000), nil)
	m.stateRepo.On("Save", ctx, state).Return(nil)
	m.publisher.On("Publish", mock.Anything).Return(nil)

	execution, err := m.service().ExecuteDraw(ctx, now)
	require.NoError(t, err)

	assert.True(t, execution.RealizedYield.Equal(decimal.NewFromInt(80)), "realized: %s", execution.RealizedYield)
	// Reserve factor 0.25: 20 to reserve, 60 to the prize pool
	assert.True(t, state.TotalReserve.Equal(decimal.NewFromInt(20)))
	assert.True(t, state.AwardAvailable.Equal(decimal.NewFromInt(60)))
	assert.Equal(t, entities.DrawPhasePrizePending, state.DrawPhase)

	redeems := m.publisher.EventsOfType(events.EventTypeVaultRedeemRequested)
	require.Len(t, redeems, 1)
	assert.True(t, redeems[0].(events.VaultRedeemRequestedEvent).ShareAmount.Equal(decimal.NewFromInt(800)))
}

func TestPrizeService_ExecuteDraw_NegativeYieldFloorsAtZero(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Now().UTC()
	m := setupPrizeServiceMocks()

	state := createTestState(now, func(s *entities.PoolState) {
		s.NextDrawTime = now.Add(-time.Minute)
		s.SharesSupply = decimal.NewFromInt(1000)
		s.DepositShares = decimal.NewFromInt(200)
		s.LotteryDeposits = decimal.NewFromInt(900)
	})

	m.configRepo.On("Get", ctx).Return(createTestConfig(), nil)
	m.stateRepo.On("GetForUpdate", ctx).Return(state, nil)
	m.vault.On("ExchangeRate", ctx).Return(decimal.NewFromInt(1), nil)
	m.bank.On("LiquidBalance", ctx).Return(decimal.NewFromInt(5000), nil)
	m.stateRepo.On("Save", ctx, state).Return(nil)
	m.publisher.On("Publish", mock.Anything).Return(nil)

	execution, err := m.service().ExecuteDraw(ctx, now)
	require.NoError(t, err)

	assert.True(t, execution.RealizedYield.IsZero())
	assert.True(t, state.TotalReserve.IsZero())
	assert.True(t, state.AwardAvailable.IsZero())
}

func TestPrizeService_ExecuteDraw_Rejections(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("draw not due", func(t *testing.T) {
		m := setupPrizeServiceMocks()
		m.configRepo.On("Get", ctx).Return(createTestConfig(), nil)
		m.stateRepo.On("GetForUpdate", ctx).Return(createTestState(now), nil)

		_, err := m.service().ExecuteDraw(ctx, now)
		assert.ErrorIs(t, err, ErrDrawNotDue)
	})

	t.Run("draw already in progress", func(t *testing.T) {
		m := setupPrizeServiceMocks()
		state := createTestState(now, func(s *entities.PoolState) {
			s.NextDrawTime = now.Add(-time.Minute)
			s.DrawPhase = entities.DrawPhasePrizePending
		})
		m.configRepo.On("Get", ctx).Return(createTestConfig(), nil)
		m.stateRepo.On("GetForUpdate", ctx).Return(state, nil)

		_, err := m.service().ExecuteDraw(ctx, now)
		assert.ErrorIs(t, err, ErrDrawInProgress)
	})
}

func TestPrizeService_AssignPrizes_TierSplit(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Now().UTC()
	m := setupPrizeServiceMocks()

	// Top tier takes half the 1000 prize pool; with two full matches each
	// winner gets 250.
	state := createTestState(now, func(s *entities.PoolState) {
		s.AwardAvailable = decimal.NewFromInt(1000)
		s.DrawPhase = entities.DrawPhasePrizePending
		s.CurrentRound = 3
		s.LotteryDeposits = decimal.NewFromInt(800)
	})
	alice := &entities.Depositor{Address: "alice"}
	bob := &entities.Depositor{Address: "bob"}

	m.configRepo.On("Get", ctx).Return(createTestConfig(), nil)
	m.stateRepo.On("GetForUpdate", ctx).Return(state, nil)
	m.ticketRepo.On("AllSequenceHolders", ctx).Return([]*entities.SequenceHolders{
		{Sequence: "11111", Addresses: []string{"alice", "bob"}},
		{Sequence: "99999", Addresses: []string{"bob"}},
	}, nil)
	m.depositorRepo.On("Get", ctx, "alice").Return(alice, nil)
	m.depositorRepo.On("Get", ctx, "bob").Return(bob, nil)
	m.depositorRepo.On("Save", ctx, alice).Return(nil)
	m.depositorRepo.On("Save", ctx, bob).Return(nil)
	m.roundRepo.On("Create", ctx, mock.Anything).Return(nil)
	m.stateRepo.On("Save", ctx, state).Return(nil)
	m.publisher.On("Publish", mock.Anything).Return(nil)

	round, err := m.service().AssignPrizes(ctx, now, "11111")
	require.NoError(t, err)

	assert.Equal(t, int64(3), round.ID)
	assert.True(t, round.TotalPrizes.Equal(decimal.NewFromInt(500)))
	assert.Len(t, round.Winners, 2)

	assert.True(t, alice.Redeemable.Equal(decimal.NewFromInt(250)))
	assert.True(t, bob.Redeemable.Equal(decimal.NewFromInt(250)))

	// Unawarded fractions stay in the pool for the next round
	assert.True(t, state.AwardAvailable.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, int64(4), state.CurrentRound)
	assert.Equal(t, entities.DrawPhaseIdle, state.DrawPhase)
	assert.Equal(t, now.Add(time.Hour).Add(7*24*time.Hour), state.NextDrawTime)

	// The lottery principal heads back to the vault after the round closes
	deposits := m.publisher.EventsOfType(events.EventTypeVaultDepositRequested)
	require.Len(t, deposits, 1)
	assert.True(t, deposits[0].(events.VaultDepositRequestedEvent).Amount.Equal(decimal.NewFromInt(800)))
}

func TestPrizeService_AssignPrizes_MultipleTiers(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Now().UTC()
	m := setupPrizeServiceMocks()

	state := createTestState(now, func(s *entities.PoolState) {
		s.AwardAvailable = decimal.NewFromInt(1000)
		s.DrawPhase = entities.DrawPhasePrizePending
	})
	alice := &entities.Depositor{Address: "alice"}
	bob := &entities.Depositor{Address: "bob"}

	m.configRepo.On("Get", ctx).Return(createTestConfig(), nil)
	m.stateRepo.On("GetForUpdate", ctx).Return(state, nil)
	m.ticketRepo.On("AllSequenceHolders", ctx).Return([]*entities.SequenceHolders{
		// 5 matches for alice, 3 for bob, 1 (unrewarded tier) for bob
		{Sequence: "11111", Addresses: []string{"alice"}},
		{Sequence: "11199", Addresses: []string{"bob"}},
		{Sequence: "19999", Addresses: []string{"bob"}},
	}, nil)
	m.depositorRepo.On("Get", ctx, "alice").Return(alice, nil)
	m.depositorRepo.On("Get", ctx, "bob").Return(bob, nil)
	m.depositorRepo.On("Save", ctx, alice).Return(nil)
	m.depositorRepo.On("Save", ctx, bob).Return(nil)
	m.roundRepo.On("Create", ctx, mock.Anything).Return(nil)
	m.stateRepo.On("Save", ctx, state).Return(nil)
	m.publisher.On("Publish", mock.Anything).Return(nil)

	round, err := m.service().AssignPrizes(ctx, now, "11111")
	require.NoError(t, err)

	// alice: full match tier 0.5 alone; bob: three-match tier 0.15 alone
	assert.True(t, alice.Redeemable.Equal(decimal.NewFromInt(500)))
	assert.True(t, bob.Redeemable.Equal(decimal.NewFromInt(150)))
	assert.True(t, round.TotalPrizes.Equal(decimal.NewFromInt(650)))
	assert.Len(t, round.Winners, 2)
}

func TestPrizeService_AssignPrizes_NoWinners(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Now().UTC()
	m := setupPrizeServiceMocks()

	state := createTestState(now, func(s *entities.PoolState) {
		s.AwardAvailable = decimal.NewFromInt(1000)
		s.DrawPhase = entities.DrawPhasePrizePending
	})

	m.configRepo.On("Get", ctx).Return(createTestConfig(), nil)
	m.stateRepo.On("GetForUpdate", ctx).Return(state, nil)
	m.ticketRepo.On("AllSequenceHolders", ctx).Return([]*entities.SequenceHolders{}, nil)
	m.roundRepo.On("Create", ctx, mock.Anything).Return(nil)
	m.stateRepo.On("Save", ctx, state).Return(nil)
	m.publisher.On("Publish", mock.Anything).Return(nil)

	round, err := m.service().AssignPrizes(ctx, now, "11111")
	require.NoError(t, err)

	// The whole prize pool rolls over
	assert.True(t, round.TotalPrizes.IsZero())
	assert.Empty(t, round.Winners)
	assert.True(t, state.AwardAvailable.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, entities.DrawPhaseIdle, state.DrawPhase)
}

func TestPrizeService_AssignPrizes_Rejections(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("no pending prize", func(t *testing.T) {
		m := setupPrizeServiceMocks()
		m.configRepo.On("Get", ctx).Return(createTestConfig(), nil)
		m.stateRepo.On("GetForUpdate", ctx).Return(createTestState(now), nil)

		_, err := m.service().AssignPrizes(ctx, now, "11111")
		assert.ErrorIs(t, err, ErrNoPendingPrize)
	})

	t.Run("invalid winning sequence", func(t *testing.T) {
		m := setupPrizeServiceMocks()
		_, err := m.service().AssignPrizes(ctx, now, "111")
		assert.ErrorIs(t, err, ErrInvalidSequence)
	})
}

func TestPrizeService_SweepReserve(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("transfers the reserve to the collector", func(t *testing.T) {
		m := setupPrizeServiceMocks()
		state := createTestState(time.Now().UTC(), func(s *entities.PoolState) {
			s.TotalReserve = decimal.NewFromInt(400)
		})
		cfg := createTestConfig(func(c *entities.PoolConfig) {
			c.CollectorAddress = "collector0000"
		})

		m.configRepo.On("Get", ctx).Return(cfg, nil)
		m.stateRepo.On("GetForUpdate", ctx).Return(state, nil)
		m.stateRepo.On("Save", ctx, state).Return(nil)
		m.publisher.On("Publish", mock.Anything).Return(nil)

		result, err := m.service().SweepReserve(ctx)
		require.NoError(t, err)

		assert.True(t, result.NetTransfer.Equal(decimal.NewFromInt(400)))
		assert.Equal(t, "collector0000", result.Collector)
		assert.True(t, state.TotalReserve.IsZero())

		transfers := m.publisher.EventsOfType(events.EventTypeFundsTransferRequested)
		require.Len(t, transfers, 1)
		assert.Equal(t, "collector0000", transfers[0].(events.FundsTransferRequestedEvent).Recipient)
	})

	t.Run("empty reserve is a no-op", func(t *testing.T) {
		m := setupPrizeServiceMocks()
		m.configRepo.On("Get", ctx).Return(createTestConfig(), nil)
		m.stateRepo.On("GetForUpdate", ctx).Return(createTestState(time.Now().UTC()), nil)

		result, err := m.service().SweepReserve(ctx)
		require.NoError(t, err)

		assert.True(t, result.NetTransfer.IsZero())
		assert.Empty(t, m.publisher.Published)
		m.stateRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}
