package repository

import (
	"context"
	"testing"
	"time"

	"prizepool/application"
	"prizepool/domain/interfaces"
	"prizepool/domain/services"
	"prizepool/domain/testhelpers"
	"prizepool/repository/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs a realistic operation sequence against a real database and checks the
// summation invariants after every step: the share supply must equal the sum
// of depositor shares, and the ticket counter must equal the number of stored
// ticket instances.
func TestLedgerInvariants_AcrossOperations(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)
	nextDraw := now.Add(time.Hour)

	configRepo := NewPoolConfigRepository(testDB.DB)
	stateRepo := NewPoolStateRepository(testDB.DB)
	depositorRepo := NewDepositorRepository(testDB.DB)
	ticketRepo := NewTicketRepository(testDB.DB)

	require.NoError(t, configRepo.Save(ctx, testutil.CreateTestPoolConfig("owner0000")))
	require.NoError(t, stateRepo.Save(ctx, testutil.CreateTestPoolState(nextDraw)))

	vault := new(testhelpers.MockYieldVault)
	vault.On("ExchangeRate", ctx).Return(decimal.NewFromInt(1), nil)
	vault.On("ShareBalance", ctx).Return(decimal.NewFromInt(300), nil)
	bank := new(testhelpers.MockStableBank)
	bank.On("LiquidBalance", ctx).Return(decimal.NewFromInt(300), nil)

	run := func(t *testing.T, fn func(uow application.UnitOfWork) error) {
		uow := CreateTestUnitOfWork(testDB.DB, &recordingPublisher{})
		require.NoError(t, uow.Begin(ctx))
		require.NoError(t, fn(uow))
		require.NoError(t, uow.Commit())
	}

	newPoolService := func(uow application.UnitOfWork) interfaces.PoolService {
		return services.NewPoolService(
			uow.PoolConfigRepository(),
			uow.PoolStateRepository(),
			uow.DepositorRepository(),
			uow.TicketRepository(),
			uow.UnbondingClaimRepository(),
			vault,
			testhelpers.PassthroughTaxPolicy{},
			bank,
			uow.EventBus(),
		)
	}

	newPrizeService := func(uow application.UnitOfWork) interfaces.PrizeService {
		return services.NewPrizeService(
			uow.PoolConfigRepository(),
			uow.PoolStateRepository(),
			uow.DepositorRepository(),
			uow.TicketRepository(),
			uow.LotteryRoundRepository(),
			vault,
			testhelpers.PassthroughTaxPolicy{},
			bank,
			uow.EventBus(),
		)
	}

	checkInvariants := func(t *testing.T) {
		state, err := stateRepo.Get(ctx)
		require.NoError(t, err)

		sum, err := depositorRepo.SumShares(ctx)
		require.NoError(t, err)
		assert.True(t, sum.Equal(state.SharesSupply),
			"share supply %s != depositor share sum %s", state.SharesSupply, sum)

		count, err := ticketRepo.CountAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, state.TotalTickets, count,
			"ticket counter %d != stored instances %d", state.TotalTickets, count)
	}

	t.Run("deposits", func(t *testing.T) {
		run(t, func(uow application.UnitOfWork) error {
			_, err := newPoolService(uow).Deposit(ctx, now, "alice",
				decimal.NewFromInt(200), []string{"11111", "22222"})
			return err
		})
		checkInvariants(t)

		run(t, func(uow application.UnitOfWork) error {
			_, err := newPoolService(uow).Deposit(ctx, now, "bob",
				decimal.NewFromInt(100), []string{"33333"})
			return err
		})
		checkInvariants(t)

		state, err := stateRepo.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), state.TotalTickets)
		assert.True(t, state.SharesSupply.Equal(decimal.NewFromInt(300)))
	})

	t.Run("withdrawal", func(t *testing.T) {
		run(t, func(uow application.UnitOfWork) error {
			_, err := newPoolService(uow).Withdraw(ctx, now, "alice")
			return err
		})
		checkInvariants(t)

		state, err := stateRepo.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), state.TotalTickets)
		assert.True(t, state.SharesSupply.Equal(decimal.NewFromInt(100)))
		assert.True(t, state.DepositShares.Equal(decimal.NewFromInt(25)))
		assert.True(t, state.LotteryDeposits.Equal(decimal.NewFromInt(75)))
	})

	t.Run("draw", func(t *testing.T) {
		run(t, func(uow application.UnitOfWork) error {
			_, err := newPrizeService(uow).ExecuteDraw(ctx, nextDraw)
			return err
		})
		checkInvariants(t)

		run(t, func(uow application.UnitOfWork) error {
			// No digit of bob's remaining ticket lines up, so the prize rolls
			// over and no shares move.
			_, err := newPrizeService(uow).AssignPrizes(ctx, nextDraw, "99999")
			return err
		})
		checkInvariants(t)

		state, err := stateRepo.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), state.CurrentRound)
		assert.True(t, state.NextDrawTime.Equal(nextDraw.Add(7*24*time.Hour)))
	})
}
