package repository

import (
	"context"
	"testing"

	"prizepool/repository/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketRepository_RegisterAndQuery(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	ctx := context.Background()
	depositors := NewDepositorRepository(testDB.DB)
	tickets := NewTicketRepository(testDB.DB)

	_, err := depositors.GetOrCreate(ctx, "alice")
	require.NoError(t, err)
	_, err = depositors.GetOrCreate(ctx, "bob")
	require.NoError(t, err)

	require.NoError(t, tickets.Register(ctx, "alice", []string{"13579", "13579", "24680"}))
	require.NoError(t, tickets.Register(ctx, "bob", []string{"13579"}))

	t.Run("sequences by address keep duplicates and order", func(t *testing.T) {
		seqs, err := tickets.SequencesByAddress(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, []string{"13579", "13579", "24680"}, seqs)
	})

	t.Run("holders by sequence list one entry per instance", func(t *testing.T) {
		holders, err := tickets.HoldersBySequence(ctx, "13579")
		require.NoError(t, err)
		assert.Equal(t, []string{"alice", "alice", "bob"}, holders)
	})

	t.Run("counts", func(t *testing.T) {
		count, err := tickets.CountByAddress(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)

		total, err := tickets.CountAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
	})

	t.Run("all sequence holders group by sequence", func(t *testing.T) {
		all, err := tickets.AllSequenceHolders(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "13579", all[0].Sequence)
		assert.Equal(t, []string{"alice", "alice", "bob"}, all[0].Addresses)
		assert.Equal(t, "24680", all[1].Sequence)
		assert.Equal(t, []string{"alice"}, all[1].Addresses)
	})
}

func TestTicketRepository_Unregister(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	ctx := context.Background()
	depositors := NewDepositorRepository(testDB.DB)
	tickets := NewTicketRepository(testDB.DB)

	_, err := depositors.GetOrCreate(ctx, "alice")
	require.NoError(t, err)
	_, err = depositors.GetOrCreate(ctx, "bob")
	require.NoError(t, err)

	require.NoError(t, tickets.Register(ctx, "alice", []string{"13579", "13579"}))
	require.NoError(t, tickets.Register(ctx, "bob", []string{"13579"}))

	t.Run("removes exactly one instance", func(t *testing.T) {
		require.NoError(t, tickets.Unregister(ctx, "13579", "alice"))

		holders, err := tickets.HoldersBySequence(ctx, "13579")
		require.NoError(t, err)
		assert.Equal(t, []string{"alice", "bob"}, holders)
	})

	t.Run("other holders are untouched", func(t *testing.T) {
		require.NoError(t, tickets.Unregister(ctx, "13579", "alice"))

		holders, err := tickets.HoldersBySequence(ctx, "13579")
		require.NoError(t, err)
		assert.Equal(t, []string{"bob"}, holders)
	})

	t.Run("missing instance is an error", func(t *testing.T) {
		err := tickets.Unregister(ctx, "13579", "alice")
		assert.Error(t, err)
	})
}

func TestDepositorRepository(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	ctx := context.Background()
	repo := NewDepositorRepository(testDB.DB)

	t.Run("get missing returns nil", func(t *testing.T) {
		dep, err := repo.Get(ctx, "nobody")
		require.NoError(t, err)
		assert.Nil(t, dep)
	})

	t.Run("get or create is idempotent", func(t *testing.T) {
		first, err := repo.GetOrCreate(ctx, "alice")
		require.NoError(t, err)
		assert.True(t, first.Shares.IsZero())

		again, err := repo.GetOrCreate(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, first.Address, again.Address)
	})

	t.Run("save round-trips amounts", func(t *testing.T) {
		dep, err := repo.GetOrCreate(ctx, "carol")
		require.NoError(t, err)

		dep.DepositAmount = decimal.RequireFromString("250.5")
		dep.Shares = decimal.RequireFromString("238.571428571429")
		dep.Redeemable = decimal.NewFromInt(40)
		require.NoError(t, repo.Save(ctx, dep))

		got, err := repo.Get(ctx, "carol")
		require.NoError(t, err)
		assert.True(t, got.DepositAmount.Equal(dep.DepositAmount))
		assert.True(t, got.Shares.Equal(dep.Shares))
		assert.True(t, got.Redeemable.Equal(dep.Redeemable))
	})

	t.Run("list pages by address", func(t *testing.T) {
		for _, addr := range []string{"d1", "d2", "d3"} {
			_, err := repo.GetOrCreate(ctx, addr)
			require.NoError(t, err)
		}

		page, err := repo.List(ctx, "d1", 2)
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, "d2", page[0].Address)
		assert.Equal(t, "d3", page[1].Address)
	})

	t.Run("sum shares", func(t *testing.T) {
		sum, err := repo.SumShares(ctx)
		require.NoError(t, err)
		assert.True(t, sum.Equal(decimal.RequireFromString("238.571428571429")))
	})
}
