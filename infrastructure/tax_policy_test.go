package infrastructure

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCappedRateTaxPolicy(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("zero rate passes through", func(t *testing.T) {
		net, err := NewZeroTaxPolicy().NetOf(ctx, decimal.NewFromInt(500))
		require.NoError(t, err)
		assert.True(t, net.Equal(decimal.NewFromInt(500)))
	})

	t.Run("proportional deduction", func(t *testing.T) {
		// 1% rate: sending 101 costs 1 of tax, leaving 100
		policy := NewCappedRateTaxPolicy(decimal.RequireFromString("0.01"), decimal.NewFromInt(1000000))
		net, err := policy.NetOf(ctx, decimal.NewFromInt(101))
		require.NoError(t, err)
		assert.True(t, net.Equal(decimal.NewFromInt(100)), "net: %s", net)
	})

	t.Run("cap bounds the deduction", func(t *testing.T) {
		policy := NewCappedRateTaxPolicy(decimal.RequireFromString("0.01"), decimal.NewFromInt(2))
		net, err := policy.NetOf(ctx, decimal.NewFromInt(10100))
		require.NoError(t, err)
		assert.True(t, net.Equal(decimal.NewFromInt(10098)), "net: %s", net)
	})

	t.Run("non-positive amounts pass through", func(t *testing.T) {
		policy := NewCappedRateTaxPolicy(decimal.RequireFromString("0.01"), decimal.NewFromInt(2))
		net, err := policy.NetOf(ctx, decimal.Zero)
		require.NoError(t, err)
		assert.True(t, net.IsZero())
	})
}

func TestRandomSequenceSource(t *testing.T) {
	t.Parallel()

	source := NewRandomSequenceSource()
	for i := 0; i < 50; i++ {
		seq, err := source.Draw()
		require.NoError(t, err)
		assert.Len(t, seq, 5)
		for _, c := range seq {
			assert.True(t, c >= '0' && c <= '9')
		}
	}
}
