package entities

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPoolStateLotteryShares(t *testing.T) {
	t.Parallel()

	state := &PoolState{
		SharesSupply:  decimal.NewFromInt(1000),
		DepositShares: decimal.NewFromInt(250),
	}
	assert.True(t, state.LotteryShares().Equal(decimal.NewFromInt(750)))
}

func TestPoolStateDepositWindow(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()

	state := &PoolState{NextDrawTime: now.Add(time.Hour), DrawPhase: DrawPhaseIdle}
	assert.True(t, state.DepositWindowOpen(now))
	assert.False(t, state.DrawDue(now))

	// Window shuts the moment the draw time arrives
	assert.False(t, state.DepositWindowOpen(now.Add(time.Hour)))
	assert.True(t, state.DrawDue(now.Add(time.Hour)))

	// Pending prize assignment keeps the window shut regardless of time
	state.DrawPhase = DrawPhasePrizePending
	assert.False(t, state.DepositWindowOpen(now))
}

func TestUnbondingClaimMatured(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	claim := UnbondingClaim{ReleaseAt: now}

	assert.True(t, claim.Matured(now))
	assert.True(t, claim.Matured(now.Add(time.Second)))
	assert.False(t, claim.Matured(now.Add(-time.Second)))
}
