package repository

import (
	"context"
	"testing"
	"time"

	"prizepool/domain/events"
	"prizepool/repository/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingPublisher buffers events like the NATS transactional publisher but
// just records what gets flushed.
type recordingPublisher struct {
	buffered  []events.Event
	flushed   []events.Event
	discarded bool
}

func (p *recordingPublisher) Publish(event events.Event) error {
	p.buffered = append(p.buffered, event)
	return nil
}

func (p *recordingPublisher) Flush(_ context.Context) error {
	p.flushed = append(p.flushed, p.buffered...)
	p.buffered = nil
	return nil
}

func (p *recordingPublisher) Discard() {
	p.buffered = nil
	p.discarded = true
}

func TestUnitOfWork_CommitPersistsAndFlushes(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	ctx := context.Background()
	publisher := &recordingPublisher{}
	uow := CreateTestUnitOfWork(testDB.DB, publisher)

	require.NoError(t, uow.Begin(ctx))

	state := testutil.CreateTestPoolState(time.Now().UTC().Add(7 * 24 * time.Hour))
	state.AwardAvailable = decimal.NewFromInt(500)
	require.NoError(t, uow.PoolStateRepository().Save(ctx, state))

	require.NoError(t, uow.EventBus().Publish(&events.ReserveSweptEvent{
		Collector: "collector0000",
		Amount:    decimal.NewFromInt(500),
	}))

	require.NoError(t, uow.Commit())

	// Events only leave the buffer after commit
	require.Len(t, publisher.flushed, 1)
	assert.Equal(t, events.EventTypeReserveSwept, publisher.flushed[0].Type())

	got, err := NewPoolStateRepository(testDB.DB).Get(ctx)
	require.NoError(t, err)
	assert.True(t, got.AwardAvailable.Equal(decimal.NewFromInt(500)))
}

func TestUnitOfWork_RollbackDiscards(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	ctx := context.Background()
	publisher := &recordingPublisher{}
	uow := CreateTestUnitOfWork(testDB.DB, publisher)

	require.NoError(t, uow.Begin(ctx))

	state := testutil.CreateTestPoolState(time.Now().UTC().Add(7 * 24 * time.Hour))
	require.NoError(t, uow.PoolStateRepository().Save(ctx, state))

	require.NoError(t, uow.EventBus().Publish(&events.ReserveSweptEvent{
		Collector: "collector0000",
		Amount:    decimal.NewFromInt(500),
	}))

	require.NoError(t, uow.Rollback())

	assert.True(t, publisher.discarded)
	assert.Empty(t, publisher.flushed)

	_, err := NewPoolStateRepository(testDB.DB).Get(ctx)
	assert.Error(t, err, "rolled back state must not persist")
}

func TestUnitOfWork_SerializesStateAccess(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	ctx := context.Background()
	stateRepo := NewPoolStateRepository(testDB.DB)
	require.NoError(t, stateRepo.Save(ctx, testutil.CreateTestPoolState(time.Now().UTC().Add(time.Hour))))

	first := CreateTestUnitOfWork(testDB.DB, &recordingPublisher{})
	require.NoError(t, first.Begin(ctx))
	_, err := first.PoolStateRepository().GetForUpdate(ctx)
	require.NoError(t, err)

	// A second writer blocks on the row lock until the first commits
	second := CreateTestUnitOfWork(testDB.DB, &recordingPublisher{})
	require.NoError(t, second.Begin(ctx))

	locked := make(chan struct{})
	go func() {
		defer close(locked)
		if _, err := second.PoolStateRepository().GetForUpdate(ctx); err == nil {
			state, _ := second.PoolStateRepository().Get(ctx)
			state.CurrentRound = 2
			_ = second.PoolStateRepository().Save(ctx, state)
		}
		_ = second.Commit()
	}()

	select {
	case <-locked:
		t.Fatal("second unit of work acquired the lock before the first committed")
	case <-time.After(200 * time.Millisecond):
	}

	state, err := first.PoolStateRepository().Get(ctx)
	require.NoError(t, err)
	state.CurrentRound = 1
	require.NoError(t, first.PoolStateRepository().Save(ctx, state))
	require.NoError(t, first.Commit())

	select {
	case <-locked:
	case <-time.After(5 * time.Second):
		t.Fatal("second unit of work never acquired the lock")
	}

	got, err := stateRepo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.CurrentRound)
}
