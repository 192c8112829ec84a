package testhelpers

import (
	"context"

	"prizepool/domain/events"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockYieldVault is a mock implementation of YieldVault
type MockYieldVault struct {
	mock.Mock
}

func (m *MockYieldVault) ExchangeRate(ctx context.Context) (decimal.Decimal, error) {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockYieldVault) ShareBalance(ctx context.Context) (decimal.Decimal, error) {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockTaxPolicy is a mock implementation of TaxPolicy
type MockTaxPolicy struct {
	mock.Mock
}

func (m *MockTaxPolicy) NetOf(ctx context.Context, amount decimal.Decimal) (decimal.Decimal, error) {
	args := m.Called(ctx, amount)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// PassthroughTaxPolicy applies no tax. Handy for tests whose assertions are
// about share math rather than transfer costs.
type PassthroughTaxPolicy struct{}

func (PassthroughTaxPolicy) NetOf(_ context.Context, amount decimal.Decimal) (decimal.Decimal, error) {
	return amount, nil
}

// MockStableBank is a mock implementation of StableBank
type MockStableBank struct {
	mock.Mock
}

func (m *MockStableBank) LiquidBalance(ctx context.Context) (decimal.Decimal, error) {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockWinningSequenceSource is a mock implementation of WinningSequenceSource
type MockWinningSequenceSource struct {
	mock.Mock
}

func (m *MockWinningSequenceSource) Draw() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

// MockEventPublisher records published events for assertion
type MockEventPublisher struct {
	mock.Mock
	Published []events.Event
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	if args.Error(0) == nil {
		m.Published = append(m.Published, event)
	}
	return args.Error(0)
}

// EventsOfType filters the recorded events by type
func (m *MockEventPublisher) EventsOfType(t events.EventType) []events.Event {
	var out []events.Event
	for _, e := range m.Published {
		if e.Type() == t {
			out = append(out, e)
		}
	}
	return out
}
