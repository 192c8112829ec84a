package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Funds gateway request-reply subjects. The gateway process executes fund
// instructions and answers these queries against the chain.
const (
	subjectVaultExchangeRate = "gateway.vault.exchange_rate"
	subjectVaultShareBalance = "gateway.vault.share_balance"
	subjectBankLiquidBalance = "gateway.bank.liquid_balance"
)

// GatewayClient implements the YieldVault and StableBank interfaces over NATS
// request-reply against the funds gateway.
type GatewayClient struct {
	natsClient *NATSClient
	// PoolAddress identifies whose balances the gateway reports
	poolAddress string
}

type gatewayQuery struct {
	Address string `json:"address"`
}

type gatewayAmountReply struct {
	Amount decimal.Decimal `json:"amount"`
	Error  string          `json:"error,omitempty"`
}

// NewGatewayClient creates a new funds gateway client
func NewGatewayClient(natsClient *NATSClient, poolAddress string) *GatewayClient {
	return &GatewayClient{
		natsClient:  natsClient,
		poolAddress: poolAddress,
	}
}

// ExchangeRate returns the stable value of one vault share
func (c *GatewayClient) ExchangeRate(ctx context.Context) (decimal.Decimal, error) {
	return c.query(ctx, subjectVaultExchangeRate)
}

// ShareBalance returns the pool's vault share balance
func (c *GatewayClient) ShareBalance(ctx context.Context) (decimal.Decimal, error) {
	return c.query(ctx, subjectVaultShareBalance)
}

// LiquidBalance returns the pool's spendable stable balance
func (c *GatewayClient) LiquidBalance(ctx context.Context) (decimal.Decimal, error) {
	return c.query(ctx, subjectBankLiquidBalance)
}

func (c *GatewayClient) query(ctx context.Context, subject string) (decimal.Decimal, error) {
	req, err := json.Marshal(gatewayQuery{Address: c.poolAddress})
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to marshal gateway query: %w", err)
	}

	data, err := c.natsClient.Request(ctx, subject, req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("gateway query %s failed: %w", subject, err)
	}

	var reply gatewayAmountReply
	if err := json.Unmarshal(data, &reply); err != nil {
		return decimal.Zero, fmt.Errorf("failed to unmarshal gateway reply: %w", err)
	}
	if reply.Error != "" {
		return decimal.Zero, fmt.Errorf("gateway query %s rejected: %s", subject, reply.Error)
	}
	return reply.Amount, nil
}
