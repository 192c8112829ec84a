package services

import (
	"context"
	"fmt"
	"time"

	"prizepool/domain/entities"
	"prizepool/domain/events"
	"prizepool/domain/interfaces"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// poolService implements the depositor-facing ledger operations
type poolService struct {
	configRepo     interfaces.PoolConfigRepository
	stateRepo      interfaces.PoolStateRepository
	depositorRepo  interfaces.DepositorRepository
	ticketRepo     interfaces.TicketRepository
	unbondingRepo  interfaces.UnbondingClaimRepository
	vault          interfaces.YieldVault
	tax            interfaces.TaxPolicy
	bank           interfaces.StableBank
	eventPublisher interfaces.EventPublisher
}

// NewPoolService creates a new pool service
func NewPoolService(
	configRepo interfaces.PoolConfigRepository,
	stateRepo interfaces.PoolStateRepository,
	depositorRepo interfaces.DepositorRepository,
	ticketRepo interfaces.TicketRepository,
	unbondingRepo interfaces.UnbondingClaimRepository,
	vault interfaces.YieldVault,
	tax interfaces.TaxPolicy,
	bank interfaces.StableBank,
	eventPublisher interfaces.EventPublisher,
) interfaces.PoolService {
	return &poolService{
		configRepo:     configRepo,
		stateRepo:      stateRepo,
		depositorRepo:  depositorRepo,
		ticketRepo:     ticketRepo,
		unbondingRepo:  unbondingRepo,
		vault:          vault,
		tax:            tax,
		bank:           bank,
		eventPublisher: eventPublisher,
	}
}

// SingleDeposit buys exactly one ticket at the exact ticket price
func (s *poolService) SingleDeposit(ctx context.Context, now time.Time, depositor string, amount decimal.Decimal, sequence string) (*interfaces.DepositResult, error) {
	return s.deposit(ctx, now, depositor, depositor, amount, []string{sequence}, true)
}

// Deposit buys a batch of tickets; excess above the required total is absorbed
func (s *poolService) Deposit(ctx context.Context, now time.Time, depositor string, amount decimal.Decimal, sequences []string) (*interfaces.DepositResult, error) {
	return s.deposit(ctx, now, depositor, depositor, amount, sequences, false)
}

// GiftTickets deposits on behalf of a recipient at the exact ticket total
func (s *poolService) GiftTickets(ctx context.Context, now time.Time, gifter, recipient string, amount decimal.Decimal, sequences []string) (*interfaces.DepositResult, error) {
	if gifter == recipient {
		return nil, ErrSelfGift
	}
	return s.deposit(ctx, now, gifter, recipient, amount, sequences, true)
}

// deposit is the shared deposit path. The beneficiary receives the tickets
// and shares; exact requires the amount to equal the ticket total.
func (s *poolService) deposit(ctx context.Context, now time.Time, payer, beneficiary string, amount decimal.Decimal, sequences []string, exact bool) (*interfaces.DepositResult, error) {
	if !amount.IsPositive() {
		return nil, ErrAmountNotPositive
	}
	if len(sequences) == 0 {
		return nil, fmt.Errorf("%w: no ticket sequences given", ErrInvalidSequence)
	}

	cfg, err := s.configRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get pool config: %w", err)
	}
	state, err := s.stateRepo.GetForUpdate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to lock pool state: %w", err)
	}

	required := cfg.TicketPrice.Mul(decimal.NewFromInt(int64(len(sequences))))
	if exact {
		if !amount.Equal(required) {
			return nil, fmt.Errorf("%w: required %s, got %s", ErrInsufficientDeposit, required, amount)
		}
	} else if amount.LessThan(required) {
		return nil, fmt.Errorf("%w: minimum for %d tickets is %s, got %s",
			ErrInsufficientDeposit, len(sequences), required, amount)
	}

	if !state.DepositWindowOpen(now) {
		return nil, ErrDepositWindowClosed
	}

	for _, seq := range sequences {
		if !entities.IsValidSequence(seq) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidSequence, seq)
		}
	}

	// Net of transfer tax; the gross amount is what the depositor record
	// carries, subsidizing the tax for UX reasons.
	net, err := s.tax.NetOf(ctx, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to compute net deposit: %w", err)
	}

	// Exchange rate is fetched at call time, never cached, to avoid minting
	// against a stale price.
	rate, err := s.vault.ExchangeRate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query exchange rate: %w", err)
	}
	minted := net.Div(rate)

	dep, err := s.depositorRepo.GetOrCreate(ctx, beneficiary)
	if err != nil {
		return nil, fmt.Errorf("failed to get depositor: %w", err)
	}
	dep.DepositAmount = dep.DepositAmount.Add(amount)
	dep.Shares = dep.Shares.Add(minted)
	if err := s.depositorRepo.Save(ctx, dep); err != nil {
		return nil, fmt.Errorf("failed to save depositor: %w", err)
	}

	if err := s.ticketRepo.Register(ctx, beneficiary, sequences); err != nil {
		return nil, fmt.Errorf("failed to register tickets: %w", err)
	}

	split := cfg.SplitFactor
	state.TotalTickets += int64(len(sequences))
	state.SharesSupply = state.SharesSupply.Add(minted)
	state.DepositShares = state.DepositShares.Add(minted.Sub(minted.Mul(split)))
	state.LotteryDeposits = state.LotteryDeposits.Add(amount.Mul(split))
	if err := s.stateRepo.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to save pool state: %w", err)
	}

	if err := s.eventPublisher.Publish(events.DepositRecordedEvent{
		Depositor:    beneficiary,
		Amount:       amount,
		SharesMinted: minted,
		TicketCount:  len(sequences),
	}); err != nil {
		return nil, fmt.Errorf("failed to publish deposit event: %w", err)
	}
	if err := s.eventPublisher.Publish(events.VaultDepositRequestedEvent{
		InstructionID: uuid.New().String(),
		Amount:        net,
		Denom:         cfg.StableDenom,
	}); err != nil {
		return nil, fmt.Errorf("failed to publish vault deposit instruction: %w", err)
	}

	log.WithFields(log.Fields{
		"payer":         payer,
		"beneficiary":   beneficiary,
		"amount":        amount,
		"shares_minted": minted,
		"tickets":       len(sequences),
	}).Info("Deposit recorded")

	return &interfaces.DepositResult{
		Depositor:    beneficiary,
		GrossAmount:  amount,
		NetAmount:    net,
		SharesMinted: minted,
		Tickets:      sequences,
	}, nil
}

// Sponsor donates to the pool without receiving tickets
func (s *poolService) Sponsor(ctx context.Context, now time.Time, sponsor string, amount decimal.Decimal, toAward bool) error {
	if !amount.IsPositive() {
		return ErrAmountNotPositive
	}

	cfg, err := s.configRepo.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to get pool config: %w", err)
	}
	state, err := s.stateRepo.GetForUpdate(ctx)
	if err != nil {
		return fmt.Errorf("failed to lock pool state: %w", err)
	}

	if toAward {
		// Straight into the prize pool; stays liquid for payout.
		state.AwardAvailable = state.AwardAvailable.Add(amount)
	} else {
		rate, err := s.vault.ExchangeRate(ctx)
		if err != nil {
			return fmt.Errorf("failed to query exchange rate: %w", err)
		}
		minted := amount.Div(rate)
		state.SharesSupply = state.SharesSupply.Add(minted)
		state.LotteryDeposits = state.LotteryDeposits.Add(amount)

		net, err := s.tax.NetOf(ctx, amount)
		if err != nil {
			return fmt.Errorf("failed to compute net sponsorship: %w", err)
		}
		if err := s.eventPublisher.Publish(events.VaultDepositRequestedEvent{
			InstructionID: uuid.New().String(),
			Amount:        net,
			Denom:         cfg.StableDenom,
		}); err != nil {
			return fmt.Errorf("failed to publish vault deposit instruction: %w", err)
		}
	}

	if err := s.stateRepo.Save(ctx, state); err != nil {
		return fmt.Errorf("failed to save pool state: %w", err)
	}

	log.WithFields(log.Fields{
		"sponsor":  sponsor,
		"amount":   amount,
		"to_award": toAward,
	}).Info("Sponsorship recorded")

	return nil
}

// Withdraw performs a full withdrawal of the depositor's position
func (s *poolService) Withdraw(ctx context.Context, now time.Time, depositor string) (*interfaces.WithdrawResult, error) {
	cfg, err := s.configRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get pool config: %w", err)
	}
	state, err := s.stateRepo.GetForUpdate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to lock pool state: %w", err)
	}

	dep, err := s.depositorRepo.Get(ctx, depositor)
	if err != nil {
		return nil, fmt.Errorf("failed to get depositor: %w", err)
	}
	if dep == nil || !dep.HasDeposits() {
		return nil, ErrNoDeposits
	}

	sequences, err := s.ticketRepo.SequencesByAddress(ctx, depositor)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	// Remove this depositor's instance of every held sequence; other holders
	// of the same sequence are untouched.
	for _, seq := range sequences {
		if err := s.ticketRepo.Unregister(ctx, seq, depositor); err != nil {
			return nil, fmt.Errorf("%w: unregister %q for %s: %v", ErrRegistryInconsistent, seq, depositor, err)
		}
	}

	// The withdrawal ratio is taken against the supply before burning.
	redeemShares := dep.Shares
	withdrawRatio := redeemShares.Div(state.SharesSupply)

	vaultBalance, err := s.vault.ShareBalance(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query vault balance: %w", err)
	}
	redeemVault := withdrawRatio.Mul(vaultBalance)

	rate, err := s.vault.ExchangeRate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query exchange rate: %w", err)
	}
	redeemStable := redeemVault.Mul(rate)

	net, err := s.tax.NetOf(ctx, redeemStable)
	if err != nil {
		return nil, fmt.Errorf("failed to compute net redemption: %w", err)
	}

	releaseAt := now.Add(cfg.UnbondingPeriod)
	if err := s.unbondingRepo.Add(ctx, depositor, net, releaseAt); err != nil {
		return nil, fmt.Errorf("failed to enqueue unbonding claim: %w", err)
	}

	split := cfg.SplitFactor
	state.TotalTickets -= int64(len(sequences))
	state.LotteryDeposits = state.LotteryDeposits.Sub(dep.DepositAmount.Mul(split))
	state.SharesSupply = state.SharesSupply.Sub(redeemShares)
	state.DepositShares = state.DepositShares.Sub(redeemShares.Sub(redeemShares.Mul(split)))
	if err := s.stateRepo.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to save pool state: %w", err)
	}

	dep.DepositAmount = decimal.Zero
	dep.Shares = decimal.Zero
	if err := s.depositorRepo.Save(ctx, dep); err != nil {
		return nil, fmt.Errorf("failed to save depositor: %w", err)
	}

	if err := s.eventPublisher.Publish(events.WithdrawalRequestedEvent{
		Depositor:       depositor,
		SharesBurned:    redeemShares,
		UnbondingAmount: net,
		ReleaseAt:       releaseAt,
	}); err != nil {
		return nil, fmt.Errorf("failed to publish withdrawal event: %w", err)
	}
	if err := s.eventPublisher.Publish(events.VaultRedeemRequestedEvent{
		InstructionID: uuid.New().String(),
		ShareAmount:   redeemVault,
	}); err != nil {
		return nil, fmt.Errorf("failed to publish vault redeem instruction: %w", err)
	}

	log.WithFields(log.Fields{
		"depositor":        depositor,
		"tickets_removed":  len(sequences),
		"shares_burned":    redeemShares,
		"unbonding_amount": net,
		"release_at":       releaseAt.UTC(),
	}).Info("Withdrawal entered unbonding")

	return &interfaces.WithdrawResult{
		Depositor:       depositor,
		TicketsRemoved:  int64(len(sequences)),
		SharesBurned:    redeemShares,
		VaultRedemption: redeemVault,
		UnbondingAmount: net,
		ReleaseAt:       releaseAt,
	}, nil
}

// Claim pays out matured unbonding claims plus the redeemable prize balance
func (s *poolService) Claim(ctx context.Context, now time.Time, depositor string, requested *decimal.Decimal) (*interfaces.ClaimResult, error) {
	if requested != nil && !requested.IsPositive() {
		return nil, fmt.Errorf("%w: claim amount", ErrAmountNotPositive)
	}

	cfg, err := s.configRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get pool config: %w", err)
	}
	if _, err := s.stateRepo.GetForUpdate(ctx); err != nil {
		return nil, fmt.Errorf("failed to lock pool state: %w", err)
	}

	dep, err := s.depositorRepo.Get(ctx, depositor)
	if err != nil {
		return nil, fmt.Errorf("failed to get depositor: %w", err)
	}
	if dep == nil {
		return nil, ErrNothingToClaim
	}

	matured, err := s.unbondingRepo.ListMatured(ctx, depositor, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list matured claims: %w", err)
	}

	// Drain matured entries oldest first. A requested amount acts as a cap:
	// the entry straddling it is reduced in place, everything beyond stays
	// queued. The prize balance is consumed only after the queue.
	remaining := decimal.Decimal{}
	capped := requested != nil
	if capped {
		remaining = *requested
	}

	total := decimal.Zero
	var drainedIDs []int64
	var partialID int64
	var partialLeft decimal.Decimal
	for _, claim := range matured {
		if capped && remaining.IsZero() {
			break
		}
		take := claim.Amount
		if capped && take.GreaterThan(remaining) {
			partialID = claim.ID
			partialLeft = claim.Amount.Sub(remaining)
			take = remaining
		} else {
			drainedIDs = append(drainedIDs, claim.ID)
		}
		total = total.Add(take)
		if capped {
			remaining = remaining.Sub(take)
		}
	}

	redeemed := dep.Redeemable
	if capped && redeemed.GreaterThan(remaining) {
		redeemed = remaining
	}
	total = total.Add(redeemed)

	net, err := s.tax.NetOf(ctx, total)
	if err != nil {
		return nil, fmt.Errorf("failed to compute net claim: %w", err)
	}
	if !net.IsPositive() {
		return nil, ErrNothingToClaim
	}

	// Never issue a payment instruction the pool cannot back.
	balance, err := s.bank.LiquidBalance(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query liquid balance: %w", err)
	}
	if net.GreaterThan(balance) {
		return nil, ErrInsufficientLiquidity
	}

	if len(drainedIDs) > 0 {
		if err := s.unbondingRepo.Remove(ctx, drainedIDs); err != nil {
			return nil, fmt.Errorf("failed to remove drained claims: %w", err)
		}
	}
	if partialID != 0 {
		if err := s.unbondingRepo.UpdateAmount(ctx, partialID, partialLeft); err != nil {
			return nil, fmt.Errorf("failed to reduce partial claim: %w", err)
		}
	}

	dep.Redeemable = dep.Redeemable.Sub(redeemed)
	if err := s.depositorRepo.Save(ctx, dep); err != nil {
		return nil, fmt.Errorf("failed to save depositor: %w", err)
	}

	if err := s.eventPublisher.Publish(events.ClaimPaidEvent{
		Depositor: depositor,
		Amount:    net,
	}); err != nil {
		return nil, fmt.Errorf("failed to publish claim event: %w", err)
	}
	if err := s.eventPublisher.Publish(events.FundsTransferRequestedEvent{
		InstructionID: uuid.New().String(),
		Recipient:     depositor,
		Amount:        net,
		Denom:         cfg.StableDenom,
	}); err != nil {
		return nil, fmt.Errorf("failed to publish transfer instruction: %w", err)
	}

	log.WithFields(log.Fields{
		"depositor":      depositor,
		"gross_amount":   total,
		"net_amount":     net,
		"claims_drained": len(drainedIDs),
	}).Info("Claim paid")

	return &interfaces.ClaimResult{
		Depositor:     depositor,
		GrossAmount:   total,
		NetAmount:     net,
		ClaimsDrained: len(drainedIDs),
	}, nil
}
