package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"prizepool/domain/entities"
	"prizepool/domain/events"
	"prizepool/domain/interfaces"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// prizeService implements the two-phase draw pipeline and the reserve sweep
type prizeService struct {
	configRepo     interfaces.PoolConfigRepository
	stateRepo      interfaces.PoolStateRepository
	depositorRepo  interfaces.DepositorRepository
	ticketRepo     interfaces.TicketRepository
	roundRepo      interfaces.LotteryRoundRepository
	vault          interfaces.YieldVault
	tax            interfaces.TaxPolicy
	bank           interfaces.StableBank
	eventPublisher interfaces.EventPublisher
}

// NewPrizeService creates a new prize service
func NewPrizeService(
	configRepo interfaces.PoolConfigRepository,
	stateRepo interfaces.PoolStateRepository,
	depositorRepo interfaces.DepositorRepository,
	ticketRepo interfaces.TicketRepository,
	roundRepo interfaces.LotteryRoundRepository,
	vault interfaces.YieldVault,
	tax interfaces.TaxPolicy,
	bank interfaces.StableBank,
	eventPublisher interfaces.EventPublisher,
) interfaces.PrizeService {
	return &prizeService{
		configRepo:     configRepo,
		stateRepo:      stateRepo,
		depositorRepo:  depositorRepo,
		ticketRepo:     ticketRepo,
		roundRepo:      roundRepo,
		vault:          vault,
		tax:            tax,
		bank:           bank,
		eventPublisher: eventPublisher,
	}
}

// ExecuteDraw starts a due draw. It realizes the yield earned by the
// lottery-exposed shares, accrues the reserve cut, requests the vault
// redemption and moves the pool into the prize-pending phase. Prize
// assignment runs as a separate step so the redemption settles first.
func (s *prizeService) ExecuteDraw(ctx context.Context, now time.Time) (*interfaces.DrawExecution, error) {
	cfg, err := s.configRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get pool config: %w", err)
	}
	state, err := s.stateRepo.GetForUpdate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to lock pool state: %w", err)
	}

	if state.DrawPhase != entities.DrawPhaseIdle {
		return nil, ErrDrawInProgress
	}
	if !state.DrawDue(now) {
		return nil, fmt.Errorf("%w: next draw at %s", ErrDrawNotDue, state.NextDrawTime.UTC())
	}

	rate, err := s.vault.ExchangeRate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query exchange rate: %w", err)
	}

	// Yield realized by the lottery-exposed shares since their principal was
	// deposited. The reserve takes its factor of the realized yield; the
	// remainder joins the prize pool.
	lotteryShares := state.LotteryShares()
	lotteryValue := lotteryShares.Mul(rate)
	realized := lotteryValue.Sub(state.LotteryDeposits)
	if realized.IsNegative() {
		realized = decimal.Zero
	}
	reserveCut := realized.Mul(cfg.ReserveFactor)
	awarded := realized.Sub(reserveCut)

	state.TotalReserve = state.TotalReserve.Add(reserveCut)
	state.AwardAvailable = state.AwardAvailable.Add(awarded)

	balance, err := s.bank.LiquidBalance(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query liquid balance: %w", err)
	}
	state.CurrentBalance = balance

	state.DrawPhase = entities.DrawPhasePrizePending
	if err := s.stateRepo.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to save pool state: %w", err)
	}

	if err := s.eventPublisher.Publish(events.VaultRedeemRequestedEvent{
		InstructionID: uuid.New().String(),
		ShareAmount:   lotteryShares,
	}); err != nil {
		return nil, fmt.Errorf("failed to publish vault redeem instruction: %w", err)
	}

	log.WithFields(log.Fields{
		"round":           state.CurrentRound,
		"realized_yield":  realized,
		"reserve_accrued": reserveCut,
		"award_available": state.AwardAvailable,
	}).Info("Draw executed, awaiting prize assignment")

	return &interfaces.DrawExecution{
		Round:           state.CurrentRound,
		RealizedYield:   realized,
		ReserveAccrued:  reserveCut,
		AwardAvailable:  state.AwardAvailable,
		VaultRedemption: lotteryShares,
	}, nil
}

// AssignPrizes completes a pending draw. Only reachable while the draw phase
// tag is prize-pending, never by caller identity.
func (s *prizeService) AssignPrizes(ctx context.Context, now time.Time, winningSequence string) (*entities.LotteryRound, error) {
	if !entities.IsValidSequence(winningSequence) {
		return nil, fmt.Errorf("%w: winning sequence %q", ErrInvalidSequence, winningSequence)
	}

	cfg, err := s.configRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get pool config: %w", err)
	}
	state, err := s.stateRepo.GetForUpdate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to lock pool state: %w", err)
	}

	if state.DrawPhase != entities.DrawPhasePrizePending {
		return nil, ErrNoPendingPrize
	}

	prize := state.AwardAvailable

	holders, err := s.ticketRepo.AllSequenceHolders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate sequences: %w", err)
	}

	// Group winning ticket instances by match tier. Sequences below the
	// lowest rewarded tier stay registered but win nothing.
	tiers := make(map[int][]string)
	for _, sh := range holders {
		matches := entities.CountSequenceMatches(sh.Sequence, winningSequence)
		if cfg.PrizeDistribution[matches].IsZero() {
			continue
		}
		tiers[matches] = append(tiers[matches], sh.Addresses...)
	}

	// Each tier splits its fixed fraction of the prize pool evenly among its
	// winning instances, independent of other tiers.
	totalAwarded := decimal.Zero
	credits := make(map[string]decimal.Decimal)
	var winners []entities.RoundWinner
	matchOrder := make([]int, 0, len(tiers))
	for m := range tiers {
		matchOrder = append(matchOrder, m)
	}
	sort.Ints(matchOrder)
	for _, matches := range matchOrder {
		addrs := tiers[matches]
		share := prize.Mul(cfg.PrizeDistribution[matches]).Div(decimal.NewFromInt(int64(len(addrs))))
		for _, addr := range addrs {
			credits[addr] = credits[addr].Add(share)
			totalAwarded = totalAwarded.Add(share)
			winners = append(winners, entities.RoundWinner{
				RoundID: state.CurrentRound,
				Matches: matches,
				Address: addr,
			})
		}
	}

	for addr, credit := range credits {
		dep, err := s.depositorRepo.Get(ctx, addr)
		if err != nil {
			return nil, fmt.Errorf("failed to get winner %s: %w", addr, err)
		}
		if dep == nil {
			return nil, fmt.Errorf("%w: winner %s has no depositor record", ErrRegistryInconsistent, addr)
		}
		dep.Redeemable = dep.Redeemable.Add(credit)
		if err := s.depositorRepo.Save(ctx, dep); err != nil {
			return nil, fmt.Errorf("failed to credit winner %s: %w", addr, err)
		}
	}

	round := &entities.LotteryRound{
		ID:              state.CurrentRound,
		WinningSequence: winningSequence,
		Awarded:         true,
		TotalPrizes:     totalAwarded,
		Winners:         winners,
	}
	if err := s.roundRepo.Create(ctx, round); err != nil {
		return nil, fmt.Errorf("failed to store round record: %w", err)
	}

	state.AwardAvailable = state.AwardAvailable.Sub(totalAwarded)
	state.NextDrawTime = state.NextDrawTime.Add(cfg.LotteryInterval)
	state.CurrentRound++
	state.DrawPhase = entities.DrawPhaseIdle
	if err := s.stateRepo.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to save pool state: %w", err)
	}

	if err := s.eventPublisher.Publish(events.RoundAwardedEvent{
		RoundID:         round.ID,
		WinningSequence: winningSequence,
		TotalPrizes:     totalAwarded,
		WinnerCount:     len(winners),
	}); err != nil {
		return nil, fmt.Errorf("failed to publish round event: %w", err)
	}

	// Send the lottery principal back to the vault now that the round's
	// yield has been carved out.
	if state.LotteryDeposits.IsPositive() {
		redeposit, err := s.tax.NetOf(ctx, state.LotteryDeposits)
		if err != nil {
			return nil, fmt.Errorf("failed to compute principal redeposit: %w", err)
		}
		if err := s.eventPublisher.Publish(events.VaultDepositRequestedEvent{
			InstructionID: uuid.New().String(),
			Amount:        redeposit,
			Denom:         cfg.StableDenom,
		}); err != nil {
			return nil, fmt.Errorf("failed to publish redeposit instruction: %w", err)
		}
	}

	log.WithFields(log.Fields{
		"round":            round.ID,
		"winning_sequence": winningSequence,
		"total_prizes":     totalAwarded,
		"winner_count":     len(winners),
		"next_draw_time":   state.NextDrawTime.UTC(),
	}).Info("Round awarded")

	return round, nil
}

// SweepReserve transfers the accrued reserve to the collector. Permissionless:
// the destination is fixed by config and the amount derives solely from
// ledger state.
func (s *prizeService) SweepReserve(ctx context.Context) (*interfaces.SweepResult, error) {
	cfg, err := s.configRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get pool config: %w", err)
	}
	state, err := s.stateRepo.GetForUpdate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to lock pool state: %w", err)
	}

	gross := state.TotalReserve
	result := &interfaces.SweepResult{
		GrossReserve: gross,
		NetTransfer:  decimal.Zero,
		Collector:    cfg.CollectorAddress,
	}
	if gross.IsZero() {
		return result, nil
	}
	if cfg.CollectorAddress == "" {
		return nil, fmt.Errorf("no collector registered")
	}

	net, err := s.tax.NetOf(ctx, gross)
	if err != nil {
		return nil, fmt.Errorf("failed to compute net sweep: %w", err)
	}

	state.TotalReserve = decimal.Zero
	if err := s.stateRepo.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to save pool state: %w", err)
	}

	if err := s.eventPublisher.Publish(events.ReserveSweptEvent{
		Collector: cfg.CollectorAddress,
		Amount:    net,
	}); err != nil {
		return nil, fmt.Errorf("failed to publish sweep event: %w", err)
	}
	if err := s.eventPublisher.Publish(events.FundsTransferRequestedEvent{
		InstructionID: uuid.New().String(),
		Recipient:     cfg.CollectorAddress,
		Amount:        net,
		Denom:         cfg.StableDenom,
	}); err != nil {
		return nil, fmt.Errorf("failed to publish transfer instruction: %w", err)
	}

	log.WithFields(log.Fields{
		"gross_reserve": gross,
		"net_transfer":  net,
		"collector":     cfg.CollectorAddress,
	}).Info("Reserve swept")

	result.NetTransfer = net
	return result, nil
}
