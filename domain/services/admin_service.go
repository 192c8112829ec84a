package services

import (
	"context"
	"fmt"

	"prizepool/domain/entities"
	"prizepool/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

const (
	defaultListLimit = 10
	maxListLimit     = 30
)

// adminService implements owner operations and read-only queries
type adminService struct {
	configRepo    interfaces.PoolConfigRepository
	stateRepo     interfaces.PoolStateRepository
	depositorRepo interfaces.DepositorRepository
	ticketRepo    interfaces.TicketRepository
	unbondingRepo interfaces.UnbondingClaimRepository
	roundRepo     interfaces.LotteryRoundRepository
}

// NewAdminService creates a new admin service
func NewAdminService(
	configRepo interfaces.PoolConfigRepository,
	stateRepo interfaces.PoolStateRepository,
	depositorRepo interfaces.DepositorRepository,
	ticketRepo interfaces.TicketRepository,
	unbondingRepo interfaces.UnbondingClaimRepository,
	roundRepo interfaces.LotteryRoundRepository,
) interfaces.AdminService {
	return &adminService{
		configRepo:    configRepo,
		stateRepo:     stateRepo,
		depositorRepo: depositorRepo,
		ticketRepo:    ticketRepo,
		unbondingRepo: unbondingRepo,
		roundRepo:     roundRepo,
	}
}

// RegisterCollaborators sets the collector and distributor addresses. One-shot
// so a later owner key compromise cannot redirect swept funds.
func (s *adminService) RegisterCollaborators(ctx context.Context, sender, collector, distributor string) error {
	if collector == "" || distributor == "" {
		return fmt.Errorf("collector and distributor addresses must be set")
	}

	cfg, err := s.configRepo.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to get pool config: %w", err)
	}
	if sender != cfg.Owner {
		return fmt.Errorf("%w: only the owner can register collaborators", ErrUnauthorized)
	}
	if cfg.HasCollaborators() {
		return ErrCollaboratorsRegistered
	}

	cfg.CollectorAddress = collector
	cfg.DistributorAddress = distributor
	if err := s.configRepo.Save(ctx, cfg); err != nil {
		return fmt.Errorf("failed to save pool config: %w", err)
	}

	log.WithFields(log.Fields{
		"collector":   collector,
		"distributor": distributor,
	}).Info("Collaborators registered")
	return nil
}

// UpdateConfig applies the non-nil fields of the update. An update carrying
// no fields is a valid no-op.
func (s *adminService) UpdateConfig(ctx context.Context, sender string, update interfaces.ConfigUpdate) error {
	cfg, err := s.configRepo.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to get pool config: %w", err)
	}
	if sender != cfg.Owner {
		return fmt.Errorf("%w: only the owner can update the config", ErrUnauthorized)
	}

	if update.Owner != nil {
		cfg.Owner = *update.Owner
	}
	if update.LotteryInterval != nil {
		cfg.LotteryInterval = *update.LotteryInterval
	}
	if update.BlockTime != nil {
		cfg.BlockTime = *update.BlockTime
	}
	if update.TicketPrice != nil {
		cfg.TicketPrice = *update.TicketPrice
	}
	if update.PrizeDistribution != nil {
		cfg.PrizeDistribution = update.PrizeDistribution
	}
	if update.ReserveFactor != nil {
		cfg.ReserveFactor = *update.ReserveFactor
	}
	if update.SplitFactor != nil {
		cfg.SplitFactor = *update.SplitFactor
	}
	if update.UnbondingPeriod != nil {
		cfg.UnbondingPeriod = *update.UnbondingPeriod
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config update: %w", err)
	}
	if err := s.configRepo.Save(ctx, cfg); err != nil {
		return fmt.Errorf("failed to save pool config: %w", err)
	}

	log.Info("Pool config updated")
	return nil
}

func (s *adminService) GetConfig(ctx context.Context) (*entities.PoolConfig, error) {
	return s.configRepo.Get(ctx)
}

func (s *adminService) GetState(ctx context.Context) (*entities.PoolState, error) {
	return s.stateRepo.Get(ctx)
}

// GetRound returns the requested round, defaulting to the round currently
// accumulating when id is nil. A round still in progress has no stored record
// and comes back empty with Awarded false.
func (s *adminService) GetRound(ctx context.Context, id *int64) (*entities.LotteryRound, error) {
	roundID := int64(0)
	if id != nil {
		roundID = *id
	} else {
		state, err := s.stateRepo.Get(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get pool state: %w", err)
		}
		roundID = state.CurrentRound
	}

	round, err := s.roundRepo.Get(ctx, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to get round %d: %w", roundID, err)
	}
	if round == nil {
		return &entities.LotteryRound{ID: roundID}, nil
	}
	return round, nil
}

// GetDepositor composes the depositor's ledger record with their tickets and
// unbonding claims. Unknown addresses come back as a zeroed record.
func (s *adminService) GetDepositor(ctx context.Context, address string) (*entities.Depositor, error) {
	dep, err := s.depositorRepo.Get(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("failed to get depositor: %w", err)
	}
	if dep == nil {
		return &entities.Depositor{Address: address}, nil
	}

	tickets, err := s.ticketRepo.SequencesByAddress(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("failed to get tickets: %w", err)
	}
	dep.Tickets = tickets

	claims, err := s.unbondingRepo.ListByAddress(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("failed to get unbonding claims: %w", err)
	}
	dep.UnbondingClaims = claims

	return dep, nil
}

func (s *adminService) ListDepositors(ctx context.Context, startAfter string, limit *int) ([]*entities.Depositor, error) {
	n := defaultListLimit
	if limit != nil {
		n = *limit
	}
	if n <= 0 {
		n = defaultListLimit
	}
	if n > maxListLimit {
		n = maxListLimit
	}
	return s.depositorRepo.List(ctx, startAfter, n)
}
