package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/brokersim/backend/internal/apperrors"
	"github.com/brokersim/backend/internal/model"
	"github.com/brokersim/backend/internal/repository"
)

// FundService handles cash account operations: lazy fund creation, deposits
// and withdrawals. Balance mutations hold the user's lock so they serialize
// with concurrent order execution for the same user.
type FundService struct {
	fundRepo *repository.FundRepository
	userRepo *repository.UserRepository
	locks    *UserLocks
}

// NewFundService creates a new FundService with the provided dependencies.
func NewFundService(
	fundRepo *repository.FundRepository,
	userRepo *repository.UserRepository,
	locks *UserLocks,
) *FundService {
	return &FundService{
		fundRepo: fundRepo,
		userRepo: userRepo,
		locks:    locks,
	}
}

// EnsureFund returns the user's fund, creating an empty one on first access.
func (s *FundService) EnsureFund(ctx context.Context, userID string) (model.Fund, error) {
	fund, err := s.fundRepo.GetFundByUserID(userID)
	if err == nil {
		return fund, nil
	}
	if !errors.Is(err, apperrors.ErrFundNotFound) {
		return model.Fund{}, err
	}

	fund = model.Fund{
		ID:     uuid.New().String(),
		UserID: userID,
	}
	if err := s.fundRepo.InsertFund(ctx, &fund); err != nil {
		return model.Fund{}, err
	}

	return fund, nil
}

// GetFund returns the user's fund snapshot with its ordered transaction log
// and the owning username. The fund is created lazily if absent.
func (s *FundService) GetFund(ctx context.Context, userID string) (model.FundResponse, error) {
	fund, err := s.EnsureFund(ctx, userID)
	if err != nil {
		return model.FundResponse{}, err
	}

	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return model.FundResponse{}, err
	}

	transactions, err := s.fundRepo.GetTransactions(fund.ID)
	if err != nil {
		return model.FundResponse{}, err
	}

	return model.FundResponse{
		Fund:         fund,
		Username:     user.Username,
		Transactions: transactions,
	}, nil
}

// Deposit credits the available amount, pay-in total and opening balance,
// and appends an "add" entry to the transaction log.
func (s *FundService) Deposit(ctx context.Context, userID string, amount float64) (model.Fund, error) {
	if amount <= 0 {
		return model.Fund{}, fmt.Errorf("%w: deposit amount %.2f", apperrors.ErrInvalidQuantityOrPrice, amount)
	}

	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	fund, err := s.EnsureFund(ctx, userID)
	if err != nil {
		return model.Fund{}, err
	}

	fund.AvailableAmount += amount
	fund.Payin += amount
	fund.OpeningBalance += amount

	if err := s.fundRepo.UpdateFund(ctx, &fund); err != nil {
		return model.Fund{}, err
	}

	if err := s.appendTransaction(ctx, fund.ID, model.TxKindAdd, amount); err != nil {
		return model.Fund{}, err
	}

	return fund, nil
}

// Withdraw debits the available amount and opening balance and credits the
// pay-out total. Fails with apperrors.ErrInsufficientFunds when the amount
// exceeds the available balance, leaving the fund untouched.
func (s *FundService) Withdraw(ctx context.Context, userID string, amount float64) (model.Fund, error) {
	if amount <= 0 {
		return model.Fund{}, fmt.Errorf("%w: withdrawal amount %.2f", apperrors.ErrInvalidQuantityOrPrice, amount)
	}

	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	fund, err := s.EnsureFund(ctx, userID)
	if err != nil {
		return model.Fund{}, err
	}

	if fund.AvailableAmount < amount {
		return model.Fund{}, fmt.Errorf("%w: requested %.2f, available %.2f",
			apperrors.ErrInsufficientFunds, amount, fund.AvailableAmount)
	}

	fund.AvailableAmount -= amount
	fund.OpeningBalance -= amount
	fund.Payout += amount

	if err := s.fundRepo.UpdateFund(ctx, &fund); err != nil {
		return model.Fund{}, err
	}

	if err := s.appendTransaction(ctx, fund.ID, model.TxKindWithdraw, amount); err != nil {
		return model.Fund{}, err
	}

	return fund, nil
}

func (s *FundService) appendTransaction(ctx context.Context, fundID, kind string, amount float64) error {
	return s.fundRepo.InsertTransaction(ctx, &model.FundTransaction{
		ID:        uuid.New().String(),
		FundID:    fundID,
		Kind:      kind,
		Amount:    amount,
		CreatedAt: time.Now().UTC(),
	})
}
