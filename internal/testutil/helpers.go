package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/brokersim/backend/internal/config"
	"github.com/brokersim/backend/internal/model"
	"github.com/brokersim/backend/internal/quote"
	"github.com/brokersim/backend/internal/repository"
	"github.com/brokersim/backend/internal/service"
)

// NewTestConfig returns a config with test-friendly defaults: short quote
// timeout, scheduled refresh disabled, buy price floor enabled.
func NewTestConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			TokenTTL: time.Hour,
		},
		Quote: config.QuoteConfig{
			Timeout: time.Second,
		},
		Trading: config.TradingConfig{
			RejectBuyBelowLast: true,
		},
	}
}

func NewTestAuthService(t *testing.T, db *sql.DB) *service.AuthService {
	t.Helper()

	userRepo := repository.NewUserRepository(db)
	authService, err := service.NewAuthService(userRepo, NewTestConfig().Auth)
	if err != nil {
		t.Fatalf("Failed to create auth service: %v", err)
	}
	return authService
}

func NewTestFundService(t *testing.T, db *sql.DB) *service.FundService {
	t.Helper()

	return service.NewFundService(
		repository.NewFundRepository(db),
		repository.NewUserRepository(db),
		service.NewUserLocks(),
	)
}

// NewTestOrderService wires the reconciliation engine against the test
// database and the given quote client. The lock registry is shared with the
// embedded fund service so deposits and orders serialize per user.
func NewTestOrderService(t *testing.T, db *sql.DB, quoteClient *MockQuoteClient, cfg *config.Config) *service.OrderService {
	t.Helper()

	if cfg == nil {
		cfg = NewTestConfig()
	}

	fundRepo := repository.NewFundRepository(db)
	locks := service.NewUserLocks()
	fundService := service.NewFundService(fundRepo, repository.NewUserRepository(db), locks)

	return service.NewOrderService(
		repository.NewOrderRepository(db),
		repository.NewHoldingRepository(db),
		repository.NewPositionRepository(db),
		fundRepo,
		fundService,
		quoteClient,
		locks,
		cfg,
	)
}

func NewTestHoldingService(t *testing.T, db *sql.DB, quoteClient quote.Client) *service.HoldingService {
	t.Helper()

	return service.NewHoldingService(
		repository.NewHoldingRepository(db),
		quoteClient,
		time.Second,
	)
}

func NewTestPositionService(t *testing.T, db *sql.DB) *service.PositionService {
	t.Helper()

	return service.NewPositionService(repository.NewPositionRepository(db))
}

// CreateTestUser inserts a user row and returns its ID.
func CreateTestUser(t *testing.T, db *sql.DB, username string) string {
	t.Helper()

	id := uuid.New().String()
	user := &model.User{
		ID:           id,
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "not-a-real-hash",
		CreatedAt:    time.Now().UTC(),
	}
	if err := repository.NewUserRepository(db).InsertUser(context.Background(), user); err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return id
}

// CreateTestFund inserts a fund row with the given cash available. Opening
// balance and payin are set to match, so the fund starts internally
// consistent.
func CreateTestFund(t *testing.T, db *sql.DB, userID string, available float64) model.Fund {
	t.Helper()

	fund := model.Fund{
		ID:              uuid.New().String(),
		UserID:          userID,
		AvailableAmount: available,
		OpeningBalance:  available,
		Payin:           available,
	}
	if err := repository.NewFundRepository(db).InsertFund(context.Background(), &fund); err != nil {
		t.Fatalf("Failed to create test fund: %v", err)
	}
	return fund
}

// CreateTestHolding inserts a holding row priced at its average cost.
func CreateTestHolding(t *testing.T, db *sql.DB, userID, symbol string, quantity, averageCost float64) model.Holding {
	t.Helper()

	holding := model.Holding{
		ID:            uuid.New().String(),
		UserID:        userID,
		Symbol:        symbol,
		Quantity:      quantity,
		AverageCost:   averageCost,
		LastPrice:     averageCost,
		PreviousClose: averageCost,
	}
	if err := repository.NewHoldingRepository(db).InsertHolding(context.Background(), &holding); err != nil {
		t.Fatalf("Failed to create test holding: %v", err)
	}
	return holding
}

// GetFund reads the current fund row for a user, failing the test on error.
func GetFund(t *testing.T, db *sql.DB, userID string) model.Fund {
	t.Helper()

	fund, err := repository.NewFundRepository(db).GetFundByUserID(userID)
	if err != nil {
		t.Fatalf("Failed to read fund: %v", err)
	}
	return fund
}
