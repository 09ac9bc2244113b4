package service_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/brokersim/backend/internal/apperrors"
	"github.com/brokersim/backend/internal/model"
	"github.com/brokersim/backend/internal/repository"
	"github.com/brokersim/backend/internal/service"
	"github.com/brokersim/backend/internal/testutil"
)

const floatTolerance = 1e-6

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= floatTolerance
}

func buyIntent(symbol string, quantity, price float64) service.OrderIntent {
	return service.OrderIntent{
		Symbol:   symbol,
		Side:     model.SideBuy,
		Quantity: quantity,
		Price:    price,
	}
}

func sellIntent(symbol string, quantity, price float64) service.OrderIntent {
	return service.OrderIntent{
		Symbol:   symbol,
		Side:     model.SideSell,
		Quantity: quantity,
		Price:    price,
	}
}

// TestOrderService_ExecuteOrder_Buy tests buy execution across all four ledgers.
//
// WHY: A buy is the engine's richest write path. One executed order must leave
// a debited fund, an upserted holding with a correct weighted average cost, an
// upserted position, exactly one order log entry, and exactly one fund
// transaction.
func TestOrderService_ExecuteOrder_Buy(t *testing.T) {
	t.Run("first buy creates holding and position and debits fund", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestOrderService(t, db, testutil.NewMockQuoteClient(), nil)
		userID := testutil.CreateTestUser(t, db, "alice")
		testutil.CreateTestFund(t, db, userID, 10000)

		// Execute
		order, err := svc.ExecuteOrder(context.Background(), userID, buyIntent("AAPL", 10, 150))

		// Assert
		if err != nil {
			t.Fatalf("ExecuteOrder() returned unexpected error: %v", err)
		}
		if order.Status != model.StatusExecuted {
			t.Errorf("Expected status %s, got %s", model.StatusExecuted, order.Status)
		}
		if order.ExecutedAt == nil {
			t.Error("Expected ExecutedAt to be set on an executed order")
		}

		fund := testutil.GetFund(t, db, userID)
		if !almostEqual(fund.AvailableAmount, 8500) {
			t.Errorf("Expected available 8500 after buy, got %.2f", fund.AvailableAmount)
		}
		if !almostEqual(fund.InvestedAmount, 1500) {
			t.Errorf("Expected invested 1500 after buy, got %.2f", fund.InvestedAmount)
		}

		holding, err := repository.NewHoldingRepository(db).GetHolding(userID, "AAPL")
		if err != nil {
			t.Fatalf("Expected holding after buy, got error: %v", err)
		}
		if !almostEqual(holding.Quantity, 10) || !almostEqual(holding.AverageCost, 150) {
			t.Errorf("Expected holding 10 @ 150, got %.2f @ %.2f", holding.Quantity, holding.AverageCost)
		}
		if holding.LastOrderID != order.ID {
			t.Errorf("Expected holding to reference order %s, got %s", order.ID, holding.LastOrderID)
		}

		position, err := repository.NewPositionRepository(db).GetPosition(userID, "AAPL", model.ProductCNC)
		if err != nil {
			t.Fatalf("Expected position after buy, got error: %v", err)
		}
		if !almostEqual(position.Quantity, 10) || !almostEqual(position.AveragePrice, 150) {
			t.Errorf("Expected position 10 @ 150, got %.2f @ %.2f", position.Quantity, position.AveragePrice)
		}

		if n := testutil.CountRows(t, db, `"order"`); n != 1 {
			t.Errorf("Expected 1 order log entry, got %d", n)
		}
		if n := testutil.CountRows(t, db, "fund_transaction"); n != 1 {
			t.Errorf("Expected 1 fund transaction, got %d", n)
		}
	})

	t.Run("repeat buy recomputes weighted average cost", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		quoteClient := testutil.NewMockQuoteClient()
		quoteClient.SetQuote("AAPL", 200, 195)
		svc := testutil.NewTestOrderService(t, db, quoteClient, nil)
		userID := testutil.CreateTestUser(t, db, "alice")
		testutil.CreateTestFund(t, db, userID, 10000)

		// Execute: 10 @ 100 then 10 @ 200
		if _, err := svc.ExecuteOrder(context.Background(), userID, buyIntent("AAPL", 10, 100)); err != nil {
			t.Fatalf("First buy failed: %v", err)
		}
		if _, err := svc.ExecuteOrder(context.Background(), userID, buyIntent("AAPL", 10, 200)); err != nil {
			t.Fatalf("Second buy failed: %v", err)
		}

		// Assert: (100*10 + 200*10) / 20 = 150
		holding, err := repository.NewHoldingRepository(db).GetHolding(userID, "AAPL")
		if err != nil {
			t.Fatalf("Expected holding, got error: %v", err)
		}
		if !almostEqual(holding.Quantity, 20) {
			t.Errorf("Expected quantity 20, got %g", holding.Quantity)
		}
		if !almostEqual(holding.AverageCost, 150) {
			t.Errorf("Expected average cost 150, got %g", holding.AverageCost)
		}

		fund := testutil.GetFund(t, db, userID)
		if !almostEqual(fund.AvailableAmount, 7000) {
			t.Errorf("Expected available 7000, got %.2f", fund.AvailableAmount)
		}
		if !almostEqual(fund.InvestedAmount, 3000) {
			t.Errorf("Expected invested 3000, got %.2f", fund.InvestedAmount)
		}
	})

	t.Run("insufficient funds leaves every ledger unchanged", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestOrderService(t, db, testutil.NewMockQuoteClient(), nil)
		userID := testutil.CreateTestUser(t, db, "alice")
		testutil.CreateTestFund(t, db, userID, 100)

		// Execute
		_, err := svc.ExecuteOrder(context.Background(), userID, buyIntent("AAPL", 10, 150))

		// Assert
		if !errors.Is(err, apperrors.ErrInsufficientFunds) {
			t.Fatalf("Expected ErrInsufficientFunds, got %v", err)
		}

		fund := testutil.GetFund(t, db, userID)
		if !almostEqual(fund.AvailableAmount, 100) || !almostEqual(fund.InvestedAmount, 0) {
			t.Errorf("Fund mutated by rejected order: available %.2f invested %.2f",
				fund.AvailableAmount, fund.InvestedAmount)
		}
		if n := testutil.CountRows(t, db, "holding"); n != 0 {
			t.Errorf("Expected no holdings after rejected order, got %d", n)
		}
		if n := testutil.CountRows(t, db, `"order"`); n != 0 {
			t.Errorf("Expected empty order log after rejected order, got %d", n)
		}
		if n := testutil.CountRows(t, db, "fund_transaction"); n != 0 {
			t.Errorf("Expected no fund transactions after rejected order, got %d", n)
		}
	})

	t.Run("rejects buy priced below last recorded price", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestOrderService(t, db, testutil.NewMockQuoteClient(), nil)
		userID := testutil.CreateTestUser(t, db, "alice")
		testutil.CreateTestFund(t, db, userID, 10000)
		testutil.CreateTestHolding(t, db, userID, "AAPL", 5, 150)

		// Execute
		_, err := svc.ExecuteOrder(context.Background(), userID, buyIntent("AAPL", 1, 140))

		// Assert
		if !errors.Is(err, apperrors.ErrBuyBelowLastPrice) {
			t.Fatalf("Expected ErrBuyBelowLastPrice, got %v", err)
		}
	})

	t.Run("accepts buy below last price when the policy is disabled", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		cfg := testutil.NewTestConfig()
		cfg.Trading.RejectBuyBelowLast = false
		svc := testutil.NewTestOrderService(t, db, testutil.NewMockQuoteClient(), cfg)
		userID := testutil.CreateTestUser(t, db, "alice")
		testutil.CreateTestFund(t, db, userID, 10000)
		testutil.CreateTestHolding(t, db, userID, "AAPL", 5, 150)

		// Execute
		_, err := svc.ExecuteOrder(context.Background(), userID, buyIntent("AAPL", 1, 140))

		// Assert
		if err != nil {
			t.Fatalf("Expected buy to execute with policy disabled, got %v", err)
		}
	})

	t.Run("rejects non-positive price and quantity before any write", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestOrderService(t, db, testutil.NewMockQuoteClient(), nil)
		userID := testutil.CreateTestUser(t, db, "alice")
		testutil.CreateTestFund(t, db, userID, 10000)

		cases := []service.OrderIntent{
			buyIntent("AAPL", 0, 100),
			buyIntent("AAPL", 10, 0),
			buyIntent("AAPL", -5, 100),
			buyIntent("AAPL", 10, -1),
		}
		for _, intent := range cases {
			if _, err := svc.ExecuteOrder(context.Background(), userID, intent); !errors.Is(err, apperrors.ErrInvalidQuantityOrPrice) {
				t.Errorf("Intent qty=%g price=%g: expected ErrInvalidQuantityOrPrice, got %v",
					intent.Quantity, intent.Price, err)
			}
		}

		if n := testutil.CountRows(t, db, `"order"`); n != 0 {
			t.Errorf("Expected empty order log, got %d entries", n)
		}
	})
}

// TestOrderService_ExecuteOrder_Sell tests sell execution and holding teardown.
//
// WHY: Sells have the most edge cases: partial sells, sells that empty the
// holding, notional sells deriving quantity from an amount, and oversells that
// must be rejected against the held quantity.
func TestOrderService_ExecuteOrder_Sell(t *testing.T) {
	// seedPortfolio buys the given quantity so holding, position, and fund
	// agree before each sell scenario.
	seedPortfolio := func(t *testing.T, svc *service.OrderService, userID string, quantity, price float64) {
		t.Helper()
		if _, err := svc.ExecuteOrder(context.Background(), userID, buyIntent("AAPL", quantity, price)); err != nil {
			t.Fatalf("Seed buy failed: %v", err)
		}
	}

	t.Run("partial sell reduces holding and credits fund", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestOrderService(t, db, testutil.NewMockQuoteClient(), nil)
		userID := testutil.CreateTestUser(t, db, "alice")
		testutil.CreateTestFund(t, db, userID, 10000)
		seedPortfolio(t, svc, userID, 10, 100)

		// Execute: sell 4 @ 120
		order, err := svc.ExecuteOrder(context.Background(), userID, sellIntent("AAPL", 4, 120))
		if err != nil {
			t.Fatalf("ExecuteOrder() returned unexpected error: %v", err)
		}
		if !almostEqual(order.Quantity, 4) {
			t.Errorf("Expected order quantity 4, got %g", order.Quantity)
		}

		// Assert: proceeds 480 on both fund sides
		fund := testutil.GetFund(t, db, userID)
		if !almostEqual(fund.AvailableAmount, 9000+480) {
			t.Errorf("Expected available 9480, got %.2f", fund.AvailableAmount)
		}
		if !almostEqual(fund.InvestedAmount, 1000-480) {
			t.Errorf("Expected invested 520, got %.2f", fund.InvestedAmount)
		}

		holding, err := repository.NewHoldingRepository(db).GetHolding(userID, "AAPL")
		if err != nil {
			t.Fatalf("Expected remaining holding, got error: %v", err)
		}
		if !almostEqual(holding.Quantity, 6) {
			t.Errorf("Expected 6 shares remaining, got %g", holding.Quantity)
		}
		if !almostEqual(holding.AverageCost, 100) {
			t.Errorf("Average cost must not change on sell, got %g", holding.AverageCost)
		}
	})

	t.Run("selling the full quantity deletes holding and position", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestOrderService(t, db, testutil.NewMockQuoteClient(), nil)
		userID := testutil.CreateTestUser(t, db, "alice")
		testutil.CreateTestFund(t, db, userID, 10000)
		seedPortfolio(t, svc, userID, 10, 100)

		// Execute
		if _, err := svc.ExecuteOrder(context.Background(), userID, sellIntent("AAPL", 10, 110)); err != nil {
			t.Fatalf("ExecuteOrder() returned unexpected error: %v", err)
		}

		// Assert
		if _, err := repository.NewHoldingRepository(db).GetHolding(userID, "AAPL"); !errors.Is(err, apperrors.ErrHoldingNotFound) {
			t.Errorf("Expected holding deleted, got %v", err)
		}
		if _, err := repository.NewPositionRepository(db).GetPosition(userID, "AAPL", model.ProductCNC); !errors.Is(err, apperrors.ErrPositionNotFound) {
			t.Errorf("Expected position deleted, got %v", err)
		}
	})

	t.Run("notional sell derives quantity from amount", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestOrderService(t, db, testutil.NewMockQuoteClient(), nil)
		userID := testutil.CreateTestUser(t, db, "alice")
		testutil.CreateTestFund(t, db, userID, 10000)
		seedPortfolio(t, svc, userID, 10, 100)

		// Execute: sell 600 worth at 120 -> 5 shares
		order, err := svc.ExecuteOrder(context.Background(), userID, service.OrderIntent{
			Symbol: "AAPL",
			Side:   model.SideSell,
			Amount: 600,
			Price:  120,
		})
		if err != nil {
			t.Fatalf("ExecuteOrder() returned unexpected error: %v", err)
		}

		// Assert
		if !almostEqual(order.Quantity, 5) {
			t.Errorf("Expected derived quantity 5, got %g", order.Quantity)
		}
		holding, err := repository.NewHoldingRepository(db).GetHolding(userID, "AAPL")
		if err != nil {
			t.Fatalf("Expected remaining holding, got error: %v", err)
		}
		if !almostEqual(holding.Quantity, 5) {
			t.Errorf("Expected 5 shares remaining, got %g", holding.Quantity)
		}
	})

	t.Run("notional sell of the full value deletes the holding", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestOrderService(t, db, testutil.NewMockQuoteClient(), nil)
		userID := testutil.CreateTestUser(t, db, "alice")
		testutil.CreateTestFund(t, db, userID, 10000)
		seedPortfolio(t, svc, userID, 3, 100)

		// Execute: 360 / 120 = exactly 3 shares
		if _, err := svc.ExecuteOrder(context.Background(), userID, service.OrderIntent{
			Symbol: "AAPL",
			Side:   model.SideSell,
			Amount: 360,
			Price:  120,
		}); err != nil {
			t.Fatalf("ExecuteOrder() returned unexpected error: %v", err)
		}

		// Assert
		if _, err := repository.NewHoldingRepository(db).GetHolding(userID, "AAPL"); !errors.Is(err, apperrors.ErrHoldingNotFound) {
			t.Errorf("Expected holding deleted, got %v", err)
		}
	})

	t.Run("oversell is rejected and leaves ledgers unchanged", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestOrderService(t, db, testutil.NewMockQuoteClient(), nil)
		userID := testutil.CreateTestUser(t, db, "alice")
		testutil.CreateTestFund(t, db, userID, 10000)
		seedPortfolio(t, svc, userID, 5, 100)
		before := testutil.GetFund(t, db, userID)

		// Execute
		_, err := svc.ExecuteOrder(context.Background(), userID, sellIntent("AAPL", 6, 100))

		// Assert
		if !errors.Is(err, apperrors.ErrInsufficientQuantity) {
			t.Fatalf("Expected ErrInsufficientQuantity, got %v", err)
		}
		after := testutil.GetFund(t, db, userID)
		if !almostEqual(before.AvailableAmount, after.AvailableAmount) || !almostEqual(before.InvestedAmount, after.InvestedAmount) {
			t.Errorf("Fund mutated by rejected oversell: before %+v after %+v", before, after)
		}
		holding, err := repository.NewHoldingRepository(db).GetHolding(userID, "AAPL")
		if err != nil {
			t.Fatalf("Expected holding intact, got error: %v", err)
		}
		if !almostEqual(holding.Quantity, 5) {
			t.Errorf("Expected 5 shares intact, got %g", holding.Quantity)
		}
	})

	t.Run("sell without a holding fails with not found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestOrderService(t, db, testutil.NewMockQuoteClient(), nil)
		userID := testutil.CreateTestUser(t, db, "alice")
		testutil.CreateTestFund(t, db, userID, 10000)

		_, err := svc.ExecuteOrder(context.Background(), userID, sellIntent("MSFT", 1, 100))
		if !errors.Is(err, apperrors.ErrHoldingNotFound) {
			t.Fatalf("Expected ErrHoldingNotFound, got %v", err)
		}
	})
}

// TestOrderService_ExecuteOrder_QuoteFallback tests quote gateway degradation.
//
// WHY: Order execution must never depend on the quote source being up. A
// failed quote call falls back to the order price for display-only fields.
func TestOrderService_ExecuteOrder_QuoteFallback(t *testing.T) {
	t.Run("quote failure falls back to the order price", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		quoteClient := testutil.NewMockQuoteClient()
		quoteClient.Err = apperrors.ErrQuoteUnavailable
		svc := testutil.NewTestOrderService(t, db, quoteClient, nil)
		userID := testutil.CreateTestUser(t, db, "alice")
		testutil.CreateTestFund(t, db, userID, 10000)

		// Execute
		if _, err := svc.ExecuteOrder(context.Background(), userID, buyIntent("AAPL", 10, 150)); err != nil {
			t.Fatalf("Order must execute despite quote failure, got %v", err)
		}

		// Assert
		holding, err := repository.NewHoldingRepository(db).GetHolding(userID, "AAPL")
		if err != nil {
			t.Fatalf("Expected holding, got error: %v", err)
		}
		if !almostEqual(holding.LastPrice, 150) || !almostEqual(holding.PreviousClose, 150) {
			t.Errorf("Expected fallback pricing 150/150, got %g/%g", holding.LastPrice, holding.PreviousClose)
		}
	})

	t.Run("live quote populates display fields", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		quoteClient := testutil.NewMockQuoteClient()
		quoteClient.SetQuote("AAPL", 160, 155)
		svc := testutil.NewTestOrderService(t, db, quoteClient, nil)
		userID := testutil.CreateTestUser(t, db, "alice")
		testutil.CreateTestFund(t, db, userID, 10000)

		// Execute
		if _, err := svc.ExecuteOrder(context.Background(), userID, buyIntent("AAPL", 10, 150)); err != nil {
			t.Fatalf("ExecuteOrder() returned unexpected error: %v", err)
		}

		// Assert
		holding, err := repository.NewHoldingRepository(db).GetHolding(userID, "AAPL")
		if err != nil {
			t.Fatalf("Expected holding, got error: %v", err)
		}
		if !almostEqual(holding.LastPrice, 160) || !almostEqual(holding.PreviousClose, 155) {
			t.Errorf("Expected quote pricing 160/155, got %g/%g", holding.LastPrice, holding.PreviousClose)
		}
		if !almostEqual(holding.NetChange, (160-150)*10) {
			t.Errorf("Expected net change 100, got %g", holding.NetChange)
		}
		if !almostEqual(holding.DayChange, (160-155)*10) {
			t.Errorf("Expected day change 50, got %g", holding.DayChange)
		}
	})
}

// TestOrderService_ExecuteOrder_Concurrent tests per-user serialization.
//
// WHY: Concurrent orders from one user serialize through the user's lock, so
// every buy must see the previous buy's holding and fund state. Lost updates
// would show up as a wrong final quantity or balance.
func TestOrderService_ExecuteOrder_Concurrent(t *testing.T) {
	t.Run("concurrent single-share buys all land", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestOrderService(t, db, testutil.NewMockQuoteClient(), nil)
		userID := testutil.CreateTestUser(t, db, "alice")
		testutil.CreateTestFund(t, db, userID, 10000)

		const buyers = 8

		// Execute
		var wg sync.WaitGroup
		errs := make(chan error, buyers)
		for i := 0; i < buyers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := svc.ExecuteOrder(context.Background(), userID, buyIntent("AAPL", 1, 100))
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)

		// Assert
		for err := range errs {
			if err != nil {
				t.Fatalf("Concurrent buy failed: %v", err)
			}
		}

		holding, err := repository.NewHoldingRepository(db).GetHolding(userID, "AAPL")
		if err != nil {
			t.Fatalf("Expected holding, got error: %v", err)
		}
		if !almostEqual(holding.Quantity, buyers) {
			t.Errorf("Expected %d shares, got %g", buyers, holding.Quantity)
		}

		fund := testutil.GetFund(t, db, userID)
		if !almostEqual(fund.AvailableAmount, 10000-buyers*100) {
			t.Errorf("Expected available %d, got %.2f", 10000-buyers*100, fund.AvailableAmount)
		}
		if n := testutil.CountRows(t, db, `"order"`); n != buyers {
			t.Errorf("Expected %d order log entries, got %d", buyers, n)
		}
	})
}

// TestOrderService_LedgerIdentity tests the cross-ledger balance identity.
//
// WHY: Across any sequence of executed operations, available + invested must
// equal the opening balance, and the transaction log must account for every
// cash movement. This is the reconciliation property the engine exists to
// maintain.
func TestOrderService_LedgerIdentity(t *testing.T) {
	t.Run("available plus invested equals opening balance", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestOrderService(t, db, testutil.NewMockQuoteClient(), nil)
		userID := testutil.CreateTestUser(t, db, "alice")
		testutil.CreateTestFund(t, db, userID, 5000)

		// Execute a mixed sequence
		steps := []service.OrderIntent{
			buyIntent("AAPL", 10, 100),
			buyIntent("MSFT", 5, 200),
			sellIntent("AAPL", 4, 110),
			buyIntent("AAPL", 2, 120),
			sellIntent("MSFT", 5, 190),
		}
		for i, intent := range steps {
			if _, err := svc.ExecuteOrder(context.Background(), userID, intent); err != nil {
				t.Fatalf("Step %d (%s %s) failed: %v", i, intent.Side, intent.Symbol, err)
			}

			fund := testutil.GetFund(t, db, userID)
			if !almostEqual(fund.AvailableAmount+fund.InvestedAmount, fund.OpeningBalance) {
				t.Fatalf("Step %d broke the ledger identity: available %.2f + invested %.2f != opening %.2f",
					i, fund.AvailableAmount, fund.InvestedAmount, fund.OpeningBalance)
			}
		}

		// Assert: one transaction per executed order
		if n := testutil.CountRows(t, db, "fund_transaction"); n != len(steps) {
			t.Errorf("Expected %d fund transactions, got %d", len(steps), n)
		}
	})
}

// TestOrderService_ListOrders tests order log retrieval.
func TestOrderService_ListOrders(t *testing.T) {
	t.Run("returns empty slice for a user with no orders", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestOrderService(t, db, testutil.NewMockQuoteClient(), nil)
		userID := testutil.CreateTestUser(t, db, "alice")

		orders, err := svc.ListOrders(userID)
		if err != nil {
			t.Fatalf("ListOrders() returned unexpected error: %v", err)
		}
		if len(orders) != 0 {
			t.Errorf("Expected empty slice, got %d orders", len(orders))
		}
	})

	t.Run("returns the user's executed orders", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestOrderService(t, db, testutil.NewMockQuoteClient(), nil)
		userID := testutil.CreateTestUser(t, db, "alice")
		otherID := testutil.CreateTestUser(t, db, "bob")
		testutil.CreateTestFund(t, db, userID, 10000)
		testutil.CreateTestFund(t, db, otherID, 10000)

		if _, err := svc.ExecuteOrder(context.Background(), userID, buyIntent("AAPL", 1, 100)); err != nil {
			t.Fatalf("Buy failed: %v", err)
		}
		if _, err := svc.ExecuteOrder(context.Background(), otherID, buyIntent("MSFT", 1, 100)); err != nil {
			t.Fatalf("Buy failed: %v", err)
		}

		orders, err := svc.ListOrders(userID)
		if err != nil {
			t.Fatalf("ListOrders() returned unexpected error: %v", err)
		}
		if len(orders) != 1 {
			t.Fatalf("Expected 1 order, got %d", len(orders))
		}
		if orders[0].Symbol != "AAPL" {
			t.Errorf("Expected AAPL, got %s", orders[0].Symbol)
		}
	})
}
