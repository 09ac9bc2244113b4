package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	"github.com/brokersim/backend/internal/apperrors"
	"github.com/brokersim/backend/internal/config"
	"github.com/brokersim/backend/internal/model"
	"github.com/brokersim/backend/internal/quote"
	"github.com/brokersim/backend/internal/repository"
)

// quantityEpsilon bounds float drift when deciding whether a sell emptied a
// holding. Notional sells (quantity = amount / price) rarely land on an
// exact binary quantity.
const quantityEpsilon = 1e-9

// conflictRetries bounds retries of version-guarded holding writes before the
// conflict surfaces as a transient failure.
const conflictRetries = 3

// OrderIntent is an incoming order before validation. For sells, either
// Quantity or a notional Amount must be set; when Amount is given the sell
// quantity is derived as Amount / Price.
type OrderIntent struct {
	Symbol       string
	Side         string
	OrderType    string
	ProductType  string
	Validity     string
	Quantity     float64
	Amount       float64
	Price        float64
	TriggerPrice float64
	Remarks      string
}

// OrderService is the reconciliation engine. For every order it validates
// the intent against the user's fund and holding state, then applies updates
// across the three ledgers and the order log in a fixed order:
// Fund -> Holding -> Position -> Order Log.
//
// All validation happens before the first write; once the fund has been
// debited, a failure on a later ledger is logged as a consistency hazard
// rather than rolled back, because the ledgers are independent records with
// no shared transaction.
type OrderService struct {
	orderRepo    *repository.OrderRepository
	holdingRepo  *repository.HoldingRepository
	positionRepo *repository.PositionRepository
	fundRepo     *repository.FundRepository
	fundService  *FundService
	quoteClient  quote.Client
	locks        *UserLocks
	quoteTimeout time.Duration

	// rejectBuyBelowLast keeps the original advisory policy: reject buys
	// priced below the holding's last recorded price.
	rejectBuyBelowLast bool
}

// NewOrderService creates a new OrderService with the provided dependencies.
func NewOrderService(
	orderRepo *repository.OrderRepository,
	holdingRepo *repository.HoldingRepository,
	positionRepo *repository.PositionRepository,
	fundRepo *repository.FundRepository,
	fundService *FundService,
	quoteClient quote.Client,
	locks *UserLocks,
	cfg *config.Config,
) *OrderService {
	return &OrderService{
		orderRepo:          orderRepo,
		holdingRepo:        holdingRepo,
		positionRepo:       positionRepo,
		fundRepo:           fundRepo,
		fundService:        fundService,
		quoteClient:        quoteClient,
		locks:              locks,
		quoteTimeout:       cfg.Quote.Timeout,
		rejectBuyBelowLast: cfg.Trading.RejectBuyBelowLast,
	}
}

// ListOrders retrieves a user's order log, most recent first.
func (s *OrderService) ListOrders(userID string) ([]model.Order, error) {
	return s.orderRepo.ListOrdersByUser(userID)
}

// ExecuteOrder validates and executes one order intent for the user.
//
// The user's lock is held across the whole read-validate-write sequence, so
// concurrent orders from the same user serialize. Precondition violations
// (invalid input, insufficient funds, insufficient quantity, missing holding)
// abort before any ledger is touched and surface as typed errors.
func (s *OrderService) ExecuteOrder(ctx context.Context, userID string, intent OrderIntent) (*model.Order, error) {
	if err := s.normalize(&intent); err != nil {
		return nil, err
	}

	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	fund, err := s.fundService.EnsureFund(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Display-only pricing; on failure fall back to the order price.
	lastPrice, prevClose := s.fetchQuote(ctx, intent.Symbol, intent.Price)

	switch intent.Side {
	case model.SideBuy:
		return s.executeBuy(ctx, userID, fund, intent, lastPrice, prevClose)
	case model.SideSell:
		return s.executeSell(ctx, userID, fund, intent, lastPrice, prevClose)
	default:
		return nil, fmt.Errorf("%w: side %q", apperrors.ErrInvalidQuantityOrPrice, intent.Side)
	}
}

// normalize fills defaults and checks the shared preconditions.
func (s *OrderService) normalize(intent *OrderIntent) error {
	if intent.Price <= 0 {
		return fmt.Errorf("%w: price %.2f", apperrors.ErrInvalidQuantityOrPrice, intent.Price)
	}
	if intent.Quantity <= 0 && intent.Amount <= 0 {
		return fmt.Errorf("%w: quantity %.2f", apperrors.ErrInvalidQuantityOrPrice, intent.Quantity)
	}
	if intent.Side == model.SideBuy && intent.Quantity <= 0 {
		return fmt.Errorf("%w: buy orders require a share quantity", apperrors.ErrInvalidQuantityOrPrice)
	}

	if intent.OrderType == "" {
		intent.OrderType = model.OrderTypeLimit
	}
	if intent.ProductType == "" {
		intent.ProductType = model.ProductCNC
	}
	if intent.Validity == "" {
		intent.Validity = model.ValidityDay
	}

	return nil
}

// fetchQuote consults the quote gateway with a short deadline. Quote failure
// must never block order execution, so any error degrades to the caller's
// price for both the last price and the previous close.
func (s *OrderService) fetchQuote(ctx context.Context, symbol string, fallback float64) (lastPrice, prevClose float64) {
	qctx, cancel := context.WithTimeout(ctx, s.quoteTimeout)
	defer cancel()

	q, err := s.quoteClient.GetQuote(qctx, symbol)
	if err != nil || q.LastPrice <= 0 {
		return fallback, fallback
	}

	prevClose = q.PreviousClose
	if prevClose <= 0 {
		prevClose = q.LastPrice
	}
	return q.LastPrice, prevClose
}

func (s *OrderService) executeBuy(
	ctx context.Context,
	userID string,
	fund model.Fund,
	intent OrderIntent,
	lastPrice, prevClose float64,
) (*model.Order, error) {
	holding, err := s.holdingRepo.GetHolding(userID, intent.Symbol)
	holdingExists := err == nil
	if err != nil && !errors.Is(err, apperrors.ErrHoldingNotFound) {
		return nil, err
	}

	if holdingExists && s.rejectBuyBelowLast && intent.Price < holding.LastPrice {
		return nil, fmt.Errorf("%w: last recorded price %.2f, order price %.2f",
			apperrors.ErrBuyBelowLastPrice, holding.LastPrice, intent.Price)
	}

	cost := intent.Quantity * intent.Price
	if fund.AvailableAmount < cost {
		return nil, fmt.Errorf("%w: order costs %.2f, available %.2f",
			apperrors.ErrInsufficientFunds, cost, fund.AvailableAmount)
	}

	order := s.newExecutedOrder(userID, intent, intent.Quantity)

	// Validation is done; apply in fixed order. Fund first.
	fund.AvailableAmount -= cost
	fund.InvestedAmount += cost
	if err := s.fundRepo.UpdateFund(ctx, &fund); err != nil {
		return nil, err
	}

	// Holding second.
	if holdingExists {
		err = s.updateHoldingWithRetry(ctx, userID, intent.Symbol, func(h *model.Holding) {
			totalQty := h.Quantity + intent.Quantity
			h.AverageCost = (h.AverageCost*h.Quantity + intent.Price*intent.Quantity) / totalQty
			h.Quantity = totalQty
			h.LastPrice = lastPrice
			h.PreviousClose = prevClose
			h.NetChange = (lastPrice - h.AverageCost) * totalQty
			h.DayChange = (lastPrice - prevClose) * totalQty
			h.LastOrderID = order.ID
		})
	} else {
		err = s.holdingRepo.InsertHolding(ctx, &model.Holding{
			ID:            uuid.New().String(),
			UserID:        userID,
			Symbol:        intent.Symbol,
			Quantity:      intent.Quantity,
			AverageCost:   intent.Price,
			LastPrice:     lastPrice,
			PreviousClose: prevClose,
			NetChange:     (lastPrice - intent.Price) * intent.Quantity,
			DayChange:     (lastPrice - prevClose) * intent.Quantity,
			LastOrderID:   order.ID,
		})
	}
	if err != nil {
		return nil, s.hazard(userID, order, "holding", err)
	}

	// Position third.
	if err := s.applyBuyToPosition(ctx, userID, intent, lastPrice); err != nil {
		return nil, s.hazard(userID, order, "position", err)
	}

	// Order log and fund transaction last.
	if err := s.appendOrderAndTransaction(ctx, fund.ID, order, model.TxKindBuy, cost); err != nil {
		return nil, s.hazard(userID, order, "order log", err)
	}

	return order, nil
}

func (s *OrderService) executeSell(
	ctx context.Context,
	userID string,
	fund model.Fund,
	intent OrderIntent,
	lastPrice, prevClose float64,
) (*model.Order, error) {
	holding, err := s.holdingRepo.GetHolding(userID, intent.Symbol)
	if err != nil {
		return nil, err
	}

	// Notional sells derive the share count from the amount.
	sellQty := intent.Quantity
	if sellQty <= 0 {
		sellQty = intent.Amount / intent.Price
	}

	if sellQty > holding.Quantity+quantityEpsilon {
		return nil, fmt.Errorf("%w: only %g shares available, cannot sell %g",
			apperrors.ErrInsufficientQuantity, holding.Quantity, sellQty)
	}

	proceeds := sellQty * intent.Price
	order := s.newExecutedOrder(userID, intent, sellQty)

	// Validation is done; apply in fixed order. Fund first. Proceeds are
	// booked at sale price on both sides, mirroring the original ledger's
	// accounting simplification.
	fund.AvailableAmount += proceeds
	fund.InvestedAmount -= proceeds
	if err := s.fundRepo.UpdateFund(ctx, &fund); err != nil {
		return nil, err
	}

	// Holding second: reduce or delete.
	remaining := holding.Quantity - sellQty
	if math.Abs(remaining) <= quantityEpsilon {
		err = s.holdingRepo.DeleteHolding(ctx, holding.ID)
	} else {
		err = s.updateHoldingWithRetry(ctx, userID, intent.Symbol, func(h *model.Holding) {
			h.Quantity -= sellQty
			h.LastPrice = lastPrice
			h.PreviousClose = prevClose
			h.NetChange = (lastPrice - h.AverageCost) * h.Quantity
			h.DayChange = (lastPrice - prevClose) * h.Quantity
			h.LastOrderID = order.ID
		})
	}
	if err != nil {
		return nil, s.hazard(userID, order, "holding", err)
	}

	// Position third.
	if err := s.applySellToPosition(ctx, userID, intent, sellQty); err != nil {
		return nil, s.hazard(userID, order, "position", err)
	}

	// Order log and fund transaction last.
	if err := s.appendOrderAndTransaction(ctx, fund.ID, order, model.TxKindSell, proceeds); err != nil {
		return nil, s.hazard(userID, order, "order log", err)
	}

	return order, nil
}

// applyBuyToPosition upserts the per-product-type position for a buy,
// recomputing the weighted average and mark-to-market.
func (s *OrderService) applyBuyToPosition(ctx context.Context, userID string, intent OrderIntent, lastPrice float64) error {
	position, err := s.positionRepo.GetPosition(userID, intent.Symbol, intent.ProductType)
	if errors.Is(err, apperrors.ErrPositionNotFound) {
		return s.positionRepo.InsertPosition(ctx, &model.Position{
			ID:           uuid.New().String(),
			UserID:       userID,
			Symbol:       intent.Symbol,
			ProductType:  intent.ProductType,
			Quantity:     intent.Quantity,
			AveragePrice: intent.Price,
			LastPrice:    lastPrice,
			MTM:          (lastPrice - intent.Price) * intent.Quantity,
			CreatedAt:    time.Now().UTC(),
		})
	}
	if err != nil {
		return err
	}

	totalQty := position.Quantity + intent.Quantity
	position.AveragePrice = (position.AveragePrice*position.Quantity + intent.Price*intent.Quantity) / totalQty
	position.Quantity = totalQty
	position.LastPrice = lastPrice
	position.MTM = (position.LastPrice - position.AveragePrice) * position.Quantity

	return s.positionRepo.UpdatePosition(ctx, &position)
}

// applySellToPosition reduces or deletes the position. A sell against an
// absent position is a no-op: holdings may predate position tracking for the
// product type.
func (s *OrderService) applySellToPosition(ctx context.Context, userID string, intent OrderIntent, sellQty float64) error {
	position, err := s.positionRepo.GetPosition(userID, intent.Symbol, intent.ProductType)
	if errors.Is(err, apperrors.ErrPositionNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	position.Quantity -= sellQty
	if position.Quantity <= quantityEpsilon {
		return s.positionRepo.DeletePosition(ctx, position.ID)
	}

	position.LastPrice = intent.Price
	position.MTM = (position.LastPrice - position.AveragePrice) * position.Quantity

	return s.positionRepo.UpdatePosition(ctx, &position)
}

// updateHoldingWithRetry re-reads the holding and applies mutate under the
// row's version guard. Under the user lock the only competing writer is the
// price refresh job, so conflicts are transient and retried a bounded number
// of times.
func (s *OrderService) updateHoldingWithRetry(ctx context.Context, userID, symbol string, mutate func(*model.Holding)) error {
	backoff := retry.WithMaxRetries(conflictRetries, retry.NewConstant(10*time.Millisecond))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		h, err := s.holdingRepo.GetHolding(userID, symbol)
		if err != nil {
			return err
		}

		mutate(&h)

		if err := s.holdingRepo.UpdateHolding(ctx, &h); err != nil {
			if errors.Is(err, apperrors.ErrLedgerConflict) {
				return retry.RetryableError(err)
			}
			return err
		}
		return nil
	})
}

func (s *OrderService) newExecutedOrder(userID string, intent OrderIntent, quantity float64) *model.Order {
	now := time.Now().UTC()
	return &model.Order{
		ID:           uuid.New().String(),
		UserID:       userID,
		Symbol:       intent.Symbol,
		Quantity:     quantity,
		Price:        intent.Price,
		Side:         intent.Side,
		OrderType:    intent.OrderType,
		ProductType:  intent.ProductType,
		Validity:     intent.Validity,
		TriggerPrice: intent.TriggerPrice,
		Status:       model.StatusExecuted,
		Remarks:      intent.Remarks,
		CreatedAt:    now,
		ExecutedAt:   &now,
	}
}

func (s *OrderService) appendOrderAndTransaction(ctx context.Context, fundID string, order *model.Order, kind string, amount float64) error {
	if err := s.fundRepo.InsertTransaction(ctx, &model.FundTransaction{
		ID:        uuid.New().String(),
		FundID:    fundID,
		Kind:      kind,
		Amount:    amount,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		return err
	}

	return s.orderRepo.InsertOrder(ctx, order)
}

// hazard records a write failure after the fund was already mutated. The
// ledgers have no shared transaction, so the partial state cannot be rolled
// back; it is logged for reconciliation and surfaced as an internal error.
func (s *OrderService) hazard(userID string, order *model.Order, stage string, err error) error {
	log.Printf("ledger consistency hazard: user %s order %s failed at %s after fund debit/credit: %v",
		userID, order.ID, stage, err)
	return fmt.Errorf("%w: %s write failed: %v", apperrors.ErrLedgerInconsistent, stage, err)
}
