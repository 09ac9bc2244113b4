package service

import (
	"context"
	"errors"
	"log"
	"sync/atomic"
	"time"

	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/errgroup"

	"github.com/brokersim/backend/internal/apperrors"
	"github.com/brokersim/backend/internal/model"
	"github.com/brokersim/backend/internal/quote"
	"github.com/brokersim/backend/internal/repository"
)

// refreshConcurrency bounds parallel quote fetches during a refresh batch.
const refreshConcurrency = 4

// HoldingService exposes holdings reads and the best-effort price refresh
// batch. The refresh job only ever touches price and display columns, so it
// can run concurrently with order execution without corrupting quantities or
// averages.
type HoldingService struct {
	holdingRepo  *repository.HoldingRepository
	quoteClient  quote.Client
	quoteTimeout time.Duration
}

// NewHoldingService creates a new HoldingService with the provided dependencies.
func NewHoldingService(
	holdingRepo *repository.HoldingRepository,
	quoteClient quote.Client,
	quoteTimeout time.Duration,
) *HoldingService {
	return &HoldingService{
		holdingRepo:  holdingRepo,
		quoteClient:  quoteClient,
		quoteTimeout: quoteTimeout,
	}
}

// GetHoldings retrieves all of a user's holdings.
func (s *HoldingService) GetHoldings(userID string) ([]model.Holding, error) {
	return s.holdingRepo.GetHoldingsByUser(userID)
}

// GetHoldingQuantity returns the user's held quantity for a symbol, or 0 when
// no holding exists.
func (s *HoldingService) GetHoldingQuantity(userID, symbol string) (float64, error) {
	holding, err := s.holdingRepo.GetHolding(userID, symbol)
	if errors.Is(err, apperrors.ErrHoldingNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return holding.Quantity, nil
}

// RefreshPrices iterates every holding across all users, fetches one quote
// per distinct symbol, and updates last price, previous close and the
// derived net/day change columns. Per-symbol failures are logged and
// isolated: one dead symbol never aborts the rest of the batch.
//
// Returns the number of holdings updated.
func (s *HoldingService) RefreshPrices(ctx context.Context) (int, error) {
	holdings, err := s.holdingRepo.GetAllHoldings()
	if err != nil {
		return 0, err
	}

	bySymbol := make(map[string][]model.Holding)
	for _, h := range holdings {
		bySymbol[h.Symbol] = append(bySymbol[h.Symbol], h)
	}

	var updated atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(refreshConcurrency)

	for symbol, symbolHoldings := range bySymbol {
		symbol, symbolHoldings := symbol, symbolHoldings
		g.Go(func() error {
			qctx, cancel := context.WithTimeout(gctx, s.quoteTimeout)
			defer cancel()

			q, err := s.quoteClient.GetQuote(qctx, symbol)
			if err != nil {
				log.Printf("price refresh: skipping %s: %v", symbol, err)
				return nil
			}

			for _, h := range symbolHoldings {
				if err := s.refreshHolding(gctx, h, q); err != nil {
					log.Printf("price refresh: holding %s (%s): %v", h.ID, symbol, err)
					continue
				}
				updated.Add(1)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return int(updated.Load()), err
	}

	return int(updated.Load()), nil
}

// refreshHolding re-reads one holding and writes the new price fields under
// its version guard, retrying a bounded number of times when an order write
// races it. A holding sold away mid-refresh is silently skipped.
func (s *HoldingService) refreshHolding(ctx context.Context, stale model.Holding, q quote.Quote) error {
	prevClose := q.PreviousClose
	if prevClose <= 0 {
		prevClose = q.LastPrice
	}

	backoff := retry.WithMaxRetries(conflictRetries, retry.NewConstant(10*time.Millisecond))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		h, err := s.holdingRepo.GetHolding(stale.UserID, stale.Symbol)
		if errors.Is(err, apperrors.ErrHoldingNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		h.LastPrice = q.LastPrice
		h.PreviousClose = prevClose
		h.NetChange = (q.LastPrice - h.AverageCost) * h.Quantity
		h.DayChange = (q.LastPrice - prevClose) * h.Quantity

		if err := s.holdingRepo.UpdateHoldingPrices(ctx, &h); err != nil {
			if errors.Is(err, apperrors.ErrLedgerConflict) {
				return retry.RetryableError(err)
			}
			return err
		}
		return nil
	})
}
