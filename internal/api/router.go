package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/brokersim/backend/internal/api/handlers"
	custommiddleware "github.com/brokersim/backend/internal/api/middleware"
	"github.com/brokersim/backend/internal/config"
	"github.com/brokersim/backend/internal/quote"
	"github.com/brokersim/backend/internal/service"
)

// Services bundles the service dependencies the router wires into handlers.
type Services struct {
	Auth     *service.AuthService
	Fund     *service.FundService
	Order    *service.OrderService
	Holding  *service.HoldingService
	Position *service.PositionService
	System   *service.SystemService
	Quote    quote.Client
}

// NewRouter creates and configures the HTTP router
func NewRouter(svc Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(svc.System)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		// Public auth namespace
		r.Route("/auth", func(r chi.Router) {
			authHandler := handlers.NewAuthHandler(svc.Auth)
			r.Post("/signup", authHandler.Signup)
			r.Post("/login", authHandler.Login)
		})

		// Everything below requires a valid session token
		r.Group(func(r chi.Router) {
			r.Use(custommiddleware.Auth(svc.Auth))

			r.Route("/funds", func(r chi.Router) {
				fundHandler := handlers.NewFundHandler(svc.Fund)
				r.Get("/", fundHandler.GetFund)
				r.Post("/add", fundHandler.Deposit)
				r.Post("/withdraw", fundHandler.Withdraw)
			})

			r.Route("/orders", func(r chi.Router) {
				orderHandler := handlers.NewOrderHandler(svc.Order)
				r.Get("/", orderHandler.ListOrders)
				r.Post("/", orderHandler.PlaceOrder)
			})

			r.Route("/holdings", func(r chi.Router) {
				holdingHandler := handlers.NewHoldingHandler(svc.Holding)
				r.Get("/", holdingHandler.GetHoldings)
				r.Get("/quantity/{symbol}", holdingHandler.GetHoldingQuantity)
				r.Post("/refresh", holdingHandler.RefreshPrices)
			})

			r.Route("/positions", func(r chi.Router) {
				positionHandler := handlers.NewPositionHandler(svc.Position)
				r.Get("/", positionHandler.GetPositions)
			})

			quoteHandler := handlers.NewQuoteHandler(svc.Quote, cfg.Quote.Timeout)
			r.Get("/quote", quoteHandler.GetQuote)
		})
	})

	return r
}
