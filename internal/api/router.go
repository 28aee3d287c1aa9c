package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/api/handlers"
	custommiddleware "github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/api/middleware"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/auth"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/config"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/service"
)

// Services bundles the services the router dispatches to.
type Services struct {
	System      *service.SystemService
	Auth        *service.AuthService
	Transaction *service.TransactionService
	Portfolio   *service.PortfolioService
	Wallet      *service.WalletService
	Price       *service.PriceService
}

// NewRouter creates and configures the HTTP router. Metrics are registered
// on reg and served at /metrics.
func NewRouter(svc Services, tokens *auth.TokenManager, cfg *config.Config, logger *zap.Logger, reg *prometheus.Registry) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(logger))
	r.Use(middleware.Recoverer)
	r.Use(custommiddleware.NewMetrics(reg).Handler)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	if cfg.RateLimit.RequestsPerSecond > 0 {
		r.Use(custommiddleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst).Handler)
	}

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(svc.System, svc.Price)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
			r.With(custommiddleware.APIKey(cfg.Auth.InternalAPIKey)).
				Post("/prices/refresh", systemHandler.RefreshPrices)
		})

		r.Route("/v1", func(r chi.Router) {
			r.Route("/users", func(r chi.Router) {
				userHandler := handlers.NewUserHandler(svc.Auth)
				r.Post("/", userHandler.Register)
				r.Post("/auth", userHandler.Authenticate)
				r.Get("/me", userHandler.Me)
			})

			r.Group(func(r chi.Router) {
				r.Use(custommiddleware.Authenticate(tokens))

				r.Route("/transactions", func(r chi.Router) {
					transactionHandler := handlers.NewTransactionHandler(svc.Transaction, svc.Portfolio)
					r.Get("/", transactionHandler.Transactions)
					r.Post("/", transactionHandler.CreateTransaction)
					r.Get("/portfolio", transactionHandler.Portfolio)
					r.Post("/file", transactionHandler.ImportFile)

					r.Route("/{uuid}", func(r chi.Router) {
						r.Use(custommiddleware.ValidateUUIDMiddleware)
						r.Get("/", transactionHandler.Transaction)
						r.Put("/", transactionHandler.UpdateTransaction)
						r.Delete("/", transactionHandler.DeleteTransaction)
					})
				})

				r.Route("/wallets", func(r chi.Router) {
					walletHandler := handlers.NewWalletHandler(svc.Wallet)
					r.Get("/", walletHandler.Wallets)
					r.Post("/", walletHandler.CreateWallet)

					r.Route("/{uuid}", func(r chi.Router) {
						r.Use(custommiddleware.ValidateUUIDMiddleware)
						r.Get("/", walletHandler.Wallet)
						r.Put("/", walletHandler.UpdateWallet)
						r.Delete("/", walletHandler.DeleteWallet)
					})
				})
			})
		})
	})

	return r
}
