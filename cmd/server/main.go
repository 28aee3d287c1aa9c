package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/api"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/auth"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/config"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/database"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/logger"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/repository"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/service"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/store"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/ticker"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	lg, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer lg.Sync() //nolint:errcheck // nothing to do if flushing fails at exit
	zap.ReplaceGlobals(lg)

	if err := run(cfg, lg); err != nil {
		lg.Fatal("server stopped", zap.Error(err))
	}
	lg.Info("server exited")
}

func run(cfg *config.Config, lg *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Open database connection
	db, err := database.Open(ctx, cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	lg.Info("connected to database", zap.String("path", cfg.Database.Path))

	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}

	services, scheduler, err := buildServices(db, cfg, tokens, lg)
	if err != nil {
		return err
	}
	if scheduler != nil {
		scheduler.Start()
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			scheduler.Stop(stopCtx)
		}()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      api.NewRouter(services, tokens, cfg, lg, reg),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		lg.Info("starting server", zap.String("addr", cfg.Server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	lg.Info("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}

func buildServices(db *sql.DB, cfg *config.Config, tokens *auth.TokenManager, lg *zap.Logger) (api.Services, *service.PriceScheduler, error) {
	// Create repositories
	transactionRepo := repository.NewTransactionRepository(store.NewCollection(db, repository.TransactionsCollection))
	walletRepo := repository.NewWalletRepository(store.NewCollection(db, repository.WalletsCollection))
	userRepo := repository.NewUserRepository(store.NewCollection(db, repository.UsersCollection))

	var (
		priceService *service.PriceService
		scheduler    *service.PriceScheduler
	)
	if cfg.Prices.APIKey != "" {
		client := ticker.NewHTTPClient(cfg.Prices.BaseURL, cfg.Prices.APIKey)
		priceService = service.NewPriceService(client, cfg.Prices.CacheTTL, cfg.Prices.BatchSize, lg.Named("prices"))

		var err error
		scheduler, err = service.NewPriceScheduler(priceService, cfg.Prices.RefreshSchedule, lg.Named("scheduler"))
		if err != nil {
			return api.Services{}, nil, err
		}
	} else {
		lg.Warn("PRICE_API_KEY is not set, portfolio prices are disabled")
	}

	features := map[string]bool{
		"prices":         priceService != nil,
		"csv_import":     true,
		"wallets":        true,
		"internal_admin": cfg.Auth.InternalAPIKey != "",
	}

	return api.Services{
		System:      service.NewSystemService(db, features),
		Auth:        service.NewAuthService(userRepo, tokens, lg.Named("auth")),
		Transaction: service.NewTransactionService(transactionRepo, lg.Named("transactions")),
		Portfolio:   service.NewPortfolioService(transactionRepo, priceService, lg.Named("portfolio")),
		Wallet:      service.NewWalletService(walletRepo, lg.Named("wallets")),
		Price:       priceService,
	}, scheduler, nil
}
