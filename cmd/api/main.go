package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/MrJamesThe3rd/fleetfuel/internal/account"
	accountStore "github.com/MrJamesThe3rd/fleetfuel/internal/account/store"
	"github.com/MrJamesThe3rd/fleetfuel/internal/auth"
	"github.com/MrJamesThe3rd/fleetfuel/internal/closing"
	closingStore "github.com/MrJamesThe3rd/fleetfuel/internal/closing/store"
	"github.com/MrJamesThe3rd/fleetfuel/internal/config"
	"github.com/MrJamesThe3rd/fleetfuel/internal/database"
	"github.com/MrJamesThe3rd/fleetfuel/internal/export"
	"github.com/MrJamesThe3rd/fleetfuel/internal/fleet"
	fleetStore "github.com/MrJamesThe3rd/fleetfuel/internal/fleet/store"
	"github.com/MrJamesThe3rd/fleetfuel/internal/fuelslip"
	slipStore "github.com/MrJamesThe3rd/fleetfuel/internal/fuelslip/store"
	fleetfuelHttp "github.com/MrJamesThe3rd/fleetfuel/internal/http"
	accountHandler "github.com/MrJamesThe3rd/fleetfuel/internal/http/account"
	closingHandler "github.com/MrJamesThe3rd/fleetfuel/internal/http/closing"
	fleetHandler "github.com/MrJamesThe3rd/fleetfuel/internal/http/fleet"
	slipHandler "github.com/MrJamesThe3rd/fleetfuel/internal/http/fuelslip"
	importHandler "github.com/MrJamesThe3rd/fleetfuel/internal/http/importcsv"
	statementHandler "github.com/MrJamesThe3rd/fleetfuel/internal/http/statement"
	"github.com/MrJamesThe3rd/fleetfuel/internal/importer"
	"github.com/MrJamesThe3rd/fleetfuel/internal/logging"
	"github.com/MrJamesThe3rd/fleetfuel/internal/metrics"
	"github.com/MrJamesThe3rd/fleetfuel/internal/statement"
	statementStore "github.com/MrJamesThe3rd/fleetfuel/internal/statement/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := cfg.ValidateAPI(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, cfg.App.LogFormat)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics.Init()

	db, err := database.New(cfg.ConnectionString(), database.Pool{
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.EnsureSchema(ctx, db); err != nil {
		return err
	}

	if cfg.Auth.Disabled {
		logger.Warn("bearer token verification is disabled; the X-Actor header is trusted")
	}

	var (
		accountService   = account.NewService(accountStore.New(db))
		fleetService     = fleet.NewService(fleetStore.New(db))
		slipService      = fuelslip.NewService(slipStore.New(db), accountService, fleetService)
		closingService   = closing.NewService(closingStore.New(db))
		statementService = statement.NewService(statementStore.New(db))
		importService    = importer.NewService()
		exportService    = export.NewService(statementService, accountService)
	)

	router := fleetfuelHttp.New(fleetfuelHttp.Options{
		Logger:         logger,
		Verifier:       auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.Disabled),
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		CloseRateLimit: cfg.HTTP.CloseRateLimit,
	}, fleetfuelHttp.Handlers{
		Slips:      slipHandler.NewHandler(slipService),
		Import:     importHandler.NewHandler(importService, slipService),
		Closes:     closingHandler.NewHandler(closingService),
		Statements: statementHandler.NewHandler(statementService, exportService),
		Accounts:   accountHandler.NewHandler(accountService, statementService),
		Fleet:      fleetHandler.NewHandler(fleetService),
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	errCh := make(chan error, 1)

	go func() {
		logger.Info("starting server", "addr", srv.Addr, "app", cfg.App.Name)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
