package main

import (
	"context"
	"log/slog"
	"time"

	"buste/internal/cli"
	"buste/internal/envelope"
	"buste/internal/ledger"
	"buste/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger("monthly-worker")

	logger.Info("Starting monthly-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	st, closeStore := cli.OpenStore(logger, cfg)
	defer func() { _ = closeStore() }()

	settings := ledger.NewSettingsRegistry(st)
	cats := ledger.NewCategoryBook(st)
	txs := ledger.NewTransactionLedger(st)
	carry := ledger.NewCarryLedger(st)
	events := ledger.NewEventLog(st)
	diag := ledger.NewDiagLog(st)
	engine := envelope.New(settings, cats, txs, carry, events, diag)
	projector := services.NewRecurringProjector(settings, txs, diag)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	logger.Info("Monthly processing configured",
		"interval", cfg.MonthlyInterval,
		"backend", cfg.DataBackend)

	// Catch up immediately on startup, then on every tick. Month init is
	// idempotent, so a tick inside an already-initialized month is a no-op.
	runOnce(ctx, logger, engine, projector)

	ticker := time.NewTicker(cfg.MonthlyInterval)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				runOnce(ctx, logger, engine, projector)
			}
		}
	}()

	cli.WaitForShutdown(ctx, done)
}

func runOnce(ctx context.Context, logger *slog.Logger, engine *envelope.Engine, projector *services.RecurringProjector) {
	now := time.Now()
	if err := engine.MonthInit(ctx, now); err != nil {
		logger.Error("Month initialization failed", "error", err)
	}
	count, err := projector.Run(ctx, now)
	if err != nil {
		logger.Error("Recurring projection failed", "error", err)
		return
	}
	if count > 0 {
		logger.Info("Recurring projection complete", "transactions_created", count)
	}
}
