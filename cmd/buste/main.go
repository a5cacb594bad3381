package main

import (
	"context"
	"net/http"
	"time"

	"buste/internal/amqp"
	"buste/internal/cli"
	"buste/internal/csvio"
	"buste/internal/envelope"
	busteshttp "buste/internal/http"
	"buste/internal/ledger"
	"buste/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger("buste")

	logger.Info("Starting buste")

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

	// AMQP is optional: without it transactions stay local.
	var publisher services.TransactionPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without sync", "error", err)
		} else {
			defer amqpClient.Close()
			publisher = amqpClient
			logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	} else {
		logger.Info("AMQP disabled - transactions will not mirror to the spreadsheet")
	}

	deps := busteshttp.Deps{
		Engine:       engine,
		Transactions: services.NewTransactionService(txs, engine, publisher),
		Categories:   cats,
		Events:       events,
		Settings:     settings,
		Diag:         diag,
		Expenses:     ledger.NewFixedExpenseBook(st),
		Porter:       csvio.NewPorter(txs, cats),
		Backup:       services.NewBackupService(st),
		Accounts:     services.NewAccountService(st, nil),
		Projector:    services.NewRecurringProjector(settings, txs, diag),
	}
	server := busteshttp.NewServer(":"+cfg.Port, deps, cfg.SummaryCacheTTL)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	})

	// Catch up the envelope month on startup.
	if err := engine.MonthInit(ctx, time.Now()); err != nil {
		logger.Error("Month initialization failed", "error", err)
	}

	logger.Info("Listening", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err)
	}

	cli.WaitForShutdown(ctx, done)
}
