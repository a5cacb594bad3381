package main

import (
	"context"
	"errors"
	"os"
	"time"

	"buste/internal/amqp"
	"buste/internal/cli"
	"buste/internal/ledger"
	"buste/internal/sheets"
	gsheet "buste/internal/sheets/google"
	"buste/internal/sheets/memory"
	"buste/internal/worker"

	"github.com/cenkalti/backoff/v4"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger("buste-worker")

	logger.Info("Starting buste-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the sync worker")
		os.Exit(1)
	}

	st, closeStore := cli.OpenStore(logger, cfg)
	defer func() { _ = closeStore() }()

	var writer sheets.TransactionWriter
	if cfg.GoogleSpreadsheetID != "" {
		client, err := gsheet.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		writer = client
		logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		writer = memory.New()
		logger.Info("Google Sheets disabled - mirroring to in-memory writer")
	}

	// The broker may come up after the worker; retry the dial with backoff.
	amqpClient, err := dialAMQP(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	syncWorker := worker.NewSyncWorker(
		ledger.NewTransactionLedger(st),
		ledger.NewCategoryBook(st),
		writer,
	)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	go func() {
		err := amqpClient.ConsumeTransactionSync(ctx, func(msg *amqp.TransactionSyncMessage) error {
			return syncWorker.HandleSyncMessage(ctx, msg)
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Message consumption failed", "error", err)
		}
	}()

	cli.WaitForShutdown(ctx, done)
}

func dialAMQP(url, exchange, queue string) (*amqp.Client, error) {
	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = 2 * time.Minute

	return backoff.RetryWithData(func() (*amqp.Client, error) {
		return amqp.NewClient(url, exchange, queue)
	}, policy)
}
