package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"

	"github.com/cradoe/remitflow/internal/app"
	"github.com/cradoe/remitflow/internal/version"
	"github.com/cradoe/remitflow/internal/worker"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	err := run(logger)
	if err != nil {
		trace := string(debug.Stack())
		logger.Error(err.Error(), "trace", trace)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	showVersion := flag.Bool("version", false, "display version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("version: %s\n", version.Get())
		return nil
	}

	application, err := app.NewApplication(logger)
	if err != nil {
		return err
	}
	defer application.DB.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if application.Kafka != nil {
		defer application.Kafka.Close()

		receipts := worker.New(&worker.Worker{
			KafkaStream: application.Kafka,
			Credentials: application.DB.Credential(),
			Mailer:      application.Mailer,
			Helper:      application.Helper,
			Logger:      logger,
			Observer:    application.Metrics,
			Ctx:         ctx,
		})

		go func() {
			if err := receipts.ReceiptWorker(); err != nil {
				logger.Error("receipt worker stopped", "error", err.Error())
			}
		}()
	}

	return application.ServeHTTP()
}
