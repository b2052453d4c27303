package command

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/subcommands"

	"tindahan/internal/amqp"
	"tindahan/internal/cache"
	"tindahan/internal/cli"
	"tindahan/internal/events"
	"tindahan/internal/log"
	"tindahan/internal/worker"
)

type listenCmd struct {
	out         string
	dedupeSize  int
	dedupeTTL   time.Duration
	stopTimeout time.Duration
}

func (*listenCmd) Name() string     { return "listen" }
func (*listenCmd) Synopsis() string { return "consume order events and append them to a receipt journal" }
func (*listenCmd) Usage() string {
	return `listen [-out <file>]

  Consumes order events from AMQP_URL and appends each one as a JSON line
  to the journal. Redelivered events are written once. Stops on SIGINT or
  SIGTERM.
`
}

func (c *listenCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.out, "out", "./data/receipts.jsonl", "receipt journal file")
	f.IntVar(&c.dedupeSize, "dedupe-size", 1000, "number of recent event ids remembered")
	f.DurationVar(&c.dedupeTTL, "dedupe-ttl", 24*time.Hour, "how long an event id is remembered")
	f.DurationVar(&c.stopTimeout, "stop-timeout", 10*time.Second, "time allowed for a clean shutdown")
}

func (c *listenCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cli.LoadEnvFile(*envFile)
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL")).WithComponent(log.ComponentAMQP)

	cfg, err := cli.LoadAndValidateConfig(logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if cfg.AMQPURL == "" {
		fmt.Fprintln(os.Stderr, "Error: AMQP_URL is required to listen for order events.")
		return subcommands.ExitUsageError
	}

	if err := os.MkdirAll(filepath.Dir(c.out), 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating journal directory: %v\n", err)
		return subcommands.ExitFailure
	}
	journal, err := os.OpenFile(c.out, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening journal: %v\n", err)
		return subcommands.ExitFailure
	}
	defer journal.Close()

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		return subcommands.ExitFailure
	}

	receipts := worker.NewReceiptWorker(journal, cache.NewSeen(c.dedupeSize, c.dedupeTTL))

	ctx, done := cli.GracefulShutdown(ctx, logger.Slog(), c.stopTimeout, func() {
		if err := client.Close(); err != nil {
			logger.Warn("Failed to close AMQP client", log.FieldError, err)
		}
	})

	logger.Info("Listening for order events", "queue", cfg.AMQPQueue, "journal", c.out)
	err = client.ConsumeOrderPlaced(ctx, func(e events.OrderPlaced) error {
		return receipts.HandleOrderPlaced(ctx, e)
	})
	if err != nil && !errors.Is(err, context.Canceled) && ctx.Err() == nil {
		logger.Error("Message consumption failed", log.FieldError, err)
		client.Close()
		return subcommands.ExitFailure
	}

	cli.WaitForShutdown(ctx, done)
	handled, skipped := receipts.Stats()
	logger.Info("Listener stopped", "handled", handled, "skipped", skipped)
	return subcommands.ExitSuccess
}
