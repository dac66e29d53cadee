package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	appshipping "github.com/erp/shipping/internal/application/shipping"
	"github.com/erp/shipping/internal/domain/shipping"
	"github.com/erp/shipping/internal/infrastructure/config"
	"github.com/erp/shipping/internal/infrastructure/fedex"
	"github.com/erp/shipping/internal/infrastructure/logger"
	"github.com/erp/shipping/internal/infrastructure/persistence"
)

const commandTimeout = 5 * time.Minute

func main() {
	var logLevel string
	flag.StringVar(&logLevel, "log-level", "", "Log level override (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	if err := run(ctx, cfg, log, args); err != nil {
		log.Error("Command failed", zap.String("command", args[0]), zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger, args []string) error {
	command := args[0]

	switch command {
	case "migrate":
		return runMigrate(cfg, log)
	case "quote":
		if len(args) < 2 {
			return fmt.Errorf("usage: shipping quote <order.json>")
		}
		return runQuote(ctx, cfg, log, args[1])
	case "quote-shipment":
		if len(args) < 2 {
			return fmt.Errorf("usage: shipping quote-shipment <shipment.json>")
		}
		return runQuoteShipment(ctx, cfg, log, args[1])
	case "labels":
		if len(args) < 2 {
			return fmt.Errorf("usage: shipping labels <shipment.json>")
		}
		return runLabels(ctx, cfg, log, args[1])
	default:
		printUsage()
		return fmt.Errorf("unknown command: %s", command)
	}
}

func runMigrate(cfg *config.Config, log *zap.Logger) error {
	db, err := openDatabase(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		_ = db.Close()
	}()

	if err := db.Migrate(); err != nil {
		return err
	}
	log.Info("Migrations applied")
	return nil
}

func runQuote(ctx context.Context, cfg *config.Config, log *zap.Logger, path string) error {
	var order shipping.Order
	if err := readJSONFile(path, &order); err != nil {
		return err
	}

	db, err := openDatabase(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		_ = db.Close()
	}()

	client, err := fedex.NewClient(&fedex.ClientConfig{
		Credentials:    cfg.Fedex.Credentials(),
		Endpoint:       cfg.Fedex.Endpoint,
		IsSandbox:      cfg.Fedex.Sandbox,
		TimeoutSeconds: cfg.Fedex.TimeoutSeconds,
	})
	if err != nil {
		return err
	}

	service := appshipping.NewRateService(
		cfg.Fedex.Credentials(),
		client,
		persistence.NewGormCurrencyRepository(db.DB),
		cfg.Fedex.DefaultSettings(),
		log,
	)

	quote, err := service.Quote(ctx, &order)
	if err != nil {
		return err
	}

	return writeJSON(os.Stdout, quote)
}

func runQuoteShipment(ctx context.Context, cfg *config.Config, log *zap.Logger, path string) error {
	var shipment shipping.Shipment
	if err := readJSONFile(path, &shipment); err != nil {
		return err
	}

	db, err := openDatabase(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		_ = db.Close()
	}()

	client, err := fedex.NewClient(&fedex.ClientConfig{
		Credentials:    cfg.Fedex.Credentials(),
		Endpoint:       cfg.Fedex.Endpoint,
		IsSandbox:      cfg.Fedex.Sandbox,
		TimeoutSeconds: cfg.Fedex.TimeoutSeconds,
	})
	if err != nil {
		return err
	}

	service := appshipping.NewRateService(
		cfg.Fedex.Credentials(),
		client,
		persistence.NewGormCurrencyRepository(db.DB),
		cfg.Fedex.DefaultSettings(),
		log,
	)

	quote, err := service.QuoteShipment(ctx, &shipment)
	if err != nil {
		return err
	}

	return writeJSON(os.Stdout, quote)
}

func runLabels(ctx context.Context, cfg *config.Config, log *zap.Logger, path string) error {
	var shipment shipping.Shipment
	if err := readJSONFile(path, &shipment); err != nil {
		return err
	}

	db, err := openDatabase(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		_ = db.Close()
	}()

	client, err := fedex.NewClient(&fedex.ClientConfig{
		Credentials:    cfg.Fedex.Credentials(),
		Endpoint:       cfg.Fedex.Endpoint,
		IsSandbox:      cfg.Fedex.Sandbox,
		TimeoutSeconds: cfg.Fedex.TimeoutSeconds,
	})
	if err != nil {
		return err
	}

	service := appshipping.NewLabelService(
		cfg.Fedex.Credentials(),
		client,
		persistence.NewGormCurrencyRepository(db.DB),
		persistence.NewGormAttachmentStore(db.DB),
		cfg.Fedex.DefaultSettings(),
		log,
	)

	result, err := service.GenerateLabels(ctx, &shipment)
	if err != nil {
		return err
	}

	return writeJSON(os.Stdout, result)
}

func openDatabase(cfg *config.Config, log *zap.Logger) (*persistence.Database, error) {
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	return persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
}

func readJSONFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func writeJSON(w *os.File, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: shipping [flags] <command>

Commands:
  quote <order.json>             Request a rate quote for a sale order
  quote-shipment <shipment.json> Request a rate quote for a packed shipment
  labels <shipment.json>         Generate shipping labels for a packed shipment
  migrate                        Create or update the shipping tables

Flags:
  -log-level string       Log level override (debug, info, warn, error)`)
}
