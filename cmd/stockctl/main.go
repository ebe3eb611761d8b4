// Command stockctl renders inventory reports in the terminal, exports them
// and runs stock adjustment actions.
// Usage: stockctl [--token T] [--api URL] <command> [args]
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/spf13/pflag"

	"stockdesk/internal/apiclient"
	"stockdesk/internal/cache/noop"
	"stockdesk/internal/cli"
	"stockdesk/internal/config"
	"stockdesk/internal/logger"
	"stockdesk/internal/port"
	"stockdesk/internal/report"
	"stockdesk/internal/service"
	s3storage "stockdesk/internal/storage/s3"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, cli.ErrUsage) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		log.Fatal(err)
	}
}

func run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	fs := pflag.NewFlagSet("stockctl", pflag.ContinueOnError)
	fs.SetInterspersed(false)
	token := fs.String("token", cfg.API.Token, "API bearer token (default $STOCKDESK_API_TOKEN)")
	fs.StringVar(&cfg.API.BaseURL, "api", cfg.API.BaseURL, "inventory API base URL")
	fs.StringVar(&cfg.Log.Level, "log-level", "warn", "log level")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	if *token == "" {
		return fmt.Errorf("%w: no API token; pass --token or set STOCKDESK_API_TOKEN", cli.ErrUsage)
	}

	zl, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = apiclient.WithToken(ctx, *token)

	api := apiclient.New(cfg.API, zl)

	var storage port.ObjectStorage
	if cfg.S3.Bucket != "" {
		if storage, err = s3storage.NewS3Client(ctx, &cfg.S3); err != nil {
			return fmt.Errorf("initializing S3 client: %w", err)
		}
	}

	reports := service.NewReportService(report.DefaultCatalog(), api)
	app := &cli.App{
		Reports:     reports,
		Exports:     service.NewExportService(reports, storage, zl),
		Adjustments: service.NewAdjustmentService(api, zl),
		Options:     service.NewOptionsService(api, noop.NewCache(), cfg.Options, zl),
		In:          os.Stdin,
		Out:         os.Stdout,
		Log:         zl,
	}
	return app.Run(ctx, fs.Args())
}
