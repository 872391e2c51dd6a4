package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/mebelplatform/wavesbalance/internal/api"
	"github.com/mebelplatform/wavesbalance/internal/balance"
	"github.com/mebelplatform/wavesbalance/internal/config"
	"github.com/mebelplatform/wavesbalance/internal/database"
	"github.com/mebelplatform/wavesbalance/internal/dataservice"
	"github.com/mebelplatform/wavesbalance/internal/domain"
	"github.com/mebelplatform/wavesbalance/internal/export"
	"github.com/mebelplatform/wavesbalance/internal/matcher"
	"github.com/mebelplatform/wavesbalance/internal/node"
	"github.com/mebelplatform/wavesbalance/internal/pairs"
	"github.com/mebelplatform/wavesbalance/internal/prefs"
	"github.com/mebelplatform/wavesbalance/internal/worker"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func main() {
	// Optional .env for local development.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "wavesbalance",
		Usage: "aggregates Waves account balances",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the refresh worker and the HTTP API",
				Action: runServe,
			},
			{
				Name:  "refresh",
				Usage: "aggregate balances once and exit",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:  "address",
						Usage: "address to refresh (default: the tracked accounts)",
					},
				},
				Action: runRefresh,
			},
			{
				Name:  "export",
				Usage: "export stored balances for the tracked accounts",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "xlsx",
						Usage: "write the report to this .xlsx file",
					},
					&cli.BoolFlag{
						Name:  "sheet",
						Usage: "write the report to the configured Google Sheet",
					},
				},
				Action: runExport,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runServe(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()

	pool, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	env := domain.EnvironmentFor(domain.Network(cfg.Network))
	balanceSvc := buildBalanceService(cfg, env, pool)

	// Report destinations are optional; without any the worker runs bare.
	exportSvc, err := buildExportService(ctx, cfg)
	if err != nil {
		return err
	}
	var hook worker.AfterRefreshHook
	if exportSvc != nil {
		hook = exportSvc
	}

	refreshWorker := worker.NewRefreshWorker(balanceSvc, cfg.TrackedAccounts, cfg.RefreshInterval, hook)
	go refreshWorker.Run(ctx)

	pairSvc := pairs.NewService(pairs.NewPgRepository(pool), env)
	prefStore := prefs.NewPgStore(pool)

	if cfg.AdminAPIKey == "" {
		slog.Warn("ADMIN_API_KEY not set, mutating endpoints are unprotected")
	}

	srv := api.NewServer(cfg.HTTPPort, balanceSvc, pairSvc, prefStore, env, cfg.AdminAPIKey)

	go func() {
		log.Printf("HTTP server listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("HTTP server error: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	log.Println("Shutdown complete")
	return nil
}

func runRefresh(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()

	addresses := c.StringSlice("address")
	if len(addresses) == 0 {
		addresses = cfg.TrackedAccounts
	}
	if len(addresses) == 0 {
		return errors.New("no addresses: pass --address or set TRACKED_ACCOUNTS")
	}

	pool, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	env := domain.EnvironmentFor(domain.Network(cfg.Network))
	balanceSvc := buildBalanceService(cfg, env, pool)

	for _, address := range addresses {
		records, err := balanceSvc.FetchBalances(ctx, address)
		if err != nil {
			return fmt.Errorf("refreshing %s: %w", address, err)
		}
		log.Printf("refreshed %s: %d assets", address, len(records))
	}

	return nil
}

func runExport(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	if len(cfg.TrackedAccounts) == 0 {
		return errors.New("TRACKED_ACCOUNTS is required for export")
	}

	var writers []export.ReportWriter
	if path := c.String("xlsx"); path != "" {
		writers = append(writers, export.NewXLSXWriter(path))
	}
	if c.Bool("sheet") {
		if cfg.SpreadsheetID == "" || cfg.GoogleCredentials == "" {
			return errors.New("--sheet needs SHEETS_SPREADSHEET_ID and GOOGLE_CREDENTIALS_JSON")
		}
		sheetsWriter, err := export.NewSheetsWriter(ctx, cfg.SpreadsheetID, cfg.GoogleCredentials)
		if err != nil {
			return fmt.Errorf("creating sheets writer: %w", err)
		}
		writers = append(writers, sheetsWriter)
	}
	if len(writers) == 0 {
		return errors.New("no destination: pass --xlsx or --sheet")
	}

	pool, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	repo := balance.NewPgRepository(pool)

	balances := make(map[string][]domain.BalanceRecord, len(cfg.TrackedAccounts))
	for _, address := range cfg.TrackedAccounts {
		records, err := repo.ListByAddress(ctx, address)
		if err != nil {
			return fmt.Errorf("loading balances for %s: %w", address, err)
		}
		balances[address] = records
	}

	return export.NewService(writers...).Export(ctx, balances)
}

// openDatabase connects the pool and applies the embedded migrations.
func openDatabase(ctx context.Context, cfg config.Config) (*pgxpool.Pool, error) {
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	migrationsSub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating migrations sub-fs: %w", err)
	}
	if err := database.Migrate(ctx, pool, migrationsSub); err != nil {
		pool.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return pool, nil
}

// buildBalanceService wires the upstream clients and the store into the
// aggregation engine. The node client backs all three node sources.
func buildBalanceService(cfg config.Config, env domain.Environment, pool *pgxpool.Pool) *balance.Service {
	nodeClient := node.NewClient(cfg.NodeURL, cfg.NodeRetryMax, cfg.NodeRetryBaseDelay)
	matcherClient := matcher.NewClient(cfg.MatcherURL, cfg.MatcherAPIKey)
	dataClient := dataservice.NewClient(cfg.DataServiceURL, env)

	return balance.NewService(
		nodeClient, nodeClient, nodeClient,
		matcherClient,
		dataClient,
		balance.NewPgRepository(pool),
		env,
	)
}

// buildExportService assembles the report writers configured through the
// environment. Returns nil when no destination is configured.
func buildExportService(ctx context.Context, cfg config.Config) (*export.Service, error) {
	var writers []export.ReportWriter

	if cfg.SpreadsheetID != "" && cfg.GoogleCredentials != "" {
		sheetsWriter, err := export.NewSheetsWriter(ctx, cfg.SpreadsheetID, cfg.GoogleCredentials)
		if err != nil {
			return nil, fmt.Errorf("creating sheets writer: %w", err)
		}
		writers = append(writers, sheetsWriter)
	}

	if cfg.XLSXDir != "" {
		writers = append(writers, export.NewXLSXWriter(filepath.Join(cfg.XLSXDir, "balances.xlsx")))
	}

	if len(writers) == 0 {
		return nil, nil
	}
	return export.NewService(writers...), nil
}
