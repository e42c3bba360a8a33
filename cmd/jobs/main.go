// cmd/jobs/main.go
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pizzanorte/backoffice/internal/config"
	"github.com/pizzanorte/backoffice/internal/domain"
	"github.com/pizzanorte/backoffice/internal/possync"
	"github.com/pizzanorte/backoffice/internal/recon"
	"github.com/pizzanorte/backoffice/internal/repository/postgres"
	"github.com/pizzanorte/backoffice/internal/storage"
	"github.com/pizzanorte/backoffice/internal/types"
	"github.com/pizzanorte/backoffice/pkg/logger"
	"github.com/urfave/cli/v2"
)

func initDB(c *cli.Context) error {
	cfg := config.Load()
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	c.Context = context.WithValue(c.Context, types.DBKey, db)
	return nil
}

func closeDB(c *cli.Context) error {
	if db, ok := c.Context.Value(types.DBKey).(*postgres.DB); ok && db != nil {
		return db.Close()
	}
	return nil
}

func dbFrom(c *cli.Context) *postgres.DB {
	return c.Context.Value(types.DBKey).(*postgres.DB)
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	cfg := config.Load()
	logger.SetLevel(cfg.Server.Mode)

	app := &cli.App{
		Name:  "jobs",
		Usage: "Back-office maintenance jobs",
		Commands: []*cli.Command{
			{
				Name:   "reconcile",
				Usage:  "Run one stock/cash reconciliation pass over recent stock counts",
				Before: initDB,
				After:  closeDB,
				Action: runReconcile,
			},
			{
				Name:  "possync",
				Usage: "Pull POS transaction exports from the shared folder and ingest them",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "file",
						Usage: "Ingest a single local CSV instead of syncing the folder",
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: runPOSSync,
			},
			{
				Name:  "seed",
				Usage: "Seed locations and category unit prices",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "prices-file",
						Usage:   "CSV of category,price rows overriding the built-in defaults",
						EnvVars: []string{"SEED_PRICES_FILE"},
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: runSeed,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runReconcile(c *cli.Context) error {
	cfg := config.Load()
	db := dbFrom(c)

	countRepo := postgres.NewStockCountRepository(db)
	closingRepo := postgres.NewRegisterClosingRepository(db)
	alertRepo := postgres.NewAlertRepository(db)
	priceRepo := postgres.NewPriceRepository(db)
	salesRepo := postgres.NewSalesRepository(db)

	engine := recon.NewEngine(
		countRepo, closingRepo, alertRepo, priceRepo,
		recon.NewSalesAdapter(salesRepo), cfg.Recon.AlertThreshold,
	)
	orchestrator := recon.NewOrchestrator(countRepo, closingRepo, alertRepo, engine, cfg.Recon.BatchSize)

	orchestrator.RunPendingComparisons(c.Context)
	return nil
}

func runPOSSync(c *cli.Context) error {
	cfg := config.Load()
	db := dbFrom(c)
	salesRepo := postgres.NewSalesRepository(db)

	var archive storage.ObjectStorage
	if cfg.Storage.Enabled {
		var err error
		archive, err = storage.NewMinioStorage(c.Context, cfg.Storage)
		if err != nil {
			logger.Log.Warn().Err(err).Msg("Export archive unavailable, continuing without it")
		}
	}

	if path := c.String("file"); path != "" {
		ingest := possync.NewIngestService(nil, salesRepo, archive)
		summary, err := ingest.IngestLocalFile(c.Context, path)
		if err != nil {
			return err
		}
		logger.Log.Info().
			Str("batch_id", summary.BatchID).
			Int("orders", summary.Orders).
			Int("skipped", summary.SkippedRows).
			Msg("local file ingested")
		return nil
	}

	if cfg.POSSync.CredentialsJSON == "" {
		return fmt.Errorf("POSSYNC_CREDENTIALS_JSON is required to sync the export folder")
	}

	driveService, err := possync.NewService(cfg.POSSync.CredentialsJSON)
	if err != nil {
		return fmt.Errorf("failed to initialize POS export service: %w", err)
	}

	folderID, err := driveService.FindFolderByPath(cfg.POSSync.FolderPath)
	if err != nil {
		return err
	}

	ingest := possync.NewIngestService(driveService, salesRepo, archive)
	summaries, err := ingest.SyncFolder(c.Context, possync.NewDownloader(driveService), possync.DownloadOptions{
		FolderID:    folderID,
		DownloadDir: cfg.POSSync.DownloadDir,
	})
	if err != nil {
		return err
	}

	logger.Log.Info().Int("files", len(summaries)).Msg("export folder synced")
	return nil
}

// defaultPrices seeds the price table on first run; supervisors adjust them
// from SQL afterwards, or re-seed with --prices-file.
var defaultPrices = map[domain.Category]float64{
	domain.CategoryEmpanada:    900,
	domain.CategoryDrinkSmall:  1200,
	domain.CategoryDrinkMedium: 1600,
	domain.CategoryDrinkLarge:  2800,
	domain.CategoryBakery:      700,
	domain.CategoryFrozenDough: 3500,
	domain.CategoryPizza:       8000,
}

func runSeed(c *cli.Context) error {
	db := dbFrom(c)
	locationRepo := postgres.NewLocationRepository(db)
	priceRepo := postgres.NewPriceRepository(db)

	for _, name := range []string{"Centro", "Norte", "Oeste", "Terminal"} {
		id, err := locationRepo.Upsert(c.Context, name)
		if err != nil {
			return fmt.Errorf("failed to seed location %s: %w", name, err)
		}
		log.Printf("Seeded location %s (id=%d)", name, id)
	}

	prices := defaultPrices
	if path := c.String("prices-file"); path != "" {
		loaded, err := loadPricesCSV(path)
		if err != nil {
			return err
		}
		prices = loaded
	}

	for category, price := range prices {
		if err := priceRepo.Upsert(c.Context, domain.UnitPrice{Category: category, Price: price}); err != nil {
			return fmt.Errorf("failed to seed price for %s: %w", category, err)
		}
	}
	log.Printf("Seeded %d unit prices", len(prices))

	return nil
}

func loadPricesCSV(path string) (map[domain.Category]float64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	prices := make(map[domain.Category]float64)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}
		if len(record) < 2 {
			return nil, fmt.Errorf("invalid price row: %v", record)
		}

		category := domain.Category(strings.TrimSpace(record[0]))
		if !domain.ValidCategory(category) {
			return nil, fmt.Errorf("unknown category %q in %s", record[0], path)
		}
		price, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if err != nil || price <= 0 {
			return nil, fmt.Errorf("invalid price %q for category %s", record[1], category)
		}
		prices[category] = price
	}

	return prices, nil
}
