package cmd

import (
	"fmt"
	"os"

	"dakar-auto-scraper/models"
	"dakar-auto-scraper/scraper/dakarauto"
	"dakar-auto-scraper/services"
	"dakar-auto-scraper/storage"

	"github.com/spf13/cobra"
)

const maxPages = 100

var (
	scrapeCategories []string
	scrapePages      int
)

func init() {
	scrapeCmd.Flags().StringSliceVarP(&scrapeCategories, "category", "c", []string{"cars"}, "Categories to scrape (cars, motorcycles, rentals). Repeat or comma-separate.")
	scrapeCmd.Flags().IntVarP(&scrapePages, "pages", "p", 5, "Maximum pages to scrape per category.")
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--category <name>]... [--pages <n>]",
	Short: "Scrapes the selected categories and writes per-category and combined CSV files.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if scrapePages < 1 || scrapePages > maxPages {
			return fmt.Errorf("--pages must be between 1 and %d, got %d", maxPages, scrapePages)
		}

		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		sinks := storage.Multi{storage.NewCSVWriter(cfg.OutputDir, cfg.CombinedFile, logger)}
		if cfg.DatabaseURL != "" {
			pg, err := storage.NewPostgresWriter(ctx, cfg.DatabaseURL, cfg.DBRetries, logger)
			if err != nil {
				return err
			}
			defer pg.Close()

			if err := pg.EnsureSchema(ctx); err != nil {
				return err
			}
			sinks = append(sinks, pg)
		}

		registry := models.DefaultRegistry(cfg.BaseURL)
		fetcher := dakarauto.NewFetcher(cfg, logger)
		scraper := dakarauto.NewScraper(fetcher, cfg, logger)
		orchestrator := dakarauto.NewOrchestrator(scraper, registry, sinks, cfg, logger)

		combined, err := orchestrator.Run(ctx, scrapeCategories, scrapePages)
		if err != nil {
			return err
		}

		services.PrintReport(os.Stdout, services.GenerateReport(combined))
		return nil
	},
}
