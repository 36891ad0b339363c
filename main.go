package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"rerascrape/internal/browser"
	"rerascrape/internal/config"
	"rerascrape/internal/fetcher"
	"rerascrape/internal/formatter"
	"rerascrape/internal/logger"
	"rerascrape/internal/models"
	"rerascrape/internal/output"
	"rerascrape/internal/scraper"
	_ "rerascrape/internal/sites/odisharera"
)

var version = "dev"

var site string

// sampleRecords is how many records the console summary shows in full.
const sampleRecords = 3

func main() {
	rootCmd := &cobra.Command{
		Use:     "rerascrape [URL]",
		Short:   "Extract the first projects listed by a RERA authority",
		Version: version,
		Long: `rerascrape renders a real-estate regulatory authority's project listing
in a headless browser, locates the first N project listings and extracts
name, promoter, address, type, dates, available units and registration
number into a table.`,
		Example: `  # First 6 Odisha RERA projects to odisha_rera_projects_first6.csv
  rerascrape

  # First 10 projects as JSON, with a visible browser
  rerascrape -n 10 -o projects.json --showui

  # Through a proxy, waiting up to 40s for listings to render
  rerascrape --proxy http://127.0.0.1:7890 --wait 40s`,
		Args:         cobra.MaximumNArgs(1),
		RunE:         run,
		SilenceUsage: true,
	}

	config.RegisterFlags(rootCmd.Flags())
	rootCmd.Flags().StringVar(&site, "site", "odisha.rera", fmt.Sprintf("site scraper to use %v", scraper.Names()))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	if len(args) == 1 {
		cfg.ListingURL = args[0]
	}

	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	s, ok := scraper.Get(site)
	if !ok {
		return fmt.Errorf("unknown site: %s", site)
	}

	log.Info("starting scrape",
		logger.String("site", s.Name()),
		logger.String("url", cfg.ListingURL),
		logger.Int("maxRecords", cfg.MaxRecords),
	)

	opts := scraper.Options{
		MaxRecords:    cfg.MaxRecords,
		ExcerptLength: cfg.ExcerptLength,
		DebugHTMLPath: cfg.DebugHTMLPath,
		Fetch: fetcher.Options{
			Browser: browser.Config{
				ProxyURL:   cfg.Browser.ProxyURL,
				Headless:   cfg.Browser.Headless,
				NoSandbox:  cfg.Browser.NoSandbox,
				Stealth:    cfg.Browser.Stealth,
				BrowserBin: cfg.Browser.BrowserBin,
			},
			UserAgent:         cfg.Browser.UserAgent,
			NavigationTimeout: cfg.Browser.NavigationTimeout,
			WaitBudget:        cfg.Browser.WaitBudget,
		},
		Logger: log,
	}

	content, err := s.Scrape(context.Background(), cfg.ListingURL, opts)
	if err != nil {
		log.Error("no project data was extracted", logger.Error(err))
		return err
	}

	var records []models.ProjectRecord
	if rc, ok := content.(interface{ Records() []models.ProjectRecord }); ok {
		records = rc.Records()
	}

	if err := save(content, records, cfg, log); err != nil {
		// The records were produced; a failed write does not fail the run.
		log.Error("failed to save data", logger.String("path", cfg.Output), logger.Error(err))
	}

	if len(records) > 0 {
		output.PrintSummary(cmd.OutOrStdout(), output.Summarize(records), records, sampleRecords)
	}
	return nil
}

// save writes content to cfg.Output. CSV goes through the exporter so
// the column order and the no-data rule apply.
func save(content scraper.Content, records []models.ProjectRecord, cfg config.Config, log logger.Logger) error {
	if cfg.Format == "csv" {
		if _, err := output.Export(records, cfg.Output, log); err != nil {
			return err
		}
		if len(records) > 0 {
			log.Info("data saved", logger.String("path", cfg.Output))
		}
		return nil
	}

	if len(records) == 0 {
		log.Warn("no data to save")
		return nil
	}
	if err := formatter.WriteFile(content, cfg.Format, cfg.Output); err != nil {
		return models.NewScrapeError(models.ErrCodeExportFailed, "failed to save records", err)
	}
	log.Info("data saved", logger.String("path", cfg.Output), logger.String("format", cfg.Format))
	return nil
}
