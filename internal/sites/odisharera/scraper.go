// Package odisharera scrapes the project listing of the Odisha Real
// Estate Regulatory Authority.
package odisharera

import (
	"context"
	"fmt"
	"os"

	"rerascrape/internal/fetcher"
	"rerascrape/internal/logger"
	"rerascrape/internal/models"
	"rerascrape/internal/scraper"
)

// SiteName is the registry name of this scraper.
const SiteName = "odisha.rera"

func init() {
	scraper.Register(&ReraScraper{})
}

// Renderer returns the markup of a page after client-side scripts ran.
type Renderer interface {
	Render(ctx context.Context, url string) (string, error)
}

// RunConfig is the immutable input of one run.
type RunConfig struct {
	ListingURL    string
	MaxRecords    int
	DebugHTMLPath string
	ExcerptLength int
}

// Runner drives render, segment and extract for one listing page.
type Runner struct {
	renderer  Renderer
	extractor *Extractor
	log       logger.Logger
}

// NewRunner creates a Runner.
func NewRunner(renderer Renderer, log logger.Logger) *Runner {
	if log == nil {
		log = logger.NewNop()
	}
	return &Runner{
		renderer:  renderer,
		extractor: NewExtractor(log),
		log:       log,
	}
}

// Run renders the listing and returns at most cfg.MaxRecords records in
// document order. It fails only when the page cannot be rendered.
func (r *Runner) Run(ctx context.Context, cfg RunConfig) ([]models.ProjectRecord, error) {
	r.log.Info("scraping projects",
		logger.String("url", cfg.ListingURL),
		logger.Int("maxRecords", cfg.MaxRecords),
	)

	document, err := r.renderer.Render(ctx, cfg.ListingURL)
	if err != nil {
		if !models.IsCode(err, models.ErrCodeRenderingUnavailable) {
			err = models.NewScrapeError(models.ErrCodeRenderingUnavailable, "failed to render listing", err)
		}
		return nil, err
	}

	if cfg.DebugHTMLPath != "" {
		if err := os.WriteFile(cfg.DebugHTMLPath, []byte(document), 0o644); err != nil {
			r.log.Warn("failed to save rendered page", logger.String("path", cfg.DebugHTMLPath), logger.Error(err))
		} else {
			r.log.Info("saved rendered page", logger.String("path", cfg.DebugHTMLPath))
		}
	}

	fragments, strategy := Segment(document, cfg.MaxRecords)
	r.log.Info("found project containers",
		logger.Int("count", len(fragments)),
		logger.String("strategy", strategy),
	)

	records := make([]models.ProjectRecord, 0, len(fragments))
	for i, frag := range fragments {
		if i >= cfg.MaxRecords {
			break
		}
		r.log.Debug("processing project", logger.Int("index", i+1), logger.Int("of", len(fragments)))

		rec := r.extractor.Extract(string(frag))
		rec.RawHTML = Excerpt(string(frag), cfg.ExcerptLength)
		records = append(records, rec)

		r.log.Info(fmt.Sprintf("project %d/%d", i+1, len(fragments)),
			logger.String("project", rec.ProjectName),
			logger.String("promoter", rec.PromoterName),
			logger.String("address", rec.Address),
			logger.String("reraNo", rec.ReraNo),
		)
	}
	return records, nil
}

// Excerpt keeps the first n characters of s, marking a cut with "...".
func Excerpt(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

// ReraScraper adapts Runner to the scraper registry.
type ReraScraper struct{}

// Name returns the site name.
func (s *ReraScraper) Name() string { return SiteName }

// Scrape renders target with a fresh browser and extracts its projects.
func (s *ReraScraper) Scrape(ctx context.Context, target string, opts scraper.Options) (scraper.Content, error) {
	if target == "" {
		return nil, models.NewScrapeError(models.ErrCodeInvalidInput, "listing URL is required", nil)
	}
	if opts.MaxRecords <= 0 {
		return nil, models.NewScrapeError(models.ErrCodeInvalidInput,
			fmt.Sprintf("max records must be positive, got %d", opts.MaxRecords), nil)
	}

	renderer := fetcher.NewRenderer(opts.Fetch, opts.Logger)
	records, err := NewRunner(renderer, opts.Logger).Run(ctx, RunConfig{
		ListingURL:    target,
		MaxRecords:    opts.MaxRecords,
		DebugHTMLPath: opts.DebugHTMLPath,
		ExcerptLength: opts.ExcerptLength,
	})
	if err != nil {
		return nil, err
	}
	return NewProjectContent(target, records), nil
}
