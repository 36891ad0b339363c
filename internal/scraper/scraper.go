package scraper

import (
	"context"

	"rerascrape/internal/fetcher"
	"rerascrape/internal/logger"
)

// Scraper produces Content for one site.
type Scraper interface {
	Name() string
	Scrape(ctx context.Context, target string, opts Options) (Content, error)
}

// Content is scraped data that can be rendered in every output format.
type Content interface {
	ToHTML() (string, error)
	ToText() (string, error)
	ToMarkdown() (string, error)
	ToJSON() ([]byte, error)
	ToCSV() (string, error)
}

// Options is the immutable per-run configuration handed to a Scraper.
type Options struct {
	MaxRecords    int
	ExcerptLength int    // characters of source markup kept per record
	DebugHTMLPath string // rendered page is saved here; empty disables
	Fetch         fetcher.Options
	Logger        logger.Logger
}
