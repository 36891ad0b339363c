package fetcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"

	"rerascrape/internal/browser"
	"rerascrape/internal/logger"
	"rerascrape/internal/models"
)

// ContentMarkers are the selectors that signal project listings have been
// rendered, in the order they are reported.
var ContentMarkers = []string{
	".project-card",
	".project-item",
	".project-container",
	"[class*='project']",
	".card",
	".list-item",
}

// reraTextPattern is the JS regex for a div holding a registration number.
const reraTextPattern = `/(RP|PS)\/\d+\/\d{4}\/\d+/`

// Options controls a single render.
type Options struct {
	Browser           browser.Config
	UserAgent         string
	NavigationTimeout time.Duration
	WaitBudget        time.Duration // how long to wait for ContentMarkers
}

// Renderer loads a page in a fresh browser and returns its markup after
// client-side scripts ran.
type Renderer struct {
	opts Options
	log  logger.Logger
}

// NewRenderer creates a Renderer.
func NewRenderer(opts Options, log logger.Logger) *Renderer {
	if log == nil {
		log = logger.NewNop()
	}
	return &Renderer{opts: opts, log: log}
}

// Render launches a browser, loads url, waits for project content and
// returns the rendered document. The browser is closed before Render
// returns on every path. A missing content marker is only a warning.
func (r *Renderer) Render(ctx context.Context, url string) (string, error) {
	startTime := time.Now()

	b, err := browser.New(r.opts.Browser)
	if err != nil {
		return "", models.NewScrapeError(models.ErrCodeRenderingUnavailable, "failed to start browser", err)
	}
	defer func() {
		if err := b.Close(); err != nil {
			r.log.Debug("browser close failed", logger.Error(err))
		}
	}()

	page, err := b.NewPage()
	if err != nil {
		return "", models.NewScrapeError(models.ErrCodeRenderingUnavailable, "failed to create page", err)
	}
	defer page.Close()

	p := page.Context(ctx)

	if r.opts.UserAgent != "" {
		_ = p.SetUserAgent(&proto.NetworkSetUserAgentOverride{
			UserAgent:      r.opts.UserAgent,
			AcceptLanguage: "en-US,en;q=0.9",
		})
	}
	_ = proto.NetworkSetExtraHTTPHeaders{
		Headers: proto.NetworkHeaders{"Accept-Language": gson.New("en-US,en;q=0.9")},
	}.Call(p)

	r.log.Info("loading page", logger.String("url", url))
	if err := p.Timeout(r.opts.NavigationTimeout).Navigate(url); err != nil {
		return "", models.NewScrapeError(models.ErrCodeRenderingUnavailable, "failed to navigate", err)
	}
	if err := p.Timeout(r.opts.NavigationTimeout).WaitLoad(); err != nil {
		r.log.Warn("page load did not complete, continuing", logger.Error(err))
	}

	r.waitForContent(p)

	html, err := p.HTML()
	if err != nil {
		return "", models.NewScrapeError(models.ErrCodeRenderingUnavailable, "failed to read rendered HTML", err)
	}

	r.log.Info("page rendered",
		logger.Int("bytes", len(html)),
		logger.Duration("loadTime", time.Since(startTime)),
	)
	return html, nil
}

// waitForContent races every content marker against the wait budget and
// then lets the DOM settle.
func (r *Renderer) waitForContent(p *rod.Page) {
	var matched string
	race := p.Timeout(r.opts.WaitBudget).Race()
	for _, sel := range ContentMarkers {
		sel := sel
		race = race.Element(sel).Handle(func(*rod.Element) error {
			matched = sel
			return nil
		})
	}
	race = race.ElementR("div", reraTextPattern).Handle(func(*rod.Element) error {
		matched = "div:" + reraTextPattern
		return nil
	})

	if _, err := race.Do(); err != nil {
		cause := err
		if errors.Is(err, context.DeadlineExceeded) {
			cause = fmt.Errorf("no content marker within %s: %w", r.opts.WaitBudget, err)
		}
		r.log.Warn("content may not have loaded properly",
			logger.Error(models.NewScrapeError(models.ErrCodeContentTimeout, "timeout waiting for content", cause)))
		return
	}
	r.log.Info("content loaded", logger.String("selector", matched))

	if err := p.Timeout(r.opts.WaitBudget).WaitDOMStable(300*time.Millisecond, 0.1); err != nil {
		r.log.Debug("DOM did not settle, proceeding with current DOM", logger.Error(err))
	}
}
