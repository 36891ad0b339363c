package odisharera

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rerascrape/internal/models"
	"rerascrape/internal/scraper"
)

type fakeRenderer struct {
	document string
	err      error
	calls    int
	lastURL  string
}

func (f *fakeRenderer) Render(_ context.Context, url string) (string, error) {
	f.calls++
	f.lastURL = url
	return f.document, f.err
}

func runConfig(t *testing.T, limit int) RunConfig {
	t.Helper()
	return RunConfig{
		ListingURL:    "https://rera.example/projects",
		MaxRecords:    limit,
		DebugHTMLPath: filepath.Join(t.TempDir(), "debug.html"),
		ExcerptLength: 40,
	}
}

func TestRunner_Run(t *testing.T) {
	renderer := &fakeRenderer{document: threeProjectsHTML}
	cfg := runConfig(t, 6)

	records, err := NewRunner(renderer, nil).Run(context.Background(), cfg)

	require.NoError(t, err)
	assert.Equal(t, 1, renderer.calls)
	assert.Equal(t, cfg.ListingURL, renderer.lastURL)
	require.Len(t, records, 3)
	for i, rec := range records {
		assert.Equal(t, threeNumbers[i], rec.ReraNo)
		assert.NotEmpty(t, rec.RawHTML)
		assert.LessOrEqual(t, len([]rune(rec.RawHTML)), cfg.ExcerptLength+len("..."))
	}
	assert.Equal(t, "ALPHA", records[0].ProjectName)
	assert.Equal(t, "BETA", records[1].ProjectName)

	saved, err := os.ReadFile(cfg.DebugHTMLPath)
	require.NoError(t, err)
	assert.Equal(t, threeProjectsHTML, string(saved))
}

func TestRunner_RunCapsRecords(t *testing.T) {
	records, err := NewRunner(&fakeRenderer{document: threeProjectsHTML}, nil).Run(context.Background(), runConfig(t, 2))

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, threeNumbers[0], records[0].ReraNo)
	assert.Equal(t, threeNumbers[1], records[1].ReraNo)
}

func TestRunner_RenderFailureAbortsRun(t *testing.T) {
	cfg := runConfig(t, 6)
	renderer := &fakeRenderer{err: errors.New("chrome not found")}

	records, err := NewRunner(renderer, nil).Run(context.Background(), cfg)

	require.Error(t, err)
	assert.Nil(t, records)
	assert.True(t, models.IsCode(err, models.ErrCodeRenderingUnavailable))
	assert.ErrorContains(t, err, "chrome not found")
	_, statErr := os.Stat(cfg.DebugHTMLPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunner_RenderFailureKeepsCode(t *testing.T) {
	cause := models.NewScrapeError(models.ErrCodeRenderingUnavailable, "failed to navigate", errors.New("net::ERR"))

	_, err := NewRunner(&fakeRenderer{err: cause}, nil).Run(context.Background(), runConfig(t, 6))

	var se *models.ScrapeError
	require.ErrorAs(t, err, &se)
	assert.Same(t, cause, se)
}

func TestRunner_DebugWriteFailureIsNotFatal(t *testing.T) {
	cfg := runConfig(t, 6)
	cfg.DebugHTMLPath = filepath.Join(t.TempDir(), "missing", "debug.html")

	records, err := NewRunner(&fakeRenderer{document: threeProjectsHTML}, nil).Run(context.Background(), cfg)

	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestRunner_EmptyDocument(t *testing.T) {
	cfg := runConfig(t, 6)
	cfg.DebugHTMLPath = ""

	records, err := NewRunner(&fakeRenderer{document: "<html></html>"}, nil).Run(context.Background(), cfg)

	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "abc", Excerpt("abc", 3))
	assert.Equal(t, "abc...", Excerpt("abcdef", 3))
	assert.Equal(t, "éé...", Excerpt("ééé", 2))
	assert.Equal(t, "", Excerpt("", 500))
}

func TestReraScraper_Registered(t *testing.T) {
	s, ok := scraper.Get(SiteName)
	require.True(t, ok)
	assert.Equal(t, SiteName, s.Name())
}

func TestReraScraper_RejectsBadInput(t *testing.T) {
	s := &ReraScraper{}

	_, err := s.Scrape(context.Background(), "", scraper.Options{MaxRecords: 6})
	assert.True(t, models.IsCode(err, models.ErrCodeInvalidInput))

	_, err = s.Scrape(context.Background(), "https://rera.example", scraper.Options{MaxRecords: 0})
	assert.True(t, models.IsCode(err, models.ErrCodeInvalidInput))
}
