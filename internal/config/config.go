// Package config loads the scraper configuration from defaults, an
// optional config file, a .env file, RERA_* environment variables and
// command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"rerascrape/internal/models"
)

// Defaults.
const (
	DefaultListingURL    = "https://rera.odisha.gov.in/projects/project-list"
	DefaultMaxRecords    = 6
	DefaultOutput        = "odisha_rera_projects_first6.csv"
	DefaultDebugHTMLPath = "debug_selenium_full_page.html"
	DefaultUserAgent     = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	DefaultWaitBudget    = 20 * time.Second
	DefaultNavTimeout    = 60 * time.Second
	DefaultExcerptLength = 500

	envPrefix = "RERA"
)

// Flag and config keys.
const (
	KeyConfigFile    = "config"
	KeyURL           = "url"
	KeyMaxRecords    = "max-records"
	KeyOutput        = "output"
	KeyFormat        = "format"
	KeyDebugHTML     = "debug-html"
	KeyWaitBudget    = "wait"
	KeyNavTimeout    = "timeout"
	KeyExcerptLength = "excerpt-length"
	KeyShowUI        = "showui"
	KeyNoSandbox     = "no-sandbox"
	KeyStealth       = "stealth"
	KeyProxy         = "proxy"
	KeyBrowserBin    = "browser-bin"
	KeyUserAgent     = "user-agent"
	KeyLogLevel      = "log-level"
	KeyLogFormat     = "log-format"
)

var validFormats = map[string]bool{
	"csv":      true,
	"json":     true,
	"markdown": true,
	"html":     true,
	"text":     true,
}

// Config is the immutable configuration of one scrape run.
type Config struct {
	ListingURL    string
	MaxRecords    int
	Output        string
	Format        string
	DebugHTMLPath string
	ExcerptLength int
	Browser       BrowserConfig
	Log           LogConfig
}

// BrowserConfig controls the rendering browser.
type BrowserConfig struct {
	Headless          bool
	NoSandbox         bool
	Stealth           bool
	ProxyURL          string
	BrowserBin        string
	UserAgent         string
	WaitBudget        time.Duration
	NavigationTimeout time.Duration
}

// LogConfig controls logging.
type LogConfig struct {
	Level  string
	Format string
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		ListingURL:    DefaultListingURL,
		MaxRecords:    DefaultMaxRecords,
		Output:        DefaultOutput,
		Format:        "csv",
		DebugHTMLPath: DefaultDebugHTMLPath,
		ExcerptLength: DefaultExcerptLength,
		Browser: BrowserConfig{
			Headless:          true,
			NoSandbox:         true,
			Stealth:           true,
			UserAgent:         DefaultUserAgent,
			WaitBudget:        DefaultWaitBudget,
			NavigationTimeout: DefaultNavTimeout,
		},
		Log: LogConfig{Level: "info", Format: "console"},
	}
}

// RegisterFlags adds every configuration flag to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String(KeyConfigFile, "", "config file (default ./config.yaml if present)")
	fs.String(KeyURL, d.ListingURL, "project listing URL")
	fs.IntP(KeyMaxRecords, "n", d.MaxRecords, "number of projects to extract")
	fs.StringP(KeyOutput, "o", d.Output, "output file path (format inferred from extension if -f not specified)")
	fs.StringP(KeyFormat, "f", "", "output format (csv, json, markdown, html, text)")
	fs.String(KeyDebugHTML, d.DebugHTMLPath, "where to save the rendered page for inspection (empty disables)")
	fs.DurationP(KeyWaitBudget, "w", d.Browser.WaitBudget, "how long to wait for project content to appear")
	fs.DurationP(KeyNavTimeout, "t", d.Browser.NavigationTimeout, "page navigation timeout")
	fs.Int(KeyExcerptLength, d.ExcerptLength, "characters of source markup kept per record for diagnostics")
	fs.Bool(KeyShowUI, false, "show browser UI (disable headless mode)")
	fs.Bool(KeyNoSandbox, d.Browser.NoSandbox, "disable the Chrome sandbox")
	fs.Bool(KeyStealth, d.Browser.Stealth, "inject stealth scripts before navigation")
	fs.StringP(KeyProxy, "p", "", "proxy URL (e.g. http://127.0.0.1:7890)")
	fs.String(KeyBrowserBin, "", "override the Chromium binary path")
	fs.String(KeyUserAgent, d.Browser.UserAgent, "browser user agent")
	fs.String(KeyLogLevel, d.Log.Level, "log level (debug, info, warn, error)")
	fs.String(KeyLogFormat, d.Log.Format, "log format (console, json)")
}

// Load builds a Config from fs (which must carry RegisterFlags flags),
// the environment and an optional config file.
func Load(fs *pflag.FlagSet) (Config, error) {
	// A missing .env is fine.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(fs); err != nil {
		return Config{}, fmt.Errorf("failed to bind flags: %w", err)
	}

	if file := v.GetString(KeyConfigFile); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	cfg := Config{
		ListingURL:    strings.TrimSpace(v.GetString(KeyURL)),
		MaxRecords:    v.GetInt(KeyMaxRecords),
		Output:        v.GetString(KeyOutput),
		Format:        strings.ToLower(v.GetString(KeyFormat)),
		DebugHTMLPath: v.GetString(KeyDebugHTML),
		ExcerptLength: v.GetInt(KeyExcerptLength),
		Browser: BrowserConfig{
			Headless:          !v.GetBool(KeyShowUI),
			NoSandbox:         v.GetBool(KeyNoSandbox),
			Stealth:           v.GetBool(KeyStealth),
			ProxyURL:          v.GetString(KeyProxy),
			BrowserBin:        v.GetString(KeyBrowserBin),
			UserAgent:         v.GetString(KeyUserAgent),
			WaitBudget:        v.GetDuration(KeyWaitBudget),
			NavigationTimeout: v.GetDuration(KeyNavTimeout),
		},
		Log: LogConfig{
			Level:  v.GetString(KeyLogLevel),
			Format: v.GetString(KeyLogFormat),
		},
	}
	if cfg.Format == "" {
		cfg.Format = InferFormat(cfg.Output)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case c.ListingURL == "":
		return models.NewScrapeError(models.ErrCodeInvalidInput, "listing URL is required", nil)
	case c.MaxRecords <= 0:
		return models.NewScrapeError(models.ErrCodeInvalidInput,
			fmt.Sprintf("max records must be positive, got %d", c.MaxRecords), nil)
	case !validFormats[c.Format]:
		return models.NewScrapeError(models.ErrCodeInvalidInput,
			fmt.Sprintf("invalid output format: %s", c.Format), nil)
	case c.Output == "":
		return models.NewScrapeError(models.ErrCodeInvalidInput, "output path is required", nil)
	case c.ExcerptLength < 0:
		return models.NewScrapeError(models.ErrCodeInvalidInput, "excerpt length must not be negative", nil)
	}
	return nil
}

// InferFormat infers the output format from a file extension, defaulting to csv.
func InferFormat(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".md", ".markdown":
		return "markdown"
	case ".json":
		return "json"
	case ".html", ".htm":
		return "html"
	case ".txt":
		return "text"
	default:
		return "csv"
	}
}
