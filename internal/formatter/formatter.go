package formatter

import (
	"fmt"
	"os"
	"strings"

	"rerascrape/internal/scraper"
)

// Format renders content in one of html, text, markdown, csv or json.
func Format(content scraper.Content, format string) (string, error) {
	switch strings.ToLower(format) {
	case "html":
		return content.ToHTML()
	case "text":
		return content.ToText()
	case "markdown":
		return content.ToMarkdown()
	case "csv":
		return content.ToCSV()
	case "json":
		b, err := content.ToJSON()
		if err != nil {
			return "", err
		}
		return string(b), nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", format)
	}
}

// WriteFile renders content and writes it to path.
func WriteFile(content scraper.Content, format, path string) error {
	out, err := Format(content, format)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return fmt.Errorf("failed to write to file: %w", err)
	}
	return nil
}
