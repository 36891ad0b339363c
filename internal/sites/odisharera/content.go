package odisharera

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"

	"rerascrape/internal/models"
	"rerascrape/internal/output"
)

const contentTitle = "Odisha RERA Projects"

// ProjectContent holds extracted project records and implements scraper.Content.
type ProjectContent struct {
	sourceURL string
	records   []models.ProjectRecord
}

// NewProjectContent creates a ProjectContent.
func NewProjectContent(sourceURL string, records []models.ProjectRecord) *ProjectContent {
	return &ProjectContent{sourceURL: sourceURL, records: records}
}

// Records returns the extracted records in document order.
func (c *ProjectContent) Records() []models.ProjectRecord {
	return c.records
}

// ToCSV returns the records as CSV in export column order.
func (c *ProjectContent) ToCSV() (string, error) {
	header, rows := output.Project(c.records)
	if len(header) == 0 {
		header = models.Columns
	}
	var buf bytes.Buffer
	if err := output.WriteCSV(&buf, header, rows); err != nil {
		return "", fmt.Errorf("failed to write CSV: %w", err)
	}
	return buf.String(), nil
}

// ToJSON returns the records without their diagnostic excerpts.
func (c *ProjectContent) ToJSON() ([]byte, error) {
	records := c.records
	if records == nil {
		records = []models.ProjectRecord{}
	}
	return json.MarshalIndent(struct {
		Source   string                 `json:"source"`
		Count    int                    `json:"count"`
		Projects []models.ProjectRecord `json:"projects"`
	}{
		Source:   c.sourceURL,
		Count:    len(records),
		Projects: records,
	}, "", "  ")
}

// ToHTML returns the records as an HTML table.
func (c *ProjectContent) ToHTML() (string, error) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<h1>%s</h1>\n", contentTitle))
	sb.WriteString(fmt.Sprintf("<p>Source: <a href=%q>%s</a></p>\n", c.sourceURL, html.EscapeString(c.sourceURL)))
	sb.WriteString("<table>\n<thead><tr>")
	for _, col := range models.Columns {
		sb.WriteString("<th>" + html.EscapeString(output.Label(col)) + "</th>")
	}
	sb.WriteString("</tr></thead>\n<tbody>\n")
	for i := range c.records {
		sb.WriteString("<tr>")
		for _, col := range models.Columns {
			v, _ := c.records[i].Field(col)
			sb.WriteString("<td>" + html.EscapeString(v) + "</td>")
		}
		sb.WriteString("</tr>\n")
	}
	sb.WriteString("</tbody>\n</table>\n")
	return sb.String(), nil
}

// ToMarkdown returns a heading followed by a Markdown table.
func (c *ProjectContent) ToMarkdown() (string, error) {
	page, err := c.ToHTML()
	if err != nil {
		return "", err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	tableHTML, err := goquery.OuterHtml(doc.Find("table").First())
	if err != nil {
		return "", fmt.Errorf("failed to render table: %w", err)
	}
	doc.Find("table").Remove()
	rest, err := doc.Find("body").Html()
	if err != nil {
		return "", fmt.Errorf("failed to render HTML: %w", err)
	}

	converter := md.NewConverter("", true, nil)
	heading, err := converter.ConvertString(rest)
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML to Markdown: %w", err)
	}
	return heading + "\n\n" + convertHTMLTableToMarkdown(tableHTML), nil
}

// ToText lists every record's non-empty fields.
func (c *ProjectContent) ToText() (string, error) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s (%d)\n%s\n\n", contentTitle, len(c.records), c.sourceURL))
	for i := range c.records {
		sb.WriteString(fmt.Sprintf("Project %d:\n", i+1))
		for _, col := range models.Columns {
			if v, _ := c.records[i].Field(col); v != "" {
				sb.WriteString(fmt.Sprintf("  %s: %s\n", output.Label(col), v))
			}
		}
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// convertHTMLTableToMarkdown converts the first HTML table to a Markdown table.
func convertHTMLTableToMarkdown(tableHTML string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(tableHTML))
	if err != nil {
		return tableHTML
	}
	table := doc.Find("table").First()

	var headers []string
	table.Find("thead tr").First().Find("th, td").Each(func(_ int, cell *goquery.Selection) {
		headers = append(headers, markdownCell(cell.Text()))
	})
	if len(headers) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("| " + strings.Join(headers, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(headers)) + "\n")
	table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		var cells []string
		row.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, markdownCell(cell.Text()))
		})
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	})
	return b.String()
}

func markdownCell(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), "|", `\|`)
}
