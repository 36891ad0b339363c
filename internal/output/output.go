// Package output exports project records as a delimited table and
// prints the scraping summary.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"rerascrape/internal/logger"
	"rerascrape/internal/models"
)

// Sink receives a header row and data rows in column order.
type Sink interface {
	Write(header []string, rows [][]string) error
}

// CSVSink writes a UTF-8 CSV file at Path, replacing any existing file.
type CSVSink struct {
	Path string
}

// Write creates the file and writes the table to it.
func (s CSVSink) Write(header []string, rows [][]string) error {
	f, err := os.Create(s.Path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", s.Path, err)
	}
	if err := WriteCSV(f, header, rows); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", s.Path, err)
	}
	return f.Close()
}

// WriteCSV writes header and rows as CSV to w.
func WriteCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

// Summary counts how many records carry the key fields.
type Summary struct {
	Total            int
	WithReraNo       int
	WithProjectName  int
	WithPromoterName int
}

// Summarize counts records and their non-empty key fields.
func Summarize(records []models.ProjectRecord) Summary {
	s := Summary{Total: len(records)}
	for _, r := range records {
		if r.ReraNo != "" {
			s.WithReraNo++
		}
		if r.ProjectName != "" {
			s.WithProjectName++
		}
		if r.PromoterName != "" {
			s.WithPromoterName++
		}
	}
	return s
}

// Project maps records onto the fixed column order. Columns no record
// carries are omitted; the diagnostic raw_html field never appears.
func Project(records []models.ProjectRecord) (header []string, rows [][]string) {
	for _, col := range models.Columns {
		for i := range records {
			if _, ok := records[i].Field(col); ok {
				header = append(header, col)
				break
			}
		}
	}
	rows = make([][]string, 0, len(records))
	for i := range records {
		row := make([]string, len(header))
		for j, col := range header {
			row[j], _ = records[i].Field(col)
		}
		rows = append(rows, row)
	}
	return header, rows
}

// Export writes records as a CSV file at destination.
func Export(records []models.ProjectRecord, destination string, log logger.Logger) (Summary, error) {
	return ExportTo(records, CSVSink{Path: destination}, log)
}

// ExportTo hands records to sink. With no records nothing is written and
// a notice is logged.
func ExportTo(records []models.ProjectRecord, sink Sink, log logger.Logger) (Summary, error) {
	if log == nil {
		log = logger.NewNop()
	}
	if len(records) == 0 {
		log.Warn("no data to save")
		return Summary{}, nil
	}

	header, rows := Project(records)
	if err := sink.Write(header, rows); err != nil {
		return Summarize(records), models.NewScrapeError(models.ErrCodeExportFailed, "failed to save records", err)
	}
	return Summarize(records), nil
}

// Label turns a field key such as project_name into "Project Name".
func Label(key string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(key, "_", " "))
}

// PrintSummary renders the summary counts and the non-empty fields of
// the first samples records to w.
func PrintSummary(w io.Writer, s Summary, records []models.ProjectRecord, samples int) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle("SCRAPING SUMMARY")
	t.AppendRows([]table.Row{
		{"Total projects scraped", s.Total},
		{"Projects with RERA No", s.WithReraNo},
		{"Projects with Project Name", s.WithProjectName},
		{"Projects with Promoter Name", s.WithPromoterName},
	})
	t.Render()

	if samples > len(records) {
		samples = len(records)
	}
	for i := 0; i < samples; i++ {
		st := table.NewWriter()
		st.SetOutputMirror(w)
		st.SetStyle(table.StyleLight)
		st.SetTitle(fmt.Sprintf("Project %d", i+1))
		for _, col := range models.Columns {
			if v, _ := records[i].Field(col); v != "" {
				st.AppendRow(table.Row{Label(col), v})
			}
		}
		st.Render()
	}
}
