package output_test

import (
	"bytes"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rerascrape/internal/models"
	"rerascrape/internal/output"
)

func sampleRecords() []models.ProjectRecord {
	return []models.ProjectRecord{
		{
			ProjectName:    "SUNRISE HEIGHTS",
			PromoterName:   "ABC BUILDERS PVT LTD",
			Address:        "Plot 12, Patia, \"Bhubaneswar\"",
			ProjectType:    "Residential",
			StartedFrom:    "Jan, 2020",
			PossessionBy:   "Dec, 2025",
			UnitsAvailable: "48",
			ReraNo:         "RP/05/2024/000123",
			RawHTML:        "<div>excerpt</div>",
		},
		{
			ProjectName: "ଓଡ଼ିଶା TOWER",
			ReraNo:      "PS/01/2023/000009",
			RawHTML:     "<div>other</div>",
		},
		{
			PromoterName: "Om Homes\nUnit 2",
		},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestExport_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects.csv")
	records := sampleRecords()

	summary, err := output.Export(records, path, nil)
	require.NoError(t, err)
	assert.Equal(t, output.Summary{Total: 3, WithReraNo: 2, WithProjectName: 2, WithPromoterName: 2}, summary)

	rows := readCSV(t, path)
	require.Len(t, rows, len(records)+1)
	assert.Equal(t, models.Columns, rows[0])
	assert.NotContains(t, rows[0], models.FieldRawHTML)

	for i, rec := range records {
		for j, col := range rows[0] {
			want, _ := rec.Field(col)
			assert.Equal(t, want, rows[i+1][j], "record %d column %s", i, col)
		}
	}
}

func TestExport_NoRecordsWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects.csv")

	summary, err := output.Export(nil, path, nil)

	require.NoError(t, err)
	assert.Equal(t, output.Summary{}, summary)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestExport_UnwritablePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "projects.csv")

	summary, err := output.Export(sampleRecords(), path, nil)

	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.ErrCodeExportFailed))
	assert.Equal(t, 3, summary.Total)
}

type recordingSink struct {
	header []string
	rows   [][]string
	err    error
}

func (s *recordingSink) Write(header []string, rows [][]string) error {
	s.header, s.rows = header, rows
	return s.err
}

func TestExportTo_Sink(t *testing.T) {
	sink := &recordingSink{}

	_, err := output.ExportTo(sampleRecords()[:1], sink, nil)

	require.NoError(t, err)
	assert.Equal(t, models.Columns, sink.header)
	require.Len(t, sink.rows, 1)
	assert.Equal(t, []string{
		"SUNRISE HEIGHTS", "ABC BUILDERS PVT LTD", "Plot 12, Patia, \"Bhubaneswar\"",
		"Residential", "Jan, 2020", "Dec, 2025", "48", "RP/05/2024/000123", "",
	}, sink.rows[0])
}

func TestExportTo_SinkError(t *testing.T) {
	cause := errors.New("disk full")

	_, err := output.ExportTo(sampleRecords(), &recordingSink{err: cause}, nil)

	assert.ErrorIs(t, err, cause)
	assert.True(t, models.IsCode(err, models.ErrCodeExportFailed))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Project Name", output.Label(models.FieldProjectName))
	assert.Equal(t, "Rera No", output.Label(models.FieldReraNo))
	assert.Equal(t, "Units Available", output.Label(models.FieldUnitsAvailable))
}

func TestPrintSummary(t *testing.T) {
	records := sampleRecords()
	var buf bytes.Buffer

	output.PrintSummary(&buf, output.Summarize(records), records, 2)

	out := buf.String()
	assert.Contains(t, out, "SCRAPING SUMMARY")
	assert.Contains(t, out, "Projects with RERA No")
	assert.Contains(t, out, "Project 1")
	assert.Contains(t, out, "Possession By")
	assert.Contains(t, out, "Project 2")
	assert.NotContains(t, out, "Project 3")
	assert.NotContains(t, out, "excerpt")
}
