package odisharera

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rerascrape/internal/models"
)

func sampleContent() *ProjectContent {
	return NewProjectContent("https://rera.example/projects", []models.ProjectRecord{
		{
			ProjectName:  "SUNRISE HEIGHTS",
			PromoterName: "ABC | Sons",
			ReraNo:       "RP/05/2024/000123",
			RawHTML:      "<div>secret</div>",
		},
		{ProjectName: "LAKE VIEW", ProjectType: "Commercial"},
	})
}

func TestProjectContent_ToCSV(t *testing.T) {
	out, err := sampleContent().ToCSV()
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(models.Columns, ","), lines[0])
	assert.Equal(t, "SUNRISE HEIGHTS,ABC | Sons,,,,,,RP/05/2024/000123,", lines[1])
	assert.NotContains(t, out, "secret")
}

func TestProjectContent_ToCSVEmpty(t *testing.T) {
	out, err := NewProjectContent("u", nil).ToCSV()
	require.NoError(t, err)
	assert.Equal(t, strings.Join(models.Columns, ",")+"\n", out)
}

func TestProjectContent_ToJSON(t *testing.T) {
	b, err := sampleContent().ToJSON()
	require.NoError(t, err)

	var got struct {
		Source   string              `json:"source"`
		Count    int                 `json:"count"`
		Projects []map[string]string `json:"projects"`
	}
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, 2, got.Count)
	require.Len(t, got.Projects, 2)
	assert.Len(t, got.Projects[0], len(models.Columns))
	assert.NotContains(t, got.Projects[0], models.FieldRawHTML)
	assert.Equal(t, "RP/05/2024/000123", got.Projects[0][models.FieldReraNo])
}

func TestProjectContent_ToMarkdown(t *testing.T) {
	out, err := sampleContent().ToMarkdown()
	require.NoError(t, err)

	assert.Contains(t, out, "# Odisha RERA Projects")
	assert.Contains(t, out, "| Project Name | Promoter Name |")
	assert.Contains(t, out, "| SUNRISE HEIGHTS | ABC \\| Sons |")
	assert.Contains(t, out, "| LAKE VIEW |")
}

func TestProjectContent_ToHTMLEscapes(t *testing.T) {
	c := NewProjectContent("u", []models.ProjectRecord{{ProjectName: "<b>X</b>"}})
	out, err := c.ToHTML()
	require.NoError(t, err)
	assert.Contains(t, out, "<td>&lt;b&gt;X&lt;/b&gt;</td>")
}

func TestProjectContent_ToText(t *testing.T) {
	out, err := sampleContent().ToText()
	require.NoError(t, err)

	assert.Contains(t, out, "Project 1:\n  Project Name: SUNRISE HEIGHTS\n  Promoter Name: ABC | Sons\n  Rera No: RP/05/2024/000123\n")
	assert.Contains(t, out, "Project 2:\n  Project Name: LAKE VIEW\n  Project Type: Commercial\n")
	assert.NotContains(t, out, "Address")
}
