package formatter_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rerascrape/internal/formatter"
)

type fakeContent struct{ jsonErr error }

func (fakeContent) ToHTML() (string, error)     { return "<p>html</p>", nil }
func (fakeContent) ToText() (string, error)     { return "text", nil }
func (fakeContent) ToMarkdown() (string, error) { return "# md", nil }
func (fakeContent) ToCSV() (string, error)      { return "a,b\n", nil }
func (c fakeContent) ToJSON() ([]byte, error)   { return []byte(`{"ok":true}`), c.jsonErr }

func TestFormat(t *testing.T) {
	tests := map[string]string{
		"html":     "<p>html</p>",
		"text":     "text",
		"Markdown": "# md",
		"csv":      "a,b\n",
		"json":     `{"ok":true}`,
	}
	for format, want := range tests {
		got, err := formatter.Format(fakeContent{}, format)
		require.NoError(t, err, format)
		assert.Equal(t, want, got, format)
	}
}

func TestFormat_Errors(t *testing.T) {
	_, err := formatter.Format(fakeContent{}, "xml")
	assert.EqualError(t, err, "unsupported output format: xml")

	_, err = formatter.Format(fakeContent{jsonErr: errors.New("boom")}, "json")
	assert.EqualError(t, err, "boom")
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.md")
	require.NoError(t, formatter.WriteFile(fakeContent{}, "markdown", path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# md", string(b))

	err = formatter.WriteFile(fakeContent{}, "markdown", filepath.Join(t.TempDir(), "missing", "out.md"))
	assert.Error(t, err)
}
