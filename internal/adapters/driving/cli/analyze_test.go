package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze_Text(t *testing.T) {
	setupTestRuntime(t, nil)
	path := writePage(t, testPageHTML)

	stdout, _, err := runCommand(t, "analyze", path)

	require.NoError(t, err)
	assert.Contains(t, stdout, "Pets")
	assert.Contains(t, stdout, "Words:")
	assert.Contains(t, stdout, "h1 Pets")
	assert.Contains(t, stdout, "door <https://example.com/door>")
	assert.Contains(t, stdout, "Keywords")
}

func TestAnalyze_JSON(t *testing.T) {
	setupTestRuntime(t, nil)
	path := writePage(t, testPageHTML)

	stdout, _, err := runCommand(t, "analyze", path, "--json", "--keywords", "3")
	require.NoError(t, err)

	var out analyzeOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Equal(t, path, out.Source)
	assert.Equal(t, "Pets", out.Facts.Title)
	assert.Positive(t, out.Facts.WordCount)
	require.Len(t, out.Facts.Links, 1)
	assert.LessOrEqual(t, len(out.Keywords.Keywords), 3)
}

func TestAnalyze_MissingFile(t *testing.T) {
	setupTestRuntime(t, nil)

	_, _, err := runCommand(t, "analyze", "/does/not/exist.html")

	require.Error(t, err)
}
