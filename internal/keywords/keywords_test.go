package keywords

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, `# phrases to hunt down
Secret Phrase
  "quoted phrase"

CASED
`)

	got, err := LoadFile(path)

	require.NoError(t, err)
	assert.Equal(t, []string{"secret phrase", "quoted phrase", "cased"}, got)
}

func TestLoadFile_OnlyCommentsAndBlanks(t *testing.T) {
	path := writeFile(t, "# one\n\n   \n# two\n")

	got, err := LoadFile(path)

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}
