package collector

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeChannelsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "streamers.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadChannelsFile(t *testing.T) {
	path := writeChannelsFile(t, `# tracked channels
gaules
GAULES

@loud_coringa
https://twitch.tv/Alanzoka
  # inline comment line
gaules
`)

	channels, err := ReadChannelsFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"gaules", "loud_coringa", "alanzoka"}, channels)
}

func TestReadChannelsFile_Empty(t *testing.T) {
	path := writeChannelsFile(t, "# nothing here\n\n")

	channels, err := ReadChannelsFile(path)
	require.NoError(t, err)
	assert.Empty(t, channels)
}

func TestReadChannelsFile_Missing(t *testing.T) {
	_, err := ReadChannelsFile(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}
