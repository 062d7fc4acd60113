package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const twoByTwoJSON = `{
  "page": {"width": 1000, "height": 1000},
  "elements": [
    {"text": "A", "x": 100, "y": 100},
    {"text": "1", "x": 500, "y": 101},
    {"text": "B", "x": 102, "y": 400},
    {"text": "2", "x": 500, "y": 400}
  ]
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
