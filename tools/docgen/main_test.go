package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	t.Parallel()

	out := t.TempDir()
	require.NoError(t, generate(out))

	for _, name := range []string{"partsearch.md", "partsearch_parts_search.md", "partsearch_bom_match.md"} {
		_, err := os.Stat(filepath.Join(out, "cli", name))
		assert.NoError(t, err, name)
	}

	spec, err := os.ReadFile(filepath.Join(out, "openapi.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(spec), "/api/v2/parts/search")
	assert.Contains(t, string(spec), "operationId: bom-match")
}
