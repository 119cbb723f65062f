package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aruvili/agamdocs"
)

func TestRunInitCreatesConsistentProject(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "site")
	require.NoError(t, runInit(dir))

	tree, r, err := agamdocs.LoadManifest(filepath.Join(dir, "agamdocs.yaml"))
	require.NoError(t, err)

	files, err := markdownFiles(filepath.Join(dir, "docs"))
	require.NoError(t, err)
	assert.Equal(t, r.ResourceIDs(), files)
	assert.Empty(t, agamdocs.CheckConsistency(tree, r, files))

	intro, err := os.ReadFile(filepath.Join(dir, "docs", "01_introduction.md"))
	require.NoError(t, err)
	assert.Contains(t, string(intro), "# Introduction")
	assert.FileExists(t, filepath.Join(dir, ".env.example"))
	assert.DirExists(t, filepath.Join(dir, "public"))
}

func TestRunInitKeepsExistingFiles(t *testing.T) {
	dir := t.TempDir()
	docs := filepath.Join(dir, "docs")
	require.NoError(t, os.MkdirAll(docs, 0o755))
	custom := filepath.Join(docs, "04_variables.md")
	require.NoError(t, os.WriteFile(custom, []byte("# Mine\n"), 0o644))

	require.NoError(t, runInit(dir))

	got, err := os.ReadFile(custom)
	require.NoError(t, err)
	assert.Equal(t, "# Mine\n", string(got))
}
