package agamdocs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aruvili/agamdocs/nav"
	"github.com/aruvili/agamdocs/resolve"
)

const testManifest = `
default: 01_introduction.md
routes:
  introduction: 01_introduction.md
  variables: 04_variables.md
sidebar:
  - title: Basics
    href: /docs/basics
    items:
      - title: Introduction
        href: /docs/introduction
      - title: Variables
        href: /docs/variables
`

func TestLoadManifestEmptyPathUsesDefaults(t *testing.T) {
	tree, r, err := LoadManifest("")
	require.NoError(t, err)
	assert.Equal(t, nav.Default().Sidebar(), tree.Sidebar())
	assert.Equal(t, resolve.Default().Routes(), r.Routes())
}

func TestParseManifest(t *testing.T) {
	tree, r, err := ParseManifest([]byte(testManifest))
	require.NoError(t, err)

	require.Len(t, tree.Sidebar(), 1)
	assert.Len(t, tree.Leaves(), 2)
	assert.Equal(t, "04_variables.md", r.Resolve("/docs/variables"))
	assert.Equal(t, "01_introduction.md", r.Resolve("unknown"))
}

func TestParseManifestDefaultsFallback(t *testing.T) {
	_, r, err := ParseManifest([]byte(`
routes:
  loops: 08_loops.md
sidebar:
  - title: Control Flow
    href: /docs/control-flow
    items:
      - title: Loops
        href: /docs/loops
`))
	require.NoError(t, err)
	assert.Equal(t, resolve.DefaultFallback, r.Fallback())
}

func TestParseManifestErrors(t *testing.T) {
	tests := map[string]string{
		"bad yaml":     "sidebar: [",
		"no sidebar":   "routes:\n  a: 01_a.md\n",
		"bad route":    "routes:\n  a: a.md\nsidebar:\n  - title: A\n    href: /docs/a\n",
		"bad fallback": "default: intro\nsidebar:\n  - title: A\n    href: /docs/a\n",
		"too deep": `
sidebar:
  - title: A
    href: /docs/a
    items:
      - title: B
        href: /docs/b
        items:
          - title: C
            href: /docs/c
`,
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			_, _, err := ParseManifest([]byte(src))
			assert.Error(t, err)
		})
	}
}

func TestWriteManifestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site", "agamdocs.yaml")
	require.NoError(t, WriteManifest(path, nav.Default(), resolve.Default()))

	tree, r, err := LoadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, nav.Default().Sidebar(), tree.Sidebar())
	assert.Equal(t, resolve.Default().Routes(), r.Routes())
	assert.Equal(t, resolve.DefaultFallback, r.Fallback())
}

func TestLoadManifestMissingFile(t *testing.T) {
	_, _, err := LoadManifest(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}
