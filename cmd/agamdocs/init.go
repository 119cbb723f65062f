package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aruvili/agamdocs"
	"github.com/aruvili/agamdocs/nav"
	"github.com/aruvili/agamdocs/resolve"
)

const envExample = `SITE_NAME=Agam
SITE_URL=http://localhost:3000
ADDR=:3000
DOCS_DIR=docs
DATABASE_PATH=data/docs.db
MANIFEST=agamdocs.yaml
# CONTENT_ORIGIN=https://docs.example.org
FETCH_TIMEOUT=15s
WATCH=true
# ADMIN_PASSWORD=
# ADMIN_SESSION_SECRET=
`

// runInit lays out a new docs project in dir: the built-in manifest, one
// placeholder page per routed resource, a public/ directory for static
// assets, and an .env.example. Existing files
// are left alone.
func runInit(dir string) error {
	tree, r := nav.Default(), resolve.Default()

	fmt.Printf("Creating docs project in %s\n\n", dir)

	manifest := filepath.Join(dir, "agamdocs.yaml")
	if !exists(manifest) {
		if err := agamdocs.WriteManifest(manifest, tree, r); err != nil {
			return err
		}
		fmt.Printf("  created %s\n", manifest)
	}

	docsDir := filepath.Join(dir, "docs")
	if err := os.MkdirAll(docsDir, 0o755); err != nil {
		return err
	}
	titles := make(map[string]string)
	for _, leaf := range tree.Leaves() {
		if id, ok := r.Lookup(leaf.Href); ok && titles[id] == "" {
			titles[id] = leaf.Title
		}
	}
	for _, id := range r.ResourceIDs() {
		path := filepath.Join(docsDir, id)
		if exists(path) {
			continue
		}
		title := titles[id]
		if title == "" {
			title = agamdocs.TitleFromResourceID(id)
		}
		body := fmt.Sprintf("# %s\n\nThis page has not been written yet.\n", title)
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		fmt.Printf("  created %s\n", path)
	}

	if err := os.MkdirAll(filepath.Join(dir, "public"), 0o755); err != nil {
		return err
	}

	env := filepath.Join(dir, ".env.example")
	if !exists(env) {
		if err := os.WriteFile(env, []byte(envExample), 0o644); err != nil {
			return err
		}
		fmt.Printf("  created %s\n", env)
	}

	fmt.Println()
	fmt.Println("Done! Next steps:")
	fmt.Println()
	fmt.Printf("  cd %s\n", dir)
	fmt.Println("  cp .env.example .env")
	fmt.Printf("  # optional: put %s in public/ for in-page navigation\n", agamdocs.HTMXFile)
	fmt.Println("  agamdocs check")
	fmt.Println("  agamdocs serve")
	return nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
