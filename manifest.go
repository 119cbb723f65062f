package agamdocs

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/aruvili/agamdocs/nav"
	"github.com/aruvili/agamdocs/resolve"
)

// Manifest is the on-disk form of the sidebar and route table.
//
//	default: 01_introduction.md
//	routes:
//	  variables: 04_variables.md
//	sidebar:
//	  - title: Basics
//	    href: /docs/basics
//	    items:
//	      - title: Variables
//	        href: /docs/variables
type Manifest struct {
	Default string            `yaml:"default,omitempty"`
	Routes  map[string]string `yaml:"routes"`
	Sidebar []nav.Item        `yaml:"sidebar"`
}

// LoadManifest reads a manifest file. An empty path returns the built-in
// sidebar and routes.
func LoadManifest(path string) (*nav.Tree, *resolve.Resolver, error) {
	if path == "" {
		return nav.Default(), resolve.Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("manifest: %w", err)
	}
	tree, r, err := ParseManifest(data)
	if err != nil {
		return nil, nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return tree, r, nil
}

// ParseManifest decodes and validates manifest YAML.
func ParseManifest(data []byte) (*nav.Tree, *resolve.Resolver, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, nil, err
	}
	if len(m.Sidebar) == 0 {
		return nil, nil, fmt.Errorf("sidebar is empty")
	}
	if m.Default == "" {
		m.Default = resolve.DefaultFallback
	}
	tree, err := nav.New(m.Sidebar)
	if err != nil {
		return nil, nil, err
	}
	r, err := resolve.New(m.Routes, m.Default)
	if err != nil {
		return nil, nil, err
	}
	return tree, r, nil
}

// WriteManifest writes tree and r to path, creating parent directories.
func WriteManifest(path string, tree *nav.Tree, r *resolve.Resolver) error {
	data, err := yaml.Marshal(Manifest{
		Default: r.Fallback(),
		Routes:  r.Routes(),
		Sidebar: tree.Sidebar(),
	})
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
