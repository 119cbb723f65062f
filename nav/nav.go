// Package nav holds the sidebar table of contents for the documentation site.
//
// A Tree is built once at startup and never mutated. It has at most two
// levels: top-level sections, each with an ordered list of leaf articles.
// Leaf hrefs are the slugs handed to the resolver.
package nav

import (
	"fmt"

	"github.com/aruvili/agamdocs/resolve"
)

// Item is a node in the navigation tree. Leaves have no Items.
type Item struct {
	Title string `yaml:"title"`
	Href  string `yaml:"href"`
	Items []Item `yaml:"items,omitempty"`
}

// IsLeaf reports whether the item has no children.
func (i Item) IsLeaf() bool {
	return len(i.Items) == 0
}

// Tree is an immutable, ordered sidebar.
type Tree struct {
	sections []Item
}

// New validates sections and returns a Tree holding a private copy of them.
func New(sections []Item) (*Tree, error) {
	for si, s := range sections {
		if err := validateItem(s); err != nil {
			return nil, fmt.Errorf("nav: section %d: %w", si, err)
		}
		for li, leaf := range s.Items {
			if err := validateItem(leaf); err != nil {
				return nil, fmt.Errorf("nav: section %q item %d: %w", s.Title, li, err)
			}
			if !leaf.IsLeaf() {
				return nil, fmt.Errorf("nav: section %q item %q: tree is limited to two levels", s.Title, leaf.Title)
			}
		}
	}
	return &Tree{sections: copyItems(sections)}, nil
}

// MustNew is like New but panics on an invalid tree. Intended for
// package-level defaults.
func MustNew(sections []Item) *Tree {
	t, err := New(sections)
	if err != nil {
		panic(err)
	}
	return t
}

func validateItem(i Item) error {
	if i.Title == "" {
		return fmt.Errorf("empty title")
	}
	if i.Href == "" {
		return fmt.Errorf("item %q has empty href", i.Title)
	}
	return nil
}

func copyItems(items []Item) []Item {
	if items == nil {
		return nil
	}
	out := make([]Item, len(items))
	for i, it := range items {
		out[i] = Item{Title: it.Title, Href: it.Href, Items: copyItems(it.Items)}
	}
	return out
}

// Sidebar returns the ordered top-level sections. The result is a copy;
// callers may modify it freely.
func (t *Tree) Sidebar() []Item {
	return copyItems(t.sections)
}

// Leaves returns every leaf article in display order.
func (t *Tree) Leaves() []Item {
	var out []Item
	for _, s := range t.sections {
		for _, leaf := range s.Items {
			out = append(out, Item{Title: leaf.Title, Href: leaf.Href})
		}
	}
	return out
}

// Locate finds the leaf whose href matches slug after normalization, along
// with its section.
func (t *Tree) Locate(slug string) (section, leaf Item, ok bool) {
	want := resolve.Normalize(slug)
	if want == "" {
		return Item{}, Item{}, false
	}
	for _, s := range t.sections {
		for _, l := range s.Items {
			if resolve.Normalize(l.Href) == want {
				return Item{Title: s.Title, Href: s.Href}, l, true
			}
		}
	}
	return Item{}, Item{}, false
}
