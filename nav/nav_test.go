package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aruvili/agamdocs/resolve"
)

func TestDefaultSidebarOrder(t *testing.T) {
	sections := Default().Sidebar()
	require.Len(t, sections, 7)

	titles := make([]string, len(sections))
	for i, s := range sections {
		titles[i] = s.Title
	}
	assert.Equal(t, []string{
		"Getting Started", "Basics", "Control Flow", "Functions",
		"Data Structures", "Reference", "Advanced Features",
	}, titles)

	first := sections[0].Items
	require.Len(t, first, 3)
	assert.Equal(t, "Introduction", first[0].Title)
	assert.Equal(t, "/docs/introduction", first[0].Href)
}

func TestDefaultTreeDepth(t *testing.T) {
	for _, s := range Default().Sidebar() {
		assert.False(t, s.IsLeaf(), "section %q has no articles", s.Title)
		for _, leaf := range s.Items {
			assert.True(t, leaf.IsLeaf(), "%q nests deeper than two levels", leaf.Title)
		}
	}
}

func TestLeavesNoDuplicateHrefs(t *testing.T) {
	leaves := Default().Leaves()
	assert.Len(t, leaves, 20)
	seen := make(map[string]bool)
	for _, leaf := range leaves {
		assert.False(t, seen[leaf.Href], "duplicate href %q", leaf.Href)
		seen[leaf.Href] = true
	}
}

// Every sidebar link must have real content behind it.
func TestEveryLeafResolves(t *testing.T) {
	r := resolve.Default()
	for _, leaf := range Default().Leaves() {
		id, ok := r.Lookup(leaf.Href)
		if assert.True(t, ok, "leaf %q (%s) has no route", leaf.Title, leaf.Href) {
			assert.True(t, resolve.ValidResourceID(id), "leaf %q resolves to %q", leaf.Title, id)
			assert.Equal(t, id, r.Resolve(leaf.Href))
		}
	}
}

// Only the introduction leaf may land on the fallback resource.
func TestOnlyIntroductionUsesFallback(t *testing.T) {
	r := resolve.Default()
	for _, leaf := range Default().Leaves() {
		if r.Resolve(leaf.Href) == r.Fallback() {
			assert.Equal(t, "/docs/introduction", leaf.Href)
		}
	}
}

func TestSidebarIsCopy(t *testing.T) {
	tree := Default()
	s := tree.Sidebar()
	s[0].Title = "changed"
	s[0].Items[0].Href = "/docs/changed"

	again := tree.Sidebar()
	assert.Equal(t, "Getting Started", again[0].Title)
	assert.Equal(t, "/docs/introduction", again[0].Items[0].Href)
}

func TestNewCopiesInput(t *testing.T) {
	in := []Item{{Title: "A", Href: "/docs/a", Items: []Item{{Title: "B", Href: "/docs/b"}}}}
	tree, err := New(in)
	require.NoError(t, err)
	in[0].Items[0].Title = "mutated"
	assert.Equal(t, "B", tree.Leaves()[0].Title)
}

func TestNewRejectsInvalidTrees(t *testing.T) {
	tests := []struct {
		name     string
		sections []Item
	}{
		{"empty title", []Item{{Href: "/docs/a"}}},
		{"empty href", []Item{{Title: "A"}}},
		{"empty leaf href", []Item{{Title: "A", Href: "/docs/a", Items: []Item{{Title: "B"}}}}},
		{"three levels", []Item{{Title: "A", Href: "/docs/a", Items: []Item{
			{Title: "B", Href: "/docs/b", Items: []Item{{Title: "C", Href: "/docs/c"}}},
		}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.sections)
			assert.Error(t, err)
		})
	}
}

func TestLocate(t *testing.T) {
	tree := Default()

	section, leaf, ok := tree.Locate("pattern-matching")
	require.True(t, ok)
	assert.Equal(t, "Advanced Features", section.Title)
	assert.Equal(t, "Pattern Matching", leaf.Title)
	assert.Empty(t, section.Items)

	_, leaf, ok = tree.Locate("/docs/loops/")
	require.True(t, ok)
	assert.Equal(t, "Loops", leaf.Title)

	_, _, ok = tree.Locate("basics")
	assert.False(t, ok, "section hrefs are not leaves")
	_, _, ok = tree.Locate("")
	assert.False(t, ok)
}
