// Package resolve maps documentation slugs to the markdown resources that
// hold their content.
package resolve

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// DefaultFallback is the introduction page, served for absent or unknown slugs.
const DefaultFallback = "01_introduction.md"

// docsPrefix is stripped from slugs so sidebar hrefs resolve as-is.
const docsPrefix = "/docs/"

var reResourceID = regexp.MustCompile(`^\d{2}_[a-z0-9_]+\.md$`)

// ValidResourceID reports whether id follows the "<two-digit-order>_<topic>.md"
// naming convention.
func ValidResourceID(id string) bool {
	return reResourceID.MatchString(id)
}

// Normalize reduces a slug or sidebar href to its bare route key:
// "/docs/variables/" and "Variables" both become "variables".
func Normalize(slug string) string {
	s := strings.TrimSpace(slug)
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimPrefix(s, docsPrefix)
	s = strings.Trim(s, "/")
	return strings.ToLower(s)
}

// Resolver is an immutable slug -> resource id table with a fallback.
// Several slugs may share one resource id.
type Resolver struct {
	routes   map[string]string
	fallback string
}

// New builds a Resolver from routes. Keys are normalized; every resource id,
// fallback included, must follow the naming convention.
func New(routes map[string]string, fallback string) (*Resolver, error) {
	if !ValidResourceID(fallback) {
		return nil, fmt.Errorf("resolve: invalid fallback resource id %q", fallback)
	}
	m := make(map[string]string, len(routes))
	for slug, id := range routes {
		key := Normalize(slug)
		if key == "" {
			return nil, fmt.Errorf("resolve: empty slug for resource %q", id)
		}
		if !ValidResourceID(id) {
			return nil, fmt.Errorf("resolve: slug %q: invalid resource id %q", slug, id)
		}
		if prev, ok := m[key]; ok && prev != id {
			return nil, fmt.Errorf("resolve: slug %q maps to both %q and %q", key, prev, id)
		}
		m[key] = id
	}
	return &Resolver{routes: m, fallback: fallback}, nil
}

// MustNew is like New but panics on error.
func MustNew(routes map[string]string, fallback string) *Resolver {
	r, err := New(routes, fallback)
	if err != nil {
		panic(err)
	}
	return r
}

// Resolve returns the resource id for slug. An empty or unknown slug
// resolves to the fallback; Resolve never fails.
func (r *Resolver) Resolve(slug string) string {
	if id, ok := r.Lookup(slug); ok {
		return id
	}
	return r.fallback
}

// Lookup is Resolve without the fallback: ok is false when slug has no
// explicit entry.
func (r *Resolver) Lookup(slug string) (string, bool) {
	id, ok := r.routes[Normalize(slug)]
	return id, ok
}

// Fallback returns the canonical default resource id.
func (r *Resolver) Fallback() string {
	return r.fallback
}

// Routes returns a copy of the mapping.
func (r *Resolver) Routes() map[string]string {
	out := make(map[string]string, len(r.routes))
	for k, v := range r.routes {
		out[k] = v
	}
	return out
}

// Slugs returns every known slug, sorted.
func (r *Resolver) Slugs() []string {
	out := make([]string, 0, len(r.routes))
	for k := range r.routes {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ResourceIDs returns the distinct resource ids referenced by the mapping
// and the fallback, sorted.
func (r *Resolver) ResourceIDs() []string {
	set := map[string]struct{}{r.fallback: {}}
	for _, id := range r.routes {
		set[id] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
