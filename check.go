package agamdocs

import (
	"fmt"

	"github.com/aruvili/agamdocs/nav"
	"github.com/aruvili/agamdocs/resolve"
)

// ProblemKind classifies a consistency problem.
type ProblemKind string

const (
	// ProblemUnroutedLeaf is a sidebar link whose slug has no route and so
	// silently shows the default page.
	ProblemUnroutedLeaf ProblemKind = "unrouted-leaf"
	// ProblemMissingResource is a routed resource id with no document.
	ProblemMissingResource ProblemKind = "missing-resource"
	// ProblemUnlinkedRoute is a route no sidebar link points at.
	ProblemUnlinkedRoute ProblemKind = "unlinked-route"
	// ProblemInvalidResourceID is an available document whose name breaks
	// the NN_topic.md convention.
	ProblemInvalidResourceID ProblemKind = "invalid-resource-id"
)

// Problem is one finding of CheckConsistency.
type Problem struct {
	Kind    ProblemKind
	Subject string
	Detail  string
}

func (p Problem) String() string {
	return fmt.Sprintf("%s: %s: %s", p.Kind, p.Subject, p.Detail)
}

// CheckConsistency reports disagreements between the sidebar, the route
// table, and the set of available resource ids. A nil available slice skips
// the missing-resource check. The default-slug alias is never reported as
// unlinked.
func CheckConsistency(tree *nav.Tree, r *resolve.Resolver, available []string) []Problem {
	var problems []Problem

	linked := make(map[string]bool)
	for _, leaf := range tree.Leaves() {
		slug := resolve.Normalize(leaf.Href)
		linked[slug] = true
		if slug == "" {
			continue
		}
		if _, ok := r.Lookup(slug); !ok {
			problems = append(problems, Problem{
				Kind:    ProblemUnroutedLeaf,
				Subject: leaf.Href,
				Detail:  fmt.Sprintf("%q has no route and shows %s", leaf.Title, r.Fallback()),
			})
		}
	}

	for _, slug := range r.Slugs() {
		if linked[slug] {
			continue
		}
		id, _ := r.Lookup(slug)
		if id == r.Fallback() {
			continue
		}
		problems = append(problems, Problem{
			Kind:    ProblemUnlinkedRoute,
			Subject: slug,
			Detail:  fmt.Sprintf("routes to %s but no sidebar link uses it", id),
		})
	}

	if available != nil {
		have := make(map[string]bool, len(available))
		for _, id := range available {
			if !resolve.ValidResourceID(id) {
				problems = append(problems, Problem{
					Kind:    ProblemInvalidResourceID,
					Subject: id,
					Detail:  "name must look like 04_variables.md",
				})
				continue
			}
			have[id] = true
		}
		for _, id := range r.ResourceIDs() {
			if !have[id] {
				problems = append(problems, Problem{
					Kind:    ProblemMissingResource,
					Subject: id,
					Detail:  "no document with this id",
				})
			}
		}
	}
	return problems
}
