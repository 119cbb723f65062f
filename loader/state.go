package loader

import "fmt"

// Status is the lifecycle position of a load request.
type Status int

const (
	Pending Status = iota
	Ready
	Failed
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// State is what a consumer renders for the slug it last requested.
//
// Text is the raw markdown when Ready and the fallback placeholder when
// Failed. It is empty while Pending.
type State struct {
	Slug       string
	ResourceID string
	Status     Status
	Text       string
}

// Terminal reports whether the request behind this state has finished.
func (s State) Terminal() bool {
	return s.Status == Ready || s.Status == Failed
}

func (s State) String() string {
	slug := s.Slug
	if slug == "" {
		slug = "(default)"
	}
	return fmt.Sprintf("%s -> %s [%s]", slug, s.ResourceID, s.Status)
}
