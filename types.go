package agamdocs

import "time"

// Doc is a markdown resource stored in SQLite and served at /docs/{ResourceID}.
type Doc struct {
	ResourceID string
	Title      string
	Content    string
	UpdatedAt  time.Time
}
