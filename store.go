package agamdocs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	_ "modernc.org/sqlite"

	"github.com/aruvili/agamdocs/markdown"
	"github.com/aruvili/agamdocs/resolve"
)

// ErrNotFound is returned when a resource id has no stored document.
var ErrNotFound = sql.ErrNoRows

// Store wraps a SQLite database holding the markdown documents.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets the importer write while page handlers read.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS docs (
    resource_id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    content TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
`)
	return err
}

// GetDoc returns the document stored under id.
func (s *Store) GetDoc(id string) (Doc, error) {
	return s.GetDocContext(context.Background(), id)
}

// GetDocContext is GetDoc bounded by ctx.
func (s *Store) GetDocContext(ctx context.Context, id string) (Doc, error) {
	var d Doc
	var updated string
	err := s.db.QueryRowContext(ctx, `SELECT resource_id, title, content, updated_at FROM docs WHERE resource_id = ?`, id).
		Scan(&d.ResourceID, &d.Title, &d.Content, &updated)
	if err != nil {
		return Doc{}, err
	}
	d.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
	return d, nil
}

// ListDocs returns every document ordered by resource id. Content is omitted.
func (s *Store) ListDocs() ([]Doc, error) {
	rows, err := s.db.Query(`SELECT resource_id, title, updated_at FROM docs ORDER BY resource_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []Doc
	for rows.Next() {
		var d Doc
		var updated string
		if err := rows.Scan(&d.ResourceID, &d.Title, &updated); err != nil {
			return nil, err
		}
		d.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// ResourceIDs returns the ids of all stored documents in order.
func (s *Store) ResourceIDs() ([]string, error) {
	docs, err := s.ListDocs()
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.ResourceID
	}
	return ids, nil
}

// SaveDoc upserts a document. A zero UpdatedAt is stamped with the current time.
func (s *Store) SaveDoc(d Doc) error {
	return saveDoc(s.db, d)
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func saveDoc(db execer, d Doc) error {
	if !resolve.ValidResourceID(d.ResourceID) {
		return fmt.Errorf("invalid resource id %q", d.ResourceID)
	}
	if d.UpdatedAt.IsZero() {
		d.UpdatedAt = time.Now()
	}
	if d.Title == "" {
		d.Title = docTitle(d.ResourceID, d.Content)
	}
	_, err := db.Exec(`INSERT OR REPLACE INTO docs (resource_id, title, content, updated_at) VALUES (?, ?, ?, ?)`,
		d.ResourceID, d.Title, d.Content, d.UpdatedAt.UTC().Format(time.RFC3339))
	return err
}

// DeleteDoc removes a document by id.
func (s *Store) DeleteDoc(id string) error {
	_, err := s.db.Exec(`DELETE FROM docs WHERE resource_id = ?`, id)
	return err
}

// ImportDir replaces the stored documents with the NN_topic.md files in dir.
// Files whose names are not resource ids are skipped. Documents whose file
// has disappeared are removed. It returns the number of documents imported.
func (s *Store) ImportDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}
	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM docs`); err != nil {
		return 0, err
	}
	n := 0
	for _, e := range entries {
		if e.IsDir() || !resolve.ValidResourceID(e.Name()) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return 0, err
		}
		info, err := e.Info()
		if err != nil {
			return 0, err
		}
		if err := saveDoc(tx, Doc{
			ResourceID: e.Name(),
			Content:    string(data),
			UpdatedAt:  info.ModTime(),
		}); err != nil {
			return 0, fmt.Errorf("import %s: %w", path, err)
		}
		n++
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return n, nil
}

// docTitle prefers the document's first H1 and falls back to the topic part
// of the resource id ("20_file_io.md" becomes "File Io").
func docTitle(id, content string) string {
	if t := markdown.Title(content); t != "" {
		return t
	}
	return TitleFromResourceID(id)
}

// TitleFromResourceID derives a display title from a resource id.
func TitleFromResourceID(id string) string {
	topic := strings.TrimSuffix(id, ".md")
	if len(topic) > 3 && topic[2] == '_' {
		topic = topic[3:]
	}
	// A Caser holds state, so each call gets its own.
	return cases.Title(language.English).String(strings.ReplaceAll(topic, "_", " "))
}

// StoreFetcher serves loader retrievals straight from a Store.
type StoreFetcher struct {
	Store *Store
}

// Fetch implements loader.Fetcher.
func (f StoreFetcher) Fetch(ctx context.Context, resourceID string) (string, error) {
	d, err := f.Store.GetDocContext(ctx, resourceID)
	if errors.Is(err, ErrNotFound) {
		return "", fmt.Errorf("fetch %s: %w", resourceID, ErrNotFound)
	}
	if err != nil {
		return "", err
	}
	return d.Content, nil
}
