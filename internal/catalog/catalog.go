// Package catalog keeps a local SQLite record of processed songs so
// past runs can be listed without re-reading the output directories.
// The pure Go driver is the default; build with -tags cgo_sqlite for
// the CGO driver.
package catalog

import (
	"context"
	"database/sql"
	"time"

	cperrors "github.com/bricedupuy/chordshow/core/errors"
)

// Entry is one processed-song record.
type Entry struct {
	RunID       string
	Source      string
	Number      string
	Title       string
	EnhancedOut string
	ShowOut     string
	ContentKey  string
	ProcessedAt time.Time
}

// Catalog wraps the SQLite database.
type Catalog struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS songs (
	source       TEXT    NOT NULL,
	run_id       TEXT    NOT NULL,
	number       TEXT    NOT NULL DEFAULT '',
	title        TEXT    NOT NULL DEFAULT '',
	enhanced_out TEXT    NOT NULL DEFAULT '',
	show_out     TEXT    NOT NULL DEFAULT '',
	content_key  TEXT    NOT NULL DEFAULT '',
	processed_at INTEGER NOT NULL,
	PRIMARY KEY (source)
);
CREATE INDEX IF NOT EXISTS idx_songs_run ON songs (run_id);
`

// Open opens (creating if needed) the catalog at path.
func Open(path string) (*Catalog, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, cperrors.Wrapf(err, "open catalog %s", path)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, cperrors.Wrap(err, "initialize catalog schema")
	}
	return &Catalog{db: db}, nil
}

// Close releases the database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Record upserts one processed song. Reprocessing a source replaces its
// previous entry.
func (c *Catalog) Record(ctx context.Context, e Entry) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO songs (source, run_id, number, title, enhanced_out, show_out, content_key, processed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (source) DO UPDATE SET
			run_id = excluded.run_id,
			number = excluded.number,
			title = excluded.title,
			enhanced_out = excluded.enhanced_out,
			show_out = excluded.show_out,
			content_key = excluded.content_key,
			processed_at = excluded.processed_at`,
		e.Source, e.RunID, e.Number, e.Title, e.EnhancedOut, e.ShowOut, e.ContentKey,
		e.ProcessedAt.Unix(),
	)
	return cperrors.Wrapf(err, "record %s", e.Source)
}

// List returns all entries ordered by source identifier.
func (c *Catalog) List(ctx context.Context) ([]Entry, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT source, run_id, number, title, enhanced_out, show_out, content_key, processed_at
		FROM songs ORDER BY source`)
	if err != nil {
		return nil, cperrors.Wrap(err, "list catalog")
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var ts int64
		if err := rows.Scan(&e.Source, &e.RunID, &e.Number, &e.Title,
			&e.EnhancedOut, &e.ShowOut, &e.ContentKey, &ts); err != nil {
			return nil, cperrors.Wrap(err, "scan catalog row")
		}
		e.ProcessedAt = time.Unix(ts, 0).UTC()
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Get returns the entry for one source identifier.
func (c *Catalog) Get(ctx context.Context, source string) (Entry, error) {
	var e Entry
	var ts int64
	err := c.db.QueryRowContext(ctx, `
		SELECT source, run_id, number, title, enhanced_out, show_out, content_key, processed_at
		FROM songs WHERE source = ?`, source).
		Scan(&e.Source, &e.RunID, &e.Number, &e.Title,
			&e.EnhancedOut, &e.ShowOut, &e.ContentKey, &ts)
	if err == sql.ErrNoRows {
		return Entry{}, cperrors.Wrapf(cperrors.ErrNotFound, "catalog entry %s", source)
	}
	if err != nil {
		return Entry{}, cperrors.Wrapf(err, "get catalog entry %s", source)
	}
	e.ProcessedAt = time.Unix(ts, 0).UTC()
	return e, nil
}
