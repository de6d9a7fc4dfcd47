// Package trace records bind events in a sqlite database.
package trace

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/funvibe/dynconv/internal/binder"
)

const schema = `
CREATE TABLE IF NOT EXISTS bind_events (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	site       TEXT    NOT NULL,
	source     TEXT    NOT NULL,
	target     TEXT    NOT NULL,
	kind       TEXT    NOT NULL,
	checked    INTEGER NOT NULL,
	hit        INTEGER NOT NULL,
	state      TEXT    NOT NULL,
	event      TEXT    NOT NULL,
	error      TEXT    NOT NULL DEFAULT '',
	at         INTEGER NOT NULL,
	elapsed_ns INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS bind_events_site ON bind_events(site);
`

// Store is a binder.Tracer backed by sqlite.
type Store struct {
	db     *sql.DB
	insert *sql.Stmt
}

// Open opens (or creates) the trace database at path. ":memory:" keeps it in memory.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening trace %s: %w", path, err)
	}
	// A single connection keeps ":memory:" databases alive and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating trace schema: %w", err)
	}
	insert, err := db.Prepare(`INSERT INTO bind_events
		(site, source, target, kind, checked, hit, state, event, error, at, elapsed_ns)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("preparing trace insert: %w", err)
	}
	return &Store{db: db, insert: insert}, nil
}

// Record stores one bind.
func (s *Store) Record(t *binder.Trace) error {
	_, err := s.insert.Exec(
		t.Site.String(), t.Source, t.Target, t.Kind.String(),
		t.Checked, t.Hit, t.State.String(), string(t.Event), t.Error,
		t.Time.UnixNano(), int64(t.Elapsed),
	)
	if err != nil {
		return fmt.Errorf("recording trace: %w", err)
	}
	return nil
}

// Events returns the traces of a site in recording order.
func (s *Store) Events(site uuid.UUID) ([]*binder.Trace, error) {
	rows, err := s.db.Query(`SELECT site, source, target, kind, checked, hit, state, event, error, at, elapsed_ns
		FROM bind_events WHERE site = ? ORDER BY id`, site.String())
	if err != nil {
		return nil, fmt.Errorf("querying traces: %w", err)
	}
	defer rows.Close()

	var result []*binder.Trace
	for rows.Next() {
		var (
			siteID, kind, state, event string
			at, elapsed                int64
			t                          binder.Trace
		)
		if err := rows.Scan(&siteID, &t.Source, &t.Target, &kind, &t.Checked, &t.Hit, &state, &event, &t.Error, &at, &elapsed); err != nil {
			return nil, fmt.Errorf("scanning trace: %w", err)
		}
		if t.Site, err = uuid.Parse(siteID); err != nil {
			return nil, fmt.Errorf("trace site %q: %w", siteID, err)
		}
		t.Kind, _ = binder.ParseKind(kind)
		t.State, _ = binder.ParseState(state)
		t.Event = binder.Event(event)
		t.Time = time.Unix(0, at)
		t.Elapsed = time.Duration(elapsed)
		result = append(result, &t)
	}
	return result, rows.Err()
}

// Count is the number of binds per event.
type Count struct {
	Event binder.Event
	Binds int
}

// Summary counts the recorded binds per event, most frequent first.
func (s *Store) Summary() ([]Count, error) {
	rows, err := s.db.Query(`SELECT event, COUNT(*) FROM bind_events GROUP BY event ORDER BY COUNT(*) DESC, event`)
	if err != nil {
		return nil, fmt.Errorf("summarizing traces: %w", err)
	}
	defer rows.Close()

	var result []Count
	for rows.Next() {
		var c Count
		var event string
		if err := rows.Scan(&event, &c.Binds); err != nil {
			return nil, fmt.Errorf("scanning summary: %w", err)
		}
		c.Event = binder.Event(event)
		result = append(result, c)
	}
	return result, rows.Err()
}

func (s *Store) Close() error {
	s.insert.Close()
	return s.db.Close()
}
