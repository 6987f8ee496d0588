package journal

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// SQLiteStore stores generator lifecycle events in SQLite.
//
// It expects an *sql.DB that uses a SQLite driver (for example,
// "modernc.org/sqlite"). The caller is responsible for importing
// the driver, e.g.:
//
//	import _ "modernc.org/sqlite"
type SQLiteStore struct {
	db *sql.DB
}

// Ensure SQLiteStore implements Store.
var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore initializes the required schema in the given database and
// returns a new SQLiteStore.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS flow_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			generator_id TEXT NOT NULL,
			at INTEGER NOT NULL,
			type TEXT NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			kind TEXT NOT NULL DEFAULT '',
			detail TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_flow_events_generator_id ON flow_events(generator_id, id);
	`)
	return err
}

func (s *SQLiteStore) Append(ctx context.Context, ev Event) error {
	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO flow_events (generator_id, at, type, name, kind, detail)
		VALUES (?, ?, ?, ?, ?, ?)`,
		ev.GeneratorID.String(),
		at.UnixNano(),
		string(ev.Type),
		ev.Name,
		ev.Kind,
		ev.Detail,
	)
	return err
}

func (s *SQLiteStore) Events(ctx context.Context, generatorID uuid.UUID) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT generator_id, at, type, name, kind, detail
		FROM flow_events
		WHERE generator_id = ?
		ORDER BY id ASC`, generatorID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var (
			id     string
			atN    int64
			typ    string
			name   string
			kind   string
			detail string
		)
		if err := rows.Scan(&id, &atN, &typ, &name, &kind, &detail); err != nil {
			return nil, err
		}
		gid, err := uuid.Parse(id)
		if err != nil {
			return nil, err
		}
		out = append(out, Event{
			GeneratorID: gid,
			At:          time.Unix(0, atN),
			Type:        EventType(typ),
			Name:        name,
			Kind:        kind,
			Detail:      detail,
		})
	}
	return out, rows.Err()
}
