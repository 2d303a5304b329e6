// Package history keeps a log of finished workouts in SQLite.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/itohio/stepcoach/pkg/session"
)

// Entry is one recorded workout.
type Entry struct {
	ID uuid.UUID
	session.Workout
}

// Totals summarises all recorded workouts.
type Totals struct {
	Sessions int
	Steps    int
	Active   time.Duration
}

// Store records finished workouts.
type Store struct {
	db *sql.DB
}

var _ session.Recorder = (*Store)(nil)

// Open opens (or creates) the history database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating history dir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS workouts (
		id          TEXT PRIMARY KEY,
		started_at  INTEGER NOT NULL,
		finished_at INTEGER NOT NULL,
		sets        INTEGER NOT NULL,
		reps        INTEGER NOT NULL,
		rest_ms     INTEGER NOT NULL,
		steps       INTEGER NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating workouts table: %w", err)
	}

	return &Store{db: db}, nil
}

// Record stores a finished workout under a fresh id.
func (s *Store) Record(w session.Workout) error {
	_, err := s.db.Exec(
		`INSERT INTO workouts (id, started_at, finished_at, sets, reps, rest_ms, steps) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), w.Started.UnixMilli(), w.Finished.UnixMilli(),
		w.Sets, w.Reps, w.Rest.Milliseconds(), w.Steps,
	)
	if err != nil {
		return fmt.Errorf("recording workout: %w", err)
	}
	return nil
}

// Completed returns the number of recorded workouts.
func (s *Store) Completed() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM workouts`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting workouts: %w", err)
	}
	return count, nil
}

// Recent returns up to n workouts, newest first.
func (s *Store) Recent(n int) ([]Entry, error) {
	rows, err := s.db.Query(
		`SELECT id, started_at, finished_at, sets, reps, rest_ms, steps
		 FROM workouts ORDER BY started_at DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("querying workouts: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			id                string
			started, finished int64
			restMS            int64
			e                 Entry
		)
		if err := rows.Scan(&id, &started, &finished, &e.Sets, &e.Reps, &restMS, &e.Steps); err != nil {
			return nil, fmt.Errorf("scanning workout: %w", err)
		}
		if e.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("invalid workout id %q: %w", id, err)
		}
		e.Started = time.UnixMilli(started)
		e.Finished = time.UnixMilli(finished)
		e.Rest = time.Duration(restMS) * time.Millisecond
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Totals sums all recorded workouts.
func (s *Store) Totals() (Totals, error) {
	var t Totals
	var activeMS int64
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(steps), 0), COALESCE(SUM(finished_at - started_at), 0) FROM workouts`,
	).Scan(&t.Sessions, &t.Steps, &activeMS)
	if err != nil {
		return Totals{}, fmt.Errorf("summing workouts: %w", err)
	}
	t.Active = time.Duration(activeMS) * time.Millisecond
	return t, nil
}

// Close closes the history database.
func (s *Store) Close() error {
	return s.db.Close()
}
