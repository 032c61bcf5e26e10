// Package storage records frame traces in SQLite so timing problems and
// sprite budget overruns can be inspected after a session.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for frame traces.
type Store struct {
	db *sql.DB
}

// Run is one recorded session, from boot until the host quits.
type Run struct {
	ID        int64
	Region    string
	Level     string
	Topology  string
	StartedAt time.Time
}

// FrameRecord is the trace of one iteration of the frame loop.
type FrameRecord struct {
	Frame     uint64
	State     string
	Topology  string
	KeyEvents int
	Sprites   int
	Overflows int
	Work      time.Duration // time spent before waiting for vblank
	Overrun   bool          // work did not fit in one refresh period
}

// RunSummary aggregates the frames of a run.
type RunSummary struct {
	Frames     int
	MaxSprites int
	AvgSprites float64
	Overflows  int
	Overruns   int
	MaxWork    time.Duration
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			region TEXT NOT NULL,
			level TEXT NOT NULL,
			topology TEXT NOT NULL DEFAULT '',
			started_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS frames (
			run_id INTEGER NOT NULL REFERENCES runs(id),
			frame INTEGER NOT NULL,
			state TEXT NOT NULL,
			topology TEXT NOT NULL,
			key_events INTEGER NOT NULL DEFAULT 0,
			sprites INTEGER NOT NULL DEFAULT 0,
			overflows INTEGER NOT NULL DEFAULT 0,
			work_us INTEGER NOT NULL DEFAULT 0,
			overrun INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (run_id, frame)
		);
		CREATE INDEX IF NOT EXISTS idx_frames_overrun ON frames(run_id, overrun);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// StartRun creates a new run and returns its ID.
func (s *Store) StartRun(ctx context.Context, region, level string) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		"INSERT INTO runs (region, level) VALUES (?, ?)",
		region, level,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot start run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// SetRunTopology records the controller topology seen by a run.
func (s *Store) SetRunTopology(ctx context.Context, runID int64, topology string) error {
	_, err := s.db.ExecContext(ctx, "UPDATE runs SET topology = ? WHERE id = ?", topology, runID)
	if err != nil {
		return fmt.Errorf("storage: cannot update run %d: %w", runID, err)
	}
	return nil
}

// SaveFrames inserts a batch of frame records in one transaction.
func (s *Store) SaveFrames(ctx context.Context, runID int64, frames []FrameRecord) error {
	if len(frames) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO frames
			(run_id, frame, state, topology, key_events, sprites, overflows, work_us, overrun)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("storage: cannot prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, f := range frames {
		if _, err := stmt.ExecContext(ctx,
			runID, f.Frame, f.State, f.Topology, f.KeyEvents, f.Sprites, f.Overflows,
			f.Work.Microseconds(), boolToInt(f.Overrun),
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("storage: cannot save frame %d: %w", f.Frame, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit frames: %w", err)
	}
	return nil
}

// Runs lists the most recent runs, newest first.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, region, level, topology, started_at
		 FROM runs
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var startedAt any
		if err := rows.Scan(&r.ID, &r.Region, &r.Level, &r.Topology, &startedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.StartedAt = parseTime(startedAt)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return runs, nil
}

// Frames returns the recorded frames of a run in order. With onlyOverruns
// set, only frames that missed their deadline are returned.
func (s *Store) Frames(ctx context.Context, runID int64, onlyOverruns bool, limit int) ([]FrameRecord, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `SELECT frame, state, topology, key_events, sprites, overflows, work_us, overrun
		 FROM frames
		 WHERE run_id = ?`
	if onlyOverruns {
		query += " AND overrun = 1"
	}
	query += " ORDER BY frame LIMIT ?"

	rows, err := s.db.QueryContext(ctx, query, runID, limit)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query frames: %w", err)
	}
	defer rows.Close()

	var frames []FrameRecord
	for rows.Next() {
		var f FrameRecord
		var workUS int64
		var overrun int
		if err := rows.Scan(&f.Frame, &f.State, &f.Topology, &f.KeyEvents, &f.Sprites,
			&f.Overflows, &workUS, &overrun); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		f.Work = time.Duration(workUS) * time.Microsecond
		f.Overrun = overrun != 0
		frames = append(frames, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return frames, nil
}

// Summary aggregates the frames of a run.
func (s *Store) Summary(ctx context.Context, runID int64) (*RunSummary, error) {
	var sum RunSummary
	var avg sql.NullFloat64
	var maxWork int64

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(MAX(sprites), 0),
		        AVG(sprites),
		        COALESCE(SUM(overflows), 0),
		        COALESCE(SUM(overrun), 0),
		        COALESCE(MAX(work_us), 0)
		 FROM frames WHERE run_id = ?`,
		runID,
	).Scan(&sum.Frames, &sum.MaxSprites, &avg, &sum.Overflows, &sum.Overruns, &maxWork)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot summarize run %d: %w", runID, err)
	}

	if avg.Valid {
		sum.AvgSprites = avg.Float64
	}
	sum.MaxWork = time.Duration(maxWork) * time.Microsecond
	return &sum, nil
}

// parseTime handles both time.Time and string datetime columns.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
