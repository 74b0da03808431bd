package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists the run journal to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS scrape_runs (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			source      TEXT,
			row_count   INTEGER,
			skipped     INTEGER,
			duration_ms INTEGER,
			error       TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scrape_ts ON scrape_runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS fetch_events (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			provider    TEXT,
			pair        TEXT,
			range_name  TEXT,
			bars        INTEGER,
			duration_ms INTEGER,
			error       TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_fetch_ts ON fetch_events(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordScrape(run *ScrapeRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO scrape_runs
		(timestamp, source, row_count, skipped, duration_ms, error)
		VALUES (?,?,?,?,?,?)`,
		time.Now().Unix(), run.Source, run.Rows, run.Skipped,
		run.Duration.Milliseconds(), errText(run.Err),
	)
	return err
}

func (r *SQLiteRecorder) RecordFetch(evt *FetchEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO fetch_events
		(timestamp, provider, pair, range_name, bars, duration_ms, error)
		VALUES (?,?,?,?,?,?,?)`,
		time.Now().Unix(), evt.Provider, evt.Pair, evt.Range, evt.Bars,
		evt.Duration.Milliseconds(), errText(evt.Err),
	)
	return err
}

// CountScrapes returns the number of journalled scrape runs, and how many failed.
func (r *SQLiteRecorder) CountScrapes() (total, failed int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	err = r.db.QueryRow(`SELECT COUNT(*), COUNT(NULLIF(error, '')) FROM scrape_runs`).Scan(&total, &failed)
	return total, failed, err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
