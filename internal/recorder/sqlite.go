package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists run history to a SQLite database.
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

	// WAL lets dashboards read while a batch writes.
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
		`CREATE TABLE IF NOT EXISTS ticker_runs (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp       INTEGER NOT NULL,
			symbol          TEXT NOT NULL,
			source          TEXT,
			status          TEXT NOT NULL,
			error           TEXT,
			duration_ms     INTEGER,
			observations    INTEGER,
			from_date       TEXT,
			to_date         TEXT,
			mean_daily      REAL,
			stddev_daily    REAL,
			excess_kurtosis REAL,
			drawdown_3m     REAL,
			drawdown_12m    REAL,
			correlation     REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON ticker_runs(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_symbol ON ticker_runs(symbol, timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRun(evt *RunEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ts := evt.RunAt
	if ts.IsZero() {
		ts = time.Now()
	}

	_, err := r.db.Exec(`INSERT INTO ticker_runs
		(timestamp, symbol, source, status, error, duration_ms,
		 observations, from_date, to_date,
		 mean_daily, stddev_daily, excess_kurtosis,
		 drawdown_3m, drawdown_12m, correlation)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		ts.Unix(), evt.Symbol, evt.Source, evt.Status, evt.Error, evt.DurationMs,
		evt.Observations, evt.FromDate, evt.ToDate,
		evt.MeanDaily, evt.StdDevDaily, evt.ExcessKurtosis,
		evt.Drawdown3M, evt.Drawdown12M, evt.Correlation,
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", evt.Symbol, err)
	}
	return nil
}

func (r *SQLiteRecorder) RecentRuns(symbol string, limit int) ([]RunEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT
		timestamp, symbol, source, status, error, duration_ms,
		observations, from_date, to_date,
		mean_daily, stddev_daily, excess_kurtosis,
		drawdown_3m, drawdown_12m, correlation
		FROM ticker_runs WHERE symbol = ?
		ORDER BY timestamp DESC, id DESC LIMIT ?`, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs %s: %w", symbol, err)
	}
	defer rows.Close()

	var out []RunEvent
	for rows.Next() {
		var (
			evt RunEvent
			ts  int64
		)
		if err := rows.Scan(&ts, &evt.Symbol, &evt.Source, &evt.Status, &evt.Error, &evt.DurationMs,
			&evt.Observations, &evt.FromDate, &evt.ToDate,
			&evt.MeanDaily, &evt.StdDevDaily, &evt.ExcessKurtosis,
			&evt.Drawdown3M, &evt.Drawdown12M, &evt.Correlation); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		evt.RunAt = time.Unix(ts, 0)
		out = append(out, evt)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
