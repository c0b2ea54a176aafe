package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"

	_ "modernc.org/sqlite"

	"PortfolioTracker/internal/model"
)

// SQLiteRecorder persists one snapshots row per refresh cycle plus one
// valuations row per evaluated holding. Decimals are stored as TEXT to keep
// them exact.
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

	// WAL mode for better concurrent read performance (dashboards read while
	// the tracker writes).
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
		`CREATE TABLE IF NOT EXISTS snapshots (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp       INTEGER NOT NULL,
			holdings_priced INTEGER,
			holdings_missed INTEGER,
			avg_return_pct  TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_ts ON snapshots(timestamp)`,

		`CREATE TABLE IF NOT EXISTS segment_summaries (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			snapshot_id   INTEGER NOT NULL REFERENCES snapshots(id),
			market        TEXT,
			holdings      INTEGER,
			cost_basis    TEXT,
			market_value  TEXT,
			profit_loss   TEXT,
			return_pct    TEXT
		)`,

		`CREATE TABLE IF NOT EXISTS valuations (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			snapshot_id   INTEGER NOT NULL REFERENCES snapshots(id),
			ticker        TEXT,
			market        TEXT,
			shares        TEXT,
			avg_price     TEXT,
			close         TEXT,
			cost_basis    TEXT,
			market_value  TEXT,
			profit_loss   TEXT,
			return_pct    TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_valuations_snapshot ON valuations(snapshot_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordSnapshot writes the snapshot and its per-holding rows in one
// transaction.
func (r *SQLiteRecorder) RecordSnapshot(snap *model.PortfolioSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`INSERT INTO snapshots
		(timestamp, holdings_priced, holdings_missed, avg_return_pct)
		VALUES (?,?,?,?)`,
		snap.FetchedAt.Unix(), len(snap.Holdings), len(snap.Unpriced),
		snap.AverageReturnPct.String(),
	)
	if err != nil {
		return err
	}
	snapshotID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for _, seg := range snap.Segments {
		if _, err := tx.Exec(`INSERT INTO segment_summaries
			(snapshot_id, market, holdings, cost_basis, market_value, profit_loss, return_pct)
			VALUES (?,?,?,?,?,?,?)`,
			snapshotID, string(seg.Market), seg.Count,
			seg.CostBasis.String(), seg.MarketValue.String(),
			seg.ProfitLoss.String(), seg.ReturnPct.String(),
		); err != nil {
			return err
		}
	}

	for _, h := range snap.Holdings {
		if _, err := tx.Exec(`INSERT INTO valuations
			(snapshot_id, ticker, market, shares, avg_price, close,
			 cost_basis, market_value, profit_loss, return_pct)
			VALUES (?,?,?,?,?,?,?,?,?,?)`,
			snapshotID, h.Ticker, string(h.Market),
			h.Shares.String(), h.AvgPrice.String(), h.CurrentPrice.String(),
			h.CostBasis.String(), h.MarketValue.String(),
			h.ProfitLoss.String(), h.ReturnPct.String(),
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
