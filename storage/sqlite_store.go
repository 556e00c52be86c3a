package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	db *sql.DB
}

var ErrSnapshotNotFound = errors.New("snapshot not found")

// takenAtLayout has a fixed width so stored timestamps sort lexically.
const takenAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Snapshot is a point-in-time copy of every tab of a spreadsheet.
type Snapshot struct {
	ID            int64
	SpreadsheetID string
	Title         string
	TakenAt       time.Time
	Tabs          []Tab
}

type Tab struct {
	Title string
	Rows  [][]string
}

// SnapshotSummary describes a stored snapshot without its rows.
type SnapshotSummary struct {
	ID            int64
	SpreadsheetID string
	Title         string
	TakenAt       time.Time
	TabCount      int
	RowCount      int
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ensureSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	spreadsheet_id TEXT NOT NULL,
	title TEXT NOT NULL,
	taken_at TEXT NOT NULL,
	created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS snapshot_tabs (
	snapshot_id INTEGER NOT NULL REFERENCES snapshots(id),
	position INTEGER NOT NULL,
	title TEXT NOT NULL,
	row_count INTEGER NOT NULL,
	rows_json TEXT NOT NULL,
	PRIMARY KEY (snapshot_id, position),
	UNIQUE (snapshot_id, title)
);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// SaveSnapshot stores all tabs of the snapshot in one transaction and
// returns the new snapshot ID.
func (s *SQLiteStore) SaveSnapshot(snapshot Snapshot) (int64, error) {
	if snapshot.TakenAt.IsZero() {
		return 0, fmt.Errorf("snapshot time is required")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}

	res, err := tx.Exec(
		`INSERT INTO snapshots (spreadsheet_id, title, taken_at) VALUES (?, ?, ?);`,
		snapshot.SpreadsheetID,
		snapshot.Title,
		snapshot.TakenAt.UTC().Format(takenAtLayout),
	)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("insert snapshot: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("read inserted snapshot id: %w", err)
	}

	stmt, err := tx.Prepare(`
INSERT INTO snapshot_tabs (snapshot_id, position, title, row_count, rows_json)
VALUES (?, ?, ?, ?, ?);`)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("prepare tab statement: %w", err)
	}
	defer stmt.Close()

	for position, tab := range snapshot.Tabs {
		rows := tab.Rows
		if rows == nil {
			rows = [][]string{}
		}
		encoded, err := json.Marshal(rows)
		if err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("encode tab %q: %w", tab.Title, err)
		}
		if _, err := stmt.Exec(id, position, tab.Title, len(rows), string(encoded)); err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("insert tab %q: %w", tab.Title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}
	return id, nil
}

// GetSnapshot loads one snapshot with all its tabs.
func (s *SQLiteStore) GetSnapshot(id int64) (Snapshot, error) {
	if id <= 0 {
		return Snapshot{}, fmt.Errorf("snapshot id must be > 0")
	}

	var (
		snapshot Snapshot
		takenRaw string
	)
	err := s.db.QueryRow(
		`SELECT id, spreadsheet_id, title, taken_at FROM snapshots WHERE id = ?;`,
		id,
	).Scan(&snapshot.ID, &snapshot.SpreadsheetID, &snapshot.Title, &takenRaw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Snapshot{}, fmt.Errorf("%w: %d", ErrSnapshotNotFound, id)
		}
		return Snapshot{}, fmt.Errorf("query snapshot %d: %w", id, err)
	}

	snapshot.TakenAt, err = time.Parse(takenAtLayout, takenRaw)
	if err != nil {
		return Snapshot{}, fmt.Errorf("parse snapshot time %q: %w", takenRaw, err)
	}

	rows, err := s.db.Query(
		`SELECT title, rows_json FROM snapshot_tabs WHERE snapshot_id = ? ORDER BY position;`,
		id,
	)
	if err != nil {
		return Snapshot{}, fmt.Errorf("query snapshot tabs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			tab     Tab
			rawRows string
		)
		if err := rows.Scan(&tab.Title, &rawRows); err != nil {
			return Snapshot{}, fmt.Errorf("scan snapshot tab: %w", err)
		}
		if err := json.Unmarshal([]byte(rawRows), &tab.Rows); err != nil {
			return Snapshot{}, fmt.Errorf("decode tab %q: %w", tab.Title, err)
		}
		snapshot.Tabs = append(snapshot.Tabs, tab)
	}
	if err := rows.Err(); err != nil {
		return Snapshot{}, fmt.Errorf("iterate snapshot tabs: %w", err)
	}

	return snapshot, nil
}

// LatestSnapshot loads the most recently taken snapshot.
func (s *SQLiteStore) LatestSnapshot() (Snapshot, error) {
	var id int64
	err := s.db.QueryRow(`SELECT id FROM snapshots ORDER BY taken_at DESC, id DESC LIMIT 1;`).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Snapshot{}, ErrSnapshotNotFound
		}
		return Snapshot{}, fmt.Errorf("query latest snapshot: %w", err)
	}
	return s.GetSnapshot(id)
}

// ListSnapshots returns all snapshots, newest first.
func (s *SQLiteStore) ListSnapshots() ([]SnapshotSummary, error) {
	const query = `
SELECT
	s.id,
	s.spreadsheet_id,
	s.title,
	s.taken_at,
	COUNT(t.position),
	COALESCE(SUM(t.row_count), 0)
FROM snapshots s
LEFT JOIN snapshot_tabs t ON t.snapshot_id = s.id
GROUP BY s.id
ORDER BY s.taken_at DESC, s.id DESC;
`
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	summaries := make([]SnapshotSummary, 0, 16)
	for rows.Next() {
		var (
			summary  SnapshotSummary
			takenRaw string
		)
		if err := rows.Scan(
			&summary.ID,
			&summary.SpreadsheetID,
			&summary.Title,
			&takenRaw,
			&summary.TabCount,
			&summary.RowCount,
		); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		summary.TakenAt, err = time.Parse(takenAtLayout, takenRaw)
		if err != nil {
			return nil, fmt.Errorf("parse snapshot time %q: %w", takenRaw, err)
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}

	return summaries, nil
}

// PruneSnapshots keeps the newest keep snapshots and deletes the rest.
func (s *SQLiteStore) PruneSnapshots(keep int) (int64, error) {
	if keep < 0 {
		return 0, fmt.Errorf("keep must be >= 0")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}

	const selectStale = `
SELECT id FROM snapshots
WHERE id NOT IN (
	SELECT id FROM snapshots ORDER BY taken_at DESC, id DESC LIMIT ?
);`
	rows, err := tx.Query(selectStale, keep)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("query stale snapshots: %w", err)
	}
	var stale []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			_ = rows.Close()
			_ = tx.Rollback()
			return 0, fmt.Errorf("scan stale snapshot: %w", err)
		}
		stale = append(stale, id)
	}
	_ = rows.Close()
	if err := rows.Err(); err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("iterate stale snapshots: %w", err)
	}

	var deleted int64
	for _, id := range stale {
		if _, err := tx.Exec(`DELETE FROM snapshot_tabs WHERE snapshot_id = ?;`, id); err != nil {
			_ = tx.Rollback()
			return deleted, fmt.Errorf("delete tabs of snapshot %d: %w", id, err)
		}
		res, err := tx.Exec(`DELETE FROM snapshots WHERE id = ?;`, id)
		if err != nil {
			_ = tx.Rollback()
			return deleted, fmt.Errorf("delete snapshot %d: %w", id, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			deleted += n
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}
	return deleted, nil
}
