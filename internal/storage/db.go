package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"presyo/internal"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS bulletins (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  sourceUrl TEXT NOT NULL,
  filename TEXT NOT NULL,
  dateProcessed TEXT,
  status TEXT NOT NULL DEFAULT 'parsed',
  recordCount INTEGER NOT NULL DEFAULT 0,
  rejectedCount INTEGER NOT NULL DEFAULT 0,
  marketsJson TEXT NOT NULL DEFAULT '[]',
  fetchedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(sourceUrl, filename)
);
CREATE INDEX IF NOT EXISTS idx_bulletins_date ON bulletins(dateProcessed);

CREATE TABLE IF NOT EXISTS price_records (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  bulletinId INTEGER NOT NULL,
  position INTEGER NOT NULL,
  category TEXT NOT NULL,
  commodity TEXT NOT NULL,
  origin TEXT,
  unit TEXT NOT NULL,
  price REAL NOT NULL,
  UNIQUE(bulletinId, position),
  FOREIGN KEY(bulletinId) REFERENCES bulletins(id)
);
CREATE INDEX IF NOT EXISTS idx_price_records_bulletin ON price_records(bulletinId);
`

	_, err := d.conn.Exec(schema)
	return err
}

// SaveResult stores one parsed bulletin and its records. Re-parsing
// the same bulletin replaces its previous rows.
func (d *DB) SaveResult(sourceURL, filename string, result internal.ParseResult) (int, error) {
	tx, err := d.conn.Begin()
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	marketsJSON, _ := json.Marshal(result.Metadata.CoveredMarkets)
	status := "parsed"
	if result.NoData() {
		status = "no_data"
	}

	if _, err := tx.Exec(`
INSERT INTO bulletins (sourceUrl, filename, dateProcessed, status, recordCount, rejectedCount, marketsJson)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(sourceUrl, filename) DO UPDATE SET
  dateProcessed=excluded.dateProcessed,
  status=excluded.status,
  recordCount=excluded.recordCount,
  rejectedCount=excluded.rejectedCount,
  marketsJson=excluded.marketsJson,
  fetchedAt=CURRENT_TIMESTAMP
`, sourceURL, filename, result.Metadata.DateProcessed, status, len(result.Records), result.Stats.Rejected, string(marketsJSON)); err != nil {
		return 0, err
	}

	var bulletinID int
	if err := tx.QueryRow(`SELECT id FROM bulletins WHERE sourceUrl = ? AND filename = ?`, sourceURL, filename).Scan(&bulletinID); err != nil {
		return 0, err
	}

	if _, err := tx.Exec(`DELETE FROM price_records WHERE bulletinId = ?`, bulletinID); err != nil {
		return 0, err
	}

	stmt, err := tx.Prepare(`
INSERT INTO price_records (bulletinId, position, category, commodity, origin, unit, price)
VALUES (?, ?, ?, ?, ?, ?, ?)
`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for i, record := range result.Records {
		if _, err := stmt.Exec(bulletinID, i+1, record.Category, record.Commodity, record.Origin, record.Unit, record.Price); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return bulletinID, nil
}

func (d *DB) GetBulletinByID(id int) (*internal.BulletinRow, error) {
	var row internal.BulletinRow
	err := d.conn.QueryRow(`
SELECT id, sourceUrl, filename, dateProcessed, status, recordCount, rejectedCount, marketsJson, fetchedAt
FROM bulletins WHERE id = ?
`, id).Scan(
		&row.ID, &row.SourceURL, &row.Filename, &row.DateProcessed, &row.Status,
		&row.RecordCount, &row.RejectedCount, &row.MarketsJSON, &row.FetchedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (d *DB) ListBulletins(limit int) ([]internal.BulletinRow, error) {
	rows, err := d.conn.Query(`
SELECT id, sourceUrl, filename, dateProcessed, status, recordCount, rejectedCount, marketsJson, fetchedAt
FROM bulletins ORDER BY dateProcessed DESC, id DESC LIMIT ?
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.BulletinRow
	for rows.Next() {
		var row internal.BulletinRow
		if err := rows.Scan(
			&row.ID, &row.SourceURL, &row.Filename, &row.DateProcessed, &row.Status,
			&row.RecordCount, &row.RejectedCount, &row.MarketsJSON, &row.FetchedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (d *DB) GetExportRows(bulletinID int) ([]internal.RecordExportRow, error) {
	rows, err := d.conn.Query(`
SELECT position, category, commodity, origin, unit, price
FROM price_records WHERE bulletinId = ? ORDER BY position ASC
`, bulletinID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.RecordExportRow
	for rows.Next() {
		var row internal.RecordExportRow
		if err := rows.Scan(&row.Position, &row.Category, &row.Commodity, &row.Origin, &row.Unit, &row.Price); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (d *DB) MustBulletinByID(id int) (internal.BulletinRow, error) {
	row, err := d.GetBulletinByID(id)
	if err != nil {
		return internal.BulletinRow{}, err
	}
	if row == nil {
		return internal.BulletinRow{}, fmt.Errorf("bulletin not found: id=%d", id)
	}
	return *row, nil
}
