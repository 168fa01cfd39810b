// Package cache keeps a sqlite ledger of remote files that have been
// downloaded into the local data directory, so they can be listed, reused,
// and cleaned up when the files disappear.
package cache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"neurotic/pkg/models"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) init() error {
	query := `
	CREATE TABLE IF NOT EXISTS downloads (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT NOT NULL,
		file_path TEXT NOT NULL,
		bytes INTEGER,
		source TEXT,
		dataset TEXT,
		fetched_at DATETIME
	);`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create downloads table: %w", err)
	}
	return nil
}

// Save records a completed download. A previous record for the same local
// path is replaced so re-downloads do not accumulate rows.
func (s *Store) Save(d *models.Download) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM downloads WHERE file_path = ?", d.FilePath); err != nil {
		return fmt.Errorf("failed to clear previous record: %w", err)
	}

	if d.FetchedAt.IsZero() {
		d.FetchedAt = time.Now()
	}

	res, err := tx.Exec(`
		INSERT INTO downloads (url, file_path, bytes, source, dataset, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		d.URL, d.FilePath, d.Bytes, d.Source, d.Dataset, d.FetchedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert download: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	d.ID = id

	return tx.Commit()
}

// List returns up to limit recent downloads, optionally filtered by a
// whitelisted field matched with LIKE.
func (s *Store) List(limit int, filterField, filterValue string) ([]models.Download, error) {
	baseQuery := `
	SELECT id, url, file_path, bytes, source, dataset, fetched_at
	FROM downloads`

	var args []interface{}

	// Whitelist filter fields to prevent injection
	fieldMap := map[string]string{
		"url":     "url",
		"file":    "file_path",
		"source":  "source",
		"dataset": "dataset",
	}

	if dbField, ok := fieldMap[filterField]; ok && filterValue != "" {
		baseQuery += fmt.Sprintf(" WHERE %s LIKE ?", dbField)
		args = append(args, "%"+filterValue+"%")
	}

	baseQuery += " ORDER BY id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.Query(baseQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query downloads: %w", err)
	}
	defer rows.Close()

	var results []models.Download
	for rows.Next() {
		var d models.Download
		if err := rows.Scan(&d.ID, &d.URL, &d.FilePath, &d.Bytes, &d.Source, &d.Dataset, &d.FetchedAt); err != nil {
			return nil, fmt.Errorf("failed to scan download: %w", err)
		}
		results = append(results, d)
	}
	return results, rows.Err()
}

// ListAllPaths maps every record ID to its local file path, for cleanup.
func (s *Store) ListAllPaths() (map[int64]string, error) {
	rows, err := s.db.Query("SELECT id, file_path FROM downloads")
	if err != nil {
		return nil, fmt.Errorf("failed to query paths: %w", err)
	}
	defer rows.Close()

	paths := make(map[int64]string)
	for rows.Next() {
		var id int64
		var path string
		if err := rows.Scan(&id, &path); err != nil {
			return nil, err
		}
		paths[id] = path
	}
	return paths, rows.Err()
}

func (s *Store) Delete(id int64) error {
	_, err := s.db.Exec("DELETE FROM downloads WHERE id = ?", id)
	return err
}

// GetPath looks up the local path recorded for a download ID.
func (s *Store) GetPath(id int64) (string, error) {
	var path string
	err := s.db.QueryRow("SELECT file_path FROM downloads WHERE id = ?", id).Scan(&path)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("download with ID %d not found", id)
	}
	return path, err
}
