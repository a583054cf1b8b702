package repository

import (
	"database/sql"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/NamanBalaji/filemat/internal/errors"
	"github.com/NamanBalaji/filemat/internal/resource"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS blobs (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	size       INTEGER NOT NULL,
	sha256     TEXT NOT NULL,
	data       BLOB NOT NULL,
	created_at INTEGER NOT NULL
)`

// SQLiteRepository implements Repository on a SQLite database file
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository opens (creating if needed) the database at dbPath
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// Save reads r fully and persists it as a new blob
func (r *SQLiteRepository) Save(name string, content io.Reader) (resource.Info, error) {
	data, info, err := readAll(name, content)
	if err != nil {
		return resource.Info{}, err
	}

	_, err = r.db.Exec(
		`INSERT INTO blobs (id, name, size, sha256, data, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		info.ID.String(), info.Name, info.Size, info.SHA256, data, info.CreatedAt.Unix(),
	)
	if err != nil {
		return resource.Info{}, fmt.Errorf("failed to save blob: %w", err)
	}

	return info, nil
}

// Find retrieves a blob resource by ID
func (r *SQLiteRepository) Find(id uuid.UUID) (*BlobResource, error) {
	if id == uuid.Nil {
		return nil, errors.New("blob ID cannot be empty")
	}

	row := r.db.QueryRow(`SELECT id, name, size, sha256, created_at FROM blobs WHERE id = ?`, id.String())
	info, err := scanInfo(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBlobNotFound
		}
		return nil, err
	}

	return &BlobResource{info: info, store: r}, nil
}

// FindAll retrieves metadata for every blob
func (r *SQLiteRepository) FindAll() ([]resource.Info, error) {
	rows, err := r.db.Query(`SELECT id, name, size, sha256, created_at FROM blobs ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list blobs: %w", err)
	}
	defer rows.Close()

	var list []resource.Info
	for rows.Next() {
		info, err := scanInfo(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, info)
	}

	return list, rows.Err()
}

// Delete removes a blob
func (r *SQLiteRepository) Delete(id uuid.UUID) error {
	if id == uuid.Nil {
		return errors.New("blob ID cannot be empty")
	}

	res, err := r.db.Exec(`DELETE FROM blobs WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete blob: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrBlobNotFound
	}

	return nil
}

// Close closes the database
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) readBlob(id uuid.UUID) ([]byte, error) {
	var data []byte
	err := r.db.QueryRow(`SELECT data FROM blobs WHERE id = ?`, id.String()).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBlobNotFound
		}
		return nil, fmt.Errorf("failed to read blob: %w", err)
	}

	return data, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanInfo(s scanner) (resource.Info, error) {
	var (
		info    resource.Info
		rawID   string
		created int64
	)

	if err := s.Scan(&rawID, &info.Name, &info.Size, &info.SHA256, &created); err != nil {
		return resource.Info{}, err
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		return resource.Info{}, fmt.Errorf("invalid blob id %q: %w", rawID, err)
	}

	info.ID = id
	info.CreatedAt = time.Unix(created, 0).UTC()

	return info, nil
}
