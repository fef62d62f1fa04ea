// Package sqlite implements repository.Store on a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"netsim/internal/domain"
	"netsim/internal/repository"
)

// Repository implements repository.Store using SQLite.
type Repository struct {
	db *sql.DB
}

// New opens (creating if needed) the database at dbPath.
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	repo := &Repository{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return repo, nil
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS topologies (
		name TEXT PRIMARY KEY,
		device_count INTEGER NOT NULL,
		link_count INTEGER NOT NULL,
		snapshot JSON NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := r.db.Exec(schema)
	return err
}

// Save inserts or replaces the snapshot under its topology name.
func (r *Repository) Save(ctx context.Context, snap *domain.Snapshot) error {
	if snap == nil || snap.Name == "" {
		return fmt.Errorf("%w: snapshot needs a topology name", domain.ErrInvalidFormat)
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO topologies (name, device_count, link_count, snapshot, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET
			device_count = excluded.device_count,
			link_count = excluded.link_count,
			snapshot = excluded.snapshot,
			updated_at = CURRENT_TIMESTAMP
	`, snap.Name, len(snap.Devices), len(snap.Links), data)
	if err != nil {
		return fmt.Errorf("save topology %q: %w", snap.Name, err)
	}
	return nil
}

// Load returns the named snapshot.
func (r *Repository) Load(ctx context.Context, name string) (*domain.Snapshot, error) {
	var data []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT snapshot FROM topologies WHERE name = ?`, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: topology %q", domain.ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("load topology %q: %w", name, err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: topology %q: %v", domain.ErrInvalidFormat, name, err)
	}
	return &snap, nil
}

// List returns summaries of all saved topologies.
func (r *Repository) List(ctx context.Context) ([]repository.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT name, device_count, link_count, updated_at
		FROM topologies ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("list topologies: %w", err)
	}
	defer rows.Close()

	var entries []repository.Entry
	for rows.Next() {
		var e repository.Entry
		if err := rows.Scan(&e.Name, &e.Devices, &e.Links, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan topology row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Delete removes the named snapshot.
func (r *Repository) Delete(ctx context.Context, name string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM topologies WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete topology %q: %w", name, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: topology %q", domain.ErrNotFound, name)
	}
	return nil
}

// Close closes the underlying database.
func (r *Repository) Close() error {
	return r.db.Close()
}
