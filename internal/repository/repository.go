// Package repository defines the storage contract for saved topologies.
// Stores work purely in terms of the Snapshot exchange shape; they never see
// a live Topology.
package repository

import (
	"context"
	"time"

	"netsim/internal/domain"
)

// Entry summarizes one saved topology.
type Entry struct {
	Name      string
	Devices   int
	Links     int
	UpdatedAt time.Time
}

// Store persists topology snapshots by name.
type Store interface {
	// Save inserts or replaces the snapshot under its topology name.
	Save(ctx context.Context, snap *domain.Snapshot) error

	// Load returns the named snapshot, or ErrNotFound.
	Load(ctx context.Context, name string) (*domain.Snapshot, error)

	// List returns summaries of all saved topologies, sorted by name.
	List(ctx context.Context) ([]Entry, error)

	// Delete removes the named snapshot, or fails with ErrNotFound.
	Delete(ctx context.Context, name string) error

	Close() error
}
