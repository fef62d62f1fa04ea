package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"netsim/internal/domain"
)

func testRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := New(filepath.Join(t.TempDir(), "netsim.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func sampleSnapshot(name string) *domain.Snapshot {
	return &domain.Snapshot{
		Name: name,
		Devices: []domain.DeviceSnapshot{
			{Name: "PC1", Type: "host", Interfaces: []domain.InterfaceSnapshot{{Name: "eth0", IP: "10.0.0.1/24"}}},
			{Name: "SW1", Type: "switch", Interfaces: []domain.InterfaceSnapshot{{Name: "p1"}}},
		},
		Links: []domain.LinkSnapshot{
			{A: domain.Endpoint{Device: "PC1", Interface: "eth0"}, B: domain.Endpoint{Device: "SW1", Interface: "p1"}},
		},
	}
}

func TestSaveLoad(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		snap := sampleSnapshot("lab")
		if err := repo.Save(ctx, snap); err != nil {
			t.Fatalf("save: %v", err)
		}
		loaded, err := repo.Load(ctx, "lab")
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if !reflect.DeepEqual(loaded, snap) {
			t.Errorf("round trip mismatch:\nwant %+v\ngot  %+v", snap, loaded)
		}
	})

	t.Run("save replaces an existing topology", func(t *testing.T) {
		snap := sampleSnapshot("lab")
		snap.Devices = snap.Devices[:1]
		snap.Links = nil
		if err := repo.Save(ctx, snap); err != nil {
			t.Fatalf("save: %v", err)
		}
		loaded, err := repo.Load(ctx, "lab")
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if len(loaded.Devices) != 1 || len(loaded.Links) != 0 {
			t.Errorf("expected replacement to stick, got %+v", loaded)
		}
	})

	t.Run("missing topology fails with ErrNotFound", func(t *testing.T) {
		if _, err := repo.Load(ctx, "absent"); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("unnamed snapshot is rejected", func(t *testing.T) {
		if err := repo.Save(ctx, &domain.Snapshot{}); !errors.Is(err, domain.ErrInvalidFormat) {
			t.Errorf("expected ErrInvalidFormat, got %v", err)
		}
	})
}

func TestListDelete(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	for _, name := range []string{"beta", "alpha"} {
		if err := repo.Save(ctx, sampleSnapshot(name)); err != nil {
			t.Fatalf("save %s: %v", name, err)
		}
	}

	t.Run("list is sorted with counts", func(t *testing.T) {
		entries, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(entries) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(entries))
		}
		if entries[0].Name != "alpha" || entries[1].Name != "beta" {
			t.Errorf("expected sorted names, got %v", entries)
		}
		if entries[0].Devices != 2 || entries[0].Links != 1 {
			t.Errorf("expected counts 2/1, got %d/%d", entries[0].Devices, entries[0].Links)
		}
	})

	t.Run("delete removes one topology", func(t *testing.T) {
		if err := repo.Delete(ctx, "alpha"); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if _, err := repo.Load(ctx, "alpha"); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected alpha to be gone, got %v", err)
		}
		if _, err := repo.Load(ctx, "beta"); err != nil {
			t.Errorf("expected beta to survive, got %v", err)
		}
	})

	t.Run("deleting a missing topology fails with ErrNotFound", func(t *testing.T) {
		if err := repo.Delete(ctx, "absent"); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}
