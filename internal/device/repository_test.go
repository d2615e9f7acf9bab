package device

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/smarteefi/smarteefi-bridge/internal/infrastructure/database"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	db, err := database.Open(database.Config{
		Path:        filepath.Join(t.TempDir(), "snapshot.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	repo := NewRepository(db)
	if err := repo.Init(context.Background()); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	return repo
}

func TestRepositoryRoundTrip(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	devices := []Device{
		{ID: "A:x:1", CloudID: 10, Class: ClassSwitch, Name: "Hall"},
		{ID: "A:x:2", CloudID: 10, Class: ClassFan, Name: "Ceiling Fan"},
	}
	if err := repo.ReplaceAll(ctx, devices); err != nil {
		t.Fatalf("ReplaceAll() error = %v", err)
	}

	got, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("List() returned %d devices, want 2", len(got))
	}
	if got[0] != devices[0] || got[1] != devices[1] {
		t.Errorf("List() = %+v, want %+v", got, devices)
	}
}

func TestRepositoryReplaceAllOverwrites(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	if err := repo.ReplaceAll(ctx, []Device{{ID: "A:x:1", Class: ClassSwitch}}); err != nil {
		t.Fatalf("first ReplaceAll() error = %v", err)
	}
	if err := repo.ReplaceAll(ctx, []Device{{ID: "B:0:1", Class: ClassLight}}); err != nil {
		t.Fatalf("second ReplaceAll() error = %v", err)
	}

	got, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != "B:0:1" {
		t.Errorf("List() = %+v, want only B:0:1", got)
	}
}

func TestRepositoryEmptyList(t *testing.T) {
	repo := newTestRepository(t)

	got, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("List() on empty store = %+v, want empty", got)
	}
}
