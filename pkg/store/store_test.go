package store

import (
	"context"
	"testing"
	"time"

	"github.com/matzehuels/nestmap/pkg/errors"
	"github.com/matzehuels/nestmap/pkg/tree"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	r := &Record{
		Name:   "my-project",
		Width:  800,
		Height: 600,
		Tree:   &tree.Node{ID: "root", Value: 1},
	}
	if err := s.Put(ctx, r); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if r.ID == "" {
		t.Fatal("Put did not assign an ID")
	}
	if r.CreatedAt.IsZero() {
		t.Fatal("Put did not assign a creation time")
	}

	got, err := s.Get(ctx, r.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Name != "my-project" || got.Tree.ID != "root" {
		t.Errorf("Get = %+v", got)
	}
}

func TestMemoryStoreNotFound(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.Get(context.Background(), "nope")
	if err == nil {
		t.Fatal("Get succeeded for missing record")
	}
	if !errors.Is(err, errors.ErrCodeLayoutNotFound) {
		t.Errorf("error code = %v, want layout not found", errors.GetCode(err))
	}
}

func TestMemoryStoreListNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	old := &Record{Name: "old", CreatedAt: time.Now().Add(-time.Hour)}
	recent := &Record{Name: "recent", CreatedAt: time.Now()}
	for _, r := range []*Record{old, recent} {
		if err := s.Put(ctx, r); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("listed %d records, want 2", len(list))
	}
	if list[0].Name != "recent" || list[1].Name != "old" {
		t.Errorf("order = [%s, %s], want [recent, old]", list[0].Name, list[1].Name)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	r := &Record{Name: "gone"}
	if err := s.Put(ctx, r); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := s.Delete(ctx, r.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.Get(ctx, r.ID); err == nil {
		t.Error("record survived Delete")
	}
	if err := s.Delete(ctx, "absent"); err != nil {
		t.Errorf("deleting absent record failed: %v", err)
	}
}

func TestMemoryStoreCopiesRecords(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	r := &Record{Name: "original"}
	if err := s.Put(ctx, r); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	r.Name = "mutated"

	got, err := s.Get(ctx, r.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Name != "original" {
		t.Errorf("stored record aliased caller's: %s", got.Name)
	}
}
