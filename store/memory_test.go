package store

import (
	"context"
	"testing"
	"time"

	"github.com/rushteam/playful/core"
)

func TestMemoryStore_GetSet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close()

	if _, err := s.Get(ctx, "missing"); !core.IsStoreNotFound(err) {
		t.Errorf("Get(missing) error = %v, want not found", err)
	}

	if err := s.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := s.Get(ctx, "k")
	if err != nil || string(got) != "v" {
		t.Errorf("Get(k) = %q, %v", got, err)
	}

	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Get(ctx, "k"); !core.IsStoreNotFound(err) {
		t.Errorf("Get after Delete error = %v", err)
	}
}

func TestMemoryStore_TTL(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close()

	s.data["expired"] = &entry{value: []byte("x"), expire: time.Now().Add(-time.Second)}
	if _, err := s.Get(ctx, "expired"); !core.IsStoreNotFound(err) {
		t.Errorf("Get(expired) error = %v, want not found", err)
	}

	if err := s.Set(ctx, "live", []byte("y"), 60); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, err := s.Get(ctx, "live"); err != nil {
		t.Errorf("Get(live) error = %v", err)
	}
}

func TestMemoryStore_Batch(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close()

	if err := s.BatchSet(ctx, map[string][]byte{"a": []byte("1"), "b": []byte("2")}); err != nil {
		t.Fatalf("BatchSet() error = %v", err)
	}
	for k, want := range map[string]string{"a": "1", "b": "2"} {
		if got, err := s.Get(ctx, k); err != nil || string(got) != want {
			t.Errorf("Get(%q) = %q, %v, want %q", k, got, err, want)
		}
	}
}

func TestMemoryStore_Sets(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close()

	if err := s.SAdd(ctx, "deny", "b", "a", "b"); err != nil {
		t.Fatalf("SAdd() error = %v", err)
	}
	members, err := s.SMembers(ctx, "deny")
	if err != nil || len(members) != 2 || members[0] != "a" || members[1] != "b" {
		t.Errorf("SMembers() = %v, %v", members, err)
	}
	if empty, _ := s.SMembers(ctx, "none"); len(empty) != 0 {
		t.Errorf("SMembers(none) = %v", empty)
	}
}

func TestMemoryStore_CloseTwice(t *testing.T) {
	s := NewMemoryStore()
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
}
