package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/crillab/joltsat/machine"
)

func TestBadgerStore(t *testing.T) {
	s, err := OpenInMemory()
	if err != nil {
		t.Fatalf("could not open store: %v", err)
	}
	defer s.Close()
	ctx := context.Background()
	if _, err := s.Get(ctx, 42); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	want := Entry{Presses: 10, Feasible: true, Models: 3}
	if err := s.Put(ctx, 42, want); err != nil {
		t.Fatalf("could not put entry: %v", err)
	}
	got, err := s.Get(ctx, 42)
	if err != nil {
		t.Fatalf("could not get entry: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("invalid entry (-want +got):\n%s", diff)
	}
}

func TestOpenDir(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("could not open store: %v", err)
	}
	if err := s.Put(ctx, 7, Entry{Presses: 2, Feasible: true}); err != nil {
		t.Fatalf("could not put entry: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("could not close store: %v", err)
	}
	s, err = Open(dir)
	if err != nil {
		t.Fatalf("could not reopen store: %v", err)
	}
	defer s.Close()
	if e, err := s.Get(ctx, 7); err != nil || e.Presses != 2 {
		t.Errorf("expected 2 presses, got %v, %v", e, err)
	}
}

func TestNopStore(t *testing.T) {
	var s Store = NopStore{}
	ctx := context.Background()
	if err := s.Put(ctx, 1, Entry{Presses: 1}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := s.Get(ctx, 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestKey(t *testing.T) {
	m1 := machine.Machine{Line: 1, Buttons: [][]int{{1, 0}, {1, 1}}, Joltage: []int{3, 4}}
	m2 := machine.Machine{Line: 8, Lights: machine.Lights{true, false}, Buttons: [][]int{{1, 0}, {1, 1}}, Joltage: []int{3, 4}}
	m3 := machine.Machine{Line: 1, Buttons: [][]int{{1, 1}, {1, 0}}, Joltage: []int{3, 4}}
	if Key(m1) != Key(m2) {
		t.Errorf("expected same key for %v and %v", m1, m2)
	}
	if Key(m1) == Key(m3) {
		t.Errorf("expected different keys for %v and %v", m1, m3)
	}
}
