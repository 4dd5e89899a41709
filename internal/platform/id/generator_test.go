package id

import (
	"bytes"
	"errors"
	"testing"
	"time"
)

func TestRandomGenerator_SortsByCreationTime(t *testing.T) {
	base := time.Date(2026, 3, 1, 14, 0, 0, 0, time.UTC)
	g := NewRandomGenerator()

	g.now = func() time.Time { return base }
	first, err := g.NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	g.now = func() time.Time { return base.Add(time.Millisecond) }
	second, err := g.NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}

	if len(first) != 32 || len(second) != 32 {
		t.Fatalf("expected 32 char ids, got %q %q", first, second)
	}
	if !(first < second) {
		t.Fatalf("expected %q < %q", first, second)
	}
}

func TestRandomGenerator_Unique(t *testing.T) {
	g := NewRandomGenerator()
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		value, err := g.NewID()
		if err != nil {
			t.Fatalf("new id: %v", err)
		}
		if _, dup := seen[value]; dup {
			t.Fatalf("duplicate id %q", value)
		}
		seen[value] = struct{}{}
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("no entropy") }

func TestRandomGenerator_EntropyFailure(t *testing.T) {
	g := NewRandomGenerator()
	g.entropy = failingReader{}
	if _, err := g.NewID(); err == nil {
		t.Fatalf("expected entropy error")
	}

	g.entropy = bytes.NewReader([]byte{1, 2, 3})
	if _, err := g.NewID(); err == nil {
		t.Fatalf("expected short read error")
	}
}

func TestShort(t *testing.T) {
	if got := Short("0190a1b2c3d4e5f6a7b8c9d0e1f2a3b4"); got != "f2a3b4" {
		t.Fatalf("unexpected short id: %q", got)
	}
	if got := Short("abc"); got != "abc" {
		t.Fatalf("unexpected short id: %q", got)
	}
}
