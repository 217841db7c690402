package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// exerciseSlots runs the behaviour every backend must share.
func exerciseSlots(t *testing.T, s Slots) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.Get(ctx, "p:missing"); !errors.Is(err, ErrSlotNotFound) {
		t.Fatalf("expected ErrSlotNotFound, got %v", err)
	}

	if err := s.Put(ctx, "p:b", []byte(`[1]`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put(ctx, "p:a/x y", []byte(`[]`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put(ctx, "q:c", []byte(`[]`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put(ctx, "p:b", []byte(`[2]`)); err != nil {
		t.Fatalf("Put (replace): %v", err)
	}

	got, err := s.Get(ctx, "p:b")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != `[2]` {
		t.Fatalf("expected replaced value, got %s", got)
	}

	keys, err := s.Keys(ctx, "p:")
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	if want := []string{"p:a/x y", "p:b"}; !reflect.DeepEqual(keys, want) {
		t.Fatalf("Keys = %v, want %v", keys, want)
	}

	if err := s.Delete(ctx, "p:b"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, "p:b"); err != nil {
		t.Fatalf("Delete (missing): %v", err)
	}
	if _, err := s.Get(ctx, "p:b"); !errors.Is(err, ErrSlotNotFound) {
		t.Fatalf("expected deleted slot to be gone, got %v", err)
	}
}

func TestMemorySlots(t *testing.T) {
	t.Parallel()

	s := NewMemorySlots()
	exerciseSlots(t, s)

	// Returned buffers must not alias stored ones.
	ctx := context.Background()
	_ = s.Put(ctx, "k", []byte("abc"))
	b, _ := s.Get(ctx, "k")
	b[0] = 'z'
	b2, _ := s.Get(ctx, "k")
	if string(b2) != "abc" {
		t.Fatalf("stored value mutated through Get result: %s", b2)
	}
}

func TestFileSlots(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "slots")
	exerciseSlots(t, FileSlots{Dir: dir})

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) != ".json" {
			t.Fatalf("unexpected leftover file %q", e.Name())
		}
	}
}

func TestFileSlots_MissingDirHasNoKeys(t *testing.T) {
	t.Parallel()

	s := FileSlots{Dir: filepath.Join(t.TempDir(), "nope")}
	keys, err := s.Keys(context.Background(), "")
	if err != nil || len(keys) != 0 {
		t.Fatalf("expected no keys, got %v err=%v", keys, err)
	}
}

func TestSQLiteSlots(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()
	s, err := OpenSQLiteSlots(ctx, SQLitePath(dir))
	if err != nil {
		t.Fatalf("OpenSQLiteSlots: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	exerciseSlots(t, s)

	if s.Path() != filepath.Join(dir, "itineraries.sqlite") {
		t.Fatalf("unexpected path %q", s.Path())
	}
}

func TestSQLiteSlots_SurvivesReopen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := SQLitePath(t.TempDir())

	s1, err := OpenSQLiteSlots(ctx, path)
	if err != nil {
		t.Fatalf("OpenSQLiteSlots: %v", err)
	}
	it := New(s1)
	want := it.Ensure(ctx, "trip", samplePlan())
	_ = s1.Close()

	s2, err := OpenSQLiteSlots(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	got, ok := New(s2).Load(ctx, "trip")
	if !ok || !reflect.DeepEqual(want, got) {
		t.Fatalf("expected plan to survive reopen:\nwant: %#v\ngot:  %#v", want, got)
	}
}

func TestSQLiteSlots_PrefixIsLiteral(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, err := OpenSQLiteSlots(ctx, SQLitePath(t.TempDir()))
	if err != nil {
		t.Fatalf("OpenSQLiteSlots: %v", err)
	}
	defer s.Close()

	_ = s.Put(ctx, "a%b", []byte("1"))
	_ = s.Put(ctx, "axb", []byte("1"))
	keys, err := s.Keys(ctx, "a%")
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	if want := []string{"a%b"}; !reflect.DeepEqual(keys, want) {
		t.Fatalf("Keys = %v, want %v", keys, want)
	}
}

func TestSQLiteSlots_NonASCIIPrefix(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, err := OpenSQLiteSlots(ctx, SQLitePath(t.TempDir()))
	if err != nil {
		t.Fatalf("OpenSQLiteSlots: %v", err)
	}
	defer s.Close()

	it := New(s, WithKeyPrefix("رحلة:"))
	it.Ensure(ctx, "cairo", nil)
	it.Ensure(ctx, "luxor", nil)
	_ = s.Put(ctx, "رحلx:other", []byte("[]"))

	trips, err := it.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if want := []string{"cairo", "luxor"}; !reflect.DeepEqual(trips, want) {
		t.Fatalf("List = %v, want %v", trips, want)
	}
}
