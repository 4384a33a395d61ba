package catalog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	cperrors "github.com/bricedupuy/chordshow/core/errors"
)

func openTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func testEntry(source string) Entry {
	return Entry{
		RunID:       "run-1",
		Source:      source,
		Number:      source,
		Title:       "À toi la gloire",
		EnhancedOut: "out/" + source + "-enhanced.chordpro",
		ShowOut:     "out/" + source + ".show",
		ContentKey:  "abc123",
		ProcessedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestRecordAndGet(t *testing.T) {
	c := openTestCatalog(t)
	ctx := context.Background()

	if err := c.Record(ctx, testEntry("jem005")); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	e, err := c.Get(ctx, "jem005")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if e.Title != "À toi la gloire" {
		t.Errorf("Title = %q", e.Title)
	}
	if e.RunID != "run-1" {
		t.Errorf("RunID = %q, want run-1", e.RunID)
	}
	if !e.ProcessedAt.Equal(time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("ProcessedAt = %v", e.ProcessedAt)
	}
}

func TestGetMissing(t *testing.T) {
	c := openTestCatalog(t)
	_, err := c.Get(context.Background(), "inconnu")
	if !cperrors.Is(err, cperrors.ErrNotFound) {
		t.Errorf("Error = %v, want ErrNotFound", err)
	}
}

func TestRecordUpserts(t *testing.T) {
	c := openTestCatalog(t)
	ctx := context.Background()

	if err := c.Record(ctx, testEntry("jem005")); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	updated := testEntry("jem005")
	updated.RunID = "run-2"
	updated.Title = "Titre corrigé"
	if err := c.Record(ctx, updated); err != nil {
		t.Fatalf("Second record failed: %v", err)
	}

	entries, err := c.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry after upsert, got %d", len(entries))
	}
	if entries[0].RunID != "run-2" || entries[0].Title != "Titre corrigé" {
		t.Errorf("Entry not replaced: %+v", entries[0])
	}
}

func TestListOrdersBySource(t *testing.T) {
	c := openTestCatalog(t)
	ctx := context.Background()

	for _, source := range []string{"jem010", "jem002", "jemk001"} {
		if err := c.Record(ctx, testEntry(source)); err != nil {
			t.Fatalf("Record(%s) failed: %v", source, err)
		}
	}

	entries, err := c.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	want := []string{"jem002", "jem010", "jemk001"}
	if len(entries) != len(want) {
		t.Fatalf("Expected %d entries, got %d", len(want), len(entries))
	}
	for i := range want {
		if entries[i].Source != want[i] {
			t.Errorf("entries[%d].Source = %q, want %q", i, entries[i].Source, want[i])
		}
	}
}

func TestListEmptyCatalog(t *testing.T) {
	c := openTestCatalog(t)
	entries, err := c.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected no entries, got %d", len(entries))
	}
}
