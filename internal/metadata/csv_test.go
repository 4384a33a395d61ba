package metadata

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleCSV = "Fichier;Titre;2e titre;Auteur;Compositeur;Tonalité;Copyright;Thème\n" +
	"jem005;À toi la gloire;A toi la gloire;Edmond Budry;G. F. Haendel;G;© 1885;Louange\n" +
	"jemk012;Il est vivant;;;;D;;Enfants\n" +
	";ligne sans fichier;;;;;;\n"

func TestParseRecords(t *testing.T) {
	set, err := Parse(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(set) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(set))
	}

	r, ok := set.Lookup("jem005")
	if !ok {
		t.Fatal("jem005 record missing")
	}
	if r.Title != "À toi la gloire" {
		t.Errorf("Title = %q, want %q", r.Title, "À toi la gloire")
	}
	if r.SecondTitle != "A toi la gloire" {
		t.Errorf("SecondTitle = %q", r.SecondTitle)
	}
	if r.Author != "Edmond Budry" {
		t.Errorf("Author = %q, want %q", r.Author, "Edmond Budry")
	}
	if r.Composer != "G. F. Haendel" {
		t.Errorf("Composer = %q", r.Composer)
	}
	if r.Key != "G" {
		t.Errorf("Key = %q, want G", r.Key)
	}
	if r.Number != "jem005" {
		t.Errorf("Number = %q, want file identifier", r.Number)
	}
}

func TestParseSkipsRowsWithoutIdentifier(t *testing.T) {
	set, err := Parse(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	for key := range set {
		if key == "" {
			t.Error("Row without identifier kept")
		}
	}
}

func TestParseStripsBOM(t *testing.T) {
	set, err := Parse(strings.NewReader("\uFEFF" + sampleCSV))
	if err != nil {
		t.Fatalf("Parse failed on BOM input: %v", err)
	}
	if _, ok := set.Lookup("jem005"); !ok {
		t.Error("BOM broke the first header column")
	}
}

func TestParseShortRows(t *testing.T) {
	// Rows may carry fewer fields than the header.
	csv := "Fichier;Titre;Auteur\njem001;Titre seul\n"
	set, err := Parse(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	r, ok := set.Lookup("jem001")
	if !ok {
		t.Fatal("jem001 record missing")
	}
	if r.Author != "" {
		t.Errorf("Author = %q, want empty for short row", r.Author)
	}
}

func TestParseEmptyInput(t *testing.T) {
	set, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Parse failed on empty input: %v", err)
	}
	if len(set) != 0 {
		t.Errorf("Expected empty set, got %d records", len(set))
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meta.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0644); err != nil {
		t.Fatal(err)
	}

	set, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, ok := set.Lookup("JEMK012"); !ok {
		t.Error("case-insensitive lookup failed after Load")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.csv")); err == nil {
		t.Error("Expected error for missing file")
	}
}
