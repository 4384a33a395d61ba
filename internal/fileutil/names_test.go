package fileutil

import (
	"sort"
	"testing"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"jem005.chordpro", "jem005.chordpro"},
		{"../../etc/passwd", "passwd"},
		{"nom avec espaces!.chordpro", "nom_avec_espaces_.chordpro"},
		{"", "unnamed_file"},
		{".", "unnamed_file"},
	}
	for _, tt := range tests {
		if got := Sanitize(tt.in); got != tt.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"jem5.chordpro", "jem005.chordpro"},
		{"jem12_0.chordpro", "jem012.chordpro"},
		{"jem123.chordpro", "jem123.chordpro"},
		{"jemk7.chordpro", "jemk007.chordpro"},
		{"JEM5.chordpro", "jem005.chordpro"},
		{"autre.chordpro", "autre.chordpro"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLessOrdering(t *testing.T) {
	names := []string{
		"jemk001.chordpro",
		"autre.chordpro",
		"jem010.chordpro",
		"jem002.chordpro",
		"jemk010.chordpro",
	}
	sort.Slice(names, func(i, j int) bool { return Less(names[i], names[j]) })

	want := []string{
		"jem002.chordpro",
		"jem010.chordpro",
		"jemk001.chordpro",
		"jemk010.chordpro",
		"autre.chordpro",
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestSortKey(t *testing.T) {
	group, number := SortKey("jem042.chordpro")
	if group != 0 || number != 42 {
		t.Errorf("SortKey(jem042) = %d,%d, want 0,42", group, number)
	}
	group, number = SortKey("jemk003.chordpro")
	if group != 1 || number != 3 {
		t.Errorf("SortKey(jemk003) = %d,%d, want 1,3", group, number)
	}
	group, _ = SortKey("divers.chordpro")
	if group != 2 {
		t.Errorf("SortKey(divers) group = %d, want 2", group)
	}
}

func TestStem(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"jem005.chordpro", "jem005"},
		{"dir/sub/jem005.chordpro", "jem005"},
		{"sans_extension", "sans_extension"},
	}
	for _, tt := range tests {
		if got := Stem(tt.in); got != tt.want {
			t.Errorf("Stem(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
