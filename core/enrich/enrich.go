// Package enrich merges externally supplied metadata records into
// parsed songs. The record wins over in-document directives for every
// field it carries; fields absent from the record keep their parsed
// values.
package enrich

import (
	"regexp"
	"strings"

	cperrors "github.com/bricedupuy/chordshow/core/errors"
	"github.com/bricedupuy/chordshow/core/song"
)

// Record is one external metadata entry, keyed by the song's source
// identifier. Multi-value fields (authors, themes) arrive as a single
// delimiter-joined string and are stored as-is.
type Record struct {
	Number        string `json:"number,omitempty"`
	Title         string `json:"title,omitempty"`
	SecondTitle   string `json:"second_title,omitempty"`
	OriginalTitle string `json:"original_title,omitempty"`
	Author        string `json:"author,omitempty"`
	Composer      string `json:"composer,omitempty"`
	Key           string `json:"key,omitempty"`
	Copyright     string `json:"copyright,omitempty"`
	Reference     string `json:"reference,omitempty"`
	Theme         string `json:"theme,omitempty"`
	TuneOf        string `json:"tune_of,omitempty"`
	Volume        string `json:"volume,omitempty"`
	Supplement    string `json:"supplement,omitempty"`
	Link          string `json:"link,omitempty"`
}

// Set is a collection of records keyed by lowercase source identifier.
type Set map[string]Record

// Lookup finds the record for a source identifier, case-insensitively.
func (s Set) Lookup(source string) (Record, bool) {
	r, ok := s[strings.ToLower(source)]
	return r, ok
}

// yearPattern matches the first 4-digit year in a copyright string.
var yearPattern = regexp.MustCompile(`\d{4}`)

// YearFromCopyright extracts the first 4-digit year from a copyright
// string, or "" when none is present.
func YearFromCopyright(text string) string {
	return yearPattern.FindString(text)
}

// Apply merges a record into a song. Each field present in the record
// overwrites the corresponding metadata key entirely; there is no
// partial merge. Applying the same record twice is a no-op the second
// time.
func Apply(s *song.Song, r Record) {
	fields := []struct {
		key   string
		value string
	}{
		{song.MetaNumber, r.Number},
		{song.MetaTitle, r.Title},
		{song.MetaSubtitle, r.SecondTitle},
		{song.MetaLyricist, r.Author},
		{song.MetaComposer, r.Composer},
		{song.MetaKey, r.Key},
		{song.MetaCopyright, r.Copyright},
		{song.MetaThemes, r.Theme},
	}
	for _, f := range fields {
		if f.value != "" {
			s.SetMeta(f.key, f.value)
		}
	}
	if r.Copyright != "" {
		if year := YearFromCopyright(r.Copyright); year != "" {
			s.SetMeta(song.MetaYear, year)
		}
	}
}

// Enrich looks up the song's record in the set and applies it. A
// missing record returns ErrMetadataNotFound and leaves the song
// untouched; callers log it and keep processing.
func Enrich(s *song.Song, records Set) error {
	r, ok := records.Lookup(s.Source)
	if !ok {
		return cperrors.NewMetadata(s.Source)
	}
	Apply(s, r)
	return nil
}
