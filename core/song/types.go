// Package song defines the document model shared by every stage of the
// converter: parsed songs, their sections and chorded lines, and the
// deduplication relationships between sections. Format handlers should
// import these types from core/song rather than defining their own.
package song

import (
	"strconv"
	"strings"
)

// normalizeKey lowercases and trims a metadata key so lookups are
// case-insensitive and duplicates collapse.
func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// SectionKind classifies a section of a song.
type SectionKind string

// Section kind constants.
const (
	KindVerse     SectionKind = "verse"
	KindChorus    SectionKind = "chorus"
	KindBridge    SectionKind = "bridge"
	KindPreChorus SectionKind = "pre_chorus"
	KindTag       SectionKind = "tag"
	KindIntro     SectionKind = "intro"
	KindOutro     SectionKind = "outro"
	KindOther     SectionKind = "other"
)

// validKinds is the set of recognized section kinds.
var validKinds = map[SectionKind]bool{
	KindVerse:     true,
	KindChorus:    true,
	KindBridge:    true,
	KindPreChorus: true,
	KindTag:       true,
	KindIntro:     true,
	KindOutro:     true,
	KindOther:     true,
}

// IsValid returns true if the section kind is recognized.
func (k SectionKind) IsValid() bool {
	return validKinds[k]
}

// Canonical metadata keys, in the order the enhanced serializer emits them.
const (
	MetaNumber    = "number"
	MetaTitle     = "title"
	MetaSubtitle  = "subtitle"
	MetaArtist    = "artist"
	MetaLyricist  = "lyricist"
	MetaComposer  = "composer"
	MetaCopyright = "copyright"
	MetaYear      = "year"
	MetaKey       = "key"
	MetaTempo     = "tempo"
	MetaCapo      = "capo"
	MetaThemes    = "themes"
)

// CanonicalMetaOrder is the fixed emission order for known metadata keys.
// Keys not listed here are pass-through directives and keep their
// original document order.
var CanonicalMetaOrder = []string{
	MetaNumber,
	MetaTitle,
	MetaSubtitle,
	MetaArtist,
	MetaLyricist,
	MetaComposer,
	MetaCopyright,
	MetaYear,
	MetaKey,
	MetaTempo,
	MetaCapo,
	MetaThemes,
}

// canonicalMeta is the membership set for CanonicalMetaOrder.
var canonicalMeta = func() map[string]bool {
	m := make(map[string]bool, len(CanonicalMetaOrder))
	for _, k := range CanonicalMetaOrder {
		m[k] = true
	}
	return m
}()

// IsCanonicalMeta returns true if key is one of the fixed metadata fields.
func IsCanonicalMeta(key string) bool {
	return canonicalMeta[key]
}

// FragmentKind distinguishes the two fragment variants of a line.
type FragmentKind int

const (
	// FragmentLyric is a run of plain lyric text.
	FragmentLyric FragmentKind = iota
	// FragmentChord is an inline chord annotation.
	FragmentChord
)

// Fragment is one unit of a line: either a lyric run or a chord
// annotation. A chord fragment records the symbol and the rune offset
// into the line's concatenated lyric text at which it sits; lyric
// fragments carry the run text and leave Offset at zero.
type Fragment struct {
	Kind FragmentKind `json:"kind"`

	// Text is the lyric run text, or the chord symbol for chord fragments.
	Text string `json:"text"`

	// Offset is the rune offset into the line's lyric-only text where a
	// chord fragment attaches. Meaningless for lyric fragments.
	Offset int `json:"offset,omitempty"`
}

// Line is an ordered sequence of fragments.
type Line struct {
	Fragments []Fragment `json:"fragments"`
}

// LyricText returns the concatenated lyric runs of the line, without
// chord symbols.
func (l *Line) LyricText() string {
	var n int
	for _, f := range l.Fragments {
		if f.Kind == FragmentLyric {
			n += len(f.Text)
		}
	}
	b := make([]byte, 0, n)
	for _, f := range l.Fragments {
		if f.Kind == FragmentLyric {
			b = append(b, f.Text...)
		}
	}
	return string(b)
}

// Chords returns the chord fragments of the line in order.
func (l *Line) Chords() []Fragment {
	var out []Fragment
	for _, f := range l.Fragments {
		if f.Kind == FragmentChord {
			out = append(out, f)
		}
	}
	return out
}

// RecomputeOffsets walks the fragments in order and re-derives each
// chord fragment's offset from the cumulative rune length of the lyric
// runs that precede it. Call after any rewrite that changes run lengths.
func (l *Line) RecomputeOffsets() {
	pos := 0
	for i := range l.Fragments {
		switch l.Fragments[i].Kind {
		case FragmentLyric:
			pos += len([]rune(l.Fragments[i].Text))
		case FragmentChord:
			l.Fragments[i].Offset = pos
		}
	}
}

// Annotation is a directive that appeared inside a section body. It is
// preserved for round-trip fidelity but not interpreted further.
type Annotation struct {
	Key   string `json:"key"`
	Value string `json:"value,omitempty"`

	// LineIndex is the position in the section's line sequence before
	// which the annotation appeared.
	LineIndex int `json:"line_index"`
}

// Section is a labeled block of lines.
type Section struct {
	// Kind classifies the section; unrecognized markers map to KindOther.
	Kind SectionKind `json:"kind"`

	// Number is the per-kind label ("2" in "verse 2"). Empty for the
	// first or only section of a kind.
	Number string `json:"number,omitempty"`

	// Name is the display label from the source ("Strophe 2", "Refrain").
	// Empty when the source gave none.
	Name string `json:"name,omitempty"`

	Lines []Line `json:"lines,omitempty"`

	// Annotations are directives that appeared inside the section body.
	Annotations []Annotation `json:"annotations,omitempty"`

	// RefIndex is the index of the canonical section this one duplicates,
	// or -1 when the section is canonical or ungrouped.
	RefIndex int `json:"ref_index"`
}

// IsReference returns true if the section is a deduplication reference.
func (s *Section) IsReference() bool {
	return s.RefIndex >= 0
}

// Label returns the human-readable label for the section, preferring
// the source name over the derived kind+number form.
func (s *Section) Label() string {
	if s.Name != "" {
		return s.Name
	}
	if s.Number != "" {
		return string(s.Kind) + " " + s.Number
	}
	return string(s.Kind)
}

// Directive is a pass-through metadata entry whose key is not one of
// the canonical fields. Preserved verbatim in document order.
type Directive struct {
	Key   string `json:"key"`
	Value string `json:"value,omitempty"`
}

// Song is the parsed document: metadata plus an ordered section list.
// The Song exclusively owns its section/line/fragment tree; duplicate
// groups reference sections by index only.
type Song struct {
	// Source is the filename stem, used as the join key with external
	// metadata and as the output basename.
	Source string `json:"source"`

	// Meta maps case-normalized canonical keys to values. Last write
	// wins; enrichment overwrites per key when the record has the field.
	Meta map[string]string `json:"meta,omitempty"`

	// Extra holds pass-through directives in original document order.
	Extra []Directive `json:"extra,omitempty"`

	Sections []*Section `json:"sections,omitempty"`

	// Groups is the duplicate grouping computed by Deduplicate. Nil
	// until deduplication runs.
	Groups []DuplicateGroup `json:"groups,omitempty"`
}

// New returns an empty song for the given source identifier.
func New(source string) *Song {
	return &Song{
		Source: source,
		Meta:   make(map[string]string),
	}
}

// SetMeta stores a canonical metadata value under a case-normalized key.
func (s *Song) SetMeta(key, value string) {
	if s.Meta == nil {
		s.Meta = make(map[string]string)
	}
	s.Meta[normalizeKey(key)] = value
}

// GetMeta returns the value for a case-normalized key.
func (s *Song) GetMeta(key string) string {
	return s.Meta[normalizeKey(key)]
}

// Title returns the song title, falling back to the source identifier.
func (s *Song) Title() string {
	if t := s.Meta[MetaTitle]; t != "" {
		return t
	}
	return s.Source
}

// AssignNumbers numbers sections per kind in document order. Explicit
// numbers from the source are kept. A lone section of a kind stays
// unnumbered; once a kind repeats, unnumbered members are filled in as
// "1", "2", ... by position.
func (s *Song) AssignNumbers() {
	byKind := make(map[SectionKind][]*Section)
	for _, sec := range s.Sections {
		byKind[sec.Kind] = append(byKind[sec.Kind], sec)
	}
	for _, secs := range byKind {
		if len(secs) < 2 {
			continue
		}
		next := 1
		for _, sec := range secs {
			if sec.Number == "" {
				sec.Number = strconv.Itoa(next)
				next++
				continue
			}
			// Resync past explicit numbers so a following unnumbered
			// section never repeats one.
			if n, err := strconv.Atoi(sec.Number); err == nil && n >= next {
				next = n + 1
			}
		}
	}
}
