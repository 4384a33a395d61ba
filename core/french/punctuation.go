// Package french enforces French typographic spacing on lyric text:
// a non-breaking space before double punctuation marks and closing
// guillemets, and after opening guillemets. The rewrite is idempotent
// and never touches chord symbols or directive syntax; whether it runs
// at all is the caller's configuration, not this package's.
package french

import (
	"regexp"
	"strings"

	"github.com/bricedupuy/chordshow/core/song"
)

// NBSP is the non-breaking space (U+00A0) required by French typography
// before ; : ! ? » and after «.
const NBSP = " "

var (
	// doublePunct matches optional plain spacing before a double
	// punctuation mark or closing guillemet. NBSP is excluded from the
	// leading run, so text already normalized matches with an empty run
	// and rewrites to itself.
	doublePunct = regexp.MustCompile("[ \t]*([;:!?»])")

	// openingGuillemet matches an opening guillemet and any plain
	// spacing after it.
	openingGuillemet = regexp.MustCompile("(«)[ \t]*")
)

// Fix rewrites one piece of text according to the French spacing rules.
// Applying Fix twice yields the same result as applying it once.
func Fix(text string) string {
	if text == "" {
		return text
	}
	text = doublePunct.ReplaceAllString(text, NBSP+"$1")
	text = openingGuillemet.ReplaceAllString(text, "$1"+NBSP)
	// The mark at the start of a line takes no space before it.
	text = strings.TrimPrefix(text, NBSP)
	return dedupeNBSP(text)
}

// dedupeNBSP collapses runs of non-breaking spaces introduced when the
// input already carried one. This is the exact already-present check:
// a single NBSP at the insertion point is left alone.
func dedupeNBSP(text string) string {
	for strings.Contains(text, NBSP+NBSP) {
		text = strings.ReplaceAll(text, NBSP+NBSP, NBSP)
	}
	return text
}

// FixLine rewrites every lyric run of a line independently and then
// recomputes chord offsets from the new run lengths. Chord symbols are
// never touched; the rule cannot reach across a chord annotation
// because each run is rewritten in isolation.
func FixLine(l *song.Line) {
	for i := range l.Fragments {
		if l.Fragments[i].Kind == song.FragmentLyric {
			l.Fragments[i].Text = fixRun(l.Fragments[i].Text, i == 0)
		}
	}
	l.RecomputeOffsets()
}

// fixRun applies Fix to one lyric run. Only the first run of a line
// drops a leading NBSP; later runs may legitimately start with one when
// a chord splits the text just before a punctuation mark.
func fixRun(text string, first bool) string {
	if text == "" {
		return text
	}
	out := doublePunct.ReplaceAllString(text, NBSP+"$1")
	out = openingGuillemet.ReplaceAllString(out, "$1"+NBSP)
	if first {
		out = strings.TrimPrefix(out, NBSP)
	}
	return dedupeNBSP(out)
}

// FixSong rewrites all lyric runs and metadata values of a song.
// Directive keys, pass-through directive values, and chord symbols are
// left untouched.
func FixSong(s *song.Song) {
	for key, value := range s.Meta {
		s.Meta[key] = Fix(value)
	}
	for _, sec := range s.Sections {
		for i := range sec.Lines {
			FixLine(&sec.Lines[i])
		}
	}
}
