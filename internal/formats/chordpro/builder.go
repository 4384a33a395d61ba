package chordpro

import (
	"io"
	"regexp"
	"strings"

	"github.com/bricedupuy/chordshow/core/song"
)

// metaAliases maps short directive keys to canonical metadata keys.
var metaAliases = map[string]string{
	"t":  song.MetaTitle,
	"st": song.MetaSubtitle,
}

// defaultLabelKinds maps the words found in section comment labels to
// section kinds. The corpus labels sections in French.
var defaultLabelKinds = map[string]song.SectionKind{
	"refrain":      song.KindChorus,
	"chorus":       song.KindChorus,
	"strophe":      song.KindVerse,
	"couplet":      song.KindVerse,
	"verse":        song.KindVerse,
	"pont":         song.KindBridge,
	"bridge":       song.KindBridge,
	"pre-refrain":  song.KindPreChorus,
	"pre_chorus":   song.KindPreChorus,
	"introduction": song.KindIntro,
	"intro":        song.KindIntro,
	"fin":          song.KindOutro,
	"coda":         song.KindOutro,
	"outro":        song.KindOutro,
}

// labelPattern splits a section label into its word part and an
// optional trailing number ("Strophe 2" -> "strophe", "2").
var labelPattern = regexp.MustCompile(`^([\p{L}][\p{L}\s_-]*?)\s*(\d+)?$`)

// leadingNumber matches the "1. " prefixes some sources put on the
// first lyric line of a verse.
var leadingNumber = regexp.MustCompile(`^\d+\.\s*`)

// chordPattern matches one inline [chord] annotation.
var chordPattern = regexp.MustCompile(`\[([^\]]+)\]`)

// Builder consumes a token stream and produces one Song. It keeps a
// single optional open-section slot; sections never nest.
type Builder struct {
	labelKinds map[string]song.SectionKind
}

// NewBuilder returns a builder with the default label vocabulary.
func NewBuilder() *Builder {
	return &Builder{labelKinds: defaultLabelKinds}
}

// WithLabelKinds overrides the label word -> kind vocabulary.
func (b *Builder) WithLabelKinds(m map[string]song.SectionKind) *Builder {
	if len(m) > 0 {
		b.labelKinds = m
	}
	return b
}

// Build assembles a Song from the token sequence of one document.
func (b *Builder) Build(source string, tokens []Token) *song.Song {
	s := song.New(source)

	var current *song.Section
	pendingLabel := ""

	flush := func() {
		if current != nil {
			s.Sections = append(s.Sections, current)
			current = nil
		}
	}

	for _, tok := range tokens {
		switch tok.Type {
		case TokenSectionStart:
			flush()
			current = b.newSection(tok.Kind, tok.Label, pendingLabel)
			pendingLabel = ""

		case TokenSectionEnd:
			// A stray end with no open section is a no-op boundary.
			flush()

		case TokenDirective:
			key := strings.ToLower(tok.Key)
			if key == "c" || key == "comment" {
				if current != nil {
					current.Annotations = append(current.Annotations, song.Annotation{
						Key:       "comment",
						Value:     tok.Value,
						LineIndex: len(current.Lines),
					})
				} else {
					// A comment between sections names the next one.
					pendingLabel = tok.Value
				}
				continue
			}
			if current != nil {
				current.Annotations = append(current.Annotations, song.Annotation{
					Key:       key,
					Value:     tok.Value,
					LineIndex: len(current.Lines),
				})
				continue
			}
			if alias, ok := metaAliases[key]; ok {
				key = alias
			}
			if song.IsCanonicalMeta(key) {
				s.SetMeta(key, tok.Value)
			} else {
				s.Extra = append(s.Extra, song.Directive{Key: tok.Key, Value: tok.Value})
			}

		case TokenTextLine:
			if strings.TrimSpace(tok.Raw) == "" {
				continue
			}
			if current == nil {
				// Content outside any marker lands in an implicit
				// untyped section so nothing is dropped.
				current = &song.Section{Kind: song.KindOther, RefIndex: -1}
			}
			current.Lines = append(current.Lines, parseLine(tok.Raw))
		}
	}
	flush()

	s.AssignNumbers()
	return s
}

// newSection builds a section from a start marker, preferring the
// marker's own label over a pending comment label.
func (b *Builder) newSection(kind song.SectionKind, markerLabel, pendingLabel string) *song.Section {
	sec := &song.Section{Kind: kind, RefIndex: -1}

	label := markerLabel
	if label == "" {
		label = pendingLabel
	}
	if label == "" {
		return sec
	}

	sec.Name = label
	word, number := splitLabel(label)
	if number != "" {
		sec.Number = number
	}
	for key, mapped := range b.labelKinds {
		if strings.Contains(word, key) {
			sec.Kind = mapped
			break
		}
	}
	return sec
}

// splitLabel separates a label's word part from a trailing number.
func splitLabel(label string) (word, number string) {
	m := labelPattern.FindStringSubmatch(strings.ToLower(strings.TrimSpace(label)))
	if m == nil {
		return strings.ToLower(label), ""
	}
	return strings.TrimSpace(m[1]), m[2]
}

// parseLine splits one raw content line into lyric and chord fragments.
// Bracket content is taken verbatim as the chord symbol; offsets are
// rune positions in the line's lyric-only text.
func parseLine(raw string) song.Line {
	var line song.Line

	matches := chordPattern.FindAllStringSubmatchIndex(raw, -1)
	last := 0
	for _, m := range matches {
		if m[0] > last {
			line.Fragments = append(line.Fragments, song.Fragment{
				Kind: song.FragmentLyric,
				Text: raw[last:m[0]],
			})
		}
		line.Fragments = append(line.Fragments, song.Fragment{
			Kind: song.FragmentChord,
			Text: raw[m[2]:m[3]],
		})
		last = m[1]
	}
	if last < len(raw) {
		line.Fragments = append(line.Fragments, song.Fragment{
			Kind: song.FragmentLyric,
			Text: raw[last:],
		})
	}

	stripLeadingNumber(&line)
	line.RecomputeOffsets()
	return line
}

// stripLeadingNumber removes "1. "-style prefixes from the first lyric
// fragment of a line.
func stripLeadingNumber(l *song.Line) {
	for i := range l.Fragments {
		if l.Fragments[i].Kind != song.FragmentLyric {
			continue
		}
		l.Fragments[i].Text = leadingNumber.ReplaceAllString(l.Fragments[i].Text, "")
		return
	}
}

// Parse tokenizes and builds one document in a single call.
func Parse(source, text string) (*song.Song, error) {
	tk := NewTokenizer(text)
	b := NewBuilder()
	var tokens []Token
	for {
		tok, err := tk.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}
	return b.Build(source, tokens), nil
}
