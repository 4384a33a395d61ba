package chordpro

import (
	"strings"

	"github.com/bricedupuy/chordshow/core/song"
)

// markerNames maps a section kind to the <kind> part of its start/end
// markers. KindOther round-trips through the generic section marker.
var markerNames = map[song.SectionKind]string{
	song.KindVerse:     "verse",
	song.KindChorus:    "chorus",
	song.KindBridge:    "bridge",
	song.KindPreChorus: "pre_chorus",
	song.KindTag:       "tag",
	song.KindIntro:     "intro",
	song.KindOutro:     "outro",
	song.KindOther:     "section",
}

// Emit renders a song back into the markup dialect: canonical metadata
// directives in fixed order, pass-through directives in original order,
// then each section between its start/end markers with chords
// reinserted at their stored offsets. Re-parsing the output yields a
// song equal to the input under the normalization already applied.
func Emit(s *song.Song) []byte {
	var b strings.Builder

	for _, key := range song.CanonicalMetaOrder {
		if value, ok := s.Meta[key]; ok && value != "" {
			writeDirective(&b, key, value)
		}
	}
	for _, d := range s.Extra {
		writeDirective(&b, d.Key, d.Value)
	}
	b.WriteByte('\n')

	for _, sec := range s.Sections {
		emitSection(&b, sec)
		b.WriteByte('\n')
	}

	return []byte(b.String())
}

func writeDirective(b *strings.Builder, key, value string) {
	b.WriteByte('{')
	b.WriteString(key)
	if value != "" {
		b.WriteString(": ")
		b.WriteString(value)
	}
	b.WriteString("}\n")
}

func emitSection(b *strings.Builder, sec *song.Section) {
	if sec.Name != "" {
		writeDirective(b, "c", sec.Name)
	}

	marker := markerNames[sec.Kind]
	if marker == "" {
		marker = string(song.KindOther)
	}
	b.WriteString("{start_of_")
	b.WriteString(marker)
	b.WriteString("}\n")

	ann := 0
	for i := range sec.Lines {
		for ann < len(sec.Annotations) && sec.Annotations[ann].LineIndex <= i {
			writeAnnotation(b, sec.Annotations[ann])
			ann++
		}
		b.WriteString(EmitLine(&sec.Lines[i]))
		b.WriteByte('\n')
	}
	for ; ann < len(sec.Annotations); ann++ {
		writeAnnotation(b, sec.Annotations[ann])
	}

	b.WriteString("{end_of_")
	b.WriteString(marker)
	b.WriteString("}\n")
}

func writeAnnotation(b *strings.Builder, a song.Annotation) {
	key := a.Key
	if key == "comment" {
		key = "c"
	}
	writeDirective(b, key, a.Value)
}

// EmitLine reproduces one line with its chord annotations inlined.
func EmitLine(l *song.Line) string {
	var b strings.Builder
	for _, f := range l.Fragments {
		switch f.Kind {
		case song.FragmentChord:
			b.WriteByte('[')
			b.WriteString(f.Text)
			b.WriteByte(']')
		case song.FragmentLyric:
			b.WriteString(f.Text)
		}
	}
	return b.String()
}

// OutputName returns the conventional enhanced-markup filename for a
// source identifier.
func OutputName(source string) string {
	return source + "-enhanced.chordpro"
}
