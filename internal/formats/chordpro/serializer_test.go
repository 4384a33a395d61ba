package chordpro

import (
	"strings"
	"testing"

	"github.com/bricedupuy/chordshow/core/song"
)

func TestEmitCanonicalMetaOrder(t *testing.T) {
	s := song.New("jem005")
	s.SetMeta(song.MetaKey, "G")
	s.SetMeta(song.MetaTitle, "À toi la gloire")
	s.SetMeta(song.MetaNumber, "jem005")
	s.Extra = append(s.Extra, song.Directive{Key: "source_ref", Value: "p. 12"})

	out := string(Emit(s))
	numberAt := strings.Index(out, "{number:")
	titleAt := strings.Index(out, "{title:")
	keyAt := strings.Index(out, "{key:")
	extraAt := strings.Index(out, "{source_ref:")

	if numberAt < 0 || titleAt < 0 || keyAt < 0 || extraAt < 0 {
		t.Fatalf("Missing directives in output:\n%s", out)
	}
	if !(numberAt < titleAt && titleAt < keyAt && keyAt < extraAt) {
		t.Errorf("Directive order wrong:\n%s", out)
	}
}

func TestEmitSkipsEmptyMeta(t *testing.T) {
	s := song.New("x")
	s.SetMeta(song.MetaTitle, "Titre")
	s.SetMeta(song.MetaSubtitle, "")
	out := string(Emit(s))
	if strings.Contains(out, "{subtitle") {
		t.Errorf("Empty meta emitted:\n%s", out)
	}
}

func TestEmitSectionMarkers(t *testing.T) {
	s := song.New("x")
	s.Sections = []*song.Section{{
		Kind:     song.KindChorus,
		Name:     "Refrain",
		RefIndex: -1,
		Lines: []song.Line{
			{Fragments: []song.Fragment{
				{Kind: song.FragmentChord, Text: "G"},
				{Kind: song.FragmentLyric, Text: "À toi la gloire"},
			}},
		},
	}}
	out := string(Emit(s))

	for _, want := range []string{
		"{c: Refrain}",
		"{start_of_chorus}",
		"[G]À toi la gloire",
		"{end_of_chorus}",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Output missing %q:\n%s", want, out)
		}
	}
}

func TestEmitOtherSectionUsesGenericMarker(t *testing.T) {
	s := song.New("x")
	s.Sections = []*song.Section{{Kind: song.KindOther, RefIndex: -1}}
	out := string(Emit(s))
	if !strings.Contains(out, "{start_of_section}") || !strings.Contains(out, "{end_of_section}") {
		t.Errorf("Untyped section markers wrong:\n%s", out)
	}
}

func TestEmitInterleavesAnnotations(t *testing.T) {
	s := song.New("x")
	s.Sections = []*song.Section{{
		Kind:     song.KindVerse,
		RefIndex: -1,
		Lines: []song.Line{
			{Fragments: []song.Fragment{{Kind: song.FragmentLyric, Text: "ligne un"}}},
			{Fragments: []song.Fragment{{Kind: song.FragmentLyric, Text: "ligne deux"}}},
		},
		Annotations: []song.Annotation{{Key: "comment", Value: "doucement", LineIndex: 1}},
	}}
	out := string(Emit(s))

	first := strings.Index(out, "ligne un")
	ann := strings.Index(out, "{c: doucement}")
	second := strings.Index(out, "ligne deux")
	if !(first < ann && ann < second) {
		t.Errorf("Annotation not between its lines:\n%s", out)
	}
}

func TestEmitLine(t *testing.T) {
	l := song.Line{Fragments: []song.Fragment{
		{Kind: song.FragmentLyric, Text: "Ama"},
		{Kind: song.FragmentChord, Text: "D"},
		{Kind: song.FragmentLyric, Text: "zing"},
	}}
	if got := EmitLine(&l); got != "Ama[D]zing" {
		t.Errorf("EmitLine = %q, want %q", got, "Ama[D]zing")
	}
}

// Emitting a parsed document and re-parsing it must reach a fixed
// point: the second emission is byte-identical to the first.
func TestEmitParseFixedPoint(t *testing.T) {
	s1, err := Parse("jem005", sampleDoc)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	out1 := Emit(s1)

	s2, err := Parse("jem005", string(out1))
	if err != nil {
		t.Fatalf("Re-parse failed: %v", err)
	}
	out2 := Emit(s2)

	if string(out1) != string(out2) {
		t.Errorf("Round trip is not a fixed point:\n--- first ---\n%s\n--- second ---\n%s", out1, out2)
	}
}

func TestOutputName(t *testing.T) {
	if got := OutputName("jem005"); got != "jem005-enhanced.chordpro" {
		t.Errorf("OutputName = %q, want %q", got, "jem005-enhanced.chordpro")
	}
}
