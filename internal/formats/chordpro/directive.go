// Package chordpro parses and emits the ChordPro-like songbook dialect:
// {key: value} directives, {start_of_*}/{end_of_*} section markers, and
// [chord] inline annotations.
package chordpro

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/bricedupuy/chordshow/core/song"
)

// directiveGrammar is the participle grammar for one directive line.
// Examples: "{title: Amazing Grace}", "{soc}", "{start_of_verse: Strophe 2}".
// The value may itself contain colons (copyright strings, CSS-ish
// geometry), so everything after the first colon is collected verbatim.
//
//nolint:govet // participle grammar tags are not standard struct tags
type directiveGrammar struct {
	Key   string   `"{" @Text`
	Value []string `( ":" @( Text | ":" )* )? "}"`
}

// directiveLexer tokenizes a directive line. No elision: value text
// keeps its interior spacing and is trimmed afterwards.
var directiveLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "LBrace", Pattern: `\{`},
	{Name: "RBrace", Pattern: `\}`},
	{Name: "Colon", Pattern: `:`},
	{Name: "Text", Pattern: `[^{}:]+`},
})

var directiveParser = participle.MustBuild[directiveGrammar](
	participle.Lexer(directiveLexer),
)

// parseDirective parses a trimmed "{...}" line into key and value.
// The ok result is false when the line is not a well-formed directive
// (the forward-compatibility policy passes such lines through as text).
func parseDirective(line string) (key, value string, ok bool) {
	d, err := directiveParser.ParseString("", line)
	if err != nil {
		return "", "", false
	}
	key = strings.TrimSpace(d.Key)
	if key == "" {
		return "", "", false
	}
	value = strings.TrimSpace(strings.Join(d.Value, ""))
	return key, value, true
}

// Section marker vocabulary. Long forms follow {start_of_<kind>} /
// {end_of_<kind>}; the short aliases are the ones the corpus uses.
var sectionAliases = map[string]song.SectionKind{
	"soc": song.KindChorus,
	"sov": song.KindVerse,
	"sob": song.KindBridge,
	"sot": song.KindTag,
}

var sectionEndAliases = map[string]bool{
	"eoc": true,
	"eov": true,
	"eob": true,
	"eot": true,
}

// markerKinds maps the <kind> part of a start/end marker to a section
// kind. Unlisted names fall back to KindOther, never to an error.
var markerKinds = map[string]song.SectionKind{
	"verse":      song.KindVerse,
	"chorus":     song.KindChorus,
	"bridge":     song.KindBridge,
	"pre_chorus": song.KindPreChorus,
	"prechorus":  song.KindPreChorus,
	"tag":        song.KindTag,
	"intro":      song.KindIntro,
	"outro":      song.KindOutro,
	"part":       song.KindOther,
	"section":    song.KindOther,
}

// classifyMarker decides whether a parsed directive is a section
// boundary. It returns the boundary type and, for starts, the kind hint.
func classifyMarker(key string) (start bool, end bool, kind song.SectionKind) {
	k := strings.ToLower(key)

	if kindHint, ok := sectionAliases[k]; ok {
		return true, false, kindHint
	}
	if sectionEndAliases[k] {
		return false, true, ""
	}

	if name, ok := strings.CutPrefix(k, "start_of_"); ok {
		if mapped, known := markerKinds[name]; known {
			return true, false, mapped
		}
		return true, false, song.KindOther
	}
	if _, ok := strings.CutPrefix(k, "end_of_"); ok {
		return false, true, ""
	}
	return false, false, ""
}
