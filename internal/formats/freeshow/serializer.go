package freeshow

import (
	"encoding/json"
	"strconv"
	"strings"

	cperrors "github.com/bricedupuy/chordshow/core/errors"
	"github.com/bricedupuy/chordshow/core/song"
)

// Options controls presentation rendering. All values come from the
// caller's configuration; this package performs no layout computation,
// only templated substitution.
type Options struct {
	// Colors maps a section kind to a hex color. Unmapped kinds render
	// with an empty color.
	Colors map[string]string

	// FontSize is applied uniformly to every slide.
	FontSize int

	// Box is the slide geometry string, applied verbatim.
	Box string

	// Deduplicate renders repeated sections as reuse pointers instead of
	// re-emitting their lyrics.
	Deduplicate bool

	// MaxLinesPerSlide splits a section across slides after this many
	// lines. Zero renders each section as a single slide.
	MaxLinesPerSlide int
}

// Build renders a song into the slide document. Sections marked as
// deduplication references become reuse pointers when Deduplicate is
// set; otherwise every section renders in full.
func Build(s *song.Song, opts Options) (*Document, error) {
	doc := &Document{
		Metadata:    buildMetadata(s),
		SlideGroups: make([]SlideGroup, 0, len(s.Sections)),
	}

	for i, sec := range s.Sections {
		group := SlideGroup{
			ID:    strconv.Itoa(i),
			Kind:  string(sec.Kind),
			Label: sec.Label(),
			Color: opts.Colors[string(sec.Kind)],
		}

		if opts.Deduplicate && sec.IsReference() {
			if err := checkReference(s, i); err != nil {
				return nil, err
			}
			group.ReuseOf = strconv.Itoa(sec.RefIndex)
		} else {
			group.Slides = buildSlides(sec, opts)
		}

		doc.SlideGroups = append(doc.SlideGroups, group)
	}

	return doc, nil
}

// checkReference guards the invariant that references always point
// backwards at a canonical section. Grouping is append-only so a
// violation should never occur; a song that carries one anyway is
// rejected for this document only.
func checkReference(s *song.Song, i int) error {
	ref := s.Sections[i].RefIndex
	if ref < 0 || ref >= len(s.Sections) {
		return cperrors.NewSchema(i, "reference outside section range")
	}
	if ref >= i {
		return cperrors.NewSchema(i, "reference does not point backwards")
	}
	if s.Sections[ref].IsReference() {
		return cperrors.NewSchema(i, "reference target is itself a reference")
	}
	return nil
}

// buildMetadata flattens song metadata into the document header: the
// fixed fields under their own names, pass-through directives under an
// "x-" prefix.
func buildMetadata(s *song.Song) map[string]string {
	meta := make(map[string]string, len(s.Meta)+len(s.Extra))
	for key, value := range s.Meta {
		meta[key] = value
	}
	for _, d := range s.Extra {
		meta["x-"+strings.ToLower(d.Key)] = d.Value
	}
	return meta
}

// buildSlides renders a section's lyric-only text into one or more
// slides.
func buildSlides(sec *song.Section, opts Options) []Slide {
	texts := make([]string, 0, len(sec.Lines))
	for i := range sec.Lines {
		texts = append(texts, sec.Lines[i].LyricText())
	}

	style := Style{FontSize: opts.FontSize, Box: opts.Box}

	chunk := opts.MaxLinesPerSlide
	if chunk <= 0 {
		chunk = len(texts)
	}

	var slides []Slide
	for start := 0; start < len(texts); start += chunk {
		end := start + chunk
		if end > len(texts) {
			end = len(texts)
		}
		slides = append(slides, Slide{
			Text:  strings.Join(texts[start:end], "\n"),
			Style: style,
		})
	}
	if slides == nil {
		// An empty section still projects one blank slide.
		slides = []Slide{{Style: style}}
	}
	return slides
}

// Marshal renders the document as indented JSON.
func Marshal(doc *Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "    ")
}

// OutputName returns the conventional presentation filename for a
// source identifier.
func OutputName(source string) string {
	return source + ".show"
}
