// Package pipeline runs the per-document conversion sequence and the
// batch worker pool over many documents.
package pipeline

import (
	"context"

	"github.com/bricedupuy/chordshow/core/enrich"
	cperrors "github.com/bricedupuy/chordshow/core/errors"
	"github.com/bricedupuy/chordshow/core/french"
	"github.com/bricedupuy/chordshow/core/song"
	"github.com/bricedupuy/chordshow/internal/config"
	"github.com/bricedupuy/chordshow/internal/formats/chordpro"
	"github.com/bricedupuy/chordshow/internal/formats/freeshow"
	"github.com/bricedupuy/chordshow/internal/logging"
)

// Document is one unit of batch input: a source identifier and the raw
// markup text.
type Document struct {
	Source string
	Raw    string
}

// Result is the structured outcome for one document. A failed document
// carries its error here; it never aborts sibling documents.
type Result struct {
	Source string

	// Enhanced is the corrected markup output.
	Enhanced []byte

	// Show is the presentation JSON output.
	Show []byte

	// Title and Number are taken from the song after enrichment, for
	// catalog records and reporting.
	Title  string
	Number string

	// ContentKey identifies the whole song body, computed over the
	// concatenated section keys.
	ContentKey string

	// MetadataFound reports whether an external record enriched the song.
	MetadataFound bool

	// Duplicates is the number of sections rendered as references.
	Duplicates int

	// Err is the per-document failure, nil on success.
	Err error
}

// Process runs the full sequential pipeline for one document: tokenize,
// build, normalize and enrich, deduplicate, then serialize both output
// artifacts. Every stage runs to completion before the next starts; a
// pipeline in progress is never cancelled mid-parse.
func Process(ctx context.Context, doc Document, records enrich.Set, cfg config.Config) Result {
	res := Result{Source: doc.Source}

	s, err := chordpro.Parse(doc.Source, doc.Raw)
	if err != nil {
		res.Err = err
		return res
	}

	res.MetadataFound = true
	if err := enrich.Enrich(s, records); err != nil {
		if !cperrors.Is(err, cperrors.ErrMetadataNotFound) {
			res.Err = err
			return res
		}
		res.MetadataFound = false
		logging.MetadataMiss(ctx, doc.Source)
	}

	if cfg.FixFrenchPunctuation {
		french.FixSong(s)
	}

	song.Deduplicate(s)
	res.Duplicates = s.DuplicateCount()
	res.Title = s.Title()
	res.Number = s.GetMeta(song.MetaNumber)
	res.ContentKey = song.SongKey(s)

	res.Enhanced = chordpro.Emit(s)

	showDoc, err := freeshow.Build(s, freeshow.Options{
		Colors:           cfg.SectionColors,
		FontSize:         cfg.FontSize,
		Box:              cfg.SlideBox,
		Deduplicate:      cfg.DeduplicateSections,
		MaxLinesPerSlide: cfg.MaxLinesPerSlide,
	})
	if err != nil {
		res.Err = err
		return res
	}
	res.Show, res.Err = freeshow.Marshal(showDoc)
	return res
}
