// Package metadata loads external song metadata from the
// semicolon-delimited CSV published alongside the songbook.
package metadata

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/bricedupuy/chordshow/core/enrich"
	cperrors "github.com/bricedupuy/chordshow/core/errors"
)

// Column headers of the songbook CSV. The file is maintained in French.
const (
	colFile          = "Fichier"
	colTitle         = "Titre"
	colSecondTitle   = "2e titre"
	colOriginalTitle = "Titre original"
	colComposer      = "Compositeur"
	colAuthor        = "Auteur"
	colKey           = "Tonalité"
	colCopyright     = "Copyright"
	colReference     = "Référence"
	colTheme         = "Thème"
	colTuneOf        = "Air du"
	colVolume        = "Vol."
	colSupplement    = "Suppl"
	colLink          = "Lien"
)

// Load reads song metadata records from a CSV file. Rows without a
// file identifier are skipped; the result is keyed by the lowercase
// identifier for case-insensitive lookup.
func Load(path string) (enrich.Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, cperrors.Wrapf(err, "open metadata CSV %s", path)
	}
	defer f.Close()

	set, err := Parse(f)
	if err != nil {
		return nil, cperrors.NewParse("CSV", path, err.Error())
	}
	return set, nil
}

// Parse reads records from CSV content. The delimiter is a semicolon
// and a leading UTF-8 BOM is tolerated.
func Parse(r io.Reader) (enrich.Set, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	text := strings.TrimPrefix(string(data), "\uFEFF")

	cr := csv.NewReader(strings.NewReader(text))
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return enrich.Set{}, nil
	}

	header := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		header[strings.TrimSpace(name)] = i
	}

	field := func(row []string, col string) string {
		i, ok := header[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	set := make(enrich.Set, len(rows)-1)
	for _, row := range rows[1:] {
		file := field(row, colFile)
		if file == "" {
			continue
		}
		set[strings.ToLower(file)] = enrich.Record{
			Number:        file,
			Title:         field(row, colTitle),
			SecondTitle:   field(row, colSecondTitle),
			OriginalTitle: field(row, colOriginalTitle),
			Composer:      field(row, colComposer),
			Author:        field(row, colAuthor),
			Key:           field(row, colKey),
			Copyright:     field(row, colCopyright),
			Reference:     field(row, colReference),
			Theme:         field(row, colTheme),
			TuneOf:        field(row, colTuneOf),
			Volume:        field(row, colVolume),
			Supplement:    field(row, colSupplement),
			Link:          field(row, colLink),
		}
	}
	return set, nil
}
