// Package fileutil provides filename hygiene for songbook files:
// sanitization, jem/jemk number normalization, and natural sort keys.
package fileutil

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

var (
	invalidChars   = regexp.MustCompile(`[^\w.-]`)
	zeroSuffix     = regexp.MustCompile(`_0\.chordpro$`)
	songbookName   = regexp.MustCompile(`(?i)^(jemk?)(\d+)`)
	songbookNumber = regexp.MustCompile(`(?i)jem(k?)(\d+)`)
)

// Sanitize strips path separators and replaces characters that are not
// safe for local filenames.
func Sanitize(name string) string {
	name = filepath.Base(name)
	name = invalidChars.ReplaceAllString(name, "_")
	if name == "" || name == "." {
		return "unnamed_file"
	}
	return name
}

// Normalize fixes the common songbook filename quirks: a trailing "_0"
// before the extension is dropped and songbook numbers are padded to
// three digits (jem5.chordpro -> jem005.chordpro).
func Normalize(name string) string {
	name = zeroSuffix.ReplaceAllString(name, ".chordpro")

	m := songbookName.FindStringSubmatch(name)
	if m == nil {
		return name
	}
	prefix := strings.ToLower(m[1])
	number := m[2]
	for len(number) < 3 {
		number = "0" + number
	}
	return fmt.Sprintf("%s%s.chordpro", prefix, number)
}

// SortKey returns the natural sort key for a songbook filename: main
// songbook files first, kids supplement second, everything else last,
// each ordered by number.
func SortKey(name string) (group, number int) {
	m := songbookNumber.FindStringSubmatch(name)
	if m == nil {
		return 2, 0
	}
	n, _ := strconv.Atoi(m[2])
	if strings.EqualFold(m[1], "k") {
		return 1, n
	}
	return 0, n
}

// Less orders two songbook filenames naturally.
func Less(a, b string) bool {
	ga, na := SortKey(a)
	gb, nb := SortKey(b)
	if ga != gb {
		return ga < gb
	}
	if na != nb {
		return na < nb
	}
	return a < b
}

// Stem returns the source identifier for a path: the base name without
// its extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
