package song

import (
	"encoding/hex"
	"strings"

	"github.com/zeebo/blake3"
	"golang.org/x/text/unicode/norm"
)

// NormalizedContent returns the dedup view of a section: the ordered
// lyric-only text of its lines, chords stripped, each line's whitespace
// collapsed to single spaces, NFC-normalized so composed and decomposed
// accents compare equal. An empty section normalizes to "".
func NormalizedContent(sec *Section) string {
	var b strings.Builder
	for i := range sec.Lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strings.Join(strings.Fields(sec.Lines[i].LyricText()), " "))
	}
	return norm.NFC.String(b.String())
}

// ContentKey returns the BLAKE3 content key a section is grouped under:
// a hash over the kind and the normalized lyric content. Two sections
// with identical lyrics but different chords share a key.
func ContentKey(sec *Section) string {
	h := blake3.New()
	h.Write([]byte(sec.Kind))
	h.Write([]byte{0})
	h.Write([]byte(NormalizedContent(sec)))
	return hex.EncodeToString(h.Sum(nil))
}

// SongKey returns a BLAKE3 key over the whole song body: the ordered
// content keys of its sections. Songs whose sections all match share a
// key regardless of chords or metadata.
func SongKey(s *Song) string {
	h := blake3.New()
	for _, sec := range s.Sections {
		h.Write([]byte(ContentKey(sec)))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// ShortID returns a short BLAKE3-derived identifier for arbitrary text.
// Used for stable slide and layout IDs in presentation output.
func ShortID(text string) string {
	sum := blake3.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])[:11]
}
