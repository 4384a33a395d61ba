// Package freeshow renders songs into the presentation slide-document
// JSON consumed by the projection software.
package freeshow

// Document is the top-level slide document: song metadata plus one
// slide group per section.
type Document struct {
	Metadata    map[string]string `json:"metadata"`
	SlideGroups []SlideGroup      `json:"slideGroups"`
}

// SlideGroup is the presentation unit for one section.
type SlideGroup struct {
	// ID is the section index within the song, as a string.
	ID string `json:"id"`

	// Kind is the section kind ("verse", "chorus", ...).
	Kind string `json:"kind"`

	// Label is the human-readable group label ("verse 2", "Refrain").
	Label string `json:"label,omitempty"`

	// Color is the hex color for the group, or "" for unmapped kinds.
	Color string `json:"color"`

	// ReuseOf points at the canonical group this one repeats. Present
	// only in deduplicated output.
	ReuseOf string `json:"reuseOf,omitempty"`

	// Slides carry the lyric text. Empty for reuse groups.
	Slides []Slide `json:"slides,omitempty"`
}

// Slide is one projected screen of lyrics.
type Slide struct {
	Text  string `json:"text"`
	Style Style  `json:"style"`
}

// Style is the uniform slide styling taken verbatim from configuration.
type Style struct {
	FontSize int    `json:"fontSize"`
	Box      string `json:"box"`
}
