package song

// DuplicateGroup records a set of sections sharing the same kind and
// normalized lyric content. Members are indices into the song's section
// list; the canonical member is always the lowest index.
type DuplicateGroup struct {
	// Key is the content key the group formed under.
	Key string `json:"key"`

	// Canonical is the section index of the first occurrence.
	Canonical int `json:"canonical"`

	// Members are all section indices in the group, canonical included,
	// in document order.
	Members []int `json:"members"`
}

// Deduplicate groups the song's sections by content key and marks later
// members of each group as references to the canonical first occurrence.
// Sections are never moved or removed; only Groups and the per-section
// RefIndex are written. Computed once per song, after normalization and
// enrichment, before serialization.
func Deduplicate(s *Song) {
	byKey := make(map[string]int) // content key -> group index
	s.Groups = nil

	for i, sec := range s.Sections {
		sec.RefIndex = -1
		key := ContentKey(sec)

		gi, ok := byKey[key]
		if !ok {
			byKey[key] = len(s.Groups)
			s.Groups = append(s.Groups, DuplicateGroup{
				Key:       key,
				Canonical: i,
				Members:   []int{i},
			})
			continue
		}

		g := &s.Groups[gi]
		g.Members = append(g.Members, i)
		sec.RefIndex = g.Canonical
	}
}

// DuplicateCount returns how many sections are references to an
// earlier canonical section.
func (s *Song) DuplicateCount() int {
	n := 0
	for _, sec := range s.Sections {
		if sec.IsReference() {
			n++
		}
	}
	return n
}
