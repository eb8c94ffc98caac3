package screens

// TagSelection is the set of tag ids picked on the search screen, kept in pick order.
type TagSelection struct {
	ids []int64
}

// Toggle adds id if absent and removes it if present.
func (s *TagSelection) Toggle(id int64) {
	for i, v := range s.ids {
		if v == id {
			s.ids = append(s.ids[:i:i], s.ids[i+1:]...)
			return
		}
	}
	s.ids = append(s.ids, id)
}

// Has reports whether id is selected.
func (s *TagSelection) Has(id int64) bool {
	for _, v := range s.ids {
		if v == id {
			return true
		}
	}
	return false
}

// IDs returns a copy of the selection in pick order.
func (s *TagSelection) IDs() []int64 {
	out := make([]int64, len(s.ids))
	copy(out, s.ids)
	return out
}

func (s *TagSelection) Len() int { return len(s.ids) }

func (s *TagSelection) Clear() { s.ids = nil }
