package trail

import "strconv"

// Segment represents one step of a load path, either a mapping key or a sequence index.
type Segment struct {
	key     string
	index   int
	isIndex bool
}

// Key creates a mapping key segment
func Key(key string) Segment {
	return Segment{key: key}
}

// Index creates a sequence index segment
func Index(index int) Segment {
	return Segment{index: index, isIndex: true}
}

// IsIndex returns true if segment addresses a sequence position
func (s Segment) IsIndex() bool {
	return s.isIndex
}

// String returns segment text representation
func (s Segment) String() string {
	if s.isIndex {
		return "[" + strconv.Itoa(s.index) + "]"
	}
	return s.key
}

// Path represents a sequence of segments from root to a failure.
type Path []Segment

// String returns dotted path representation, with indices rendered as [i]
func (p Path) String() string {
	if len(p) == 0 {
		return ""
	}
	result := ""
	for i, segment := range p {
		if i > 0 && !segment.isIndex {
			result += "."
		}
		result += segment.String()
	}
	return result
}
