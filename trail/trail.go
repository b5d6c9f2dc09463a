package trail

// Level controls how much path information load failures carry.
type Level int

const (
	//Disabled propagates the first failure immediately, without path annotation
	Disabled Level = iota
	//First annotates the first failing child with its path segment and stops
	First
	//All evaluates every child, collecting all failures annotated with their path segments
	All
)

// String returns level text representation
func (l Level) String() string {
	switch l {
	case Disabled:
		return "disabled"
	case First:
		return "first"
	case All:
		return "all"
	}
	return "unknown"
}
