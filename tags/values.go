package tags

import "github.com/viant/parsly"

// Pair represents a key[=value] tag attribute.
type Pair struct {
	Key   string
	Value string
}

// Pairs parses a comma separated attribute literal into key/value pairs
func Pairs(literal string) []Pair {
	if literal == "" {
		return nil
	}
	cursor := parsly.NewCursor("", []byte(literal), 0)
	var pairs []Pair
	for cursor.Pos < len(cursor.Input) {
		key, value := matchPair(cursor)
		if key == "" && value == "" {
			continue
		}
		pairs = append(pairs, Pair{Key: key, Value: value})
	}
	return pairs
}
