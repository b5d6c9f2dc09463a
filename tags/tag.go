package tags

import (
	"fmt"

	"github.com/viant/parsly"
)

// TagName defines the struct tag consumed by shape introspection.
const TagName = "morph"

// Tag represents a parsed morph field tag: "name[,option[,option...]]" with
// options omitempty, default=<literal>, extra; a leading "-" marks the field transient.
type Tag struct {
	Name       string
	OmitEmpty  bool
	HasDefault bool
	Default    string
	Extra      bool
	Transient  bool
}

// Parse parses a morph tag literal
func Parse(tagLiteral string) (*Tag, error) {
	result := &Tag{}
	if tagLiteral == "" {
		return result, nil
	}
	cursor := parsly.NewCursor("", []byte(tagLiteral), 0)
	result.Name = matchElement(cursor)
	if result.Name == "-" {
		result.Transient = true
		result.Name = ""
		return result, nil
	}
	for cursor.Pos < len(cursor.Input) {
		key, value := matchPair(cursor)
		switch key {
		case "":
		case "omitempty":
			result.OmitEmpty = true
		case "default":
			result.HasDefault = true
			result.Default = value
		case "extra":
			result.Extra = true
		default:
			return nil, fmt.Errorf("unsupported morph tag option: %q", key)
		}
	}
	return result, nil
}
