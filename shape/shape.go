// Package shape models the ordered field list of a type as seen by the
// loader/dumper pipeline, together with its policy for unmapped external data.
package shape

import (
	"reflect"

	"github.com/viant/xunsafe"
)

// ExtraPolicy controls what a shape does with unmapped external data.
type ExtraPolicy int

const (
	//ExtraSkip rejects extra-data collection targets
	ExtraSkip ExtraPolicy = iota
	//ExtraCollect accepts arbitrary unmapped external data into a target field
	ExtraCollect
)

type (
	//Field represents a single shape field
	Field struct {
		Name       string
		External   string
		Type       reflect.Type
		Required   bool
		Default    interface{}
		TimeLayout string
		Accessor   *xunsafe.Field
	}

	//Shape represents an ordered field list with an extra data policy
	Shape struct {
		Type       reflect.Type
		Fields     []Field
		Extra      ExtraPolicy
		ExtraField string
	}
)

// Field returns a field by name or nil
func (s *Shape) Field(name string) *Field {
	for i := range s.Fields {
		if s.Fields[i].Name == name {
			return &s.Fields[i]
		}
	}
	return nil
}

// Strip returns a shape copy without the supplied fields
func (s *Shape) Strip(skipped map[string]bool) Shape {
	if len(skipped) == 0 {
		return *s
	}
	result := Shape{Type: s.Type, Extra: s.Extra, ExtraField: s.ExtraField}
	for _, field := range s.Fields {
		if skipped[field.Name] {
			continue
		}
		result.Fields = append(result.Fields, field)
	}
	return result
}

// IsOptional returns true if the named field exists and is not required
func (s *Shape) IsOptional(name string) bool {
	field := s.Field(name)
	return field != nil && !field.Required
}
