package crown

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/viant/morph/shape"
)

var (
	extraMapType   = reflect.TypeOf(map[string]interface{}{})
	extraSliceType = reflect.TypeOf([]interface{}{})
)

// ConfigError reports a structurally invalid shape/crown pairing. Each category
// carries its complete violation set so a single failure surfaces every problem.
type ConfigError struct {
	SkippedRequired []string
	ExtraTargets    []string
	OptionalAtList  []string
	UnknownFields   []string
	Duplicates      []string
	DuplicateExtras []string
	MappedExtras    []string
}

// Error returns error text listing every violated category with its full set
func (e *ConfigError) Error() string {
	var parts []string
	if len(e.SkippedRequired) > 0 {
		parts = append(parts, fmt.Sprintf("required fields %v are not mapped", e.SkippedRequired))
	}
	if len(e.ExtraTargets) > 0 {
		parts = append(parts, fmt.Sprintf("extra targets %v cannot collect unmapped data", e.ExtraTargets))
	}
	if len(e.OptionalAtList) > 0 {
		parts = append(parts, fmt.Sprintf("optional fields %v cannot occupy list positions", e.OptionalAtList))
	}
	if len(e.UnknownFields) > 0 {
		parts = append(parts, fmt.Sprintf("crown references unknown fields %v", e.UnknownFields))
	}
	if len(e.Duplicates) > 0 {
		parts = append(parts, fmt.Sprintf("fields %v are mapped more than once", e.Duplicates))
	}
	if len(e.DuplicateExtras) > 0 {
		parts = append(parts, fmt.Sprintf("extra targets %v are declared more than once", e.DuplicateExtras))
	}
	if len(e.MappedExtras) > 0 {
		parts = append(parts, fmt.Sprintf("extra targets %v are also mapped as regular fields", e.MappedExtras))
	}
	return "invalid crown: " + strings.Join(parts, "; ")
}

func (e *ConfigError) isEmpty() bool {
	return len(e.SkippedRequired) == 0 && len(e.ExtraTargets) == 0 && len(e.OptionalAtList) == 0 &&
		len(e.UnknownFields) == 0 && len(e.Duplicates) == 0 && len(e.DuplicateExtras) == 0 &&
		len(e.MappedExtras) == 0
}

// SkippedRequired returns all required fields with no corresponding leaf
func SkippedRequired(aShape *shape.Shape, c Crown) []string {
	mapped := MappedFields(c)
	var result []string
	for _, field := range aShape.Fields {
		if field.Required && !mapped[field.Name] {
			result = append(result, field.Name)
		}
	}
	return result
}

// ExtraTargetsWithoutPolicy returns all extra targets that cannot collect
// unmapped data: the shape does not collect extra data, or the target field's
// type does not suit the container kind (map[string]interface{} for dicts,
// []interface{} for lists)
func ExtraTargetsWithoutPolicy(aShape *shape.Shape, c Crown) []string {
	var result []string
	var walk func(node Crown)
	walk = func(node Crown) {
		switch actual := node.(type) {
		case Dict:
			if actual.Extra != "" && !extraTargetFits(aShape, actual.Extra, extraMapType) {
				result = append(result, actual.Extra)
			}
			for _, entry := range actual.Entries {
				walk(entry.Child)
			}
		case List:
			if actual.Extra != "" && !extraTargetFits(aShape, actual.Extra, extraSliceType) {
				result = append(result, actual.Extra)
			}
			for _, child := range actual.Children {
				walk(child)
			}
		}
	}
	walk(c)
	return result
}

// extraTargetFits reports whether a target can collect the container's extra
// kind; unknown target fields are reported by UnknownFields, not here.
func extraTargetFits(aShape *shape.Shape, target string, rType reflect.Type) bool {
	if aShape.Extra != shape.ExtraCollect {
		return false
	}
	field := aShape.Field(target)
	return field == nil || field.Type == rType
}

// OptionalAtList returns all optional fields occupying list positions; positional
// absence is ambiguous, so the combination is rejected
func OptionalAtList(aShape *shape.Shape, c Crown) []string {
	var result []string
	var walk func(node Crown)
	walk = func(node Crown) {
		switch actual := node.(type) {
		case Dict:
			for _, entry := range actual.Entries {
				walk(entry.Child)
			}
		case List:
			for _, child := range actual.Children {
				if leaf, ok := child.(Leaf); ok {
					if aShape.IsOptional(leaf.Field) {
						result = append(result, leaf.Field)
					}
					continue
				}
				walk(child)
			}
		}
	}
	walk(c)
	return result
}

// UnknownFields returns all leaves referencing fields absent from the shape
func UnknownFields(aShape *shape.Shape, c Crown) []string {
	var result []string
	walkLeaves(c, func(field string) {
		if aShape.Field(field) == nil {
			result = append(result, field)
		}
	})
	for _, target := range ExtraTargets(c) {
		if aShape.Field(target) == nil {
			result = append(result, target)
		}
	}
	return result
}

// Duplicates returns all fields referenced by more than one leaf
func Duplicates(c Crown) []string {
	seen := make(map[string]int)
	walkLeaves(c, func(field string) {
		seen[field]++
	})
	var result []string
	walkLeaves(c, func(field string) {
		if seen[field] > 1 {
			result = append(result, field)
			seen[field] = 0
		}
	})
	return result
}

// DuplicateExtras returns all extra targets declared by more than one
// container; a later collection would silently overwrite an earlier one
func DuplicateExtras(c Crown) []string {
	seen := make(map[string]int)
	for _, target := range ExtraTargets(c) {
		seen[target]++
	}
	var result []string
	for _, target := range ExtraTargets(c) {
		if seen[target] > 1 {
			result = append(result, target)
			seen[target] = 0
		}
	}
	return result
}

// MappedExtras returns all extra targets that are also mapped by a leaf
func MappedExtras(c Crown) []string {
	mapped := MappedFields(c)
	var result []string
	for _, target := range ExtraTargets(c) {
		if mapped[target] {
			result = append(result, target)
		}
	}
	return result
}

// Validate runs every structural check, merging complete violation sets into a
// single configuration error
func Validate(aShape *shape.Shape, c Crown) error {
	result := &ConfigError{
		SkippedRequired: SkippedRequired(aShape, c),
		ExtraTargets:    ExtraTargetsWithoutPolicy(aShape, c),
		OptionalAtList:  OptionalAtList(aShape, c),
		UnknownFields:   UnknownFields(aShape, c),
		Duplicates:      Duplicates(c),
		DuplicateExtras: DuplicateExtras(c),
		MappedExtras:    MappedExtras(c),
	}
	if result.isEmpty() {
		return nil
	}
	return result
}

// NewNameMapping validates a shape/crown pairing
func NewNameMapping(aShape shape.Shape, c Crown) (*NameMapping, error) {
	if err := Validate(&aShape, c); err != nil {
		return nil, err
	}
	return &NameMapping{Shape: aShape, Crown: c}, nil
}

// Skipped returns fields deliberately excluded by the mapping: neither
// referenced by a leaf nor used as an extra target
func (m *NameMapping) Skipped() map[string]bool {
	mapped := MappedFields(m.Crown)
	for _, target := range ExtraTargets(m.Crown) {
		mapped[target] = true
	}
	result := make(map[string]bool)
	for _, field := range m.Shape.Fields {
		if !mapped[field.Name] {
			result[field.Name] = true
		}
	}
	return result
}
