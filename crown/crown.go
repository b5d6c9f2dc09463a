// Package crown describes how external mapping keys and sequence positions
// correspond to a shape's fields, independent of any field's converter.
package crown

import "github.com/viant/morph/shape"

type (
	//Crown represents a structural mapping node
	Crown interface {
		crown()
	}

	//Leaf maps an external position onto a single field
	Leaf struct {
		Field string
	}

	//Entry represents a dict crown child under an external key
	Entry struct {
		Key   string
		Child Crown
	}

	//Dict maps external mapping keys onto children, in declaration order;
	//Extra optionally names the field collecting unmapped keys
	Dict struct {
		Entries []Entry
		Extra   string
	}

	//List maps external sequence positions onto children;
	//Extra optionally names the field collecting trailing items
	List struct {
		Children []Crown
		Extra    string
	}
)

func (Leaf) crown() {}
func (Dict) crown() {}
func (List) crown() {}

// NewLeaf creates a leaf crown
func NewLeaf(field string) Leaf {
	return Leaf{Field: field}
}

// NewDict creates a dict crown
func NewDict(entries ...Entry) Dict {
	return Dict{Entries: entries}
}

// Key creates a dict crown entry
func Key(key string, child Crown) Entry {
	return Entry{Key: key, Child: child}
}

// NameMapping represents a validated shape/crown pairing; it is owned
// transiently by a single build and not retained.
type NameMapping struct {
	Shape shape.Shape
	Crown Crown
}

// MappedFields returns the set of fields referenced by leaves
func MappedFields(c Crown) map[string]bool {
	result := make(map[string]bool)
	walkLeaves(c, func(field string) {
		result[field] = true
	})
	return result
}

func walkLeaves(c Crown, visit func(field string)) {
	switch node := c.(type) {
	case Leaf:
		visit(node.Field)
	case Dict:
		for _, entry := range node.Entries {
			walkLeaves(entry.Child, visit)
		}
	case List:
		for _, child := range node.Children {
			walkLeaves(child, visit)
		}
	}
}

// ExtraTargets returns every extra target declared in the crown
func ExtraTargets(c Crown) []string {
	var result []string
	switch node := c.(type) {
	case Dict:
		if node.Extra != "" {
			result = append(result, node.Extra)
		}
		for _, entry := range node.Entries {
			result = append(result, ExtraTargets(entry.Child)...)
		}
	case List:
		if node.Extra != "" {
			result = append(result, node.Extra)
		}
		for _, child := range node.Children {
			result = append(result, ExtraTargets(child)...)
		}
	}
	return result
}
