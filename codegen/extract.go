package codegen

import (
	"github.com/viant/morph/crown"
	"github.com/viant/morph/provide"
	"github.com/viant/morph/shape"
	"github.com/viant/morph/trail"
)

// ExtractionGen emits the extraction fragment for a shape/crown pairing: a
// depth first crown walk that reads external data, applies per field loaders
// captured in the namespace and binds results into frame variables. Stateless,
// single use per build.
type ExtractionGen struct {
	Shape   shape.Shape
	Crown   crown.Crown
	Trail   trail.Level
	Loaders map[string]provide.Loader
}

// Generate emits the extraction fragment
func (g *ExtractionGen) Generate(binder *VarBinder, namespace *ContextNamespace) ExtractFragment {
	writer := &sourceWriter{}
	step := g.generateNode(g.Crown, binder, namespace, writer)
	return ExtractFragment{Source: writer.String(), Run: step}
}

func (g *ExtractionGen) generateNode(node crown.Crown, binder *VarBinder, namespace *ContextNamespace, writer *sourceWriter) ExtractStep {
	switch actual := node.(type) {
	case crown.Leaf:
		return g.generateRootLeaf(actual, binder, namespace, writer)
	case crown.Dict:
		return g.generateDict(actual, binder, namespace, writer)
	case crown.List:
		return g.generateList(actual, binder, namespace, writer)
	}
	panic("morph: unknown crown node")
}

// generateRootLeaf serves a crown that maps the whole document onto one field.
func (g *ExtractionGen) generateRootLeaf(leaf crown.Leaf, binder *VarBinder, namespace *ContextNamespace, writer *sourceWriter) ExtractStep {
	loader, fieldVar := g.bindLeaf(leaf.Field, binder, namespace)
	writer.line("%s = %s(data)", fieldVar.Name, g.loaderName(leaf.Field, binder))
	return func(data interface{}, frame *Frame) error {
		value, err := loader(data)
		if err != nil {
			return err
		}
		frame.bind(fieldVar, value)
		return nil
	}
}

func (g *ExtractionGen) generateDict(node crown.Dict, binder *VarBinder, namespace *ContextNamespace, writer *sourceWriter) ExtractStep {
	writer.line("m := data.(map[string]interface{})")
	children := make([]child, 0, len(node.Entries))
	mapped := make(map[string]bool, len(node.Entries))
	for _, entry := range node.Entries {
		mapped[entry.Key] = true
		if leaf, ok := entry.Child.(crown.Leaf); ok {
			children = append(children, child{
				segment: trail.Key(entry.Key),
				run:     g.generateDictLeaf(entry.Key, leaf, binder, namespace, writer),
			})
			continue
		}
		children = append(children, child{
			segment: trail.Key(entry.Key),
			run:     g.generateDictNested(entry.Key, entry.Child, binder, namespace, writer),
		})
	}
	var extraVar Var
	if node.Extra != "" {
		extraVar = binder.Field(node.Extra)
		writer.line("%s = unmapped keys of m", extraVar.Name)
	}
	extra := node.Extra
	level := g.Trail
	return func(data interface{}, frame *Frame) error {
		m, ok := data.(map[string]interface{})
		if !ok {
			return trail.NewErrorf("expected mapping, had %T", data)
		}
		if err := runChildren(level, data, frame, children); err != nil {
			return err
		}
		if extra != "" {
			collected := make(map[string]interface{})
			for key, value := range m {
				if !mapped[key] {
					collected[key] = value
				}
			}
			frame.bind(extraVar, collected)
		}
		return nil
	}
}

func (g *ExtractionGen) generateDictLeaf(key string, leaf crown.Leaf, binder *VarBinder, namespace *ContextNamespace, writer *sourceWriter) ExtractStep {
	field := g.Shape.Field(leaf.Field)
	loader, fieldVar := g.bindLeaf(leaf.Field, binder, namespace)
	loaderName := g.loaderName(leaf.Field, binder)
	writer.line("if raw, ok := m[%q]; ok {", key)
	writer.push()
	writer.line("%s = %s(raw)", fieldVar.Name, loaderName)
	writer.pop()
	if field.Required {
		writer.line("} else { fail missing %q }", key)
	} else {
		writer.line("} else { %s = default(%v) }", fieldVar.Name, field.Default)
	}
	required := field.Required
	defaultValue := field.Default
	return func(data interface{}, frame *Frame) error {
		raw, ok := data.(map[string]interface{})[key]
		if !ok {
			if required {
				return trail.NewError("missing required value")
			}
			frame.bind(fieldVar, defaultValue)
			return nil
		}
		value, err := loader(raw)
		if err != nil {
			return err
		}
		frame.bind(fieldVar, value)
		return nil
	}
}

func (g *ExtractionGen) generateDictNested(key string, node crown.Crown, binder *VarBinder, namespace *ContextNamespace, writer *sourceWriter) ExtractStep {
	writer.line("with m[%q]:", key)
	writer.push()
	nested := g.generateNode(node, binder, namespace, writer)
	writer.pop()
	return func(data interface{}, frame *Frame) error {
		raw, ok := data.(map[string]interface{})[key]
		if !ok {
			return trail.NewError("missing required value")
		}
		return nested(raw, frame)
	}
}

func (g *ExtractionGen) generateList(node crown.List, binder *VarBinder, namespace *ContextNamespace, writer *sourceWriter) ExtractStep {
	writer.line("items := data.([]interface{})")
	children := make([]child, 0, len(node.Children))
	for i, childNode := range node.Children {
		index := i
		if leaf, ok := childNode.(crown.Leaf); ok {
			loader, fieldVar := g.bindLeaf(leaf.Field, binder, namespace)
			writer.line("%s = %s(items[%d])", fieldVar.Name, g.loaderName(leaf.Field, binder), index)
			children = append(children, child{
				segment: trail.Index(index),
				run: func(data interface{}, frame *Frame) error {
					value, err := loader(data.([]interface{})[index])
					if err != nil {
						return err
					}
					frame.bind(fieldVar, value)
					return nil
				},
			})
			continue
		}
		writer.line("with items[%d]:", index)
		writer.push()
		nested := g.generateNode(childNode, binder, namespace, writer)
		writer.pop()
		children = append(children, child{
			segment: trail.Index(index),
			run: func(data interface{}, frame *Frame) error {
				return nested(data.([]interface{})[index], frame)
			},
		})
	}
	var extraVar Var
	if node.Extra != "" {
		extraVar = binder.Field(node.Extra)
		writer.line("%s = items[%d:]", extraVar.Name, len(node.Children))
	}
	extra := node.Extra
	level := g.Trail
	size := len(node.Children)
	return func(data interface{}, frame *Frame) error {
		items, ok := data.([]interface{})
		if !ok {
			return trail.NewErrorf("expected sequence, had %T", data)
		}
		if len(items) < size {
			return trail.NewErrorf("expected at least %d items, had %d", size, len(items))
		}
		if len(items) > size && extra == "" {
			return trail.NewErrorf("expected %d items, had %d", size, len(items))
		}
		if err := runChildren(level, data, frame, children); err != nil {
			return err
		}
		if extra != "" {
			tail := make([]interface{}, len(items)-size)
			copy(tail, items[size:])
			frame.bind(extraVar, tail)
		}
		return nil
	}
}

func (g *ExtractionGen) bindLeaf(field string, binder *VarBinder, namespace *ContextNamespace) (provide.Loader, Var) {
	loader, ok := g.Loaders[field]
	if !ok {
		panic("morph: no loader resolved for field " + field)
	}
	fieldVar := binder.Field(field)
	name := g.loaderName(field, binder)
	if _, bound := namespace.Get(name); !bound {
		namespace.Add(name, loader)
	}
	return loader, fieldVar
}

func (g *ExtractionGen) loaderName(field string, binder *VarBinder) string {
	return "ld_" + binder.Field(field).Name
}
