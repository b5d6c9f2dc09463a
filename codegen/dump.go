package codegen

import (
	"unsafe"

	"github.com/viant/morph/crown"
	"github.com/viant/morph/provide"
	"github.com/viant/morph/shape"
	"github.com/viant/morph/trail"
	"github.com/viant/xunsafe"
)

// DumpGen emits the dump fragment for a shape/crown pairing: the inverse crown
// walk that reads fields through their accessors, applies per field dumpers and
// assembles the external representation. Stateless, single use per build.
type DumpGen struct {
	Shape   shape.Shape
	Crown   crown.Crown
	Trail   trail.Level
	Dumpers map[string]provide.Dumper
}

// Generate emits the dump fragment
func (g *DumpGen) Generate(binder *VarBinder, namespace *ContextNamespace) DumpFragment {
	writer := &sourceWriter{}
	step := g.generateNode(g.Crown, binder, namespace, writer)
	return DumpFragment{Source: writer.String(), Run: step}
}

func (g *DumpGen) generateNode(node crown.Crown, binder *VarBinder, namespace *ContextNamespace, writer *sourceWriter) DumpStep {
	switch actual := node.(type) {
	case crown.Leaf:
		return g.generateLeaf(actual, binder, namespace, writer)
	case crown.Dict:
		return g.generateDict(actual, binder, namespace, writer)
	case crown.List:
		return g.generateList(actual, binder, namespace, writer)
	}
	panic("morph: unknown crown node")
}

func (g *DumpGen) generateLeaf(leaf crown.Leaf, binder *VarBinder, namespace *ContextNamespace, writer *sourceWriter) DumpStep {
	field := g.Shape.Field(leaf.Field)
	dumper, ok := g.Dumpers[leaf.Field]
	if !ok {
		panic("morph: no dumper resolved for field " + leaf.Field)
	}
	name := "dm_" + binder.Field(leaf.Field).Name
	if _, bound := namespace.Get(name); !bound {
		namespace.Add(name, dumper)
	}
	writer.line("%s(target.%s)", name, field.Name)
	accessor := field.Accessor
	return func(ptr unsafe.Pointer) (interface{}, error) {
		return dumper(accessor.Value(ptr))
	}
}

func (g *DumpGen) generateDict(node crown.Dict, binder *VarBinder, namespace *ContextNamespace, writer *sourceWriter) DumpStep {
	writer.line("m := make(map[string]interface{}, %d)", len(node.Entries))
	type dictChild struct {
		key string
		run DumpStep
	}
	children := make([]dictChild, 0, len(node.Entries))
	for _, entry := range node.Entries {
		writer.line("m[%q] =", entry.Key)
		writer.push()
		children = append(children, dictChild{key: entry.Key, run: g.generateNode(entry.Child, binder, namespace, writer)})
		writer.pop()
	}
	var extraAccessor = g.extraAccessor(node.Extra, writer, "m[unmapped] <- target.%s")
	level := g.Trail
	return func(ptr unsafe.Pointer) (interface{}, error) {
		m := make(map[string]interface{}, len(children))
		var failures []*trail.LoadError
		for i := range children {
			value, err := children[i].run(ptr)
			if err != nil {
				switch level {
				case trail.Disabled:
					return nil, err
				case trail.First:
					return nil, trail.Annotate(err, trail.Key(children[i].key))
				default:
					failures = append(failures, trail.Annotate(err, trail.Key(children[i].key)))
					continue
				}
			}
			m[children[i].key] = value
		}
		if len(failures) > 0 {
			return nil, trail.Aggregate(failures)
		}
		if extraAccessor != nil {
			if extra, ok := extraAccessor.Value(ptr).(map[string]interface{}); ok {
				for key, value := range extra {
					if _, taken := m[key]; !taken {
						m[key] = value
					}
				}
			}
		}
		return m, nil
	}
}

func (g *DumpGen) generateList(node crown.List, binder *VarBinder, namespace *ContextNamespace, writer *sourceWriter) DumpStep {
	writer.line("items := make([]interface{}, %d)", len(node.Children))
	children := make([]DumpStep, 0, len(node.Children))
	for i, childNode := range node.Children {
		writer.line("items[%d] =", i)
		writer.push()
		children = append(children, g.generateNode(childNode, binder, namespace, writer))
		writer.pop()
	}
	var extraAccessor = g.extraAccessor(node.Extra, writer, "items <- append target.%s")
	level := g.Trail
	return func(ptr unsafe.Pointer) (interface{}, error) {
		items := make([]interface{}, len(children))
		var failures []*trail.LoadError
		for i := range children {
			value, err := children[i](ptr)
			if err != nil {
				switch level {
				case trail.Disabled:
					return nil, err
				case trail.First:
					return nil, trail.Annotate(err, trail.Index(i))
				default:
					failures = append(failures, trail.Annotate(err, trail.Index(i)))
					continue
				}
			}
			items[i] = value
		}
		if len(failures) > 0 {
			return nil, trail.Aggregate(failures)
		}
		if extraAccessor != nil {
			if extra, ok := extraAccessor.Value(ptr).([]interface{}); ok {
				items = append(items, extra...)
			}
		}
		return items, nil
	}
}

func (g *DumpGen) extraAccessor(extra string, writer *sourceWriter, format string) *xunsafe.Field {
	if extra == "" {
		return nil
	}
	field := g.Shape.Field(extra)
	if field == nil {
		panic("morph: unknown extra target " + extra)
	}
	writer.line(format, field.Name)
	return field.Accessor
}
