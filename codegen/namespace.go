package codegen

import "fmt"

// ContextNamespace maps generated variable names to captured runtime values,
// such as previously compiled nested loaders. It is built incrementally during
// generation and consumed wholesale by the compiler.
type ContextNamespace struct {
	names  []string
	values map[string]interface{}
}

// NewContextNamespace creates a namespace
func NewContextNamespace() *ContextNamespace {
	return &ContextNamespace{values: make(map[string]interface{})}
}

// Add captures a value under a name; rebinding a name is a generation defect
func (n *ContextNamespace) Add(name string, value interface{}) {
	if _, ok := n.values[name]; ok {
		panic(fmt.Sprintf("morph: namespace name %q bound twice", name))
	}
	n.names = append(n.names, name)
	n.values[name] = value
}

// Get returns a captured value
func (n *ContextNamespace) Get(name string) (interface{}, bool) {
	value, ok := n.values[name]
	return value, ok
}

// Names returns captured names in insertion order
func (n *ContextNamespace) Names() []string {
	return n.names
}

// Len returns the number of captured values
func (n *ContextNamespace) Len() int {
	return len(n.names)
}
