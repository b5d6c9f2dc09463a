// Package codegen synthesizes compiled loaders and dumpers: generators walk a
// crown emitting executable fragments and a source listing, a shared binder
// keeps emitted variable names collision free, and a namespace captures the
// runtime values the fragments close over.
package codegen

import "strconv"

// Var represents a bound variable: a unique name in the emitted source and a
// frame slot holding its runtime value.
type Var struct {
	Name string
	Slot int
}

// VarBinder issues unique variable names shared across extraction and creation
// fragments; one binder serves exactly one build.
type VarBinder struct {
	taken  map[string]struct{}
	fields map[string]Var
	slots  int
}

// NewVarBinder creates a binder
func NewVarBinder() *VarBinder {
	return &VarBinder{
		taken:  make(map[string]struct{}),
		fields: make(map[string]Var),
	}
}

// BindName reserves a unique name derived from stem
func (b *VarBinder) BindName(stem string) string {
	name := stem
	for i := 2; ; i++ {
		if _, ok := b.taken[name]; !ok {
			break
		}
		name = stem + strconv.Itoa(i)
	}
	b.taken[name] = struct{}{}
	return name
}

// Bind reserves a unique name and allocates a frame slot for it
func (b *VarBinder) Bind(stem string) Var {
	result := Var{Name: b.BindName(stem), Slot: b.slots}
	b.slots++
	return result
}

// Field returns the variable bound to a field, allocating it on first use so
// extraction and creation fragments agree on one binding per field.
func (b *VarBinder) Field(name string) Var {
	if bound, ok := b.fields[name]; ok {
		return bound
	}
	bound := b.Bind("f_" + name)
	b.fields[name] = bound
	return bound
}

// Slots returns the number of allocated frame slots
func (b *VarBinder) Slots() int {
	return b.slots
}
