package codegen

import "unsafe"

// Frame holds per invocation variable bindings addressed by binder slots.
type Frame struct {
	vars []interface{}
	set  []bool
}

func newFrame(slots int) *Frame {
	return &Frame{vars: make([]interface{}, slots), set: make([]bool, slots)}
}

func (f *Frame) bind(v Var, value interface{}) {
	f.vars[v.Slot] = value
	f.set[v.Slot] = true
}

func (f *Frame) value(v Var) (interface{}, bool) {
	return f.vars[v.Slot], f.set[v.Slot]
}

type (
	//ExtractStep reads external data, binding extracted values into the frame
	ExtractStep func(data interface{}, frame *Frame) error

	//CreateStep builds the target instance from frame bindings
	CreateStep func(frame *Frame) (interface{}, error)

	//DumpStep builds external data from a struct pointer
	DumpStep func(ptr unsafe.Pointer) (interface{}, error)

	//ExtractFragment represents an emitted extraction unit
	ExtractFragment struct {
		Source string
		Run    ExtractStep
	}

	//CreateFragment represents an emitted creation unit
	CreateFragment struct {
		Source string
		Run    CreateStep
	}

	//DumpFragment represents an emitted dump unit
	DumpFragment struct {
		Source string
		Run    DumpStep
	}
)
