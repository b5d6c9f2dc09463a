package codegen

import (
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/viant/morph/provide"
	"github.com/viant/morph/trail"
	"github.com/viant/xunsafe"
)

// Hook inspects the generated source and captured namespace of a compiled
// unit; it is diagnostic only and never participates in control flow.
type Hook func(source string, namespace *ContextNamespace)

// StubHook ignores generated code
func StubHook(string, *ContextNamespace) {}

// DumpHook writes the generated source and a namespace dump to writer
func DumpHook(writer io.Writer) Hook {
	return func(source string, namespace *ContextNamespace) {
		fmt.Fprintln(writer, source)
		for _, name := range namespace.Names() {
			value, _ := namespace.Get(name)
			fmt.Fprintf(writer, "%s = %s", name, spew.Sdump(value))
		}
	}
}

// ClosureCompiler synthesizes emitted fragments and captured values into one
// callable unit. Fragments are produced only by the generators and are assumed
// well formed; an incomplete fragment indicates a generation defect and panics.
type ClosureCompiler struct{}

// NewClosureCompiler creates a compiler
func NewClosureCompiler() *ClosureCompiler {
	return &ClosureCompiler{}
}

// CompileLoader synthesizes extraction followed by creation into one loader
func (c *ClosureCompiler) CompileLoader(name string, binder *VarBinder, namespace *ContextNamespace,
	extraction ExtractFragment, creation CreateFragment, hook Hook) provide.Loader {
	if extraction.Run == nil || creation.Run == nil {
		panic("morph: compiling loader " + name + " from incomplete fragments")
	}
	if hook == nil {
		hook = StubHook
	}
	hook(renderClosure(name, extraction.Source, creation.Source), namespace)
	slots := binder.Slots()
	extract := extraction.Run
	create := creation.Run
	return func(value interface{}) (interface{}, error) {
		frame := newFrame(slots)
		if err := extract(value, frame); err != nil {
			return nil, err
		}
		return create(frame)
	}
}

// CompileDumper synthesizes a dump fragment into one dumper accepting the
// shape's struct type or a pointer to it
func (c *ClosureCompiler) CompileDumper(name string, rType reflect.Type, namespace *ContextNamespace,
	fragment DumpFragment, hook Hook) provide.Dumper {
	if fragment.Run == nil {
		panic("morph: compiling dumper " + name + " from incomplete fragments")
	}
	if hook == nil {
		hook = StubHook
	}
	hook(renderClosure(name, fragment.Source, ""), namespace)
	run := fragment.Run
	return func(value interface{}) (interface{}, error) {
		if value == nil {
			return nil, trail.NewError("cannot dump nil value")
		}
		valueType := reflect.TypeOf(value)
		base := valueType
		for base.Kind() == reflect.Ptr {
			base = base.Elem()
		}
		if base != rType {
			return nil, trail.NewErrorf("cannot dump %s as %s", valueType.String(), rType.String())
		}
		if valueType.Kind() == reflect.Ptr && reflect.ValueOf(value).IsNil() {
			return nil, trail.NewError("cannot dump nil value")
		}
		return run(xunsafe.AsPointer(value))
	}
}

func renderClosure(name string, sections ...string) string {
	builder := strings.Builder{}
	builder.WriteString("func " + name + "(data) {\n")
	for _, section := range sections {
		if section == "" {
			continue
		}
		for _, line := range strings.Split(strings.TrimRight(section, "\n"), "\n") {
			builder.WriteString("\t" + line + "\n")
		}
	}
	builder.WriteString("}\n")
	return builder.String()
}
