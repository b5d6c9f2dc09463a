package codegen

import (
	"reflect"

	"github.com/viant/morph/shape"
	"github.com/viant/xunsafe"
)

// CreationGen emits the creation fragment: it builds a new instance of the
// shape's type and assigns frame bindings to fields in declaration order.
// Stateless, single use per build.
type CreationGen struct {
	Shape shape.Shape
}

type fieldAssign struct {
	fieldVar  Var
	fieldType reflect.Type
	accessor  *xunsafe.Field
}

// fieldValue unwraps a pointer produced by a nested loader when the field
// holds the value itself.
func (a *fieldAssign) fieldValue(value interface{}) (interface{}, bool) {
	rv := reflect.ValueOf(value)
	if rv.Type() == a.fieldType {
		return value, true
	}
	if rv.Kind() == reflect.Ptr && rv.Type().Elem() == a.fieldType {
		if rv.IsNil() {
			return nil, false
		}
		return rv.Elem().Interface(), true
	}
	return value, true
}

// Generate emits the creation fragment
func (g *CreationGen) Generate(binder *VarBinder, namespace *ContextNamespace) CreateFragment {
	writer := &sourceWriter{}
	rType := g.Shape.Type
	writer.line("target := new(%s)", rType.String())
	assigns := make([]fieldAssign, 0, len(g.Shape.Fields))
	for _, field := range g.Shape.Fields {
		fieldVar := binder.Field(field.Name)
		writer.line("target.%s = %s", field.Name, fieldVar.Name)
		assigns = append(assigns, fieldAssign{fieldVar: fieldVar, fieldType: field.Type, accessor: field.Accessor})
	}
	writer.line("return target")
	return CreateFragment{
		Source: writer.String(),
		Run: func(frame *Frame) (interface{}, error) {
			instance := reflect.New(rType).Interface()
			ptr := xunsafe.AsPointer(instance)
			for i := range assigns {
				value, ok := frame.value(assigns[i].fieldVar)
				if !ok || value == nil {
					continue
				}
				value, ok = assigns[i].fieldValue(value)
				if !ok {
					continue
				}
				assigns[i].accessor.SetValue(ptr, value)
			}
			return instance, nil
		},
	}
}
