package provide

import (
	"reflect"

	"github.com/viant/morph/trail"
)

// Settings represents conversion settings fixed at build time.
type Settings struct {
	StrictCoercion bool
	Trail          trail.Level
}

// LoaderRequest asks for a compiled loader for a type.
type LoaderRequest struct {
	Type     reflect.Type
	Settings Settings
}

// DumperRequest asks for a compiled dumper for a type.
type DumperRequest struct {
	Type     reflect.Type
	Settings Settings
}

// FieldLoaderRequest asks for a loader for a single field's type.
type FieldLoaderRequest struct {
	Type       reflect.Type
	Field      string
	TimeLayout string
	Settings   Settings
}

// FieldDumperRequest asks for a dumper for a single field's type.
type FieldDumperRequest struct {
	Type       reflect.Type
	Field      string
	TimeLayout string
	Settings   Settings
}

// ShapeRequest asks for the ordered field list of a type.
type ShapeRequest struct {
	Type reflect.Type
}

// CrownRequest asks for the structural mapping of a type.
type CrownRequest struct {
	Type reflect.Type
}

// CodeGenHookRequest asks for an optional diagnostic hook invoked with the
// generated source and namespace; absence is expected and substituted with a stub.
type CodeGenHookRequest struct{}

func (LoaderRequest) request()      {}
func (DumperRequest) request()      {}
func (FieldLoaderRequest) request() {}
func (FieldDumperRequest) request() {}
func (ShapeRequest) request()       {}
func (CrownRequest) request()       {}
func (CodeGenHookRequest) request() {}

// ProvideLoader resolves a loader request with a typed result
func ProvideLoader(mediator Mediator, request Request) (Loader, error) {
	result, err := mediator.Provide(request)
	if err != nil {
		return nil, err
	}
	return result.(Loader), nil
}

// ProvideDumper resolves a dumper request with a typed result
func ProvideDumper(mediator Mediator, request Request) (Dumper, error) {
	result, err := mediator.Provide(request)
	if err != nil {
		return nil, err
	}
	return result.(Dumper), nil
}
