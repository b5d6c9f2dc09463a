package model

import (
	"reflect"

	"github.com/viant/morph/codegen"
	"github.com/viant/morph/provide"
)

// DumperProvider answers dumper requests for struct shaped types.
type DumperProvider struct{}

// NewDumperProvider creates a model dumper provider
func NewDumperProvider() *DumperProvider {
	return &DumperProvider{}
}

// Provide implements provide.Provider
func (p *DumperProvider) Provide(mediator provide.Mediator, request provide.Request) (interface{}, error) {
	var req provide.DumperRequest
	switch actual := request.(type) {
	case provide.DumperRequest:
		req = actual
	case provide.FieldDumperRequest:
		req = provide.DumperRequest{Type: actual.Type, Settings: actual.Settings}
	default:
		return nil, provide.ErrCannotProvide
	}
	base := derefType(req.Type)
	if base.Kind() != reflect.Struct || base == timeType {
		return nil, provide.ErrCannotProvide
	}
	req.Type = base

	scope := scopeOf(mediator)
	if cell, ok := scope.dumpers[req]; ok {
		return cell.dumper(), nil
	}
	cell := &lazyCell{}
	scope.dumpers[req] = cell
	defer delete(scope.dumpers, req)

	dumper, err := p.buildDumper(scope, req)
	if err != nil {
		return nil, err
	}
	cell.set(dumper)
	return dumper, nil
}

func (p *DumperProvider) buildDumper(mediator provide.Mediator, req provide.DumperRequest) (provide.Dumper, error) {
	mapping, err := fetchMapping(mediator, req.Type)
	if err != nil {
		return nil, err
	}
	reduced := mapping.Shape.Strip(mapping.Skipped())

	targets := targetSet(mapping.Crown)
	dumpers := make(map[string]provide.Dumper, len(reduced.Fields))
	for _, field := range reduced.Fields {
		if targets[field.Name] {
			continue
		}
		dumper, err := provide.ProvideDumper(mediator, provide.FieldDumperRequest{
			Type:       field.Type,
			Field:      field.Name,
			TimeLayout: field.TimeLayout,
			Settings:   req.Settings,
		})
		if err != nil {
			return nil, err
		}
		dumpers[field.Name] = dumper
	}

	hook, err := codeGenHook(mediator)
	if err != nil {
		return nil, err
	}
	binder := codegen.NewVarBinder()
	namespace := codegen.NewContextNamespace()
	dumpGen := codegen.DumpGen{
		Shape:   reduced,
		Crown:   mapping.Crown,
		Trail:   req.Settings.Trail,
		Dumpers: dumpers,
	}
	fragment := dumpGen.Generate(binder, namespace)
	compiler := codegen.NewClosureCompiler()
	return compiler.CompileDumper(closureName("model_dumper", req.Type), reduced.Type, namespace, fragment, hook), nil
}
