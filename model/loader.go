// Package model builds compiled loaders and dumpers for struct shaped types:
// it fetches the shape and crown, validates their pairing, recursively resolves
// per field converters and hands the result to the code generation engine.
package model

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/viant/morph/codegen"
	"github.com/viant/morph/crown"
	"github.com/viant/morph/provide"
	"github.com/viant/morph/shape"
)

var timeType = reflect.TypeOf(time.Time{})

// LoaderProvider answers loader requests for struct shaped types.
type LoaderProvider struct{}

// NewLoaderProvider creates a model loader provider
func NewLoaderProvider() *LoaderProvider {
	return &LoaderProvider{}
}

// Provide implements provide.Provider
func (p *LoaderProvider) Provide(mediator provide.Mediator, request provide.Request) (interface{}, error) {
	var req provide.LoaderRequest
	switch actual := request.(type) {
	case provide.LoaderRequest:
		req = actual
	case provide.FieldLoaderRequest:
		req = provide.LoaderRequest{Type: actual.Type, Settings: actual.Settings}
	default:
		return nil, provide.ErrCannotProvide
	}
	base := derefType(req.Type)
	if base.Kind() != reflect.Struct || base == timeType {
		return nil, provide.ErrCannotProvide
	}
	req.Type = base

	scope := scopeOf(mediator)
	if cell, ok := scope.loaders[req]; ok {
		//this very request is being built further up the stack of the same build
		return cell.loader(), nil
	}
	cell := &lazyCell{}
	scope.loaders[req] = cell
	defer delete(scope.loaders, req)

	loader, err := p.buildLoader(scope, req)
	if err != nil {
		return nil, err
	}
	cell.set(loader)
	return loader, nil
}

func (p *LoaderProvider) buildLoader(mediator provide.Mediator, req provide.LoaderRequest) (provide.Loader, error) {
	mapping, err := fetchMapping(mediator, req.Type)
	if err != nil {
		return nil, err
	}
	reduced := mapping.Shape.Strip(mapping.Skipped())

	targets := targetSet(mapping.Crown)
	loaders := make(map[string]provide.Loader, len(reduced.Fields))
	for _, field := range reduced.Fields {
		if targets[field.Name] {
			continue
		}
		loader, err := provide.ProvideLoader(mediator, provide.FieldLoaderRequest{
			Type:       field.Type,
			Field:      field.Name,
			TimeLayout: field.TimeLayout,
			Settings:   req.Settings,
		})
		if err != nil {
			return nil, err
		}
		loaders[field.Name] = loader
	}

	hook, err := codeGenHook(mediator)
	if err != nil {
		return nil, err
	}
	binder := codegen.NewVarBinder()
	namespace := codegen.NewContextNamespace()
	extractionGen := codegen.ExtractionGen{
		Shape:   reduced,
		Crown:   mapping.Crown,
		Trail:   req.Settings.Trail,
		Loaders: loaders,
	}
	extraction := extractionGen.Generate(binder, namespace)
	creationGen := codegen.CreationGen{Shape: reduced}
	creation := creationGen.Generate(binder, namespace)
	compiler := codegen.NewClosureCompiler()
	return compiler.CompileLoader(closureName("model_loader", req.Type), binder, namespace, extraction, creation, hook), nil
}

// fetchMapping resolves the shape and crown for a type and validates their
// pairing; validation failures abort the build before any recursive resolution.
func fetchMapping(mediator provide.Mediator, rType reflect.Type) (*crown.NameMapping, error) {
	resolvedShape, err := mediator.Provide(provide.ShapeRequest{Type: rType})
	if err != nil {
		return nil, err
	}
	resolvedCrown, err := mediator.Provide(provide.CrownRequest{Type: rType})
	if err != nil {
		return nil, err
	}
	return crown.NewNameMapping(resolvedShape.(shape.Shape), resolvedCrown.(crown.Crown))
}

// codeGenHook treats the hook provider as optional: only the inapplicability
// signal is substituted with a stub, any other failure propagates.
func codeGenHook(mediator provide.Mediator) (codegen.Hook, error) {
	resolved, err := mediator.Provide(provide.CodeGenHookRequest{})
	if err != nil {
		if errors.Is(err, provide.ErrCannotProvide) {
			return codegen.StubHook, nil
		}
		return nil, err
	}
	return resolved.(codegen.Hook), nil
}

func targetSet(c crown.Crown) map[string]bool {
	result := make(map[string]bool)
	for _, target := range crown.ExtraTargets(c) {
		result[target] = true
	}
	return result
}

func derefType(rType reflect.Type) reflect.Type {
	for rType.Kind() == reflect.Ptr {
		rType = rType.Elem()
	}
	return rType
}

func closureName(prefix string, rType reflect.Type) string {
	name := rType.String()
	sanitized := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		}
		return '_'
	}, name)
	return prefix + "_" + sanitized
}
