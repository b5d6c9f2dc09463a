package model

import "github.com/viant/morph/provide"

// buildScope threads the registry of units under construction through a single
// build, the way the binder and namespace are threaded through generation.
// Cyclic types resolve against forward reference cells owned by this build
// only; a concurrent build for the same type never observes them.
type buildScope struct {
	next    provide.Mediator
	loaders map[provide.LoaderRequest]*lazyCell
	dumpers map[provide.DumperRequest]*lazyCell
}

func newBuildScope(next provide.Mediator) *buildScope {
	return &buildScope{
		next:    next,
		loaders: make(map[provide.LoaderRequest]*lazyCell),
		dumpers: make(map[provide.DumperRequest]*lazyCell),
	}
}

// Provide implements provide.Mediator, keeping the scope on the path of nested
// requests issued while this build is in progress.
func (s *buildScope) Provide(request provide.Request) (interface{}, error) {
	return provide.Delegate(s, s.next, request)
}

// scopeOf reuses the scope of the build in progress, or opens one for a new
// top level build.
func scopeOf(mediator provide.Mediator) *buildScope {
	if scope, ok := mediator.(*buildScope); ok {
		return scope
	}
	return newBuildScope(mediator)
}
