// Package provide implements a chain-of-responsibility resolution core: typed
// requests are answered by an ordered sequence of providers, each either
// producing a result or signalling that it cannot provide one.
package provide

import (
	"errors"
	"fmt"
)

// Loader converts an external document value into a typed value.
type Loader func(value interface{}) (interface{}, error)

// Dumper converts a typed value into an external document value.
type Dumper func(value interface{}) (interface{}, error)

// Request represents an immutable, comparable resolution query.
type Request interface {
	request()
}

// Provider answers requests; inapplicable requests yield ErrCannotProvide.
type Provider interface {
	Provide(mediator Mediator, request Request) (interface{}, error)
}

// Mediator orchestrates providers; providers receive it to issue nested requests.
type Mediator interface {
	Provide(request Request) (interface{}, error)
}

// ErrCannotProvide signals that a provider does not apply to a request. It is
// control flow, not a failure: the mediator moves on to the next provider.
var ErrCannotProvide = errors.New("cannot provide")

// NoProviderError reports that every registered provider signalled
// inapplicability for a request. It classifies as ErrCannotProvide so that
// callers treating a request as optional can substitute a default.
type NoProviderError struct {
	Request Request
}

// Error returns error text naming the request
func (e *NoProviderError) Error() string {
	return fmt.Sprintf("no provider found for request %T%+v", e.Request, e.Request)
}

// Unwrap classifies exhaustion as the inapplicability signal
func (e *NoProviderError) Unwrap() error {
	return ErrCannotProvide
}

type mediator struct {
	providers []Provider
}

// Provide tries each provider in registration order and returns the first success
func (m *mediator) Provide(request Request) (interface{}, error) {
	return m.provide(m, request)
}

func (m *mediator) provide(top Mediator, request Request) (interface{}, error) {
	for _, provider := range m.providers {
		result, err := provider.Provide(top, request)
		if err != nil {
			if errors.Is(err, ErrCannotProvide) && !terminal(err) {
				continue
			}
			return nil, err
		}
		return result, nil
	}
	return nil, &NoProviderError{Request: request}
}

// Delegate resolves a request against next while handing top to the providers,
// so a decorating mediator stays on the path of every nested request issued
// during the resolution.
func Delegate(top, next Mediator, request Request) (interface{}, error) {
	if m, ok := next.(*mediator); ok {
		return m.provide(top, request)
	}
	return next.Provide(request)
}

// terminal distinguishes nested exhaustion from a plain inapplicability signal:
// a NoProviderError raised for a nested request still aborts the outer resolution.
func terminal(err error) bool {
	var noProvider *NoProviderError
	return errors.As(err, &noProvider)
}

// NewMediator creates a mediator over providers in priority order
func NewMediator(providers ...Provider) Mediator {
	return &mediator{providers: providers}
}
