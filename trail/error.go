package trail

import (
	"fmt"
	"strings"
)

// LoadError represents a data conversion failure, optionally annotated with the
// path from the document root and optionally aggregating nested failures.
type LoadError struct {
	Path   Path
	Msg    string
	Cause  error
	Nested []*LoadError
}

// NewError creates a load error
func NewError(msg string) *LoadError {
	return &LoadError{Msg: msg}
}

// NewErrorf creates a load error with a formatted message
func NewErrorf(format string, args ...interface{}) *LoadError {
	return &LoadError{Msg: fmt.Sprintf(format, args...)}
}

// WrapError creates a load error wrapping a cause
func WrapError(err error, msg string) *LoadError {
	return &LoadError{Msg: msg, Cause: err}
}

// Error returns error text; aggregate errors list every nested failure in order
func (e *LoadError) Error() string {
	if len(e.Nested) > 0 {
		items := make([]string, 0, len(e.Nested))
		for _, nested := range e.Nested {
			items = append(items, nested.render(e.Path))
		}
		return fmt.Sprintf("%d load failure(s): %s", len(e.Nested), strings.Join(items, "; "))
	}
	return e.render(nil)
}

func (e *LoadError) render(prefix Path) string {
	aPath := make(Path, 0, len(prefix)+len(e.Path))
	aPath = append(aPath, prefix...)
	aPath = append(aPath, e.Path...)
	msg := e.Msg
	if e.Cause != nil {
		if msg != "" {
			msg += ": " + e.Cause.Error()
		} else {
			msg = e.Cause.Error()
		}
	}
	if len(aPath) == 0 {
		return msg
	}
	return fmt.Sprintf("at %s: %s", aPath.String(), msg)
}

// Unwrap returns the wrapped cause
func (e *LoadError) Unwrap() error {
	return e.Cause
}

// Annotate prepends a path segment to err; a non load error is wrapped first.
func Annotate(err error, segment Segment) *LoadError {
	loadErr := AsLoadError(err)
	loadErr.Path = append(Path{segment}, loadErr.Path...)
	return loadErr
}

// AsLoadError coerces an arbitrary error into a load error
func AsLoadError(err error) *LoadError {
	if loadErr, ok := err.(*LoadError); ok {
		return loadErr
	}
	return &LoadError{Cause: err}
}

// Aggregate combines failures into a single load error preserving supplied order.
// Nested aggregates are flattened with their paths folded into the children.
func Aggregate(errs []*LoadError) *LoadError {
	flat := make([]*LoadError, 0, len(errs))
	for _, err := range errs {
		if len(err.Nested) == 0 {
			flat = append(flat, err)
			continue
		}
		for _, nested := range err.Nested {
			nested.Path = append(append(Path{}, err.Path...), nested.Path...)
			flat = append(flat, nested)
		}
	}
	if len(flat) == 1 {
		return flat[0]
	}
	return &LoadError{Nested: flat}
}
