package codegen

import (
	"fmt"
	"strings"
)

// sourceWriter accumulates the emitted source listing handed to diagnostic hooks.
type sourceWriter struct {
	builder strings.Builder
	indent  int
}

func (w *sourceWriter) line(format string, args ...interface{}) {
	w.builder.WriteString(strings.Repeat("\t", w.indent))
	fmt.Fprintf(&w.builder, format, args...)
	w.builder.WriteByte('\n')
}

func (w *sourceWriter) push() {
	w.indent++
}

func (w *sourceWriter) pop() {
	w.indent--
}

func (w *sourceWriter) String() string {
	return w.builder.String()
}
