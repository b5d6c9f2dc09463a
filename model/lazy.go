package model

import "github.com/viant/morph/provide"

// lazyCell is the forward reference installed for a unit under construction:
// cyclic type graphs resolve against the cell before the real unit exists, and
// the cell is patched exactly once when the build completes.
type lazyCell struct {
	fn func(value interface{}) (interface{}, error)
}

func (c *lazyCell) set(fn func(value interface{}) (interface{}, error)) {
	if c.fn != nil {
		panic("morph: lazy unit patched twice")
	}
	c.fn = fn
}

func (c *lazyCell) call(value interface{}) (interface{}, error) {
	if c.fn == nil {
		panic("morph: compiled unit invoked before its build completed")
	}
	return c.fn(value)
}

func (c *lazyCell) loader() provide.Loader {
	return c.call
}

func (c *lazyCell) dumper() provide.Dumper {
	return c.call
}
