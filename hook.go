package morph

import (
	"github.com/viant/morph/codegen"
	"github.com/viant/morph/provide"
)

// hookProvider answers code generation hook requests with a fixed hook
type hookProvider struct {
	hook codegen.Hook
}

// Provide implements provide.Provider
func (p *hookProvider) Provide(mediator provide.Mediator, request provide.Request) (interface{}, error) {
	if _, ok := request.(provide.CodeGenHookRequest); ok {
		return p.hook, nil
	}
	return nil, provide.ErrCannotProvide
}
