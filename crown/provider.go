package crown

import (
	"github.com/viant/morph/provide"
	"github.com/viant/morph/shape"
	"github.com/viant/tagly/format/text"
)

// TagProvider answers crown requests with the default dict crown derived from a
// shape: one leaf per field keyed by its external name, extra target wired when
// the shape collects extra data.
type TagProvider struct {
	caseFormat text.CaseFormat
}

// TagProviderOption customizes the tag crown provider.
type TagProviderOption func(p *TagProvider)

// WithCaseFormat rewrites external keys to the supplied case format
func WithCaseFormat(caseFormat text.CaseFormat) TagProviderOption {
	return func(p *TagProvider) {
		p.caseFormat = caseFormat
	}
}

// NewTagProvider creates a tag crown provider
func NewTagProvider(opts ...TagProviderOption) *TagProvider {
	result := &TagProvider{}
	for _, opt := range opts {
		opt(result)
	}
	return result
}

// Provide implements provide.Provider
func (p *TagProvider) Provide(mediator provide.Mediator, request provide.Request) (interface{}, error) {
	req, ok := request.(provide.CrownRequest)
	if !ok {
		return nil, provide.ErrCannotProvide
	}
	resolved, err := mediator.Provide(provide.ShapeRequest{Type: req.Type})
	if err != nil {
		return nil, err
	}
	aShape := resolved.(shape.Shape)
	result := Dict{}
	for _, field := range aShape.Fields {
		if field.Name == aShape.ExtraField {
			continue
		}
		result.Entries = append(result.Entries, Entry{Key: p.externalKey(field), Child: Leaf{Field: field.Name}})
	}
	if aShape.Extra == shape.ExtraCollect {
		result.Extra = aShape.ExtraField
	}
	return Crown(result), nil
}

func (p *TagProvider) externalKey(field shape.Field) string {
	if p.caseFormat == "" || field.External != field.Name {
		//an explicit tag name wins over case formatting
		return field.External
	}
	return text.CaseFormatUpperCamel.To(p.caseFormat).Format(field.Name)
}
