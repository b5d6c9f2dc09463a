package morph

import (
	"log/slog"

	"github.com/viant/morph/codegen"
	"github.com/viant/morph/crown"
	"github.com/viant/morph/provide"
	"github.com/viant/morph/trail"
	"github.com/viant/tagly/format/text"
)

//Option service option
type Option func(o *options)

type options struct {
	settings     provide.Settings
	providers    []provide.Provider
	hook         codegen.Hook
	logger       *slog.Logger
	crownOptions []crown.TagProviderOption
}

func newOptions(opts []Option) *options {
	result := &options{logger: slog.Default()}
	for _, opt := range opts {
		opt(result)
	}
	return result
}

//WithStrictCoercion restricts field coercion to document type families
func WithStrictCoercion() Option {
	return func(o *options) {
		o.settings.StrictCoercion = true
	}
}

//WithTrail sets load error granularity
func WithTrail(level trail.Level) Option {
	return func(o *options) {
		o.settings.Trail = level
	}
}

//WithProviders prepends user providers to the resolution chain
func WithProviders(providers ...provide.Provider) Option {
	return func(o *options) {
		o.providers = append(o.providers, providers...)
	}
}

//WithCodeGenHook sets a diagnostic hook invoked with each compiled closure
func WithCodeGenHook(hook codegen.Hook) Option {
	return func(o *options) {
		o.hook = hook
	}
}

//WithLogger sets the build time logger
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

//WithCaseFormat sets the external name case format for untagged fields
func WithCaseFormat(caseFormat text.CaseFormat) Option {
	return func(o *options) {
		o.crownOptions = append(o.crownOptions, crown.WithCaseFormat(caseFormat))
	}
}
