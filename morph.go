// Package morph compiles loaders and dumpers that move data between
// external document trees (map[string]interface{}, []interface{}, scalars)
// and Go structs, through a chain of cooperating providers.
package morph

import (
	"context"
	"reflect"
	"sync"
	"time"

	"github.com/viant/morph/conv"
	"github.com/viant/morph/crown"
	"github.com/viant/morph/internal/ctxlog"
	"github.com/viant/morph/model"
	"github.com/viant/morph/provide"
	"github.com/viant/morph/shape"
	"github.com/viant/morph/trail"
)

// Service owns the provider chain and memoizes compiled loaders and
// dumpers per type; safe for concurrent use.
type Service struct {
	mediator provide.Mediator
	settings provide.Settings
	baseCtx  context.Context
	loaders  sync.Map
	dumpers  sync.Map
}

type loaderCell struct {
	once   sync.Once
	loader provide.Loader
	err    error
}

type dumperCell struct {
	once   sync.Once
	dumper provide.Dumper
	err    error
}

// New creates a service; user providers run ahead of the supplied ones
func New(opts ...Option) *Service {
	o := newOptions(opts)
	chain := make([]provide.Provider, 0, len(o.providers)+7)
	chain = append(chain, o.providers...)
	if o.hook != nil {
		chain = append(chain, &hookProvider{hook: o.hook})
	}
	//conv ahead of model: pointer and container requests resolve their nil
	//handling before struct elements recurse into the model builder
	chain = append(chain,
		conv.NewLoaderProvider(),
		conv.NewDumperProvider(),
		model.NewLoaderProvider(),
		model.NewDumperProvider(),
		crown.NewTagProvider(o.crownOptions...),
		shape.NewReflectProvider(),
	)
	return &Service{
		mediator: provide.NewMediator(chain...),
		settings: o.settings,
		baseCtx:  ctxlog.WithLogger(context.Background(), o.logger),
	}
}

// Mediator exposes the resolution chain for custom requests
func (s *Service) Mediator() provide.Mediator {
	return s.mediator
}

// LoaderFor returns the compiled loader for rType, building it at most once
func (s *Service) LoaderFor(rType reflect.Type) (provide.Loader, error) {
	request := provide.LoaderRequest{Type: rType, Settings: s.settings}
	entry, _ := s.loaders.LoadOrStore(request, &loaderCell{})
	cell := entry.(*loaderCell)
	cell.once.Do(func() {
		started := time.Now()
		cell.loader, cell.err = provide.ProvideLoader(s.mediator, request)
		logger := ctxlog.FromContext(s.baseCtx)
		if cell.err != nil {
			logger.Debug("loader build failed", "type", rType.String(), "error", cell.err)
			return
		}
		logger.Debug("compiled loader", "type", rType.String(), "elapsed", time.Since(started))
	})
	return cell.loader, cell.err
}

// DumperFor returns the compiled dumper for rType, building it at most once
func (s *Service) DumperFor(rType reflect.Type) (provide.Dumper, error) {
	request := provide.DumperRequest{Type: rType, Settings: s.settings}
	entry, _ := s.dumpers.LoadOrStore(request, &dumperCell{})
	cell := entry.(*dumperCell)
	cell.once.Do(func() {
		started := time.Now()
		cell.dumper, cell.err = provide.ProvideDumper(s.mediator, request)
		logger := ctxlog.FromContext(s.baseCtx)
		if cell.err != nil {
			logger.Debug("dumper build failed", "type", rType.String(), "error", cell.err)
			return
		}
		logger.Debug("compiled dumper", "type", rType.String(), "elapsed", time.Since(started))
	})
	return cell.dumper, cell.err
}

// Load converts an external tree into *target
func (s *Service) Load(data interface{}, target interface{}) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return trail.NewErrorf("expected pointer target, had %T", target)
	}
	loader, err := s.LoaderFor(rv.Type().Elem())
	if err != nil {
		return err
	}
	value, err := loader(data)
	if err != nil {
		return err
	}
	dest := rv.Elem()
	if value == nil {
		dest.Set(reflect.Zero(dest.Type()))
		return nil
	}
	actual := reflect.ValueOf(value)
	if actual.Type() == dest.Type() {
		dest.Set(actual)
		return nil
	}
	if actual.Kind() == reflect.Ptr && actual.Type().Elem() == dest.Type() {
		dest.Set(actual.Elem())
		return nil
	}
	return trail.NewErrorf("cannot assign %T to %s", value, dest.Type().String())
}

// Dump converts a typed value into an external tree
func (s *Service) Dump(value interface{}) (interface{}, error) {
	if value == nil {
		return nil, trail.NewError("cannot dump nil value")
	}
	dumper, err := s.DumperFor(reflect.TypeOf(value))
	if err != nil {
		return nil, err
	}
	return dumper(value)
}
