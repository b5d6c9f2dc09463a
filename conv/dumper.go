package conv

import (
	"reflect"
	"time"

	"github.com/viant/morph/provide"
	"github.com/viant/morph/trail"
)

// DumperProvider compiles dumpers for scalar, time, pointer, slice and map
// types; struct types fall through to the model provider.
type DumperProvider struct{}

// NewDumperProvider creates a scalar dumper provider
func NewDumperProvider() *DumperProvider {
	return &DumperProvider{}
}

// Provide implements provide.Provider
func (p *DumperProvider) Provide(mediator provide.Mediator, request provide.Request) (interface{}, error) {
	var rType reflect.Type
	var field, timeLayout string
	var settings provide.Settings
	switch req := request.(type) {
	case provide.DumperRequest:
		rType, settings = req.Type, req.Settings
	case provide.FieldDumperRequest:
		rType, field, timeLayout, settings = req.Type, req.Field, req.TimeLayout, req.Settings
	default:
		return nil, provide.ErrCannotProvide
	}
	dumper, err := compileDumper(mediator, rType, field, timeLayout, settings)
	if err != nil {
		return nil, err
	}
	return dumper, nil
}

func compileDumper(mediator provide.Mediator, rType reflect.Type, field, timeLayout string, settings provide.Settings) (provide.Dumper, error) {
	switch rType.Kind() {
	case reflect.Interface:
		if rType == interfaceType {
			return passthroughDumper, nil
		}
	case reflect.String:
		return func(value interface{}) (interface{}, error) {
			return reflect.ValueOf(value).String(), nil
		}, nil
	case reflect.Bool:
		return func(value interface{}) (interface{}, error) {
			return reflect.ValueOf(value).Bool(), nil
		}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32:
		return func(value interface{}) (interface{}, error) {
			return int(reflect.ValueOf(value).Int()), nil
		}, nil
	case reflect.Int64:
		//int64 keeps its width, int would truncate on 32 bit platforms
		return func(value interface{}) (interface{}, error) {
			return reflect.ValueOf(value).Int(), nil
		}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return func(value interface{}) (interface{}, error) {
			return uint(reflect.ValueOf(value).Uint()), nil
		}, nil
	case reflect.Uint64:
		return func(value interface{}) (interface{}, error) {
			return reflect.ValueOf(value).Uint(), nil
		}, nil
	case reflect.Float32, reflect.Float64:
		return func(value interface{}) (interface{}, error) {
			return reflect.ValueOf(value).Float(), nil
		}, nil
	case reflect.Struct:
		if rType == timeType {
			return timeDumper(timeLayout), nil
		}
	case reflect.Ptr:
		return ptrDumper(mediator, rType, field, timeLayout, settings)
	case reflect.Slice:
		return sliceDumper(mediator, rType, field, settings)
	case reflect.Map:
		return mapDumper(mediator, rType, field, settings)
	}
	return nil, provide.ErrCannotProvide
}

func passthroughDumper(value interface{}) (interface{}, error) {
	return value, nil
}

func timeDumper(timeLayout string) provide.Dumper {
	if timeLayout == "" {
		timeLayout = time.RFC3339
	}
	return func(value interface{}) (interface{}, error) {
		actual, ok := value.(time.Time)
		if !ok {
			return nil, trail.NewErrorf("expected time, had %T", value)
		}
		return actual.Format(timeLayout), nil
	}
}

func ptrDumper(mediator provide.Mediator, rType reflect.Type, field, timeLayout string, settings provide.Settings) (provide.Dumper, error) {
	elemDumper, err := provide.ProvideDumper(mediator, provide.FieldDumperRequest{
		Type: rType.Elem(), Field: field, TimeLayout: timeLayout, Settings: settings,
	})
	if err != nil {
		return nil, err
	}
	return func(value interface{}) (interface{}, error) {
		rv := reflect.ValueOf(value)
		if rv.Kind() == reflect.Ptr && rv.IsNil() {
			return nil, nil
		}
		return elemDumper(rv.Elem().Interface())
	}, nil
}

func sliceDumper(mediator provide.Mediator, rType reflect.Type, field string, settings provide.Settings) (provide.Dumper, error) {
	elemDumper, err := provide.ProvideDumper(mediator, provide.FieldDumperRequest{
		Type: rType.Elem(), Field: field, Settings: settings,
	})
	if err != nil {
		return nil, err
	}
	return func(value interface{}) (interface{}, error) {
		rv := reflect.ValueOf(value)
		if rv.Kind() != reflect.Slice {
			return nil, trail.NewErrorf("expected slice, had %T", value)
		}
		result := make([]interface{}, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			dumped, err := elemDumper(rv.Index(i).Interface())
			if err != nil {
				return nil, trail.Annotate(err, trail.Index(i))
			}
			result[i] = dumped
		}
		return result, nil
	}, nil
}

func mapDumper(mediator provide.Mediator, rType reflect.Type, field string, settings provide.Settings) (provide.Dumper, error) {
	if rType.Key().Kind() != reflect.String {
		return nil, provide.ErrCannotProvide
	}
	elemDumper, err := provide.ProvideDumper(mediator, provide.FieldDumperRequest{
		Type: rType.Elem(), Field: field, Settings: settings,
	})
	if err != nil {
		return nil, err
	}
	return func(value interface{}) (interface{}, error) {
		rv := reflect.ValueOf(value)
		if rv.Kind() != reflect.Map {
			return nil, trail.NewErrorf("expected map, had %T", value)
		}
		result := make(map[string]interface{}, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			key := iter.Key().String()
			dumped, err := elemDumper(iter.Value().Interface())
			if err != nil {
				return nil, trail.Annotate(err, trail.Key(key))
			}
			result[key] = dumped
		}
		return result, nil
	}, nil
}
