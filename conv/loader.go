// Package conv compiles scalar and container converters: per type loaders that
// coerce external document values into typed values, and dumpers for the
// opposite direction, with strict or lenient coercion.
package conv

import (
	"math"
	"reflect"
	"strconv"
	"time"

	"github.com/viant/morph/provide"
	"github.com/viant/morph/trail"
)

var (
	timeType      = reflect.TypeOf(time.Time{})
	interfaceType = reflect.TypeOf((*interface{})(nil)).Elem()
)

// LoaderProvider compiles loaders for scalar, time, pointer, slice and map
// types; struct types fall through to the model provider.
type LoaderProvider struct{}

// NewLoaderProvider creates a scalar loader provider
func NewLoaderProvider() *LoaderProvider {
	return &LoaderProvider{}
}

// Provide implements provide.Provider
func (p *LoaderProvider) Provide(mediator provide.Mediator, request provide.Request) (interface{}, error) {
	var rType reflect.Type
	var field, timeLayout string
	var settings provide.Settings
	switch req := request.(type) {
	case provide.LoaderRequest:
		rType, settings = req.Type, req.Settings
	case provide.FieldLoaderRequest:
		rType, field, timeLayout, settings = req.Type, req.Field, req.TimeLayout, req.Settings
	default:
		return nil, provide.ErrCannotProvide
	}
	loader, err := compileLoader(mediator, rType, field, timeLayout, settings)
	if err != nil {
		return nil, err
	}
	return loader, nil
}

func compileLoader(mediator provide.Mediator, rType reflect.Type, field, timeLayout string, settings provide.Settings) (provide.Loader, error) {
	switch rType.Kind() {
	case reflect.Interface:
		if rType == interfaceType {
			return passthroughLoader, nil
		}
	case reflect.String:
		return stringLoader(rType, settings.StrictCoercion), nil
	case reflect.Bool:
		return boolLoader(rType, settings.StrictCoercion), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return intLoader(rType, settings.StrictCoercion), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return uintLoader(rType, settings.StrictCoercion), nil
	case reflect.Float32, reflect.Float64:
		return floatLoader(rType, settings.StrictCoercion), nil
	case reflect.Struct:
		if rType == timeType {
			return timeLoader(timeLayout), nil
		}
	case reflect.Ptr:
		return ptrLoader(mediator, rType, field, timeLayout, settings)
	case reflect.Slice:
		return sliceLoader(mediator, rType, field, settings)
	case reflect.Map:
		return mapLoader(mediator, rType, field, settings)
	}
	return nil, provide.ErrCannotProvide
}

func passthroughLoader(value interface{}) (interface{}, error) {
	return value, nil
}

func stringLoader(rType reflect.Type, strict bool) provide.Loader {
	return func(value interface{}) (interface{}, error) {
		switch actual := value.(type) {
		case string:
			return convert(reflect.ValueOf(actual), rType), nil
		case []byte:
			return convert(reflect.ValueOf(string(actual)), rType), nil
		}
		if strict {
			return nil, trail.NewErrorf("expected string, had %T", value)
		}
		switch actual := value.(type) {
		case bool:
			return convert(reflect.ValueOf(strconv.FormatBool(actual)), rType), nil
		case float64:
			return convert(reflect.ValueOf(strconv.FormatFloat(actual, 'f', -1, 64)), rType), nil
		case float32:
			return convert(reflect.ValueOf(strconv.FormatFloat(float64(actual), 'f', -1, 32)), rType), nil
		}
		rv := reflect.ValueOf(value)
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return convert(reflect.ValueOf(strconv.FormatInt(rv.Int(), 10)), rType), nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return convert(reflect.ValueOf(strconv.FormatUint(rv.Uint(), 10)), rType), nil
		}
		return nil, trail.NewErrorf("expected string, had %T", value)
	}
}

func boolLoader(rType reflect.Type, strict bool) provide.Loader {
	return func(value interface{}) (interface{}, error) {
		if actual, ok := value.(bool); ok {
			return convert(reflect.ValueOf(actual), rType), nil
		}
		if !strict {
			switch actual := value.(type) {
			case string:
				parsed, err := strconv.ParseBool(actual)
				if err == nil {
					return convert(reflect.ValueOf(parsed), rType), nil
				}
			default:
				rv := reflect.ValueOf(value)
				switch rv.Kind() {
				case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
					return convert(reflect.ValueOf(rv.Int() != 0), rType), nil
				case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
					return convert(reflect.ValueOf(rv.Uint() != 0), rType), nil
				case reflect.Float32, reflect.Float64:
					return convert(reflect.ValueOf(rv.Float() != 0), rType), nil
				}
			}
		}
		return nil, trail.NewErrorf("expected bool, had %T", value)
	}
}

func intLoader(rType reflect.Type, strict bool) provide.Loader {
	return func(value interface{}) (interface{}, error) {
		rv := reflect.ValueOf(value)
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return convertInt(rv.Int(), rType)
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			if rv.Uint() > math.MaxInt64 {
				return nil, trail.NewErrorf("integer overflow for %v", rv.Uint())
			}
			return convertInt(int64(rv.Uint()), rType)
		case reflect.Float32, reflect.Float64:
			f := rv.Float()
			if f != math.Trunc(f) {
				return nil, trail.NewErrorf("expected integer, had fraction %v", f)
			}
			return convertInt(int64(f), rType)
		case reflect.String:
			if !strict {
				parsed, err := strconv.ParseInt(rv.String(), 10, rType.Bits())
				if err != nil {
					return nil, trail.NewErrorf("expected integer, had %q", rv.String())
				}
				return convertInt(parsed, rType)
			}
		}
		return nil, trail.NewErrorf("expected integer, had %T", value)
	}
}

func uintLoader(rType reflect.Type, strict bool) provide.Loader {
	return func(value interface{}) (interface{}, error) {
		rv := reflect.ValueOf(value)
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if rv.Int() < 0 {
				return nil, trail.NewErrorf("expected unsigned integer, had %v", rv.Int())
			}
			return convertUint(uint64(rv.Int()), rType)
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return convertUint(rv.Uint(), rType)
		case reflect.Float32, reflect.Float64:
			f := rv.Float()
			if f != math.Trunc(f) || f < 0 {
				return nil, trail.NewErrorf("expected unsigned integer, had %v", f)
			}
			return convertUint(uint64(f), rType)
		case reflect.String:
			if !strict {
				parsed, err := strconv.ParseUint(rv.String(), 10, rType.Bits())
				if err != nil {
					return nil, trail.NewErrorf("expected unsigned integer, had %q", rv.String())
				}
				return convertUint(parsed, rType)
			}
		}
		return nil, trail.NewErrorf("expected unsigned integer, had %T", value)
	}
}

func floatLoader(rType reflect.Type, strict bool) provide.Loader {
	return func(value interface{}) (interface{}, error) {
		rv := reflect.ValueOf(value)
		switch rv.Kind() {
		case reflect.Float32, reflect.Float64:
			return convert(reflect.ValueOf(rv.Float()), rType), nil
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return convert(reflect.ValueOf(float64(rv.Int())), rType), nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return convert(reflect.ValueOf(float64(rv.Uint())), rType), nil
		case reflect.String:
			if !strict {
				parsed, err := strconv.ParseFloat(rv.String(), rType.Bits())
				if err != nil {
					return nil, trail.NewErrorf("expected float, had %q", rv.String())
				}
				return convert(reflect.ValueOf(parsed), rType), nil
			}
		}
		return nil, trail.NewErrorf("expected float, had %T", value)
	}
}

func timeLoader(timeLayout string) provide.Loader {
	if timeLayout == "" {
		timeLayout = time.RFC3339
	}
	return func(value interface{}) (interface{}, error) {
		switch actual := value.(type) {
		case time.Time:
			return actual, nil
		case string:
			parsed, err := time.Parse(timeLayout, actual)
			if err != nil {
				return nil, trail.NewErrorf("expected time in layout %q, had %q", timeLayout, actual)
			}
			return parsed, nil
		}
		return nil, trail.NewErrorf("expected time, had %T", value)
	}
}

func ptrLoader(mediator provide.Mediator, rType reflect.Type, field, timeLayout string, settings provide.Settings) (provide.Loader, error) {
	elemLoader, err := provide.ProvideLoader(mediator, provide.FieldLoaderRequest{
		Type: rType.Elem(), Field: field, TimeLayout: timeLayout, Settings: settings,
	})
	if err != nil {
		return nil, err
	}
	elemType := rType.Elem()
	return func(value interface{}) (interface{}, error) {
		if value == nil {
			return convert(reflect.Zero(rType), rType), nil
		}
		loaded, err := elemLoader(value)
		if err != nil {
			return nil, err
		}
		result := reflect.New(elemType)
		if loadedType := reflect.TypeOf(loaded); loadedType == rType {
			//nested model loaders already produce a pointer
			return loaded, nil
		}
		result.Elem().Set(reflect.ValueOf(loaded))
		return result.Interface(), nil
	}, nil
}

func sliceLoader(mediator provide.Mediator, rType reflect.Type, field string, settings provide.Settings) (provide.Loader, error) {
	elemLoader, err := provide.ProvideLoader(mediator, provide.FieldLoaderRequest{
		Type: rType.Elem(), Field: field, Settings: settings,
	})
	if err != nil {
		return nil, err
	}
	elemType := rType.Elem()
	level := settings.Trail
	return func(value interface{}) (interface{}, error) {
		items, ok := value.([]interface{})
		if !ok {
			return nil, trail.NewErrorf("expected sequence, had %T", value)
		}
		result := reflect.MakeSlice(rType, len(items), len(items))
		var failures []*trail.LoadError
		for i, item := range items {
			loaded, err := elemLoader(item)
			if err != nil {
				switch level {
				case trail.Disabled:
					return nil, err
				case trail.First:
					return nil, trail.Annotate(err, trail.Index(i))
				default:
					failures = append(failures, trail.Annotate(err, trail.Index(i)))
					continue
				}
			}
			result.Index(i).Set(normalize(loaded, elemType))
			continue
		}
		if len(failures) > 0 {
			return nil, trail.Aggregate(failures)
		}
		return result.Interface(), nil
	}, nil
}

func mapLoader(mediator provide.Mediator, rType reflect.Type, field string, settings provide.Settings) (provide.Loader, error) {
	if rType.Key().Kind() != reflect.String {
		return nil, provide.ErrCannotProvide
	}
	elemLoader, err := provide.ProvideLoader(mediator, provide.FieldLoaderRequest{
		Type: rType.Elem(), Field: field, Settings: settings,
	})
	if err != nil {
		return nil, err
	}
	elemType := rType.Elem()
	level := settings.Trail
	return func(value interface{}) (interface{}, error) {
		entries, ok := value.(map[string]interface{})
		if !ok {
			return nil, trail.NewErrorf("expected mapping, had %T", value)
		}
		result := reflect.MakeMapWithSize(rType, len(entries))
		var failures []*trail.LoadError
		for key, item := range entries {
			loaded, err := elemLoader(item)
			if err != nil {
				switch level {
				case trail.Disabled:
					return nil, err
				case trail.First:
					return nil, trail.Annotate(err, trail.Key(key))
				default:
					failures = append(failures, trail.Annotate(err, trail.Key(key)))
					continue
				}
			}
			result.SetMapIndex(reflect.ValueOf(key).Convert(rType.Key()), normalize(loaded, elemType))
		}
		if len(failures) > 0 {
			return nil, trail.Aggregate(failures)
		}
		return result.Interface(), nil
	}, nil
}

func convert(rv reflect.Value, rType reflect.Type) interface{} {
	if rv.Type() == rType {
		return rv.Interface()
	}
	return rv.Convert(rType).Interface()
}

func convertInt(i int64, rType reflect.Type) (interface{}, error) {
	if reflect.Zero(rType).OverflowInt(i) {
		return nil, trail.NewErrorf("integer overflow for %v as %s", i, rType.String())
	}
	return convert(reflect.ValueOf(i), rType), nil
}

func convertUint(u uint64, rType reflect.Type) (interface{}, error) {
	if reflect.Zero(rType).OverflowUint(u) {
		return nil, trail.NewErrorf("integer overflow for %v as %s", u, rType.String())
	}
	return convert(reflect.ValueOf(u), rType), nil
}

// normalize coerces a loaded element to the slice/map element type; nested
// model loaders produce pointers that may need no conversion.
func normalize(loaded interface{}, elemType reflect.Type) reflect.Value {
	if loaded == nil {
		return reflect.Zero(elemType)
	}
	rv := reflect.ValueOf(loaded)
	if rv.Type() == elemType {
		return rv
	}
	if rv.Kind() == reflect.Ptr && rv.Type().Elem() == elemType {
		return rv.Elem()
	}
	if elemType.Kind() == reflect.Interface {
		return rv
	}
	return rv.Convert(elemType)
}
