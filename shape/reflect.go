package shape

import (
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/viant/morph/provide"
	"github.com/viant/morph/tags"
	"github.com/viant/xunsafe"
)

var (
	timeType       = reflect.TypeOf(time.Time{})
	extraMapType   = reflect.TypeOf(map[string]interface{}{})
	extraSliceType = reflect.TypeOf([]interface{}{})
)

// Of derives a shape from a struct type: exported fields in declaration order,
// external names from the morph tag or the format tag, requiredness from
// omitempty/default/extra options and pointer kinds. Deterministic for a type.
func Of(rType reflect.Type) (Shape, error) {
	base := rType
	for base.Kind() == reflect.Ptr {
		base = base.Elem()
	}
	if base.Kind() != reflect.Struct {
		return Shape{}, fmt.Errorf("failed to derive shape: %s is not a struct", rType.String())
	}
	result := Shape{Type: base}
	for i := 0; i < base.NumField(); i++ {
		structField := base.Field(i)
		if structField.PkgPath != "" { //unexported
			continue
		}
		aTag, err := tags.Parse(structField.Tag.Get(tags.TagName))
		if err != nil {
			return Shape{}, fmt.Errorf("failed to derive shape for %s.%s: %w", base.String(), structField.Name, err)
		}
		if aTag.Transient {
			continue
		}
		fTag := parseFormatTag(structField.Tag)
		field := Field{
			Name:       structField.Name,
			Type:       structField.Type,
			TimeLayout: fTag.timeLayout,
			Accessor:   xunsafe.NewField(structField),
		}
		field.External = aTag.Name
		if field.External == "" {
			field.External = fTag.externalName(structField.Name)
		}
		if field.External == "" {
			field.External = structField.Name
		}
		if aTag.Extra {
			if result.ExtraField != "" {
				return Shape{}, fmt.Errorf("duplicate extra target %s.%s: %s already collects unmapped data",
					base.String(), structField.Name, result.ExtraField)
			}
			if structField.Type != extraMapType && structField.Type != extraSliceType {
				return Shape{}, fmt.Errorf("extra target %s.%s must be map[string]interface{} or []interface{}, had %s",
					base.String(), structField.Name, structField.Type.String())
			}
			result.Extra = ExtraCollect
			result.ExtraField = structField.Name
			result.Fields = append(result.Fields, field)
			continue
		}
		field.Required = !aTag.OmitEmpty && !aTag.HasDefault && structField.Type.Kind() != reflect.Ptr
		if !field.Required {
			field.Default, err = defaultValue(aTag, structField.Type, fTag.timeLayout)
			if err != nil {
				return Shape{}, fmt.Errorf("failed to derive shape for %s.%s: %w", base.String(), structField.Name, err)
			}
		}
		result.Fields = append(result.Fields, field)
	}
	return result, nil
}

func defaultValue(aTag *tags.Tag, rType reflect.Type, timeLayout string) (interface{}, error) {
	if !aTag.HasDefault {
		return reflect.Zero(rType).Interface(), nil
	}
	literal := aTag.Default
	switch rType.Kind() {
	case reflect.String:
		return literal, nil
	case reflect.Bool:
		return strconv.ParseBool(literal)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		parsed, err := strconv.ParseInt(literal, 10, 64)
		if err != nil {
			return nil, err
		}
		return reflect.ValueOf(parsed).Convert(rType).Interface(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		parsed, err := strconv.ParseUint(literal, 10, 64)
		if err != nil {
			return nil, err
		}
		return reflect.ValueOf(parsed).Convert(rType).Interface(), nil
	case reflect.Float32, reflect.Float64:
		parsed, err := strconv.ParseFloat(literal, 64)
		if err != nil {
			return nil, err
		}
		return reflect.ValueOf(parsed).Convert(rType).Interface(), nil
	case reflect.Struct:
		if rType == timeType {
			if timeLayout == "" {
				timeLayout = time.RFC3339
			}
			return time.Parse(timeLayout, literal)
		}
	}
	return nil, fmt.Errorf("unsupported default literal %q for %s", literal, rType.String())
}

// ReflectProvider answers shape requests with reflect derived shapes.
type ReflectProvider struct{}

// NewReflectProvider creates a reflect shape provider
func NewReflectProvider() *ReflectProvider {
	return &ReflectProvider{}
}

// Provide implements provide.Provider
func (p *ReflectProvider) Provide(mediator provide.Mediator, request provide.Request) (interface{}, error) {
	req, ok := request.(provide.ShapeRequest)
	if !ok {
		return nil, provide.ErrCannotProvide
	}
	base := req.Type
	for base.Kind() == reflect.Ptr {
		base = base.Elem()
	}
	if base.Kind() != reflect.Struct || base == timeType {
		return nil, provide.ErrCannotProvide
	}
	return Of(req.Type)
}
