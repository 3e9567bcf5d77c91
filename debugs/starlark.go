package debugs

import (
	"fmt"
	"reflect"

	"github.com/reusee/starlarkutil"
	"github.com/samber/lo"
	"go.starlark.net/starlark"
)

var stringerType = reflect.TypeFor[fmt.Stringer]()

// toStarlarkValue converts machine state for the tap. Values implementing
// fmt.Stringer, such as decimals, become strings; exported struct fields
// become dict entries; functions become builtins.
func toStarlarkValue(v any) (starlark.Value, error) {
	if v == nil {
		return starlark.None, nil
	}
	if sv, ok := v.(starlark.Value); ok {
		return sv, nil
	}

	value := reflect.ValueOf(v)
	if value.Type().Implements(stringerType) && value.Kind() != reflect.Func {
		if value.Kind() == reflect.Pointer && value.IsNil() {
			return starlark.None, nil
		}
		return starlark.String(v.(fmt.Stringer).String()), nil
	}

	switch value.Kind() {

	case reflect.Bool:
		return starlark.Bool(value.Bool()), nil

	case reflect.String:
		return starlark.String(value.String()), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return starlark.MakeInt64(value.Int()), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return starlark.MakeUint64(value.Uint()), nil

	case reflect.Float32, reflect.Float64:
		return starlark.Float(value.Float()), nil

	case reflect.Slice, reflect.Array:
		if b, ok := v.([]byte); ok {
			return starlark.Bytes(b), nil
		}
		elems := make([]starlark.Value, 0, value.Len())
		for i := range value.Len() {
			elem, err := toStarlarkValue(value.Index(i).Interface())
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			elems = append(elems, elem)
		}
		return starlark.NewList(elems), nil

	case reflect.Map:
		d := starlark.NewDict(value.Len())
		iter := value.MapRange()
		for iter.Next() {
			k, err := toStarlarkValue(iter.Key().Interface())
			if err != nil {
				return nil, err
			}
			v, err := toStarlarkValue(iter.Value().Interface())
			if err != nil {
				return nil, fmt.Errorf("key %v: %w", k, err)
			}
			if err := d.SetKey(k, v); err != nil {
				return nil, err
			}
		}
		return d, nil

	case reflect.Struct:
		fields := lo.Filter(reflect.VisibleFields(value.Type()), func(f reflect.StructField, _ int) bool {
			return f.IsExported() && !f.Anonymous
		})
		d := starlark.NewDict(len(fields))
		for _, field := range fields {
			v, err := toStarlarkValue(value.FieldByIndex(field.Index).Interface())
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", field.Name, err)
			}
			if err := d.SetKey(starlark.String(field.Name), v); err != nil {
				return nil, err
			}
		}
		return d, nil

	case reflect.Pointer, reflect.Interface:
		if value.IsNil() {
			return starlark.None, nil
		}
		return toStarlarkValue(value.Elem().Interface())

	case reflect.Func:
		return starlarkutil.MakeFunc("", v), nil

	}

	return nil, fmt.Errorf("unsupported type for starlark: %T", v)
}

func toStringDict(globals map[string]any) (starlark.StringDict, error) {
	ret := make(starlark.StringDict, len(globals))
	for name, value := range globals {
		sv, err := toStarlarkValue(value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		ret[name] = sv
	}
	return ret, nil
}
