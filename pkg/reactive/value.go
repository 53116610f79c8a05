package reactive

import "reflect"

// Resolve reads v if it is reactive and returns the plain value. Readables
// are read with tracking and func() any values are called; anything else is
// returned as is. Resolution repeats until a plain value is reached.
func Resolve(v any) any {
	for {
		switch x := v.(type) {
		case Readable:
			v = x.AnyGet()
		case func() any:
			v = x()
		default:
			return v
		}
	}
}

// Flatten resolves every value and flattens nested slices and arrays into
// one ordered list. Nil values, including typed nil pointers, are dropped.
// Strings and byte slices are kept whole.
func Flatten(values ...any) []any {
	out := make([]any, 0, len(values))
	for _, v := range values {
		out = flattenInto(out, v)
	}
	return out
}

func flattenInto(out []any, v any) []any {
	v = Resolve(v)
	if IsNil(v) {
		return out
	}

	switch x := v.(type) {
	case []any:
		for _, item := range x {
			out = flattenInto(out, item)
		}
		return out
	case string, []byte:
		return append(out, x)
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		for i := 0; i < rv.Len(); i++ {
			out = flattenInto(out, rv.Index(i).Interface())
		}
		return out
	}
	return append(out, v)
}

// IsNil reports whether v is nil or a typed nil of a nillable kind.
func IsNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
