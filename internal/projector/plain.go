package projector

import (
	"encoding"
	"encoding/json"
	"math"
	"reflect"
	"strings"

	"github.com/AndreyAkinshin/testrelay/internal/event"
)

// plain returns a copy of v built only from JSON-compatible values:
// strings, bools, finite numbers, nil, []any and map[string]any. Funcs,
// channels, NaN, infinities and back-references into a value already being
// copied are dropped (ok == false). Map entries and struct fields that drop
// are omitted; slice elements that drop are nulled.
func plain(v any) (any, bool) {
	return plainValue(v, make(map[uintptr]bool))
}

func plainValue(v any, seen map[uintptr]bool) (any, bool) {
	switch x := v.(type) {
	case nil:
		return nil, true
	case json.Number:
		_, err := json.Marshal(x)
		return x, err == nil
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return x, true
	case float32:
		return x, finite(float64(x))
	case float64:
		return x, finite(x)
	case event.Payload:
		return plainMap(reflect.ValueOf(map[string]any(x)), seen)
	case map[string]any:
		return plainMap(reflect.ValueOf(x), seen)
	case []any:
		return plainSlice(reflect.ValueOf(x), seen)
	case []string:
		out := make([]any, len(x))
		for i, s := range x {
			out[i] = s
		}
		return out, true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Func, reflect.Chan, reflect.UnsafePointer, reflect.Complex64, reflect.Complex128:
		return nil, false
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return viaJSON(v)
		}
		return plainMap(rv, seen)
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			return viaJSON(v)
		}
		return plainSlice(rv, seen)
	case reflect.Pointer:
		if rv.IsNil() {
			return nil, true
		}
		if marshals(rv.Type()) {
			return viaJSON(v)
		}
		ptr := rv.Pointer()
		if seen[ptr] {
			return nil, false
		}
		seen[ptr] = true
		defer delete(seen, ptr)
		return plainValue(rv.Elem().Interface(), seen)
	case reflect.Struct:
		if marshals(rv.Type()) {
			return viaJSON(v)
		}
		out := make(map[string]any, rv.NumField())
		plainStruct(rv, out, seen)
		return out, true
	}
	return viaJSON(v)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

var (
	jsonMarshaler = reflect.TypeFor[json.Marshaler]()
	textMarshaler = reflect.TypeFor[encoding.TextMarshaler]()
)

// marshals reports whether t encodes itself.
func marshals(t reflect.Type) bool {
	return t.Implements(jsonMarshaler) || t.Implements(textMarshaler)
}

// plainStruct copies the exported fields of rv into out under their json
// names. Untagged embedded structs are flattened.
func plainStruct(rv reflect.Value, out map[string]any, seen map[uintptr]bool) {
	t := rv.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		fv := rv.Field(i)
		name, opts, _ := strings.Cut(sf.Tag.Get("json"), ",")
		if name == "-" && opts == "" {
			continue
		}
		if sf.Anonymous && name == "" && fv.Kind() == reflect.Struct && !marshals(fv.Type()) {
			plainStruct(fv, out, seen)
			continue
		}
		if !sf.IsExported() || !fv.CanInterface() {
			continue
		}
		if name == "" {
			name = sf.Name
		}
		if strings.Contains(opts, "omitempty") && isEmpty(fv) {
			continue
		}
		if val, ok := plainValue(fv.Interface(), seen); ok {
			out[name] = val
		}
	}
}

// isEmpty follows encoding/json's omitempty rule.
func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Struct:
		return false
	}
	return v.IsZero()
}

func plainMap(rv reflect.Value, seen map[uintptr]bool) (any, bool) {
	if rv.IsNil() {
		return nil, true
	}
	ptr := rv.Pointer()
	if seen[ptr] {
		return nil, false
	}
	seen[ptr] = true
	defer delete(seen, ptr)

	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		if val, ok := plainValue(iter.Value().Interface(), seen); ok {
			out[iter.Key().String()] = val
		}
	}
	return out, true
}

func plainSlice(rv reflect.Value, seen map[uintptr]bool) (any, bool) {
	if rv.Kind() == reflect.Slice {
		if rv.IsNil() {
			return nil, true
		}
		ptr := rv.Pointer()
		if rv.Len() > 0 {
			if seen[ptr] {
				return nil, false
			}
			seen[ptr] = true
			defer delete(seen, ptr)
		}
	}
	out := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		if val, ok := plainValue(rv.Index(i).Interface(), seen); ok {
			out[i] = val
		}
	}
	return out, true
}

// viaJSON normalizes structs and other marshalable values by encoding and
// decoding them. Values json cannot encode are dropped.
func viaJSON(v any) (any, bool) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, false
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, false
	}
	return out, true
}
