package webhook

import (
	"encoding/json"
	"fmt"
	"math/big"
	"reflect"
)

// circularMarker replaces values that reference one of their own ancestors.
const circularMarker = "[Circular]"

var (
	bigIntPtrType = reflect.TypeOf((*big.Int)(nil))
	bigIntType    = reflect.TypeOf(big.Int{})
	marshalerType = reflect.TypeOf((*json.Marshaler)(nil)).Elem()
)

// MarshalSafe serializes arbitrary event data. Cyclic references become the
// "[Circular]" marker instead of an error, and big integers are rendered as
// strings so receivers never lose precision.
func MarshalSafe(v interface{}) ([]byte, error) {
	return json.Marshal(Sanitize(v))
}

// Sanitize returns a plain-data copy of v that json.Marshal can always
// encode: cycles are cut with the "[Circular]" marker and big integers become
// strings.
func Sanitize(v interface{}) interface{} {
	return sanitize(reflect.ValueOf(v), map[uintptr]bool{})
}

// sanitize walks the value, tracking ancestor containers by pointer. Only a
// reference back to an ancestor counts as a cycle, shared siblings are fine.
func sanitize(rv reflect.Value, ancestors map[uintptr]bool) interface{} {
	if !rv.IsValid() {
		return nil
	}

	switch rv.Type() {
	case bigIntPtrType:
		if rv.IsNil() {
			return nil
		}
		return rv.Interface().(*big.Int).String()
	case bigIntType:
		n := rv.Interface().(big.Int)
		return n.String()
	}

	// Types with their own JSON encoding are trusted as cycle-free leaves.
	if rv.Type().Implements(marshalerType) && rv.Kind() != reflect.Ptr {
		return rv.Interface()
	}

	switch rv.Kind() {
	case reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return sanitize(rv.Elem(), ancestors)

	case reflect.Ptr:
		if rv.IsNil() {
			return nil
		}
		ptr := rv.Pointer()
		if ancestors[ptr] {
			return circularMarker
		}
		ancestors[ptr] = true
		out := sanitize(rv.Elem(), ancestors)
		delete(ancestors, ptr)
		return out

	case reflect.Map:
		if rv.IsNil() {
			return nil
		}
		ptr := rv.Pointer()
		if ancestors[ptr] {
			return circularMarker
		}
		ancestors[ptr] = true
		out := make(map[string]interface{}, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[fmt.Sprint(iter.Key().Interface())] = sanitize(iter.Value(), ancestors)
		}
		delete(ancestors, ptr)
		return out

	case reflect.Slice:
		if rv.IsNil() {
			return nil
		}
		ptr := rv.Pointer()
		if ancestors[ptr] {
			return circularMarker
		}
		ancestors[ptr] = true
		out := make([]interface{}, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = sanitize(rv.Index(i), ancestors)
		}
		delete(ancestors, ptr)
		return out

	case reflect.Array:
		out := make([]interface{}, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = sanitize(rv.Index(i), ancestors)
		}
		return out

	case reflect.Struct:
		out := make(map[string]interface{}, rv.NumField())
		t := rv.Type()
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if field.PkgPath != "" {
				continue
			}
			name, omitEmpty := jsonFieldName(field)
			if name == "" {
				continue
			}
			fv := rv.Field(i)
			if omitEmpty && fv.IsZero() {
				continue
			}
			out[name] = sanitize(fv, ancestors)
		}
		return out

	default:
		return rv.Interface()
	}
}

func jsonFieldName(field reflect.StructField) (name string, omitEmpty bool) {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", false
	}
	name = field.Name
	if tag == "" {
		return name, false
	}
	for i, part := range splitTag(tag) {
		if i == 0 {
			if part != "" {
				name = part
			}
			continue
		}
		if part == "omitempty" {
			omitEmpty = true
		}
	}
	return name, omitEmpty
}

func splitTag(tag string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(tag); i++ {
		if tag[i] == ',' {
			parts = append(parts, tag[start:i])
			start = i + 1
		}
	}
	return append(parts, tag[start:])
}
