package cache

import "reflect"

// storable reports whether v holds no func, channel or unsafe pointer.
func storable(v any) bool {
	return walk(reflect.ValueOf(v), make(map[uintptr]bool))
}

func walk(v reflect.Value, seen map[uintptr]bool) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return false
	case reflect.Interface:
		return walk(v.Elem(), seen)
	case reflect.Pointer:
		if v.IsNil() {
			return true
		}
		if seen[v.Pointer()] {
			return true
		}
		seen[v.Pointer()] = true
		return walk(v.Elem(), seen)
	case reflect.Struct:
		for i := range v.NumField() {
			if !walk(v.Field(i), seen) {
				return false
			}
		}
	case reflect.Slice, reflect.Array:
		for i := range v.Len() {
			if !walk(v.Index(i), seen) {
				return false
			}
		}
	case reflect.Map:
		it := v.MapRange()
		for it.Next() {
			if !walk(it.Key(), seen) || !walk(it.Value(), seen) {
				return false
			}
		}
	}
	return true
}
