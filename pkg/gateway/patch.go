package gateway

import (
	"reflect"
	"strings"
)

// PatchOf builds a full-row patch from a model struct, keyed by json column
// name. Values keep their Go types so drivers can bind them directly.
// Embedded structs are flattened; fields tagged json:"-" or gorm:"-" and the
// columns listed in omit are skipped.
func PatchOf(row any, omit ...string) Patch {
	v := reflect.ValueOf(row)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return Patch{}
		}
		v = v.Elem()
	}
	p := Patch{}
	if v.Kind() != reflect.Struct {
		return p
	}
	collect(v, p)
	for _, col := range omit {
		delete(p, col)
	}
	return p
}

func collect(v reflect.Value, p Patch) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() || f.Tag.Get("gorm") == "-" {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			continue
		}
		if f.Anonymous && name == "" && f.Type.Kind() == reflect.Struct {
			collect(v.Field(i), p)
			continue
		}
		if name == "" {
			name = f.Name
		}
		p[name] = v.Field(i).Interface()
	}
}
