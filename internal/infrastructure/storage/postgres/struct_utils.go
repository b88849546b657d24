package postgres

import (
	"reflect"
	"sync"
)

// column is a struct field mapped to a table column through its "db" tag.
type column struct {
	index []int
	name  string
}

var columnCache sync.Map // reflect.Type -> []column

// columnsOf returns the db-tagged fields of t, embedded structs flattened.
// The result is computed once per type.
func columnsOf(t reflect.Type) []column {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if cached, ok := columnCache.Load(t); ok {
		return cached.([]column)
	}

	var cols []column
	if t.Kind() == reflect.Struct {
		for _, f := range reflect.VisibleFields(t) {
			if f.Anonymous {
				continue
			}
			tag := f.Tag.Get("db")
			if tag == "" || tag == "-" {
				continue
			}
			cols = append(cols, column{index: f.Index, name: tag})
		}
	}
	columnCache.Store(t, cols)
	return cols
}

// ExtractDBColumns lists the column names of T in field order.
//
// Usage:
//
//	columns := ExtractDBColumns[inventory.Product]()
//	// ["id", "owner_id", "name", ...]
func ExtractDBColumns[T any]() []string {
	cols := columnsOf(reflect.TypeFor[T]())
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.name
	}
	return names
}

// StructToMap converts a struct (or pointer to struct) to column -> value
// using "db" tags. Fields tagged "-" or untagged are skipped.
func StructToMap(v any) map[string]any {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	cols := columnsOf(rv.Type())
	res := make(map[string]any, len(cols))
	for _, c := range cols {
		res[c.name] = rv.FieldByIndex(c.index).Interface()
	}
	return res
}
