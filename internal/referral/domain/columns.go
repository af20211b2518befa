package domain

import (
	"fmt"
	"reflect"
)

const columnTag = "csv"

// Columns returns the extract column names declared on a row type, in field order.
func Columns[T any]() []string {
	typ := reflect.TypeOf((*T)(nil)).Elem()
	out := make([]string, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		if name := typ.Field(i).Tag.Get(columnTag); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// Values returns the column values of a row in the same order as Columns.
func Values[T any](row *T) []*string {
	val := reflect.ValueOf(row).Elem()
	typ := val.Type()
	out := make([]*string, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		if typ.Field(i).Tag.Get(columnTag) == "" {
			continue
		}
		v, _ := val.Field(i).Interface().(*string)
		out = append(out, v)
	}
	return out
}

// RowDecoder maps a header line onto the fields of a row type.
type RowDecoder[T any] struct {
	fieldByColumn []int
}

// NewRowDecoder binds header positions to fields. Unknown columns are ignored.
func NewRowDecoder[T any](header []string) (*RowDecoder[T], error) {
	typ := reflect.TypeOf((*T)(nil)).Elem()
	if typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("row type %s is not a struct", typ)
	}
	index := make(map[string]int, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		if name := typ.Field(i).Tag.Get(columnTag); name != "" {
			index[name] = i
		}
	}

	fields := make([]int, len(header))
	for pos, name := range header {
		if i, ok := index[name]; ok {
			fields[pos] = i
		} else {
			fields[pos] = -1
		}
	}
	return &RowDecoder[T]{fieldByColumn: fields}, nil
}

// Decode builds a row from one record. Values are copied verbatim; null
// normalization happens during assembly.
func (d *RowDecoder[T]) Decode(record []string) T {
	var row T
	val := reflect.ValueOf(&row).Elem()
	for pos, value := range record {
		if pos >= len(d.fieldByColumn) || d.fieldByColumn[pos] < 0 {
			continue
		}
		v := value
		val.Field(d.fieldByColumn[pos]).Set(reflect.ValueOf(&v))
	}
	return row
}

// MapValues rewrites every column value of every row in place.
func MapValues[T any](rows []T, fn func(*string) *string) {
	for r := range rows {
		val := reflect.ValueOf(&rows[r]).Elem()
		typ := val.Type()
		for i := 0; i < typ.NumField(); i++ {
			if typ.Field(i).Tag.Get(columnTag) == "" {
				continue
			}
			field := val.Field(i)
			current, _ := field.Interface().(*string)
			field.Set(reflect.ValueOf(fn(current)))
		}
	}
}
