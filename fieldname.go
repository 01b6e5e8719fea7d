package flexjson

import (
	"reflect"
	"strings"
)

// ResolveStructKey returns the wire name of a struct field: the name= option
// of a flexjson tag, then the json tag name, then the Go field name. "-" in
// either tag disables the field and is returned as is.
func ResolveStructKey(sf reflect.StructField) string {
	if tag, ok := sf.Tag.Lookup("flexjson"); ok {
		if tag == "-" {
			return "-"
		}
		for opt := range strings.SplitSeq(tag, ",") {
			if name, found := strings.CutPrefix(strings.TrimSpace(opt), "name="); found && name != "" {
				return name
			}
		}
	}
	if tag, ok := sf.Tag.Lookup("json"); ok {
		if tag == "-" {
			return "-"
		}
		if name, _, _ := strings.Cut(tag, ","); name != "" {
			return name
		}
	}
	return sf.Name
}

// FieldNameOf returns the wire name of the top-level field of S that sel
// points into:
//
//	FieldNameOf(func(u *User) *string { return &u.Email }) // "email"
//
// It panics when sel does not return the address of an exported field of S,
// or when that field is disabled by its tags.
func FieldNameOf[S, F any](sel func(*S) *F) string {
	if sel == nil {
		panic("flexjson.FieldNameOf: selector must not be nil")
	}
	var probe S
	rv := reflect.ValueOf(&probe).Elem()
	if rv.Kind() != reflect.Struct {
		panic("flexjson.FieldNameOf: S must be a struct")
	}
	target := reflect.ValueOf(sel(&probe)).Pointer()
	want := reflect.TypeFor[F]()
	for _, sf := range reflect.VisibleFields(rv.Type()) {
		if !sf.IsExported() || sf.Type != want || len(sf.Index) != 1 {
			continue
		}
		if rv.FieldByIndex(sf.Index).Addr().Pointer() != target {
			continue
		}
		switch name := ResolveStructKey(sf); name {
		case "", "-":
			panic("flexjson.FieldNameOf: selected field is disabled by its tag")
		default:
			return name
		}
	}
	panic("flexjson.FieldNameOf: selector must return the address of a top-level exported field")
}
