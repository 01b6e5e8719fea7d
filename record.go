package flexjson

import (
	"fmt"

	eng "github.com/reoring/flexjson/internal/engine"
	js "github.com/reoring/flexjson/jsonschema"
)

// FieldSpec is one entry of a record description: a wire name, a type
// descriptor, and a way to store the decoded value into T. Build it with
// Field, FieldOf or FieldFunc.
type FieldSpec[T any] interface {
	Name() string
	decode(doc Document, dst *T)
	decodeMeta(doc Document, dst *T, base string, pm PresenceMap)
	encode(src *T) any
	schema() *js.Schema
}

type field[T, F any] struct {
	name string
	typ  Type[F]
	get  func(*T) F
	set  func(*T, F)
}

// Field describes a field stored at the address returned by sel:
//
//	flexjson.Field("id", flexjson.Int(), func(u *User) *int { return &u.ID })
func Field[T, F any](name string, typ Type[F], sel func(*T) *F) FieldSpec[T] {
	if sel == nil {
		panic("flexjson.Field: selector must not be nil")
	}
	return FieldFunc(name, typ,
		func(t *T) F { return *sel(t) },
		func(t *T, v F) { *sel(t) = v })
}

// FieldOf is Field with the wire name taken from the selected struct field's
// tags (see ResolveStructKey).
func FieldOf[T, F any](typ Type[F], sel func(*T) *F) FieldSpec[T] {
	return Field(FieldNameOf(sel), typ, sel)
}

// FieldFunc describes a field through explicit accessors.
func FieldFunc[T, F any](name string, typ Type[F], get func(*T) F, set func(*T, F)) FieldSpec[T] {
	if typ == nil || get == nil || set == nil {
		panic("flexjson.FieldFunc: type and accessors must not be nil")
	}
	return &field[T, F]{name: name, typ: typ, get: get, set: set}
}

func (f *field[T, F]) Name() string { return f.name }

func (f *field[T, F]) decode(doc Document, dst *T) {
	f.set(dst, DecodeField(doc, f.name, f.typ))
}

func (f *field[T, F]) decodeMeta(doc Document, dst *T, base string, pm PresenceMap) {
	v, _ := decodeFieldMeta(doc, f.name, f.typ, base, pm)
	f.set(dst, v)
}

func (f *field[T, F]) encode(src *T) any { return f.typ.Encode(f.get(src)) }

func (f *field[T, F]) schema() *js.Schema { return f.typ.JSONSchema() }

// Record is an ordered record description. Decoding visits the fields in
// declared order; each field falls back to its own default independently, so
// a record always decodes.
type Record[T any] struct {
	fields []FieldSpec[T]
}

// NewRecord builds a record description. Field names must be non-empty and
// unique.
func NewRecord[T any](fields ...FieldSpec[T]) (*Record[T], error) {
	var iss Issues
	seen := make(map[string]struct{}, len(fields))
	for i, f := range fields {
		if f == nil {
			iss = AppendIssues(iss, singleIssue("/", CodeInvalidType, fmt.Sprintf("field #%d is nil", i), nil)...)
			continue
		}
		name := f.Name()
		if name == "" {
			iss = AppendIssues(iss, singleIssue("/", CodeInvalidType, fmt.Sprintf("field #%d has an empty name", i), nil)...)
			continue
		}
		if _, dup := seen[name]; dup {
			iss = AppendIssues(iss, singleIssue(joinPointer("", name), CodeDuplicateField, name, map[string]any{"field": name})...)
			continue
		}
		seen[name] = struct{}{}
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return &Record[T]{fields: append([]FieldSpec[T](nil), fields...)}, nil
}

// MustRecord is like NewRecord but panics on an invalid description.
func MustRecord[T any](fields ...FieldSpec[T]) *Record[T] {
	r, err := NewRecord(fields...)
	if err != nil {
		panic(err)
	}
	return r
}

// Fields returns the field names in declared order.
func (r *Record[T]) Fields() []string {
	out := make([]string, len(r.fields))
	for i, f := range r.fields {
		out[i] = f.Name()
	}
	return out
}

// Decode assembles a T from doc, one field at a time.
func (r *Record[T]) Decode(doc Document) T {
	var out T
	for _, f := range r.fields {
		f.decode(doc, &out)
	}
	return out
}

// DecodeWithMeta is Decode plus presence flags keyed by JSON Pointer.
func (r *Record[T]) DecodeWithMeta(doc Document) Decoded[T] {
	pm := PresenceMap{"/": PresenceSeen}
	var out T
	for _, f := range r.fields {
		f.decodeMeta(doc, &out, "", pm)
	}
	return Decoded[T]{Value: out, Presence: pm}
}

// Default returns the record made only of field defaults.
func (r *Record[T]) Default() T { return r.Decode(Document{}) }

// Encode produces the wire form of v with keys in declared order.
func (r *Record[T]) Encode(v T) Object {
	var o Object
	for _, f := range r.fields {
		o.Set(f.Name(), f.encode(&v))
	}
	return o
}

// JSONSchema describes the record as a JSON object schema.
func (r *Record[T]) JSONSchema() *js.Schema {
	s := &js.Schema{Type: "object", Properties: make(map[string]*js.Schema, len(r.fields))}
	for _, f := range r.fields {
		s.Properties[f.Name()] = f.schema()
	}
	return s
}

type nestedType[T any] struct{ r *Record[T] }

// Nested lets a record be the type of another record's field. A JSON object
// decodes field by field with the same leniency; anything else yields the
// all-defaults record.
func Nested[T any](r *Record[T]) Type[T] { return nestedType[T]{r: r} }

func (n nestedType[T]) Default() T { return n.r.Default() }

func (n nestedType[T]) Decode(raw any) (T, bool) {
	m, ok := raw.(map[string]any)
	if !ok {
		var zero T
		return zero, false
	}
	return n.r.Decode(DocumentOf(m)), true
}

func (n nestedType[T]) Encode(v T) any { return n.r.Encode(v) }

func (n nestedType[T]) JSONSchema() *js.Schema { return n.r.JSONSchema() }

func (n nestedType[T]) decodeWithPresence(raw any, base string, pm PresenceMap) (T, bool) {
	m, ok := raw.(map[string]any)
	if !ok {
		var zero T
		return zero, false
	}
	doc := DocumentOf(m)
	var out T
	for _, f := range n.r.fields {
		f.decodeMeta(doc, &out, base, pm)
	}
	return out, true
}

func joinPointer(base, name string) string { return eng.JoinJSONPointer(base, name) }
