package flexjson

import (
	js "github.com/reoring/flexjson/jsonschema"
)

// Type describes how one Go type is decoded leniently.
//
// Default is the value used whenever the field is absent or unusable. It must
// be pure and must not depend on any document. Decode converts a raw Document
// value (nil, bool, string, json.Number, float64, []any, map[string]any) and
// reports ok=false on any mismatch; the returned value is then ignored.
// Encode produces the wire form that Decode accepts back.
type Type[T any] interface {
	Default() T
	Decode(raw any) (T, bool)
	Encode(v T) any
	JSONSchema() *js.Schema
}

// DefaultOf resolves the default value registered for t.
func DefaultOf[T any](t Type[T]) T { return t.Default() }

// ---- string ----

type stringType[T ~string] struct{}

// String decodes JSON strings. Default "".
func String() Type[string] { return stringType[string]{} }

// StringOf decodes JSON strings into a named string type. Default "".
func StringOf[T ~string]() Type[T] { return stringType[T]{} }

func (stringType[T]) Default() T { return "" }
func (stringType[T]) Decode(raw any) (T, bool) {
	s, ok := raw.(string)
	return T(s), ok
}
func (stringType[T]) Encode(v T) any { return string(v) }
func (stringType[T]) JSONSchema() *js.Schema {
	return &js.Schema{Type: "string", Default: ""}
}

// ---- bool ----

type boolType[T ~bool] struct{}

// Bool decodes JSON booleans. Default false.
func Bool() Type[bool] { return boolType[bool]{} }

// BoolOf decodes JSON booleans into a named bool type. Default false.
func BoolOf[T ~bool]() Type[T] { return boolType[T]{} }

func (boolType[T]) Default() T { return false }
func (boolType[T]) Decode(raw any) (T, bool) {
	b, ok := raw.(bool)
	return T(b), ok
}
func (boolType[T]) Encode(v T) any { return bool(v) }
func (boolType[T]) JSONSchema() *js.Schema {
	return &js.Schema{Type: "boolean", Default: false}
}

// ---- integers ----

type integerType[T IntegerKind] struct{}

// Integer decodes integral JSON numbers that fit T. Default 0.
func Integer[T IntegerKind]() Type[T] { return integerType[T]{} }

// Int is Integer[int]().
func Int() Type[int] { return integerType[int]{} }

// Int64 is Integer[int64]().
func Int64() Type[int64] { return integerType[int64]{} }

// Int32 is Integer[int32]().
func Int32() Type[int32] { return integerType[int32]{} }

// Uint is Integer[uint]().
func Uint() Type[uint] { return integerType[uint]{} }

func (integerType[T]) Default() T               { return 0 }
func (integerType[T]) Decode(raw any) (T, bool) { return toInteger[T](raw) }
func (integerType[T]) Encode(v T) any {
	if isSigned[T]() {
		return int64(v)
	}
	return uint64(v)
}
func (integerType[T]) JSONSchema() *js.Schema {
	return &js.Schema{Type: "integer", Default: 0}
}

// ---- floats ----

type floatType[T FloatKind] struct{}

// Float decodes JSON numbers that fit T. Default 0.0.
func Float[T FloatKind]() Type[T] { return floatType[T]{} }

// Float64 is Float[float64]().
func Float64() Type[float64] { return floatType[float64]{} }

// Float32 is Float[float32]().
func Float32() Type[float32] { return floatType[float32]{} }

func (floatType[T]) Default() T               { return 0 }
func (floatType[T]) Decode(raw any) (T, bool) { return toFloat[T](raw) }
func (floatType[T]) Encode(v T) any           { return float64(v) }
func (floatType[T]) JSONSchema() *js.Schema {
	return &js.Schema{Type: "number", Default: 0.0}
}

// ---- raw ----

type rawType struct{}

// Raw passes any JSON value through untouched. Default nil.
func Raw() Type[any] { return rawType{} }

func (rawType) Default() any               { return nil }
func (rawType) Decode(raw any) (any, bool) { return raw, true }
func (rawType) Encode(v any) any           { return v }
func (rawType) JSONSchema() *js.Schema     { return &js.Schema{} }

// ---- explicit fallback ----

type withDefault[T any] struct {
	Type[T]
	def T
}

// WithDefault keeps t's decoding rules but falls back to def instead of t's
// own default. def is returned as is, so reference values are shared.
func WithDefault[T any](t Type[T], def T) Type[T] { return withDefault[T]{Type: t, def: def} }

func (w withDefault[T]) Default() T { return w.def }
func (w withDefault[T]) JSONSchema() *js.Schema {
	s := *w.Type.JSONSchema()
	s.Default = w.Type.Encode(w.def)
	return &s
}

func (w withDefault[T]) decodeWithPresence(raw any, base string, pm PresenceMap) (T, bool) {
	return decodeNested(w.Type, raw, base, pm)
}

type withDefaultFunc[T any] struct {
	Type[T]
	fn func() T
}

// WithDefaultFunc is WithDefault for reference values: fn is called for every
// fallback so decoded values never share storage.
func WithDefaultFunc[T any](t Type[T], fn func() T) Type[T] {
	if fn == nil {
		panic("flexjson.WithDefaultFunc: fn must not be nil")
	}
	return withDefaultFunc[T]{Type: t, fn: fn}
}

func (w withDefaultFunc[T]) Default() T { return w.fn() }
func (w withDefaultFunc[T]) JSONSchema() *js.Schema {
	s := *w.Type.JSONSchema()
	s.Default = w.Type.Encode(w.fn())
	return &s
}

func (w withDefaultFunc[T]) decodeWithPresence(raw any, base string, pm PresenceMap) (T, bool) {
	return decodeNested(w.Type, raw, base, pm)
}

// decodeNested decodes raw with t, recording presence below base when t has
// fields of its own.
func decodeNested[T any](t Type[T], raw any, base string, pm PresenceMap) (T, bool) {
	if md, ok := t.(presenceDecoder[T]); ok {
		return md.decodeWithPresence(raw, base, pm)
	}
	return t.Decode(raw)
}

// ---- erasure ----

type erased[T any] struct{ t Type[T] }

// Erase projects a typed descriptor onto Type[any]. Encode accepts only T
// values; anything else encodes t's default.
func Erase[T any](t Type[T]) Type[any] { return erased[T]{t: t} }

func (e erased[T]) Default() any { return e.t.Default() }
func (e erased[T]) Decode(raw any) (any, bool) {
	v, ok := e.t.Decode(raw)
	if !ok {
		return nil, false
	}
	return v, true
}
func (e erased[T]) Encode(v any) any {
	tv, ok := v.(T)
	if !ok {
		tv = e.t.Default()
	}
	return e.t.Encode(tv)
}
func (e erased[T]) JSONSchema() *js.Schema { return e.t.JSONSchema() }

func (e erased[T]) decodeWithPresence(raw any, base string, pm PresenceMap) (any, bool) {
	if md, ok := any(e.t).(presenceDecoder[T]); ok {
		v, ok := md.decodeWithPresence(raw, base, pm)
		if !ok {
			return nil, false
		}
		return v, true
	}
	return e.Decode(raw)
}
