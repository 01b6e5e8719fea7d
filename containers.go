package flexjson

import (
	"strconv"

	eng "github.com/reoring/flexjson/internal/engine"
	js "github.com/reoring/flexjson/jsonschema"
)

// Containers are lenient as a whole: a single unusable element makes the
// field fall back to the empty container rather than dropping the element.

type sliceType[E any] struct{ elem Type[E] }

// SliceOf decodes JSON arrays whose every element decodes as elem.
// Default is a new empty slice.
func SliceOf[E any](elem Type[E]) Type[[]E] { return sliceType[E]{elem: elem} }

func (sliceType[E]) Default() []E { return []E{} }

func (s sliceType[E]) Decode(raw any) ([]E, bool) {
	arr, ok := raw.([]any)
	if !ok {
		return nil, false
	}
	out := make([]E, 0, len(arr))
	for _, it := range arr {
		v, ok := s.elem.Decode(it)
		if !ok {
			return nil, false
		}
		out = append(out, v)
	}
	return out, true
}

func (s sliceType[E]) Encode(v []E) any {
	out := make([]any, 0, len(v))
	for _, it := range v {
		out = append(out, s.elem.Encode(it))
	}
	return out
}

func (s sliceType[E]) JSONSchema() *js.Schema {
	return &js.Schema{Type: "array", Items: s.elem.JSONSchema(), Default: []any{}}
}

func (s sliceType[E]) decodeWithPresence(raw any, base string, pm PresenceMap) ([]E, bool) {
	md, nested := any(s.elem).(presenceDecoder[E])
	if !nested {
		return s.Decode(raw)
	}
	arr, ok := raw.([]any)
	if !ok {
		return nil, false
	}
	// Element flags only land in pm once the whole array has decoded.
	scratch := PresenceMap{}
	out := make([]E, 0, len(arr))
	for i, it := range arr {
		v, ok := md.decodeWithPresence(it, eng.JoinJSONPointer(base, strconv.Itoa(i)), scratch)
		if !ok {
			return nil, false
		}
		out = append(out, v)
	}
	pm.merge(scratch)
	return out, true
}

type mapType[V any] struct{ elem Type[V] }

// MapOf decodes JSON objects whose every value decodes as elem.
// Default is a new empty map.
func MapOf[V any](elem Type[V]) Type[map[string]V] { return mapType[V]{elem: elem} }

func (mapType[V]) Default() map[string]V { return map[string]V{} }

func (m mapType[V]) Decode(raw any) (map[string]V, bool) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, false
	}
	out := make(map[string]V, len(obj))
	for k, it := range obj {
		v, ok := m.elem.Decode(it)
		if !ok {
			return nil, false
		}
		out[k] = v
	}
	return out, true
}

func (m mapType[V]) decodeWithPresence(raw any, base string, pm PresenceMap) (map[string]V, bool) {
	md, nested := any(m.elem).(presenceDecoder[V])
	if !nested {
		return m.Decode(raw)
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, false
	}
	scratch := PresenceMap{}
	out := make(map[string]V, len(obj))
	for k, it := range obj {
		v, ok := md.decodeWithPresence(it, eng.JoinJSONPointer(base, k), scratch)
		if !ok {
			return nil, false
		}
		out[k] = v
	}
	pm.merge(scratch)
	return out, true
}

func (m mapType[V]) Encode(v map[string]V) any {
	out := make(map[string]any, len(v))
	for k, it := range v {
		out[k] = m.elem.Encode(it)
	}
	return out
}

func (m mapType[V]) JSONSchema() *js.Schema {
	return &js.Schema{Type: "object", AdditionalProperties: m.elem.JSONSchema(), Default: map[string]any{}}
}

type optionalType[T any] struct{ elem Type[T] }

// Optional decodes null as absent (nil) and anything else as elem. A value
// elem cannot decode is also absent, so an optional never fails; with
// presence collection it is flagged invalid instead. Default nil.
func Optional[T any](elem Type[T]) Type[*T] { return optionalType[T]{elem: elem} }

func (optionalType[T]) Default() *T { return nil }

func (o optionalType[T]) Decode(raw any) (*T, bool) {
	if raw == nil {
		return nil, true
	}
	v, ok := o.elem.Decode(raw)
	if !ok {
		return nil, true
	}
	return &v, true
}

func (o optionalType[T]) Encode(v *T) any {
	if v == nil {
		return nil
	}
	return o.elem.Encode(*v)
}

func (o optionalType[T]) JSONSchema() *js.Schema { return js.Nullable(o.elem.JSONSchema()) }

func (o optionalType[T]) decodeWithPresence(raw any, base string, pm PresenceMap) (*T, bool) {
	if raw == nil {
		return nil, true
	}
	scratch := PresenceMap{}
	v, ok := decodeNested(o.elem, raw, base, scratch)
	if !ok {
		pm[base] |= PresenceInvalid | PresenceDefaultApplied
		return nil, true
	}
	pm.merge(scratch)
	return &v, true
}
