package flexjson

import (
	"bytes"

	json "github.com/goccy/go-json"
)

// Object is a JSON object that remembers key insertion order. Records encode
// into an Object so the declared field order survives marshaling, and dynamic
// records decode into one.
type Object struct {
	keys   []string
	values map[string]any
}

// Set stores v under k, appending k when it is new.
func (o *Object) Set(k string, v any) {
	if o.values == nil {
		o.values = make(map[string]any)
	}
	if _, ok := o.values[k]; !ok {
		o.keys = append(o.keys, k)
	}
	o.values[k] = v
}

// Get returns the value stored under k.
func (o Object) Get(k string) (any, bool) {
	v, ok := o.values[k]
	return v, ok
}

// Keys returns the keys in insertion order.
func (o Object) Keys() []string { return append([]string(nil), o.keys...) }

// Len returns the number of keys.
func (o Object) Len() int { return len(o.keys) }

// ToMap returns the entries as a plain map, converting nested Objects too.
func (o Object) ToMap() map[string]any {
	out := make(map[string]any, len(o.keys))
	for _, k := range o.keys {
		out[k] = plain(o.values[k])
	}
	return out
}

func plain(v any) any {
	switch t := v.(type) {
	case Object:
		return t.ToMap()
	case []any:
		out := make([]any, len(t))
		for i, it := range t {
			out[i] = plain(it)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, it := range t {
			out[k] = plain(it)
		}
		return out
	default:
		return v
	}
}

// MarshalJSON writes the entries in insertion order.
func (o Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(o.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
