package describe

import (
	flexjson "github.com/reoring/flexjson"
	js "github.com/reoring/flexjson/jsonschema"
)

// nullable is the dynamic counterpart of flexjson.Optional: absent values are
// nil rather than a nil pointer. A value elem rejects is absent too, so a
// nullable element never empties its container.
type nullable struct{ elem flexjson.Type[any] }

func (nullable) Default() any { return nil }

func (n nullable) Decode(raw any) (any, bool) {
	if raw == nil {
		return nil, true
	}
	if v, ok := n.elem.Decode(raw); ok {
		return v, true
	}
	return nil, true
}

func (n nullable) Encode(v any) any {
	if v == nil {
		return nil
	}
	return n.elem.Encode(v)
}

func (n nullable) JSONSchema() *js.Schema { return js.Nullable(n.elem.JSONSchema()) }
