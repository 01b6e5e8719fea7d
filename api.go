package flexjson

import (
	"context"

	"github.com/goccy/go-json"
)

// ---- Convenience wrappers ----

// DecodeFrom parses one JSON object from src and assembles it with r.
// The only errors are structural ones from the parser (malformed or truncated
// JSON, a non-object root, enforcement limits); field-level problems always
// resolve to defaults.
func DecodeFrom[T any](ctx context.Context, r *Record[T], src Source, opts ...ParseOpt) (T, error) {
	doc, err := ParseDocument(ctx, src, opts...)
	if err != nil {
		var zero T
		return zero, err
	}
	return r.Decode(doc), nil
}

// DecodeFromWithMeta is DecodeFrom returning presence metadata as well. The
// Presence option of the last ParseOpt filters which paths are reported.
func DecodeFromWithMeta[T any](ctx context.Context, r *Record[T], src Source, opts ...ParseOpt) (Decoded[T], error) {
	doc, err := ParseDocument(ctx, src, opts...)
	if err != nil {
		return Decoded[T]{}, err
	}
	dm := r.DecodeWithMeta(doc)
	dm.Presence = applyPresenceOptions(dm.Presence, lastOpt(opts).Presence)
	return dm, nil
}

// Unmarshal decodes data with r using the current JSON driver.
func Unmarshal[T any](data []byte, r *Record[T], opts ...ParseOpt) (T, error) {
	return DecodeFrom(context.Background(), r, JSONBytes(data), opts...)
}

// Marshal encodes v with r, keys in declared order.
func Marshal[T any](r *Record[T], v T) ([]byte, error) {
	return json.Marshal(r.Encode(v))
}

// MarshalIndent is Marshal with indentation.
func MarshalIndent[T any](r *Record[T], v T, prefix, indent string) ([]byte, error) {
	return json.MarshalIndent(r.Encode(v), prefix, indent)
}
