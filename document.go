package flexjson

import (
	"context"
	"errors"
	"io"
	"sort"

	eng "github.com/reoring/flexjson/internal/engine"
)

// Document is a parsed JSON object: field name to JSON value. Values are nil,
// bool, string, json.Number (float64 under NumberFloat64), []any or
// map[string]any. A Document is read-only; decoding never mutates it.
type Document struct {
	fields map[string]any
}

// DocumentOf wraps an already parsed object. The map is borrowed, not copied.
func DocumentOf(m map[string]any) Document { return Document{fields: m} }

// Lookup returns the raw value stored under name.
func (d Document) Lookup(name string) (any, bool) {
	v, ok := d.fields[name]
	return v, ok
}

// Has reports whether name is present (null counts as present).
func (d Document) Has(name string) bool {
	_, ok := d.fields[name]
	return ok
}

// Len returns the number of top-level fields.
func (d Document) Len() int { return len(d.fields) }

// Keys returns the field names in ascending order.
func (d Document) Keys() []string {
	keys := make([]string, 0, len(d.fields))
	for k := range d.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ParseDocument reads one JSON object from src. Malformed or truncated input,
// a non-object root, trailing data and limit violations are structural errors
// returned as Issues; nothing about individual field values is checked here.
func ParseDocument(ctx context.Context, src Source, opts ...ParseOpt) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, Issues{{Path: "/", Code: CodeCanceled, Message: err.Error(), Cause: err, Offset: -1}}
	}
	if src == nil {
		return Document{}, singleIssue("/", CodeParseError, "nil source", nil)
	}
	opt := lastOpt(opts)
	var es eng.TokenSource = engineTokenSource(src)
	if eo := enforceOptions(opt); !eo.Disabled() {
		es = eng.WrapWithEnforcement(es, eo)
	}
	conv := eng.AsJSONNumber
	if src.NumberMode() == NumberFloat64 {
		conv = eng.AsFloat64
	}
	v, err := eng.DecodeAny(es, conv)
	if err != nil {
		return Document{}, toIssues(err, src.Location())
	}
	m, ok := v.(map[string]any)
	if !ok {
		return Document{}, singleIssue("/", CodeInvalidType, "document root must be a JSON object", map[string]any{"got": jsonKind(v)})
	}
	if _, err := es.NextToken(); err != io.EOF {
		if err == nil {
			return Document{}, singleIssue("/", CodeParseError, "unexpected data after document", nil)
		}
		return Document{}, toIssues(err, src.Location())
	}
	return Document{fields: m}, nil
}

func toIssues(err error, offset int64) Issues {
	if ii, ok := AsIssues(err); ok {
		return ii
	}
	var ie eng.IssueError
	if errors.As(err, &ie) {
		return Issues{{Path: ie.Path, Code: ie.Code, Message: ie.Message, Offset: offset}}
	}
	if errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return Issues{{Path: "/", Code: CodeParseError, Message: err.Error(), Cause: err, Offset: offset}}
}

// jsonKind names the JSON kind of a tree value.
func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return "number"
	}
}
