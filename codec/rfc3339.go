package codec

import (
	"time"

	flexjson "github.com/reoring/flexjson"
	js "github.com/reoring/flexjson/jsonschema"
)

// TimeRFC3339 returns a descriptor for RFC 3339 timestamps carried as JSON
// strings. Anything else, including a string in another layout, decodes to
// the zero time.
func TimeRFC3339() flexjson.Type[time.Time] { return rfc3339Type{} }

type rfc3339Type struct{}

func (rfc3339Type) Default() time.Time { return time.Time{} }

func (rfc3339Type) Decode(raw any) (time.Time, bool) {
	s, ok := raw.(string)
	if !ok {
		return time.Time{}, false
	}
	t, err := parseRFC3339(s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func (rfc3339Type) Encode(v time.Time) any { return formatRFC3339Canonical(v) }

func (rfc3339Type) JSONSchema() *js.Schema {
	return &js.Schema{Type: "string", Format: "date-time", Default: formatRFC3339Canonical(time.Time{})}
}

func parseRFC3339(s string) (time.Time, error) {
	// Accept RFC3339Nano (trailing zeros optional)
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
			return t2, nil
		}
		return time.Time{}, err
	}
	return t, nil
}

// UTC, RFC3339Nano (Go trims trailing zeros)
func formatRFC3339Canonical(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
