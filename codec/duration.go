package codec

import (
	"time"

	flexjson "github.com/reoring/flexjson"
	js "github.com/reoring/flexjson/jsonschema"
)

// Duration returns a descriptor for Go duration strings such as "1h30m".
// Numbers are not accepted: their unit would be a guess.
func Duration() flexjson.Type[time.Duration] { return durationType{} }

type durationType struct{}

func (durationType) Default() time.Duration { return 0 }

func (durationType) Decode(raw any) (time.Duration, bool) {
	s, ok := raw.(string)
	if !ok {
		return 0, false
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, false
	}
	return d, true
}

func (durationType) Encode(v time.Duration) any { return v.String() }

func (durationType) JSONSchema() *js.Schema {
	return &js.Schema{Type: "string", Format: "duration", Default: "0s"}
}
