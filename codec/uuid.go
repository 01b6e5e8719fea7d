package codec

import (
	"github.com/google/uuid"
	flexjson "github.com/reoring/flexjson"
	js "github.com/reoring/flexjson/jsonschema"
)

// UUID returns a descriptor for UUIDs carried as JSON strings. The hyphenated,
// braced, urn:uuid: and bare hex forms are accepted; anything else decodes to
// the nil UUID. Encoding always writes the hyphenated lowercase form.
func UUID() flexjson.Type[uuid.UUID] { return uuidType{} }

type uuidType struct{}

func (uuidType) Default() uuid.UUID { return uuid.Nil }

func (uuidType) Decode(raw any) (uuid.UUID, bool) {
	s, ok := raw.(string)
	if !ok {
		return uuid.Nil, false
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, false
	}
	return u, true
}

func (uuidType) Encode(v uuid.UUID) any { return v.String() }

func (uuidType) JSONSchema() *js.Schema {
	return &js.Schema{Type: "string", Format: "uuid", Default: uuid.Nil.String()}
}
