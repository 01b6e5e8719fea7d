// Package flexjson decodes JSON objects into Go values without ever failing
// on the content of a field.
//
// A record description lists fields in order, each with a type descriptor.
// When a field is missing, null where a value is required, of the wrong JSON
// kind, out of range for its Go type, or an unknown enum discriminant, the
// descriptor's default takes its place:
//
//	role := flexjson.MustStringEnum(Guest, Admin, Member, Guest)
//	users := flexjson.MustRecord(
//	    flexjson.Field("id", flexjson.Int(), func(u *User) *int { return &u.ID }),
//	    flexjson.Field("role", flexjson.Type[Role](role), func(u *User) *Role { return &u.Role }),
//	)
//	u, err := flexjson.Unmarshal(data, users)
//
// err is non-nil only for structural problems with the input itself, reported
// as Issues: malformed or truncated JSON, a root that is not an object, or a
// limit configured through ParseOpt.
//
// Records can also be derived from struct types with Bind, or loaded from
// YAML with the describe package. DecodeWithMeta reports, per JSON Pointer,
// whether a value was seen, null, defaulted or invalid.
package flexjson
