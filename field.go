package flexjson

// DecodeField returns the value stored under name in doc, decoded with t, or
// t's default when the field is absent or its value does not decode. It never
// fails.
func DecodeField[T any](doc Document, name string, t Type[T]) T {
	raw, found := doc.Lookup(name)
	if !found {
		return t.Default()
	}
	if v, ok := t.Decode(raw); ok {
		return v
	}
	return t.Default()
}

// DecodeFieldWithPresence is DecodeField that also reports how the value was
// obtained.
func DecodeFieldWithPresence[T any](doc Document, name string, t Type[T]) (T, Presence) {
	pm := PresenceMap{}
	v, p := decodeFieldMeta(doc, name, t, "", pm)
	return v, p
}

// DecodeEnum resolves an enum field: the variant named by the field's
// discriminant, or the enum's default variant on any mismatch.
func DecodeEnum[E comparable, R Discriminant](doc Document, name string, e *Enum[E, R]) E {
	return DecodeField[E](doc, name, e)
}

// presenceDecoder is implemented by descriptors that contain fields of their
// own and can report presence below base.
type presenceDecoder[T any] interface {
	decodeWithPresence(raw any, base string, pm PresenceMap) (T, bool)
}

func decodeFieldMeta[T any](doc Document, name string, t Type[T], base string, pm PresenceMap) (T, Presence) {
	path := joinPointer(base, name)
	raw, found := doc.Lookup(name)
	if !found {
		pm[path] |= PresenceDefaultApplied
		return t.Default(), pm[path]
	}
	var (
		v  T
		ok bool
	)
	if md, nested := any(t).(presenceDecoder[T]); nested && raw != nil {
		v, ok = md.decodeWithPresence(raw, path, pm)
	} else {
		v, ok = t.Decode(raw)
	}
	if !ok {
		v = t.Default()
	}
	pm[path] |= fieldPresence(raw, found, ok)
	return v, pm[path]
}
