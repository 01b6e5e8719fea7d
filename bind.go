package flexjson

import (
	"fmt"
	"reflect"

	js "github.com/reoring/flexjson/jsonschema"
)

// BindOpt customizes how Bind maps Go types to descriptors.
type BindOpt func(*binder)

// WithType makes Bind use t for every field of type F. Registered types win
// over the built-in kind mapping.
func WithType[F any](t Type[F]) BindOpt {
	return func(b *binder) { b.registered[reflect.TypeFor[F]()] = Erase(t) }
}

// WithEnum registers an enum for fields of type E.
func WithEnum[E comparable, R Discriminant](e *Enum[E, R]) BindOpt {
	return WithType[E](e)
}

// Bind derives a record description from the exported fields of struct T.
// Wire names follow ResolveStructKey; embedded structs without a name are
// flattened. Supported field types are integers, floats, strings and bools
// (named or not), slices, maps keyed by strings, pointers (as optionals),
// nested structs, empty interfaces, and anything registered with WithType or
// WithEnum. Any other type is reported as unsupported_type.
func Bind[T any](opts ...BindOpt) (*Record[T], error) {
	rt := reflect.TypeFor[T]()
	if rt.Kind() != reflect.Struct {
		return nil, singleIssue("/", CodeUnsupportedType, "Bind[T] requires a struct, got "+rt.String(), nil)
	}
	b := newBinder(opts)
	bound, err := b.bindStruct(rt, "")
	if err != nil {
		return nil, err
	}
	fields := make([]FieldSpec[T], 0, len(bound))
	for _, bf := range bound {
		fields = append(fields, FieldFunc[T, any](bf.name, bf.typ,
			func(t *T) any { return reflect.ValueOf(t).Elem().FieldByIndex(bf.index).Interface() },
			func(t *T, v any) { setValue(reflect.ValueOf(t).Elem().FieldByIndex(bf.index), v) },
		))
	}
	return NewRecord(fields...)
}

// MustBind is like Bind but panics on error.
func MustBind[T any](opts ...BindOpt) *Record[T] {
	r, err := Bind[T](opts...)
	if err != nil {
		panic(err)
	}
	return r
}

// TypeFor returns the descriptor Bind would use for rt. Values produced by it
// have exactly type rt.
func TypeFor(rt reflect.Type, opts ...BindOpt) (Type[any], error) {
	return newBinder(opts).typeFor(rt, "")
}

// DefaultFor returns the default value registered for rt.
func DefaultFor(rt reflect.Type, opts ...BindOpt) (any, error) {
	t, err := TypeFor(rt, opts...)
	if err != nil {
		return nil, err
	}
	return t.Default(), nil
}

type binder struct {
	registered map[reflect.Type]Type[any]
	structs    map[reflect.Type]*structDyn
	inProgress map[reflect.Type]bool
}

func newBinder(opts []BindOpt) *binder {
	b := &binder{
		registered: make(map[reflect.Type]Type[any]),
		structs:    make(map[reflect.Type]*structDyn),
		inProgress: make(map[reflect.Type]bool),
	}
	for _, o := range opts {
		if o != nil {
			o(b)
		}
	}
	return b
}

type boundField struct {
	name  string
	index []int
	typ   Type[any]
}

func (b *binder) bindStruct(rt reflect.Type, path string) ([]boundField, error) {
	var (
		out []boundField
		iss Issues
	)
	seen := map[string]bool{}
	var walk func(t reflect.Type, prefix []int)
	walk = func(t reflect.Type, prefix []int) {
		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)
			index := append(append([]int(nil), prefix...), i)
			if sf.Anonymous && sf.Type.Kind() == reflect.Struct && !hasNameTag(sf) {
				if _, custom := b.registered[sf.Type]; !custom {
					walk(sf.Type, index)
					continue
				}
			}
			if !sf.IsExported() {
				continue
			}
			name := ResolveStructKey(sf)
			if name == "-" || name == "" {
				continue
			}
			fpath := joinPointer(path, name)
			if seen[name] {
				iss = AppendIssues(iss, singleIssue(fpath, CodeDuplicateField, name, map[string]any{"field": name})...)
				continue
			}
			seen[name] = true
			ft, err := b.typeFor(sf.Type, fpath)
			if err != nil {
				if sub, ok := AsIssues(err); ok {
					iss = AppendIssues(iss, sub...)
				}
				continue
			}
			out = append(out, boundField{name: name, index: index, typ: ft})
		}
	}
	walk(rt, nil)
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

func hasNameTag(sf reflect.StructField) bool {
	return ResolveStructKey(sf) != sf.Name
}

func (b *binder) typeFor(rt reflect.Type, path string) (Type[any], error) {
	if t, ok := b.registered[rt]; ok {
		return t, nil
	}
	unsupported := func(detail string) error {
		return singleIssue(rootIfEmpty(path), CodeUnsupportedType, rt.String()+": "+detail, map[string]any{"type": rt.String()})
	}
	switch rt.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.String, reflect.Bool:
		return scalarDyn{rt: rt}, nil
	case reflect.Interface:
		if rt.NumMethod() != 0 {
			return nil, unsupported("only empty interfaces are supported")
		}
		return Raw(), nil
	case reflect.Slice:
		elem, err := b.typeFor(rt.Elem(), path)
		if err != nil {
			return nil, err
		}
		return sliceDyn{rt: rt, elem: elem}, nil
	case reflect.Map:
		if rt.Key().Kind() != reflect.String {
			return nil, unsupported("map keys must be strings")
		}
		elem, err := b.typeFor(rt.Elem(), path)
		if err != nil {
			return nil, err
		}
		return mapDyn{rt: rt, elem: elem}, nil
	case reflect.Pointer:
		elem, err := b.typeFor(rt.Elem(), path)
		if err != nil {
			return nil, err
		}
		return optionalDyn{rt: rt, elem: elem}, nil
	case reflect.Struct:
		if sd, ok := b.structs[rt]; ok {
			return sd, nil
		}
		if b.inProgress[rt] {
			return nil, unsupported("recursive struct types are not supported")
		}
		b.inProgress[rt] = true
		defer delete(b.inProgress, rt)
		fields, err := b.bindStruct(rt, path)
		if err != nil {
			return nil, err
		}
		if len(fields) == 0 && rt.NumField() > 0 {
			return nil, unsupported("no exported fields; register it with WithType")
		}
		sd := &structDyn{rt: rt, fields: fields}
		b.structs[rt] = sd
		return sd, nil
	default:
		return nil, unsupported("kind " + rt.Kind().String())
	}
}

func rootIfEmpty(p string) string {
	if p == "" {
		return "/"
	}
	return p
}

// valueOf turns a decoded value into a reflect.Value assignable to rt.
func valueOf(v any, rt reflect.Type) reflect.Value {
	if v == nil {
		return reflect.Zero(rt)
	}
	rv := reflect.ValueOf(v)
	if rv.Type() != rt && rv.Type().ConvertibleTo(rt) {
		rv = rv.Convert(rt)
	}
	return rv
}

func setValue(dst reflect.Value, v any) { dst.Set(valueOf(v, dst.Type())) }

// ---- reflection-backed descriptors ----

type scalarDyn struct{ rt reflect.Type }

func (s scalarDyn) Default() any { return reflect.Zero(s.rt).Interface() }

func (s scalarDyn) Decode(raw any) (any, bool) {
	out := reflect.New(s.rt).Elem()
	switch s.rt.Kind() {
	case reflect.String:
		str, ok := raw.(string)
		if !ok {
			return nil, false
		}
		out.SetString(str)
	case reflect.Bool:
		bv, ok := raw.(bool)
		if !ok {
			return nil, false
		}
		out.SetBool(bv)
	case reflect.Float32, reflect.Float64:
		f, ok := toFloat[float64](raw)
		if !ok || out.OverflowFloat(f) {
			return nil, false
		}
		out.SetFloat(f)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		bi, ok := integral(raw)
		if !ok || !bi.IsInt64() || out.OverflowInt(bi.Int64()) {
			return nil, false
		}
		out.SetInt(bi.Int64())
	default:
		bi, ok := integral(raw)
		if !ok || bi.Sign() < 0 || !bi.IsUint64() || out.OverflowUint(bi.Uint64()) {
			return nil, false
		}
		out.SetUint(bi.Uint64())
	}
	return out.Interface(), true
}

func (s scalarDyn) Encode(v any) any {
	rv := valueOf(v, s.rt)
	if rv.Type() != s.rt {
		rv = reflect.Zero(s.rt)
	}
	switch s.rt.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return rv.Bool()
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	default:
		return rv.Uint()
	}
}

func (s scalarDyn) JSONSchema() *js.Schema {
	switch s.rt.Kind() {
	case reflect.String:
		return &js.Schema{Type: "string", Default: ""}
	case reflect.Bool:
		return &js.Schema{Type: "boolean", Default: false}
	case reflect.Float32, reflect.Float64:
		return &js.Schema{Type: "number", Default: 0.0}
	default:
		return &js.Schema{Type: "integer", Default: 0}
	}
}

type sliceDyn struct {
	rt   reflect.Type
	elem Type[any]
}

func (s sliceDyn) Default() any { return reflect.MakeSlice(s.rt, 0, 0).Interface() }

func (s sliceDyn) Decode(raw any) (any, bool) {
	return s.decode(raw, func(it any, _ int) (any, bool) { return s.elem.Decode(it) })
}

func (s sliceDyn) decodeWithPresence(raw any, base string, pm PresenceMap) (any, bool) {
	md, nested := s.elem.(presenceDecoder[any])
	if !nested {
		return s.Decode(raw)
	}
	scratch := PresenceMap{}
	v, ok := s.decode(raw, func(it any, i int) (any, bool) {
		return md.decodeWithPresence(it, joinPointer(base, fmt.Sprint(i)), scratch)
	})
	if ok {
		pm.merge(scratch)
	}
	return v, ok
}

func (s sliceDyn) decode(raw any, each func(any, int) (any, bool)) (any, bool) {
	arr, ok := raw.([]any)
	if !ok {
		return nil, false
	}
	out := reflect.MakeSlice(s.rt, 0, len(arr))
	for i, it := range arr {
		v, ok := each(it, i)
		if !ok {
			return nil, false
		}
		out = reflect.Append(out, valueOf(v, s.rt.Elem()))
	}
	return out.Interface(), true
}

func (s sliceDyn) Encode(v any) any {
	out := []any{}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Kind() != reflect.Slice {
		return out
	}
	for i := 0; i < rv.Len(); i++ {
		out = append(out, s.elem.Encode(rv.Index(i).Interface()))
	}
	return out
}

func (s sliceDyn) JSONSchema() *js.Schema {
	return &js.Schema{Type: "array", Items: s.elem.JSONSchema(), Default: []any{}}
}

type mapDyn struct {
	rt   reflect.Type
	elem Type[any]
}

func (m mapDyn) Default() any { return reflect.MakeMap(m.rt).Interface() }

func (m mapDyn) Decode(raw any) (any, bool) {
	return m.decode(raw, func(it any, _ string) (any, bool) { return m.elem.Decode(it) })
}

func (m mapDyn) decodeWithPresence(raw any, base string, pm PresenceMap) (any, bool) {
	md, nested := m.elem.(presenceDecoder[any])
	if !nested {
		return m.Decode(raw)
	}
	scratch := PresenceMap{}
	v, ok := m.decode(raw, func(it any, k string) (any, bool) {
		return md.decodeWithPresence(it, joinPointer(base, k), scratch)
	})
	if ok {
		pm.merge(scratch)
	}
	return v, ok
}

func (m mapDyn) decode(raw any, each func(any, string) (any, bool)) (any, bool) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, false
	}
	out := reflect.MakeMapWithSize(m.rt, len(obj))
	for k, it := range obj {
		v, ok := each(it, k)
		if !ok {
			return nil, false
		}
		out.SetMapIndex(reflect.ValueOf(k).Convert(m.rt.Key()), valueOf(v, m.rt.Elem()))
	}
	return out.Interface(), true
}

func (m mapDyn) Encode(v any) any {
	out := map[string]any{}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Kind() != reflect.Map {
		return out
	}
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = m.elem.Encode(iter.Value().Interface())
	}
	return out
}

func (m mapDyn) JSONSchema() *js.Schema {
	return &js.Schema{Type: "object", AdditionalProperties: m.elem.JSONSchema(), Default: map[string]any{}}
}

type optionalDyn struct {
	rt   reflect.Type
	elem Type[any]
}

func (o optionalDyn) Default() any { return reflect.Zero(o.rt).Interface() }

func (o optionalDyn) Decode(raw any) (any, bool) {
	if raw == nil {
		return o.Default(), true
	}
	return o.wrap(o.elem.Decode(raw))
}

func (o optionalDyn) decodeWithPresence(raw any, base string, pm PresenceMap) (any, bool) {
	if raw == nil {
		return o.Default(), true
	}
	scratch := PresenceMap{}
	v, ok := decodeNested(o.elem, raw, base, scratch)
	if !ok {
		pm[base] |= PresenceInvalid | PresenceDefaultApplied
		return o.Default(), true
	}
	pm.merge(scratch)
	return o.wrap(v, true)
}

// wrap boxes v; an undecodable value is absent rather than a failure.
func (o optionalDyn) wrap(v any, ok bool) (any, bool) {
	if !ok {
		return o.Default(), true
	}
	p := reflect.New(o.rt.Elem())
	p.Elem().Set(valueOf(v, o.rt.Elem()))
	return p.Interface(), true
}

func (o optionalDyn) Encode(v any) any {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Kind() != reflect.Pointer || rv.IsNil() {
		return nil
	}
	return o.elem.Encode(rv.Elem().Interface())
}

func (o optionalDyn) JSONSchema() *js.Schema { return js.Nullable(o.elem.JSONSchema()) }

type structDyn struct {
	rt     reflect.Type
	fields []boundField
}

func (s *structDyn) Default() any {
	out := reflect.New(s.rt).Elem()
	for _, f := range s.fields {
		setValue(out.FieldByIndex(f.index), f.typ.Default())
	}
	return out.Interface()
}

func (s *structDyn) Decode(raw any) (any, bool) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, false
	}
	doc := DocumentOf(m)
	out := reflect.New(s.rt).Elem()
	for _, f := range s.fields {
		setValue(out.FieldByIndex(f.index), DecodeField(doc, f.name, f.typ))
	}
	return out.Interface(), true
}

func (s *structDyn) decodeWithPresence(raw any, base string, pm PresenceMap) (any, bool) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, false
	}
	doc := DocumentOf(m)
	out := reflect.New(s.rt).Elem()
	for _, f := range s.fields {
		v, _ := decodeFieldMeta(doc, f.name, f.typ, base, pm)
		setValue(out.FieldByIndex(f.index), v)
	}
	return out.Interface(), true
}

func (s *structDyn) Encode(v any) any {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Type() != s.rt {
		rv = reflect.ValueOf(s.Default())
	}
	var o Object
	for _, f := range s.fields {
		o.Set(f.name, f.typ.Encode(rv.FieldByIndex(f.index).Interface()))
	}
	return o
}

func (s *structDyn) JSONSchema() *js.Schema {
	sc := &js.Schema{Type: "object", Properties: make(map[string]*js.Schema, len(s.fields))}
	for _, f := range s.fields {
		sc.Properties[f.name] = f.typ.JSONSchema()
	}
	return sc
}
