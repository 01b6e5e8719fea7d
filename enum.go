package flexjson

import (
	"fmt"
	"reflect"

	js "github.com/reoring/flexjson/jsonschema"
)

// Discriminant is the set of raw types an enum variant can be serialized as.
type Discriminant interface {
	~string | Signed | Unsigned
}

// VariantSpec pairs an enum value with its wire discriminant.
type VariantSpec[E comparable, R Discriminant] struct {
	Value E
	Raw   R
}

// Variant declares one enum variant.
func Variant[E comparable, R Discriminant](value E, raw R) VariantSpec[E, R] {
	return VariantSpec[E, R]{Value: value, Raw: raw}
}

// Enum is a closed set of variants with a designated default. Decoding never
// fails: an absent field, a discriminant of the wrong JSON kind, or an unknown
// discriminant all resolve to the default variant. Matching is exact.
type Enum[E comparable, R Discriminant] struct {
	def      E
	variants []VariantSpec[E, R]
	byRaw    map[R]E
	byValue  map[E]R
	rawType  reflect.Type
}

var _ Type[string] = (*Enum[string, string])(nil)

// NewEnum validates the declaration and builds the enum. It fails when there
// are no variants, when a value or discriminant is declared twice, or when def
// is not one of the variants.
func NewEnum[E comparable, R Discriminant](def E, variants ...VariantSpec[E, R]) (*Enum[E, R], error) {
	e := &Enum[E, R]{
		def:      def,
		variants: append([]VariantSpec[E, R](nil), variants...),
		byRaw:    make(map[R]E, len(variants)),
		byValue:  make(map[E]R, len(variants)),
		rawType:  reflect.TypeFor[R](),
	}
	var iss Issues
	if len(variants) == 0 {
		iss = AppendIssues(iss, singleIssue("/", CodeInvalidEnumDefinition, "no variants declared", nil)...)
	}
	for _, v := range variants {
		if prev, dup := e.byRaw[v.Raw]; dup {
			iss = AppendIssues(iss, singleIssue("/", CodeDuplicateDiscriminant,
				fmt.Sprintf("discriminant %v is used by %v and %v", v.Raw, prev, v.Value),
				map[string]any{"discriminant": v.Raw})...)
			continue
		}
		if _, dup := e.byValue[v.Value]; dup {
			iss = AppendIssues(iss, singleIssue("/", CodeInvalidEnumDefinition,
				fmt.Sprintf("variant %v declared twice", v.Value), map[string]any{"variant": v.Value})...)
			continue
		}
		e.byRaw[v.Raw] = v.Value
		e.byValue[v.Value] = v.Raw
	}
	if _, ok := e.byValue[def]; !ok && len(variants) > 0 {
		iss = AppendIssues(iss, singleIssue("/", CodeInvalidEnumDefinition,
			fmt.Sprintf("default variant %v is not declared", def), map[string]any{"default": def})...)
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return e, nil
}

// MustEnum is like NewEnum but panics on an invalid declaration.
func MustEnum[E comparable, R Discriminant](def E, variants ...VariantSpec[E, R]) *Enum[E, R] {
	e, err := NewEnum(def, variants...)
	if err != nil {
		panic(err)
	}
	return e
}

// StringEnum declares an enum whose values are their own discriminants.
func StringEnum[E ~string](def E, values ...E) (*Enum[E, string], error) {
	vs := make([]VariantSpec[E, string], 0, len(values))
	for _, v := range values {
		vs = append(vs, Variant(v, string(v)))
	}
	return NewEnum(def, vs...)
}

// MustStringEnum is like StringEnum but panics on an invalid declaration.
func MustStringEnum[E ~string](def E, values ...E) *Enum[E, string] {
	e, err := StringEnum(def, values...)
	if err != nil {
		panic(err)
	}
	return e
}

// Default returns the designated default variant.
func (e *Enum[E, R]) Default() E { return e.def }

// Decode reads a discriminant from a raw JSON value and maps it to a variant.
func (e *Enum[E, R]) Decode(raw any) (E, bool) {
	r, ok := e.discriminantFrom(raw)
	if !ok {
		return e.def, false
	}
	return e.Lookup(r)
}

// Lookup maps a discriminant to its variant, or the default when unknown.
func (e *Enum[E, R]) Lookup(raw R) (E, bool) {
	if v, ok := e.byRaw[raw]; ok {
		return v, true
	}
	return e.def, false
}

// Discriminant returns the wire value of v.
func (e *Enum[E, R]) Discriminant(v E) (R, bool) {
	r, ok := e.byValue[v]
	return r, ok
}

// Encode writes v's discriminant; values outside the set encode as the default.
func (e *Enum[E, R]) Encode(v E) any {
	r, ok := e.byValue[v]
	if !ok {
		r = e.byValue[e.def]
	}
	return e.wire(r)
}

// Variants returns the declared variants in declaration order.
func (e *Enum[E, R]) Variants() []VariantSpec[E, R] {
	return append([]VariantSpec[E, R](nil), e.variants...)
}

// JSONSchema lists the discriminants in declared order with the default
// variant's as the schema default.
func (e *Enum[E, R]) JSONSchema() *js.Schema {
	s := &js.Schema{Type: "string", Default: e.Encode(e.def)}
	if e.rawType.Kind() != reflect.String {
		s.Type = "integer"
	}
	for _, v := range e.variants {
		s.Enum = append(s.Enum, e.wire(v.Raw))
	}
	return s
}

// discriminantFrom converts a raw JSON value to R without trusting its kind:
// string discriminants need a JSON string, integer ones an integral number
// that fits R.
func (e *Enum[E, R]) discriminantFrom(raw any) (R, bool) {
	var zero R
	out := reflect.New(e.rawType).Elem()
	switch e.rawType.Kind() {
	case reflect.String:
		s, ok := raw.(string)
		if !ok {
			return zero, false
		}
		out.SetString(s)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		bi, ok := integral(raw)
		if !ok || !bi.IsInt64() || out.OverflowInt(bi.Int64()) {
			return zero, false
		}
		out.SetInt(bi.Int64())
	default:
		bi, ok := integral(raw)
		if !ok || bi.Sign() < 0 || !bi.IsUint64() || out.OverflowUint(bi.Uint64()) {
			return zero, false
		}
		out.SetUint(bi.Uint64())
	}
	return out.Interface().(R), true
}

// wire strips a named discriminant type down to its JSON primitive.
func (e *Enum[E, R]) wire(r R) any {
	rv := reflect.ValueOf(r)
	switch rv.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	default:
		return rv.Uint()
	}
}
