package describe

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-errors"
	flexjson "github.com/reoring/flexjson"
	"github.com/reoring/flexjson/codec"
)

type recordState int

const (
	stateNew recordState = iota
	stateVisiting
	stateDone
)

type compiler struct {
	desc    Description
	enums   map[string]flexjson.Type[any]
	records map[string]*flexjson.Record[flexjson.Object]
	state   map[string]recordState
}

func newCompiler(d Description) *compiler {
	return &compiler{
		desc:    d,
		enums:   make(map[string]flexjson.Type[any], len(d.Enums)),
		records: make(map[string]*flexjson.Record[flexjson.Object], len(d.Records)),
		state:   make(map[string]recordState, len(d.Records)),
	}
}

func (c *compiler) compileAll() error {
	for _, name := range sortedKeys(c.desc.Enums) {
		if builtin(name) != nil {
			return conflict(name, "builtin type")
		}
		if _, ok := c.desc.Records[name]; ok {
			return conflict(name, "record")
		}
		e, err := compileEnum(name, c.desc.Enums[name])
		if err != nil {
			return err
		}
		c.enums[name] = e
	}
	for _, name := range sortedKeys(c.desc.Records) {
		if builtin(name) != nil {
			return conflict(name, "builtin type")
		}
		if _, err := c.record(name, nil); err != nil {
			return err
		}
	}
	return nil
}

func (c *compiler) record(name string, chain []string) (*flexjson.Record[flexjson.Object], error) {
	switch c.state[name] {
	case stateDone:
		return c.records[name], nil
	case stateVisiting:
		return nil, errors.New("records reference each other in a cycle", errors.CategoryValidation).
			WithTextCode(TextCodeCycle).
			WithMetadata(map[string]any{"cycle": append(chain, name)})
	}
	c.state[name] = stateVisiting
	chain = append(chain, name)

	decl := c.desc.Records[name]
	fields := make([]flexjson.FieldSpec[flexjson.Object], 0, len(decl.Fields))
	for _, fd := range decl.Fields {
		t, err := c.parseType(fd.Type, chain)
		if err != nil {
			return nil, withField(err, name, fd.Name)
		}
		if fd.Default != nil {
			def, ok := t.Decode(jsonValue(fd.Default))
			if !ok {
				return nil, errors.New("default does not decode with the field type", errors.CategoryValidation).
					WithTextCode(TextCodeInvalidDefault).
					WithMetadata(map[string]any{"record": name, "field": fd.Name, "type": fd.Type, "default": fd.Default})
			}
			t = flexjson.WithDefaultFunc(t, fieldDefault(def))
		}
		fields = append(fields, objectField(fd.Name, t))
	}
	rec, err := flexjson.NewRecord(fields...)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryValidation, "invalid record").
			WithTextCode(TextCodeInvalidRecord).
			WithMetadata(map[string]any{"record": name})
	}
	c.records[name] = rec
	c.state[name] = stateDone
	return rec, nil
}

// objectField stores the value under its own name in the Object.
func objectField(name string, t flexjson.Type[any]) flexjson.FieldSpec[flexjson.Object] {
	return flexjson.FieldFunc(name, t,
		func(o *flexjson.Object) any {
			v, ok := o.Get(name)
			if !ok {
				return t.Default()
			}
			return v
		},
		func(o *flexjson.Object, v any) { o.Set(name, v) },
	)
}

func (c *compiler) parseType(expr string, chain []string) (flexjson.Type[any], error) {
	expr = strings.TrimSpace(expr)
	switch {
	case expr == "":
		return nil, invalidType(expr, "empty type")
	case strings.HasPrefix(expr, "?"):
		inner, err := c.parseType(expr[1:], chain)
		if err != nil {
			return nil, err
		}
		return nullable{elem: inner}, nil
	case strings.HasPrefix(expr, "[]"):
		inner, err := c.parseType(expr[2:], chain)
		if err != nil {
			return nil, err
		}
		return flexjson.Erase(flexjson.SliceOf(inner)), nil
	case strings.HasPrefix(expr, "map["):
		const prefix = "map[string]"
		if !strings.HasPrefix(expr, prefix) {
			return nil, invalidType(expr, "map keys must be string")
		}
		inner, err := c.parseType(expr[len(prefix):], chain)
		if err != nil {
			return nil, err
		}
		return flexjson.Erase(flexjson.MapOf(inner)), nil
	}
	if t := builtin(expr); t != nil {
		return t, nil
	}
	if e, ok := c.enums[expr]; ok {
		return e, nil
	}
	if _, ok := c.desc.Records[expr]; ok {
		r, err := c.record(expr, chain)
		if err != nil {
			return nil, err
		}
		return flexjson.Erase(flexjson.Nested(r)), nil
	}
	return nil, errors.New("unknown type", errors.CategoryValidation).
		WithTextCode(TextCodeUnknownType).
		WithMetadata(map[string]any{"type": expr})
}

func builtin(name string) flexjson.Type[any] {
	switch name {
	case "int":
		return flexjson.Erase(flexjson.Int64())
	case "uint":
		return flexjson.Erase(flexjson.Integer[uint64]())
	case "float":
		return flexjson.Erase(flexjson.Float64())
	case "string":
		return flexjson.Erase(flexjson.String())
	case "bool":
		return flexjson.Erase(flexjson.Bool())
	case "time":
		return flexjson.Erase(codec.TimeRFC3339())
	case "duration":
		return flexjson.Erase(codec.Duration())
	case "uuid":
		return flexjson.Erase(codec.UUID())
	case "any":
		return flexjson.Raw()
	}
	return nil
}

func compileEnum(name string, d EnumDecl) (flexjson.Type[any], error) {
	fail := func(err error, msg string) error {
		var e *errors.Error
		if err != nil {
			e = errors.Wrap(err, errors.CategoryValidation, msg)
		} else {
			e = errors.New(msg, errors.CategoryValidation)
		}
		return e.WithTextCode(TextCodeInvalidEnum).WithMetadata(map[string]any{"enum": name})
	}
	if len(d.Variants) == 0 {
		return nil, fail(nil, "enum declares no variants")
	}
	if d.Default == nil {
		return nil, fail(nil, "enum has no default variant")
	}
	if _, isString := d.Variants[0].(string); isString {
		def, ok := d.Default.(string)
		if !ok {
			return nil, fail(nil, "default must be a string variant")
		}
		values := make([]string, 0, len(d.Variants))
		for _, v := range d.Variants {
			s, ok := v.(string)
			if !ok {
				return nil, fail(nil, fmt.Sprintf("variant %v is not a string", v))
			}
			values = append(values, s)
		}
		e, err := flexjson.StringEnum(def, values...)
		if err != nil {
			return nil, fail(err, "invalid enum")
		}
		return flexjson.Erase[string](e), nil
	}
	def, ok := asInt64(d.Default)
	if !ok {
		return nil, fail(nil, "default must be an integer variant")
	}
	variants := make([]flexjson.VariantSpec[int64, int64], 0, len(d.Variants))
	for _, v := range d.Variants {
		i, ok := asInt64(v)
		if !ok {
			return nil, fail(nil, fmt.Sprintf("variant %v is not an integer", v))
		}
		variants = append(variants, flexjson.Variant(i, i))
	}
	e, err := flexjson.NewEnum(def, variants...)
	if err != nil {
		return nil, fail(err, "invalid enum")
	}
	return flexjson.Erase[int64](e), nil
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case uint64:
		if n > 1<<63-1 {
			return 0, false
		}
		return int64(n), true
	}
	return 0, false
}

// jsonValue rewrites a YAML scalar tree into the shapes a parsed Document
// holds, so defaults go through the same Decode as input values.
func jsonValue(v any) any {
	switch t := v.(type) {
	case int:
		return json.Number(strconv.Itoa(t))
	case int64:
		return json.Number(strconv.FormatInt(t, 10))
	case uint64:
		return json.Number(strconv.FormatUint(t, 10))
	case float64:
		return json.Number(strconv.FormatFloat(t, 'g', -1, 64))
	case time.Time:
		return t.Format(time.RFC3339Nano)
	case []any:
		out := make([]any, len(t))
		for i, it := range t {
			out[i] = jsonValue(it)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, it := range t {
			out[k] = jsonValue(it)
		}
		return out
	default:
		return v
	}
}

func invalidType(expr, reason string) error {
	return errors.New("invalid type expression", errors.CategoryValidation).
		WithTextCode(TextCodeInvalidType).
		WithMetadata(map[string]any{"type": expr, "reason": reason})
}

func conflict(name, with string) error {
	return errors.New("type name is already taken", errors.CategoryValidation).
		WithTextCode(TextCodeNameConflict).
		WithMetadata(map[string]any{"name": name, "conflicts_with": with})
}

func withField(err error, record, field string) error {
	if e, ok := err.(*errors.Error); ok {
		md := map[string]any{"record": record, "field": field}
		for k, v := range e.Metadata {
			if _, set := md[k]; !set {
				md[k] = v
			}
		}
		return e.WithMetadata(md)
	}
	return err
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
