package flexjson_test

import (
	"context"
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	flexjson "github.com/reoring/flexjson"
)

func mustDoc(t *testing.T, s string) flexjson.Document {
	t.Helper()
	doc, err := flexjson.ParseDocument(context.Background(), flexjson.JSONBytes([]byte(s)))
	require.NoError(t, err)
	return doc
}

func TestIntegers(t *testing.T) {
	doc := mustDoc(t, `{"a":1,"b":1.0,"c":1e2,"d":1.5,"e":"1","f":true,"g":null,"h":-1,"i":2147483648,"j":9223372036854775807,"k":9223372036854775808}`)

	assert.Equal(t, 1, flexjson.DecodeField(doc, "a", flexjson.Int()))
	assert.Equal(t, 1, flexjson.DecodeField(doc, "b", flexjson.Int()))
	assert.Equal(t, 100, flexjson.DecodeField(doc, "c", flexjson.Int()))
	for _, name := range []string{"d", "e", "f", "g", "missing"} {
		assert.Equal(t, 0, flexjson.DecodeField(doc, name, flexjson.Int()), name)
	}

	assert.Equal(t, uint(0), flexjson.DecodeField(doc, "h", flexjson.Uint()), "negative into unsigned")
	assert.Equal(t, int32(0), flexjson.DecodeField(doc, "i", flexjson.Int32()), "overflow int32")
	assert.Equal(t, int64(2147483648), flexjson.DecodeField(doc, "i", flexjson.Int64()))
	assert.Equal(t, int64(math.MaxInt64), flexjson.DecodeField(doc, "j", flexjson.Int64()), "exact under json.Number")
	assert.Equal(t, int64(0), flexjson.DecodeField(doc, "k", flexjson.Int64()))
	assert.Equal(t, uint64(9223372036854775808), flexjson.DecodeField(doc, "k", flexjson.Integer[uint64]()))
	assert.Equal(t, int8(100), flexjson.DecodeField(doc, "c", flexjson.Integer[int8]()))
	assert.Equal(t, int8(0), flexjson.DecodeField(doc, "i", flexjson.Integer[int8]()))
}

func TestIntegers_ExtremeExponents(t *testing.T) {
	doc := mustDoc(t, `{"a":1e999999,"b":1e-999999,"c":-1E+999999,"d":0e999999,"e":12.5e1,"f":1.20e1,"g":1e99999999999999999999}`)
	for _, name := range []string{"a", "b", "c", "g"} {
		assert.Equal(t, int64(0), flexjson.DecodeField(doc, name, flexjson.Int64()), name)
	}
	assert.Equal(t, int64(0), flexjson.DecodeField(doc, "d", flexjson.WithDefault(flexjson.Int64(), 7)))
	assert.Equal(t, int64(125), flexjson.DecodeField(doc, "e", flexjson.Int64()))
	assert.Equal(t, int64(12), flexjson.DecodeField(doc, "f", flexjson.Int64()))

	items := strings.TrimSuffix(strings.Repeat(`{"id":1e999999,"name":"x"},`, 200), ",")
	start := time.Now()
	got, err := flexjson.Unmarshal([]byte(`{"owners":[`+items+`]}`), flexjson.MustRecord(
		flexjson.Field("owners", flexjson.SliceOf(flexjson.Nested(users)), func(v *[]User) *[]User { return v }),
	))
	require.NoError(t, err)
	assert.Less(t, time.Since(start), time.Second)
	require.Len(t, got, 200)
	assert.Equal(t, 0, got[0].ID)
	assert.Equal(t, "x", got[199].Name)
}

func TestFloats(t *testing.T) {
	doc := mustDoc(t, `{"a":1.5,"b":3,"c":"1.5","d":1e300,"e":1e400}`)
	assert.Equal(t, 1.5, flexjson.DecodeField(doc, "a", flexjson.Float64()))
	assert.Equal(t, 3.0, flexjson.DecodeField(doc, "b", flexjson.Float64()))
	assert.Equal(t, 0.0, flexjson.DecodeField(doc, "c", flexjson.Float64()))
	assert.Equal(t, 1e300, flexjson.DecodeField(doc, "d", flexjson.Float64()))
	assert.Equal(t, float32(0), flexjson.DecodeField(doc, "d", flexjson.Float32()), "overflow float32")
	assert.Equal(t, 0.0, flexjson.DecodeField(doc, "e", flexjson.Float64()), "overflow float64")
	assert.Equal(t, float32(1.5), flexjson.DecodeField(doc, "a", flexjson.Float32()))
}

func TestStringsAndBools(t *testing.T) {
	doc := mustDoc(t, `{"s":"x","n":1,"b":true,"bs":"true","z":null}`)
	assert.Equal(t, "x", flexjson.DecodeField(doc, "s", flexjson.String()))
	assert.Equal(t, "", flexjson.DecodeField(doc, "n", flexjson.String()))
	assert.Equal(t, "", flexjson.DecodeField(doc, "z", flexjson.String()))
	assert.True(t, flexjson.DecodeField(doc, "b", flexjson.Bool()))
	assert.False(t, flexjson.DecodeField(doc, "bs", flexjson.Bool()))

	type Label string
	assert.Equal(t, Label("x"), flexjson.DecodeField(doc, "s", flexjson.StringOf[Label]()))
}

func TestDefaults_DeterministicAndFresh(t *testing.T) {
	check := func(name string, a, b any) {
		t.Helper()
		assert.Equal(t, a, b, name)
	}
	check("int", flexjson.Int().Default(), flexjson.Int().Default())
	check("float", flexjson.Float64().Default(), flexjson.Float64().Default())
	check("string", flexjson.String().Default(), flexjson.String().Default())
	check("bool", flexjson.Bool().Default(), flexjson.Bool().Default())
	check("optional", flexjson.Optional(flexjson.Int()).Default(), flexjson.Optional(flexjson.Int()).Default())
	check("enum", roles.Default(), roles.Default())
	check("record", users.Default(), users.Default())

	sl := flexjson.SliceOf(flexjson.Int())
	a, b := sl.Default(), sl.Default()
	require.NotNil(t, a)
	assert.Empty(t, a)
	a = append(a, 1)
	assert.Len(t, a, 1)
	assert.Empty(t, b)
	assert.Empty(t, sl.Default())

	m := flexjson.MapOf(flexjson.String())
	ma := m.Default()
	require.NotNil(t, ma)
	ma["x"] = "y"
	assert.Empty(t, m.Default())
}

func TestContainers_WholeFieldLeniency(t *testing.T) {
	doc := mustDoc(t, `{"ok":[1,2,3],"bad":[1,"2",3],"notarr":{"a":1},"null":null,"m":{"a":1,"b":2},"mbad":{"a":1,"b":"x"}}`)
	ints := flexjson.SliceOf(flexjson.Int())
	assert.Equal(t, []int{1, 2, 3}, flexjson.DecodeField(doc, "ok", ints))
	assert.Equal(t, []int{}, flexjson.DecodeField(doc, "bad", ints))
	assert.Equal(t, []int{}, flexjson.DecodeField(doc, "notarr", ints))
	assert.Equal(t, []int{}, flexjson.DecodeField(doc, "null", ints))

	im := flexjson.MapOf(flexjson.Int())
	assert.Equal(t, map[string]int{"a": 1, "b": 2}, flexjson.DecodeField(doc, "m", im))
	assert.Equal(t, map[string]int{}, flexjson.DecodeField(doc, "mbad", im))
}

func TestOptional(t *testing.T) {
	doc := mustDoc(t, `{"a":5,"b":null,"c":"x"}`)
	opt := flexjson.Optional(flexjson.Int())

	got := flexjson.DecodeField(doc, "a", opt)
	require.NotNil(t, got)
	assert.Equal(t, 5, *got)
	assert.Nil(t, flexjson.DecodeField(doc, "b", opt))
	assert.Nil(t, flexjson.DecodeField(doc, "c", opt))
	assert.Nil(t, flexjson.DecodeField(doc, "missing", opt))

	assert.Nil(t, opt.Encode(nil))
	five := 5
	assert.Equal(t, int64(5), opt.Encode(&five))
}

func TestOptional_InsideContainers(t *testing.T) {
	doc := mustDoc(t, `{"xs":["a",5,null],"m":{"a":1,"b":"x","c":null},"c":"x"}`)

	xs := flexjson.DecodeField(doc, "xs", flexjson.SliceOf(flexjson.Optional(flexjson.String())))
	require.Len(t, xs, 3)
	require.NotNil(t, xs[0])
	assert.Equal(t, "a", *xs[0])
	assert.Nil(t, xs[1])
	assert.Nil(t, xs[2])

	m := flexjson.DecodeField(doc, "m", flexjson.MapOf(flexjson.Optional(flexjson.Int())))
	require.Len(t, m, 3)
	require.NotNil(t, m["a"])
	assert.Equal(t, 1, *m["a"])
	assert.Nil(t, m["b"])
	assert.Nil(t, m["c"])

	_, p := flexjson.DecodeFieldWithPresence(doc, "c", flexjson.Optional(flexjson.Int()))
	assert.Equal(t, flexjson.PresenceSeen|flexjson.PresenceInvalid|flexjson.PresenceDefaultApplied, p)
	_, p = flexjson.DecodeFieldWithPresence(doc, "xs", flexjson.SliceOf(flexjson.Optional(flexjson.String())))
	assert.Equal(t, flexjson.PresenceSeen, p)
}

func TestDecodeFieldWithPresence(t *testing.T) {
	doc := mustDoc(t, `{"a":1,"b":"x","c":null}`)
	cases := map[string]flexjson.Presence{
		"a":       flexjson.PresenceSeen,
		"b":       flexjson.PresenceSeen | flexjson.PresenceInvalid | flexjson.PresenceDefaultApplied,
		"c":       flexjson.PresenceSeen | flexjson.PresenceWasNull | flexjson.PresenceDefaultApplied,
		"missing": flexjson.PresenceDefaultApplied,
	}
	for name, want := range cases {
		_, p := flexjson.DecodeFieldWithPresence(doc, name, flexjson.Int())
		assert.Equal(t, want, p, "%s: %s", name, p)
	}
}

func TestWithDefaultAndErase(t *testing.T) {
	doc := flexjson.DocumentOf(map[string]any{"port": "http"})
	port := flexjson.WithDefault(flexjson.Int(), 8080)
	assert.Equal(t, 8080, flexjson.DecodeField(doc, "port", port))
	assert.Equal(t, 8080, flexjson.DecodeField(doc, "missing", port))
	assert.Equal(t, int64(8080), port.JSONSchema().Default)

	erased := flexjson.Erase(port)
	v, ok := erased.Decode(json.Number("9"))
	assert.True(t, ok)
	assert.Equal(t, 9, v)
	assert.Equal(t, int64(8080), erased.Encode("not an int"))
}

func TestRaw(t *testing.T) {
	doc := mustDoc(t, `{"x":{"y":[1,true,null]}}`)
	got := flexjson.DecodeField(doc, "x", flexjson.Raw())
	assert.Equal(t, map[string]any{"y": []any{json.Number("1"), true, nil}}, got)
	assert.Nil(t, flexjson.DecodeField(doc, "missing", flexjson.Raw()))
}
