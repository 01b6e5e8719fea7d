package flexjson_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	flexjson "github.com/reoring/flexjson"
)

type Priority int

const (
	PriorityLow Priority = iota + 1
	PriorityNormal
	PriorityHigh
)

type priorityCode uint8

func TestNewEnum_DefinitionErrors(t *testing.T) {
	_, err := flexjson.NewEnum[Role, string](RoleGuest)
	require.Error(t, err)
	assert.True(t, flexjson.HasCode(err, flexjson.CodeInvalidEnumDefinition), "no variants")

	_, err = flexjson.NewEnum(RoleGuest,
		flexjson.Variant(RoleAdmin, "a"),
		flexjson.Variant(RoleUser, "a"),
		flexjson.Variant(RoleGuest, "g"))
	require.Error(t, err)
	assert.True(t, flexjson.HasCode(err, flexjson.CodeDuplicateDiscriminant))

	_, err = flexjson.NewEnum(RoleGuest,
		flexjson.Variant(RoleAdmin, "admin"),
		flexjson.Variant(RoleAdmin, "administrator"),
		flexjson.Variant(RoleGuest, "guest"))
	require.Error(t, err)
	assert.True(t, flexjson.HasCode(err, flexjson.CodeInvalidEnumDefinition), "value declared twice")

	_, err = flexjson.StringEnum(RoleGuest, RoleAdmin, RoleUser)
	require.Error(t, err)
	assert.True(t, flexjson.HasCode(err, flexjson.CodeInvalidEnumDefinition), "default not a member")

	assert.Panics(t, func() { flexjson.MustStringEnum(RoleGuest) })
}

func TestDecodeEnum_KnownAndUnknown(t *testing.T) {
	doc := flexjson.DocumentOf(map[string]any{
		"a": "admin",
		"b": "ADMIN",
		"c": "superuser",
		"d": 3,
		"e": nil,
		"f": "",
	})
	assert.Equal(t, RoleAdmin, flexjson.DecodeEnum(doc, "a", roles))
	for _, name := range []string{"b", "c", "d", "e", "f", "missing"} {
		assert.Equal(t, RoleGuest, flexjson.DecodeEnum(doc, name, roles), name)
	}
}

func TestEnum_IntegerDiscriminant(t *testing.T) {
	prio := flexjson.MustEnum(PriorityNormal,
		flexjson.Variant(PriorityLow, priorityCode(1)),
		flexjson.Variant(PriorityNormal, priorityCode(2)),
		flexjson.Variant(PriorityHigh, priorityCode(3)),
	)
	doc := mustDoc(t, `{"a":3,"b":3.0,"c":"3","d":-1,"e":300,"f":9,"g":2.5}`)
	assert.Equal(t, PriorityHigh, flexjson.DecodeEnum(doc, "a", prio))
	assert.Equal(t, PriorityHigh, flexjson.DecodeEnum(doc, "b", prio))
	for _, name := range []string{"c", "d", "e", "f", "g"} {
		assert.Equal(t, PriorityNormal, flexjson.DecodeEnum(doc, name, prio), name)
	}

	assert.Equal(t, uint64(3), prio.Encode(PriorityHigh))
	assert.Equal(t, uint64(2), prio.Encode(Priority(99)), "unknown values encode as the default")

	s := prio.JSONSchema()
	assert.Equal(t, "integer", s.Type)
	assert.Equal(t, []any{uint64(1), uint64(2), uint64(3)}, s.Enum)
}

func TestEnum_LookupAndVariants(t *testing.T) {
	v, ok := roles.Lookup("user")
	assert.True(t, ok)
	assert.Equal(t, RoleUser, v)

	v, ok = roles.Lookup("nobody")
	assert.False(t, ok)
	assert.Equal(t, RoleGuest, v)

	raw, ok := roles.Discriminant(RoleAdmin)
	assert.True(t, ok)
	assert.Equal(t, "admin", raw)

	var order []Role
	for _, vs := range roles.Variants() {
		order = append(order, vs.Value)
	}
	assert.Equal(t, []Role{RoleAdmin, RoleUser, RoleGuest}, order)
	assert.Equal(t, RoleGuest, flexjson.DefaultOf[Role](roles))
}
