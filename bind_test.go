package flexjson_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	flexjson "github.com/reoring/flexjson"
	"github.com/reoring/flexjson/codec"
)

type boundUser struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	IsActive bool   `json:"isActive"`
	Role     Role   `json:"role"`
}

func TestBind_MatchesHandWrittenRecord(t *testing.T) {
	r, err := flexjson.Bind[boundUser](flexjson.WithEnum(roles))
	require.NoError(t, err)
	assert.Equal(t, users.Fields(), r.Fields())

	inputs := []string{
		`{"id":1, "role":"in_valid"}`,
		`{}`,
		`{"id":"x","name":7,"email":"e@x","isActive":true,"role":"admin"}`,
	}
	for _, in := range inputs {
		want, err := flexjson.Unmarshal([]byte(in), users)
		require.NoError(t, err)
		got, err := flexjson.Unmarshal([]byte(in), r)
		require.NoError(t, err)
		assert.Equal(t, boundUser(want), got, in)
	}
}

type Audit struct {
	CreatedBy string `json:"created_by"`
}

type Item struct {
	SKU   string  `json:"sku"`
	Price float64 `json:"price"`
}

type Order struct {
	Audit
	ID       uint64            `json:"id"`
	Items    []Item            `json:"items"`
	Labels   map[string]string `json:"labels"`
	Note     *string           `json:"note"`
	Qty      *int              `json:"qty"`
	Extra    any               `json:"extra"`
	At       time.Time         `json:"at"`
	Priority Priority          `json:"priority"`
	Internal string            `json:"-"`
	hidden   int
}

func orderRecord(t *testing.T) *flexjson.Record[Order] {
	t.Helper()
	prio := flexjson.MustEnum(PriorityNormal,
		flexjson.Variant(PriorityLow, "low"),
		flexjson.Variant(PriorityNormal, "normal"),
		flexjson.Variant(PriorityHigh, "high"),
	)
	r, err := flexjson.Bind[Order](flexjson.WithEnum(prio), flexjson.WithType(codec.TimeRFC3339()))
	require.NoError(t, err)
	return r
}

func TestBind_Shapes(t *testing.T) {
	r := orderRecord(t)
	assert.Equal(t, []string{"created_by", "id", "items", "labels", "note", "qty", "extra", "at", "priority"}, r.Fields())

	in := `{"created_by":"ops","id":9,"items":[{"sku":"a","price":"free"},{"sku":"b","price":2.5}],` +
		`"labels":{"k":"v"},"note":null,"qty":3,"extra":[1],"at":"2025-01-01T00:00:00Z","priority":"high","Internal":"x"}`
	got, err := flexjson.Unmarshal([]byte(in), r)
	require.NoError(t, err)

	three := 3
	want := Order{
		Audit:    Audit{CreatedBy: "ops"},
		ID:       9,
		Items:    []Item{{SKU: "a"}, {SKU: "b", Price: 2.5}},
		Labels:   map[string]string{"k": "v"},
		Qty:      &three,
		Extra:    got.Extra,
		At:       time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Priority: PriorityHigh,
	}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(Order{})); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	assert.Len(t, got.Extra, 1)
}

func TestBind_DefaultsAndRoundTrip(t *testing.T) {
	r := orderRecord(t)
	def := r.Default()
	assert.NotNil(t, def.Items)
	assert.NotNil(t, def.Labels)
	assert.Nil(t, def.Note)
	assert.Equal(t, PriorityNormal, def.Priority)

	note := "fragile"
	in := Order{
		Audit:    Audit{CreatedBy: "me"},
		ID:       1,
		Items:    []Item{{SKU: "x", Price: 1.25}},
		Labels:   map[string]string{"a": "b"},
		Note:     &note,
		Qty:      nil,
		At:       time.Date(2024, 2, 29, 12, 0, 0, 0, time.UTC),
		Priority: PriorityLow,
	}
	data, err := flexjson.Marshal(r, in)
	require.NoError(t, err)
	out, err := flexjson.Unmarshal(data, r)
	require.NoError(t, err)
	if diff := cmp.Diff(in, out, cmp.AllowUnexported(Order{})); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestBind_NestedPresence(t *testing.T) {
	r := orderRecord(t)
	dm := r.DecodeWithMeta(mustDoc(t, `{"items":[{"sku":1}],"qty":null}`))
	assert.Equal(t, flexjson.PresenceSeen|flexjson.PresenceInvalid|flexjson.PresenceDefaultApplied, dm.Presence["/items/0/sku"])
	assert.Equal(t, flexjson.PresenceDefaultApplied, dm.Presence["/items/0/price"])
	assert.Equal(t, flexjson.PresenceSeen|flexjson.PresenceWasNull, dm.Presence["/qty"])
}

func TestBind_FailedContainersKeepNoElementPresence(t *testing.T) {
	r := orderRecord(t)
	dm := r.DecodeWithMeta(mustDoc(t, `{"items":[{"sku":"a"},3],"labels":{"k":"v","n":1}}`))
	assert.Empty(t, dm.Value.Items)
	assert.Empty(t, dm.Value.Labels)
	for k := range dm.Presence {
		assert.NotContains(t, k, "/items/", "stale element flags")
	}
	assert.Equal(t, flexjson.PresenceSeen|flexjson.PresenceInvalid|flexjson.PresenceDefaultApplied, dm.Presence["/items"])
}

func TestBind_OptionalElements(t *testing.T) {
	type Survey struct {
		Answers []*string       `json:"answers"`
		Scores  map[string]*int `json:"scores"`
	}
	r, err := flexjson.Bind[Survey]()
	require.NoError(t, err)

	got, err := flexjson.Unmarshal([]byte(`{"answers":["yes",5,null],"scores":{"a":1,"b":"x"}}`), r)
	require.NoError(t, err)
	require.Len(t, got.Answers, 3)
	assert.Equal(t, "yes", *got.Answers[0])
	assert.Nil(t, got.Answers[1])
	assert.Nil(t, got.Answers[2])
	require.Len(t, got.Scores, 2)
	assert.Equal(t, 1, *got.Scores["a"])
	assert.Nil(t, got.Scores["b"])

	dm := r.DecodeWithMeta(mustDoc(t, `{"answers":[5]}`))
	assert.Equal(t, flexjson.PresenceInvalid|flexjson.PresenceDefaultApplied, dm.Presence["/answers/0"])
}

func TestBind_UnsupportedTypes(t *testing.T) {
	type withChan struct {
		C chan int `json:"c"`
	}
	_, err := flexjson.Bind[withChan]()
	require.Error(t, err)
	iss, ok := flexjson.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, flexjson.CodeUnsupportedType, iss[0].Code)
	assert.Equal(t, "/c", iss[0].Path)

	type withIntKeys struct {
		M map[int]string
	}
	_, err = flexjson.Bind[withIntKeys]()
	assert.True(t, flexjson.HasCode(err, flexjson.CodeUnsupportedType))

	type node struct {
		Next *node
	}
	_, err = flexjson.Bind[node]()
	assert.True(t, flexjson.HasCode(err, flexjson.CodeUnsupportedType), "recursive types")

	_, err = flexjson.Bind[int]()
	assert.True(t, flexjson.HasCode(err, flexjson.CodeUnsupportedType))

	type opaque struct {
		At struct{ sec int64 }
	}
	_, err = flexjson.Bind[opaque]()
	assert.True(t, flexjson.HasCode(err, flexjson.CodeUnsupportedType), "no exported fields")

	type dup struct {
		A string `json:"x"`
		B string `json:"x"`
	}
	_, err = flexjson.Bind[dup]()
	assert.True(t, flexjson.HasCode(err, flexjson.CodeDuplicateField))

	assert.Panics(t, func() { flexjson.MustBind[withChan]() })
}

func TestTypeFor_DefaultRegistry(t *testing.T) {
	for _, tc := range []struct {
		typ  reflect.Type
		want any
	}{
		{reflect.TypeFor[int](), 0},
		{reflect.TypeFor[uint16](), uint16(0)},
		{reflect.TypeFor[float32](), float32(0)},
		{reflect.TypeFor[string](), ""},
		{reflect.TypeFor[bool](), false},
		{reflect.TypeFor[[]string](), []string{}},
		{reflect.TypeFor[map[string]int](), map[string]int{}},
		{reflect.TypeFor[*int](), (*int)(nil)},
		{reflect.TypeFor[Item](), Item{}},
	} {
		got, err := flexjson.DefaultFor(tc.typ)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, tc.typ.String())
	}

	d, err := flexjson.DefaultFor(reflect.TypeFor[Role](), flexjson.WithEnum(roles))
	require.NoError(t, err)
	assert.Equal(t, RoleGuest, d)

	it, err := flexjson.TypeFor(reflect.TypeFor[int8]())
	require.NoError(t, err)
	_, ok := it.Decode(mustRaw(t, `300`))
	assert.False(t, ok)
}

func mustRaw(t *testing.T, s string) any {
	t.Helper()
	v, _ := mustDoc(t, `{"v":`+s+`}`).Lookup("v")
	return v
}
