package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/reoring/flexjson"
	"github.com/reoring/flexjson/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type order struct {
	ID    int
	Note  string
	Rush  bool
	Items []string
}

var orderRecord = flexjson.MustRecord(
	flexjson.Field("id", flexjson.Int(), func(o *order) *int { return &o.ID }),
	flexjson.Field("note", flexjson.WithDefault(flexjson.String(), "none"), func(o *order) *string { return &o.Note }),
	flexjson.Field("rush", flexjson.Bool(), func(o *order) *bool { return &o.Rush }),
	flexjson.Field("items", flexjson.SliceOf(flexjson.String()), func(o *order) *[]string { return &o.Items }),
)

func serve(t *testing.T, body string, opt flexjson.ParseOpt) (*httptest.ResponseRecorder, *flexjson.Decoded[order]) {
	t.Helper()
	var got *flexjson.Decoded[order]
	h := middleware.DecodeJSON(orderRecord, opt)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		dm, ok := middleware.DecodedFromContext[order](r.Context())
		require.True(t, ok)
		got = &dm
		w.WriteHeader(http.StatusNoContent)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body)))
	return rec, got
}

func TestDecodeJSON_LenientFields(t *testing.T) {
	rec, got := serve(t, `{"id":"7","rush":true,"items":["a",1]}`, flexjson.ParseOpt{})
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, order{ID: 0, Note: "none", Rush: true, Items: []string{}}, got.Value)
	assert.Equal(t, flexjson.PresenceSeen|flexjson.PresenceInvalid|flexjson.PresenceDefaultApplied, got.Presence["/id"])
	assert.Equal(t, flexjson.PresenceDefaultApplied, got.Presence["/note"])
}

func TestDecodeJSON_RejectsStructuralErrors(t *testing.T) {
	cases := map[string]string{
		"truncated":     `{"id":1`,
		"array root":    `[1,2]`,
		"duplicate key": `{"id":1,"id":2}`,
		"missing comma": `{"id":1 "rush":true}`,
		"leading zero":  `{"id":01}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec, got := serve(t, body, flexjson.ParseOpt{})
			assert.Nil(t, got)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			var payload struct {
				Issues []middleware.IssuePayload `json:"issues"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
			require.NotEmpty(t, payload.Issues)
		})
	}
}

func TestDecodeJSON_BodyOverLimit(t *testing.T) {
	body := `{"note":"` + strings.Repeat("x", 256) + `"}`
	rec, got := serve(t, body, flexjson.ParseOpt{MaxBytes: 64})
	assert.Nil(t, got)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var payload struct {
		Issues []middleware.IssuePayload `json:"issues"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.NotEmpty(t, payload.Issues)
	assert.Equal(t, flexjson.CodeTruncated, payload.Issues[0].Code)
}

func TestDecodeJSON_ExplicitOptions(t *testing.T) {
	rec, got := serve(t, `{"id":1,"id":2}`, flexjson.ParseOpt{Strictness: flexjson.Strictness{OnDuplicateKey: flexjson.Ignore}, MaxDepth: 8})
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, 2, got.Value.ID)
}

func TestDecodedFromContext_Missing(t *testing.T) {
	_, ok := middleware.DecodedFromContext[order](httptest.NewRequest(http.MethodGet, "/", nil).Context())
	assert.False(t, ok)
}
