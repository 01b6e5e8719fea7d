// Package middleware decodes JSON request bodies with a flexjson record at the
// HTTP boundary. Field-level problems never reject a request; only a body that
// is not a readable JSON object does.
package middleware

import (
	"context"
	"io"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/reoring/flexjson"
)

// ctxKeyDecoded is a typed context key for storing Decoded[T].
// Using a generic struct type ensures uniqueness per T.
type ctxKeyDecoded[T any] struct{}

// ContextWithDecoded attaches a Decoded[T] to the context.
func ContextWithDecoded[T any](ctx context.Context, dm flexjson.Decoded[T]) context.Context {
	return context.WithValue(ctx, ctxKeyDecoded[T]{}, dm)
}

// DecodedFromContext retrieves a Decoded[T] from context.
func DecodedFromContext[T any](ctx context.Context) (flexjson.Decoded[T], bool) {
	v, ok := ctx.Value(ctxKeyDecoded[T]{}).(flexjson.Decoded[T])
	return v, ok
}

// DefaultParseOpt returns a recommended default for HTTP JSON boundaries.
// - Duplicate keys are errors
// - Bodies are capped at 1 MiB and 64 levels of nesting
// - Presence is collected
func DefaultParseOpt() flexjson.ParseOpt {
	return flexjson.ParseOpt{
		Strictness: flexjson.Strictness{OnDuplicateKey: flexjson.Error},
		MaxDepth:   64,
		MaxBytes:   1 << 20,
		Presence:   flexjson.PresenceOpt{Collect: true},
	}
}

// IsZeroOpt reports whether opt was left unset, in which case adapters fall
// back to DefaultParseOpt.
func IsZeroOpt(opt flexjson.ParseOpt) bool {
	return opt.Strictness.OnDuplicateKey == flexjson.Ignore && !opt.Presence.Collect &&
		opt.MaxDepth == 0 && opt.MaxBytes == 0 && opt.OnIssue == nil
}

// IssuePayload is the response shape of one structural issue.
type IssuePayload struct {
	Path    string         `json:"path"`
	Code    string         `json:"code"`
	Message string         `json:"message,omitempty"`
	Offset  int64          `json:"offset"`
	Params  map[string]any `json:"params,omitempty"`
}

// ErrorPayload shapes Issues for JSON responses.
func ErrorPayload(issues flexjson.Issues) map[string]any {
	out := make([]IssuePayload, 0, len(issues))
	for _, it := range issues {
		out = append(out, IssuePayload{Path: it.Path, Code: it.Code, Message: it.Message, Offset: it.Offset, Params: it.Params})
	}
	return map[string]any{"issues": out}
}

// Decode reads the request body as one JSON object and assembles it with r.
// The returned error is always Issues.
func Decode[T any](req *http.Request, r *flexjson.Record[T], opt flexjson.ParseOpt) (flexjson.Decoded[T], error) {
	if IsZeroOpt(opt) {
		opt = DefaultParseOpt()
	}
	var body io.Reader = req.Body
	if opt.MaxBytes > 0 {
		// One byte past the limit is enough for MaxBytes to trip.
		body = io.LimitReader(req.Body, opt.MaxBytes+1)
	}
	dm, err := flexjson.DecodeFromWithMeta(req.Context(), r, flexjson.JSONReader(body), opt)
	if err != nil {
		if iss, ok := flexjson.AsIssues(err); ok {
			return flexjson.Decoded[T]{}, iss
		}
		return flexjson.Decoded[T]{}, flexjson.Issues{{Path: "/", Code: flexjson.CodeParseError, Message: err.Error(), Cause: err, Offset: -1}}
	}
	return dm, nil
}

// DecodeJSON returns net/http middleware that decodes the body with r and
// stores Decoded[T] in the request context. Bodies that are not a JSON object
// get 400 with an issues payload.
func DecodeJSON[T any](r *flexjson.Record[T], opt flexjson.ParseOpt) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			dm, err := Decode(req, r, opt)
			if err != nil {
				iss, _ := flexjson.AsIssues(err)
				WriteJSON(w, http.StatusBadRequest, ErrorPayload(iss))
				return
			}
			next.ServeHTTP(w, req.WithContext(ContextWithDecoded(req.Context(), dm)))
		})
	}
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
