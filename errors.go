package flexjson

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/flexjson/i18n"
)

// Issue codes. Structural codes come out of Document parsing; definition codes
// come out of NewEnum, NewRecord and Bind. Field data never produces an Issue.
const (
	CodeParseError   = "parse_error"
	CodeInvalidType  = "invalid_type"
	CodeDuplicateKey = "duplicate_key"
	CodeTruncated    = "truncated"
	CodeCanceled     = "canceled"

	CodeInvalidEnumDefinition = "invalid_enum_definition"
	CodeDuplicateDiscriminant = "duplicate_discriminant"
	CodeDuplicateField        = "duplicate_field"
	CodeUnsupportedType       = "unsupported_type"
)

// Issue represents a single structural or definition-time problem.
type Issue struct {
	Path    string // JSON Pointer (for example: /items/2/price).
	Code    string // One of the codes listed above.
	Message string
	Cause   error // Optional: underlying error.
	Offset  int64 // Byte offset in the input source (-1 when unknown).
	Params  map[string]any
}

// Issues is a collection of problems that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	lim := min(len(iss), maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. invalid_type at /path
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
		if it.Message != "" {
			fmt.Fprintf(b, ": %s", it.Message)
		}
	}
	if len(iss) > lim {
		fmt.Fprintf(b, "; ... (total %d)", len(iss))
	}
	return b.String()
}

// Unwrap exposes the causes so errors.Is sees through Issues.
func (iss Issues) Unwrap() []error {
	var out []error
	for _, it := range iss {
		if it.Cause != nil {
			out = append(out, it.Cause)
		}
	}
	return out
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	return append(dst, more...)
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// HasCode reports whether err carries an Issue with the given code.
func HasCode(err error, code string) bool {
	iss, ok := AsIssues(err)
	if !ok {
		return false
	}
	for _, it := range iss {
		if it.Code == code {
			return true
		}
	}
	return false
}

func singleIssue(path, code, detail string, params map[string]any) Issues {
	msg := i18n.T(code, nil)
	if detail != "" {
		msg += ": " + detail
	}
	return Issues{{Path: path, Code: code, Message: msg, Offset: -1, Params: params}}
}
