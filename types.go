package flexjson

// NumberMode dictates how numbers are stored in a Document.
type NumberMode int

const (
	NumberJSONNumber NumberMode = iota // Preserve json.Number (exact integers).
	NumberFloat64                      // Fast mode (with potential precision loss).
)

// Severity expresses the severity level for issues.
type Severity int

const (
	Ignore Severity = iota
	Warn
	Error
)

// Strictness configures enforcement for duplicate keys.
type Strictness struct {
	OnDuplicateKey Severity // Ignore, Warn or Error (duplicate JSON keys).
}

// PresenceOpt configures presence collection for WithMeta-style decoding.
type PresenceOpt struct {
	Collect bool
	Include []string
	Exclude []string
}

// ParseOpt bundles options for reading a Document from a Source. None of them
// affects field-level leniency: they only decide what counts as a structural
// error of the input itself.
type ParseOpt struct {
	Strictness Strictness
	MaxDepth   int
	MaxBytes   int64
	Presence   PresenceOpt
	// OnIssue receives non-fatal issues (duplicate keys under Warn).
	OnIssue func(Issue)
}

func lastOpt(opts []ParseOpt) ParseOpt {
	if len(opts) == 0 {
		return ParseOpt{}
	}
	return opts[len(opts)-1]
}
