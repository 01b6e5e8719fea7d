// Package describe loads record descriptions from YAML so that documents can
// be decoded leniently without Go types for them.
//
//	enums:
//	  Role: {variants: [admin, user, guest], default: guest}
//	records:
//	  User:
//	    fields:
//	      - {name: id, type: int}
//	      - {name: role, type: Role}
//	      - {name: tags, type: "[]string"}
//	      - {name: nickname, type: "?string"}
//
// Field types are int, uint, float, string, bool, time (RFC 3339), duration,
// uuid, any, []T, map[string]T, ?T (nullable), an enum name, or a record name.
// Records may reference each other but not cyclically.
package describe

import (
	"io"
	"os"
	"sort"

	"github.com/goliatone/go-errors"
	flexjson "github.com/reoring/flexjson"
	js "github.com/reoring/flexjson/jsonschema"
	"gopkg.in/yaml.v3"
)

// Text codes carried by definition errors.
const (
	TextCodeParse          = "DESCRIBE_PARSE"
	TextCodeUnknownType    = "UNKNOWN_TYPE"
	TextCodeInvalidType    = "INVALID_TYPE_EXPR"
	TextCodeNameConflict   = "NAME_CONFLICT"
	TextCodeInvalidEnum    = "INVALID_ENUM"
	TextCodeInvalidRecord  = "INVALID_RECORD"
	TextCodeInvalidDefault = "INVALID_DEFAULT"
	TextCodeCycle          = "RECORD_CYCLE"
	TextCodeUnknownRecord  = "UNKNOWN_RECORD"
)

// Description is the YAML form of a catalog.
type Description struct {
	Enums   map[string]EnumDecl   `yaml:"enums"`
	Records map[string]RecordDecl `yaml:"records"`
}

// EnumDecl lists the discriminants of an enum. Variants are either all
// strings or all integers; Default must be one of them.
type EnumDecl struct {
	Variants []any `yaml:"variants"`
	Default  any   `yaml:"default"`
}

// RecordDecl is an ordered list of fields.
type RecordDecl struct {
	Description string      `yaml:"description,omitempty"`
	Fields      []FieldDecl `yaml:"fields"`
}

// FieldDecl describes one field. Default, when set, replaces the type's
// default and must itself decode with the field type.
type FieldDecl struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	Default any    `yaml:"default,omitempty"`
}

// Catalog holds compiled records.
type Catalog struct {
	records map[string]*flexjson.Record[flexjson.Object]
	docs    map[string]string
}

// Load parses a YAML description from r and compiles it.
func Load(r io.Reader) (*Catalog, error) {
	var d Description
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, errors.CategoryBadInput, "failed to parse record description").
			WithTextCode(TextCodeParse)
	}
	return Compile(d)
}

// LoadFile is Load for a file on disk.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to open record description").
			WithMetadata(map[string]any{"path": path})
	}
	defer f.Close()
	return Load(f)
}

// Compile turns a Description into a Catalog.
func Compile(d Description) (*Catalog, error) {
	c := newCompiler(d)
	if err := c.compileAll(); err != nil {
		return nil, err
	}
	docs := make(map[string]string, len(d.Records))
	for name, rd := range d.Records {
		docs[name] = rd.Description
	}
	return &Catalog{records: c.records, docs: docs}, nil
}

// Record returns the compiled record called name.
func (c *Catalog) Record(name string) (*flexjson.Record[flexjson.Object], error) {
	r, ok := c.records[name]
	if !ok {
		return nil, errors.New("unknown record", errors.CategoryBadInput).
			WithTextCode(TextCodeUnknownRecord).
			WithMetadata(map[string]any{"record": name, "known": c.Names()})
	}
	return r, nil
}

// Names returns the record names in ascending order.
func (c *Catalog) Names() []string {
	out := make([]string, 0, len(c.records))
	for k := range c.records {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Schema exports the record called name as a root JSON Schema document.
func (c *Catalog) Schema(name string) (*js.Schema, error) {
	r, err := c.Record(name)
	if err != nil {
		return nil, err
	}
	s := r.JSONSchema()
	s.Schema = js.Draft
	s.Title = name
	s.Description = c.docs[name]
	return s, nil
}
