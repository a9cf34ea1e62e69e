package schema

import (
	"bytes"
	"encoding/json"
	stderr "errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

/*
Issue describes a single validation failure at a location inside the value.
Issues are surfaced verbatim on the wire as the `details` of an
invalid_input / invalid_output error.
*/
type Issue struct {
	Path    string `json:"path"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

/*
Schema wraps a compiled JSON Schema document. A nil *Schema is a valid
"no schema declared" value: Validate passes everything through and
Portable returns nil.

Whether unknown fields are rejected is up to the document: closed objects
should set "additionalProperties": false (the Object helper does).
*/
type Schema struct {
	doc      map[string]any
	compiled *jsonschema.Schema
}

/*
New compiles a JSON-Schema-like document into a Schema.
*/
func New(doc map[string]any) (*Schema, error) {
	compiler := jsonschema.NewCompiler()

	if err := compiler.AddResource("schema.json", doc); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}

	compiled, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	return &Schema{doc: doc, compiled: compiled}, nil
}

/*
MustNew is New for statically known documents; it panics on compile errors.
*/
func MustNew(doc map[string]any) *Schema {
	s, err := New(doc)
	if err != nil {
		panic(err)
	}
	return s
}

/*
Validate checks value against the schema. On success it returns the
canonical form of the value (the result of a JSON round-trip, so handlers
always observe plain maps, slices and JSON numbers). On failure it returns
the issues found; the canonical value is nil.
*/
func (s *Schema) Validate(value any) (any, []Issue) {
	canonical, err := canonicalize(value)
	if err != nil {
		return nil, []Issue{{Path: "", Code: "encoding", Message: err.Error()}}
	}

	if s == nil || s.compiled == nil {
		return canonical, nil
	}

	if err := s.compiled.Validate(canonical); err != nil {
		return nil, flatten(err)
	}

	return canonical, nil
}

/*
Portable returns the schema as a portable JSON-Schema document for
discovery output, or nil when no schema is declared. The returned map is a
copy; callers may mutate it.
*/
func (s *Schema) Portable() map[string]any {
	if s == nil || s.doc == nil {
		return nil
	}

	raw, err := json.Marshal(s.doc)
	if err != nil {
		// Discovery is best effort: an unencodable document is simply omitted.
		return nil
	}

	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}

	return out
}

// canonicalize round-trips the value through JSON so that validation and
// handlers see the same decoded shape regardless of the Go type that came in.
func canonicalize(value any) (any, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("value is not JSON-encodable: %w", err)
	}

	decoded, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}

	return decoded, nil
}

// flatten converts a nested jsonschema validation error into a flat issues
// list, keeping only the leaf causes.
func flatten(err error) []Issue {
	var ve *jsonschema.ValidationError

	if !stderr.As(err, &ve) {
		return []Issue{{Path: "", Code: "schema", Message: err.Error()}}
	}

	var issues []Issue
	var walk func(v *jsonschema.ValidationError)

	walk = func(v *jsonschema.ValidationError) {
		if len(v.Causes) == 0 {
			issues = append(issues, Issue{
				Path:    pointer(v.InstanceLocation),
				Code:    "schema",
				Message: v.Error(),
			})
			return
		}
		for _, cause := range v.Causes {
			walk(cause)
		}
	}

	walk(ve)
	return issues
}

func pointer(location []string) string {
	if len(location) == 0 {
		return ""
	}
	return "/" + strings.Join(location, "/")
}
