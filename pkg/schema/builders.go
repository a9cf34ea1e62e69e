package schema

// Small document builders used by skill definitions, examples and tests.
// They produce plain JSON-Schema maps; anything New can compile works too.

// Object builds a closed object schema. Pass required property names after
// the property map; objects stay closed (additionalProperties: false) so
// unexpected fields are rejected.
func Object(properties map[string]any, required ...string) map[string]any {
	doc := map[string]any{
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": false,
	}
	if len(required) > 0 {
		doc["required"] = requiredList(required)
	}
	return doc
}

// OpenObject builds an object schema that tolerates unknown fields.
func OpenObject(properties map[string]any, required ...string) map[string]any {
	doc := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		doc["required"] = requiredList(required)
	}
	return doc
}

// requiredList widens the name list to []any, the generic JSON shape the
// schema compiler expects.
func requiredList(names []string) []any {
	out := make([]any, len(names))
	for i, name := range names {
		out[i] = name
	}
	return out
}

// String returns a string type schema.
func String() map[string]any {
	return map[string]any{"type": "string"}
}

// Number returns a number type schema.
func Number() map[string]any {
	return map[string]any{"type": "number"}
}

// Boolean returns a boolean type schema.
func Boolean() map[string]any {
	return map[string]any{"type": "boolean"}
}

// Array returns an array schema with the given item schema.
func Array(items map[string]any) map[string]any {
	return map[string]any{"type": "array", "items": items}
}
