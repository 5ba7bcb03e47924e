package funcall

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"

	invopop "github.com/invopop/jsonschema"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema primitive kinds. Declared Go types map onto these:
// string→string, integer kinds→integer, floats→number, bool→boolean,
// slices/arrays→array, map[string]V→object, pointers unwrap to the element
// kind and drop the parameter from the required set.
const (
	KindString  = "string"
	KindInteger = "integer"
	KindNumber  = "number"
	KindBoolean = "boolean"
	KindArray   = "array"
	KindObject  = "object"
)

// ValueSchema describes one value position in a calling contract: a parameter,
// an array item, or an object value. A zero ValueSchema is the unconstrained
// schema ({}), produced when an element type is left unspecified (e.g. []any).
type ValueSchema struct {
	Type                 string
	Items                *ValueSchema // set when Type == "array"
	AdditionalProperties *ValueSchema // set when Type == "object"
}

// toMap renders the schema as a plain JSON Schema node.
func (v *ValueSchema) toMap() map[string]any {
	m := map[string]any{}
	if v == nil || v.Type == "" {
		return m
	}
	m["type"] = v.Type
	if v.Items != nil {
		m["items"] = v.Items.toMap()
	}
	if v.AdditionalProperties != nil {
		m["additionalProperties"] = v.AdditionalProperties.toMap()
	}
	return m
}

// ParameterSpec is one named parameter of a tool contract. Required
// parameters have no default; optional parameters (pointer fields or
// ",omitempty") are simply left out of the required set, never wrapped.
type ParameterSpec struct {
	Name        string
	Description string
	Schema      ValueSchema
	Required    bool
}

// ToolSchema is the machine-checkable calling contract of one tool: a unique
// name, a non-empty description, and an ordered parameter set. Parameter
// order follows the argument struct's field order; only key uniqueness is
// semantically meaningful.
type ToolSchema struct {
	Name        string
	Description string
	Parameters  []ParameterSpec

	// raw holds the caller-supplied document of a dynamic tool. When set it
	// is the source of truth for JSONSchema; Parameters is a flat view of its
	// top-level properties.
	raw map[string]any
}

// Required returns the names of required parameters in declaration order.
// It is always a subset of the parameter names.
func (s ToolSchema) Required() []string {
	var req []string
	for _, p := range s.Parameters {
		if p.Required {
			req = append(req, p.Name)
		}
	}
	return req
}

// Parameter returns the spec for the named parameter, if present.
func (s ToolSchema) Parameter(name string) (ParameterSpec, bool) {
	for _, p := range s.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return ParameterSpec{}, false
}

// JSONSchema renders the parameter set as a standard JSON Schema object
// document — the same document used to validate incoming arguments.
func (s ToolSchema) JSONSchema() map[string]any {
	if s.raw != nil {
		return s.raw
	}
	props := make(map[string]any, len(s.Parameters))
	for _, p := range s.Parameters {
		node := p.Schema.toMap()
		if p.Description != "" {
			node["description"] = p.Description
		}
		props[p.Name] = node
	}
	doc := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if req := s.Required(); len(req) > 0 {
		doc["required"] = req
	}
	return doc
}

// MarshalJSON emits the export record shape used in model request payloads:
// {name, description, parameters: {name → {type, description}}, required: [...]}.
func (s ToolSchema) MarshalJSON() ([]byte, error) {
	params := make(map[string]any, len(s.Parameters))
	for _, p := range s.Parameters {
		node := p.Schema.toMap()
		node["description"] = p.Description
		params[p.Name] = node
	}
	if s.raw != nil {
		if props, ok := s.raw["properties"].(map[string]any); ok {
			params = props
		}
	}
	req := s.Required()
	if req == nil {
		req = []string{}
	}
	return json.Marshal(struct {
		Name        string         `json:"name"`
		Description string         `json:"description"`
		Parameters  map[string]any `json:"parameters"`
		Required    []string       `json:"required"`
	}{s.Name, s.Description, params, req})
}

// compileValueSchema maps a declared Go type onto a ValueSchema.
// Errors wrap ErrUnsupportedType; the caller attaches the parameter name.
func compileValueSchema(t reflect.Type) (ValueSchema, error) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return ValueSchema{Type: KindString}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return ValueSchema{Type: KindInteger}, nil
	case reflect.Float32, reflect.Float64:
		return ValueSchema{Type: KindNumber}, nil
	case reflect.Bool:
		return ValueSchema{Type: KindBoolean}, nil
	case reflect.Slice, reflect.Array:
		items, err := compileElemSchema(t.Elem())
		if err != nil {
			return ValueSchema{}, err
		}
		return ValueSchema{Type: KindArray, Items: items}, nil
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return ValueSchema{}, fmt.Errorf("%w: map key of %s must be string", ErrUnsupportedType, t)
		}
		vals, err := compileElemSchema(t.Elem())
		if err != nil {
			return ValueSchema{}, err
		}
		return ValueSchema{Type: KindObject, AdditionalProperties: vals}, nil
	default:
		return ValueSchema{}, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
	}
}

// compileElemSchema compiles an array-item or map-value type. An interface
// element means the item type is unspecified, which compiles to the
// unconstrained schema rather than failing.
func compileElemSchema(t reflect.Type) (*ValueSchema, error) {
	if t.Kind() == reflect.Interface {
		return &ValueSchema{}, nil
	}
	vs, err := compileValueSchema(t)
	if err != nil {
		return nil, err
	}
	return &vs, nil
}

// compileRawSchema compiles a raw JSON Schema document into a validator.
// The map is marshaled and re-read through the validator's own decoder so
// numeric tokens keep full precision.
func compileRawSchema(schemaMap map[string]any) (*jsonschema.Schema, error) {
	data, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, err
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("tool.json", doc); err != nil {
		return nil, err
	}
	return c.Compile("tool.json")
}

// SchemaFor reflects an arbitrary struct type into a raw JSON Schema map.
// It is the escape hatch for argument shapes the table-driven compiler
// rejects (nested structs, enums via jsonschema tags); pair it with
// NewDynamicTool. The generated document is inlined (no $ref) and forbids
// unknown properties.
func SchemaFor[T any]() (map[string]any, error) {
	r := invopop.Reflector{AllowAdditionalProperties: false, DoNotReference: true}
	var v T
	schema := r.Reflect(&v)
	data, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	// $schema and $id pin the document to a dialect and location; neither is
	// wanted in a tool contract.
	delete(m, "$schema")
	delete(m, "$id")
	delete(m, "id")
	return m, nil
}
