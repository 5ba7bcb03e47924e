package funcall

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// tool is the internal implementation of Tool built by NewTool and
// NewDynamicTool.
type tool struct {
	schema   ToolSchema
	compiled *jsonschema.Schema
	execute  func(ctx context.Context, args json.RawMessage) (json.RawMessage, error)
}

func (t *tool) Name() string        { return t.schema.Name }
func (t *tool) Description() string { return t.schema.Description }
func (t *tool) Schema() ToolSchema  { return t.schema }

func (t *tool) Execute(ctx context.Context, args json.RawMessage) (json.RawMessage, error) {
	return t.execute(ctx, args)
}

// NewTool derives a calling contract from a typed handler and binds the two
// together. The contract comes from introspection: parameter names, types,
// descriptions and requiredness from the fields of T, the declared return
// type from R, the tool name from the function symbol when name is "".
//
// Registration fails fast — with ErrMissingTypeAnnotation,
// ErrMissingDescription, ErrUnsupportedType, or ErrUnknownParameter wrapped
// in a *RegistrationError — rather than ever producing an incomplete
// contract: the model depends on the schema being complete and accurate.
func NewTool[T, R any](
	name, description string,
	fn func(ctx context.Context, args T) (R, error),
	opts ...ToolOption,
) (Tool, error) {
	var o toolOptions
	for _, opt := range opts {
		opt(&o)
	}
	if name == "" {
		name = introspectName(fn)
	}
	if name == "" {
		return nil, &RegistrationError{
			Tool: "(anonymous)",
			Err:  errors.New("anonymous handler requires an explicit name"),
		}
	}
	if description == "" {
		return nil, &RegistrationError{
			Tool: name,
			Err:  ErrMissingDescription,
			Hint: descriptionHint(name),
		}
	}
	if err := introspectReturn[R](name); err != nil {
		return nil, err
	}
	params, err := introspectParams(name, reflect.TypeOf((*T)(nil)).Elem())
	if err != nil {
		return nil, err
	}
	params, err = applyOverrides(name, params, o)
	if err != nil {
		return nil, err
	}
	schema := ToolSchema{Name: name, Description: description, Parameters: params}
	compiled, err := compileRawSchema(schema.JSONSchema())
	if err != nil {
		return nil, &RegistrationError{Tool: name, Err: err}
	}
	execute := func(ctx context.Context, argsJSON json.RawMessage) (json.RawMessage, error) {
		args, err := parseAndValidate[T](compiled, argsJSON)
		if err != nil {
			return nil, err
		}
		res, err := fn(ctx, args)
		if err != nil {
			return nil, err
		}
		out, err := json.Marshal(res)
		if err != nil {
			return nil, fmt.Errorf("marshal result of %q: %w", name, err)
		}
		return out, nil
	}
	return &tool{schema: schema, compiled: compiled, execute: execute}, nil
}

// NewDynamicTool binds a handler to a caller-supplied raw JSON Schema,
// bypassing introspection. Use it with SchemaFor for argument shapes the
// table-driven compiler rejects, or for contracts loaded at runtime. The
// handler receives the argument payload after schema validation. The
// provided map is deep-copied and never mutated.
func NewDynamicTool(
	name, description string,
	schemaMap map[string]any,
	fn func(ctx context.Context, args json.RawMessage) (json.RawMessage, error),
) (Tool, error) {
	if name == "" {
		return nil, &RegistrationError{Tool: "(dynamic)", Err: errors.New("dynamic tool requires a name")}
	}
	if description == "" {
		return nil, &RegistrationError{Tool: name, Err: ErrMissingDescription, Hint: descriptionHint(name)}
	}
	if schemaMap == nil {
		return nil, &RegistrationError{Tool: name, Err: errors.New("dynamic schema map must not be nil")}
	}
	if fn == nil {
		return nil, &RegistrationError{Tool: name, Err: errors.New("dynamic tool handler must not be nil")}
	}
	data, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, &RegistrationError{Tool: name, Err: fmt.Errorf("copy schema map: %w", err)}
	}
	var schemaCopy map[string]any
	if err := json.Unmarshal(data, &schemaCopy); err != nil {
		return nil, &RegistrationError{Tool: name, Err: fmt.Errorf("copy schema map: %w", err)}
	}
	delete(schemaCopy, "$schema")
	delete(schemaCopy, "$id")
	delete(schemaCopy, "id")
	compiled, err := compileRawSchema(schemaCopy)
	if err != nil {
		return nil, &RegistrationError{Tool: name, Err: fmt.Errorf("compile dynamic schema: %w", err)}
	}
	schema := ToolSchema{
		Name:        name,
		Description: description,
		Parameters:  flattenProperties(schemaCopy),
		raw:         schemaCopy,
	}
	execute := func(ctx context.Context, argsJSON json.RawMessage) (json.RawMessage, error) {
		if err := validateArgs(compiled, argsJSON); err != nil {
			return nil, err
		}
		return fn(ctx, argsJSON)
	}
	return &tool{schema: schema, compiled: compiled, execute: execute}, nil
}

// applyOverrides folds caller-supplied contract overrides into the
// introspected parameter set. Any override naming a parameter absent from
// the signature fails with ErrUnknownParameter.
func applyOverrides(toolName string, params []ParameterSpec, o toolOptions) ([]ParameterSpec, error) {
	known := make(map[string]bool, len(params))
	for _, p := range params {
		known[p.Name] = true
	}
	unknown := func(name string) error {
		return &RegistrationError{
			Tool:  toolName,
			Param: name,
			Err:   fmt.Errorf("%w: not a formal parameter of the handler", ErrUnknownParameter),
		}
	}

	if o.params != nil {
		for name := range o.params {
			if !known[name] {
				return nil, unknown(name)
			}
		}
		kept := params[:0]
		for _, p := range params {
			if spec, ok := o.params[p.Name]; ok {
				spec.Name = p.Name
				kept = append(kept, spec)
			}
		}
		params = kept
		known = make(map[string]bool, len(params))
		for _, p := range params {
			known[p.Name] = true
		}
	}
	if o.paramDescs != nil {
		for name, desc := range o.paramDescs {
			if !known[name] {
				return nil, unknown(name)
			}
			for i := range params {
				if params[i].Name == name {
					params[i].Description = desc
				}
			}
		}
	}
	if o.requiredSet {
		req := make(map[string]bool, len(o.required))
		for _, name := range o.required {
			if !known[name] {
				return nil, unknown(name)
			}
			req[name] = true
		}
		for i := range params {
			params[i].Required = req[params[i].Name]
		}
	}
	return params, nil
}

// flattenProperties builds a flat typed view of a raw schema's top-level
// properties (sorted by name) so dynamic tools still export a parameter list.
func flattenProperties(schemaMap map[string]any) []ParameterSpec {
	props, _ := schemaMap["properties"].(map[string]any)
	if len(props) == 0 {
		return nil
	}
	required := map[string]bool{}
	if rs, ok := schemaMap["required"].([]any); ok {
		for _, r := range rs {
			if name, ok := r.(string); ok {
				required[name] = true
			}
		}
	}
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)
	params := make([]ParameterSpec, 0, len(names))
	for _, name := range names {
		spec := ParameterSpec{Name: name, Required: required[name]}
		if node, ok := props[name].(map[string]any); ok {
			spec.Schema.Type, _ = node["type"].(string)
			spec.Description, _ = node["description"].(string)
		}
		params = append(params, spec)
	}
	return params
}

// parseAndValidate deserializes argsJSON into T after schema validation
// (layer 1) and runs Validatable.Validate (layer 2) when T implements it.
// Failures come back as ClientError so the reason can be fed to the model
// for self-correction.
func parseAndValidate[T any](compiled *jsonschema.Schema, argsJSON json.RawMessage) (T, error) {
	var zero T
	if len(bytes.TrimSpace(argsJSON)) == 0 {
		argsJSON = []byte("{}")
	}
	if err := validateArgs(compiled, argsJSON); err != nil {
		return zero, err
	}
	var args T
	if err := json.Unmarshal(argsJSON, &args); err != nil {
		return zero, wrapJSONParseError(err)
	}
	if err := validateCustom(args); err != nil {
		if IsClientError(err) {
			return zero, err
		}
		return zero, &ClientError{Reason: err.Error(), Err: ErrValidation}
	}
	return args, nil
}

// validateArgs runs schema validation over a raw argument payload.
func validateArgs(compiled *jsonschema.Schema, argsJSON json.RawMessage) error {
	v, err := jsonschema.UnmarshalJSON(bytes.NewReader(argsJSON))
	if err != nil {
		return wrapJSONParseError(err)
	}
	if err := compiled.Validate(v); err != nil {
		return &ClientError{Reason: err.Error(), Err: ErrValidation}
	}
	return nil
}
