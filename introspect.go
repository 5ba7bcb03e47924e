package funcall

import (
	"fmt"
	"reflect"
	"runtime"
	"slices"
	"strings"
)

// introspectName derives a tool name from the handler's function symbol,
// mirroring registration by the function's own name. Returns "" for anonymous
// closures, which have no usable declared name and need an explicit override.
func introspectName(fn any) string {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return ""
	}
	f := runtime.FuncForPC(v.Pointer())
	if f == nil {
		return ""
	}
	name := strings.TrimSuffix(f.Name(), "-fm") // method value suffix
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.Index(name, "."); i >= 0 {
		name = name[i+1:] // drop package qualifier
	}
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:] // method receiver or enclosing function
	}
	name = strings.Trim(name, "()*")
	if isAnonymousFunc(name) {
		return ""
	}
	return name
}

// isAnonymousFunc reports whether name is a compiler-generated closure name
// such as "func1" or "func2.1".
func isAnonymousFunc(name string) bool {
	rest, ok := strings.CutPrefix(name, "func")
	if !ok {
		return false
	}
	for _, r := range rest {
		if (r < '0' || r > '9') && r != '.' {
			return false
		}
	}
	return rest != ""
}

// introspectReturn checks that R is a concrete declared type. An interface
// return type carries no contract the model could rely on, so registration
// fails fast instead of producing an incomplete schema.
func introspectReturn[R any](toolName string) error {
	rt := reflect.TypeOf((*R)(nil)).Elem()
	if rt.Kind() == reflect.Interface {
		return &RegistrationError{
			Tool: toolName,
			Err:  fmt.Errorf("%w: return type %s is not a concrete type", ErrMissingTypeAnnotation, rt),
		}
	}
	return nil
}

// introspectParams maps the fields of an argument struct to parameter specs.
// Field order is preserved. A field is a parameter unless it is unexported or
// json-tagged "-"; it is required unless it is a pointer or ",omitempty".
func introspectParams(toolName string, t reflect.Type) ([]ParameterSpec, error) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, &RegistrationError{
			Tool: toolName,
			Err:  fmt.Errorf("%w: arguments type %s is not a struct", ErrUnsupportedType, t),
		}
	}
	params := make([]ParameterSpec, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag := strings.Split(f.Tag.Get("json"), ",")
		name := tag[0]
		if name == "-" {
			continue
		}
		if name == "" {
			name = strings.ToLower(f.Name)
		}
		optional := f.Type.Kind() == reflect.Pointer || slices.Contains(tag[1:], "omitempty")

		base := f.Type
		for base.Kind() == reflect.Pointer {
			base = base.Elem()
		}
		if base.Kind() == reflect.Interface {
			return nil, &RegistrationError{
				Tool:  toolName,
				Param: name,
				Err:   fmt.Errorf("%w: field %s has no concrete declared type", ErrMissingTypeAnnotation, f.Name),
			}
		}

		vs, err := compileValueSchema(f.Type)
		if err != nil {
			return nil, &RegistrationError{Tool: toolName, Param: name, Err: err}
		}
		desc := f.Tag.Get("description")
		if desc == "" {
			desc = name + ": " + vs.Type
		}
		params = append(params, ParameterSpec{
			Name:        name,
			Description: desc,
			Schema:      vs,
			Required:    !optional,
		})
	}
	return params, nil
}
