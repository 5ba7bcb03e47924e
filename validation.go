package funcall

import "reflect"

// Validatable is implemented by argument structs that need custom business
// validation beyond the schema. Called after schema validation and
// unmarshaling; a non-nil error fails the call with ErrValidation.
type Validatable interface {
	Validate() error
}

// validateCustom runs Validatable.Validate if args implements it, trying a
// pointer copy for value types with a pointer receiver. Never calls Validate
// twice for the same receiver.
func validateCustom(args any) error {
	if v, ok := args.(Validatable); ok {
		return v.Validate()
	}
	rv := reflect.ValueOf(args)
	if !rv.IsValid() || rv.Kind() == reflect.Pointer {
		return nil
	}
	p := reflect.New(rv.Type())
	p.Elem().Set(rv)
	if v, ok := p.Interface().(Validatable); ok {
		return v.Validate()
	}
	return nil
}
