package schema

import (
	"context"
	"fmt"
	"strings"

	"github.com/kjhughes/gql/ast"
)

// InputObjectType represents a set of named input fields, used for complex argument and variable
// values.
type InputObjectType struct {
	Name        string
	Description string
	Directives  []*Directive

	// Fields is a thunk for the same reason ObjectType.Fields is: input objects can reference
	// other input object types cyclically.
	Fields *Thunk[map[string]*InputValueDefinition]

	// OneOf restricts the type so that exactly one field may be provided, and its value must be
	// non-null. This is used to model mutually exclusive argument groups (e.g. "search by id" xor
	// "search by name") as a single nullable-free union of inputs.
	OneOf bool

	// InputCoercion, if given, validates and converts a fully-coerced field map into another
	// representation. Otherwise the object remains a map[string]interface{}.
	InputCoercion func(map[string]interface{}) (interface{}, error)

	// ResultCoercion is the inverse of InputCoercion. It's only required if a field of this type
	// has a default value that needs to be serialized for introspection.
	ResultCoercion func(interface{}) (map[string]interface{}, error)

	// IsVisible, if given, hides the type from introspection unless it returns true.
	IsVisible func(context.Context) bool
}

func (t *InputObjectType) String() string {
	return t.Name
}

func (t *InputObjectType) IsInputType() bool {
	return true
}

func (t *InputObjectType) IsOutputType() bool {
	return false
}

func (t *InputObjectType) IsSubTypeOf(other Type) bool {
	return t.IsSameType(other)
}

func (t *InputObjectType) IsSameType(other Type) bool {
	return t == other
}

func (t *InputObjectType) TypeName() string {
	return t.Name
}

func (t *InputObjectType) IsTypeVisible(ctx context.Context) bool {
	if t.IsVisible == nil {
		return true
	}
	return t.IsVisible(ctx)
}

func (t *InputObjectType) checkOneOf(result map[string]interface{}) error {
	if !t.OneOf {
		return nil
	}
	set := 0
	for _, v := range result {
		if v == nil {
			return t.oneOfError()
		}
		set++
	}
	if set != 1 {
		return t.oneOfError()
	}
	return nil
}

func (t *InputObjectType) oneOfError() error {
	return fmt.Errorf("Exactly one key must be specified for OneOf type %q", t.Name)
}

func (t *InputObjectType) CoerceVariableValue(v interface{}) (interface{}, error) {
	result := map[string]interface{}{}
	fields := t.Fields.Get()

	switch v := v.(type) {
	case map[string]interface{}:
		for name, field := range fields {
			if fieldValue, ok := v[name]; ok {
				coerced, err := CoerceVariableValue(fieldValue, field.Type)
				if err != nil {
					return nil, err
				}
				result[name] = coerced
			} else if field.DefaultValue != nil {
				if field.DefaultValue == Null {
					result[name] = nil
				} else {
					result[name] = field.DefaultValue
				}
			} else if IsNonNullType(field.Type) {
				return nil, fmt.Errorf("the %v field is required", name)
			}
		}
		for name := range v {
			if _, ok := fields[name]; !ok {
				return nil, fmt.Errorf("unknown field: %v", name)
			}
		}
	default:
		return nil, fmt.Errorf("invalid variable type")
	}

	if err := t.checkOneOf(result); err != nil {
		return nil, err
	}

	if t.InputCoercion != nil {
		return t.InputCoercion(result)
	}
	return result, nil
}

func (t *InputObjectType) CoerceLiteral(node *ast.ObjectValue, variableValues map[string]interface{}) (interface{}, error) {
	result := map[string]interface{}{}
	fields := t.Fields.Get()

	for _, field := range node.Fields {
		name := field.Name.Name
		fieldDef, ok := fields[name]
		if !ok {
			return nil, fmt.Errorf("unknown field: %v", name)
		}
		if variable, ok := field.Value.(*ast.Variable); ok {
			if _, ok := variableValues[variable.Name.Name]; !ok {
				continue
			}
		}
		coerced, err := CoerceLiteral(field.Value, fieldDef.Type, variableValues)
		if err != nil {
			return nil, err
		}
		result[name] = coerced
	}
	for name, field := range fields {
		if v, ok := result[name]; !ok && field.DefaultValue != nil {
			if field.DefaultValue == Null {
				result[name] = nil
			} else {
				result[name] = field.DefaultValue
			}
		} else if (!ok || v == nil) && IsNonNullType(field.Type) {
			return nil, fmt.Errorf("the %v field is required", name)
		}
	}

	if err := t.checkOneOf(result); err != nil {
		return nil, err
	}

	if t.InputCoercion != nil {
		return t.InputCoercion(result)
	}
	return result, nil
}

func (t *InputObjectType) shallowValidate() error {
	fields := t.Fields.Get()
	if len(fields) == 0 {
		return fmt.Errorf("%v must have at least one field", t.Name)
	}
	for name, field := range fields {
		if !isName(name) || strings.HasPrefix(name, "__") {
			return fmt.Errorf("illegal field name: %v", name)
		} else if !field.Type.IsInputType() {
			return fmt.Errorf("%v field must be an input type", name)
		} else if t.OneOf && IsNonNullType(field.Type) {
			return fmt.Errorf("%v field of a OneOf input object may not be non-null", name)
		}
	}
	return nil
}
