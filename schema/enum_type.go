package schema

import (
	"context"
	"fmt"

	"github.com/kjhughes/gql/ast"
)

// EnumValueDefinition describes one of an enum type's legal values.
type EnumValueDefinition struct {
	Description       string
	Directives        []*Directive
	DeprecationReason string

	// Value is the internal representation that this enum value coerces to/from. It defaults to
	// the value's name if unset.
	Value interface{}

	// IsVisible, if given, hides the value from introspection unless it returns true.
	IsVisible func(context.Context) bool
}

// EnumType represents a closed set of named, possible values, such as a direction or status.
type EnumType struct {
	Name        string
	Description string
	Directives  []*Directive
	Values      map[string]*EnumValueDefinition

	IsVisible func(context.Context) bool
}

func (t *EnumType) String() string {
	return t.Name
}

func (t *EnumType) IsInputType() bool {
	return true
}

func (t *EnumType) IsOutputType() bool {
	return true
}

func (t *EnumType) IsSubTypeOf(other Type) bool {
	return t.IsSameType(other)
}

func (t *EnumType) IsSameType(other Type) bool {
	return t == other
}

func (t *EnumType) TypeName() string {
	return t.Name
}

func (t *EnumType) IsTypeVisible(ctx context.Context) bool {
	if t.IsVisible == nil {
		return true
	}
	return t.IsVisible(ctx)
}

func (t *EnumType) valueForName(name string) (interface{}, bool) {
	def, ok := t.Values[name]
	if !ok {
		return nil, false
	}
	if def.Value != nil {
		return def.Value, true
	}
	return name, true
}

func (t *EnumType) nameForValue(v interface{}) (string, bool) {
	for name, def := range t.Values {
		value := def.Value
		if value == nil {
			value = name
		}
		if value == v {
			return name, true
		}
	}
	return "", false
}

func (t *EnumType) CoerceVariableValue(v interface{}) (interface{}, error) {
	name, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("expected a string")
	}
	value, ok := t.valueForName(name)
	if !ok {
		return nil, fmt.Errorf("%v is not a valid value for %v", name, t.Name)
	}
	return value, nil
}

func (t *EnumType) CoerceLiteral(from ast.Value) (interface{}, error) {
	enumValue, ok := from.(*ast.EnumValue)
	if !ok {
		return nil, fmt.Errorf("expected an enum value")
	}
	value, ok := t.valueForName(enumValue.Value)
	if !ok {
		return nil, fmt.Errorf("%v is not a valid value for %v", enumValue.Value, t.Name)
	}
	return value, nil
}

func (t *EnumType) CoerceResult(v interface{}) (interface{}, error) {
	name, ok := t.nameForValue(v)
	if !ok {
		return nil, fmt.Errorf("%v is not a valid result for %v", v, t.Name)
	}
	return name, nil
}

func (t *EnumType) shallowValidate() error {
	if len(t.Values) == 0 {
		return fmt.Errorf("%v must have at least one value", t.Name)
	}
	for name := range t.Values {
		if !isName(name) {
			return fmt.Errorf("illegal enum value name: %v", name)
		}
	}
	return nil
}

// IsEnumType returns true if t is an enum type.
func IsEnumType(t Type) bool {
	_, ok := t.(*EnumType)
	return ok
}
