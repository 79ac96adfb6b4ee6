package schema

import (
	"context"
	"fmt"

	"github.com/kjhughes/gql/ast"
)

// ScalarType represents a leaf type with custom coercion logic, such as Int, String, or a
// domain-specific type like DateTime.
type ScalarType struct {
	Name        string
	Description string
	Directives  []*Directive

	// LiteralCoercion coerces an AST literal into the scalar's internal representation. It should
	// return nil if the literal can't be coerced.
	LiteralCoercion func(ast.Value) interface{}

	// VariableValueCoercion coerces a decoded variable or result value into the scalar's internal
	// representation. It should return nil if the value can't be coerced.
	VariableValueCoercion func(interface{}) interface{}

	// ResultCoercion coerces a resolver's result into the scalar's internal representation. It
	// should return nil if the value can't be coerced.
	ResultCoercion func(interface{}) interface{}

	// IsVisible, if given, hides the type from introspection unless it returns true.
	IsVisible func(context.Context) bool
}

func (t *ScalarType) String() string {
	return t.Name
}

func (t *ScalarType) IsInputType() bool {
	return true
}

func (t *ScalarType) IsOutputType() bool {
	return true
}

func (t *ScalarType) IsSubTypeOf(other Type) bool {
	return t.IsSameType(other)
}

func (t *ScalarType) IsSameType(other Type) bool {
	return t == other
}

func (t *ScalarType) TypeName() string {
	return t.Name
}

func (t *ScalarType) IsTypeVisible(ctx context.Context) bool {
	if t.IsVisible == nil {
		return true
	}
	return t.IsVisible(ctx)
}

func (t *ScalarType) CoerceVariableValue(v interface{}) (interface{}, error) {
	if coerced := t.VariableValueCoercion(v); coerced != nil {
		return coerced, nil
	}
	return nil, fmt.Errorf("cannot coerce to %v", t.Name)
}

func (t *ScalarType) CoerceResult(v interface{}) (interface{}, error) {
	if coerced := t.ResultCoercion(v); coerced != nil {
		return coerced, nil
	}
	return nil, fmt.Errorf("cannot coerce %v result for %v", v, t.Name)
}

func (t *ScalarType) shallowValidate() error {
	if t.LiteralCoercion == nil || t.VariableValueCoercion == nil || t.ResultCoercion == nil {
		return fmt.Errorf("%v must define its coercion functions", t.Name)
	}
	return nil
}

// IsScalarType returns true if t is a scalar type.
func IsScalarType(t Type) bool {
	_, ok := t.(*ScalarType)
	return ok
}
