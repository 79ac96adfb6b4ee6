package schema

import (
	"fmt"
	"reflect"

	"github.com/kjhughes/gql/ast"
)

// ListType wraps another type, representing a list of its values.
type ListType struct {
	Type Type
}

func NewListType(t Type) *ListType {
	return &ListType{Type: t}
}

func (t *ListType) String() string {
	return "[" + t.Type.String() + "]"
}

func (t *ListType) IsInputType() bool {
	return t.Type.IsInputType()
}

func (t *ListType) IsOutputType() bool {
	return t.Type.IsOutputType()
}

func (t *ListType) IsSubTypeOf(other Type) bool {
	if other, ok := other.(*ListType); ok {
		return t.Type.IsSubTypeOf(other.Type)
	}
	return false
}

func (t *ListType) IsSameType(other Type) bool {
	if other, ok := other.(*ListType); ok {
		return t.Type.IsSameType(other.Type)
	}
	return false
}

func (t *ListType) Unwrap() Type {
	return t.Type
}

func (t *ListType) shallowValidate() error {
	if t.Type == nil {
		return fmt.Errorf("list types must wrap another type")
	}
	return nil
}

func (t *ListType) coerceVariableValue(v interface{}, allowItemToListCoercion bool) (interface{}, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		if !allowItemToListCoercion {
			return nil, fmt.Errorf("expected a list")
		}
		coerced, err := coerceVariableValue(v, t.Type, false)
		if err != nil {
			return nil, err
		}
		return []interface{}{coerced}, nil
	}
	ret := make([]interface{}, rv.Len())
	for i := range ret {
		coerced, err := coerceVariableValue(rv.Index(i).Interface(), t.Type, false)
		if err != nil {
			return nil, err
		}
		ret[i] = coerced
	}
	return ret, nil
}

func (t *ListType) coerceLiteral(from ast.Value, variableValues map[string]interface{}, allowItemToListCoercion bool) (interface{}, error) {
	list, ok := from.(*ast.ListValue)
	if !ok {
		if !allowItemToListCoercion {
			return nil, fmt.Errorf("expected a list")
		}
		coerced, err := coerceLiteral(from, t.Type, variableValues, true)
		if err != nil {
			return nil, err
		}
		return []interface{}{coerced}, nil
	}
	ret := make([]interface{}, len(list.Values))
	for i, v := range list.Values {
		coerced, err := coerceLiteral(v, t.Type, variableValues, false)
		if err != nil {
			return nil, err
		}
		ret[i] = coerced
	}
	return ret, nil
}

// IsListType returns true if t is a list type.
func IsListType(t Type) bool {
	_, ok := t.(*ListType)
	return ok
}
