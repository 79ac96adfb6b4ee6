package validator

import (
	"fmt"

	"github.com/kjhughes/gql/ast"
	"github.com/kjhughes/gql/schema"
)

// CoerceVariableValues coerces the variable values supplied alongside a request (already decoded
// from JSON into Go maps/slices/scalars) according to the variable definitions of op.
func CoerceVariableValues(s *schema.Schema, op *ast.OperationDefinition, values map[string]interface{}, typeInfo *TypeInfo) (map[string]interface{}, error) {
	coerced := map[string]interface{}{}
	for _, def := range op.VariableDefinitions {
		name := def.Variable.Name.Name
		t, ok := typeInfo.VariableDefinitionTypes[def]
		if !ok {
			continue
		}

		value, hasValue := values[name]
		if !hasValue {
			if def.DefaultValue != nil {
				v, err := schema.CoerceLiteral(def.DefaultValue, t, nil)
				if err != nil {
					return nil, fmt.Errorf("variable %q: %v", name, err)
				}
				coerced[name] = v
				continue
			}
			if schema.IsNonNullType(t) {
				return nil, fmt.Errorf("variable %q of required type %v was not provided", name, t)
			}
			continue
		}

		v, err := schema.CoerceVariableValue(value, t)
		if err != nil {
			return nil, fmt.Errorf("variable %q: %v", name, err)
		}
		coerced[name] = v
	}
	return coerced, nil
}

// CoerceArgumentValues coerces the arguments of node (a Field or Directive) into internal values,
// applying defaults for any arguments that were omitted.
func CoerceArgumentValues(arguments map[string]*schema.InputValueDefinition, astArguments []*ast.Argument, variableValues map[string]interface{}) (map[string]interface{}, error) {
	provided := map[string]*ast.Argument{}
	for _, arg := range astArguments {
		provided[arg.Name.Name] = arg
	}

	coerced := map[string]interface{}{}
	for name, def := range arguments {
		arg, ok := provided[name]
		if !ok {
			if def.DefaultValue != nil {
				if def.DefaultValue == schema.Null {
					coerced[name] = nil
				} else {
					coerced[name] = def.DefaultValue
				}
				continue
			}
			if schema.IsNonNullType(def.Type) {
				return nil, fmt.Errorf("argument %q of required type %v was not provided", name, def.Type)
			}
			continue
		}

		if variable, ok := arg.Value.(*ast.Variable); ok {
			if value, ok := variableValues[variable.Name.Name]; ok {
				coerced[name] = value
				continue
			}
			if def.DefaultValue != nil {
				if def.DefaultValue == schema.Null {
					coerced[name] = nil
				} else {
					coerced[name] = def.DefaultValue
				}
				continue
			}
			if schema.IsNonNullType(def.Type) {
				return nil, fmt.Errorf("argument %q of required type %v was not provided", name, def.Type)
			}
			continue
		}

		v, err := schema.CoerceLiteral(arg.Value, def.Type, variableValues)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %v", name, err)
		}
		coerced[name] = v
	}
	return coerced, nil
}
