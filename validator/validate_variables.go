package validator

import (
	"github.com/kjhughes/gql/ast"
	"github.com/kjhughes/gql/schema"
)

// validateVariables implements UniqueVariableNames, NoUndefinedVariables, NoUnusedVariables,
// VariablesAreInputTypes, and VariablesInAllowedPosition.
func validateVariables(doc *ast.Document, s *schema.Schema, typeInfo *TypeInfo) []*Error {
	fragmentDefinitions := map[string]*ast.FragmentDefinition{}
	for _, def := range doc.Definitions {
		if def, ok := def.(*ast.FragmentDefinition); ok {
			fragmentDefinitions[def.Name.Name] = def
		}
	}

	var ret []*Error
	for _, def := range doc.Definitions {
		def, ok := def.(*ast.OperationDefinition)
		if !ok {
			continue
		}

		variableDefinitions := map[string]*ast.VariableDefinition{}
		for _, vdef := range def.VariableDefinitions {
			name := vdef.Variable.Name.Name
			if _, ok := variableDefinitions[name]; ok {
				ret = append(ret, newError(vdef.Variable.Name, "a variable with this name already exists"))
			} else {
				variableDefinitions[name] = vdef
			}

			if t := typeInfo.VariableDefinitionTypes[vdef]; t == nil {
				ret = append(ret, newError(vdef.Type, "unknown type"))
			} else if !t.IsInputType() {
				ret = append(ret, newError(vdef.Type, "%v is not an input type", t))
			}
		}

		encounteredVariables := map[string]struct{}{}
		unvalidatedFragmentSpreads := map[string]bool{}
		validatedFragmentSpreads := map[string]bool{}

		validate := func(node ast.Node) {
			ast.Visit(node, &ast.Visitor{
				Enter: func(node ast.Node, key interface{}, parent ast.Node, path []interface{}, ancestors []ast.Node) ast.VisitResult {
					switch node := node.(type) {
					case *ast.Variable:
						if vdef, ok := variableDefinitions[node.Name.Name]; !ok {
							ret = append(ret, newError(node, "undefined variable"))
						} else if err := validateVariableUsage(vdef, node, typeInfo); err != nil {
							ret = append(ret, err)
						}
						encounteredVariables[node.Name.Name] = struct{}{}
					case *ast.VariableDefinition:
						return ast.SkipVisit()
					case *ast.FragmentSpread:
						if name := node.FragmentName.Name; !validatedFragmentSpreads[name] {
							unvalidatedFragmentSpreads[name] = true
						}
					}
					return ast.ContinueVisit()
				},
			})
		}
		validate(def)

		for len(unvalidatedFragmentSpreads) > 0 {
			for name := range unvalidatedFragmentSpreads {
				delete(unvalidatedFragmentSpreads, name)
				validatedFragmentSpreads[name] = true
				if fd, ok := fragmentDefinitions[name]; ok {
					validate(fd)
				}
			}
		}

		for _, v := range def.VariableDefinitions {
			if _, ok := encounteredVariables[v.Variable.Name.Name]; !ok {
				ret = append(ret, newError(v.Variable, "unused variable"))
			}
		}
	}
	return ret
}

func validateVariableUsage(def *ast.VariableDefinition, usage *ast.Variable, typeInfo *TypeInfo) *Error {
	variableType := typeInfo.VariableDefinitionTypes[def]
	locationType := typeInfo.ExpectedTypes[usage]

	if variableType == nil {
		return newSecondaryError(def, "no type info for variable type")
	} else if locationType == nil {
		return newSecondaryError(usage, "no type info for location type")
	}

	if nonNullLocationType, ok := locationType.(*schema.NonNullType); ok && !schema.IsNonNullType(variableType) {
		hasNonNullVariableDefaultValue := def.DefaultValue != nil && !ast.IsNullValue(def.DefaultValue)
		hasLocationDefaultValue := typeInfo.DefaultValues[usage] != nil
		if !hasNonNullVariableDefaultValue && !hasLocationDefaultValue {
			return newError(usage, "cannot use nullable variable where non-null type is expected")
		}
		locationType = nonNullLocationType.Type
	}

	if !areTypesCompatible(variableType, locationType) {
		return newError(usage, "incompatible variable type")
	}

	return nil
}

func areTypesCompatible(variableType, locationType schema.Type) bool {
	if nonNullLocationType, ok := locationType.(*schema.NonNullType); ok {
		if nonNullVariableType, ok := variableType.(*schema.NonNullType); ok {
			return areTypesCompatible(nonNullVariableType.Type, nonNullLocationType.Type)
		}
		return false
	}

	if nonNullVariableType, ok := variableType.(*schema.NonNullType); ok {
		return areTypesCompatible(nonNullVariableType.Type, locationType)
	}

	if listLocationType, ok := locationType.(*schema.ListType); ok {
		if listVariableType, ok := variableType.(*schema.ListType); ok {
			return areTypesCompatible(listVariableType.Type, listLocationType.Type)
		}
		return false
	}

	if _, ok := variableType.(*schema.ListType); ok {
		return false
	}

	return variableType.IsSameType(locationType)
}
