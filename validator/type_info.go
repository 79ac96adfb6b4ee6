package validator

import (
	"fmt"

	"github.com/kjhughes/gql/ast"
	"github.com/kjhughes/gql/schema"
	"github.com/kjhughes/gql/schema/introspection"
)

// TypeInfo precomputes the schema type associated with every selection set, variable definition,
// and value in a document, so that rules don't each have to re-derive it by walking the document
// themselves.
type TypeInfo struct {
	SelectionSetTypes       map[*ast.SelectionSet]schema.NamedType
	VariableDefinitionTypes map[*ast.VariableDefinition]schema.Type
	FieldDefinitions        map[*ast.Field]*schema.FieldDefinition
	ExpectedTypes           map[ast.Value]schema.Type
	DefaultValues           map[ast.Value]interface{}
}

func schemaType(t ast.Type, s *schema.Schema) schema.Type {
	switch t := t.(type) {
	case *ast.ListType:
		if inner := schemaType(t.Type, s); inner != nil {
			return schema.NewListType(inner)
		}
	case *ast.NonNullType:
		if inner := schemaType(t.Type, s); inner != nil {
			return schema.NewNonNullType(inner)
		}
	case *ast.NamedType:
		return s.NamedType(t.Name.Name)
	default:
		panic(fmt.Sprintf("unsupported ast type: %T", t))
	}
	return nil
}

// NewTypeInfo computes a TypeInfo for doc against s.
func NewTypeInfo(doc *ast.Document, s *schema.Schema) *TypeInfo {
	ret := &TypeInfo{
		SelectionSetTypes:       map[*ast.SelectionSet]schema.NamedType{},
		VariableDefinitionTypes: map[*ast.VariableDefinition]schema.Type{},
		FieldDefinitions:        map[*ast.Field]*schema.FieldDefinition{},
		ExpectedTypes:           map[ast.Value]schema.Type{},
		DefaultValues:           map[ast.Value]interface{}{},
	}

	var selectionSetScopes []schema.NamedType

	ast.Visit(doc, &ast.Visitor{
		Enter: func(node ast.Node, key interface{}, parent ast.Node, path []interface{}, ancestors []ast.Node) ast.VisitResult {
			var selectionSetScope schema.NamedType

			switch node := node.(type) {
			case *ast.ListValue:
				if expected, ok := ret.ExpectedTypes[node].(*schema.ListType); ok {
					for _, value := range node.Values {
						ret.ExpectedTypes[value] = expected.Type
					}
				}
			case *ast.ObjectValue:
				if expected, ok := ret.ExpectedTypes[node].(*schema.InputObjectType); ok {
					fields := expected.Fields.Get()
					for _, field := range node.Fields {
						if expectedField, ok := fields[field.Name.Name]; ok {
							ret.ExpectedTypes[field.Value] = expectedField.Type
							if expectedField.DefaultValue != nil {
								if expectedField.DefaultValue == schema.Null {
									ret.DefaultValues[field.Value] = nil
								} else {
									ret.DefaultValues[field.Value] = expectedField.DefaultValue
								}
							}
						}
					}
				}
			case *ast.Directive:
				if directive := s.DirectiveDefinition(node.Name.Name); directive != nil {
					for _, arg := range node.Arguments {
						if expected, ok := directive.Arguments[arg.Name.Name]; ok {
							ret.ExpectedTypes[arg.Value] = expected.Type
							if expected.DefaultValue != nil {
								ret.DefaultValues[arg.Value] = expected.DefaultValue
							}
						}
					}
				}
			case *ast.Field:
				var field *schema.FieldDefinition
				if len(selectionSetScopes) > 0 {
					switch parent := selectionSetScopes[len(selectionSetScopes)-1].(type) {
					case *schema.InterfaceType:
						field = parent.Fields.Get()[node.Name.Name]
					case *schema.ObjectType:
						field = parent.Fields.Get()[node.Name.Name]
						if field == nil && parent == s.QueryType() {
							field = introspection.MetaFields[node.Name.Name]
						}
					}
				}
				if field == nil {
					break
				}

				for _, arg := range node.Arguments {
					if expected, ok := field.Arguments[arg.Name.Name]; ok {
						ret.ExpectedTypes[arg.Value] = expected.Type
						if expected.DefaultValue != nil {
							ret.DefaultValues[arg.Value] = expected.DefaultValue
						}
					}
				}

				ret.FieldDefinitions[node] = field
				selectionSetScope = schema.UnwrappedType(field.Type)
			case *ast.FragmentDefinition:
				selectionSetScope = s.NamedType(node.TypeCondition.Name.Name)
			case *ast.InlineFragment:
				if node.TypeCondition == nil {
					if len(selectionSetScopes) > 0 {
						selectionSetScope = selectionSetScopes[len(selectionSetScopes)-1]
					}
				} else {
					selectionSetScope = s.NamedType(node.TypeCondition.Name.Name)
				}
			case *ast.OperationDefinition:
				var t *schema.ObjectType
				if op := node.OperationType; op == nil || op.Value == "query" {
					t = s.QueryType()
				} else if op.Value == "mutation" {
					t = s.MutationType()
				} else if op.Value == "subscription" {
					t = s.SubscriptionType()
				}
				if t != nil {
					selectionSetScope = t
				}
			case *ast.SelectionSet:
				if len(selectionSetScopes) > 0 {
					if t := selectionSetScopes[len(selectionSetScopes)-1]; t != nil {
						ret.SelectionSetTypes[node] = t
						selectionSetScope = t
					}
				}
			case *ast.VariableDefinition:
				if t := schemaType(node.Type, s); t != nil {
					ret.VariableDefinitionTypes[node] = t
					if node.DefaultValue != nil {
						ret.ExpectedTypes[node.DefaultValue] = t
					}
				}
			}

			selectionSetScopes = append(selectionSetScopes, selectionSetScope)
			return ast.ContinueVisit()
		},
		Leave: func(node ast.Node, key interface{}, parent ast.Node, path []interface{}, ancestors []ast.Node) ast.VisitResult {
			selectionSetScopes = selectionSetScopes[:len(selectionSetScopes)-1]
			return ast.ContinueVisit()
		},
	})

	return ret
}
