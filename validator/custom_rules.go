package validator

import (
	"github.com/kjhughes/gql/ast"
	"github.com/kjhughes/gql/schema"
)

// NoSchemaIntrospectionCustomRule is an optional rule, not part of the required set, that
// rejects any use of the __schema or __type introspection meta-fields. Servers that don't want
// to expose their schema (e.g. in production) can pass this to ValidateDocument alongside the
// required rules.
func NoSchemaIntrospectionCustomRule(doc *ast.Document, s *schema.Schema, typeInfo *TypeInfo) []*Error {
	var ret []*Error
	ast.Visit(doc, &ast.Visitor{
		Enter: func(node ast.Node, key interface{}, parent ast.Node, path []interface{}, ancestors []ast.Node) ast.VisitResult {
			if field, ok := node.(*ast.Field); ok {
				switch field.Name.Name {
				case "__schema", "__type":
					ret = append(ret, newError(field.Name, "schema introspection is not allowed"))
				}
			}
			return ast.ContinueVisit()
		},
	})
	return ret
}

// NoDeprecatedCustomRule is an optional rule, not part of the required set, that rejects any use
// of a deprecated field or a deprecated enum value.
func NoDeprecatedCustomRule(doc *ast.Document, s *schema.Schema, typeInfo *TypeInfo) []*Error {
	var ret []*Error
	ast.Visit(doc, &ast.Visitor{
		Enter: func(node ast.Node, key interface{}, parent ast.Node, path []interface{}, ancestors []ast.Node) ast.VisitResult {
			switch node := node.(type) {
			case *ast.Field:
				if def := typeInfo.FieldDefinitions[node]; def != nil && def.DeprecationReason != "" {
					ret = append(ret, newError(node.Name, "%v is deprecated: %v", node.Name.Name, def.DeprecationReason))
				}
			case *ast.EnumValue:
				if enumType, ok := schema.UnwrappedType(typeInfo.ExpectedTypes[node]).(*schema.EnumType); ok {
					if def := enumType.Values[node.Value]; def != nil && def.DeprecationReason != "" {
						ret = append(ret, newError(node, "%v is deprecated: %v", node.Value, def.DeprecationReason))
					}
				}
			}
			return ast.ContinueVisit()
		},
	})
	return ret
}
