package validator

import (
	"github.com/kjhughes/gql/ast"
	"github.com/kjhughes/gql/schema"
)

// validateDirectives implements KnownDirectives and UniqueDirectivesPerLocation.
func validateDirectives(doc *ast.Document, s *schema.Schema, typeInfo *TypeInfo) []*Error {
	var ret []*Error
	ast.Visit(doc, &ast.Visitor{
		Enter: func(node ast.Node, key interface{}, parent ast.Node, path []interface{}, ancestors []ast.Node) ast.VisitResult {
			var directives []*ast.Directive
			var location schema.DirectiveLocation

			switch node := node.(type) {
			case *ast.OperationDefinition:
				directives = node.Directives
				if op := node.OperationType; op == nil || op.Value == "query" {
					location = schema.DirectiveLocationQuery
				} else if op.Value == "mutation" {
					location = schema.DirectiveLocationMutation
				} else if op.Value == "subscription" {
					location = schema.DirectiveLocationSubscription
				}
			case *ast.FragmentDefinition:
				directives = node.Directives
				location = schema.DirectiveLocationFragmentDefinition
			case *ast.Field:
				directives = node.Directives
				location = schema.DirectiveLocationField
			case *ast.FragmentSpread:
				directives = node.Directives
				location = schema.DirectiveLocationFragmentSpread
			case *ast.InlineFragment:
				directives = node.Directives
				location = schema.DirectiveLocationInlineFragment
			case *ast.Directive:
				ret = append(ret, newError(node, "unsupported directive location"))
				return ast.ContinueVisit()
			default:
				return ast.ContinueVisit()
			}

			if len(directives) == 0 {
				return ast.ContinueVisit()
			}

			directiveNames := map[string]struct{}{}
			for _, directive := range directives {
				name := directive.Name.Name

				if def := s.DirectiveDefinition(name); def == nil {
					ret = append(ret, newError(directive, "undefined directive"))
				} else {
					allowedLocation := false
					for _, allowed := range def.Locations {
						if allowed == location {
							allowedLocation = true
							break
						}
					}
					if !allowedLocation {
						ret = append(ret, newError(directive, "this directive is not allowed at this location"))
					}
				}

				if _, ok := directiveNames[name]; ok {
					ret = append(ret, newError(directive, "directive already exists at this location"))
				} else {
					directiveNames[name] = struct{}{}
				}
			}
			return ast.ContinueVisit()
		},
	})
	return ret
}
