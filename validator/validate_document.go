package validator

import (
	"github.com/kjhughes/gql/ast"
	"github.com/kjhughes/gql/schema"
)

// validateDocument implements the ExecutableDefinitions rule: every top-level definition must be
// an operation or a fragment (the parser can't produce anything else, but a hand-built document
// could).
func validateDocument(doc *ast.Document, s *schema.Schema, typeInfo *TypeInfo) []*Error {
	var errs []*Error
	for _, def := range doc.Definitions {
		switch def.(type) {
		case *ast.OperationDefinition, *ast.FragmentDefinition:
		default:
			errs = append(errs, newError(def, "definitions must be operations or fragments"))
		}
	}
	return errs
}
