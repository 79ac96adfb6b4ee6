// Package validator implements the GraphQL validation rules applied to a document before it's
// executed against a schema.
package validator

import (
	"github.com/kjhughes/gql/ast"
	"github.com/kjhughes/gql/schema"
)

// Rule is a single validation pass over a document. The built-in rules always run; extra rules
// (e.g. a query cost limit) can be passed to ValidateDocument for callers that want them.
type Rule func(doc *ast.Document, s *schema.Schema, typeInfo *TypeInfo) []*Error

// ValidateDocument runs every built-in validation rule, plus any extra rules passed in, against
// doc. If any rule reports a primary (non-secondary) error, all secondary errors are discarded,
// since they're expected to be artifacts of the primary failure.
func ValidateDocument(doc *ast.Document, s *schema.Schema, extraRules ...Rule) []*Error {
	typeInfo := NewTypeInfo(doc, s)

	rules := []Rule{
		validateDocument,
		validateOperations,
		validateFields,
		validateArguments,
		validateFragments,
		validateValues,
		validateVariables,
		validateDirectives,
	}
	rules = append(rules, extraRules...)

	var errs []*Error
	for _, rule := range rules {
		errs = append(errs, rule(doc, s, typeInfo)...)
	}

	hasPrimary := false
	for _, err := range errs {
		if !err.isSecondary {
			hasPrimary = true
			break
		}
	}
	if !hasPrimary {
		return errs
	}

	var primary []*Error
	for _, err := range errs {
		if !err.isSecondary {
			primary = append(primary, err)
		}
	}
	return primary
}
