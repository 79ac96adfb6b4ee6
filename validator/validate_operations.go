package validator

import (
	"github.com/kjhughes/gql/ast"
	"github.com/kjhughes/gql/schema"
)

// validateOperations implements LoneAnonymousOperation, UniqueOperationNames, and
// SingleRootFieldForSubscriptions.
func validateOperations(doc *ast.Document, s *schema.Schema, typeInfo *TypeInfo) []*Error {
	var errs []*Error

	var anonymous []*ast.OperationDefinition
	named := map[string][]*ast.OperationDefinition{}
	var operations []*ast.OperationDefinition

	for _, def := range doc.Definitions {
		op, ok := def.(*ast.OperationDefinition)
		if !ok {
			continue
		}
		operations = append(operations, op)
		if op.Name == nil {
			anonymous = append(anonymous, op)
		} else {
			named[op.Name.Name] = append(named[op.Name.Name], op)
		}
	}

	if len(anonymous) > 0 && (len(anonymous) > 1 || len(named) > 0) {
		for _, op := range anonymous {
			errs = append(errs, newError(op, "this anonymous operation must be the only defined operation"))
		}
	}

	for name, ops := range named {
		if len(ops) > 1 {
			for _, op := range ops {
				errs = append(errs, newError(op, "the operation name %q must be unique", name))
			}
		}
	}

	for _, op := range operations {
		if op.OperationType == nil || op.OperationType.Value != "subscription" {
			continue
		}

		var fields []*ast.Field
		addFieldSelections(doc, op.SelectionSet, &fields, map[string]bool{})
		if len(fields) > 1 {
			errs = append(errs, newError(op, "subscriptions must select only one top level field"))
		}
		for _, field := range fields {
			if field.Name.Name == "__typename" {
				errs = append(errs, newError(field, "subscriptions may not select the __typename meta-field"))
			}
		}
	}

	return errs
}

// addFieldSelections appends every Field reachable from ss to fields, transparently expanding
// fragment spreads and inline fragments, without regard to type conditions or @skip/@include.
// visitedFragments guards against infinite recursion on cyclic fragment spreads (a separate rule
// reports those as an error).
func addFieldSelections(doc *ast.Document, ss *ast.SelectionSet, fields *[]*ast.Field, visitedFragments map[string]bool) {
	if ss == nil {
		return
	}
	for _, sel := range ss.Selections {
		switch sel := sel.(type) {
		case *ast.Field:
			*fields = append(*fields, sel)
		case *ast.InlineFragment:
			addFieldSelections(doc, sel.SelectionSet, fields, visitedFragments)
		case *ast.FragmentSpread:
			name := sel.FragmentName.Name
			if visitedFragments[name] {
				continue
			}
			visitedFragments[name] = true
			if frag := findFragment(doc, name); frag != nil {
				addFieldSelections(doc, frag.SelectionSet, fields, visitedFragments)
			}
		}
	}
}

func findFragment(doc *ast.Document, name string) *ast.FragmentDefinition {
	for _, def := range doc.Definitions {
		if frag, ok := def.(*ast.FragmentDefinition); ok && frag.Name.Name == name {
			return frag
		}
	}
	return nil
}
