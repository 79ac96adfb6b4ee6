package schema

import (
	"context"
	"fmt"
)

// FieldContext is passed to a field's Resolve function.
type FieldContext struct {
	Context   context.Context
	Schema    *Schema
	Object    interface{}
	Arguments map[string]interface{}

	// IsSubscribe is true when Resolve is being invoked to create a subscription's event stream,
	// rather than to resolve the field's value for a particular event. When true, Resolve is
	// expected to return a channel of raw event values (typically a <-chan interface{}
	// wrapped as interface{}) rather than the field's usual result type.
	IsSubscribe bool
}

// FieldCostContext is passed to a field's Cost function.
type FieldCostContext struct {
	Context   context.Context
	Arguments map[string]interface{}
}

// FieldCost describes the estimated cost of resolving a field, used to reject overly expensive
// queries before execution.
type FieldCost struct {
	// Context, if non-nil, replaces the context passed to this field's sub-selections for the
	// remainder of cost calculation.
	Context context.Context

	// Resolver is the cost of the field's resolver, separate from the cost of its children.
	Resolver int

	// Multiplier scales the cost of the field's children, for fields that return lists whose
	// length is known ahead of resolution (e.g. a "first" or "limit" argument). Zero behaves the
	// same as 1; no scaling is applied.
	Multiplier int
}

// FieldResolverCost returns a Cost function that reports a fixed resolver cost of n, with no
// child multiplier.
func FieldResolverCost(n int) func(FieldCostContext) FieldCost {
	return func(FieldCostContext) FieldCost {
		return FieldCost{Resolver: n}
	}
}

// FieldDefinition describes a single field of an object or interface type.
type FieldDefinition struct {
	Description       string
	Arguments         map[string]*InputValueDefinition
	Type              Type
	Directives        []*Directive
	DeprecationReason string

	// Cost, if given, estimates the field's execution cost for the purposes of query cost
	// analysis. If nil, the defaultCost passed to ValidateCost is used.
	Cost func(FieldCostContext) FieldCost

	// Resolve computes the field's value. See FieldContext.IsSubscribe for its dual role in
	// subscription root fields.
	Resolve func(FieldContext) (interface{}, error)
}

func (d *FieldDefinition) shallowValidate() error {
	if d.Type == nil {
		return fmt.Errorf("fields must have a type")
	} else if !d.Type.IsOutputType() {
		return fmt.Errorf("fields must have an output type")
	} else if d.Resolve == nil {
		return fmt.Errorf("fields must have a resolver")
	}
	for name := range d.Arguments {
		if !isName(name) {
			return fmt.Errorf("illegal argument name: %v", name)
		}
	}
	return nil
}
