package schema

import "fmt"

// DirectiveLocation identifies a place in a GraphQL document (or schema) where a directive may
// appear.
type DirectiveLocation string

const (
	DirectiveLocationQuery              DirectiveLocation = "QUERY"
	DirectiveLocationMutation           DirectiveLocation = "MUTATION"
	DirectiveLocationSubscription       DirectiveLocation = "SUBSCRIPTION"
	DirectiveLocationField              DirectiveLocation = "FIELD"
	DirectiveLocationFragmentDefinition DirectiveLocation = "FRAGMENT_DEFINITION"
	DirectiveLocationFragmentSpread     DirectiveLocation = "FRAGMENT_SPREAD"
	DirectiveLocationInlineFragment     DirectiveLocation = "INLINE_FRAGMENT"

	DirectiveLocationSchema              DirectiveLocation = "SCHEMA"
	DirectiveLocationScalar              DirectiveLocation = "SCALAR"
	DirectiveLocationObject              DirectiveLocation = "OBJECT"
	DirectiveLocationFieldDefinition     DirectiveLocation = "FIELD_DEFINITION"
	DirectiveLocationArgumentDefinition  DirectiveLocation = "ARGUMENT_DEFINITION"
	DirectiveLocationInterface           DirectiveLocation = "INTERFACE"
	DirectiveLocationUnion               DirectiveLocation = "UNION"
	DirectiveLocationEnum                DirectiveLocation = "ENUM"
	DirectiveLocationEnumValue           DirectiveLocation = "ENUM_VALUE"
	DirectiveLocationInputObject         DirectiveLocation = "INPUT_OBJECT"
	DirectiveLocationInputFieldDefinition DirectiveLocation = "INPUT_FIELD_DEFINITION"
)

// DirectiveDefinition describes a directive that may be used in a document, such as @skip or
// @include.
type DirectiveDefinition struct {
	Description string
	Arguments   map[string]*InputValueDefinition
	Locations   []DirectiveLocation

	// FieldCollectionFilter, if given, is consulted during field collection for directives that
	// appear on fields, fragment spreads, or inline fragments. If it returns false, the
	// associated selection is skipped entirely.
	FieldCollectionFilter func(arguments map[string]interface{}) bool
}

func (d *DirectiveDefinition) shallowValidate() error {
	for name := range d.Arguments {
		if !isName(name) {
			return fmt.Errorf("illegal argument name: %v", name)
		}
	}
	if len(d.Locations) == 0 {
		return fmt.Errorf("directives must have at least one location")
	}
	return nil
}

// Directive is a directive usage: its definition plus coerced argument values.
type Directive struct {
	Definition *DirectiveDefinition
	Arguments  map[string]interface{}
}
