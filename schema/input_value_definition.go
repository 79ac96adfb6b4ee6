package schema

import "fmt"

// explicitNull is a sentinel type used to distinguish an explicit default value of null from no
// default value at all.
type explicitNull struct{}

// Null is the default value to use for InputValueDefinition.DefaultValue when the default should
// be an explicit null, as opposed to no default at all (the Go nil).
var Null = (*explicitNull)(nil)

// InputValueDefinition describes an input field or argument: its type, optional default, and
// directives.
type InputValueDefinition struct {
	Description string
	Type        Type
	DefaultValue interface{}
	Directives  []*Directive
}

func (d *InputValueDefinition) shallowValidate() error {
	if d.Type == nil {
		return fmt.Errorf("input values must have a type")
	} else if !d.Type.IsInputType() {
		return fmt.Errorf("input values must have an input type")
	}
	return nil
}
