package schema

import (
	"context"
	"fmt"
	"strings"
)

// InterfaceType represents a set of fields that implementing object types are guaranteed to have.
type InterfaceType struct {
	Name        string
	Description string
	Directives  []*Directive

	// Fields is a thunk so that interfaces can reference object types (and vice versa) without
	// requiring an impossible initialization order. Use Fields/FieldsThunk to build one.
	Fields *Thunk[map[string]*FieldDefinition]

	// IsVisible, if given, hides the type from introspection unless it returns true.
	IsVisible func(context.Context) bool
}

func (t *InterfaceType) String() string {
	return t.Name
}

func (t *InterfaceType) IsInputType() bool {
	return false
}

func (t *InterfaceType) IsOutputType() bool {
	return true
}

func (t *InterfaceType) IsSubTypeOf(other Type) bool {
	return t.IsSameType(other)
}

func (t *InterfaceType) IsSameType(other Type) bool {
	return t == other
}

func (t *InterfaceType) TypeName() string {
	return t.Name
}

func (t *InterfaceType) IsTypeVisible(ctx context.Context) bool {
	if t.IsVisible == nil {
		return true
	}
	return t.IsVisible(ctx)
}

func (t *InterfaceType) shallowValidate() error {
	fields := t.Fields.Get()
	if len(fields) == 0 {
		return fmt.Errorf("%v must have at least one field", t.Name)
	}
	for name, field := range fields {
		if !isName(name) || strings.HasPrefix(name, "__") {
			return fmt.Errorf("illegal field name: %v", name)
		} else if !field.Type.IsOutputType() {
			return fmt.Errorf("%v field must be an output type", name)
		}
	}
	return nil
}

// IsInterfaceType returns true if t is an interface type.
func IsInterfaceType(t Type) bool {
	_, ok := t.(*InterfaceType)
	return ok
}
