package schema

import (
	"context"
	"fmt"
	"strings"
)

// ObjectType represents a concrete type with a set of fields, such as a User or a Post.
type ObjectType struct {
	Name                  string
	Description           string
	ImplementedInterfaces []*InterfaceType
	Directives            []*Directive

	// Fields is a thunk so that object types can reference each other (and interfaces, and
	// unions) cyclically. Use Fields/FieldsThunk to build one.
	Fields *Thunk[map[string]*FieldDefinition]

	// IsTypeOf reports whether a resolved value is an instance of this type. It's required for
	// types that implement an interface or belong to a union, so the executor can tell which
	// concrete type a polymorphic result actually is.
	IsTypeOf func(interface{}) bool

	// IsVisible, if given, hides the type from introspection unless it returns true.
	IsVisible func(context.Context) bool
}

func (t *ObjectType) String() string {
	return t.Name
}

func (t *ObjectType) IsInputType() bool {
	return false
}

func (t *ObjectType) IsOutputType() bool {
	return true
}

func (t *ObjectType) IsSubTypeOf(other Type) bool {
	if t.IsSameType(other) {
		return true
	}
	if iface, ok := other.(*InterfaceType); ok {
		return t.Implements(iface)
	}
	if union, ok := other.(*UnionType); ok {
		for _, member := range union.MemberTypes {
			if member.IsSameType(t) {
				return true
			}
		}
	}
	return false
}

func (t *ObjectType) IsSameType(other Type) bool {
	return t == other
}

func (t *ObjectType) TypeName() string {
	return t.Name
}

func (t *ObjectType) IsTypeVisible(ctx context.Context) bool {
	if t.IsVisible == nil {
		return true
	}
	return t.IsVisible(ctx)
}

// Implements returns true if t declares that it implements iface.
func (t *ObjectType) Implements(iface *InterfaceType) bool {
	for _, i := range t.ImplementedInterfaces {
		if i.IsSameType(iface) {
			return true
		}
	}
	return false
}

func (t *ObjectType) shallowValidate() error {
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
	for _, iface := range t.ImplementedInterfaces {
		for name, ifaceField := range iface.Fields.Get() {
			field, ok := fields[name]
			if !ok {
				return fmt.Errorf("%v must implement the %v field required by %v", t.Name, name, iface.Name)
			} else if !field.Type.IsSubTypeOf(ifaceField.Type) {
				return fmt.Errorf("%v.%v is not a sub-type of %v.%v", t.Name, name, iface.Name, name)
			}
		}
	}
	return nil
}

// IsObjectType returns true if t is an object type.
func IsObjectType(t Type) bool {
	_, ok := t.(*ObjectType)
	return ok
}
