package schema

import (
	"context"
	"fmt"
)

// UnionType represents a type that resolves to one of a fixed set of object types.
type UnionType struct {
	Name        string
	Description string
	Directives  []*Directive
	MemberTypes []*ObjectType

	// IsVisible, if given, hides the type from introspection unless it returns true.
	IsVisible func(context.Context) bool
}

func (t *UnionType) String() string {
	return t.Name
}

func (t *UnionType) IsInputType() bool {
	return false
}

func (t *UnionType) IsOutputType() bool {
	return true
}

func (t *UnionType) IsSubTypeOf(other Type) bool {
	return t.IsSameType(other)
}

func (t *UnionType) IsSameType(other Type) bool {
	return t == other
}

func (t *UnionType) TypeName() string {
	return t.Name
}

func (t *UnionType) IsTypeVisible(ctx context.Context) bool {
	if t.IsVisible == nil {
		return true
	}
	return t.IsVisible(ctx)
}

func (t *UnionType) shallowValidate() error {
	if len(t.MemberTypes) == 0 {
		return fmt.Errorf("%v must have at least one member type", t.Name)
	}
	for _, member := range t.MemberTypes {
		if member.IsTypeOf == nil {
			return fmt.Errorf("%v must define IsTypeOf to be used as a member of %v", member.Name, t.Name)
		}
	}
	return nil
}

// IsUnionType returns true if t is a union type.
func IsUnionType(t Type) bool {
	_, ok := t.(*UnionType)
	return ok
}
