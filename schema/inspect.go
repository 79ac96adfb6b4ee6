package schema

import (
	"fmt"
	"reflect"
)

// inspectionRoot bundles a schema's roots and stray types into a single node so Inspect has one
// entry point to walk from.
type inspectionRoot struct {
	query           *ObjectType
	mutation        *ObjectType
	subscription    *ObjectType
	additionalTypes []NamedType
}

// Inspect traverses the types reachable from node, invoking f for each one. If f returns true,
// Inspect recursively inspects the types referenced by that node; schemas are usually cyclic, so f
// must return false for types it's already seen in order for Inspect to terminate.
func Inspect(node interface{}, f func(interface{}) bool) {
	if node == nil || reflect.ValueOf(node).IsNil() || !f(node) {
		return
	}

	switch n := node.(type) {
	case *inspectionRoot:
		Inspect(n.query, f)
		Inspect(n.mutation, f)
		Inspect(n.subscription, f)
		for _, t := range n.additionalTypes {
			Inspect(t, f)
		}
	case *ObjectType:
		for _, field := range n.Fields.Get() {
			Inspect(field, f)
		}
		for _, iface := range n.ImplementedInterfaces {
			Inspect(iface, f)
		}
		for _, d := range n.Directives {
			Inspect(d, f)
		}
	case *InterfaceType:
		for _, field := range n.Fields.Get() {
			Inspect(field, f)
		}
		for _, d := range n.Directives {
			Inspect(d, f)
		}
	case *UnionType:
		for _, member := range n.MemberTypes {
			Inspect(member, f)
		}
		for _, d := range n.Directives {
			Inspect(d, f)
		}
	case *InputObjectType:
		for _, field := range n.Fields.Get() {
			Inspect(field, f)
		}
		for _, d := range n.Directives {
			Inspect(d, f)
		}
	case *FieldDefinition:
		Inspect(n.Type, f)
		for _, arg := range n.Arguments {
			Inspect(arg, f)
		}
		for _, d := range n.Directives {
			Inspect(d, f)
		}
	case *InputValueDefinition:
		Inspect(n.Type, f)
		for _, d := range n.Directives {
			Inspect(d, f)
		}
	case *Directive:
		Inspect(n.Definition, f)
	case *DirectiveDefinition:
		for _, arg := range n.Arguments {
			Inspect(arg, f)
		}
	case *ListType:
		Inspect(n.Type, f)
	case *NonNullType:
		Inspect(n.Type, f)
	case *EnumType:
		for _, d := range n.Directives {
			Inspect(d, f)
		}
	case *ScalarType:
		for _, d := range n.Directives {
			Inspect(d, f)
		}
	default:
		panic(fmt.Sprintf("schema: unexpected node type in Inspect: %T", n))
	}

	f(nil)
}
