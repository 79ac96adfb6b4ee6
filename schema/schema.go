package schema

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kjhughes/gql/ast"
)

// Type is implemented by every type in a schema's type system: scalars, object types, interfaces,
// unions, enums, input objects, and the list/non-null wrapper types.
type Type interface {
	String() string
	IsInputType() bool
	IsOutputType() bool
	IsSubTypeOf(Type) bool
	IsSameType(Type) bool
}

// NamedType is implemented by every type that has a name of its own, i.e. everything except list
// and non-null types.
type NamedType interface {
	Type
	TypeName() string
}

// WrappedType is implemented by list and non-null types, which modify another type rather than
// standing alone.
type WrappedType interface {
	Type
	Unwrap() Type
}

// UnwrappedType strips every list/non-null wrapper from t, returning the underlying named type.
func UnwrappedType(t Type) NamedType {
	for {
		if wrapped, ok := t.(WrappedType); ok {
			t = wrapped.Unwrap()
		} else {
			break
		}
	}
	if t == nil {
		return nil
	}
	return t.(NamedType)
}

// CoerceVariableValue coerces a decoded JSON-like value (as produced by gqlmap.ToInterface) into
// t's internal representation.
func CoerceVariableValue(value interface{}, t Type) (interface{}, error) {
	return coerceVariableValue(value, t, true)
}

func coerceVariableValue(value interface{}, t Type, allowItemToListCoercion bool) (interface{}, error) {
	if value == nil {
		if IsNonNullType(t) {
			return nil, fmt.Errorf("a value is required")
		}
		return nil, nil
	}
	switch t := t.(type) {
	case *ScalarType:
		return t.CoerceVariableValue(value)
	case *EnumType:
		return t.CoerceVariableValue(value)
	case *InputObjectType:
		return t.CoerceVariableValue(value)
	case *ListType:
		return t.coerceVariableValue(value, allowItemToListCoercion)
	case *NonNullType:
		return CoerceVariableValue(value, t.Type)
	default:
		panic(fmt.Sprintf("unexpected variable coercion type: %T", t))
	}
}

// CoerceLiteral coerces an AST literal into to's internal representation, substituting values for
// any variables it references.
func CoerceLiteral(from ast.Value, to Type, variableValues map[string]interface{}) (interface{}, error) {
	return coerceLiteral(from, to, variableValues, true)
}

func coerceLiteral(from ast.Value, to Type, variableValues map[string]interface{}, allowItemToListCoercion bool) (interface{}, error) {
	if ast.IsNullValue(from) {
		if IsNonNullType(to) {
			return nil, fmt.Errorf("cannot coerce null to non-null type")
		}
		return nil, nil
	} else if variable, ok := from.(*ast.Variable); ok {
		if value, ok := variableValues[variable.Name.Name]; ok {
			return value, nil
		}
	}
	switch to := to.(type) {
	case *ScalarType:
		if v := to.LiteralCoercion(from); v != nil {
			return v, nil
		}
		return nil, fmt.Errorf("cannot coerce to %v", to)
	case *ListType:
		return to.coerceLiteral(from, variableValues, allowItemToListCoercion)
	case *InputObjectType:
		if v, ok := from.(*ast.ObjectValue); ok {
			return to.CoerceLiteral(v, variableValues)
		}
		return nil, fmt.Errorf("cannot coerce to %v", to)
	case *EnumType:
		return to.CoerceLiteral(from)
	case *NonNullType:
		return CoerceLiteral(from, to.Type, variableValues)
	}
	panic(fmt.Sprintf("unsupported literal coercion type: %T", to))
}

// Definition assembles the pieces of a Schema: the root operation types, any additional
// directives, and any types that wouldn't otherwise be reachable by walking the root types (e.g. an
// object type that's only ever returned as a concrete implementation of an interface no field
// declares).
type Definition struct {
	Query        *ObjectType
	Mutation     *ObjectType
	Subscription *ObjectType

	// DirectiveDefinitions registers custom directives (beyond the built-in @skip and @include) by
	// name, e.g. an @auth directive used to gate field collection on viewer permissions.
	DirectiveDefinitions map[string]*DirectiveDefinition

	AdditionalTypes []NamedType
}

// Schema is a validated, ready-to-execute GraphQL schema.
type Schema struct {
	directiveDefinitions     map[string]*DirectiveDefinition
	namedTypes                map[string]NamedType
	interfaceImplementations map[string][]*ObjectType

	query        *ObjectType
	mutation     *ObjectType
	subscription *ObjectType
}

func (s *Schema) QueryType() *ObjectType        { return s.query }
func (s *Schema) MutationType() *ObjectType     { return s.mutation }
func (s *Schema) SubscriptionType() *ObjectType { return s.subscription }

// DirectiveDefinition looks up a directive definition by name, including @skip and @include.
func (s *Schema) DirectiveDefinition(name string) *DirectiveDefinition {
	return s.directiveDefinitions[name]
}

// Directives returns every directive definition known to the schema.
func (s *Schema) Directives() map[string]*DirectiveDefinition {
	return s.directiveDefinitions
}

// NamedType looks up a named type by name.
func (s *Schema) NamedType(name string) NamedType {
	return s.namedTypes[name]
}

// NamedTypes returns every named type known to the schema.
func (s *Schema) NamedTypes() map[string]NamedType {
	return s.namedTypes
}

// InterfaceImplementations returns the object types that implement the named interface.
func (s *Schema) InterfaceImplementations(name string) []*ObjectType {
	return s.interfaceImplementations[name]
}

var nameRegex = regexp.MustCompile(`^[_A-Za-z][_0-9A-Za-z]*$`)

func isName(s string) bool {
	return nameRegex.MatchString(s)
}

// New validates def and builds a Schema from it.
func New(def *Definition) (*Schema, error) {
	if def.Query == nil {
		return nil, fmt.Errorf("schemas must define the query operation")
	}

	directiveDefinitions := map[string]*DirectiveDefinition{}
	for name, d := range builtInDirectives {
		directiveDefinitions[name] = d
	}
	for name, d := range def.DirectiveDefinitions {
		if !isName(name) || strings.HasPrefix(name, "__") {
			return nil, fmt.Errorf("illegal directive name: %v", name)
		}
		directiveDefinitions[name] = d
	}

	s := &Schema{
		directiveDefinitions:      directiveDefinitions,
		namedTypes:                map[string]NamedType{},
		interfaceImplementations:  map[string][]*ObjectType{},
		query:                     def.Query,
		mutation:                  def.Mutation,
		subscription:              def.Subscription,
	}

	var err error
	inspectRoot := &inspectionRoot{
		query:           def.Query,
		mutation:        def.Mutation,
		subscription:    def.Subscription,
		additionalTypes: def.AdditionalTypes,
	}
	Inspect(inspectRoot, func(node interface{}) bool {
		if err != nil {
			return false
		}

		if namedType, ok := node.(NamedType); ok {
			name := namedType.TypeName()
			if !isName(name) || strings.HasPrefix(name, "__") {
				err = fmt.Errorf("illegal type name: %v", name)
				return false
			}
			if existing, ok := s.namedTypes[name]; ok {
				if existing != namedType {
					err = fmt.Errorf("multiple definitions for named type: %v", name)
				}
				return false
			}
			if builtin, ok := BuiltInTypes[name]; ok && namedType != builtin {
				err = fmt.Errorf("%v is a built-in type and may not be redefined", name)
				return false
			}
			s.namedTypes[name] = namedType
		}

		if obj, ok := node.(*ObjectType); ok {
			for _, iface := range obj.ImplementedInterfaces {
				s.interfaceImplementations[iface.Name] = append(s.interfaceImplementations[iface.Name], obj)
			}
		}

		if n, ok := node.(interface{ shallowValidate() error }); ok {
			if verr := n.shallowValidate(); verr != nil {
				err = verr
				return false
			}
		}

		return true
	})

	if err != nil {
		return nil, err
	}
	return s, nil
}
