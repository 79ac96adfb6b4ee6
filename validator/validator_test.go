package validator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kjhughes/gql/parser"
	"github.com/kjhughes/gql/schema"
	"github.com/kjhughes/gql/source"
)

var petType = &schema.InterfaceType{
	Name: "Pet",
}

var dogType = &schema.ObjectType{
	Name:                  "Dog",
	ImplementedInterfaces: []*schema.InterfaceType{petType},
	IsTypeOf:              func(interface{}) bool { return false },
}

var catType = &schema.ObjectType{
	Name:                  "Cat",
	ImplementedInterfaces: []*schema.InterfaceType{petType},
	IsTypeOf:              func(interface{}) bool { return false },
}

var petOrDogType = &schema.UnionType{
	Name:        "CatOrDog",
	MemberTypes: []*schema.ObjectType{dogType, catType},
}

var queryType = &schema.ObjectType{Name: "Query"}

type costContextKeyType int

var costContextKey costContextKeyType

func init() {
	petType.Fields = schema.Fields(map[string]*schema.FieldDefinition{
		"nickname": {Type: schema.StringType, Resolve: notImplemented},
	})
	dogType.Fields = schema.Fields(map[string]*schema.FieldDefinition{
		"nickname":   {Type: schema.StringType, Resolve: notImplemented},
		"barkVolume": {Type: schema.IntType, Resolve: notImplemented},
	})
	catType.Fields = schema.Fields(map[string]*schema.FieldDefinition{
		"nickname":   {Type: schema.StringType, Resolve: notImplemented},
		"meowVolume": {Type: schema.IntType, Resolve: notImplemented},
	})
	queryType.Fields = schema.Fields(map[string]*schema.FieldDefinition{
		"dog": {Type: dogType, Resolve: notImplemented},
		"pet": {Type: petType, Resolve: notImplemented},
		"catOrDog": {Type: petOrDogType, Resolve: notImplemented},
		"intArgField": {
			Type: schema.IntType,
			Arguments: map[string]*schema.InputValueDefinition{
				"intArg": {Type: schema.IntType},
			},
			Resolve: notImplemented,
		},
		"nonNullIntArgField": {
			Type: schema.IntType,
			Arguments: map[string]*schema.InputValueDefinition{
				"intArg": {Type: schema.NewNonNullType(schema.IntType)},
			},
			Resolve: notImplemented,
		},
		"costFromArg": {
			Type: schema.IntType,
			Arguments: map[string]*schema.InputValueDefinition{
				"cost": {Type: schema.IntType, DefaultValue: 10},
			},
			Cost: func(ctx schema.FieldCostContext) schema.FieldCost {
				cost, _ := ctx.Arguments["cost"].(int)
				return schema.FieldCost{Resolver: cost}
			},
			Resolve: notImplemented,
		},
		"objectWithCostContext": {
			Type: queryType,
			Arguments: map[string]*schema.InputValueDefinition{
				"cost": {Type: schema.IntType},
			},
			Cost: func(ctx schema.FieldCostContext) schema.FieldCost {
				cost, _ := ctx.Arguments["cost"].(int)
				return schema.FieldCost{Context: context.WithValue(ctx.Context, costContextKey, cost)}
			},
			Resolve: notImplemented,
		},
		"costFromContext": {
			Type: schema.IntType,
			Cost: func(ctx schema.FieldCostContext) schema.FieldCost {
				return schema.FieldCost{Resolver: ctx.Context.Value(costContextKey).(int)}
			},
			Resolve: notImplemented,
		},
	})
}

func notImplemented(schema.FieldContext) (interface{}, error) {
	panic("not implemented")
}

func testSchema(t *testing.T) *schema.Schema {
	s, err := schema.New(&schema.Definition{
		Query: queryType,
	})
	require.NoError(t, err)
	return s
}

func validateSource(t *testing.T, src string) []*Error {
	doc, errs := parser.ParseDocument(source.New("test", src))
	require.Empty(t, errs)
	require.NotNil(t, doc)

	validationErrs := ValidateDocument(doc, testSchema(t))
	for _, err := range validationErrs {
		assert.NotEmpty(t, err.Message)
		assert.False(t, err.isSecondary)
	}
	return validationErrs
}

func TestValidDocument(t *testing.T) {
	assert.Empty(t, validateSource(t, `{
		dog { nickname barkVolume }
		pet { nickname }
		catOrDog { ... on Dog { barkVolume } ... on Cat { meowVolume } }
	}`))
}

func TestFieldsOnCorrectType(t *testing.T) {
	assert.NotEmpty(t, validateSource(t, `{ dog { nonexistentField } }`))
}

func TestScalarLeafs(t *testing.T) {
	assert.NotEmpty(t, validateSource(t, `{ dog }`))
	assert.NotEmpty(t, validateSource(t, `{ dog { barkVolume { x } } }`))
}

func TestUnusedFragment(t *testing.T) {
	assert.NotEmpty(t, validateSource(t, `
		fragment unused on Dog { barkVolume }
		{ dog { barkVolume } }
	`))
}

func TestFragmentCycle(t *testing.T) {
	assert.NotEmpty(t, validateSource(t, `
		fragment a on Dog { ...b }
		fragment b on Dog { ...a }
		{ dog { ...a } }
	`))
}

func TestImpossibleFragmentSpread(t *testing.T) {
	assert.NotEmpty(t, validateSource(t, `{ dog { ... on Cat { meowVolume } } }`))
}

func TestUndefinedVariable(t *testing.T) {
	assert.NotEmpty(t, validateSource(t, `{ intArgField(intArg: $x) }`))
}

func TestUnusedVariable(t *testing.T) {
	assert.NotEmpty(t, validateSource(t, `query($x: Int) { intArgField(intArg: 1) }`))
}

func TestVariablesInAllowedPosition(t *testing.T) {
	assert.Empty(t, validateSource(t, `query($x: Int!) { intArgField(intArg: $x) }`))
	assert.NotEmpty(t, validateSource(t, `query($x: String) { intArgField(intArg: $x) }`))
}

func TestProvidedRequiredArguments(t *testing.T) {
	assert.NotEmpty(t, validateSource(t, `{ nonNullIntArgField }`))
	assert.Empty(t, validateSource(t, `{ nonNullIntArgField(intArg: 1) }`))
}

func TestUniqueArgumentNames(t *testing.T) {
	assert.NotEmpty(t, validateSource(t, `{ intArgField(intArg: 1, intArg: 2) }`))
}

func TestKnownDirectives(t *testing.T) {
	assert.NotEmpty(t, validateSource(t, `{ dog @nonexistent { barkVolume } }`))
}

func TestValuesOfCorrectType(t *testing.T) {
	assert.NotEmpty(t, validateSource(t, `{ intArgField(intArg: "not an int") }`))
}

func TestOverlappingFieldsCanBeMerged(t *testing.T) {
	assert.NotEmpty(t, validateSource(t, `{
		dog { barkVolume: nickname }
		dog { barkVolume }
	}`))
}

func TestValidateCost(t *testing.T) {
	doc, errs := parser.ParseDocument(source.New("test", `{ costFromArg(cost: 5) }`))
	require.Empty(t, errs)

	s := testSchema(t)
	typeInfo := NewTypeInfo(doc, s)

	var actual int
	rule := ValidateCost("", nil, 10, &actual, schema.FieldCost{})
	assert.Empty(t, rule(doc, s, typeInfo))
	assert.Equal(t, 5, actual)

	rule = ValidateCost("", nil, 3, &actual, schema.FieldCost{})
	assert.NotEmpty(t, rule(doc, s, typeInfo))
}

func TestValidateCostPropagatesContext(t *testing.T) {
	doc, errs := parser.ParseDocument(source.New("test", `{
		objectWithCostContext(cost: 7) {
			costFromContext
		}
	}`))
	require.Empty(t, errs)

	s := testSchema(t)
	typeInfo := NewTypeInfo(doc, s)

	var actual int
	rule := ValidateCost("", nil, -1, &actual, schema.FieldCost{})
	assert.Empty(t, rule(doc, s, typeInfo))
	assert.Equal(t, 7, actual)
}
