package schema_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kjhughes/gql/executor"
	"github.com/kjhughes/gql/parser"
	. "github.com/kjhughes/gql/schema"
	"github.com/kjhughes/gql/source"
	"github.com/kjhughes/gql/validator"
)

func TestInputObjectType_Coercion(t *testing.T) {
	inputType := &InputObjectType{
		Fields: InputFields(map[string]*InputValueDefinition{
			"a": {
				Type: StringType,
			},
			"b": {
				Type: NewNonNullType(IntType),
			},
		}),
	}
	for name, tc := range map[string]struct {
		Literal        string
		VariableValues map[string]interface{}
		Expected       interface{}
	}{
		"Constants":            {`{ a: "abc", b: 123 }`, nil, map[string]interface{}{"a": "abc", "b": 123}},
		"NullAndConstant":      {`{ a: null, b: 123 }`, nil, map[string]interface{}{"a": nil, "b": 123}},
		"BConstant":            {`{ b: 123 }`, nil, map[string]interface{}{"b": 123}},
		"VarNullAndConstant":   {`{ a: $var, b: 123 }`, map[string]interface{}{"var": nil}, map[string]interface{}{"a": nil, "b": 123}},
		"VarAbsentAndConstant": {`{ a: $var, b: 123 }`, nil, map[string]interface{}{"b": 123}},
		"BVar":                 {`{ b: $var }`, map[string]interface{}{"var": 123}, map[string]interface{}{"b": 123}},
		"Var":                  {`$var`, map[string]interface{}{"var": map[string]interface{}{"b": 123}}, map[string]interface{}{"b": 123}},
		"String":               {`abc123`, nil, nil},
		"StringAndString":      {`{ a: "abc", b: "123" }`, nil, nil},
		"AString":              {`{ a: "abc" }`, nil, nil},
		"BVarAbsent":           {`{ b: $var }`, nil, nil},
		"StringAndNull":        {`{ a: "abc", b: null }`, nil, nil},
		"UnexpectedField":      {`{ b: 123, c: "xyz" }`, nil, nil},
	} {
		t.Run(name, func(t *testing.T) {
			value, errs := parser.ParseValue(source.New("test", tc.Literal))
			require.Empty(t, errs)
			coerced, err := CoerceLiteral(value, inputType, tc.VariableValues)
			if tc.Expected != nil {
				assert.NoError(t, err)
				assert.Equal(t, tc.Expected, coerced)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

// oneOfTestSchema builds a schema with a single query field that accepts a OneOf input object
// named TestInputObject, mirroring the spec's scenario for rejecting multi-key OneOf input.
func oneOfTestSchema(t *testing.T) *Schema {
	inputType := &InputObjectType{
		Name:  "TestInputObject",
		OneOf: true,
		Fields: InputFields(map[string]*InputValueDefinition{
			"a": {Type: StringType},
			"b": {Type: IntType},
		}),
	}

	s, err := New(&Definition{
		Query: &ObjectType{
			Name: "Query",
			Fields: Fields(map[string]*FieldDefinition{
				"test": {
					Type: StringType,
					Arguments: map[string]*InputValueDefinition{
						"input": {Type: NewNonNullType(inputType)},
					},
					Resolve: func(ctx FieldContext) (interface{}, error) {
						return "ok", nil
					},
				},
			}),
		},
	})
	require.NoError(t, err)
	return s
}

// TestInputObjectType_OneOfRejectsMultipleKeys exercises spec scenario 6 end-to-end through the
// executor: a variable value with more than one OneOf key set must be rejected before execution
// begins, with data absent from the result.
func TestInputObjectType_OneOfRejectsMultipleKeys(t *testing.T) {
	s := oneOfTestSchema(t)

	doc, errs := parser.ParseDocument(source.New("test", `query($input: TestInputObject!) { test(input: $input) }`))
	require.Empty(t, errs)
	require.Empty(t, validator.ValidateDocument(doc, s))

	data, execErrs := executor.ExecuteRequest(context.Background(), &executor.Request{
		Document: doc,
		Schema:   s,
		VariableValues: map[string]interface{}{
			"input": map[string]interface{}{"a": "abc", "b": 123},
		},
	})

	require.Nil(t, data)
	require.Len(t, execErrs, 1)
	assert.Contains(t, execErrs[0].Message, `Exactly one key must be specified for OneOf type "TestInputObject"`)
}

func TestInputObjectType_OneOfAcceptsSingleKey(t *testing.T) {
	s := oneOfTestSchema(t)

	doc, errs := parser.ParseDocument(source.New("test", `query($input: TestInputObject!) { test(input: $input) }`))
	require.Empty(t, errs)
	require.Empty(t, validator.ValidateDocument(doc, s))

	data, execErrs := executor.ExecuteRequest(context.Background(), &executor.Request{
		Document: doc,
		Schema:   s,
		VariableValues: map[string]interface{}{
			"input": map[string]interface{}{"a": "abc"},
		},
	})

	require.Empty(t, execErrs)
	require.NotNil(t, data)
}
