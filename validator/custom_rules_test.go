package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kjhughes/gql/parser"
	"github.com/kjhughes/gql/schema"
	"github.com/kjhughes/gql/source"
)

func TestNoSchemaIntrospectionCustomRule(t *testing.T) {
	s := testSchema(t)

	doc, errs := parser.ParseDocument(source.New("test", `{ __schema { queryType { name } } }`))
	require.Empty(t, errs)
	assert.Empty(t, ValidateDocument(doc, s))
	assert.NotEmpty(t, ValidateDocument(doc, s, NoSchemaIntrospectionCustomRule))

	doc, errs = parser.ParseDocument(source.New("test", `{ __type(name: "Dog") { name } }`))
	require.Empty(t, errs)
	assert.NotEmpty(t, ValidateDocument(doc, s, NoSchemaIntrospectionCustomRule))

	doc, errs = parser.ParseDocument(source.New("test", `{ dog { nickname } }`))
	require.Empty(t, errs)
	assert.Empty(t, ValidateDocument(doc, s, NoSchemaIntrospectionCustomRule))
}

func TestNoDeprecatedCustomRule(t *testing.T) {
	enumType := &schema.EnumType{
		Name: "Status",
		Values: map[string]*schema.EnumValueDefinition{
			"ACTIVE":  {},
			"RETIRED": {DeprecationReason: "no longer used"},
		},
	}

	deprecatedQueryType := &schema.ObjectType{Name: "Query"}
	deprecatedQueryType.Fields = schema.Fields(map[string]*schema.FieldDefinition{
		"status": {Type: enumType, Resolve: notImplemented},
		"legacy": {
			Type:              schema.StringType,
			DeprecationReason: "use status instead",
			Resolve:           notImplemented,
		},
		"byStatus": {
			Type: schema.StringType,
			Arguments: map[string]*schema.InputValueDefinition{
				"status": {Type: enumType},
			},
			Resolve: notImplemented,
		},
	})

	s, err := schema.New(&schema.Definition{Query: deprecatedQueryType})
	require.NoError(t, err)

	doc, errs := parser.ParseDocument(source.New("test", `{ legacy }`))
	require.Empty(t, errs)
	assert.Empty(t, ValidateDocument(doc, s))
	assert.NotEmpty(t, ValidateDocument(doc, s, NoDeprecatedCustomRule))

	doc, errs = parser.ParseDocument(source.New("test", `{ status }`))
	require.Empty(t, errs)
	assert.Empty(t, ValidateDocument(doc, s, NoDeprecatedCustomRule))

	doc, errs = parser.ParseDocument(source.New("test", `{ byStatus(status: RETIRED) }`))
	require.Empty(t, errs)
	assert.Empty(t, ValidateDocument(doc, s))
	assert.NotEmpty(t, ValidateDocument(doc, s, NoDeprecatedCustomRule))

	doc, errs = parser.ParseDocument(source.New("test", `{ byStatus(status: ACTIVE) }`))
	require.Empty(t, errs)
	assert.Empty(t, ValidateDocument(doc, s, NoDeprecatedCustomRule))
}
