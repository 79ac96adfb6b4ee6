package gql

import (
	"context"
	"testing"

	"github.com/kjhughes/gql/executor"
	"github.com/kjhughes/gql/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewErrorFromExecutorError(t *testing.T) {
	assert.Equal(t, &Error{
		Message: "message",
		Locations: []Location{
			{
				Line:   1,
				Column: 2,
			},
		},
	}, newErrorFromExecutorError(&executor.Error{
		Message: "message",
		Locations: []executor.Location{
			{
				Line:   1,
				Column: 2,
			},
		},
	}))
}

func testSchema(t *testing.T) *Schema {
	s, err := NewSchema(&SchemaDefinition{
		Query: &ObjectType{
			Name: "Query",
			Fields: schema.Fields(map[string]*FieldDefinition{
				"hello": {
					Type: StringType,
					Resolve: func(ctx FieldContext) (interface{}, error) {
						return "world", nil
					},
				},
			}),
		},
	})
	require.NoError(t, err)
	return s
}

func TestGraphql(t *testing.T) {
	s := testSchema(t)

	result := Graphql(&Request{
		Context: context.Background(),
		Query:   `{hello}`,
		Schema:  s,
	})
	require.Empty(t, result.Errors)
	require.NotNil(t, result.Data)

	b, err := result.Data.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"hello":"world"}`, string(b))
}

func TestNoSchemaIntrospectionCustomRule(t *testing.T) {
	s := testSchema(t)

	doc, errs := ParseAndValidate(`{__schema{queryType{name}}}`, s)
	require.NotNil(t, doc)
	require.Empty(t, errs)

	_, errs = ParseAndValidate(`{__schema{queryType{name}}}`, s, NoSchemaIntrospectionCustomRule)
	assert.NotEmpty(t, errs)
}

func TestGraphqlSyntaxError(t *testing.T) {
	s := testSchema(t)

	result := Graphql(&Request{
		Context: context.Background(),
		Query:   `{`,
		Schema:  s,
	})
	assert.NotEmpty(t, result.Errors)
	assert.Nil(t, result.Data)
}

func countingSubscriptionSchema(t *testing.T, values ...int) *Schema {
	s, err := NewSchema(&SchemaDefinition{
		Query: &ObjectType{
			Name: "Query",
			Fields: schema.Fields(map[string]*FieldDefinition{
				"hello": {
					Type: StringType,
					Resolve: func(ctx FieldContext) (interface{}, error) {
						return "world", nil
					},
				},
			}),
		},
		Subscription: &ObjectType{
			Name: "Subscription",
			Fields: schema.Fields(map[string]*FieldDefinition{
				"count": {
					Type: IntType,
					// This resolver plays a dual role: called once with IsSubscribe true to
					// produce the event stream, then once per event (IsSubscribe false, Object
					// set to the event) to map that event to the field's value.
					Resolve: func(ctx FieldContext) (interface{}, error) {
						if ctx.IsSubscribe {
							ch := make(chan interface{}, len(values))
							for _, v := range values {
								ch <- v
							}
							close(ch)
							return ch, nil
						}
						return ctx.Object, nil
					},
				},
			}),
		},
	})
	require.NoError(t, err)
	return s
}

func TestIsSubscription(t *testing.T) {
	s := countingSubscriptionSchema(t, 1)

	doc, errs := ParseAndValidate(`subscription {count}`, s)
	require.Empty(t, errs)
	assert.True(t, IsSubscription(doc, ""))
}

func TestGraphqlSubscribe(t *testing.T) {
	s := countingSubscriptionSchema(t, 1, 2, 3)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, errs := GraphqlSubscribe(&Request{
		Context: ctx,
		Query:   `subscription {count}`,
		Schema:  s,
	})
	require.Empty(t, errs)

	var got []string
	for result := range events {
		require.Empty(t, result.Errors)
		b, err := result.Data.MarshalJSON()
		require.NoError(t, err)
		got = append(got, string(b))
	}
	assert.Equal(t, []string{`{"count":1}`, `{"count":2}`, `{"count":3}`}, got)
}

func TestGraphqlSubscribeStopsOnContextCancellation(t *testing.T) {
	s := countingSubscriptionSchema(t, 1, 2, 3)

	ctx, cancel := context.WithCancel(context.Background())

	events, errs := GraphqlSubscribe(&Request{
		Context: ctx,
		Query:   `subscription {count}`,
		Schema:  s,
	})
	require.Empty(t, errs)

	_, ok := <-events
	require.True(t, ok)

	cancel()
	for range events {
	}
}
