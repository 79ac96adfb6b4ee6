package relay

import (
	"context"
	"reflect"
	"runtime"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kjhughes/gql"
	"github.com/kjhughes/gql/schema"
)

func schemaWithConnectionField(field *gql.FieldDefinition) *gql.Schema {
	s, err := gql.NewSchema(&gql.SchemaDefinition{
		Query: &gql.ObjectType{
			Name: "Query",
			Fields: schema.Fields(map[string]*gql.FieldDefinition{
				"connection": field,
			}),
		},
	})
	if err != nil {
		panic(err)
	}
	return s
}

func intEdgeFields() map[string]*gql.FieldDefinition {
	return map[string]*gql.FieldDefinition{
		"node": {
			Type: gql.IntType,
			Resolve: func(ctx gql.FieldContext) (interface{}, error) {
				return ctx.Object, nil
			},
		},
	}
}

func TestConnection(t *testing.T) {
	field := Connection(&ConnectionConfig{
		NamePrefix: "Test",
		ResolveEdges: func(ctx gql.FieldContext, after, before interface{}, limit int) (interface{}, func(a, b interface{}) bool, error) {
			ret := make([]int, limit)
			for i := range ret {
				ret[i] = i
			}
			return ret, func(a, b interface{}) bool { return false }, nil
		},
		ResolveTotalCount: func(ctx gql.FieldContext) (interface{}, error) {
			return 1000, nil
		},
		CursorType: reflect.TypeOf(""),
		EdgeCursor: func(edge interface{}) interface{} {
			return strconv.Itoa(edge.(int))
		},
		EdgeFields: intEdgeFields(),
	})
	s := schemaWithConnectionField(field)

	t.Run("Cost", func(t *testing.T) {
		var cost int
		_, errs := gql.ParseAndValidate(`
			{
				connection(first: 10) {
					edges { node cursor }
					pageInfo { hasPreviousPage hasNextPage startCursor endCursor }
					totalCount
				}
			}
		`, s, gql.ValidateCost("", nil, -1, &cost, gql.FieldCost{Resolver: 1}))
		require.Empty(t, errs)
		assert.Equal(t, (1 /*connection*/)+(10 /* edges */)*(1 /* node */)+(1 /*totalCount*/), cost)
	})

	result := gql.Graphql(&gql.Request{
		Context: context.Background(),
		Schema:  s,
		Query: `{
			connection(first: 10) {
				edges { node cursor }
				pageInfo { hasPreviousPage hasNextPage startCursor endCursor }
				totalCount
			}
		}`,
	})
	require.Empty(t, result.Errors)
	b, err := result.Data.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"connection": {
			"edges": [
				{"cursor": "oTA", "node": 0},
				{"cursor": "oTE", "node": 1},
				{"cursor": "oTI", "node": 2},
				{"cursor": "oTM", "node": 3},
				{"cursor": "oTQ", "node": 4},
				{"cursor": "oTU", "node": 5},
				{"cursor": "oTY", "node": 6},
				{"cursor": "oTc", "node": 7},
				{"cursor": "oTg", "node": 8},
				{"cursor": "oTk", "node": 9}
			],
			"pageInfo": {
				"endCursor": "oTk",
				"hasNextPage": true,
				"hasPreviousPage": false,
				"startCursor": "oTA"
			},
			"totalCount": 1000
		}
	}`, string(b))
}

func TestConnection_ZeroArg_WithoutPageInfo(t *testing.T) {
	field := Connection(&ConnectionConfig{
		NamePrefix: "Test",
		ResolveEdges: func(ctx gql.FieldContext, after, before interface{}, limit int) (interface{}, func(a, b interface{}) bool, error) {
			t.Fatal("the edge resolver should not be invoked")
			return nil, nil, nil
		},
		ResolveTotalCount: func(ctx gql.FieldContext) (interface{}, error) {
			return 1000, nil
		},
		CursorType: reflect.TypeOf(""),
		EdgeCursor: func(edge interface{}) interface{} {
			return strconv.Itoa(edge.(int))
		},
		EdgeFields: intEdgeFields(),
	})
	s := schemaWithConnectionField(field)

	result := gql.Graphql(&gql.Request{
		Context: context.Background(),
		Schema:  s,
		Query: `{
			connection(first: 0) {
				edges { node }
				totalCount
			}
		}`,
	})
	require.Empty(t, result.Errors)
	b, err := result.Data.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"connection": {"edges": [], "totalCount": 1000}}`, string(b))
}

func TestConnection_ZeroArg_WithPageInfo(t *testing.T) {
	field := Connection(&ConnectionConfig{
		NamePrefix: "Test",
		ResolveEdges: func(ctx gql.FieldContext, after, before interface{}, limit int) (interface{}, func(a, b interface{}) bool, error) {
			return make([]int, limit), func(a, b interface{}) bool { return false }, nil
		},
		ResolveTotalCount: func(ctx gql.FieldContext) (interface{}, error) {
			return 1000, nil
		},
		CursorType: reflect.TypeOf(""),
		EdgeCursor: func(edge interface{}) interface{} {
			return strconv.Itoa(edge.(int))
		},
		EdgeFields: intEdgeFields(),
	})
	s := schemaWithConnectionField(field)

	result := gql.Graphql(&gql.Request{
		Context: context.Background(),
		Schema:  s,
		Query: `{
			connection(first: 0) {
				edges { node }
				totalCount
				pageInfo { hasNextPage startCursor endCursor }
			}
		}`,
	})
	require.Empty(t, result.Errors)
	b, err := result.Data.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"connection": {
			"edges": [],
			"pageInfo": {"endCursor": "", "hasNextPage": true, "startCursor": ""},
			"totalCount": 1000
		}
	}`, string(b))
}

func TestConnection_AsyncEdges(t *testing.T) {
	field := Connection(&ConnectionConfig{
		NamePrefix: "Test",
		ResolveEdges: func(ctx gql.FieldContext, after, before interface{}, limit int) (interface{}, func(a, b interface{}) bool, error) {
			promise := make(gql.ResolvePromise, 1)
			go func() {
				ret := make([]int, limit)
				for i := range ret {
					ret[i] = i
				}
				promise <- gql.ResolveResult{Value: ret}
			}()
			return promise, func(a, b interface{}) bool { return false }, nil
		},
		CursorType: reflect.TypeOf(""),
		EdgeCursor: func(edge interface{}) interface{} {
			return strconv.Itoa(edge.(int))
		},
		EdgeFields: intEdgeFields(),
	})
	s := schemaWithConnectionField(field)

	result := gql.Graphql(&gql.Request{
		Context: context.Background(),
		Schema:  s,
		Query: `{
			connection(first: 2) {
				edges { node }
			}
		}`,
		IdleHandler: runtime.Gosched,
	})
	require.Empty(t, result.Errors)
	b, err := result.Data.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"connection": {"edges": [{"node": 0}, {"node": 1}]}}`, string(b))
}
