package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kjhughes/gql/ast"
	"github.com/kjhughes/gql/source"
	"github.com/kjhughes/gql/token"
)

func pos(offset, line, column int) token.Position {
	return token.Position{Offset: offset, Line: line, Column: column}
}

func parseValue(src string) (ast.Value, []*Error) {
	return ParseValue(source.New("test", src))
}

func parseDocument(src string) (*ast.Document, []*Error) {
	return ParseDocument(source.New("test", src))
}

func TestParseValue(t *testing.T) {
	cases := map[string]ast.Value{
		`null`: &ast.NullValue{
			Literal: pos(0, 1, 1),
		},
		`[123 "abc"]`: &ast.ListValue{
			Values: []ast.Value{
				&ast.IntValue{Value: "123", Literal: pos(1, 1, 2)},
				&ast.StringValue{Value: "abc", Literal: pos(5, 1, 6)},
			},
			Opening: pos(0, 1, 1),
			Closing: pos(10, 1, 11),
		},
		`{foo: "foo"}`: &ast.ObjectValue{
			Fields: []*ast.ObjectField{
				{
					Name:  &ast.Name{Name: "foo", NamePosition: pos(1, 1, 2)},
					Value: &ast.StringValue{Value: "foo", Literal: pos(6, 1, 7)},
				},
			},
			Opening: pos(0, 1, 1),
			Closing: pos(11, 1, 12),
		},
	}
	for src, expected := range cases {
		actual, errs := parseValue(src)
		assert.Empty(t, errs)
		assert.Equal(t, expected, actual)
	}

	t.Run("Error", func(t *testing.T) {
		_, errs := parseValue(`!`)
		assert.Len(t, errs, 1)
	})
}

func TestParseDocument_SimpleQuery(t *testing.T) {
	doc, errs := parseDocument(`{ hero { name } }`)
	assert.Empty(t, errs)
	assert.Len(t, doc.Definitions, 1)

	op, ok := doc.Definitions[0].(*ast.OperationDefinition)
	assert.True(t, ok)
	assert.Nil(t, op.OperationType)
	assert.Len(t, op.SelectionSet.Selections, 1)

	field := op.SelectionSet.Selections[0].(*ast.Field)
	assert.Equal(t, "hero", field.Name.Name)
	assert.Len(t, field.SelectionSet.Selections, 1)
}

func TestParseDocument_NamedOperationWithVariables(t *testing.T) {
	doc, errs := parseDocument(`query HeroForEpisode($ep: Episode!) {
		hero(episode: $ep) {
			name
		}
	}`)
	assert.Empty(t, errs)
	op := doc.Definitions[0].(*ast.OperationDefinition)
	assert.Equal(t, "query", op.OperationType.Value)
	assert.Equal(t, "HeroForEpisode", op.Name.Name)
	assert.Len(t, op.VariableDefinitions, 1)
	assert.Equal(t, "ep", op.VariableDefinitions[0].Variable.Name.Name)
	nonNull, ok := op.VariableDefinitions[0].Type.(*ast.NonNullType)
	assert.True(t, ok)
	named, ok := nonNull.Type.(*ast.NamedType)
	assert.True(t, ok)
	assert.Equal(t, "Episode", named.Name.Name)
}

func TestParseDocument_FragmentsAndDirectives(t *testing.T) {
	doc, errs := parseDocument(`
		query Q($withFriends: Boolean!) {
			hero {
				...heroFields @include(if: $withFriends)
				... on Droid {
					primaryFunction
				}
			}
		}

		fragment heroFields on Character {
			name
		}
	`)
	assert.Empty(t, errs)
	assert.Len(t, doc.Definitions, 2)
	op := doc.Definitions[0].(*ast.OperationDefinition)
	hero := op.SelectionSet.Selections[0].(*ast.Field)
	assert.Len(t, hero.SelectionSet.Selections, 2)

	spread := hero.SelectionSet.Selections[0].(*ast.FragmentSpread)
	assert.Equal(t, "heroFields", spread.FragmentName.Name)
	assert.Len(t, spread.Directives, 1)
	assert.Equal(t, "include", spread.Directives[0].Name.Name)

	inline := hero.SelectionSet.Selections[1].(*ast.InlineFragment)
	assert.Equal(t, "Droid", inline.TypeCondition.Name.Name)

	frag := doc.Definitions[1].(*ast.FragmentDefinition)
	assert.Equal(t, "heroFields", frag.Name.Name)
	assert.Equal(t, "Character", frag.TypeCondition.Name.Name)
}

func TestParseDocument_Mutation(t *testing.T) {
	doc, errs := parseDocument(`mutation CreateReview($ep: Episode!, $review: ReviewInput!) {
		createReview(episode: $ep, review: $review) {
			stars
			commentary
		}
	}`)
	assert.Empty(t, errs)
	op := doc.Definitions[0].(*ast.OperationDefinition)
	assert.Equal(t, "mutation", op.OperationType.Value)
	assert.Len(t, op.VariableDefinitions, 2)
}

func TestParseDocument_Errors(t *testing.T) {
	for _, src := range []string{
		`{`,
		`{}`,
		`query { }`,
		`fragment on Foo { bar }`,
		`{ foo(a: ) }`,
	} {
		_, errs := parseDocument(src)
		assert.NotEmpty(t, errs, src)
	}
}

func TestParseDocument_MaxRecursion(t *testing.T) {
	src := ""
	for i := 0; i < 2000; i++ {
		src += "{ a"
	}
	src += " "
	for i := 0; i < 2000; i++ {
		src += "}"
	}
	_, errs := parseDocument(`{ ` + src + ` }`)
	assert.NotEmpty(t, errs)
}
