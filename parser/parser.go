// Package parser builds an AST from GraphQL executable document text via recursive descent.
package parser

import (
	"fmt"

	"github.com/kjhughes/gql/ast"
	"github.com/kjhughes/gql/lexer"
	"github.com/kjhughes/gql/source"
	"github.com/kjhughes/gql/token"
)

// Error is a syntax error with the position at which it occurred.
type Error struct {
	Message  string
	Position token.Position
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Position, e.Message)
}

// ParseDocument parses a full executable document (operations and fragment definitions).
func ParseDocument(src *source.Source) (doc *ast.Document, errs []*Error) {
	p := newParser(src)
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(*Error); ok {
				errs = p.errors
			} else {
				panic(r)
			}
		}
	}()
	return p.parseDocument(), p.errors
}

// ParseValue parses a single value literal, e.g. for use in a default argument supplied out
// of band from a document (such as a CLI flag).
func ParseValue(src *source.Source) (value ast.Value, errs []*Error) {
	p := newParser(src)
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(*Error); ok {
				errs = p.errors
			} else {
				panic(r)
			}
		}
	}()
	return p.parseValue(false), p.errors
}

// ParseType parses a single type reference, such as "[String!]!".
func ParseType(src *source.Source) (t ast.Type, errs []*Error) {
	p := newParser(src)
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(*Error); ok {
				errs = p.errors
			} else {
				panic(r)
			}
		}
	}()
	return p.parseType(), p.errors
}

type parserToken struct {
	Kind        token.Kind
	Literal     string
	StringValue string
	Position    token.Position
}

var eof = &parserToken{Kind: token.EOF}

type parser struct {
	errors    []*Error
	current   *parserToken
	lex       *lexer.Lexer
	recursion int
}

func newParser(src *source.Source) *parser {
	l := lexer.New(src, 0)
	p := &parser{lex: l}
	for _, err := range l.Errors() {
		p.errors = append(p.errors, &Error{Message: err.Message, Position: err.Position})
	}
	p.advance()
	return p
}

func (p *parser) advance() {
	if p.lex.Scan() {
		p.current = &parserToken{
			Kind:        p.lex.Token(),
			Literal:     p.lex.Literal(),
			StringValue: p.lex.StringValue(),
			Position:    p.lex.Position(),
		}
	} else {
		for _, err := range p.lex.Errors() {
			p.errors = append(p.errors, &Error{Message: err.Message, Position: err.Position})
		}
		p.current = eof
	}
}

const maxRecursion = 1000

func (p *parser) enter() {
	p.recursion++
	if p.recursion > maxRecursion {
		panic(p.errorf("maximum recursion depth exceeded"))
	}
}

func (p *parser) exit() {
	p.recursion--
}

func (p *parser) peek() *parserToken {
	return p.current
}

func (p *parser) consumeToken() {
	if p.current != eof {
		p.advance()
	}
}

func (p *parser) errorf(message string, args ...interface{}) *Error {
	err := &Error{
		Message:  fmt.Sprintf(message, args...),
		Position: p.peek().Position,
	}
	p.errors = append(p.errors, err)
	return err
}

func isPunctuator(t *parserToken, value string) bool {
	return t.Kind == token.PUNCTUATOR && t.Literal == value
}

func isName(t *parserToken, value string) bool {
	return t.Kind == token.NAME && t.Literal == value
}

var operationTypes = map[string]bool{"query": true, "mutation": true, "subscription": true}

func (p *parser) parseDocument() *ast.Document {
	p.enter()

	ret := &ast.Document{}
	for p.peek() != eof {
		ret.Definitions = append(ret.Definitions, p.parseDefinition())
	}

	p.exit()
	return ret
}

func (p *parser) parseDefinition() ast.Definition {
	p.enter()

	var ret ast.Definition
	if isName(p.peek(), "fragment") {
		ret = p.parseFragmentDefinition()
	} else {
		ret = p.parseOperationDefinition()
	}

	p.exit()
	return ret
}

func (p *parser) parseFragmentDefinition() *ast.FragmentDefinition {
	p.enter()

	if !isName(p.peek(), "fragment") {
		panic(p.errorf(`expected "fragment"`))
	}
	fragment := p.peek().Position
	p.consumeToken()

	ret := &ast.FragmentDefinition{
		Fragment:      fragment,
		Name:          p.parseName(),
		TypeCondition: p.parseTypeCondition(),
		Directives:    p.parseOptionalDirectives(),
		SelectionSet:  p.parseSelectionSet(),
	}

	p.exit()
	return ret
}

func (p *parser) parseOperationDefinition() *ast.OperationDefinition {
	p.enter()

	ret := &ast.OperationDefinition{}
	if ss := p.parseOptionalSelectionSet(); ss != nil {
		ret.SelectionSet = ss
	} else {
		t := p.peek()
		if t.Kind != token.NAME || !operationTypes[t.Literal] {
			panic(p.errorf("expected operation type"))
		}
		ret.OperationType = &ast.OperationType{Value: t.Literal, ValuePosition: t.Position}
		p.consumeToken()

		if p.peek().Kind == token.NAME {
			ret.Name = p.parseName()
		}

		ret.VariableDefinitions = p.parseOptionalVariableDefinitions()
		ret.Directives = p.parseOptionalDirectives()
		ret.SelectionSet = p.parseSelectionSet()
	}

	p.exit()
	return ret
}

func (p *parser) parseOptionalSelectionSet() *ast.SelectionSet {
	p.enter()

	var ret *ast.SelectionSet
	if isPunctuator(p.peek(), "{") {
		ret = p.parseSelectionSet()
	}

	p.exit()
	return ret
}

func (p *parser) parseSelectionSet() *ast.SelectionSet {
	p.enter()

	if !isPunctuator(p.peek(), "{") {
		panic(p.errorf("expected selection set"))
	}
	opening := p.peek().Position
	p.consumeToken()

	ret := &ast.SelectionSet{Opening: opening}
	for {
		if isPunctuator(p.peek(), "}") {
			if len(ret.Selections) == 0 {
				panic(p.errorf("expected selection"))
			}
			ret.Closing = p.peek().Position
			p.consumeToken()
			break
		}
		ret.Selections = append(ret.Selections, p.parseSelection())
	}

	p.exit()
	return ret
}

func (p *parser) parseField() *ast.Field {
	p.enter()

	ret := &ast.Field{}
	ret.Name = p.parseName()
	if isPunctuator(p.peek(), ":") {
		p.consumeToken()
		ret.Alias = ret.Name
		ret.Name = p.parseName()
	}
	ret.Arguments = p.parseOptionalArguments()
	ret.Directives = p.parseOptionalDirectives()
	ret.SelectionSet = p.parseOptionalSelectionSet()

	p.exit()
	return ret
}

func (p *parser) parseTypeCondition() *ast.NamedType {
	p.enter()

	if !isName(p.peek(), "on") {
		panic(p.errorf(`expected "on"`))
	}
	p.consumeToken()
	ret := p.parseNamedType()

	p.exit()
	return ret
}

func (p *parser) parseSelection() ast.Selection {
	p.enter()
	defer p.exit()

	if !isPunctuator(p.peek(), "...") {
		return p.parseField()
	}
	ellipsis := p.peek().Position
	p.consumeToken()

	if t := p.peek(); t.Kind == token.NAME && t.Literal != "on" {
		return &ast.FragmentSpread{
			Ellipsis:     ellipsis,
			FragmentName: p.parseName(),
			Directives:   p.parseOptionalDirectives(),
		}
	}

	ret := &ast.InlineFragment{Ellipsis: ellipsis}
	if p.peek().Kind == token.NAME {
		ret.TypeCondition = p.parseTypeCondition()
	}
	ret.Directives = p.parseOptionalDirectives()
	ret.SelectionSet = p.parseSelectionSet()

	return ret
}

func (p *parser) parseOptionalArguments() []*ast.Argument {
	p.enter()

	var ret []*ast.Argument
	if isPunctuator(p.peek(), "(") {
		p.consumeToken()

		for {
			if isPunctuator(p.peek(), ")") {
				if len(ret) == 0 {
					panic(p.errorf("expected argument"))
				}
				p.consumeToken()
				break
			}
			ret = append(ret, p.parseArgument())
		}
	}

	p.exit()
	return ret
}

func (p *parser) parseOptionalVariableDefinitions() []*ast.VariableDefinition {
	p.enter()

	var ret []*ast.VariableDefinition
	if isPunctuator(p.peek(), "(") {
		p.consumeToken()

		for {
			if isPunctuator(p.peek(), ")") {
				if len(ret) == 0 {
					panic(p.errorf("expected variable definition"))
				}
				p.consumeToken()
				break
			}
			ret = append(ret, p.parseVariableDefinition())
		}
	}

	p.exit()
	return ret
}

func (p *parser) parseVariableDefinition() *ast.VariableDefinition {
	p.enter()

	variable := p.parseVariable()

	if !isPunctuator(p.peek(), ":") {
		panic(p.errorf("expected colon"))
	}
	p.consumeToken()

	typ := p.parseType()

	ret := &ast.VariableDefinition{
		Variable: variable,
		Type:     typ,
	}
	if isPunctuator(p.peek(), "=") {
		p.consumeToken()
		ret.DefaultValue = p.parseValue(true)
	}
	ret.Directives = p.parseOptionalDirectives()

	p.exit()
	return ret
}

func (p *parser) parseType() ast.Type {
	p.enter()

	var ret ast.Type
	if isPunctuator(p.peek(), "[") {
		opening := p.peek().Position
		p.consumeToken()
		typ := p.parseType()
		if !isPunctuator(p.peek(), "]") {
			panic(p.errorf("expected ]"))
		}
		closing := p.peek().Position
		p.consumeToken()
		ret = &ast.ListType{
			Type:    typ,
			Opening: opening,
			Closing: closing,
		}
	} else {
		ret = p.parseNamedType()
	}
	if isPunctuator(p.peek(), "!") {
		p.consumeToken()
		ret = &ast.NonNullType{
			Type: ret,
		}
	}

	p.exit()
	return ret
}

func (p *parser) parseArgument() *ast.Argument {
	p.enter()

	ret := &ast.Argument{}
	ret.Name = p.parseName()
	if !isPunctuator(p.peek(), ":") {
		panic(p.errorf("expected colon"))
	}
	p.consumeToken()
	ret.Value = p.parseValue(false)

	p.exit()
	return ret
}

func (p *parser) parseOptionalDirectives() []*ast.Directive {
	p.enter()

	var ret []*ast.Directive
	for isPunctuator(p.peek(), "@") {
		at := p.peek().Position
		p.consumeToken()
		ret = append(ret, &ast.Directive{
			At:        at,
			Name:      p.parseName(),
			Arguments: p.parseOptionalArguments(),
		})
	}

	p.exit()
	return ret
}

func (p *parser) parseNamedType() *ast.NamedType {
	p.enter()

	ret := &ast.NamedType{
		Name: p.parseName(),
	}

	p.exit()
	return ret
}

func (p *parser) parseName() *ast.Name {
	p.enter()

	ret := &ast.Name{}
	if t := p.peek(); t.Kind == token.NAME {
		ret.Name = t.Literal
		ret.NamePosition = t.Position
		p.consumeToken()
	} else {
		panic(p.errorf("expected name"))
	}

	p.exit()
	return ret
}

func (p *parser) parseVariable() *ast.Variable {
	p.enter()

	if !isPunctuator(p.peek(), "$") {
		panic(p.errorf("expected variable"))
	}
	dollar := p.peek().Position
	p.consumeToken()
	ret := &ast.Variable{
		Dollar: dollar,
		Name:   p.parseName(),
	}

	p.exit()
	return ret
}

func (p *parser) parseValue(constant bool) ast.Value {
	p.enter()
	defer p.exit()

	t := p.peek()
	switch t.Kind {
	case token.INT_VALUE:
		p.consumeToken()
		return &ast.IntValue{Value: t.Literal, Literal: t.Position}
	case token.FLOAT_VALUE:
		p.consumeToken()
		return &ast.FloatValue{Value: t.Literal, Literal: t.Position}
	case token.STRING_VALUE:
		p.consumeToken()
		return &ast.StringValue{Value: t.StringValue, Literal: t.Position}
	case token.NAME:
		p.consumeToken()
		switch v := t.Literal; v {
		case "true", "false":
			return &ast.BooleanValue{Value: v == "true", Literal: t.Position}
		case "null":
			return &ast.NullValue{Literal: t.Position}
		default:
			return &ast.EnumValue{Value: v, Literal: t.Position}
		}
	case token.PUNCTUATOR:
		switch t.Literal {
		case "$":
			if constant {
				panic(p.errorf("expected constant value"))
			}
			return p.parseVariable()
		case "[":
			opening := t.Position
			p.consumeToken()
			var values []ast.Value
			for {
				if isPunctuator(p.peek(), "]") {
					closing := p.peek().Position
					p.consumeToken()
					return &ast.ListValue{Values: values, Opening: opening, Closing: closing}
				}
				values = append(values, p.parseValue(constant))
			}
		case "{":
			opening := t.Position
			p.consumeToken()
			var fields []*ast.ObjectField
			for {
				if isPunctuator(p.peek(), "}") {
					closing := p.peek().Position
					p.consumeToken()
					return &ast.ObjectValue{Fields: fields, Opening: opening, Closing: closing}
				}
				name := p.parseName()
				if !isPunctuator(p.peek(), ":") {
					panic(p.errorf("expected colon"))
				}
				p.consumeToken()
				value := p.parseValue(constant)
				fields = append(fields, &ast.ObjectField{Name: name, Value: value})
			}
		}
	}

	panic(p.errorf("expected value"))
}
