package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kjhughes/gql/source"
	"github.com/kjhughes/gql/token"
)

func newTestLexer(body string, mode Mode) *Lexer {
	return New(source.New("test", body), mode)
}

func TestLexer(t *testing.T) {
	l := newTestLexer(`{`+"\n"+`node(id: "foo") {`+"\r\n"+`...frag}`+"\r"+`}`, ScanIgnored)
	for _, expected := range []struct {
		Kind    token.Kind
		Literal string
		Line    int
		Column  int
	}{
		{token.PUNCTUATOR, "{", 1, 1},
		{token.LINE_TERMINATOR, "\n", 1, 2},
		{token.NAME, "node", 2, 1},
		{token.PUNCTUATOR, "(", 2, 5},
		{token.NAME, "id", 2, 6},
		{token.PUNCTUATOR, ":", 2, 8},
		{token.WHITE_SPACE, " ", 2, 9},
		{token.STRING_VALUE, `"foo"`, 2, 10},
		{token.PUNCTUATOR, ")", 2, 15},
		{token.WHITE_SPACE, " ", 2, 16},
		{token.PUNCTUATOR, "{", 2, 17},
		{token.LINE_TERMINATOR, "\r\n", 2, 18},
		{token.PUNCTUATOR, "...", 3, 1},
		{token.NAME, "frag", 3, 4},
		{token.PUNCTUATOR, "}", 3, 8},
		{token.LINE_TERMINATOR, "\r", 3, 9},
		{token.PUNCTUATOR, "}", 4, 1},
	} {
		require.True(t, l.Scan())
		assert.Equal(t, expected.Kind, l.Token())
		assert.Equal(t, expected.Literal, l.Literal())
		assert.Equal(t, expected.Line, l.Line())
		assert.Equal(t, expected.Column, l.Column())
	}
	assert.False(t, l.Scan())
	assert.Empty(t, l.Errors())
}

func TestLexer_IllegalCharacter(t *testing.T) {
	l := newTestLexer(`{😃}`, 0)
	var kinds []token.Kind
	var literals []string
	for l.Scan() {
		kinds = append(kinds, l.Token())
		literals = append(literals, l.Literal())
	}
	assert.Equal(t, []token.Kind{token.PUNCTUATOR, token.PUNCTUATOR}, kinds)
	assert.Equal(t, []string{"{", "}"}, literals)
	require.Len(t, l.Errors(), 1)
	assert.Equal(t, 1, l.Errors()[0].Position.Line)
	assert.Equal(t, 2, l.Errors()[0].Position.Column)
}

func TestLexer_IllegalUTF8Character(t *testing.T) {
	l := newTestLexer("\xc3\x28", 0)
	l.Scan()
	require.Len(t, l.Errors(), 1)
	assert.Equal(t, 1, l.Errors()[0].Position.Column)
}

func TestLexer_IncompleteEllipsis(t *testing.T) {
	l := newTestLexer(".foo", 0)
	assert.True(t, l.Scan())
	require.Len(t, l.Errors(), 1)
	assert.Equal(t, 2, l.Errors()[0].Position.Column)
	assert.Equal(t, "foo", l.Literal())
}

func TestLexer_Strings(t *testing.T) {
	cases := map[string]string{
		`"simple"`:                           `simple`,
		`" white space "`:                    ` white space `,
		`"quote \""`:                         `quote "`,
		`"escaped \n\r\b\t\f"`:                "escaped \n\r\b\t\f",
		`"slashes \\ \/"`:                     `slashes \ /`,
		`"unicode ሴ噸邫췯"`:  "unicode ሴ噸邫췯",
		`"""simple"""`:                        `simple`,
		`""" white space """`:                 ` white space `,
		`"""contains " quote"""`:               `contains " quote`,
		`"""multi` + "\n" + `line"""`:          "multi\nline",
	}
	for src, value := range cases {
		l := newTestLexer(src, ScanIgnored)
		assert.True(t, l.Scan())
		assert.Equal(t, src, l.Literal())
		assert.Equal(t, value, l.StringValue())
		assert.False(t, l.Scan())
		assert.Empty(t, l.Errors())
	}
}

func TestLexer_Unterminated(t *testing.T) {
	l := newTestLexer(`"foo`+"\n"+`"`, 0)
	assert.True(t, l.Scan())
	assert.Equal(t, `"foo`, l.Literal())
	require.NotEmpty(t, l.Errors())
	assert.Equal(t, 1, l.Errors()[0].Position.Line)
	assert.Equal(t, 5, l.Errors()[0].Position.Column)
}

func TestLexer_Ints(t *testing.T) {
	for _, src := range []string{"4", "-4", "9", "0"} {
		l := newTestLexer(src, ScanIgnored)
		assert.True(t, l.Scan())
		assert.Equal(t, token.INT_VALUE, l.Token())
		assert.Equal(t, src, l.Literal())
		assert.False(t, l.Scan())
		assert.Empty(t, l.Errors())
	}
}

func TestLexer_Floats(t *testing.T) {
	for _, src := range []string{
		"4.123", "-4.123", "0.123", "123e4", "123E4", "123e-4", "123e+4", "-123E4", "-123e-4",
	} {
		l := newTestLexer(src, ScanIgnored)
		assert.True(t, l.Scan())
		assert.Equal(t, token.FLOAT_VALUE, l.Token())
		assert.Equal(t, src, l.Literal())
		assert.False(t, l.Scan())
		assert.Empty(t, l.Errors())
	}

	t.Run("BadExponent", func(t *testing.T) {
		l := newTestLexer(`123ex`, 0)
		assert.True(t, l.Scan())
		assert.Equal(t, "123e", l.Literal())
		require.NotEmpty(t, l.Errors())
		assert.Equal(t, 5, l.Errors()[0].Position.Column)
	})
}

func TestLexer_BOM(t *testing.T) {
	l := newTestLexer("﻿foo", ScanIgnored)
	var kinds []token.Kind
	for l.Scan() {
		kinds = append(kinds, l.Token())
	}
	assert.Equal(t, []token.Kind{token.UNICODE_BOM, token.NAME}, kinds)
	assert.Empty(t, l.Errors())

	t.Run("IllegalPosition", func(t *testing.T) {
		l := newTestLexer("foo﻿", ScanIgnored)
		assert.True(t, l.Scan())
		assert.False(t, l.Scan())
		require.Len(t, l.Errors(), 1)
		assert.Equal(t, 4, l.Errors()[0].Position.Column)
	})
}

func TestLexer_SkipsIgnored(t *testing.T) {
	l := newTestLexer("{\n node {\n  #foo\n },\n}", 0)
	var kinds []token.Kind
	var literals []string
	for l.Scan() {
		kinds = append(kinds, l.Token())
		literals = append(literals, l.Literal())
	}
	assert.Equal(t, []token.Kind{
		token.PUNCTUATOR,
		token.NAME,
		token.PUNCTUATOR,
		token.PUNCTUATOR,
		token.PUNCTUATOR,
	}, kinds)
	assert.Equal(t, []string{"{", "node", "{", "}", "}"}, literals)
	assert.Empty(t, l.Errors())
}
