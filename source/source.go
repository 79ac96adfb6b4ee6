// Package source wraps GraphQL document text with the line/column bookkeeping the lexer,
// parser, and error reporting all need.
package source

import "github.com/kjhughes/gql/token"

// Source is an immutable named chunk of GraphQL document text.
type Source struct {
	Name string
	Body string

	// lineOffsets[i] is the byte offset at which line i+1 begins.
	lineOffsets []int
}

// New wraps body as a Source. name is typically a file path or "GraphQL request", used only
// for diagnostics.
func New(name, body string) *Source {
	s := &Source{Name: name, Body: body}
	s.lineOffsets = append(s.lineOffsets, 0)
	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '\n':
			s.lineOffsets = append(s.lineOffsets, i+1)
		case '\r':
			if i+1 < len(body) && body[i+1] == '\n' {
				i++
			}
			s.lineOffsets = append(s.lineOffsets, i+1)
		}
	}
	return s
}

// Position computes the line and column for a byte offset into Body. Columns count runes,
// not bytes, per the GraphQL spec's definition of SourceLocation.
func (s *Source) Position(offset int) token.Position {
	line := 1
	for i := len(s.lineOffsets) - 1; i >= 0; i-- {
		if s.lineOffsets[i] <= offset {
			line = i + 1
			lineStart := s.lineOffsets[i]
			column := 1
			for _, r := range s.Body[lineStart:offset] {
				_ = r
				column++
			}
			return token.Position{Offset: offset, Line: line, Column: column}
		}
	}
	return token.Position{Offset: offset, Line: line, Column: 1}
}
