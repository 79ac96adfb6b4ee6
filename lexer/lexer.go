// Package lexer scans GraphQL document text into a stream of tokens, following the
// productions in the GraphQL specification's Language section.
package lexer

import (
	"fmt"
	"unicode/utf8"

	"github.com/kjhughes/gql/source"
	"github.com/kjhughes/gql/token"
)

// Error is a lexical error with the position at which it occurred.
type Error struct {
	Message  string
	Position token.Position
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Position, e.Message)
}

// Mode controls which token kinds Scan surfaces.
type Mode uint

const (
	// ScanIgnored causes whitespace, commas, comments, line terminators, and the byte order
	// mark to be returned as tokens instead of being silently skipped.
	ScanIgnored Mode = 1 << iota
)

const maxErrors = 10

// Lexer scans a single Source on demand; call Scan repeatedly until it returns false.
type Lexer struct {
	src  *source.Source
	mode Mode

	offset int
	line   int
	column int

	errors []*Error

	nextRune     rune
	nextRuneSize int

	kind             token.Kind
	tokenOffset      int
	tokenLength      int
	tokenPosition    token.Position
	tokenStringValue string
}

// New creates a Lexer over src.
func New(src *source.Source, mode Mode) *Lexer {
	l := &Lexer{
		src:    src,
		mode:   mode,
		line:   1,
		column: 1,
	}
	l.readNextRune()
	return l
}

// Errors returns the lexical errors encountered so far, in order.
func (l *Lexer) Errors() []*Error {
	return l.errors
}

func (l *Lexer) errorf(format string, args ...interface{}) {
	l.errors = append(l.errors, &Error{
		Message:  fmt.Sprintf(format, args...),
		Position: token.Position{Offset: l.offset, Line: l.line, Column: l.column},
	})
}

func (l *Lexer) body() string {
	return l.src.Body
}

func (l *Lexer) readNextRune() {
	body := l.body()
	if l.isDone() {
		l.nextRune = -1
		l.nextRuneSize = 0
		return
	}
	if r, size := utf8.DecodeRuneInString(body[l.offset:]); r == utf8.RuneError && size != 0 {
		l.nextRune = r
		l.nextRuneSize = 1
	} else {
		l.nextRune = r
		l.nextRuneSize = size
	}
}

func (l *Lexer) peek() rune {
	r, _ := utf8.DecodeRuneInString(l.body()[l.offset+l.nextRuneSize:])
	return r
}

func (l *Lexer) consumeRune() rune {
	r := l.nextRune
	l.offset += l.nextRuneSize
	if r == '\n' {
		l.line++
		l.column = 1
	} else if r == '\r' {
		// A "\r\n" pair counts as one line terminator; the "\n" advances the line.
		if l.offset >= len(l.body()) || l.body()[l.offset] != '\n' {
			l.line++
			l.column = 1
		}
	} else {
		l.column++
	}
	l.readNextRune()
	return r
}

func (l *Lexer) consumeName() bool {
	if r := l.nextRune; r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
		l.consumeRune()
		for !l.isDone() {
			if r := l.nextRune; r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
				l.consumeRune()
			} else {
				break
			}
		}
		return true
	}
	return false
}

func isSourceCharacter(r rune) bool {
	return r == '\t' || r == '\n' || r == '\r' || (r >= 0x20 && r <= 0x10ffff)
}

func (l *Lexer) isDone() bool {
	return len(l.errors) >= maxErrors || len(l.body()) == l.offset
}

// Scan advances to the next token and reports whether one was found. It returns false at
// end of input or once the error budget is exhausted.
func (l *Lexer) Scan() bool {
	for {
		if l.isDone() {
			return false
		}

		l.kind = token.INVALID
		l.tokenOffset = l.offset
		startLine, startColumn := l.line, l.column

		switch l.nextRune {
		case '\t', ' ':
			l.consumeRune()
			l.kind = token.WHITE_SPACE
		case '!', '$', '(', ')', ':', '=', '@', '[', ']', '{', '|', '}':
			l.consumeRune()
			l.kind = token.PUNCTUATOR
		case ',':
			l.consumeRune()
			l.kind = token.COMMA
		case '\r', '\n':
			if l.consumeRune() == '\r' && l.nextRune == '\n' {
				l.consumeRune()
			}
			l.kind = token.LINE_TERMINATOR
		case '#':
			for l.nextRune != '\r' && l.nextRune != '\n' && !l.isDone() {
				l.consumeRune()
			}
			l.kind = token.COMMENT
		case '.':
			l.consumeRune()
			if l.nextRune == '.' && l.peek() == '.' {
				l.consumeRune()
				l.consumeRune()
				l.kind = token.PUNCTUATOR
			} else {
				l.errorf("illegal character")
			}
		case '"':
			l.tokenStringValue = l.consumeStringValue()
			l.kind = token.STRING_VALUE
		case utf8.RuneError:
			l.errorf("invalid utf-8 character")
			l.consumeRune()
		case 0xfeff:
			if l.offset == 0 {
				l.kind = token.UNICODE_BOM
			} else {
				l.errorf("illegal byte order mark")
			}
			l.consumeRune()
		default:
			if l.consumeIntegerPart() {
				if l.consumeFractionalPart() {
					l.consumeExponentPart()
					l.kind = token.FLOAT_VALUE
				} else if l.consumeExponentPart() {
					l.kind = token.FLOAT_VALUE
				} else {
					l.kind = token.INT_VALUE
				}
			} else if l.consumeName() {
				l.kind = token.NAME
			} else {
				l.errorf("illegal character %#U", l.nextRune)
				l.consumeRune()
			}
		}

		if l.kind == token.INVALID || (l.kind.IsIgnored() && (l.mode&ScanIgnored) == 0) {
			continue
		}

		l.tokenLength = l.offset - l.tokenOffset
		l.tokenPosition = token.Position{Offset: l.tokenOffset, Line: startLine, Column: startColumn}
		return true
	}
}

// Token returns the kind of the most recently scanned token.
func (l *Lexer) Token() token.Kind {
	return l.kind
}

// Position returns the position at which the most recently scanned token begins.
func (l *Lexer) Position() token.Position {
	return l.tokenPosition
}

func (l *Lexer) Line() int {
	return l.tokenPosition.Line
}

func (l *Lexer) Column() int {
	return l.tokenPosition.Column
}

// Literal returns the raw source text of the most recently scanned token.
func (l *Lexer) Literal() string {
	return l.body()[l.tokenOffset : l.tokenOffset+l.tokenLength]
}

// StringValue returns the decoded value of a STRING_VALUE token (escapes resolved, block
// string indentation stripped), or the literal text for any other token kind.
func (l *Lexer) StringValue() string {
	if l.kind == token.STRING_VALUE {
		return l.tokenStringValue
	}
	return l.Literal()
}
