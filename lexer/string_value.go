package lexer

import "strings"

func hexRuneValue(r rune) rune {
	if r >= '0' && r <= '9' {
		return r - '0'
	} else if r >= 'a' && r <= 'f' {
		return 10 + r - 'a'
	} else if r >= 'A' && r <= 'F' {
		return 10 + r - 'A'
	}
	return -1
}

// blockStringValue strips the common leading indentation and leading/trailing blank lines
// from a raw triple-quoted string's content, per the BlockStringValue algorithm.
func blockStringValue(rawValue string) string {
	rawValue = strings.ReplaceAll(rawValue, "\r\n", "\n")
	rawValue = strings.ReplaceAll(rawValue, "\r", "\n")
	lines := strings.Split(rawValue, "\n")

	commonIndent := -1
	for _, line := range lines[1:] {
		indent := 0
		for _, r := range line {
			if r != ' ' && r != '\t' {
				break
			}
			indent++
		}
		if indent < len(line) && (commonIndent == -1 || indent < commonIndent) {
			commonIndent = indent
		}
	}

	if commonIndent > 0 {
		for i, line := range lines {
			if i > 0 && len(line) >= commonIndent {
				lines[i] = line[commonIndent:]
			}
		}
	}

	for len(lines) > 0 {
		if strings.IndexFunc(lines[0], func(r rune) bool { return r != ' ' && r != '\t' }) == -1 {
			lines = lines[1:]
		} else if len(lines) > 1 && strings.IndexFunc(lines[len(lines)-1], func(r rune) bool { return r != ' ' && r != '\t' }) == -1 {
			lines = lines[:len(lines)-1]
		} else {
			break
		}
	}

	return strings.Join(lines, "\n")
}

func (l *Lexer) consumeStringValue() string {
	l.consumeRune() // '"'

	isBlock := false
	if l.nextRune == '"' && l.peek() == '"' {
		l.consumeRune()
		l.consumeRune()
		isBlock = true
	}

	value := ""

	terminated := false
	isEscaped := false
	for !terminated && !l.isDone() {
		if isEscaped {
			if isBlock {
				if r := l.consumeRune(); r == '"' && l.nextRune == '"' && l.peek() == '"' {
					l.consumeRune()
					l.consumeRune()
					value += `"""`
				} else {
					value += string(`\`) + string(r)
				}
			} else {
				switch r := l.consumeRune(); r {
				case '"', '\\', '/':
					value += string(r)
				case 'b':
					value += string('\b')
				case 'f':
					value += string('\f')
				case 'n':
					value += string('\n')
				case 'r':
					value += string('\r')
				case 't':
					value += string('\t')
				case 'u':
					var code rune
					for i := 0; i < 4; i++ {
						if v := hexRuneValue(l.nextRune); v < 0 {
							l.errorf("illegal unicode escape sequence")
							break
						} else {
							code = (code << 4) | v
							l.consumeRune()
						}
					}
					value += string(code)
				default:
					l.errorf("illegal escape sequence")
				}
			}
			isEscaped = false
			continue
		}

		if l.nextRune == '\n' || l.nextRune == '\r' {
			if !isBlock {
				break
			}
			value += string(l.nextRune)
			if l.consumeRune() == '\r' && l.nextRune == '\n' {
				value += string(l.consumeRune())
			}
		} else if l.nextRune == '\\' {
			l.consumeRune()
			isEscaped = true
		} else if l.nextRune == '"' {
			l.consumeRune()
			if isBlock {
				if l.nextRune == '"' && l.peek() == '"' {
					l.consumeRune()
					l.consumeRune()
					terminated = true
				} else {
					value += `"`
				}
			} else {
				terminated = true
			}
		} else if !isSourceCharacter(l.nextRune) {
			l.errorf("illegal character %#U in string", l.nextRune)
			l.consumeRune()
		} else {
			value += string(l.nextRune)
			l.consumeRune()
		}
	}

	if !terminated {
		l.errorf("unterminated string")
	}

	if isBlock {
		value = blockStringValue(value)
	}

	return value
}
