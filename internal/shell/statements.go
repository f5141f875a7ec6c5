package shell

import (
	"strings"
	"unicode"
)

// SplitStatements splits src on top-level semicolons. Quoted strings,
// quoted identifiers, comments and trigger bodies are kept intact.
// rest holds a trailing statement that is not terminated yet; it is
// empty when only whitespace or comments remain.
func SplitStatements(src string) (stmts []string, rest string) {
	var (
		start   int
		dirty   bool
		words   []string
		current strings.Builder
	)

	endWord := func() {
		if current.Len() > 0 {
			words = append(words, strings.ToUpper(current.String()))
			current.Reset()
		}
	}

	for i := 0; i < len(src); i++ {
		c := src[i]
		switch {
		case c == '\'' || c == '"' || c == '`':
			endWord()
			dirty = true
			i = closeQuote(src, i+1, c)
		case c == '[':
			endWord()
			dirty = true
			if j := strings.IndexByte(src[i+1:], ']'); j >= 0 {
				i += j + 1
			} else {
				i = len(src)
			}
		case c == '-' && i+1 < len(src) && src[i+1] == '-':
			endWord()
			if j := strings.IndexByte(src[i:], '\n'); j >= 0 {
				i += j
			} else {
				i = len(src)
			}
		case c == '/' && i+1 < len(src) && src[i+1] == '*':
			endWord()
			if j := strings.Index(src[i+2:], "*/"); j >= 0 {
				i += j + 3
			} else {
				// unterminated comment keeps the statement open
				dirty = true
				i = len(src)
			}
		case c == ';':
			endWord()
			if isTrigger(words) && (len(words) == 0 || words[len(words)-1] != "END") {
				continue
			}
			if stmt := strings.TrimSpace(src[start:i]); dirty && stmt != "" {
				stmts = append(stmts, stmt)
			}
			start = i + 1
			dirty = false
			words = words[:0]
		case isWordByte(c):
			current.WriteByte(c)
			dirty = true
		default:
			endWord()
			if !unicode.IsSpace(rune(c)) {
				dirty = true
			}
		}
	}

	if dirty {
		rest = strings.TrimSpace(src[start:])
	}
	return stmts, rest
}

// IsComplete reports whether src ends with a terminated statement.
func IsComplete(src string) bool {
	stmts, rest := SplitStatements(src)
	return len(stmts) > 0 && rest == ""
}

// closeQuote returns the index of the quote closing a literal opened
// just before from. Doubled quotes are escapes.
func closeQuote(src string, from int, q byte) int {
	for i := from; i < len(src); i++ {
		if src[i] != q {
			continue
		}
		if i+1 < len(src) && src[i+1] == q {
			i++
			continue
		}
		return i
	}
	return len(src)
}

func isWordByte(c byte) bool {
	return c == '_' || c >= 0x80 || unicode.IsLetter(rune(c)) || unicode.IsDigit(rune(c))
}

// isTrigger matches CREATE [TEMP|TEMPORARY] TRIGGER.
func isTrigger(words []string) bool {
	if len(words) < 2 || words[0] != "CREATE" {
		return false
	}
	if words[1] == "TRIGGER" {
		return true
	}
	return len(words) > 2 && (words[1] == "TEMP" || words[1] == "TEMPORARY") && words[2] == "TRIGGER"
}
