package prompt

import (
	"errors"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	errUnterminated = errors.New("unterminated string literal")
	errUnbalanced   = errors.New("unbalanced brackets")
)

type tokenKind int

const (
	tokName tokenKind = iota
	tokString
	tokOp
	tokOther
)

type token struct {
	kind tokenKind
	text string // identifier, operator, or decoded string value
	// plain is set on string tokens that evaluate to a str constant
	// (not bytes, not an f-string).
	plain bool
}

func (t token) isOp(op string) bool {
	return t.kind == tokOp && t.text == op
}

var closers = map[rune]rune{')': '(', ']': '[', '}': '{'}

// tokenize splits Python source into the coarse tokens LiteralPrompts needs.
// Comments and whitespace are dropped; numbers collapse into tokOther.
func tokenize(src string) ([]token, error) {
	var (
		tokens []token
		stack  []rune
	)

	i := 0
	for i < len(src) {
		r, size := utf8.DecodeRuneInString(src[i:])

		switch {
		case r == '#':
			for i < len(src) && src[i] != '\n' {
				i++
			}

		case unicode.IsSpace(r) || r == '\\':
			// Explicit line joins carry no meaning for us.
			i += size

		case r == '\'' || r == '"':
			tok, n, err := readString(src[i:], "")
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
			i += n

		case isIdentStart(r):
			start := i
			for i < len(src) {
				r2, s2 := utf8.DecodeRuneInString(src[i:])
				if !isIdentPart(r2) {
					break
				}
				i += s2
			}
			word := src[start:i]
			if i < len(src) && (src[i] == '\'' || src[i] == '"') && isStringPrefix(word) {
				tok, n, err := readString(src[i:], strings.ToLower(word))
				if err != nil {
					return nil, err
				}
				tokens = append(tokens, tok)
				i += n
				continue
			}
			tokens = append(tokens, token{kind: tokName, text: word})

		case unicode.IsDigit(r):
			for i < len(src) {
				r2, s2 := utf8.DecodeRuneInString(src[i:])
				if !isIdentPart(r2) && r2 != '.' {
					break
				}
				i += s2
			}
			tokens = append(tokens, token{kind: tokOther})

		default:
			switch r {
			case '(', '[', '{':
				stack = append(stack, r)
			case ')', ']', '}':
				if len(stack) == 0 || stack[len(stack)-1] != closers[r] {
					return nil, errUnbalanced
				}
				stack = stack[:len(stack)-1]
			}
			tokens = append(tokens, token{kind: tokOp, text: string(r)})
			i += size
		}
	}

	if len(stack) != 0 {
		return nil, errUnbalanced
	}
	return tokens, nil
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isStringPrefix(word string) bool {
	switch strings.ToLower(word) {
	case "r", "u", "b", "f", "br", "rb", "fr", "rf":
		return true
	}
	return false
}

// readString consumes one string literal at the start of s (s begins at the
// opening quote) and returns the token and the number of bytes consumed.
func readString(s, prefix string) (token, int, error) {
	raw := strings.Contains(prefix, "r")
	fstring := strings.Contains(prefix, "f")
	bytesLit := strings.Contains(prefix, "b")

	quote := s[:1]
	if strings.HasPrefix(s, strings.Repeat(quote, 3)) {
		quote = strings.Repeat(quote, 3)
	}
	triple := len(quote) == 3

	i := len(quote)
	depth := 0 // f-string replacement field nesting
	for i < len(s) {
		c := s[i]
		switch {
		case c == '\\':
			i += 2
			continue
		case !triple && c == '\n':
			return token{}, 0, errUnterminated
		case fstring && c == '{':
			if depth == 0 && strings.HasPrefix(s[i:], "{{") {
				i += 2
				continue
			}
			depth++
		case fstring && c == '}' && depth > 0:
			depth--
		case depth == 0 && strings.HasPrefix(s[i:], quote):
			body := s[len(quote):i]
			tok := token{kind: tokString, plain: !fstring && !bytesLit}
			if tok.plain {
				if raw {
					tok.text = body
				} else {
					tok.text, tok.plain = unescape(body)
				}
			}
			return tok, i + len(quote), nil
		}
		i++
	}
	return token{}, 0, errUnterminated
}

// unescape decodes Python backslash escapes in a non-raw str literal.
// Unknown escapes are kept verbatim, as Python does. It fails only on a
// \N{...} escape naming no known character.
func unescape(body string) (string, bool) {
	if !strings.Contains(body, `\`) {
		return body, true
	}

	var b strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i+1 >= len(body) {
			b.WriteByte(c)
			continue
		}
		i++
		switch e := body[i]; e {
		case '\n':
			// line continuation inside the literal
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'a':
			b.WriteByte('\a')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case '\\', '\'', '"':
			b.WriteByte(e)
		case 'x':
			i = writeCodePoint(&b, body, i, 2)
		case 'u':
			i = writeCodePoint(&b, body, i, 4)
		case 'U':
			i = writeCodePoint(&b, body, i, 8)
		case 'N':
			end, ok := writeNamed(&b, body, i)
			if !ok {
				return "", false
			}
			i = end
		case '0', '1', '2', '3', '4', '5', '6', '7':
			j := i
			for j < len(body) && j < i+3 && body[j] >= '0' && body[j] <= '7' {
				j++
			}
			n, _ := strconv.ParseUint(body[i:j], 8, 32)
			b.WriteRune(rune(n))
			i = j - 1
		default:
			b.WriteByte('\\')
			b.WriteByte(e)
		}
	}
	return b.String(), true
}

// writeNamed decodes the {name} following body[i] and returns the index of
// the closing brace.
func writeNamed(b *strings.Builder, body string, i int) (int, bool) {
	if i+1 >= len(body) || body[i+1] != '{' {
		return i, false
	}
	end := strings.IndexByte(body[i+1:], '}')
	if end < 0 {
		return i, false
	}
	end += i + 1
	r, ok := lookupName(body[i+2 : end])
	if !ok {
		return i, false
	}
	b.WriteRune(r)
	return end, true
}

// writeCodePoint decodes width hex digits following body[i] and returns the
// index of the last byte consumed. Malformed escapes are copied through.
func writeCodePoint(b *strings.Builder, body string, i, width int) int {
	end := i + 1 + width
	if end > len(body) {
		b.WriteByte('\\')
		b.WriteByte(body[i])
		return i
	}
	n, err := strconv.ParseUint(body[i+1:end], 16, 32)
	if err != nil {
		b.WriteByte('\\')
		b.WriteByte(body[i])
		return i
	}
	b.WriteRune(rune(n))
	return end - 1
}
