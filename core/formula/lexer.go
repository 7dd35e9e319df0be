// Package formula - Tokenizer
package formula

import (
	"strings"

	"ratecard/internal/errors"
)

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokIdent            // function name, letters only
	tokCellRef          // letters followed by digits, e.g. B3
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokLParen
	tokRParen
	tokComma
	tokColon
	tokEOF
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

// lex tokenizes the expression body (without the leading "=")
func lex(src string) ([]token, error) {
	var tokens []token
	i := 0

	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c == '+':
			tokens = append(tokens, token{tokPlus, "+", i})
			i++
		case c == '-':
			tokens = append(tokens, token{tokMinus, "-", i})
			i++
		case c == '*':
			tokens = append(tokens, token{tokStar, "*", i})
			i++
		case c == '/':
			tokens = append(tokens, token{tokSlash, "/", i})
			i++
		case c == '(':
			tokens = append(tokens, token{tokLParen, "(", i})
			i++
		case c == ')':
			tokens = append(tokens, token{tokRParen, ")", i})
			i++
		case c == ',':
			tokens = append(tokens, token{tokComma, ",", i})
			i++
		case c == ':':
			tokens = append(tokens, token{tokColon, ":", i})
			i++
		case c >= '0' && c <= '9' || c == '.':
			start := i
			sawDot := false
			for i < len(src) && (src[i] >= '0' && src[i] <= '9' || src[i] == '.') {
				if src[i] == '.' {
					if sawDot {
						return nil, errors.Newf(errors.TypeFormula, "malformed number at position %d", start)
					}
					sawDot = true
				}
				i++
			}
			text := src[start:i]
			if text == "." {
				return nil, errors.Newf(errors.TypeFormula, "malformed number at position %d", start)
			}
			tokens = append(tokens, token{tokNumber, text, start})
		case isLetter(c):
			start := i
			for i < len(src) && isLetter(src[i]) {
				i++
			}
			letters := src[start:i]
			if i < len(src) && src[i] >= '0' && src[i] <= '9' {
				digitStart := i
				for i < len(src) && src[i] >= '0' && src[i] <= '9' {
					i++
				}
				tokens = append(tokens, token{tokCellRef, strings.ToUpper(letters) + src[digitStart:i], start})
			} else {
				tokens = append(tokens, token{tokIdent, strings.ToUpper(letters), start})
			}
		default:
			return nil, errors.Newf(errors.TypeFormula, "unexpected character %q at position %d", string(c), i)
		}
	}

	tokens = append(tokens, token{tokEOF, "", len(src)})
	return tokens, nil
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
