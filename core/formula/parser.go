// Package formula - Parser
// Recursive descent over the spreadsheet expression grammar:
//
//	expr   := term (("+" | "-") term)*
//	term   := factor (("*" | "/") factor)*
//	factor := "-" factor | number | cellref | call | "(" expr ")"
//	call   := ident "(" arg ("," arg)* ")"
//	arg    := expr | cellref ":" cellref
//
// Cell reference letters map over the ordered editable columns of the
// active schema (A = first column). They are bound to stable column
// keys here, at parse time, so an evaluated reference never depends on
// column positions again.
package formula

import (
	"strings"

	"github.com/shopspring/decimal"

	"ratecard/internal/errors"
)

// node is an expression tree node
type node interface{}

type numberNode struct {
	value decimal.Decimal
}

// refNode addresses one cell by stable column key and 1-based row number
type refNode struct {
	columnKey string
	row       int
}

// rangeNode addresses a same-column run of cells, inclusive on both ends
type rangeNode struct {
	columnKey string
	startRow  int
	endRow    int
}

type callNode struct {
	fn   string
	args []node
}

type binaryNode struct {
	op    string
	left  node
	right node
}

type unaryNode struct {
	operand node
}

// knownFunctions is the closed set of aggregate functions
var knownFunctions = map[string]bool{
	"SUM":   true,
	"AVG":   true,
	"MIN":   true,
	"MAX":   true,
	"COUNT": true,
}

// Formula is a parsed, column-key-bound expression ready for evaluation
type Formula struct {
	// Source is the original formula text, including the leading "="
	Source string

	root node
}

// columnBinder resolves a reference letter to a stable column key
type columnBinder func(letter string) (string, error)

// bindToColumns maps A to the first editable column, B to the second, and
// so on. Letters beyond the column list are rejected.
func bindToColumns(columns []string) columnBinder {
	return func(letter string) (string, error) {
		index := columnIndex(letter)
		if index < 0 || index >= len(columns) {
			return "", errors.Newf(errors.TypeFormula, "unknown column reference %q", letter)
		}
		return columns[index], nil
	}
}

// bindLoose accepts any single-letter reference, keyed by the letter
// itself. Used by syntax validation when no schema is at hand.
func bindLoose() columnBinder {
	return func(letter string) (string, error) {
		if columnIndex(letter) < 0 {
			return "", errors.Newf(errors.TypeFormula, "unknown column reference %q", letter)
		}
		return letter, nil
	}
}

// columnIndex converts a reference letter to a zero-based column index.
// Only single letters are supported; a worksheet never has 27 columns.
func columnIndex(letter string) int {
	if len(letter) != 1 {
		return -1
	}
	return int(letter[0] - 'A')
}

// Parse parses a formula string against the ordered editable column
// keys of the active schema. The string must begin with "=".
func Parse(src string, columns []string) (*Formula, error) {
	return parse(src, bindToColumns(columns))
}

func parse(src string, bind columnBinder) (*Formula, error) {
	trimmed := strings.TrimSpace(src)
	if !strings.HasPrefix(trimmed, "=") {
		return nil, errors.Formula("formula must start with \"=\"")
	}
	body := trimmed[1:]
	if strings.TrimSpace(body) == "" {
		return nil, errors.Formula("formula is empty")
	}
	if strings.Contains(body, "//") || strings.Contains(body, "/*") {
		return nil, errors.Formula("formula contains a comment sequence")
	}

	tokens, err := lex(body)
	if err != nil {
		return nil, err
	}

	p := &parser{tokens: tokens, bind: bind}
	root, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokEOF {
		return nil, errors.Newf(errors.TypeFormula, "unexpected %q at position %d", p.peek().text, p.peek().pos)
	}

	return &Formula{Source: trimmed, root: root}, nil
}

type parser struct {
	tokens []token
	pos    int
	bind   columnBinder
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) expect(kind tokenKind, what string) (token, error) {
	t := p.next()
	if t.kind != kind {
		return t, errors.Newf(errors.TypeFormula, "expected %s at position %d", what, t.pos)
	}
	return t, nil
}

func (p *parser) parseExpr() (node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek().kind {
		case tokPlus, tokMinus:
			op := p.next().text
			right, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			left = binaryNode{op: op, left: left, right: right}
		default:
			return left, nil
		}
	}
}

func (p *parser) parseTerm() (node, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek().kind {
		case tokStar, tokSlash:
			op := p.next().text
			right, err := p.parseFactor()
			if err != nil {
				return nil, err
			}
			left = binaryNode{op: op, left: left, right: right}
		default:
			return left, nil
		}
	}
}

func (p *parser) parseFactor() (node, error) {
	t := p.peek()
	switch t.kind {
	case tokMinus:
		p.next()
		operand, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return unaryNode{operand: operand}, nil
	case tokNumber:
		p.next()
		value, err := decimal.NewFromString(t.text)
		if err != nil {
			return nil, errors.Newf(errors.TypeFormula, "malformed number %q", t.text)
		}
		return numberNode{value: value}, nil
	case tokCellRef:
		p.next()
		return p.bindRef(t)
	case tokIdent:
		p.next()
		return p.parseCall(t)
	case tokLParen:
		p.next()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen, "\")\""); err != nil {
			return nil, err
		}
		return inner, nil
	default:
		return nil, errors.Newf(errors.TypeFormula, "unexpected %q at position %d", t.text, t.pos)
	}
}

func (p *parser) parseCall(name token) (node, error) {
	if !knownFunctions[name.text] {
		return nil, errors.Newf(errors.TypeFormula, "unknown function %q", name.text)
	}
	if _, err := p.expect(tokLParen, "\"(\" after function name"); err != nil {
		return nil, err
	}

	var args []node
	if p.peek().kind == tokRParen {
		return nil, errors.Newf(errors.TypeFormula, "%s requires at least one argument", name.text)
	}
	for {
		arg, err := p.parseArg()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.peek().kind == tokComma {
			p.next()
			continue
		}
		break
	}
	if _, err := p.expect(tokRParen, "\")\""); err != nil {
		return nil, err
	}
	return callNode{fn: name.text, args: args}, nil
}

// parseArg parses a function argument: a range when a cell reference is
// followed by a colon, otherwise a plain expression
func (p *parser) parseArg() (node, error) {
	if p.peek().kind == tokCellRef {
		first := p.next()
		if p.peek().kind != tokColon {
			// A lone reference may still continue as an expression
			ref, err := p.bindRef(first)
			if err != nil {
				return nil, err
			}
			return p.continueExpr(ref)
		}
		p.next()
		second, err := p.expect(tokCellRef, "cell reference after \":\"")
		if err != nil {
			return nil, err
		}
		return p.bindRange(first, second)
	}
	return p.parseExpr()
}

// continueExpr resumes expression parsing with an already-parsed operand
func (p *parser) continueExpr(left node) (node, error) {
	for {
		switch p.peek().kind {
		case tokStar, tokSlash:
			op := p.next().text
			right, err := p.parseFactor()
			if err != nil {
				return nil, err
			}
			left = binaryNode{op: op, left: left, right: right}
		case tokPlus, tokMinus:
			op := p.next().text
			right, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			left = binaryNode{op: op, left: left, right: right}
		default:
			return left, nil
		}
	}
}

func (p *parser) bindRef(t token) (node, error) {
	letter, row, err := splitRef(t)
	if err != nil {
		return nil, err
	}
	key, err := p.bind(letter)
	if err != nil {
		return nil, err
	}
	return refNode{columnKey: key, row: row}, nil
}

func (p *parser) bindRange(first, second token) (node, error) {
	startLetter, startRow, err := splitRef(first)
	if err != nil {
		return nil, err
	}
	endLetter, endRow, err := splitRef(second)
	if err != nil {
		return nil, err
	}
	if startLetter != endLetter {
		return nil, errors.Newf(errors.TypeFormula, "range %s:%s must stay in one column", first.text, second.text)
	}
	if endRow < startRow {
		startRow, endRow = endRow, startRow
	}
	key, err := p.bind(startLetter)
	if err != nil {
		return nil, err
	}
	return rangeNode{columnKey: key, startRow: startRow, endRow: endRow}, nil
}

// splitRef splits a cell reference token into its letter and row parts
func splitRef(t token) (string, int, error) {
	i := 0
	for i < len(t.text) && isLetter(t.text[i]) {
		i++
	}
	letter := t.text[:i]
	row := 0
	for _, c := range t.text[i:] {
		row = row*10 + int(c-'0')
	}
	if row < 1 {
		return "", 0, errors.Newf(errors.TypeFormula, "row numbers start at 1, got %q", t.text)
	}
	return letter, row, nil
}
