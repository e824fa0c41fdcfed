package filter

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"tabproc/internal/dataset"
)

// Expression is a parsed row-filter expression.
type Expression struct {
	root    node
	columns []string
	source  string
}

// Parse compiles the expression source into an evaluable tree.
// Grammar, loosest to tightest binding:
//
//	expr   := and { "or" and }
//	and    := not { "and" not }
//	not    := "not" not | cmp
//	cmp    := operand [ op operand | "in" "(" literal {"," literal} ")" ]
//	operand:= column | literal | "(" expr ")"
func Parse(input string) (*Expression, error) {
	if strings.TrimSpace(input) == "" {
		return nil, fmt.Errorf("empty filter expression")
	}

	tokens, err := lex(input)
	if err != nil {
		return nil, err
	}

	p := &parser{tokens: tokens, columns: make(map[string]struct{})}
	root, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokenEOF {
		return nil, fmt.Errorf("unexpected %q at position %d", p.peek().text, p.peek().pos)
	}

	columns := make([]string, 0, len(p.columns))
	for name := range p.columns {
		columns = append(columns, name)
	}
	sort.Strings(columns)

	return &Expression{root: root, columns: columns, source: input}, nil
}

// Columns returns the column names referenced by the expression,
// sorted.
func (e *Expression) Columns() []string {
	return e.columns
}

// Source returns the original expression text.
func (e *Expression) Source() string {
	return e.source
}

// Row resolves a column name to the cell value of the row under
// evaluation.
type Row func(column string) dataset.Value

// Matches evaluates the expression against one row.
func (e *Expression) Matches(row Row) bool {
	return truthy(e.root.eval(row))
}

type parser struct {
	tokens  []token
	pos     int
	columns map[string]struct{}
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.kind != tokenEOF {
		p.pos++
	}
	return t
}

func (p *parser) expect(kind tokenKind, what string) (token, error) {
	t := p.next()
	if t.kind != kind {
		return t, fmt.Errorf("expected %s at position %d, got %q", what, t.pos, t.text)
	}
	return t, nil
}

func (p *parser) parseOr() (node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokenOr {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &orNode{left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (node, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokenAnd {
		p.next()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &andNode{left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseNot() (node, error) {
	if p.peek().kind == tokenNot {
		p.next()
		child, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &notNode{child: child}, nil
	}
	return p.parseComparison()
}

func (p *parser) parseComparison() (node, error) {
	left, err := p.parseOperand()
	if err != nil {
		return nil, err
	}

	switch p.peek().kind {
	case tokenOp:
		op := p.next().text
		right, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		return &cmpNode{op: op, left: left, right: right}, nil

	case tokenIn:
		p.next()
		if _, err := p.expect(tokenLParen, "'('"); err != nil {
			return nil, err
		}
		var items []dataset.Value
		for {
			item, err := p.parseLiteral()
			if err != nil {
				return nil, err
			}
			items = append(items, item)
			if p.peek().kind != tokenComma {
				break
			}
			p.next()
		}
		if _, err := p.expect(tokenRParen, "')'"); err != nil {
			return nil, err
		}
		return &inNode{operand: left, items: items}, nil
	}

	return left, nil
}

func (p *parser) parseOperand() (node, error) {
	t := p.peek()
	switch t.kind {
	case tokenLParen:
		p.next()
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokenRParen, "')'"); err != nil {
			return nil, err
		}
		return inner, nil

	case tokenIdent:
		p.next()
		p.columns[t.text] = struct{}{}
		return &columnNode{name: t.text}, nil

	case tokenNumber, tokenString, tokenTrue, tokenFalse:
		v, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		return &literalNode{value: v}, nil
	}

	return nil, fmt.Errorf("expected operand at position %d, got %q", t.pos, t.text)
}

func (p *parser) parseLiteral() (dataset.Value, error) {
	t := p.next()
	switch t.kind {
	case tokenNumber:
		if i, err := strconv.ParseInt(t.text, 10, 64); err == nil {
			return dataset.Int(i), nil
		}
		f, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return dataset.Null(), fmt.Errorf("invalid number %q at position %d", t.text, t.pos)
		}
		return dataset.Float(f), nil
	case tokenString:
		return dataset.String(t.text), nil
	case tokenTrue:
		return dataset.Bool(true), nil
	case tokenFalse:
		return dataset.Bool(false), nil
	}
	return dataset.Null(), fmt.Errorf("expected literal at position %d, got %q", t.pos, t.text)
}
