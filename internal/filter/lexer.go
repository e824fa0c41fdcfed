// Package filter implements the row-filter expression language: a
// deliberately small grammar of comparisons, membership tests, and
// boolean connectives, parsed to an expression tree and evaluated per
// row. Keeping the evaluator bounded here closes the arbitrary-code
// execution risk of delegating to a general expression engine.
package filter

import (
	"fmt"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenIdent
	tokenNumber
	tokenString
	tokenOp     // < <= > >= == !=
	tokenAnd
	tokenOr
	tokenNot
	tokenIn
	tokenTrue
	tokenFalse
	tokenLParen
	tokenRParen
	tokenComma
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

// lex splits the expression into tokens. Keywords are matched
// case-insensitively.
func lex(input string) ([]token, error) {
	var tokens []token
	runes := []rune(input)
	i := 0

	for i < len(runes) {
		r := runes[i]

		switch {
		case unicode.IsSpace(r):
			i++

		case r == '(':
			tokens = append(tokens, token{tokenLParen, "(", i})
			i++
		case r == ')':
			tokens = append(tokens, token{tokenRParen, ")", i})
			i++
		case r == ',':
			tokens = append(tokens, token{tokenComma, ",", i})
			i++

		case r == '<' || r == '>':
			op := string(r)
			if i+1 < len(runes) && runes[i+1] == '=' {
				op += "="
				i++
			}
			tokens = append(tokens, token{tokenOp, op, i})
			i++
		case r == '=' || r == '!':
			if i+1 >= len(runes) || runes[i+1] != '=' {
				return nil, fmt.Errorf("unexpected character %q at position %d", r, i)
			}
			tokens = append(tokens, token{tokenOp, string(r) + "=", i})
			i += 2

		case r == '\'' || r == '"':
			quote := r
			j := i + 1
			for j < len(runes) && runes[j] != quote {
				j++
			}
			if j >= len(runes) {
				return nil, fmt.Errorf("unterminated string literal at position %d", i)
			}
			tokens = append(tokens, token{tokenString, string(runes[i+1 : j]), i})
			i = j + 1

		case unicode.IsDigit(r) || (r == '-' && i+1 < len(runes) && unicode.IsDigit(runes[i+1]) && startsOperand(tokens)):
			j := i
			if runes[j] == '-' {
				j++
			}
			for j < len(runes) && (unicode.IsDigit(runes[j]) || runes[j] == '.' || runes[j] == 'e' || runes[j] == 'E' ||
				((runes[j] == '+' || runes[j] == '-') && (runes[j-1] == 'e' || runes[j-1] == 'E'))) {
				j++
			}
			tokens = append(tokens, token{tokenNumber, string(runes[i:j]), i})
			i = j

		case unicode.IsLetter(r) || r == '_':
			j := i
			for j < len(runes) && (unicode.IsLetter(runes[j]) || unicode.IsDigit(runes[j]) || runes[j] == '_') {
				j++
			}
			word := string(runes[i:j])
			tokens = append(tokens, token{keywordKind(word), word, i})
			i = j

		default:
			return nil, fmt.Errorf("unexpected character %q at position %d", r, i)
		}
	}

	tokens = append(tokens, token{tokenEOF, "", len(runes)})
	return tokens, nil
}

// startsOperand reports whether the next token position can begin an
// operand, which is where a leading minus reads as a numeric sign.
func startsOperand(tokens []token) bool {
	if len(tokens) == 0 {
		return true
	}
	switch tokens[len(tokens)-1].kind {
	case tokenOp, tokenLParen, tokenComma, tokenAnd, tokenOr, tokenNot, tokenIn:
		return true
	}
	return false
}

func keywordKind(word string) tokenKind {
	switch strings.ToLower(word) {
	case "and":
		return tokenAnd
	case "or":
		return tokenOr
	case "not":
		return tokenNot
	case "in":
		return tokenIn
	case "true":
		return tokenTrue
	case "false":
		return tokenFalse
	}
	return tokenIdent
}
