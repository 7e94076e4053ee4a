package pluralforms

import (
	"fmt"
	"strconv"
)

type tokKind int

const (
	tokEOF tokKind = iota
	tokNum
	tokVar
	tokLParen
	tokRParen
	tokQuest
	tokColon
	tokOrOr
	tokAndAnd
	tokOr
	tokXor
	tokAnd
	tokEq
	tokNe
	tokLt
	tokLte
	tokGt
	tokGte
	tokShl
	tokShr
	tokPlus
	tokMinus
	tokMul
	tokDiv
	tokMod
	tokNot
	tokInvalid
)

type token struct {
	kind tokKind
	num  int64
}

type lexer struct {
	data string
	pos  int
}

func (l *lexer) next() token {
	for l.pos < len(l.data) && (l.data[l.pos] == ' ' || l.data[l.pos] == '\t') {
		l.pos++
	}
	if l.pos >= len(l.data) {
		return token{kind: tokEOF}
	}

	pos := l.pos
	c := l.data[pos]
	l.pos++
	two := func(next byte, both, single tokKind) token {
		if l.pos < len(l.data) && l.data[l.pos] == next {
			l.pos++
			return token{kind: both}
		}
		return token{kind: single}
	}
	switch c {
	case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		for l.pos < len(l.data) && l.data[l.pos] >= '0' && l.data[l.pos] <= '9' {
			l.pos++
		}
		num, err := strconv.ParseInt(l.data[pos:l.pos], 10, 32)
		if err != nil {
			return token{kind: tokInvalid}
		}
		return token{kind: tokNum, num: num}
	case 'n':
		return token{kind: tokVar}
	case '(':
		return token{kind: tokLParen}
	case ')':
		return token{kind: tokRParen}
	case '?':
		return token{kind: tokQuest}
	case ':':
		return token{kind: tokColon}
	case '|':
		return two('|', tokOrOr, tokOr)
	case '&':
		return two('&', tokAndAnd, tokAnd)
	case '^':
		return token{kind: tokXor}
	case '=':
		return two('=', tokEq, tokInvalid)
	case '!':
		return two('=', tokNe, tokNot)
	case '<':
		if l.pos < len(l.data) {
			switch l.data[l.pos] {
			case '=':
				l.pos++
				return token{kind: tokLte}
			case '<':
				l.pos++
				return token{kind: tokShl}
			}
		}
		return token{kind: tokLt}
	case '>':
		if l.pos < len(l.data) {
			switch l.data[l.pos] {
			case '=':
				l.pos++
				return token{kind: tokGte}
			case '>':
				l.pos++
				return token{kind: tokShr}
			}
		}
		return token{kind: tokGt}
	case '+':
		return token{kind: tokPlus}
	case '-':
		return token{kind: tokMinus}
	case '*':
		return token{kind: tokMul}
	case '/':
		return token{kind: tokDiv}
	case '%':
		return token{kind: tokMod}
	case ';', '\n':
		return token{kind: tokEOF}
	default:
		return token{kind: tokInvalid}
	}
}

type parser struct {
	lex lexer
	tok token
	err error
}

func (p *parser) advance() {
	p.tok = p.lex.next()
	if p.tok.kind == tokInvalid && p.err == nil {
		p.err = fmt.Errorf("invalid character at position %d", p.lex.pos)
	}
}

func (p *parser) fail(format string, args ...interface{}) {
	if p.err == nil {
		p.err = fmt.Errorf(format, args...)
	}
}

// ternary is the grammar entry point; ?: is right associative with the
// condition one precedence level down, as in C.
func (p *parser) ternary() Expression {
	cond := p.logicalOr()
	if p.err != nil || p.tok.kind != tokQuest {
		return cond
	}
	p.advance()
	ifTrue := p.ternary()
	if p.err != nil {
		return nil
	}
	if p.tok.kind != tokColon {
		p.fail("expected ':' in conditional expression")
		return nil
	}
	p.advance()
	ifFalse := p.ternary()
	if p.err != nil {
		return nil
	}
	return ternaryExpr{test: cond, ifTrue: ifTrue, ifFalse: ifFalse}
}

// binaryLevel parses one left-associative precedence level.  build
// returns nil when the token does not belong to this level; probing
// with nil operands is harmless since nodes are plain value structs.
func (p *parser) binaryLevel(operand func() Expression, build func(kind tokKind, l, r Expression) Expression) Expression {
	left := operand()
	for p.err == nil {
		kind := p.tok.kind
		if build(kind, nil, nil) == nil {
			return left
		}
		p.advance()
		right := operand()
		if p.err != nil {
			return nil
		}
		left = build(kind, left, right)
	}
	return nil
}

func (p *parser) logicalOr() Expression {
	return p.binaryLevel(p.logicalAnd, func(k tokKind, l, r Expression) Expression {
		if k == tokOrOr {
			return orExpr{l, r}
		}
		return nil
	})
}

func (p *parser) logicalAnd() Expression {
	return p.binaryLevel(p.bitOr, func(k tokKind, l, r Expression) Expression {
		if k == tokAndAnd {
			return andExpr{l, r}
		}
		return nil
	})
}

func (p *parser) bitOr() Expression {
	return p.binaryLevel(p.bitXor, func(k tokKind, l, r Expression) Expression {
		if k == tokOr {
			return bitOrExpr{l, r}
		}
		return nil
	})
}

func (p *parser) bitXor() Expression {
	return p.binaryLevel(p.bitAnd, func(k tokKind, l, r Expression) Expression {
		if k == tokXor {
			return bitXorExpr{l, r}
		}
		return nil
	})
}

func (p *parser) bitAnd() Expression {
	return p.binaryLevel(p.equality, func(k tokKind, l, r Expression) Expression {
		if k == tokAnd {
			return bitAndExpr{l, r}
		}
		return nil
	})
}

func (p *parser) equality() Expression {
	return p.binaryLevel(p.relational, func(k tokKind, l, r Expression) Expression {
		switch k {
		case tokEq:
			return eqExpr{l, r}
		case tokNe:
			return neExpr{l, r}
		}
		return nil
	})
}

func (p *parser) relational() Expression {
	return p.binaryLevel(p.shift, func(k tokKind, l, r Expression) Expression {
		switch k {
		case tokLt:
			return ltExpr{l, r}
		case tokLte:
			return lteExpr{l, r}
		case tokGt:
			return gtExpr{l, r}
		case tokGte:
			return gteExpr{l, r}
		}
		return nil
	})
}

func (p *parser) shift() Expression {
	return p.binaryLevel(p.additive, func(k tokKind, l, r Expression) Expression {
		switch k {
		case tokShl:
			return shlExpr{l, r}
		case tokShr:
			return shrExpr{l, r}
		}
		return nil
	})
}

func (p *parser) additive() Expression {
	return p.binaryLevel(p.multiplicative, func(k tokKind, l, r Expression) Expression {
		switch k {
		case tokPlus:
			return addExpr{l, r}
		case tokMinus:
			return subExpr{l, r}
		}
		return nil
	})
}

func (p *parser) multiplicative() Expression {
	return p.binaryLevel(p.unary, func(k tokKind, l, r Expression) Expression {
		switch k {
		case tokMul:
			return mulExpr{l, r}
		case tokDiv:
			return divExpr{l, r}
		case tokMod:
			return modExpr{l, r}
		}
		return nil
	})
}

func (p *parser) unary() Expression {
	switch p.tok.kind {
	case tokNot:
		p.advance()
		sub := p.unary()
		if p.err != nil {
			return nil
		}
		return notExpr{sub}
	case tokMinus:
		p.advance()
		sub := p.unary()
		if p.err != nil {
			return nil
		}
		return negExpr{sub}
	}
	return p.primary()
}

func (p *parser) primary() Expression {
	switch p.tok.kind {
	case tokVar:
		p.advance()
		return varExpr{}
	case tokNum:
		e := numberExpr{p.tok.num}
		p.advance()
		return e
	case tokLParen:
		p.advance()
		e := p.ternary()
		if p.err != nil {
			return nil
		}
		if p.tok.kind != tokRParen {
			p.fail("expected ')'")
			return nil
		}
		p.advance()
		return e
	}
	p.fail("unexpected token in expression")
	return nil
}

// Compile parses a plural-forms expression into an Expression.
func Compile(expr string) (Expression, error) {
	p := &parser{lex: lexer{data: expr}}
	p.advance()
	e := p.ternary()
	if p.err == nil && p.tok.kind != tokEOF {
		p.fail("trailing input after expression")
	}
	if p.err != nil {
		return nil, fmt.Errorf("cannot parse expression: %s", p.err)
	}
	return e, nil
}
