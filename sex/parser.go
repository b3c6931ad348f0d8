package sex

import "fmt"

// parser is a hand-written precedence-climbing recursive descent parser,
// one function per precedence level (§4.2, levels 1 low .. 14 high).
type parser struct {
	lex *lexer
	tok TokenType
}

// Parse compiles a selection-expression string into an Expr. A syntax
// error is reported as a single error; the caller (recsel's -e flag,
// %constraint) turns that into a diagnostic.
func Parse(input string) (Expr, error) {
	p := &parser{lex: newLexer(input)}
	p.advance()
	expr, err := p.level1()
	if err != nil {
		return nil, err
	}
	if p.tok != EOF {
		return nil, fmt.Errorf("sex: unexpected trailing input at %q", p.lex.text)
	}
	return expr, nil
}

func (p *parser) advance() {
	p.tok = p.lex.next()
	if p.lex.err != nil {
		p.tok = Illegal
	}
}

func (p *parser) expect(tt TokenType) error {
	if p.tok != tt {
		return fmt.Errorf("sex: expected %s, got %s %q", tt, p.tok, p.lex.text)
	}
	p.advance()
	return nil
}

// level1: ternary ?: , right-associative, loosest binding.
func (p *parser) level1() (Expr, error) {
	cond, err := p.level2()
	if err != nil {
		return nil, err
	}
	if p.tok != Question {
		return cond, nil
	}
	p.advance()
	x, err := p.level1()
	if err != nil {
		return nil, err
	}
	if err := p.expect(Colon); err != nil {
		return nil, err
	}
	y, err := p.level1()
	if err != nil {
		return nil, err
	}
	return Ternary{Cond: cond, X: x, Y: y}, nil
}

// level2: => , right-associative.
func (p *parser) level2() (Expr, error) {
	left, err := p.level3()
	if err != nil {
		return nil, err
	}
	if p.tok != Implies {
		return left, nil
	}
	p.advance()
	right, err := p.level2()
	if err != nil {
		return nil, err
	}
	return Binary{Op: Implies, X: left, Y: right}, nil
}

// level3: || , left-associative.
func (p *parser) level3() (Expr, error) {
	left, err := p.level4()
	if err != nil {
		return nil, err
	}
	for p.tok == OrOr {
		p.advance()
		right, err := p.level4()
		if err != nil {
			return nil, err
		}
		left = Binary{Op: OrOr, X: left, Y: right}
	}
	return left, nil
}

// level4: && , left-associative.
func (p *parser) level4() (Expr, error) {
	left, err := p.level5()
	if err != nil {
		return nil, err
	}
	for p.tok == AndAnd {
		p.advance()
		right, err := p.level5()
		if err != nil {
			return nil, err
		}
		left = Binary{Op: AndAnd, X: left, Y: right}
	}
	return left, nil
}

// level5: ! (prefix), binding looser than equality so "!a = b" reads as
// "!(a = b)".
func (p *parser) level5() (Expr, error) {
	if p.tok == Not {
		p.advance()
		x, err := p.level5()
		if err != nil {
			return nil, err
		}
		return Unary{Op: Not, X: x}, nil
	}
	return p.level6()
}

// level6: = == != , left-associative.
func (p *parser) level6() (Expr, error) {
	left, err := p.level7()
	if err != nil {
		return nil, err
	}
	for p.tok == Eq || p.tok == Ne {
		op := p.tok
		p.advance()
		right, err := p.level7()
		if err != nil {
			return nil, err
		}
		left = Binary{Op: op, X: left, Y: right}
	}
	return left, nil
}

// level7: < <= > >= , left-associative.
func (p *parser) level7() (Expr, error) {
	left, err := p.level8()
	if err != nil {
		return nil, err
	}
	for p.tok == Lt || p.tok == Le || p.tok == Gt || p.tok == Ge {
		op := p.tok
		p.advance()
		right, err := p.level8()
		if err != nil {
			return nil, err
		}
		left = Binary{Op: op, X: left, Y: right}
	}
	return left, nil
}

// level8: << >> (date comparisons), left-associative.
func (p *parser) level8() (Expr, error) {
	left, err := p.level9()
	if err != nil {
		return nil, err
	}
	for p.tok == DateBefore || p.tok == DateAfter {
		op := p.tok
		p.advance()
		right, err := p.level9()
		if err != nil {
			return nil, err
		}
		left = Binary{Op: op, X: left, Y: right}
	}
	return left, nil
}

// level9: ~ (regexp match), left-associative.
func (p *parser) level9() (Expr, error) {
	left, err := p.level10()
	if err != nil {
		return nil, err
	}
	for p.tok == Match {
		p.advance()
		right, err := p.level10()
		if err != nil {
			return nil, err
		}
		left = Binary{Op: Match, X: left, Y: right}
	}
	return left, nil
}

// level10: & (string concatenation), left-associative.
func (p *parser) level10() (Expr, error) {
	left, err := p.level11()
	if err != nil {
		return nil, err
	}
	for p.tok == Amp {
		p.advance()
		right, err := p.level11()
		if err != nil {
			return nil, err
		}
		left = Binary{Op: Amp, X: left, Y: right}
	}
	return left, nil
}

// level11: + - , left-associative.
func (p *parser) level11() (Expr, error) {
	left, err := p.level12()
	if err != nil {
		return nil, err
	}
	for p.tok == Plus || p.tok == Minus {
		op := p.tok
		p.advance()
		right, err := p.level12()
		if err != nil {
			return nil, err
		}
		left = Binary{Op: op, X: left, Y: right}
	}
	return left, nil
}

// level12: * / % , left-associative.
func (p *parser) level12() (Expr, error) {
	left, err := p.level13()
	if err != nil {
		return nil, err
	}
	for p.tok == Star || p.tok == Slash || p.tok == Percent {
		op := p.tok
		p.advance()
		right, err := p.level13()
		if err != nil {
			return nil, err
		}
		left = Binary{Op: op, X: left, Y: right}
	}
	return left, nil
}

// level13: unary - (negation) and # (field count, a field name must
// follow directly).
func (p *parser) level13() (Expr, error) {
	switch p.tok {
	case Minus:
		p.advance()
		x, err := p.level13()
		if err != nil {
			return nil, err
		}
		return Unary{Op: Minus, X: x}, nil
	case Hash:
		p.advance()
		if p.tok != Ident {
			return nil, fmt.Errorf("sex: expected field name after '#', got %s", p.tok)
		}
		name := p.lex.sval
		p.advance()
		return FieldCount{Name: name}, nil
	default:
		return p.level14()
	}
}

// level14: postfix F[N] subscript, tightest binding, wrapping an atom.
func (p *parser) level14() (Expr, error) {
	atom, err := p.atom()
	if err != nil {
		return nil, err
	}
	if ref, isField := atom.(FieldRef); isField && p.tok == LBracket {
		p.advance()
		if p.tok != Int {
			return nil, fmt.Errorf("sex: expected integer subscript, got %s", p.tok)
		}
		idx := int(p.lex.ival)
		p.advance()
		if err := p.expect(RBracket); err != nil {
			return nil, err
		}
		ref.Index = &idx
		return ref, nil
	}
	return atom, nil
}

func (p *parser) atom() (Expr, error) {
	switch p.tok {
	case Int:
		v := IntValue(p.lex.ival)
		p.advance()
		return Lit{Value: v}, nil
	case Real:
		v := RealValue(p.lex.rval)
		p.advance()
		return Lit{Value: v}, nil
	case String:
		v := StringValue(p.lex.sval)
		p.advance()
		return Lit{Value: v}, nil
	case Ident:
		name := p.lex.sval
		p.advance()
		return FieldRef{Name: name}, nil
	case LParen:
		p.advance()
		expr, err := p.level1()
		if err != nil {
			return nil, err
		}
		if err := p.expect(RParen); err != nil {
			return nil, err
		}
		return expr, nil
	default:
		return nil, fmt.Errorf("sex: unexpected token %s %q", p.tok, p.lex.text)
	}
}
