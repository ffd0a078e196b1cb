package lower

import (
	"strconv"

	"github.com/raymyers/isacc/pkg/lexer"
	"github.com/raymyers/isacc/pkg/names"
)

var opcodes = map[lexer.TokenType]string{
	lexer.TokenPlus:  "add",
	lexer.TokenMinus: "sub",
	lexer.TokenStar:  "mul",
	lexer.TokenSlash: "div",
}

// lowerSimple handles everything that is not control flow: declarations,
// assignments, returns, gotos, calls and bare comparisons.
func (c *Compiler) lowerSimple(toks []lexer.Token, sub bool) (Outcome, error) {
	toks, typed := skipTypes(trimTerminator(toks))
	if len(toks) == 0 {
		return Empty, nil
	}

	switch toks[0].Type {
	case lexer.TokenGoto:
		if len(toks) != 2 || toks[1].Type != lexer.TokenIdent {
			return Empty, patternError("goto needs a label", toks)
		}
		c.b.Jump(toks[1].Literal)
		return Emitted, nil
	case lexer.TokenReturn:
		if len(toks) == 1 {
			return Empty, nil
		}
		return Emitted, c.lowerAssign(nil, toks[1:], sub)
	}

	if i := indexTop(toks, lexer.TokenAssign); i >= 0 {
		return Emitted, c.lowerAssign(toks[:i], toks[i+1:], sub)
	}
	if isCall(toks) {
		if typed {
			// prototype
			return Empty, nil
		}
		return Emitted, c.lowerCall(toks)
	}
	if typed {
		return Empty, nil
	}
	for _, t := range toks {
		if t.IsComparison() {
			return Emitted, c.lowerTest(toks)
		}
	}
	return Empty, patternError("expected an assignment", toks)
}

// lowerTest lowers a comparison used as a statement: it branches to a fresh
// label placed right after it.
func (c *Compiler) lowerTest(toks []lexer.Token) error {
	cond, a, b, err := c.condition(toks)
	if err != nil {
		return err
	}
	target := c.ns.NewLabel(names.True)
	c.b.Branch(cond, a, b, target, c.scratch(cond))
	c.b.Label(target)
	return nil
}

// lowerAssign lowers lhs = rhs. A nil lhs assigns the return value.
func (c *Compiler) lowerAssign(lhs, rhs []lexer.Token, sub bool) error {
	if len(rhs) == 0 {
		return patternError("missing expression", lhs)
	}
	expr, err := c.reduce(foldNegatives(rhs))
	if err != nil {
		return err
	}

	switch {
	case lhs == nil:
		r := c.b.ReturnValue()
		c.emitExpr(r, expr)
		c.b.Store(r, sub)
	case len(lhs) == 1 && (lhs[0].Type == lexer.TokenIdent || lhs[0].Type == lexer.TokenNative):
		r := c.b.Bind(lhs[0].Literal)
		c.emitExpr(r, expr)
		c.b.Store(r, sub)
	case isArrayRef(lhs):
		return c.storeElement(lhs, expr)
	default:
		return patternError("invalid assignment target", lhs)
	}
	return nil
}

// storeElement lowers name[index] = expr.
func (c *Compiler) storeElement(lhs, expr []lexer.Token) error {
	var src string
	if len(expr) == 1 {
		src = c.b.Bind(expr[0].Literal)
	} else {
		src = c.ns.NewTemporary()
		c.emitExpr(src, expr)
		c.b.Store(src, true)
	}
	index, err := c.value(lhs[2 : len(lhs)-1])
	if err != nil {
		return err
	}
	base := c.b.Bind(lhs[0].Literal)
	c.b.ArrayStore(base, index, src, c.indexScratch(index))
	return nil
}

// emitExpr computes a reduced expression into r.
func (c *Compiler) emitExpr(r string, expr []lexer.Token) {
	if len(expr) == 1 {
		c.b.Move(r, c.b.Bind(expr[0].Literal))
		return
	}
	a := c.b.Bind(expr[0].Literal)
	b := c.b.Bind(expr[2].Literal)
	c.b.Op(opcodes[expr[1].Type], r, a, b)
}

// reduce rewrites an expression until it is a single operand or
// "operand op operand". Parenthesized groups, calls and array elements are
// hoisted into temporaries first; the remaining chain is then folded left to
// right, one temporary per extra operator.
func (c *Compiler) reduce(toks []lexer.Token) ([]lexer.Token, error) {
	if isCall(toks) {
		if err := c.lowerCall(toks); err != nil {
			return nil, err
		}
		return []lexer.Token{lexer.Word(c.b.ReturnValue())}, nil
	}

	flat := make([]lexer.Token, 0, len(toks))
	for i := 0; i < len(toks); {
		t := toks[i]
		next := lexer.TokenEOF
		if i+1 < len(toks) {
			next = toks[i+1].Type
		}
		switch {
		case t.Type == lexer.TokenLParen:
			end, err := matching(toks, i)
			if err != nil {
				return nil, err
			}
			tmp, err := c.hoist(toks[i+1 : end])
			if err != nil {
				return nil, err
			}
			flat = append(flat, lexer.Word(tmp))
			i = end + 1
		case t.Type == lexer.TokenIdent && (next == lexer.TokenLParen || next == lexer.TokenLBracket):
			end, err := matching(toks, i+1)
			if err != nil {
				return nil, err
			}
			tmp, err := c.value(toks[i : end+1])
			if err != nil {
				return nil, err
			}
			flat = append(flat, lexer.Word(tmp))
			i = end + 1
		case t.Type == lexer.TokenRParen || t.Type == lexer.TokenRBracket:
			return nil, patternError("unmatched "+t.Literal, toks)
		default:
			flat = append(flat, t)
			i++
		}
	}

	if err := checkChain(flat); err != nil {
		return nil, err
	}
	for len(flat) > 3 {
		tmp, err := c.hoist(flat[:3])
		if err != nil {
			return nil, err
		}
		flat = append([]lexer.Token{lexer.Word(tmp)}, flat[3:]...)
	}
	return flat, nil
}

// checkChain verifies toks alternates operand, operator, operand, ...
func checkChain(toks []lexer.Token) error {
	if len(toks)%2 == 0 {
		return patternError("expected an operand", toks)
	}
	for i, t := range toks {
		if i%2 == 0 && !t.IsOperand() {
			return patternError("expected an operand", toks)
		}
		if i%2 == 1 {
			if _, ok := opcodes[t.Type]; !ok {
				return patternError("unrecognized operation "+strconv.Quote(t.Literal), toks)
			}
		}
	}
	return nil
}

// hoist lowers "tmp = toks;" as a sub-statement and returns tmp.
func (c *Compiler) hoist(toks []lexer.Token) (string, error) {
	if len(toks) == 0 {
		return "", patternError("empty expression", nil)
	}
	tmp := c.ns.NewTemporary()
	stmt := make([]lexer.Token, 0, len(toks)+3)
	stmt = append(stmt, lexer.Word(tmp), lexer.Punct(lexer.TokenAssign))
	stmt = append(stmt, toks...)
	stmt = append(stmt, lexer.Punct(lexer.TokenSemicolon))
	if _, err := c.lowerStatement(lexer.Statement{Tokens: stmt, Pos: toks[0].Pos}, true); err != nil {
		return "", err
	}
	return tmp, nil
}

// value returns an operand holding the value of toks: a bound name or
// number directly, an array element loaded into a temporary, or anything
// else hoisted. Enclosing parentheses are dropped first.
func (c *Compiler) value(toks []lexer.Token) (string, error) {
	toks = foldNegatives(toks)
	switch {
	case len(toks) == 1 && toks[0].IsOperand():
		return c.b.Bind(toks[0].Literal), nil
	case isArrayRef(toks):
		return c.loadElement(toks)
	case toks[0].Type == lexer.TokenLParen:
		if end, err := matching(toks, 0); err == nil && end == len(toks)-1 {
			return c.value(toks[1:end])
		}
	}
	return c.hoist(toks)
}

// loadElement lowers name[index] into a fresh temporary.
func (c *Compiler) loadElement(toks []lexer.Token) (string, error) {
	dst := c.ns.NewTemporary()
	index, err := c.value(toks[2 : len(toks)-1])
	if err != nil {
		return "", err
	}
	base := c.b.Bind(toks[0].Literal)
	c.b.ArrayLoad(dst, base, index, c.indexScratch(index))
	return dst, nil
}

// indexScratch allocates the address temporary a variable index needs.
func (c *Compiler) indexScratch(index string) string {
	if _, err := strconv.Atoi(index); err == nil {
		return ""
	}
	return c.ns.NewTemporary()
}
