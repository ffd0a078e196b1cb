package lower

import (
	"strconv"

	"github.com/raymyers/isacc/pkg/backend"
	"github.com/raymyers/isacc/pkg/lexer"
	"github.com/raymyers/isacc/pkg/names"
)

// condition parses "a cmp b" into a branch condition with bound operands.
// > and <= are expressed by swapping the operands of < and >=.
func (c *Compiler) condition(toks []lexer.Token) (backend.Cond, string, string, error) {
	at := -1
	depth := 0
	for i, t := range toks {
		if depth == 0 && t.IsComparison() {
			if at >= 0 {
				return 0, "", "", patternError("more than one comparison", toks)
			}
			at = i
		}
		depth += depthDelta(t)
	}
	if at < 0 {
		return 0, "", "", patternError("no comparison operator", toks)
	}

	var cond backend.Cond
	swap := false
	switch toks[at].Type {
	case lexer.TokenEq:
		cond = backend.Eq
	case lexer.TokenNe:
		cond = backend.Ne
	case lexer.TokenLt:
		cond = backend.Lt
	case lexer.TokenGe:
		cond = backend.Ge
	case lexer.TokenGt:
		cond, swap = backend.Lt, true
	case lexer.TokenLe:
		cond, swap = backend.Ge, true
	}

	left, right := toks[:at], toks[at+1:]
	if len(left) == 0 || len(right) == 0 {
		return 0, "", "", patternError("comparison needs two operands", toks)
	}
	a, err := c.value(left)
	if err != nil {
		return 0, "", "", err
	}
	b, err := c.value(right)
	if err != nil {
		return 0, "", "", err
	}
	if swap {
		a, b = b, a
	}
	return cond, a, b, nil
}

// scratch allocates the temporary set-less-than needs, if any.
func (c *Compiler) scratch(cond backend.Cond) string {
	if cond == backend.Lt || cond == backend.Ge {
		return c.ns.NewTemporary()
	}
	return ""
}

// header splits "kw ( cond ) body" into the condition and the body.
func header(toks []lexer.Token) (cond, body []lexer.Token, err error) {
	if len(toks) < 2 || toks[1].Type != lexer.TokenLParen {
		return nil, nil, patternError(toks[0].Literal+" without condition", toks)
	}
	end, err := matching(toks, 1)
	if err != nil {
		return nil, nil, err
	}
	body = trimTerminator(toks[end+1:])
	if len(body) == 0 {
		return nil, nil, patternError(toks[0].Literal+" without body", toks)
	}
	return toks[2:end], body, nil
}

// gotoTarget returns the label of a body that is exactly "goto L".
func gotoTarget(body []lexer.Token) (string, bool) {
	body = trimTerminator(body)
	if len(body) == 2 && body[0].Type == lexer.TokenGoto && body[1].Type == lexer.TokenIdent {
		return body[1].Literal, true
	}
	return "", false
}

// branch evaluates cond and emits the conditional jump. Temporaries used by
// the test are released once it is emitted.
func (c *Compiler) branch(condToks []lexer.Token, negate bool, target string) error {
	mark := c.ns.Outstanding()
	defer c.ns.ReleaseTo(mark)

	cond, a, b, err := c.condition(condToks)
	if err != nil {
		return err
	}
	if negate {
		cond = cond.Negate()
	}
	c.b.Branch(cond, a, b, target, c.scratch(cond))
	return nil
}

// lowerIf emits
//
//	branch cond -> True
//	else body
//	j Exit
//	True: then body
//	Exit:
//
// A then body of "goto L" branches straight to L instead.
func (c *Compiler) lowerIf(toks []lexer.Token) error {
	condToks, body, err := header(toks)
	if err != nil {
		return err
	}
	target, direct := gotoTarget(body)
	if !direct {
		target = c.ns.NewLabel(names.True)
	}
	if err := c.branch(condToks, false, target); err != nil {
		return err
	}

	elseBody, ok, err := c.takeElse(body)
	if err != nil {
		return err
	}
	if ok {
		if err := c.lowerBody(elseBody); err != nil {
			return err
		}
	}
	if direct {
		return nil
	}

	exit := c.ns.NewLabel(names.Exit)
	c.b.Jump(exit)
	c.b.Label(target)
	if err := c.lowerBody(body); err != nil {
		return err
	}
	c.b.Label(exit)
	return nil
}

// takeElse consumes the else clause following the current statement. A
// then body that is itself an unbraced if leaves the else to that if.
func (c *Compiler) takeElse(then []lexer.Token) ([]lexer.Token, bool, error) {
	if then[0].Type == lexer.TokenIf {
		return nil, false, nil
	}
	s := c.top()
	next, ok := s.peek()
	if !ok || s.buffering() || next.Tokens[0].Type != lexer.TokenElse {
		return nil, false, nil
	}
	block, err := s.takeBlock()
	if err != nil {
		return nil, false, err
	}
	body := trimTerminator(block.Tokens[1:])
	if len(body) == 0 {
		return nil, false, patternError("else without body", block.Tokens)
	}
	return body, true, nil
}

// lowerWhile emits
//
//	Loop: branch !cond -> Exit
//	body
//	j Loop
//	Exit:
//
// A body of "goto L" becomes a single positive branch to L.
func (c *Compiler) lowerWhile(toks []lexer.Token) error {
	condToks, body, err := header(toks)
	if err != nil {
		return err
	}
	head := c.ns.NewLabel(names.Loop)
	c.b.Label(head)

	if target, ok := gotoTarget(body); ok {
		return c.branch(condToks, false, target)
	}
	exit := c.ns.NewLabel(names.Exit)
	if err := c.branch(condToks, true, exit); err != nil {
		return err
	}
	if err := c.lowerBody(body); err != nil {
		return err
	}
	c.b.Jump(head)
	c.b.Label(exit)
	return nil
}

// lowerSwitch emits a bounds-checked jump table dispatch:
//
//	branch v < 0 -> Exit
//	branch v >= n -> Exit
//	s = table[v]; jr s
//	L0: case 0 ... j Exit
//	...
//	Ln-1: last case
//	Exit:
//
// Cases are numbered by position.
func (c *Compiler) lowerSwitch(toks []lexer.Token) error {
	valueToks, body, err := header(toks)
	if err != nil {
		return err
	}
	if body[0].Type != lexer.TokenLBrace {
		return patternError("switch without block", toks)
	}
	end, err := matching(body, 0)
	if err != nil {
		return err
	}
	if end != len(body)-1 {
		return patternError("unexpected tokens after switch", body[end+1:])
	}
	clauses, err := splitClauses(body[1:end])
	if err != nil {
		return err
	}

	mark := c.ns.Outstanding()
	v, err := c.value(valueToks)
	if err != nil {
		return err
	}
	exit := c.ns.NewLabel(names.Exit)
	s := c.ns.NewTemporary()
	c.b.Branch(backend.Lt, v, "0", exit, s)
	c.b.Branch(backend.Ge, v, strconv.Itoa(len(clauses)), exit, s)
	c.b.ArrayLoad(s, c.b.Bind(c.jumpTable), v, s)
	c.b.JumpRegister(s)
	c.ns.ReleaseTo(mark)

	for i, clause := range clauses {
		c.b.Label(c.ns.NewLabel(names.Case))
		if err := c.lowerSequence(lexer.Split(clause)); err != nil {
			return err
		}
		if i < len(clauses)-1 {
			c.b.Jump(exit)
		}
	}
	c.b.Label(exit)
	return nil
}

// splitClauses cuts a switch block into case bodies. A body ends at a
// top-level "break;" or at the next case label.
func splitClauses(toks []lexer.Token) ([][]lexer.Token, error) {
	var clauses [][]lexer.Token
	var cur []lexer.Token
	open, closed := false, false
	depth := 0

	for i := 0; i < len(toks); i++ {
		t := toks[i]
		if depth == 0 {
			switch t.Type {
			case lexer.TokenCase, lexer.TokenDefault:
				colon := indexTop(toks[i:], lexer.TokenColon)
				if colon < 0 {
					return nil, patternError(t.Literal+" without ':'", toks[i:])
				}
				if open {
					clauses = append(clauses, cur)
				}
				cur, open, closed = nil, true, false
				i += colon
				continue
			case lexer.TokenBreak:
				if !open {
					return nil, patternError("break before first case", toks)
				}
				closed = true
				continue
			}
		}
		depth += depthDelta(t)
		if !open {
			if t.Type == lexer.TokenSemicolon {
				continue
			}
			return nil, patternError("statement before first case", toks)
		}
		if !closed {
			cur = append(cur, t)
		}
	}
	if open {
		clauses = append(clauses, cur)
	}
	if len(clauses) == 0 {
		return nil, patternError("switch without cases", toks)
	}
	return clauses, nil
}
