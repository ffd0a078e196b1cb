package lower

import (
	"github.com/raymyers/isacc/pkg/emit"
	"github.com/raymyers/isacc/pkg/lexer"
)

// function is the context of the declaration being lowered.
type function struct {
	name string
	// slots holds the argument slot of each parameter, in order.
	slots []string
}

// lowerFunction lowers "[type] name(params) { body }" into the function
// stream. Parameters are renamed to the architecture's argument slots.
func (c *Compiler) lowerFunction(toks []lexer.Token) error {
	if c.fn != nil {
		return patternError("function declared inside "+c.fn.name, toks)
	}
	toks, _ = skipTypes(trimTerminator(toks))
	name := toks[0].Literal
	end, err := matching(toks, 1)
	if err != nil {
		return err
	}
	rbrace, err := matching(toks, end+1)
	if err != nil {
		return err
	}
	if rbrace != len(toks)-1 {
		return patternError("unexpected tokens after function body", toks[rbrace+1:])
	}

	fn := &function{name: name}
	params := make(map[string]string)
	for _, p := range splitTop(toks[2:end], lexer.TokenComma) {
		p, _ = skipTypes(p)
		switch {
		case len(p) == 0:
			// (void) or ()
		case len(p) == 1 && p[0].Type == lexer.TokenIdent:
			slot := c.b.ArgSlot(len(fn.slots))
			params[p[0].Literal] = slot
			fn.slots = append(fn.slots, slot)
		default:
			return patternError("invalid parameter", p)
		}
	}

	body := make([]lexer.Token, 0, rbrace-end-2)
	for _, t := range toks[end+2 : rbrace] {
		if slot, ok := params[t.Literal]; ok && t.Type == lexer.TokenIdent {
			pos := t.Pos
			t = lexer.Word(slot)
			t.Pos = pos
		}
		body = append(body, t)
	}

	c.ns.AddLabel(name)
	prev := c.out.SetStream(emit.Functions)
	c.fn = fn
	defer func() {
		c.fn = nil
		c.out.SetStream(prev)
	}()

	c.log.Debug("function", "isa", c.b.ID().String(), "name", name, "params", len(fn.slots))
	c.b.Label(name)
	if err := c.lowerSequence(lexer.Split(body)); err != nil {
		return err
	}
	c.b.Return()
	return nil
}

// lowerCall lowers name(args). Calls made from inside a function spill the
// return address and the caller's argument slots around the jump. Every call
// gets a fresh return point, returnAddress1, returnAddress2, ..., so returns
// still pending when calls nest stay distinguishable.
func (c *Compiler) lowerCall(toks []lexer.Token) error {
	name := toks[0].Literal
	var args []string
	for _, a := range splitTop(toks[2:len(toks)-1], lexer.TokenComma) {
		if len(a) == 0 {
			return patternError("empty argument", toks)
		}
		v, err := c.value(a)
		if err != nil {
			return err
		}
		args = append(args, v)
	}

	var slots []string
	base := c.spills
	if c.fn != nil {
		slots = append([]string{c.b.ReturnAddress(0)}, c.fn.slots...)
		c.spills += len(slots)
		c.b.SaveFrame(slots, base)
	}
	for i, v := range args {
		if v != c.b.ArgSlot(i) {
			c.b.PassArg(i, v)
		}
	}
	c.ns.AddLabel(name)
	c.b.Call(name)
	c.returns++
	if ret := c.b.ReturnAddress(c.returns); ret != c.b.ReturnAddress(0) {
		c.ns.AddLabel(ret)
		c.b.Label(ret)
	}
	if c.fn != nil {
		c.b.RestoreFrame(slots, base)
	}
	return nil
}
