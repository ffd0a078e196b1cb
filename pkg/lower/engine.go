// Package lower turns C-like source into assembly for one instruction-set
// architecture. It owns statement classification, temporaries, labels and
// control-flow shapes; everything instruction specific goes through a
// backend.Backend.
package lower

import (
	"fmt"
	"log/slog"

	"github.com/raymyers/isacc/pkg/backend"
	"github.com/raymyers/isacc/pkg/emit"
	"github.com/raymyers/isacc/pkg/isa"
	"github.com/raymyers/isacc/pkg/lexer"
	"github.com/raymyers/isacc/pkg/names"
)

// DefaultJumpTable is the symbol switch dispatch indexes into.
const DefaultJumpTable = "addrJumpTable"

// Outcome classifies what lowering one statement did.
type Outcome int

const (
	// Empty statements emit nothing: declarations, bare labels, ';'.
	Empty Outcome = iota
	// Emitted statements produced straight-line code.
	Emitted
	// ControlDispatch statements were handed to an if/while/switch or
	// function handler.
	ControlDispatch
	// Deferred statements are buffered until their block closes.
	Deferred
)

var outcomeNames = [...]string{
	Empty:           "empty",
	Emitted:         "emitted",
	ControlDispatch: "control",
	Deferred:        "deferred",
}

func (o Outcome) String() string {
	if o < 0 || int(o) >= len(outcomeNames) {
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
	return outcomeNames[o]
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithLogger sets the logger statement tracing goes to.
func WithLogger(l *slog.Logger) Option {
	return func(c *Compiler) { c.log = l }
}

// WithWidths overrides the cost model widths of the backend's ISA.
func WithWidths(w isa.Widths) Option {
	return func(c *Compiler) { c.widths = w }
}

// WithJumpTable sets the symbol used for switch dispatch.
func WithJumpTable(sym string) Option {
	return func(c *Compiler) { c.jumpTable = sym }
}

// Compiler holds the state of one compilation. It may be reused; every call
// to Compile starts from a clean slate.
type Compiler struct {
	b         backend.Backend
	widths    isa.Widths
	jumpTable string
	log       *slog.Logger

	ns      *names.Namespace
	out     *emit.Buffer
	streams []*stream
	fn      *function
	spills  int
	returns int
}

// New returns a Compiler emitting through b.
func New(b backend.Backend, opts ...Option) *Compiler {
	c := &Compiler{
		b:         b,
		widths:    isa.DefaultWidths(b.ID()),
		jumpTable: DefaultJumpTable,
		log:       slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.ns = names.New(b.Temp)
	c.out = emit.NewBuffer(c.widths, c.ns.IsLabel)
	return c
}

// Compile is shorthand for New(b, opts...).Compile(src).
func Compile(src string, b backend.Backend, opts ...Option) (string, error) {
	return New(b, opts...).Compile(src)
}

// Compile lowers src and returns the assembly listing followed by the
// metrics summary.
func (c *Compiler) Compile(src string) (string, error) {
	c.reset()

	toks := lexer.Tokenize(src)
	for _, t := range toks {
		if t.Type != lexer.TokenIllegal {
			continue
		}
		if t.Literal == "/*" {
			return "", fmt.Errorf("%w: unterminated comment at offset %d", ErrPatternNotFound, t.Pos)
		}
		return "", fmt.Errorf("%w: unrecognized character %q at offset %d", ErrPatternNotFound, t.Literal, t.Pos)
	}
	c.registerLabels(toks)

	if err := c.lowerSequence(lexer.Split(toks)); err != nil {
		return "", err
	}
	c.out.Flush()
	return emit.Render(c.out), nil
}

// Cost returns the metrics of the last compilation.
func (c *Compiler) Cost() emit.Cost {
	return c.out.Cost()
}

func (c *Compiler) reset() {
	c.ns.Reset()
	c.out.Reset()
	c.b.Reset(c.out)
	c.streams = nil
	c.fn = nil
	c.spills = 0
	c.returns = 0
}

// registerLabels records every name used as a label before any code is
// emitted, so operands that are labels are never counted as memory
// accesses regardless of where they are defined.
func (c *Compiler) registerLabels(toks []lexer.Token) {
	for i, t := range toks {
		if t.Type != lexer.TokenIdent {
			if t.Type == lexer.TokenGoto && i+1 < len(toks) && toks[i+1].Type == lexer.TokenIdent {
				c.ns.AddLabel(toks[i+1].Literal)
			}
			continue
		}
		if i+1 >= len(toks) {
			continue
		}
		switch toks[i+1].Type {
		case lexer.TokenLParen:
			c.ns.AddLabel(t.Literal)
		case lexer.TokenColon:
			if i == 0 || leadsStatement(toks[i-1]) {
				c.ns.AddLabel(t.Literal)
			}
		}
	}
}

func leadsStatement(prev lexer.Token) bool {
	switch prev.Type {
	case lexer.TokenSemicolon, lexer.TokenLBrace, lexer.TokenRBrace, lexer.TokenColon, lexer.TokenRParen, lexer.TokenElse:
		return true
	}
	return false
}

// stream is a cursor over the statements of one block. Statements that open
// a brace are buffered until it closes.
type stream struct {
	stmts []lexer.Statement
	next  int

	bracket []lexer.Token
	depth   int
	pos     int
}

func (s *stream) more() bool { return s.next < len(s.stmts) }

func (s *stream) take() lexer.Statement {
	stmt := s.stmts[s.next]
	s.next++
	return stmt
}

func (s *stream) peek() (lexer.Statement, bool) {
	if !s.more() {
		return lexer.Statement{}, false
	}
	return s.stmts[s.next], true
}

func (s *stream) buffering() bool { return s.bracket != nil }

// aggregate adds stmt to the bracket buffer and returns the whole block once
// its braces balance.
func (s *stream) aggregate(stmt lexer.Statement) (lexer.Statement, bool) {
	if s.bracket == nil {
		s.pos = stmt.Pos
		s.bracket = make([]lexer.Token, 0, len(stmt.Tokens))
	}
	s.bracket = append(s.bracket, stmt.Tokens...)
	s.depth += lexer.BraceDepth(stmt.Tokens)
	if s.depth > 0 {
		return lexer.Statement{}, false
	}
	block := lexer.Statement{Tokens: s.bracket, Pos: s.pos}
	s.bracket, s.depth = nil, 0
	return block, true
}

// takeBlock consumes the next statement together with the rest of any
// block it opens.
func (s *stream) takeBlock() (lexer.Statement, error) {
	for s.more() {
		if block, done := s.aggregate(s.take()); done {
			return block, nil
		}
	}
	return lexer.Statement{}, patternError("unmatched {", s.bracket)
}

func (c *Compiler) top() *stream {
	return c.streams[len(c.streams)-1]
}

// lowerSequence lowers stmts in order as one block.
func (c *Compiler) lowerSequence(stmts []lexer.Statement) error {
	s := &stream{stmts: stmts}
	c.streams = append(c.streams, s)
	defer func() { c.streams = c.streams[:len(c.streams)-1] }()

	for s.more() {
		stmt := s.take()
		o, err := c.step(s, stmt)
		if err != nil {
			return err
		}
		c.log.Debug("statement", "isa", c.b.ID().String(), "text", stmt.Text(), "outcome", o.String())
	}
	if s.buffering() {
		return patternError("unmatched {", s.bracket)
	}
	return nil
}

// step feeds one raw statement through brace aggregation.
func (c *Compiler) step(s *stream, stmt lexer.Statement) (Outcome, error) {
	if s.buffering() || lexer.BraceDepth(stmt.Tokens) > 0 {
		block, done := s.aggregate(stmt)
		if !done {
			return Deferred, nil
		}
		stmt = block
	}
	return c.lowerStatement(stmt, false)
}

// lowerStatement lowers one complete statement. sub is set for hoisted
// sub-expressions. Temporaries allocated while lowering are released before
// it returns, except those its caller allocated beforehand.
func (c *Compiler) lowerStatement(stmt lexer.Statement, sub bool) (Outcome, error) {
	mark := c.ns.Outstanding()
	defer c.ns.ReleaseTo(mark)

	toks := c.takeLabels(stmt.Tokens)
	if len(trimTerminator(toks)) == 0 {
		return Empty, nil
	}

	switch toks[0].Type {
	case lexer.TokenIf:
		return ControlDispatch, c.lowerIf(toks)
	case lexer.TokenWhile:
		return ControlDispatch, c.lowerWhile(toks)
	case lexer.TokenSwitch:
		return ControlDispatch, c.lowerSwitch(toks)
	case lexer.TokenElse:
		return Empty, patternError("else without if", toks)
	case lexer.TokenCase, lexer.TokenDefault, lexer.TokenBreak:
		return Empty, patternError(toks[0].Literal+" outside switch", toks)
	case lexer.TokenRBrace:
		return Empty, patternError("unmatched }", toks)
	case lexer.TokenLBrace:
		return ControlDispatch, c.lowerBody(toks)
	}
	if isFunctionDecl(toks) {
		return ControlDispatch, c.lowerFunction(toks)
	}
	return c.lowerSimple(toks, sub)
}

// takeLabels strips leading "name:" prefixes, making each a pending label.
func (c *Compiler) takeLabels(toks []lexer.Token) []lexer.Token {
	for len(toks) >= 2 && toks[0].Type == lexer.TokenIdent && toks[1].Type == lexer.TokenColon {
		c.ns.AddLabel(toks[0].Literal)
		c.b.Label(toks[0].Literal)
		toks = toks[2:]
	}
	return toks
}

// lowerBody lowers the body of a control statement: either a braced block or
// a single statement.
func (c *Compiler) lowerBody(body []lexer.Token) error {
	body = trimTerminator(body)
	if len(body) == 0 {
		return nil
	}
	if body[0].Type != lexer.TokenLBrace {
		_, err := c.lowerStatement(lexer.Statement{Tokens: body, Pos: body[0].Pos}, false)
		return err
	}
	end, err := matching(body, 0)
	if err != nil {
		return err
	}
	if end != len(body)-1 {
		return patternError("unexpected tokens after block", body[end+1:])
	}
	return c.lowerSequence(lexer.Split(body[1:end]))
}
