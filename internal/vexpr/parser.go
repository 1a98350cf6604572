// Package vexpr parses the Verilog expressions used to connect instance
// ports, so that a malformed connection is reported while the manifest is
// processed instead of by the HDL toolchain much later.
package vexpr

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
)

// Parser parses connection expressions.
type Parser struct {
	parser *participle.Parser[Expression]
}

// NewParser creates a new expression parser instance.
func NewParser() (*Parser, error) {
	parser, err := participle.Build[Expression](
		participle.Lexer(ExprLexer),
		participle.Elide("Whitespace"),
		participle.UseLookahead(2),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build parser: %w", err)
	}
	return &Parser{parser: parser}, nil
}

// Parse parses one expression.
func (p *Parser) Parse(expr string) (*Expression, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, fmt.Errorf("empty expression")
	}
	ast, err := p.parser.ParseString("", expr)
	if err != nil {
		return nil, fmt.Errorf("parse error in %q: %w", expr, err)
	}
	return ast, nil
}

var defaultParser *Parser

func init() {
	p, err := NewParser()
	if err != nil {
		panic(err)
	}
	defaultParser = p
}

// Validate reports whether expr is a well-formed connection expression.
func Validate(expr string) error {
	_, err := defaultParser.Parse(expr)
	return err
}

// Signals returns the dotted names of every signal referenced by expr, in
// order of appearance.
func Signals(expr string) ([]string, error) {
	ast, err := defaultParser.Parse(expr)
	if err != nil {
		return nil, err
	}
	var out []string
	ast.walkSignals(func(s *Signal) { out = append(out, strings.Join(s.Path, ".")) })
	return out, nil
}

func (e *Expression) walkSignals(fn func(*Signal)) {
	if e == nil {
		return
	}
	e.Cond.walkSignals(fn)
	if e.Branch != nil {
		e.Branch.Then.walkSignals(fn)
		e.Branch.Else.walkSignals(fn)
	}
}

func (c *Chain) walkSignals(fn func(*Signal)) {
	if c == nil {
		return
	}
	c.Left.walkSignals(fn)
	for _, b := range c.Right {
		b.Operand.walkSignals(fn)
	}
}

func (o *Operand) walkSignals(fn func(*Signal)) {
	if o == nil || o.Primary == nil {
		return
	}
	p := o.Primary
	switch {
	case p.Concat != nil:
		p.Concat.walkSignals(fn)
	case p.Macro != nil:
		for _, a := range p.Macro.Args {
			a.walkSignals(fn)
		}
	case p.Signal != nil:
		fn(p.Signal)
		for _, s := range p.Signal.Selects {
			s.Index.walkSignals(fn)
			if s.Range != nil {
				s.Range.Width.walkSignals(fn)
			}
		}
	case p.Group != nil:
		p.Group.walkSignals(fn)
	}
}

func (c *Concat) walkSignals(fn func(*Signal)) {
	c.First.walkSignals(fn)
	if c.Repeat != nil {
		c.Repeat.walkSignals(fn)
	}
	for _, it := range c.Items {
		it.walkSignals(fn)
	}
}
