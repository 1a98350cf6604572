package vexpr

import "github.com/alecthomas/participle/v2/lexer"

// Expression is an operator chain, optionally the condition of a
// right-associative conditional (c ? a : b).
type Expression struct {
	Pos    lexer.Position
	Cond   *Chain       `@@`
	Branch *Conditional `@@?`
}

// Conditional holds the two arms of a conditional expression.
type Conditional struct {
	Then *Expression `Question @@`
	Else *Expression `Colon @@`
}

// Chain is a binary-operator chain of operands. Precedence is not modelled:
// the parser only checks well-formedness.
type Chain struct {
	Left  *Operand  `@@`
	Right []*Binary `@@*`
}

// Binary is one operator and its right-hand operand.
type Binary struct {
	Op      string   `@Op`
	Operand *Operand `@@`
}

// Operand is a primary with optional unary operators.
type Operand struct {
	Unary   []string `@( "~" | "!" | "-" | "+" | "&" | "|" | "^" | "~&" | "~|" | "~^" | "^~" )*`
	Primary *Primary `@@`
}

// Primary is a single value.
type Primary struct {
	Concat *Concat     `  @@`
	Macro  *MacroRef   `| @@`
	Sized  string      `| @Sized`
	Number string      `| @Number`
	Signal *Signal     `| @@`
	Group  *Expression `| LParen @@ RParen`
}

// Concat is a concatenation {a, b} or a replication {4{a}}.
type Concat struct {
	First  *Expression   `LBrace @@`
	Repeat *Concat       `@@?`
	Items  []*Expression `( Comma @@ )* RBrace`
}

// MacroRef is a macro use, with arguments when it is function-like.
type MacroRef struct {
	Name string        `@Macro`
	Args []*Expression `( LParen ( @@ ( Comma @@ )* )? RParen )?`
}

// Signal is a possibly hierarchical name with bit or part selects.
type Signal struct {
	Path    []string  `@Ident ( Dot @Ident )*`
	Selects []*Select `@@*`
}

// Select is [i], [msb:lsb], [base+:width] or [base-:width].
type Select struct {
	Index *Expression `LBracket @@`
	Range *Range      `@@? RBracket`
}

// Range is the second half of a part select.
type Range struct {
	Kind  string      `@( Colon | IndexedPart )`
	Width *Expression `@@`
}
