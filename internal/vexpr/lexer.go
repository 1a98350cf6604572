package vexpr

import "github.com/alecthomas/participle/v2/lexer"

// ExprLexer defines the tokens of the Verilog expression subset accepted in
// port connections.
var ExprLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `\s+`},

	// Literals: sized (8'hFF, 'b0) before plain decimal numbers.
	{Name: "Sized", Pattern: `[0-9]*'[sS]?[bBoOdDhH][0-9a-fA-FxXzZ_?]+`},
	{Name: "Number", Pattern: `[0-9][0-9_]*`},

	// Preprocessor macro use, e.g. `DATA_W
	{Name: "Macro", Pattern: "`[a-zA-Z_][a-zA-Z0-9_]*"},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_$]*`},

	// Indexed part-select operators must win over "+" and "-".
	{Name: "IndexedPart", Pattern: `[+-]:`},
	// Longest operators first.
	{Name: "Op", Pattern: `<<<|>>>|===|!==|<<|>>|<=|>=|==|!=|&&|\|\||\*\*|~&|~\||~\^|\^~|[-+*/%&|^~!<>]`},

	{Name: "Question", Pattern: `\?`},
	{Name: "Colon", Pattern: `:`},
	{Name: "Comma", Pattern: `,`},
	{Name: "Dot", Pattern: `\.`},
	{Name: "LParen", Pattern: `\(`},
	{Name: "RParen", Pattern: `\)`},
	{Name: "LBracket", Pattern: `\[`},
	{Name: "RBracket", Pattern: `\]`},
	{Name: "LBrace", Pattern: `\{`},
	{Name: "RBrace", Pattern: `\}`},
})
