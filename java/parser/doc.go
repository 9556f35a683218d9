// Package parser turns Java source into the syntax tree of package ast.
//
// # Architecture
//
//	┌─────────────┐     ┌─────────────┐     ┌─────────────┐
//	│   Input     │────▶│   Lexer     │────▶│   Parser    │
//	│  (bytes)    │     │  (tokens)   │     │   (AST)     │
//	└─────────────┘     └─────────────┘     └─────────────┘
//	                           │                   │
//	                           ▼                   ▼
//	                    ┌─────────────┐     ┌─────────────┐
//	                    │  Comments   │     │  Recovery   │
//	                    │  Lexical    │     │  (elements) │
//	                    │  problems   │     │             │
//	                    └─────────────┘     └─────────────┘
//
// The lexer scans the whole input up front. Keywords depend on the
// source level: assert is a keyword from 1.4, enum from 5 and _ from 9.
// The restricted words var, yield, record, sealed, permits and the
// module directive words stay identifiers and the grammar checks them by
// spelling.
//
// # Error Recovery
//
// A compilation unit is first parsed strictly. The first syntax error
// ends the strict pass; the declarations the parser was inside of become
// recovered elements and the remaining tokens are fed to the innermost
// element. Members, statements and variable initializers that parse
// cleanly are kept, broken headers are reconstructed leniently and
// anything else is skipped. Nodes built this way carry ast.Recovered,
// nodes that could not be completed carry ast.Malformed, and every
// declaration on the path to an error carries ast.HasSyntaxErrors.
//
// Problems are reported through a problem.Reporter. Only one syntax error
// is reported per source offset.
//
// # Entry Points
//
//	p := parser.ParseCompilationUnit(r, parser.WithFile("A.java"))
//	unit := p.Finish()
//
//	x := parser.ParseExpression(strings.NewReader("a + b * c")).FinishExpression()
//	s := parser.ParseStatement(strings.NewReader("int i = 0;")).FinishStatement()
//
// Expressions and statements are parsed strictly; on error the result is
// a Malformed placeholder.
//
// # Configuration
//
//	WithFile(name)        file name recorded in positions and problems
//	WithSourceLevel(lvl)  language level, LatestSourceLevel by default
//	WithComments()        attach every comment to the compilation unit
//	WithReporter(r)       send problems to r instead of collecting them
//
// # Literals
//
// Literal nodes keep their source text. ParseIntLiteral, ParseLongLiteral,
// ParseFloatLiteral, ParseDoubleLiteral, UnquoteChar, UnquoteString and
// TextBlockValue evaluate them.
//
// # Thread Safety
//
// A Parser is not safe for concurrent use. Separate parsers share nothing
// and may run in parallel.
package parser
