/*
Package compiler is the front end of the next language.

Process of compilation:

	Program Text
	  -> lex     -> Tokens (token)
	  -> parse   -> Abstract Syntax Tree (ast)
	  -> collect -> Scopes, Types and Functions (scope)

Imports are resolved during collect.
Each imported file goes through lex, parse and collect once per session.
Stack machine code (ir) is described but not generated yet.
*/
package compiler
