/*

Process of compilation

Program Text ->
	parse ->
Abstract Syntax Tree (ast) ->
	back (scopes, bindings, working sets) ->
Assembly Instructions (asm) ->
	asm.Func.Append ->
Assembly Text (AT&T, x86-64)

Functions are lowered independently and concurrently,
the result is concatenated in source order.

Source Text <- format <- ast

*/
package compiler
