/*
Package expr evaluates integer arithmetic expressions.

Evaluation

Expression Text ->
	parse ->
Abstract Syntax Tree (ast) ->
	eval ->
int32

Grammar

	expr     := term (('+' | '-') expr)?
	term     := factor (('*' | '/') term)?
	factor   := constant | '(' expr ')'
	constant := digit+

There is no whitespace skipping. Operator chains are right-associative
by default, so 10-3-2 is 10-(3-2) = 9. Config.Assoc = parse.LeftAssoc
gives the conventional (10-3)-2 = 5.

Parsing stops at the longest matching prefix. The rest of the text
is ignored unless Config.Strict is set.
*/
package expr
