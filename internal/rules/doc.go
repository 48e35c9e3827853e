// Package rules implements the alert rule expression language: a small
// lexer and recursive-descent parser producing a tagged AST, plus a pure
// evaluation function over a data window.
//
// Two predicate forms are recognized:
//
//	metric:<name> <op> <threshold>   e.g. metric:cpu > 50
//	log.level == '<LEVEL>'           e.g. log.level == 'ERROR'
//
// New predicate forms are added as new AST variants with their own parse
// branch; the evaluator and scheduler are untouched.
package rules
