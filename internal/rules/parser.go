package rules

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/watchkeep/watchkeep/internal/store"
)

// ErrUnrecognized is wrapped by every parse failure. Callers treat an
// unrecognized expression as an inert rule (permanent non-match), never as
// a hard error.
var ErrUnrecognized = errors.New("unrecognized expression")

// parser is a recursive-descent parser over the expression token stream.
type parser struct {
	lex *lexer
	cur token
}

// Parse parses an expression string into its AST. The error, when non-nil,
// wraps ErrUnrecognized and describes the first offending token.
func Parse(input string) (Expr, error) {
	p := &parser{lex: newLexer(input)}
	p.advance()

	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.cur.typ != tokEOF {
		return nil, fmt.Errorf("%w: trailing input %q", ErrUnrecognized, p.cur.lit)
	}
	return expr, nil
}

func (p *parser) advance() { p.cur = p.lex.next() }

func (p *parser) parseExpr() (Expr, error) {
	if p.cur.typ != tokIdent {
		return nil, fmt.Errorf("%w: expected selector, got %q", ErrUnrecognized, p.cur.lit)
	}

	switch p.cur.lit {
	case "metric":
		return p.parseMetricThreshold()
	case "log.level":
		return p.parseLogLevelIs()
	default:
		return nil, fmt.Errorf("%w: unknown selector %q", ErrUnrecognized, p.cur.lit)
	}
}

// parseMetricThreshold parses `metric:<name> <op> <number>`.
func (p *parser) parseMetricThreshold() (Expr, error) {
	p.advance()
	if p.cur.typ != tokColon {
		return nil, fmt.Errorf("%w: expected ':' after metric", ErrUnrecognized)
	}

	p.advance()
	if p.cur.typ != tokIdent {
		return nil, fmt.Errorf("%w: expected metric name, got %q", ErrUnrecognized, p.cur.lit)
	}
	name := p.cur.lit

	p.advance()
	op, ok := compareOp(p.cur)
	if !ok {
		return nil, fmt.Errorf("%w: expected comparison operator, got %q", ErrUnrecognized, p.cur.lit)
	}

	p.advance()
	if p.cur.typ != tokNumber {
		return nil, fmt.Errorf("%w: expected numeric threshold, got %q", ErrUnrecognized, p.cur.lit)
	}
	threshold, err := strconv.ParseFloat(p.cur.lit, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad threshold %q", ErrUnrecognized, p.cur.lit)
	}

	p.advance()
	return MetricThreshold{Metric: name, Op: op, Threshold: threshold}, nil
}

// parseLogLevelIs parses `log.level == '<LEVEL>'`.
func (p *parser) parseLogLevelIs() (Expr, error) {
	p.advance()
	if p.cur.typ != tokEQ {
		return nil, fmt.Errorf("%w: expected '==' after log.level", ErrUnrecognized)
	}

	p.advance()
	// The level may be quoted or bare.
	var lit string
	switch p.cur.typ {
	case tokString, tokIdent:
		lit = p.cur.lit
	default:
		return nil, fmt.Errorf("%w: expected level literal, got %q", ErrUnrecognized, p.cur.lit)
	}
	level, ok := store.ParseLevel(lit)
	if !ok {
		return nil, fmt.Errorf("%w: unknown level %q", ErrUnrecognized, lit)
	}

	p.advance()
	return LogLevelIs{Level: level}, nil
}

func compareOp(t token) (CompareOp, bool) {
	switch t.typ {
	case tokGT:
		return OpGT, true
	case tokGTE:
		return OpGTE, true
	case tokLT:
		return OpLT, true
	case tokLTE:
		return OpLTE, true
	case tokEQ:
		return OpEQ, true
	default:
		return "", false
	}
}
