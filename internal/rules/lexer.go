package rules

type tokenType int

const (
	tokIllegal tokenType = iota
	tokEOF
	tokIdent  // metric, log.level, cpu_usage
	tokNumber // 50, 0.75
	tokString // 'ERROR'
	tokColon  // :
	tokGT     // >
	tokGTE    // >=
	tokLT     // <
	tokLTE    // <=
	tokEQ     // ==
)

type token struct {
	typ tokenType
	lit string
}

// lexer scans an expression string into tokens. Identifiers may contain
// letters, digits, underscores, and dots so that dotted selectors
// (log.level) and dotted metric names (jvm.heap.used) lex as one token.
type lexer struct {
	input string
	pos   int
}

func newLexer(input string) *lexer {
	return &lexer{input: input}
}

func (l *lexer) next() token {
	l.skipSpace()
	if l.pos >= len(l.input) {
		return token{typ: tokEOF}
	}

	ch := l.input[l.pos]
	switch {
	case ch == ':':
		l.pos++
		return token{typ: tokColon, lit: ":"}

	case ch == '>':
		l.pos++
		if l.peek() == '=' {
			l.pos++
			return token{typ: tokGTE, lit: ">="}
		}
		return token{typ: tokGT, lit: ">"}

	case ch == '<':
		l.pos++
		if l.peek() == '=' {
			l.pos++
			return token{typ: tokLTE, lit: "<="}
		}
		return token{typ: tokLT, lit: "<"}

	case ch == '=':
		l.pos++
		if l.peek() == '=' {
			l.pos++
			return token{typ: tokEQ, lit: "=="}
		}
		return token{typ: tokIllegal, lit: "="}

	case ch == '\'':
		return l.readString()

	case isDigit(ch):
		return l.readNumber()

	case isIdentStart(ch):
		return l.readIdent()

	default:
		l.pos++
		return token{typ: tokIllegal, lit: string(ch)}
	}
}

func (l *lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.input) && (l.input[l.pos] == ' ' || l.input[l.pos] == '\t') {
		l.pos++
	}
}

// readString consumes a single-quoted literal. The quotes are stripped.
func (l *lexer) readString() token {
	start := l.pos
	l.pos++ // opening quote
	for l.pos < len(l.input) && l.input[l.pos] != '\'' {
		l.pos++
	}
	if l.pos >= len(l.input) {
		// Unterminated literal.
		return token{typ: tokIllegal, lit: l.input[start:]}
	}
	lit := l.input[start+1 : l.pos]
	l.pos++ // closing quote
	return token{typ: tokString, lit: lit}
}

func (l *lexer) readNumber() token {
	start := l.pos
	for l.pos < len(l.input) && (isDigit(l.input[l.pos]) || l.input[l.pos] == '.') {
		l.pos++
	}
	return token{typ: tokNumber, lit: l.input[start:l.pos]}
}

func (l *lexer) readIdent() token {
	start := l.pos
	for l.pos < len(l.input) && isIdentPart(l.input[l.pos]) {
		l.pos++
	}
	return token{typ: tokIdent, lit: l.input[start:l.pos]}
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

func isIdentStart(ch byte) bool {
	return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch == '_'
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch) || ch == '.'
}
