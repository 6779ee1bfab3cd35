// lexer.go: tokenizer for tailspin source text.
//
// Tokens carry half-open byte spans [Start, End) into the source so that the
// parser can build a SpanIndex and the error renderer can draw carets.
//
// Lexical rules
//   - integers:   optional '-' followed by decimal digits (int64 range)
//   - characters: #\c for printable ASCII c, or #\\n #\\s #\\t #\\\ escapes
//   - strings:    "..." ASCII only, escapes \n \s \t \" \\
//   - symbols:    letters, digits and ! # $ % & * + - . / : < = > ? @ ^ _ ~,
//                 not starting with a digit
//   - punctuation: ( ) . '
//   - comments:   ';' to end of line
//
// Reserved words lex as keyword tokens rather than SYMBOL.
package tailspin

import (
	"fmt"
	"strconv"
	"unicode/utf8"
)

// TokenType represents the kind of token.
type TokenType int

const (
	// Special
	EOF TokenType = iota

	// Punctuation
	LPAREN // "("
	RPAREN // ")"
	DOT    // "." standing alone
	TICK   // "'" quote shorthand

	// Literals & identifiers
	INTEGER
	CHAR
	STRING
	SYMBOL

	// Keywords
	TRUE
	FALSE
	BEGIN
	DEFINE
	IF
	LAMBDA
	LET
	LOOP
	QUOTE
	RECUR
)

var tokenNames = map[TokenType]string{
	EOF:     "end of input",
	LPAREN:  "'('",
	RPAREN:  "')'",
	DOT:     "'.'",
	TICK:    "'",
	INTEGER: "integer",
	CHAR:    "character",
	STRING:  "string",
	SYMBOL:  "symbol",
	TRUE:    "true",
	FALSE:   "false",
	BEGIN:   "begin",
	DEFINE:  "define",
	IF:      "if",
	LAMBDA:  "lambda",
	LET:     "let",
	LOOP:    "loop",
	QUOTE:   "quote",
	RECUR:   "recur",
}

func (t TokenType) String() string {
	if s, ok := tokenNames[t]; ok {
		return s
	}
	return "token(" + strconv.Itoa(int(t)) + ")"
}

// keywords map
var keywords = map[string]TokenType{
	"true":   TRUE,
	"false":  FALSE,
	"begin":  BEGIN,
	"define": DEFINE,
	"if":     IF,
	"lambda": LAMBDA,
	"let":    LET,
	"loop":   LOOP,
	"quote":  QUOTE,
	"recur":  RECUR,
}

// IsReserved reports whether text is one of the reserved words.
func IsReserved(text string) bool {
	_, ok := keywords[text]
	return ok
}

// Token is a lexical token with optional literal value.
type Token struct {
	Type    TokenType
	Lexeme  string // raw text slice
	Literal any    // int64 for INTEGER, rune for CHAR, string for STRING
	Start   int    // byte offset, inclusive
	End     int    // byte offset, exclusive
}

// ErrorKind classifies load-time errors.
type ErrorKind int

const (
	InvalidToken ErrorKind = iota
	UnexpectedEOF
	NonASCIICharacter
	InvalidEscape
	UnexpectedToken
	RecurInNonTailPosition
)

var errorKindNames = [...]string{
	InvalidToken:           "InvalidToken",
	UnexpectedEOF:          "UnexpectedEof",
	NonASCIICharacter:      "NonAsciiCharacter",
	InvalidEscape:          "InvalidEscape",
	UnexpectedToken:        "UnexpectedToken",
	RecurInNonTailPosition: "RecurInNonTailPosition",
}

func (k ErrorKind) String() string {
	if int(k) < len(errorKindNames) {
		return errorKindNames[k]
	}
	return "ErrorKind(" + strconv.Itoa(int(k)) + ")"
}

// LexError is produced by the lexer. What names the unterminated construct
// ("string" or "char") for UnexpectedEOF.
type LexError struct {
	Kind  ErrorKind
	Start int
	End   int
	What  string
	Msg   string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lexical error at byte %d: %s", e.Start, e.Msg)
}

// Lexer scans a source string into tokens.
type Lexer struct {
	src    string
	start  int // start index of current token
	cur    int // current index
	tokens []Token
}

// NewLexer creates a new lexer for the given source.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src}
}

// Scan tokenizes the whole source. The returned slice always ends with EOF.
func (l *Lexer) Scan() ([]Token, error) {
	for {
		l.skipTrivia()
		l.start = l.cur
		if l.isAtEnd() {
			l.addToken(EOF, nil)
			return l.tokens, nil
		}
		if err := l.scanToken(); err != nil {
			return nil, err
		}
	}
}

func (l *Lexer) isAtEnd() bool { return l.cur >= len(l.src) }

func (l *Lexer) peek() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	return l.src[l.cur], true
}

func (l *Lexer) peekN(n int) (byte, bool) {
	idx := l.cur + n
	if idx >= len(l.src) {
		return 0, false
	}
	return l.src[idx], true
}

func (l *Lexer) addToken(tt TokenType, lit any) {
	l.tokens = append(l.tokens, Token{
		Type:    tt,
		Lexeme:  l.src[l.start:l.cur],
		Literal: lit,
		Start:   l.start,
		End:     l.cur,
	})
	l.start = l.cur
}

func (l *Lexer) skipTrivia() {
	for !l.isAtEnd() {
		switch ch := l.src[l.cur]; {
		case isWhitespace(ch):
			l.cur++
		case ch == ';':
			for !l.isAtEnd() && l.src[l.cur] != '\n' {
				l.cur++
			}
		default:
			return
		}
	}
}

func (l *Lexer) scanToken() error {
	ch := l.src[l.cur]
	switch {
	case ch == '(':
		l.cur++
		l.addToken(LPAREN, nil)
	case ch == ')':
		l.cur++
		l.addToken(RPAREN, nil)
	case ch == '\'':
		l.cur++
		l.addToken(TICK, nil)
	case ch == '"':
		return l.scanString()
	case ch == '#':
		if next, ok := l.peekN(1); ok && next == '\\' {
			return l.scanChar()
		}
		return l.scanSymbol()
	case ch == '.':
		if l.endOfItemAt(l.cur + 1) {
			l.cur++
			l.addToken(DOT, nil)
			return nil
		}
		return l.scanSymbol()
	case ch == '-':
		if next, ok := l.peekN(1); ok && isDigit(next) {
			return l.scanInteger()
		}
		return l.scanSymbol()
	case isDigit(ch):
		return l.scanInteger()
	case ch >= utf8.RuneSelf:
		return l.nonASCII(l.cur)
	case isSymbolChar(ch):
		return l.scanSymbol()
	default:
		return &LexError{Kind: InvalidToken, Start: l.cur, End: l.cur + 1,
			Msg: fmt.Sprintf("invalid character %q", ch)}
	}
	return nil
}

func (l *Lexer) scanInteger() error {
	if l.src[l.cur] == '-' {
		l.cur++
	}
	for !l.isAtEnd() && isDigit(l.src[l.cur]) {
		l.cur++
	}
	if !l.endOfItemAt(l.cur) {
		return l.badTail("invalid integer literal")
	}
	text := l.src[l.start:l.cur]
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return &LexError{Kind: InvalidToken, Start: l.start, End: l.cur,
			Msg: fmt.Sprintf("integer literal %s is out of range", text)}
	}
	l.addToken(INTEGER, n)
	return nil
}

func (l *Lexer) scanSymbol() error {
	for !l.isAtEnd() && isSymbolChar(l.src[l.cur]) {
		l.cur++
	}
	if !l.endOfItemAt(l.cur) {
		return l.badTail("invalid character in symbol")
	}
	text := l.src[l.start:l.cur]
	if kw, ok := keywords[text]; ok {
		l.addToken(kw, nil)
		return nil
	}
	l.addToken(SYMBOL, text)
	return nil
}

// scanChar handles #\c and #\\x. l.cur points at '#'.
func (l *Lexer) scanChar() error {
	l.cur += 2 // #\
	ch, ok := l.peek()
	if !ok {
		return &LexError{Kind: UnexpectedEOF, Start: l.start, End: l.cur, What: "char",
			Msg: "unexpected end of input in character literal"}
	}
	var r rune
	switch {
	case ch == '\\':
		l.cur++
		if l.endOfItemAt(l.cur) {
			r = '\\'
			break
		}
		esc := l.src[l.cur]
		u, ok := unescapeChar(esc)
		if !ok {
			return l.invalidEscape(l.cur - 1)
		}
		l.cur++
		r = u
	case ch >= utf8.RuneSelf:
		return l.nonASCII(l.cur)
	case isPrintable(ch):
		l.cur++
		r = rune(ch)
	default:
		return &LexError{Kind: InvalidToken, Start: l.start, End: l.cur + 1,
			Msg: "missing character after #\\ (use #\\\\s for space)"}
	}
	if !l.endOfItemAt(l.cur) {
		return l.badTail("character literal has more than one character")
	}
	l.addToken(CHAR, r)
	return nil
}

func (l *Lexer) scanString() error {
	l.cur++ // opening quote
	var out []byte
	for {
		ch, ok := l.peek()
		if !ok {
			return &LexError{Kind: UnexpectedEOF, Start: l.start, End: len(l.src), What: "string",
				Msg: "unexpected end of input in string literal"}
		}
		switch {
		case ch == '"':
			l.cur++
			l.addToken(STRING, string(out))
			return nil
		case ch == '\\':
			esc, ok := l.peekN(1)
			if !ok {
				return &LexError{Kind: UnexpectedEOF, Start: l.start, End: len(l.src), What: "string",
					Msg: "unexpected end of input in string literal"}
			}
			if esc == '"' {
				out = append(out, '"')
			} else if r, ok := unescapeChar(esc); ok {
				out = append(out, byte(r))
			} else {
				return l.invalidEscape(l.cur)
			}
			l.cur += 2
		case ch >= utf8.RuneSelf:
			return l.nonASCII(l.cur)
		default:
			out = append(out, ch)
			l.cur++
		}
	}
}

// badTail reports the run of non-delimiter characters starting at l.cur.
func (l *Lexer) badTail(msg string) error {
	if ch, ok := l.peek(); ok && ch >= utf8.RuneSelf {
		return l.nonASCII(l.cur)
	}
	end := l.cur
	for end < len(l.src) && !l.endOfItemAt(end) {
		end++
	}
	return &LexError{Kind: InvalidToken, Start: l.cur, End: end,
		Msg: fmt.Sprintf("%s: %s", msg, l.src[l.start:end])}
}

func (l *Lexer) nonASCII(pos int) error {
	r, size := utf8.DecodeRuneInString(l.src[pos:])
	return &LexError{Kind: NonASCIICharacter, Start: pos, End: pos + size,
		Msg: fmt.Sprintf("invalid character: %q is not ASCII", r)}
}

// invalidEscape reports the backslash at pos and the character after it.
func (l *Lexer) invalidEscape(pos int) error {
	end := pos + 1
	if end < len(l.src) {
		_, size := utf8.DecodeRuneInString(l.src[end:])
		end += size
	}
	return &LexError{Kind: InvalidEscape, Start: pos, End: end,
		Msg: fmt.Sprintf("invalid escape sequence %s", l.src[pos:end])}
}

// endOfItemAt reports whether a token may end before position i.
func (l *Lexer) endOfItemAt(i int) bool {
	if i >= len(l.src) {
		return true
	}
	return isDelimiter(l.src[i])
}

// helpers

func isWhitespace(b byte) bool { return b == ' ' || b == '\t' || b == '\n' || b == '\r' }
func isDigit(b byte) bool      { return b >= '0' && b <= '9' }
func isPrintable(b byte) bool  { return b >= '!' && b <= '~' }

func isSymbolChar(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', isDigit(b):
		return true
	}
	switch b {
	case '!', '#', '$', '%', '&', '*', '+', '-', '.', '/', ':', '<', '=', '>', '?', '@', '^', '_', '~':
		return true
	}
	return false
}
