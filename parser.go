// parser.go: recursive-descent reader that turns tokens into Datums.
//
// OVERVIEW
// --------
// The reader consumes the token stream produced by lexer.go and builds program
// forms directly as Datums: code is data. There is no separate AST.
//
//	INTEGER        → Int
//	CHAR           → Char
//	STRING         → Str
//	SYMBOL         → Sym (interned in the caller's SymbolTable)
//	true / false   → Bool
//	other keywords → Sym of the same name (define, if, lambda, ...)
//	'x             → (quote x)
//	( a b c )      → proper list
//	( a b . c )    → dotted list
//
// Spans
// -----
// ParseProgramWithSpans records one Span per list form, keyed by the list's
// first *Pair (see spans.go). The tail-call verifier uses it to point at the
// offending `recur`.
//
// Errors
// ------
// All failures are *LexError (from the lexer) or *ParseError. An unclosed list
// or a dangling quote yields Kind == UnexpectedEOF, which IsIncomplete
// recognizes so the REPL can ask for more input.
package tailspin

import (
	"errors"
	"fmt"
	"strings"
)

// ParseError is produced by the reader and by the tail-call verifier.
// Start/End are byte offsets into the source. Hint is optional advice
// rendered under the message.
type ParseError struct {
	Kind  ErrorKind
	Start int
	End   int
	Msg   string
	Hint  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at byte %d: %s", e.Start, e.Msg)
}

// IsIncomplete reports whether err means the input simply stopped too early:
// an open list, a dangling quote, or an unterminated string or character.
func IsIncomplete(err error) bool {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Kind == UnexpectedEOF
	}
	var le *LexError
	if errors.As(err, &le) {
		return le.Kind == UnexpectedEOF
	}
	return false
}

// ParseProgram reads every top-level datum in src.
func ParseProgram(src string, st *SymbolTable) ([]Datum, error) {
	forms, _, err := ParseProgramWithSpans(src, st)
	return forms, err
}

// ParseProgramWithSpans is ParseProgram plus a SpanIndex for every list form.
func ParseProgramWithSpans(src string, st *SymbolTable) ([]Datum, *SpanIndex, error) {
	toks, err := NewLexer(src).Scan()
	if err != nil {
		return nil, nil, err
	}
	p := &parser{src: src, toks: toks, st: st, spans: newSpanIndex()}
	var forms []Datum
	for p.peek().Type != EOF {
		d, err := p.datum()
		if err != nil {
			return nil, nil, err
		}
		forms = append(forms, d)
	}
	return forms, p.spans, nil
}

// Parse reads exactly one datum. Empty input and trailing data are errors.
func Parse(src string, st *SymbolTable) (Datum, error) {
	forms, err := ParseProgram(src, st)
	if err != nil {
		return Empty, err
	}
	switch len(forms) {
	case 1:
		return forms[0], nil
	case 0:
		return Empty, &ParseError{Kind: UnexpectedEOF, Start: len(src), End: len(src),
			Msg: "expected a datum, got end of input"}
	default:
		return Empty, &ParseError{Kind: UnexpectedToken, Start: 0, End: len(src),
			Msg: fmt.Sprintf("expected exactly one datum, got %d", len(forms))}
	}
}

//// END_OF_PUBLIC

type parser struct {
	src   string
	toks  []Token
	pos   int
	st    *SymbolTable
	spans *SpanIndex
}

func (p *parser) peek() Token { return p.toks[p.pos] }

func (p *parser) next() Token {
	t := p.toks[p.pos]
	if t.Type != EOF {
		p.pos++
	}
	return t
}

func (p *parser) datum() (Datum, error) {
	t := p.next()
	switch t.Type {
	case INTEGER:
		return Int(t.Literal.(int64)), nil
	case CHAR:
		return Char(t.Literal.(rune)), nil
	case STRING:
		return Str(t.Literal.(string)), nil
	case SYMBOL:
		return Sym(p.st.Intern(t.Literal.(string))), nil
	case TRUE:
		return True, nil
	case FALSE:
		return False, nil
	case BEGIN, DEFINE, IF, LAMBDA, LET, LOOP, QUOTE, RECUR:
		return Sym(p.st.Intern(t.Lexeme)), nil
	case TICK:
		if p.peek().Type == EOF {
			return Empty, p.eof()
		}
		inner, err := p.datum()
		if err != nil {
			return Empty, err
		}
		d := List(Sym(p.st.Intern("quote")), inner)
		p.spans.record(d, Span{StartByte: t.Start, EndByte: p.toks[p.pos-1].End})
		return d, nil
	case LPAREN:
		return p.list(t)
	case EOF:
		return Empty, p.eof()
	default:
		return Empty, &ParseError{Kind: UnexpectedToken, Start: t.Start, End: t.End,
			Msg: fmt.Sprintf("unexpected token %s", t.Type)}
	}
}

// list reads the elements after an opening paren up to the matching ')'.
func (p *parser) list(open Token) (Datum, error) {
	var items []Datum
	tail := Empty
	for {
		t := p.peek()
		switch t.Type {
		case EOF:
			return Empty, p.eof()
		case RPAREN:
			p.next()
			d := DottedList(items, tail)
			if d.IsEmpty() {
				return d, nil
			}
			p.spans.record(d, Span{StartByte: open.Start, EndByte: t.End})
			return d, nil
		case DOT:
			if len(items) == 0 {
				return Empty, &ParseError{Kind: UnexpectedToken, Start: t.Start, End: t.End,
					Msg: "unexpected '.' at the start of a list"}
			}
			p.next()
			if nt := p.peek().Type; nt == RPAREN || nt == DOT {
				bad := p.peek()
				return Empty, &ParseError{Kind: UnexpectedToken, Start: bad.Start, End: bad.End,
					Msg: "expected a datum after '.'"}
			}
			d, err := p.datum()
			if err != nil {
				return Empty, err
			}
			tail = d
			if nt := p.peek(); nt.Type != RPAREN {
				if nt.Type == EOF {
					return Empty, p.eof()
				}
				return Empty, &ParseError{Kind: UnexpectedToken, Start: nt.Start, End: nt.End,
					Msg: "expected ')' after the tail of a dotted list"}
			}
		default:
			d, err := p.datum()
			if err != nil {
				return Empty, err
			}
			items = append(items, d)
		}
	}
}

func (p *parser) eof() error {
	n := len(p.src)
	e := &ParseError{Kind: UnexpectedEOF, Start: n, End: n, Msg: "unexpected end of input"}
	if open := UnclosedParens(p.src); open > 0 {
		e.Hint = fmt.Sprintf("unclosed parens, maybe you're missing '%s'?", strings.Repeat(")", open))
	}
	return e
}
