// lexer_test.go
package tailspin

import (
	"errors"
	"reflect"
	"testing"
)

func toks(t *testing.T, src string) []Token {
	t.Helper()
	l := NewLexer(src)
	ts, err := l.Scan()
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	return ts
}

func typesWithoutEOF(tokens []Token) []TokenType {
	if len(tokens) == 0 {
		return nil
	}
	end := len(tokens)
	if tokens[end-1].Type == EOF {
		end--
	}
	out := make([]TokenType, 0, end)
	for i := 0; i < end; i++ {
		out = append(out, tokens[i].Type)
	}
	return out
}

func wantTypes(t *testing.T, src string, want []TokenType) []Token {
	t.Helper()
	got := toks(t, src)
	gotTypes := typesWithoutEOF(got)
	if !reflect.DeepEqual(gotTypes, want) {
		t.Fatalf("\nsource:\n%s\nwant types:\n%v\ngot types:\n%v\n", src, want, gotTypes)
	}
	return got
}

func lexErr(t *testing.T, src string) *LexError {
	t.Helper()
	_, err := NewLexer(src).Scan()
	if err == nil {
		t.Fatalf("expected lex error for %q", src)
	}
	var le *LexError
	if !errors.As(err, &le) {
		t.Fatalf("expected *LexError, got %T (%v)", err, err)
	}
	return le
}

func Test_Lexer_Punctuation_And_Keywords(t *testing.T) {
	wantTypes(t, `(define x '(1 . 2))`, []TokenType{
		LPAREN, DEFINE, SYMBOL, TICK, LPAREN, INTEGER, DOT, INTEGER, RPAREN, RPAREN,
	})
	wantTypes(t, `(loop ((i 0)) (if true (recur i) false))`, []TokenType{
		LPAREN, LOOP, LPAREN, LPAREN, SYMBOL, INTEGER, RPAREN, RPAREN,
		LPAREN, IF, TRUE, LPAREN, RECUR, SYMBOL, RPAREN, FALSE, RPAREN, RPAREN,
	})
	wantTypes(t, `begin lambda let quote`, []TokenType{BEGIN, LAMBDA, LET, QUOTE})
}

func Test_Lexer_Integers(t *testing.T) {
	ts := wantTypes(t, `0 42 -7 9223372036854775807 -9223372036854775808`,
		[]TokenType{INTEGER, INTEGER, INTEGER, INTEGER, INTEGER})
	want := []int64{0, 42, -7, 9223372036854775807, -9223372036854775808}
	for i, w := range want {
		if got := ts[i].Literal.(int64); got != w {
			t.Fatalf("token %d: want %d, got %d", i, w, got)
		}
	}
}

func Test_Lexer_Integer_OutOfRange(t *testing.T) {
	le := lexErr(t, `9223372036854775808`)
	if le.Kind != InvalidToken {
		t.Fatalf("want InvalidToken, got %v", le.Kind)
	}
}

func Test_Lexer_Minus_Is_Symbol_Unless_Digit_Follows(t *testing.T) {
	ts := wantTypes(t, `- -x -1 ->x`, []TokenType{SYMBOL, SYMBOL, INTEGER, SYMBOL})
	if ts[0].Literal != "-" || ts[1].Literal != "-x" || ts[3].Literal != "->x" {
		t.Fatalf("unexpected symbol literals: %v %v %v", ts[0].Literal, ts[1].Literal, ts[3].Literal)
	}
}

func Test_Lexer_Symbols_With_Punctuation(t *testing.T) {
	ts := wantTypes(t, `set! let* eq? char->integer ... a.b <=`,
		[]TokenType{SYMBOL, SYMBOL, SYMBOL, SYMBOL, SYMBOL, SYMBOL, SYMBOL})
	want := []string{"set!", "let*", "eq?", "char->integer", "...", "a.b", "<="}
	for i, w := range want {
		if ts[i].Literal != w {
			t.Fatalf("token %d: want %q, got %v", i, w, ts[i].Literal)
		}
	}
}

func Test_Lexer_Characters(t *testing.T) {
	ts := wantTypes(t, `#\a #\( #\\n #\\t #\\s #\\\ #\\`,
		[]TokenType{CHAR, CHAR, CHAR, CHAR, CHAR, CHAR, CHAR})
	want := []rune{'a', '(', '\n', '\t', ' ', '\\', '\\'}
	for i, w := range want {
		if got := ts[i].Literal.(rune); got != w {
			t.Fatalf("token %d: want %q, got %q", i, w, got)
		}
	}
}

func Test_Lexer_Character_Errors(t *testing.T) {
	if le := lexErr(t, `#\`); le.Kind != UnexpectedEOF || le.What != "char" {
		t.Fatalf("want UnexpectedEOF(char), got %v %q", le.Kind, le.What)
	}
	if le := lexErr(t, `#\\q`); le.Kind != InvalidEscape {
		t.Fatalf("want InvalidEscape, got %v", le.Kind)
	}
	if le := lexErr(t, `#\ab`); le.Kind != InvalidToken {
		t.Fatalf("want InvalidToken, got %v", le.Kind)
	}
	if le := lexErr(t, `#\é`); le.Kind != NonASCIICharacter {
		t.Fatalf("want NonASCIICharacter, got %v", le.Kind)
	}
}

func Test_Lexer_Strings(t *testing.T) {
	ts := wantTypes(t, `"hi" "a\nb" "tab\tq\"x\\" "s\sp" ""`,
		[]TokenType{STRING, STRING, STRING, STRING, STRING})
	want := []string{"hi", "a\nb", "tab\tq\"x\\", "s p", ""}
	for i, w := range want {
		if ts[i].Literal != w {
			t.Fatalf("token %d: want %q, got %q", i, w, ts[i].Literal)
		}
	}
}

func Test_Lexer_String_Errors(t *testing.T) {
	if le := lexErr(t, `"abc`); le.Kind != UnexpectedEOF || le.What != "string" {
		t.Fatalf("want UnexpectedEOF(string), got %v %q", le.Kind, le.What)
	}
	if le := lexErr(t, `"a\qb"`); le.Kind != InvalidEscape || le.Start != 2 {
		t.Fatalf("want InvalidEscape at 2, got %v at %d", le.Kind, le.Start)
	}
	if le := lexErr(t, `"naïve"`); le.Kind != NonASCIICharacter || le.Start != 3 {
		t.Fatalf("want NonASCIICharacter at 3, got %v at %d", le.Kind, le.Start)
	}
}

func Test_Lexer_Comments_And_Whitespace(t *testing.T) {
	wantTypes(t, "; header\n(+ 1 ; inline\n\t2)\r\n", []TokenType{LPAREN, SYMBOL, INTEGER, INTEGER, RPAREN})
}

func Test_Lexer_Invalid_Characters(t *testing.T) {
	if le := lexErr(t, `(a [b])`); le.Kind != InvalidToken || le.Start != 3 {
		t.Fatalf("want InvalidToken at 3, got %v at %d", le.Kind, le.Start)
	}
	if le := lexErr(t, `12ab`); le.Kind != InvalidToken {
		t.Fatalf("want InvalidToken, got %v", le.Kind)
	}
	if le := lexErr(t, `λ`); le.Kind != NonASCIICharacter {
		t.Fatalf("want NonASCIICharacter, got %v", le.Kind)
	}
}

func Test_Lexer_Spans_Are_Byte_Offsets(t *testing.T) {
	ts := toks(t, `(foo "bar")`)
	want := [][2]int{{0, 1}, {1, 4}, {5, 10}, {10, 11}, {11, 11}}
	for i, w := range want {
		if ts[i].Start != w[0] || ts[i].End != w[1] {
			t.Fatalf("token %d (%v): want [%d,%d), got [%d,%d)", i, ts[i].Type, w[0], w[1], ts[i].Start, ts[i].End)
		}
	}
}

func Test_Lexer_Empty_Input_Yields_EOF(t *testing.T) {
	ts := toks(t, "  ; only a comment")
	if len(ts) != 1 || ts[0].Type != EOF {
		t.Fatalf("want single EOF, got %v", ts)
	}
}
