package tailspin

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func mustContain(t *testing.T, s, sub string) {
	t.Helper()
	if !strings.Contains(s, sub) {
		t.Fatalf("expected output to contain %q\n--- output ---\n%s", sub, s)
	}
}

func Test_ErrorWrap_UnexpectedEOF_Caret_And_Hint(t *testing.T) {
	src := "(define x (+ 1 2)"
	_, err := ParseProgram(src, NewSymbolTable())
	if err == nil {
		t.Fatalf("expected parse error, got nil")
	}
	got := WrapErrorWithSource(err, src).Error()
	want := "" +
		"   1 | (define x (+ 1 2)\n" +
		"     |                  ^\n" +
		"error: unexpected end of input\n" +
		"hint: unclosed parens, maybe you're missing ')'?\n"
	if got != want {
		t.Fatalf("snippet mismatch\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
}

func Test_ErrorWrap_Hint_Counts_Missing_Parens(t *testing.T) {
	src := "(define (f x) (+ x (* 2 x"
	_, err := NewInterpreter().EvalSource(src)
	if err == nil {
		t.Fatalf("expected parse error")
	}
	mustContain(t, err.Error(), "hint: unclosed parens, maybe you're missing ')))'?")
}

func Test_ErrorWrap_EOF_Ignores_Trailing_Newlines(t *testing.T) {
	src := "(a\n  (b c)\n\n"
	_, err := ParseProgram(src, NewSymbolTable())
	msg := RenderError("", src, err)
	mustContain(t, msg, "   2 |   (b c)\n     |        ^\n")
}

func Test_ErrorWrap_Lex_Shows_Context_And_Span(t *testing.T) {
	src := "(define s 1)\n\"bad \\q\""
	_, err := ParseProgram(src, NewSymbolTable())
	if err == nil {
		t.Fatalf("expected lex error, got nil")
	}
	msg := WrapErrorWithSource(err, src).Error()
	mustContain(t, msg, "   1 | (define s 1)\n")
	mustContain(t, msg, "   2 | \"bad \\q\"\n")
	mustContain(t, msg, "     |      ^^\n")
	mustContain(t, msg, "error: invalid escape sequence \\q")
}

func Test_ErrorWrap_Unterminated_String_Hint(t *testing.T) {
	src := `(display "oops`
	_, err := ParseProgram(src, NewSymbolTable())
	msg := RenderError("", src, err)
	mustContain(t, msg, "hint: unterminated string literal")
}

func Test_ErrorWrap_Recur_Points_At_Form(t *testing.T) {
	src := "(define (f n)\n  (+ 1 (recur n)))"
	ip := NewInterpreter()
	_, err := ip.EvalSource(src)
	if err == nil {
		t.Fatalf("expected verification error")
	}
	msg := err.Error()
	mustContain(t, msg, "   1 | (define (f n)\n")
	mustContain(t, msg, "   2 |   (+ 1 (recur n)))\n")
	mustContain(t, msg, "     |        ^^^^^^^^^\n")
	mustContain(t, msg, "error: recur in non-tail position")

	var pe *ParseError
	if !errors.As(err, &pe) || pe.Kind != RecurInNonTailPosition {
		t.Fatalf("wrapped error should still expose *ParseError, got %v", err)
	}
}

func Test_ErrorWrap_Named_Header(t *testing.T) {
	src := "(a\n(b"
	_, err := ParseProgram(src, NewSymbolTable())
	msg := WrapErrorWithName(err, "prog.scm", src).Error()
	if !strings.HasPrefix(msg, "prog.scm:2:3\n") {
		t.Fatalf("want header prog.scm:2:3, got:\n%s", msg)
	}
}

func Test_ErrorWrap_Incomplete_Survives_Wrapping(t *testing.T) {
	src := "(a"
	_, err := ParseProgram(src, NewSymbolTable())
	if !IsIncomplete(WrapErrorWithSource(err, src)) {
		t.Fatalf("IsIncomplete should see through the wrapper")
	}
}

func Test_ErrorWrap_Leaves_Other_Errors_Alone(t *testing.T) {
	if got := WrapErrorWithSource(io.EOF, "x"); got != io.EOF {
		t.Fatalf("want io.EOF back, got %v", got)
	}
	mustContain(t, RenderError("f.scm", "", io.EOF), "f.scm: error: EOF")
}

func Test_ErrorWrap_Empty_Source(t *testing.T) {
	msg := RenderError("", "", &ParseError{Kind: UnexpectedEOF, Msg: "unexpected end of input"})
	mustContain(t, msg, "   1 | \n     | ^\n")
}

func Test_RuntimeError_From_Condition(t *testing.T) {
	ip := NewInterpreter()
	_, err := ip.EvalNamedSource("main.scm", "(define x 1)\n(car x)")
	var re *RuntimeError
	if !errors.As(err, &re) {
		t.Fatalf("want *RuntimeError, got %T (%v)", err, err)
	}
	if re.Msg != "car expected pair, got: 1" {
		t.Fatalf("unexpected message %q", re.Msg)
	}
	if s, _ := re.Payload.AsStr(); s != re.Msg {
		t.Fatalf("payload should carry the message, got %v", re.Payload)
	}
	mustContain(t, err.Error(), "main.scm: runtime error: car expected pair, got: 1")
}

func Test_RuntimeError_From_Panic(t *testing.T) {
	ip := NewInterpreter()
	ip.RegisterNative("explode", func(*Interpreter, []Datum) Datum { panic("kaboom") })
	_, err := ip.EvalSource("(explode)")
	var re *RuntimeError
	if !errors.As(err, &re) {
		t.Fatalf("want *RuntimeError, got %T (%v)", err, err)
	}
	mustContain(t, re.Msg, "kaboom")
	if ip.CurrentScope() != ip.Global {
		t.Fatalf("scope not restored after panic")
	}
}
