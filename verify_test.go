package tailspin

import (
	"errors"
	"testing"
)

// verifySrc returns the source text of the first violation, if any.
func verifySrc(t *testing.T, src string) (string, bool) {
	t.Helper()
	forms, spans, err := ParseProgramWithSpans(src, NewSymbolTable())
	if err != nil {
		t.Fatalf("parse: %v\nsource:\n%s", err, src)
	}
	err = VerifyTailCalls(forms, spans)
	if err == nil {
		return "", false
	}
	var pe *ParseError
	if !errors.As(err, &pe) || pe.Kind != RecurInNonTailPosition {
		t.Fatalf("want RecurInNonTailPosition, got %v", err)
	}
	return src[pe.Start:pe.End], true
}

func Test_Verify_Accepts_Tail_Recur(t *testing.T) {
	srcs := []string{
		`(loop ((i 0)) (if (< i 3) (recur (+ i 1)) i))`,
		`(loop ((i 0)) (begin (display i) (recur (+ i 1))))`,
		`(loop ((i 0)) (let ((j i)) (recur j)))`,
		`(loop ((i 0)) (let* ((j i) (k j)) (recur k)))`,
		`(define (f n) (if (= n 0) 0 (recur (- n 1))))`,
		`(define f (lambda (n) (recur n)))`,
		`(lambda self (n) (recur n))`,
		`(loop () (loop () (recur)))`,
		`(loop () (+ 1 (loop () (recur))))`,
		`(loop () (define (g) (recur)))`,
		`'(recur 1)`,
		`(quote (f (recur)))`,
		`(loop ((i 0)) (recur (car '(recur))))`,
	}
	for _, src := range srcs {
		if span, bad := verifySrc(t, src); bad {
			t.Fatalf("%s: unexpected violation at %q", src, span)
		}
	}
}

func Test_Verify_Rejects_Non_Tail_Recur(t *testing.T) {
	cases := []struct{ src, span string }{
		{`(recur 1)`, `(recur 1)`},
		{`(let ((x 1)) (recur x))`, `(recur x)`},
		{`(begin (recur))`, `(recur)`},
		{`(loop () (begin (recur) 1))`, `(recur)`},
		{`(loop () (if (recur) 1 2))`, `(recur)`},
		{`(loop ((i (recur 1))) i)`, `(recur 1)`},
		{`(loop () (+ 1 (recur)))`, `(recur)`},
		{`(loop () (set! x (recur)))`, `(recur)`},
		{`(define x (recur 1))`, `(recur 1)`},
		{`(define (f n) (+ 1 (recur n)))`, `(recur n)`},
		{`(lambda (n) (f (recur n)))`, `(recur n)`},
		{`(loop () (recur (recur)))`, `(recur)`},
		{`(loop () (f (recur) . 1))`, `(recur)`},
	}
	for _, tc := range cases {
		span, bad := verifySrc(t, tc.src)
		if !bad {
			t.Fatalf("%s: expected a violation", tc.src)
		}
		if span != tc.span {
			t.Fatalf("%s: want span %q, got %q", tc.src, tc.span, span)
		}
	}
}

func Test_Verify_Reports_First_Violation_Only(t *testing.T) {
	src := "(define ok 1)\n(begin (recur 1))\n(recur 2)"
	span, bad := verifySrc(t, src)
	if !bad || span != "(recur 1)" {
		t.Fatalf("want first violation (recur 1), got %q", span)
	}
}

func Test_Verify_Without_Spans(t *testing.T) {
	forms, err := ParseProgram(`(+ 1 (recur))`, NewSymbolTable())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	err = VerifyTailCalls(forms, nil)
	var pe *ParseError
	if !errors.As(err, &pe) || pe.Start != 0 || pe.End != 0 {
		t.Fatalf("want zero-span violation, got %#v", err)
	}
}
