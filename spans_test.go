// spans_test.go
package tailspin

import (
	"bytes"
	"strings"
	"testing"
)

func mustParseWithSpans(t *testing.T, src string) ([]Datum, *SpanIndex) {
	t.Helper()
	forms, idx, err := ParseProgramWithSpans(src, NewSymbolTable())
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if idx == nil {
		t.Fatalf("nil SpanIndex")
	}
	return forms, idx
}

func sliceSpan(src string, sp Span) string {
	if sp.StartByte < 0 || sp.EndByte < 0 || sp.EndByte > len(src) || sp.StartByte > sp.EndByte {
		return ""
	}
	return src[sp.StartByte:sp.EndByte]
}

func assertSpanText(t *testing.T, idx *SpanIndex, d Datum, src, want string) {
	t.Helper()
	sp, ok := idx.SpanOf(d)
	if !ok {
		t.Fatalf("missing span for %s", want)
	}
	if got := sliceSpan(src, sp); got != want {
		t.Fatalf("span text mismatch\nwant: %q\ngot:  %q", want, got)
	}
}

func Test_Spans_Nested_Lists(t *testing.T) {
	src := "(define (f x)\n  (loop ((i x))\n    (recur i)))"
	forms, idx := mustParseWithSpans(t, src)
	assertSpanText(t, idx, forms[0], src, src)

	top, _ := forms[0].ListSlice()
	assertSpanText(t, idx, top[1], src, "(f x)")
	assertSpanText(t, idx, top[2], src, "(loop ((i x))\n    (recur i))")

	loop, _ := top[2].ListSlice()
	assertSpanText(t, idx, loop[1], src, "((i x))")
	assertSpanText(t, idx, loop[2], src, "(recur i)")
}

func Test_Spans_Every_Top_Level_Form(t *testing.T) {
	src := "(a)  (b c)\n'(d)"
	forms, idx := mustParseWithSpans(t, src)
	want := []string{"(a)", "(b c)", "'(d)"}
	for i, w := range want {
		assertSpanText(t, idx, forms[i], src, w)
	}
	if idx.Len() < 3 {
		t.Fatalf("want at least 3 indexed forms, got %d", idx.Len())
	}
}

func Test_Spans_Nil_Index_Is_Empty(t *testing.T) {
	var idx *SpanIndex
	if _, ok := idx.SpanOf(List(Int(1))); ok {
		t.Fatalf("nil index should know nothing")
	}
	if idx.Len() != 0 {
		t.Fatalf("nil index length should be 0")
	}
}

func Test_Spans_LineCol(t *testing.T) {
	src := "ab\ncd\n"
	cases := []struct{ off, line, col int }{
		{0, 1, 1},
		{2, 1, 3},
		{3, 2, 1},
		{4, 2, 2},
		{6, 3, 1},
		{99, 3, 1},
		{-1, 1, 1},
	}
	for _, tc := range cases {
		l, c := lineCol(src, tc.off)
		if l != tc.line || c != tc.col {
			t.Fatalf("lineCol(%d) = %d:%d, want %d:%d", tc.off, l, c, tc.line, tc.col)
		}
	}
}

func Test_Spans_Verify_Index_Covers_Every_List(t *testing.T) {
	src := "(define (f x)\n  (list 'a (g . (h)) '()))\n(f 1)"
	forms, idx := mustParseWithSpans(t, src)
	var out bytes.Buffer
	if err := VerifySpanIndex(src, forms, idx, 3, &out); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	report := out.String()
	if !strings.Contains(report, "[spans]   1:1  [0,") {
		t.Fatalf("preview should start at the first form:\n%s", report)
	}
	if !strings.Contains(report, `1:9  [8,13)  "(f x)"`) {
		t.Fatalf("preview should show the signature span:\n%s", report)
	}
}

func Test_Spans_Verify_Index_Reports_Missing(t *testing.T) {
	forms := []Datum{List(Int(1), List(Int(2)))}
	err := VerifySpanIndex("", forms, newSpanIndex(), 0, nil)
	if err == nil || err.Error() != "span index missing 2/2 forms" {
		t.Fatalf("want missing report, got %v", err)
	}
}
