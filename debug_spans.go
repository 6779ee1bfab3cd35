// debug_spans.go: debugging utilities for the SpanIndex
//
// WHAT THIS MODULE DOES
// =====================
// This module centralizes **debugging-only** helpers for source span
// inspection. It provides:
//
//   • A single public toggle, `DebuggingMode`, picked up at process start from
//     the `TAILSPIN_DEBUG` environment variable. Hosts may also set it
//     programmatically (tests, REPLs).
//
//   • A public verifier, `VerifySpanIndex`, that checks the invariant caret
//     positioning relies on: the parser records a span for **every non-empty
//     list form**, top-level or nested as an element of another list. It can
//     print a compact preview of the first N spans for inspection.
//
// DEPENDENCIES / INTEGRATION POINTS
// =================================
//   • parser.go  : produces the forms and the SpanIndex read here.
//   • spans.go   : defines `Span`, `SpanIndex` and `lineCol`.
//   • interpreter.go: `Load` runs the verifier when `DebuggingMode` is set.
//   • cmd/tailspin: `check -spans` prints the preview.
//
// Concurrency: helpers are read-only over their inputs and print to an
// `io.Writer`. The only global is the `DebuggingMode` flag.

package tailspin

import (
	"fmt"
	"io"
	"os"
)

////////////////////////////////////////////////////////////////////////////////
//                                  PUBLIC API
////////////////////////////////////////////////////////////////////////////////

// DebuggingMode controls whether span diagnostics are emitted while loading
// programs. It is initialized from `TAILSPIN_DEBUG` at process start.
var DebuggingMode = os.Getenv("TAILSPIN_DEBUG") != ""

// VerifySpanIndex walks forms in pre-order and checks that spans has an entry
// for every non-empty list. It returns an error of the form
// "span index missing X/Y forms" when any is absent.
//
// If w is non-nil and previewN > 0, a short report is written to w: a header
// and up to previewN "line:col [start,end) text" lines.
func VerifySpanIndex(src string, forms []Datum, spans *SpanIndex, previewN int, w io.Writer) error {
	var lists []Datum
	for _, f := range forms {
		collectLists(f, &lists)
	}

	missing := 0
	for _, d := range lists {
		if _, ok := spans.SpanOf(d); !ok {
			missing++
		}
	}

	if w != nil && previewN > 0 {
		if previewN > len(lists) {
			previewN = len(lists)
		}
		fmt.Fprintln(w, "[spans] =====================")
		fmt.Fprintf(w, "[spans] forms=%d lists=%d indexed=%d missing=%d\n",
			len(forms), len(lists), spans.Len(), missing)
		for _, d := range lists[:previewN] {
			sp, ok := spans.SpanOf(d)
			if !ok {
				fmt.Fprintln(w, "[spans]   <missing>")
				continue
			}
			line, col := lineCol(src, sp.StartByte)
			fmt.Fprintf(w, "[spans]   %d:%d  [%d,%d)  %s\n",
				line, col, sp.StartByte, sp.EndByte, previewText(src, sp, 40))
		}
	}

	if missing > 0 {
		return fmt.Errorf("span index missing %d/%d forms", missing, len(lists))
	}
	return nil
}

//// END_OF_PUBLIC

////////////////////////////////////////////////////////////////////////////////
//                               PRIVATE IMPLEMENTATION
////////////////////////////////////////////////////////////////////////////////

// collectLists appends every list reachable from d in pre-order. A tail that
// is itself a recorded list (from `(a . (b c))`) is part of its parent and is
// not collected separately.
func collectLists(d Datum, out *[]Datum) {
	p, ok := d.AsPair()
	if !ok {
		return
	}
	*out = append(*out, d)
	for {
		collectLists(p.Head, out)
		next, ok := p.Tail.AsPair()
		if !ok {
			collectLists(p.Tail, out)
			return
		}
		p = next
	}
}

// previewText quotes the spanned source, cut to limit bytes.
func previewText(src string, sp Span, limit int) string {
	if sp.StartByte < 0 || sp.EndByte > len(src) || sp.StartByte > sp.EndByte {
		return `""`
	}
	s := src[sp.StartByte:sp.EndByte]
	if len(s) > limit {
		return fmt.Sprintf("%q...", s[:limit])
	}
	return fmt.Sprintf("%q", s)
}
