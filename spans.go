// spans.go: sidecar source spans for parsed forms
//
// WHAT THIS MODULE DOES
// =====================
// Parsed programs are plain Datums; they carry no positions. To point carets at
// the offending form (for example a `recur` in non-tail position) the parser
// records a byte span for every list it builds in a sidecar `SpanIndex`, keyed
// by the identity of the list's first *Pair.
//
// Keying on pointer identity works because Datums are immutable and pairs are
// never shared between two distinct source lists produced by one parse. Atoms
// (integers, symbols, ...) are value types and have no identity; callers fall
// back to the span of the enclosing list.
//
// Line/column coordinates are not stored. `lineCol` derives them on demand
// from the source text when rendering errors.
//
// ─────────────────────────────────────────────────────────────────────────────
package tailspin

////////////////////////////////////////////////////////////////////////////////
//                                  PUBLIC API
////////////////////////////////////////////////////////////////////////////////

// Span is a half-open byte interval [StartByte, EndByte) in the source text.
type Span struct {
	StartByte int // inclusive
	EndByte   int // exclusive
}

// SpanIndex maps list forms to the source bytes they were parsed from. It is
// read-only after construction. A nil *SpanIndex is valid and knows nothing.
type SpanIndex struct {
	byPair map[*Pair]Span
}

func newSpanIndex() *SpanIndex {
	return &SpanIndex{byPair: make(map[*Pair]Span)}
}

// Lookup returns the span recorded for the list starting at p.
func (si *SpanIndex) Lookup(p *Pair) (Span, bool) {
	if si == nil || p == nil {
		return Span{}, false
	}
	sp, ok := si.byPair[p]
	return sp, ok
}

// SpanOf returns the span of d when d is a list produced by the parser.
func (si *SpanIndex) SpanOf(d Datum) (Span, bool) {
	p, ok := d.AsPair()
	if !ok {
		return Span{}, false
	}
	return si.Lookup(p)
}

// Len reports how many forms are indexed.
func (si *SpanIndex) Len() int {
	if si == nil {
		return 0
	}
	return len(si.byPair)
}

//// END_OF_PUBLIC

////////////////////////////////////////////////////////////////////////////////
//                                 PRIVATE
////////////////////////////////////////////////////////////////////////////////

func (si *SpanIndex) record(d Datum, sp Span) {
	if p, ok := d.AsPair(); ok {
		si.byPair[p] = sp
	}
}

// lineCol converts a byte offset into a 1-based line and a 1-based column.
// Offsets past the end are clamped to the end of the source.
func lineCol(src string, off int) (line, col int) {
	if off > len(src) {
		off = len(src)
	}
	if off < 0 {
		off = 0
	}
	line, col = 1, 1
	for i := 0; i < off; i++ {
		if src[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}
