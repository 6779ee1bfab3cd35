package tailspin

import (
	"strconv"
	"strings"
)

/* ---------- globals & tiny helpers ---------- */

var EnableColor = false // REPL-only; tests can leave this false

const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorBlue  = "\033[34m"
)

func colorize(s, c string) string {
	if !EnableColor {
		return s
	}
	return c + s + colorReset
}
func red(s string) string   { return colorize(s, colorRed) }
func blue(s string) string  { return colorize(s, colorBlue) }
func green(s string) string { return colorize(s, colorGreen) }

// escapeChar maps a rune to the letter used after a backslash, for the runes
// that need escaping in character and string literals.
func escapeChar(r rune) (byte, bool) {
	switch r {
	case '\n':
		return 'n', true
	case '\t':
		return 't', true
	case ' ':
		return 's', true
	case '\\':
		return '\\', true
	}
	return 0, false
}

// unescapeChar is the inverse of escapeChar; strings additionally accept \".
func unescapeChar(c byte) (rune, bool) {
	switch c {
	case 'n':
		return '\n', true
	case 't':
		return '\t', true
	case 's':
		return ' ', true
	case '\\':
		return '\\', true
	}
	return 0, false
}

func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func quoteChar(r rune) string {
	if e, ok := escapeChar(r); ok {
		return `#\\` + string(e)
	}
	return `#\` + string(r)
}

/* ---------- source -> canonical source ---------- */

// Pretty parses source and returns every top-level form in canonical syntax,
// one per line (no colors).
func Pretty(src string) (string, error) {
	st := NewSymbolTable()
	forms, err := ParseProgram(src, st)
	if err != nil {
		return "", WrapErrorWithSource(err, src)
	}
	lines := make([]string, len(forms))
	for i, f := range forms {
		lines[i] = Format(f, st)
	}
	return strings.Join(lines, "\n"), nil
}

/* ---------- datum -> text ---------- */

// Format renders d in canonical syntax. Symbols are resolved through st; ids
// missing from st print as [SYMBOL: id].
func Format(d Datum, st *SymbolTable) string {
	var b strings.Builder
	writeDatum(&b, d, st)
	return b.String()
}

// FormatValue is Format with REPL coloring applied when EnableColor is set:
// conditions red, procedures green, data blue.
func FormatValue(d Datum, st *SymbolTable) string {
	switch d.Tag {
	case DCond:
		return red(Format(d, st))
	case DNative, DProc:
		return green(Format(d, st))
	default:
		return blue(Format(d, st))
	}
}

func writeDatum(b *strings.Builder, d Datum, st *SymbolTable) {
	switch d.Tag {
	case DEmpty:
		b.WriteString("()")
	case DBool:
		if d.Data.(bool) {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case DChar:
		b.WriteString(quoteChar(d.Data.(rune)))
	case DInt:
		b.WriteString(strconv.FormatInt(d.Data.(int64), 10))
	case DStr:
		b.WriteString(quoteString(d.Data.(string)))
	case DSym:
		b.WriteString(symbolText(d.Data.(uint64), st))
	case DPair:
		writeList(b, d, st)
	case DNative:
		b.WriteString("[NATIVE: ")
		b.WriteString(d.Data.(*Native).Name)
		b.WriteByte(']')
	case DProc:
		p := d.Data.(*Procedure)
		name := p.Name
		if name == "" {
			name = "lambda"
		}
		b.WriteString("[PROCEDURE: ")
		b.WriteString(name)
		b.WriteString(" (")
		for i, id := range p.Params {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(symbolText(id, st))
		}
		b.WriteString(")]")
	case DCond:
		b.WriteString("[CONDITION: ")
		writeDatum(b, d.Data.(*Condition).Payload, st)
		b.WriteByte(']')
	case DRecur:
		b.WriteString("[RECUR: ")
		writeDatum(b, List(d.Data.([]Datum)...), st)
		b.WriteByte(']')
	default:
		b.WriteString("[UNKNOWN]")
	}
}

// writeList prints proper lists as (a b c) and improper ones as (a b . c).
func writeList(b *strings.Builder, d Datum, st *SymbolTable) {
	b.WriteByte('(')
	first := true
	for {
		p, ok := d.AsPair()
		if !ok {
			break
		}
		if !first {
			b.WriteByte(' ')
		}
		first = false
		writeDatum(b, p.Head, st)
		d = p.Tail
	}
	if !d.IsEmpty() {
		b.WriteString(" . ")
		writeDatum(b, d, st)
	}
	b.WriteByte(')')
}

func symbolText(id uint64, st *SymbolTable) string {
	if s, ok := st.Name(id); ok {
		return s
	}
	return "[SYMBOL: " + strconv.FormatUint(id, 10) + "]"
}
