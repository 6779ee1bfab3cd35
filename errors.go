// errors.go: user-facing error wrapping and caret-snippet rendering
//
// What this file does
// -------------------
// This module turns lexer/parser/verifier diagnostics into readable snippets
// with a caret span under the offending bytes:
//
//	   1 | (define (f n)
//	   2 |   (+ 1 (recur n)))
//	     |         ^^^^^^^^^
//	error: recur in non-tail position
//
// The snippet shows one line of context before the offending line, numbers the
// lines, underlines the error span (at least one column wide, clipped to the
// line) and ends with the message. Errors with a hint (for example unclosed
// parens at end of input) get a trailing `hint:` line.
//
// Dependencies (other files)
// --------------------------
//   - lexer.go:  `*LexError { Kind, Start, End, What, Msg }`
//   - parser.go: `*ParseError { Kind, Start, End, Msg, Hint }`
//   - spans.go:  `lineCol` to turn byte offsets into line/column.
//
// Behavior guarantees
// -------------------
//   - Output is plain text (no ANSI colors); the CLI colors it.
//   - Offsets out of range are clamped. Empty sources render safely.
//   - Any other error is returned unchanged by the Wrap* helpers.
package tailspin

import (
	"errors"
	"fmt"
	"strings"
)

/* ===========================
   PUBLIC API
   =========================== */

// RenderError formats err against src. name, when non-empty, is printed as a
// "name:line:col" header. Errors that carry no source position are rendered as
// "error: <message>".
func RenderError(name, src string, err error) string {
	var le *LexError
	var pe *ParseError
	switch {
	case errors.As(err, &le):
		start := le.Start
		if le.Kind == UnexpectedEOF {
			start = eofOffset(src, le.Start)
		}
		hint := ""
		if le.Kind == UnexpectedEOF {
			hint = fmt.Sprintf("unterminated %s literal", le.What)
		}
		return renderSnippet(src, name, start, le.End, le.Msg, hint)
	case errors.As(err, &pe):
		start, end := pe.Start, pe.End
		if pe.Kind == UnexpectedEOF {
			start = eofOffset(src, start)
			end = start
		}
		return renderSnippet(src, name, start, end, pe.Msg, pe.Hint)
	default:
		if name != "" {
			return fmt.Sprintf("%s: error: %v\n", name, err)
		}
		return fmt.Sprintf("error: %v\n", err)
	}
}

// WrapErrorWithSource returns an error whose message is the rendered snippet
// for lexer and parser errors. Other errors are returned unchanged.
func WrapErrorWithSource(err error, src string) error {
	return WrapErrorWithName(err, "", src)
}

// WrapErrorWithName is WrapErrorWithSource with a source name in the header.
func WrapErrorWithName(err error, srcName string, src string) error {
	switch err.(type) {
	case *LexError, *ParseError:
		return &sourceError{msg: RenderError(srcName, src, err), cause: err}
	default:
		return err
	}
}

//// END_OF_PUBLIC

/* ===========================
   PRIVATE: helpers & rendering
   =========================== */

// sourceError keeps the underlying diagnostic reachable through errors.As.
type sourceError struct {
	msg   string
	cause error
}

func (e *sourceError) Error() string { return e.msg }
func (e *sourceError) Unwrap() error { return e.cause }

// eofOffset moves an end-of-input position back over trailing whitespace so
// the caret lands right after the last meaningful character.
func eofOffset(src string, off int) int {
	if off > len(src) {
		off = len(src)
	}
	for off > 0 && isWhitespace(src[off-1]) {
		off--
	}
	return off
}

func renderSnippet(src, name string, start, end int, msg, hint string) string {
	lines := strings.Split(src, "\n")
	line, col := lineCol(src, start)
	if line > len(lines) {
		line = len(lines)
	}
	lineTxt := lines[line-1]

	width := end - start
	if width < 1 {
		width = 1
	}
	if room := len(lineTxt) - (col - 1); room >= 1 && width > room {
		width = room
	}

	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "%s:%d:%d\n", name, line, col)
	}
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lineTxt)
	fmt.Fprintf(&b, "     | %s%s\n", strings.Repeat(" ", col-1), strings.Repeat("^", width))
	fmt.Fprintf(&b, "error: %s\n", msg)
	if hint != "" {
		fmt.Fprintf(&b, "hint: %s\n", hint)
	}
	return b.String()
}
