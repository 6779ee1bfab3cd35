// interpreter.go: PUBLIC API SURFACE of the tailspin interpreter.
//
// OVERVIEW
// ========
// This file exposes the Interpreter type and its entry points. The evaluator
// itself lives in interpreter_exec.go, the special forms in builtin_forms.go
// and the primitive procedures in builtin_core.go; all of them are wired up
// during NewInterpreter().
//
// What you get in this file:
//   • The **Interpreter** with its symbol table, global frame and output sink.
//   • Source entry points: `Load` (parse + tail-call verification),
//     `EvalSource` / `EvalNamedSource` (load + run every form).
//   • Form entry points: `Run` (top level) and `Evaluate` (interpreter_exec.go).
//   • `RegisterNative` to extend the global frame from Go.
//   • `RuntimeError`, the Go error that EvalSource returns when a program ends
//     in a Condition.
//
// EXECUTION & SCOPING SEMANTICS
// -----------------------------
// Every interpreter owns one global frame, pre-populated with the natives. Top
// level forms run in it, so `define` at top level is visible to later forms
// and later EvalSource calls (REPL-style persistence).
//
// CONDITIONS
// ----------
// Runtime failures are Condition values, not Go errors or panics. A Condition
// flows back out as the result of whatever produced it; sequences stop at the
// first one. Only the source entry points translate a final Condition into a
// *RuntimeError.
//
// CONCURRENCY
// -----------
// An Interpreter is single-threaded: do not call it from two goroutines at
// once. Separate interpreters share nothing and may run in parallel.
package tailspin

import (
	"fmt"
	"io"
	"os"
	"sort"
)

// DefaultMaxDepth bounds evaluator nesting. One procedure call costs about
// three levels, so this admits roughly 30000 nested non-tail calls while
// staying well inside the Go stack limit.
const DefaultMaxDepth = 100000

// Interpreter evaluates Datums against a chain of environments.
type Interpreter struct {
	Symbols *SymbolTable // every symbol the reader or a native interned
	Global  *Env         // natives and top-level definitions

	current *Env
	out     io.Writer

	depth     int
	maxDepth  int
	peakDepth int

	// recurPending is set by `recur` and cleared by the loop or procedure
	// that consumes the signal.
	recurPending bool
}

// RuntimeError reports a program that finished in a Condition, or a Go panic
// raised by a native.
type RuntimeError struct {
	Msg     string
	Payload Datum
	Source  string // source name, when known
}

func (e *RuntimeError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("%s: runtime error: %s", e.Source, e.Msg)
	}
	return "runtime error: " + e.Msg
}

// NewInterpreter returns an interpreter whose global frame holds every
// special form and primitive.
func NewInterpreter() *Interpreter {
	ip := &Interpreter{
		Symbols:  NewSymbolTable(),
		Global:   NewEnv(nil),
		out:      os.Stdout,
		maxDepth: DefaultMaxDepth,
	}
	ip.current = ip.Global
	for kw := range keywords {
		ip.Symbols.Intern(kw)
	}
	registerForms(ip)
	registerCore(ip)
	return ip
}

// RegisterNative binds name in the global frame to a native procedure. The
// native receives its operands unevaluated.
func (ip *Interpreter) RegisterNative(name string, fn NativeFunc) {
	ip.Global.Bind(ip.Symbols.Intern(name), NativeVal(name, fn))
}

// CurrentScope is the frame Evaluate resolves symbols in.
func (ip *Interpreter) CurrentScope() *Env { return ip.current }

// VisibleNames lists the names of every symbol visible from the current
// scope, sorted. The REPL completes against it.
func (ip *Interpreter) VisibleNames() []string {
	ids := ip.current.Symbols()
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, symbolText(id, ip.Symbols))
	}
	sort.Strings(names)
	return names
}

// Format renders d using this interpreter's symbol names.
func (ip *Interpreter) Format(d Datum) string { return Format(d, ip.Symbols) }

// SetOutput redirects `display` and `newline`. A nil writer discards output.
func (ip *Interpreter) SetOutput(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	ip.out = w
}

// SetMaxDepth changes the nesting limit. Values below 1 restore the default.
func (ip *Interpreter) SetMaxDepth(n int) {
	if n < 1 {
		n = DefaultMaxDepth
	}
	ip.maxDepth = n
}

// PeakDepth is the deepest evaluator nesting reached by the last Run.
func (ip *Interpreter) PeakDepth() int { return ip.peakDepth }

// Run evaluates one top-level form in the global frame. Whatever happens, the
// interpreter is left at top level afterwards. A recur signal escaping to the
// top is reported as a Condition.
func (ip *Interpreter) Run(form Datum) Datum {
	saved := ip.current
	defer func() { ip.current = saved }()
	ip.depth, ip.peakDepth, ip.recurPending = 0, 0, false

	v := ip.Evaluate(form)
	if _, ok := v.AsRecur(); ok {
		ip.recurPending = false
		return Condf("recur in non-tail position")
	}
	return v
}

// Load parses src, interning symbols into ip.Symbols, and runs the tail-call
// verifier. Nothing is evaluated.
func (ip *Interpreter) Load(src string) ([]Datum, *SpanIndex, error) {
	forms, spans, err := ParseProgramWithSpans(src, ip.Symbols)
	if err != nil {
		return nil, nil, err
	}
	if err := VerifyTailCalls(forms, spans); err != nil {
		return nil, nil, err
	}
	if DebuggingMode {
		if err := VerifySpanIndex(src, forms, spans, 8, os.Stderr); err != nil {
			fmt.Fprintln(os.Stderr, "[spans]", err)
		}
	}
	return forms, spans, nil
}

// EvalSource loads src and runs its forms in order. It returns the value of
// the last form. Load errors come back rendered with a caret snippet; a form
// that evaluates to a Condition stops the program with a *RuntimeError.
func (ip *Interpreter) EvalSource(src string) (Datum, error) {
	return ip.EvalNamedSource("", src)
}

// EvalNamedSource is EvalSource with a source name used in error messages.
func (ip *Interpreter) EvalNamedSource(name, src string) (Datum, error) {
	forms, _, err := ip.Load(src)
	if err != nil {
		return Empty, WrapErrorWithName(err, name, src)
	}
	result := Empty
	for _, f := range forms {
		v, err := ip.runSafe(f)
		if err != nil {
			err.Source = name
			return Empty, err
		}
		if c, ok := v.AsCond(); ok {
			return v, &RuntimeError{Msg: conditionMessage(c, ip.Symbols), Payload: c.Payload, Source: name}
		}
		result = v
	}
	return result, nil
}

//// END_OF_PUBLIC

// runSafe is Run with Go panics converted into a *RuntimeError.
func (ip *Interpreter) runSafe(form Datum) (v Datum, rerr *RuntimeError) {
	defer func() {
		if r := recover(); r != nil {
			v = Empty
			rerr = &RuntimeError{Msg: fmt.Sprintf("internal error: %v", r)}
		}
	}()
	return ip.Run(form), nil
}

// conditionMessage prints a string payload bare and anything else in
// canonical syntax.
func conditionMessage(c *Condition, st *SymbolTable) string {
	if s, ok := c.Payload.AsStr(); ok {
		return s
	}
	return Format(c.Payload, st)
}
