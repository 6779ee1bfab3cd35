// interpreter_exec.go: evaluation & call engine for tailspin.
//   - Evaluate dispatches on the Datum tag: symbols are looked up, lists are
//     calls, everything else evaluates to itself.
//   - Native procedures get their operands raw and decide what to evaluate.
//   - Closures get their operands evaluated left to right in the caller's scope.
//   - Closures and `loop` run through one trampoline, so `recur` never grows
//     the Go stack.
//
// ──────────────────────────────────────────────────────────────────────────────
// RECUR PROTOCOL
// ==============
//
//  1. `recur` evaluates its operands and returns a DRecur Datum carrying them.
//     It also sets ip.recurPending.
//  2. Tail positions (`if` branches, the last form of `begin`/`let`/`let*`)
//     return whatever they evaluated, so the signal travels outward untouched.
//  3. The nearest trampoline (loop body or procedure body) consumes it: it
//     clears the flag, checks the operand count, rebinds a fresh frame and
//     runs the body again.
//  4. Any other place that sees a signal turns it into the Condition
//     "recur in non-tail position" (evalValue). Evaluate refuses to start
//     while the flag is set.
//
// The static verifier (verify.go) rejects programs that could reach step 4,
// so for loaded source the dynamic checks never fire.
//
// Scope discipline
// ----------------
// ip.current always names the frame symbols resolve in. Every construct that
// swaps it saves the previous frame and restores it with defer, so early
// returns (Conditions) and panics leave the caller's scope intact.
package tailspin

////////////////////////////////////////////////////////////////////////////////
//                              EVALUATION CORE
////////////////////////////////////////////////////////////////////////////////

// Evaluate computes the value of d in the current scope. Failures are
// returned as Condition Datums.
func (ip *Interpreter) Evaluate(d Datum) Datum {
	if ip.recurPending {
		ip.recurPending = false
		return Condf("recur in non-tail position")
	}
	ip.depth++
	defer func() { ip.depth-- }()
	if ip.depth > ip.peakDepth {
		ip.peakDepth = ip.depth
	}
	if ip.depth > ip.maxDepth {
		return Condf("maximum recursion depth exceeded")
	}

	switch d.Tag {
	case DSym:
		id := d.Data.(uint64)
		if v, ok := ip.current.Lookup(id); ok {
			return v
		}
		return Condf("undefined identifier: %s", symbolText(id, ip.Symbols))
	case DEmpty:
		return Condf("cannot evaluate ()")
	case DPair:
		return ip.evalCall(d)
	default:
		return d
	}
}

// evalValue evaluates d in a non-tail position: a recur signal coming back is
// an error here.
func (ip *Interpreter) evalValue(d Datum) Datum {
	v := ip.Evaluate(d)
	if v.Tag == DRecur {
		ip.recurPending = false
		return Condf("recur in non-tail position")
	}
	return v
}

// evalArgs evaluates operands left to right, stopping at the first Condition.
// On failure the Condition is returned as the second result and ok is false.
func (ip *Interpreter) evalArgs(args []Datum) (vals []Datum, cond Datum, ok bool) {
	vals = make([]Datum, len(args))
	for i, a := range args {
		v := ip.evalValue(a)
		if v.Tag == DCond {
			return nil, v, false
		}
		vals[i] = v
	}
	return vals, Empty, true
}

// evalBody runs a sequence. Non-last forms are non-tail and stop the sequence
// on a Condition; the last form's value (possibly a recur signal) is returned
// as is. An empty sequence yields the empty list.
func (ip *Interpreter) evalBody(body []Datum) Datum {
	for i, x := range body {
		if i == len(body)-1 {
			return ip.Evaluate(x)
		}
		if v := ip.evalValue(x); v.Tag == DCond {
			return v
		}
	}
	return Empty
}

func (ip *Interpreter) evalCall(d Datum) Datum {
	xs, ok := d.ListSlice()
	if !ok {
		return Condf("cannot evaluate dotted pair %s", ip.Format(d))
	}
	head := ip.evalValue(xs[0])
	switch head.Tag {
	case DCond:
		return head
	case DNative:
		return head.Data.(*Native).Fn(ip, xs[1:])
	case DProc:
		// Closures take Conditions as ordinary arguments; only a stray
		// recur signal aborts the call.
		args := make([]Datum, len(xs)-1)
		for i, a := range xs[1:] {
			v := ip.Evaluate(a)
			if v.Tag == DRecur {
				ip.recurPending = false
				return Condf("recur in non-tail position")
			}
			args[i] = v
		}
		return ip.apply(head.Data.(*Procedure), args)
	default:
		return Condf("not callable: %s", ip.Format(head))
	}
}

// Apply calls a procedure or native value with already-evaluated arguments.
// Natives receive the arguments quoted so they are not evaluated twice.
func (ip *Interpreter) Apply(fn Datum, args []Datum) Datum {
	switch fn.Tag {
	case DProc:
		return ip.apply(fn.Data.(*Procedure), args)
	case DNative:
		quoted := make([]Datum, len(args))
		for i, a := range args {
			quoted[i] = List(Sym(symQuote), a)
		}
		return fn.Data.(*Native).Fn(ip, quoted)
	default:
		return Condf("not callable: %s", ip.Format(fn))
	}
}

func (ip *Interpreter) apply(p *Procedure, args []Datum) Datum {
	if len(args) != len(p.Params) {
		return Condf("arity mismatch for %s: expected: %d, got: %d", procName(p), len(p.Params), len(args))
	}
	return ip.trampoline(p.Env, p.Params, args, p.Body)
}

func procName(p *Procedure) string {
	if p.Name == "" {
		return "lambda"
	}
	return p.Name
}

////////////////////////////////////////////////////////////////////////////////
//                                TRAMPOLINE
////////////////////////////////////////////////////////////////////////////////

// trampoline runs body in a fresh child of parent with params bound to vals.
// A recur signal from the last body form rebinds and repeats; the Go stack
// depth stays the same across iterations.
func (ip *Interpreter) trampoline(parent *Env, params []uint64, vals []Datum, body []Datum) Datum {
	saved := ip.current
	defer func() { ip.current = saved }()

iterate:
	for {
		frame := parent.Child()
		for i, id := range params {
			frame.Bind(id, vals[i])
		}
		ip.current = frame

		result := Empty
		for i, x := range body {
			v := ip.Evaluate(x)
			if next, ok := v.AsRecur(); ok {
				ip.recurPending = false
				if i != len(body)-1 {
					return Condf("recur in non-tail position")
				}
				if len(next) != len(params) {
					return Condf("arity mismatch for recur: expected: %d, got: %d", len(params), len(next))
				}
				vals = next
				continue iterate
			}
			if v.Tag == DCond {
				return v
			}
			result = v
		}
		return result
	}
}

// withScope runs fn with ip.current set to env, restoring the caller's scope
// on every exit path.
func (ip *Interpreter) withScope(env *Env, fn func() Datum) Datum {
	saved := ip.current
	defer func() { ip.current = saved }()
	ip.current = env
	return fn()
}
