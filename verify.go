package tailspin

// Symbol ids of the forms the tail-call verifier and the evaluator recognize.
// Ids are a pure function of the text, so they are fixed at init.
var (
	symBegin   = SymbolID("begin")
	symDefine  = SymbolID("define")
	symIf      = SymbolID("if")
	symLambda  = SymbolID("lambda")
	symLet     = SymbolID("let")
	symLetStar = SymbolID("let*")
	symLoop    = SymbolID("loop")
	symQuote   = SymbolID("quote")
	symRecur   = SymbolID("recur")
	symSet     = SymbolID("set!")
)

// VerifyTailCalls checks that every `recur` in forms sits in tail position of
// a `loop` body or a procedure body. It returns the first violation as a
// *ParseError with Kind RecurInNonTailPosition, spanning the offending form
// when spans is non-nil.
//
// Two flags travel down the walk. tail is true when the value of the current
// position is the value of the enclosing construct. binder is true when the
// nearest construct that admits tail position is a loop or a procedure body.
func VerifyTailCalls(forms []Datum, spans *SpanIndex) error {
	v := verifier{spans: spans}
	for _, f := range forms {
		if err := v.walk(f, true, false); err != nil {
			return err
		}
	}
	return nil
}

type verifier struct {
	spans *SpanIndex
}

func (v verifier) walk(d Datum, tail, binder bool) error {
	p, ok := d.AsPair()
	if !ok {
		return nil
	}
	xs, ok := d.ListSlice()
	if !ok {
		// dotted pairs fail at evaluation; still look inside the heads
		for {
			if err := v.walk(p.Head, false, binder); err != nil {
				return err
			}
			if p, ok = p.Tail.AsPair(); !ok {
				return nil
			}
		}
	}
	args := xs[1:]
	head, isSym := xs[0].AsSym()
	if !isSym {
		return v.each(xs, binder)
	}
	switch head {
	case symQuote:
		return nil
	case symRecur:
		if !tail || !binder {
			return v.violation(d)
		}
		return v.each(args, binder)
	case symIf:
		for i, x := range args {
			if err := v.walk(x, tail && i > 0, binder); err != nil {
				return err
			}
		}
		return nil
	case symBegin:
		return v.body(args, tail, binder)
	case symLet, symLetStar:
		if len(args) == 0 {
			return nil
		}
		if err := v.bindings(args[0], binder); err != nil {
			return err
		}
		return v.body(args[1:], tail, binder)
	case symLoop:
		if len(args) == 0 {
			return nil
		}
		if err := v.bindings(args[0], binder); err != nil {
			return err
		}
		return v.body(args[1:], true, true)
	case symLambda:
		if len(args) > 0 {
			if _, named := args[0].AsSym(); named {
				args = args[1:]
			}
		}
		if len(args) == 0 {
			return nil
		}
		return v.body(args[1:], true, true)
	case symDefine:
		if len(args) > 0 {
			if _, sugar := args[0].AsPair(); sugar {
				return v.body(args[1:], true, true)
			}
			return v.each(args[1:], binder)
		}
		return nil
	case symSet:
		if len(args) > 0 {
			return v.each(args[1:], binder)
		}
		return nil
	default:
		return v.each(xs, binder)
	}
}

// each walks xs in non-tail position.
func (v verifier) each(xs []Datum, binder bool) error {
	for _, x := range xs {
		if err := v.walk(x, false, binder); err != nil {
			return err
		}
	}
	return nil
}

// body walks a sequence whose last expression inherits tail.
func (v verifier) body(xs []Datum, tail, binder bool) error {
	for i, x := range xs {
		if err := v.walk(x, tail && i == len(xs)-1, binder); err != nil {
			return err
		}
	}
	return nil
}

// bindings walks the value expressions of a ((name expr) ...) list.
func (v verifier) bindings(d Datum, binder bool) error {
	bs, ok := d.ListSlice()
	if !ok {
		return nil
	}
	for _, b := range bs {
		pair, ok := b.ListSlice()
		if !ok || len(pair) != 2 {
			continue
		}
		if err := v.walk(pair[1], false, binder); err != nil {
			return err
		}
	}
	return nil
}

func (v verifier) violation(d Datum) error {
	e := &ParseError{Kind: RecurInNonTailPosition, Msg: "recur in non-tail position"}
	if sp, ok := v.spans.SpanOf(d); ok {
		e.Start, e.End = sp.StartByte, sp.EndByte
	}
	return e
}
