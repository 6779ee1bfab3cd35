package tailspin

// ---- special forms -----------------------------------------------------
//
// Special forms are ordinary natives: they receive their operands unevaluated
// and evaluate exactly what their semantics call for.

func registerForms(ip *Interpreter) {
	// (quote datum) -> datum, unevaluated
	ip.RegisterNative("quote", func(_ *Interpreter, args []Datum) Datum {
		if c, ok := expectArity("quote", args, 1); !ok {
			return c
		}
		return args[0]
	})

	// (define name expr) -> name
	// (define (name param ...) body ...) -> name
	ip.RegisterNative("define", func(ip *Interpreter, args []Datum) Datum {
		if c, ok := expectMinArity("define", args, 2); !ok {
			return c
		}
		if sig, ok := args[0].AsPair(); ok {
			return defineProcedure(ip, sig, args[1:])
		}
		if c, ok := expectArity("define", args, 2); !ok {
			return c
		}
		id, c, ok := ip.bindableSymbol("define", args[0])
		if !ok {
			return c
		}
		v := ip.evalValue(args[1])
		if v.Tag == DCond {
			return v
		}
		if p, ok := v.AsProc(); ok && p.Name == "" {
			named := *p
			named.Name = symbolText(id, ip.Symbols)
			v = ProcVal(&named)
		}
		ip.current.Bind(id, v)
		return Sym(id)
	})

	// (set! name expr) -> name; name must already be visible
	ip.RegisterNative("set!", func(ip *Interpreter, args []Datum) Datum {
		if c, ok := expectArity("set!", args, 2); !ok {
			return c
		}
		id, c, ok := ip.bindableSymbol("set!", args[0])
		if !ok {
			return c
		}
		if _, ok := ip.current.Lookup(id); !ok {
			return Condf("set!: unknown identifier %s", symbolText(id, ip.Symbols))
		}
		v := ip.evalValue(args[1])
		if v.Tag == DCond {
			return v
		}
		ip.current.Bind(id, v)
		return Sym(id)
	})

	// (if cond then else); cond must be a boolean
	ip.RegisterNative("if", func(ip *Interpreter, args []Datum) Datum {
		if c, ok := expectArity("if", args, 3); !ok {
			return c
		}
		cond := ip.evalValue(args[0])
		if cond.Tag == DCond {
			return cond
		}
		b, ok := cond.AsBool()
		if !ok {
			return ip.typeError("if", "boolean", cond)
		}
		if b {
			return ip.Evaluate(args[1])
		}
		return ip.Evaluate(args[2])
	})

	// (lambda (param ...) body ...) / (lambda name (param ...) body ...)
	ip.RegisterNative("lambda", func(ip *Interpreter, args []Datum) Datum {
		if c, ok := expectMinArity("lambda", args, 2); !ok {
			return c
		}
		name := ""
		if id, ok := args[0].AsSym(); ok {
			name = symbolText(id, ip.Symbols)
			args = args[1:]
			if c, ok := expectMinArity("lambda", args, 2); !ok {
				return c
			}
		}
		params, c, ok := ip.paramList("lambda", args[0])
		if !ok {
			return c
		}
		return ProcVal(&Procedure{Name: name, Env: ip.current, Params: params, Body: args[1:]})
	})

	// (let ((name expr) ...) body ...) and (let* ...): bindings are evaluated
	// in order, each one seeing the previous ones.
	let := func(name string) NativeFunc {
		return func(ip *Interpreter, args []Datum) Datum {
			if c, ok := expectMinArity(name, args, 2); !ok {
				return c
			}
			frame := ip.current.Child()
			return ip.withScope(frame, func() Datum {
				if _, c, ok := ip.bindSequential(name, args[0], frame, false); !ok {
					return c
				}
				return ip.evalBody(args[1:])
			})
		}
	}
	ip.RegisterNative("let", let("let"))
	ip.RegisterNative("let*", let("let*"))

	// (loop ((name init) ...) body ...): body is re-run by (recur v ...) in
	// tail position.
	ip.RegisterNative("loop", func(ip *Interpreter, args []Datum) Datum {
		if c, ok := expectMinArity("loop", args, 2); !ok {
			return c
		}
		outer := ip.current
		scratch := outer.Child()
		var ids []uint64
		c := ip.withScope(scratch, func() Datum {
			var c Datum
			var ok bool
			if ids, c, ok = ip.bindSequential("loop", args[0], scratch, true); !ok {
				return c
			}
			return Empty
		})
		if c.Tag == DCond {
			return c
		}
		vals := make([]Datum, len(ids))
		for i, id := range ids {
			vals[i], _ = scratch.Lookup(id)
		}
		return ip.trampoline(outer, ids, vals, args[1:])
	})

	// (begin expr ...) -> value of the last expr
	ip.RegisterNative("begin", func(ip *Interpreter, args []Datum) Datum {
		if c, ok := expectMinArity("begin", args, 1); !ok {
			return c
		}
		return ip.evalBody(args)
	})

	// (recur expr ...) -> recur signal for the enclosing loop or procedure
	ip.RegisterNative("recur", func(ip *Interpreter, args []Datum) Datum {
		vals, c, ok := ip.evalArgs(args)
		if !ok {
			return c
		}
		ip.recurPending = true
		return Recur(vals)
	})
}

// defineProcedure handles (define (name param ...) body ...). The procedure
// closes over the defining frame, which also receives the binding, so the
// body can call itself by name.
func defineProcedure(ip *Interpreter, sig *Pair, body []Datum) Datum {
	id, c, ok := ip.bindableSymbol("define", sig.Head)
	if !ok {
		return c
	}
	params, c, ok := ip.paramList("define", sig.Tail)
	if !ok {
		return c
	}
	name := symbolText(id, ip.Symbols)
	ip.current.Bind(id, ProcVal(&Procedure{Name: name, Env: ip.current, Params: params, Body: body}))
	return Sym(id)
}

// bindableSymbol extracts a symbol that user code may bind.
func (ip *Interpreter) bindableSymbol(fn string, d Datum) (uint64, Datum, bool) {
	id, ok := d.AsSym()
	if !ok {
		return 0, ip.typeError(fn, "symbol", d), false
	}
	if name, _ := ip.Symbols.Name(id); IsReserved(name) {
		return 0, Condf("%s: cannot rebind reserved word %s", fn, name), false
	}
	return id, Empty, true
}

// paramList validates a proper list of distinct, bindable symbols.
func (ip *Interpreter) paramList(fn string, d Datum) ([]uint64, Datum, bool) {
	xs, ok := d.ListSlice()
	if !ok {
		return nil, ip.typeError(fn, "list", d), false
	}
	params := make([]uint64, 0, len(xs))
	seen := make(map[uint64]bool, len(xs))
	for _, x := range xs {
		id, c, ok := ip.bindableSymbol(fn, x)
		if !ok {
			return nil, c, false
		}
		if seen[id] {
			return nil, Condf("%s: duplicate parameter %s", fn, symbolText(id, ip.Symbols)), false
		}
		seen[id] = true
		params = append(params, id)
	}
	return params, Empty, true
}

// bindSequential evaluates ((name expr) ...) in order, binding each result in
// frame before evaluating the next expr. frame must be the current scope.
// With distinct set, a name bound twice fails before its expr is evaluated.
func (ip *Interpreter) bindSequential(fn string, d Datum, frame *Env, distinct bool) ([]uint64, Datum, bool) {
	bs, ok := d.ListSlice()
	if !ok {
		return nil, ip.typeError(fn, "list", d), false
	}
	ids := make([]uint64, 0, len(bs))
	for _, b := range bs {
		pair, ok := b.ListSlice()
		if !ok || len(pair) != 2 {
			return nil, ip.typeError(fn, "binding (name expr)", b), false
		}
		id, c, ok := ip.bindableSymbol(fn, pair[0])
		if !ok {
			return nil, c, false
		}
		if distinct && frame.BoundHere(id) {
			return nil, Condf("%s: duplicate binding %s", fn, symbolText(id, ip.Symbols)), false
		}
		v := ip.evalValue(pair[1])
		if v.Tag == DCond {
			return nil, v, false
		}
		frame.Bind(id, v)
		ids = append(ids, id)
	}
	return ids, Empty, true
}
