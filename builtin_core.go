package tailspin

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ---- primitive procedures ----------------------------------------------
//
// Every primitive evaluates all of its operands first (stopping at the first
// Condition), then checks arity and types before doing any work.

// strict adapts a function over evaluated arguments into a native.
func strict(fn func(ip *Interpreter, vals []Datum) Datum) NativeFunc {
	return func(ip *Interpreter, args []Datum) Datum {
		vals, c, ok := ip.evalArgs(args)
		if !ok {
			return c
		}
		return fn(ip, vals)
	}
}

func registerCore(ip *Interpreter) {
	registerArithmetic(ip)
	registerPredicates(ip)
	registerConversions(ip)
	registerLists(ip)
	registerIO(ip)
}

/* ---------- arithmetic & comparison ---------- */

func registerArithmetic(ip *Interpreter) {
	// (+ n ...) -> sum; (+) is 0
	ip.RegisterNative("+", strict(func(ip *Interpreter, vals []Datum) Datum {
		ns, c, ok := ip.ints("+", vals)
		if !ok {
			return c
		}
		var sum int64
		for _, n := range ns {
			sum += n
		}
		return Int(sum)
	}))

	// (* n ...) -> product; (*) is 1
	ip.RegisterNative("*", strict(func(ip *Interpreter, vals []Datum) Datum {
		ns, c, ok := ip.ints("*", vals)
		if !ok {
			return c
		}
		prod := int64(1)
		for _, n := range ns {
			prod *= n
		}
		return Int(prod)
	}))

	// (- n) negates; (- a b ...) subtracts left to right
	ip.RegisterNative("-", strict(func(ip *Interpreter, vals []Datum) Datum {
		if c, ok := expectMinArity("-", vals, 1); !ok {
			return c
		}
		ns, c, ok := ip.ints("-", vals)
		if !ok {
			return c
		}
		if len(ns) == 1 {
			return Int(-ns[0])
		}
		acc := ns[0]
		for _, n := range ns[1:] {
			acc -= n
		}
		return Int(acc)
	}))

	divide := func(name string, op func(a, b int64) int64) NativeFunc {
		return strict(func(ip *Interpreter, vals []Datum) Datum {
			if c, ok := expectMinArity(name, vals, 2); !ok {
				return c
			}
			ns, c, ok := ip.ints(name, vals)
			if !ok {
				return c
			}
			acc := ns[0]
			for _, n := range ns[1:] {
				if n == 0 {
					return Condf("%s: division by zero", name)
				}
				acc = op(acc, n)
			}
			return Int(acc)
		})
	}
	ip.RegisterNative("quotient", divide("quotient", func(a, b int64) int64 { return a / b }))
	ip.RegisterNative("remainder", divide("remainder", func(a, b int64) int64 { return a % b }))

	compare := func(name string, holds func(a, b int64) bool) NativeFunc {
		return strict(func(ip *Interpreter, vals []Datum) Datum {
			if c, ok := expectMinArity(name, vals, 2); !ok {
				return c
			}
			ns, c, ok := ip.ints(name, vals)
			if !ok {
				return c
			}
			for i := 1; i < len(ns); i++ {
				if !holds(ns[i-1], ns[i]) {
					return False
				}
			}
			return True
		})
	}
	ip.RegisterNative("=", compare("=", func(a, b int64) bool { return a == b }))
	ip.RegisterNative("<", compare("<", func(a, b int64) bool { return a < b }))
	ip.RegisterNative(">", compare(">", func(a, b int64) bool { return a > b }))
	ip.RegisterNative("<=", compare("<=", func(a, b int64) bool { return a <= b }))
	ip.RegisterNative(">=", compare(">=", func(a, b int64) bool { return a >= b }))
}

/* ---------- predicates ---------- */

func registerPredicates(ip *Interpreter) {
	// (eq? a b ...) -> structural equality of neighbours
	ip.RegisterNative("eq?", strict(func(_ *Interpreter, vals []Datum) Datum {
		if c, ok := expectMinArity("eq?", vals, 2); !ok {
			return c
		}
		for i := 1; i < len(vals); i++ {
			if !Equal(vals[i-1], vals[i]) {
				return False
			}
		}
		return True
	}))

	ip.RegisterNative("not", strict(func(ip *Interpreter, vals []Datum) Datum {
		if c, ok := expectArity("not", vals, 1); !ok {
			return c
		}
		b, ok := vals[0].AsBool()
		if !ok {
			return ip.typeError("not", "boolean", vals[0])
		}
		return Bool(!b)
	}))

	predicate := func(name string, test func(Datum) bool) {
		ip.RegisterNative(name, strict(func(_ *Interpreter, vals []Datum) Datum {
			if c, ok := expectArity(name, vals, 1); !ok {
				return c
			}
			return Bool(test(vals[0]))
		}))
	}
	predicate("null?", func(d Datum) bool { return d.IsEmpty() })
	predicate("boolean?", func(d Datum) bool { return d.Tag == DBool })
	predicate("symbol?", func(d Datum) bool { return d.Tag == DSym })
	predicate("integer?", func(d Datum) bool { return d.Tag == DInt })
	predicate("char?", func(d Datum) bool { return d.Tag == DChar })
	predicate("string?", func(d Datum) bool { return d.Tag == DStr })
	predicate("pair?", func(d Datum) bool { return d.Tag == DPair })
	predicate("list?", func(d Datum) bool { return d.IsList() })
	predicate("procedure?", func(d Datum) bool { return d.Tag == DProc || d.Tag == DNative })
}

/* ---------- conversions ---------- */

func registerConversions(ip *Interpreter) {
	ip.RegisterNative("char->integer", strict(func(ip *Interpreter, vals []Datum) Datum {
		if c, ok := expectArity("char->integer", vals, 1); !ok {
			return c
		}
		r, ok := vals[0].AsChar()
		if !ok {
			return ip.typeError("char->integer", "char", vals[0])
		}
		return Int(int64(r))
	}))

	// integer->char only yields characters that print back as a readable
	// literal: printable ASCII plus tab and newline.
	ip.RegisterNative("integer->char", strict(func(ip *Interpreter, vals []Datum) Datum {
		if c, ok := expectArity("integer->char", vals, 1); !ok {
			return c
		}
		n, ok := vals[0].AsInt()
		if !ok {
			return ip.typeError("integer->char", "integer", vals[0])
		}
		if !hasCharLiteral(n) {
			return Condf("integer->char: %d has no character literal", n)
		}
		return Char(rune(n))
	}))

	// (number->string n [radix]) with radix in 2..36, default 10
	ip.RegisterNative("number->string", strict(func(ip *Interpreter, vals []Datum) Datum {
		if c, ok := expectArityRange("number->string", vals, 1, 2); !ok {
			return c
		}
		ns, c, ok := ip.ints("number->string", vals)
		if !ok {
			return c
		}
		radix := int64(10)
		if len(ns) == 2 {
			radix = ns[1]
		}
		if radix < 2 || radix > 36 {
			return Condf("number->string: radix %d out of range 2..36", radix)
		}
		return Str(strconv.FormatInt(ns[0], int(radix)))
	}))

	ip.RegisterNative("string->number", strict(func(ip *Interpreter, vals []Datum) Datum {
		if c, ok := expectArity("string->number", vals, 1); !ok {
			return c
		}
		s, ok := vals[0].AsStr()
		if !ok {
			return ip.typeError("string->number", "string", vals[0])
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil || strings.HasPrefix(s, "+") {
			return Condf("string->number: cannot parse %s", quoteString(s))
		}
		return Int(n)
	}))

	ip.RegisterNative("symbol->string", strict(func(ip *Interpreter, vals []Datum) Datum {
		if c, ok := expectArity("symbol->string", vals, 1); !ok {
			return c
		}
		id, ok := vals[0].AsSym()
		if !ok {
			return ip.typeError("symbol->string", "symbol", vals[0])
		}
		return Str(symbolText(id, ip.Symbols))
	}))

	ip.RegisterNative("string->symbol", strict(func(ip *Interpreter, vals []Datum) Datum {
		if c, ok := expectArity("string->symbol", vals, 1); !ok {
			return c
		}
		s, ok := vals[0].AsStr()
		if !ok {
			return ip.typeError("string->symbol", "string", vals[0])
		}
		return Sym(ip.Symbols.Intern(s))
	}))
}

/* ---------- pairs & lists ---------- */

func registerLists(ip *Interpreter) {
	ip.RegisterNative("cons", strict(func(_ *Interpreter, vals []Datum) Datum {
		if c, ok := expectArity("cons", vals, 2); !ok {
			return c
		}
		return Cons(vals[0], vals[1])
	}))

	ip.RegisterNative("car", strict(func(ip *Interpreter, vals []Datum) Datum {
		if c, ok := expectArity("car", vals, 1); !ok {
			return c
		}
		p, ok := vals[0].AsPair()
		if !ok {
			return ip.typeError("car", "pair", vals[0])
		}
		return p.Head
	}))

	ip.RegisterNative("cdr", strict(func(ip *Interpreter, vals []Datum) Datum {
		if c, ok := expectArity("cdr", vals, 1); !ok {
			return c
		}
		p, ok := vals[0].AsPair()
		if !ok {
			return ip.typeError("cdr", "pair", vals[0])
		}
		return p.Tail
	}))

	ip.RegisterNative("list", strict(func(_ *Interpreter, vals []Datum) Datum {
		return List(vals...)
	}))

	ip.RegisterNative("length", strict(func(ip *Interpreter, vals []Datum) Datum {
		if c, ok := expectArity("length", vals, 1); !ok {
			return c
		}
		xs, ok := vals[0].ListSlice()
		if !ok {
			return ip.typeError("length", "list", vals[0])
		}
		return Int(int64(len(xs)))
	}))

	// (set-car! name v) / (set-cdr! name v): name is a symbol bound to a pair.
	// The pair is not modified; name is rebound to a copy with one side
	// replaced.
	rebindPair := func(name string, rebuild func(old *Pair, v Datum) Datum) NativeFunc {
		return func(ip *Interpreter, args []Datum) Datum {
			if c, ok := expectArity(name, args, 2); !ok {
				return c
			}
			id, c, ok := ip.bindableSymbol(name, args[0])
			if !ok {
				return c
			}
			old := ip.evalValue(args[0])
			if old.Tag == DCond {
				return old
			}
			p, ok := old.AsPair()
			if !ok {
				return ip.typeError(name, "pair", old)
			}
			v := ip.evalValue(args[1])
			if v.Tag == DCond {
				return v
			}
			ip.current.Bind(id, rebuild(p, v))
			return Sym(id)
		}
	}
	ip.RegisterNative("set-car!", rebindPair("set-car!", func(old *Pair, v Datum) Datum { return Cons(v, old.Tail) }))
	ip.RegisterNative("set-cdr!", rebindPair("set-cdr!", func(old *Pair, v Datum) Datum { return Cons(old.Head, v) }))
}

/* ---------- output & introspection ---------- */

func registerIO(ip *Interpreter) {
	// (display v) writes strings and chars raw, everything else in canonical
	// syntax.
	ip.RegisterNative("display", strict(func(ip *Interpreter, vals []Datum) Datum {
		if c, ok := expectArity("display", vals, 1); !ok {
			return c
		}
		switch v := vals[0]; v.Tag {
		case DStr:
			fmt.Fprint(ip.out, v.Data.(string))
		case DChar:
			fmt.Fprint(ip.out, string(v.Data.(rune)))
		default:
			fmt.Fprint(ip.out, ip.Format(v))
		}
		return Empty
	}))

	ip.RegisterNative("newline", strict(func(ip *Interpreter, vals []Datum) Datum {
		if c, ok := expectArity("newline", vals, 0); !ok {
			return c
		}
		fmt.Fprintln(ip.out)
		return Empty
	}))

	// (symbol-space) -> every symbol visible from the current scope, by name
	ip.RegisterNative("symbol-space", func(ip *Interpreter, args []Datum) Datum {
		if c, ok := expectArity("symbol-space", args, 0); !ok {
			return c
		}
		ids := ip.current.Symbols()
		sort.Slice(ids, func(i, j int) bool {
			return symbolText(ids[i], ip.Symbols) < symbolText(ids[j], ip.Symbols)
		})
		out := make([]Datum, len(ids))
		for i, id := range ids {
			out[i] = Sym(id)
		}
		return List(out...)
	})
}

// ---- argument helpers ---------------------------------------------------

// hasCharLiteral reports whether code n is a character the reader accepts.
func hasCharLiteral(n int64) bool {
	return n == '\t' || n == '\n' || (n >= ' ' && n <= '~')
}

// checkArity returns a Condition when len(args) is outside [lo, hi]. hi < 0
// means no upper bound.
func checkArity(name string, args []Datum, lo, hi int) (Datum, bool) {
	n := len(args)
	if n >= lo && (hi < 0 || n <= hi) {
		return Empty, true
	}
	var want string
	switch {
	case lo == hi:
		want = strconv.Itoa(lo)
	case hi < 0:
		want = strconv.Itoa(lo) + ".."
	default:
		want = strconv.Itoa(lo) + ".." + strconv.Itoa(hi)
	}
	return Condf("arity mismatch for %s: expected: %s, got: %d", name, want, n), false
}

func expectArity(name string, args []Datum, n int) (Datum, bool) {
	return checkArity(name, args, n, n)
}

func expectMinArity(name string, args []Datum, n int) (Datum, bool) {
	return checkArity(name, args, n, -1)
}

func expectArityRange(name string, args []Datum, lo, hi int) (Datum, bool) {
	return checkArity(name, args, lo, hi)
}

func (ip *Interpreter) typeError(fn, kind string, got Datum) Datum {
	return Condf("%s expected %s, got: %s", fn, kind, ip.Format(got))
}

// ints extracts int64 payloads, failing on the first non-integer.
func (ip *Interpreter) ints(fn string, vals []Datum) ([]int64, Datum, bool) {
	ns := make([]int64, len(vals))
	for i, v := range vals {
		n, ok := v.AsInt()
		if !ok {
			return nil, ip.typeError(fn, "integer", v), false
		}
		ns[i] = n
	}
	return ns, Empty, true
}
