// datum.go: the single value type shared by program syntax and runtime data.
//
// WHAT THIS FILE DOES
// ===================
// A Datum is a closed tagged variant. The same representation is used for
// source code handed over by the parser and for the values produced while
// evaluating it: literals, pairs and lists, closures, native procedures,
// conditions (error values) and recur signals.
//
// Datums are immutable once constructed. Sharing is free (the Go GC takes care
// of it), and because no operation ever mutates a Pair or a Procedure in place,
// the value graph stays acyclic. Mutation-flavored forms (`set!`, `set-car!`)
// rebind a symbol to a freshly built Datum instead.
//
// ACCESSORS
// =========
// Constructors are total. Accessors are partial and follow the comma-ok idiom:
// `AsInt`, `AsPair`, `AsSym`, ... return `(value, false)` when the tag does not
// match. Callers use these instead of reaching into Data with a type assertion.
package tailspin

import "fmt"

// DatumTag enumerates every runtime kind a Datum may hold. The tag determines
// which Go type Data carries.
type DatumTag int

const (
	DEmpty  DatumTag = iota // the empty list (no payload); zero value of Datum
	DBool                   // bool
	DChar                   // rune
	DInt                    // int64
	DStr                    // string
	DSym                    // uint64 symbol id
	DPair                   // *Pair
	DNative                 // *Native
	DProc                   // *Procedure
	DCond                   // *Condition
	DRecur                  // []Datum (already evaluated recur arguments)
)

var tagNames = [...]string{
	DEmpty:  "empty list",
	DBool:   "boolean",
	DChar:   "char",
	DInt:    "integer",
	DStr:    "string",
	DSym:    "symbol",
	DPair:   "pair",
	DNative: "native procedure",
	DProc:   "procedure",
	DCond:   "condition",
	DRecur:  "recur signal",
}

func (t DatumTag) String() string {
	if int(t) < len(tagNames) {
		return tagNames[t]
	}
	return "unknown"
}

// Datum is the universal carrier. The zero Datum is the empty list.
type Datum struct {
	Tag  DatumTag
	Data any
}

// Pair is a cons cell. Tail is either another pair, the empty list (proper
// list), or any other Datum (dotted pair).
type Pair struct {
	Head Datum
	Tail Datum
}

// NativeFunc is the signature of built-in operations. Arguments arrive
// unevaluated; each native decides if and when to evaluate them through
// ip.Evaluate. This is what lets `if`, `quote` and `define` be ordinary natives.
type NativeFunc func(ip *Interpreter, args []Datum) Datum

// Native is a named built-in operation.
type Native struct {
	Name string
	Fn   NativeFunc
}

// Procedure is a closure: an optional display name, the definition-site scope,
// parameter symbol ids and the body expressions.
type Procedure struct {
	Name   string
	Env    *Env
	Params []uint64
	Body   []Datum
}

// Condition is an error value. It is returned like any other result; only the
// top-level driver gives it special meaning.
type Condition struct {
	Payload Datum
}

// ---------------------------------------------------------------------------
// Constructors
// ---------------------------------------------------------------------------

// Empty is the canonical list terminator.
var Empty = Datum{}

var (
	True  = Datum{Tag: DBool, Data: true}
	False = Datum{Tag: DBool, Data: false}
)

func Bool(b bool) Datum {
	if b {
		return True
	}
	return False
}

func Char(c rune) Datum     { return Datum{Tag: DChar, Data: c} }
func Int(n int64) Datum     { return Datum{Tag: DInt, Data: n} }
func Str(s string) Datum    { return Datum{Tag: DStr, Data: s} }
func Sym(id uint64) Datum   { return Datum{Tag: DSym, Data: id} }
func Cons(h, t Datum) Datum { return Datum{Tag: DPair, Data: &Pair{Head: h, Tail: t}} }

// NativeVal wraps a Go function as a native procedure Datum.
func NativeVal(name string, fn NativeFunc) Datum {
	return Datum{Tag: DNative, Data: &Native{Name: name, Fn: fn}}
}

// ProcVal wraps a closure.
func ProcVal(p *Procedure) Datum { return Datum{Tag: DProc, Data: p} }

// Cond wraps a payload into a condition.
func Cond(payload Datum) Datum { return Datum{Tag: DCond, Data: &Condition{Payload: payload}} }

// Condf builds a condition whose payload is a formatted string.
func Condf(format string, args ...any) Datum { return Cond(Str(fmt.Sprintf(format, args...))) }

// Recur packages evaluated recur arguments.
func Recur(args []Datum) Datum { return Datum{Tag: DRecur, Data: args} }

// List builds a proper list from xs.
func List(xs ...Datum) Datum { return DottedList(xs, Empty) }

// DottedList builds (x0 x1 ... . tail). With tail == Empty it is a proper list.
func DottedList(xs []Datum, tail Datum) Datum {
	out := tail
	for i := len(xs) - 1; i >= 0; i-- {
		out = Cons(xs[i], out)
	}
	return out
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (d Datum) IsEmpty() bool { return d.Tag == DEmpty }

func (d Datum) AsBool() (bool, bool) {
	if d.Tag != DBool {
		return false, false
	}
	return d.Data.(bool), true
}

func (d Datum) AsChar() (rune, bool) {
	if d.Tag != DChar {
		return 0, false
	}
	return d.Data.(rune), true
}

func (d Datum) AsInt() (int64, bool) {
	if d.Tag != DInt {
		return 0, false
	}
	return d.Data.(int64), true
}

func (d Datum) AsStr() (string, bool) {
	if d.Tag != DStr {
		return "", false
	}
	return d.Data.(string), true
}

func (d Datum) AsSym() (uint64, bool) {
	if d.Tag != DSym {
		return 0, false
	}
	return d.Data.(uint64), true
}

func (d Datum) AsPair() (*Pair, bool) {
	if d.Tag != DPair {
		return nil, false
	}
	return d.Data.(*Pair), true
}

func (d Datum) AsNative() (*Native, bool) {
	if d.Tag != DNative {
		return nil, false
	}
	return d.Data.(*Native), true
}

func (d Datum) AsProc() (*Procedure, bool) {
	if d.Tag != DProc {
		return nil, false
	}
	return d.Data.(*Procedure), true
}

func (d Datum) AsCond() (*Condition, bool) {
	if d.Tag != DCond {
		return nil, false
	}
	return d.Data.(*Condition), true
}

func (d Datum) AsRecur() ([]Datum, bool) {
	if d.Tag != DRecur {
		return nil, false
	}
	return d.Data.([]Datum), true
}

// IsList reports whether d is a proper list: following Tail links ends in the
// empty list rather than some other non-pair.
func (d Datum) IsList() bool {
	for {
		switch d.Tag {
		case DEmpty:
			return true
		case DPair:
			d = d.Data.(*Pair).Tail
		default:
			return false
		}
	}
}

// ListSlice flattens a proper list into a slice. It returns false for dotted
// pairs and non-list values. The empty list yields a nil slice and true.
func (d Datum) ListSlice() ([]Datum, bool) {
	var out []Datum
	for {
		switch d.Tag {
		case DEmpty:
			return out, true
		case DPair:
			p := d.Data.(*Pair)
			out = append(out, p.Head)
			d = p.Tail
		default:
			return nil, false
		}
	}
}

// ---------------------------------------------------------------------------
// Equality
// ---------------------------------------------------------------------------

// Equal is structural equality, used by `eq?`. Pairs compare element-wise,
// natives and procedures by identity.
func Equal(a, b Datum) bool {
	for {
		if a.Tag != b.Tag {
			return false
		}
		switch a.Tag {
		case DEmpty:
			return true
		case DBool:
			return a.Data.(bool) == b.Data.(bool)
		case DChar:
			return a.Data.(rune) == b.Data.(rune)
		case DInt:
			return a.Data.(int64) == b.Data.(int64)
		case DStr:
			return a.Data.(string) == b.Data.(string)
		case DSym:
			return a.Data.(uint64) == b.Data.(uint64)
		case DNative:
			return a.Data.(*Native) == b.Data.(*Native)
		case DProc:
			return a.Data.(*Procedure) == b.Data.(*Procedure)
		case DCond:
			a, b = a.Data.(*Condition).Payload, b.Data.(*Condition).Payload
		case DRecur:
			xs, ys := a.Data.([]Datum), b.Data.([]Datum)
			if len(xs) != len(ys) {
				return false
			}
			for i := range xs {
				if !Equal(xs[i], ys[i]) {
					return false
				}
			}
			return true
		case DPair:
			pa, pb := a.Data.(*Pair), b.Data.(*Pair)
			if pa == pb {
				return true
			}
			if !Equal(pa.Head, pb.Head) {
				return false
			}
			// iterate on the tail so long lists do not grow the stack
			a, b = pa.Tail, pb.Tail
		default:
			return false
		}
	}
}
