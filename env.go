package tailspin

// Env is one lexical frame plus a link to the enclosing frame. A chain of
// frames is persistent: Child prepends a fresh empty frame and shares the
// rest, so a closure can capture its definition scope without copying it.
//
// Bind only ever writes the frame it is called on. Other Envs sharing the same
// parent never observe a child's bindings.
type Env struct {
	parent *Env
	table  map[uint64]Datum
}

// NewEnv creates a frame with the given parent (nil for a root frame).
func NewEnv(parent *Env) *Env {
	return &Env{parent: parent, table: make(map[uint64]Datum)}
}

// Child returns a new empty frame chained to e.
func (e *Env) Child() *Env { return NewEnv(e) }

// Parent returns the enclosing frame, or nil for the root.
func (e *Env) Parent() *Env { return e.parent }

// Lookup walks from the innermost frame outwards and returns the first
// binding for id.
func (e *Env) Lookup(id uint64) (Datum, bool) {
	for f := e; f != nil; f = f.parent {
		if v, ok := f.table[id]; ok {
			return v, true
		}
	}
	return Empty, false
}

// Bind inserts or overwrites id in this frame only.
func (e *Env) Bind(id uint64, v Datum) {
	e.table[id] = v
}

// BoundHere reports whether id is bound in this frame (not its parents).
func (e *Env) BoundHere(id uint64) bool {
	_, ok := e.table[id]
	return ok
}

// Symbols lists every id visible from e, innermost frames first, without
// duplicates. Order within a frame is unspecified.
func (e *Env) Symbols() []uint64 {
	seen := make(map[uint64]bool)
	var out []uint64
	for f := e; f != nil; f = f.parent {
		for id := range f.table {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	return out
}

// Depth is the number of frames in the chain, counting e.
func (e *Env) Depth() int {
	n := 0
	for f := e; f != nil; f = f.parent {
		n++
	}
	return n
}
