package tailspin

import (
	"sort"

	"github.com/dchest/siphash"
)

// Fixed SipHash keys. Symbol ids must be identical across tables and runs so
// that keyword ids can be computed once at package init.
const (
	symKey0 uint64 = 0x736f6d6570736575
	symKey1 uint64 = 0x646f72616e646f6d
)

// SymbolID returns the stable 64-bit id for a symbol's text. It does not
// record the text anywhere; use SymbolTable.Intern for that.
func SymbolID(text string) uint64 {
	return siphash.Hash(symKey0, symKey1, []byte(text))
}

// SymbolTable is an append-only, bidirectional map between symbol text and
// ids. Entries are never removed.
type SymbolTable struct {
	names map[uint64]string
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{names: make(map[uint64]string)}
}

// Intern records text and returns its id.
func (st *SymbolTable) Intern(text string) uint64 {
	id := SymbolID(text)
	if _, ok := st.names[id]; !ok {
		st.names[id] = text
	}
	return id
}

// Name returns the text recorded for id.
func (st *SymbolTable) Name(id uint64) (string, bool) {
	if st == nil {
		return "", false
	}
	s, ok := st.names[id]
	return s, ok
}

// Names returns every interned text, sorted.
func (st *SymbolTable) Names() []string {
	out := make([]string, 0, len(st.names))
	for _, s := range st.names {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Len is the number of interned symbols.
func (st *SymbolTable) Len() int { return len(st.names) }
