package tailspin

import (
	"reflect"
	"testing"
)

func Test_Symbols_Id_Is_Stable_Across_Tables(t *testing.T) {
	a, b := NewSymbolTable(), NewSymbolTable()
	if a.Intern("loop") != b.Intern("loop") {
		t.Fatalf("ids must not depend on the table")
	}
	if a.Intern("loop") != SymbolID("loop") {
		t.Fatalf("Intern must agree with SymbolID")
	}
	if SymbolID("loop") == SymbolID("Loop") {
		t.Fatalf("symbols are case sensitive")
	}
}

func Test_Symbols_Names_Round_Trip(t *testing.T) {
	st := NewSymbolTable()
	id := st.Intern("set-car!")
	st.Intern("set-car!")
	st.Intern("alpha")
	if name, ok := st.Name(id); !ok || name != "set-car!" {
		t.Fatalf("Name: got %q %v", name, ok)
	}
	if _, ok := st.Name(SymbolID("never")); ok {
		t.Fatalf("uninterned id should be unknown")
	}
	if got := st.Names(); !reflect.DeepEqual(got, []string{"alpha", "set-car!"}) {
		t.Fatalf("Names: got %v", got)
	}
	var nilTable *SymbolTable
	if _, ok := nilTable.Name(id); ok {
		t.Fatalf("nil table should know no names")
	}
}
