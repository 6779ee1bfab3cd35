package tailspin

import "testing"

func Test_Env_Lookup_Walks_Outwards(t *testing.T) {
	x, y := SymbolID("x"), SymbolID("y")
	root := NewEnv(nil)
	root.Bind(x, Int(1))
	child := root.Child()
	child.Bind(y, Int(2))

	if v, ok := child.Lookup(x); !ok || !Equal(v, Int(1)) {
		t.Fatalf("child should see parent binding, got %v %v", v, ok)
	}
	if _, ok := root.Lookup(y); ok {
		t.Fatalf("parent must not see child binding")
	}
	if child.Parent() != root || root.Parent() != nil {
		t.Fatalf("parent links broken")
	}
	if child.Depth() != 2 || root.Depth() != 1 {
		t.Fatalf("depths: child=%d root=%d", child.Depth(), root.Depth())
	}
}

func Test_Env_Bind_Shadows_Without_Touching_Parent(t *testing.T) {
	x := SymbolID("x")
	root := NewEnv(nil)
	root.Bind(x, Int(1))
	a, b := root.Child(), root.Child()
	a.Bind(x, Int(2))

	if v, _ := a.Lookup(x); !Equal(v, Int(2)) {
		t.Fatalf("shadowing failed: %v", v)
	}
	if v, _ := b.Lookup(x); !Equal(v, Int(1)) {
		t.Fatalf("sibling frame saw shadowing binding: %v", v)
	}
	if v, _ := root.Lookup(x); !Equal(v, Int(1)) {
		t.Fatalf("parent was modified: %v", v)
	}
	if !a.BoundHere(x) || b.BoundHere(x) {
		t.Fatalf("BoundHere should only look at the frame itself")
	}
}

func Test_Env_Symbols_Deduplicates(t *testing.T) {
	x, y := SymbolID("x"), SymbolID("y")
	root := NewEnv(nil)
	root.Bind(x, Int(1))
	root.Bind(y, Int(1))
	child := root.Child()
	child.Bind(x, Int(2))

	ids := child.Symbols()
	if len(ids) != 2 {
		t.Fatalf("want 2 visible symbols, got %d", len(ids))
	}
	if _, ok := NewEnv(nil).Lookup(x); ok {
		t.Fatalf("empty env should not resolve anything")
	}
}
