package parser

import "testing"

func TestSymbolTableDefineAndLookupLabel(t *testing.T) {
	st := NewSymbolTable(false)
	if err := st.DefineLabel("_main", 0xC000, SectionText); err != nil {
		t.Fatalf("DefineLabel: %v", err)
	}
	l, ok := st.LookupLabel("_main")
	if !ok || l.Address != 0xC000 {
		t.Fatalf("LookupLabel = %+v, %v", l, ok)
	}
}

func TestSymbolTableDuplicateLabel(t *testing.T) {
	st := NewSymbolTable(false)
	_ = st.DefineLabel("_main", 0xC000, SectionText)
	if err := st.DefineLabel("_main", 0xC010, SectionText); err == nil {
		t.Fatalf("expected an error redefining a label")
	}
}

func TestSymbolTableSharedNamespace(t *testing.T) {
	st := NewSymbolTable(false)
	_ = st.DefineLabel("FOO", 0x10, SectionText)
	if err := st.DefineVariable("FOO", 0x20); err == nil {
		t.Fatalf("expected an error defining a variable over an existing label")
	}
	_ = st.DefineVariable("BAR", 0x20)
	if err := st.DefineLabel("BAR", 0x30, SectionText); err == nil {
		t.Fatalf("expected an error defining a label over an existing variable")
	}
}

func TestSymbolTableRedefineVariableRejectedByDefault(t *testing.T) {
	st := NewSymbolTable(false)
	_ = st.DefineVariable("SPRITE_Y", 0x20)
	if err := st.DefineVariable("SPRITE_Y", 0x30); err == nil {
		t.Fatalf("expected an error redefining a variable with allowRedefine unset")
	}
}

func TestSymbolTableRedefineVariableAllowed(t *testing.T) {
	st := NewSymbolTable(true)
	_ = st.DefineVariable("SPRITE_Y", 0x20)
	if err := st.DefineVariable("SPRITE_Y", 0x30); err != nil {
		t.Fatalf("DefineVariable: %v", err)
	}
	v, ok := st.LookupVariable("SPRITE_Y")
	if !ok || v.Value != 0x30 {
		t.Fatalf("LookupVariable = %+v, %v, want 0x30", v, ok)
	}
	if len(st.Shadowed) != 1 || st.Shadowed[0] != "SPRITE_Y" {
		t.Fatalf("Shadowed = %v, want [SPRITE_Y]", st.Shadowed)
	}
}

func TestSymbolTableResolve(t *testing.T) {
	st := NewSymbolTable(false)
	_ = st.DefineLabel("_loop", 0xC005, SectionText)
	_ = st.DefineVariable("SPRITE_Y", 0x20)

	if v, ok := st.Resolve("_loop"); !ok || v != 0xC005 {
		t.Fatalf("Resolve(_loop) = %d, %v", v, ok)
	}
	if v, ok := st.Resolve("SPRITE_Y"); !ok || v != 0x20 {
		t.Fatalf("Resolve(SPRITE_Y) = %d, %v", v, ok)
	}
	if _, ok := st.Resolve("nope"); ok {
		t.Fatalf("expected Resolve(nope) to fail")
	}
}
