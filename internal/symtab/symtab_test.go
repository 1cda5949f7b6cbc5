package symtab

import (
	"testing"

	"valuefold/internal/bigint"
	"valuefold/internal/value"
)

func TestResolveThroughScopeChain(t *testing.T) {
	mod := NewModule("M")
	c := NewAssignment("M.c", value.AssignConst, nil, value.NewInt(bigint.FromInt64(7)))
	mod.Declare(c)

	root := NewModuleScope(mod)
	child := root.NewChild()

	got, ok := child.GetRefdAssignment("M.c")
	if !ok {
		t.Fatal("expected to resolve M.c through module fallback")
	}
	if got.ConstValue().IntVal().String() != "7" {
		t.Errorf("got %s, want 7", got.ConstValue().IntVal().String())
	}
}

func TestScopeShadowing(t *testing.T) {
	mod := NewModule("M")
	root := NewModuleScope(mod)
	child := root.NewChild()

	outer := NewAssignment("x", value.AssignVar, nil, value.NewInt(bigint.FromInt64(1)))
	inner := NewAssignment("x", value.AssignVar, nil, value.NewInt(bigint.FromInt64(2)))
	root.Declare(outer)
	child.Declare(inner)

	got, ok := child.GetRefdAssignment("x")
	if !ok || got.ConstValue().IntVal().String() != "2" {
		t.Error("child scope should shadow the parent's declaration")
	}
}

func TestHasAssignment(t *testing.T) {
	mod := NewModule("M")
	root := NewModuleScope(mod)
	if root.HasAssignment("missing") {
		t.Error("empty scope should not have 'missing'")
	}
	root.Declare(NewAssignment("y", value.AssignVar, nil, nil))
	if !root.HasAssignment("y") {
		t.Error("expected 'y' to be found after Declare")
	}
}

func TestRecordTypeFieldsAndDefaults(t *testing.T) {
	intType := NewType(value.TkInt)
	rec := NewType(value.TkRecord)
	rec.AddField("a", intType, value.NewInt(bigint.FromInt64(0)))
	rec.AddField("b", intType, nil)

	if !rec.HasField("a") || !rec.HasField("b") {
		t.Fatal("expected both fields present")
	}
	if rec.FieldType("a").Kind() != value.TkInt {
		t.Error("field a should be TkInt")
	}
	if rec.DefaultOf("a") == nil {
		t.Error("field a should carry a default")
	}
	if rec.DefaultOf("b") != nil {
		t.Error("field b should have no default")
	}
	if got, want := rec.FieldOrder(), []string{"a", "b"}; len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("FieldOrder() = %v, want %v", got, want)
	}
}

func TestEnumOrdinals(t *testing.T) {
	enumType := NewType(value.TkEnum)
	enumType.AddEnumLiteral("red", 0)
	enumType.AddEnumLiteral("green", 1)

	if o, ok := enumType.Ordinal("green"); !ok || o != 1 {
		t.Errorf("Ordinal(green) = %d,%v want 1,true", o, ok)
	}
	if _, ok := enumType.Ordinal("blue"); ok {
		t.Error("Ordinal(blue) should not resolve")
	}
}
