package value

import (
	"testing"

	"valuefold/internal/bigint"
	"valuefold/internal/strval"
)

func TestEqualAtoms(t *testing.T) {
	if !NewInt(bigint.FromInt64(5)).Equal(NewInt(bigint.FromInt64(5))) {
		t.Error("5 should equal 5")
	}
	if NewInt(bigint.FromInt64(5)).Equal(NewInt(bigint.FromInt64(6))) {
		t.Error("5 should not equal 6")
	}
	if NewBool(true).Equal(NewBool(false)) {
		t.Error("true should not equal false")
	}
}

func TestEqualNaN(t *testing.T) {
	nan := NewReal(nanValue())
	if nan.Equal(nan) {
		t.Error("NaN must not equal itself")
	}
}

func nanValue() float64 {
	var zero float64
	return zero / zero
}

func TestEqualSetOfMultiset(t *testing.T) {
	a := NewSetOf([]*Value{NewInt(bigint.FromInt64(1)), NewInt(bigint.FromInt64(2))})
	b := NewSetOf([]*Value{NewInt(bigint.FromInt64(2)), NewInt(bigint.FromInt64(1))})
	if !a.Equal(b) {
		t.Error("setof should match regardless of element order")
	}
	c := NewSetOf([]*Value{NewInt(bigint.FromInt64(1)), NewInt(bigint.FromInt64(1))})
	if a.Equal(c) {
		t.Error("setof with a repeated element should not match one without")
	}
}

func TestEqualSeqOfOrdered(t *testing.T) {
	a := NewSeqOf([]*Value{NewInt(bigint.FromInt64(1)), NewInt(bigint.FromInt64(2))})
	b := NewSeqOf([]*Value{NewInt(bigint.FromInt64(2)), NewInt(bigint.FromInt64(1))})
	if a.Equal(b) {
		t.Error("seqof must be order-sensitive")
	}
}

func TestEqualSetFieldOrderIndependent(t *testing.T) {
	a := NewSet([]NamedValue{{Name: "x", Value: NewInt(bigint.FromInt64(1))}, {Name: "y", Value: NewInt(bigint.FromInt64(2))}})
	b := NewSet([]NamedValue{{Name: "y", Value: NewInt(bigint.FromInt64(2))}, {Name: "x", Value: NewInt(bigint.FromInt64(1))}})
	if !a.Equal(b) {
		t.Error("set should match regardless of field declaration order")
	}
}

func TestEqualCstrUstrCrossFlavor(t *testing.T) {
	cstr := NewCstr(strval.NewChar("hi"))
	ustr := NewUstr(strval.NewUString([]strval.Quad{{Cell: 'h'}, {Cell: 'i'}}), false)
	if !cstr.Equal(ustr) {
		t.Error("cstr and an all-ASCII ustr with the same text should compare equal")
	}
}

func TestCompareOrdering(t *testing.T) {
	a := NewInt(bigint.FromInt64(3))
	b := NewInt(bigint.FromInt64(5))
	if a.Compare(b) != Less {
		t.Errorf("3 < 5 expected Less, got %v", a.Compare(b))
	}
	if b.Compare(a) != Greater {
		t.Errorf("5 > 3 expected Greater, got %v", b.Compare(a))
	}
	nan := NewReal(nanValue())
	other := NewReal(1.0)
	if nan.Compare(other) != Unordered {
		t.Error("NaN compared against anything should be Unordered")
	}
}

func TestStringReprAtoms(t *testing.T) {
	tests := []struct {
		v    *Value
		want string
	}{
		{NewBool(true), "true"},
		{NewInt(bigint.FromInt64(42)), "42"},
		{NewEnum("green"), "green"},
		{NewBstr(strval.NewBit("1011")), "'1011'B"},
		{NewHstr(strval.NewHex("1A")), "'1A'H"},
		{NewOstr(strval.NewOct("1A2B")), "'1A2B'O"},
		{NewCstr(strval.NewChar("hi")), `"hi"`},
	}
	for _, tc := range tests {
		if got := tc.v.StringRepr(); got != tc.want {
			t.Errorf("StringRepr() = %q, want %q", got, tc.want)
		}
	}
}

func TestStringReprCharstringEscaping(t *testing.T) {
	v := NewCstr(strval.NewChar(`a"b`))
	if got, want := v.StringRepr(), `"a\"b"`; got != want {
		t.Errorf("StringRepr() = %q, want %q", got, want)
	}
}

func TestStringReprSeqOf(t *testing.T) {
	v := NewSeqOf([]*Value{NewInt(bigint.FromInt64(1)), NewInt(bigint.FromInt64(2))})
	if got, want := v.StringRepr(), "{ 1, 2 }"; got != want {
		t.Errorf("StringRepr() = %q, want %q", got, want)
	}
}

func TestNewExprAndOperands(t *testing.T) {
	lhs := NewInt(bigint.FromInt64(1))
	rhs := NewInt(bigint.FromInt64(2))
	e := NewExpr(OpAdd, lhs, rhs)
	if e.Kind() != KExpr {
		t.Fatalf("NewExpr should produce KExpr, got %s", e.Kind())
	}
	if e.ExprState() != NotChecked {
		t.Errorf("fresh Expr should be NotChecked, got %v", e.ExprState())
	}
	if e.Operand(0) != lhs || e.Operand(1) != rhs {
		t.Error("Operand(i) should return the original operand pointers")
	}
	if e.Operand(2) != nil {
		t.Error("Operand out of range should return nil, not panic")
	}
	e.SetExprState(Checked)
	if e.ExprState() != Checked {
		t.Error("SetExprState did not stick")
	}
}

func TestRewriteOp(t *testing.T) {
	e := NewExpr(OpAdd, NewCstr(strval.NewChar("a")), NewCstr(strval.NewChar("b")))
	e.RewriteOp(OpConcat)
	if e.Op() != OpConcat {
		t.Errorf("RewriteOp did not change operator, got %v", e.Op())
	}
}

func TestSetValuetypeIntToReal(t *testing.T) {
	v := NewInt(bigint.FromInt64(5))
	v.SetValuetype(KReal)
	if v.Kind() != KReal {
		t.Fatalf("Kind() = %s, want KReal", v.Kind())
	}
	if v.RealVal() != 0 {
		t.Errorf("RealVal() = %v, want 0 (payload cleared, caller fills it in)", v.RealVal())
	}
}

func TestSetValuetypeRejectsOutsideClosedSet(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("SetValuetype on a disallowed transition should panic")
		}
	}()
	NewBool(true).SetValuetype(KInt)
}

func TestSetValuetypeWithReplacementDelegatesToCopyAndDestroy(t *testing.T) {
	v := NewUstr(strval.NewUString([]strval.Quad{{Cell: 'h'}, {Cell: 'i'}}), false)
	v.Loc.Line = 7
	v.SetValuetype(KCstr, NewCstr(strval.NewChar("hi")))
	if v.Kind() != KCstr {
		t.Fatalf("Kind() = %s, want KCstr", v.Kind())
	}
	if v.Str().Bytes() == nil || string(v.Str().Bytes()) != "hi" {
		t.Errorf("Str() = %q, want \"hi\"", v.Str().Bytes())
	}
	if v.Loc.Line != 7 {
		t.Error("SetValuetype with a replacement must preserve the original Value's Loc")
	}
}

func TestCopyAndDestroyPreservesIdentityAndHeader(t *testing.T) {
	v := NewInt(bigint.FromInt64(1))
	v.Loc.Line = 3
	replacement := NewReal(2.5)
	v.CopyAndDestroy(replacement)
	if v.Kind() != KReal || v.RealVal() != 2.5 {
		t.Fatalf("CopyAndDestroy did not adopt replacement's payload: kind=%s real=%v", v.Kind(), v.RealVal())
	}
	if v.Loc.Line != 3 {
		t.Error("CopyAndDestroy must preserve the receiver's own Loc")
	}
	if replacement.Kind() != 0 {
		t.Error("CopyAndDestroy must leave the replacement as a zero Value")
	}
}

func TestOperatorTableCoverage(t *testing.T) {
	for op := Operator(0); op < opCount; op++ {
		info := op.Info()
		if info.Name == "?" {
			t.Errorf("operator %d has no classification table entry", op)
		}
	}
}
