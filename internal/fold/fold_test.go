package fold

import (
	"testing"

	"valuefold/internal/bigint"
	"valuefold/internal/diag"
	"valuefold/internal/strval"
	"valuefold/internal/symtab"
	"valuefold/internal/value"
)

func TestRefChainCycleDetection(t *testing.T) {
	c := NewRefChain()
	if !c.Add("a") {
		t.Fatal("first add of a fresh name should succeed")
	}
	if c.Add("a") {
		t.Fatal("re-adding the same name should report a cycle")
	}
}

func TestRefChainMarkPrevStateIndependence(t *testing.T) {
	c := NewRefChain()
	c.Add("shared")
	mark := c.MarkState()
	c.Add("leaf1")
	c.PrevState(mark)
	// leaf1 popped; "shared" should still be live and a sibling visit
	// should be able to push leaf1 again without a false cycle report.
	if !c.Add("leaf1") {
		t.Fatal("leaf1 should be re-addable after PrevState popped it")
	}
	if c.Add("shared") {
		t.Fatal("shared should still be on the chain")
	}
}

func constAssignment(name string, v *value.Value) *symtab.Assignment {
	return symtab.NewAssignment(name, value.AssignConst, nil, v)
}

func TestGetValueRefdLastSimpleConst(t *testing.T) {
	folder := NewFolder(&diag.Sink{})
	target := value.NewInt(bigint.FromInt64(42))
	ref := &value.Reference{Name: "c", Assignment: constAssignment("M.c", target)}
	refd := value.NewRefd(ref)

	got := folder.GetValueRefdLast(NewRefChain(), refd)
	if got.Kind() != value.KInt || got.IntVal().String() != "42" {
		t.Fatalf("expected folded 42, got %v", got.StringRepr())
	}
}

func TestGetValueRefdLastCycle(t *testing.T) {
	sink := &diag.Sink{}
	folder := NewFolder(sink)

	// const a := b; const b := a;
	bRef := &value.Reference{Name: "b"}
	aAssign := symtab.NewAssignment("M.a", value.AssignConst, nil, value.NewRefd(bRef))
	aRef := &value.Reference{Name: "a", Assignment: aAssign}
	bAssign := symtab.NewAssignment("M.b", value.AssignConst, nil, value.NewRefd(aRef))
	bRef.Assignment = bAssign

	start := value.NewRefd(&value.Reference{Name: "a", Assignment: aAssign})
	got := folder.GetValueRefdLast(NewRefChain(), start)
	if !got.IsError() {
		t.Fatal("cyclic const chain should fold to an Error value")
	}
	if !sink.HasErrors() || sink.Errors[0].Kind != diag.CycleDetected {
		t.Fatalf("expected a CycleDetected diagnostic, got %v", sink.Errors)
	}
}

func TestIsUnfoldableLiteralsAndRuntime(t *testing.T) {
	lit := value.NewInt(bigint.FromInt64(1))
	if IsUnfoldable(NewRefChain(), lit) {
		t.Error("a plain literal should be foldable")
	}
	rnd := value.NewExpr(value.OpRnd)
	if !IsUnfoldable(NewRefChain(), rnd) {
		t.Error("rnd() should always be unfoldable")
	}
}

func TestIsUnfoldableShortCircuit(t *testing.T) {
	falseLit := value.NewBool(false)
	// and(false, <unfoldable>) should still fold: the rhs never needs
	// to be foldable since v1 already determines the answer.
	rhs := value.NewExpr(value.OpRnd)
	expr := value.NewExpr(value.OpAnd, falseLit, rhs)
	if IsUnfoldable(NewRefChain(), expr) {
		t.Error("and(false, unfoldable) should still fold via short-circuit")
	}
}

func TestEvaluateAddInt(t *testing.T) {
	folder := NewFolder(&diag.Sink{})
	expr := value.NewExpr(value.OpAdd, value.NewInt(bigint.FromInt64(2)), value.NewInt(bigint.FromInt64(3)))
	got := folder.GetValueRefdLast(NewRefChain(), expr)
	if got.IntVal().String() != "5" {
		t.Errorf("2+3 = %s, want 5", got.IntVal().String())
	}
}

func TestEvaluateDivisionByZero(t *testing.T) {
	sink := &diag.Sink{}
	folder := NewFolder(sink)
	expr := value.NewExpr(value.OpDiv, value.NewInt(bigint.FromInt64(1)), value.NewInt(bigint.FromInt64(0)))
	got := folder.GetValueRefdLast(NewRefChain(), expr)
	if !got.IsError() || !sink.HasErrors() || sink.Errors[0].Kind != diag.DomainValue {
		t.Errorf("expected DomainValue error, got %v / %v", got.StringRepr(), sink.Errors)
	}
}

func TestEvaluatePlusRewrittenToConcat(t *testing.T) {
	folder := NewFolder(&diag.Sink{})
	expr := value.NewExpr(value.OpAdd, value.NewCstr(strval.NewChar("foo")), value.NewCstr(strval.NewChar("bar")))
	got := folder.GetValueRefdLast(NewRefChain(), expr)
	if got.Kind() != value.KCstr || got.Str().String() != "foobar" {
		t.Errorf("expected 'foobar', got %v", got.StringRepr())
	}
	if expr.Op() != value.OpConcat {
		t.Error("the original expression node should have been rewritten to concat")
	}
}

func TestEvaluateBit2IntAndConversionsS1S2(t *testing.T) {
	folder := NewFolder(&diag.Sink{})
	e1 := value.NewExpr(value.OpBit2Int, value.NewBstr(strval.NewBit("1011")))
	got1 := folder.GetValueRefdLast(NewRefChain(), e1)
	if got1.IntVal().String() != "11" {
		t.Errorf("bit2int('1011'B) = %s, want 11", got1.IntVal())
	}

	e2 := value.NewExpr(value.OpInt2Hex, value.NewInt(bigint.FromInt64(255)), value.NewInt(bigint.FromInt64(4)))
	got2 := folder.GetValueRefdLast(NewRefChain(), e2)
	if got2.Str().String() != "00FF" {
		t.Errorf("int2hex(255,4) = %s, want 00FF", got2.Str())
	}
}

func TestEvaluateSubstrS3(t *testing.T) {
	folder := NewFolder(&diag.Sink{})
	e := value.NewExpr(value.OpSubstr, value.NewCstr(strval.NewChar("Hello")), value.NewInt(bigint.FromInt64(1)), value.NewInt(bigint.FromInt64(3)))
	got := folder.GetValueRefdLast(NewRefChain(), e)
	if got.Str().String() != "ell" {
		t.Errorf("substr(Hello,1,3) = %q, want ell", got.Str())
	}
}

func TestEvaluateAndOrShortCircuit(t *testing.T) {
	folder := NewFolder(&diag.Sink{})
	andExpr := value.NewExpr(value.OpAnd, value.NewBool(false), value.NewBool(true))
	if got := folder.GetValueRefdLast(NewRefChain(), andExpr); got.BoolVal() != false {
		t.Error("false and true should fold to false")
	}
	orExpr := value.NewExpr(value.OpOr, value.NewBool(true), value.NewBool(false))
	if got := folder.GetValueRefdLast(NewRefChain(), orExpr); got.BoolVal() != true {
		t.Error("true or false should fold to true")
	}
}

func TestGetRefdSubValueRecordField(t *testing.T) {
	folder := NewFolder(&diag.Sink{})
	rec := value.NewSeq([]value.NamedValue{
		{Name: "a", Value: value.NewInt(bigint.FromInt64(1))},
		{Name: "b", Value: value.NewInt(bigint.FromInt64(2))},
	})
	got := folder.GetRefdSubValue(rec, []value.SubRef{{Field: "b"}})
	if got.IntVal().String() != "2" {
		t.Errorf("field b = %s, want 2", got.IntVal())
	}
}

func TestGetRefdSubValueArrayIndex(t *testing.T) {
	folder := NewFolder(&diag.Sink{})
	arr := value.NewSeqOf([]*value.Value{value.NewInt(bigint.FromInt64(10)), value.NewInt(bigint.FromInt64(20))})
	got := folder.GetRefdSubValue(arr, []value.SubRef{{Index: value.NewInt(bigint.FromInt64(1))}})
	if got.IntVal().String() != "20" {
		t.Errorf("index 1 = %s, want 20", got.IntVal())
	}
}

func TestGetRefdSubValueIndexOutOfBounds(t *testing.T) {
	sink := &diag.Sink{}
	folder := NewFolder(sink)
	arr := value.NewSeqOf([]*value.Value{value.NewInt(bigint.FromInt64(10))})
	got := folder.GetRefdSubValue(arr, []value.SubRef{{Index: value.NewInt(bigint.FromInt64(5))}})
	if !got.IsError() || !sink.HasErrors() || sink.Errors[0].Kind != diag.IndexOutOfBounds {
		t.Errorf("expected IndexOutOfBounds, got %v", sink.Errors)
	}
}

func TestEvaluateEnum2IntUsesGovernorFromResolvedConst(t *testing.T) {
	folder := NewFolder(&diag.Sink{})
	colorType := symtab.NewType(value.TkEnum)
	colorType.AddEnumLiteral("red", 0)
	colorType.AddEnumLiteral("green", 1)
	colorType.AddEnumLiteral("blue", 2)

	assign := symtab.NewAssignment("M.c", value.AssignConst, colorType, value.NewEnum("green"))
	ref := &value.Reference{Name: "c", Assignment: assign}
	expr := value.NewExpr(value.OpEnum2Int, value.NewRefd(ref))

	got := folder.GetValueRefdLast(NewRefChain(), expr)
	if got.IsError() {
		t.Fatalf("enum2int(c) should fold, got error %v", got.StringRepr())
	}
	if got.IntVal().String() != "1" {
		t.Errorf("enum2int(green) = %s, want 1", got.IntVal())
	}
}

func TestDemoteUstrToCstrForCharstringDomain(t *testing.T) {
	folder := NewFolder(&diag.Sink{})
	asciiUstr := value.NewUstr(strval.NewUString([]strval.Quad{{Cell: 'A'}}), false)
	expr := value.NewExpr(value.OpChar2Int, asciiUstr)

	got := folder.GetValueRefdLast(NewRefChain(), expr)
	if got.IsError() {
		t.Fatalf("char2int on an all-ASCII Ustr should demote to Cstr and fold, got error")
	}
	if got.IntVal().String() != "65" {
		t.Errorf("char2int('A') = %s, want 65", got.IntVal())
	}
	if asciiUstr.Kind() != value.KCstr {
		t.Error("the ASCII Ustr operand should have been demoted to Cstr in place via SetValuetype")
	}
}

func TestOperatorTableDomainCheckReportsOnce(t *testing.T) {
	sink := &diag.Sink{}
	folder := NewFolder(sink)
	// "mod" demands int operands; feeding a bool should report DomainType
	// exactly once and absorb into Error.
	expr := value.NewExpr(value.OpMod, value.NewBool(true), value.NewInt(bigint.FromInt64(2)))
	got := folder.GetValueRefdLast(NewRefChain(), expr)
	if !got.IsError() || len(sink.Errors) != 1 || sink.Errors[0].Kind != diag.DomainType {
		t.Errorf("expected exactly one DomainType error, got %v", sink.Errors)
	}
}
