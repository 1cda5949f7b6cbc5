package fold

import (
	"valuefold/internal/bigint"
	"valuefold/internal/diag"
	"valuefold/internal/strval"
	"valuefold/internal/value"
)

// Folder is the Checker+Folder of spec §4.D: it holds the diagnostics
// sink every reported error/warning goes to (so a diagnostic is
// reported exactly once regardless of how many times a shared sub-tree
// is revisited) and the testcase-body flag %testcaseId folding needs.
type Folder struct {
	Sink       *diag.Sink
	InTestcase bool
	reported   map[*value.Value]bool
}

func NewFolder(sink *diag.Sink) *Folder {
	return &Folder{Sink: sink, reported: make(map[*value.Value]bool)}
}

func (f *Folder) reportOnce(v *value.Value, kind diag.Kind, format string, args ...any) *value.Value {
	if !f.reported[v] {
		f.reported[v] = true
		if f.Sink != nil {
			f.Sink.Report(diag.New(kind, v.Loc, format, args...))
		}
	}
	return value.NewErrorValue(kind)
}

// GetValueRefdLast is spec §4.D's single entry point: it resolves Refd
// through the Assignment chain, evaluates Expr nodes, substitutes
// Macros, and returns every other kind unchanged.
func (f *Folder) GetValueRefdLast(chain *RefChain, v *value.Value) *value.Value {
	if v == nil {
		return nil
	}
	switch v.Kind() {
	case value.KRefd:
		return f.foldRefd(chain, v)
	case value.KExpr:
		return f.foldExpr(chain, v)
	case value.KMacro:
		return f.foldMacro(v)
	default:
		return v
	}
}

func (f *Folder) foldRefd(chain *RefChain, v *value.Value) *value.Value {
	if cached := v.CachedLast(); cached != nil {
		return cached
	}
	ref := v.Ref()
	if ref == nil || ref.Assignment == nil {
		result := f.reportOnce(v, diag.Unresolved, "reference %q does not resolve to a declaration", refName(ref))
		v.SetCachedLast(result)
		return result
	}
	switch ref.Assignment.Kind() {
	case value.AssignConst, value.AssignASN1ConstLike:
	default:
		// Variables, parameters, functions, timers and components are not
		// compile-time values; the Refd stays unresolved rather than in error.
		v.SetCachedLast(v)
		return v
	}
	mark := chain.MarkState()
	defer chain.PrevState(mark)
	if !chain.Add(ref.Assignment.FullName()) {
		result := f.reportOnce(v, diag.CycleDetected, "circular reference through %q in module %s", ref.Assignment.FullName(), ref.Assignment.ModuleID())
		v.SetCachedLast(result)
		return result
	}
	target := ref.Assignment.ConstValue()
	if target == nil {
		result := f.reportOnce(v, diag.Unresolved, "constant %q has no value", ref.Assignment.FullName())
		v.SetCachedLast(result)
		return result
	}
	folded := f.GetValueRefdLast(chain, target)
	result := f.GetRefdSubValue(folded, ref.SubRefs)
	if result.Governor == nil {
		result.Governor = governorOfRefd(ref)
	}
	v.SetCachedLast(result)
	return result
}

func refName(ref *value.Reference) string {
	if ref == nil {
		return "<nil>"
	}
	return ref.Name
}

func (f *Folder) foldMacro(v *value.Value) *value.Value {
	switch v.MacroKind() {
	case value.MacroFileName:
		return value.NewCstr(strval.NewChar(v.Loc.File))
	case value.MacroLineNumber:
		return value.NewInt(bigint.FromInt64(int64(v.Loc.Line)))
	case value.MacroModuleId, value.MacroDefinitionId, value.MacroScope:
		return value.NewCstr(strval.NewChar(v.Loc.Scope))
	case value.MacroTestcaseId:
		if !f.InTestcase {
			return f.reportOnce(v, diag.NotConstant, "%%testcaseId is only known at runtime outside a testcase body")
		}
		return value.NewCstr(strval.NewChar(v.Loc.Scope))
	}
	return f.reportOnce(v, diag.OperatorShape, "unknown macro kind")
}

// foldExpr implements the Checking -> CheckingErr -> Checked state
// machine: a cyclic re-entry (an Expr that is its own ancestor in the
// fold, independent of the Assignment-name RefChain) reports
// CycleDetected exactly once and every further visit gets the silent
// Error result without a second diagnostic.
func (f *Folder) foldExpr(chain *RefChain, v *value.Value) *value.Value {
	switch v.ExprState() {
	case value.Checking:
		v.SetExprState(value.CheckingErr)
		return f.reportOnce(v, diag.CycleDetected, "expression is part of a reference cycle")
	case value.CheckingErr:
		return value.NewErrorValue(diag.CycleDetected)
	}
	v.SetExprState(value.Checking)

	operands := v.Operands()
	folded := make([]*value.Value, len(operands))
	for i, o := range operands {
		folded[i] = f.GetValueRefdLast(chain, o)
		if folded[i].IsError() {
			v.SetExprState(value.Checked)
			return folded[i]
		}
		if i == 0 && len(operands) == 2 && shortCircuitDetermined(v.Op(), folded[0]) {
			v.SetExprState(value.Checked)
			return value.NewBool(folded[0].BoolVal())
		}
	}

	view := foldedExprView(v, folded)
	RewritePlusToConcatIfStrings(view, f.Sink)
	if view.Op() == value.OpConcat && v.Op() == value.OpAdd {
		v.RewriteOp(value.OpConcat)
	}
	op := v.Op()
	info := op.Info()

	for i, dom := range info.Operands {
		if i >= len(folded) {
			break
		}
		demoteUstrIfCharstringDomain(folded[i], dom)
		if !kindMatchesDomain(folded[i].Kind(), dom) {
			v.SetExprState(value.Checked)
			return f.reportOnce(v, diag.DomainType, "operand %d of %s has kind %s", i, op, folded[i].Kind())
		}
	}

	result := f.evaluate(v, op, folded)
	v.SetExprState(value.Checked)
	return result
}

// foldedExprView lets RewritePlusToConcatIfStrings inspect the already-
// folded operand kinds (a literal const's Kind is only known after
// resolving the Refd): it builds a throwaway Expr sharing v's operator
// and location but pointing at the folded operands, so the rewrite
// decision can be made once here and then mirrored onto v itself.
func foldedExprView(v *value.Value, folded []*value.Value) *value.Value {
	view := value.NewExpr(v.Op(), folded...)
	view.Loc = v.Loc
	return view
}

// evaluate is the per-operator rewrite of spec §4.D's representative
// subset. Anything outside that subset is a conforming "returns
// unevaluated" outcome: the Expr is returned as it is, with its original
// operands, rather than becoming Error.
func (f *Folder) evaluate(v *value.Value, op value.Operator, a []*value.Value) *value.Value {
	switch op {
	case value.OpAdd:
		return f.evalArith(v, a[0], a[1], bigint.Int.Add, func(x, y float64) float64 { return x + y })
	case value.OpSub:
		return f.evalArith(v, a[0], a[1], bigint.Int.Sub, func(x, y float64) float64 { return x - y })
	case value.OpMul:
		return f.evalArith(v, a[0], a[1], bigint.Int.Mul, func(x, y float64) float64 { return x * y })
	case value.OpDiv:
		return f.evalDiv(v, a[0], a[1])
	case value.OpMod:
		return f.evalIntOnly(v, a[0], a[1], bigint.Int.Mod, diag.DomainValue, "mod by zero")
	case value.OpRem:
		return f.evalIntOnly(v, a[0], a[1], bigint.Int.Rem, diag.DomainValue, "rem by zero")
	case value.OpUnaryPlus:
		return a[0]
	case value.OpUnaryMinus:
		return f.evalUnary(a[0])
	case value.OpNot:
		return value.NewBool(!a[0].BoolVal())
	case value.OpAnd:
		return f.evalAnd(a[0], a[1])
	case value.OpOr:
		return f.evalOr(a[0], a[1])
	case value.OpXor:
		return value.NewBool(a[0].BoolVal() != a[1].BoolVal())
	case value.OpNot4b:
		return bitNotValue(a[0])
	case value.OpAnd4b:
		return binstringOp(a[0], a[1], bitAnd)
	case value.OpOr4b:
		return binstringOp(a[0], a[1], bitOr)
	case value.OpXor4b:
		return binstringOp(a[0], a[1], bitXor)
	case value.OpEq:
		return value.NewBool(a[0].Equal(a[1]))
	case value.OpNe:
		return value.NewBool(!a[0].Equal(a[1]))
	case value.OpLt:
		return value.NewBool(a[0].Compare(a[1]) == value.Less)
	case value.OpGt:
		return value.NewBool(a[0].Compare(a[1]) == value.Greater)
	case value.OpLe:
		ord := a[0].Compare(a[1])
		return value.NewBool(ord == value.Less || ord == value.OrderEqual)
	case value.OpGe:
		ord := a[0].Compare(a[1])
		return value.NewBool(ord == value.Greater || ord == value.OrderEqual)
	case value.OpConcat:
		return f.evalConcat(v, a[0], a[1])
	case value.OpSubstr:
		return f.evalSubstr(v, a[0], a[1], a[2])
	case value.OpRegexp:
		return f.evalRegexp(v, a)
	case value.OpRotateLeft:
		return newSameFlavor(a[0].Kind(), strval.RotateLeft(a[0].Str(), mustSmallInt(a[1])))
	case value.OpRotateRight:
		return newSameFlavor(a[0].Kind(), strval.RotateRight(a[0].Str(), mustSmallInt(a[1])))
	case value.OpShl:
		return newSameFlavor(a[0].Kind(), strval.ShiftLeft(a[0].Str(), mustSmallInt(a[1])))
	case value.OpShr:
		return newSameFlavor(a[0].Kind(), strval.ShiftRight(a[0].Str(), mustSmallInt(a[1])))
	case value.OpBit2Int:
		return value.NewInt(strval.Bit2Int(a[0].Str()))
	case value.OpBit2Hex:
		return value.NewHstr(strval.Bit2Hex(a[0].Str()))
	case value.OpBit2Oct:
		return value.NewOstr(strval.Bit2Oct(a[0].Str()))
	case value.OpHex2Bit:
		return value.NewBstr(strval.Hex2Bit(a[0].Str()))
	case value.OpHex2Int:
		return value.NewInt(strval.Hex2Int(a[0].Str()))
	case value.OpHex2Oct:
		return value.NewOstr(strval.Hex2Oct(a[0].Str(), v.Loc, f.Sink))
	case value.OpOct2Bit:
		return value.NewBstr(strval.Oct2Bit(a[0].Str()))
	case value.OpOct2Hex:
		return value.NewHstr(strval.Oct2Hex(a[0].Str()))
	case value.OpOct2Int:
		return value.NewInt(strval.Oct2Int(a[0].Str()))
	case value.OpOct2Char:
		return value.NewCstr(strval.Oct2Char(a[0].Str(), v.Loc, f.Sink))
	case value.OpChar2Int:
		return value.NewInt(strval.Char2Int(a[0].Str(), v.Loc, f.Sink))
	case value.OpChar2Oct:
		return value.NewOstr(strval.Char2Oct(a[0].Str(), v.Loc, f.Sink))
	case value.OpInt2Bit:
		return value.NewBstr(strval.Int2Bit(a[0].IntVal(), mustSmallInt(a[1]), v.Loc, f.Sink))
	case value.OpInt2Hex:
		return value.NewHstr(strval.Int2Hex(a[0].IntVal(), mustSmallInt(a[1]), v.Loc, f.Sink))
	case value.OpInt2Oct:
		return value.NewOstr(strval.Int2Oct(a[0].IntVal(), mustSmallInt(a[1]), v.Loc, f.Sink))
	case value.OpInt2Char:
		return value.NewCstr(strval.Int2Char(a[0].IntVal(), v.Loc, f.Sink))
	case value.OpInt2Float:
		return value.NewReal(a[0].IntVal().ToReal())
	case value.OpFloat2Int:
		return value.NewInt(bigint.FromInt64(int64(a[0].RealVal())))
	case value.OpLengthof:
		return f.evalLengthof(v, a[0])
	case value.OpEnum2Int:
		return f.evalEnum2Int(v, a[0])
	case value.OpGetStringencoding:
		return value.NewCstr(strval.NewChar(strval.GetStringEncoding(a[0].Str())))
	case value.OpRemoveBom:
		return value.NewOstr(strval.RemoveBOM(a[0].Str()))
	default:
		return v // outside the representative subset: conforming "unevaluated"
	}
}

func (f *Folder) evalArith(v *value.Value, x, y *value.Value, intOp func(bigint.Int, bigint.Int) bigint.Int, floatOp func(float64, float64) float64) *value.Value {
	if x.Kind() == value.KInt && y.Kind() == value.KInt {
		return value.NewInt(intOp(x.IntVal(), y.IntVal()))
	}
	return value.NewReal(floatOp(asFloat(x), asFloat(y)))
}

func (f *Folder) evalDiv(v *value.Value, x, y *value.Value) *value.Value {
	if x.Kind() == value.KInt && y.Kind() == value.KInt {
		if y.IntVal().IsZero() {
			return f.reportOnce(v, diag.DomainValue, "division by zero")
		}
		return value.NewInt(x.IntVal().Div(y.IntVal()))
	}
	if asFloat(y) == 0 {
		return f.reportOnce(v, diag.DomainValue, "division by zero")
	}
	return value.NewReal(asFloat(x) / asFloat(y))
}

func (f *Folder) evalIntOnly(v *value.Value, x, y *value.Value, op func(bigint.Int, bigint.Int) bigint.Int, errKind diag.Kind, zeroMsg string) *value.Value {
	if y.IntVal().IsZero() {
		return f.reportOnce(v, errKind, "%s", zeroMsg)
	}
	return value.NewInt(op(x.IntVal(), y.IntVal()))
}

func (f *Folder) evalUnary(x *value.Value) *value.Value {
	if x.Kind() == value.KInt {
		return value.NewInt(x.IntVal().Neg())
	}
	return value.NewReal(-x.RealVal())
}

func (f *Folder) evalAnd(v1, v2 *value.Value) *value.Value {
	if !v1.BoolVal() {
		return value.NewBool(false)
	}
	return v2
}

func (f *Folder) evalOr(v1, v2 *value.Value) *value.Value {
	if v1.BoolVal() {
		return value.NewBool(true)
	}
	return v2
}

func asFloat(v *value.Value) float64 {
	if v.Kind() == value.KInt {
		return v.IntVal().ToReal()
	}
	return v.RealVal()
}

func (f *Folder) evalConcat(v *value.Value, x, y *value.Value) *value.Value {
	switch {
	case x.Kind() == value.KUstr || y.Kind() == value.KUstr:
		xu, yu := toUstr(x), toUstr(y)
		return value.NewUstr(xu.Concat(yu), false)
	case x.Kind() == value.KCstr && y.Kind() == value.KCstr:
		return value.NewCstr(x.Str().Concat(y.Str()))
	default:
		if x.Kind() != y.Kind() {
			return f.reportOnce(v, diag.DomainType, "concat operand tags must match for binary strings, got %s and %s", x.Kind(), y.Kind())
		}
		return newSameFlavor(x.Kind(), x.Str().Concat(y.Str()))
	}
}

func toUstr(v *value.Value) strval.UString {
	if v.Kind() == value.KUstr {
		return v.Ustr()
	}
	return strval.UStringFromByteString(v.Str())
}

func newSameFlavor(k value.Kind, s strval.ByteString) *value.Value {
	switch k {
	case value.KBstr:
		return value.NewBstr(s)
	case value.KHstr:
		return value.NewHstr(s)
	case value.KOstr:
		return value.NewOstr(s)
	default:
		return value.NewCstr(s)
	}
}

// evalSubstr doubles i/n for Ostr operands, matching spec §4.D ("for
// Ostr both i and n are doubled, since the carrier is 2 hex digits per
// octet").
func (f *Folder) evalSubstr(v *value.Value, s, i, n *value.Value) *value.Value {
	pos := mustSmallInt(i)
	length := mustSmallInt(n)
	if s.Kind() == value.KUstr {
		return value.NewUstr(s.Ustr().Substr(pos, length, v.Loc, f.Sink), false)
	}
	if s.Kind() == value.KOstr {
		pos *= 2
		length *= 2
	}
	return newSameFlavor(s.Kind(), s.Str().Substr(pos, length, v.Loc, f.Sink))
}

func (f *Folder) evalRegexp(v *value.Value, a []*value.Value) *value.Value {
	group := mustSmallInt(a[2])
	nocase := a[3].BoolVal()
	if group < 0 {
		return f.reportOnce(v, diag.DomainValue, "regexp group index %d must not be negative", group)
	}
	if a[0].Kind() == value.KUstr {
		return value.NewUstr(strval.RegexpUnicode(a[0].Ustr(), toUstr(a[1]), group, nocase, v.Loc, f.Sink), false)
	}
	return value.NewCstr(strval.Regexp(a[0].Str(), a[1].Str(), group, nocase, v.Loc, f.Sink))
}

// evalLengthof covers strings and list types; records/sets have a fixed
// declared length (lengthof doesn't apply to them in the representative
// subset this folder implements).
func (f *Folder) evalLengthof(v *value.Value, x *value.Value) *value.Value {
	switch x.Kind() {
	case value.KUstr:
		return value.NewInt(bigint.FromInt64(int64(x.Ustr().Len())))
	case value.KBstr, value.KHstr, value.KOstr, value.KCstr, value.KIso2022str:
		return value.NewInt(bigint.FromInt64(int64(x.Str().Len())))
	case value.KSeqOf, value.KSetOf, value.KArray:
		return value.NewInt(bigint.FromInt64(int64(len(x.Elems()))))
	default:
		return f.reportOnce(v, diag.DomainType, "lengthof is not defined for kind %s", x.Kind())
	}
}

func (f *Folder) evalEnum2Int(v *value.Value, x *value.Value) *value.Value {
	gov := x.Governor
	if gov == nil {
		gov = GetExprGovernor(x)
	}
	if gov == nil {
		return f.reportOnce(v, diag.Unresolved, "enum2int requires a resolved governor type")
	}
	ord, ok := gov.Ordinal(x.EnumID())
	if !ok {
		return f.reportOnce(v, diag.Unresolved, "enum literal %q has no ordinal in its governor", x.EnumID())
	}
	return value.NewInt(bigint.FromInt64(int64(ord)))
}

func mustSmallInt(v *value.Value) int {
	return int(v.IntVal().AsNative())
}

// toBitString/fromBitString let not4b/and4b/or4b/xor4b work uniformly
// across the three binstring flavors: the actual bitwise op always
// happens on '0'/'1' characters, then the result converts back to
// whichever flavor the operand started in (spec §4.D: "RetSame").
func toBitString(s strval.ByteString) strval.ByteString {
	switch s.Flavor() {
	case strval.FlavorHex:
		return strval.Hex2Bit(s)
	case strval.FlavorOct:
		return strval.Oct2Bit(s)
	default:
		return s
	}
}

func fromBitString(flavor strval.Flavor, bits strval.ByteString) strval.ByteString {
	switch flavor {
	case strval.FlavorHex:
		return strval.Bit2Hex(bits)
	case strval.FlavorOct:
		return strval.Bit2Oct(bits)
	default:
		return bits
	}
}

func bitNotValue(x *value.Value) *value.Value {
	flavor := x.Str().Flavor()
	bits := toBitString(x.Str())
	out := make([]byte, bits.Len())
	for i, c := range bits.Bytes() {
		if c == '1' {
			out[i] = '0'
		} else {
			out[i] = '1'
		}
	}
	return newSameFlavor(x.Kind(), fromBitString(flavor, strval.NewBit(string(out))))
}

func bitAnd(a, b byte) byte {
	if a == '1' && b == '1' {
		return '1'
	}
	return '0'
}
func bitOr(a, b byte) byte {
	if a == '1' || b == '1' {
		return '1'
	}
	return '0'
}
func bitXor(a, b byte) byte {
	if (a == '1') != (b == '1') {
		return '1'
	}
	return '0'
}

func binstringOp(x, y *value.Value, op func(a, b byte) byte) *value.Value {
	flavor := x.Str().Flavor()
	xb, yb := toBitString(x.Str()), toBitString(y.Str())
	n := xb.Len()
	if yb.Len() < n {
		n = yb.Len()
	}
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[i] = op(xb.Bytes()[i], yb.Bytes()[i])
	}
	return newSameFlavor(x.Kind(), fromBitString(flavor, strval.NewBit(string(out))))
}
