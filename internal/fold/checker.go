package fold

import (
	"valuefold/internal/diag"
	"valuefold/internal/strval"
	"valuefold/internal/value"
)

// kindMatchesDomain answers the chk_expr_operandtype_* family of spec
// §4.D for one operand: does its live Kind lie in the operator's
// declared domain. Error-kind operands always pass here — Error is a
// sink (spec §7) and is caught by the caller before this is consulted.
func kindMatchesDomain(k value.Kind, dom value.OperandDomain) bool {
	if k == value.KError {
		return true
	}
	switch dom {
	case value.DomAny:
		return true
	case value.DomBool:
		return k == value.KBool
	case value.DomInt:
		return k == value.KInt
	case value.DomFloat:
		return k == value.KReal
	case value.DomIntOrFloat:
		return k == value.KInt || k == value.KReal
	case value.DomIntFloatEnum:
		return k == value.KInt || k == value.KReal || k == value.KEnum
	case value.DomCharstring:
		return k == value.KCstr
	case value.DomUniversalCharstring:
		return k == value.KUstr
	case value.DomAnyString:
		return isStringKind(k)
	case value.DomBitstring:
		return k == value.KBstr
	case value.DomHexstring:
		return k == value.KHstr
	case value.DomOctetstring:
		return k == value.KOstr
	case value.DomBinstring:
		return k == value.KBstr || k == value.KHstr || k == value.KOstr
	case value.DomListType:
		return k == value.KSeqOf || k == value.KSetOf || k == value.KArray
	case value.DomEnumerated:
		return k == value.KEnum
	}
	return false
}

func isStringKind(k value.Kind) bool {
	switch k {
	case value.KBstr, value.KHstr, value.KOstr, value.KCstr, value.KIso2022str, value.KUstr:
		return true
	}
	return false
}

// demoteUstrIfCharstringDomain implements the Ustr -> Cstr leg of
// spec §4.C's set_valuetype transition table: a universal string made
// only of 7-bit ASCII quadruples may stand in wherever a plain
// charstring is required. It mutates opnd in place, so the demotion
// sticks for every later observer of this operand (caching included),
// the way a real set_valuetype call would.
func demoteUstrIfCharstringDomain(opnd *value.Value, dom value.OperandDomain) {
	if dom != value.DomCharstring || opnd.Kind() != value.KUstr {
		return
	}
	if !opnd.Ustr().IsASCII() {
		return
	}
	opnd.SetValuetype(value.KCstr, value.NewCstr(strval.NewChar(string(opnd.Ustr().ASCIIBytes()))))
}

// CheckOperandTypes is chk_expr_operandtype_*: it walks an Expr's
// operands against its operator's declared domain list, reporting
// DomainType exactly once per violation and returning false on the
// first one found (spec §4.D: "reports once ... does not continue
// folding"). A nil sink means "check silently" (used by is_unfoldable's
// read-only probes, which must never double-report).
func CheckOperandTypes(v *value.Value, sink *diag.Sink) bool {
	if v.Kind() != value.KExpr {
		return true
	}
	info := v.Op().Info()
	ok := true
	for i, dom := range info.Operands {
		opnd := v.Operand(i)
		if opnd == nil {
			continue
		}
		if opnd.IsError() {
			continue // Error is a sink; already reported at its origin
		}
		if !kindMatchesDomain(opnd.Kind(), dom) {
			if sink != nil {
				sink.Report(diag.New(diag.DomainType, v.Loc,
					"operand %d of %s has kind %s, expected %v", i, v.Op(), opnd.Kind(), dom))
			}
			ok = false
			break
		}
	}
	return ok
}

// ReturnTypeFamily is get_expr_returntype: the return-type tag for an
// expression without fully resolving its governor. Polymorphic
// operators (RetDominant) follow operand 0's Kind, mapped back onto the
// ReturnFamily enum; RetSame also follows operand 0 but is listed
// separately in the table for readability.
func ReturnTypeFamily(v *value.Value) value.ReturnFamily {
	if v.Kind() != value.KExpr {
		return value.RetAny
	}
	info := v.Op().Info()
	switch info.Return {
	case value.RetDominant, value.RetSame:
		if op0 := v.Operand(0); op0 != nil {
			return kindToReturnFamily(op0.Kind())
		}
		return value.RetAny
	default:
		return info.Return
	}
}

func kindToReturnFamily(k value.Kind) value.ReturnFamily {
	switch k {
	case value.KInt:
		return value.RetInt
	case value.KReal:
		return value.RetFloat
	case value.KBstr:
		return value.RetBitstring
	case value.KHstr:
		return value.RetHexstring
	case value.KOstr:
		return value.RetOctetstring
	case value.KCstr:
		return value.RetCharstring
	case value.KUstr:
		return value.RetUniversalCharstring
	case value.KBool:
		return value.RetBool
	case value.KVerdict:
		return value.RetVerdict
	default:
		return value.RetAny
	}
}

// GetExprGovernor is get_expr_governor (spec §4.D), the type-inference
// entry point spec.md names alongside get_expr_returntype/
// ReturnTypeFamily: the full declared governor Type behind a value, not
// just its return-family tag. Expr and Refd values don't carry one
// until something resolves it, so this derives it on demand instead of
// reading a field nothing ever populates.
func GetExprGovernor(v *value.Value) value.Type {
	if v == nil {
		return nil
	}
	if v.Governor != nil {
		return v.Governor
	}
	switch v.Kind() {
	case value.KRefd:
		return governorOfRefd(v.Ref())
	case value.KExpr:
		info := v.Op().Info()
		if info.Return == value.RetDominant || info.Return == value.RetSame {
			return GetExprGovernor(v.Operand(0))
		}
	}
	return nil
}

func governorOfRefd(ref *value.Reference) value.Type {
	if ref == nil || ref.Assignment == nil {
		return nil
	}
	return ref.Assignment.DeclaredType()
}

// RewritePlusToConcatIfStrings implements spec §4.D's "+ on two strings
// becomes concat" recovery path: the parser never disambiguates, so the
// Checker does it once, here, the first time an Add expression is
// checked, emitting a warning instead of a DomainType error.
func RewritePlusToConcatIfStrings(v *value.Value, sink *diag.Sink) {
	if v.Kind() != value.KExpr || v.Op() != value.OpAdd {
		return
	}
	op0, op1 := v.Operand(0), v.Operand(1)
	if op0 == nil || op1 == nil {
		return
	}
	if isStringKind(op0.Kind()) && isStringKind(op1.Kind()) {
		v.RewriteOp(value.OpConcat)
		if sink != nil {
			sink.Warn(&diag.Warning{Message: "operator '+' used on string operands, did you mean '&'?", Location: v.Loc})
		}
	}
}
