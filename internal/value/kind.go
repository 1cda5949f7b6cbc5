// Package value implements component C of the value core: the tagged
// sum over the ~30 value kinds, the V_EXPR operator algebra, ownership
// of children, and the controlled set_valuetype mutation the Folder
// drives (spec §3, §4.C).
package value

// Kind tags the live representation of a Value. The original design's
// deep class hierarchy (Governed <- GovernedSimple <- Value) collapses
// into this flat enum plus a uniform set of fields, read by constructor,
// copy, destructor and folder alike (spec §9).
type Kind uint8

const (
	KUndefLowerId Kind = iota // transient, parser-emitted
	KUndefBlock               // transient, parser-emitted

	// Atoms
	KNull
	KBool
	KInt
	KReal
	KEnum
	KVerdict
	KOmit
	KNotUsed
	KTtcnNull
	KDefaultNull
	KFatNull

	// Strings
	KBstr
	KHstr
	KOstr
	KCstr
	KIso2022str
	KUstr

	// Compound
	KChoice
	KSeqOf
	KSetOf
	KArray
	KSeq
	KSet
	KOid
	KRoid
	KNamedBits
	KCharSyms

	// References & expressions
	KRefd
	KRefer
	KExpr
	KMacro
	KInvoke
	KFunction
	KAltstep
	KTestcase
	KAnyValue
	KAnyOrOmit

	// Absorbing error state
	KError
)

func (k Kind) String() string {
	switch k {
	case KUndefLowerId:
		return "UndefLowerId"
	case KUndefBlock:
		return "UndefBlock"
	case KNull:
		return "Null"
	case KBool:
		return "Bool"
	case KInt:
		return "Int"
	case KReal:
		return "Real"
	case KEnum:
		return "Enum"
	case KVerdict:
		return "Verdict"
	case KOmit:
		return "Omit"
	case KNotUsed:
		return "NotUsed"
	case KTtcnNull:
		return "TtcnNull"
	case KDefaultNull:
		return "DefaultNull"
	case KFatNull:
		return "FatNull"
	case KBstr:
		return "Bstr"
	case KHstr:
		return "Hstr"
	case KOstr:
		return "Ostr"
	case KCstr:
		return "Cstr"
	case KIso2022str:
		return "Iso2022str"
	case KUstr:
		return "Ustr"
	case KChoice:
		return "Choice"
	case KSeqOf:
		return "SeqOf"
	case KSetOf:
		return "SetOf"
	case KArray:
		return "Array"
	case KSeq:
		return "Seq"
	case KSet:
		return "Set"
	case KOid:
		return "Oid"
	case KRoid:
		return "Roid"
	case KNamedBits:
		return "NamedBits"
	case KCharSyms:
		return "CharSyms"
	case KRefd:
		return "Refd"
	case KRefer:
		return "Refer"
	case KExpr:
		return "Expr"
	case KMacro:
		return "Macro"
	case KInvoke:
		return "Invoke"
	case KFunction:
		return "Function"
	case KAltstep:
		return "Altstep"
	case KTestcase:
		return "Testcase"
	case KAnyValue:
		return "AnyValue"
	case KAnyOrOmit:
		return "AnyOrOmit"
	case KError:
		return "Error"
	}
	return "?"
}

// Verdict is one of the five reserved testing-outcome literals.
type Verdict uint8

const (
	VerdictNone Verdict = iota
	VerdictPass
	VerdictInconc
	VerdictFail
	VerdictError
)

func (v Verdict) String() string {
	switch v {
	case VerdictNone:
		return "none"
	case VerdictPass:
		return "pass"
	case VerdictInconc:
		return "inconc"
	case VerdictFail:
		return "fail"
	case VerdictError:
		return "error"
	}
	return "?"
}

// ExprState is the Checking -> CheckingErr -> Checked state machine of
// spec §4.C guarding re-entrant folding of a cyclic expression.
type ExprState uint8

const (
	NotChecked ExprState = iota
	Checking
	CheckingErr
	Checked
)
