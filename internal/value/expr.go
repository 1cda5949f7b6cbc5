package value

// Operator enumerates the V_EXPR operator kinds of spec §3/§4.C. The
// original's per-operator struct fields collapse into the uniform
// Operands() slice (spec §9: "do not nest per-operator structs"); this
// table is the single place that says what each operator returns, what
// domain its operands must lie in, and whether it can ever fold. The
// Checker, the foldability predicate and the evaluator all read the
// same table instead of each keeping their own copy of "which operators
// are arithmetic".
type Operator uint16

const (
	OpAdd Operator = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpRem
	OpUnaryPlus
	OpUnaryMinus
	OpNot

	OpNot4b
	OpAnd4b
	OpOr4b
	OpXor4b
	OpShl
	OpShr

	OpEq
	OpNe
	OpLt
	OpGt
	OpLe
	OpGe

	OpAnd
	OpOr
	OpXor

	OpConcat

	OpRotateLeft
	OpRotateRight

	OpBit2Int
	OpBit2Hex
	OpBit2Oct
	OpHex2Bit
	OpHex2Int
	OpHex2Oct
	OpOct2Bit
	OpOct2Hex
	OpOct2Int
	OpOct2Char
	OpChar2Int
	OpChar2Oct
	OpUnichar2Int
	OpInt2Bit
	OpInt2Hex
	OpInt2Oct
	OpInt2Char
	OpInt2Unichar
	OpInt2Float
	OpFloat2Int
	OpStr2Int
	OpStr2Float
	OpInt2Str
	OpFloat2Str
	OpStr2Oct
	OpOct2Str
	OpEnum2Int
	OpInt2Enum

	OpSubstr
	OpReplace
	OpRegexp
	OpLengthof
	OpSizeof

	OpIsvalue
	OpIsbound
	OpIspresent
	OpIschosen
	OpIstemplatekind

	// Runtime surface — unfoldable (spec §4.D), except get_stringencoding
	// and remove_bom, which fold when their operand folds.
	OpRnd
	OpRndSeed
	OpMtc
	OpSystem
	OpSelf
	OpCompRunning
	OpCompAlive
	OpCompAny
	OpCompAll
	OpTimerRead
	OpTimerRunning
	OpCreate
	OpActivate
	OpExecute
	OpMatch
	OpGetverdict
	OpTestcasename
	OpHostid
	OpEncvalue
	OpDecvalue
	OpEncvalueUnichar
	OpDecvalueUnichar
	OpTtcn2string
	OpLog2str
	OpAny2unistr
	OpApply
	OpEncodeBase64
	OpDecodeBase64
	OpGetStringencoding
	OpRemoveBom
	OpProfilerRunning

	opCount
)

// ReturnFamily is the return-type classification get_expr_returntype
// produces without fully resolving a governor Type.
type ReturnFamily uint8

const (
	RetDominant ReturnFamily = iota // follows the dominant operand (polymorphic ops)
	RetBool
	RetInt
	RetFloat
	RetBitstring
	RetHexstring
	RetOctetstring
	RetCharstring
	RetUniversalCharstring
	RetSame    // same as first operand's governor
	RetVerdict
	RetAny     // runtime-surface, governor-dependent or opaque
)

// OperandDomain is one entry of the chk_expr_operandtype_* family.
type OperandDomain uint8

const (
	DomAny OperandDomain = iota
	DomBool
	DomInt
	DomFloat
	DomIntOrFloat
	DomIntFloatEnum
	DomCharstring
	DomUniversalCharstring
	DomAnyString
	DomBitstring
	DomHexstring
	DomOctetstring
	DomBinstring // bit|hex|oct
	DomListType
	DomEnumerated
)

// FoldClass says how is_unfoldable treats this operator.
type FoldClass uint8

const (
	FoldIfAllOperandsFold FoldClass = iota // plain arithmetic/conversion/etc
	FoldShortCircuit                       // and/or: v1 always, v2 only if needed
	FoldNever                              // runtime surface, always unfoldable
)

// OpInfo is one row of the operator classification table.
type OpInfo struct {
	Name      string
	Return    ReturnFamily
	Operands  []OperandDomain
	Fold      FoldClass
}

var opTable = map[Operator]OpInfo{
	OpAdd:        {"+", RetDominant, []OperandDomain{DomIntOrFloat, DomIntOrFloat}, FoldIfAllOperandsFold},
	OpSub:        {"-", RetDominant, []OperandDomain{DomIntOrFloat, DomIntOrFloat}, FoldIfAllOperandsFold},
	OpMul:        {"*", RetDominant, []OperandDomain{DomIntOrFloat, DomIntOrFloat}, FoldIfAllOperandsFold},
	OpDiv:        {"/", RetDominant, []OperandDomain{DomIntOrFloat, DomIntOrFloat}, FoldIfAllOperandsFold},
	OpMod:        {"mod", RetInt, []OperandDomain{DomInt, DomInt}, FoldIfAllOperandsFold},
	OpRem:        {"rem", RetInt, []OperandDomain{DomInt, DomInt}, FoldIfAllOperandsFold},
	OpUnaryPlus:  {"+", RetDominant, []OperandDomain{DomIntOrFloat}, FoldIfAllOperandsFold},
	OpUnaryMinus: {"-", RetDominant, []OperandDomain{DomIntOrFloat}, FoldIfAllOperandsFold},
	OpNot:        {"not", RetBool, []OperandDomain{DomBool}, FoldIfAllOperandsFold},

	OpNot4b: {"not4b", RetSame, []OperandDomain{DomBinstring}, FoldIfAllOperandsFold},
	OpAnd4b: {"and4b", RetSame, []OperandDomain{DomBinstring, DomBinstring}, FoldIfAllOperandsFold},
	OpOr4b:  {"or4b", RetSame, []OperandDomain{DomBinstring, DomBinstring}, FoldIfAllOperandsFold},
	OpXor4b: {"xor4b", RetSame, []OperandDomain{DomBinstring, DomBinstring}, FoldIfAllOperandsFold},
	OpShl:   {"shl", RetSame, []OperandDomain{DomBinstring, DomInt}, FoldIfAllOperandsFold},
	OpShr:   {"shr", RetSame, []OperandDomain{DomBinstring, DomInt}, FoldIfAllOperandsFold},

	OpEq: {"==", RetBool, []OperandDomain{DomAny, DomAny}, FoldIfAllOperandsFold},
	OpNe: {"!=", RetBool, []OperandDomain{DomAny, DomAny}, FoldIfAllOperandsFold},
	OpLt: {"<", RetBool, []OperandDomain{DomIntFloatEnum, DomIntFloatEnum}, FoldIfAllOperandsFold},
	OpGt: {">", RetBool, []OperandDomain{DomIntFloatEnum, DomIntFloatEnum}, FoldIfAllOperandsFold},
	OpLe: {"<=", RetBool, []OperandDomain{DomIntFloatEnum, DomIntFloatEnum}, FoldIfAllOperandsFold},
	OpGe: {">=", RetBool, []OperandDomain{DomIntFloatEnum, DomIntFloatEnum}, FoldIfAllOperandsFold},

	OpAnd: {"and", RetBool, []OperandDomain{DomBool, DomBool}, FoldShortCircuit},
	OpOr:  {"or", RetBool, []OperandDomain{DomBool, DomBool}, FoldShortCircuit},
	OpXor: {"xor", RetBool, []OperandDomain{DomBool, DomBool}, FoldIfAllOperandsFold},

	OpConcat: {"&", RetDominant, []OperandDomain{DomAnyString, DomAnyString}, FoldIfAllOperandsFold},

	OpRotateLeft:  {"<@", RetSame, []OperandDomain{DomBinstring, DomInt}, FoldIfAllOperandsFold},
	OpRotateRight: {"@>", RetSame, []OperandDomain{DomBinstring, DomInt}, FoldIfAllOperandsFold},

	OpBit2Int:     {"bit2int", RetInt, []OperandDomain{DomBitstring}, FoldIfAllOperandsFold},
	OpBit2Hex:     {"bit2hex", RetHexstring, []OperandDomain{DomBitstring}, FoldIfAllOperandsFold},
	OpBit2Oct:     {"bit2oct", RetOctetstring, []OperandDomain{DomBitstring}, FoldIfAllOperandsFold},
	OpHex2Bit:     {"hex2bit", RetBitstring, []OperandDomain{DomHexstring}, FoldIfAllOperandsFold},
	OpHex2Int:     {"hex2int", RetInt, []OperandDomain{DomHexstring}, FoldIfAllOperandsFold},
	OpHex2Oct:     {"hex2oct", RetOctetstring, []OperandDomain{DomHexstring}, FoldIfAllOperandsFold},
	OpOct2Bit:     {"oct2bit", RetBitstring, []OperandDomain{DomOctetstring}, FoldIfAllOperandsFold},
	OpOct2Hex:     {"oct2hex", RetHexstring, []OperandDomain{DomOctetstring}, FoldIfAllOperandsFold},
	OpOct2Int:     {"oct2int", RetInt, []OperandDomain{DomOctetstring}, FoldIfAllOperandsFold},
	OpOct2Char:    {"oct2char", RetCharstring, []OperandDomain{DomOctetstring}, FoldIfAllOperandsFold},
	OpChar2Int:    {"char2int", RetInt, []OperandDomain{DomCharstring}, FoldIfAllOperandsFold},
	OpChar2Oct:    {"char2oct", RetOctetstring, []OperandDomain{DomCharstring}, FoldIfAllOperandsFold},
	OpUnichar2Int: {"unichar2int", RetInt, []OperandDomain{DomUniversalCharstring}, FoldIfAllOperandsFold},
	OpInt2Bit:     {"int2bit", RetBitstring, []OperandDomain{DomInt, DomInt}, FoldIfAllOperandsFold},
	OpInt2Hex:     {"int2hex", RetHexstring, []OperandDomain{DomInt, DomInt}, FoldIfAllOperandsFold},
	OpInt2Oct:     {"int2oct", RetOctetstring, []OperandDomain{DomInt, DomInt}, FoldIfAllOperandsFold},
	OpInt2Char:    {"int2char", RetCharstring, []OperandDomain{DomInt}, FoldIfAllOperandsFold},
	OpInt2Unichar: {"int2unichar", RetUniversalCharstring, []OperandDomain{DomInt}, FoldIfAllOperandsFold},
	OpInt2Float:   {"int2float", RetFloat, []OperandDomain{DomInt}, FoldIfAllOperandsFold},
	OpFloat2Int:   {"float2int", RetInt, []OperandDomain{DomFloat}, FoldIfAllOperandsFold},
	OpStr2Int:     {"str2int", RetInt, []OperandDomain{DomCharstring}, FoldIfAllOperandsFold},
	OpStr2Float:   {"str2float", RetFloat, []OperandDomain{DomCharstring}, FoldIfAllOperandsFold},
	OpInt2Str:     {"int2str", RetCharstring, []OperandDomain{DomInt}, FoldIfAllOperandsFold},
	OpFloat2Str:   {"float2str", RetCharstring, []OperandDomain{DomFloat}, FoldIfAllOperandsFold},
	OpStr2Oct:     {"str2oct", RetOctetstring, []OperandDomain{DomCharstring}, FoldIfAllOperandsFold},
	OpOct2Str:     {"oct2str", RetCharstring, []OperandDomain{DomOctetstring}, FoldIfAllOperandsFold},
	OpEnum2Int:    {"enum2int", RetInt, []OperandDomain{DomEnumerated}, FoldIfAllOperandsFold},
	OpInt2Enum:    {"int2enum", RetInt, []OperandDomain{DomInt}, FoldIfAllOperandsFold},

	OpSubstr:  {"substr", RetDominant, []OperandDomain{DomAnyString, DomInt, DomInt}, FoldIfAllOperandsFold},
	OpReplace: {"replace", RetDominant, []OperandDomain{DomAnyString, DomInt, DomInt, DomAnyString}, FoldIfAllOperandsFold},
	OpRegexp:  {"regexp", RetCharstring, []OperandDomain{DomAnyString, DomAnyString, DomInt, DomBool}, FoldIfAllOperandsFold},
	OpLengthof: {"lengthof", RetInt, []OperandDomain{DomAny}, FoldIfAllOperandsFold},
	OpSizeof:   {"sizeof", RetInt, []OperandDomain{DomAny}, FoldIfAllOperandsFold},

	OpIsvalue:        {"isvalue", RetBool, []OperandDomain{DomAny}, FoldIfAllOperandsFold},
	OpIsbound:        {"isbound", RetBool, []OperandDomain{DomAny}, FoldIfAllOperandsFold},
	OpIspresent:      {"ispresent", RetBool, []OperandDomain{DomAny}, FoldIfAllOperandsFold},
	OpIschosen:       {"ischosen", RetBool, []OperandDomain{DomAny}, FoldIfAllOperandsFold},
	OpIstemplatekind: {"istemplatekind", RetBool, []OperandDomain{DomAny, DomCharstring}, FoldIfAllOperandsFold},

	OpRnd:                {"rnd", RetFloat, nil, FoldNever},
	OpRndSeed:             {"rnd", RetFloat, []OperandDomain{DomFloat}, FoldNever},
	OpMtc:                 {"mtc", RetAny, nil, FoldNever},
	OpSystem:              {"system", RetAny, nil, FoldNever},
	OpSelf:                {"self", RetAny, nil, FoldNever},
	OpCompRunning:         {"running", RetBool, nil, FoldNever},
	OpCompAlive:           {"alive", RetBool, nil, FoldNever},
	OpCompAny:             {"any", RetAny, nil, FoldNever},
	OpCompAll:             {"all", RetAny, nil, FoldNever},
	OpTimerRead:           {"read", RetFloat, nil, FoldNever},
	OpTimerRunning:        {"running", RetBool, nil, FoldNever},
	OpCreate:              {"create", RetAny, nil, FoldNever},
	OpActivate:            {"activate", RetAny, nil, FoldNever},
	OpExecute:             {"execute", RetAny, nil, FoldNever},
	OpMatch:               {"match", RetBool, nil, FoldNever},
	OpGetverdict:          {"getverdict", RetVerdict, nil, FoldNever},
	OpTestcasename:        {"testcasename", RetCharstring, nil, FoldNever},
	OpHostid:              {"hostid", RetCharstring, nil, FoldNever},
	OpEncvalue:            {"encvalue", RetOctetstring, nil, FoldNever},
	OpDecvalue:            {"decvalue", RetInt, nil, FoldNever},
	OpEncvalueUnichar:     {"encvalue_unichar", RetUniversalCharstring, nil, FoldNever},
	OpDecvalueUnichar:     {"decvalue_unichar", RetInt, nil, FoldNever},
	OpTtcn2string:         {"ttcn2string", RetCharstring, nil, FoldNever},
	OpLog2str:             {"log2str", RetCharstring, nil, FoldNever},
	OpAny2unistr:          {"any2unistr", RetUniversalCharstring, nil, FoldNever},
	OpApply:               {"apply", RetAny, nil, FoldNever},
	OpEncodeBase64:        {"encode_base64", RetCharstring, []OperandDomain{DomOctetstring}, FoldNever},
	OpDecodeBase64:        {"decode_base64", RetOctetstring, []OperandDomain{DomCharstring}, FoldNever},
	OpGetStringencoding:   {"get_stringencoding", RetCharstring, []OperandDomain{DomOctetstring}, FoldIfAllOperandsFold},
	OpRemoveBom:           {"remove_bom", RetOctetstring, []OperandDomain{DomOctetstring}, FoldIfAllOperandsFold},
	OpProfilerRunning:     {"@profiler.running", RetBool, nil, FoldNever},
}

// Info looks up an operator's classification row. Every Operator
// constant up to opCount has an entry; for a missing entry Info returns
// a placeholder row named "?" (RetAny, FoldNever), which
// TestOperatorTableCoverage flags.
func (op Operator) Info() OpInfo {
	info, ok := opTable[op]
	if !ok {
		return OpInfo{Name: "?", Return: RetAny, Fold: FoldNever}
	}
	return info
}

func (op Operator) String() string { return op.Info().Name }
