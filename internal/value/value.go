package value

import (
	"valuefold/internal/bigint"
	"valuefold/internal/diag"
	"valuefold/internal/strval"
)

// Type is the minimal governor contract Value needs from the Type
// system (spec §6: "external interfaces... black boxes"). A concrete
// implementation lives in internal/symtab.
type Type interface {
	Kind() TypeKind
	// FieldType returns the declared type of a record/set/union field,
	// or nil if name doesn't name a field.
	FieldType(name string) Type
	HasField(name string) bool
	// Ordinal returns the declared ordinal of an enum identifier.
	Ordinal(enumID string) (int, bool)
	// ElemType is the component type of a seqof/setof/array.
	ElemType() Type
	// ArrayDim is the declared dimension of an Array type (-1 if n/a).
	ArrayDim() int
	// DefaultOf returns the component default Value for a record/set
	// field, or nil if it has none.
	DefaultOf(name string) *Value
}

// TypeKind is the minimal type-family classification the Folder's
// operand-domain checks (spec §4.D) need.
type TypeKind uint8

const (
	TkUnknown TypeKind = iota
	TkBool
	TkInt
	TkFloat
	TkEnum
	TkBitstring
	TkHexstring
	TkOctetstring
	TkCharstring
	TkUniversalCharstring
	TkRecord
	TkSet
	TkChoice
	TkSeqOf
	TkSetOf
	TkArray
	TkOid
	TkRoid
	TkVerdict
)

// Assignment is the minimal contract Folder needs from module/scope
// name resolution (spec §6: get_refd_assignment's result).
type Assignment interface {
	FullName() string
	Kind() AssignKind
	DeclaredType() Type
	// ConstValue is non-nil only for AssignConst / AssignASN1ConstLike.
	ConstValue() *Value
	// ModuleID names the owning module, so diagnostics can disambiguate
	// two modules that happen to declare the same full name.
	ModuleID() string
}

type AssignKind uint8

const (
	AssignConst AssignKind = iota
	AssignASN1ConstLike
	AssignVar
	AssignParam
	AssignFunction
	AssignAltstep
	AssignTestcase
	AssignTimer
	AssignComponent
)

// SubRef is one step of a sub-reference chain: a field name or an
// array/seqof/setof index expressed as a Value (spec §4.D
// get_refd_sub_value).
type SubRef struct {
	Field string // "" if this is an array/index ref
	Index *Value
}

// Reference names a definition plus an optional sub-reference chain
// (spec §3: "Refd/Refer/Invoke own their Reference objects").
type Reference struct {
	Name       string
	Assignment Assignment // resolved lazily; nil until bound
	SubRefs    []SubRef
}

// NamedValue is one component of a Seq/Set value.
type NamedValue struct {
	Name  string
	Value *Value
}

// OidComp is one component of an object identifier.
type OidComp struct {
	Number int
	Name   string // optional symbolic name, e.g. "itu-t"
}

// LengthRestriction optionally bounds an AnyValue/AnyOrOmit template.
type LengthRestriction struct {
	Min int
	Max int // -1 if unbounded
}

// Value is the tagged union of spec §3. Every Value carries the common
// header fields; which of the kind-specific fields are live is decided
// entirely by Kind, exactly as the Expr operator table decides which of
// v1..b4 are live for a given operator (spec §9).
type Value struct {
	kind Kind

	Governor Type
	Scope    ScopeRef
	Loc      diag.Location
	IsChecked bool
	NeedsConversion bool

	// Atoms
	boolVal    bool
	intVal     bigint.Int
	realVal    float64
	enumID     string
	verdictVal Verdict

	// Strings
	str           strval.ByteString // Bstr/Hstr/Ostr/Cstr/Iso2022str
	ustr          strval.UString
	ustrFromCstr  bool

	// Compound
	choiceAlt  string
	choiceVal  *Value
	elems      []*Value    // SeqOf/SetOf/Array
	named      []NamedValue // Seq/Set
	oidComps   []OidComp    // Oid/Roid
	namedBits  map[string]bool
	charSyms   []string

	// References & expressions
	ref         *Reference // Refd/Refer
	cachedLast  *Value     // Refd's resolved-and-folded target
	op          Operator
	operands    []*Value
	exprState   ExprState
	macroKind   MacroKind
	invokeCallee *Value
	invokeArgs   []*Value
	assignmentID string // Function/Altstep/Testcase
	lengthRestr  *LengthRestriction
	blockToken   any // opaque parser re-entry token for UndefBlock

	// Error
	errKind diag.Kind
}

// ScopeRef is the minimal contract Value needs from Scope (spec §6).
type ScopeRef interface {
	ModuleName() string
	HasAssignment(name string) bool
}

func (v *Value) Kind() Kind { return v.kind }

func New(kind Kind) *Value { return &Value{kind: kind} }

func NewNull() *Value    { return New(KNull) }
func NewOmit() *Value    { return New(KOmit) }
func NewNotUsed() *Value { return New(KNotUsed) }
func NewTtcnNull() *Value { return New(KTtcnNull) }

func NewBool(b bool) *Value {
	v := New(KBool)
	v.boolVal = b
	return v
}
func (v *Value) BoolVal() bool { return v.boolVal }

func NewInt(i bigint.Int) *Value {
	v := New(KInt)
	v.intVal = i
	return v
}
func (v *Value) IntVal() bigint.Int { return v.intVal }

func NewReal(f float64) *Value {
	v := New(KReal)
	v.realVal = f
	return v
}
func (v *Value) RealVal() float64 { return v.realVal }

// NewEnum requires a non-empty identifier (spec: "Any shape violation
// is a fatal error in the checker").
func NewEnum(id string) *Value {
	if id == "" {
		diag.Fatalf("value: NewEnum: empty identifier")
	}
	v := New(KEnum)
	v.enumID = id
	return v
}
func (v *Value) EnumID() string { return v.enumID }

func NewVerdict(vd Verdict) *Value {
	v := New(KVerdict)
	v.verdictVal = vd
	return v
}
func (v *Value) VerdictVal() Verdict { return v.verdictVal }

func newStrValue(k Kind, s strval.ByteString) *Value {
	v := New(k)
	v.str = s
	return v
}

func NewBstr(s strval.ByteString) *Value       { return newStrValue(KBstr, s) }
func NewHstr(s strval.ByteString) *Value       { return newStrValue(KHstr, s) }
func NewOstr(s strval.ByteString) *Value       { return newStrValue(KOstr, s) }
func NewCstr(s strval.ByteString) *Value       { return newStrValue(KCstr, s) }
func NewIso2022str(s strval.ByteString) *Value { return newStrValue(KIso2022str, s) }

func (v *Value) Str() strval.ByteString { return v.str }

func NewUstr(u strval.UString, fromCstr bool) *Value {
	v := New(KUstr)
	v.ustr = u
	v.ustrFromCstr = fromCstr
	return v
}
func (v *Value) Ustr() strval.UString   { return v.ustr }
func (v *Value) UstrFromCstr() bool     { return v.ustrFromCstr }

// NewChoice requires a non-null identifier and a non-null value (spec
// §4.C).
func NewChoice(alt string, val *Value) *Value {
	if alt == "" || val == nil {
		diag.Fatalf("value: NewChoice: alt name and value are both required")
	}
	v := New(KChoice)
	v.choiceAlt = alt
	v.choiceVal = val
	return v
}
func (v *Value) ChoiceAlt() string  { return v.choiceAlt }
func (v *Value) ChoiceVal() *Value  { return v.choiceVal }

func newElems(k Kind, elems []*Value) *Value {
	v := New(k)
	v.elems = elems
	return v
}

func NewSeqOf(elems []*Value) *Value { return newElems(KSeqOf, elems) }
func NewSetOf(elems []*Value) *Value { return newElems(KSetOf, elems) }
func NewArray(elems []*Value) *Value { return newElems(KArray, elems) }
func (v *Value) Elems() []*Value     { return v.elems }

func newNamed(k Kind, named []NamedValue) *Value {
	v := New(k)
	v.named = named
	return v
}

func NewSeq(named []NamedValue) *Value { return newNamed(KSeq, named) }
func NewSet(named []NamedValue) *Value { return newNamed(KSet, named) }
func (v *Value) Named() []NamedValue   { return v.named }

func NewOid(comps []OidComp) *Value  { v := New(KOid); v.oidComps = comps; return v }
func NewRoid(comps []OidComp) *Value { v := New(KRoid); v.oidComps = comps; return v }
func (v *Value) OidComps() []OidComp { return v.oidComps }

func NewNamedBits(bits map[string]bool) *Value {
	v := New(KNamedBits)
	v.namedBits = bits
	return v
}
func (v *Value) NamedBits() map[string]bool { return v.namedBits }

func NewCharSyms(syms []string) *Value {
	v := New(KCharSyms)
	v.charSyms = syms
	return v
}
func (v *Value) CharSyms() []string { return v.charSyms }

func NewRefd(ref *Reference) *Value {
	v := New(KRefd)
	v.ref = ref
	return v
}
func NewRefer(ref *Reference) *Value {
	v := New(KRefer)
	v.ref = ref
	return v
}
func (v *Value) Ref() *Reference       { return v.ref }
func (v *Value) CachedLast() *Value    { return v.cachedLast }
func (v *Value) SetCachedLast(t *Value) { v.cachedLast = t }

func NewExpr(op Operator, operands ...*Value) *Value {
	v := New(KExpr)
	v.op = op
	v.operands = operands
	v.exprState = NotChecked
	return v
}
func (v *Value) Op() Operator           { return v.op }
func (v *Value) Operands() []*Value     { return v.operands }
func (v *Value) Operand(i int) *Value {
	if i < 0 || i >= len(v.operands) {
		return nil
	}
	return v.operands[i]
}
func (v *Value) ExprState() ExprState      { return v.exprState }
func (v *Value) SetExprState(s ExprState)  { v.exprState = s }

// RewriteOp is the controlled "+ on strings becomes concat" recovery
// path of spec §4.D: it rewrites the operator in place without
// disturbing operand identity.
func (v *Value) RewriteOp(op Operator) {
	if v.kind != KExpr {
		diag.Fatalf("value: RewriteOp on non-Expr kind %s", v.kind)
	}
	v.op = op
}

type MacroKind uint8

const (
	MacroFileName MacroKind = iota
	MacroLineNumber
	MacroModuleId
	MacroDefinitionId
	MacroScope
	MacroTestcaseId
)

func NewMacro(k MacroKind) *Value {
	v := New(KMacro)
	v.macroKind = k
	return v
}
func (v *Value) MacroKind() MacroKind { return v.macroKind }

func NewInvoke(callee *Value, args []*Value) *Value {
	v := New(KInvoke)
	v.invokeCallee = callee
	v.invokeArgs = args
	return v
}
func (v *Value) InvokeCallee() *Value  { return v.invokeCallee }
func (v *Value) InvokeArgs() []*Value  { return v.invokeArgs }

func newAssignmentRefValue(k Kind, id string) *Value {
	v := New(k)
	v.assignmentID = id
	return v
}
func NewFunctionRef(id string) *Value { return newAssignmentRefValue(KFunction, id) }
func NewAltstepRef(id string) *Value  { return newAssignmentRefValue(KAltstep, id) }
func NewTestcaseRef(id string) *Value { return newAssignmentRefValue(KTestcase, id) }
func (v *Value) AssignmentID() string { return v.assignmentID }

func NewAnyValue(lr *LengthRestriction) *Value {
	v := New(KAnyValue)
	v.lengthRestr = lr
	return v
}
func NewAnyOrOmit(lr *LengthRestriction) *Value {
	v := New(KAnyOrOmit)
	v.lengthRestr = lr
	return v
}
func (v *Value) LengthRestriction() *LengthRestriction { return v.lengthRestr }

func NewDefaultNull() *Value { return New(KDefaultNull) }
func NewFatNull() *Value     { return New(KFatNull) }

func NewUndefLowerId(id string) *Value {
	v := New(KUndefLowerId)
	v.enumID = id // reuse the identifier slot; no separate field needed
	return v
}
func (v *Value) UndefLowerIdName() string { return v.enumID }

// UndefBlock carries an opaque re-entry token for the out-of-scope
// parser to re-parse once set_valuetype picks its final shape (spec
// §4.C). The core treats it as opaque data.
func NewUndefBlock(token any) *Value {
	v := New(KUndefBlock)
	v.invokeCallee = nil
	v.blockToken = token
	return v
}

func NewErrorValue(kind diag.Kind) *Value {
	v := New(KError)
	v.errKind = kind
	return v
}
func (v *Value) ErrorKind() diag.Kind { return v.errKind }

func (v *Value) IsError() bool { return v.kind == KError }

func (v *Value) BlockToken() any { return v.blockToken }

// validTransitions is the closed set of permitted set_valuetype shape
// changes (spec §4.C). Note there is no separate NamedInt kind here
// (see kind.go): an UndefLowerId naming an ASN.1 named number resolves
// straight to KInt rather than through an intermediate tag.
var validTransitions = map[Kind]map[Kind]bool{
	KUndefLowerId: {KEnum: true, KInt: true, KRefd: true},
	KUndefBlock: {
		KNamedBits: true, KSeqOf: true, KSetOf: true, KSeq: true,
		KSet: true, KOid: true, KRoid: true, KCharSyms: true,
	},
	KCharSyms:    {KCstr: true, KUstr: true, KIso2022str: true},
	KInt:         {KReal: true},
	KHstr:        {KBstr: true, KOstr: true},
	KBstr:        {KOstr: true},
	KCstr:        {KUstr: true, KIso2022str: true},
	KUstr:        {KCstr: true},
	KSeqOf:       {KSeq: true, KSet: true, KSetOf: true, KArray: true},
	KSeq:         {KChoice: true, KSet: true, KReal: true},
	KTtcnNull:    {KDefaultNull: true, KFatNull: true},
}

func (v *Value) transitionAllowed(newKind Kind) bool {
	return validTransitions[v.kind][newKind]
}

// SetValuetype is the controlled shape mutation spec §4.C calls one of
// Value's key operations: a bare kind change, the caller filling the
// new payload afterward through this package's normal setters, or a
// kind change paired with a fully-built replacement Value, in which
// case it delegates to CopyAndDestroy so the replacement's payload is
// adopted atomically. A transition outside the closed permitted set is
// a programming error, not a runtime error of the compiled program, so
// it panics via diag.Fatalf rather than reporting a diagnostic.
func (v *Value) SetValuetype(newKind Kind, replacement ...*Value) {
	if len(replacement) > 1 {
		diag.Fatalf("value: SetValuetype: at most one replacement value")
	}
	if v.kind != newKind && !v.transitionAllowed(newKind) {
		diag.Fatalf("value: illegal set_valuetype transition %s -> %s", v.kind, newKind)
	}
	if len(replacement) == 1 && replacement[0] != nil {
		v.CopyAndDestroy(replacement[0])
		v.kind = newKind
		return
	}
	v.clearPayload()
	v.kind = newKind
}

// clearPayload tears down every kind-specific field when set_valuetype
// switches the live kind without a replacement payload. Header fields
// (Governor, Scope, Loc, IsChecked, NeedsConversion) survive.
func (v *Value) clearPayload() {
	v.boolVal = false
	v.intVal = bigint.Int{}
	v.realVal = 0
	v.enumID = ""
	v.verdictVal = 0
	v.str = strval.ByteString{}
	v.ustr = strval.UString{}
	v.ustrFromCstr = false
	v.choiceAlt = ""
	v.choiceVal = nil
	v.elems = nil
	v.named = nil
	v.oidComps = nil
	v.namedBits = nil
	v.charSyms = nil
	v.ref = nil
	v.cachedLast = nil
	v.op = 0
	v.operands = nil
	v.exprState = NotChecked
	v.macroKind = 0
	v.invokeCallee = nil
	v.invokeArgs = nil
	v.assignmentID = ""
	v.lengthRestr = nil
	v.blockToken = nil
	v.errKind = ""
}

// CopyAndDestroy steals other's representation in place, preserving
// this Value's identity for anyone already holding a pointer to it
// (spec §3 Lifecycle: "copy_and_destroy replaces a Value's contents
// while keeping its address stable"). This Value's own Governor/Scope/
// Loc survive the swap unless other already carries a Governor; other
// is left as a zero Value, standing in for the original design's
// explicit destructor now that the Go garbage collector owns it.
func (v *Value) CopyAndDestroy(other *Value) {
	if other == nil || other == v {
		return
	}
	gov, scope, loc := v.Governor, v.Scope, v.Loc
	*v = *other
	if v.Governor == nil {
		v.Governor = gov
	}
	v.Scope = scope
	v.Loc = loc
	*other = Value{}
}
