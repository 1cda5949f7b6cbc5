package value

import "math"

// Equal implements the structural equality of spec §4.C: SetOf/Set
// compare as multisets/field-sets rather than positionally, Cstr and
// Ustr compare through a common universal-character view so `"a" ==
// char(0,0,0,97)`-style cross-flavor comparisons hold, and NaN never
// equals itself (IEEE 754, carried through unchanged rather than
// "fixed" into a total order).
func (v *Value) Equal(other *Value) bool {
	if v == nil || other == nil {
		return v == other
	}
	if v.kind != other.kind {
		return v.crossFlavorEqual(other)
	}
	switch v.kind {
	case KNull, KOmit, KNotUsed, KTtcnNull, KDefaultNull, KFatNull:
		return true
	case KBool:
		return v.boolVal == other.boolVal
	case KInt:
		return v.intVal.Equal(other.intVal)
	case KReal:
		if math.IsNaN(v.realVal) || math.IsNaN(other.realVal) {
			return false
		}
		return v.realVal == other.realVal
	case KEnum:
		return v.enumID == other.enumID
	case KVerdict:
		return v.verdictVal == other.verdictVal
	case KBstr, KHstr, KOstr, KCstr, KIso2022str:
		return v.str.Equal(other.str)
	case KUstr:
		return v.ustr.Equal(other.ustr)
	case KChoice:
		return v.choiceAlt == other.choiceAlt && v.choiceVal.Equal(other.choiceVal)
	case KSeqOf, KArray:
		return equalOrdered(v.elems, other.elems)
	case KSetOf:
		return equalMultiset(v.elems, other.elems)
	case KSeq:
		return equalNamedOrdered(v.named, other.named)
	case KSet:
		return equalNamedUnordered(v.named, other.named)
	case KOid, KRoid:
		return equalOidComps(v.oidComps, other.oidComps)
	case KNamedBits:
		return equalNamedBits(v.namedBits, other.namedBits)
	case KCharSyms:
		return equalStrings(v.charSyms, other.charSyms)
	case KAnyValue, KAnyOrOmit:
		return true // wildcard templates compare equal to any instance of themselves
	default:
		// References, expressions and runtime-surface kinds are only
		// meaningfully compared after folding; the Folder resolves them
		// to one of the above before Equal is ever called on them.
		return v == other
	}
}

// crossFlavorEqual covers the one pair of kinds spec §4.C calls out as
// comparable despite differing Kind tags: Cstr against Ustr, via the
// universal-character view of the charstring (every Cstr octet maps to
// {0,0,0,octet}).
func (v *Value) crossFlavorEqual(other *Value) bool {
	cstr, ustr := v, other
	if cstr.kind != KCstr {
		cstr, ustr = ustr, cstr
	}
	if cstr.kind != KCstr || ustr.kind != KUstr {
		return false
	}
	if cstr.str.Len() != ustr.ustr.Len() {
		return false
	}
	for i, b := range cstr.str.Bytes() {
		q := ustr.ustr.Quads()[i]
		if q.Group != 0 || q.Plane != 0 || q.Row != 0 || q.Cell != b {
			return false
		}
	}
	return true
}

func equalOrdered(a, b []*Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// equalMultiset matches spec's SetOf semantics: element order carries
// no meaning, so equality is "every element of a has an unused match in
// b", not index-by-index comparison.
func equalMultiset(a, b []*Value) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
	for _, av := range a {
		found := false
		for j, bv := range b {
			if !used[j] && av.Equal(bv) {
				used[j] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func equalNamedOrdered(a, b []NamedValue) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name || !a[i].Value.Equal(b[i].Value) {
			return false
		}
	}
	return true
}

// equalNamedUnordered backs Set's component-wise comparison: field order
// is declaration order, not comparison-significant, so match by name.
func equalNamedUnordered(a, b []NamedValue) bool {
	if len(a) != len(b) {
		return false
	}
	bm := make(map[string]*Value, len(b))
	for _, nv := range b {
		bm[nv.Name] = nv.Value
	}
	for _, nv := range a {
		other, ok := bm[nv.Name]
		if !ok || !nv.Value.Equal(other) {
			return false
		}
	}
	return true
}

func equalOidComps(a, b []OidComp) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Number != b[i].Number {
			return false
		}
	}
	return true
}

func equalNamedBits(a, b map[string]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Ordering is a three-way comparison result for the relational
// operators, which spec restricts to Int/Real/Enum operands.
type Ordering int8

const (
	Less      Ordering = -1
	OrderEqual Ordering = 0
	Greater   Ordering = 1
	Unordered Ordering = 2 // NaN compared against anything
)

// Compare implements <, >, <=, >= for the three orderable kinds (spec
// §4.D: "relational operators beyond == / != admit only int, float and
// enum"). Callers are expected to have already rejected any other kind
// pairing during operand-domain checking.
func (v *Value) Compare(other *Value) Ordering {
	switch v.kind {
	case KInt:
		if other.kind != KInt {
			return Unordered
		}
		c := v.intVal.Cmp(other.intVal)
		switch {
		case c < 0:
			return Less
		case c > 0:
			return Greater
		default:
			return OrderEqual
		}
	case KReal:
		if other.kind != KReal {
			return Unordered
		}
		if math.IsNaN(v.realVal) || math.IsNaN(other.realVal) {
			return Unordered
		}
		switch {
		case v.realVal < other.realVal:
			return Less
		case v.realVal > other.realVal:
			return Greater
		default:
			return OrderEqual
		}
	case KEnum:
		if other.kind != KEnum {
			return Unordered
		}
		// Distinct literals order by their declared ordinals, looked up
		// through each operand's Governor; an operand without a Governor,
		// or a literal its Governor does not know, is Unordered.
		if v.enumID == other.enumID {
			return OrderEqual
		}
		if v.Governor == nil || other.Governor == nil {
			return Unordered
		}
		a, okA := v.Governor.Ordinal(v.enumID)
		b, okB := other.Governor.Ordinal(other.enumID)
		switch {
		case !okA || !okB:
			return Unordered
		case a < b:
			return Less
		case a > b:
			return Greater
		}
		return OrderEqual
	default:
		return Unordered
	}
}
