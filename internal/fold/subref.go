package fold

import (
	"valuefold/internal/diag"
	"valuefold/internal/value"
)

// GetRefdSubValue is spec §4.D's get_refd_sub_value: walk a chain of
// FieldRef/ArrayRef steps against a compound Value, returning the
// addressed component (or an Error value with a diagnostic already
// reported, on a bad step).
func (f *Folder) GetRefdSubValue(base *value.Value, subrefs []value.SubRef) *value.Value {
	cur := base
	for _, sr := range subrefs {
		if cur.IsError() {
			return cur
		}
		if sr.Field != "" {
			cur = f.fieldStep(cur, sr.Field)
		} else {
			cur = f.indexStep(cur, sr.Index)
		}
	}
	return cur
}

func (f *Folder) fieldStep(cur *value.Value, field string) *value.Value {
	switch cur.Kind() {
	case value.KChoice:
		if cur.ChoiceAlt() != field {
			return f.reportOnce(cur, diag.Unresolved, "choice alternative %q is not %q", field, cur.ChoiceAlt())
		}
		return cur.ChoiceVal()
	case value.KSeq, value.KSet:
		for _, nv := range cur.Named() {
			if nv.Name == field {
				return nv.Value
			}
		}
		if cur.Governor != nil {
			if def := cur.Governor.DefaultOf(field); def != nil {
				return def
			}
			if cur.Governor.HasField(field) {
				return value.NewOmit()
			}
		}
		return f.reportOnce(cur, diag.Unresolved, "no field named %q", field)
	default:
		return f.reportOnce(cur, diag.OperatorShape, "field reference %q on non-compound kind %s", field, cur.Kind())
	}
}

func (f *Folder) indexStep(cur *value.Value, idx *value.Value) *value.Value {
	if idx == nil || idx.Kind() != value.KInt {
		return f.reportOnce(cur, diag.OperatorShape, "array index is not an integer")
	}
	i := mustSmallInt(idx)
	switch cur.Kind() {
	case value.KSeqOf, value.KSetOf:
		elems := cur.Elems()
		if i < 0 || i >= len(elems) {
			return f.reportOnce(cur, diag.IndexOutOfBounds, "index %d out of bounds for %s of length %d", i, cur.Kind(), len(elems))
		}
		return elems[i]
	case value.KArray:
		elems := cur.Elems()
		dim := len(elems)
		if cur.Governor != nil && cur.Governor.ArrayDim() >= 0 {
			dim = cur.Governor.ArrayDim()
		}
		if i < 0 || i >= dim || i >= len(elems) {
			return f.reportOnce(cur, diag.IndexOutOfBounds, "index %d out of bounds for array of declared dimension %d", i, dim)
		}
		return elems[i]
	case value.KBstr, value.KHstr, value.KOstr, value.KCstr, value.KIso2022str:
		return newSameFlavor(cur.Kind(), cur.Str().At(i, cur.Loc, f.Sink))
	case value.KUstr:
		return value.NewUstr(cur.Ustr().At(i, cur.Loc, f.Sink), false)
	default:
		return f.reportOnce(cur, diag.OperatorShape, "array reference on non-indexable kind %s", cur.Kind())
	}
}
