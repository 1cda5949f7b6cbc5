package value

import (
	"fmt"
	"strconv"
	"strings"

	"valuefold/internal/strval"
)

// StringRepr renders the canonical diagnostic text for a Value (spec
// §4.C get_stringRepr), the same text the Folder quotes back in error
// messages and the CLI prints for a folded constant. It is not a parser
// round-trip format for every kind — compound/reference/runtime kinds
// get a best-effort shape description instead of a reparsable literal.
func (v *Value) StringRepr() string {
	switch v.kind {
	case KNull:
		return "NULL"
	case KOmit:
		return "omit"
	case KNotUsed:
		return "-"
	case KTtcnNull:
		return "null"
	case KDefaultNull, KFatNull:
		return "null"
	case KBool:
		if v.boolVal {
			return "true"
		}
		return "false"
	case KInt:
		return v.intVal.String()
	case KReal:
		return reprFloat(v.realVal)
	case KEnum:
		return v.enumID
	case KVerdict:
		return v.verdictVal.String()
	case KBstr:
		return "'" + v.str.String() + "'B"
	case KHstr:
		return "'" + v.str.String() + "'H"
	case KOstr:
		return "'" + v.str.String() + "'O"
	case KCstr:
		return quoteCharstring(v.str.String())
	case KIso2022str:
		return quoteCharstring(v.str.String())
	case KUstr:
		return reprUstr(v.ustr)
	case KChoice:
		return fmt.Sprintf("{ %s := %s }", v.choiceAlt, v.choiceVal.StringRepr())
	case KSeqOf:
		return reprList(v.elems)
	case KSetOf:
		return reprList(v.elems)
	case KArray:
		return reprList(v.elems)
	case KSeq, KSet:
		return reprNamed(v.named)
	case KOid:
		return "objid " + reprOidComps(v.oidComps)
	case KRoid:
		return reprOidComps(v.oidComps)
	case KNamedBits:
		return reprNamedBits(v.namedBits)
	case KCharSyms:
		return strings.Join(v.charSyms, " ")
	case KRefd, KRefer:
		if v.ref != nil {
			return v.ref.Name
		}
		return "<unresolved reference>"
	case KExpr:
		return reprExpr(v)
	case KMacro:
		return reprMacro(v.macroKind)
	case KInvoke:
		return reprInvoke(v)
	case KFunction, KAltstep, KTestcase:
		return v.assignmentID
	case KAnyValue:
		return "?" + reprLengthRestriction(v.lengthRestr)
	case KAnyOrOmit:
		return "*" + reprLengthRestriction(v.lengthRestr)
	case KUndefLowerId:
		return v.enumID
	case KUndefBlock:
		return "<unparsed block>"
	case KError:
		return "<error: " + string(v.errKind) + ">"
	}
	return "<?>"
}

// reprFloat matches spec's rule for Real values: fixed-point for
// magnitudes in [1e-4, 1e10), exponential otherwise (the same threshold
// the governing language's printer uses so folded constants echo back
// in the form a user would type).
func reprFloat(f float64) string {
	switch {
	case f != f:
		return "not_a_number"
	case f >= 1e10 || f <= -1e10 || (f != 0 && f < 1e-4 && f > -1e-4):
		return strconv.FormatFloat(f, 'e', -1, 64)
	default:
		s := strconv.FormatFloat(f, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	}
}

// quoteCharstring escapes the control characters and quote marks spec's
// canonical charstring representation requires (\", \\, and non-
// printable octets as \ooo).
func quoteCharstring(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			b.WriteString(`""`)
		case c == '\\':
			b.WriteString(`\\`)
		case c < 0x20 || c == 0x7f:
			fmt.Fprintf(&b, `\%03o`, c)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// reprUstr renders each non-ASCII quadruple as char(g,p,r,c) and each
// printable ASCII one inline, matching spec's universal-charstring
// literal form (a Ustr rarely round-trips to a single quoted run, so
// this reports the quadruple boundary explicitly rather than guessing
// at an encoding).
func reprUstr(u strval.UString) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, q := range u.Quads() {
		if q.Group == 0 && q.Plane == 0 && q.Row == 0 && q.Cell >= 0x20 && q.Cell < 0x7f && q.Cell != '"' && q.Cell != '\\' {
			b.WriteByte(q.Cell)
			continue
		}
		fmt.Fprintf(&b, `" & char(%d, %d, %d, %d) & "`, q.Group, q.Plane, q.Row, q.Cell)
	}
	b.WriteByte('"')
	return collapseEmptyConcat(b.String())
}

// collapseEmptyConcat removes the `"" & ` / ` & ""` noise left when a
// quadruple run starts or ends the string (reprUstr builds the general
// concat form unconditionally for simplicity, then tidies the edges).
func collapseEmptyConcat(s string) string {
	s = strings.ReplaceAll(s, `"" & `, "")
	s = strings.ReplaceAll(s, ` & ""`, "")
	return s
}

func reprList(elems []*Value) string {
	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = e.StringRepr()
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

func reprNamed(named []NamedValue) string {
	parts := make([]string, len(named))
	for i, nv := range named {
		parts[i] = fmt.Sprintf("%s := %s", nv.Name, nv.Value.StringRepr())
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

func reprOidComps(comps []OidComp) string {
	parts := make([]string, len(comps))
	for i, c := range comps {
		if c.Name != "" {
			parts[i] = fmt.Sprintf("%s(%d)", c.Name, c.Number)
		} else {
			parts[i] = strconv.Itoa(c.Number)
		}
	}
	return "{ " + strings.Join(parts, " ") + " }"
}

func reprNamedBits(bits map[string]bool) string {
	var names []string
	for name, set := range bits {
		if set {
			names = append(names, name)
		}
	}
	return "(" + strings.Join(names, ", ") + ")"
}

func reprExpr(v *Value) string {
	parts := make([]string, len(v.operands))
	for i, o := range v.operands {
		parts[i] = o.StringRepr()
	}
	return fmt.Sprintf("%s(%s)", v.op.String(), strings.Join(parts, ", "))
}

func reprMacro(k MacroKind) string {
	switch k {
	case MacroFileName:
		return "__FILE__"
	case MacroLineNumber:
		return "__LINE__"
	case MacroModuleId:
		return "__MODULE__"
	case MacroDefinitionId:
		return "__BFILE__"
	case MacroScope:
		return "__SCOPE__"
	case MacroTestcaseId:
		return "__TESTCASENAME__"
	}
	return "<macro>"
}

func reprInvoke(v *Value) string {
	parts := make([]string, len(v.invokeArgs))
	for i, a := range v.invokeArgs {
		parts[i] = a.StringRepr()
	}
	return fmt.Sprintf("%s(%s)", v.invokeCallee.StringRepr(), strings.Join(parts, ", "))
}

func reprLengthRestriction(lr *LengthRestriction) string {
	if lr == nil {
		return ""
	}
	if lr.Max < 0 {
		return fmt.Sprintf(" length(%d..infinity)", lr.Min)
	}
	if lr.Min == lr.Max {
		return fmt.Sprintf(" length(%d)", lr.Min)
	}
	return fmt.Sprintf(" length(%d..%d)", lr.Min, lr.Max)
}
