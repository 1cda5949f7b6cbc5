package fold

import "valuefold/internal/value"

// unfoldCheck is the re-entry guard playing the role spec §5 calls
// "UnfoldabilityCheck::running": a set of Values currently being probed
// within one top-level IsUnfoldable call (each call creates a fresh
// one; it is not shared process-wide), so a cycle among non-Refd Values (which RefChain
// doesn't see, since it only tracks Assignment full-names) still
// terminates — revisiting one short-circuits to "unfoldable" rather
// than recursing forever.
type unfoldCheck struct {
	running map[*value.Value]bool
}

func newUnfoldCheck() *unfoldCheck {
	return &unfoldCheck{running: make(map[*value.Value]bool)}
}

// IsUnfoldable is spec §4.D's predicate: false iff v can be reduced to
// a literal at compile time. chain carries the Assignment-name cycle
// guard; a fresh unfoldCheck guards the Value-identity recursion within
// this single top-level call.
func IsUnfoldable(chain *RefChain, v *value.Value) bool {
	return isUnfoldable(chain, newUnfoldCheck(), v)
}

func isUnfoldable(chain *RefChain, guard *unfoldCheck, v *value.Value) bool {
	if v == nil || v.IsError() {
		return true
	}
	if guard.running[v] {
		return true
	}
	guard.running[v] = true
	defer delete(guard.running, v)

	switch v.Kind() {
	case value.KRefd:
		return refdUnfoldable(chain, guard, v)
	case value.KExpr:
		return exprUnfoldable(chain, guard, v)
	case value.KSeqOf, value.KSetOf, value.KArray:
		for _, e := range v.Elems() {
			if isUnfoldable(chain, guard, e) {
				return true
			}
		}
		return false
	case value.KSeq, value.KSet:
		for _, nv := range v.Named() {
			if isUnfoldable(chain, guard, nv.Value) {
				return true
			}
		}
		return false
	case value.KChoice:
		return isUnfoldable(chain, guard, v.ChoiceVal())
	case value.KRefer, value.KInvoke, value.KFunction, value.KAltstep, value.KTestcase,
		value.KUndefLowerId, value.KUndefBlock:
		return true
	default:
		// Every atomic/string kind (and the wildcard template kinds,
		// which are literals of themselves) is trivially foldable.
		return false
	}
}

func refdUnfoldable(chain *RefChain, guard *unfoldCheck, v *value.Value) bool {
	ref := v.Ref()
	if ref == nil || ref.Assignment == nil {
		return true
	}
	switch ref.Assignment.Kind() {
	case value.AssignConst, value.AssignASN1ConstLike:
	default:
		return true
	}
	mark := chain.MarkState()
	defer chain.PrevState(mark)
	if !chain.Add(ref.Assignment.FullName()) {
		return true // CycleDetected: a cycle folds to unfoldable, not a loop
	}
	target := ref.Assignment.ConstValue()
	if target == nil {
		return true
	}
	if isUnfoldable(chain, guard, target) {
		return true
	}
	for _, sr := range ref.SubRefs {
		if sr.Index != nil && isUnfoldable(chain, guard, sr.Index) {
			return true
		}
	}
	return false
}

func exprUnfoldable(chain *RefChain, guard *unfoldCheck, v *value.Value) bool {
	info := v.Op().Info()
	if info.Fold == value.FoldNever {
		return true
	}
	operands := v.Operands()
	if info.Fold == value.FoldShortCircuit && len(operands) == 2 {
		v1 := operands[0]
		if isUnfoldable(chain, guard, v1) {
			return true
		}
		if shortCircuitDetermined(v.Op(), v1) {
			return false // v2 is never consulted; the literal v1 decides it
		}
		return isUnfoldable(chain, guard, operands[1])
	}
	for _, opnd := range operands {
		if isUnfoldable(chain, guard, opnd) {
			return true
		}
	}
	return false
}

// shortCircuitDetermined reports whether v1 (already known foldable)
// settles an and/or expression on its own: `false and X` and `true or
// X` never need X to be foldable.
func shortCircuitDetermined(op value.Operator, v1 *value.Value) bool {
	if v1.Kind() != value.KBool {
		return false
	}
	switch op {
	case value.OpAnd:
		return !v1.BoolVal()
	case value.OpOr:
		return v1.BoolVal()
	}
	return false
}
