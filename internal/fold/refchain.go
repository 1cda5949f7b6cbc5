// Package fold implements component D: the Checker (operand-domain
// gating, type inference) and the Folder (foldability analysis,
// cycle-guarded constant evaluation) that sit on top of internal/value.
package fold

// RefChain is the ordered set of full-names spec §4.D describes:
// get_value_refd_last's single entry point threads one of these through
// every Refd resolution to catch `const a := b; const b := a;`-style
// cycles. mark_state/prev_state let each operand of a multi-operand
// expression visit the chain independently, so a cycle discovered while
// folding operand 1 doesn't poison the visit to operand 2.
type RefChain struct {
	names []string
	seen  map[string]int // name -> count, since the same const may be
	                      // legitimately revisited after a prev_state pop
}

func NewRefChain() *RefChain {
	return &RefChain{seen: make(map[string]int)}
}

// Add appends name to the chain, returning false iff name is already on
// it — the caller's cue to report CycleDetected instead of recursing.
func (c *RefChain) Add(name string) bool {
	if c.seen[name] > 0 {
		return false
	}
	c.names = append(c.names, name)
	c.seen[name]++
	return true
}

// MarkState snapshots the chain length so a later PrevState can roll
// back exactly the names pushed since this mark.
func (c *RefChain) MarkState() int { return len(c.names) }

// PrevState restores the chain to a prior MarkState, decrementing the
// seen-count of everything popped (spec: "each operand's visit is
// independent").
func (c *RefChain) PrevState(mark int) {
	for i := len(c.names) - 1; i >= mark; i-- {
		name := c.names[i]
		c.seen[name]--
		if c.seen[name] <= 0 {
			delete(c.seen, name)
		}
	}
	c.names = c.names[:mark]
}
