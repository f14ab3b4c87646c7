package chocquery

// claimSet tracks which token positions have been consumed by a slot.
// Each position may be claimed at most once.
type claimSet struct {
	claimed []bool
	n       int
}

func newClaimSet(size int) *claimSet {
	return &claimSet{claimed: make([]bool, size)}
}

// claim marks idx as consumed. It returns false if idx is out of range
// or was already claimed by another slot.
func (c *claimSet) claim(idx int) bool {
	if idx < 0 || idx >= len(c.claimed) || c.claimed[idx] {
		return false
	}
	c.claimed[idx] = true
	c.n++
	return true
}

// complete reports whether every position has been claimed.
func (c *claimSet) complete() bool {
	return c.n == len(c.claimed)
}

// unclaimed returns the positions nobody consumed, in order.
func (c *claimSet) unclaimed() []int {
	var out []int
	for i, ok := range c.claimed {
		if !ok {
			out = append(out, i)
		}
	}
	return out
}

// memberSet builds a lookup set from a vocabulary list.
func memberSet[T ~string](words ...T) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[string(w)] = true
	}
	return m
}
