package automaton

// linkPostOrder walks the suffix-link tree (edges from a node to the nodes
// whose suffix link points at it) and returns every node after all of its
// linkedFrom descendants. Iterative: a trie built from one long pattern makes
// the tree as deep as the pattern.
func (t *trie) linkPostOrder() []int32 {
	type frame struct {
		v    int32
		next int
	}
	order := make([]int32, 0, len(t.nodes))
	stack := []frame{{v: root}}
	for len(stack) > 0 {
		top := len(stack) - 1
		from := t.nodes[stack[top].v].linkedFrom
		if i := stack[top].next; i < len(from) {
			stack[top].next++
			stack = append(stack, frame{v: from[i]})
			continue
		}
		order = append(order, stack[top].v)
		stack = stack[:top]
	}
	return order
}

// aggregate turns per-node visit counts into per-pattern occurrence counts:
// total(v) = visits(v) + sum of total over v's linkedFrom nodes. order must
// be a suffix-link post-order, so every node is final before it is added to
// its link.
func (t *trie) aggregate(order []int32, visits []int64) []int64 {
	total := make([]int64, len(t.nodes))
	copy(total, visits)
	for _, v := range order {
		if v == root {
			continue
		}
		total[t.nodes[v].link] += total[v]
	}

	counts := make([]int64, t.patterns)
	for v := range t.nodes {
		for _, id := range t.nodes[v].patterns {
			counts[id] = total[v]
		}
	}
	return counts
}
