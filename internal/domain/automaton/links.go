package automaton

// suffixLink returns the node of v's longest proper suffix that is also a
// trie prefix. It recurses into transition on shallower nodes only, so the
// mutual recursion terminates. The first resolution registers v in the
// target's linkedFrom list.
func (t *trie) suffixLink(v int32) int32 {
	if l := t.nodes[v].link; l != none {
		return l
	}

	var l int32
	p := t.nodes[v].parent
	if v == root || p == root {
		l = root
	} else {
		l = t.transition(t.suffixLink(p), t.nodes[v].symbol)
	}

	t.nodes[v].link = l
	if v != root {
		t.nodes[l].linkedFrom = append(t.nodes[l].linkedFrom, v)
	}
	return l
}

// transition is the automaton's goto function: a direct trie edge when one
// exists, the root for a missing edge out of the root, otherwise the
// transition of v's suffix link. Every resolved pair is cached.
func (t *trie) transition(v int32, c Symbol) int32 {
	i := int(v)*t.alphabet + int(c)
	if n := t.next[i]; n != none {
		return n
	}

	var n int32
	switch {
	case t.children[i] != none:
		n = t.children[i]
	case v == root:
		n = root
	default:
		n = t.transition(t.suffixLink(v), c)
	}

	t.next[i] = n
	return n
}

// step reads the goto table without resolving. Valid only after compile,
// when the table is total.
func (t *trie) step(v int32, c Symbol) int32 {
	return t.next[int(v)*t.alphabet+int(c)]
}
