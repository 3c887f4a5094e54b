package automaton

// root is the arena index of the empty prefix.
const root int32 = 0

// none marks an absent child or an unresolved link/transition.
const none int32 = -1

// node is one distinct pattern prefix. All references are arena indices.
type node struct {
	parent     int32  // none for the root
	symbol     Symbol // edge label from parent
	depth      int32  // length of the represented prefix
	link       int32  // suffix link, none until resolved
	linkedFrom []int32
	patterns   []PatternID // patterns ending exactly here
}

// trie owns the node arena. Children and the transition cache are flattened
// tables indexed node*alphabet+symbol.
type trie struct {
	alphabet int
	nodes    []node
	children []int32
	next     []int32 // memoized goto
	patterns int
	maxDepth int32
}

func newTrie(alphabet int) *trie {
	t := &trie{alphabet: alphabet}
	t.addNode(none, 0)
	return t
}

func (t *trie) addNode(parent int32, sym Symbol) int32 {
	id := int32(len(t.nodes))
	depth := int32(0)
	if parent != none {
		depth = t.nodes[parent].depth + 1
	}
	t.nodes = append(t.nodes, node{
		parent: parent,
		symbol: sym,
		depth:  depth,
		link:   none,
	})
	for i := 0; i < t.alphabet; i++ {
		t.children = append(t.children, none)
		t.next = append(t.next, none)
	}
	if depth > t.maxDepth {
		t.maxDepth = depth
	}
	return id
}

func (t *trie) child(v int32, c Symbol) int32 {
	return t.children[int(v)*t.alphabet+int(c)]
}

// insert walks or extends the path for pattern and records a new id at its
// end. Symbols must already be validated.
func (t *trie) insert(pattern []Symbol) PatternID {
	v := root
	for _, c := range pattern {
		next := t.child(v, c)
		if next == none {
			next = t.addNode(v, c)
			t.children[int(v)*t.alphabet+int(c)] = next
		}
		v = next
	}
	id := PatternID(t.patterns)
	t.patterns++
	t.nodes[v].patterns = append(t.nodes[v].patterns, id)
	return id
}

// breadthFirst returns all node indices in order of non-decreasing depth.
func (t *trie) breadthFirst() []int32 {
	order := make([]int32, 0, len(t.nodes))
	order = append(order, root)
	for i := 0; i < len(order); i++ {
		v := order[i]
		base := int(v) * t.alphabet
		for c := 0; c < t.alphabet; c++ {
			if ch := t.children[base+c]; ch != none {
				order = append(order, ch)
			}
		}
	}
	return order
}
