package art

// Tree is an Adaptive Radix Tree mapping byte-string keys to byte-string
// values. The zero value is not usable; construct one with New. A Tree is
// not safe for concurrent use: callers must serialize every Insert and
// Delete against each other and against any concurrent Get.
type Tree struct {
	root  child
	size  int
	alloc allocator
}

// New returns an empty tree.
func New() *Tree {
	return &Tree{alloc: allocator{failAfter: -1}}
}

// Len reports the number of distinct keys currently stored.
func (t *Tree) Len() int { return t.size }

// Get looks up key and returns its value. It returns ErrNotFound if no
// leaf in the tree carries key.
func (t *Tree) Get(key []byte) ([]byte, error) {
	cur := t.root
	var depth uint32

	for {
		if cur == nil {
			return nil, ErrNotFound
		}
		if l, ok := cur.(*leaf); ok {
			if l.match(key) {
				return l.value, nil
			}
			return nil, ErrNotFound
		}

		h := asHeader(cur)
		_, _, full := checkPrefix(cur, h, key, depth)
		if !full {
			return nil, ErrNotFound
		}
		depth += h.prefixLen

		if depth == uint32(len(key)) {
			if h.inplaceLeaf != nil && h.inplaceLeaf.match(key) {
				return h.inplaceLeaf.value, nil
			}
			return nil, ErrNotFound
		}

		cur = findChildOf(cur, key[depth])
		depth++
	}
}

// Insert adds key with value. If key already had a value, the old value is
// replaced and replaced reports true; otherwise a new leaf is added, size
// grows by one, and replaced reports false. An allocation failure leaves
// the tree exactly as it was before the call.
func (t *Tree) Insert(key, value []byte) (replaced bool, err error) {
	newRoot, added, err := insertAt(&t.alloc, t.root, key, value, 0)
	if err != nil {
		return false, wrapAllocErr("insert", err)
	}
	t.root = newRoot
	if added {
		t.size++
	}
	return !added, nil
}

// Destroy releases the tree's root reference. The core has no arena or
// explicit free list to walk — every node is an ordinary GC-owned Go value
// — so destruction is just dropping the last reference; the garbage
// collector reclaims the rest. Provided for symmetry with the documented
// external interface and so callers have an explicit point at which to
// assert the tree is empty.
func (t *Tree) Destroy() {
	t.root = nil
	t.size = 0
}

// Delete removes key. It returns ErrNotFound if no leaf carries key.
func (t *Tree) Delete(key []byte) error {
	if t.root == nil {
		return ErrNotFound
	}
	newRoot, found := deleteAt(t.root, key, 0)
	if !found {
		return ErrNotFound
	}
	t.root = newRoot
	t.size--
	return nil
}

// checkPrefix matches key[depth:] against cur's logical prefix, verifying
// any optimistic tail against a representative leaf reachable through cur.
// matched is the number of bytes confirmed to match starting at depth;
// diverge is the offset (from depth) at which a mismatch was found when
// full is false. full is true iff the entire logical prefix matched.
func checkPrefix(cur child, h *header, key []byte, depth uint32) (matched, diverge uint32, full bool) {
	inline := h.prefixLen
	if inline > prefixCapacity {
		inline = prefixCapacity
	}
	m := h.matchPrefix(key, depth)
	if m < inline {
		return m, m, false
	}
	if h.prefixLen <= prefixCapacity {
		return m, m, true
	}

	rep := minimumLeaf(cur)
	if rep == nil {
		logger.Warn("art: internal node with optimistic prefix has no reachable leaf")
		return m, m, false
	}

	tailLen := h.prefixLen - prefixCapacity
	var avail uint32
	if uint32(len(key)) > depth+inline {
		avail = uint32(len(key)) - depth - inline
	}
	n := tailLen
	if avail < n {
		n = avail
	}
	var i uint32
	for ; i < n; i++ {
		if key[depth+inline+i] != rep.key[depth+inline+i] {
			break
		}
	}
	matched = inline + i
	if i < tailLen {
		return matched, matched, false
	}
	return matched, matched, true
}

// insertAt inserts (key, value) into the subtree rooted at cur, which
// occupies its parent's slot at logical depth. It returns the node that
// must occupy that slot afterward (unchanged, mutated in place, or a
// replacement grown/split node), whether a new leaf was added, and any
// allocation error. On error the subtree rooted at cur is left exactly as
// it was: every allocation this function needs succeeds before any node in
// the existing subtree is mutated.
func insertAt(a *allocator, cur child, key, value []byte, depth uint32) (child, bool, error) {
	if cur == nil {
		nl, err := a.newLeaf(key, value)
		if err != nil {
			return nil, false, err
		}
		return nl, true, nil
	}

	if l, ok := cur.(*leaf); ok {
		return insertIntoLeaf(a, l, key, value, depth)
	}

	h := asHeader(cur)
	_, diverge, full := checkPrefix(cur, h, key, depth)
	if !full {
		return splitNode(a, cur, h, key, value, depth, diverge)
	}

	depth += h.prefixLen
	if depth == uint32(len(key)) {
		nl, err := a.newLeaf(key, value)
		if err != nil {
			return cur, false, err
		}
		added := h.inplaceLeaf == nil
		h.inplaceLeaf = nl
		return cur, added, nil
	}

	b := key[depth]
	existing := findChildOf(cur, b)
	if existing == nil {
		nl, err := a.newLeaf(key, value)
		if err != nil {
			return cur, false, err
		}
		grown, err := addChildOf(a, cur, b, nl)
		if err != nil {
			return cur, false, err
		}
		return grown, true, nil
	}

	newChild, added, err := insertAt(a, existing, key, value, depth+1)
	if err != nil {
		return cur, false, err
	}
	if newChild != existing {
		replaceChildOf(cur, b, newChild)
	}
	return cur, added, nil
}

// insertIntoLeaf handles the case where descent reaches a leaf: either an
// exact-key match (value replacement) or a divergence that must split the
// leaf into a fresh N4 holding both the old and new leaves.
func insertIntoLeaf(a *allocator, l *leaf, key, value []byte, depth uint32) (child, bool, error) {
	if l.match(key) {
		nl, err := a.newLeaf(key, value)
		if err != nil {
			return l, false, err
		}
		return nl, false, nil
	}

	lcp := longestCommonPrefix(key, l.key, depth)
	n4, err := a.newNode4()
	if err != nil {
		return l, false, err
	}
	nl, err := a.newLeaf(key, value)
	if err != nil {
		return l, false, err
	}
	n4.setPrefix(key[depth:], int(lcp))

	splitPoint := depth + lcp
	kDone := splitPoint >= uint32(len(key))
	lDone := splitPoint >= uint32(len(l.key))

	switch {
	case kDone:
		n4.inplaceLeaf = nl
		res, _ := addChildOf(a, n4, l.key[splitPoint], l)
		return res, true, nil
	case lDone:
		n4.inplaceLeaf = l
		res, _ := addChildOf(a, n4, key[splitPoint], nl)
		return res, true, nil
	default:
		res, _ := addChildOf(a, n4, l.key[splitPoint], l)
		res2, _ := addChildOf(a, res, key[splitPoint], nl)
		return res2, true, nil
	}
}

// splitNode handles a prefix divergence discovered inside an existing
// internal node's logical prefix: a new N4 is introduced above it, carrying
// the matched bytes as its own prefix, with the old node (prefix-trimmed)
// and a fresh leaf for (key, value) as its two children.
func splitNode(a *allocator, cur child, h *header, key, value []byte, depth, diverge uint32) (child, bool, error) {
	// A representative leaf is needed to read any part of the logical
	// prefix beyond the inline window — both to determine edgeOld when the
	// divergence falls in the unmaterialized tail, and to re-derive the old
	// node's trimmed prefix when the node is optimistic at all (even if
	// diverge itself falls inside the inline bytes, trimming it shortens
	// the logical prefix and may pull previously-unmaterialized tail bytes
	// into the new inline window).
	var rep *leaf
	if h.prefixLen > prefixCapacity {
		rep = minimumLeaf(cur)
		if rep == nil {
			logger.Warn("art: internal node with optimistic prefix has no reachable leaf")
			return cur, false, ErrAllocationFailure
		}
	}

	var edgeOld byte
	if diverge < h.prefixLen && diverge < prefixCapacity {
		edgeOld = h.prefix[diverge]
	} else {
		edgeOld = rep.key[depth+diverge]
	}

	n4, err := a.newNode4()
	if err != nil {
		return cur, false, err
	}

	splitPoint := depth + diverge
	useInplace := splitPoint >= uint32(len(key))
	nl, err := a.newLeaf(key, value)
	if err != nil {
		return cur, false, err
	}

	n4.setPrefix(key[depth:], int(diverge))
	h.leftTrimPrefix(diverge+1, rep, depth)

	res, _ := addChildOf(a, n4, edgeOld, cur)
	n4r := res.(*node4)
	if useInplace {
		n4r.inplaceLeaf = nl
		return n4r, true, nil
	}
	res2, _ := addChildOf(a, n4r, key[splitPoint], nl)
	return res2, true, nil
}

// deleteAt removes key from the subtree rooted at cur. It returns the node
// that must occupy cur's former slot (possibly nil, if cur itself was the
// matching leaf) and whether key was found at all.
func deleteAt(cur child, key []byte, depth uint32) (child, bool) {
	if l, ok := cur.(*leaf); ok {
		if l.match(key) {
			return nil, true
		}
		return cur, false
	}

	h := asHeader(cur)
	_, _, full := checkPrefix(cur, h, key, depth)
	if !full {
		return cur, false
	}
	depth += h.prefixLen

	if depth == uint32(len(key)) {
		if h.inplaceLeaf != nil && h.inplaceLeaf.match(key) {
			h.inplaceLeaf = nil
			if h.count == 0 {
				return nil, true
			}
			return maybeCollapse(cur, h), true
		}
		return cur, false
	}

	b := key[depth]
	existing := findChildOf(cur, b)
	if existing == nil {
		return cur, false
	}

	newChild, found := deleteAt(existing, key, depth+1)
	if !found {
		return cur, false
	}
	if newChild == nil {
		shrunk := removeChildOf(cur, b)
		sh := asHeader(shrunk)
		if sh.count == 0 && sh.inplaceLeaf == nil {
			// Every child is gone and this node terminates nothing itself:
			// it is now a dead end, so it is removed from its own parent in
			// turn rather than left as an empty, unreachable-by-invariant
			// internal node.
			return nil, true
		}
		return maybeCollapse(shrunk, sh), true
	}
	if newChild != existing {
		replaceChildOf(cur, b, newChild)
	}
	return cur, true
}

// maybeCollapse folds an N4 parent with exactly one remaining child (and no
// in-place leaf of its own) back into that child, merging the parent's
// prefix, the edge byte, and the child's prefix into one run. Collapse is
// skipped — the node is left as a one-child N4 rather than merged — when
// either prefix is optimistic, since reconstructing the true logical bytes
// behind a truncated optimistic prefix would require re-reading them from a
// leaf; the node remains correct, just not maximally compact.
func maybeCollapse(cur child, h *header) child {
	n4, ok := cur.(*node4)
	if !ok || h.inplaceLeaf != nil || n4.count != 1 {
		return cur
	}
	onlyByte := n4.keys[0]
	onlyChild := n4.children[0]

	if _, isLeaf := onlyChild.(*leaf); isLeaf {
		return onlyChild
	}
	if h.prefixLen > prefixCapacity {
		return cur
	}
	childHeader := asHeader(onlyChild)
	if childHeader.prefixLen > prefixCapacity {
		return cur
	}

	merged := make([]byte, 0, h.prefixLen+1+childHeader.prefixLen)
	merged = append(merged, h.prefix[:h.prefixLen]...)
	merged = append(merged, onlyByte)
	merged = append(merged, childHeader.prefix[:childHeader.prefixLen]...)
	childHeader.setPrefix(merged, len(merged))
	return onlyChild
}

// longestCommonPrefix returns the number of matching bytes between a and b
// starting at offset depth in each.
func longestCommonPrefix(a, b []byte, depth uint32) uint32 {
	var i uint32
	for depth+i < uint32(len(a)) && depth+i < uint32(len(b)) {
		if a[depth+i] != b[depth+i] {
			break
		}
		i++
	}
	return i
}
