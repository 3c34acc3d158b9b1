package art

import "sort"

// node16 is a node with 4-16 children, searched with binary search. The
// original ART paper (and some C/SSE implementations) compare all 16 key
// bytes at once with a SIMD broadcast-and-equal; Go has no portable way to
// reach that without hand-written assembly, so — matching the choice already
// made by the production ART embedded in the teacher's own dependency tree —
// this falls back to binary search over the sorted keys.
func (n *node16) indexOf(c byte) int {
	idx := sort.Search(int(n.count), func(i int) bool {
		return n.keys[i] >= c
	})
	if idx < int(n.count) && n.keys[idx] == c {
		return idx
	}
	return -1
}

func (n *node16) findChild(c byte) child {
	if idx := n.indexOf(c); idx >= 0 {
		return n.children[idx]
	}
	return nil
}

func (n *node16) addChild(a *allocator, c byte, ch child) (child, error) {
	if n.count < 16 {
		idx := sort.Search(int(n.count), func(i int) bool {
			return n.keys[i] >= c
		})
		for i := n.count; i > uint16(idx); i-- {
			n.keys[i] = n.keys[i-1]
			n.children[i] = n.children[i-1]
		}
		n.keys[idx] = c
		n.children[idx] = ch
		n.count++
		return n, nil
	}

	grown, err := n.grow(a)
	if err != nil {
		return nil, err
	}
	// grown has just been created with at most 16 entries against a
	// capacity of 48, so this can never itself need to grow or fail.
	res, _ := grown.addChild(a, c, ch)
	return res, nil
}

func (n *node16) grow(a *allocator) (*node48, error) {
	n48, err := a.newNode48()
	if err != nil {
		return nil, err
	}
	n48.header = n.header
	for i := uint16(0); i < n.count; i++ {
		n48.index[n.keys[i]] = uint8(i) + 1
		n48.children[i] = n.children[i]
	}
	n48.count = n.count
	return n48, nil
}

func (n *node16) removeChild(c byte) {
	idx := n.indexOf(c)
	if idx < 0 {
		return
	}
	copy(n.keys[idx:n.count-1], n.keys[idx+1:n.count])
	copy(n.children[idx:n.count-1], n.children[idx+1:n.count])
	n.count--
	n.children[n.count] = nil
}

// shrink converts this node16 into a node4. Called after removeChild has
// already dropped the departing entry, once occupancy falls to the spec's
// N16->N4 threshold.
func (n *node16) shrink() *node4 {
	n4 := &node4{}
	n4.header = n.header
	copy(n4.keys[:n.count], n.keys[:n.count])
	copy(n4.children[:n.count], n.children[:n.count])
	n4.count = n.count
	return n4
}

func (n *node16) replaceChild(c byte, ch child) {
	if idx := n.indexOf(c); idx >= 0 {
		n.children[idx] = ch
	}
}

func (n *node16) minimum() *leaf {
	if n.count > 0 {
		if l := minimumLeaf(n.children[0]); l != nil {
			return l
		}
	}
	return n.header.inplaceLeaf
}
