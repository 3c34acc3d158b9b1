package art

import (
	"bytes"
	"fmt"
)

// dumper renders a tree (or any subtree) as a human-readable tree diagram,
// for debugging and for tests that assert on structural shape. Adapted from
// the box-drawing layout of a teacher's own debug dumper, generalized from
// a tagged nodeHeader union to the plain child interface.
type dumper struct {
	buf         *bytes.Buffer
	nChildStack []int
}

// Dump renders root and everything reachable from it.
func Dump(root child) string {
	d := &dumper{buf: bytes.NewBufferString("")}
	d.dumpNode(root)
	return d.buf.String()
}

func (d *dumper) isLastChild() bool {
	if len(d.nChildStack) < 1 {
		return true
	}
	return d.nChildStack[len(d.nChildStack)-1] == 1
}

func (d *dumper) padding() (string, string) {
	depth := len(d.nChildStack)
	if depth == 0 {
		return "───", "   "
	}
	pad := "    "
	for i := 0; i < depth-1; i++ {
		if d.nChildStack[i] > 1 {
			pad += "│   "
		} else {
			pad += "    "
		}
	}
	head := "├──"
	finalPad := "│  "
	if d.isLastChild() {
		head = "└──"
		finalPad = "   "
	}
	return pad + head, pad + finalPad
}

func (d *dumper) pushNChildren(n int) { d.nChildStack = append(d.nChildStack, n) }

func (d *dumper) decNChildren() {
	if len(d.nChildStack) < 1 {
		return
	}
	d.nChildStack[len(d.nChildStack)-1]--
}

func (d *dumper) popNChildren() {
	if depth := len(d.nChildStack); depth > 0 {
		d.nChildStack = d.nChildStack[0 : depth-1]
	}
}

func (d *dumper) dumpHeader(pad string, h *header) {
	n := h.prefixLen
	if n > prefixCapacity {
		n = prefixCapacity
	}
	fmt.Fprintf(d.buf, "%s prefix(%d): %q\n", pad, h.prefixLen, string(h.prefix[:n]))
	if h.inplaceLeaf == nil {
		fmt.Fprintf(d.buf, "%s inplaceLeaf: nil\n", pad)
	} else {
		fmt.Fprintf(d.buf, "%s inplaceLeaf: key=%q val=%q\n", pad, h.inplaceLeaf.key, h.inplaceLeaf.value)
	}
}

func (d *dumper) dumpChildren(pad string, children []child) {
	live := make([]child, 0, len(children))
	for _, c := range children {
		if c != nil {
			live = append(live, c)
		}
	}
	d.pushNChildren(len(live))
	for _, c := range live {
		d.dumpNode(c)
		d.decNChildren()
	}
	d.popNChildren()
}

func (d *dumper) dumpNode(n child) {
	headerPad, pad := d.padding()

	switch v := n.(type) {
	case *leaf:
		fmt.Fprintf(d.buf, "%s Leaf (%p)\n", headerPad, v)
		fmt.Fprintf(d.buf, "%s key: %q\n", pad, v.key)
		fmt.Fprintf(d.buf, "%s val: %q\n", pad, v.value)

	case *node4:
		fmt.Fprintf(d.buf, "%s node4 (%p) count=%d\n", headerPad, v, v.count)
		d.dumpHeader(pad, &v.header)
		d.dumpChildren(pad, v.children[:v.count])

	case *node16:
		fmt.Fprintf(d.buf, "%s node16 (%p) count=%d\n", headerPad, v, v.count)
		d.dumpHeader(pad, &v.header)
		d.dumpChildren(pad, v.children[:v.count])

	case *node48:
		fmt.Fprintf(d.buf, "%s node48 (%p) count=%d\n", headerPad, v, v.count)
		d.dumpHeader(pad, &v.header)
		live := make([]child, 0, v.count)
		for b := 0; b < 256; b++ {
			if slot := v.index[b]; slot != 0 {
				live = append(live, v.children[slot-1])
			}
		}
		d.dumpChildren(pad, live)

	case *node256:
		fmt.Fprintf(d.buf, "%s node256 (%p) count=%d\n", headerPad, v, v.count)
		d.dumpHeader(pad, &v.header)
		d.dumpChildren(pad, v.children[:])

	case nil:
		fmt.Fprintf(d.buf, "%s <empty>\n", headerPad)
	}
}
