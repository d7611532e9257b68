package tree

// Visitor is called for each node in document order. ancestors holds the
// chain from the walk root down to the node's parent; it is reused between
// calls, so copy it to keep it. Returning false stops the walk.
type Visitor func(n *Node, ancestors []*Node) bool

type frame struct {
	n    *Node
	next int
}

// Walk visits root and every node below it in document order (pre-order).
// It keeps ancestor context on an explicit stack instead of recursing.
func Walk(root *Node, fn Visitor) {
	if root == nil {
		return
	}
	if !fn(root, nil) {
		return
	}
	stack := []frame{{n: root}}
	ancestors := []*Node{root}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next >= len(top.n.Children) {
			stack = stack[:len(stack)-1]
			ancestors = ancestors[:len(ancestors)-1]
			continue
		}
		child := top.n.Children[top.next]
		top.next++
		if !fn(child, ancestors) {
			return
		}
		stack = append(stack, frame{n: child})
		ancestors = append(ancestors, child)
	}
}

// Locate finds target below root and returns a copy of its ancestor chain
// (root first, parent last). The chain is empty when target is root.
func Locate(root, target *Node) ([]*Node, bool) {
	var chain []*Node
	found := false
	Walk(root, func(n *Node, ancestors []*Node) bool {
		if n == target {
			chain = append([]*Node(nil), ancestors...)
			found = true
			return false
		}
		return true
	})
	return chain, found
}

// Contains reports whether target is root or one of its descendants.
func Contains(root, target *Node) bool {
	if root == nil || target == nil {
		return false
	}
	_, ok := Locate(root, target)
	return ok
}

// TextNodes returns the text nodes below root in document order.
func TextNodes(root *Node) []*Node {
	var out []*Node
	Walk(root, func(n *Node, _ []*Node) bool {
		if n.Type == TextNode {
			out = append(out, n)
		}
		return true
	})
	return out
}

// Path addresses a node by child indexes from the root.
// Path{0, 2} is root.Children[0].Children[2].
type Path []int

// At returns the node at path below root, or nil if the path is invalid.
func (n *Node) At(path Path) *Node {
	cur := n
	for _, i := range path {
		if cur == nil || i < 0 || i >= len(cur.Children) {
			return nil
		}
		cur = cur.Children[i]
	}
	return cur
}

// PathOf returns the path of target below root.
func PathOf(root, target *Node) (Path, error) {
	chain, ok := Locate(root, target)
	if !ok {
		return nil, ErrNotFound
	}
	path := make(Path, 0, len(chain))
	for i, anc := range chain {
		var child *Node
		if i+1 < len(chain) {
			child = chain[i+1]
		} else {
			child = target
		}
		path = append(path, IndexOf(anc, child))
	}
	return path, nil
}
