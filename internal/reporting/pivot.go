package reporting

// PivotResult is the hierarchical count breakdown returned by the search
// backend. A node without Pivot is a leaf.
type PivotResult struct {
	Value string        `json:"value"`
	Count *int64        `json:"count,omitempty"`
	Pivot []PivotResult `json:"pivot,omitempty"`
}

type pivotFrame struct {
	node *PivotResult
	path []string
}

// ParsePivot flattens a pivot tree into a ValueVector keyed by tuples as wide
// as dimensions. Every node yields a row for its own path padded with blanks,
// followed by the rows of its children, in backend order. The root yields the
// all-blank tuple carrying the tree's top-level count (nil when absent).
// Levels deeper than the dimension count are ignored.
func ParsePivot(dimensions []string, tree PivotResult) *ValueVector {
	width := len(dimensions)
	vec := NewValueVector(width)
	vec.Set(vec.RootKey(), tree.Count)
	if width == 0 {
		return vec
	}

	stack := make([]pivotFrame, 0, len(tree.Pivot))
	stack = pushChildren(stack, &tree, nil)

	for len(stack) > 0 {
		frame := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		vec.Set(padKey(frame.path, width), frame.node.Count)

		if len(frame.path) < width {
			stack = pushChildren(stack, frame.node, frame.path)
		}
	}

	return vec
}

// pushChildren pushes in reverse so that pops follow backend order.
func pushChildren(stack []pivotFrame, parent *PivotResult, path []string) []pivotFrame {
	for i := len(parent.Pivot) - 1; i >= 0; i-- {
		child := &parent.Pivot[i]
		childPath := make([]string, len(path), len(path)+1)
		copy(childPath, path)
		stack = append(stack, pivotFrame{node: child, path: append(childPath, child.Value)})
	}
	return stack
}

func padKey(path []string, width int) []string {
	key := make([]string, width)
	copy(key, path)
	return key
}
