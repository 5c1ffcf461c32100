package bst

import (
	"math"
	"time"
)

// BuildStats summarizes a Build call.
type BuildStats struct {
	Size         int
	Inserted     int
	Duplicates   int
	Rejected     int
	Duration     time.Duration
	MaxDepth     int
	AverageDepth float64
	Balanced     bool
}

// Stats describes the current shape of the tree.
type Stats struct {
	Size int
	// MaxDepth is the number of nodes on the longest root-to-leaf path.
	MaxDepth int
	// AverageDepth is the mean number of edges between the root and each node.
	AverageDepth float64
	// Balanced is true iff every node's subtree heights differ by at most one.
	Balanced bool
	// OptimalDepth is ceil(log2(Size+1)), the height of a perfectly balanced tree.
	OptimalDepth int
	// TotalComparisons accumulates node comparisons spent by Insert since the
	// last Clear.
	TotalComparisons uint64
	BuildDuration    time.Duration
}

// Stats computes the tree's shape statistics. It walks every node.
func (t *Tree[V]) Stats() Stats {
	shape := t.shape()
	return Stats{
		Size:             t.size,
		MaxDepth:         shape.maxDepth,
		AverageDepth:     shape.averageDepth,
		Balanced:         shape.balanced,
		OptimalDepth:     OptimalDepth(t.size),
		TotalComparisons: t.totalComparisons,
		BuildDuration:    t.buildDuration,
	}
}

// OptimalDepth returns ceil(log2(n+1)).
func OptimalDepth(n int) int {
	if n <= 0 {
		return 0
	}
	return int(math.Ceil(math.Log2(float64(n + 1))))
}

type shape struct {
	maxDepth     int
	averageDepth float64
	balanced     bool
}

func (t *Tree[V]) shape() shape {
	if t.root == nilNode {
		return shape{balanced: true}
	}

	type frame struct {
		idx   int32
		depth int
	}

	var totalDepth, count int
	stack := []frame{{idx: t.root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		totalDepth += f.depth
		count++

		n := &t.nodes[f.idx]
		if n.left != nilNode {
			stack = append(stack, frame{idx: n.left, depth: f.depth + 1})
		}
		if n.right != nilNode {
			stack = append(stack, frame{idx: n.right, depth: f.depth + 1})
		}
	}

	height, balanced := t.heightBalanced(t.root)
	return shape{
		maxDepth:     height,
		averageDepth: float64(totalDepth) / float64(count),
		balanced:     balanced,
	}
}

// heightBalanced returns the height of the subtree rooted at idx (in nodes) and
// whether every node in it satisfies the height-difference bound.
func (t *Tree[V]) heightBalanced(idx int32) (int, bool) {
	if idx == nilNode {
		return 0, true
	}
	n := &t.nodes[idx]
	lh, lb := t.heightBalanced(n.left)
	rh, rb := t.heightBalanced(n.right)

	diff := lh - rh
	if diff < 0 {
		diff = -diff
	}
	return max(lh, rh) + 1, lb && rb && diff <= 1
}
