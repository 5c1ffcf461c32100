package bst

import (
	"errors"
	"math/rand/v2"
	"time"
)

// ErrEmptyKey is returned when a value's key is the empty string.
var ErrEmptyKey = errors.New("bst: empty key")

const nilNode int32 = -1

type node[V any] struct {
	key   string
	value V
	left  int32
	right int32
}

// Shuffler permutes n elements in place. *rand.Rand from math/rand and
// math/rand/v2 both satisfy it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// Tree is an arena-backed binary search tree ordered by a string key.
type Tree[V any] struct {
	keyFn func(V) string

	nodes []node[V]
	free  []int32
	root  int32
	size  int

	totalComparisons uint64
	buildDuration    time.Duration
}

// New creates an empty tree. keyFn extracts the ordering key from a value.
func New[V any](keyFn func(V) string) *Tree[V] {
	return &Tree[V]{
		keyFn: keyFn,
		root:  nilNode,
	}
}

// Len returns the number of nodes.
func (t *Tree[V]) Len() int {
	return t.size
}

// Clear removes all nodes and resets the counters.
func (t *Tree[V]) Clear() {
	t.nodes = nil
	t.free = nil
	t.root = nilNode
	t.size = 0
	t.totalComparisons = 0
	t.buildDuration = 0
}

// Insert adds v to the tree. If a node with the same key exists its value is
// replaced in place and inserted is false. comparisons is the number of nodes
// examined on the way down.
func (t *Tree[V]) Insert(v V) (inserted bool, comparisons int, err error) {
	key := t.keyFn(v)
	if key == "" {
		return false, 0, ErrEmptyKey
	}

	if t.root == nilNode {
		t.root = t.alloc(key, v)
		t.size++
		return true, 0, nil
	}

	cur := t.root
	for {
		comparisons++
		n := &t.nodes[cur]

		if key == n.key {
			n.value = v
			t.totalComparisons += uint64(comparisons)
			return false, comparisons, nil
		}

		if key < n.key {
			if n.left == nilNode {
				idx := t.alloc(key, v)
				t.nodes[cur].left = idx
				break
			}
			cur = n.left
			continue
		}

		if n.right == nilNode {
			idx := t.alloc(key, v)
			t.nodes[cur].right = idx
			break
		}
		cur = n.right
	}

	t.size++
	t.totalComparisons += uint64(comparisons)
	return true, comparisons, nil
}

// Search looks up key. comparisons is the number of nodes examined, including
// the matching node. On a miss it is the number of nodes visited before the
// search ran off the tree.
func (t *Tree[V]) Search(key string) (v V, comparisons int, ok bool) {
	if key == "" {
		return v, 0, false
	}

	cur := t.root
	for cur != nilNode {
		comparisons++
		n := &t.nodes[cur]
		switch {
		case key == n.key:
			return n.value, comparisons, true
		case key < n.key:
			cur = n.left
		default:
			cur = n.right
		}
	}
	return v, comparisons, false
}

// Update replaces the value stored under key. It returns false if key is absent.
// The new value must carry the same key.
func (t *Tree[V]) Update(key string, v V) bool {
	idx := t.find(key)
	if idx == nilNode {
		return false
	}
	t.nodes[idx].value = v
	return true
}

// Delete removes the node with the given key.
//
// A leaf is dropped, a node with one child is replaced by that child, and a node
// with two children takes over the content of its in-order successor, which is
// then unlinked from the right subtree.
func (t *Tree[V]) Delete(key string) bool {
	parent := nilNode
	cur := t.root
	for cur != nilNode {
		n := &t.nodes[cur]
		if key == n.key {
			break
		}
		parent = cur
		if key < n.key {
			cur = n.left
		} else {
			cur = n.right
		}
	}
	if cur == nilNode {
		return false
	}

	n := &t.nodes[cur]
	if n.left != nilNode && n.right != nilNode {
		succParent := cur
		succ := n.right
		for t.nodes[succ].left != nilNode {
			succParent = succ
			succ = t.nodes[succ].left
		}

		n.key = t.nodes[succ].key
		n.value = t.nodes[succ].value

		// The successor has no left child.
		if succParent == cur {
			t.nodes[succParent].right = t.nodes[succ].right
		} else {
			t.nodes[succParent].left = t.nodes[succ].right
		}
		t.release(succ)
	} else {
		child := n.left
		if child == nilNode {
			child = n.right
		}
		t.relink(parent, cur, child)
		t.release(cur)
	}

	t.size--
	return true
}

// InOrder returns all values in ascending key order.
func (t *Tree[V]) InOrder() []V {
	out := make([]V, 0, t.size)
	t.Ascend(func(v V) bool {
		out = append(out, v)
		return true
	})
	return out
}

// Ascend calls fn for each value in ascending key order until fn returns false.
// The tree must not be modified during iteration.
func (t *Tree[V]) Ascend(fn func(v V) bool) {
	stack := make([]int32, 0, 32)
	cur := t.root
	for cur != nilNode || len(stack) > 0 {
		for cur != nilNode {
			stack = append(stack, cur)
			cur = t.nodes[cur].left
		}
		cur = stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(t.nodes[cur].value) {
			return
		}
		cur = t.nodes[cur].right
	}
}

// Build clears the tree and inserts values in a random order. Values with an
// empty key are counted as rejected and skipped. A nil shuffler uses the
// math/rand/v2 global source.
func (t *Tree[V]) Build(values []V, shuffler Shuffler) BuildStats {
	start := time.Now()
	t.Clear()

	stats := BuildStats{}
	if len(values) == 0 {
		return stats
	}

	shuffled := make([]V, len(values))
	copy(shuffled, values)
	swap := func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] }
	if shuffler != nil {
		shuffler.Shuffle(len(shuffled), swap)
	} else {
		rand.Shuffle(len(shuffled), swap)
	}

	t.nodes = make([]node[V], 0, len(values))
	for _, v := range shuffled {
		inserted, _, err := t.Insert(v)
		switch {
		case err != nil:
			stats.Rejected++
		case inserted:
			stats.Inserted++
		default:
			stats.Duplicates++
		}
	}

	t.buildDuration = time.Since(start)

	shape := t.shape()
	stats.Size = t.size
	stats.Duration = t.buildDuration
	stats.MaxDepth = shape.maxDepth
	stats.AverageDepth = shape.averageDepth
	stats.Balanced = shape.balanced
	return stats
}

func (t *Tree[V]) find(key string) int32 {
	cur := t.root
	for cur != nilNode {
		n := &t.nodes[cur]
		switch {
		case key == n.key:
			return cur
		case key < n.key:
			cur = n.left
		default:
			cur = n.right
		}
	}
	return nilNode
}

// relink points the slot in parent that referenced old at repl.
func (t *Tree[V]) relink(parent, old, repl int32) {
	switch {
	case parent == nilNode:
		t.root = repl
	case t.nodes[parent].left == old:
		t.nodes[parent].left = repl
	default:
		t.nodes[parent].right = repl
	}
}

func (t *Tree[V]) alloc(key string, v V) int32 {
	n := node[V]{key: key, value: v, left: nilNode, right: nilNode}
	if k := len(t.free); k > 0 {
		idx := t.free[k-1]
		t.free = t.free[:k-1]
		t.nodes[idx] = n
		return idx
	}
	t.nodes = append(t.nodes, n)
	return int32(len(t.nodes) - 1)
}

func (t *Tree[V]) release(idx int32) {
	t.nodes[idx] = node[V]{left: nilNode, right: nilNode}
	t.free = append(t.free, idx)
}
