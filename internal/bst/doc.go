// Package bst provides the ordered identifier index: an unbalanced binary search
// tree keyed by string, stored in an arena of nodes.
//
// Nodes live in a single slice and refer to their children by int32 index. Freed
// slots are recycled through an explicit free list, so a tree that churns through
// inserts and deletes does not grow without bound. Each node has exactly one parent
// slot pointing at it; there is no sharing between subtrees.
//
// The tree does not rebalance. Build shuffles its input before inserting so that
// pre-sorted identifiers (the common case when loading from a database) do not
// degrade the tree into a linked list.
//
// Tree is not safe for concurrent use. The owning cache serializes access.
package bst
