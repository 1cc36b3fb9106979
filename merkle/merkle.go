package merkle

import (
	"errors"
	"fmt"

	"github.com/medledger/provenance/types"
)

// ErrLeafNotFound is returned by Proof when no leaf matches the target.
var ErrLeafNotFound = errors.New("leaf not found in tree")

// previewLimit bounds how much of a search target is echoed into errors.
const previewLimit = 48

// Tree is an immutable binary Merkle tree. levels[0] holds the leaf hashes
// in build order; the last level holds the single root.
type Tree struct {
	levels [][]string
}

// Build constructs a tree over items. Each item is canonicalized and hashed
// with types.HashItem, so structurally identical items hash identically
// regardless of key order. An empty item list yields a tree with no root.
func Build(items []any) (*Tree, error) {
	leaves := make([]string, len(items))
	for i, item := range items {
		h, err := types.HashItem(item)
		if err != nil {
			return nil, fmt.Errorf("hash leaf %d: %w", i, err)
		}
		leaves[i] = h
	}
	return FromLeaves(leaves), nil
}

// FromLeaves constructs a tree directly from precomputed leaf hashes.
func FromLeaves(leaves []string) *Tree {
	if len(leaves) == 0 {
		return &Tree{}
	}
	levels := [][]string{leaves}
	current := leaves
	for len(current) > 1 {
		next := make([]string, 0, (len(current)+1)/2)
		for i := 0; i < len(current); i += 2 {
			left := current[i]
			right := left // odd trailing node pairs with itself
			if i+1 < len(current) {
				right = current[i+1]
			}
			next = append(next, combine(left, right))
		}
		levels = append(levels, next)
		current = next
	}
	return &Tree{levels: levels}
}

// Root returns the root hash, or the empty string for an empty tree.
func (t *Tree) Root() string {
	if len(t.levels) == 0 {
		return ""
	}
	top := t.levels[len(t.levels)-1]
	return top[0]
}

// LeafCount returns the number of leaves the tree was built over.
func (t *Tree) LeafCount() int {
	if len(t.levels) == 0 {
		return 0
	}
	return len(t.levels[0])
}

// Leaves returns a copy of the leaf hashes in build order.
func (t *Tree) Leaves() []string {
	if len(t.levels) == 0 {
		return nil
	}
	leaves := make([]string, len(t.levels[0]))
	copy(leaves, t.levels[0])
	return leaves
}

// Root computes the Merkle root over items without retaining the tree.
func Root(items []any) (string, error) {
	t, err := Build(items)
	if err != nil {
		return "", err
	}
	return t.Root(), nil
}

func combine(left, right string) string {
	return types.HashString(left + right)
}

// preview renders a bounded textual form of a search target for error
// messages.
func preview(target any) string {
	var s string
	switch t := target.(type) {
	case string:
		s = t
	case []byte:
		s = string(t)
	default:
		data, err := types.CanonicalJSON(t)
		if err != nil {
			s = fmt.Sprintf("%v", t)
		} else {
			s = string(data)
		}
	}
	if len(s) > previewLimit {
		return s[:previewLimit] + "..."
	}
	return s
}
