package merkle

import (
	"fmt"

	"github.com/medledger/provenance/types"
)

// Position tags which side of the running hash a proof step's sibling sits
// on when the pair is recombined.
type Position string

const (
	// Left means the sibling hash is prepended before rehashing.
	Left Position = "left"
	// Right means the sibling hash is appended before rehashing.
	Right Position = "right"
)

// ProofStep is one hop of an inclusion proof.
type ProofStep struct {
	Hash     string   `json:"hash"`
	Position Position `json:"position"`
}

// Proof is an inclusion proof for a single leaf.
type Proof struct {
	Leaf string      `json:"leaf"`
	Path []ProofStep `json:"path"`
	Root string      `json:"root"`
}

// BatchEntry is one item of a batch verification request. Root may be empty,
// in which case the proof's own root is used.
type BatchEntry struct {
	Data  any
	Proof *Proof
	Root  string
}

// Proof builds an inclusion proof for target, which may be the original item
// or its precomputed 64-hex-character leaf hash. The leaf is located by
// exact hash equality; a miss returns ErrLeafNotFound with a bounded preview
// of the target.
func (t *Tree) Proof(target any) (*Proof, error) {
	leaf, err := targetHash(target)
	if err != nil {
		return nil, err
	}

	idx := -1
	if len(t.levels) > 0 {
		for i, h := range t.levels[0] {
			if h == leaf {
				idx = i
				break
			}
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrLeafNotFound, preview(target))
	}

	proof := &Proof{Leaf: leaf, Root: t.Root()}
	pos := idx
	for level := 0; level < len(t.levels)-1; level++ {
		nodes := t.levels[level]
		if pos%2 == 0 {
			sibling := nodes[pos] // self, when the level has an odd tail
			if pos+1 < len(nodes) {
				sibling = nodes[pos+1]
			}
			proof.Path = append(proof.Path, ProofStep{Hash: sibling, Position: Right})
		} else {
			proof.Path = append(proof.Path, ProofStep{Hash: nodes[pos-1], Position: Left})
		}
		pos /= 2
	}
	return proof, nil
}

// VerifyProof replays proof from the leaf up and compares the result to
// expectedRoot, or to proof.Root when expectedRoot is empty. When item is
// non-nil its hash replaces the proof's recorded leaf, so a tampered item
// fails even against an honest proof. Any shape mismatch returns false.
func VerifyProof(item any, proof *Proof, expectedRoot string) bool {
	if proof == nil {
		return false
	}

	leaf := proof.Leaf
	if item != nil {
		h, err := targetHash(item)
		if err != nil {
			return false
		}
		leaf = h
	}
	if !types.IsHexHash(leaf) {
		return false
	}

	current := leaf
	for _, step := range proof.Path {
		if !types.IsHexHash(step.Hash) {
			return false
		}
		switch step.Position {
		case Left:
			current = combine(step.Hash, current)
		case Right:
			current = combine(current, step.Hash)
		default:
			return false
		}
	}

	root := expectedRoot
	if root == "" {
		root = proof.Root
	}
	if root == "" {
		return false
	}
	return current == root
}

// VerifyBatch verifies every entry independently and returns the logical AND
// of the results. An empty batch verifies trivially.
func VerifyBatch(entries []BatchEntry) bool {
	for _, e := range entries {
		if !VerifyProof(e.Data, e.Proof, e.Root) {
			return false
		}
	}
	return true
}

// targetHash resolves a proof target to its leaf hash: a well-formed hex
// digest passes through unchanged, anything else is hashed as an item.
func targetHash(target any) (string, error) {
	if s, ok := target.(string); ok && types.IsHexHash(s) {
		return s, nil
	}
	return types.HashItem(target)
}
