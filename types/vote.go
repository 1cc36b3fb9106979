package types

import "fmt"

// Vote records one node's verdict on a block proposal. BlockHash is the
// proposal's stable id, not the eventual mined hash.
type Vote struct {
	NodeID    string `json:"nodeId"`
	BlockHash string `json:"blockHash"`
	IsValid   bool   `json:"isValid"`
	Timestamp int64  `json:"timestamp"`
	Signature string `json:"signature"`
}

// VoteSignature derives the placeholder signature for a vote. This is a
// plain content hash, not a cryptographic signature: the core runs inside a
// permissioned single process and does no key management.
func VoteSignature(blockHash string, isValid bool, nodeID string) string {
	return HashString(fmt.Sprintf("%s:%t:%s", blockHash, isValid, nodeID))
}

// CopyVote creates a copy of a vote.
func CopyVote(v *Vote) *Vote {
	if v == nil {
		return nil
	}
	voteCopy := *v
	return &voteCopy
}
