package types

import "fmt"

// GenesisPreviousHash is the previous-hash marker of the genesis block.
const GenesisPreviousHash = "0"

// Block is one element of the hash chain. For every block after genesis,
// PreviousHash equals the hash of the preceding block, Hash satisfies the
// configured proof-of-work difficulty, and MerkleRoot summarizes
// Transactions in their original insertion order.
type Block struct {
	Index        int64          `json:"index"`
	Timestamp    int64          `json:"timestamp"`
	Transactions []*Transaction `json:"transactions"`
	PreviousHash string         `json:"previousHash"`
	Nonce        int64          `json:"nonce"`
	Hash         string         `json:"hash"`
	MerkleRoot   string         `json:"merkleRoot"`
}

// ComputeBlockHash hashes the block's content fields (everything except the
// stored Hash itself) through canonical JSON. Recomputing this for a stored
// block and comparing against Block.Hash is the tamper check.
func ComputeBlockHash(b *Block) (string, error) {
	payload := map[string]any{
		"index":        b.Index,
		"timestamp":    b.Timestamp,
		"transactions": b.Transactions,
		"previousHash": b.PreviousHash,
		"nonce":        b.Nonce,
		"merkleRoot":   b.MerkleRoot,
	}
	data, err := CanonicalJSON(payload)
	if err != nil {
		return "", fmt.Errorf("block hash: %w", err)
	}
	return HashBytes(data), nil
}

// ProposalID derives the stable identity of a candidate block. It covers
// only fields fixed before mining, so the id survives the nonce search and
// votes keyed by it can be reconciled against the mined block.
func ProposalID(index int64, previousHash, merkleRoot string) string {
	return HashString(fmt.Sprintf("%d:%s:%s", index, previousHash, merkleRoot))
}

// CopyBlock creates a deep copy of a block and its transactions.
func CopyBlock(b *Block) *Block {
	if b == nil {
		return nil
	}
	return &Block{
		Index:        b.Index,
		Timestamp:    b.Timestamp,
		Transactions: CopyTransactions(b.Transactions),
		PreviousHash: b.PreviousHash,
		Nonce:        b.Nonce,
		Hash:         b.Hash,
		MerkleRoot:   b.MerkleRoot,
	}
}

// CopyBlocks deep copies a slice of blocks, preserving order.
func CopyBlocks(blocks []*Block) []*Block {
	if blocks == nil {
		return nil
	}
	out := make([]*Block, len(blocks))
	for i, b := range blocks {
		out[i] = CopyBlock(b)
	}
	return out
}
