package consensus

import (
	"fmt"

	"github.com/prometheus/common/log"

	"github.com/medledger/provenance/types"
)

// SyncResult reports the outcome of a fork-length comparison. The
// coordinator only reports what would happen; it never swaps local state
// for a remote chain.
type SyncResult struct {
	// Synced is true when the local chain is the best known chain.
	Synced bool
	// ChainValid is false when the only chains longer than the local one
	// failed validation.
	ChainValid bool
	// WouldReplace is true when a longer valid candidate exists.
	WouldReplace bool
	LocalLength  int
	BestLength   int
}

// SyncChain compares the local chain against candidate chains. With no
// candidates the local chain is reported as synced without deep
// verification. Candidates go through a lightweight shape check (genesis
// form, previous-hash linkage, well-formed hashes — not full hash
// recomputation); the longest chain among those that validate wins the
// comparison.
func (c *Coordinator) SyncChain(candidates [][]*types.Block) *SyncResult {
	local := c.ledger.GetChainLength()
	result := &SyncResult{
		Synced:      true,
		ChainValid:  true,
		LocalLength: local,
		BestLength:  local,
	}
	if len(candidates) == 0 {
		return result
	}

	longerSeen := false
	for _, chain := range candidates {
		if len(chain) <= local {
			continue
		}
		longerSeen = true
		if !validateChainShape(chain) {
			continue
		}
		if len(chain) > result.BestLength {
			result.BestLength = len(chain)
			result.WouldReplace = true
			result.Synced = false
		}
	}

	if longerSeen && !result.WouldReplace {
		// Longer chains exist but none of them validate.
		result.ChainValid = false
	}
	if result.WouldReplace {
		log.Info(fmt.Sprintf("Found longer valid chain: %d blocks vs local %d", result.BestLength, local))
	}
	return result
}

// validateChainShape runs the lightweight candidate checks: a well-formed
// genesis, previous-hash linkage, and hex-shaped block hashes.
func validateChainShape(chain []*types.Block) bool {
	if len(chain) == 0 {
		return false
	}

	genesis := chain[0]
	if genesis == nil || genesis.Index != 0 || genesis.PreviousHash != types.GenesisPreviousHash {
		return false
	}
	if !types.IsHexHash(genesis.Hash) {
		return false
	}

	for i := 1; i < len(chain); i++ {
		block := chain[i]
		if block == nil || block.Index != int64(i) {
			return false
		}
		if !types.IsHexHash(block.Hash) {
			return false
		}
		if block.PreviousHash != chain[i-1].Hash {
			return false
		}
	}
	return true
}
