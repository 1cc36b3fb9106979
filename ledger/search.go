package ledger

import (
	"strings"

	"github.com/medledger/provenance/types"
)

// SearchResult is a matched transaction annotated with the block that
// contains it.
type SearchResult struct {
	Transaction    *types.Transaction `json:"transaction"`
	BlockIndex     int64              `json:"blockIndex"`
	BlockHash      string             `json:"blockHash"`
	BlockTimestamp int64              `json:"blockTimestamp"`
}

// SearchTransactions scans every mined block for transactions matching all
// criteria. Keys address top-level fields (id, from, to, timestamp) or use
// dotted paths into the data payload (e.g. "data.action"). A transaction
// matches only if every criterion resolves to an equal value.
func (l *Ledger) SearchTransactions(criteria map[string]any) []*SearchResult {
	l.mu.RLock()
	defer l.mu.RUnlock()

	results := make([]*SearchResult, 0)
	for _, block := range l.chain {
		for _, tx := range block.Transactions {
			if matchesCriteria(tx, criteria) {
				results = append(results, &SearchResult{
					Transaction:    types.CopyTransaction(tx),
					BlockIndex:     block.Index,
					BlockHash:      block.Hash,
					BlockTimestamp: block.Timestamp,
				})
			}
		}
	}
	return results
}

func matchesCriteria(tx *types.Transaction, criteria map[string]any) bool {
	for key, want := range criteria {
		got, ok := resolveField(tx, key)
		if !ok {
			return false
		}
		if !types.CanonicalEqual(got, want) {
			return false
		}
	}
	return true
}

// resolveField looks up a criterion key on a transaction. Dotted paths are
// walked through nested maps under data.
func resolveField(tx *types.Transaction, key string) (any, bool) {
	switch key {
	case "id":
		return tx.ID, true
	case "from":
		return tx.From, true
	case "to":
		return tx.To, true
	case "timestamp":
		return tx.Timestamp, true
	case "data":
		return tx.Data, true
	}

	if rest, ok := strings.CutPrefix(key, "data."); ok {
		return resolvePath(tx.Data, strings.Split(rest, "."))
	}
	return nil, false
}

func resolvePath(data map[string]any, path []string) (any, bool) {
	var current any = data
	for _, part := range path {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}
