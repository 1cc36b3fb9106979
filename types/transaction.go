package types

// Transaction is a single provenance record submitted to the ledger. A
// transaction is immutable once created: it sits in the pending pool until
// it is mined into a block.
type Transaction struct {
	ID        string         `json:"id"`
	From      string         `json:"from"`
	To        string         `json:"to"`
	Data      map[string]any `json:"data"`
	Timestamp int64          `json:"timestamp"`
}

// CopyTransaction creates a deep copy of a Transaction, including nested
// maps and slices inside Data.
func CopyTransaction(tx *Transaction) *Transaction {
	if tx == nil {
		return nil
	}
	txCopy := &Transaction{
		ID:        tx.ID,
		From:      tx.From,
		To:        tx.To,
		Timestamp: tx.Timestamp,
	}
	if tx.Data != nil {
		txCopy.Data = copyDataMap(tx.Data)
	}
	return txCopy
}

// CopyTransactions deep copies a slice of transactions, preserving order.
func CopyTransactions(txs []*Transaction) []*Transaction {
	if txs == nil {
		return nil
	}
	out := make([]*Transaction, len(txs))
	for i, tx := range txs {
		out[i] = CopyTransaction(tx)
	}
	return out
}

// TransactionContentEqual reports whether a and b carry the same from, to,
// and data payload. Used to deduplicate pool entries whose ids differ.
func TransactionContentEqual(a, b *Transaction) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.From != b.From || a.To != b.To {
		return false
	}
	return CanonicalEqual(a.Data, b.Data)
}

func copyDataMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = copyDataValue(v)
	}
	return out
}

func copyDataValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return copyDataMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = copyDataValue(e)
		}
		return out
	default:
		return v
	}
}
