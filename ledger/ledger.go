package ledger

import (
	"fmt"
	"sync"
	"time"

	uuid "github.com/nu7hatch/gouuid"
	"github.com/prometheus/common/log"

	"github.com/medledger/provenance/merkle"
	"github.com/medledger/provenance/types"
)

// Ledger owns the block chain and the pending transaction pool. It is the
// only component that appends blocks; the consensus coordinator triggers
// mining but never mutates chain state directly.
type Ledger struct {
	mu      sync.RWMutex
	cfg     *Config
	chain   []*types.Block
	pending []*types.Transaction
}

// New creates a Ledger with its genesis block in place. A nil cfg uses
// DefaultConfig.
func New(cfg *Config) (*Ledger, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.ValidateBasic(); err != nil {
		return nil, err
	}
	l := &Ledger{cfg: cfg}
	if _, err := l.CreateGenesisBlock(); err != nil {
		return nil, err
	}
	return l, nil
}

// CreateGenesisBlock creates the index-0 block. Idempotent: if the chain is
// non-empty it returns a copy of the existing genesis.
func (l *Ledger) CreateGenesisBlock() (*types.Block, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.chain) > 0 {
		return types.CopyBlock(l.chain[0]), nil
	}

	genesis := &types.Block{
		Index:        0,
		Timestamp:    time.Now().UnixMilli(),
		Transactions: []*types.Transaction{},
		PreviousHash: types.GenesisPreviousHash,
		MerkleRoot:   types.EmptyHash(),
	}
	hash, err := types.ComputeBlockHash(genesis)
	if err != nil {
		return nil, fmt.Errorf("genesis: %w", err)
	}
	genesis.Hash = hash
	l.chain = append(l.chain, genesis)

	log.Info(fmt.Sprintf("Genesis block created, hash %s", hash))
	return types.CopyBlock(genesis), nil
}

// AddTransaction validates tx, assigns an id and timestamp where missing,
// appends it to the pending pool, and returns a copy of the stored
// transaction. The stored transaction is never mutated afterwards.
func (l *Ledger) AddTransaction(tx *types.Transaction) (*types.Transaction, error) {
	if err := ValidateTransaction(tx); err != nil {
		return nil, err
	}

	stored := types.CopyTransaction(tx)
	if stored.ID == "" {
		id, err := newTransactionID()
		if err != nil {
			return nil, fmt.Errorf("assign transaction id: %w", err)
		}
		stored.ID = id
	}
	if stored.Timestamp == 0 {
		stored.Timestamp = time.Now().UnixMilli()
	}

	l.mu.Lock()
	l.pending = append(l.pending, stored)
	l.mu.Unlock()

	return types.CopyTransaction(stored), nil
}

// MinePendingTransactions mines the current pool into a new block. The pool
// snapshot keeps its insertion order. The pool is cleared only once the
// block is appended, so a failed mine leaves it untouched.
func (l *Ledger) MinePendingTransactions() (*types.Block, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.pending) == 0 {
		return nil, ErrNothingToMine
	}

	txs := types.CopyTransactions(l.pending)
	root, err := l.merkleRoot(txs)
	if err != nil {
		return nil, err
	}

	tip := l.chain[len(l.chain)-1]
	block := &types.Block{
		Index:        int64(len(l.chain)),
		Timestamp:    time.Now().UnixMilli(),
		Transactions: txs,
		PreviousHash: tip.Hash,
		MerkleRoot:   root,
	}

	// Blocking nonce search; runs to completion once started.
	for {
		hash, err := types.ComputeBlockHash(block)
		if err != nil {
			return nil, fmt.Errorf("mine block %d: %w", block.Index, err)
		}
		if types.MeetsDifficulty(hash, l.cfg.Difficulty) {
			block.Hash = hash
			break
		}
		block.Nonce++
	}

	l.chain = append(l.chain, block)
	l.pending = nil

	log.Info(fmt.Sprintf("Mined block %d with %d transactions, nonce %d, hash %s",
		block.Index, len(block.Transactions), block.Nonce, block.Hash))
	return types.CopyBlock(block), nil
}

// CalculateMerkleRoot computes the merkle root over transactions in the
// given order. Zero transactions hash to the empty-string digest; a single
// transaction's root is its own leaf hash.
func (l *Ledger) CalculateMerkleRoot(txs []*types.Transaction) (string, error) {
	return l.merkleRoot(txs)
}

func (l *Ledger) merkleRoot(txs []*types.Transaction) (string, error) {
	if len(txs) == 0 {
		return types.EmptyHash(), nil
	}
	items := make([]any, len(txs))
	for i, tx := range txs {
		items[i] = tx
	}
	root, err := merkle.Root(items)
	if err != nil {
		return "", fmt.Errorf("merkle root: %w", err)
	}
	return root, nil
}

// CalculateBlockHash recomputes the content hash of b without storing it.
func (l *Ledger) CalculateBlockHash(b *types.Block) (string, error) {
	return types.ComputeBlockHash(b)
}

// IsChainValid recomputes every post-genesis block's hash and merkle root
// and checks previous-hash linkage. Returns false on the first mismatch.
func (l *Ledger) IsChainValid() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for i := 1; i < len(l.chain); i++ {
		block := l.chain[i]
		prev := l.chain[i-1]

		hash, err := types.ComputeBlockHash(block)
		if err != nil || hash != block.Hash {
			return false
		}
		root, err := l.merkleRoot(block.Transactions)
		if err != nil || root != block.MerkleRoot {
			return false
		}
		if block.PreviousHash != prev.Hash {
			return false
		}
	}
	return true
}

// GetLatestBlock returns a copy of the chain tip.
func (l *Ledger) GetLatestBlock() *types.Block {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return types.CopyBlock(l.chain[len(l.chain)-1])
}

// GetChainLength returns the number of blocks, genesis included.
func (l *Ledger) GetChainLength() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.chain)
}

// GetAllBlocks returns a deep copy of the chain.
func (l *Ledger) GetAllBlocks() []*types.Block {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return types.CopyBlocks(l.chain)
}

// GetBlock returns a copy of the block at index.
func (l *Ledger) GetBlock(index int64) (*types.Block, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if index < 0 || index >= int64(len(l.chain)) {
		return nil, fmt.Errorf("%w: index %d", ErrBlockNotFound, index)
	}
	return types.CopyBlock(l.chain[index]), nil
}

// PendingCount returns the number of pooled transactions.
func (l *Ledger) PendingCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.pending)
}

// PendingTransactions returns a deep copy of the pool in insertion order.
func (l *Ledger) PendingTransactions() []*types.Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return types.CopyTransactions(l.pending)
}

// ValidateTransaction checks the structural requirements for a transaction:
// non-empty from, to, and data.
func ValidateTransaction(tx *types.Transaction) error {
	if tx == nil {
		return fmt.Errorf("%w: nil transaction", ErrInvalidTransaction)
	}
	if tx.From == "" {
		return fmt.Errorf("%w: missing from", ErrInvalidTransaction)
	}
	if tx.To == "" {
		return fmt.Errorf("%w: missing to", ErrInvalidTransaction)
	}
	if len(tx.Data) == 0 {
		return fmt.Errorf("%w: missing data", ErrInvalidTransaction)
	}
	return nil
}

func newTransactionID() (string, error) {
	u, err := uuid.NewV4()
	if err != nil {
		return "", err
	}
	return u.String(), nil
}
