package consensus

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/prometheus/common/log"

	"github.com/medledger/provenance/ledger"
	"github.com/medledger/provenance/registry"
	"github.com/medledger/provenance/types"
)

// Coordinator drives block-approval voting. It reads the ledger and triggers
// mining on it, but never mutates chain state directly; proposals and votes
// are exclusively its own.
type Coordinator struct {
	mu        sync.Mutex
	cfg       *Config
	ledger    *ledger.Ledger
	registry  *registry.Registry
	proposals map[string]*trackedProposal
}

// ProposalResult reports the state of a proposal right after it was
// registered (and after the proposer's automatic vote, if cast).
type ProposalResult struct {
	ConsensusReached bool
	BlockHash        string
	Block            *types.Block
	Votes            []*types.Vote
	YesVotes         int
	TotalNodes       int
	Threshold        float64
}

// ConsensusStatus is a read-only tally snapshot for one proposal.
type ConsensusStatus struct {
	BlockHash        string
	YesVotes         int
	NoVotes          int
	TotalVotes       int
	TotalNodes       int
	Threshold        float64
	ConsensusReached bool
	Mined            bool
}

// New creates a Coordinator over a ledger and a node registry. A nil cfg
// uses DefaultConfig.
func New(cfg *Config, l *ledger.Ledger, r *registry.Registry) (*Coordinator, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.ValidateBasic(); err != nil {
		return nil, err
	}
	return &Coordinator{
		cfg:       cfg,
		ledger:    l,
		registry:  r,
		proposals: make(map[string]*trackedProposal),
	}, nil
}

// ProposeBlock validates the given transactions, merges them into the
// ledger's pending pool (skipping duplicates by id or by identical
// from/to/data content), and registers a candidate block over the full pool
// snapshot. The proposal's identity hash is computed before any
// proof-of-work. If the proposal passes validation the proposer casts an
// automatic yes vote, which may already reach quorum on small registries.
func (c *Coordinator) ProposeBlock(txs []*types.Transaction) (*ProposalResult, error) {
	if len(txs) == 0 {
		return nil, ErrNoTransactions
	}
	for _, tx := range txs {
		if err := ledger.ValidateTransaction(tx); err != nil {
			return nil, fmt.Errorf("%w: transaction %q", ErrInvalidTransaction, tx.ID)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.mergeIntoPool(txs); err != nil {
		return nil, err
	}

	snapshot := c.ledger.PendingTransactions()
	root, err := c.ledger.CalculateMerkleRoot(snapshot)
	if err != nil {
		return nil, err
	}

	tip := c.ledger.GetLatestBlock()
	block := &types.Block{
		Index:        int64(c.ledger.GetChainLength()),
		Timestamp:    time.Now().UnixMilli(),
		Transactions: snapshot,
		PreviousHash: tip.Hash,
		MerkleRoot:   root,
	}

	id := types.ProposalID(block.Index, block.PreviousHash, block.MerkleRoot)
	tracked, exists := c.proposals[id]
	if !exists {
		tracked = &trackedProposal{block: block}
		c.proposals[id] = tracked
		log.Info(fmt.Sprintf("Registered proposal %s for block %d (%d transactions)",
			id, block.Index, len(block.Transactions)))
	}

	// Proposer auto-vote, only when the proposal itself validates. Runs
	// through the same path as relayed votes, so quorum on a single-node
	// registry mines immediately.
	if !tracked.hasVoted(c.registry.NodeID()) && c.validateProposal(tracked.block) {
		if err := c.castVoteLocked(c.registry.NodeID(), id, true); err != nil {
			return nil, err
		}
	}

	yes := tracked.yesVotes()
	total := c.registry.NodeCount()
	return &ProposalResult{
		ConsensusReached: c.quorumReached(yes, total),
		BlockHash:        id,
		Block:            types.CopyBlock(tracked.block),
		Votes:            tracked.voteSnapshot(),
		YesVotes:         yes,
		TotalNodes:       total,
		Threshold:        c.cfg.QuorumThreshold,
	}, nil
}

// mergeIntoPool adds caller transactions the pool does not already hold.
// Caller must hold c.mu.
func (c *Coordinator) mergeIntoPool(txs []*types.Transaction) error {
	pool := c.ledger.PendingTransactions()
	for _, tx := range txs {
		if poolContains(pool, tx) {
			continue
		}
		stored, err := c.ledger.AddTransaction(tx)
		if err != nil {
			return fmt.Errorf("%w: transaction %q", ErrInvalidTransaction, tx.ID)
		}
		pool = append(pool, stored)
	}
	return nil
}

func poolContains(pool []*types.Transaction, tx *types.Transaction) bool {
	for _, p := range pool {
		if tx.ID != "" && p.ID == tx.ID {
			return true
		}
		if types.TransactionContentEqual(p, tx) {
			return true
		}
	}
	return false
}

// ValidateBlockProposal checks a candidate block structurally: required
// fields, a merkle root that matches its transactions, and a previous hash
// consistent with the chain (the current tip for a not-yet-mined index, the
// stored block otherwise). Returns a boolean only; it never reports why.
func (c *Coordinator) ValidateBlockProposal(b *types.Block) bool {
	return c.validateProposal(b)
}

func (c *Coordinator) validateProposal(b *types.Block) bool {
	if b == nil {
		return false
	}
	if b.Index < 0 || b.Timestamp <= 0 || b.PreviousHash == "" || b.MerkleRoot == "" {
		return false
	}

	root, err := c.ledger.CalculateMerkleRoot(b.Transactions)
	if err != nil || root != b.MerkleRoot {
		return false
	}

	if b.Index >= int64(c.ledger.GetChainLength()) {
		return b.PreviousHash == c.ledger.GetLatestBlock().Hash
	}

	stored, err := c.ledger.GetBlock(b.Index)
	if err != nil {
		return false
	}
	return b.PreviousHash == stored.PreviousHash && b.MerkleRoot == stored.MerkleRoot
}

// VoteOnBlock casts the local node's vote on a proposal.
func (c *Coordinator) VoteOnBlock(blockHash string, isValid bool) error {
	return c.CastVote(c.registry.NodeID(), blockHash, isValid)
}

// CastVote records a vote by nodeID on a proposal. The node must be
// registered, may vote once per proposal, and may only vote yes on a
// proposal that still validates. When the yes fraction reaches the
// threshold, mining is triggered best-effort: a mining failure is logged and
// the vote stands.
func (c *Coordinator) CastVote(nodeID, blockHash string, isValid bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.castVoteLocked(nodeID, blockHash, isValid)
}

func (c *Coordinator) castVoteLocked(nodeID, blockHash string, isValid bool) error {
	if !c.registry.HasNode(nodeID) {
		return fmt.Errorf("%w: %s", ErrUnknownNode, nodeID)
	}
	tracked, ok := c.proposals[blockHash]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownProposal, blockHash)
	}
	if tracked.hasVoted(nodeID) {
		return fmt.Errorf("%w: node %s already voted on %s", ErrDuplicateVote, nodeID, blockHash)
	}
	if isValid && !c.validateProposal(tracked.block) {
		return fmt.Errorf("%w: yes vote on invalid proposal %s", ErrInvalidVote, blockHash)
	}

	tracked.votes = append(tracked.votes, &types.Vote{
		NodeID:    nodeID,
		BlockHash: blockHash,
		IsValid:   isValid,
		Timestamp: time.Now().UnixMilli(),
		Signature: types.VoteSignature(blockHash, isValid, nodeID),
	})

	yes := tracked.yesVotes()
	total := c.registry.NodeCount()
	if isValid && !tracked.mined && c.quorumReached(yes, total) {
		log.Info(fmt.Sprintf("Quorum reached on proposal %s (%d/%d yes)", blockHash, yes, total))
		if _, err := c.ledger.MinePendingTransactions(); err != nil {
			// Best effort: the recorded vote stands.
			log.Error(fmt.Sprintf("Mining after quorum on %s failed: %s", blockHash, err))
		} else {
			tracked.mined = true
		}
	}
	return nil
}

// CheckConsensus returns a read-only tally snapshot for a proposal.
func (c *Coordinator) CheckConsensus(blockHash string) (*ConsensusStatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	tracked, ok := c.proposals[blockHash]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProposal, blockHash)
	}

	yes := tracked.yesVotes()
	total := c.registry.NodeCount()
	return &ConsensusStatus{
		BlockHash:        blockHash,
		YesVotes:         yes,
		NoVotes:          len(tracked.votes) - yes,
		TotalVotes:       len(tracked.votes),
		TotalNodes:       total,
		Threshold:        c.cfg.QuorumThreshold,
		ConsensusReached: c.quorumReached(yes, total),
		Mined:            tracked.mined,
	}, nil
}

// OpenProposals returns the sorted ids of proposals still awaiting quorum.
func (c *Coordinator) OpenProposals() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	ids := make([]string, 0, len(c.proposals))
	for id, p := range c.proposals {
		if !p.mined {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// HandleNodeFailure reacts to an externally reported node failure: the node
// leaves the registry, its votes are stripped from every open proposal, and
// each proposal's quorum is re-evaluated against the smaller registry. A
// proposal that now clears the threshold is mined best-effort and cleared on
// success.
func (c *Coordinator) HandleNodeFailure(nodeID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if nodeID == c.registry.NodeID() {
		return fmt.Errorf("%w: cannot fail the local node %s", ErrUnknownNode, nodeID)
	}
	if !c.registry.HasNode(nodeID) {
		return fmt.Errorf("%w: %s", ErrUnknownNode, nodeID)
	}

	c.registry.RemoveNode(nodeID)
	log.Info(fmt.Sprintf("Handling failure of node %s", nodeID))

	total := c.registry.NodeCount()
	for id, tracked := range c.proposals {
		removed := tracked.removeVotes(nodeID)
		if tracked.mined {
			continue
		}
		yes := tracked.yesVotes()
		if yes == 0 || !c.quorumReached(yes, total) {
			continue
		}
		log.Info(fmt.Sprintf("Proposal %s reaches quorum after failure of %s (%d/%d yes, %d votes removed)",
			id, nodeID, yes, total, removed))
		if _, err := c.ledger.MinePendingTransactions(); err != nil {
			log.Error(fmt.Sprintf("Mining after node failure on %s failed: %s", id, err))
			continue
		}
		delete(c.proposals, id)
	}
	return nil
}

func (c *Coordinator) quorumReached(yes, total int) bool {
	if total <= 0 {
		return false
	}
	return float64(yes)/float64(total) >= c.cfg.QuorumThreshold
}
